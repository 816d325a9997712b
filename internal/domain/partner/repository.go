package partner

import (
	"context"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository persists Customer aggregates
type CustomerRepository interface {
	// Save persists a customer
	Save(ctx context.Context, customer *Customer) error

	// FindByID retrieves a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByEmail retrieves a customer by email address
	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// FindAll retrieves customers matching the filter, paginated
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Customer], error)

	// ExistsByNRIC checks whether another customer already holds the NRIC
	ExistsByNRIC(ctx context.Context, nric string, excludeID uuid.UUID) (bool, error)

	// Delete soft deletes a customer
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
