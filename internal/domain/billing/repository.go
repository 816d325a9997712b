package billing

import (
	"context"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository persists Invoice aggregates
type InvoiceRepository interface {
	// Save persists an invoice and its items
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock persists an invoice using optimistic locking on Version.
	// Returns shared.ErrConcurrencyConflict when the stored version differs.
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// FindByID retrieves an invoice with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByNumber retrieves an invoice by its document number
	FindByNumber(ctx context.Context, number string) (*Invoice, error)

	// FindAll retrieves invoices matching the filter, paginated
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Invoice], error)

	// FindByCustomerID retrieves invoices for a customer, paginated
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[Invoice], error)

	// FindDueBefore retrieves SENT invoices whose due date has passed
	FindDueBefore(ctx context.Context, cutoff time.Time) ([]*Invoice, error)

	// NextInvoiceNumber returns the next document number for the month of
	// the given time, e.g. INV-202608-0007
	NextInvoiceNumber(ctx context.Context, at time.Time) (string, error)

	// ExistsByNumber checks whether an invoice number is already taken
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// Delete soft deletes an invoice
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// QuotationRepository persists Quotation aggregates
type QuotationRepository interface {
	// Save persists a quotation and its items
	Save(ctx context.Context, quotation *Quotation) error

	// SaveWithLock persists a quotation using optimistic locking on Version.
	// Returns shared.ErrConcurrencyConflict when the stored version differs.
	SaveWithLock(ctx context.Context, quotation *Quotation) error

	// FindByID retrieves a quotation with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)

	// FindByNumber retrieves a quotation by its document number
	FindByNumber(ctx context.Context, number string) (*Quotation, error)

	// FindAll retrieves quotations matching the filter, paginated
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Quotation], error)

	// FindByCustomerID retrieves quotations for a customer, paginated
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[Quotation], error)

	// FindExpiredBefore retrieves DRAFT and SENT quotations whose validity
	// date has passed
	FindExpiredBefore(ctx context.Context, cutoff time.Time) ([]*Quotation, error)

	// NextQuotationNumber returns the next document number for the month of
	// the given time, e.g. QUO-202608-0007
	NextQuotationNumber(ctx context.Context, at time.Time) (string, error)

	// ExistsByNumber checks whether a quotation number is already taken
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// Delete soft deletes a quotation
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of quotations matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// ConversionRepository commits a quotation-to-invoice conversion atomically.
// The new invoice insert and the quotation state change succeed or fail as
// one transaction; the quotation update uses optimistic locking.
type ConversionRepository interface {
	SaveConversion(ctx context.Context, quotation *Quotation, invoice *Invoice) error
}
