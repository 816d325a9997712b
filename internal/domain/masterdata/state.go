package masterdata

import (
	"context"
	"strings"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// State is a reference-data entry for a Malaysian state or federal
// territory, used by customer billing addresses.
type State struct {
	shared.BaseEntity
	Code      string `gorm:"type:varchar(30);not null;uniqueIndex"`
	Name      string `gorm:"type:varchar(60);not null"`
	SortOrder int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (State) TableName() string {
	return "states"
}

// NewState creates a new state entry
func NewState(code, name string) (*State, error) {
	if err := validateStateCode(code); err != nil {
		return nil, err
	}
	if err := validateStateName(name); err != nil {
		return nil, err
	}

	return &State{
		BaseEntity: shared.NewBaseEntity(),
		Code:       strings.ToUpper(strings.TrimSpace(code)),
		Name:       strings.TrimSpace(name),
	}, nil
}

// Rename updates the state's display name
func (s *State) Rename(name string) error {
	if err := validateStateName(name); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(name)
	s.UpdatedAt = time.Now()
	return nil
}

// SetSortOrder sets the display order
func (s *State) SetSortOrder(order int) {
	s.SortOrder = order
	s.UpdatedAt = time.Now()
}

func validateStateCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_STATE_CODE", "State code cannot be empty")
	}
	if len(code) > 30 {
		return shared.NewDomainError("INVALID_STATE_CODE", "State code cannot exceed 30 characters")
	}
	return nil
}

func validateStateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_STATE_NAME", "State name cannot be empty")
	}
	if len(name) > 60 {
		return shared.NewDomainError("INVALID_STATE_NAME", "State name cannot exceed 60 characters")
	}
	return nil
}

// StateRepository persists State reference data
type StateRepository interface {
	// Save persists a state
	Save(ctx context.Context, state *State) error

	// FindByID retrieves a state by ID
	FindByID(ctx context.Context, id uuid.UUID) (*State, error)

	// FindByCode retrieves a state by its code
	FindByCode(ctx context.Context, code string) (*State, error)

	// FindAll retrieves every state ordered by sort order then name
	FindAll(ctx context.Context) ([]*State, error)

	// Delete soft deletes a state
	Delete(ctx context.Context, id uuid.UUID) error
}
