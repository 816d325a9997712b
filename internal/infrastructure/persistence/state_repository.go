package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/billing/backend/internal/domain/masterdata"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStateRepository implements masterdata.StateRepository using GORM
type GormStateRepository struct {
	db *gorm.DB
}

// NewGormStateRepository creates a new GormStateRepository
func NewGormStateRepository(db *gorm.DB) *GormStateRepository {
	return &GormStateRepository{db: db}
}

// Save creates or updates a state
func (r *GormStateRepository) Save(ctx context.Context, state *masterdata.State) error {
	return r.db.WithContext(ctx).Save(state).Error
}

// FindByID finds a state by its ID
func (r *GormStateRepository) FindByID(ctx context.Context, id uuid.UUID) (*masterdata.State, error) {
	var state masterdata.State
	if err := r.db.WithContext(ctx).First(&state, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &state, nil
}

// FindByCode finds a state by its code
func (r *GormStateRepository) FindByCode(ctx context.Context, code string) (*masterdata.State, error) {
	var state masterdata.State
	if err := r.db.WithContext(ctx).
		First(&state, "code = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &state, nil
}

// FindAll returns all states ordered for display
func (r *GormStateRepository) FindAll(ctx context.Context) ([]*masterdata.State, error) {
	var states []*masterdata.State
	if err := r.db.WithContext(ctx).
		Order("sort_order ASC, name ASC").
		Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// Delete soft-deletes a state
func (r *GormStateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&masterdata.State{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormStateRepository implements StateRepository
var _ masterdata.StateRepository = (*GormStateRepository)(nil)
