package persistence

import (
	"context"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormConversionRepository persists a quotation-to-invoice conversion as a
// single transaction: the new invoice is inserted and the quotation is
// flipped to CONVERTED under its optimistic lock. Either both land or
// neither does.
type GormConversionRepository struct {
	db *gorm.DB
}

// NewGormConversionRepository creates a new GormConversionRepository
func NewGormConversionRepository(db *gorm.DB) *GormConversionRepository {
	return &GormConversionRepository{db: db}
}

// SaveConversion atomically stores the converted quotation and the invoice
// created from it. A concurrent modification of the quotation aborts the
// whole transaction with shared.ErrConcurrencyConflict, so no orphan
// invoice can remain.
func (r *GormConversionRepository) SaveConversion(ctx context.Context, quotation *billing.Quotation, invoice *billing.Invoice) error {
	prev := quotation.Version
	quotation.Version = prev + 1

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&billing.Quotation{}).
			Where("id = ? AND version = ?", quotation.ID, prev).
			Select("*").Omit("Items", "id", "created_at").
			Updates(quotation)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := tx.Omit("Items").Create(invoice).Error; err != nil {
			return err
		}
		if len(invoice.Items) == 0 {
			return nil
		}
		return tx.Create(&invoice.Items).Error
	})
	if err != nil {
		quotation.Version = prev
	}
	return err
}

// Ensure GormConversionRepository implements ConversionRepository
var _ billing.ConversionRepository = (*GormConversionRepository)(nil)
