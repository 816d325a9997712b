package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormQuotationRepository implements billing.QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// Save creates or updates a quotation together with its line items
func (r *GormQuotationRepository) Save(ctx context.Context, quotation *billing.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(quotation).Error; err != nil {
			return err
		}
		return saveQuotationItems(tx, quotation)
	})
}

// SaveWithLock saves a quotation with an optimistic concurrency check on
// the version column
func (r *GormQuotationRepository) SaveWithLock(ctx context.Context, quotation *billing.Quotation) error {
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
		return saveQuotationItems(tx, quotation)
	})
	if err != nil {
		quotation.Version = prev
	}
	return err
}

// FindByID finds a quotation with its items by ID
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Quotation, error) {
	var quotation billing.Quotation
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByPosition).
		First(&quotation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

// FindByNumber finds a quotation by its document number
func (r *GormQuotationRepository) FindByNumber(ctx context.Context, number string) (*billing.Quotation, error) {
	var quotation billing.Quotation
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByPosition).
		First(&quotation, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

// FindAll finds quotations matching the filter, with pagination
func (r *GormQuotationRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.Quotation], error) {
	var total int64
	countQuery := applyQuotationFilter(r.db.WithContext(ctx).Model(&billing.Quotation{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var quotations []billing.Quotation
	listQuery := applyQuotationFilter(r.db.WithContext(ctx).Model(&billing.Quotation{}), filter).
		Preload("Items", orderItemsByPosition)
	if err := applyPagination(listQuery, filter).Find(&quotations).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(quotations, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindByCustomerID finds quotations for a specific customer
func (r *GormQuotationRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.Quotation], error) {
	if filter.Filters == nil {
		filter.Filters = make(map[string]interface{})
	}
	filter.Filters["customer_id"] = customerID
	return r.FindAll(ctx, filter)
}

// FindExpiredBefore returns open quotations whose validity window has
// closed. Used by the scheduler that flips quotations to EXPIRED.
func (r *GormQuotationRepository) FindExpiredBefore(ctx context.Context, cutoff time.Time) ([]*billing.Quotation, error) {
	var quotations []*billing.Quotation
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByPosition).
		Where("status IN ? AND valid_until < ?",
			[]billing.QuotationStatus{billing.QuotationStatusDraft, billing.QuotationStatusSent}, cutoff).
		Order("valid_until ASC").
		Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// NextQuotationNumber returns the next quotation number for the month of
// the given time
func (r *GormQuotationRepository) NextQuotationNumber(ctx context.Context, at time.Time) (string, error) {
	prefix := billing.QuotationNumberPrefix(at)

	var numbers []string
	if err := r.db.WithContext(ctx).Model(&billing.Quotation{}).
		Unscoped().
		Where("number LIKE ?", prefix+"%").
		Order("number DESC").
		Limit(1).
		Pluck("number", &numbers).Error; err != nil {
		return "", err
	}

	seq := 1
	if len(numbers) > 0 {
		seq = billing.ParseNumberSequence(numbers[0]) + 1
	}
	return billing.FormatQuotationNumber(at, seq), nil
}

// ExistsByNumber checks if a quotation with the given number exists
func (r *GormQuotationRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.Quotation{}).
		Where("number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete soft-deletes a quotation
func (r *GormQuotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Quotation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts quotations matching the filter
func (r *GormQuotationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyQuotationFilter(r.db.WithContext(ctx).Model(&billing.Quotation{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// saveQuotationItems reconciles the stored line items with the aggregate's
// current ones
func saveQuotationItems(tx *gorm.DB, quotation *billing.Quotation) error {
	keep := make([]uuid.UUID, len(quotation.Items))
	for i := range quotation.Items {
		keep[i] = quotation.Items[i].ID
	}

	cleanup := tx.Where("quotation_id = ?", quotation.ID)
	if len(keep) > 0 {
		cleanup = cleanup.Where("id NOT IN ?", keep)
	}
	if err := cleanup.Delete(&billing.QuotationItem{}).Error; err != nil {
		return err
	}

	if len(quotation.Items) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&quotation.Items).Error
}

// applyQuotationFilter applies search and field filters without pagination
func applyQuotationFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ?", pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			query = query.Where("status IN ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "start_date":
			query = query.Where("issued_at >= ?", value)
		case "end_date":
			query = query.Where("issued_at <= ?", value)
		}
	}

	return query
}

// Ensure GormQuotationRepository implements QuotationRepository
var _ billing.QuotationRepository = (*GormQuotationRepository)(nil)
