package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Save creates or updates an invoice together with its line items
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(invoice).Error; err != nil {
			return err
		}
		return saveInvoiceItems(tx, invoice)
	})
}

// SaveWithLock saves an invoice with an optimistic concurrency check on the
// version column. Returns shared.ErrConcurrencyConflict when another
// transaction has modified the row since it was read.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	prev := invoice.Version
	invoice.Version = prev + 1

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&billing.Invoice{}).
			Where("id = ? AND version = ?", invoice.ID, prev).
			Select("*").Omit("Items", "id", "created_at").
			Updates(invoice)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return saveInvoiceItems(tx, invoice)
	})
	if err != nil {
		invoice.Version = prev
	}
	return err
}

// FindByID finds an invoice with its items by ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByPosition).
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds an invoice by its document number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByPosition).
		First(&invoice, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll finds invoices matching the filter, with pagination
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	var total int64
	countQuery := applyInvoiceFilter(r.db.WithContext(ctx).Model(&billing.Invoice{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var invoices []billing.Invoice
	listQuery := applyInvoiceFilter(r.db.WithContext(ctx).Model(&billing.Invoice{}), filter).
		Preload("Items", orderItemsByPosition)
	if err := applyPagination(listQuery, filter).Find(&invoices).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(invoices, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindByCustomerID finds invoices for a specific customer
func (r *GormInvoiceRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	if filter.Filters == nil {
		filter.Filters = make(map[string]interface{})
	}
	filter.Filters["customer_id"] = customerID
	return r.FindAll(ctx, filter)
}

// FindDueBefore returns SENT invoices whose due date has passed the cutoff.
// Used by the scheduler that flips invoices to OVERDUE.
func (r *GormInvoiceRepository) FindDueBefore(ctx context.Context, cutoff time.Time) ([]*billing.Invoice, error) {
	var invoices []*billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByPosition).
		Where("status = ? AND due_at < ?", billing.InvoiceStatusSent, cutoff).
		Order("due_at ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// NextInvoiceNumber returns the next invoice number for the month of the
// given time. The sequence is the highest existing suffix for the month
// plus one, restarting at 0001 each month.
func (r *GormInvoiceRepository) NextInvoiceNumber(ctx context.Context, at time.Time) (string, error) {
	prefix := billing.InvoiceNumberPrefix(at)

	var numbers []string
	if err := r.db.WithContext(ctx).Model(&billing.Invoice{}).
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
	return billing.FormatInvoiceNumber(at, seq), nil
}

// ExistsByNumber checks if an invoice with the given number exists
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.Invoice{}).
		Where("number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete soft-deletes an invoice. Line items stay in place; they are only
// reachable through their invoice.
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Invoice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyInvoiceFilter(r.db.WithContext(ctx).Model(&billing.Invoice{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// saveInvoiceItems reconciles the stored line items with the aggregate's
// current ones: rows no longer present are removed, the rest are upserted.
func saveInvoiceItems(tx *gorm.DB, invoice *billing.Invoice) error {
	keep := make([]uuid.UUID, len(invoice.Items))
	for i := range invoice.Items {
		keep[i] = invoice.Items[i].ID
	}

	cleanup := tx.Where("invoice_id = ?", invoice.ID)
	if len(keep) > 0 {
		cleanup = cleanup.Where("id NOT IN ?", keep)
	}
	if err := cleanup.Delete(&billing.InvoiceItem{}).Error; err != nil {
		return err
	}

	if len(invoice.Items) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&invoice.Items).Error
}

// applyInvoiceFilter applies search and field filters without pagination
func applyInvoiceFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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

// applyPagination applies ordering and paging to a filtered query
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

func orderItemsByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
