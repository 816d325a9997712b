package persistence

import (
	"context"
	"time"

	"github.com/billing/backend/internal/application/dashboard"
	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDashboardRepository implements the dashboard aggregation queries
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// RevenueBetween sums the totals of invoices paid within [from, to)
func (r *GormDashboardRepository) RevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&billing.Invoice{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Where("status = ? AND paid_at >= ? AND paid_at < ?", billing.InvoiceStatusPaid, from, to).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// OutstandingTotal sums the totals of SENT and OVERDUE invoices
func (r *GormDashboardRepository) OutstandingTotal(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&billing.Invoice{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Where("status IN ?", []billing.InvoiceStatus{billing.InvoiceStatusSent, billing.InvoiceStatusOverdue}).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// InvoiceStatusCounts returns invoice counts grouped by status
func (r *GormDashboardRepository) InvoiceStatusCounts(ctx context.Context) (map[string]int64, error) {
	return r.statusCounts(ctx, &billing.Invoice{})
}

// QuotationStatusCounts returns quotation counts grouped by status
func (r *GormDashboardRepository) QuotationStatusCounts(ctx context.Context) (map[string]int64, error) {
	return r.statusCounts(ctx, &billing.Quotation{})
}

// ActiveCustomerCount returns the number of active customers
func (r *GormDashboardRepository) ActiveCustomerCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&partner.Customer{}).
		Where("status = ?", partner.CustomerStatusActive).
		Count(&count).Error
	return count, err
}

func (r *GormDashboardRepository) statusCounts(ctx context.Context, model interface{}) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(model).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Ensure GormDashboardRepository implements dashboard.Repository
var _ dashboard.Repository = (*GormDashboardRepository)(nil)
