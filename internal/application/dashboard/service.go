package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository provides the read-only aggregation queries behind the
// dashboard. Implemented by the persistence layer.
type Repository interface {
	// RevenueBetween sums the totals of invoices paid within [from, to)
	RevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)

	// OutstandingTotal sums the totals of SENT and OVERDUE invoices
	OutstandingTotal(ctx context.Context) (decimal.Decimal, error)

	// InvoiceStatusCounts returns invoice counts grouped by status
	InvoiceStatusCounts(ctx context.Context) (map[string]int64, error)

	// QuotationStatusCounts returns quotation counts grouped by status
	QuotationStatusCounts(ctx context.Context) (map[string]int64, error)

	// ActiveCustomerCount returns the number of active customers
	ActiveCustomerCount(ctx context.Context) (int64, error)
}

// SummaryResponse is the dashboard snapshot rendered by the back office
type SummaryResponse struct {
	RevenueThisMonth   decimal.Decimal  `json:"revenue_this_month"`
	OutstandingTotal   decimal.Decimal  `json:"outstanding_total"`
	InvoicesByStatus   map[string]int64 `json:"invoices_by_status"`
	QuotationsByStatus map[string]int64 `json:"quotations_by_status"`
	ActiveCustomers    int64            `json:"active_customers"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

// Service produces dashboard summaries
type Service struct {
	repo Repository
}

// NewService creates a new dashboard Service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Summary builds the dashboard snapshot as of the given time
func (s *Service) Summary(ctx context.Context, now time.Time) (*SummaryResponse, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)

	revenue, err := s.repo.RevenueBetween(ctx, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.repo.OutstandingTotal(ctx)
	if err != nil {
		return nil, err
	}
	invoiceCounts, err := s.repo.InvoiceStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	quotationCounts, err := s.repo.QuotationStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.repo.ActiveCustomerCount(ctx)
	if err != nil {
		return nil, err
	}

	return &SummaryResponse{
		RevenueThisMonth:   revenue,
		OutstandingTotal:   outstanding,
		InvoicesByStatus:   invoiceCounts,
		QuotationsByStatus: quotationCounts,
		ActiveCustomers:    customers,
		GeneratedAt:        now,
	}, nil
}
