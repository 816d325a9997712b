package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) RevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockRepository) OutstandingTotal(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockRepository) InvoiceStatusCounts(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *mockRepository) QuotationStatusCounts(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *mockRepository) ActiveCustomerCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestService_Summary(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	monthStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	nextMonth := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("aggregates the month snapshot", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("RevenueBetween", mock.Anything, monthStart, nextMonth).
			Return(decimal.NewFromFloat(12500.50), nil)
		repo.On("OutstandingTotal", mock.Anything).
			Return(decimal.NewFromFloat(3200.00), nil)
		repo.On("InvoiceStatusCounts", mock.Anything).
			Return(map[string]int64{"PAID": 10, "SENT": 3, "OVERDUE": 1}, nil)
		repo.On("QuotationStatusCounts", mock.Anything).
			Return(map[string]int64{"DRAFT": 2, "ACCEPTED": 4}, nil)
		repo.On("ActiveCustomerCount", mock.Anything).
			Return(int64(27), nil)

		summary, err := NewService(repo).Summary(context.Background(), now)
		require.NoError(t, err)

		assert.True(t, summary.RevenueThisMonth.Equal(decimal.NewFromFloat(12500.50)))
		assert.True(t, summary.OutstandingTotal.Equal(decimal.NewFromFloat(3200.00)))
		assert.Equal(t, int64(10), summary.InvoicesByStatus["PAID"])
		assert.Equal(t, int64(4), summary.QuotationsByStatus["ACCEPTED"])
		assert.Equal(t, int64(27), summary.ActiveCustomers)
		assert.Equal(t, now, summary.GeneratedAt)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("RevenueBetween", mock.Anything, monthStart, nextMonth).
			Return(decimal.Zero, errors.New("connection lost"))

		summary, err := NewService(repo).Summary(context.Background(), now)
		require.Error(t, err)
		assert.Nil(t, summary)
	})
}
