package billing

import (
	"testing"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers

func createTestQuotation(t *testing.T) *Quotation {
	t.Helper()
	number, err := NewQuotationNumber("QUO-202608-0001")
	require.NoError(t, err)
	issuedAt := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	quotation, err := NewQuotation(number, uuid.New(), issuedAt, issuedAt.AddDate(0, 0, 30))
	require.NoError(t, err)
	return quotation
}

func addQuotationItem(t *testing.T, quotation *Quotation, description string, qty int64, price, taxRate string) *QuotationItem {
	t.Helper()
	rate, err := valueobject.NewTaxRateFromString(taxRate)
	require.NoError(t, err)
	item, err := quotation.AddItem(description, qty, valueobject.MustMoneyMYR(price), rate)
	require.NoError(t, err)
	return item
}

func applyDiscount(t *testing.T, quotation *Quotation, rate string) {
	t.Helper()
	discount, err := valueobject.NewDiscountRateFromString(rate)
	require.NoError(t, err)
	require.NoError(t, quotation.ApplyDiscount(discount))
}

// ============================================
// QuotationStatus Tests
// ============================================

func TestQuotationStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  QuotationStatus
		isValid bool
	}{
		{QuotationStatusDraft, true},
		{QuotationStatusSent, true},
		{QuotationStatusAccepted, true},
		{QuotationStatusDeclined, true},
		{QuotationStatusExpired, true},
		{QuotationStatusConverted, true},
		{QuotationStatus("INVALID"), false},
		{QuotationStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestQuotationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     QuotationStatus
		to       QuotationStatus
		canTrans bool
	}{
		// From DRAFT
		{QuotationStatusDraft, QuotationStatusSent, true},
		{QuotationStatusDraft, QuotationStatusAccepted, true},
		{QuotationStatusDraft, QuotationStatusDeclined, true},
		{QuotationStatusDraft, QuotationStatusExpired, true},
		{QuotationStatusDraft, QuotationStatusConverted, false},
		// From SENT
		{QuotationStatusSent, QuotationStatusAccepted, true},
		{QuotationStatusSent, QuotationStatusDeclined, true},
		{QuotationStatusSent, QuotationStatusExpired, true},
		{QuotationStatusSent, QuotationStatusDraft, false},
		{QuotationStatusSent, QuotationStatusConverted, false},
		// From ACCEPTED
		{QuotationStatusAccepted, QuotationStatusConverted, true},
		{QuotationStatusAccepted, QuotationStatusDeclined, false},
		{QuotationStatusAccepted, QuotationStatusExpired, false},
		// Terminal states
		{QuotationStatusDeclined, QuotationStatusAccepted, false},
		{QuotationStatusExpired, QuotationStatusAccepted, false},
		{QuotationStatusConverted, QuotationStatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// ============================================
// NewQuotation Tests
// ============================================

func TestNewQuotation(t *testing.T) {
	number, err := NewQuotationNumber("QUO-202608-0001")
	require.NoError(t, err)
	customerID := uuid.New()
	issuedAt := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates draft quotation with valid inputs", func(t *testing.T) {
		quotation, err := NewQuotation(number, customerID, issuedAt, issuedAt.AddDate(0, 0, 30))
		require.NoError(t, err)

		assert.Equal(t, "QUO-202608-0001", quotation.Number)
		assert.Equal(t, QuotationStatusDraft, quotation.Status)
		assert.Equal(t, valueobject.MYR, quotation.Currency)
		assert.True(t, quotation.DiscountRate.IsZero())
		assert.True(t, quotation.Total.IsZero())
		assert.Nil(t, quotation.ConvertedInvoiceID)

		events := quotation.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeQuotationCreated, events[0].EventType())
	})

	t.Run("rejects empty number", func(t *testing.T) {
		_, err := NewQuotation(QuotationNumber{}, customerID, issuedAt, issuedAt)
		assert.True(t, shared.IsDomainError(err, "INVALID_QUOTATION_NUMBER"))
	})

	t.Run("rejects validity before issue date", func(t *testing.T) {
		_, err := NewQuotation(number, customerID, issuedAt, issuedAt.AddDate(0, 0, -1))
		assert.True(t, shared.IsDomainError(err, "INVALID_VALIDITY"))
	})
}

// ============================================
// Totals and Discount Tests
// ============================================

func TestQuotation_Totals(t *testing.T) {
	t.Run("discount applies at document level", func(t *testing.T) {
		quotation := createTestQuotation(t)
		addQuotationItem(t, quotation, "Taxed service", 2, "100.00", "10")
		addQuotationItem(t, quotation, "Exempt service", 1, "50.00", "0")
		applyDiscount(t, quotation, "10")

		assert.Equal(t, "250.00", quotation.Subtotal.StringFixed(2))
		assert.Equal(t, "20.00", quotation.TaxTotal.StringFixed(2))
		assert.Equal(t, "25.00", quotation.DiscountAmount.StringFixed(2))
		assert.Equal(t, "245.00", quotation.Total.StringFixed(2))
	})

	t.Run("discount amount tracks item changes", func(t *testing.T) {
		quotation := createTestQuotation(t)
		item := addQuotationItem(t, quotation, "Service", 1, "100.00", "0")
		applyDiscount(t, quotation, "10")
		assert.Equal(t, "10.00", quotation.DiscountAmount.StringFixed(2))

		require.NoError(t, quotation.UpdateItemQuantity(item.ID, 3))
		assert.Equal(t, "30.00", quotation.DiscountAmount.StringFixed(2))
		assert.Equal(t, "270.00", quotation.Total.StringFixed(2))
	})

	t.Run("discount rounds half up", func(t *testing.T) {
		quotation := createTestQuotation(t)
		// subtotal 10.05, 2.5% discount = 0.25125 -> 0.25
		addQuotationItem(t, quotation, "Service", 1, "10.05", "0")
		applyDiscount(t, quotation, "2.5")

		assert.Equal(t, "0.25", quotation.DiscountAmount.StringFixed(2))
		assert.Equal(t, "9.80", quotation.Total.StringFixed(2))
	})

	t.Run("total invariant holds after recalculation", func(t *testing.T) {
		quotation := createTestQuotation(t)
		addQuotationItem(t, quotation, "Service", 7, "3.33", "6")
		applyDiscount(t, quotation, "15")

		expected := quotation.Subtotal.Add(quotation.TaxTotal).Sub(quotation.DiscountAmount)
		assert.True(t, quotation.Total.Equal(expected))

		quotation.recalculateTotals()
		assert.True(t, quotation.Total.Equal(expected))
	})

	t.Run("full discount zeroes the subtotal portion", func(t *testing.T) {
		quotation := createTestQuotation(t)
		addQuotationItem(t, quotation, "Service", 1, "100.00", "0")
		applyDiscount(t, quotation, "100")

		assert.True(t, quotation.Total.Equal(decimal.Zero))
	})
}

func TestQuotation_ApplyDiscount_AfterSend(t *testing.T) {
	quotation := createTestQuotation(t)
	addQuotationItem(t, quotation, "Service", 1, "100.00", "0")
	require.NoError(t, quotation.Send())

	discount, err := valueobject.NewDiscountRateFromString("10")
	require.NoError(t, err)
	err = quotation.ApplyDiscount(discount)
	assert.True(t, shared.IsDomainError(err, shared.CodeQuotationCannotBeModified))
}

// ============================================
// Status Transition Tests
// ============================================

func TestQuotation_Send(t *testing.T) {
	quotation := createTestQuotation(t)
	require.NoError(t, quotation.Send())
	assert.Equal(t, QuotationStatusSent, quotation.Status)

	err := quotation.Send()
	assert.True(t, shared.IsDomainError(err, shared.CodeQuotationCannotBeModified))
}

func TestQuotation_Accept(t *testing.T) {
	acceptedAt := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	t.Run("accepts sent quotation", func(t *testing.T) {
		quotation := createTestQuotation(t)
		require.NoError(t, quotation.Send())

		require.NoError(t, quotation.Accept(acceptedAt))
		assert.Equal(t, QuotationStatusAccepted, quotation.Status)
		require.NotNil(t, quotation.AcceptedAt)
		assert.Equal(t, acceptedAt, *quotation.AcceptedAt)
	})

	t.Run("accepts draft quotation directly", func(t *testing.T) {
		quotation := createTestQuotation(t)
		assert.NoError(t, quotation.Accept(acceptedAt))
	})

	t.Run("double accept fails", func(t *testing.T) {
		quotation := createTestQuotation(t)
		require.NoError(t, quotation.Accept(acceptedAt))
		err := quotation.Accept(acceptedAt)
		assert.True(t, shared.IsDomainError(err, shared.CodeQuotationAlreadyAccepted))
	})

	t.Run("declined quotation cannot be accepted", func(t *testing.T) {
		quotation := createTestQuotation(t)
		require.NoError(t, quotation.Decline(acceptedAt))
		err := quotation.Accept(acceptedAt)
		assert.True(t, shared.IsDomainError(err, shared.CodeQuotationAlreadyDeclined))
	})

	t.Run("rejects acceptance after validity date", func(t *testing.T) {
		quotation := createTestQuotation(t)
		lateAccept := quotation.ValidUntil.AddDate(0, 0, 1)
		err := quotation.Accept(lateAccept)
		assert.True(t, shared.IsDomainError(err, shared.CodeQuotationExpired))
		assert.Equal(t, QuotationStatusDraft, quotation.Status)
	})

	t.Run("accepts on the validity date itself", func(t *testing.T) {
		quotation := createTestQuotation(t)
		assert.NoError(t, quotation.Accept(quotation.ValidUntil))
	})
}

func TestQuotation_Decline(t *testing.T) {
	declinedAt := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	t.Run("declines sent quotation", func(t *testing.T) {
		quotation := createTestQuotation(t)
		require.NoError(t, quotation.Send())

		require.NoError(t, quotation.Decline(declinedAt))
		assert.Equal(t, QuotationStatusDeclined, quotation.Status)
		require.NotNil(t, quotation.DeclinedAt)
	})

	t.Run("double decline fails", func(t *testing.T) {
		quotation := createTestQuotation(t)
		require.NoError(t, quotation.Decline(declinedAt))
		err := quotation.Decline(declinedAt)
		assert.True(t, shared.IsDomainError(err, shared.CodeQuotationAlreadyDeclined))
	})

	t.Run("accepted quotation cannot be declined", func(t *testing.T) {
		quotation := createTestQuotation(t)
		require.NoError(t, quotation.Accept(declinedAt))
		err := quotation.Decline(declinedAt)
		assert.True(t, shared.IsDomainError(err, shared.CodeQuotationAlreadyAccepted))
	})
}

func TestQuotation_MarkAsExpired(t *testing.T) {
	t.Run("expires sent quotation", func(t *testing.T) {
		quotation := createTestQuotation(t)
		require.NoError(t, quotation.Send())
		require.NoError(t, quotation.MarkAsExpired())
		assert.Equal(t, QuotationStatusExpired, quotation.Status)
	})

	t.Run("accepted quotation does not expire", func(t *testing.T) {
		quotation := createTestQuotation(t)
		require.NoError(t, quotation.Accept(time.Now()))
		err := quotation.MarkAsExpired()
		assert.True(t, shared.IsDomainError(err, shared.CodeQuotationAlreadyAccepted))
	})
}

func TestQuotation_ConvertToInvoice(t *testing.T) {
	convertedAt := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	t.Run("converts accepted quotation", func(t *testing.T) {
		quotation := createTestQuotation(t)
		require.NoError(t, quotation.Accept(time.Now()))

		invoiceID := uuid.New()
		require.NoError(t, quotation.ConvertToInvoice(invoiceID, convertedAt))

		assert.Equal(t, QuotationStatusConverted, quotation.Status)
		require.NotNil(t, quotation.ConvertedInvoiceID)
		assert.Equal(t, invoiceID, *quotation.ConvertedInvoiceID)
		require.NotNil(t, quotation.ConvertedAt)
		assert.True(t, quotation.IsConverted())
	})

	t.Run("double conversion fails", func(t *testing.T) {
		quotation := createTestQuotation(t)
		require.NoError(t, quotation.Accept(time.Now()))
		require.NoError(t, quotation.ConvertToInvoice(uuid.New(), convertedAt))

		err := quotation.ConvertToInvoice(uuid.New(), convertedAt)
		assert.True(t, shared.IsDomainError(err, shared.CodeQuotationAlreadyConverted))
	})

	t.Run("unaccepted quotation cannot be converted", func(t *testing.T) {
		for _, setup := range []func(q *Quotation){
			func(q *Quotation) {},
			func(q *Quotation) { require.NoError(t, q.Send()) },
			func(q *Quotation) { require.NoError(t, q.Decline(time.Now())) },
		} {
			quotation := createTestQuotation(t)
			setup(quotation)
			err := quotation.ConvertToInvoice(uuid.New(), convertedAt)
			assert.True(t, shared.IsDomainError(err, shared.CodeQuotationCannotBeModified))
			assert.Nil(t, quotation.ConvertedInvoiceID)
		}
	})

	t.Run("rejects nil invoice id", func(t *testing.T) {
		quotation := createTestQuotation(t)
		require.NoError(t, quotation.Accept(time.Now()))
		err := quotation.ConvertToInvoice(uuid.Nil, convertedAt)
		assert.True(t, shared.IsDomainError(err, "INVALID_INVOICE"))
	})
}

func TestQuotation_ItemManagement_AfterSend(t *testing.T) {
	quotation := createTestQuotation(t)
	item := addQuotationItem(t, quotation, "Service", 1, "100.00", "0")
	require.NoError(t, quotation.Send())

	_, err := quotation.AddItem("Another", 1, valueobject.MustMoneyMYR("10"), valueobject.ZeroTaxRate())
	assert.True(t, shared.IsDomainError(err, shared.CodeQuotationCannotBeModified))

	err = quotation.UpdateItemQuantity(item.ID, 2)
	assert.True(t, shared.IsDomainError(err, shared.CodeQuotationCannotBeModified))

	err = quotation.RemoveItem(item.ID)
	assert.True(t, shared.IsDomainError(err, shared.CodeQuotationCannotBeModified))
}

func TestQuotation_Events(t *testing.T) {
	quotation := createTestQuotation(t)
	quotation.ClearDomainEvents()

	require.NoError(t, quotation.Send())
	require.NoError(t, quotation.Accept(time.Now()))
	require.NoError(t, quotation.ConvertToInvoice(uuid.New(), time.Now()))

	events := quotation.GetDomainEvents()
	require.Len(t, events, 3)
	assert.Equal(t, EventTypeQuotationSent, events[0].EventType())
	assert.Equal(t, EventTypeQuotationAccepted, events[1].EventType())
	assert.Equal(t, EventTypeQuotationConverted, events[2].EventType())
}
