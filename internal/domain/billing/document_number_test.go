package billing

import (
	"strings"
	"testing"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoiceNumber(t *testing.T) {
	t.Run("accepts and trims a valid number", func(t *testing.T) {
		number, err := NewInvoiceNumber("  INV-202608-0001  ")
		require.NoError(t, err)
		assert.Equal(t, "INV-202608-0001", number.String())
		assert.False(t, number.IsZero())
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := NewInvoiceNumber("   ")
		assert.True(t, shared.IsDomainError(err, "INVALID_INVOICE_NUMBER"))
	})

	t.Run("rejects over 50 characters", func(t *testing.T) {
		_, err := NewInvoiceNumber(strings.Repeat("X", 51))
		assert.True(t, shared.IsDomainError(err, "INVALID_INVOICE_NUMBER"))
	})
}

func TestNewQuotationNumber(t *testing.T) {
	number, err := NewQuotationNumber("QUO-202608-0007")
	require.NoError(t, err)
	assert.Equal(t, "QUO-202608-0007", number.String())

	_, err = NewQuotationNumber("")
	assert.True(t, shared.IsDomainError(err, "INVALID_QUOTATION_NUMBER"))
}

func TestFormatDocumentNumbers(t *testing.T) {
	at := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "INV-202608-", InvoiceNumberPrefix(at))
	assert.Equal(t, "QUO-202608-", QuotationNumberPrefix(at))
	assert.Equal(t, "INV-202608-0001", FormatInvoiceNumber(at, 1))
	assert.Equal(t, "INV-202608-0042", FormatInvoiceNumber(at, 42))
	assert.Equal(t, "QUO-202608-9999", FormatQuotationNumber(at, 9999))

	// Sequence wider than four digits keeps going rather than wrapping
	assert.Equal(t, "INV-202608-10000", FormatInvoiceNumber(at, 10000))

	// January pads the month
	january := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV-202701-0001", FormatInvoiceNumber(january, 1))
}

func TestParseNumberSequence(t *testing.T) {
	tests := []struct {
		number string
		want   int
	}{
		{"INV-202608-0042", 42},
		{"QUO-202608-0001", 1},
		{"INV-202608-10000", 10000},
		{"INV-202608-", 0},
		{"no-dash-suffix-x", 0},
		{"plainstring", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumberSequence(tt.number))
		})
	}
}
