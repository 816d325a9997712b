package valueobject

import (
	"testing"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaxRate(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"typical SST", 6, false},
		{"upper bound", 100, false},
		{"negative", -0.01, true},
		{"above hundred", 100.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := NewTaxRate(decimal.NewFromFloat(tt.value))
			if tt.wantErr {
				assert.True(t, shared.IsDomainError(err, "INVALID_TAX_RATE"))
				return
			}
			require.NoError(t, err)
			assert.True(t, rate.Value().Equal(decimal.NewFromFloat(tt.value)))
		})
	}
}

func TestNewTaxRate_RoundsToTwoPlaces(t *testing.T) {
	rate, err := NewTaxRate(decimal.NewFromFloat(6.005))
	require.NoError(t, err)
	assert.Equal(t, "6.01", rate.String())
}

func TestNewTaxRateFromString(t *testing.T) {
	rate, err := NewTaxRateFromString("8.00")
	require.NoError(t, err)
	assert.Equal(t, "8.00", rate.String())

	_, err = NewTaxRateFromString("abc")
	assert.True(t, shared.IsDomainError(err, "INVALID_TAX_RATE"))
}

func TestTaxRate_Fraction(t *testing.T) {
	rate, err := NewTaxRate(decimal.NewFromInt(6))
	require.NoError(t, err)
	assert.Equal(t, "0.06", rate.Fraction().String())
}

func TestNewDiscountRate(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"ten percent", 10, false},
		{"full discount", 100, false},
		{"negative", -5, true},
		{"above hundred", 101, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := NewDiscountRate(decimal.NewFromFloat(tt.value))
			if tt.wantErr {
				assert.True(t, shared.IsDomainError(err, "INVALID_DISCOUNT_RATE"))
				return
			}
			require.NoError(t, err)
			assert.True(t, rate.Value().Equal(decimal.NewFromFloat(tt.value)))
		})
	}
}

func TestZeroRates(t *testing.T) {
	assert.True(t, ZeroTaxRate().IsZero())
	assert.True(t, ZeroDiscountRate().IsZero())
}

func TestRate_Equals(t *testing.T) {
	a, err := NewTaxRate(decimal.NewFromInt(6))
	require.NoError(t, err)
	b, err := NewTaxRateFromString("6.00")
	require.NoError(t, err)
	assert.True(t, a.Equals(b))

	d1, err := NewDiscountRate(decimal.NewFromInt(10))
	require.NoError(t, err)
	d2, err := NewDiscountRate(decimal.NewFromInt(15))
	require.NoError(t, err)
	assert.False(t, d1.Equals(d2))
}
