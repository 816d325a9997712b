package valueobject

import (
	"fmt"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// percentage is the shared representation behind TaxRate and DiscountRate:
// a decimal in [0, 100], carried at two decimal places.
type percentage struct {
	value decimal.Decimal
}

func newPercentage(value decimal.Decimal, code string) (percentage, error) {
	if value.IsNegative() || value.GreaterThan(oneHundred) {
		return percentage{}, shared.NewDomainError(code,
			fmt.Sprintf("Percentage must be between 0 and 100, got %s", value.String()))
	}
	return percentage{value: value.Round(2)}, nil
}

func parsePercentage(s string, code string) (percentage, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return percentage{}, shared.NewDomainError(code, fmt.Sprintf("Invalid percentage %q", s))
	}
	return newPercentage(d, code)
}

// Value returns the percentage as a decimal in [0, 100]
func (p percentage) Value() decimal.Decimal {
	return p.value
}

// IsZero returns true for a zero percentage
func (p percentage) IsZero() bool {
	return p.value.IsZero()
}

// Fraction returns the percentage divided by 100, at full precision
func (p percentage) Fraction() decimal.Decimal {
	return p.value.Div(oneHundred)
}

// String returns the percentage with two decimal places
func (p percentage) String() string {
	return p.value.StringFixed(2)
}

// TaxRate is the tax percentage applied to a line item.
type TaxRate struct {
	percentage
}

// NewTaxRate creates a TaxRate from a decimal value in [0, 100]
func NewTaxRate(value decimal.Decimal) (TaxRate, error) {
	p, err := newPercentage(value, "INVALID_TAX_RATE")
	if err != nil {
		return TaxRate{}, err
	}
	return TaxRate{p}, nil
}

// NewTaxRateFromString creates a TaxRate from its string representation
func NewTaxRateFromString(s string) (TaxRate, error) {
	p, err := parsePercentage(s, "INVALID_TAX_RATE")
	if err != nil {
		return TaxRate{}, err
	}
	return TaxRate{p}, nil
}

// ZeroTaxRate returns a 0% tax rate
func ZeroTaxRate() TaxRate {
	return TaxRate{percentage{value: decimal.Zero}}
}

// Equals returns true if both tax rates carry the same value
func (r TaxRate) Equals(other TaxRate) bool {
	return r.value.Equal(other.value)
}

// DiscountRate is the document-level discount percentage on a quotation.
type DiscountRate struct {
	percentage
}

// NewDiscountRate creates a DiscountRate from a decimal value in [0, 100]
func NewDiscountRate(value decimal.Decimal) (DiscountRate, error) {
	p, err := newPercentage(value, "INVALID_DISCOUNT_RATE")
	if err != nil {
		return DiscountRate{}, err
	}
	return DiscountRate{p}, nil
}

// NewDiscountRateFromString creates a DiscountRate from its string representation
func NewDiscountRateFromString(s string) (DiscountRate, error) {
	p, err := parsePercentage(s, "INVALID_DISCOUNT_RATE")
	if err != nil {
		return DiscountRate{}, err
	}
	return DiscountRate{p}, nil
}

// ZeroDiscountRate returns a 0% discount
func ZeroDiscountRate() DiscountRate {
	return DiscountRate{percentage{value: decimal.Zero}}
}

// Equals returns true if both discount rates carry the same value
func (r DiscountRate) Equals(other DiscountRate) bool {
	return r.value.Equal(other.value)
}
