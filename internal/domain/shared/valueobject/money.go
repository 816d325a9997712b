package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	MYR Currency = "MYR" // Malaysian Ringgit (default)
	SGD Currency = "SGD" // Singapore Dollar
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = MYR

// Money is a value object representing a non-negative monetary amount.
// It is immutable - all operations return new Money instances. Amounts are
// held as arbitrary-precision decimals; rounding to cents happens only where
// the totals algorithm calls for it.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, shared.NewDomainError("INVALID_MONEY", "Currency cannot be empty")
	}
	if len(currency) != 3 {
		return Money{}, shared.NewDomainError("INVALID_MONEY", "Currency must be a 3-letter ISO code")
	}
	if amount.IsNegative() {
		return Money{}, shared.NewDomainError("INVALID_MONEY", "Amount cannot be negative")
	}
	return Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewMoneyFromString creates Money from a decimal string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, shared.NewDomainError("INVALID_MONEY", fmt.Sprintf("Invalid amount %q", amount))
	}
	return NewMoney(d, currency)
}

// NewMoneyMYR creates Money in MYR (Malaysian Ringgit)
func NewMoneyMYR(amount decimal.Decimal) (Money, error) {
	return NewMoney(amount, MYR)
}

// MustMoneyMYR creates Money in MYR, panicking on a negative amount.
// Intended for literals in tests and fixtures.
func MustMoneyMYR(amount string) Money {
	m, err := NewMoneyFromString(amount, MYR)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// ZeroMYR returns a zero-value Money in MYR
func ZeroMYR() Money {
	return Zero(MYR)
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Add returns a new Money with the sum of both amounts.
// Returns an error if currencies don't match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Cannot add %s to %s", other.currency, m.currency))
	}
	return Money{
		amount:   m.amount.Add(other.amount),
		currency: m.currency,
	}, nil
}

// MustAdd adds two Money values, panics if currencies don't match
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Subtract returns a new Money with the difference.
// Returns an error if currencies don't match or the result would be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Cannot subtract %s from %s", other.currency, m.currency))
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, shared.NewDomainError("INVALID_MONEY", "Amount cannot be negative")
	}
	return Money{
		amount:   result,
		currency: m.currency,
	}, nil
}

// MustSubtract subtracts two Money values, panics on mismatch or underflow
func (m Money) MustSubtract(other Money) Money {
	result, err := m.Subtract(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Multiply returns a new Money multiplied by the given factor
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{
		amount:   m.amount.Mul(factor),
		currency: m.currency,
	}
}

// MultiplyByInt returns a new Money multiplied by an integer
func (m Money) MultiplyByInt(factor int64) Money {
	return m.Multiply(decimal.NewFromInt(factor))
}

// Round returns a new Money rounded half-up to the specified decimal places
func (m Money) Round(places int32) Money {
	return Money{
		amount:   m.amount.Round(places),
		currency: m.currency,
	}
}

// CalculatePercentage returns the given percentage of this Money,
// keeping full precision. Callers round where their algorithm requires it.
func (m Money) CalculatePercentage(percent decimal.Decimal) Money {
	return Money{
		amount:   m.amount.Mul(percent).Div(decimal.NewFromInt(100)),
		currency: m.currency,
	}
}

// Equals returns true if both Money values are equal (same amount and currency)
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// LessThan returns true if this Money is less than the other.
// Returns an error if currencies don't match.
func (m Money) LessThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Cannot compare %s with %s", m.currency, other.currency))
	}
	return m.amount.LessThan(other.amount), nil
}

// GreaterThan returns true if this Money is greater than the other
func (m Money) GreaterThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Cannot compare %s with %s", m.currency, other.currency))
	}
	return m.amount.GreaterThan(other.amount), nil
}

// String returns a string representation of the Money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// StringFixed returns the amount as a string with two decimal places
func (m Money) StringFixed() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.amount.StringFixed(2),
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler for request binding.
// Validation mirrors NewMoney: negative amounts and empty currencies are
// rejected so invalid data never enters an entity.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Currency == "" {
		v.Currency = DefaultCurrency
	}
	parsed, err := NewMoneyFromString(v.Amount, v.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer for database storage.
// Only the amount is stored; currency lives in a sibling column.
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner for database retrieval. The currency defaults
// to DefaultCurrency when not already set by the surrounding mapper.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		m.currency = DefaultCurrency
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	amount, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	m.amount = amount
	if m.currency == "" {
		m.currency = DefaultCurrency
	}
	return nil
}
