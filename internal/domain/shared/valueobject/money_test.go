package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), MYR)
		require.NoError(t, err)
		assert.Equal(t, "100.50", m.StringFixed())
		assert.Equal(t, MYR, m.Currency())
	})

	t.Run("allows zero amount", func(t *testing.T) {
		m, err := NewMoney(decimal.Zero, MYR)
		require.NoError(t, err)
		assert.True(t, m.IsZero())
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(-1), MYR)
		assert.True(t, shared.IsDomainError(err, "INVALID_MONEY"))
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(10), "")
		assert.True(t, shared.IsDomainError(err, "INVALID_MONEY"))
	})

	t.Run("rejects non 3-letter currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(10), "RINGGIT")
		assert.True(t, shared.IsDomainError(err, "INVALID_MONEY"))
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("parses decimal string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", MYR)
		require.NoError(t, err)
		assert.Equal(t, "123.45", m.StringFixed())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", MYR)
		assert.True(t, shared.IsDomainError(err, "INVALID_MONEY"))
	})
}

func TestMoney_Add(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		sum, err := MustMoneyMYR("10.10").Add(MustMoneyMYR("0.90"))
		require.NoError(t, err)
		assert.Equal(t, "11.00", sum.StringFixed())
	})

	t.Run("rejects currency mismatch", func(t *testing.T) {
		usd, err := NewMoneyFromString("10.00", USD)
		require.NoError(t, err)
		_, err = MustMoneyMYR("10.00").Add(usd)
		assert.True(t, shared.IsDomainError(err, "CURRENCY_MISMATCH"))
	})
}

func TestMoney_Subtract(t *testing.T) {
	t.Run("subtracts same currency", func(t *testing.T) {
		diff, err := MustMoneyMYR("10.00").Subtract(MustMoneyMYR("2.50"))
		require.NoError(t, err)
		assert.Equal(t, "7.50", diff.StringFixed())
	})

	t.Run("rejects negative result", func(t *testing.T) {
		_, err := MustMoneyMYR("1.00").Subtract(MustMoneyMYR("2.00"))
		assert.True(t, shared.IsDomainError(err, "INVALID_MONEY"))
	})

	t.Run("rejects currency mismatch", func(t *testing.T) {
		sgd, err := NewMoneyFromString("1.00", SGD)
		require.NoError(t, err)
		_, err = MustMoneyMYR("10.00").Subtract(sgd)
		assert.True(t, shared.IsDomainError(err, "CURRENCY_MISMATCH"))
	})
}

func TestMoney_Multiply(t *testing.T) {
	m := MustMoneyMYR("33.33")

	assert.Equal(t, "99.99", m.Multiply(decimal.NewFromInt(3)).StringFixed())
	assert.Equal(t, "66.66", m.MultiplyByInt(2).StringFixed())
}

func TestMoney_CalculatePercentage(t *testing.T) {
	t.Run("keeps full precision", func(t *testing.T) {
		// 10.05 * 7.5% = 0.75375, unrounded
		p := MustMoneyMYR("10.05").CalculatePercentage(decimal.NewFromFloat(7.5))
		assert.Equal(t, "0.75375", p.Amount().String())
	})

	t.Run("rounds half up at two places", func(t *testing.T) {
		p := MustMoneyMYR("10.05").CalculatePercentage(decimal.NewFromFloat(7.5)).Round(2)
		assert.Equal(t, "0.75", p.StringFixed())

		p = MustMoneyMYR("0.05").CalculatePercentage(decimal.NewFromInt(10)).Round(2)
		assert.Equal(t, "0.01", p.StringFixed())
	})
}

func TestMoney_Comparisons(t *testing.T) {
	a := MustMoneyMYR("10.00")
	b := MustMoneyMYR("20.00")

	assert.True(t, a.Equals(MustMoneyMYR("10.0")))
	assert.False(t, a.Equals(b))

	less, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, greater)

	usd, err := NewMoneyFromString("10.00", USD)
	require.NoError(t, err)
	_, err = a.LessThan(usd)
	assert.True(t, shared.IsDomainError(err, "CURRENCY_MISMATCH"))
}

func TestMoney_JSON(t *testing.T) {
	t.Run("marshals amount and currency", func(t *testing.T) {
		data, err := json.Marshal(MustMoneyMYR("99.90"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"99.90","currency":"MYR"}`, string(data))
	})

	t.Run("unmarshal defaults currency to MYR", func(t *testing.T) {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(`{"amount":"12.34"}`), &m))
		assert.Equal(t, MYR, m.Currency())
		assert.Equal(t, "12.34", m.StringFixed())
	})

	t.Run("unmarshal rejects negative amount", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"-1.00","currency":"MYR"}`), &m)
		assert.Error(t, err)
	})
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "100.00 MYR", MustMoneyMYR("100").String())
}
