package valueobject

import (
	"strings"
	"testing"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	t.Run("accepts and lowercases a valid address", func(t *testing.T) {
		email, err := NewEmail("  Billing@Example.COM ")
		require.NoError(t, err)
		assert.Equal(t, "billing@example.com", email.String())
	})

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing at", "example.com"},
		{"missing domain", "user@"},
		{"missing tld", "user@example"},
		{"too long", strings.Repeat("a", 195) + "@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEmail(tt.input)
			assert.True(t, shared.IsDomainError(err, "INVALID_EMAIL"))
		})
	}
}

func TestNewPhone(t *testing.T) {
	t.Run("accepts common formats", func(t *testing.T) {
		for _, input := range []string{"+60 12-345 6789", "0123456789", "(03) 1234 5678"} {
			phone, err := NewPhone(input)
			require.NoError(t, err, input)
			assert.Equal(t, input, phone.String())
		}
	})

	t.Run("rejects letters", func(t *testing.T) {
		_, err := NewPhone("call-me-maybe")
		assert.True(t, shared.IsDomainError(err, "INVALID_PHONE"))
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := NewPhone("  ")
		assert.True(t, shared.IsDomainError(err, "INVALID_PHONE"))
	})
}

func TestNewNRIC(t *testing.T) {
	t.Run("accepts standard dashed format", func(t *testing.T) {
		nric, err := NewNRIC("880101-14-5677")
		require.NoError(t, err)
		assert.Equal(t, "880101-14-5677", nric.String())
	})

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no dashes", "880101145677"},
		{"wrong grouping", "8801-0114-5677"},
		{"letters", "88A101-14-5677"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNRIC(tt.input)
			assert.True(t, shared.IsDomainError(err, "INVALID_NRIC"))
		})
	}
}

func TestNewPassportNumber(t *testing.T) {
	t.Run("uppercases input", func(t *testing.T) {
		passport, err := NewPassportNumber("a1234567")
		require.NoError(t, err)
		assert.Equal(t, "A1234567", passport.String())
	})

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too short", "AB123"},
		{"too long", "ABCDEFGH12345"},
		{"symbols", "A123-567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPassportNumber(tt.input)
			assert.True(t, shared.IsDomainError(err, "INVALID_PASSPORT_NUMBER"))
		})
	}
}
