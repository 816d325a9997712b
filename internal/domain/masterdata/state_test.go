package masterdata

import (
	"strings"
	"testing"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	t.Run("creates state with uppercased code", func(t *testing.T) {
		state, err := NewState("sgr", "Selangor")
		require.NoError(t, err)

		assert.Equal(t, "SGR", state.Code)
		assert.Equal(t, "Selangor", state.Name)
		assert.NotZero(t, state.ID)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewState("  ", "Selangor")
		assert.True(t, shared.IsDomainError(err, "INVALID_STATE_CODE"))
	})

	t.Run("rejects code over 30 characters", func(t *testing.T) {
		_, err := NewState(strings.Repeat("A", 31), "Selangor")
		assert.True(t, shared.IsDomainError(err, "INVALID_STATE_CODE"))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewState("SGR", "")
		assert.True(t, shared.IsDomainError(err, "INVALID_STATE_NAME"))
	})

	t.Run("rejects name over 60 characters", func(t *testing.T) {
		_, err := NewState("SGR", strings.Repeat("a", 61))
		assert.True(t, shared.IsDomainError(err, "INVALID_STATE_NAME"))
	})
}

func TestState_Rename(t *testing.T) {
	state, err := NewState("KUL", "Kuala Lumpur")
	require.NoError(t, err)

	require.NoError(t, state.Rename("WP Kuala Lumpur"))
	assert.Equal(t, "WP Kuala Lumpur", state.Name)

	err = state.Rename("")
	assert.True(t, shared.IsDomainError(err, "INVALID_STATE_NAME"))
}
