package cache

import (
	"context"
	"testing"
	"time"

	"github.com/billing/backend/internal/domain/masterdata"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStateRepository struct {
	mock.Mock
}

func (m *mockStateRepository) Save(ctx context.Context, state *masterdata.State) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *mockStateRepository) FindByID(ctx context.Context, id uuid.UUID) (*masterdata.State, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.State), args.Error(1)
}

func (m *mockStateRepository) FindByCode(ctx context.Context, code string) (*masterdata.State, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.State), args.Error(1)
}

func (m *mockStateRepository) FindAll(ctx context.Context) ([]*masterdata.State, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*masterdata.State), args.Error(1)
}

func (m *mockStateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestMemoryStore(t *testing.T) {
	t.Run("set and get round trip", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.Set(context.Background(), "k", []byte("v"), 0))
		value, ok, err := store.Get(context.Background(), "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("v"), value)
	})

	t.Run("expired entries are not returned", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.Set(context.Background(), "k", []byte("v"), time.Nanosecond))
		time.Sleep(time.Millisecond)

		_, ok, err := store.Get(context.Background(), "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete removes entries", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.Set(context.Background(), "a", []byte("1"), 0))
		require.NoError(t, store.Set(context.Background(), "b", []byte("2"), 0))
		require.NoError(t, store.Delete(context.Background(), "a", "b", "missing"))
		assert.Equal(t, 0, store.Len())
	})
}

func TestCachedStateRepository(t *testing.T) {
	newState := func(t *testing.T) *masterdata.State {
		t.Helper()
		state, err := masterdata.NewState("KUL", "Kuala Lumpur")
		require.NoError(t, err)
		return state
	}

	t.Run("FindByID hits inner repository once", func(t *testing.T) {
		inner := new(mockStateRepository)
		repo := NewCachedStateRepository(inner, NewMemoryStore(), time.Hour)
		state := newState(t)

		inner.On("FindByID", mock.Anything, state.ID).Return(state, nil).Once()

		first, err := repo.FindByID(context.Background(), state.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(context.Background(), state.ID)
		require.NoError(t, err)

		assert.Equal(t, first.Code, second.Code)
		inner.AssertNumberOfCalls(t, "FindByID", 1)
	})

	t.Run("FindAll is served from cache after first load", func(t *testing.T) {
		inner := new(mockStateRepository)
		repo := NewCachedStateRepository(inner, NewMemoryStore(), time.Hour)
		states := []*masterdata.State{newState(t)}

		inner.On("FindAll", mock.Anything).Return(states, nil).Once()

		_, err := repo.FindAll(context.Background())
		require.NoError(t, err)
		cached, err := repo.FindAll(context.Background())
		require.NoError(t, err)

		require.Len(t, cached, 1)
		assert.Equal(t, "KUL", cached[0].Code)
		inner.AssertNumberOfCalls(t, "FindAll", 1)
	})

	t.Run("Save invalidates the list cache", func(t *testing.T) {
		inner := new(mockStateRepository)
		repo := NewCachedStateRepository(inner, NewMemoryStore(), time.Hour)
		state := newState(t)

		inner.On("FindAll", mock.Anything).Return([]*masterdata.State{state}, nil).Twice()
		inner.On("Save", mock.Anything, state).Return(nil)

		_, err := repo.FindAll(context.Background())
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), state))
		_, err = repo.FindAll(context.Background())
		require.NoError(t, err)

		inner.AssertNumberOfCalls(t, "FindAll", 2)
	})
}
