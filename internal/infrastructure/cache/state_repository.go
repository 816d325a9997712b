package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/billing/backend/internal/domain/masterdata"
	"github.com/google/uuid"
)

const (
	stateAllKey       = "states:all"
	stateByIDPrefix   = "states:id:"
	stateByCodePrefix = "states:code:"
)

// CachedStateRepository decorates a StateRepository with a read-through
// cache. States are reference data: small, read often, written rarely, so
// writes simply invalidate everything.
type CachedStateRepository struct {
	inner masterdata.StateRepository
	store Store
	ttl   time.Duration
}

// NewCachedStateRepository creates a caching decorator around the given
// repository
func NewCachedStateRepository(inner masterdata.StateRepository, store Store, ttl time.Duration) *CachedStateRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedStateRepository{inner: inner, store: store, ttl: ttl}
}

// Save persists the state and invalidates the cache
func (r *CachedStateRepository) Save(ctx context.Context, state *masterdata.State) error {
	if err := r.inner.Save(ctx, state); err != nil {
		return err
	}
	r.invalidate(ctx, state)
	return nil
}

// FindByID returns a state by ID, serving from cache when possible
func (r *CachedStateRepository) FindByID(ctx context.Context, id uuid.UUID) (*masterdata.State, error) {
	key := stateByIDPrefix + id.String()
	if state, ok := r.cached(ctx, key); ok {
		return state, nil
	}

	state, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.put(ctx, key, state)
	return state, nil
}

// FindByCode returns a state by code, serving from cache when possible
func (r *CachedStateRepository) FindByCode(ctx context.Context, code string) (*masterdata.State, error) {
	key := stateByCodePrefix + code
	if state, ok := r.cached(ctx, key); ok {
		return state, nil
	}

	state, err := r.inner.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	r.put(ctx, key, state)
	return state, nil
}

// FindAll returns all states, serving from cache when possible
func (r *CachedStateRepository) FindAll(ctx context.Context) ([]*masterdata.State, error) {
	if data, ok, err := r.store.Get(ctx, stateAllKey); err == nil && ok {
		var states []*masterdata.State
		if json.Unmarshal(data, &states) == nil {
			return states, nil
		}
	}

	states, err := r.inner.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(states); err == nil {
		// Cache failures are not surfaced; the database remains the source of truth
		_ = r.store.Set(ctx, stateAllKey, data, r.ttl)
	}
	return states, nil
}

// Delete removes the state and invalidates the cache
func (r *CachedStateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	state, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, state)
	return nil
}

func (r *CachedStateRepository) cached(ctx context.Context, key string) (*masterdata.State, bool) {
	data, ok, err := r.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var state masterdata.State
	if json.Unmarshal(data, &state) != nil {
		return nil, false
	}
	return &state, true
}

func (r *CachedStateRepository) put(ctx context.Context, key string, state *masterdata.State) {
	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	_ = r.store.Set(ctx, key, data, r.ttl)
}

func (r *CachedStateRepository) invalidate(ctx context.Context, state *masterdata.State) {
	keys := []string{stateAllKey}
	if state != nil {
		keys = append(keys,
			stateByIDPrefix+state.ID.String(),
			stateByCodePrefix+state.Code,
		)
	}
	_ = r.store.Delete(ctx, keys...)
}

// Ensure CachedStateRepository implements StateRepository
var _ masterdata.StateRepository = (*CachedStateRepository)(nil)
