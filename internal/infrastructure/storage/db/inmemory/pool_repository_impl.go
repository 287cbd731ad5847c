package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/tdex-network/nftamm/internal/core/domain"
	"github.com/tdex-network/nftamm/pkg/pricing"
)

// PoolRepositoryImpl represents an in memory storage for pools.
type PoolRepositoryImpl struct {
	pools map[string]domain.Pool

	lock *sync.RWMutex
}

// NewPoolRepositoryImpl returns a new empty PoolRepositoryImpl.
func NewPoolRepositoryImpl() *PoolRepositoryImpl {
	return &PoolRepositoryImpl{
		pools: map[string]domain.Pool{},
		lock:  &sync.RWMutex{},
	}
}

// AddPool stores a copy of the given pool.
func (r *PoolRepositoryImpl) AddPool(
	_ context.Context, pool *domain.Pool,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.pools[pool.ID]; ok {
		return domain.ErrPoolAlreadyExists
	}
	r.pools[pool.ID] = *pool
	return nil
}

// GetPool returns a copy of the pool with the given id.
func (r *PoolRepositoryImpl) GetPool(
	_ context.Context, id string,
) (*domain.Pool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.getPool(id)
}

// ListPools returns all the pools sorted by creation time.
func (r *PoolRepositoryImpl) ListPools(_ context.Context) ([]domain.Pool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	pools := make([]domain.Pool, 0, len(r.pools))
	for _, p := range r.pools {
		pools = append(pools, p)
	}
	sort.SliceStable(pools, func(i, j int) bool {
		if pools[i].CreatedAt == pools[j].CreatedAt {
			return pools[i].ID < pools[j].ID
		}
		return pools[i].CreatedAt < pools[j].CreatedAt
	})
	return pools, nil
}

// UpdatePool updates the pool with the given id passing an update function.
// Nothing is stored if updateFn fails.
func (r *PoolRepositoryImpl) UpdatePool(
	_ context.Context,
	id string,
	updateFn func(p *domain.Pool) (*domain.Pool, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	currentPool, err := r.getPool(id)
	if err != nil {
		return err
	}

	updatedPool, err := updateFn(currentPool)
	if err != nil {
		return err
	}

	r.pools[id] = *updatedPool
	return nil
}

// DeletePool ...
func (r *PoolRepositoryImpl) DeletePool(_ context.Context, id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.pools[id]; !ok {
		return domain.ErrPoolNotFound
	}
	delete(r.pools, id)
	return nil
}

// GetTradeCounters returns the mirrored trade counters of the given pool.
func (r *PoolRepositoryImpl) GetTradeCounters(
	_ context.Context, poolID string,
) (pricing.TradeCounters, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	pool, err := r.getPool(poolID)
	if err != nil {
		return pricing.TradeCounters{}, err
	}
	return pool.Counters, nil
}

func (r *PoolRepositoryImpl) getPool(id string) (*domain.Pool, error) {
	pool, ok := r.pools[id]
	if !ok {
		return nil, domain.ErrPoolNotFound
	}
	return &pool, nil
}
