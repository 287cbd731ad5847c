package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/nftamm/internal/core/domain"
	"github.com/tdex-network/nftamm/pkg/pricing"
	"github.com/timshannon/badgerhold/v4"
)

type poolRepositoryImpl struct {
	store *badgerhold.Store
}

func newPoolRepositoryImpl(store *badgerhold.Store) *poolRepositoryImpl {
	return &poolRepositoryImpl{store}
}

func (r *poolRepositoryImpl) AddPool(
	_ context.Context, p *domain.Pool,
) error {
	if err := r.store.Insert(p.ID, fromDomain(p)); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrPoolAlreadyExists
		}
		return fmt.Errorf("failed to insert pool %s: %w", p.ID, err)
	}
	return nil
}

func (r *poolRepositoryImpl) GetPool(
	_ context.Context, id string,
) (*domain.Pool, error) {
	var stored pool
	if err := r.store.Get(id, &stored); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrPoolNotFound
		}
		return nil, err
	}
	return stored.toDomain()
}

func (r *poolRepositoryImpl) ListPools(_ context.Context) ([]domain.Pool, error) {
	var stored []pool
	if err := r.store.Find(&stored, nil); err != nil {
		return nil, err
	}

	pools := make([]domain.Pool, 0, len(stored))
	for _, s := range stored {
		p, err := s.toDomain()
		if err != nil {
			return nil, fmt.Errorf("failed to decode pool %s: %w", s.ID, err)
		}
		pools = append(pools, *p)
	}
	sort.SliceStable(pools, func(i, j int) bool {
		if pools[i].CreatedAt == pools[j].CreatedAt {
			return pools[i].ID < pools[j].ID
		}
		return pools[i].CreatedAt < pools[j].CreatedAt
	})
	return pools, nil
}

// UpdatePool reads, updates and writes the pool in a single badger
// transaction.
func (r *poolRepositoryImpl) UpdatePool(
	_ context.Context,
	id string,
	updateFn func(p *domain.Pool) (*domain.Pool, error),
) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		var stored pool
		if err := r.store.TxGet(tx, id, &stored); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return domain.ErrPoolNotFound
			}
			return err
		}

		current, err := stored.toDomain()
		if err != nil {
			return err
		}
		updated, err := updateFn(current)
		if err != nil {
			return err
		}

		return r.store.TxUpdate(tx, id, fromDomain(updated))
	})
}

func (r *poolRepositoryImpl) DeletePool(_ context.Context, id string) error {
	if err := r.store.Delete(id, pool{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrPoolNotFound
		}
		return err
	}
	return nil
}

func (r *poolRepositoryImpl) GetTradeCounters(
	ctx context.Context, poolID string,
) (pricing.TradeCounters, error) {
	p, err := r.GetPool(ctx, poolID)
	if err != nil {
		return pricing.TradeCounters{}, err
	}
	return p.Counters, nil
}
