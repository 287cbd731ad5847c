package domain

import "context"

// PoolRepository defines the abstraction for Pool.
type PoolRepository interface {
	// AddPool stores a new pool, failing if one with the same id exists.
	AddPool(ctx context.Context, pool *Pool) error
	// GetPool returns the pool with the given id.
	GetPool(ctx context.Context, id string) (*Pool, error)
	// ListPools returns all the pools, open or not.
	ListPools(ctx context.Context) ([]Pool, error)
	// UpdatePool updates the pool with the given id passing an update
	// function.
	UpdatePool(
		ctx context.Context,
		id string,
		updateFn func(p *Pool) (*Pool, error),
	) error
	// DeletePool removes the pool with the given id.
	DeletePool(ctx context.Context, id string) error
}
