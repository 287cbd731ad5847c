package ports

import "github.com/tdex-network/nftamm/internal/core/domain"

// RepoManager holds the repositories of the storage backend in use.
type RepoManager interface {
	PoolRepository() domain.PoolRepository
	// ChainStateReader serves the counters mirrored in the pool repository.
	ChainStateReader() ChainStateReader
	Close()
}
