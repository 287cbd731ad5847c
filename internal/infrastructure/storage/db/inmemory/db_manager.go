package inmemory

import (
	"github.com/tdex-network/nftamm/internal/core/domain"
	"github.com/tdex-network/nftamm/internal/core/ports"
)

type RepoManager struct {
	poolRepository *PoolRepositoryImpl
}

func NewRepoManager() ports.RepoManager {
	return &RepoManager{
		poolRepository: NewPoolRepositoryImpl(),
	}
}

func (d *RepoManager) PoolRepository() domain.PoolRepository {
	return d.poolRepository
}

func (d *RepoManager) ChainStateReader() ports.ChainStateReader {
	return d.poolRepository
}

func (d *RepoManager) Close() {}
