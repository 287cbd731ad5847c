package dbbadger

import (
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/tdex-network/nftamm/internal/core/domain"
	"github.com/tdex-network/nftamm/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

// RepoManager holds the badgerhold store of the pools.
type RepoManager struct {
	store          *badgerhold.Store
	poolRepository *poolRepositoryImpl
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	return newRepoManager(baseDbDir, logger)
}

func newRepoManager(baseDbDir string, logger badger.Logger) (*RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "pools")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening pools db: %w", err)
	}

	return &RepoManager{
		store:          store,
		poolRepository: newPoolRepositoryImpl(store),
	}, nil
}

func (r *RepoManager) PoolRepository() domain.PoolRepository {
	return r.poolRepository
}

func (r *RepoManager) ChainStateReader() ports.ChainStateReader {
	return r.poolRepository
}

func (r *RepoManager) Close() {
	r.store.Close()
}

// createDb opens the store in the given dir, or in memory if dir is empty.
func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
