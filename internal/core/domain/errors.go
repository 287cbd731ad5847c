package domain

import "errors"

var (
	// ErrPoolNotFound is returned by repositories for unknown pool ids.
	ErrPoolNotFound = errors.New("pool not found")
	// ErrPoolAlreadyExists is returned by repositories when adding a pool
	// with an id already in use.
	ErrPoolAlreadyExists = errors.New("pool already exists")
	// ErrPoolInvalidConfig is returned for pools without a built config.
	ErrPoolInvalidConfig = errors.New("pool config must be initialized")
	// ErrPoolInvalidName ...
	ErrPoolInvalidName = errors.New("pool name must not be empty")
	// ErrPoolTypeImmutable is returned when an edit tries to change the type
	// of a pool.
	ErrPoolTypeImmutable = errors.New("pool type cannot be changed")
	// ErrPoolClosed is returned when trading against or closing a closed pool.
	ErrPoolClosed = errors.New("pool is closed")
	// ErrPoolOpen is returned when reopening or dropping an open pool.
	ErrPoolOpen = errors.New("pool is open")
	// ErrTradeEmpty ...
	ErrTradeEmpty = errors.New("trade must contain at least one unit")
	// ErrTradeStaleQuote is returned when a batch was not quoted at the
	// pool's current counters.
	ErrTradeStaleQuote = errors.New("trade was quoted against stale counters")
	// ErrTradeMixedSides ...
	ErrTradeMixedSides = errors.New("trade units must all be on the same side")
)
