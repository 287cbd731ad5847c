package pricing

// ConfigurationError marks an invalid combination of curve or fee parameters.
// It is only ever returned while building a PoolConfig or a
// ProtocolFeeSchedule.
type ConfigurationError struct {
	reason string
}

func (e *ConfigurationError) Error() string {
	return e.reason
}

// PreconditionError marks a call made with inputs the engine refuses to
// price. It is returned before any arithmetic runs.
type PreconditionError struct {
	reason string
}

func (e *PreconditionError) Error() string {
	return e.reason
}

var (
	// ErrDeltaTooLarge is returned for exponential curves with a delta of
	// 10000 bps or more.
	ErrDeltaTooLarge = &ConfigurationError{"delta too large"}
	// ErrFeesTooHigh is returned for fees of 10000 bps or more.
	ErrFeesTooHigh = &ConfigurationError{"fees too high"}
	// ErrMissingFees is returned for trade pools without a market maker fee.
	ErrMissingFees = &ConfigurationError{"missing market maker fees"}
	// ErrFeesNotAllowed is returned for nft and token pools carrying market
	// maker fee fields.
	ErrFeesNotAllowed = &ConfigurationError{"fees not allowed for pool type"}
	// ErrInvalidCurve is returned for unknown curve types.
	ErrInvalidCurve = &ConfigurationError{"invalid curve type"}
	// ErrInvalidPoolType is returned for unknown pool types.
	ErrInvalidPoolType = &ConfigurationError{"invalid pool type"}
	// ErrUnknownFeeSchedule ...
	ErrUnknownFeeSchedule = &ConfigurationError{"unknown protocol fee schedule"}

	// ErrWrongPoolType is returned when the taker side is not supported by
	// the pool type.
	ErrWrongPoolType = &PreconditionError{"wrong pool type"}
	// ErrInvalidTolerance is returned for slippage tolerances outside [0, 1).
	ErrInvalidTolerance = &PreconditionError{"slippage tolerance must be in range [0, 1)"}
	// ErrInvalidUnitCount is returned for batch sizes or sell counts out of
	// range.
	ErrInvalidUnitCount = &PreconditionError{"invalid unit count"}
	// ErrUninitializedPool is returned for zero value pool configs.
	ErrUninitializedPool = &PreconditionError{"pool config not initialized"}
	// ErrAmountOverflow is returned when an amount does not fit in uint64.
	ErrAmountOverflow = &PreconditionError{"amount overflows uint64"}
	// ErrTickOutOfRange is returned when trade counters or a batch move the
	// pool past the int64 range of curve positions.
	ErrTickOutOfRange = &PreconditionError{"curve position out of range"}
)
