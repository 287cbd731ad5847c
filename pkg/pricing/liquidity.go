package pricing

import (
	"math/big"

	"github.com/tdex-network/nftamm/pkg/mathutil"
)

// DepositRequired returns the lamports a pool operator must deposit so that
// sellCount consecutive taker sells, starting from a fresh pool, can all be
// paid. It equals the sum of the pre fee prices of those sells, each
// truncated as it is on settlement.
func DepositRequired(cfg PoolConfig, sellCount int64) (uint64, error) {
	if err := checkSizing(cfg, sellCount); err != nil {
		return 0, err
	}
	return toAmount(cfg.Curve().SellSideSum(sellCount))
}

// ClosedFormDeposit evaluates the same liability as DepositRequired with the
// curve series in closed form, truncated once. For exponential curves it
// can exceed DepositRequired by less than sellCount lamports.
func ClosedFormDeposit(cfg PoolConfig, sellCount int64) (uint64, error) {
	if err := checkSizing(cfg, sellCount); err != nil {
		return 0, err
	}
	return toAmount(cfg.Curve().SellSideClosedForm(sellCount))
}

// MaxSellsFunded returns how many consecutive sells against a fresh pool a
// deposit of the given balance can honor, up to limit.
func MaxSellsFunded(cfg PoolConfig, balance uint64, limit int64) (int64, error) {
	if err := checkSizing(cfg, limit); err != nil {
		return 0, err
	}

	curve := cfg.Curve()
	funds := mathutil.BigUint(balance)
	fits := func(n int64) bool {
		return curve.SellSideSum(n).Cmp(funds) <= 0
	}
	if fits(limit) {
		return limit, nil
	}

	// The series is monotonic in n, fits(lo) always holds.
	lo, hi := int64(0), limit
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if fits(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, nil
}

func checkSizing(cfg PoolConfig, count int64) error {
	if cfg.IsZero() {
		return ErrUninitializedPool
	}
	if count < 0 || count > MaxUnitsPerBatch {
		return ErrInvalidUnitCount
	}
	if !cfg.PoolType().Accepts(Sell) {
		return ErrWrongPoolType
	}
	return nil
}

func toAmount(x *big.Int) (uint64, error) {
	amount, err := mathutil.ToUint64(x)
	if err != nil {
		return 0, ErrAmountOverflow
	}
	return amount, nil
}
