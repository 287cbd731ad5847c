package bondingcurve

import "math/big"

// Formula defines the interface for implementing a bonding curve.
type Formula interface {
	// PriceAtTick returns the price at the given tick, never negative.
	PriceAtTick(startingPrice, delta uint64, tick int64) *big.Int
	// SellSideSum sums PriceAtTick(-1..-n) truncating every term.
	SellSideSum(startingPrice, delta uint64, n int64) *big.Int
	// SellSideClosedForm sums PriceAtTick(-1..-n) in closed form.
	SellSideClosedForm(startingPrice, delta uint64, n int64) *big.Int
	FormulaType() CurveType
}

var formulas = map[CurveType]Formula{
	Linear:      LinearFormula{},
	Exponential: ExponentialFormula{},
}

var (
	bigOne          = big.NewInt(1)
	bigTwo          = big.NewInt(2)
	bigTenThousands = big.NewInt(10000)
)

func bigUint(x uint64) *big.Int {
	return new(big.Int).SetUint64(x)
}
