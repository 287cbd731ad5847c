package bondingcurve

import "math/big"

// LinearFormula prices ticks as startingPrice + tick*delta with a floor at
// zero.
type LinearFormula struct{}

func (LinearFormula) PriceAtTick(
	startingPrice, delta uint64, tick int64,
) *big.Int {
	price := new(big.Int).Mul(big.NewInt(tick), bigUint(delta))
	price.Add(price, bigUint(startingPrice))
	if price.Sign() < 0 {
		return new(big.Int)
	}
	return price
}

// SellSideSum is exact for linear curves, every term is already an integer.
func (f LinearFormula) SellSideSum(
	startingPrice, delta uint64, n int64,
) *big.Int {
	return f.SellSideClosedForm(startingPrice, delta, n)
}

// SellSideClosedForm sums startingPrice - k*delta for k in [1, n], where only
// the strictly positive terms contribute since the curve is floored at zero.
func (LinearFormula) SellSideClosedForm(
	startingPrice, delta uint64, n int64,
) *big.Int {
	if n <= 0 || startingPrice == 0 {
		return new(big.Int)
	}
	count := big.NewInt(n)
	start := bigUint(startingPrice)
	if delta == 0 {
		return count.Mul(count, start)
	}

	d := bigUint(delta)
	// Terms are positive while k*delta < startingPrice.
	positive := new(big.Int).Sub(start, bigOne)
	positive.Quo(positive, d)
	if positive.Cmp(count) < 0 {
		count = positive
	}

	// count*start - delta*count*(count+1)/2
	sum := new(big.Int).Mul(count, start)
	decrement := new(big.Int).Add(count, bigOne)
	decrement.Mul(decrement, count)
	decrement.Quo(decrement, bigTwo)
	decrement.Mul(decrement, d)
	return sum.Sub(sum, decrement)
}

func (LinearFormula) FormulaType() CurveType {
	return Linear
}
