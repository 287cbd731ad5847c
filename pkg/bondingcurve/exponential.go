package bondingcurve

import (
	"math"
	"math/big"
)

// ExponentialFormula prices ticks as startingPrice * (1 + delta/10000)^tick.
// The ratio is kept as the fraction (10000+delta)/10000 so every price is an
// exact rational truncated once.
type ExponentialFormula struct{}

func (ExponentialFormula) PriceAtTick(
	startingPrice, delta uint64, tick int64,
) *big.Int {
	if startingPrice == 0 || delta == 0 {
		return bigUint(startingPrice)
	}
	if tick < 0 && exponentialRange(delta, tick) == belowOne {
		return new(big.Int)
	}
	num, den := exponentialFraction(startingPrice, delta, tick)
	return num.Quo(num, den)
}

// SellSideSum walks the series one term at a time, keeping numerator and
// denominator exact, and stops early once the terms reach zero.
func (ExponentialFormula) SellSideSum(
	startingPrice, delta uint64, n int64,
) *big.Int {
	sum := new(big.Int)
	if n <= 0 || startingPrice == 0 {
		return sum
	}
	if delta == 0 {
		return sum.Mul(big.NewInt(n), bigUint(startingPrice))
	}

	up, down := ratio(delta)
	num := bigUint(startingPrice)
	den := big.NewInt(1)
	term := new(big.Int)
	for k := int64(1); k <= n; k++ {
		num.Mul(num, down)
		den.Mul(den, up)
		term.Quo(num, den)
		if term.Sign() == 0 {
			break
		}
		sum.Add(sum, term)
	}
	return sum
}

// SellSideClosedForm evaluates the geometric series
// S * sum_{k=1..n} (B/A)^k = S * B * (A^n - B^n) / (delta * A^n)
// with A = 10000+delta and B = 10000.
func (ExponentialFormula) SellSideClosedForm(
	startingPrice, delta uint64, n int64,
) *big.Int {
	if n <= 0 || startingPrice == 0 {
		return new(big.Int)
	}
	if delta == 0 {
		return new(big.Int).Mul(big.NewInt(n), bigUint(startingPrice))
	}

	up, down := ratio(delta)
	exp := big.NewInt(n)
	upN := new(big.Int).Exp(up, exp, nil)
	downN := new(big.Int).Exp(down, exp, nil)

	num := new(big.Int).Sub(upN, downN)
	num.Mul(num, down)
	num.Mul(num, bigUint(startingPrice))
	den := new(big.Int).Mul(upN, bigUint(delta))
	return num.Quo(num, den)
}

func (ExponentialFormula) FormulaType() CurveType {
	return Exponential
}

// exponentialFraction returns the price at tick as the exact fraction
// S*up^t / down^t for t >= 0, and S*down^|t| / up^|t| otherwise.
func exponentialFraction(
	startingPrice, delta uint64, tick int64,
) (num, den *big.Int) {
	up, down := ratio(delta)
	if tick < 0 {
		up, down = down, up
	}
	exp := new(big.Int).Abs(big.NewInt(tick))
	num = new(big.Int).Exp(up, exp, nil)
	num.Mul(num, bigUint(startingPrice))
	den = new(big.Int).Exp(down, exp, nil)
	return num, den
}

type priceRange int

const (
	inRange priceRange = iota
	// belowOne: every starting price truncates to zero.
	belowOne
	// aboveMax: every non zero starting price exceeds math.MaxUint64.
	aboveMax
)

// exponentialRange estimates how far a tick moves any uint64 starting price
// by comparing the bits it adds or removes against a margin above 64.
func exponentialRange(delta uint64, tick int64) priceRange {
	bits := math.Abs(float64(tick)) * math.Log2(1+float64(delta)/10000)
	if bits <= 66 {
		return inRange
	}
	if tick < 0 {
		return belowOne
	}
	return aboveMax
}

func ratio(delta uint64) (up, down *big.Int) {
	up = new(big.Int).Add(bigTenThousands, bigUint(delta))
	down = new(big.Int).Set(bigTenThousands)
	return
}
