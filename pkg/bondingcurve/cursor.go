package bondingcurve

import (
	"math"
	"math/big"

	"github.com/tdex-network/nftamm/pkg/mathutil"
)

// Cursor prices consecutive ticks of a curve. Moving an exponential cursor
// by one tick costs two small multiplications, or exact divisions, instead
// of a full exponentiation.
type Cursor struct {
	curve Curve
	tick  int64
	step  int64
	// num/den is the exact exponential price at tick, nil while the price is
	// out of uint64 range or not computed yet.
	num, den *big.Int
}

// Cursor returns a cursor at the given tick moving up if step is positive,
// down otherwise.
func (c Curve) Cursor(tick, step int64) *Cursor {
	if step >= 0 {
		step = 1
	} else {
		step = -1
	}
	return &Cursor{curve: c, tick: tick, step: step}
}

// Tick returns the tick the cursor points at.
func (c *Cursor) Tick() int64 {
	return c.tick
}

// Price returns the price at the current tick, or ErrPriceOverflow if it
// does not fit in a uint64.
func (c *Cursor) Price() (uint64, error) {
	price, err := c.bigPrice()
	if err != nil {
		return 0, err
	}
	amount, err := mathutil.ToUint64(price)
	if err != nil {
		return 0, ErrPriceOverflow
	}
	return amount, nil
}

// Next moves the cursor by one tick.
func (c *Cursor) Next() error {
	if (c.step > 0 && c.tick == math.MaxInt64) ||
		(c.step < 0 && c.tick == math.MinInt64) {
		return ErrTickOutOfRange
	}

	if c.num != nil {
		c.stepFraction()
	}
	c.tick += c.step
	if c.num != nil && exponentialRange(c.curve.Delta, c.tick) != inRange {
		c.num, c.den = nil, nil
	}
	return nil
}

func (c *Cursor) bigPrice() (*big.Int, error) {
	curve := c.curve
	if curve.Type != Exponential || curve.StartingPrice == 0 || curve.Delta == 0 {
		return curve.BigPriceAtTick(c.tick), nil
	}

	if c.num == nil {
		switch exponentialRange(curve.Delta, c.tick) {
		case belowOne:
			return new(big.Int), nil
		case aboveMax:
			return nil, ErrPriceOverflow
		}
		c.num, c.den = exponentialFraction(curve.StartingPrice, curve.Delta, c.tick)
	}
	return new(big.Int).Quo(c.num, c.den), nil
}

// stepFraction moves num/den from tick to tick+step. Moving towards tick 0
// divides out a factor the fraction is known to carry.
func (c *Cursor) stepFraction() {
	up, down := ratio(c.curve.Delta)
	switch {
	case c.step > 0 && c.tick >= 0:
		c.num.Mul(c.num, up)
		c.den.Mul(c.den, down)
	case c.step > 0:
		c.num.Quo(c.num, down)
		c.den.Quo(c.den, up)
	case c.tick > 0:
		c.num.Quo(c.num, up)
		c.den.Quo(c.den, down)
	default:
		c.num.Mul(c.num, down)
		c.den.Mul(c.den, up)
	}
}
