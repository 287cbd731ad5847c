// Package bondingcurve defines the price curves a pool moves along as takers
// buy from and sell to it. All arithmetic is exact integer arithmetic over
// math/big with a single truncation toward zero at the end of every formula.
package bondingcurve

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// CurveType identifies a bonding curve formula.
type CurveType int

const (
	// Linear moves the price by a fixed amount of lamports per tick.
	Linear CurveType = iota
	// Exponential moves the price by a fixed number of basis points per tick.
	Exponential
)

// MaxExponentialDelta is the exclusive upper bound for the delta of an
// exponential curve, expressed in basis points.
const MaxExponentialDelta = 10000

var (
	// ErrDeltaTooLarge is returned for exponential curves with a delta of
	// 10000 basis points or more.
	ErrDeltaTooLarge = errors.New("delta too large for exponential curve")
	// ErrUnknownCurveType ...
	ErrUnknownCurveType = errors.New("unknown curve type")
	// ErrPriceOverflow is returned for prices that do not fit in a uint64.
	ErrPriceOverflow = errors.New("price overflows uint64")
	// ErrTickOutOfRange is returned when a cursor would move past the int64
	// range of ticks.
	ErrTickOutOfRange = errors.New("tick out of range")
)

var curveTypeNames = map[CurveType]string{
	Linear:      "linear",
	Exponential: "exponential",
}

func (t CurveType) String() string {
	if name, ok := curveTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("CurveType(%d)", int(t))
}

// ParseCurveType returns the curve type with the given (case insensitive)
// name.
func ParseCurveType(name string) (CurveType, error) {
	for t, n := range curveTypeNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownCurveType, name)
}

// MarshalText encodes the curve type by name.
func (t CurveType) MarshalText() ([]byte, error) {
	if _, ok := curveTypeNames[t]; !ok {
		return nil, ErrUnknownCurveType
	}
	return []byte(t.String()), nil
}

// UnmarshalText ...
func (t *CurveType) UnmarshalText(text []byte) error {
	parsed, err := ParseCurveType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Curve is the curve configuration of a pool.
type Curve struct {
	Type CurveType
	// StartingPrice is the price at tick 0, in lamports.
	StartingPrice uint64
	// Delta is lamports per tick for Linear curves and basis points per tick
	// for Exponential ones.
	Delta uint64
}

// Validate makes sure the curve can be priced. PriceAtTick assumes a valid
// curve.
func (c Curve) Validate() error {
	if _, ok := formulas[c.Type]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownCurveType, int(c.Type))
	}
	if c.Type == Exponential && c.Delta >= MaxExponentialDelta {
		return ErrDeltaTooLarge
	}
	return nil
}

// Formula returns the formula backing the curve type.
func (c Curve) Formula() Formula {
	return formulas[c.Type]
}

// PriceAtTick returns the unit price at the given signed tick offset, or
// ErrPriceOverflow if it does not fit in a uint64.
func (c Curve) PriceAtTick(tick int64) (uint64, error) {
	return c.Cursor(tick, 1).Price()
}

// BigPriceAtTick is like PriceAtTick but returns the untruncated-to-uint64
// result.
func (c Curve) BigPriceAtTick(tick int64) *big.Int {
	return c.Formula().PriceAtTick(c.StartingPrice, c.Delta, tick)
}

// SellSideSum returns the sum of the prices at ticks -1, -2, ..., -n, each
// truncated on its own. This is exactly what a pool pays out for n
// consecutive sells starting from tick 0.
func (c Curve) SellSideSum(n int64) *big.Int {
	return c.Formula().SellSideSum(c.StartingPrice, c.Delta, n)
}

// SellSideClosedForm returns the same series as SellSideSum evaluated in
// closed form and truncated once. For exponential curves it may exceed
// SellSideSum by less than n lamports.
func (c Curve) SellSideClosedForm(n int64) *big.Int {
	return c.Formula().SellSideClosedForm(c.StartingPrice, c.Delta, n)
}
