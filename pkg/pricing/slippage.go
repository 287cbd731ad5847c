package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/tdex-network/nftamm/pkg/mathutil"
)

var decimalOne = decimal.NewFromInt(1)

// BoundedPrice returns the guard price a taker embeds in a transaction so
// that it fails if the settlement price moved past the given tolerance: the
// maximum price accepted for buys, rounded up, and the minimum price
// accepted for sells, rounded down.
func BoundedPrice(
	quote Quote, side TakerSide, tolerance decimal.Decimal,
) (uint64, error) {
	return boundPrice(quote.UnitPrice, side, tolerance)
}

// BoundedTotal is like BoundedPrice but bounds the total unit price of a
// whole batch.
func BoundedTotal(
	quotes Quotes, side TakerSide, tolerance decimal.Decimal,
) (uint64, error) {
	total, err := quotes.TotalUnitPrice()
	if err != nil {
		return 0, err
	}
	return boundPrice(total, side, tolerance)
}

// ValidateTolerance makes sure tolerance is in range [0, 1).
func ValidateTolerance(tolerance decimal.Decimal) error {
	if tolerance.IsNegative() || tolerance.GreaterThanOrEqual(decimalOne) {
		return ErrInvalidTolerance
	}
	return nil
}

func boundPrice(
	price uint64, side TakerSide, tolerance decimal.Decimal,
) (uint64, error) {
	if err := ValidateTolerance(tolerance); err != nil {
		return 0, err
	}

	p := mathutil.Decimal(price)
	var bound decimal.Decimal
	switch side {
	case Buy:
		bound = p.Mul(decimalOne.Add(tolerance)).Ceil()
	case Sell:
		bound = p.Mul(decimalOne.Sub(tolerance)).Floor()
	default:
		return 0, ErrWrongPoolType
	}

	guard, err := mathutil.ToUint64(bound.BigInt())
	if err != nil {
		return 0, ErrAmountOverflow
	}
	return guard, nil
}
