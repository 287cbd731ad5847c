package mathutil

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	// LamportsPerSol is the number of smallest currency units in one SOL.
	LamportsPerSol = uint64(1_000_000_000)
	// LamportsPerSolDecimal is LamportsPerSol as decimal.Decimal.
	LamportsPerSolDecimal = decimal.NewFromInt(int64(LamportsPerSol))

	bigMaxUint64 = new(big.Int).SetUint64(^uint64(0))
)

// ErrOverflow is returned when a value does not fit in a uint64.
var ErrOverflow = errors.New("amount overflows uint64")

// BigUint returns x as a new *big.Int.
func BigUint(x uint64) *big.Int {
	return new(big.Int).SetUint64(x)
}

// MulDiv returns x * y / z truncated toward zero. z must not be zero.
func MulDiv(x, y, z *big.Int) *big.Int {
	n := new(big.Int).Mul(x, y)
	return n.Quo(n, z)
}

// ToUint64 converts a non negative big.Int to uint64, failing if it
// overflows.
func ToUint64(x *big.Int) (uint64, error) {
	if x.Sign() < 0 {
		return 0, ErrOverflow
	}
	if x.Cmp(bigMaxUint64) > 0 {
		return 0, ErrOverflow
	}
	return x.Uint64(), nil
}

// SaturateUint64 clamps x into [0, MaxUint64].
func SaturateUint64(x *big.Int) uint64 {
	if x.Sign() <= 0 {
		return 0
	}
	if x.Cmp(bigMaxUint64) > 0 {
		return ^uint64(0)
	}
	return x.Uint64()
}

// Decimal returns x as decimal.Decimal with zero exponent.
func Decimal(x uint64) decimal.Decimal {
	return decimal.NewFromBigInt(BigUint(x), 0)
}

// ToSol takes an amount of lamports and returns it as decimal SOL.
func ToSol(lamports uint64) decimal.Decimal {
	return Decimal(lamports).Div(LamportsPerSolDecimal)
}

// FromSol converts a SOL amount into lamports, truncating any sub-lamport
// digit.
func FromSol(sol decimal.Decimal) (uint64, error) {
	if sol.IsNegative() {
		return 0, ErrOverflow
	}
	return ToUint64(sol.Mul(LamportsPerSolDecimal).Truncate(0).BigInt())
}
