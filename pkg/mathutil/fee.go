package mathutil

import "math/big"

// TenThousands is the basis-point denominator.
var TenThousands = uint64(10000)

var bigTenThousands = big.NewInt(10000)

// PlusFee calculates an amount with a fee added given a uint64 amount and a
// fee expressed in basis point (ie. 0.25% = 25). The fee is truncated toward
// zero.
func PlusFee(amount, feeAsBasisPoint uint64) (withFee, calculatedFee uint64) {
	fee := MulDiv(BigUint(amount), BigUint(feeAsBasisPoint), bigTenThousands)
	calculatedFee = SaturateUint64(fee)
	withFee = SaturateUint64(fee.Add(fee, BigUint(amount)))
	return
}

// LessFee calculates an amount with a fee subtracted given a uint64 amount and
// a fee expressed in basis point. The remaining amount is
// amount * (10000 - fee) / 10000 truncated toward zero, the fee is whatever
// the truncation leaves out.
func LessFee(amount, feeAsBasisPoint uint64) (withFee, calculatedFee uint64) {
	if feeAsBasisPoint >= TenThousands {
		return 0, amount
	}
	remaining := MulDiv(
		BigUint(amount), BigUint(TenThousands-feeAsBasisPoint), bigTenThousands,
	)
	withFee = remaining.Uint64()
	calculatedFee = amount - withFee
	return
}

// FeeOf returns amount * feeAsBasisPoint / 10000 truncated toward zero.
func FeeOf(amount, feeAsBasisPoint uint64) uint64 {
	return SaturateUint64(
		MulDiv(BigUint(amount), BigUint(feeAsBasisPoint), bigTenThousands),
	)
}
