package pricing

import (
	"math/big"

	"github.com/tdex-network/nftamm/pkg/mathutil"
)

// Quote is the price of a single unit of a batch.
type Quote struct {
	Side TakerSide `json:"side"`
	// Tick is the curve position the unit is priced at.
	Tick int64 `json:"tick"`
	// CurvePrice is the raw curve price at Tick.
	CurvePrice uint64 `json:"curvePrice"`
	// UnitPrice is what the pool pays or receives for the unit, that is
	// CurvePrice less the market maker fee.
	UnitPrice uint64 `json:"unitPrice"`
	// MMFee is the part of CurvePrice retained by a trade pool on sells.
	MMFee uint64 `json:"mmFee"`
	// MMFeeCompounded tells where MMFee has to be credited.
	MMFeeCompounded bool `json:"mmFeeCompounded"`
	// ProtocolFee is charged to the taker on top of UnitPrice.
	ProtocolFee uint64 `json:"protocolFee"`
}

// TakerAmount is what the taker pays for a buy or receives for a sell once
// the protocol fee is applied. Buy quotes built by Resolve never overflow.
func (q Quote) TakerAmount() uint64 {
	if q.Side == Buy {
		return q.UnitPrice + q.ProtocolFee
	}
	if q.ProtocolFee >= q.UnitPrice {
		return 0
	}
	return q.UnitPrice - q.ProtocolFee
}

// Quotes is a batch of per unit quotes in execution order.
type Quotes []Quote

// TotalUnitPrice ...
func (qs Quotes) TotalUnitPrice() (uint64, error) {
	return qs.sum(func(q Quote) uint64 { return q.UnitPrice })
}

// TotalMMFee ...
func (qs Quotes) TotalMMFee() (uint64, error) {
	return qs.sum(func(q Quote) uint64 { return q.MMFee })
}

// TotalProtocolFee ...
func (qs Quotes) TotalProtocolFee() (uint64, error) {
	return qs.sum(func(q Quote) uint64 { return q.ProtocolFee })
}

// TotalTakerAmount ...
func (qs Quotes) TotalTakerAmount() (uint64, error) {
	return qs.sum(Quote.TakerAmount)
}

// sum adds up the given amount of every quote, failing with
// ErrAmountOverflow instead of wrapping around.
func (qs Quotes) sum(amount func(Quote) uint64) (uint64, error) {
	total := new(big.Int)
	for _, q := range qs {
		total.Add(total, mathutil.BigUint(amount(q)))
	}
	return toAmount(total)
}
