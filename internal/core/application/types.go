package application

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/nftamm/internal/core/domain"
	"github.com/tdex-network/nftamm/pkg/pricing"
)

const (
	// MaxUnitsPerQuote caps the units of a single quote request and the
	// sells of a deposit request.
	MaxUnitsPerQuote = 10000
	// MaxQuotesPerRequest caps the requests of a single QuoteMany call.
	MaxQuotesPerRequest = 100
)

// PoolRequest is the request to create a pool.
type PoolRequest struct {
	Name   string
	Config pricing.PoolConfigParams
}

func (r PoolRequest) validate() error {
	return validation.ValidateStruct(
		&r,
		validation.Field(&r.Name, validation.Required.Error(domain.ErrPoolInvalidName.Error())),
	)
}

// PoolInfo is the view of a pool returned by the service. Prices are those
// of the next unit traded on each side, nil if the pool doesn't trade on it.
type PoolInfo struct {
	ID               string                   `json:"id"`
	Name             string                   `json:"name"`
	Config           pricing.PoolConfigParams `json:"config"`
	Counters         pricing.TradeCounters    `json:"counters"`
	Open             bool                     `json:"open"`
	AccruedMMProfit  uint64                   `json:"accruedMmProfit"`
	CompoundedMMFees uint64                   `json:"compoundedMmFees"`
	BuyPrice         *uint64                  `json:"buyPrice,omitempty"`
	SellPrice        *uint64                  `json:"sellPrice,omitempty"`
	CreatedAt        int64                    `json:"createdAt"`
	UpdatedAt        int64                    `json:"updatedAt"`
}

// QuoteRequest is the request to price a batch of units traded against a
// pool. A nil Tolerance means the service default.
type QuoteRequest struct {
	PoolID    string
	Side      pricing.TakerSide
	Units     int64
	Tolerance *decimal.Decimal
}

func (r QuoteRequest) validate() error {
	if err := validation.ValidateStruct(
		&r,
		validation.Field(&r.PoolID, validation.Required.Error(ErrMissingPoolID.Error())),
		validation.Field(&r.Side, validation.In(pricing.Buy, pricing.Sell)),
		validation.Field(&r.Units, validation.Max(int64(MaxUnitsPerQuote))),
	); err != nil {
		return err
	}
	if r.Units < 1 {
		return pricing.ErrInvalidUnitCount
	}
	if r.Tolerance != nil {
		return pricing.ValidateTolerance(*r.Tolerance)
	}
	return nil
}

// TradePreview is the full pricing of a batch together with the guard
// prices the taker should embed in its transaction. UnitGuard bounds the
// first unit's price, BatchGuard the total unit price of the batch: both
// are maximums for buys and minimums for sells.
type TradePreview struct {
	RequestID        string          `json:"requestId"`
	PoolID           string          `json:"poolId"`
	PoolType         string          `json:"poolType"`
	Side             string          `json:"side"`
	Units            int64           `json:"units"`
	Tolerance        decimal.Decimal `json:"tolerance"`
	FeeSchedule      string          `json:"feeSchedule"`
	Quotes           pricing.Quotes  `json:"quotes"`
	UnitGuard        uint64          `json:"unitGuard"`
	BatchGuard       uint64          `json:"batchGuard"`
	TotalUnitPrice   uint64          `json:"totalUnitPrice"`
	TotalMMFee       uint64          `json:"totalMmFee"`
	TotalProtocolFee uint64          `json:"totalProtocolFee"`
	TotalTakerAmount uint64          `json:"totalTakerAmount"`
}

// DepositInfo is the liquidity a pool needs to honor a number of sells.
// ClosedForm is the same amount computed in closed form, an upper bound of
// Required.
type DepositInfo struct {
	PoolID     string `json:"poolId"`
	SellCount  int64  `json:"sellCount"`
	Required   uint64 `json:"required"`
	ClosedForm uint64 `json:"closedForm"`
}

// TradeReceipt is the result of mirroring a settled trade.
type TradeReceipt struct {
	Pool   PoolInfo       `json:"pool"`
	Quotes pricing.Quotes `json:"quotes"`
}

func validateSellCount(count int64) error {
	return validation.Validate(count, validation.Max(int64(MaxUnitsPerQuote)))
}

func isValidationError(err error) bool {
	var errs validation.Errors
	var e validation.Error
	return errors.As(err, &errs) || errors.As(err, &e)
}
