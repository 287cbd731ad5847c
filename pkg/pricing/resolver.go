package pricing

import "github.com/tdex-network/nftamm/pkg/mathutil"

// Resolver turns curve prices into the prices takers actually trade at.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	fees ProtocolFeeSchedule
}

// NewResolver returns a resolver charging the given protocol fees.
func NewResolver(fees ProtocolFeeSchedule) *Resolver {
	return &Resolver{fees}
}

// FeeSchedule ...
func (r *Resolver) FeeSchedule() ProtocolFeeSchedule {
	return r.fees
}

// MaxUnitsPerBatch is the largest batch Resolve prices.
const MaxUnitsPerBatch = 100000

// Resolve prices a batch of units traded on the given side against a pool
// at the given counters. Buys are priced at net+k, sells at net-1-k so that
// a trade pool keeps a one tick spread. Trade pools retain their market
// maker fee on sells only. Prices and taker amounts that do not fit in a
// uint64 fail the whole batch with ErrAmountOverflow.
func (r *Resolver) Resolve(
	cfg PoolConfig, counters TradeCounters, side TakerSide, units int64,
) (Quotes, error) {
	if cfg.IsZero() {
		return nil, ErrUninitializedPool
	}
	if units < 1 || units > MaxUnitsPerBatch {
		return nil, ErrInvalidUnitCount
	}
	if !cfg.PoolType().Accepts(side) {
		return nil, ErrWrongPoolType
	}

	net, err := counters.NetTick()
	if err != nil {
		return nil, err
	}

	trade, isTrade := cfg.TradeSettings()
	cursor := cfg.Curve().Cursor(net, 1)
	if side == Sell {
		cursor = cfg.Curve().Cursor(net, -1)
		if err := cursor.Next(); err != nil {
			return nil, ErrTickOutOfRange
		}
	}

	quotes := make(Quotes, 0, units)
	for k := int64(0); k < units; k++ {
		if k > 0 {
			if err := cursor.Next(); err != nil {
				return nil, ErrTickOutOfRange
			}
		}

		price, err := cursor.Price()
		if err != nil {
			return nil, ErrAmountOverflow
		}
		quote := Quote{
			Side:       side,
			Tick:       cursor.Tick(),
			CurvePrice: price,
			UnitPrice:  price,
		}

		if side == Buy {
			total, fee := mathutil.PlusFee(price, uint64(r.fees.TakerFeeBps))
			if total-fee != price {
				return nil, ErrAmountOverflow
			}
			quote.ProtocolFee = fee
		} else {
			if isTrade {
				quote.UnitPrice, quote.MMFee = mathutil.LessFee(
					price, uint64(trade.MMFeeBps),
				)
				quote.MMFeeCompounded = trade.MMCompoundFees
			}
			quote.ProtocolFee = r.fees.TakerFee(quote.UnitPrice)
		}

		quotes = append(quotes, quote)
	}
	return quotes, nil
}

// CurrentPrice returns the quote of the next single unit traded on the given
// side.
func (r *Resolver) CurrentPrice(
	cfg PoolConfig, counters TradeCounters, side TakerSide,
) (Quote, error) {
	quotes, err := r.Resolve(cfg, counters, side, 1)
	if err != nil {
		return Quote{}, err
	}
	return quotes[0], nil
}

// Resolve is Resolver.Resolve without protocol fees.
func Resolve(
	cfg PoolConfig, counters TradeCounters, side TakerSide, units int64,
) (Quotes, error) {
	return NewResolver(NoProtocolFees).Resolve(cfg, counters, side, units)
}
