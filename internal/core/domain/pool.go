package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/tdex-network/nftamm/pkg/pricing"
)

// Pool defines the Pool entity data structure, the pricing config of a pool
// together with the mirror of its on-chain trade counters.
type Pool struct {
	// Unique identifier of the pool.
	ID string
	// Human readable name of the pool.
	Name string
	// Pricing configuration, replaced as a whole on edit.
	Config pricing.PoolConfig
	// Cumulative trades settled since the pool was (re)opened.
	Counters pricing.TradeCounters
	// If currently open for trades.
	Open bool
	// Market maker fees kept aside for withdrawal.
	AccruedMMProfit uint64
	// Market maker fees reinvested into the pool's tradable balance.
	CompoundedMMFees uint64
	CreatedAt        int64
	UpdatedAt        int64
}

// NewPool returns a new open pool with the given name and config.
func NewPool(name string, cfg pricing.PoolConfig) (*Pool, error) {
	if cfg.IsZero() {
		return nil, ErrPoolInvalidConfig
	}
	if name == "" {
		return nil, ErrPoolInvalidName
	}

	now := time.Now().Unix()
	return &Pool{
		ID:        uuid.New().String(),
		Name:      name,
		Config:    cfg,
		Open:      true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsOpen returns true if the pool is available for trading.
func (p *Pool) IsOpen() bool {
	return p.Open
}

// Type returns the pool type.
func (p *Pool) Type() pricing.PoolType {
	return p.Config.PoolType()
}

// Edit replaces the pool config. The pool type can't change and the trade
// counters are kept.
func (p *Pool) Edit(cfg pricing.PoolConfig) error {
	if cfg.IsZero() {
		return ErrPoolInvalidConfig
	}
	if cfg.PoolType() != p.Type() {
		return ErrPoolTypeImmutable
	}

	p.Config = cfg
	p.touch()
	return nil
}

// Close makes the pool not available for trading.
func (p *Pool) Close() error {
	if !p.Open {
		return ErrPoolClosed
	}

	p.Open = false
	p.touch()
	return nil
}

// Reopen opens a closed pool with a new config, starting again from tick 0.
func (p *Pool) Reopen(cfg pricing.PoolConfig) error {
	if p.Open {
		return ErrPoolOpen
	}
	if cfg.IsZero() {
		return ErrPoolInvalidConfig
	}

	p.Config = cfg
	p.Counters = pricing.TradeCounters{}
	p.CompoundedMMFees = 0
	p.Open = true
	p.touch()
	return nil
}

// ApplyTrade mirrors the settlement of the given batch: counters move by
// the number of units and every market maker fee is credited either to the
// compounded balance or to the withdrawable profit. The batch must have been
// quoted at the pool's current counters.
func (p *Pool) ApplyTrade(quotes pricing.Quotes) error {
	if !p.Open {
		return ErrPoolClosed
	}
	if len(quotes) == 0 {
		return ErrTradeEmpty
	}

	side := quotes[0].Side
	expectedTick, err := p.Counters.NetTick()
	if err != nil {
		return err
	}
	if side == pricing.Sell {
		expectedTick--
	}
	if quotes[0].Tick != expectedTick {
		return ErrTradeStaleQuote
	}

	for _, q := range quotes {
		if q.Side != side {
			return ErrTradeMixedSides
		}
	}

	for _, q := range quotes {
		if q.MMFeeCompounded {
			p.CompoundedMMFees += q.MMFee
		} else {
			p.AccruedMMProfit += q.MMFee
		}
	}
	p.Counters = p.Counters.Record(side, uint64(len(quotes)))
	p.touch()
	return nil
}

// WithdrawMMProfit resets the withdrawable market maker profit and returns
// the amount withdrawn.
func (p *Pool) WithdrawMMProfit() uint64 {
	amount := p.AccruedMMProfit
	p.AccruedMMProfit = 0
	p.touch()
	return amount
}

func (p *Pool) touch() {
	p.UpdatedAt = time.Now().Unix()
}
