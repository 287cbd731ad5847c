package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdex-network/nftamm/pkg/bondingcurve"
)

// PoolType identifies which sides of the market a pool makes.
type PoolType int

const (
	// NFT pools only sell nfts, takers always buy.
	NFT PoolType = iota
	// Token pools only buy nfts, takers always sell.
	Token
	// Trade pools do both and quote a one tick spread.
	Trade
)

var poolTypeNames = map[PoolType]string{
	NFT:   "nft",
	Token: "token",
	Trade: "trade",
}

func (t PoolType) String() string {
	if name, ok := poolTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("PoolType(%d)", int(t))
}

// ParsePoolType returns the pool type with the given (case insensitive) name.
func ParsePoolType(name string) (PoolType, error) {
	for t, n := range poolTypeNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidPoolType, name)
}

// MarshalText encodes the pool type by name.
func (t PoolType) MarshalText() ([]byte, error) {
	if _, ok := poolTypeNames[t]; !ok {
		return nil, ErrInvalidPoolType
	}
	return []byte(t.String()), nil
}

// UnmarshalText ...
func (t *PoolType) UnmarshalText(text []byte) error {
	parsed, err := ParsePoolType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Accepts returns whether a taker can trade on the given side against a pool
// of this type.
func (t PoolType) Accepts(side TakerSide) bool {
	switch t {
	case NFT:
		return side == Buy
	case Token:
		return side == Sell
	case Trade:
		return side == Buy || side == Sell
	}
	return false
}

// PoolKind is the pool type specific part of a PoolConfig. It is implemented
// only by NFTPool, TokenPool and TradePool.
type PoolKind interface {
	PoolType() PoolType
	isPoolKind()
}

// NFTPool ...
type NFTPool struct{}

// TokenPool ...
type TokenPool struct{}

// TradePool carries the market maker settings that only two-sided pools have.
type TradePool struct {
	// MMFeeBps is the fee retained by the pool operator on taker sells.
	MMFeeBps uint32
	// MMCompoundFees tells whether the retained fee is reinvested into the
	// pool's tradable balance or kept aside for withdrawal.
	MMCompoundFees bool
}

func (NFTPool) PoolType() PoolType   { return NFT }
func (TokenPool) PoolType() PoolType { return Token }
func (TradePool) PoolType() PoolType { return Trade }

func (NFTPool) isPoolKind()   {}
func (TokenPool) isPoolKind() {}
func (TradePool) isPoolKind() {}

// PoolConfig is the immutable pricing configuration of a pool. Build it with
// one of the New*PoolConfig constructors or NewPoolConfig, editing a pool
// means replacing its config.
type PoolConfig struct {
	curve          bondingcurve.Curve
	honorRoyalties bool
	kind           PoolKind
}

// NewNFTPoolConfig returns a validated config for a sell-only pool.
func NewNFTPoolConfig(
	curve bondingcurve.Curve, honorRoyalties bool,
) (PoolConfig, error) {
	return newPoolConfig(curve, honorRoyalties, NFTPool{})
}

// NewTokenPoolConfig returns a validated config for a buy-only pool.
func NewTokenPoolConfig(
	curve bondingcurve.Curve, honorRoyalties bool,
) (PoolConfig, error) {
	return newPoolConfig(curve, honorRoyalties, TokenPool{})
}

// NewTradePoolConfig returns a validated config for a two-sided pool.
func NewTradePoolConfig(
	curve bondingcurve.Curve, honorRoyalties bool,
	mmFeeBps uint32, mmCompoundFees bool,
) (PoolConfig, error) {
	return newPoolConfig(curve, honorRoyalties, TradePool{
		MMFeeBps:       mmFeeBps,
		MMCompoundFees: mmCompoundFees,
	})
}

func newPoolConfig(
	curve bondingcurve.Curve, honorRoyalties bool, kind PoolKind,
) (PoolConfig, error) {
	if err := curve.Validate(); err != nil {
		if errors.Is(err, bondingcurve.ErrDeltaTooLarge) {
			return PoolConfig{}, ErrDeltaTooLarge
		}
		return PoolConfig{}, ErrInvalidCurve
	}
	if trade, ok := kind.(TradePool); ok {
		if trade.MMFeeBps >= maxBps {
			return PoolConfig{}, ErrFeesTooHigh
		}
	}
	return PoolConfig{
		curve:          curve,
		honorRoyalties: honorRoyalties,
		kind:           kind,
	}, nil
}

// Curve returns the bonding curve of the pool.
func (c PoolConfig) Curve() bondingcurve.Curve {
	return c.curve
}

// HonorRoyalties has no effect on pricing.
func (c PoolConfig) HonorRoyalties() bool {
	return c.honorRoyalties
}

// Kind returns the pool type specific settings.
func (c PoolConfig) Kind() PoolKind {
	return c.kind
}

// PoolType returns the type of the pool.
func (c PoolConfig) PoolType() PoolType {
	if c.kind == nil {
		return -1
	}
	return c.kind.PoolType()
}

// TradeSettings returns the market maker settings if the config belongs to a
// trade pool.
func (c PoolConfig) TradeSettings() (TradePool, bool) {
	trade, ok := c.kind.(TradePool)
	return trade, ok
}

// IsZero returns whether the config was not built by a constructor.
func (c PoolConfig) IsZero() bool {
	return c.kind == nil
}

// PoolConfigParams is the flat shape a pool config is loaded from and
// persisted as. Market maker fields are pointers since they are present only
// for trade pools.
type PoolConfigParams struct {
	PoolType       PoolType               `json:"poolType"`
	CurveType      bondingcurve.CurveType `json:"curveType"`
	StartingPrice  uint64                 `json:"startingPrice"`
	Delta          uint64                 `json:"delta"`
	MMFeeBps       *uint32                `json:"mmFeeBps,omitempty"`
	MMCompoundFees *bool                  `json:"mmCompoundFees,omitempty"`
	HonorRoyalties bool                   `json:"honorRoyalties"`
}

// NewPoolConfig validates the given params and turns them into a PoolConfig.
// Trade pools without an explicit MMCompoundFees compound their fees.
func NewPoolConfig(params PoolConfigParams) (PoolConfig, error) {
	curve := bondingcurve.Curve{
		Type:          params.CurveType,
		StartingPrice: params.StartingPrice,
		Delta:         params.Delta,
	}

	switch params.PoolType {
	case NFT, Token:
		if params.MMFeeBps != nil || params.MMCompoundFees != nil {
			return PoolConfig{}, ErrFeesNotAllowed
		}
		if params.PoolType == NFT {
			return NewNFTPoolConfig(curve, params.HonorRoyalties)
		}
		return NewTokenPoolConfig(curve, params.HonorRoyalties)
	case Trade:
		if params.MMFeeBps == nil {
			return PoolConfig{}, ErrMissingFees
		}
		compound := true
		if params.MMCompoundFees != nil {
			compound = *params.MMCompoundFees
		}
		return NewTradePoolConfig(
			curve, params.HonorRoyalties, *params.MMFeeBps, compound,
		)
	default:
		return PoolConfig{}, ErrInvalidPoolType
	}
}

// Params returns the flat representation of the config, NewPoolConfig
// rebuilds an equal config from it.
func (c PoolConfig) Params() PoolConfigParams {
	params := PoolConfigParams{
		PoolType:       c.PoolType(),
		CurveType:      c.curve.Type,
		StartingPrice:  c.curve.StartingPrice,
		Delta:          c.curve.Delta,
		HonorRoyalties: c.honorRoyalties,
	}
	if trade, ok := c.TradeSettings(); ok {
		fee, compound := trade.MMFeeBps, trade.MMCompoundFees
		params.MMFeeBps = &fee
		params.MMCompoundFees = &compound
	}
	return params
}
