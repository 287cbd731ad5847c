package dbbadger

import (
	"github.com/tdex-network/nftamm/internal/core/domain"
	"github.com/tdex-network/nftamm/pkg/pricing"
)

// pool is the stored shape of domain.Pool, the pricing config is kept in
// its flat form and rebuilt (and so validated again) when read.
type pool struct {
	ID               string
	Name             string
	Config           pricing.PoolConfigParams
	Counters         pricing.TradeCounters
	Open             bool
	AccruedMMProfit  uint64
	CompoundedMMFees uint64
	CreatedAt        int64
	UpdatedAt        int64
}

func fromDomain(p *domain.Pool) pool {
	return pool{
		ID:               p.ID,
		Name:             p.Name,
		Config:           p.Config.Params(),
		Counters:         p.Counters,
		Open:             p.Open,
		AccruedMMProfit:  p.AccruedMMProfit,
		CompoundedMMFees: p.CompoundedMMFees,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (p pool) toDomain() (*domain.Pool, error) {
	cfg, err := pricing.NewPoolConfig(p.Config)
	if err != nil {
		return nil, err
	}
	return &domain.Pool{
		ID:               p.ID,
		Name:             p.Name,
		Config:           cfg,
		Counters:         p.Counters,
		Open:             p.Open,
		AccruedMMProfit:  p.AccruedMMProfit,
		CompoundedMMFees: p.CompoundedMMFees,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}, nil
}
