package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/nftamm/internal/core/domain"
	"github.com/tdex-network/nftamm/pkg/bondingcurve"
	"github.com/tdex-network/nftamm/pkg/pricing"
)

var testCurve = bondingcurve.Curve{
	Type:          bondingcurve.Linear,
	StartingPrice: 2000000000,
	Delta:         100000000,
}

func newTestPool(t *testing.T, compound bool) *domain.Pool {
	cfg, err := pricing.NewTradePoolConfig(testCurve, false, 250, compound)
	require.NoError(t, err)
	pool, err := domain.NewPool("test", cfg)
	require.NoError(t, err)
	return pool
}

func TestNewPool(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, true)
	require.NotEmpty(t, pool.ID)
	require.True(t, pool.IsOpen())
	require.Equal(t, pricing.Trade, pool.Type())
	require.Zero(t, pool.Counters)

	_, err := domain.NewPool("test", pricing.PoolConfig{})
	require.ErrorIs(t, err, domain.ErrPoolInvalidConfig)

	_, err = domain.NewPool("", pool.Config)
	require.ErrorIs(t, err, domain.ErrPoolInvalidName)
}

func TestApplyTrade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		compound         bool
		wantAccrued      uint64
		wantCompounded   uint64
		wantTakerSellCnt uint64
	}{
		{"segregated_profit", false, 47500000 + 45000000, 0, 2},
		{"compounded_profit", true, 0, 47500000 + 45000000, 2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool := newTestPool(t, tt.compound)
			quotes, err := pricing.Resolve(pool.Config, pool.Counters, pricing.Sell, 2)
			require.NoError(t, err)

			err = pool.ApplyTrade(quotes)
			require.NoError(t, err)
			require.Equal(t, tt.wantAccrued, pool.AccruedMMProfit)
			require.Equal(t, tt.wantCompounded, pool.CompoundedMMFees)
			require.Equal(t, tt.wantTakerSellCnt, pool.Counters.TakerSellCount)
			net, err := pool.Counters.NetTick()
			require.NoError(t, err)
			require.Equal(t, int64(-2), net)

			// the same quotes are now stale
			err = pool.ApplyTrade(quotes)
			require.ErrorIs(t, err, domain.ErrTradeStaleQuote)
		})
	}
}

func TestApplyTradeDoesNotChangeQuotes(t *testing.T) {
	t.Parallel()

	segregated := newTestPool(t, false)
	compounded := newTestPool(t, true)

	for i := 0; i < 3; i++ {
		q1, err := pricing.Resolve(segregated.Config, segregated.Counters, pricing.Sell, 1)
		require.NoError(t, err)
		q2, err := pricing.Resolve(compounded.Config, compounded.Counters, pricing.Sell, 1)
		require.NoError(t, err)
		require.Equal(t, q1[0].UnitPrice, q2[0].UnitPrice)

		require.NoError(t, segregated.ApplyTrade(q1))
		require.NoError(t, compounded.ApplyTrade(q2))
	}
}

func TestFailingApplyTrade(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, false)

	err := pool.ApplyTrade(nil)
	require.ErrorIs(t, err, domain.ErrTradeEmpty)

	buys, err := pricing.Resolve(pool.Config, pool.Counters, pricing.Buy, 1)
	require.NoError(t, err)
	sells, err := pricing.Resolve(pool.Config, pool.Counters, pricing.Sell, 1)
	require.NoError(t, err)
	err = pool.ApplyTrade(append(buys, sells...))
	require.ErrorIs(t, err, domain.ErrTradeMixedSides)
	require.Zero(t, pool.Counters.TakerBuyCount)

	require.NoError(t, pool.Close())
	err = pool.ApplyTrade(buys)
	require.ErrorIs(t, err, domain.ErrPoolClosed)
}

func TestEditPool(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, false)
	quotes, err := pricing.Resolve(pool.Config, pool.Counters, pricing.Buy, 3)
	require.NoError(t, err)
	require.NoError(t, pool.ApplyTrade(quotes))

	cfg, err := pricing.NewTradePoolConfig(testCurve, true, 500, false)
	require.NoError(t, err)
	require.NoError(t, pool.Edit(cfg))
	require.Equal(t, cfg, pool.Config)
	require.Equal(t, uint64(3), pool.Counters.TakerBuyCount)

	nftCfg, err := pricing.NewNFTPoolConfig(testCurve, false)
	require.NoError(t, err)
	err = pool.Edit(nftCfg)
	require.ErrorIs(t, err, domain.ErrPoolTypeImmutable)
}

func TestCloseAndReopenPool(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, false)
	quotes, err := pricing.Resolve(pool.Config, pool.Counters, pricing.Sell, 1)
	require.NoError(t, err)
	require.NoError(t, pool.ApplyTrade(quotes))

	err = pool.Reopen(pool.Config)
	require.ErrorIs(t, err, domain.ErrPoolOpen)

	require.NoError(t, pool.Close())
	require.False(t, pool.IsOpen())
	require.ErrorIs(t, pool.Close(), domain.ErrPoolClosed)

	tokenCfg, err := pricing.NewTokenPoolConfig(testCurve, false)
	require.NoError(t, err)
	require.NoError(t, pool.Reopen(tokenCfg))
	require.True(t, pool.IsOpen())
	require.Equal(t, pricing.Token, pool.Type())
	require.Zero(t, pool.Counters.TakerSellCount)
	require.Equal(t, uint64(47500000), pool.WithdrawMMProfit())
	require.Zero(t, pool.AccruedMMProfit)
}
