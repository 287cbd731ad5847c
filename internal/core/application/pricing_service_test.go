package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/nftamm/internal/core/application"
	"github.com/tdex-network/nftamm/internal/core/domain"
	"github.com/tdex-network/nftamm/internal/infrastructure/storage/db/inmemory"
	"github.com/tdex-network/nftamm/pkg/bondingcurve"
	"github.com/tdex-network/nftamm/pkg/pricing"
)

var ctx = context.Background()

func uint32Ptr(v uint32) *uint32 { return &v }

func tradeParams(fee uint32) pricing.PoolConfigParams {
	return pricing.PoolConfigParams{
		PoolType:      pricing.Trade,
		CurveType:     bondingcurve.Linear,
		StartingPrice: 2000000000,
		Delta:         100000000,
		MMFeeBps:      uint32Ptr(fee),
	}
}

func nftParams() pricing.PoolConfigParams {
	return pricing.PoolConfigParams{
		PoolType:      pricing.NFT,
		CurveType:     bondingcurve.Exponential,
		StartingPrice: 1000000000,
		Delta:         1000,
	}
}

func newPricingService(
	t *testing.T, fees pricing.ProtocolFeeSchedule,
) (application.PricingService, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	metrics, err := application.NewMetrics(reg)
	require.NoError(t, err)

	svc, err := application.NewPricingService(
		inmemory.NewRepoManager(), nil, fees, decimal.Zero, metrics,
	)
	require.NoError(t, err)
	return svc, reg
}

func TestPoolLifecycle(t *testing.T) {
	t.Parallel()

	svc, _ := newPricingService(t, pricing.NoProtocolFees)

	pool, err := svc.CreatePool(ctx, application.PoolRequest{
		Name:   "degods",
		Config: tradeParams(250),
	})
	require.NoError(t, err)
	require.NotEmpty(t, pool.ID)
	require.True(t, pool.Open)
	require.NotNil(t, pool.BuyPrice)
	require.NotNil(t, pool.SellPrice)
	require.Equal(t, uint64(2000000000), *pool.BuyPrice)
	require.Equal(t, uint64(1852500000), *pool.SellPrice)

	edited, err := svc.EditPool(ctx, pool.ID, tradeParams(0))
	require.NoError(t, err)
	require.Equal(t, uint64(1900000000), *edited.SellPrice)

	_, err = svc.EditPool(ctx, pool.ID, nftParams())
	require.ErrorIs(t, err, domain.ErrPoolTypeImmutable)

	closed, err := svc.ClosePool(ctx, pool.ID)
	require.NoError(t, err)
	require.False(t, closed.Open)

	_, err = svc.QuoteTrade(ctx, application.QuoteRequest{
		PoolID: pool.ID, Side: pricing.Buy, Units: 1,
	})
	require.ErrorIs(t, err, domain.ErrPoolClosed)

	reopened, err := svc.ReopenPool(ctx, pool.ID, tradeParams(100))
	require.NoError(t, err)
	require.True(t, reopened.Open)

	pools, err := svc.ListPools(ctx)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	require.Equal(t, pool.ID, pools[0].ID)

	nft, err := svc.CreatePool(ctx, application.PoolRequest{
		Name:   "drop",
		Config: nftParams(),
	})
	require.NoError(t, err)
	require.NotNil(t, nft.BuyPrice)
	require.Nil(t, nft.SellPrice)

	got, err := svc.GetPool(ctx, nft.ID)
	require.NoError(t, err)
	require.Equal(t, nft.Config, got.Config)
}

func TestDropPool(t *testing.T) {
	t.Parallel()

	svc, _ := newPricingService(t, pricing.NoProtocolFees)

	pool, err := svc.CreatePool(ctx, application.PoolRequest{
		Name:   "degods",
		Config: tradeParams(250),
	})
	require.NoError(t, err)

	err = svc.DropPool(ctx, pool.ID)
	require.ErrorIs(t, err, domain.ErrPoolOpen)

	_, err = svc.ClosePool(ctx, pool.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DropPool(ctx, pool.ID))

	_, err = svc.GetPool(ctx, pool.ID)
	require.ErrorIs(t, err, domain.ErrPoolNotFound)
	err = svc.DropPool(ctx, pool.ID)
	require.ErrorIs(t, err, domain.ErrPoolNotFound)
}

func TestCreatePoolInvalid(t *testing.T) {
	t.Parallel()

	svc, _ := newPricingService(t, pricing.NoProtocolFees)

	_, err := svc.CreatePool(ctx, application.PoolRequest{Config: tradeParams(0)})
	require.Error(t, err)

	params := tradeParams(0)
	params.MMFeeBps = nil
	_, err = svc.CreatePool(ctx, application.PoolRequest{Name: "x", Config: params})
	require.ErrorIs(t, err, pricing.ErrMissingFees)

	params = nftParams()
	params.Delta = 10000
	_, err = svc.CreatePool(ctx, application.PoolRequest{Name: "x", Config: params})
	require.ErrorIs(t, err, pricing.ErrDeltaTooLarge)

	_, err = svc.GetPool(ctx, "unknown")
	require.ErrorIs(t, err, domain.ErrPoolNotFound)
}

func TestQuoteTrade(t *testing.T) {
	t.Parallel()

	fees, err := pricing.NewProtocolFeeSchedule("v1", 140)
	require.NoError(t, err)
	svc, reg := newPricingService(t, fees)

	pool, err := svc.CreatePool(ctx, application.PoolRequest{
		Name:   "degods",
		Config: tradeParams(250),
	})
	require.NoError(t, err)

	tolerance := decimal.RequireFromString("0.005")
	buy, err := svc.QuoteTrade(ctx, application.QuoteRequest{
		PoolID:    pool.ID,
		Side:      pricing.Buy,
		Units:     2,
		Tolerance: &tolerance,
	})
	require.NoError(t, err)
	require.Len(t, buy.RequestID, 16)
	require.Equal(t, "trade", buy.PoolType)
	require.Equal(t, "v1", buy.FeeSchedule)
	require.Len(t, buy.Quotes, 2)
	require.Equal(t, uint64(4100000000), buy.TotalUnitPrice)
	require.Equal(t, uint64(2010000000), buy.UnitGuard)
	require.Equal(t, uint64(4120500000), buy.BatchGuard)
	require.Equal(t, uint64(28000000+29400000), buy.TotalProtocolFee)
	require.Equal(t, uint64(4157400000), buy.TotalTakerAmount)
	require.Zero(t, buy.TotalMMFee)

	// no tolerance given, the default one is used
	sell, err := svc.QuoteTrade(ctx, application.QuoteRequest{
		PoolID: pool.ID,
		Side:   pricing.Sell,
		Units:  1,
	})
	require.NoError(t, err)
	require.True(t, sell.Tolerance.IsZero())
	require.Equal(t, uint64(1852500000), sell.TotalUnitPrice)
	require.Equal(t, uint64(47500000), sell.TotalMMFee)
	require.Equal(t, sell.TotalUnitPrice, sell.UnitGuard)
	require.Equal(t, sell.TotalUnitPrice, sell.BatchGuard)

	require.Equal(t, float64(1), metricValue(t, reg, "nftamm_quotes_total", "trade", "buy"))
	require.Equal(t, float64(2), metricValue(t, reg, "nftamm_quoted_units_total", "trade", "buy"))

	count, err := testutil.GatherAndCount(reg, "nftamm_quotes_total")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestQuoteTradeFails(t *testing.T) {
	t.Parallel()

	svc, reg := newPricingService(t, pricing.NoProtocolFees)

	nft, err := svc.CreatePool(ctx, application.PoolRequest{
		Name:   "drop",
		Config: nftParams(),
	})
	require.NoError(t, err)

	tooHigh := decimal.NewFromInt(1)
	tests := []struct {
		name        string
		req         application.QuoteRequest
		expectedErr error
	}{
		{
			name:        "wrong_side",
			req:         application.QuoteRequest{PoolID: nft.ID, Side: pricing.Sell, Units: 1},
			expectedErr: pricing.ErrWrongPoolType,
		},
		{
			name:        "zero_units",
			req:         application.QuoteRequest{PoolID: nft.ID, Side: pricing.Buy},
			expectedErr: pricing.ErrInvalidUnitCount,
		},
		{
			name: "invalid_tolerance",
			req: application.QuoteRequest{
				PoolID: nft.ID, Side: pricing.Buy, Units: 1, Tolerance: &tooHigh,
			},
			expectedErr: pricing.ErrInvalidTolerance,
		},
		{
			name:        "unknown_pool",
			req:         application.QuoteRequest{PoolID: "unknown", Side: pricing.Buy, Units: 1},
			expectedErr: domain.ErrPoolNotFound,
		},
	}

	for _, tt := range tests {
		_, err := svc.QuoteTrade(ctx, tt.req)
		require.ErrorIs(t, err, tt.expectedErr, tt.name)
	}

	_, err = svc.QuoteTrade(ctx, application.QuoteRequest{Side: pricing.Buy, Units: 1})
	require.Error(t, err)

	require.Equal(t, float64(3), metricValue(t, reg, "nftamm_pricing_errors_total", application.ErrorKindPrecondition))
	require.Equal(t, float64(1), metricValue(t, reg, "nftamm_pricing_errors_total", application.ErrorKindNotFound))
	require.Equal(t, float64(1), metricValue(t, reg, "nftamm_pricing_errors_total", application.ErrorKindInvalid))
}

func TestQuoteMany(t *testing.T) {
	t.Parallel()

	svc, _ := newPricingService(t, pricing.NoProtocolFees)

	reqs := make([]application.QuoteRequest, 0)
	for _, name := range []string{"a", "b", "c"} {
		pool, err := svc.CreatePool(ctx, application.PoolRequest{
			Name:   name,
			Config: tradeParams(0),
		})
		require.NoError(t, err)
		reqs = append(reqs, application.QuoteRequest{
			PoolID: pool.ID, Side: pricing.Sell, Units: 3,
		})
	}

	previews, err := svc.QuoteMany(ctx, reqs)
	require.NoError(t, err)
	require.Len(t, previews, len(reqs))
	for i, p := range previews {
		require.Equal(t, reqs[i].PoolID, p.PoolID)
		require.Equal(t, uint64(1900000000+1800000000+1700000000), p.TotalUnitPrice)
	}

	reqs = append(reqs, application.QuoteRequest{
		PoolID: "unknown", Side: pricing.Buy, Units: 1,
	})
	_, err = svc.QuoteMany(ctx, reqs)
	require.ErrorIs(t, err, domain.ErrPoolNotFound)

	_, err = svc.QuoteMany(ctx, make([]application.QuoteRequest, application.MaxQuotesPerRequest+1))
	require.ErrorIs(t, err, application.ErrTooManyQuotes)
}

func TestRecordTrade(t *testing.T) {
	t.Parallel()

	svc, _ := newPricingService(t, pricing.NoProtocolFees)

	pool, err := svc.CreatePool(ctx, application.PoolRequest{
		Name:   "degods",
		Config: tradeParams(250),
	})
	require.NoError(t, err)

	receipt, err := svc.RecordTrade(ctx, application.TradeRequest{
		PoolID: pool.ID, Side: pricing.Buy, Units: 2,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(2), receipt.Pool.Counters.TakerBuyCount)
	require.Equal(t, uint64(2200000000), *receipt.Pool.BuyPrice)

	// quotes now start from the new counters
	preview, err := svc.QuoteTrade(ctx, application.QuoteRequest{
		PoolID: pool.ID, Side: pricing.Sell, Units: 1,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), preview.Quotes[0].Tick)

	receipt, err = svc.RecordTrade(ctx, application.TradeRequest{
		PoolID: pool.ID, Side: pricing.Sell, Units: 1,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(2047500000), receipt.Quotes[0].UnitPrice)
	require.Equal(t, uint64(52500000), receipt.Pool.CompoundedMMFees)
	require.Zero(t, receipt.Pool.AccruedMMProfit)

	guard := uint64(1)
	_, err = svc.RecordTrade(ctx, application.TradeRequest{
		PoolID: pool.ID, Side: pricing.Buy, Units: 1, Guard: &guard,
	})
	require.ErrorIs(t, err, application.ErrSlippageExceeded)

	got, err := svc.GetPool(ctx, pool.ID)
	require.NoError(t, err)
	require.Equal(t, pricing.TradeCounters{TakerBuyCount: 2, TakerSellCount: 1}, got.Counters)
}

func TestBatchTotalOverflow(t *testing.T) {
	t.Parallel()

	svc, reg := newPricingService(t, pricing.NoProtocolFees)

	pool, err := svc.CreatePool(ctx, application.PoolRequest{
		Name: "whales",
		Config: pricing.PoolConfigParams{
			PoolType:      pricing.NFT,
			CurveType:     bondingcurve.Linear,
			StartingPrice: 1 << 63,
		},
	})
	require.NoError(t, err)

	_, err = svc.QuoteTrade(ctx, application.QuoteRequest{
		PoolID: pool.ID, Side: pricing.Buy, Units: 2,
	})
	require.ErrorIs(t, err, pricing.ErrAmountOverflow)
	require.Equal(t, float64(1), metricValue(
		t, reg, "nftamm_pricing_errors_total", application.ErrorKindPrecondition,
	))

	guard := uint64(0)
	_, err = svc.RecordTrade(ctx, application.TradeRequest{
		PoolID: pool.ID, Side: pricing.Buy, Units: 2, Guard: &guard,
	})
	require.ErrorIs(t, err, pricing.ErrAmountOverflow)

	got, err := svc.GetPool(ctx, pool.ID)
	require.NoError(t, err)
	require.Zero(t, got.Counters)
}

func TestWithdrawMMProfit(t *testing.T) {
	t.Parallel()

	svc, _ := newPricingService(t, pricing.NoProtocolFees)

	params := tradeParams(250)
	compound := false
	params.MMCompoundFees = &compound
	pool, err := svc.CreatePool(ctx, application.PoolRequest{Name: "p", Config: params})
	require.NoError(t, err)

	_, err = svc.RecordTrade(ctx, application.TradeRequest{
		PoolID: pool.ID, Side: pricing.Sell, Units: 1,
	})
	require.NoError(t, err)

	amount, err := svc.WithdrawMMProfit(ctx, pool.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(47500000), amount)

	amount, err = svc.WithdrawMMProfit(ctx, pool.ID)
	require.NoError(t, err)
	require.Zero(t, amount)
}

func TestDepositQuote(t *testing.T) {
	t.Parallel()

	svc, _ := newPricingService(t, pricing.NoProtocolFees)

	pool, err := svc.CreatePool(ctx, application.PoolRequest{
		Name:   "degods",
		Config: tradeParams(0),
	})
	require.NoError(t, err)

	deposit, err := svc.DepositQuote(ctx, pool.ID, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(5400000000), deposit.Required)
	require.Equal(t, deposit.Required, deposit.ClosedForm)

	count, err := svc.FundedSells(ctx, pool.ID, 5400000000, 100)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	nft, err := svc.CreatePool(ctx, application.PoolRequest{
		Name:   "drop",
		Config: nftParams(),
	})
	require.NoError(t, err)

	_, err = svc.DepositQuote(ctx, nft.ID, 1)
	require.ErrorIs(t, err, pricing.ErrWrongPoolType)

	_, err = svc.DepositQuote(ctx, pool.ID, application.MaxUnitsPerQuote+1)
	require.Error(t, err)
	require.Equal(t, application.ErrorKindInvalid, application.ErrorKind(err))
}

func TestQuoteTradeReaderDown(t *testing.T) {
	t.Parallel()

	repoManager := inmemory.NewRepoManager()
	reader := &mockChainStateReader{}
	reader.On("GetTradeCounters", mock.Anything, mock.Anything).
		Return(pricing.TradeCounters{}, errors.New("rpc unreachable"))

	svc, err := application.NewPricingService(
		repoManager, reader, pricing.NoProtocolFees, decimal.Zero, nil,
	)
	require.NoError(t, err)

	pool, err := svc.CreatePool(ctx, application.PoolRequest{
		Name:   "degods",
		Config: tradeParams(0),
	})
	require.NoError(t, err)

	_, err = svc.QuoteTrade(ctx, application.QuoteRequest{
		PoolID: pool.ID, Side: pricing.Buy, Units: 1,
	})
	require.ErrorIs(t, err, application.ErrServiceUnavailable)
}

func TestNewPricingServiceInvalidSlippage(t *testing.T) {
	t.Parallel()

	_, err := application.NewPricingService(
		inmemory.NewRepoManager(), nil, pricing.NoProtocolFees,
		decimal.RequireFromString("1.5"), nil,
	)
	require.ErrorIs(t, err, pricing.ErrInvalidTolerance)
}

type mockChainStateReader struct {
	mock.Mock
}

func (m *mockChainStateReader) GetTradeCounters(
	ctx context.Context, poolID string,
) (pricing.TradeCounters, error) {
	args := m.Called(ctx, poolID)
	return args.Get(0).(pricing.TradeCounters), args.Error(1)
}

func metricValue(
	t *testing.T, reg *prometheus.Registry, name string, labels ...string,
) float64 {
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			values := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				values = append(values, l.GetValue())
			}
			if equalStrings(values, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
