package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/nftamm/internal/core/domain"
	"github.com/tdex-network/nftamm/internal/core/ports"
	"github.com/tdex-network/nftamm/pkg/pricing"
	"github.com/thanhpk/randstr"
	"golang.org/x/sync/errgroup"
)

// PricingService defines the methods of the application layer to manage
// pools and price trades against them.
type PricingService interface {
	CreatePool(ctx context.Context, req PoolRequest) (*PoolInfo, error)
	EditPool(
		ctx context.Context, poolID string, params pricing.PoolConfigParams,
	) (*PoolInfo, error)
	ClosePool(ctx context.Context, poolID string) (*PoolInfo, error)
	ReopenPool(
		ctx context.Context, poolID string, params pricing.PoolConfigParams,
	) (*PoolInfo, error)
	DropPool(ctx context.Context, poolID string) error
	GetPool(ctx context.Context, poolID string) (*PoolInfo, error)
	ListPools(ctx context.Context) ([]PoolInfo, error)
	QuoteTrade(ctx context.Context, req QuoteRequest) (*TradePreview, error)
	QuoteMany(ctx context.Context, reqs []QuoteRequest) ([]TradePreview, error)
	DepositQuote(
		ctx context.Context, poolID string, sellCount int64,
	) (*DepositInfo, error)
	FundedSells(
		ctx context.Context, poolID string, balance uint64, limit int64,
	) (int64, error)
	RecordTrade(ctx context.Context, req TradeRequest) (*TradeReceipt, error)
	WithdrawMMProfit(ctx context.Context, poolID string) (uint64, error)
}

// TradeRequest is a trade to mirror on a pool. If Guard is set the trade is
// rejected when the batch total unit price is above it for buys, or below
// it for sells.
type TradeRequest struct {
	PoolID string
	Side   pricing.TakerSide
	Units  int64
	Guard  *uint64
}

type pricingService struct {
	poolRepository  domain.PoolRepository
	chainState      ports.ChainStateReader
	resolver        *pricing.Resolver
	defaultSlippage decimal.Decimal
	metrics         *Metrics
}

// NewPricingService is a constructor function for PricingService. Trade
// counters are read from chainState, or from the repository itself if nil.
func NewPricingService(
	repoManager ports.RepoManager,
	chainState ports.ChainStateReader,
	fees pricing.ProtocolFeeSchedule,
	defaultSlippage decimal.Decimal,
	metrics *Metrics,
) (PricingService, error) {
	if err := pricing.ValidateTolerance(defaultSlippage); err != nil {
		return nil, fmt.Errorf("invalid default slippage: %w", err)
	}
	if chainState == nil {
		chainState = repoManager.ChainStateReader()
	}

	return &pricingService{
		poolRepository:  repoManager.PoolRepository(),
		chainState:      chainState,
		resolver:        pricing.NewResolver(fees),
		defaultSlippage: defaultSlippage,
		metrics:         metrics,
	}, nil
}

func (s *pricingService) CreatePool(
	ctx context.Context, req PoolRequest,
) (*PoolInfo, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	cfg, err := pricing.NewPoolConfig(req.Config)
	if err != nil {
		return nil, err
	}

	pool, err := domain.NewPool(req.Name, cfg)
	if err != nil {
		return nil, err
	}
	if err := s.poolRepository.AddPool(ctx, pool); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"pool_id":   pool.ID,
		"pool_type": pool.Type().String(),
		"curve":     cfg.Curve().Type.String(),
	}).Info("pool created")

	return s.poolInfo(pool), nil
}

func (s *pricingService) EditPool(
	ctx context.Context, poolID string, params pricing.PoolConfigParams,
) (*PoolInfo, error) {
	cfg, err := pricing.NewPoolConfig(params)
	if err != nil {
		return nil, err
	}

	pool, err := s.updatePool(ctx, poolID, func(p *domain.Pool) error {
		return p.Edit(cfg)
	})
	if err != nil {
		return nil, err
	}

	log.WithField("pool_id", poolID).Info("pool config updated")
	return s.poolInfo(pool), nil
}

func (s *pricingService) ClosePool(
	ctx context.Context, poolID string,
) (*PoolInfo, error) {
	pool, err := s.updatePool(ctx, poolID, func(p *domain.Pool) error {
		return p.Close()
	})
	if err != nil {
		return nil, err
	}

	log.WithField("pool_id", poolID).Info("pool closed")
	return s.poolInfo(pool), nil
}

func (s *pricingService) ReopenPool(
	ctx context.Context, poolID string, params pricing.PoolConfigParams,
) (*PoolInfo, error) {
	cfg, err := pricing.NewPoolConfig(params)
	if err != nil {
		return nil, err
	}

	pool, err := s.updatePool(ctx, poolID, func(p *domain.Pool) error {
		return p.Reopen(cfg)
	})
	if err != nil {
		return nil, err
	}

	log.WithField("pool_id", poolID).Info("pool reopened")
	return s.poolInfo(pool), nil
}

// DropPool removes a closed pool from the repository.
func (s *pricingService) DropPool(ctx context.Context, poolID string) error {
	pool, err := s.getPool(ctx, poolID)
	if err != nil {
		return err
	}
	if pool.IsOpen() {
		return domain.ErrPoolOpen
	}

	if err := s.poolRepository.DeletePool(ctx, poolID); err != nil {
		return err
	}

	log.WithField("pool_id", poolID).Info("pool dropped")
	return nil
}

func (s *pricingService) GetPool(
	ctx context.Context, poolID string,
) (*PoolInfo, error) {
	pool, err := s.getPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	return s.poolInfo(pool), nil
}

func (s *pricingService) ListPools(ctx context.Context) ([]PoolInfo, error) {
	pools, err := s.poolRepository.ListPools(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]PoolInfo, 0, len(pools))
	for i := range pools {
		infos = append(infos, *s.poolInfo(&pools[i]))
	}
	return infos, nil
}

func (s *pricingService) QuoteTrade(
	ctx context.Context, req QuoteRequest,
) (preview *TradePreview, err error) {
	defer func() { s.metrics.observeError(err) }()

	if err := req.validate(); err != nil {
		return nil, err
	}

	pool, err := s.getPool(ctx, req.PoolID)
	if err != nil {
		return nil, err
	}
	if !pool.IsOpen() {
		return nil, domain.ErrPoolClosed
	}

	counters, err := s.chainState.GetTradeCounters(ctx, req.PoolID)
	if err != nil {
		if errors.Is(err, domain.ErrPoolNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrServiceUnavailable, err)
	}

	quotes, err := s.resolver.Resolve(pool.Config, counters, req.Side, req.Units)
	if err != nil {
		return nil, err
	}

	tolerance := s.defaultSlippage
	if req.Tolerance != nil {
		tolerance = *req.Tolerance
	}
	unitGuard, err := pricing.BoundedPrice(quotes[0], req.Side, tolerance)
	if err != nil {
		return nil, err
	}
	batchGuard, err := pricing.BoundedTotal(quotes, req.Side, tolerance)
	if err != nil {
		return nil, err
	}
	totals, err := batchTotals(quotes)
	if err != nil {
		return nil, err
	}

	preview = &TradePreview{
		RequestID:        randstr.Hex(8),
		PoolID:           pool.ID,
		PoolType:         pool.Type().String(),
		Side:             req.Side.String(),
		Units:            req.Units,
		Tolerance:        tolerance,
		FeeSchedule:      s.resolver.FeeSchedule().Version,
		Quotes:           quotes,
		UnitGuard:        unitGuard,
		BatchGuard:       batchGuard,
		TotalUnitPrice:   totals[0],
		TotalMMFee:       totals[1],
		TotalProtocolFee: totals[2],
		TotalTakerAmount: totals[3],
	}
	s.metrics.observeQuote(pool.Type(), req.Side, req.Units)

	log.WithFields(log.Fields{
		"request_id": preview.RequestID,
		"pool_id":    pool.ID,
		"side":       preview.Side,
		"units":      req.Units,
		"tick":       quotes[0].Tick,
		"total":      preview.TotalUnitPrice,
	}).Debug("trade quoted")

	return preview, nil
}

func (s *pricingService) QuoteMany(
	ctx context.Context, reqs []QuoteRequest,
) ([]TradePreview, error) {
	if len(reqs) > MaxQuotesPerRequest {
		s.metrics.observeError(ErrTooManyQuotes)
		return nil, ErrTooManyQuotes
	}

	previews := make([]TradePreview, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			preview, err := s.QuoteTrade(gctx, req)
			if err != nil {
				return fmt.Errorf("quote %d (pool %s): %w", i, req.PoolID, err)
			}
			previews[i] = *preview
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return previews, nil
}

func (s *pricingService) DepositQuote(
	ctx context.Context, poolID string, sellCount int64,
) (*DepositInfo, error) {
	if err := validateSellCount(sellCount); err != nil {
		return nil, err
	}
	pool, err := s.getPool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	required, err := pricing.DepositRequired(pool.Config, sellCount)
	if err != nil {
		s.metrics.observeError(err)
		return nil, err
	}
	closedForm, err := pricing.ClosedFormDeposit(pool.Config, sellCount)
	if err != nil {
		s.metrics.observeError(err)
		return nil, err
	}

	return &DepositInfo{
		PoolID:     poolID,
		SellCount:  sellCount,
		Required:   required,
		ClosedForm: closedForm,
	}, nil
}

func (s *pricingService) FundedSells(
	ctx context.Context, poolID string, balance uint64, limit int64,
) (int64, error) {
	if err := validateSellCount(limit); err != nil {
		return 0, err
	}
	pool, err := s.getPool(ctx, poolID)
	if err != nil {
		return 0, err
	}

	count, err := pricing.MaxSellsFunded(pool.Config, balance, limit)
	if err != nil {
		s.metrics.observeError(err)
		return 0, err
	}
	return count, nil
}

func (s *pricingService) RecordTrade(
	ctx context.Context, req TradeRequest,
) (*TradeReceipt, error) {
	if req.PoolID == "" {
		return nil, ErrMissingPoolID
	}

	var quotes pricing.Quotes
	pool, err := s.updatePool(ctx, req.PoolID, func(p *domain.Pool) error {
		qs, err := s.resolver.Resolve(p.Config, p.Counters, req.Side, req.Units)
		if err != nil {
			return err
		}
		if req.Guard != nil {
			total, err := qs.TotalUnitPrice()
			if err != nil {
				return err
			}
			if !withinGuard(total, req.Side, *req.Guard) {
				return ErrSlippageExceeded
			}
		}
		if err := p.ApplyTrade(qs); err != nil {
			return err
		}
		quotes = qs
		return nil
	})
	if err != nil {
		s.metrics.observeError(err)
		return nil, err
	}

	log.WithFields(log.Fields{
		"pool_id": pool.ID,
		"side":    req.Side.String(),
		"units":   req.Units,
		"buys":    pool.Counters.TakerBuyCount,
		"sells":   pool.Counters.TakerSellCount,
	}).Info("trade recorded")

	return &TradeReceipt{Pool: *s.poolInfo(pool), Quotes: quotes}, nil
}

func (s *pricingService) WithdrawMMProfit(
	ctx context.Context, poolID string,
) (uint64, error) {
	var amount uint64
	if _, err := s.updatePool(ctx, poolID, func(p *domain.Pool) error {
		amount = p.WithdrawMMProfit()
		return nil
	}); err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"pool_id": poolID,
		"amount":  amount,
	}).Info("market maker profit withdrawn")
	return amount, nil
}

func (s *pricingService) getPool(
	ctx context.Context, poolID string,
) (*domain.Pool, error) {
	if poolID == "" {
		return nil, ErrMissingPoolID
	}
	return s.poolRepository.GetPool(ctx, poolID)
}

func (s *pricingService) updatePool(
	ctx context.Context, poolID string, updateFn func(p *domain.Pool) error,
) (*domain.Pool, error) {
	if poolID == "" {
		return nil, ErrMissingPoolID
	}

	var updated *domain.Pool
	if err := s.poolRepository.UpdatePool(
		ctx, poolID, func(p *domain.Pool) (*domain.Pool, error) {
			if err := updateFn(p); err != nil {
				return nil, err
			}
			updated = p
			return p, nil
		},
	); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *pricingService) poolInfo(pool *domain.Pool) *PoolInfo {
	info := &PoolInfo{
		ID:               pool.ID,
		Name:             pool.Name,
		Config:           pool.Config.Params(),
		Counters:         pool.Counters,
		Open:             pool.Open,
		AccruedMMProfit:  pool.AccruedMMProfit,
		CompoundedMMFees: pool.CompoundedMMFees,
		CreatedAt:        pool.CreatedAt,
		UpdatedAt:        pool.UpdatedAt,
	}
	if q, err := s.resolver.CurrentPrice(pool.Config, pool.Counters, pricing.Buy); err == nil {
		info.BuyPrice = &q.UnitPrice
	}
	if q, err := s.resolver.CurrentPrice(pool.Config, pool.Counters, pricing.Sell); err == nil {
		info.SellPrice = &q.UnitPrice
	}
	return info
}

// batchTotals returns the total unit price, mm fee, protocol fee and taker
// amount of a batch.
func batchTotals(quotes pricing.Quotes) ([4]uint64, error) {
	var totals [4]uint64
	for i, total := range []func() (uint64, error){
		quotes.TotalUnitPrice,
		quotes.TotalMMFee,
		quotes.TotalProtocolFee,
		quotes.TotalTakerAmount,
	} {
		amount, err := total()
		if err != nil {
			return totals, err
		}
		totals[i] = amount
	}
	return totals, nil
}

func withinGuard(total uint64, side pricing.TakerSide, guard uint64) bool {
	if side == pricing.Buy {
		return total <= guard
	}
	return total >= guard
}
