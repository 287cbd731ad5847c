package postgresdb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tdex-network/nftamm/internal/core/domain"
	"github.com/tdex-network/nftamm/pkg/pricing"
)

// Amounts and counters are uint64, stored as NUMERIC(20, 0) and exchanged as
// text to keep their whole range.
const (
	selectPool = `
		SELECT id, name, pool_type, curve_type,
			starting_price::text, delta::text,
			mm_fee_bps, mm_compound_fees, honor_royalties,
			taker_buy_count::text, taker_sell_count::text, open,
			accrued_mm_profit::text, compounded_mm_fees::text,
			created_at, updated_at
		FROM pool`

	insertPool = `
		INSERT INTO pool (
			id, name, pool_type, curve_type, starting_price, delta,
			mm_fee_bps, mm_compound_fees, honor_royalties,
			taker_buy_count, taker_sell_count, open,
			accrued_mm_profit, compounded_mm_fees, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5::numeric, $6::numeric, $7, $8, $9,
			$10::numeric, $11::numeric, $12, $13::numeric, $14::numeric, $15, $16
		)`

	updatePool = `
		UPDATE pool SET
			name = $2, pool_type = $3, curve_type = $4,
			starting_price = $5::numeric, delta = $6::numeric,
			mm_fee_bps = $7, mm_compound_fees = $8, honor_royalties = $9,
			taker_buy_count = $10::numeric, taker_sell_count = $11::numeric,
			open = $12, accrued_mm_profit = $13::numeric,
			compounded_mm_fees = $14::numeric, created_at = $15, updated_at = $16
		WHERE id = $1`
)

type poolRepositoryImpl struct {
	pgxPool *pgxpool.Pool
	execTx  func(ctx context.Context, txBody func(tx pgx.Tx) error) error
}

func newPoolRepositoryImpl(
	pgxPool *pgxpool.Pool,
	execTx func(ctx context.Context, txBody func(tx pgx.Tx) error) error,
) *poolRepositoryImpl {
	return &poolRepositoryImpl{pgxPool, execTx}
}

func (r *poolRepositoryImpl) AddPool(ctx context.Context, p *domain.Pool) error {
	args, err := poolArgs(p)
	if err != nil {
		return err
	}

	if _, err := r.pgxPool.Exec(ctx, insertPool, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrPoolAlreadyExists
		}
		return fmt.Errorf("failed to insert pool %s: %w", p.ID, err)
	}
	return nil
}

func (r *poolRepositoryImpl) GetPool(
	ctx context.Context, id string,
) (*domain.Pool, error) {
	return getPool(ctx, r.pgxPool, id, false)
}

func (r *poolRepositoryImpl) ListPools(ctx context.Context) ([]domain.Pool, error) {
	rows, err := r.pgxPool.Query(ctx, selectPool+" ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pools := make([]domain.Pool, 0)
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		pools = append(pools, *p)
	}
	return pools, rows.Err()
}

func (r *poolRepositoryImpl) UpdatePool(
	ctx context.Context,
	id string,
	updateFn func(p *domain.Pool) (*domain.Pool, error),
) error {
	return r.execTx(ctx, func(tx pgx.Tx) error {
		p, err := getPool(ctx, tx, id, true)
		if err != nil {
			return err
		}

		updated, err := updateFn(p)
		if err != nil {
			return err
		}

		args, err := poolArgs(updated)
		if err != nil {
			return err
		}
		args[0] = id
		_, err = tx.Exec(ctx, updatePool, args...)
		return err
	})
}

func (r *poolRepositoryImpl) DeletePool(ctx context.Context, id string) error {
	tag, err := r.pgxPool.Exec(ctx, "DELETE FROM pool WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPoolNotFound
	}
	return nil
}

func (r *poolRepositoryImpl) GetTradeCounters(
	ctx context.Context, poolID string,
) (pricing.TradeCounters, error) {
	var buys, sells string
	if err := r.pgxPool.QueryRow(
		ctx,
		"SELECT taker_buy_count::text, taker_sell_count::text FROM pool WHERE id = $1",
		poolID,
	).Scan(&buys, &sells); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pricing.TradeCounters{}, domain.ErrPoolNotFound
		}
		return pricing.TradeCounters{}, err
	}

	counters, err := parseAmounts(buys, sells)
	if err != nil {
		return pricing.TradeCounters{}, err
	}
	return pricing.TradeCounters{
		TakerBuyCount:  counters[0],
		TakerSellCount: counters[1],
	}, nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getPool(
	ctx context.Context, q querier, id string, forUpdate bool,
) (*domain.Pool, error) {
	query := selectPool + " WHERE id = $1"
	if forUpdate {
		query += " FOR UPDATE"
	}

	p, err := scanPool(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPoolNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanPool(row pgx.Row) (*domain.Pool, error) {
	var (
		p                                domain.Pool
		poolType, curveType              string
		startingPrice, delta             string
		mmFeeBps                         *int32
		mmCompoundFees                   *bool
		honorRoyalties                   bool
		buys, sells, accrued, compounded string
	)
	if err := row.Scan(
		&p.ID, &p.Name, &poolType, &curveType, &startingPrice, &delta,
		&mmFeeBps, &mmCompoundFees, &honorRoyalties,
		&buys, &sells, &p.Open, &accrued, &compounded,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	amounts, err := parseAmounts(startingPrice, delta, buys, sells, accrued, compounded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pool %s: %w", p.ID, err)
	}

	params := pricing.PoolConfigParams{
		StartingPrice:  amounts[0],
		Delta:          amounts[1],
		MMCompoundFees: mmCompoundFees,
		HonorRoyalties: honorRoyalties,
	}
	if err := params.PoolType.UnmarshalText([]byte(poolType)); err != nil {
		return nil, err
	}
	if err := params.CurveType.UnmarshalText([]byte(curveType)); err != nil {
		return nil, err
	}
	if mmFeeBps != nil {
		fee := uint32(*mmFeeBps)
		params.MMFeeBps = &fee
	}

	cfg, err := pricing.NewPoolConfig(params)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pool %s: %w", p.ID, err)
	}

	p.Config = cfg
	p.Counters = pricing.TradeCounters{
		TakerBuyCount:  amounts[2],
		TakerSellCount: amounts[3],
	}
	p.AccruedMMProfit = amounts[4]
	p.CompoundedMMFees = amounts[5]
	return &p, nil
}

func poolArgs(p *domain.Pool) ([]any, error) {
	params := p.Config.Params()
	poolType, err := params.PoolType.MarshalText()
	if err != nil {
		return nil, err
	}
	curveType, err := params.CurveType.MarshalText()
	if err != nil {
		return nil, err
	}

	var mmFeeBps *int32
	if params.MMFeeBps != nil {
		fee := int32(*params.MMFeeBps)
		mmFeeBps = &fee
	}

	return []any{
		p.ID,
		p.Name,
		string(poolType),
		string(curveType),
		formatAmount(params.StartingPrice),
		formatAmount(params.Delta),
		mmFeeBps,
		params.MMCompoundFees,
		params.HonorRoyalties,
		formatAmount(p.Counters.TakerBuyCount),
		formatAmount(p.Counters.TakerSellCount),
		p.Open,
		formatAmount(p.AccruedMMProfit),
		formatAmount(p.CompoundedMMFees),
		p.CreatedAt,
		p.UpdatedAt,
	}, nil
}

func formatAmount(x uint64) string {
	return strconv.FormatUint(x, 10)
}

func parseAmounts(values ...string) ([]uint64, error) {
	amounts := make([]uint64, 0, len(values))
	for _, v := range values {
		amount, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, amount)
	}
	return amounts, nil
}
