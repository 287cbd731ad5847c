package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/nftamm/internal/core/application"
	"github.com/tdex-network/nftamm/pkg/bondingcurve"
	"github.com/tdex-network/nftamm/pkg/mathutil"
	"github.com/tdex-network/nftamm/pkg/pricing"
	"github.com/urfave/cli/v2"
)

var (
	poolCmd = cli.Command{
		Name:  "pool",
		Usage: "manage the pools and their pricing configs",
		Subcommands: []*cli.Command{
			poolCreateCmd, poolEditCmd, poolCloseCmd, poolReopenCmd,
			poolDropCmd, poolListCmd, poolShowCmd, poolWithdrawCmd,
		},
	}

	poolConfigFlags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path of a json file with the pool config, overrides all other config flags",
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "the pool type, either nft, token or trade",
		},
		&cli.StringFlag{
			Name:  "curve",
			Usage: "the curve type, either linear or exponential",
			Value: "linear",
		},
		&cli.StringFlag{
			Name:  "starting_price",
			Usage: "the price at tick 0 in SOL",
		},
		&cli.StringFlag{
			Name: "delta",
			Usage: "the price step per tick, in SOL for linear curves or in " +
				"basis points for exponential ones",
		},
		&cli.Uint64Flag{
			Name:  "mm_fee_bps",
			Usage: "the market maker fee of a trade pool in basis points",
		},
		&cli.BoolFlag{
			Name:  "mm_compound_fees",
			Usage: "whether a trade pool reinvests its market maker fees",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "honor_royalties",
			Usage: "whether trades pay creator royalties",
		},
	}

	poolIDFlag = &cli.StringFlag{
		Name:     "pool",
		Usage:    "the id of the pool",
		Required: true,
	}

	poolCreateCmd = &cli.Command{
		Name:  "create",
		Usage: "create a new pool",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Usage:    "the name of the pool",
				Required: true,
			},
		}, poolConfigFlags...),
		Action: poolCreateAction,
	}
	poolEditCmd = &cli.Command{
		Name:   "edit",
		Usage:  "replace the config of a pool, the pool type can't change",
		Flags:  append([]cli.Flag{poolIDFlag}, poolConfigFlags...),
		Action: poolEditAction,
	}
	poolCloseCmd = &cli.Command{
		Name:   "close",
		Usage:  "close a pool for trading",
		Flags:  []cli.Flag{poolIDFlag},
		Action: poolCloseAction,
	}
	poolReopenCmd = &cli.Command{
		Name:   "reopen",
		Usage:  "reopen a closed pool with a new config, starting again from tick 0",
		Flags:  append([]cli.Flag{poolIDFlag}, poolConfigFlags...),
		Action: poolReopenAction,
	}
	poolDropCmd = &cli.Command{
		Name:   "drop",
		Usage:  "drop a closed pool",
		Flags:  []cli.Flag{poolIDFlag},
		Action: poolDropAction,
	}
	poolListCmd = &cli.Command{
		Name:   "list",
		Usage:  "list all the pools",
		Action: poolListAction,
	}
	poolShowCmd = &cli.Command{
		Name:   "show",
		Usage:  "show a pool with its current prices",
		Flags:  []cli.Flag{poolIDFlag},
		Action: poolShowAction,
	}
	poolWithdrawCmd = &cli.Command{
		Name:   "withdraw",
		Usage:  "withdraw the market maker profit of a trade pool",
		Flags:  []cli.Flag{poolIDFlag},
		Action: poolWithdrawAction,
	}
)

func poolCreateAction(ctx *cli.Context) error {
	params, err := parsePoolConfig(ctx)
	if err != nil {
		return err
	}

	pool, err := pricingSvc.CreatePool(ctx.Context, application.PoolRequest{
		Name:   ctx.String("name"),
		Config: params,
	})
	if err != nil {
		return err
	}

	printRespJSON(pool)
	return nil
}

func poolEditAction(ctx *cli.Context) error {
	params, err := parsePoolConfig(ctx)
	if err != nil {
		return err
	}

	pool, err := pricingSvc.EditPool(ctx.Context, ctx.String("pool"), params)
	if err != nil {
		return err
	}

	printRespJSON(pool)
	return nil
}

func poolCloseAction(ctx *cli.Context) error {
	pool, err := pricingSvc.ClosePool(ctx.Context, ctx.String("pool"))
	if err != nil {
		return err
	}

	printRespJSON(pool)
	return nil
}

func poolReopenAction(ctx *cli.Context) error {
	params, err := parsePoolConfig(ctx)
	if err != nil {
		return err
	}

	pool, err := pricingSvc.ReopenPool(ctx.Context, ctx.String("pool"), params)
	if err != nil {
		return err
	}

	printRespJSON(pool)
	return nil
}

func poolDropAction(ctx *cli.Context) error {
	if err := pricingSvc.DropPool(ctx.Context, ctx.String("pool")); err != nil {
		return err
	}

	fmt.Println("pool is dropped")
	return nil
}

func poolListAction(ctx *cli.Context) error {
	pools, err := pricingSvc.ListPools(ctx.Context)
	if err != nil {
		return err
	}

	printRespJSON(pools)
	return nil
}

func poolShowAction(ctx *cli.Context) error {
	pool, err := pricingSvc.GetPool(ctx.Context, ctx.String("pool"))
	if err != nil {
		return err
	}

	printRespJSON(pool)
	return nil
}

func poolWithdrawAction(ctx *cli.Context) error {
	amount, err := pricingSvc.WithdrawMMProfit(ctx.Context, ctx.String("pool"))
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{
		"amount":    amount,
		"amountSol": mathutil.ToSol(amount),
	})
	return nil
}

func parsePoolConfig(ctx *cli.Context) (pricing.PoolConfigParams, error) {
	var params pricing.PoolConfigParams

	if path := ctx.String("config"); path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return params, err
		}
		if err := json.Unmarshal(buf, &params); err != nil {
			return params, fmt.Errorf("invalid pool config file: %w", err)
		}
		return params, nil
	}

	if !ctx.IsSet("type") || !ctx.IsSet("starting_price") || !ctx.IsSet("delta") {
		return params, &invalidUsageError{ctx, ctx.Command.Name}
	}

	poolType, err := pricing.ParsePoolType(ctx.String("type"))
	if err != nil {
		return params, err
	}
	curveType, err := bondingcurve.ParseCurveType(ctx.String("curve"))
	if err != nil {
		return params, err
	}
	startingPrice, err := parseSol(ctx.String("starting_price"))
	if err != nil {
		return params, fmt.Errorf("invalid starting price: %w", err)
	}

	var delta uint64
	if curveType == bondingcurve.Exponential {
		delta, err = strconv.ParseUint(ctx.String("delta"), 10, 32)
	} else {
		delta, err = parseSol(ctx.String("delta"))
	}
	if err != nil {
		return params, fmt.Errorf("invalid delta: %w", err)
	}

	params = pricing.PoolConfigParams{
		PoolType:       poolType,
		CurveType:      curveType,
		StartingPrice:  startingPrice,
		Delta:          delta,
		HonorRoyalties: ctx.Bool("honor_royalties"),
	}
	if poolType == pricing.Trade {
		fee := uint32(ctx.Uint64("mm_fee_bps"))
		compound := ctx.Bool("mm_compound_fees")
		params.MMFeeBps = &fee
		params.MMCompoundFees = &compound
	}
	return params, nil
}

func parseSol(amount string) (uint64, error) {
	sol, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, err
	}
	return mathutil.FromSol(sol)
}
