package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/nftamm/internal/core/application"
	"github.com/tdex-network/nftamm/pkg/pricing"
	"github.com/urfave/cli/v2"
)

var quoteCmd = cli.Command{
	Name:  "quote",
	Usage: "preview the prices and guard prices of a trade against a pool",
	Flags: []cli.Flag{
		poolIDFlag,
		&cli.StringFlag{
			Name:     "side",
			Usage:    "the taker side, either buy or sell",
			Required: true,
		},
		&cli.Int64Flag{
			Name:  "units",
			Usage: "the number of units to trade",
			Value: 1,
		},
		&cli.StringFlag{
			Name:  "slippage",
			Usage: "the slippage tolerance in range [0, 1), defaults to the configured one",
		},
	},
	Action: quoteAction,
}

func quoteAction(ctx *cli.Context) error {
	side, err := pricing.ParseTakerSide(ctx.String("side"))
	if err != nil {
		return err
	}

	req := application.QuoteRequest{
		PoolID: ctx.String("pool"),
		Side:   side,
		Units:  ctx.Int64("units"),
	}
	if ctx.IsSet("slippage") {
		tolerance, err := decimal.NewFromString(ctx.String("slippage"))
		if err != nil {
			return fmt.Errorf("invalid slippage: %w", err)
		}
		req.Tolerance = &tolerance
	}

	preview, err := pricingSvc.QuoteTrade(ctx.Context, req)
	if err != nil {
		return err
	}

	printRespJSON(preview)
	return nil
}
