package main

import (
	"github.com/tdex-network/nftamm/internal/core/application"
	"github.com/tdex-network/nftamm/pkg/pricing"
	"github.com/urfave/cli/v2"
)

var tradeCmd = cli.Command{
	Name:  "trade",
	Usage: "record a settled trade against a pool, moving it along its curve",
	Flags: []cli.Flag{
		poolIDFlag,
		&cli.StringFlag{
			Name:     "side",
			Usage:    "the taker side, either buy or sell",
			Required: true,
		},
		&cli.Int64Flag{
			Name:  "units",
			Usage: "the number of units traded",
			Value: 1,
		},
		&cli.Uint64Flag{
			Name:  "guard",
			Usage: "the guard price of the batch in lamports, max for buys and min for sells",
		},
	},
	Action: tradeAction,
}

func tradeAction(ctx *cli.Context) error {
	side, err := pricing.ParseTakerSide(ctx.String("side"))
	if err != nil {
		return err
	}

	req := application.TradeRequest{
		PoolID: ctx.String("pool"),
		Side:   side,
		Units:  ctx.Int64("units"),
	}
	if ctx.IsSet("guard") {
		guard := ctx.Uint64("guard")
		req.Guard = &guard
	}

	receipt, err := pricingSvc.RecordTrade(ctx.Context, req)
	if err != nil {
		return err
	}

	printRespJSON(receipt)
	return nil
}
