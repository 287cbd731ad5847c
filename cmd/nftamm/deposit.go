package main

import (
	"github.com/tdex-network/nftamm/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var depositCmd = cli.Command{
	Name: "deposit",
	Usage: "get the liquidity a pool needs to honor a number of sells, or the " +
		"number of sells a balance can honor",
	Flags: []cli.Flag{
		poolIDFlag,
		&cli.Int64Flag{
			Name:  "sells",
			Usage: "the number of consecutive sells to fund",
			Value: 1,
		},
		&cli.StringFlag{
			Name:  "balance",
			Usage: "a balance in SOL, if set returns how many sells it can fund up to --sells",
		},
	},
	Action: depositAction,
}

func depositAction(ctx *cli.Context) error {
	poolID, sells := ctx.String("pool"), ctx.Int64("sells")

	if ctx.IsSet("balance") {
		balance, err := parseSol(ctx.String("balance"))
		if err != nil {
			return err
		}
		count, err := pricingSvc.FundedSells(ctx.Context, poolID, balance, sells)
		if err != nil {
			return err
		}

		printRespJSON(map[string]interface{}{
			"poolId":      poolID,
			"balance":     balance,
			"fundedSells": count,
		})
		return nil
	}

	deposit, err := pricingSvc.DepositQuote(ctx.Context, poolID, sells)
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{
		"poolId":      deposit.PoolID,
		"sellCount":   deposit.SellCount,
		"required":    deposit.Required,
		"requiredSol": mathutil.ToSol(deposit.Required),
		"closedForm":  deposit.ClosedForm,
	})
	return nil
}
