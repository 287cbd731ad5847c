package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/nftamm/internal/config"
	"github.com/tdex-network/nftamm/internal/core/application"
	"github.com/tdex-network/nftamm/internal/core/ports"
	"github.com/tdex-network/nftamm/internal/infrastructure/chainstate"
	dbbadger "github.com/tdex-network/nftamm/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/nftamm/internal/infrastructure/storage/db/inmemory"
	postgresdb "github.com/tdex-network/nftamm/internal/infrastructure/storage/db/pg"
	"github.com/tdex-network/nftamm/pkg/circuitbreaker"
	"github.com/tdex-network/nftamm/pkg/stats"
	"github.com/urfave/cli/v2"
)

var (
	repoManager ports.RepoManager
	pricingSvc  application.PricingService
	registry    = prometheus.NewRegistry()
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "nftamm"
	app.Usage = "Command line interface to manage nft pools and price trades against their bonding curves"
	app.Commands = append(
		app.Commands,
		&poolCmd,
		&quoteCmd,
		&depositCmd,
		&tradeCmd,
	)
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "metrics_out",
			Usage: "append the metrics collected while running the command to the given file",
		},
	}
	app.Before = setup
	app.After = teardown

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func setup(ctx *cli.Context) error {
	if err := config.InitConfig(); err != nil {
		return err
	}

	var err error
	switch config.GetString(config.DBTypeKey) {
	case config.DBInMemory:
		repoManager = inmemory.NewRepoManager()
	case config.DBPostgres:
		repoManager, err = postgresdb.NewRepoManager(
			ctx.Context, config.GetString(config.PgConnectAddrKey),
		)
		if err != nil {
			return err
		}
	default:
		repoManager, err = dbbadger.NewRepoManager(config.GetDbDir(), log.StandardLogger())
		if err != nil {
			return err
		}
	}

	fees, err := config.GetFeeSchedule()
	if err != nil {
		return err
	}

	circuitbreaker.MaxNumOfFailingRequests = config.GetInt(config.ChainReadMaxFailuresKey)
	chainState := chainstate.NewGuardedReader(
		repoManager.ChainStateReader(),
		chainstate.Opts{RequestsPerSecond: config.GetInt(config.ChainReadRateLimitKey)},
	)

	metrics, err := application.NewMetrics(registry)
	if err != nil {
		return err
	}

	pricingSvc, err = application.NewPricingService(
		repoManager, chainState, fees, config.GetPriceSlippage(), metrics,
	)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"db":           config.GetString(config.DBTypeKey),
		"fee_schedule": fees.Version,
	}).Debug("pricing service initialized")
	return nil
}

func teardown(ctx *cli.Context) error {
	if repoManager != nil {
		repoManager.Close()
	}
	stats.PrintMemoryStatistics()

	if path := ctx.String("metrics_out"); path != "" {
		return stats.DumpMetrics(registry, path)
	}
	return nil
}

func printRespJSON(resp interface{}) {
	jsonStr, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}

	fmt.Println(string(jsonStr))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[nftamm] %v\n", err)
	}
	os.Exit(1)
}
