// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// epochstake serves the staking and governance reward ledgers over HTTP.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	apitypes "github.com/vechain/epochstake/api/types"
	"github.com/vechain/epochstake/epoch"
)

var (
	version       string
	gitCommit     string
	gitTag        string
	copyrightYear string
)

func nextEpochAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("usage: next-epoch <unix-time>")
	}
	now, err := strconv.ParseUint(ctx.Args().First(), 10, 64)
	if err != nil {
		return errors.Wrap(err, "parse time")
	}
	if _, err := epoch.NextStart(now); err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(apitypes.ConvertClock(now))
}

func newApp() *cli.App {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	if copyrightYear == "" {
		copyrightYear = "2025"
	}

	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
	app.Name = "EpochStake"
	app.Usage = "Epoch aligned staking and governance reward ledgers"
	app.Copyright = fmt.Sprintf("2025-%s VeChain Foundation <https://vechain.org/>", copyrightYear)
	app.Flags = []cli.Flag{
		configFlag,
		verbosityFlag,
		jsonLogsFlag,
		logDirFlag,
		logMaxSizeFlag,
		logMaxFilesFlag,
		apiAddrFlag,
		apiCorsFlag,
		apiSlowQueriesThresholdFlag,
		apiLogsEnabledFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		ntpServerFlag,
	}
	app.Action = serveAction
	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "run a scenario file against a manual clock and print the receipts",
			ArgsUsage: "<scenario.yaml>",
			Flags:     []cli.Flag{outputFlag},
			Action:    runAction,
		},
		{
			Name:      "next-epoch",
			Usage:     "print the epoch boundaries around a unix time",
			ArgsUsage: "<unix-time>",
			Action:    nextEpochAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
