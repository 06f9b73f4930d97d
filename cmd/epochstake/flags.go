// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/epochstake/log"
)

var (
	configFlag = cli.StringFlag{
		Name:   "config",
		Usage:  "path to the YAML configuration file",
		EnvVar: "EPOCHSTAKE_CONFIG",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	logDirFlag = cli.StringFlag{
		Name:  "log-dir",
		Usage: "write logs to rotated files in this directory instead of stderr",
	}
	logMaxSizeFlag = cli.Uint64Flag{
		Name:  "log-max-size",
		Value: 64,
		Usage: "size (MiB) at which a log file is rotated",
	}
	logMaxFilesFlag = cli.IntFlag{
		Name:  "log-max-files",
		Value: 8,
		Usage: "number of log files kept, 0 keeps all",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Usage: "API service listening address, overrides the configuration",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Value: 0,
		Usage: "all queries with duration (ms) >= threshold will be logged",
	}
	apiLogsEnabledFlag = cli.BoolFlag{
		Name:  "api-logs",
		Usage: "enables API requests logging",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "metrics service listening address, overrides the configuration",
	}
	ntpServerFlag = cli.StringFlag{
		Name:  "ntp-server",
		Value: "pool.ntp.org",
		Usage: "NTP server used to check the system clock, empty disables the check",
	}
	outputFlag = cli.StringFlag{
		Name:  "output",
		Usage: "write receipts to this file instead of stdout",
	}
)
