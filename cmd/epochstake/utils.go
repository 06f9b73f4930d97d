// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/epochstake/config"
	"github.com/vechain/epochstake/log"
	"github.com/vechain/epochstake/log/rotatewriter"
)

// initLogger installs the root log handler. The returned func releases the
// log files, if any.
func initLogger(ctx *cli.Context) (*slog.LevelVar, func(), error) {
	lvl := ctx.GlobalInt(verbosityFlag.Name)
	if lvl < log.LegacyLevelCrit || lvl > log.LegacyLevelTrace {
		return nil, nil, errors.Errorf("verbosity %d out of range [0, 5]", lvl)
	}
	level := new(slog.LevelVar)
	level.Set(log.FromLegacyLevel(lvl))
	json := ctx.GlobalBool(jsonLogsFlag.Name)

	dir := ctx.GlobalString(logDirFlag.Name)
	if dir == "" {
		useColor := !json && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
		log.Install(os.Stderr, level, json, useColor)
		return level, func() {}, nil
	}

	writer, err := rotatewriter.New(
		rotatewriter.WithDir(dir),
		rotatewriter.WithFileMaxSize(int64(ctx.GlobalUint64(logMaxSizeFlag.Name))*1024*1024),
		rotatewriter.WithMaxNumberFiles(ctx.GlobalInt(logMaxFilesFlag.Name)),
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "log writer")
	}
	if err := writer.Start(); err != nil {
		return nil, nil, err
	}
	log.Install(writer, level, json, false)
	return level, func() { writer.Close() }, nil
}

// loadConfig reads the configuration file, then applies command line overrides.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.GlobalString(configFlag.Name))
	if err != nil {
		return nil, err
	}
	if v := ctx.String(apiAddrFlag.Name); v != "" {
		cfg.APIAddr = v
	}
	if ctx.IsSet(apiCorsFlag.Name) {
		cfg.APICors = ctx.String(apiCorsFlag.Name)
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		cfg.EnableMetrics = true
	}
	if v := ctx.String(metricsAddrFlag.Name); v != "" {
		cfg.MetricsAddr = v
	}
	return cfg, nil
}

func handleExitSignal() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// maxClockOffset is the system clock drift tolerated before warning. Stakes
// created near an epoch boundary would otherwise start an epoch late.
const maxClockOffset = 5 * time.Second

type ntpQuery func(server string) (*ntp.Response, error)

// checkClockOffset warns when the system clock drifts from the NTP server.
func checkClockOffset(query ntpQuery, server string) {
	resp, err := query(server)
	if err != nil {
		log.Warn("failed to access NTP", "server", server, "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		log.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
		return
	}
	log.Info("clock offset checked", "offset", common.PrettyDuration(resp.ClockOffset))
}

// historyRecordSize is a rough upper bound of one retained receipt, in bytes.
const historyRecordSize = 4096

// normalizeHistorySize limits the retained receipts to 1/16 of physical memory.
func normalizeHistorySize(size int) int {
	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		log.Warn("failed to get total mem", "err", err)
		return size
	}
	limit := int(mem.Total / 16 / historyRecordSize)
	if limit > 0 && size > limit {
		log.Warn("history size limited", "limit", limit)
		return limit
	}
	return size
}
