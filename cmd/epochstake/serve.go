// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/epochstake/api"
	"github.com/vechain/epochstake/config"
	"github.com/vechain/epochstake/engine"
	"github.com/vechain/epochstake/log"
	"github.com/vechain/epochstake/metrics"
)

func newEngine(cfg *config.Config) (*engine.Engine, error) {
	stakingParams, err := cfg.StakingParams()
	if err != nil {
		return nil, err
	}
	governanceParams, err := cfg.GovernanceParams()
	if err != nil {
		return nil, err
	}
	table, err := cfg.BalanceTable()
	if err != nil {
		return nil, err
	}
	return engine.New(engine.Options{
		Clock:       cfg.Clock(),
		Staking:     stakingParams,
		Governance:  governanceParams,
		Balances:    table,
		HistorySize: normalizeHistorySize(cfg.HistorySize),
	})
}

func serveAction(ctx *cli.Context) error {
	logLevel, closeLogs, err := initLogger(ctx)
	if err != nil {
		return err
	}
	defer closeLogs()
	defer func() { log.Info("exited") }()
	cfg, err := loadConfig(ctx)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	if cfg.EnableMetrics {
		metrics.InitializePrometheusMetrics()
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(apiLogsEnabledFlag.Name))

	handler, closeSubs := api.New(eng, api.Options{
		AllowedOrigins:       cfg.APICors,
		EnableMetrics:        cfg.EnableMetrics,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableReqLogger:      apiLogs,
		LogLevel:             logLevel,
	})
	defer closeSubs()
	apiSrv, err := api.StartServer(cfg.APIAddr, handler)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("stopping API server...")
		if err := apiSrv.Stop(); err != nil {
			log.Warn("API server stopped", "err", err)
		}
	}()
	log.Info("API server started", "url", apiSrv.URL, "now", eng.Now())

	// a nil channel never fires when metrics are disabled
	var metricsDone <-chan struct{}
	if cfg.EnableMetrics {
		metricsSrv, err := startMetricsServer(cfg.MetricsAddr)
		if err != nil {
			return errors.Wrap(err, "unable to start metrics server")
		}
		defer func() {
			log.Info("stopping metrics server...")
			if err := metricsSrv.Stop(); err != nil {
				log.Warn("metrics server stopped", "err", err)
			}
		}()
		metricsDone = metricsSrv.Done()
		log.Info("metrics server started", "url", metricsSrv.URL)
	}

	if server := ctx.String(ntpServerFlag.Name); server != "" && cfg.GenesisTime == 0 {
		go checkClockOffset(ntp.Query, server)
	}

	exitSignal, cancel := handleExitSignal()
	defer cancel()
	select {
	case <-exitSignal.Done():
		return nil
	case <-apiSrv.Done():
		return errors.New("API server exited unexpectedly")
	case <-metricsDone:
		return errors.New("metrics server exited unexpectedly")
	}
}

func startMetricsServer(addr string) (*api.Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen metrics API addr [%v]", addr)
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	return api.Serve(listener, "http://"+listener.Addr().String()+"/metrics", handler), nil
}
