// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin mounts the owner operations. Callers of these routes are
// trusted; authorization is left to the deployment.
package admin

import (
	"log/slog"
	"sync/atomic"

	"github.com/gorilla/mux"

	"github.com/vechain/epochstake/api/admin/apilogs"
	"github.com/vechain/epochstake/api/admin/clock"
	"github.com/vechain/epochstake/api/admin/governance"
	"github.com/vechain/epochstake/api/admin/loglevel"
	"github.com/vechain/epochstake/api/admin/staking"
	"github.com/vechain/epochstake/engine"
)

func Mount(root *mux.Router, pathPrefix string, engine *engine.Engine, logLevel *slog.LevelVar, apiLogs *atomic.Bool) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	clock.New(engine).Mount(sub, "/clock")
	staking.New(engine).Mount(sub, "/staking")
	governance.New(engine).Mount(sub, "/governance")
	loglevel.New(logLevel).Mount(sub, "/loglevel")
	apilogs.New(apiLogs).Mount(sub, "/apilogs")
}
