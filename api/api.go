// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/epochstake/api/admin"
	"github.com/vechain/epochstake/api/clock"
	"github.com/vechain/epochstake/api/doc"
	"github.com/vechain/epochstake/api/events"
	"github.com/vechain/epochstake/api/governors"
	"github.com/vechain/epochstake/api/middleware"
	"github.com/vechain/epochstake/api/settings"
	"github.com/vechain/epochstake/api/stakes"
	"github.com/vechain/epochstake/api/subscriptions"
	"github.com/vechain/epochstake/engine"
	"github.com/vechain/epochstake/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableMetrics        bool
	SlowQueriesThreshold time.Duration
	// EnableReqLogger can be switched at runtime through /admin/apilogs.
	EnableReqLogger *atomic.Bool
	LogLevel        *slog.LevelVar
}

// New return api router, and a func closing the websocket subscriptions.
func New(engine *engine.Engine, opts Options) (http.Handler, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	if opts.EnableReqLogger == nil {
		opts.EnableReqLogger = &atomic.Bool{}
	}
	if opts.LogLevel == nil {
		opts.LogLevel = new(slog.LevelVar)
	}

	router := mux.NewRouter()

	router.PathPrefix("/doc").Handler(
		http.StripPrefix("/doc/", http.FileServer(http.FS(doc.FS))),
	)
	router.Path("/").HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "doc/epochstake.yaml", http.StatusTemporaryRedirect)
		})

	clock.New(engine).
		Mount(router, "/clock")
	stakes.New(engine).
		Mount(router, "/stakes")
	governors.New(engine).
		Mount(router, "/governors")
	settings.New(engine).
		Mount(router, "/params")
	events.New(engine).
		Mount(router, "/events")
	subs := subscriptions.New(engine, origins)
	subs.Mount(router, "/subscriptions")
	admin.Mount(router, "/admin", engine, opts.LogLevel, opts.EnableReqLogger)

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(handler)

	handler = middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold)(handler)
	return handler, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
