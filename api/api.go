// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/yieldchef/chef/api/accounts"
	"github.com/yieldchef/chef/api/events"
	"github.com/yieldchef/chef/api/farm"
	"github.com/yieldchef/chef/api/middleware"
	"github.com/yieldchef/chef/api/node"
	"github.com/yieldchef/chef/api/redemption"
	"github.com/yieldchef/chef/api/subscriptions"
	"github.com/yieldchef/chef/api/tokens"
	"github.com/yieldchef/chef/api/transfers"
	"github.com/yieldchef/chef/clock"
	"github.com/yieldchef/chef/ledger"
	"github.com/yieldchef/chef/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	PprofOn              bool
	SkipLogs             bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
	LogsLimit            uint64
	Node                 node.Info
}

// New return api router
func New(
	ledger *ledger.Ledger,
	manual *clock.Manual,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	farm.New(ledger).
		Mount(router, "/farm")
	redemption.New(ledger).
		Mount(router, "/redemption")
	accounts.New(ledger).
		Mount(router, "/accounts")
	tokens.New(ledger).
		Mount(router, "/tokens")

	if !opts.SkipLogs && ledger.LogDB() != nil {
		events.New(ledger.LogDB(), opts.LogsLimit).
			Mount(router, "/logs/event")
		transfers.New(ledger.LogDB(), opts.LogsLimit).
			Mount(router, "/logs/transfer")
	}
	node.New(ledger, manual, opts.Node).
		Mount(router, "/node")
	subs := subscriptions.New(ledger, origins)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	genesisID := ledger.GenesisID().String()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("x-genesis-id", genesisID)
			next.ServeHTTP(w, r)
		})
	})

	reqLoggerEnabled := opts.EnableReqLogger
	if reqLoggerEnabled == nil {
		reqLoggerEnabled = &atomic.Bool{}
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, reqLoggerEnabled, opts.SlowQueriesThreshold, opts.Log5xxErrors))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id"}),
	)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
