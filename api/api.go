// Copyright (c) 2018 The VeChainThor developers

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

	"github.com/lossless-cash/lossless-go/api/accounts"
	"github.com/lossless-cash/lossless-go/api/config"
	"github.com/lossless-cash/lossless-go/api/events"
	"github.com/lossless-cash/lossless-go/api/middleware"
	"github.com/lossless-cash/lossless-go/api/reports"
	"github.com/lossless-cash/lossless-go/api/subscriptions"
	"github.com/lossless-cash/lossless-go/api/transfers"
	"github.com/lossless-cash/lossless-go/log"
	"github.com/lossless-cash/lossless-go/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	PprofOn              bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	LogsLimit            uint64
}

// New return api router
func New(rt *runtime.Runtime, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	reports.New(rt).
		Mount(router, "/reports")
	accounts.New(rt).
		Mount(router, "/accounts")
	transfers.New(rt).
		Mount(router, "/transfers")
	config.New(rt).
		Mount(router, "/config")
	if rt.LogDB() != nil {
		events.New(rt, opts.LogsLimit).
			Mount(router, "/events")
	}
	subs := subscriptions.New(rt, origins)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(middleware.MetricsMiddleware)
	}
	router.Use(middleware.GenesisMiddleware(rt.GenesisID()))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id", "x-request-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id", "x-request-id"}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
