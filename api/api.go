// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves read only views of the engine state over HTTP.
package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/lockvest/api/custody"
	"github.com/vechain/lockvest/api/history"
	"github.com/vechain/lockvest/api/lockers"
	"github.com/vechain/lockvest/api/stakepools"
	"github.com/vechain/lockvest/engine"
	"github.com/vechain/lockvest/log"
	"github.com/vechain/lockvest/metrics"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	HistoryLimit    int
	EnableReqLogger bool
	EnableMetrics   bool
}

// New return api router
func New(e *engine.Engine, opts Options) http.Handler {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	custody.New(e).
		Mount(router, "/custody")
	stakepools.New(e).
		Mount(router, "/stakepools")
	lockers.New(e).
		Mount(router, "/lockers")
	if h := e.History(); h != nil {
		history.New(h, opts.HistoryLimit).
			Mount(router, "/history")
	}

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}
	return handler
}
