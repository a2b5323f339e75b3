// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lockvest/api"
	"github.com/vechain/lockvest/api/admin"
	"github.com/vechain/lockvest/clock"
	"github.com/vechain/lockvest/log"
	"github.com/vechain/lockvest/metrics"
)

const driftCheckInterval = time.Hour

// serveHTTP serves handler on addr until ctx is done.
func serveHTTP(ctx context.Context, name, addr string, handler http.Handler) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen %v addr [%v]", name, addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	log.Info(name+" service started", "url", "http://"+listener.Addr().String())

	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func watchClockDrift(ctx context.Context, server string, tolerance time.Duration) {
	ticker := time.NewTicker(driftCheckInterval)
	defer ticker.Stop()
	for {
		clock.WarnDrift(server, tolerance)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func serveAction(ctx *cli.Context) error {
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()
	if _, err := inst.mustInitialized(); err != nil {
		return err
	}

	handler := api.New(inst.engine, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		HistoryLimit:    ctx.Int(historyLimitFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})

	group, gctx := errgroup.WithContext(handleExitSignal())
	group.Go(func() error {
		return serveHTTP(gctx, "API", ctx.String(apiAddrFlag.Name), handler)
	})
	if addr := ctx.String(adminAddrFlag.Name); addr != "" {
		group.Go(func() error {
			return serveHTTP(gctx, "admin", addr, admin.New(inst.engine, logLevel))
		})
	}
	if server := ctx.String(ntpServerFlag.Name); server != "" {
		group.Go(func() error {
			watchClockDrift(gctx, server, ctx.Duration(driftToleranceFlag.Name))
			return nil
		})
	}
	return group.Wait()
}
