// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package engine executes custody, stake pool and locker operations as atomic
// transitions. Operations are serialized, evaluated against a single clock sample
// and either committed together with every transfer they made or not at all.
package engine

import (
	"sync"
	"time"

	"github.com/pborman/uuid"

	"github.com/vechain/lockvest/clock"
	"github.com/vechain/lockvest/custody"
	"github.com/vechain/lockvest/locker"
	"github.com/vechain/lockvest/log"
	"github.com/vechain/lockvest/metrics"
	"github.com/vechain/lockvest/oplog"
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/stakepool"
	"github.com/vechain/lockvest/store"
	"github.com/vechain/lockvest/thor"
)

var (
	logger = log.WithContext("pkg", "engine")

	metricOperations = metrics.LazyLoadCounterVec("engine_operations", []string{"op", "outcome"})
	metricDuration   = metrics.LazyLoadHistogramVec("engine_operation_duration_ms", []string{"op"}, metrics.BucketOpMillis)
	metricRecords    = metrics.LazyLoadCounter("engine_committed_records")
)

// Engine owns the record store and every service built over it.
type Engine struct {
	mu      sync.Mutex
	store   *store.Store
	clock   clock.Source
	history *oplog.OpLog

	ledger *custody.Ledger
	stake  *stakepool.Service
	locker *locker.Locker
}

// New creates an engine over s. history may be nil.
func New(s *store.Store, src clock.Source, history *oplog.OpLog) *Engine {
	ledger := custody.New(s)
	return &Engine{
		store:   s,
		clock:   src,
		history: history,
		ledger:  ledger,
		stake:   stakepool.New(s, ledger),
		locker:  locker.New(s, ledger),
	}
}

// Ledger returns the custody ledger. Reads outside View may observe a running operation.
func (e *Engine) Ledger() *custody.Ledger { return e.ledger }

// StakePool returns the stake pool service.
func (e *Engine) StakePool() *stakepool.Service { return e.stake }

// Locker returns the locker service.
func (e *Engine) Locker() *locker.Locker { return e.locker }

// History returns the operation log, or nil.
func (e *Engine) History() *oplog.OpLog { return e.history }

// Now samples the engine clock.
func (e *Engine) Now() uint64 { return e.clock.Now() }

// View runs fn against a consistent state. fn must not mutate.
func (e *Engine) View(fn func(now uint64) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.clock.Now())
}

// Batch runs fn as one operation, so that every mutation it makes commits or
// reverts together.
func (e *Engine) Batch(op string, subject thor.Address, fn func(now uint64) error) error {
	return e.run(op, subject, fn)
}

func (e *Engine) run(op string, subject thor.Address, fn func(now uint64) error) error {
	_, err := e.exec(op, subject, func(now uint64) (uint64, error) {
		return 0, fn(now)
	})
	return err
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if !reverts.IsRevertErr(err) {
		return "error"
	}
	return reverts.KindOf(err).String()
}

func (e *Engine) exec(op string, subject thor.Address, fn func(now uint64) (uint64, error)) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		id    = uuid.NewRandom().String()
		now   = e.clock.Now()
		start = time.Now()
		cp    = e.store.Checkpoint()
	)
	amount, err := fn(now)
	written := 0
	if err == nil {
		written, err = e.store.Commit()
	}
	if err != nil {
		e.store.RevertTo(cp)
		amount = 0
	}
	elapsed := time.Since(start)

	result := outcome(err)
	metricOperations().AddWithLabel(1, map[string]string{"op": op, "outcome": result})
	metricDuration().ObserveWithLabels(elapsed.Milliseconds(), map[string]string{"op": op})
	metricRecords().Add(int64(written))

	switch {
	case err == nil:
		logger.Debug("operation committed", "op", op, "id", id, "subject", subject, "amount", amount, "records", written)
	case reverts.KindOf(err) == reverts.KindArithmetic:
		logger.Error("invariant breached", "op", op, "id", id, "subject", subject, "err", err)
	case reverts.IsRevertErr(err):
		logger.Debug("operation reverted", "op", op, "id", id, "subject", subject, "err", err)
	default:
		logger.Warn("operation failed", "op", op, "id", id, "subject", subject, "err", err)
	}

	if e.history != nil {
		entry := &oplog.Entry{
			ID:      id,
			Op:      op,
			At:      now,
			Subject: subject,
			Amount:  amount,
			Outcome: result,
			Elapsed: elapsed,
		}
		if herr := e.history.Insert(entry); herr != nil {
			logger.Warn("failed to record operation", "op", op, "id", id, "err", herr)
		}
	}
	return amount, err
}
