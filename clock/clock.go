// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock provides the time sources operations are evaluated against.
package clock

import (
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/vechain/lockvest/log"
)

var logger = log.WithContext("pkg", "clock")

// Source returns the current Unix time in seconds.
type Source interface {
	Now() uint64
}

// System reads the wall clock.
type System struct{}

func (System) Now() uint64 {
	return uint64(time.Now().Unix())
}

// Fixed is a manually driven clock.
type Fixed struct {
	now atomic.Uint64
}

func NewFixed(now uint64) *Fixed {
	f := &Fixed{}
	f.now.Store(now)
	return f
}

func (f *Fixed) Now() uint64 {
	return f.now.Load()
}

// Set moves the clock to now. It may go backwards.
func (f *Fixed) Set(now uint64) {
	f.now.Store(now)
}

// Advance moves the clock forward by d seconds and returns the new time.
func (f *Fixed) Advance(d uint64) uint64 {
	return f.now.Add(d)
}

// CheckDrift returns the offset of the local clock against the NTP server.
func CheckDrift(server string) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		return 0, errors.Wrapf(err, "query %v", server)
	}
	return resp.ClockOffset, nil
}

// WarnDrift logs a warning when the local clock is off by more than tolerance.
// Unreachable servers are only logged at debug level.
func WarnDrift(server string, tolerance time.Duration) {
	offset, err := CheckDrift(server)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if offset > tolerance || -offset > tolerance {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(offset))
	}
}
