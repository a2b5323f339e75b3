// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package release

import (
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/safemath"
)

// Lock is the time-locked balance of a lock position.
type Lock struct {
	Amount    uint64
	StartedAt uint64
	EndsAt    uint64
}

// PowerParams carries the lock pool settings that shape voting power.
type PowerParams struct {
	MaxStakeDuration uint64
	Multiplier       uint8
}

// VotingPower returns the governance weight of a lock at now.
//
// The weight is derived from the duration committed at lock time, clamped to
// MaxStakeDuration, and not from the time left:
//
//	power = amount * multiplier * min(ends - started, max) / max
//
// It is zero for a lock that never started, has not started yet or has expired.
func VotingPower(l Lock, p PowerParams, now uint64) (uint64, error) {
	if l.StartedAt == 0 || now < l.StartedAt || now >= l.EndsAt {
		return 0, nil
	}
	if p.MaxStakeDuration == 0 {
		return 0, reverts.ErrInvalidParams
	}
	relevant := min(l.EndsAt-l.StartedAt, p.MaxStakeDuration)
	return safemath.MulMulDiv(l.Amount, uint64(p.Multiplier), relevant, p.MaxStakeDuration)
}
