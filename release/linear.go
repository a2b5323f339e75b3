// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package release

import (
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/safemath"
)

// Schedule is the periodic vesting schedule of a stake pool.
type Schedule struct {
	StartsAt     uint64
	PeriodLength uint64
	MaxPeriods   uint8
}

// Total returns the length of the whole claim window.
func (s Schedule) Total() (uint64, error) {
	return safemath.Mul(s.PeriodLength, uint64(s.MaxPeriods))
}

// Vesting is the claim progress of a single stake position.
type Vesting struct {
	DepositedAmount uint64
	ClaimedAmount   uint64
	DepositedAt     uint64
	PeriodsClaimed  uint8
}

// LinearClaim returns the amount payable at now and the new claimed period count.
// A claim only progresses once a new period boundary has been crossed since the last claim.
// Once the whole window has elapsed the unclaimed remainder is paid in full, and the final
// period always settles claimed == deposited.
func LinearClaim(v Vesting, s Schedule, now uint64) (uint64, uint8, error) {
	if s.PeriodLength == 0 || s.MaxPeriods == 0 {
		return 0, 0, reverts.ErrInvalidParams
	}
	if now <= s.StartsAt || v.PeriodsClaimed >= s.MaxPeriods {
		return 0, 0, reverts.ErrNotClaimable
	}
	remaining, err := safemath.Sub(v.DepositedAmount, v.ClaimedAmount)
	if err != nil {
		return 0, 0, err
	}

	start := max(v.DepositedAt, s.StartsAt)
	if now < start {
		return 0, 0, reverts.ErrNotClaimable
	}
	elapsed := now - start

	total, err := s.Total()
	if err != nil {
		return 0, 0, err
	}
	if elapsed > total {
		return remaining, s.MaxPeriods, nil
	}

	// elapsed <= total, so the index never exceeds MaxPeriods
	index, err := safemath.ToUint8(elapsed / s.PeriodLength)
	if err != nil {
		return 0, 0, err
	}
	if index <= v.PeriodsClaimed {
		return 0, 0, reverts.ErrNotClaimable
	}
	if index == s.MaxPeriods {
		return remaining, index, nil
	}

	amount, err := safemath.MulDiv(v.DepositedAmount, uint64(index-v.PeriodsClaimed), uint64(s.MaxPeriods))
	if err != nil {
		return 0, 0, err
	}
	if amount > remaining {
		return 0, 0, reverts.ErrInvariantViolated
	}
	return amount, index, nil
}
