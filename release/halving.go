// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package release

import (
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/safemath"
)

// Halving describes a per-unit reward that stays at BaseReward for the first
// HalvingStartsAt units and is then halved on every following unit.
type Halving struct {
	DurationUnit  uint64
	BaseReward    uint64
	DurationCount uint64
	StartsAt      uint64
}

// FullDuration returns the length of the complete emission program.
func (h Halving) FullDuration() (uint64, error) {
	return safemath.Mul(h.DurationUnit, h.DurationCount)
}

// HalvingReward returns the reward accumulated over duration. Only whole units
// count and no more than DurationCount units are ever rewarded.
func HalvingReward(h Halving, duration uint64) (uint64, error) {
	if h.DurationUnit == 0 {
		return 0, reverts.ErrInvalidParams
	}
	units := min(duration/h.DurationUnit, h.DurationCount)

	flat := min(units, h.StartsAt)
	total, err := safemath.Mul(h.BaseReward, flat)
	if err != nil {
		return 0, err
	}
	reward := h.BaseReward
	for i := flat; i < units; i++ {
		reward /= 2
		if reward == 0 {
			break
		}
		if total, err = safemath.Add(total, reward); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// MaxHalvingReward returns the reward of the complete emission program.
func MaxHalvingReward(h Halving) (uint64, error) {
	full, err := h.FullDuration()
	if err != nil {
		return 0, err
	}
	return HalvingReward(h, full)
}
