// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locker

import (
	"github.com/vechain/lockvest/release"
	"github.com/vechain/lockvest/reverts"
)

// ParamsV1 are the params of an admin governed locker.
type ParamsV1 struct {
	MinStakeDuration uint64
	MaxStakeDuration uint64
	WhitelistEnabled bool
	Multiplier       uint8
}

// ParamsV2 adds the proposal activation threshold.
type ParamsV2 struct {
	MinStakeDuration           uint64
	MaxStakeDuration           uint64
	ProposalActivationMinVotes uint64
	WhitelistEnabled           bool
	Multiplier                 uint8
}

// NFTParams configure the halving reward of locked instruments.
type NFTParams struct {
	NFTStakeDurationUnit     uint64
	NFTStakeBaseReward       uint64
	NFTStakeDurationCount    uint64
	NFTRewardHalvingStartsAt uint64
}

// Params are the current locker params.
type Params struct {
	MinStakeDuration           uint64
	MaxStakeDuration           uint64
	WhitelistEnabled           bool
	Multiplier                 uint8
	ProposalActivationMinVotes uint64
	NFTParams
}

// Migrate carries every v1 field into v2. minVotes is the only new value.
func (p ParamsV1) Migrate(minVotes uint64) ParamsV2 {
	return ParamsV2{
		MinStakeDuration:           p.MinStakeDuration,
		MaxStakeDuration:           p.MaxStakeDuration,
		ProposalActivationMinVotes: minVotes,
		WhitelistEnabled:           p.WhitelistEnabled,
		Multiplier:                 p.Multiplier,
	}
}

// Migrate carries every v2 field into the current params.
func (p ParamsV2) Migrate(nft NFTParams) Params {
	return Params{
		MinStakeDuration:           p.MinStakeDuration,
		MaxStakeDuration:           p.MaxStakeDuration,
		WhitelistEnabled:           p.WhitelistEnabled,
		Multiplier:                 p.Multiplier,
		ProposalActivationMinVotes: p.ProposalActivationMinVotes,
		NFTParams:                  nft,
	}
}

// Validate rejects params no lock could satisfy.
func (p Params) Validate() error {
	if p.MaxStakeDuration == 0 || p.MinStakeDuration > p.MaxStakeDuration || p.Multiplier == 0 {
		return reverts.ErrInvalidParams
	}
	if !p.NFTEnabled() {
		return nil
	}
	if p.NFTStakeDurationUnit == 0 || p.NFTStakeBaseReward == 0 {
		return reverts.ErrInvalidParams
	}
	full, err := p.Curve().FullDuration()
	if err != nil || full > p.MaxStakeDuration {
		return reverts.ErrInvalidParams
	}
	if _, err := release.MaxHalvingReward(p.Curve()); err != nil {
		return reverts.ErrInvalidParams
	}
	return nil
}

// NFTEnabled reports whether instruments may be locked.
func (p Params) NFTEnabled() bool {
	return p.NFTStakeDurationCount > 0
}

// Curve returns the halving curve of instrument rewards.
func (p Params) Curve() release.Halving {
	return release.Halving{
		DurationUnit:  p.NFTStakeDurationUnit,
		BaseReward:    p.NFTStakeBaseReward,
		DurationCount: p.NFTStakeDurationCount,
		StartsAt:      p.NFTRewardHalvingStartsAt,
	}
}

func (p Params) power() release.PowerParams {
	return release.PowerParams{
		MaxStakeDuration: p.MaxStakeDuration,
		Multiplier:       p.Multiplier,
	}
}

func (p Params) checkDuration(duration uint64) error {
	if duration < p.MinStakeDuration {
		return reverts.ErrLockupDurationTooShort
	}
	if duration > p.MaxStakeDuration {
		return reverts.ErrLockupDurationTooLong
	}
	return nil
}
