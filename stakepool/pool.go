// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakepool

import (
	"github.com/vechain/lockvest/release"
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/thor"
)

const (
	// Version marks an initialized pool.
	Version uint8 = 1
	// ClaimPeriodUnit is the default claim period, one day.
	ClaimPeriodUnit uint64 = 86_400
	// MaxClaimCount bounds the number of claim periods of a pool.
	MaxClaimCount uint8 = 21
)

// ProgramID identifies the stake pool when it calls into a locker.
var ProgramID = thor.DeriveAddress("Program", []byte("stake"))

// Params is the vesting schedule of a pool.
type Params struct {
	StartsAt     uint64
	PeriodLength uint64
	MaxPeriods   uint8
}

func (p Params) schedule() release.Schedule {
	return release.Schedule{
		StartsAt:     p.StartsAt,
		PeriodLength: p.PeriodLength,
		MaxPeriods:   p.MaxPeriods,
	}
}

// Validate checks the params against the current time.
func (p Params) Validate(now uint64) error {
	if p.StartsAt <= now || p.PeriodLength == 0 {
		return reverts.ErrInvalidParams
	}
	if p.MaxPeriods == 0 || p.MaxPeriods > MaxClaimCount {
		return reverts.ErrInvalidParams
	}
	if _, err := p.schedule().Total(); err != nil {
		return reverts.ErrInvalidParams
	}
	return nil
}

// Pool converts a principal token into an entitlement token released over Params.
type Pool struct {
	Version         uint8
	PrincipalMint   thor.Address
	EntitlementMint thor.Address
	Owner           thor.Address
	Params          Params
}

// Position is the deposit of one holder in one pool.
type Position struct {
	Pool            thor.Address
	Holder          thor.Address
	DepositedAmount uint64
	ClaimedAmount   uint64
	DepositedAt     uint64
	PeriodsClaimed  uint8
}

func (p *Position) vesting() release.Vesting {
	return release.Vesting{
		DepositedAmount: p.DepositedAmount,
		ClaimedAmount:   p.ClaimedAmount,
		DepositedAt:     p.DepositedAt,
		PeriodsClaimed:  p.PeriodsClaimed,
	}
}

// Remaining is the deposited amount not yet claimed.
func (p *Position) Remaining() uint64 {
	if p.ClaimedAmount > p.DepositedAmount {
		return 0
	}
	return p.DepositedAmount - p.ClaimedAmount
}

// PoolAddress is the address of the pool for the mint pair.
func PoolAddress(principal, entitlement thor.Address) thor.Address {
	return thor.DeriveAddress("PoolInfo", entitlement.Bytes(), principal.Bytes())
}

// AuthorityAddress is the authority the pool mints and holds its vault with.
func AuthorityAddress(pool thor.Address) thor.Address {
	return thor.DeriveAddress("VaultAuthority", pool.Bytes())
}

// PositionAddress is the address of the holder's position in the pool.
func PositionAddress(pool, holder thor.Address) thor.Address {
	return thor.DeriveAddress("PoolUser", pool.Bytes(), holder.Bytes())
}

// ConversionRatio returns how many entitlement units one principal unit vests into
// when locked for duration seconds.
func ConversionRatio(duration uint64) (uint64, error) {
	switch {
	case duration >= 7_689_600 && duration <= 7_948_800: // 89 to 92 days
		return 2, nil
	case duration >= 15_638_400 && duration <= 15_897_600:
		return 5, nil
	case duration >= 31_536_000 && duration <= 31_622_400:
		return 10, nil
	}
	return 0, reverts.ErrInvalidParams
}
