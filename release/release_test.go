// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package release

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockvest/reverts"
)

const (
	day  = uint64(86400)
	year = uint64(31_536_000)
	t0   = uint64(1_700_000_000)
)

var dailySchedule = Schedule{StartsAt: t0, PeriodLength: day, MaxPeriods: 21}

func TestLinearClaim_FifthPeriod(t *testing.T) {
	v := Vesting{DepositedAmount: 2100, DepositedAt: t0 - 1}

	amount, periods, err := LinearClaim(v, dailySchedule, t0+day*5+1)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), amount)
	assert.Equal(t, uint8(5), periods)
}

func TestLinearClaim_NotClaimable(t *testing.T) {
	v := Vesting{DepositedAmount: 2100, DepositedAt: t0 - 1}

	// before and at the start
	_, _, err := LinearClaim(v, dailySchedule, t0-10)
	assert.ErrorIs(t, err, reverts.ErrNotClaimable)
	_, _, err = LinearClaim(v, dailySchedule, t0)
	assert.ErrorIs(t, err, reverts.ErrNotClaimable)

	// inside the first period
	_, _, err = LinearClaim(v, dailySchedule, t0+day-1)
	assert.ErrorIs(t, err, reverts.ErrNotClaimable)

	// same period as the last claim
	v.PeriodsClaimed = 3
	v.ClaimedAmount = 300
	_, _, err = LinearClaim(v, dailySchedule, t0+day*3+100)
	assert.ErrorIs(t, err, reverts.ErrNotClaimable)

	amount, periods, err := LinearClaim(v, dailySchedule, t0+day*4)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), amount)
	assert.Equal(t, uint8(4), periods)
}

func TestLinearClaim_DepositAfterStart(t *testing.T) {
	deposited := t0 + day*10
	v := Vesting{DepositedAmount: 42, DepositedAt: deposited}

	// the clock restarts at the deposit
	_, _, err := LinearClaim(v, dailySchedule, t0+day*11-1)
	assert.ErrorIs(t, err, reverts.ErrNotClaimable)

	amount, periods, err := LinearClaim(v, dailySchedule, deposited+day)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), amount)
	assert.Equal(t, uint8(1), periods)
}

func TestLinearClaim_FinalPeriodSettlesRemainder(t *testing.T) {
	v := Vesting{DepositedAmount: 100, DepositedAt: t0 - 1}

	var claimed uint64
	for p := uint64(1); p <= 21; p++ {
		amount, periods, err := LinearClaim(v, dailySchedule, t0+day*p)
		require.NoError(t, err)
		assert.Equal(t, uint8(p), periods)
		claimed += amount
		v.ClaimedAmount += amount
		v.PeriodsClaimed = periods
		assert.LessOrEqual(t, v.ClaimedAmount, v.DepositedAmount)
	}
	assert.Equal(t, uint64(100), claimed)

	_, _, err := LinearClaim(v, dailySchedule, t0+day*100)
	assert.ErrorIs(t, err, reverts.ErrNotClaimable)
}

func TestLinearClaim_ExactEndPaysDust(t *testing.T) {
	// 10 x 1 / 21 floors to 0, the last period still settles the unit left
	v := Vesting{DepositedAmount: 10, ClaimedAmount: 9, PeriodsClaimed: 20, DepositedAt: t0 - 1}

	amount, periods, err := LinearClaim(v, dailySchedule, t0+day*21)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), amount)
	assert.Equal(t, uint8(21), periods)
}

func TestLinearClaim_AfterWindowPaysRemainder(t *testing.T) {
	v := Vesting{DepositedAmount: 1000, ClaimedAmount: 47, PeriodsClaimed: 1, DepositedAt: t0 - 1}

	amount, periods, err := LinearClaim(v, dailySchedule, t0+day*21+1)
	require.NoError(t, err)
	assert.Equal(t, uint64(953), amount)
	assert.Equal(t, uint8(21), periods)
}

func TestLinearClaim_Corrupted(t *testing.T) {
	v := Vesting{DepositedAmount: 10, ClaimedAmount: 11, DepositedAt: t0 - 1}
	_, _, err := LinearClaim(v, dailySchedule, t0+day)
	assert.ErrorIs(t, err, reverts.ErrMathOverflow)

	_, _, err = LinearClaim(Vesting{}, Schedule{StartsAt: t0, MaxPeriods: 1}, t0+1)
	assert.ErrorIs(t, err, reverts.ErrInvalidParams)
}

func TestVotingPower_HalfDuration(t *testing.T) {
	p := PowerParams{MaxStakeDuration: year, Multiplier: 10}
	l := Lock{Amount: 1000, StartedAt: t0, EndsAt: t0 + 15_768_000}

	for _, now := range []uint64{t0, t0 + 1, t0 + 7_884_000, t0 + 15_767_999} {
		power, err := VotingPower(l, p, now)
		require.NoError(t, err)
		assert.Equal(t, uint64(5000), power, "now %d", now)
	}
}

func TestVotingPower_Boundaries(t *testing.T) {
	p := PowerParams{MaxStakeDuration: year, Multiplier: 10}
	l := Lock{Amount: 1000, StartedAt: t0, EndsAt: t0 + year}

	power, err := VotingPower(l, p, t0-1)
	require.NoError(t, err)
	assert.Zero(t, power)

	power, err = VotingPower(l, p, t0+year)
	require.NoError(t, err)
	assert.Zero(t, power)

	power, err = VotingPower(l, p, t0)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), power)

	// committed duration beyond the max is clamped
	l.EndsAt = t0 + 2*year
	power, err = VotingPower(l, p, t0+year+5)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), power)

	// never locked
	power, err = VotingPower(Lock{Amount: 1000}, p, t0)
	require.NoError(t, err)
	assert.Zero(t, power)
}

func TestVotingPower_Wide(t *testing.T) {
	p := PowerParams{MaxStakeDuration: year, Multiplier: 255}
	l := Lock{Amount: math.MaxUint64 / 255, StartedAt: t0, EndsAt: t0 + year}

	power, err := VotingPower(l, p, t0+1)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64/255*255), power)

	l.Amount = math.MaxUint64
	_, err = VotingPower(l, p, t0+1)
	assert.ErrorIs(t, err, reverts.ErrMathOverflow)

	_, err = VotingPower(Lock{Amount: 1, StartedAt: t0, EndsAt: t0 + 1}, PowerParams{Multiplier: 1}, t0)
	assert.ErrorIs(t, err, reverts.ErrInvalidParams)
}

var nftHalving = Halving{DurationUnit: 1, BaseReward: 3_750_000_000, DurationCount: 10, StartsAt: 2}

func TestHalvingReward_Curve(t *testing.T) {
	expected := []uint64{
		0,
		3_750_000_000,
		7_500_000_000,
		9_375_000_000,
		10_312_500_000,
		10_781_250_000,
		11_015_625_000,
		11_132_812_500,
		11_191_406_250,
		11_220_703_125,
		11_235_351_562,
	}
	for d, want := range expected {
		got, err := HalvingReward(nftHalving, uint64(d))
		require.NoError(t, err)
		assert.Equal(t, want, got, "duration %d", d)
	}

	maxReward, err := MaxHalvingReward(nftHalving)
	require.NoError(t, err)
	assert.Equal(t, uint64(11_235_351_562), maxReward)

	// no reward past the program
	got, err := HalvingReward(nftHalving, 1_000)
	require.NoError(t, err)
	assert.Equal(t, maxReward, got)
}

func TestHalvingReward_Monotonic(t *testing.T) {
	h := Halving{DurationUnit: 7, BaseReward: 1_000_003, DurationCount: 40, StartsAt: 3}
	full, err := h.FullDuration()
	require.NoError(t, err)

	prev := uint64(0)
	for d := uint64(0); d <= full+20; d++ {
		got, err := HalvingReward(h, d)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, prev, "duration %d", d)
		prev = got
	}
	maxReward, err := MaxHalvingReward(h)
	require.NoError(t, err)
	assert.Equal(t, maxReward, prev)
}

func TestHalvingReward_Errors(t *testing.T) {
	_, err := HalvingReward(Halving{BaseReward: 1, DurationCount: 1}, 10)
	assert.ErrorIs(t, err, reverts.ErrInvalidParams)

	h := Halving{DurationUnit: 1, BaseReward: math.MaxUint64, DurationCount: 3, StartsAt: 2}
	_, err = HalvingReward(h, 3)
	assert.ErrorIs(t, err, reverts.ErrMathOverflow)

	// a long flat program is computed without walking every unit
	h = Halving{DurationUnit: 1, BaseReward: 1, DurationCount: math.MaxUint64, StartsAt: math.MaxUint64}
	got, err := HalvingReward(h, math.MaxUint64)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got)
}
