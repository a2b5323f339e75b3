// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakepool

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockvest/custody"
	"github.com/vechain/lockvest/lvldb"
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/store"
	"github.com/vechain/lockvest/thor"
)

const (
	startsAt = uint64(1_700_000_000)
	day      = ClaimPeriodUnit
)

var (
	principal   = thor.BytesToAddress([]byte("p-honey"))
	entitlement = thor.BytesToAddress([]byte("honey"))
	minter      = thor.BytesToAddress([]byte("minter"))
	owner       = thor.BytesToAddress([]byte("owner"))
	holder      = thor.BytesToAddress([]byte("holder"))
)

type fixture struct {
	svc    *Service
	ledger *custody.Ledger
	pool   thor.Address
	source thor.Address
	dest   thor.Address
}

func newFixture(t *testing.T, params Params) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s, err := store.New(db, 0)
	require.NoError(t, err)

	ledger := custody.New(s)
	require.NoError(t, ledger.CreateMint(principal, minter, 6))
	require.NoError(t, ledger.CreateMint(entitlement, minter, 6))

	svc := New(s, ledger)
	pool, err := svc.Initialize(params.StartsAt-100, owner, principal, entitlement, params)
	require.NoError(t, err)
	require.NoError(t, svc.SetMintAuthority(pool, owner, minter))
	require.NoError(t, svc.OpenPosition(pool, holder))

	source, err := ledger.CreateAccount(holder, principal)
	require.NoError(t, err)
	require.NoError(t, ledger.MintTo(principal, source, minter, 1_000_000))
	dest, err := ledger.CreateAccount(holder, entitlement)
	require.NoError(t, err)

	return &fixture{svc: svc, ledger: ledger, pool: pool, source: source, dest: dest}
}

func defaultParams() Params {
	return Params{StartsAt: startsAt, PeriodLength: day, MaxPeriods: MaxClaimCount}
}

func TestInitialize(t *testing.T) {
	f := newFixture(t, defaultParams())

	pool, err := f.svc.GetPool(f.pool)
	require.NoError(t, err)
	assert.Equal(t, Version, pool.Version)
	assert.Equal(t, PoolAddress(principal, entitlement), f.pool)

	_, err = f.svc.Initialize(startsAt-100, owner, principal, entitlement, defaultParams())
	assert.ErrorIs(t, err, reverts.ErrAlreadyExists)

	bad := []Params{
		{StartsAt: startsAt - 100, PeriodLength: day, MaxPeriods: 1},
		{StartsAt: startsAt, PeriodLength: 0, MaxPeriods: 1},
		{StartsAt: startsAt, PeriodLength: day, MaxPeriods: 0},
		{StartsAt: startsAt, PeriodLength: day, MaxPeriods: MaxClaimCount + 1},
	}
	for _, p := range bad {
		_, err := f.svc.Initialize(startsAt-100, owner, entitlement, principal, p)
		assert.ErrorIs(t, err, reverts.ErrInvalidParams)
	}

	_, err = f.svc.GetPool(thor.Address{1})
	assert.NoError(t, err)
	assert.ErrorIs(t, f.svc.OpenPosition(thor.Address{1}, holder), reverts.ErrUninitialized)
	assert.ErrorIs(t, f.svc.OpenPosition(f.pool, holder), reverts.ErrAlreadyExists)
}

func TestClaim_FifthPeriod(t *testing.T) {
	f := newFixture(t, defaultParams())

	require.NoError(t, f.svc.Deposit(startsAt-1, f.pool, holder, f.source, 2100))

	now := startsAt + day*5 + 1
	preview, periods, err := f.svc.Claimable(now, f.pool, holder)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), preview)
	assert.Equal(t, uint8(5), periods)

	amount, err := f.svc.Claim(now, f.pool, holder, f.dest)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), amount)

	pos, err := f.svc.GetPosition(f.pool, holder)
	require.NoError(t, err)
	assert.Equal(t, uint8(5), pos.PeriodsClaimed)
	assert.Equal(t, uint64(500), pos.ClaimedAmount)

	bal, _ := f.ledger.Balance(f.dest)
	assert.Equal(t, uint64(500), bal)
	bal, _ = f.ledger.Balance(f.source)
	assert.Equal(t, uint64(1_000_000-2100), bal)

	_, err = f.svc.Claim(now+day-2, f.pool, holder, f.dest)
	assert.ErrorIs(t, err, reverts.ErrNotClaimable)
}

func TestClaim_BeforeStart(t *testing.T) {
	f := newFixture(t, defaultParams())
	require.NoError(t, f.svc.Deposit(startsAt-1, f.pool, holder, f.source, 2100))

	_, err := f.svc.Claim(startsAt, f.pool, holder, f.dest)
	assert.ErrorIs(t, err, reverts.ErrNotClaimable)
	_, err = f.svc.Claim(startsAt+day-1, f.pool, holder, f.dest)
	assert.ErrorIs(t, err, reverts.ErrNotClaimable)
}

func TestDeposit_Resets(t *testing.T) {
	f := newFixture(t, defaultParams())

	require.NoError(t, f.svc.Deposit(startsAt-10, f.pool, holder, f.source, 100))
	pos, _ := f.svc.GetPosition(f.pool, holder)
	assert.Equal(t, uint64(100), pos.DepositedAmount)
	assert.Equal(t, uint8(0), pos.PeriodsClaimed)

	require.NoError(t, f.svc.Deposit(startsAt-5, f.pool, holder, f.source, 50))
	pos, _ = f.svc.GetPosition(f.pool, holder)
	assert.Equal(t, uint64(150), pos.DepositedAmount)
	assert.Equal(t, uint64(0), pos.ClaimedAmount)
	assert.Equal(t, uint8(0), pos.PeriodsClaimed)
	assert.Equal(t, startsAt-5, pos.DepositedAt)

	// 150 * 2 / 21
	now := startsAt + day*2 + 1
	amount, err := f.svc.Claim(now, f.pool, holder, f.dest)
	require.NoError(t, err)
	assert.Equal(t, uint64(14), amount)

	require.NoError(t, f.svc.Deposit(now, f.pool, holder, f.source, 50))
	pos, _ = f.svc.GetPosition(f.pool, holder)
	assert.Equal(t, uint64(150-14+50), pos.DepositedAmount)
	assert.Equal(t, uint64(0), pos.ClaimedAmount)
	assert.Equal(t, uint8(0), pos.PeriodsClaimed)
	assert.Equal(t, now, pos.DepositedAt)

	// the claim window restarts at the deposit
	_, err = f.svc.Claim(now+day-1, f.pool, holder, f.dest)
	assert.ErrorIs(t, err, reverts.ErrNotClaimable)
	amount, err = f.svc.Claim(now+day, f.pool, holder, f.dest)
	require.NoError(t, err)
	assert.Equal(t, uint64(186/21), amount)
}

func TestDeposit_Failures(t *testing.T) {
	f := newFixture(t, defaultParams())

	assert.ErrorIs(t, f.svc.Deposit(startsAt, f.pool, holder, f.source, 0), reverts.ErrInvalidInputValue)
	assert.ErrorIs(t, f.svc.Deposit(startsAt, f.pool, holder, f.source, 1_000_001), reverts.ErrInsufficientFunds)
	assert.ErrorIs(t, f.svc.Deposit(startsAt, f.pool, holder, f.dest, 1), reverts.ErrInvalidToken)
	assert.ErrorIs(t, f.svc.Deposit(startsAt, f.pool, owner, f.source, 1), reverts.ErrNotFound)

	require.NoError(t, f.svc.OpenPosition(f.pool, owner))
	assert.ErrorIs(t, f.svc.Deposit(startsAt, f.pool, owner, f.source, 1), reverts.ErrInvalidOwner)
}

func TestClaim_FullCycleSettles(t *testing.T) {
	f := newFixture(t, defaultParams())
	require.NoError(t, f.svc.Deposit(startsAt-1, f.pool, holder, f.source, 100))

	var total uint64
	for i := uint64(1); i <= uint64(MaxClaimCount); i++ {
		amount, err := f.svc.Claim(startsAt+day*i, f.pool, holder, f.dest)
		require.NoError(t, err)
		total += amount
	}
	assert.Equal(t, uint64(100), total)

	pos, err := f.svc.GetPosition(f.pool, holder)
	require.NoError(t, err)
	assert.Nil(t, pos)

	_, err = f.svc.Claim(startsAt+day*30, f.pool, holder, f.dest)
	assert.ErrorIs(t, err, reverts.ErrNotFound)
}

func TestClaim_AfterWindow(t *testing.T) {
	f := newFixture(t, defaultParams())
	require.NoError(t, f.svc.Deposit(startsAt-1, f.pool, holder, f.source, 2100))

	_, err := f.svc.Claim(startsAt+day*3, f.pool, holder, f.dest)
	require.NoError(t, err)
	amount, err := f.svc.Claim(startsAt+day*100, f.pool, holder, f.dest)
	require.NoError(t, err)
	assert.Equal(t, uint64(1800), amount)

	bal, _ := f.ledger.Balance(f.dest)
	assert.Equal(t, uint64(2100), bal)
}

func TestClaim_RandomSequences(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		f := newFixture(t, Params{StartsAt: startsAt, PeriodLength: 1000, MaxPeriods: 7})
		fz := fuzz.NewWithSeed(seed)

		var deposit uint32
		fz.Fuzz(&deposit)
		deposit = deposit%100_000 + 1
		require.NoError(t, f.svc.Deposit(startsAt-1, f.pool, holder, f.source, uint64(deposit)))

		now := startsAt
		var lastPeriods uint8
		for range 30 {
			var step uint16
			fz.Fuzz(&step)
			now += uint64(step % 1500)

			pos, err := f.svc.GetPosition(f.pool, holder)
			require.NoError(t, err)
			if pos == nil {
				break
			}
			index := (now - startsAt) / 1000
			due := now > startsAt && (index > uint64(pos.PeriodsClaimed) || now-startsAt > 7000)

			_, err = f.svc.Claim(now, f.pool, holder, f.dest)
			if !due {
				assert.ErrorIs(t, err, reverts.ErrNotClaimable)
				continue
			}
			require.NoError(t, err)

			pos, err = f.svc.GetPosition(f.pool, holder)
			require.NoError(t, err)
			if pos == nil {
				break
			}
			assert.LessOrEqual(t, pos.ClaimedAmount, pos.DepositedAmount)
			assert.GreaterOrEqual(t, pos.PeriodsClaimed, lastPeriods)
			lastPeriods = pos.PeriodsClaimed
		}

		bal, _ := f.ledger.Balance(f.dest)
		assert.LessOrEqual(t, bal, uint64(deposit))
	}
}

func TestModifyParams(t *testing.T) {
	f := newFixture(t, defaultParams())
	next := Params{StartsAt: startsAt + day, PeriodLength: day, MaxPeriods: 7}

	assert.ErrorIs(t, f.svc.ModifyParams(startsAt-50, f.pool, holder, next), reverts.ErrInvalidOwner)
	require.NoError(t, f.svc.ModifyParams(startsAt-50, f.pool, owner, next))

	pool, _ := f.svc.GetPool(f.pool)
	assert.Equal(t, next, pool.Params)

	assert.ErrorIs(t, f.svc.ModifyParams(startsAt+day+1, f.pool, owner, next), reverts.ErrInvalidParams)
	late := Params{StartsAt: startsAt + day*9, PeriodLength: day, MaxPeriods: 7}
	assert.ErrorIs(t, f.svc.ModifyParams(startsAt+day, f.pool, owner, late), reverts.ErrStartTimeFreezed)
}

func TestOwnerAndAuthority(t *testing.T) {
	f := newFixture(t, defaultParams())
	next := thor.BytesToAddress([]byte("next"))

	assert.ErrorIs(t, f.svc.SetOwner(f.pool, holder, next), reverts.ErrInvalidOwner)
	assert.ErrorIs(t, f.svc.SetOwner(f.pool, owner, thor.Address{}), reverts.ErrInvalidInputValue)
	require.NoError(t, f.svc.SetOwner(f.pool, owner, next))

	assert.ErrorIs(t, f.svc.ReclaimMintAuthority(f.pool, owner, minter), reverts.ErrInvalidOwner)
	require.NoError(t, f.svc.ReclaimMintAuthority(f.pool, next, minter))

	m, err := f.ledger.GetMint(entitlement)
	require.NoError(t, err)
	assert.Equal(t, minter, m.Authority)

	// the pool can no longer mint
	require.NoError(t, f.svc.Deposit(startsAt-1, f.pool, holder, f.source, 2100))
	_, err = f.svc.Claim(startsAt+day, f.pool, holder, f.dest)
	assert.ErrorIs(t, err, reverts.ErrInvalidAuthority)
}

func TestVest(t *testing.T) {
	f := newFixture(t, defaultParams())

	_, err := f.svc.Vest(startsAt, f.pool, holder, f.source, 10, 31_536_000)
	assert.ErrorIs(t, err, reverts.ErrNotClaimable)
	_, err = f.svc.Vest(startsAt+1, f.pool, holder, f.source, 10, 1000)
	assert.ErrorIs(t, err, reverts.ErrInvalidParams)

	minted, err := f.svc.Vest(startsAt+1, f.pool, holder, f.source, 10, 31_536_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), minted)

	pool, _ := f.svc.GetPool(f.pool)
	bal, _ := f.ledger.Balance(VaultAddress(pool, f.pool))
	assert.Equal(t, uint64(100), bal)
}

func TestConversionRatio(t *testing.T) {
	tests := []struct {
		duration uint64
		ratio    uint64
	}{
		{7_689_600, 2},
		{7_948_800, 2},
		{15_638_400, 5},
		{15_897_600, 5},
		{31_536_000, 10},
		{31_622_400, 10},
	}
	for _, tt := range tests {
		r, err := ConversionRatio(tt.duration)
		require.NoError(t, err)
		assert.Equal(t, tt.ratio, r)
	}
	for _, d := range []uint64{0, 7_689_599, 7_948_801, 31_622_401} {
		_, err := ConversionRatio(d)
		assert.ErrorIs(t, err, reverts.ErrInvalidParams)
	}
}
