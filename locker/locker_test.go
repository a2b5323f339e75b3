// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locker

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockvest/custody"
	"github.com/vechain/lockvest/locker/admission"
	"github.com/vechain/lockvest/lvldb"
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/store"
	"github.com/vechain/lockvest/thor"
)

const (
	T       = uint64(1_700_000_000)
	day     = uint64(86_400)
	maxLock = uint64(31_536_000)
)

var (
	honey    = thor.BytesToAddress([]byte("honey"))
	nftMint  = thor.BytesToAddress([]byte("nft"))
	minter   = thor.BytesToAddress([]byte("minter"))
	base     = thor.BytesToAddress([]byte("base"))
	governor = thor.BytesToAddress([]byte("governor"))
	alice    = thor.BytesToAddress([]byte("alice"))
	bob      = thor.BytesToAddress([]byte("bob"))
	program  = thor.BytesToAddress([]byte("program"))
)

func defaultParams() Params {
	return Params{
		MinStakeDuration:           day,
		MaxStakeDuration:           maxLock,
		Multiplier:                 10,
		ProposalActivationMinVotes: 1000,
		NFTParams: NFTParams{
			NFTStakeDurationUnit:     day,
			NFTStakeBaseReward:       100,
			NFTStakeDurationCount:    10,
			NFTRewardHalvingStartsAt: 2,
		},
	}
}

type fixture struct {
	store  *store.Store
	ledger *custody.Ledger
	locker *Locker
	pool   thor.Address
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s, err := store.New(db, 0)
	require.NoError(t, err)

	ledger := custody.New(s)
	require.NoError(t, ledger.CreateMint(honey, minter, 6))
	require.NoError(t, ledger.CreateMint(nftMint, minter, 0))

	l := New(s, ledger)
	pool, err := l.InitLocker(base, honey, governor, defaultParams())
	require.NoError(t, err)
	treasury, err := l.InitTreasury(pool, governor)
	require.NoError(t, err)
	require.NoError(t, ledger.MintTo(honey, treasury, minter, 1_000_000_000))

	return &fixture{store: s, ledger: ledger, locker: l, pool: pool}
}

// wallet opens the escrow of owner and funds a honey account for it.
func (f *fixture) wallet(t *testing.T, owner thor.Address, amount uint64) thor.Address {
	_, err := f.locker.InitPosition(f.pool, owner)
	require.NoError(t, err)
	acc, err := f.ledger.EnsureAccount(owner, honey)
	require.NoError(t, err)
	require.NoError(t, f.ledger.MintTo(honey, acc, minter, amount))
	return acc
}

func (f *fixture) nft(t *testing.T, owner thor.Address) thor.Address {
	acc, err := f.ledger.EnsureAccount(owner, nftMint)
	require.NoError(t, err)
	require.NoError(t, f.ledger.MintTo(nftMint, acc, minter, 1))
	return acc
}

func (f *fixture) position(t *testing.T, owner thor.Address) *Position {
	pos, err := f.locker.GetPosition(f.pool, owner)
	require.NoError(t, err)
	require.NotNil(t, pos)
	return pos
}

func (f *fixture) supply(t *testing.T) uint64 {
	p, err := f.locker.GetPool(f.pool)
	require.NoError(t, err)
	return p.LockedSupply
}

func TestInitLocker(t *testing.T) {
	f := newFixture(t)

	p, err := f.locker.GetPool(f.pool)
	require.NoError(t, err)
	assert.Equal(t, Version, p.Version)
	assert.Equal(t, defaultParams(), p.Params)

	_, err = f.locker.InitLocker(base, honey, governor, defaultParams())
	assert.ErrorIs(t, err, reverts.ErrAlreadyExists)

	bad := defaultParams()
	bad.MinStakeDuration = maxLock + 1
	_, err = f.locker.InitLocker(alice, honey, governor, bad)
	assert.ErrorIs(t, err, reverts.ErrInvalidParams)

	bad = defaultParams()
	bad.NFTStakeDurationCount = 1000
	_, err = f.locker.InitLocker(alice, honey, governor, bad)
	assert.ErrorIs(t, err, reverts.ErrInvalidParams)

	_, err = f.locker.InitLocker(alice, thor.Address{7}, governor, defaultParams())
	assert.ErrorIs(t, err, reverts.ErrInvalidToken)

	escrow, err := f.locker.InitPosition(f.pool, alice)
	require.NoError(t, err)
	assert.Equal(t, EscrowAddress(f.pool, alice), escrow)
	pos := f.position(t, alice)
	assert.Equal(t, alice, pos.VoteDelegate)
	assert.Equal(t, custody.AccountAddress(escrow, honey), pos.Tokens)

	_, err = f.locker.InitPosition(f.pool, alice)
	assert.ErrorIs(t, err, reverts.ErrAlreadyExists)
	_, err = f.locker.InitPosition(thor.Address{1}, alice)
	assert.ErrorIs(t, err, reverts.ErrUninitialized)
}

func TestVotingPower_HalfMaxDuration(t *testing.T) {
	f := newFixture(t)
	src := f.wallet(t, alice, 10_000)

	require.NoError(t, f.locker.Lock(T, f.pool, alice, ProgramID, src, alice, 1000, 15_768_000))
	assert.Equal(t, uint64(1000), f.supply(t))

	for _, now := range []uint64{T, T + 1, T + 7_000_000, T + 15_767_999} {
		power, err := f.locker.VotingPower(now, f.pool, alice)
		require.NoError(t, err)
		assert.Equal(t, uint64(5000), power, "at %d", now)
	}
	for _, now := range []uint64{T - 1, T + 15_768_000, T + maxLock} {
		power, err := f.locker.VotingPower(now, f.pool, alice)
		require.NoError(t, err)
		assert.Zero(t, power, "at %d", now)
	}
}

func TestVotingPower_Capped(t *testing.T) {
	f := newFixture(t)
	src := f.wallet(t, alice, 10_000)

	require.NoError(t, f.locker.Lock(T, f.pool, alice, ProgramID, src, alice, 1000, maxLock))
	power, err := f.locker.VotingPower(T+1, f.pool, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), power)
}

func TestLock_Refresh(t *testing.T) {
	f := newFixture(t)
	src := f.wallet(t, alice, 10_000)

	err := f.locker.Lock(T, f.pool, alice, ProgramID, src, alice, 0, day)
	assert.ErrorIs(t, err, reverts.ErrInvalidInputValue)

	require.NoError(t, f.locker.Lock(T, f.pool, alice, ProgramID, src, alice, 1000, 100*day))

	err = f.locker.Lock(T+10, f.pool, alice, ProgramID, src, alice, 0, 10*day)
	assert.ErrorIs(t, err, reverts.ErrRefreshCannotShorten)
	err = f.locker.Lock(T+10, f.pool, alice, ProgramID, src, alice, 500, 10*day)
	assert.ErrorIs(t, err, reverts.ErrRefreshCannotShorten)

	assert.ErrorIs(t, f.locker.Lock(T+10, f.pool, alice, ProgramID, src, alice, 0, day-1), reverts.ErrLockupDurationTooShort)
	assert.ErrorIs(t, f.locker.Lock(T+10, f.pool, alice, ProgramID, src, alice, 0, maxLock+1), reverts.ErrLockupDurationTooLong)

	require.NoError(t, f.locker.Lock(T+10, f.pool, alice, ProgramID, thor.Address{}, alice, 0, 100*day))
	pos := f.position(t, alice)
	assert.Equal(t, uint64(1000), pos.Amount)
	assert.Equal(t, T+10, pos.LockStartedAt)
	assert.Equal(t, T+10+100*day, pos.LockEndsAt)

	require.NoError(t, f.locker.Lock(T+20, f.pool, alice, ProgramID, src, alice, 500, 200*day))
	pos = f.position(t, alice)
	assert.Equal(t, uint64(1500), pos.Amount)
	assert.Equal(t, uint64(1500), f.supply(t))
	bal, _ := f.ledger.Balance(pos.Tokens)
	assert.Equal(t, uint64(1500), bal)
}

func TestLock_SourceChecks(t *testing.T) {
	f := newFixture(t)
	src := f.wallet(t, alice, 10_000)
	pos := f.position(t, alice)
	nftAcc := f.nft(t, alice)

	assert.ErrorIs(t, f.locker.Lock(T, f.pool, alice, ProgramID, pos.Tokens, alice, 1, day), reverts.ErrInvalidToken)
	assert.ErrorIs(t, f.locker.Lock(T, f.pool, alice, ProgramID, nftAcc, alice, 1, day), reverts.ErrInvalidLockerMint)
	assert.ErrorIs(t, f.locker.Lock(T, f.pool, alice, ProgramID, src, bob, 1, day), reverts.ErrInvalidOwner)
	assert.ErrorIs(t, f.locker.Lock(T, f.pool, alice, ProgramID, src, alice, 10_001, day), reverts.ErrInsufficientFunds)
	assert.ErrorIs(t, f.locker.Lock(T, f.pool, bob, ProgramID, src, alice, 1, day), reverts.ErrNotFound)
}

func TestLock_Whitelist(t *testing.T) {
	f := newFixture(t)
	src := f.wallet(t, alice, 10_000)
	bobSrc := f.wallet(t, bob, 10_000)

	params := defaultParams()
	params.WhitelistEnabled = true
	assert.ErrorIs(t, f.locker.SetParams(f.pool, alice, params), reverts.ErrGovernorMismatch)
	require.NoError(t, f.locker.SetParams(f.pool, governor, params))

	assert.ErrorIs(t, f.locker.Lock(T, f.pool, alice, program, src, alice, 10, day), reverts.ErrProgramNotWhitelisted)
	require.NoError(t, f.locker.Lock(T, f.pool, alice, ProgramID, src, alice, 10, day))

	assert.ErrorIs(t, f.locker.ApproveProgram(f.pool, alice, program, alice), reverts.ErrGovernorMismatch)
	require.NoError(t, f.locker.ApproveProgram(f.pool, governor, program, alice))

	require.NoError(t, f.locker.Lock(T, f.pool, alice, program, src, alice, 10, day))
	assert.ErrorIs(t, f.locker.Lock(T, f.pool, bob, program, bobSrc, bob, 10, day), reverts.ErrEscrowOwnerNotWhitelisted)

	require.NoError(t, f.locker.RevokeProgram(f.pool, governor, program, alice))
	assert.ErrorIs(t, f.locker.Lock(T, f.pool, alice, program, src, alice, 10, day), reverts.ErrProgramNotWhitelisted)
}

func TestExitAndClose(t *testing.T) {
	f := newFixture(t)
	src := f.wallet(t, alice, 10_000)

	require.NoError(t, f.locker.Lock(T, f.pool, alice, ProgramID, src, alice, 1000, 10*day))
	pos := f.position(t, alice)

	_, err := f.locker.Exit(T+10*day, f.pool, alice, src)
	assert.ErrorIs(t, err, reverts.ErrEscrowNotEnded)
	assert.ErrorIs(t, f.locker.ClosePosition(T+10*day+1, f.pool, alice), reverts.ErrEscrowInUse)
	_, err = f.locker.Exit(T+10*day+1, f.pool, alice, pos.Tokens)
	assert.ErrorIs(t, err, reverts.ErrInvalidToken)

	released, err := f.locker.Exit(T+10*day+1, f.pool, alice, src)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), released)
	assert.Zero(t, f.supply(t))

	pos = f.position(t, alice)
	assert.Zero(t, pos.Amount)
	assert.Zero(t, pos.LockStartedAt)
	assert.Zero(t, pos.LockEndsAt)
	bal, _ := f.ledger.Balance(src)
	assert.Equal(t, uint64(10_000), bal)

	_, err = f.locker.Exit(T+10*day+2, f.pool, alice, src)
	assert.ErrorIs(t, err, reverts.ErrEscrowNoBalance)

	require.NoError(t, f.locker.ClosePosition(T+10*day+2, f.pool, alice))
	pos, err = f.locker.GetPosition(f.pool, alice)
	require.NoError(t, err)
	assert.Nil(t, pos)
	acc, err := f.ledger.GetAccount(custody.AccountAddress(EscrowAddress(f.pool, alice), honey))
	require.NoError(t, err)
	assert.Nil(t, acc)
}

func TestSetVoteDelegate(t *testing.T) {
	f := newFixture(t)
	f.wallet(t, alice, 0)

	assert.ErrorIs(t, f.locker.SetVoteDelegate(f.pool, alice, thor.Address{}), reverts.ErrInvalidInputValue)
	assert.ErrorIs(t, f.locker.SetVoteDelegate(f.pool, bob, alice), reverts.ErrNotFound)
	require.NoError(t, f.locker.SetVoteDelegate(f.pool, alice, bob))
	assert.Equal(t, bob, f.position(t, alice).VoteDelegate)
}

func TestLockNFT_Lifecycle(t *testing.T) {
	f := newFixture(t)
	src := f.wallet(t, alice, 0)
	nftAcc := f.nft(t, alice)
	full := 10 * day

	_, err := f.locker.LockNFT(T, f.pool, alice, nftMint, nftAcc, full)
	assert.ErrorIs(t, err, reverts.ErrInvalidProof)

	assert.ErrorIs(t, f.locker.AddProof(f.pool, alice, nftMint, admission.ProofMint), reverts.ErrGovernorMismatch)
	require.NoError(t, f.locker.AddProof(f.pool, governor, nftMint, admission.ProofMint))

	_, err = f.locker.LockNFT(T, f.pool, alice, nftMint, nftAcc, full-1)
	assert.ErrorIs(t, err, reverts.ErrLockupDurationTooShort)

	id, err := f.locker.LockNFT(T, f.pool, alice, nftMint, nftAcc, full)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)

	// 100 + 100 + 50 + 25 + 12 + 6 + 3 + 1
	const maxReward = 297
	pos := f.position(t, alice)
	assert.Equal(t, uint64(maxReward), pos.Amount)
	assert.Equal(t, uint64(1), pos.ReceiptCount)
	assert.Equal(t, uint64(1), pos.ReceiptSeq)
	assert.Equal(t, T+full, pos.LockEndsAt)
	assert.Equal(t, uint64(maxReward), f.supply(t))

	nftBal, _ := f.ledger.Balance(nftAcc)
	assert.Zero(t, nftBal)
	treasuryBal, _ := f.ledger.Balance(TreasuryAddress(f.pool, honey))
	assert.Equal(t, uint64(1_000_000_000-maxReward), treasuryBal)

	_, err = f.locker.ClaimReceipt(T+day-1, f.pool, alice, 0, src)
	assert.ErrorIs(t, err, reverts.ErrClaimError)
	_, err = f.locker.ClaimReceipt(T+day, f.pool, alice, 1, src)
	assert.ErrorIs(t, err, reverts.ErrInvariantViolated)

	due, err := f.locker.ClaimReceipt(T+3*day, f.pool, alice, 0, src)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), due)
	assert.Equal(t, uint64(47), f.position(t, alice).Amount)
	assert.Equal(t, uint64(47), f.supply(t))

	// everything left is held back by the receipt
	_, err = f.locker.Exit(T+full+1, f.pool, alice, src)
	assert.ErrorIs(t, err, reverts.ErrEscrowNoBalance)
	assert.ErrorIs(t, f.locker.CloseReceipt(T+full+1, f.pool, alice, 0), reverts.ErrCloseNonZeroReceipt)

	due, err = f.locker.ClaimReceipt(T+full+1, f.pool, alice, 0, src)
	require.NoError(t, err)
	assert.Equal(t, uint64(47), due)

	pos = f.position(t, alice)
	assert.Zero(t, pos.Amount)
	assert.Zero(t, pos.LockEndsAt)
	assert.Zero(t, f.supply(t))
	bal, _ := f.ledger.Balance(src)
	assert.Equal(t, uint64(maxReward), bal)

	assert.ErrorIs(t, f.locker.ClosePosition(T+full+2, f.pool, alice), reverts.ErrEscrowInUse)
	require.NoError(t, f.locker.CloseReceipt(T+full+2, f.pool, alice, 0))
	assert.Zero(t, f.position(t, alice).ReceiptCount)
	require.NoError(t, f.locker.ClosePosition(T+full+2, f.pool, alice))
}

func TestLockNFT_ExitLeavesReceiptReward(t *testing.T) {
	f := newFixture(t)
	src := f.wallet(t, alice, 10_000)
	nftAcc := f.nft(t, alice)
	require.NoError(t, f.locker.AddProof(f.pool, governor, nftMint, admission.ProofMint))

	require.NoError(t, f.locker.Lock(T, f.pool, alice, ProgramID, src, alice, 1000, 5*day))
	_, err := f.locker.LockNFT(T+1, f.pool, alice, nftMint, nftAcc, 10*day)
	require.NoError(t, err)

	released, err := f.locker.Exit(T+1+10*day+1, f.pool, alice, src)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), released)
	assert.Equal(t, uint64(297), f.position(t, alice).Amount)
	assert.Equal(t, uint64(297), f.supply(t))
}

func TestLockNFT_BeyondMaxStakeDuration(t *testing.T) {
	f := newFixture(t)
	f.wallet(t, alice, 0)
	nftAcc := f.nft(t, alice)
	require.NoError(t, f.locker.AddProof(f.pool, governor, nftMint, admission.ProofMint))

	_, err := f.locker.LockNFT(T, f.pool, alice, nftMint, nftAcc, maxLock+day)
	require.NoError(t, err)

	pos := f.position(t, alice)
	assert.Equal(t, T+maxLock+day, pos.LockEndsAt)
	assert.Equal(t, uint64(297), pos.Amount)

	// weight stays capped at amount x multiplier
	power, err := f.locker.VotingPower(T+1, f.pool, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(2970), power)
}

func TestLockNFT_CreatorProof(t *testing.T) {
	f := newFixture(t)
	f.wallet(t, alice, 0)
	nftAcc := f.nft(t, alice)
	artist := thor.BytesToAddress([]byte("artist"))

	require.NoError(t, f.locker.Admission().RegisterInstrument(nftMint, minter, []thor.Address{artist}))
	require.NoError(t, f.locker.Admission().VerifyCreator(nftMint, artist))
	require.NoError(t, f.locker.AddProof(f.pool, governor, artist, admission.ProofCreator))

	_, err := f.locker.LockNFT(T, f.pool, alice, nftMint, nftAcc, 10*day)
	require.NoError(t, err)

	require.NoError(t, f.locker.RemoveProof(f.pool, governor, artist))
	nftAcc = f.nft(t, alice)
	_, err = f.locker.LockNFT(T, f.pool, alice, nftMint, nftAcc, 10*day)
	assert.ErrorIs(t, err, reverts.ErrInvalidProof)
}

func TestMigration(t *testing.T) {
	f := newFixture(t)
	admin := thor.BytesToAddress([]byte("admin"))
	oldBase := thor.BytesToAddress([]byte("old-base"))
	newBase := thor.BytesToAddress([]byte("new-base"))
	v1 := ParamsV1{MinStakeDuration: day, MaxStakeDuration: maxLock, WhitelistEnabled: true, Multiplier: 5}

	oldPool, err := f.locker.RestoreV1(oldBase, honey, admin, v1)
	require.NoError(t, err)
	src, err := f.ledger.EnsureAccount(alice, honey)
	require.NoError(t, err)
	require.NoError(t, f.ledger.MintTo(honey, src, minter, 1000))
	require.NoError(t, f.locker.RestorePositionV1(oldPool, alice, src, alice, 600, T, T+100*day))
	require.NoError(t, f.locker.Admission().ApproveProgram(oldPool, program, thor.Address{}))

	upgrade := Upgrade{ProposalActivationMinVotes: 42, NFT: defaultParams().NFTParams}
	_, err = f.locker.MigrateLocker(oldBase, newBase, alice, governor, upgrade)
	assert.ErrorIs(t, err, reverts.ErrInvalidAuthority)

	newPool, err := f.locker.MigrateLocker(oldBase, newBase, admin, admin, upgrade)
	require.NoError(t, err)
	p, err := f.locker.GetPool(newPool)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), p.LockedSupply)
	assert.Equal(t, Params{
		MinStakeDuration:           day,
		MaxStakeDuration:           maxLock,
		WhitelistEnabled:           true,
		Multiplier:                 5,
		ProposalActivationMinVotes: 42,
		NFTParams:                  defaultParams().NFTParams,
	}, p.Params)

	require.NoError(t, f.locker.MigratePosition(oldPool, newPool, admin, alice))
	pos, err := f.locker.GetPosition(newPool, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), pos.Amount)
	assert.Equal(t, T+100*day, pos.LockEndsAt)
	assert.Equal(t, alice, pos.VoteDelegate)
	bal, _ := f.ledger.Balance(pos.Tokens)
	assert.Equal(t, uint64(600), bal)

	old, err := f.locker.GetPositionV1(oldPool, alice)
	require.NoError(t, err)
	assert.Nil(t, old)
	oldP, err := f.locker.GetPoolV1(oldPool)
	require.NoError(t, err)
	assert.Zero(t, oldP.LockedSupply)

	assert.ErrorIs(t, f.locker.MigratePosition(oldPool, newPool, admin, alice), reverts.ErrNotFound)

	require.NoError(t, f.locker.MigrateWhitelist(oldPool, newPool, admin, program, thor.Address{}))
	assert.True(t, f.locker.Admission().IsAdmitted(newPool, program, bob))
	assert.ErrorIs(t, f.locker.MigrateWhitelist(oldPool, newPool, admin, program, alice), reverts.ErrNotFound)
}

func TestParamsMigrate(t *testing.T) {
	v1 := ParamsV1{MinStakeDuration: 1, MaxStakeDuration: 2, WhitelistEnabled: true, Multiplier: 3}
	v2 := v1.Migrate(4)
	assert.Equal(t, ParamsV2{MinStakeDuration: 1, MaxStakeDuration: 2, ProposalActivationMinVotes: 4, WhitelistEnabled: true, Multiplier: 3}, v2)

	nft := NFTParams{NFTStakeDurationUnit: 5, NFTStakeBaseReward: 6, NFTStakeDurationCount: 7, NFTRewardHalvingStartsAt: 8}
	v3 := v2.Migrate(nft)
	assert.Equal(t, uint64(1), v3.MinStakeDuration)
	assert.Equal(t, uint64(2), v3.MaxStakeDuration)
	assert.True(t, v3.WhitelistEnabled)
	assert.Equal(t, uint8(3), v3.Multiplier)
	assert.Equal(t, uint64(4), v3.ProposalActivationMinVotes)
	assert.Equal(t, nft, v3.NFTParams)
}

type fakeGovernor struct {
	addr      thor.Address
	states    map[thor.Bytes32]ProposalState
	votes     map[thor.Address]uint64
	activated []thor.Bytes32
}

func newFakeGovernor(addr thor.Address) *fakeGovernor {
	return &fakeGovernor{
		addr:   addr,
		states: make(map[thor.Bytes32]ProposalState),
		votes:  make(map[thor.Address]uint64),
	}
}

func (g *fakeGovernor) Address() thor.Address { return g.addr }

func (g *fakeGovernor) ProposalState(proposal thor.Bytes32) (ProposalState, error) {
	state, ok := g.states[proposal]
	if !ok {
		return 0, errors.New("unknown proposal")
	}
	return state, nil
}

func (g *fakeGovernor) ProposalGovernor(proposal thor.Bytes32) (thor.Address, error) {
	if _, ok := g.states[proposal]; !ok {
		return thor.Address{}, errors.New("unknown proposal")
	}
	return g.addr, nil
}

func (g *fakeGovernor) ActivateProposal(proposal thor.Bytes32, _ thor.Address) error {
	g.states[proposal] = ProposalActive
	g.activated = append(g.activated, proposal)
	return nil
}

func (g *fakeGovernor) SetVote(_ thor.Bytes32, voter thor.Address, _ uint8, weight uint64) error {
	g.votes[voter] = weight
	return nil
}

func TestGovernance(t *testing.T) {
	f := newFixture(t)
	src := f.wallet(t, alice, 10_000)
	f.wallet(t, bob, 0)
	gov := newFakeGovernor(governor)
	proposal := thor.Blake2b([]byte("proposal"))
	gov.states[proposal] = ProposalDraft

	require.NoError(t, f.locker.Lock(T, f.pool, alice, ProgramID, src, alice, 50, maxLock))

	// 50 * 10 < 1000
	assert.ErrorIs(t, f.locker.ActivateProposal(T+1, f.pool, alice, gov, proposal), reverts.ErrInsufficientVotingPower)
	assert.ErrorIs(t, f.locker.ActivateProposal(T+1, f.pool, alice, newFakeGovernor(bob), proposal), reverts.ErrGovernorMismatch)

	ballot := Ballot{Proposal: proposal, Voter: alice, Delegate: alice, Side: 1}
	_, err := f.locker.CastVote(T+1, f.pool, alice, gov, ballot)
	assert.ErrorIs(t, err, reverts.ErrProposalMustBeActive)

	require.NoError(t, f.locker.Lock(T+1, f.pool, alice, ProgramID, src, alice, 50, maxLock))
	require.NoError(t, f.locker.ActivateProposal(T+2, f.pool, alice, gov, proposal))
	assert.Equal(t, []thor.Bytes32{proposal}, gov.activated)

	_, err = f.locker.CastVote(T+2, f.pool, alice, gov, Ballot{Proposal: proposal, Voter: alice, Delegate: bob})
	assert.ErrorIs(t, err, reverts.ErrInvalidVoteDelegate)
	_, err = f.locker.CastVote(T+2, f.pool, alice, gov, Ballot{Proposal: proposal, Voter: bob, Delegate: alice})
	assert.ErrorIs(t, err, reverts.ErrVoterMismatch)

	weight, err := f.locker.CastVote(T+2, f.pool, alice, gov, ballot)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), weight)
	assert.Equal(t, uint64(1000), gov.votes[alice])

	// no power, no vote
	weight, err = f.locker.CastVote(T+2, f.pool, bob, gov, Ballot{Proposal: proposal, Voter: bob, Delegate: bob})
	require.NoError(t, err)
	assert.Zero(t, weight)
	_, voted := gov.votes[bob]
	assert.False(t, voted)
}
