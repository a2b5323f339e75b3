// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locker

import (
	"github.com/vechain/lockvest/custody"
	"github.com/vechain/lockvest/release"
	"github.com/vechain/lockvest/thor"
)

// Version marks a current schema locker.
const Version uint8 = 3

// ProgramID identifies calls made directly to the locker. They skip the whitelist.
var ProgramID = thor.DeriveAddress("Program", []byte("locker"))

// Pool is a governor controlled locker.
type Pool struct {
	Version      uint8
	Base         thor.Address
	TokenMint    thor.Address
	LockedSupply uint64
	Governor     thor.Address
	Params       Params
}

// PoolV1 is the admin controlled locker schema that predates governance.
type PoolV1 struct {
	Base         thor.Address
	TokenMint    thor.Address
	LockedSupply uint64
	Admin        thor.Address
	Params       ParamsV1
}

// Position is the escrow of one owner in a locker.
type Position struct {
	Pool          thor.Address
	Owner         thor.Address
	Tokens        thor.Address
	Amount        uint64
	LockStartedAt uint64
	LockEndsAt    uint64
	VoteDelegate  thor.Address
	ReceiptCount  uint64
	ReceiptSeq    uint64
}

// PositionV1 is the escrow schema of a v1 locker.
type PositionV1 struct {
	Pool          thor.Address
	Owner         thor.Address
	Tokens        thor.Address
	Amount        uint64
	LockStartedAt uint64
	LockEndsAt    uint64
	VoteDelegate  thor.Address
}

func (p *Position) lock() release.Lock {
	return release.Lock{
		Amount:    p.Amount,
		StartedAt: p.LockStartedAt,
		EndsAt:    p.LockEndsAt,
	}
}

// PoolAddress is the locker created from base.
func PoolAddress(base thor.Address) thor.Address {
	return thor.DeriveAddress("Locker", base.Bytes())
}

// EscrowAddress is the escrow of owner in the locker. It also owns the position's tokens.
func EscrowAddress(pool, owner thor.Address) thor.Address {
	return thor.DeriveAddress("Escrow", pool.Bytes(), owner.Bytes())
}

// TreasuryAddress is the account instrument rewards are paid from.
func TreasuryAddress(pool, mint thor.Address) thor.Address {
	return custody.AccountAddress(pool, mint)
}

// ProposalState is the lifecycle stage of a governance proposal.
type ProposalState uint8

const (
	ProposalDraft ProposalState = iota
	ProposalActive
	ProposalCanceled
	ProposalDefeated
	ProposalSucceeded
	ProposalQueued
)

// Governor receives the voting weight computed by lockers. Tallying is up to the governor.
type Governor interface {
	Address() thor.Address
	ProposalState(proposal thor.Bytes32) (ProposalState, error)
	ProposalGovernor(proposal thor.Bytes32) (thor.Address, error)
	ActivateProposal(proposal thor.Bytes32, electorate thor.Address) error
	SetVote(proposal thor.Bytes32, voter thor.Address, side uint8, weight uint64) error
}

// Ballot is a vote cast on behalf of a position.
type Ballot struct {
	Proposal thor.Bytes32
	Voter    thor.Address
	Delegate thor.Address
	Side     uint8
}
