// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locker

import (
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/thor"
)

func (l *Locker) checkGovernor(p *Pool, gov Governor, proposal thor.Bytes32) error {
	if gov.Address() != p.Governor {
		return reverts.ErrGovernorMismatch
	}
	owner, err := gov.ProposalGovernor(proposal)
	if err != nil {
		return err
	}
	if owner != p.Governor {
		return reverts.ErrGovernorMismatch
	}
	return nil
}

// ActivateProposal activates a draft proposal when the escrow holds enough voting power.
func (l *Locker) ActivateProposal(now uint64, pool, owner thor.Address, gov Governor, proposal thor.Bytes32) error {
	p, err := l.mustPool(pool)
	if err != nil {
		return err
	}
	if err := l.checkGovernor(p, gov, proposal); err != nil {
		return err
	}
	power, err := l.VotingPower(now, pool, owner)
	if err != nil {
		return err
	}
	if power < p.Params.ProposalActivationMinVotes {
		return reverts.ErrInsufficientVotingPower
	}
	return gov.ActivateProposal(proposal, pool)
}

// CastVote hands the voting power of the escrow to the governor and returns it.
// An escrow without power casts nothing.
func (l *Locker) CastVote(now uint64, pool, owner thor.Address, gov Governor, ballot Ballot) (uint64, error) {
	p, err := l.mustPool(pool)
	if err != nil {
		return 0, err
	}
	pos, err := l.mustPosition(pool, owner)
	if err != nil {
		return 0, err
	}
	if pos.VoteDelegate != ballot.Delegate {
		return 0, reverts.ErrInvalidVoteDelegate
	}
	if ballot.Voter != pos.Owner {
		return 0, reverts.ErrVoterMismatch
	}
	if err := l.checkGovernor(p, gov, ballot.Proposal); err != nil {
		return 0, err
	}
	state, err := gov.ProposalState(ballot.Proposal)
	if err != nil {
		return 0, err
	}
	if state != ProposalActive {
		return 0, reverts.ErrProposalMustBeActive
	}

	power, err := l.VotingPower(now, pool, owner)
	if err != nil || power == 0 {
		return 0, err
	}
	if err := gov.SetVote(ballot.Proposal, pos.Owner, ballot.Side, power); err != nil {
		return 0, err
	}
	logger.Debug("vote cast", "locker", pool, "owner", owner, "side", ballot.Side, "weight", power)
	return power, nil
}
