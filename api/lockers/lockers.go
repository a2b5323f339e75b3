// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lockvest/api/utils"
	"github.com/vechain/lockvest/engine"
	"github.com/vechain/lockvest/locker"
	"github.com/vechain/lockvest/release"
	"github.com/vechain/lockvest/thor"
)

type Params struct {
	MinStakeDuration           uint64 `json:"minStakeDuration"`
	MaxStakeDuration           uint64 `json:"maxStakeDuration"`
	WhitelistEnabled           bool   `json:"whitelistEnabled"`
	Multiplier                 uint8  `json:"multiplier"`
	ProposalActivationMinVotes uint64 `json:"proposalActivationMinVotes"`
	NFTStakeDurationUnit       uint64 `json:"nftStakeDurationUnit"`
	NFTStakeBaseReward         uint64 `json:"nftStakeBaseReward"`
	NFTStakeDurationCount      uint64 `json:"nftStakeDurationCount"`
	NFTRewardHalvingStartsAt   uint64 `json:"nftRewardHalvingStartsAt"`
}

type Pool struct {
	Address      thor.Address `json:"address"`
	Version      uint8        `json:"version"`
	Base         thor.Address `json:"base"`
	TokenMint    thor.Address `json:"tokenMint"`
	Governor     thor.Address `json:"governor"`
	LockedSupply uint64       `json:"lockedSupply"`
	Treasury     thor.Address `json:"treasury"`
	Params       Params       `json:"params"`
}

type Escrow struct {
	Address       thor.Address `json:"address"`
	Owner         thor.Address `json:"owner"`
	Tokens        thor.Address `json:"tokens"`
	Amount        uint64       `json:"amount"`
	LockStartedAt uint64       `json:"lockStartedAt"`
	LockEndsAt    uint64       `json:"lockEndsAt"`
	VoteDelegate  thor.Address `json:"voteDelegate"`
	ReceiptCount  uint64       `json:"receiptCount"`
	ReceiptSeq    uint64       `json:"receiptSeq"`
	VotingPower   uint64       `json:"votingPower"`
	At            uint64       `json:"at"`
}

type Receipt struct {
	ID            uint64 `json:"id"`
	VestStartedAt uint64 `json:"vestStartedAt"`
	VestEndsAt    uint64 `json:"vestEndsAt"`
	ClaimedAmount uint64 `json:"claimedAmount"`
	MaxReward     uint64 `json:"maxReward"`
	Due           uint64 `json:"due"`
	At            uint64 `json:"at"`
}

type Lockers struct {
	engine *engine.Engine
}

func New(e *engine.Engine) *Lockers {
	return &Lockers{e}
}

func convertParams(p locker.Params) Params {
	return Params{
		MinStakeDuration:           p.MinStakeDuration,
		MaxStakeDuration:           p.MaxStakeDuration,
		WhitelistEnabled:           p.WhitelistEnabled,
		Multiplier:                 p.Multiplier,
		ProposalActivationMinVotes: p.ProposalActivationMinVotes,
		NFTStakeDurationUnit:       p.NFTStakeDurationUnit,
		NFTStakeBaseReward:         p.NFTStakeBaseReward,
		NFTStakeDurationCount:      p.NFTStakeDurationCount,
		NFTRewardHalvingStartsAt:   p.NFTRewardHalvingStartsAt,
	}
}

func (l *Lockers) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "pool")
	if err != nil {
		return err
	}
	var res *Pool
	err = l.engine.View(func(uint64) error {
		p, err := l.engine.Locker().GetPool(addr)
		if err != nil || p == nil {
			return err
		}
		res = &Pool{
			Address:      addr,
			Version:      p.Version,
			Base:         p.Base,
			TokenMint:    p.TokenMint,
			Governor:     p.Governor,
			LockedSupply: p.LockedSupply,
			Treasury:     locker.TreasuryAddress(addr, p.TokenMint),
			Params:       convertParams(p.Params),
		}
		return nil
	})
	if err != nil {
		return err
	}
	if res == nil {
		return utils.NotFound(errors.New("locker not found"))
	}
	return utils.WriteJSON(w, res)
}

func (l *Lockers) handleGetEscrow(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "pool")
	if err != nil {
		return err
	}
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	var res *Escrow
	err = l.engine.View(func(now uint64) error {
		pos, err := l.engine.Locker().GetPosition(addr, owner)
		if err != nil || pos == nil {
			return err
		}
		power, err := l.engine.Locker().VotingPower(now, addr, owner)
		if err != nil {
			return err
		}
		res = &Escrow{
			Address:       locker.EscrowAddress(addr, owner),
			Owner:         owner,
			Tokens:        pos.Tokens,
			Amount:        pos.Amount,
			LockStartedAt: pos.LockStartedAt,
			LockEndsAt:    pos.LockEndsAt,
			VoteDelegate:  pos.VoteDelegate,
			ReceiptCount:  pos.ReceiptCount,
			ReceiptSeq:    pos.ReceiptSeq,
			VotingPower:   power,
			At:            now,
		}
		return nil
	})
	if err != nil {
		return err
	}
	if res == nil {
		return utils.NotFound(errors.New("escrow not found"))
	}
	return utils.WriteJSON(w, res)
}

func (l *Lockers) handleGetReceipt(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "pool")
	if err != nil {
		return err
	}
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var res *Receipt
	err = l.engine.View(func(now uint64) error {
		r, err := l.engine.Locker().Receipts().Get(locker.EscrowAddress(addr, owner), id)
		if err != nil || r == nil {
			return err
		}
		due, err := r.Due(now)
		if err != nil {
			return err
		}
		maxReward, err := release.MaxHalvingReward(r.Curve)
		if err != nil {
			return err
		}
		res = &Receipt{
			ID:            r.ID,
			VestStartedAt: r.VestStartedAt,
			VestEndsAt:    r.VestEndsAt,
			ClaimedAmount: r.ClaimedAmount,
			MaxReward:     maxReward,
			Due:           due,
			At:            now,
		}
		return nil
	})
	if err != nil {
		return err
	}
	if res == nil {
		return utils.NotFound(errors.New("receipt not found"))
	}
	return utils.WriteJSON(w, res)
}

func (l *Lockers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{pool}").
		Methods(http.MethodGet).
		Name("GET /lockers/{pool}").
		HandlerFunc(utils.WrapHandlerFunc(l.handleGetPool))
	sub.Path("/{pool}/escrows/{owner}").
		Methods(http.MethodGet).
		Name("GET /lockers/{pool}/escrows/{owner}").
		HandlerFunc(utils.WrapHandlerFunc(l.handleGetEscrow))
	sub.Path("/{pool}/escrows/{owner}/receipts/{id}").
		Methods(http.MethodGet).
		Name("GET /lockers/{pool}/escrows/{owner}/receipts/{id}").
		HandlerFunc(utils.WrapHandlerFunc(l.handleGetReceipt))
}
