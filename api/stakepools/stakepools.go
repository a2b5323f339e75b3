// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakepools

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lockvest/api/utils"
	"github.com/vechain/lockvest/engine"
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/stakepool"
	"github.com/vechain/lockvest/thor"
)

type Pool struct {
	Address         thor.Address `json:"address"`
	PrincipalMint   thor.Address `json:"principalMint"`
	EntitlementMint thor.Address `json:"entitlementMint"`
	Owner           thor.Address `json:"owner"`
	Vault           thor.Address `json:"vault"`
	StartsAt        uint64       `json:"startsAt"`
	PeriodLength    uint64       `json:"periodLength"`
	MaxPeriods      uint8        `json:"maxPeriods"`
}

type Position struct {
	Holder          thor.Address `json:"holder"`
	DepositedAmount uint64       `json:"depositedAmount"`
	ClaimedAmount   uint64       `json:"claimedAmount"`
	DepositedAt     uint64       `json:"depositedAt"`
	PeriodsClaimed  uint8        `json:"periodsClaimed"`
	Claimable       uint64       `json:"claimable"`
	At              uint64       `json:"at"`
}

type StakePools struct {
	engine *engine.Engine
}

func New(e *engine.Engine) *StakePools {
	return &StakePools{e}
}

func (s *StakePools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "pool")
	if err != nil {
		return err
	}
	var res *Pool
	err = s.engine.View(func(uint64) error {
		p, err := s.engine.StakePool().GetPool(addr)
		if err != nil || p == nil {
			return err
		}
		res = &Pool{
			Address:         addr,
			PrincipalMint:   p.PrincipalMint,
			EntitlementMint: p.EntitlementMint,
			Owner:           p.Owner,
			Vault:           stakepool.VaultAddress(p, addr),
			StartsAt:        p.Params.StartsAt,
			PeriodLength:    p.Params.PeriodLength,
			MaxPeriods:      p.Params.MaxPeriods,
		}
		return nil
	})
	if err != nil {
		return err
	}
	if res == nil {
		return utils.NotFound(errors.New("stake pool not found"))
	}
	return utils.WriteJSON(w, res)
}

func (s *StakePools) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "pool")
	if err != nil {
		return err
	}
	holder, err := utils.AddressVar(req, "holder")
	if err != nil {
		return err
	}
	var res *Position
	err = s.engine.View(func(now uint64) error {
		pos, err := s.engine.StakePool().GetPosition(addr, holder)
		if err != nil || pos == nil {
			return err
		}
		claimable, _, err := s.engine.StakePool().Claimable(now, addr, holder)
		if err != nil && !errors.Is(err, reverts.ErrNotClaimable) {
			return err
		}
		res = &Position{
			Holder:          holder,
			DepositedAmount: pos.DepositedAmount,
			ClaimedAmount:   pos.ClaimedAmount,
			DepositedAt:     pos.DepositedAt,
			PeriodsClaimed:  pos.PeriodsClaimed,
			Claimable:       claimable,
			At:              now,
		}
		return nil
	})
	if err != nil {
		return err
	}
	if res == nil {
		return utils.NotFound(errors.New("stake position not found"))
	}
	return utils.WriteJSON(w, res)
}

func (s *StakePools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{pool}").
		Methods(http.MethodGet).
		Name("GET /stakepools/{pool}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetPool))
	sub.Path("/{pool}/positions/{holder}").
		Methods(http.MethodGet).
		Name("GET /stakepools/{pool}/positions/{holder}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetPosition))
}
