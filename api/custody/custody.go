// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lockvest/api/utils"
	"github.com/vechain/lockvest/engine"
	"github.com/vechain/lockvest/thor"
)

type Mint struct {
	Address   thor.Address `json:"address"`
	Authority thor.Address `json:"authority"`
	Supply    uint64       `json:"supply"`
	Decimals  uint8        `json:"decimals"`
}

type Account struct {
	Address thor.Address `json:"address"`
	Mint    thor.Address `json:"mint"`
	Owner   thor.Address `json:"owner"`
	Amount  uint64       `json:"amount"`
}

type Custody struct {
	engine *engine.Engine
}

func New(e *engine.Engine) *Custody {
	return &Custody{e}
}

func (c *Custody) handleGetMint(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "mint")
	if err != nil {
		return err
	}
	var res *Mint
	err = c.engine.View(func(uint64) error {
		m, err := c.engine.Ledger().GetMint(addr)
		if err != nil || m == nil {
			return err
		}
		res = &Mint{
			Address:   addr,
			Authority: m.Authority,
			Supply:    m.Supply,
			Decimals:  m.Decimals,
		}
		return nil
	})
	if err != nil {
		return err
	}
	if res == nil {
		return utils.NotFound(errors.New("mint not found"))
	}
	return utils.WriteJSON(w, res)
}

func (c *Custody) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var res *Account
	err = c.engine.View(func(uint64) error {
		acc, err := c.engine.Ledger().GetAccount(addr)
		if err != nil || acc == nil {
			return err
		}
		res = &Account{
			Address: addr,
			Mint:    acc.Mint,
			Owner:   acc.Owner,
			Amount:  acc.Amount,
		}
		return nil
	})
	if err != nil {
		return err
	}
	if res == nil {
		return utils.NotFound(errors.New("account not found"))
	}
	return utils.WriteJSON(w, res)
}

func (c *Custody) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/mints/{mint}").
		Methods(http.MethodGet).
		Name("GET /custody/mints/{mint}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetMint))
	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /custody/accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetAccount))
}
