// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lockvest/engine"
	"github.com/vechain/lockvest/locker"
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/thor"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// dumpLocker writes the locker, the escrow of owner or one of its receipts.
func dumpLocker(w io.Writer, e *engine.Engine, pool thor.Address, owner *thor.Address, receipt int64) error {
	return e.View(func(now uint64) error {
		if owner == nil {
			p, err := e.Locker().GetPool(pool)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("no locker at %v", pool)
			}
			dumper.Fdump(w, p)
			return nil
		}
		if receipt >= 0 {
			r, err := e.Locker().Receipts().Get(locker.EscrowAddress(pool, *owner), uint64(receipt))
			if err != nil {
				return err
			}
			if r == nil {
				return fmt.Errorf("no receipt %d in escrow of %v", receipt, *owner)
			}
			due, err := r.Due(now)
			if err != nil {
				return err
			}
			dumper.Fdump(w, r)
			fmt.Fprintf(w, "due at %d: %d\n", now, due)
			return nil
		}
		pos, err := e.Locker().GetPosition(pool, *owner)
		if err != nil {
			return err
		}
		if pos == nil {
			return fmt.Errorf("no escrow of %v", *owner)
		}
		power, err := e.Locker().VotingPower(now, pool, *owner)
		if err != nil {
			return err
		}
		dumper.Fdump(w, pos)
		fmt.Fprintf(w, "voting power at %d: %d\n", now, power)
		return nil
	})
}

// dumpStakePool writes the pool or the position of holder.
func dumpStakePool(w io.Writer, e *engine.Engine, pool thor.Address, holder *thor.Address) error {
	return e.View(func(now uint64) error {
		if holder == nil {
			p, err := e.StakePool().GetPool(pool)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("no stake pool at %v", pool)
			}
			dumper.Fdump(w, p)
			return nil
		}
		pos, err := e.StakePool().GetPosition(pool, *holder)
		if err != nil {
			return err
		}
		if pos == nil {
			return fmt.Errorf("no position of %v", *holder)
		}
		claimable, periods, err := e.StakePool().Claimable(now, pool, *holder)
		if err != nil && !errors.Is(err, reverts.ErrNotClaimable) {
			return err
		}
		dumper.Fdump(w, pos)
		fmt.Fprintf(w, "claimable at %d: %d over %d periods\n", now, claimable, periods)
		return nil
	})
}

func optionalOwner(ctx *cli.Context) (*thor.Address, error) {
	s := ctx.String(ownerFlag.Name)
	if s == "" {
		return nil, nil
	}
	addr, err := parseIdentity(s)
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func inspectGenesisAction(ctx *cli.Context) error {
	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	res, err := inst.mustInitialized()
	if err != nil {
		return err
	}
	dumper.Fdump(os.Stdout, res)
	return nil
}

func inspectLockerAction(ctx *cli.Context) error {
	if ctx.String(poolFlag.Name) == "" {
		return errors.New("missing -" + poolFlag.Name)
	}
	pool, err := parseLocker(ctx.String(poolFlag.Name))
	if err != nil {
		return err
	}
	owner, err := optionalOwner(ctx)
	if err != nil {
		return err
	}
	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	return dumpLocker(os.Stdout, inst.engine, pool, owner, ctx.Int64(receiptFlag.Name))
}

func inspectStakePoolAction(ctx *cli.Context) error {
	pool, err := parseIdentity(ctx.String(poolFlag.Name))
	if err != nil {
		return err
	}
	holder, err := optionalOwner(ctx)
	if err != nil {
		return err
	}
	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	return dumpStakePool(os.Stdout, inst.engine, pool, holder)
}
