// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/lockvest/custody"
	"github.com/vechain/lockvest/engine"
	"github.com/vechain/lockvest/locker"
	"github.com/vechain/lockvest/log"
	"github.com/vechain/lockvest/stakepool"
	"github.com/vechain/lockvest/thor"
)

var logger = log.WithContext("pkg", "genesis")

// Result lists the addresses created by Apply.
type Result struct {
	Lockers       []thor.Address
	LegacyLockers []thor.Address
	StakePools    []thor.Address
}

// resolver resolves identities and keeps the first failure.
type resolver struct {
	err error
}

func (r *resolver) addr(id Identity) thor.Address {
	if r.err != nil {
		return thor.Address{}
	}
	addr, err := id.Address()
	if err != nil {
		r.err = err
	}
	return addr
}

// Apply creates every record of the config as one operation. Nothing is created when
// any step fails. progress, if not nil, is called after each step.
func (s *Config) Apply(e *engine.Engine, progress func()) (*Result, error) {
	var res *Result
	err := e.Batch("genesis", thor.Address{}, func(now uint64) error {
		res = &Result{}
		a := &applier{
			ledger:      e.Ledger(),
			locker:      e.Locker(),
			stake:       e.StakePool(),
			authorities: make(map[thor.Address]thor.Address),
			progress:    progress,
		}
		return a.apply(s, now, res)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("genesis applied",
		"mints", len(s.Mints),
		"balances", len(s.Balances),
		"lockers", len(res.Lockers),
		"legacyLockers", len(res.LegacyLockers),
		"stakePools", len(res.StakePools),
	)
	return res, nil
}

// Steps returns the number of progress steps Apply reports.
func (s *Config) Steps() int {
	n := len(s.Mints) + len(s.Balances) + len(s.Lockers) + len(s.LegacyLockers) + len(s.StakePools)
	for _, p := range s.LegacyLockers {
		n += len(p.Positions)
	}
	return n
}

type applier struct {
	ledger      *custody.Ledger
	locker      *locker.Locker
	stake       *stakepool.Service
	authorities map[thor.Address]thor.Address
	progress    func()
}

func (a *applier) step() {
	if a.progress != nil {
		a.progress()
	}
}

func (a *applier) fund(owner, mint thor.Address, amount uint64) (thor.Address, error) {
	acc, err := a.ledger.EnsureAccount(owner, mint)
	if err != nil {
		return thor.Address{}, err
	}
	return acc, a.ledger.MintTo(mint, acc, a.authorities[mint], amount)
}

func (a *applier) apply(s *Config, now uint64, res *Result) error {
	var r resolver

	for i, m := range s.Mints {
		mint, authority := r.addr(m.Name), r.addr(m.Authority)
		if r.err != nil {
			return r.err
		}
		if err := a.ledger.CreateMint(mint, authority, m.Decimals); err != nil {
			return errors.Wrapf(err, "mints[%d]", i)
		}
		a.authorities[mint] = authority
		a.step()
	}

	for i, b := range s.Balances {
		owner, mint := r.addr(b.Owner), r.addr(b.Mint)
		if r.err != nil {
			return r.err
		}
		if _, err := a.fund(owner, mint, b.Amount); err != nil {
			return errors.Wrapf(err, "balances[%d]", i)
		}
		a.step()
	}

	for i, l := range s.Lockers {
		addr, err := a.applyLocker(&r, l)
		if err != nil {
			return errors.Wrapf(err, "lockers[%d]", i)
		}
		res.Lockers = append(res.Lockers, addr)
		a.step()
	}

	for i, l := range s.LegacyLockers {
		addr, err := a.applyLegacyLocker(&r, l)
		if err != nil {
			return errors.Wrapf(err, "legacyLockers[%d]", i)
		}
		res.LegacyLockers = append(res.LegacyLockers, addr)
		a.step()
	}

	for i, p := range s.StakePools {
		addr, err := a.applyStakePool(&r, p, now)
		if err != nil {
			return errors.Wrapf(err, "stakePools[%d]", i)
		}
		res.StakePools = append(res.StakePools, addr)
		a.step()
	}
	return nil
}

func (a *applier) applyLocker(r *resolver, l Locker) (thor.Address, error) {
	base, mint, governor := r.addr(l.Base), r.addr(l.Mint), r.addr(l.Governor)
	if r.err != nil {
		return thor.Address{}, r.err
	}
	pool, err := a.locker.InitLocker(base, mint, governor, l.Params.params())
	if err != nil {
		return thor.Address{}, err
	}
	treasury, err := a.locker.InitTreasury(pool, governor)
	if err != nil {
		return thor.Address{}, err
	}
	if err := a.ledger.MintTo(mint, treasury, a.authorities[mint], l.Treasury); err != nil {
		return thor.Address{}, errors.Wrap(err, "fund treasury")
	}
	for _, w := range l.Whitelist {
		program, owner := r.addr(w.Program), r.addr(w.Owner)
		if r.err != nil {
			return thor.Address{}, r.err
		}
		if err := a.locker.ApproveProgram(pool, governor, program, owner); err != nil {
			return thor.Address{}, err
		}
	}
	for _, p := range l.Proofs {
		addr := r.addr(p.Address)
		if r.err != nil {
			return thor.Address{}, r.err
		}
		proofType, err := parseProofType(p.Type)
		if err != nil {
			return thor.Address{}, err
		}
		if err := a.locker.AddProof(pool, governor, addr, proofType); err != nil {
			return thor.Address{}, err
		}
	}
	for _, o := range l.Escrows {
		owner := r.addr(o)
		if r.err != nil {
			return thor.Address{}, r.err
		}
		if _, err := a.locker.InitPosition(pool, owner); err != nil {
			return thor.Address{}, err
		}
	}
	return pool, nil
}

func (a *applier) applyLegacyLocker(r *resolver, l LegacyLocker) (thor.Address, error) {
	base, mint, admin := r.addr(l.Base), r.addr(l.Mint), r.addr(l.Admin)
	if r.err != nil {
		return thor.Address{}, r.err
	}
	pool, err := a.locker.RestoreV1(base, mint, admin, locker.ParamsV1{
		MinStakeDuration: l.Params.MinStakeDuration,
		MaxStakeDuration: l.Params.MaxStakeDuration,
		WhitelistEnabled: l.Params.WhitelistEnabled,
		Multiplier:       l.Params.Multiplier,
	})
	if err != nil {
		return thor.Address{}, err
	}
	for _, p := range l.Positions {
		owner := r.addr(p.Owner)
		if r.err != nil {
			return thor.Address{}, r.err
		}
		if err := a.locker.RestorePositionV1(pool, owner, custody.AccountAddress(owner, mint), owner, p.Amount, p.StartedAt, p.EndsAt); err != nil {
			return thor.Address{}, errors.Wrapf(err, "position of %v", p.Owner)
		}
		a.step()
	}
	for _, w := range l.Whitelist {
		program, owner := r.addr(w.Program), r.addr(w.Owner)
		if r.err != nil {
			return thor.Address{}, r.err
		}
		if err := a.locker.Admission().ApproveProgram(pool, program, owner); err != nil {
			return thor.Address{}, err
		}
	}
	return pool, nil
}

func (a *applier) applyStakePool(r *resolver, p StakePool, now uint64) (thor.Address, error) {
	owner, principal, entitlement := r.addr(p.Owner), r.addr(p.Principal), r.addr(p.Entitlement)
	if r.err != nil {
		return thor.Address{}, r.err
	}
	startsAt := p.StartsAt
	if startsAt == 0 {
		startsAt = now + p.StartsIn
	}
	params := stakepool.Params{
		StartsAt:     startsAt,
		PeriodLength: p.PeriodLength,
		MaxPeriods:   p.MaxPeriods,
	}
	if params.PeriodLength == 0 {
		params.PeriodLength = stakepool.ClaimPeriodUnit
	}
	pool, err := a.stake.Initialize(now, owner, principal, entitlement, params)
	if err != nil {
		return thor.Address{}, err
	}
	for _, h := range p.Holders {
		holder := r.addr(h)
		if r.err != nil {
			return thor.Address{}, r.err
		}
		if err := a.stake.OpenPosition(pool, holder); err != nil {
			return thor.Address{}, err
		}
	}
	if err := a.stake.SetMintAuthority(pool, owner, a.authorities[entitlement]); err != nil {
		return thor.Address{}, errors.Wrap(err, "hand over mint authority")
	}
	a.authorities[entitlement] = stakepool.AuthorityAddress(pool)
	return pool, nil
}
