// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakepool releases an entitlement token against burned principal in equal
// periodic slices.
package stakepool

import (
	"github.com/pkg/errors"

	"github.com/vechain/lockvest/custody"
	"github.com/vechain/lockvest/log"
	"github.com/vechain/lockvest/record"
	"github.com/vechain/lockvest/release"
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/safemath"
	"github.com/vechain/lockvest/store"
	"github.com/vechain/lockvest/thor"
)

var (
	slotPools     = thor.Slot("stake-pools")
	slotPositions = thor.Slot("stake-positions")

	logger = log.WithContext("pkg", "stakepool")
)

// Service manages stake pools and their positions.
type Service struct {
	ledger    *custody.Ledger
	pools     *record.Mapping[thor.Address, Pool]
	positions *record.Mapping[thor.Address, Position]
}

func New(s *store.Store, ledger *custody.Ledger) *Service {
	return &Service{
		ledger:    ledger,
		pools:     record.NewMapping[thor.Address, Pool](s, slotPools),
		positions: record.NewMapping[thor.Address, Position](s, slotPositions),
	}
}

// GetPool returns the pool, or nil if there is none.
func (s *Service) GetPool(addr thor.Address) (*Pool, error) {
	return s.pools.Get(addr)
}

// GetPosition returns the holder's position, or nil if there is none.
func (s *Service) GetPosition(pool, holder thor.Address) (*Position, error) {
	return s.positions.Get(PositionAddress(pool, holder))
}

// VaultAddress is the entitlement account held by the pool authority.
func VaultAddress(pool *Pool, addr thor.Address) thor.Address {
	return custody.AccountAddress(AuthorityAddress(addr), pool.EntitlementMint)
}

func (s *Service) mustPool(addr thor.Address) (*Pool, error) {
	pool, err := s.pools.Get(addr)
	if err != nil {
		return nil, err
	}
	if pool == nil || pool.Version != Version {
		return nil, reverts.ErrUninitialized
	}
	return pool, nil
}

func (s *Service) mustPosition(pool, holder thor.Address) (*Position, error) {
	pos, err := s.positions.Get(PositionAddress(pool, holder))
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, errors.Wrapf(reverts.ErrNotFound, "stake position of %v", holder)
	}
	return pos, nil
}

// Initialize creates the pool of the mint pair with its vault and returns its address.
func (s *Service) Initialize(now uint64, owner, principal, entitlement thor.Address, params Params) (thor.Address, error) {
	if err := params.Validate(now); err != nil {
		return thor.Address{}, err
	}
	if owner.IsZero() || principal == entitlement {
		return thor.Address{}, reverts.ErrInvalidParams
	}
	for _, mint := range []thor.Address{principal, entitlement} {
		m, err := s.ledger.GetMint(mint)
		if err != nil {
			return thor.Address{}, err
		}
		if m == nil {
			return thor.Address{}, errors.Wrapf(reverts.ErrInvalidToken, "unknown mint %v", mint)
		}
	}

	addr := PoolAddress(principal, entitlement)
	pool := &Pool{
		Version:         Version,
		PrincipalMint:   principal,
		EntitlementMint: entitlement,
		Owner:           owner,
		Params:          params,
	}
	if err := s.pools.Insert(addr, pool); err != nil {
		return thor.Address{}, errors.Wrap(err, "initialize stake pool")
	}
	if _, err := s.ledger.EnsureAccount(AuthorityAddress(addr), entitlement); err != nil {
		return thor.Address{}, err
	}
	logger.Debug("stake pool initialized", "pool", addr, "owner", owner, "startsAt", params.StartsAt)
	return addr, nil
}

// OpenPosition creates an empty position for the holder.
func (s *Service) OpenPosition(pool, holder thor.Address) error {
	if _, err := s.mustPool(pool); err != nil {
		return err
	}
	pos := &Position{Pool: pool, Holder: holder}
	if err := s.positions.Insert(PositionAddress(pool, holder), pos); err != nil {
		return errors.Wrap(err, "open stake position")
	}
	return nil
}

// Deposit burns amount of principal from source and restarts the holder's vesting with
// the unclaimed remainder plus amount.
func (s *Service) Deposit(now uint64, addr, holder, source thor.Address, amount uint64) error {
	pool, err := s.mustPool(addr)
	if err != nil {
		return err
	}
	if amount == 0 {
		return reverts.ErrInvalidInputValue
	}
	pos, err := s.mustPosition(addr, holder)
	if err != nil {
		return err
	}
	if err := s.checkSource(source, pool.PrincipalMint, holder, amount); err != nil {
		return err
	}

	remaining, err := safemath.Sub(pos.DepositedAmount, pos.ClaimedAmount)
	if err != nil {
		return err
	}
	if pos.DepositedAmount, err = safemath.Add(remaining, amount); err != nil {
		return err
	}
	pos.ClaimedAmount = 0
	pos.DepositedAt = now
	pos.PeriodsClaimed = 0

	if err := s.ledger.Burn(source, pool.PrincipalMint, holder, amount); err != nil {
		return err
	}
	if err := s.positions.Update(PositionAddress(addr, holder), pos); err != nil {
		return err
	}
	logger.Debug("deposited", "pool", addr, "holder", holder, "amount", amount, "deposited", pos.DepositedAmount)
	return nil
}

func (s *Service) checkSource(source, mint, owner thor.Address, amount uint64) error {
	acc, err := s.ledger.GetAccount(source)
	if err != nil {
		return err
	}
	if acc == nil {
		return errors.Wrapf(reverts.ErrNotFound, "token account %v", source)
	}
	if acc.Mint != mint {
		return reverts.ErrInvalidToken
	}
	if acc.Owner != owner {
		return reverts.ErrInvalidOwner
	}
	if acc.Amount < amount {
		return reverts.ErrInsufficientFunds
	}
	return nil
}

// Claimable previews the next claim of the holder without changing anything.
func (s *Service) Claimable(now uint64, addr, holder thor.Address) (uint64, uint8, error) {
	pool, err := s.mustPool(addr)
	if err != nil {
		return 0, 0, err
	}
	pos, err := s.mustPosition(addr, holder)
	if err != nil {
		return 0, 0, err
	}
	return release.LinearClaim(pos.vesting(), pool.Params.schedule(), now)
}

// Claim mints the payable entitlement of the holder into destination. The position is
// removed once its last period has been paid.
func (s *Service) Claim(now uint64, addr, holder, destination thor.Address) (uint64, error) {
	pool, err := s.mustPool(addr)
	if err != nil {
		return 0, err
	}
	if now <= pool.Params.StartsAt {
		return 0, reverts.ErrNotClaimable
	}
	pos, err := s.mustPosition(addr, holder)
	if err != nil {
		return 0, err
	}

	amount, periods, err := release.LinearClaim(pos.vesting(), pool.Params.schedule(), now)
	if err != nil {
		return 0, err
	}
	if periods == pool.Params.MaxPeriods {
		pos.ClaimedAmount = pos.DepositedAmount
	} else if pos.ClaimedAmount, err = safemath.Add(pos.ClaimedAmount, amount); err != nil {
		return 0, err
	}
	if pos.ClaimedAmount > pos.DepositedAmount {
		return 0, reverts.ErrInvariantViolated
	}
	pos.PeriodsClaimed = periods

	if amount > 0 {
		if err := s.ledger.MintTo(pool.EntitlementMint, destination, AuthorityAddress(addr), amount); err != nil {
			return 0, err
		}
	}

	key := PositionAddress(addr, holder)
	if periods == pool.Params.MaxPeriods {
		if err := s.positions.Delete(key); err != nil {
			return 0, err
		}
		logger.Debug("stake position settled", "pool", addr, "holder", holder)
	} else if err := s.positions.Update(key, pos); err != nil {
		return 0, err
	}
	logger.Debug("claimed", "pool", addr, "holder", holder, "amount", amount, "periods", periods)
	return amount, nil
}

// ModifyParams replaces the schedule of a pool that has not started yet.
func (s *Service) ModifyParams(now uint64, addr, owner thor.Address, params Params) error {
	pool, err := s.mustPool(addr)
	if err != nil {
		return err
	}
	if pool.Owner != owner {
		return reverts.ErrInvalidOwner
	}
	if err := params.Validate(now); err != nil {
		return err
	}
	if pool.Params.StartsAt <= now {
		return reverts.ErrStartTimeFreezed
	}
	pool.Params = params
	return s.pools.Update(addr, pool)
}

// SetOwner transfers pool ownership.
func (s *Service) SetOwner(addr, owner, newOwner thor.Address) error {
	pool, err := s.mustPool(addr)
	if err != nil {
		return err
	}
	if pool.Owner != owner {
		return reverts.ErrInvalidOwner
	}
	if newOwner.IsZero() {
		return reverts.ErrInvalidInputValue
	}
	pool.Owner = newOwner
	return s.pools.Update(addr, pool)
}

// SetMintAuthority hands the entitlement mint authority from current to the pool.
func (s *Service) SetMintAuthority(addr, owner, current thor.Address) error {
	pool, err := s.mustPool(addr)
	if err != nil {
		return err
	}
	if pool.Owner != owner {
		return reverts.ErrInvalidOwner
	}
	return s.ledger.SetAuthority(pool.EntitlementMint, current, AuthorityAddress(addr))
}

// ReclaimMintAuthority hands the entitlement mint authority from the pool to next.
func (s *Service) ReclaimMintAuthority(addr, owner, next thor.Address) error {
	pool, err := s.mustPool(addr)
	if err != nil {
		return err
	}
	if pool.Owner != owner {
		return reverts.ErrInvalidOwner
	}
	return s.ledger.SetAuthority(pool.EntitlementMint, AuthorityAddress(addr), next)
}

// Vest burns amount of principal from source and mints amount × ConversionRatio(duration)
// of entitlement into the pool vault. It returns the minted amount, which the caller is
// expected to lock for duration out of the vault.
func (s *Service) Vest(now uint64, addr, holder, source thor.Address, amount, duration uint64) (uint64, error) {
	pool, err := s.mustPool(addr)
	if err != nil {
		return 0, err
	}
	if now <= pool.Params.StartsAt {
		return 0, reverts.ErrNotClaimable
	}
	if amount == 0 {
		return 0, reverts.ErrInvalidInputValue
	}
	ratio, err := ConversionRatio(duration)
	if err != nil {
		return 0, err
	}
	minted, err := safemath.Mul(amount, ratio)
	if err != nil {
		return 0, err
	}
	if err := s.checkSource(source, pool.PrincipalMint, holder, amount); err != nil {
		return 0, err
	}
	if err := s.ledger.Burn(source, pool.PrincipalMint, holder, amount); err != nil {
		return 0, err
	}
	if err := s.ledger.MintTo(pool.EntitlementMint, VaultAddress(pool, addr), AuthorityAddress(addr), minted); err != nil {
		return 0, err
	}
	logger.Debug("vested", "pool", addr, "holder", holder, "burned", amount, "minted", minted)
	return minted, nil
}
