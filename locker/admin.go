// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locker

import (
	"github.com/pkg/errors"

	"github.com/vechain/lockvest/locker/admission"
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/safemath"
	"github.com/vechain/lockvest/thor"
)

// Upgrade carries the values a v1 locker lacks.
type Upgrade struct {
	ProposalActivationMinVotes uint64
	NFT                        NFTParams
}

func (l *Locker) governedPool(addr, governor thor.Address) (*Pool, error) {
	p, err := l.mustPool(addr)
	if err != nil {
		return nil, err
	}
	if p.Governor != governor {
		return nil, reverts.ErrGovernorMismatch
	}
	return p, nil
}

// SetParams replaces the params of the locker.
func (l *Locker) SetParams(pool, governor thor.Address, params Params) error {
	p, err := l.governedPool(pool, governor)
	if err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return err
	}
	p.Params = params
	if err := l.pools.Update(pool, p); err != nil {
		return err
	}
	logger.Info("locker params updated", "locker", pool)
	return nil
}

// InitTreasury opens the account instrument rewards are paid from.
func (l *Locker) InitTreasury(pool, governor thor.Address) (thor.Address, error) {
	p, err := l.governedPool(pool, governor)
	if err != nil {
		return thor.Address{}, err
	}
	return l.ledger.CreateAccount(pool, p.TokenMint)
}

func (l *Locker) ApproveProgram(pool, governor, program, owner thor.Address) error {
	if _, err := l.governedPool(pool, governor); err != nil {
		return err
	}
	return l.admission.ApproveProgram(pool, program, owner)
}

func (l *Locker) RevokeProgram(pool, governor, program, owner thor.Address) error {
	if _, err := l.governedPool(pool, governor); err != nil {
		return err
	}
	return l.admission.RevokeProgram(pool, program, owner)
}

func (l *Locker) AddProof(pool, governor, addr thor.Address, proofType admission.ProofType) error {
	if _, err := l.governedPool(pool, governor); err != nil {
		return err
	}
	return l.admission.AddProof(pool, addr, proofType)
}

func (l *Locker) RemoveProof(pool, governor, addr thor.Address) error {
	if _, err := l.governedPool(pool, governor); err != nil {
		return err
	}
	return l.admission.RemoveProof(pool, addr)
}

// GetPoolV1 returns a v1 locker, or nil if there is none.
func (l *Locker) GetPoolV1(addr thor.Address) (*PoolV1, error) {
	return l.poolsV1.Get(addr)
}

// GetPositionV1 returns a v1 escrow, or nil if there is none.
func (l *Locker) GetPositionV1(pool, owner thor.Address) (*PositionV1, error) {
	return l.positionsV1.Get(EscrowAddress(pool, owner))
}

func (l *Locker) adminPool(addr, admin thor.Address) (*PoolV1, error) {
	old, err := l.poolsV1.Get(addr)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, reverts.ErrUninitialized
	}
	if old.Admin != admin {
		return nil, reverts.ErrInvalidAuthority
	}
	return old, nil
}

// MigrateLocker creates a governed locker from a v1 locker. Every v1 field is carried
// over unchanged, the new fields come from upgrade only.
func (l *Locker) MigrateLocker(oldBase, newBase, admin, governor thor.Address, upgrade Upgrade) (thor.Address, error) {
	oldAddr := PoolAddress(oldBase)
	old, err := l.adminPool(oldAddr, admin)
	if err != nil {
		return thor.Address{}, err
	}
	if newBase.IsZero() || newBase == oldBase || governor.IsZero() {
		return thor.Address{}, reverts.ErrInvalidParams
	}
	params := old.Params.Migrate(upgrade.ProposalActivationMinVotes).Migrate(upgrade.NFT)
	if err := params.Validate(); err != nil {
		return thor.Address{}, err
	}

	addr := PoolAddress(newBase)
	pool := &Pool{
		Version:      Version,
		Base:         newBase,
		TokenMint:    old.TokenMint,
		LockedSupply: old.LockedSupply,
		Governor:     governor,
		Params:       params,
	}
	if err := l.pools.Insert(addr, pool); err != nil {
		return thor.Address{}, errors.Wrap(err, "migrate locker")
	}
	logger.Info("locker migrated", "from", oldAddr, "to", addr, "supply", pool.LockedSupply)
	return addr, nil
}

// MigratePosition moves a v1 escrow and its tokens into the migrated locker.
func (l *Locker) MigratePosition(oldPool, newPool, admin, owner thor.Address) error {
	old, err := l.adminPool(oldPool, admin)
	if err != nil {
		return err
	}
	p, err := l.mustPool(newPool)
	if err != nil {
		return err
	}
	if p.Governor != admin {
		return reverts.ErrInvalidAuthority
	}
	if p.TokenMint != old.TokenMint {
		return reverts.ErrInvalidLockerMint
	}

	oldEscrow := EscrowAddress(oldPool, owner)
	oldPos, err := l.positionsV1.Get(oldEscrow)
	if err != nil {
		return err
	}
	if oldPos == nil {
		return errors.Wrapf(reverts.ErrNotFound, "v1 escrow of %v", owner)
	}

	escrow := EscrowAddress(newPool, owner)
	tokens, err := l.ledger.EnsureAccount(escrow, p.TokenMint)
	if err != nil {
		return err
	}
	if oldPos.Amount > 0 {
		if err := l.ledger.Transfer(oldPos.Tokens, tokens, oldEscrow, oldPos.Amount); err != nil {
			return err
		}
	}
	if err := l.ledger.CloseAccount(oldPos.Tokens, oldEscrow); err != nil {
		return err
	}

	pos := &Position{
		Pool:          newPool,
		Owner:         owner,
		Tokens:        tokens,
		Amount:        oldPos.Amount,
		LockStartedAt: oldPos.LockStartedAt,
		LockEndsAt:    oldPos.LockEndsAt,
		VoteDelegate:  owner,
	}
	if err := l.positions.Insert(escrow, pos); err != nil {
		return errors.Wrap(err, "migrate escrow")
	}
	if err := l.positionsV1.Delete(oldEscrow); err != nil {
		return err
	}
	// the migrated locker already carries the v1 supply
	if old.LockedSupply < oldPos.Amount {
		return reverts.ErrInvariantViolated
	}
	old.LockedSupply -= oldPos.Amount
	return l.poolsV1.Update(oldPool, old)
}

// MigrateWhitelist copies a v1 whitelist entry into the migrated locker.
func (l *Locker) MigrateWhitelist(oldPool, newPool, admin, program, owner thor.Address) error {
	if _, err := l.adminPool(oldPool, admin); err != nil {
		return err
	}
	if _, err := l.mustPool(newPool); err != nil {
		return err
	}
	entry, err := l.admission.GetEntry(oldPool, program, owner)
	if err != nil {
		return err
	}
	if entry == nil {
		return errors.Wrapf(reverts.ErrNotFound, "whitelist entry of %v", program)
	}
	return l.admission.ApproveProgram(newPool, entry.ProgramID, entry.Owner)
}

// RestoreV1 recreates an admin governed v1 locker, so that it can be migrated.
func (l *Locker) RestoreV1(base, tokenMint, admin thor.Address, params ParamsV1) (thor.Address, error) {
	if base.IsZero() || admin.IsZero() {
		return thor.Address{}, reverts.ErrInvalidParams
	}
	m, err := l.ledger.GetMint(tokenMint)
	if err != nil {
		return thor.Address{}, err
	}
	if m == nil {
		return thor.Address{}, errors.Wrapf(reverts.ErrInvalidToken, "unknown mint %v", tokenMint)
	}
	addr := PoolAddress(base)
	pool := &PoolV1{Base: base, TokenMint: tokenMint, Admin: admin, Params: params}
	if err := l.poolsV1.Insert(addr, pool); err != nil {
		return thor.Address{}, errors.Wrap(err, "restore v1 locker")
	}
	return addr, nil
}

// RestorePositionV1 recreates a v1 escrow holding amount taken from source.
func (l *Locker) RestorePositionV1(pool, owner, source, sourceAuthority thor.Address, amount, startedAt, endsAt uint64) error {
	p, err := l.poolsV1.Get(pool)
	if err != nil {
		return err
	}
	if p == nil {
		return reverts.ErrUninitialized
	}
	if endsAt < startedAt || (amount == 0) != (endsAt == 0) {
		return reverts.ErrInvalidParams
	}
	escrow := EscrowAddress(pool, owner)
	tokens, err := l.ledger.EnsureAccount(escrow, p.TokenMint)
	if err != nil {
		return err
	}
	if amount > 0 {
		if err := l.ledger.Transfer(source, tokens, sourceAuthority, amount); err != nil {
			return err
		}
	}
	pos := &PositionV1{
		Pool:          pool,
		Owner:         owner,
		Tokens:        tokens,
		Amount:        amount,
		LockStartedAt: startedAt,
		LockEndsAt:    endsAt,
		VoteDelegate:  owner,
	}
	if err := l.positionsV1.Insert(escrow, pos); err != nil {
		return errors.Wrap(err, "restore v1 escrow")
	}
	if p.LockedSupply, err = safemath.Add(p.LockedSupply, amount); err != nil {
		return err
	}
	return l.poolsV1.Update(pool, p)
}
