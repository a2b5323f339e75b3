// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package locker implements vote escrow lockers. Owners lock tokens for a duration and
// receive a voting weight that depends on the committed duration. Locked instruments
// earn a halving reward tracked by receipts.
package locker

import (
	"github.com/pkg/errors"

	"github.com/vechain/lockvest/custody"
	"github.com/vechain/lockvest/locker/admission"
	"github.com/vechain/lockvest/locker/receipt"
	"github.com/vechain/lockvest/log"
	"github.com/vechain/lockvest/record"
	"github.com/vechain/lockvest/release"
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/safemath"
	"github.com/vechain/lockvest/store"
	"github.com/vechain/lockvest/thor"
)

var (
	slotPools       = thor.Slot("locker-pools")
	slotPoolsV1     = thor.Slot("locker-pools-v1")
	slotPositions   = thor.Slot("locker-positions")
	slotPositionsV1 = thor.Slot("locker-positions-v1")

	logger = log.WithContext("pkg", "locker")
)

// Locker implements the locker operations over the record store.
type Locker struct {
	ledger *custody.Ledger

	pools       *record.Mapping[thor.Address, Pool]
	poolsV1     *record.Mapping[thor.Address, PoolV1]
	positions   *record.Mapping[thor.Address, Position]
	positionsV1 *record.Mapping[thor.Address, PositionV1]

	receipts  *receipt.Service
	admission *admission.Service
}

func New(s *store.Store, ledger *custody.Ledger) *Locker {
	return &Locker{
		ledger:      ledger,
		pools:       record.NewMapping[thor.Address, Pool](s, slotPools),
		poolsV1:     record.NewMapping[thor.Address, PoolV1](s, slotPoolsV1),
		positions:   record.NewMapping[thor.Address, Position](s, slotPositions),
		positionsV1: record.NewMapping[thor.Address, PositionV1](s, slotPositionsV1),
		receipts:    receipt.New(s),
		admission:   admission.New(s, ledger, ProgramID),
	}
}

// Admission returns the whitelist and proof tables.
func (l *Locker) Admission() *admission.Service {
	return l.admission
}

// Receipts returns the receipt records.
func (l *Locker) Receipts() *receipt.Service {
	return l.receipts
}

// GetPool returns the locker, or nil if there is none.
func (l *Locker) GetPool(addr thor.Address) (*Pool, error) {
	return l.pools.Get(addr)
}

// GetPosition returns the escrow of owner, or nil if there is none.
func (l *Locker) GetPosition(pool, owner thor.Address) (*Position, error) {
	return l.positions.Get(EscrowAddress(pool, owner))
}

func (l *Locker) mustPool(addr thor.Address) (*Pool, error) {
	p, err := l.pools.Get(addr)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Version != Version {
		return nil, reverts.ErrUninitialized
	}
	return p, nil
}

func (l *Locker) mustPosition(pool, owner thor.Address) (*Position, error) {
	pos, err := l.positions.Get(EscrowAddress(pool, owner))
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, errors.Wrapf(reverts.ErrNotFound, "escrow of %v", owner)
	}
	if pos.Pool != pool {
		return nil, reverts.ErrInvalidLocker
	}
	return pos, nil
}

// save writes the pool and the position of one state transition together.
func (l *Locker) save(addr thor.Address, p *Pool, pos *Position) error {
	if err := l.pools.Update(addr, p); err != nil {
		return err
	}
	return l.positions.Update(EscrowAddress(addr, pos.Owner), pos)
}

// InitLocker creates the locker of base and returns its address.
func (l *Locker) InitLocker(base, tokenMint, governor thor.Address, params Params) (thor.Address, error) {
	if err := params.Validate(); err != nil {
		return thor.Address{}, err
	}
	if base.IsZero() || governor.IsZero() {
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
	pool := &Pool{
		Version:   Version,
		Base:      base,
		TokenMint: tokenMint,
		Governor:  governor,
		Params:    params,
	}
	if err := l.pools.Insert(addr, pool); err != nil {
		return thor.Address{}, errors.Wrap(err, "init locker")
	}
	logger.Debug("locker initialized", "locker", addr, "mint", tokenMint, "governor", governor)
	return addr, nil
}

// InitPosition opens the escrow of owner and its token account. The vote delegate
// starts as the owner.
func (l *Locker) InitPosition(pool, owner thor.Address) (thor.Address, error) {
	p, err := l.mustPool(pool)
	if err != nil {
		return thor.Address{}, err
	}
	escrow := EscrowAddress(pool, owner)
	tokens, err := l.ledger.EnsureAccount(escrow, p.TokenMint)
	if err != nil {
		return thor.Address{}, err
	}
	pos := &Position{
		Pool:         pool,
		Owner:        owner,
		Tokens:       tokens,
		VoteDelegate: owner,
	}
	if err := l.positions.Insert(escrow, pos); err != nil {
		return thor.Address{}, errors.Wrap(err, "init escrow")
	}
	return escrow, nil
}

// Lock moves amount from source into the escrow and restarts the lock for duration.
// The new end may never come before the current one, including for a pure refresh
// with amount 0.
func (l *Locker) Lock(now uint64, pool, owner, caller, source, sourceAuthority thor.Address, amount, duration uint64) error {
	p, err := l.mustPool(pool)
	if err != nil {
		return err
	}
	pos, err := l.mustPosition(pool, owner)
	if err != nil {
		return err
	}
	if amount > 0 {
		if err := l.checkSource(p, pos, source); err != nil {
			return err
		}
	} else if pos.Amount == 0 {
		return reverts.ErrInvalidInputValue
	}

	if err := p.Params.checkDuration(duration); err != nil {
		return err
	}
	nextEnd, err := safemath.Add(now, duration)
	if err != nil {
		return err
	}
	if nextEnd < pos.LockEndsAt {
		return reverts.ErrRefreshCannotShorten
	}
	if p.Params.WhitelistEnabled {
		if err := l.admission.Check(pool, caller, owner); err != nil {
			return err
		}
	}

	if amount > 0 {
		if err := l.ledger.Transfer(source, pos.Tokens, sourceAuthority, amount); err != nil {
			return err
		}
	}
	prevEnd := pos.LockEndsAt
	if err := l.addLocked(p, pos, amount); err != nil {
		return err
	}
	pos.LockStartedAt = now
	pos.LockEndsAt = nextEnd

	if err := l.save(pool, p, pos); err != nil {
		return err
	}
	logger.Debug("locked",
		"locker", pool,
		"owner", owner,
		"amount", amount,
		"supply", p.LockedSupply,
		"prevEndsAt", prevEnd,
		"endsAt", nextEnd,
	)
	return nil
}

func (l *Locker) checkSource(p *Pool, pos *Position, source thor.Address) error {
	if source == pos.Tokens {
		return reverts.ErrInvalidToken
	}
	acc, err := l.ledger.GetAccount(source)
	if err != nil {
		return err
	}
	if acc == nil {
		return errors.Wrapf(reverts.ErrNotFound, "token account %v", source)
	}
	if acc.Mint != p.TokenMint {
		return reverts.ErrInvalidLockerMint
	}
	return nil
}

func (l *Locker) addLocked(p *Pool, pos *Position, amount uint64) (err error) {
	if pos.Amount, err = safemath.Add(pos.Amount, amount); err != nil {
		return err
	}
	p.LockedSupply, err = safemath.Add(p.LockedSupply, amount)
	return err
}

func (l *Locker) subLocked(p *Pool, pos *Position, amount uint64) (err error) {
	if pos.Amount, err = safemath.Sub(pos.Amount, amount); err != nil {
		return err
	}
	if p.LockedSupply, err = safemath.Sub(p.LockedSupply, amount); err != nil {
		return err
	}
	if pos.Amount == 0 {
		pos.LockStartedAt = 0
		pos.LockEndsAt = 0
	}
	return nil
}

// Exit releases everything not held back by open receipts once the lock has ended.
func (l *Locker) Exit(now uint64, pool, owner, destination thor.Address) (uint64, error) {
	p, err := l.mustPool(pool)
	if err != nil {
		return 0, err
	}
	pos, err := l.mustPosition(pool, owner)
	if err != nil {
		return 0, err
	}
	if now <= pos.LockEndsAt {
		return 0, reverts.ErrEscrowNotEnded
	}
	if destination == pos.Tokens {
		return 0, reverts.ErrInvalidToken
	}

	escrow := EscrowAddress(pool, owner)
	held, _, err := l.receipts.Outstanding(escrow, pos.ReceiptSeq)
	if err != nil {
		return 0, err
	}
	if held > pos.Amount {
		return 0, reverts.ErrInvariantViolated
	}
	unlock := pos.Amount - held
	if unlock == 0 {
		return 0, reverts.ErrEscrowNoBalance
	}

	if err := l.ledger.Transfer(pos.Tokens, destination, escrow, unlock); err != nil {
		return 0, err
	}
	if err := l.subLocked(p, pos, unlock); err != nil {
		return 0, err
	}
	if err := l.save(pool, p, pos); err != nil {
		return 0, err
	}
	logger.Debug("exited", "locker", pool, "owner", owner, "released", unlock, "supply", p.LockedSupply)
	return unlock, nil
}

// VotingPower returns the voting weight of the escrow at now.
func (l *Locker) VotingPower(now uint64, pool, owner thor.Address) (uint64, error) {
	p, err := l.mustPool(pool)
	if err != nil {
		return 0, err
	}
	pos, err := l.mustPosition(pool, owner)
	if err != nil {
		return 0, err
	}
	return release.VotingPower(pos.lock(), p.Params.power(), now)
}

// SetVoteDelegate changes who may vote with the escrow.
func (l *Locker) SetVoteDelegate(pool, owner, delegate thor.Address) error {
	pos, err := l.mustPosition(pool, owner)
	if err != nil {
		return err
	}
	if delegate.IsZero() {
		return reverts.ErrInvalidInputValue
	}
	old := pos.VoteDelegate
	pos.VoteDelegate = delegate
	if err := l.positions.Update(EscrowAddress(pool, owner), pos); err != nil {
		return err
	}
	logger.Debug("vote delegate changed", "locker", pool, "owner", owner, "old", old, "new", delegate)
	return nil
}

// ClosePosition deletes an ended, empty escrow with no open receipts.
func (l *Locker) ClosePosition(now uint64, pool, owner thor.Address) error {
	pos, err := l.mustPosition(pool, owner)
	if err != nil {
		return err
	}
	if now <= pos.LockEndsAt {
		return reverts.ErrEscrowNotEnded
	}
	if pos.Amount > 0 || pos.ReceiptCount > 0 {
		return reverts.ErrEscrowInUse
	}
	escrow := EscrowAddress(pool, owner)
	if err := l.ledger.CloseAccount(pos.Tokens, escrow); err != nil {
		return err
	}
	return l.positions.Delete(escrow)
}
