// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package custody keeps fungible token balances. Every mutation is buffered in the
// record store, so a failed operation reverts its transfers together with its accounting.
package custody

import (
	"github.com/pkg/errors"

	"github.com/vechain/lockvest/log"
	"github.com/vechain/lockvest/record"
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/safemath"
	"github.com/vechain/lockvest/store"
	"github.com/vechain/lockvest/thor"
)

var (
	slotMints    = thor.Slot("custody-mints")
	slotAccounts = thor.Slot("custody-accounts")

	logger = log.WithContext("pkg", "custody")
)

// Mint is a fungible token definition.
type Mint struct {
	Authority thor.Address // who may mint; zero once minting is frozen
	Supply    uint64
	Decimals  uint8
}

// Account holds a balance of one mint for one owner.
type Account struct {
	Mint   thor.Address
	Owner  thor.Address
	Amount uint64
}

// AccountAddress returns the canonical token account of owner for mint.
func AccountAddress(owner, mint thor.Address) thor.Address {
	return thor.DeriveAddress("TokenAccount", owner.Bytes(), mint.Bytes())
}

// Ledger is the custody transfer service.
type Ledger struct {
	mints    *record.Mapping[thor.Address, Mint]
	accounts *record.Mapping[thor.Address, Account]
}

func New(s *store.Store) *Ledger {
	return &Ledger{
		mints:    record.NewMapping[thor.Address, Mint](s, slotMints),
		accounts: record.NewMapping[thor.Address, Account](s, slotAccounts),
	}
}

// CreateMint defines a new token.
func (l *Ledger) CreateMint(mint, authority thor.Address, decimals uint8) error {
	if mint.IsZero() {
		return reverts.ErrInvalidInputValue
	}
	if err := l.mints.Insert(mint, &Mint{Authority: authority, Decimals: decimals}); err != nil {
		return errors.Wrap(err, "create mint")
	}
	logger.Debug("mint created", "mint", mint, "authority", authority)
	return nil
}

// GetMint returns the mint, or nil if it does not exist.
func (l *Ledger) GetMint(mint thor.Address) (*Mint, error) {
	return l.mints.Get(mint)
}

func (l *Ledger) mustMint(mint thor.Address) (*Mint, error) {
	m, err := l.mints.Get(mint)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.Wrapf(reverts.ErrInvalidToken, "unknown mint %v", mint)
	}
	return m, nil
}

// CreateAccount opens the canonical account of owner for mint and returns its address.
func (l *Ledger) CreateAccount(owner, mint thor.Address) (thor.Address, error) {
	if _, err := l.mustMint(mint); err != nil {
		return thor.Address{}, err
	}
	addr := AccountAddress(owner, mint)
	if err := l.accounts.Insert(addr, &Account{Mint: mint, Owner: owner}); err != nil {
		return thor.Address{}, errors.Wrap(err, "create token account")
	}
	return addr, nil
}

// EnsureAccount opens the canonical account unless it already exists.
func (l *Ledger) EnsureAccount(owner, mint thor.Address) (thor.Address, error) {
	addr := AccountAddress(owner, mint)
	exists, err := l.accounts.Exists(addr)
	if err != nil {
		return thor.Address{}, err
	}
	if exists {
		return addr, nil
	}
	return l.CreateAccount(owner, mint)
}

// GetAccount returns the account, or nil if it does not exist.
func (l *Ledger) GetAccount(addr thor.Address) (*Account, error) {
	return l.accounts.Get(addr)
}

func (l *Ledger) mustAccount(addr thor.Address) (*Account, error) {
	acc, err := l.accounts.Get(addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, errors.Wrapf(reverts.ErrNotFound, "token account %v", addr)
	}
	return acc, nil
}

// Balance returns the balance of the account. Missing accounts hold nothing.
func (l *Ledger) Balance(addr thor.Address) (uint64, error) {
	acc, err := l.accounts.Get(addr)
	if err != nil || acc == nil {
		return 0, err
	}
	return acc.Amount, nil
}

// Transfer moves amount between two accounts of the same mint. authority must own from.
func (l *Ledger) Transfer(from, to, authority thor.Address, amount uint64) error {
	src, err := l.mustAccount(from)
	if err != nil {
		return err
	}
	dst, err := l.mustAccount(to)
	if err != nil {
		return err
	}
	if src.Owner != authority {
		return reverts.ErrInvalidOwner
	}
	if src.Mint != dst.Mint {
		return reverts.ErrInvalidToken
	}
	if src.Amount < amount {
		return reverts.ErrInsufficientFunds
	}
	if from == to || amount == 0 {
		return nil
	}

	src.Amount -= amount
	if dst.Amount, err = safemath.Add(dst.Amount, amount); err != nil {
		return err
	}
	if err := l.accounts.Update(from, src); err != nil {
		return err
	}
	if err := l.accounts.Update(to, dst); err != nil {
		return err
	}
	logger.Trace("transferred", "from", from, "to", to, "amount", amount)
	return nil
}

// MintTo creates amount new tokens into the account. authority must be the mint authority.
func (l *Ledger) MintTo(mint, to, authority thor.Address, amount uint64) error {
	m, err := l.mustMint(mint)
	if err != nil {
		return err
	}
	dst, err := l.mustAccount(to)
	if err != nil {
		return err
	}
	if m.Authority.IsZero() || m.Authority != authority {
		return reverts.ErrInvalidAuthority
	}
	if dst.Mint != mint {
		return reverts.ErrInvalidToken
	}
	if amount == 0 {
		return nil
	}

	if m.Supply, err = safemath.Add(m.Supply, amount); err != nil {
		return err
	}
	if dst.Amount, err = safemath.Add(dst.Amount, amount); err != nil {
		return err
	}
	if err := l.mints.Update(mint, m); err != nil {
		return err
	}
	if err := l.accounts.Update(to, dst); err != nil {
		return err
	}
	logger.Trace("minted", "mint", mint, "to", to, "amount", amount)
	return nil
}

// Burn destroys amount tokens held by the account. authority must own from.
func (l *Ledger) Burn(from, mint, authority thor.Address, amount uint64) error {
	m, err := l.mustMint(mint)
	if err != nil {
		return err
	}
	src, err := l.mustAccount(from)
	if err != nil {
		return err
	}
	if src.Owner != authority {
		return reverts.ErrInvalidOwner
	}
	if src.Mint != mint {
		return reverts.ErrInvalidToken
	}
	if src.Amount < amount {
		return reverts.ErrInsufficientFunds
	}
	if amount == 0 {
		return nil
	}

	src.Amount -= amount
	// supply always covers every balance
	if m.Supply, err = safemath.Sub(m.Supply, amount); err != nil {
		return err
	}
	if err := l.mints.Update(mint, m); err != nil {
		return err
	}
	if err := l.accounts.Update(from, src); err != nil {
		return err
	}
	logger.Trace("burned", "mint", mint, "from", from, "amount", amount)
	return nil
}

// SetAuthority hands the mint authority from current to next.
func (l *Ledger) SetAuthority(mint, current, next thor.Address) error {
	m, err := l.mustMint(mint)
	if err != nil {
		return err
	}
	if m.Authority.IsZero() || m.Authority != current {
		return reverts.ErrInvalidAuthority
	}
	m.Authority = next
	if err := l.mints.Update(mint, m); err != nil {
		return err
	}
	logger.Debug("mint authority changed", "mint", mint, "authority", next)
	return nil
}

// CloseAccount deletes an empty account. authority must own it.
func (l *Ledger) CloseAccount(addr, authority thor.Address) error {
	acc, err := l.mustAccount(addr)
	if err != nil {
		return err
	}
	if acc.Owner != authority {
		return reverts.ErrInvalidOwner
	}
	if acc.Amount != 0 {
		return reverts.ErrAccountNotEmpty
	}
	return l.accounts.Delete(addr)
}
