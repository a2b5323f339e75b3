// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locker

import (
	"github.com/vechain/lockvest/release"
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/safemath"
	"github.com/vechain/lockvest/thor"
)

// LockNFT burns one instrument from nftSource and locks its full halving reward, paid
// out of the treasury, into the escrow. The reward vests through the returned receipt.
func (l *Locker) LockNFT(now uint64, pool, owner, nftMint, nftSource thor.Address, duration uint64) (uint64, error) {
	p, err := l.mustPool(pool)
	if err != nil {
		return 0, err
	}
	pos, err := l.mustPosition(pool, owner)
	if err != nil {
		return 0, err
	}
	if !p.Params.NFTEnabled() {
		return 0, reverts.ErrInvalidParams
	}

	curve := p.Params.Curve()
	full, err := curve.FullDuration()
	if err != nil {
		return 0, err
	}
	if duration < full {
		return 0, reverts.ErrLockupDurationTooShort
	}
	if err := l.admission.VerifyInstrument(pool, nftMint); err != nil {
		return 0, err
	}
	nextEnd, err := safemath.Add(now, duration)
	if err != nil {
		return 0, err
	}
	if nextEnd < pos.LockEndsAt {
		return 0, reverts.ErrRefreshCannotShorten
	}
	reward, err := release.MaxHalvingReward(curve)
	if err != nil {
		return 0, err
	}

	if err := l.ledger.Burn(nftSource, nftMint, owner, 1); err != nil {
		return 0, err
	}
	if reward > 0 {
		if err := l.ledger.Transfer(TreasuryAddress(pool, p.TokenMint), pos.Tokens, pool, reward); err != nil {
			return 0, err
		}
	}

	id := pos.ReceiptSeq
	if _, err := l.receipts.Issue(EscrowAddress(pool, owner), pool, owner, id, now, duration, curve); err != nil {
		return 0, err
	}
	if err := l.addLocked(p, pos, reward); err != nil {
		return 0, err
	}
	pos.LockStartedAt = now
	pos.LockEndsAt = nextEnd
	pos.ReceiptCount++
	pos.ReceiptSeq++

	if err := l.save(pool, p, pos); err != nil {
		return 0, err
	}
	logger.Debug("instrument locked", "locker", pool, "owner", owner, "nft", nftMint, "receipt", id, "reward", reward)
	return id, nil
}

// ClaimReceipt releases the vested, unclaimed reward of a receipt into destination.
func (l *Locker) ClaimReceipt(now uint64, pool, owner thor.Address, id uint64, destination thor.Address) (uint64, error) {
	p, err := l.mustPool(pool)
	if err != nil {
		return 0, err
	}
	pos, err := l.mustPosition(pool, owner)
	if err != nil {
		return 0, err
	}
	if destination == pos.Tokens {
		return 0, reverts.ErrInvalidToken
	}
	if id >= pos.ReceiptSeq {
		return 0, reverts.ErrInvariantViolated
	}

	escrow := EscrowAddress(pool, owner)
	due, err := l.receipts.Claim(escrow, owner, id, now)
	if err != nil {
		return 0, err
	}
	if err := l.ledger.Transfer(pos.Tokens, destination, escrow, due); err != nil {
		return 0, err
	}
	if err := l.subLocked(p, pos, due); err != nil {
		return 0, err
	}
	if err := l.save(pool, p, pos); err != nil {
		return 0, err
	}
	logger.Debug("receipt claimed", "locker", pool, "owner", owner, "receipt", id, "amount", due)
	return due, nil
}

// CloseReceipt deletes a fully vested and claimed receipt.
func (l *Locker) CloseReceipt(now uint64, pool, owner thor.Address, id uint64) error {
	pos, err := l.mustPosition(pool, owner)
	if err != nil {
		return err
	}
	if pos.ReceiptCount == 0 {
		return reverts.ErrInvariantViolated
	}
	if err := l.receipts.Close(EscrowAddress(pool, owner), owner, id, now); err != nil {
		return err
	}
	pos.ReceiptCount--
	return l.positions.Update(EscrowAddress(pool, owner), pos)
}
