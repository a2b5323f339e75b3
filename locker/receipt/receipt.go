// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package receipt

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/lockvest/record"
	"github.com/vechain/lockvest/release"
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/safemath"
	"github.com/vechain/lockvest/store"
	"github.com/vechain/lockvest/thor"
)

var slotReceipts = thor.Slot("locker-receipts")

// Receipt tracks the vesting of the reward granted for one burned instrument. The
// halving curve is captured at issuance so later param changes leave it untouched.
type Receipt struct {
	ID            uint64
	Pool          thor.Address
	Owner         thor.Address
	VestStartedAt uint64
	VestEndsAt    uint64
	ClaimedAmount uint64
	Curve         release.Halving
}

// Vested returns the reward vested at now.
func (r *Receipt) Vested(now uint64) (uint64, error) {
	end := min(now, r.VestEndsAt)
	if end <= r.VestStartedAt {
		return 0, nil
	}
	return release.HalvingReward(r.Curve, end-r.VestStartedAt)
}

// Due returns the vested reward not claimed yet.
func (r *Receipt) Due(now uint64) (uint64, error) {
	vested, err := r.Vested(now)
	if err != nil {
		return 0, err
	}
	return safemath.Sub(vested, r.ClaimedAmount)
}

// Remaining returns the reward still held back by the receipt.
func (r *Receipt) Remaining() (uint64, error) {
	total, err := release.MaxHalvingReward(r.Curve)
	if err != nil {
		return 0, err
	}
	return safemath.Sub(total, r.ClaimedAmount)
}

// Address returns the key of the receipt id of the escrow.
func Address(escrow thor.Address, id uint64) thor.Address {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], id)
	return thor.DeriveAddress("NftReceipt", escrow.Bytes(), b[:])
}

// Service stores receipts per escrow.
type Service struct {
	receipts *record.Mapping[thor.Address, Receipt]
}

func New(s *store.Store) *Service {
	return &Service{
		receipts: record.NewMapping[thor.Address, Receipt](s, slotReceipts),
	}
}

// Get returns the receipt, or nil if there is none.
func (s *Service) Get(escrow thor.Address, id uint64) (*Receipt, error) {
	return s.receipts.Get(Address(escrow, id))
}

func (s *Service) mustGet(escrow thor.Address, id uint64) (*Receipt, error) {
	r, err := s.receipts.Get(Address(escrow, id))
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.Wrapf(reverts.ErrNotFound, "receipt %d", id)
	}
	return r, nil
}

// Issue creates a receipt vesting from now for duration seconds.
func (s *Service) Issue(escrow, pool, owner thor.Address, id, now, duration uint64, curve release.Halving) (*Receipt, error) {
	end, err := safemath.Add(now, duration)
	if err != nil {
		return nil, err
	}
	r := &Receipt{
		ID:            id,
		Pool:          pool,
		Owner:         owner,
		VestStartedAt: now,
		VestEndsAt:    end,
		Curve:         curve,
	}
	if err := s.receipts.Insert(Address(escrow, id), r); err != nil {
		return nil, errors.Wrap(err, "issue receipt")
	}
	return r, nil
}

// Claim books the due reward of a receipt and returns it. Nothing due is a ClaimError.
func (s *Service) Claim(escrow, owner thor.Address, id, now uint64) (uint64, error) {
	r, err := s.mustGet(escrow, id)
	if err != nil {
		return 0, err
	}
	if r.Owner != owner {
		return 0, reverts.ErrInvalidOwner
	}
	due, err := r.Due(now)
	if err != nil {
		return 0, err
	}
	if due == 0 {
		return 0, reverts.ErrClaimError
	}
	if r.ClaimedAmount, err = safemath.Add(r.ClaimedAmount, due); err != nil {
		return 0, err
	}
	if err := s.receipts.Update(Address(escrow, id), r); err != nil {
		return 0, err
	}
	return due, nil
}

// Close deletes a receipt that has ended and been claimed in full.
func (s *Service) Close(escrow, owner thor.Address, id, now uint64) error {
	r, err := s.mustGet(escrow, id)
	if err != nil {
		return err
	}
	if r.Owner != owner {
		return reverts.ErrInvalidOwner
	}
	if now <= r.VestEndsAt {
		return reverts.ErrReceiptNotEnded
	}
	remaining, err := r.Remaining()
	if err != nil {
		return err
	}
	if remaining != 0 {
		return reverts.ErrCloseNonZeroReceipt
	}
	return s.receipts.Delete(Address(escrow, id))
}

// Outstanding sums the remaining reward of the receipts of the escrow with ids below seq.
func (s *Service) Outstanding(escrow thor.Address, seq uint64) (total uint64, open uint64, err error) {
	for id := range seq {
		r, err := s.receipts.Get(Address(escrow, id))
		if err != nil {
			return 0, 0, err
		}
		if r == nil {
			continue
		}
		remaining, err := r.Remaining()
		if err != nil {
			return 0, 0, err
		}
		if total, err = safemath.Add(total, remaining); err != nil {
			return 0, 0, err
		}
		open++
	}
	return total, open, nil
}
