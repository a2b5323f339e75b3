// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admission keeps the side tables that decide who may lock into a locker:
// whitelisted calling programs and proofs of eligible non-fungible instruments.
package admission

import (
	"github.com/pkg/errors"

	"github.com/vechain/lockvest/custody"
	"github.com/vechain/lockvest/log"
	"github.com/vechain/lockvest/record"
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/store"
	"github.com/vechain/lockvest/thor"
)

var (
	slotEntries  = thor.Slot("admission-whitelist")
	slotPrograms = thor.Slot("admission-programs")
	slotProofs   = thor.Slot("admission-proofs")
	slotMetadata = thor.Slot("admission-metadata")

	logger = log.WithContext("pkg", "admission")
)

// ProofType is a set of attestations carried by a proof.
type ProofType uint8

const (
	ProofCreator ProofType = 1 << iota
	ProofMint

	proofAll = ProofCreator | ProofMint
)

// Valid reports whether t is non-empty and has no unknown bits.
func (t ProofType) Valid() bool {
	return t != 0 && t&^proofAll == 0
}

// Contains reports whether every bit of o is set in t.
func (t ProofType) Contains(o ProofType) bool {
	return t&o == o
}

// WhitelistEntry admits a calling program to lock on behalf of Owner, or on behalf of
// anyone when Owner is zero.
type WhitelistEntry struct {
	Pool      thor.Address
	ProgramID thor.Address
	Owner     thor.Address
}

// Proof attests that an address is an eligible instrument mint or creator.
type Proof struct {
	Pool         thor.Address
	ProofType    ProofType
	ProofAddress thor.Address
}

type Creator struct {
	Address  thor.Address
	Verified bool
}

// Metadata describes a non-fungible instrument.
type Metadata struct {
	Mint     thor.Address
	Creators []Creator
}

type programEntry struct {
	Entries uint64
}

func EntryAddress(pool, program, owner thor.Address) thor.Address {
	return thor.DeriveAddress("LockerWhitelistEntry", pool.Bytes(), program.Bytes(), owner.Bytes())
}

func ProofAddress(pool, addr thor.Address) thor.Address {
	return thor.DeriveAddress("Proof", pool.Bytes(), addr.Bytes())
}

func programAddress(pool, program thor.Address) thor.Address {
	return thor.DeriveAddress("LockerWhitelistProgram", pool.Bytes(), program.Bytes())
}

// Service answers admission queries for lockers.
type Service struct {
	direct   thor.Address
	ledger   *custody.Ledger
	entries  *record.Mapping[thor.Address, WhitelistEntry]
	programs *record.Mapping[thor.Address, programEntry]
	proofs   *record.Mapping[thor.Address, Proof]
	metadata *record.Mapping[thor.Address, Metadata]
}

// New creates the service. Calls made by direct are always admitted.
func New(s *store.Store, ledger *custody.Ledger, direct thor.Address) *Service {
	return &Service{
		direct:   direct,
		ledger:   ledger,
		entries:  record.NewMapping[thor.Address, WhitelistEntry](s, slotEntries),
		programs: record.NewMapping[thor.Address, programEntry](s, slotPrograms),
		proofs:   record.NewMapping[thor.Address, Proof](s, slotProofs),
		metadata: record.NewMapping[thor.Address, Metadata](s, slotMetadata),
	}
}

// GetEntry returns the whitelist entry, or nil if there is none.
func (s *Service) GetEntry(pool, program, owner thor.Address) (*WhitelistEntry, error) {
	return s.entries.Get(EntryAddress(pool, program, owner))
}

// ApproveProgram whitelists program for owner, or for everyone when owner is zero.
func (s *Service) ApproveProgram(pool, program, owner thor.Address) error {
	if program.IsZero() {
		return reverts.ErrInvalidInputValue
	}
	entry := &WhitelistEntry{Pool: pool, ProgramID: program, Owner: owner}
	if err := s.entries.Insert(EntryAddress(pool, program, owner), entry); err != nil {
		return errors.Wrap(err, "approve program")
	}
	return s.countEntries(pool, program, true)
}

// RevokeProgram removes a whitelist entry.
func (s *Service) RevokeProgram(pool, program, owner thor.Address) error {
	if err := s.entries.Delete(EntryAddress(pool, program, owner)); err != nil {
		return errors.Wrap(err, "revoke program")
	}
	return s.countEntries(pool, program, false)
}

func (s *Service) countEntries(pool, program thor.Address, add bool) error {
	key := programAddress(pool, program)
	p, err := s.programs.Get(key)
	if err != nil {
		return err
	}
	if p == nil {
		p = &programEntry{}
	}
	switch {
	case add:
		p.Entries++
	case p.Entries == 0:
		return reverts.ErrInvariantViolated
	default:
		p.Entries--
	}
	if p.Entries == 0 {
		return s.programs.Delete(key)
	}
	return s.programs.Upsert(key, p)
}

// Check returns nil when caller may lock into pool on behalf of holder.
func (s *Service) Check(pool, caller, holder thor.Address) error {
	if caller == s.direct {
		return nil
	}
	for _, owner := range []thor.Address{{}, holder} {
		ok, err := s.entries.Exists(EntryAddress(pool, caller, owner))
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	p, err := s.programs.Get(programAddress(pool, caller))
	if err != nil {
		return err
	}
	if p != nil && p.Entries > 0 {
		return reverts.ErrEscrowOwnerNotWhitelisted
	}
	return reverts.ErrProgramNotWhitelisted
}

// IsAdmitted reports whether caller may lock into pool on behalf of holder.
func (s *Service) IsAdmitted(pool, caller, holder thor.Address) bool {
	return s.Check(pool, caller, holder) == nil
}

// AddProof creates the proof for addr, or resets its type.
func (s *Service) AddProof(pool, addr thor.Address, proofType ProofType) error {
	if !proofType.Valid() {
		return reverts.ErrInvalidProofType
	}
	proof := &Proof{Pool: pool, ProofType: proofType, ProofAddress: addr}
	if err := s.proofs.Upsert(ProofAddress(pool, addr), proof); err != nil {
		return err
	}
	logger.Debug("proof added", "pool", pool, "address", addr, "type", proofType)
	return nil
}

// RemoveProof deletes the proof for addr.
func (s *Service) RemoveProof(pool, addr thor.Address) error {
	if err := s.proofs.Delete(ProofAddress(pool, addr)); err != nil {
		return errors.Wrap(err, "remove proof")
	}
	return nil
}

// GetProof returns the proof, or nil if there is none.
func (s *Service) GetProof(pool, addr thor.Address) (*Proof, error) {
	return s.proofs.Get(ProofAddress(pool, addr))
}

func (s *Service) hasProof(pool, addr thor.Address, want ProofType) (bool, error) {
	proof, err := s.proofs.Get(ProofAddress(pool, addr))
	if err != nil || proof == nil {
		return false, err
	}
	if !proof.ProofType.Valid() {
		return false, reverts.ErrInvariantViolated
	}
	return proof.Pool == pool && proof.ProofType.Contains(want), nil
}

// RegisterInstrument records the creators of a non-fungible mint. Only the mint
// authority may register, and every creator starts unverified.
func (s *Service) RegisterInstrument(mint, authority thor.Address, creators []thor.Address) error {
	m, err := s.ledger.GetMint(mint)
	if err != nil {
		return err
	}
	if m == nil {
		return errors.Wrapf(reverts.ErrInvalidToken, "unknown mint %v", mint)
	}
	if m.Authority.IsZero() || m.Authority != authority {
		return reverts.ErrInvalidAuthority
	}
	md := &Metadata{Mint: mint}
	for _, c := range creators {
		md.Creators = append(md.Creators, Creator{Address: c})
	}
	return s.metadata.Upsert(mint, md)
}

// VerifyCreator marks creator as verified on the instrument. Only the creator itself may do so.
func (s *Service) VerifyCreator(mint, creator thor.Address) error {
	md, err := s.metadata.Get(mint)
	if err != nil {
		return err
	}
	if md == nil {
		return errors.Wrapf(reverts.ErrNotFound, "metadata of %v", mint)
	}
	for i := range md.Creators {
		if md.Creators[i].Address == creator {
			md.Creators[i].Verified = true
			return s.metadata.Update(mint, md)
		}
	}
	return reverts.ErrInvalidAuthority
}

// GetMetadata returns the instrument metadata, or nil if there is none.
func (s *Service) GetMetadata(mint thor.Address) (*Metadata, error) {
	return s.metadata.Get(mint)
}

// VerifyInstrument accepts the instrument when its mint carries a mint proof, or one
// of its verified creators carries a creator proof.
func (s *Service) VerifyInstrument(pool, mint thor.Address) error {
	ok, err := s.hasProof(pool, mint, ProofMint)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	md, err := s.metadata.Get(mint)
	if err != nil {
		return err
	}
	if md == nil {
		return reverts.ErrInvalidProof
	}
	for _, c := range md.Creators {
		if !c.Verified {
			continue
		}
		ok, err := s.hasProof(pool, c.Address, ProofCreator)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return reverts.ErrInvalidProof
}
