// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Kind classifies a revert by what the caller can do about it.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindPrecondition means invalid or out-of-window arguments.
	KindPrecondition
	// KindTemporal means the operation is not permissible at this time.
	KindTemporal
	// KindIdentity means the supplied records do not belong together.
	KindIdentity
	// KindArithmetic means checked arithmetic failed. Always an invariant breach.
	KindArithmetic
	// KindInsufficiency means the action exceeds the available principal or reward.
	KindInsufficiency
)

func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindTemporal:
		return "temporal"
	case KindIdentity:
		return "identity"
	case KindArithmetic:
		return "arithmetic"
	case KindInsufficiency:
		return "insufficiency"
	default:
		return "unknown"
	}
}

type ErrRevert struct {
	kind    Kind
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func NewKind(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the first revert found in err's chain.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return KindUnknown
}

// shared failures
var (
	ErrUninitialized          = NewKind(KindPrecondition, "uninitialized")
	ErrInvalidParams          = NewKind(KindPrecondition, "invalid params")
	ErrInvalidInputValue      = NewKind(KindPrecondition, "invalid input value")
	ErrLockupDurationTooShort = NewKind(KindPrecondition, "lockup duration too short")
	ErrLockupDurationTooLong  = NewKind(KindPrecondition, "lockup duration too long")
	ErrAlreadyExists          = NewKind(KindPrecondition, "record already exists")
	ErrNotFound               = NewKind(KindPrecondition, "record not found")

	ErrNotClaimable         = NewKind(KindTemporal, "not claimable")
	ErrEscrowNotEnded       = NewKind(KindTemporal, "escrow not ended")
	ErrStartTimeFreezed     = NewKind(KindTemporal, "start time freezed")
	ErrRefreshCannotShorten = NewKind(KindTemporal, "refresh cannot shorten escrow time remaining")
	ErrReceiptNotEnded      = NewKind(KindTemporal, "receipt not ended")

	ErrCloseNonZeroReceipt = NewKind(KindPrecondition, "cannot close receipt with unclaimed rewards")
	ErrEscrowInUse         = NewKind(KindPrecondition, "escrow in use")
	ErrAccountNotEmpty     = NewKind(KindPrecondition, "account not empty")

	ErrInvalidOwner              = NewKind(KindIdentity, "invalid owner")
	ErrInvalidLocker             = NewKind(KindIdentity, "invalid locker")
	ErrInvalidToken              = NewKind(KindIdentity, "invalid token")
	ErrInvalidLockerMint         = NewKind(KindIdentity, "invalid locker mint")
	ErrVoterMismatch             = NewKind(KindIdentity, "voter mismatch")
	ErrGovernorMismatch          = NewKind(KindIdentity, "governor mismatch")
	ErrInvalidVoteDelegate       = NewKind(KindIdentity, "invalid vote delegate")
	ErrInvalidAuthority          = NewKind(KindIdentity, "invalid authority")
	ErrInvalidProof              = NewKind(KindIdentity, "invalid proof")
	ErrInvalidProofType          = NewKind(KindIdentity, "invalid proof type")
	ErrProgramNotWhitelisted     = NewKind(KindIdentity, "program not whitelisted")
	ErrEscrowOwnerNotWhitelisted = NewKind(KindIdentity, "escrow owner not whitelisted")
	ErrProposalMustBeActive      = NewKind(KindIdentity, "proposal must be active")

	ErrMathOverflow      = NewKind(KindArithmetic, "math overflow")
	ErrInvariantViolated = NewKind(KindArithmetic, "invariant violated")

	ErrInsufficientFunds       = NewKind(KindInsufficiency, "insufficient funds")
	ErrEscrowNoBalance         = NewKind(KindInsufficiency, "escrow has no balance")
	ErrClaimError              = NewKind(KindInsufficiency, "nothing to claim")
	ErrInsufficientVotingPower = NewKind(KindInsufficiency, "insufficient voting power")
)
