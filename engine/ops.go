// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"github.com/vechain/lockvest/locker"
	"github.com/vechain/lockvest/locker/admission"
	"github.com/vechain/lockvest/stakepool"
	"github.com/vechain/lockvest/thor"
)

// custody

func (e *Engine) CreateMint(mint, authority thor.Address, decimals uint8) error {
	return e.run("create_mint", mint, func(uint64) error {
		return e.ledger.CreateMint(mint, authority, decimals)
	})
}

func (e *Engine) CreateAccount(owner, mint thor.Address) (addr thor.Address, err error) {
	err = e.run("create_account", owner, func(uint64) error {
		addr, err = e.ledger.CreateAccount(owner, mint)
		return err
	})
	return
}

func (e *Engine) MintTo(mint, to, authority thor.Address, amount uint64) error {
	_, err := e.exec("mint_to", to, func(uint64) (uint64, error) {
		return amount, e.ledger.MintTo(mint, to, authority, amount)
	})
	return err
}

func (e *Engine) Transfer(from, to, authority thor.Address, amount uint64) error {
	_, err := e.exec("transfer", from, func(uint64) (uint64, error) {
		return amount, e.ledger.Transfer(from, to, authority, amount)
	})
	return err
}

// stake pools

func (e *Engine) InitStakePool(owner, principal, entitlement thor.Address, params stakepool.Params) (addr thor.Address, err error) {
	err = e.run("stake_init", owner, func(now uint64) error {
		addr, err = e.stake.Initialize(now, owner, principal, entitlement, params)
		return err
	})
	return
}

func (e *Engine) OpenStakePosition(pool, holder thor.Address) error {
	return e.run("stake_open", holder, func(uint64) error {
		return e.stake.OpenPosition(pool, holder)
	})
}

func (e *Engine) Deposit(pool, holder, source thor.Address, amount uint64) error {
	_, err := e.exec("stake_deposit", holder, func(now uint64) (uint64, error) {
		return amount, e.stake.Deposit(now, pool, holder, source, amount)
	})
	return err
}

func (e *Engine) Claim(pool, holder, destination thor.Address) (uint64, error) {
	return e.exec("stake_claim", holder, func(now uint64) (uint64, error) {
		return e.stake.Claim(now, pool, holder, destination)
	})
}

func (e *Engine) ModifyStakeParams(pool, owner thor.Address, params stakepool.Params) error {
	return e.run("stake_modify_params", pool, func(now uint64) error {
		return e.stake.ModifyParams(now, pool, owner, params)
	})
}

func (e *Engine) SetStakeOwner(pool, owner, newOwner thor.Address) error {
	return e.run("stake_set_owner", pool, func(uint64) error {
		return e.stake.SetOwner(pool, owner, newOwner)
	})
}

func (e *Engine) SetStakeMintAuthority(pool, owner, current thor.Address) error {
	return e.run("stake_set_mint_authority", pool, func(uint64) error {
		return e.stake.SetMintAuthority(pool, owner, current)
	})
}

func (e *Engine) ReclaimStakeMintAuthority(pool, owner, next thor.Address) error {
	return e.run("stake_reclaim_mint_authority", pool, func(uint64) error {
		return e.stake.ReclaimMintAuthority(pool, owner, next)
	})
}

// Vest converts amount of principal into entitlement at the ratio of duration and
// locks the minted entitlement into the escrow of holder in lockPool, all in one
// operation. The locker must hold the entitlement mint of the stake pool.
func (e *Engine) Vest(stakePool, lockPool, holder, source thor.Address, amount, duration uint64) (uint64, error) {
	return e.exec("vest", holder, func(now uint64) (uint64, error) {
		pool, err := e.stake.GetPool(stakePool)
		if err != nil {
			return 0, err
		}
		minted, err := e.stake.Vest(now, stakePool, holder, source, amount, duration)
		if err != nil {
			return 0, err
		}
		vault := stakepool.VaultAddress(pool, stakePool)
		if err := e.locker.Lock(now, lockPool, holder, stakepool.ProgramID, vault, stakepool.AuthorityAddress(stakePool), minted, duration); err != nil {
			return 0, err
		}
		return minted, nil
	})
}

// lockers

func (e *Engine) InitLocker(base, tokenMint, governor thor.Address, params locker.Params) (addr thor.Address, err error) {
	err = e.run("locker_init", base, func(uint64) error {
		addr, err = e.locker.InitLocker(base, tokenMint, governor, params)
		return err
	})
	return
}

func (e *Engine) InitTreasury(pool, governor thor.Address) (addr thor.Address, err error) {
	err = e.run("locker_init_treasury", pool, func(uint64) error {
		addr, err = e.locker.InitTreasury(pool, governor)
		return err
	})
	return
}

func (e *Engine) SetLockerParams(pool, governor thor.Address, params locker.Params) error {
	return e.run("locker_set_params", pool, func(uint64) error {
		return e.locker.SetParams(pool, governor, params)
	})
}

func (e *Engine) InitEscrow(pool, owner thor.Address) (escrow thor.Address, err error) {
	err = e.run("escrow_init", owner, func(uint64) error {
		escrow, err = e.locker.InitPosition(pool, owner)
		return err
	})
	return
}

func (e *Engine) Lock(pool, owner, caller, source, sourceAuthority thor.Address, amount, duration uint64) error {
	_, err := e.exec("lock", owner, func(now uint64) (uint64, error) {
		return amount, e.locker.Lock(now, pool, owner, caller, source, sourceAuthority, amount, duration)
	})
	return err
}

func (e *Engine) Exit(pool, owner, destination thor.Address) (uint64, error) {
	return e.exec("exit", owner, func(now uint64) (uint64, error) {
		return e.locker.Exit(now, pool, owner, destination)
	})
}

func (e *Engine) SetVoteDelegate(pool, owner, delegate thor.Address) error {
	return e.run("set_vote_delegate", owner, func(uint64) error {
		return e.locker.SetVoteDelegate(pool, owner, delegate)
	})
}

func (e *Engine) CloseEscrow(pool, owner thor.Address) error {
	return e.run("escrow_close", owner, func(now uint64) error {
		return e.locker.ClosePosition(now, pool, owner)
	})
}

func (e *Engine) LockNFT(pool, owner, nftMint, nftSource thor.Address, duration uint64) (uint64, error) {
	return e.exec("lock_nft", owner, func(now uint64) (uint64, error) {
		return e.locker.LockNFT(now, pool, owner, nftMint, nftSource, duration)
	})
}

func (e *Engine) ClaimReceipt(pool, owner thor.Address, id uint64, destination thor.Address) (uint64, error) {
	return e.exec("receipt_claim", owner, func(now uint64) (uint64, error) {
		return e.locker.ClaimReceipt(now, pool, owner, id, destination)
	})
}

func (e *Engine) CloseReceipt(pool, owner thor.Address, id uint64) error {
	return e.run("receipt_close", owner, func(now uint64) error {
		return e.locker.CloseReceipt(now, pool, owner, id)
	})
}

// admission

func (e *Engine) ApproveProgram(pool, governor, program, owner thor.Address) error {
	return e.run("whitelist_approve", program, func(uint64) error {
		return e.locker.ApproveProgram(pool, governor, program, owner)
	})
}

func (e *Engine) RevokeProgram(pool, governor, program, owner thor.Address) error {
	return e.run("whitelist_revoke", program, func(uint64) error {
		return e.locker.RevokeProgram(pool, governor, program, owner)
	})
}

func (e *Engine) AddProof(pool, governor, addr thor.Address, proofType admission.ProofType) error {
	return e.run("proof_add", addr, func(uint64) error {
		return e.locker.AddProof(pool, governor, addr, proofType)
	})
}

func (e *Engine) RemoveProof(pool, governor, addr thor.Address) error {
	return e.run("proof_remove", addr, func(uint64) error {
		return e.locker.RemoveProof(pool, governor, addr)
	})
}

func (e *Engine) RegisterInstrument(mint, authority thor.Address, creators []thor.Address) error {
	return e.run("instrument_register", mint, func(uint64) error {
		return e.locker.Admission().RegisterInstrument(mint, authority, creators)
	})
}

func (e *Engine) VerifyCreator(mint, creator thor.Address) error {
	return e.run("instrument_verify_creator", creator, func(uint64) error {
		return e.locker.Admission().VerifyCreator(mint, creator)
	})
}

// governance

func (e *Engine) ActivateProposal(pool, owner thor.Address, gov locker.Governor, proposal thor.Bytes32) error {
	return e.run("proposal_activate", owner, func(now uint64) error {
		return e.locker.ActivateProposal(now, pool, owner, gov, proposal)
	})
}

func (e *Engine) CastVote(pool, owner thor.Address, gov locker.Governor, ballot locker.Ballot) (uint64, error) {
	return e.exec("vote_cast", owner, func(now uint64) (uint64, error) {
		return e.locker.CastVote(now, pool, owner, gov, ballot)
	})
}

// migration

func (e *Engine) MigrateLocker(oldBase, newBase, admin, governor thor.Address, upgrade locker.Upgrade) (addr thor.Address, err error) {
	err = e.run("locker_migrate", newBase, func(uint64) error {
		addr, err = e.locker.MigrateLocker(oldBase, newBase, admin, governor, upgrade)
		return err
	})
	return
}

func (e *Engine) MigratePosition(oldPool, newPool, admin, owner thor.Address) error {
	return e.run("escrow_migrate", owner, func(uint64) error {
		return e.locker.MigratePosition(oldPool, newPool, admin, owner)
	})
}

func (e *Engine) MigrateWhitelist(oldPool, newPool, admin, program, owner thor.Address) error {
	return e.run("whitelist_migrate", program, func(uint64) error {
		return e.locker.MigrateWhitelist(oldPool, newPool, admin, program, owner)
	})
}

// reads

// Claimable returns what Claim would release now.
func (e *Engine) Claimable(pool, holder thor.Address) (amount uint64, err error) {
	err = e.View(func(now uint64) error {
		amount, _, err = e.stake.Claimable(now, pool, holder)
		return err
	})
	return
}

// VotingPower returns the voting weight of the escrow now.
func (e *Engine) VotingPower(pool, owner thor.Address) (power uint64, err error) {
	err = e.View(func(now uint64) error {
		power, err = e.locker.VotingPower(now, pool, owner)
		return err
	})
	return
}

// Balance returns the balance of a token account.
func (e *Engine) Balance(account thor.Address) (amount uint64, err error) {
	err = e.View(func(uint64) error {
		amount, err = e.ledger.Balance(account)
		return err
	})
	return
}
