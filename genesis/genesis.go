// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes an initial state in YAML and applies it to a fresh engine.
package genesis

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/lockvest/locker"
	"github.com/vechain/lockvest/locker/admission"
	"github.com/vechain/lockvest/thor"
)

// Identity names an address. Hex strings are taken literally, anything else is a name
// the address is derived from.
type Identity string

// Address resolves the identity. The empty identity is the zero address.
func (id Identity) Address() (thor.Address, error) {
	s := string(id)
	switch {
	case s == "":
		return thor.Address{}, nil
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return thor.Address{}, errors.Wrapf(err, "identity %q", s)
		}
		return *addr, nil
	default:
		return NamedAddress(s), nil
	}
}

// NamedAddress returns the address of a named genesis identity.
func NamedAddress(name string) thor.Address {
	return thor.DeriveAddress("genesis", []byte(name))
}

// Config is the initial state.
type Config struct {
	Mints         []Mint         `yaml:"mints"`
	Balances      []Balance      `yaml:"balances"`
	Lockers       []Locker       `yaml:"lockers"`
	LegacyLockers []LegacyLocker `yaml:"legacyLockers"`
	StakePools    []StakePool    `yaml:"stakePools"`
}

// Mint defines a token. Balances and treasuries are minted by its authority.
type Mint struct {
	Name      Identity `yaml:"name"`
	Authority Identity `yaml:"authority"`
	Decimals  uint8    `yaml:"decimals"`
}

// Balance funds the canonical account of owner.
type Balance struct {
	Owner  Identity `yaml:"owner"`
	Mint   Identity `yaml:"mint"`
	Amount uint64   `yaml:"amount"`
}

// StakePool defines a linear vesting pool. The entitlement mint authority is handed
// to the pool once every other record has been created.
type StakePool struct {
	Owner        Identity   `yaml:"owner"`
	Principal    Identity   `yaml:"principal"`
	Entitlement  Identity   `yaml:"entitlement"`
	StartsAt     uint64     `yaml:"startsAt"`
	StartsIn     uint64     `yaml:"startsIn"`
	PeriodLength uint64     `yaml:"periodLength"`
	MaxPeriods   uint8      `yaml:"maxPeriods"`
	Holders      []Identity `yaml:"holders"`
}

// LockerParams mirror locker.Params.
type LockerParams struct {
	MinStakeDuration           uint64 `yaml:"minStakeDuration"`
	MaxStakeDuration           uint64 `yaml:"maxStakeDuration"`
	WhitelistEnabled           bool   `yaml:"whitelistEnabled"`
	Multiplier                 uint8  `yaml:"multiplier"`
	ProposalActivationMinVotes uint64 `yaml:"proposalActivationMinVotes"`
	NFTStakeDurationUnit       uint64 `yaml:"nftStakeDurationUnit"`
	NFTStakeBaseReward         uint64 `yaml:"nftStakeBaseReward"`
	NFTStakeDurationCount      uint64 `yaml:"nftStakeDurationCount"`
	NFTRewardHalvingStartsAt   uint64 `yaml:"nftRewardHalvingStartsAt"`
}

func (p LockerParams) params() locker.Params {
	return locker.Params{
		MinStakeDuration:           p.MinStakeDuration,
		MaxStakeDuration:           p.MaxStakeDuration,
		WhitelistEnabled:           p.WhitelistEnabled,
		Multiplier:                 p.Multiplier,
		ProposalActivationMinVotes: p.ProposalActivationMinVotes,
		NFTParams: locker.NFTParams{
			NFTStakeDurationUnit:     p.NFTStakeDurationUnit,
			NFTStakeBaseReward:       p.NFTStakeBaseReward,
			NFTStakeDurationCount:    p.NFTStakeDurationCount,
			NFTRewardHalvingStartsAt: p.NFTRewardHalvingStartsAt,
		},
	}
}

// WhitelistEntry admits program for owner, or for everyone when owner is empty.
type WhitelistEntry struct {
	Program Identity `yaml:"program"`
	Owner   Identity `yaml:"owner"`
}

// Proof admits the instruments of a mint or a creator. Type is "mint", "creator"
// or both joined by "|".
type Proof struct {
	Address Identity `yaml:"address"`
	Type    string   `yaml:"type"`
}

func parseProofType(s string) (admission.ProofType, error) {
	var t admission.ProofType
	for _, part := range strings.Split(s, "|") {
		switch strings.TrimSpace(part) {
		case "mint":
			t |= admission.ProofMint
		case "creator":
			t |= admission.ProofCreator
		default:
			return 0, fmt.Errorf("unknown proof type %q", part)
		}
	}
	return t, nil
}

// Locker defines a governed locker with its treasury, side tables and escrows.
type Locker struct {
	Base      Identity         `yaml:"base"`
	Mint      Identity         `yaml:"mint"`
	Governor  Identity         `yaml:"governor"`
	Params    LockerParams     `yaml:"params"`
	Treasury  uint64           `yaml:"treasury"`
	Whitelist []WhitelistEntry `yaml:"whitelist"`
	Proofs    []Proof          `yaml:"proofs"`
	Escrows   []Identity       `yaml:"escrows"`
}

// LegacyParams mirror locker.ParamsV1.
type LegacyParams struct {
	MinStakeDuration uint64 `yaml:"minStakeDuration"`
	MaxStakeDuration uint64 `yaml:"maxStakeDuration"`
	WhitelistEnabled bool   `yaml:"whitelistEnabled"`
	Multiplier       uint8  `yaml:"multiplier"`
}

// LegacyPosition is a v1 escrow funded from the balance of its owner.
type LegacyPosition struct {
	Owner     Identity `yaml:"owner"`
	Amount    uint64   `yaml:"amount"`
	StartedAt uint64   `yaml:"startedAt"`
	EndsAt    uint64   `yaml:"endsAt"`
}

// LegacyLocker is an admin governed v1 locker awaiting migration.
type LegacyLocker struct {
	Base      Identity         `yaml:"base"`
	Mint      Identity         `yaml:"mint"`
	Admin     Identity         `yaml:"admin"`
	Params    LegacyParams     `yaml:"params"`
	Positions []LegacyPosition `yaml:"positions"`
	Whitelist []WhitelistEntry `yaml:"whitelist"`
}

// Parse decodes a genesis config. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return &cfg, nil
}

// Load reads and decodes the genesis config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}
