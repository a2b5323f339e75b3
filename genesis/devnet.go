// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	_ "embed"
)

//go:embed devnet.yaml
var devnetConfig []byte

// NewDevnet returns the config of a local development state.
func NewDevnet() *Config {
	cfg, err := Parse(devnetConfig)
	if err != nil {
		panic(err)
	}
	return cfg
}
