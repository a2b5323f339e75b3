// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockvest/genesis"
	"github.com/vechain/lockvest/locker"
	"github.com/vechain/lockvest/oplog"
	"github.com/vechain/lockvest/thor"
)

func TestReadIntFromUInt64Flag(t *testing.T) {
	tests := []struct {
		name    string
		input   uint64
		want    int
		wantErr bool
	}{
		{"zero", 0, 0, false},
		{"info", 3, 3, false},
		{"max int", uint64(math.MaxInt), math.MaxInt, false},
		{"overflow", uint64(math.MaxInt) + 1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readIntFromUInt64Flag(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeCacheSize(t *testing.T) {
	assert.Equal(t, 16, normalizeCacheSize(0))
	assert.Equal(t, 16, normalizeCacheSize(-5))
	assert.Equal(t, 32, normalizeCacheSize(32))
}

func TestParseLocker(t *testing.T) {
	addr, err := parseLocker("alice")
	require.NoError(t, err)
	assert.Equal(t, locker.PoolAddress(genesis.NamedAddress("alice")), addr)

	hex := "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
	addr, err = parseLocker(hex)
	require.NoError(t, err)
	assert.Equal(t, thor.MustParseAddress(hex), addr)

	_, err = parseLocker("0x12")
	assert.Error(t, err)

	_, err = parseIdentity("")
	assert.EqualError(t, err, "missing address")
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, []*oplog.Entry{{
		Seq:     7,
		Op:      "locker.exit",
		At:      1_700_000_000,
		Subject: genesis.NamedAddress("alice"),
		Amount:  1000,
		Outcome: "temporal",
		Elapsed: 1500 * time.Microsecond,
	}})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "     7  2023-11-14T22:13:20Z  locker.exit"))
	assert.Contains(t, out, "temporal")
	assert.Contains(t, out, genesis.NamedAddress("alice").String())
	assert.Contains(t, out, "amount=1000")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestDump(t *testing.T) {
	inst := newMemInstance(t)
	res, err := genesis.NewDevnet().Apply(inst.engine, nil)
	require.NoError(t, err)
	alice := genesis.NamedAddress("alice")
	bob := genesis.NamedAddress("bob")

	var buf bytes.Buffer
	require.NoError(t, dumpLocker(&buf, inst.engine, res.Lockers[0], nil, -1))
	assert.Contains(t, buf.String(), "(*locker.Pool)")

	buf.Reset()
	require.NoError(t, dumpLocker(&buf, inst.engine, res.Lockers[0], &alice, -1))
	assert.Contains(t, buf.String(), "(*locker.Position)")
	assert.Contains(t, buf.String(), "voting power at 1700000000: ")

	assert.Error(t, dumpLocker(&buf, inst.engine, res.Lockers[0], &alice, 99))
	assert.Error(t, dumpLocker(&buf, inst.engine, thor.Address{}, nil, -1))

	buf.Reset()
	require.NoError(t, dumpStakePool(&buf, inst.engine, res.StakePools[0], nil))
	assert.Contains(t, buf.String(), "(*stakepool.Pool)")

	buf.Reset()
	require.NoError(t, dumpStakePool(&buf, inst.engine, res.StakePools[0], &alice))
	assert.Contains(t, buf.String(), "claimable at 1700000000: 0 over 0 periods")

	assert.Error(t, dumpStakePool(&buf, inst.engine, res.StakePools[0], &bob))
}
