// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.NoError(t, err)
	assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())

	_, err = ParseAddress("7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.NoError(t, err)

	_, err = ParseAddress("1x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.EqualError(t, err, "invalid prefix")

	_, err = ParseAddress("0x7567")
	assert.EqualError(t, err, "invalid length")
}

func TestAddressJSON(t *testing.T) {
	addr := MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	data, err := json.Marshal(&addr)
	assert.NoError(t, err)
	assert.Equal(t, `"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"`, string(data))

	var decoded Address
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
}

func TestDeriveAddress(t *testing.T) {
	a := BytesToAddress([]byte("alice"))
	b := BytesToAddress([]byte("bob"))

	assert.Equal(t, DeriveAddress("Escrow", a.Bytes(), b.Bytes()), DeriveAddress("Escrow", a.Bytes(), b.Bytes()))
	assert.NotEqual(t, DeriveAddress("Escrow", a.Bytes(), b.Bytes()), DeriveAddress("Escrow", b.Bytes(), a.Bytes()))
	assert.NotEqual(t, DeriveAddress("Escrow", a.Bytes()), DeriveAddress("Locker", a.Bytes()))
	assert.False(t, DeriveAddress("Locker", a.Bytes()).IsZero())
}

func TestBlake2b(t *testing.T) {
	joined := Blake2b([]byte("ab"))
	parts := Blake2b([]byte("a"), []byte("b"))
	assert.Equal(t, joined, parts)
	assert.Equal(t, Keccak256([]byte("ab")), Keccak256([]byte("a"), []byte("b")))
	assert.NotEqual(t, Blake2b([]byte("ab")), Keccak256([]byte("ab")))
	assert.Equal(t, BytesToBytes32([]byte("locker")), Slot("locker"))
}
