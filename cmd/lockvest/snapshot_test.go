// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockvest/clock"
	"github.com/vechain/lockvest/engine"
	"github.com/vechain/lockvest/genesis"
	"github.com/vechain/lockvest/lvldb"
	"github.com/vechain/lockvest/store"
)

func newMemInstance(t *testing.T) *instance {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s, err := store.New(db, 0)
	require.NoError(t, err)
	return &instance{
		dir:    "mem",
		db:     db,
		store:  s,
		engine: engine.New(s, clock.NewFixed(1_700_000_000), nil),
	}
}

func records(t *testing.T, s *store.Store) map[string]string {
	all := make(map[string]string)
	require.NoError(t, s.ForEach(func(key, val []byte) error {
		all[string(key)] = string(val)
		return nil
	}))
	return all
}

func TestSnapshot(t *testing.T) {
	src := newMemInstance(t)

	var buf bytes.Buffer
	_, err := writeSnapshot(&buf, src.store)
	assert.EqualError(t, err, "store is not initialized")

	res, err := genesis.NewDevnet().Apply(src.engine, nil)
	require.NoError(t, err)
	require.NoError(t, src.saveGenesisResult(res))

	buf.Reset()
	written, err := writeSnapshot(&buf, src.store)
	require.NoError(t, err)
	assert.NotZero(t, written)

	dst := newMemInstance(t)
	read, err := readSnapshot(bytes.NewReader(buf.Bytes()), dst.store)
	require.NoError(t, err)
	assert.Equal(t, written, read)
	assert.Equal(t, records(t, src.store), records(t, dst.store))

	got, err := dst.mustInitialized()
	require.NoError(t, err)
	assert.Equal(t, res, got)

	// importing twice is refused
	_, err = readSnapshot(bytes.NewReader(buf.Bytes()), dst.store)
	assert.EqualError(t, err, "store is already initialized")
}

func TestReadSnapshotRejectsGarbage(t *testing.T) {
	var buf bytes.Buffer
	_, err := readSnapshot(&buf, newMemInstance(t).store)
	assert.EqualError(t, err, "not a snapshot")

	_, err = readSnapshot(bytes.NewReader([]byte("lockvest-snapshot/1\n")), newMemInstance(t).store)
	assert.EqualError(t, err, "not a snapshot")
}
