// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockvest/lvldb"
	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/store"
	"github.com/vechain/lockvest/thor"
)

type testRecord struct {
	Owner  thor.Address
	Amount uint64
	Flag   bool
}

func newTestStore(t *testing.T) *store.Store {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s, err := store.New(db, 0)
	require.NoError(t, err)
	return s
}

func TestMapping_Lifecycle(t *testing.T) {
	m := NewMapping[thor.Address, testRecord](newTestStore(t), thor.Slot("records"))
	key := thor.BytesToAddress([]byte("alice"))

	got, err := m.Get(key)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, m.Update(key, &testRecord{}), reverts.ErrNotFound)
	assert.ErrorIs(t, m.Delete(key), reverts.ErrNotFound)

	rec := &testRecord{Owner: key, Amount: 7, Flag: true}
	require.NoError(t, m.Insert(key, rec))
	assert.ErrorIs(t, m.Insert(key, rec), reverts.ErrAlreadyExists)

	got, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	got.Amount = 8
	require.NoError(t, m.Update(key, got))
	got, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), got.Amount)

	require.NoError(t, m.Delete(key))
	exists, err := m.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)

	// a deleted key can be recreated
	require.NoError(t, m.Upsert(key, rec))
	exists, err = m.Exists(key)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMapping_SlotsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	a := NewMapping[thor.Address, testRecord](s, thor.Slot("a"))
	b := NewMapping[thor.Address, testRecord](s, thor.Slot("b"))
	key := thor.BytesToAddress([]byte("k"))

	require.NoError(t, a.Insert(key, &testRecord{Amount: 1}))
	got, err := b.Get(key)
	require.NoError(t, err)
	assert.Nil(t, got)
}
