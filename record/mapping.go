// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package record

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/lockvest/reverts"
	"github.com/vechain/lockvest/store"
	"github.com/vechain/lockvest/thor"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a typed table of RLP encoded records. Each record lives at
// blake2b(key, basePos), so tables sharing a store never collide.
type Mapping[K Key, V any] struct {
	store   *store.Store
	basePos thor.Bytes32
}

func NewMapping[K Key, V any](s *store.Store, pos thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{store: s, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) []byte {
	pos := thor.Blake2b(key.Bytes(), m.basePos.Bytes())
	return pos.Bytes()
}

// Get returns the record, or nil if there is none.
func (m *Mapping[K, V]) Get(key K) (*V, error) {
	raw, err := m.store.Get(m.position(key))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	value := new(V)
	if err := rlp.DecodeBytes(raw, value); err != nil {
		return nil, errors.Wrap(err, "decode record")
	}
	return value, nil
}

// Exists reports whether a record is stored at key.
func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	return m.store.Has(m.position(key))
}

// Insert creates a record. It fails if one already exists.
func (m *Mapping[K, V]) Insert(key K, value *V) error {
	exists, err := m.Exists(key)
	if err != nil {
		return err
	}
	if exists {
		return reverts.ErrAlreadyExists
	}
	return m.set(key, value)
}

// Update overwrites an existing record.
func (m *Mapping[K, V]) Update(key K, value *V) error {
	exists, err := m.Exists(key)
	if err != nil {
		return err
	}
	if !exists {
		return reverts.ErrNotFound
	}
	return m.set(key, value)
}

// Upsert creates or overwrites a record.
func (m *Mapping[K, V]) Upsert(key K, value *V) error {
	return m.set(key, value)
}

// Delete removes an existing record.
func (m *Mapping[K, V]) Delete(key K) error {
	exists, err := m.Exists(key)
	if err != nil {
		return err
	}
	if !exists {
		return reverts.ErrNotFound
	}
	m.store.Delete(m.position(key))
	return nil
}

func (m *Mapping[K, V]) set(key K, value *V) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrap(err, "encode record")
	}
	m.store.Put(m.position(key), raw)
	return nil
}
