// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package store is the journaled record store. Writes are buffered in a stack of
// checkpoints and only reach the kv backend, in one atomic bulk, on Commit.
package store

import (
	"github.com/pkg/errors"

	"github.com/vechain/lockvest/cache"
	"github.com/vechain/lockvest/kv"
	"github.com/vechain/lockvest/stackedmap"
)

const (
	recordBucket = kv.Bucket("r/")
	metaBucket   = kv.Bucket("m/")

	defaultCacheSize = 4096
)

// Store buffers record writes over a kv store.
type Store struct {
	records kv.Store
	meta    kv.Store
	cache   *cache.LRU[string, []byte]
	sm      *stackedmap.StackedMap[string, []byte]
}

// New creates a store over db. cacheSize <= 0 selects the default.
func New(db kv.Store, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	c, err := cache.NewLRU[string, []byte](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "new record cache")
	}
	s := &Store{
		records: recordBucket.NewStore(db),
		meta:    metaBucket.NewStore(db),
		cache:   c,
	}
	s.sm = stackedmap.New(s.load)
	s.sm.Push()
	return s, nil
}

func (s *Store) load(key string) ([]byte, bool, error) {
	val, err := s.cache.GetOrLoad(key, func(key string) ([]byte, error) {
		val, err := s.records.Get([]byte(key))
		if err != nil {
			if s.records.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return val, nil
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "load record")
	}
	return val, len(val) > 0, nil
}

// Get returns the record value, or nil if absent.
func (s *Store) Get(key []byte) ([]byte, error) {
	val, _, err := s.sm.Get(string(key))
	if err != nil {
		return nil, err
	}
	if len(val) == 0 {
		return nil, nil
	}
	return val, nil
}

// Has returns whether the record exists.
func (s *Store) Has(key []byte) (bool, error) {
	val, err := s.Get(key)
	return val != nil, err
}

// Put buffers a record write.
func (s *Store) Put(key, val []byte) {
	s.sm.Put(string(key), append([]byte(nil), val...))
}

// Delete buffers a record removal.
func (s *Store) Delete(key []byte) {
	s.sm.Put(string(key), nil)
}

// Checkpoint opens a new checkpoint and returns the id to revert to.
func (s *Store) Checkpoint() int {
	return s.sm.Push()
}

// RevertTo drops every write made since the checkpoint was opened.
func (s *Store) RevertTo(checkpoint int) {
	// the base level always stays
	s.sm.PopTo(max(checkpoint, 1))
}

// Commit flushes all buffered writes to the backend in one atomic bulk and
// returns the number of records written.
func (s *Store) Commit() (int, error) {
	var (
		bulk    = s.records.Bulk()
		written = make(map[string][]byte)
		err     error
	)
	s.sm.Journal(func(key string, val []byte) bool {
		written[key] = val
		if len(val) == 0 {
			err = bulk.Delete([]byte(key))
		} else {
			err = bulk.Put([]byte(key), val)
		}
		return err == nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "stage records")
	}
	if err := bulk.Write(); err != nil {
		return 0, errors.Wrap(err, "commit records")
	}
	for key, val := range written {
		s.cache.Add(key, val)
	}
	s.sm.PopTo(0)
	s.sm.Push()
	return len(written), nil
}

// Pending returns the number of distinct records buffered since the last commit.
func (s *Store) Pending() int {
	keys := make(map[string]struct{})
	s.sm.Journal(func(key string, _ []byte) bool {
		keys[key] = struct{}{}
		return true
	})
	return len(keys)
}

// CacheStats returns the record cache hits and misses.
func (s *Store) CacheStats() (hit, miss int64) {
	return s.cache.Stats()
}

// ForEach calls fn with every committed record in key order.
func (s *Store) ForEach(fn func(key, val []byte) error) error {
	iter := s.records.Iterate(kv.Range{})
	defer iter.Release()

	for iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return errors.Wrap(iter.Error(), "iterate records")
}

// GetMeta reads a committed metadata entry, or nil if absent.
func (s *Store) GetMeta(key string) ([]byte, error) {
	val, err := s.meta.Get([]byte(key))
	if err != nil {
		if s.meta.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get meta")
	}
	return val, nil
}

// PutMeta writes a metadata entry straight to the backend.
func (s *Store) PutMeta(key string, val []byte) error {
	return errors.Wrap(s.meta.Put([]byte(key), val), "put meta")
}
