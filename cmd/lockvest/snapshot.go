// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"
	pkgerrors "github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lockvest/log"
	"github.com/vechain/lockvest/store"
)

var snapshotMagic = []byte("lockvest-snapshot/1\n")

// records are committed in chunks while importing
const importChunkSize = 4096

func writeChunk(w io.Writer, data []byte) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], uint64(len(data)))
	if _, err := w.Write(buf[:n]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

func readChunk(r *bufio.Reader) ([]byte, error) {
	size, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

// writeSnapshot writes the genesis meta and every committed record of s.
// It returns the number of records written.
func writeSnapshot(w io.Writer, s *store.Store) (int, error) {
	meta, err := s.GetMeta(genesisMetaKey)
	if err != nil {
		return 0, err
	}
	if meta == nil {
		return 0, errors.New("store is not initialized")
	}

	sw := snappy.NewBufferedWriter(w)
	if _, err := sw.Write(snapshotMagic); err != nil {
		return 0, err
	}
	if err := writeChunk(sw, meta); err != nil {
		return 0, err
	}
	count := 0
	if err := s.ForEach(func(key, val []byte) error {
		if err := writeChunk(sw, key); err != nil {
			return err
		}
		count++
		return writeChunk(sw, val)
	}); err != nil {
		return 0, err
	}
	return count, pkgerrors.Wrap(sw.Close(), "flush snapshot")
}

// readSnapshot loads a snapshot into s, which must be empty.
func readSnapshot(r io.Reader, s *store.Store) (int, error) {
	existing, err := s.GetMeta(genesisMetaKey)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, errors.New("store is already initialized")
	}

	br := bufio.NewReader(snappy.NewReader(r))
	magic := make([]byte, len(snapshotMagic))
	if _, err := io.ReadFull(br, magic); err != nil || !bytes.Equal(magic, snapshotMagic) {
		return 0, errors.New("not a snapshot")
	}
	meta, err := readChunk(br)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "read genesis meta")
	}

	count := 0
	for {
		key, err := readChunk(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, pkgerrors.Wrapf(err, "read record %d", count)
		}
		val, err := readChunk(br)
		if err != nil {
			return 0, pkgerrors.Wrapf(err, "read record %d", count)
		}
		s.Put(key, val)
		count++
		if count%importChunkSize == 0 {
			if _, err := s.Commit(); err != nil {
				return 0, err
			}
		}
	}
	if _, err := s.Commit(); err != nil {
		return 0, err
	}
	// meta goes last so a partial import is never taken for an initialized store
	return count, s.PutMeta(genesisMetaKey, meta)
}

func exportAction(ctx *cli.Context) error {
	path := ctx.String(fileFlag.Name)
	if path == "" {
		return fmt.Errorf("missing -%s", fileFlag.Name)
	}
	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	count, err := writeSnapshot(f, inst.store)
	if err != nil {
		return err
	}
	log.Info("snapshot exported", "file", path, "records", count)
	return f.Sync()
}

func importAction(ctx *cli.Context) error {
	path := ctx.String(fileFlag.Name)
	if path == "" {
		return fmt.Errorf("missing -%s", fileFlag.Name)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	count, err := readSnapshot(f, inst.store)
	if err != nil {
		return err
	}
	log.Info("snapshot imported", "file", path, "records", count)
	return nil
}
