// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package oplog keeps the history of executed operations in sqlite.
package oplog

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/lockvest/thor"
)

const schema = `CREATE TABLE IF NOT EXISTS operation (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	op TEXT NOT NULL,
	at INTEGER NOT NULL,
	subject BLOB NOT NULL,
	amount BLOB NOT NULL,
	outcome TEXT NOT NULL,
	elapsed INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS operation_subject ON operation(subject);
CREATE INDEX IF NOT EXISTS operation_op ON operation(op);`

// Entry is one executed operation.
type Entry struct {
	Seq     int64
	ID      string
	Op      string
	At      uint64
	Subject thor.Address
	Amount  uint64
	Outcome string
	Elapsed time.Duration
}

// Filter selects entries. Zero fields match everything.
type Filter struct {
	Subject *thor.Address
	Op      string
	Outcome string
	Limit   int
}

// OpLog is the operation history database.
type OpLog struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New opens the history database at path.
func New(path string) (*OpLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open oplog")
	}
	// in-memory databases live per connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create oplog schema")
	}
	driverVer, _, _ := sqlite3.Version()
	return &OpLog{
		path:          path,
		db:            db,
		driverVersion: driverVer,
	}, nil
}

// NewMem creates an in-memory history.
func NewMem() (*OpLog, error) {
	return New(":memory:")
}

// Path returns the database path.
func (o *OpLog) Path() string {
	return o.path
}

// DriverVersion returns the sqlite version in use.
func (o *OpLog) DriverVersion() string {
	return o.driverVersion
}

// Close closes the database.
func (o *OpLog) Close() error {
	return o.db.Close()
}

func encodeAmount(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

// Insert appends entries in one transaction.
func (o *OpLog) Insert(entries ...*Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := o.db.Begin()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := tx.Exec("INSERT INTO operation(id, op, at, subject, amount, outcome, elapsed) VALUES (?, ?, ?, ?, ?, ?, ?)",
			e.ID,
			e.Op,
			int64(e.At),
			e.Subject.Bytes(),
			encodeAmount(e.Amount),
			e.Outcome,
			e.Elapsed.Microseconds(),
		); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "insert %v", e.ID)
		}
	}
	return tx.Commit()
}

// Query returns the entries matching filter, newest first.
func (o *OpLog) Query(filter Filter) ([]*Entry, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Subject != nil {
		conds = append(conds, "subject = ?")
		args = append(args, filter.Subject.Bytes())
	}
	if filter.Op != "" {
		conds = append(conds, "op = ?")
		args = append(args, filter.Op)
	}
	if filter.Outcome != "" {
		conds = append(conds, "outcome = ?")
		args = append(args, filter.Outcome)
	}

	stmt := "SELECT seq, id, op, at, subject, amount, outcome, elapsed FROM operation"
	if len(conds) > 0 {
		stmt += " WHERE " + strings.Join(conds, " AND ")
	}
	stmt += " ORDER BY seq DESC"
	if filter.Limit > 0 {
		stmt += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := o.db.Query(stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			e       Entry
			at      int64
			subject []byte
			amount  []byte
			elapsed int64
		)
		if err := rows.Scan(
			&e.Seq,
			&e.ID,
			&e.Op,
			&at,
			&subject,
			&amount,
			&e.Outcome,
			&elapsed,
		); err != nil {
			return nil, err
		}
		e.At = uint64(at)
		e.Subject = thor.BytesToAddress(subject)
		if len(amount) == 8 {
			e.Amount = binary.BigEndian.Uint64(amount)
		}
		e.Elapsed = time.Duration(elapsed) * time.Microsecond
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
