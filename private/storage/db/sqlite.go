// Copyright 2025 ETH Zurich, Anapaya Systems
// Copyright 2026 The sdnroute Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package db contains the sqlite connection handling shared by the
// controller's storage backends.
package db

import (
	"context"
	"database/sql"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

// Reader is the read-only subset of *sql.DB.
type Reader interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Stats() sql.DBStats
}

// SqliteConfig allows configuring the sqlite database instance.
type SqliteConfig struct {
	MaxOpenReadConns int
	MaxIdleReadConns int
	// InMemory opens a named shared-cache memory database. Used in tests.
	InMemory bool
}

// Sqlite holds a single-connection write pool and a read pool on the same
// database file. Full may be used for any statement, ReadOnly only for
// queries.
type Sqlite struct {
	Full     *sql.DB
	ReadOnly Reader
}

// NewSqlite opens the sqlite database at path. Transactions are started with
// BEGIN IMMEDIATE and the journal runs in WAL mode so that readers do not
// block the writer.
func NewSqlite(path string, cfg *SqliteConfig) (*Sqlite, error) {
	var c SqliteConfig
	if cfg != nil {
		c = *cfg
	}
	// With a shared cache, ":memory:" would hand the same database to
	// unrelated callers.
	if strings.Contains(path, ":memory:") {
		return nil, serrors.New("use explicitly named memory database", "path", path)
	}
	name, hasScheme := strings.CutPrefix(path, "file:")

	params := make(url.Values)
	addPragmas(params)
	if c.InMemory {
		registerMemoryDB(name)
		params.Add("mode", "memory")
		params.Add("cache", "shared")
	}
	conn := path + "?" + params.Encode()
	if !hasScheme {
		conn = "file:" + conn
	}

	write, err := sql.Open(driverName(), conn)
	if err != nil {
		return nil, serrors.Wrap("opening write database", err, "path", path)
	}
	write.SetMaxOpenConns(1)

	read, err := sql.Open(driverName(), conn)
	if err != nil {
		write.Close()
		return nil, serrors.Wrap("opening read database", err, "path", path)
	}
	if c.MaxOpenReadConns == 0 {
		c.MaxOpenReadConns = max(4, runtime.NumCPU())
	}
	read.SetMaxOpenConns(c.MaxOpenReadConns)
	if c.MaxIdleReadConns != 0 {
		read.SetMaxIdleConns(c.MaxIdleReadConns)
	}

	db := &Sqlite{Full: write, ReadOnly: read}
	if c.InMemory {
		runtime.AddCleanup(db, unregisterMemoryDB, name)
	}
	return db, nil
}

// Setup applies schema to a fresh database and records schemaVersion in
// PRAGMA user_version. An existing database must carry the same version.
func (db *Sqlite) Setup(schema string, schemaVersion int) error {
	var existing int
	if err := db.Full.QueryRow("PRAGMA user_version;").Scan(&existing); err != nil {
		return NewReadError("checking schema version", err)
	}
	switch existing {
	case 0:
		if _, err := db.Full.Exec(schema); err != nil {
			return NewWriteError("applying schema", err)
		}
		if _, err := db.Full.Exec("PRAGMA user_version = " + strconv.Itoa(schemaVersion)); err != nil {
			return NewWriteError("writing schema version", err)
		}
		return nil
	case schemaVersion:
		return nil
	default:
		return serrors.New("database schema version mismatch",
			"expected", schemaVersion, "actual", existing)
	}
}

// Close closes both connection pools.
func (db *Sqlite) Close() error {
	var errs serrors.List
	if err := db.Full.Close(); err != nil {
		errs = append(errs, serrors.Wrap("closing write db", err))
	}
	if err := db.ReadOnly.(*sql.DB).Close(); err != nil {
		errs = append(errs, serrors.Wrap("closing read db", err))
	}
	return errs.ToError()
}

// memoryDBs tracks the named in-memory databases in use. Two handles on the
// same name would silently share state.
var memoryDBs = struct {
	mtx   sync.Mutex
	names map[string]struct{}
}{
	names: make(map[string]struct{}),
}

func registerMemoryDB(name string) {
	memoryDBs.mtx.Lock()
	defer memoryDBs.mtx.Unlock()
	if _, ok := memoryDBs.names[name]; ok {
		panic("memory database " + name + " already exists")
	}
	memoryDBs.names[name] = struct{}{}
}

func unregisterMemoryDB(name string) {
	memoryDBs.mtx.Lock()
	defer memoryDBs.mtx.Unlock()
	delete(memoryDBs.names, name)
}
