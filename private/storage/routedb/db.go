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

// Package routedb stores the multicast Pareto fronts and the fault recovery
// log in sqlite.
package routedb

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/private/storage/db"
)

// Solution is one member of a Pareto front.
type Solution struct {
	Delay     float64
	Loss      float64
	Bandwidth float64
	// Branches holds the switch path from the source to every destination.
	Branches [][]addr.DPID
}

// Front is the non-dominated solution set computed for one multicast group.
type Front struct {
	Src       addr.DPID
	Dsts      []addr.DPID
	Solutions []Solution
	Created   time.Time
}

// Recovery is one entry of the recovery log.
type Recovery struct {
	Category string
	Request  string
	Outcome  string
	Elapsed  time.Duration
	Created  time.Time
}

// Backend is the sqlite backed route database.
type Backend struct {
	db *db.Sqlite
}

// New returns a new SQLite backend opening a database at the given path. If
// no database exists a new database is created. If the schema version of the
// stored database is different from the one in schema.go, an error is returned.
func New(path string, cfg *db.SqliteConfig) (*Backend, error) {
	d, err := db.NewSqlite(path, cfg)
	if err != nil {
		return nil, err
	}
	if err := d.Setup(Schema, SchemaVersion); err != nil {
		d.Close()
		return nil, err
	}
	return &Backend{db: d}, nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// InsertFront stores all solutions of the front under one creation time.
func (b *Backend) InsertFront(ctx context.Context, f Front) error {
	created := f.Created
	if created.IsZero() {
		created = time.Now()
	}
	tx, err := b.db.Full.BeginTx(ctx, nil)
	if err != nil {
		return db.NewTxError("begin", err)
	}
	defer tx.Rollback()
	const query = `INSERT INTO pareto_fronts
		(src, dsts, delay, loss, bandwidth, path_json, created)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	group := groupKey(f.Dsts)
	for _, s := range f.Solutions {
		raw, err := json.Marshal(s.Branches)
		if err != nil {
			return db.NewInputDataError("encoding branches", err)
		}
		_, err = tx.ExecContext(ctx, query, int64(f.Src), group, s.Delay, s.Loss,
			s.Bandwidth, string(raw), created.UnixNano())
		if err != nil {
			return db.NewWriteError("inserting front", err, "src", f.Src)
		}
	}
	if err := tx.Commit(); err != nil {
		return db.NewTxError("commit", err)
	}
	return nil
}

// LatestFront returns the most recent front stored for the group. The
// returned front has no solutions if none is stored.
func (b *Backend) LatestFront(ctx context.Context, src addr.DPID,
	dsts []addr.DPID) (Front, error) {

	group := groupKey(dsts)
	const query = `SELECT delay, loss, bandwidth, path_json, created FROM pareto_fronts
		WHERE src = ?1 AND dsts = ?2 AND created = (
			SELECT MAX(created) FROM pareto_fronts WHERE src = ?1 AND dsts = ?2
		)
		ORDER BY delay, id`
	rows, err := b.db.ReadOnly.QueryContext(ctx, query, int64(src), group)
	if err != nil {
		return Front{}, db.NewReadError("selecting front", err, "src", src)
	}
	defer rows.Close()
	f := Front{Src: src, Dsts: sortedCopy(dsts)}
	for rows.Next() {
		var s Solution
		var raw string
		var created int64
		if err := rows.Scan(&s.Delay, &s.Loss, &s.Bandwidth, &raw, &created); err != nil {
			return Front{}, db.NewReadError("scanning front", err)
		}
		if err := json.Unmarshal([]byte(raw), &s.Branches); err != nil {
			return Front{}, db.NewDataError("decoding branches", err)
		}
		f.Created = time.Unix(0, created)
		f.Solutions = append(f.Solutions, s)
	}
	if err := rows.Err(); err != nil {
		return Front{}, db.NewReadError("iterating front", err)
	}
	return f, nil
}

// InsertRecovery appends an entry to the recovery log.
func (b *Backend) InsertRecovery(ctx context.Context, r Recovery) error {
	created := r.Created
	if created.IsZero() {
		created = time.Now()
	}
	const query = `INSERT INTO recoveries (category, request, outcome, elapsed_ms, created)
		VALUES (?, ?, ?, ?, ?)`
	_, err := b.db.Full.ExecContext(ctx, query, r.Category, r.Request, r.Outcome,
		float64(r.Elapsed)/float64(time.Millisecond), created.UnixNano())
	if err != nil {
		return db.NewWriteError("inserting recovery", err, "category", r.Category)
	}
	return nil
}

// Recoveries returns up to limit entries of the recovery log, newest first.
// A limit of zero or less returns all entries.
func (b *Backend) Recoveries(ctx context.Context, limit int) ([]Recovery, error) {
	if limit <= 0 {
		limit = -1
	}
	const query = `SELECT category, request, outcome, elapsed_ms, created FROM recoveries
		ORDER BY created DESC, id DESC LIMIT ?`
	rows, err := b.db.ReadOnly.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, db.NewReadError("selecting recoveries", err)
	}
	defer rows.Close()
	var res []Recovery
	for rows.Next() {
		var r Recovery
		var elapsed float64
		var created int64
		if err := rows.Scan(&r.Category, &r.Request, &r.Outcome, &elapsed, &created); err != nil {
			return nil, db.NewReadError("scanning recovery", err)
		}
		r.Elapsed = time.Duration(elapsed * float64(time.Millisecond))
		r.Created = time.Unix(0, created)
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, db.NewReadError("iterating recoveries", err)
	}
	return res, nil
}

// DeleteExpired deletes fronts and recovery entries created before the given
// time. It returns the number of deleted rows.
func (b *Backend) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	tx, err := b.db.Full.BeginTx(ctx, nil)
	if err != nil {
		return 0, db.NewTxError("begin", err)
	}
	defer tx.Rollback()
	var total int64
	for _, table := range []string{"pareto_fronts", "recoveries"} {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE created < ?", before.UnixNano())
		if err != nil {
			return 0, db.NewWriteError("deleting expired", err, "table", table)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, db.NewWriteError("counting deleted", err, "table", table)
		}
		total += n
	}
	if err := tx.Commit(); err != nil {
		return 0, db.NewTxError("commit", err)
	}
	return int(total), nil
}

// groupKey is the order independent text form of a destination set.
func groupKey(dsts []addr.DPID) string {
	sorted := sortedCopy(dsts)
	parts := make([]string, 0, len(sorted))
	for _, d := range sorted {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, ",")
}

func sortedCopy(dsts []addr.DPID) []addr.DPID {
	sorted := slices.Clone(dsts)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
