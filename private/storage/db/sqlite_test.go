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

package db_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdnroute/sdnroute/private/storage/db"
)

const schema = `CREATE TABLE items(id INTEGER PRIMARY KEY, name TEXT NOT NULL);`

func TestRejectsAnonymousMemory(t *testing.T) {
	_, err := db.NewSqlite("file::memory:", nil)
	assert.Error(t, err)
}

func TestSetupVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.NewSqlite(path, nil)
	require.NoError(t, err)
	require.NoError(t, d.Setup(schema, 1))
	_, err = d.Full.Exec(`INSERT INTO items(name) VALUES ('a')`)
	require.NoError(t, err)
	require.NoError(t, d.Close())

	// Reopening with the same version keeps the data.
	d, err = db.NewSqlite(path, nil)
	require.NoError(t, err)
	require.NoError(t, d.Setup(schema, 1))
	var n int
	require.NoError(t, d.Full.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n))
	assert.Equal(t, 1, n)

	// A different version is rejected.
	assert.Error(t, d.Setup(schema, 2))
	require.NoError(t, d.Close())
}

func TestInMemory(t *testing.T) {
	d, err := db.NewSqlite("file:"+t.Name(), &db.SqliteConfig{InMemory: true})
	require.NoError(t, err)
	defer d.Close()
	require.NoError(t, d.Setup(schema, 1))
	_, err = d.Full.Exec(`INSERT INTO items(name) VALUES ('a')`)
	require.NoError(t, err)
	var name string
	require.NoError(t, d.ReadOnly.QueryRowContext(t.Context(),
		`SELECT name FROM items`).Scan(&name))
	assert.Equal(t, "a", name)
}
