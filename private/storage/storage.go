// Copyright 2020 Anapaya Systems
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

// Package storage provides factories for the controller storage backends.
package storage

import (
	"io"
	"time"

	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
	"github.com/sdnroute/sdnroute/pkg/private/util"
	"github.com/sdnroute/sdnroute/private/config"
	"github.com/sdnroute/sdnroute/private/periodic"
	"github.com/sdnroute/sdnroute/private/storage/cleaner"
	"github.com/sdnroute/sdnroute/private/storage/db"
	"github.com/sdnroute/sdnroute/private/storage/routedb"
)

// Backend indicates the database backend type.
type Backend string

const (
	// BackendSqlite indicates an sqlite backend.
	BackendSqlite Backend = "sqlite"
	// DefaultRouteDBPath is the default location of the route database.
	DefaultRouteDBPath = "/var/lib/sdnroute/route.db"
	// DefaultRetention is how long fronts and recovery entries are kept.
	DefaultRetention = 24 * time.Hour
	// DefaultCleanInterval is the period of the cleaner task.
	DefaultCleanInterval = 30 * time.Second
)

var _ (config.Config) = (*DBConfig)(nil)

// DBConfig is the configuration for the connection to a database.
type DBConfig struct {
	Connection   string       `toml:"connection,omitempty"`
	MaxOpenConns int          `toml:"max_open_conns,omitempty"`
	MaxIdleConns int          `toml:"max_idle_conns,omitempty"`
	Retention    util.DurWrap `toml:"retention,omitempty"`
}

func (cfg *DBConfig) InitDefaults() {
	if cfg.Connection == "" {
		cfg.Connection = DefaultRouteDBPath
	}
	if cfg.Retention.Duration == 0 {
		cfg.Retention.Duration = DefaultRetention
	}
}

func (cfg *DBConfig) Validate() error {
	if cfg.Retention.Duration < 0 {
		return serrors.New("retention must not be negative",
			"retention", cfg.Retention.Duration)
	}
	return nil
}

// Sample writes a config sample to the writer.
func (cfg *DBConfig) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, sample)
}

// ConfigName is the key in the toml file.
func (cfg *DBConfig) ConfigName() string {
	return "db"
}

// RouteDB is the route database together with its cleaner task.
type RouteDB struct {
	*routedb.Backend
	cleaner *periodic.Runner
}

// Close stops the cleaner and closes the database.
func (r RouteDB) Close() error {
	r.cleaner.Kill()
	return r.Backend.Close()
}

// NewRouteStorage opens the route database and starts a periodic task that
// deletes entries older than the configured retention.
func NewRouteStorage(c DBConfig, m cleaner.Metrics) (RouteDB, error) {
	log.Info("Connecting RouteDB", "backend", BackendSqlite, "connection", c.Connection)
	b, err := routedb.New(c.Connection, &db.SqliteConfig{
		MaxOpenReadConns: c.MaxOpenConns,
		MaxIdleReadConns: c.MaxIdleConns,
	})
	if err != nil {
		return RouteDB{}, err
	}
	runner := periodic.Start(
		cleaner.New(b.DeleteExpired, "routedb", c.Retention.Duration, m),
		DefaultCleanInterval,
		DefaultCleanInterval,
	)
	return RouteDB{Backend: b, cleaner: runner}, nil
}

const sample = `
# The connection string of the route database. (default "/var/lib/sdnroute/route.db")
connection = "/var/lib/sdnroute/route.db"
# The maximum number of open read connections. 0 means the default. (default 0)
max_open_conns = 0
# The maximum number of idle read connections. 0 means the default. (default 0)
max_idle_conns = 0
# How long Pareto fronts and recovery log entries are kept. (default 24h)
retention = "24h"
`
