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

package routedb

const (
	// SchemaVersion is the version of the SQLite schema understood by this backend.
	// Whenever changes to the schema are made, this version number should be increased
	// to prevent data corruption between incompatible database schemas.
	SchemaVersion = 1
	// Schema is the SQLite database layout.
	Schema = `
	CREATE TABLE pareto_fronts(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		src INTEGER NOT NULL,
		dsts TEXT NOT NULL,
		delay REAL NOT NULL,
		loss REAL NOT NULL,
		bandwidth REAL NOT NULL,
		path_json TEXT NOT NULL,
		created INTEGER NOT NULL
	);
	CREATE INDEX pareto_fronts_group ON pareto_fronts(src, dsts, created);
	CREATE INDEX pareto_fronts_created ON pareto_fronts(created);
	CREATE TABLE recoveries(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		request TEXT NOT NULL,
		outcome TEXT NOT NULL,
		elapsed_ms REAL NOT NULL,
		created INTEGER NOT NULL
	);
	CREATE INDEX recoveries_created ON recoveries(created);
	`
)
