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

package cleaner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sdnroute/sdnroute/pkg/metrics"
)

func TestRun(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	testCases := map[string]struct {
		count   int
		err     error
		runs    float64
		errs    float64
		deleted float64
	}{
		"nothing deleted": {runs: 1},
		"deleted rows":    {count: 3, runs: 1, deleted: 3},
		"error":           {err: errors.New("locked"), errs: 1},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			m := Metrics{
				ErrorsTotal:  metrics.NewTestCounter(),
				RunsTotal:    metrics.NewTestCounter(),
				DeletedTotal: metrics.NewTestCounter(),
			}
			var gotBefore time.Time
			c := New(func(_ context.Context, before time.Time) (int, error) {
				gotBefore = before
				return tc.count, tc.err
			}, "routedb", time.Hour, m)
			c.now = func() time.Time { return now }

			c.Run(context.Background())
			assert.Equal(t, now.Add(-time.Hour), gotBefore)
			assert.Equal(t, tc.runs, metrics.CounterValue(m.RunsTotal))
			assert.Equal(t, tc.errs, metrics.CounterValue(m.ErrorsTotal))
			assert.Equal(t, tc.deleted, metrics.CounterValue(m.DeletedTotal))
			assert.Equal(t, "routedb_cleaner", c.Name())
		})
	}
}
