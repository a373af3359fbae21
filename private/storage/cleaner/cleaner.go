// Copyright 2019 Anapaya Systems
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

// Package cleaner provides a periodic task that removes expired rows from a
// storage backend.
package cleaner

import (
	"context"
	"time"

	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/metrics"
	"github.com/sdnroute/sdnroute/private/periodic"
)

// ExpiredDeleter deletes everything created before the given time and
// returns the number of deleted entries.
type ExpiredDeleter func(ctx context.Context, before time.Time) (int, error)

var _ periodic.Task = (*Cleaner)(nil)

// Cleaner is a periodic.Task implementation that deletes expired data.
type Cleaner struct {
	deleter   ExpiredDeleter
	subsystem string
	retention time.Duration
	metrics   Metrics
	now       func() time.Time
}

// Metrics contains the metrics for a cleaner. Nil fields are not reported.
type Metrics struct {
	// ErrorsTotal reports the total number of errors during cleaning.
	ErrorsTotal metrics.Counter
	// RunsTotal reports the total number of successful runs.
	RunsTotal metrics.Counter
	// DeletedTotal reports the total number of deleted entries.
	DeletedTotal metrics.Counter
}

// New returns a new cleaner task that deletes entries older than retention
// using deleter.
func New(deleter ExpiredDeleter, subsystem string, retention time.Duration,
	m Metrics) *Cleaner {

	return &Cleaner{
		deleter:   deleter,
		subsystem: subsystem,
		retention: retention,
		metrics:   m,
		now:       time.Now,
	}
}

// Name returns the tasks name.
func (c *Cleaner) Name() string {
	return c.subsystem + "_cleaner"
}

// Run deletes expired entries using the deleter func.
func (c *Cleaner) Run(ctx context.Context) {
	logger := log.FromCtx(ctx)
	count, err := c.deleter(ctx, c.now().Add(-c.retention))
	if err != nil {
		logger.Error("Failed to delete expired entries", "subsystem", c.subsystem, "err", err)
		metrics.CounterInc(c.metrics.ErrorsTotal)
		return
	}
	if count > 0 {
		logger.Info("Deleted expired entries", "subsystem", c.subsystem, "count", count)
		metrics.CounterAdd(c.metrics.DeletedTotal, float64(count))
	}
	metrics.CounterInc(c.metrics.RunsTotal)
}
