// Copyright 2018 Anapaya Systems
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

package periodic_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/sdnroute/sdnroute/pkg/metrics"
	"github.com/sdnroute/sdnroute/pkg/private/xtest"
	"github.com/sdnroute/sdnroute/private/periodic"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newMetrics(withGauges bool) *periodic.Metrics {
	events := metrics.NewTestCounter()
	m := &periodic.Metrics{
		Events: func(s string) metrics.Counter {
			return events.With("event_type", s)
		},
	}
	if withGauges {
		m.Period = metrics.NewTestGauge()
		m.Runtime = metrics.NewTestGauge()
		m.StartTime = metrics.NewTestGauge()
	}
	return m
}

func assertEvents(t *testing.T, m *periodic.Metrics, stop, kill, trigger int) {
	t.Helper()
	assert.Equal(t, float64(stop), metrics.CounterValue(m.Events(periodic.EventStop)))
	assert.Equal(t, float64(kill), metrics.CounterValue(m.Events(periodic.EventKill)))
	assert.Equal(t, float64(trigger), metrics.CounterValue(m.Events(periodic.EventTrigger)))
}

func TestRunsEveryPeriod(t *testing.T) {
	m := newMetrics(false)
	ticks := make(chan struct{}, 100)
	task := periodic.Func{
		TaskName: "drain",
		Task: func(ctx context.Context) {
			ticks <- struct{}{}
		},
	}
	want := 5
	p := 20 * time.Millisecond
	start := time.Now()
	r := periodic.StartWithMetrics(task, m, p, time.Hour)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < want; i++ {
			select {
			case <-ticks:
			case <-time.After(5 * p):
				panic(fmt.Sprintf("timed out while waiting for run %d", i))
			}
		}
	}()
	xtest.AssertReadReturnsBefore(t, done, time.Second)
	assert.WithinDuration(t, start, time.Now(), time.Duration(want+2)*p)

	assert.NoError(t, runWithTimeout(r.Stop, 2*time.Second))
	assertEvents(t, m, 1, 0, 0)
}

func TestKillCancelsRunningTask(t *testing.T) {
	m := newMetrics(false)
	started, result := make(chan struct{}), make(chan error, 1)
	p := 10 * time.Millisecond
	task := periodic.Func{
		TaskName: "monitor",
		Task: func(ctx context.Context) {
			close(started)
			select {
			case <-ctx.Done():
			case <-time.After(10 * p):
			}
			result <- ctx.Err()
		},
	}
	r := periodic.StartWithMetrics(task, m, p, time.Hour)
	xtest.AssertReadReturnsBefore(t, started, time.Second)
	assert.NoError(t, runWithTimeout(r.Kill, time.Second))

	select {
	case err := <-result:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * p):
		t.Fatal("task did not return after kill")
	}
	assertEvents(t, m, 0, 1, 0)
}

func TestNoRunAfterKill(t *testing.T) {
	m := newMetrics(true)
	runs := make(chan struct{}, 50)
	task := periodic.Func{
		TaskName: "cleaner",
		Task: func(ctx context.Context) {
			runs <- struct{}{}
		},
	}
	p := 100 * time.Millisecond
	startTime := time.Now()
	r := periodic.StartWithMetrics(task, m, p, time.Hour)

	select {
	case <-runs:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the first run")
	}
	assert.NoError(t, runWithTimeout(r.Kill, 2*p))
	<-time.After(2 * p)
	assert.Empty(t, runs, "no run after kill")
	assertEvents(t, m, 0, 1, 0)

	assert.Equal(t, p.Seconds(), metrics.GaugeValue(m.Period))
	assert.LessOrEqual(t, float64(startTime.Unix()), metrics.GaugeValue(m.StartTime))
	assert.GreaterOrEqual(t, float64(time.Now().Unix()), metrics.GaugeValue(m.StartTime))
	assert.GreaterOrEqual(t, metrics.GaugeValue(m.Runtime), float64(0))
}

func TestTriggerRun(t *testing.T) {
	m := newMetrics(true)
	runs := make(chan struct{}, 50)
	task := periodic.Func{
		TaskName: "refresh",
		Task: func(ctx context.Context) {
			runs <- struct{}{}
		},
	}
	// A long period makes sure the runs come from the triggers.
	p := time.Hour
	r := periodic.StartWithMetrics(task, m, p, time.Second)
	defer r.Stop()

	select {
	case <-runs:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the first run")
	}
	want := 10
	for i := 0; i < want; i++ {
		assert.NoError(t, runWithTimeout(r.TriggerRun, time.Second))
	}
	// The last trigger may still be running.
	assert.Eventually(t, func() bool { return len(runs) == want },
		time.Second, time.Millisecond)
	assertEvents(t, m, 0, 0, want)
}

func TestTriggerAfterStopDoesNotBlock(t *testing.T) {
	r := periodic.Start(periodic.Func{
		TaskName: "noop",
		Task:     func(context.Context) {},
	}, time.Hour, time.Second)
	r.Stop()
	assert.NoError(t, runWithTimeout(r.TriggerRun, time.Second))
	// Stopping twice is allowed.
	assert.NoError(t, runWithTimeout(r.Stop, time.Second))
}

func runWithTimeout(f func(), t time.Duration) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		f()
	}()
	select {
	case <-done:
		return nil
	case <-time.After(t):
		return fmt.Errorf("timed out after %v", t)
	}
}
