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

// Package periodic runs tasks at a fixed interval. The controller uses it for
// the telemetry monitor, the scheduler drain loop and the database cleaners.
package periodic

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/metrics"
)

// Event types reported through Metrics.Events.
const (
	EventStop    = "stop"
	EventKill    = "kill"
	EventTrigger = "triggered"
)

// Task is a task that is run periodically.
type Task interface {
	// Run runs the task. The context is canceled when the task's timeout
	// expires or the runner is killed.
	Run(context.Context)
	// Name returns the name of the task. It is used as the log and metric
	// label of the runner.
	Name() string
}

// Func implements Task from a plain function.
type Func struct {
	Task     func(context.Context)
	TaskName string
}

// Run runs the task function.
func (f Func) Run(ctx context.Context) {
	f.Task(ctx)
}

// Name returns the task name.
func (f Func) Name() string {
	return f.TaskName
}

// Metrics holds the optional metrics of a runner. Any field left nil is not
// reported.
type Metrics struct {
	Events    func(string) metrics.Counter
	Period    metrics.Gauge
	Runtime   metrics.Gauge
	StartTime metrics.Gauge
}

func (m *Metrics) event(name string) {
	if m == nil || m.Events == nil {
		return
	}
	metrics.CounterInc(m.Events(name))
}

func (m *Metrics) runtime(d time.Duration) {
	if m == nil {
		return
	}
	metrics.GaugeSet(m.Runtime, d.Seconds())
}

// Runner runs a task periodically.
type Runner struct {
	task         Task
	ticker       *time.Ticker
	timeout      time.Duration
	stop         chan struct{}
	loopFinished chan struct{}
	ctx          context.Context
	cancelF      context.CancelFunc
	trigger      chan struct{}
	metrics      *Metrics

	stopOnce sync.Once
}

// Start creates and starts a new Runner to run the given task periodically.
// The timeout is used for the context timeout of the task. The timeout can be
// larger than the period.
func Start(task Task, period, timeout time.Duration) *Runner {
	return StartWithMetrics(task, nil, period, timeout)
}

// StartWithMetrics is identical to Start but additionally reports the given
// metrics.
func StartWithMetrics(task Task, m *Metrics, period, timeout time.Duration) *Runner {
	ctx, cancelF := context.WithCancel(context.Background())
	logger := log.New("debug_id", strings.ToLower(task.Name()))
	ctx = log.CtxWith(ctx, logger)
	r := &Runner{
		task:         task,
		ticker:       time.NewTicker(period),
		timeout:      timeout,
		stop:         make(chan struct{}),
		loopFinished: make(chan struct{}),
		ctx:          ctx,
		cancelF:      cancelF,
		trigger:      make(chan struct{}),
		metrics:      m,
	}
	logger.Debug("Starting periodic task", "task", task.Name(), "period", period)
	if m != nil {
		metrics.GaugeSet(m.Period, period.Seconds())
		metrics.GaugeSet(m.StartTime, float64(time.Now().UnixNano()/1e9))
	}
	go func() {
		defer log.HandlePanic()
		r.runLoop()
	}()
	return r
}

// Stop stops the periodic execution of the Runner. If the task is currently
// running this method blocks until it is done.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		r.ticker.Stop()
		close(r.stop)
		<-r.loopFinished
		r.cancelF()
		r.metrics.event(EventStop)
	})
}

// Kill is like Stop but it also cancels the context of the current running
// method.
func (r *Runner) Kill() {
	r.stopOnce.Do(func() {
		r.ticker.Stop()
		close(r.stop)
		r.cancelF()
		<-r.loopFinished
		r.metrics.event(EventKill)
	})
}

// TriggerRun triggers the periodic task to run now. This does not impact the
// normal periodicity of this task. If the task is currently running, the call
// blocks until the running task returns. It is a no-op after the runner is
// stopped.
func (r *Runner) TriggerRun() {
	select {
	case <-r.stop:
	case r.trigger <- struct{}{}:
		r.metrics.event(EventTrigger)
	}
}

func (r *Runner) runLoop() {
	defer close(r.loopFinished)
	defer log.FromCtx(r.ctx).Debug("Stopped periodic task", "task", r.task.Name())
	r.onTick()
	for {
		select {
		case <-r.stop:
			return
		case <-r.ticker.C:
			r.onTick()
		case <-r.trigger:
			r.onTick()
		}
	}
}

func (r *Runner) onTick() {
	select {
	// Check whether we got stopped in the meantime.
	case <-r.stop:
		return
	default:
	}
	ctx, cancelF := context.WithTimeout(r.ctx, r.timeout)
	defer cancelF()
	start := time.Now()
	r.task.Run(ctx)
	r.metrics.runtime(time.Since(start))
}
