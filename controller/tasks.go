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


package controller

import (
	"context"
	"time"

	"github.com/sdnroute/sdnroute/controller/task"
	"github.com/sdnroute/sdnroute/private/periodic"
	"github.com/sdnroute/sdnroute/private/telemetry"
)

// drainTimeout bounds a single drain of the request queue.
const drainTimeout = time.Minute

// TasksConfig holds the periodic tasks of the controller and their periods.
type TasksConfig struct {
	Scheduler     *task.Scheduler
	DrainInterval time.Duration

	Monitor      *telemetry.Monitor
	Refresher    func(view *telemetry.View)
	PollInterval time.Duration

	Printer       *telemetry.Printer
	PrintInterval time.Duration

	Metrics *Metrics
}

// Tasks are the running periodic tasks.
type Tasks struct {
	Drain   *periodic.Runner
	Poll    *periodic.Runner
	Printer *periodic.Runner
}

// StartTasks starts the periodic tasks. Tasks without a period are not
// started.
func StartTasks(cfg TasksConfig) *Tasks {
	start := func(t periodic.Task, period, timeout time.Duration) *periodic.Runner {
		if period <= 0 {
			return nil
		}
		var m *periodic.Metrics
		if cfg.Metrics != nil {
			m = cfg.Metrics.Periodic(t.Name())
		}
		return periodic.StartWithMetrics(t, m, period, timeout)
	}
	tasks := &Tasks{}
	if cfg.Scheduler != nil {
		tasks.Drain = start(cfg.Scheduler, cfg.DrainInterval, drainTimeout)
	}
	if cfg.Monitor != nil {
		poll := periodic.Func{
			TaskName: cfg.Monitor.Name(),
			Task: func(ctx context.Context) {
				cfg.Monitor.Run(ctx)
				if cfg.Refresher != nil {
					cfg.Refresher(cfg.Monitor.View)
				}
			},
		}
		tasks.Poll = start(poll, cfg.PollInterval, cfg.PollInterval)
	}
	if cfg.Printer != nil {
		tasks.Printer = start(cfg.Printer, cfg.PrintInterval, cfg.PrintInterval)
	}
	return tasks
}

// Kill stops all tasks and cancels running ones.
func (t *Tasks) Kill() {
	for _, r := range []*periodic.Runner{t.Drain, t.Poll, t.Printer} {
		if r != nil {
			r.Kill()
		}
	}
}
