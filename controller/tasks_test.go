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


package controller_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/sdnroute/sdnroute/controller"
	"github.com/sdnroute/sdnroute/pkg/metrics"
	"github.com/sdnroute/sdnroute/private/telemetry"
	"github.com/sdnroute/sdnroute/private/topology"
)

func TestStartTasks(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := topology.NewStore()
	view := telemetry.NewView()
	var refreshed atomic.Int32
	m := controller.NewMetrics(metrics.NewFactory(
		metrics.WithRegistry(prometheus.NewPedanticRegistry())))
	tasks := controller.StartTasks(controller.TasksConfig{
		Monitor: &telemetry.Monitor{Store: store, View: view, Source: &telemetry.Buffer{}},
		Refresher: func(v *telemetry.View) {
			assert.Same(t, view, v)
			refreshed.Add(1)
		},
		PollInterval: 10 * time.Millisecond,
		Printer:      &telemetry.Printer{Store: store, View: view},
		Metrics:      m,
	})
	assert.Nil(t, tasks.Drain, "no scheduler configured")
	assert.Nil(t, tasks.Printer, "no print interval configured")
	assert.NotNil(t, tasks.Poll)

	assert.Eventually(t, func() bool { return refreshed.Load() >= 2 },
		time.Second, 5*time.Millisecond)
	tasks.Kill()
}
