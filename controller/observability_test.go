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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdnroute/sdnroute/controller"
	"github.com/sdnroute/sdnroute/pkg/metrics"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := controller.NewMetrics(metrics.NewFactory(metrics.WithRegistry(reg)))

	metrics.CounterInc(metrics.CounterWith(m.Scheduler.Requests, "result", "enqueued"))
	metrics.CounterInc(metrics.CounterWith(m.Fault.Recoveries,
		"category", "server_edge", "outcome", "recovered"))
	p := m.Periodic("route_scheduler")
	metrics.CounterInc(p.Events("triggered"))
	metrics.GaugeSet(p.Period, 0.1)

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Subset(t, names, []string{
		"sdnroute_route_requests_total",
		"sdnroute_fault_recoveries_total",
		"sdnroute_periodic_events_total",
		"sdnroute_periodic_period_seconds",
	})

	assert.Panics(t, func() {
		controller.NewMetrics(metrics.NewFactory(metrics.WithRegistry(reg)))
	}, "metrics are registered once")
}
