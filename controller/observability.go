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


// Package controller holds the wiring shared by the controller binary.
package controller

import (
	"io"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sdnroute/sdnroute/controller/fault"
	"github.com/sdnroute/sdnroute/controller/packetin"
	"github.com/sdnroute/sdnroute/controller/task"
	"github.com/sdnroute/sdnroute/pkg/metrics"
	"github.com/sdnroute/sdnroute/private/env"
	"github.com/sdnroute/sdnroute/private/periodic"
	"github.com/sdnroute/sdnroute/private/storage/cleaner"
	"github.com/sdnroute/sdnroute/private/telemetry"
	"github.com/sdnroute/sdnroute/private/topology"
)

const labelResult = "result"

// InitTracer initializes the global tracer.
func InitTracer(tracing env.Tracing, id string) (io.Closer, error) {
	tracer, trCloser, err := tracing.NewTracer(id)
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(tracer)
	return trCloser, nil
}

// Metrics defines the metrics exposed by the controller, grouped by the
// component that reports them.
type Metrics struct {
	Dispatcher topology.DispatcherMetrics
	Monitor    telemetry.MonitorMetrics
	Scheduler  task.Metrics
	Fault      fault.Metrics
	PacketIn   packetin.Metrics
	Cleaner    cleaner.Metrics
	// InstallRetries counts retried flow installations.
	InstallRetries metrics.Counter

	taskEvents  metrics.Counter
	taskPeriod  metrics.Gauge
	taskRuntime metrics.Gauge
	taskStart   metrics.Gauge
}

// NewMetrics creates the metrics and registers them with the factory.
func NewMetrics(f metrics.Factory) *Metrics {
	counter := func(name, help string, labels ...string) metrics.Counter {
		return f.NewCounter(prometheus.CounterOpts{Name: name, Help: help}, labels)
	}
	gauge := func(name, help string, labels ...string) metrics.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{Name: name, Help: help}, labels)
	}
	return &Metrics{
		Dispatcher: topology.DispatcherMetrics{
			Events: counter("sdnroute_topology_events_total",
				"Total number of applied topology events.", "kind"),
			Initializations: counter("sdnroute_topology_initializations_total",
				"Total number of emitted topology initialized events."),
			AttributeErrors: counter("sdnroute_topology_attribute_errors_total",
				"Total number of failures to load the attribute file."),
		},
		Monitor: telemetry.MonitorMetrics{
			Polls: counter("sdnroute_telemetry_polls_total",
				"Total number of port statistics polls.", labelResult),
			Utilization: gauge("sdnroute_link_utilization",
				"Link utilization between 0 and 1.", "link"),
		},
		Scheduler: task.Metrics{
			Requests: counter("sdnroute_route_requests_total",
				"Total number of submitted route requests.", labelResult),
			Computed: counter("sdnroute_route_computations_total",
				"Total number of handled route requests.", "kind", labelResult),
			ComputeDuration: f.NewHistogram(prometheus.HistogramOpts{
				Name:    "sdnroute_route_computation_seconds",
				Help:    "Time spent handling a route request.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			}, nil),
			QueueLength: gauge("sdnroute_route_queue_length",
				"Number of queued route requests."),
		},
		Fault: fault.Metrics{
			Recoveries: counter("sdnroute_fault_recoveries_total",
				"Total number of route recoveries.", "category", "outcome"),
		},
		PacketIn: packetin.Metrics{
			Packets: counter("sdnroute_packet_in_total",
				"Total number of handled packet-in messages.", labelResult),
		},
		Cleaner: cleaner.Metrics{
			ErrorsTotal: counter("sdnroute_routedb_cleaner_errors_total",
				"Total number of failed route database cleanups."),
			RunsTotal: counter("sdnroute_routedb_cleaner_runs_total",
				"Total number of route database cleanups."),
			DeletedTotal: counter("sdnroute_routedb_cleaner_deleted_total",
				"Total number of deleted route database entries."),
		},
		InstallRetries: counter("sdnroute_flow_install_retries_total",
			"Total number of retried flow installations."),
		taskEvents: counter("sdnroute_periodic_events_total",
			"Total number of periodic task events.", "task", "event"),
		taskPeriod: gauge("sdnroute_periodic_period_seconds",
			"Period of the periodic task.", "task"),
		taskRuntime: gauge("sdnroute_periodic_runtime_seconds",
			"Duration of the last periodic task run.", "task"),
		taskStart: gauge("sdnroute_periodic_start_time_seconds",
			"Start time of the periodic task.", "task"),
	}
}

// Periodic returns the runner metrics of the named task.
func (m *Metrics) Periodic(name string) *periodic.Metrics {
	return &periodic.Metrics{
		Events: func(event string) metrics.Counter {
			return metrics.CounterWith(m.taskEvents, "task", name, "event", event)
		},
		Period:    metrics.GaugeWith(m.taskPeriod, "task", name),
		Runtime:   metrics.GaugeWith(m.taskRuntime, "task", name),
		StartTime: metrics.GaugeWith(m.taskStart, "task", name),
	}
}
