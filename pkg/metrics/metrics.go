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

// Package metrics defines the metric interfaces used throughout the
// controller. Components take the interfaces as optional dependencies: a nil
// metric is valid and the helper functions (CounterInc, GaugeSet...) turn
// into no-ops.
//
// Labels are passed as alternating name/value pairs:
//
//	m.Computed.With("algorithm", "dijkstra", "result", "ok").Add(1)
package metrics

// Counter describes a metric that accumulates values monotonically.
type Counter interface {
	With(labelValues ...string) Counter
	Add(delta float64)
}

// Gauge describes a metric that takes specific values over time.
type Gauge interface {
	With(labelValues ...string) Gauge
	Set(value float64)
	Add(delta float64)
}

// Histogram describes a metric that takes repeated observations of the same
// kind of thing, and produces a statistical summary of those observations.
type Histogram interface {
	With(labelValues ...string) Histogram
	Observe(value float64)
}

// CounterInc increases the passed in counter by 1. Nil counters are ignored.
func CounterInc(c Counter) {
	if c == nil {
		return
	}
	c.Add(1)
}

// CounterAdd increases the passed in counter by the amount specified.
func CounterAdd(c Counter, v float64) {
	if c == nil {
		return
	}
	c.Add(v)
}

// CounterWith returns the labelled counter, or nil if c is nil.
func CounterWith(c Counter, labelValues ...string) Counter {
	if c == nil {
		return nil
	}
	return c.With(labelValues...)
}

// GaugeSet sets the passed in gauge to the value specified.
func GaugeSet(g Gauge, v float64) {
	if g == nil {
		return
	}
	g.Set(v)
}

// GaugeAdd increases the passed in gauge by the amount specified.
func GaugeAdd(g Gauge, v float64) {
	if g == nil {
		return
	}
	g.Add(v)
}

// GaugeWith returns the labelled gauge, or nil if g is nil.
func GaugeWith(g Gauge, labelValues ...string) Gauge {
	if g == nil {
		return nil
	}
	return g.With(labelValues...)
}

// HistogramObserve adds an observation to the histogram.
func HistogramObserve(h Histogram, v float64) {
	if h == nil {
		return
	}
	h.Observe(v)
}

// HistogramWith returns the labelled histogram, or nil if h is nil.
func HistogramWith(h Histogram, labelValues ...string) Histogram {
	if h == nil {
		return nil
	}
	return h.With(labelValues...)
}
