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

package metrics

import (
	"sort"
	"strings"
	"sync"
)

// node is the shared state of test gauges and counters. Children are keyed by
// their full, sorted label set so that With returns the same child for the
// same labels.
type node struct {
	mtx      sync.Mutex
	v        float64
	labels   []string
	children map[string]*node
}

func (b *node) with(labelValues ...string) *node {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	all := append(append([]string(nil), b.labels...), labelValues...)
	key := labelKey(all)
	if b.children == nil {
		b.children = make(map[string]*node)
	}
	c, ok := b.children[key]
	if !ok {
		c = &node{labels: all}
		b.children[key] = c
	}
	return c
}

func labelKey(lvs []string) string {
	pairs := make([]string, 0, len(lvs)/2)
	for i := 0; i+1 < len(lvs); i += 2 {
		pairs = append(pairs, lvs[i]+"="+lvs[i+1])
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (b *node) add(delta float64, canBeNegative bool) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if !canBeNegative && delta < 0 {
		panic("counter increment value is < 0")
	}
	b.v += delta
}

func (b *node) set(v float64) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.v = v
}

func (b *node) value() float64 {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.v
}

// TestCounter implements a counter for use in tests.
type TestCounter struct {
	*node
}

// NewTestCounter creates a new counter for use in tests.
func NewTestCounter() *TestCounter {
	return &TestCounter{node: &node{}}
}

// With returns the child counter for the given labels. Calling With twice
// with the same labels returns counters sharing the same value.
func (c *TestCounter) With(labelValues ...string) Counter {
	return &TestCounter{node: c.node.with(labelValues...)}
}

// Add increases the internal value of the counter by the specified delta.
func (c *TestCounter) Add(delta float64) {
	c.add(delta, false)
}

// CounterValue extracts the value out of a TestCounter. If the argument is not
// a *TestCounter, CounterValue will panic.
func CounterValue(c Counter) float64 {
	return c.(*TestCounter).value()
}

// TestGauge implements a gauge for use in tests.
type TestGauge struct {
	*node
}

// NewTestGauge creates a new gauge for use in tests.
func NewTestGauge() *TestGauge {
	return &TestGauge{node: &node{}}
}

// With returns the child gauge for the given labels.
func (g *TestGauge) With(labelValues ...string) Gauge {
	return &TestGauge{node: g.node.with(labelValues...)}
}

// Set sets the internal value of the gauge to the specified value.
func (g *TestGauge) Set(v float64) {
	g.set(v)
}

// Add changes the internal value of the gauge by the specified delta.
func (g *TestGauge) Add(delta float64) {
	g.add(delta, true)
}

// GaugeValue extracts the value out of a TestGauge. If the argument is not a
// *TestGauge, GaugeValue will panic.
func GaugeValue(g Gauge) float64 {
	return g.(*TestGauge).value()
}

// TestHistogram records observations for use in tests.
type TestHistogram struct {
	*node
	obs *[]float64
}

// NewTestHistogram creates a new histogram for use in tests.
func NewTestHistogram() *TestHistogram {
	return &TestHistogram{node: &node{}, obs: new([]float64)}
}

// With returns the histogram itself; labels are not tracked.
func (h *TestHistogram) With(_ ...string) Histogram {
	return h
}

// Observe records v.
func (h *TestHistogram) Observe(v float64) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	*h.obs = append(*h.obs, v)
}

// Observations returns the recorded observations.
func (h *TestHistogram) Observations() []float64 {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return append([]float64(nil), *h.obs...)
}
