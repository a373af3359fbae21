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
	"github.com/prometheus/client_golang/prometheus"
)

// NewPromGauge wraps a prometheus gauge vector as a gauge.
// Returns nil, if gv is nil.
func NewPromGauge(gv *prometheus.GaugeVec) Gauge {
	if gv == nil {
		return nil
	}
	return &gauge{gv: gv}
}

// NewPromCounter wraps a prometheus counter vector as a counter.
// Returns nil if cv is nil.
func NewPromCounter(cv *prometheus.CounterVec) Counter {
	if cv == nil {
		return nil
	}
	return &counter{cv: cv}
}

// NewPromHistogram wraps a prometheus histogram vector as a histogram.
// Returns nil if hv is nil.
func NewPromHistogram(hv *prometheus.HistogramVec) Histogram {
	if hv == nil {
		return nil
	}
	return &histogram{hv: hv}
}

// Option configures a Factory.
type Option func(*Factory)

// WithRegistry registers the metrics created by the factory in reg instead of
// the default registerer.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(f *Factory) {
		f.reg = reg
	}
}

// Factory creates prometheus backed metrics and registers them.
type Factory struct {
	reg prometheus.Registerer
}

// NewFactory creates a factory with the given options.
func NewFactory(opts ...Option) Factory {
	f := Factory{reg: prometheus.DefaultRegisterer}
	for _, o := range opts {
		o(&f)
	}
	return f
}

// NewCounter creates and registers a counter vector.
func (f Factory) NewCounter(opts prometheus.CounterOpts, labelNames []string) Counter {
	cv := prometheus.NewCounterVec(opts, labelNames)
	f.reg.MustRegister(cv)
	return NewPromCounter(cv)
}

// NewGauge creates and registers a gauge vector.
func (f Factory) NewGauge(opts prometheus.GaugeOpts, labelNames []string) Gauge {
	gv := prometheus.NewGaugeVec(opts, labelNames)
	f.reg.MustRegister(gv)
	return NewPromGauge(gv)
}

// NewHistogram creates and registers a histogram vector.
func (f Factory) NewHistogram(opts prometheus.HistogramOpts, labelNames []string) Histogram {
	hv := prometheus.NewHistogramVec(opts, labelNames)
	f.reg.MustRegister(hv)
	return NewPromHistogram(hv)
}

// labelValues holds alternating label names and values.
type labelValues []string

func (lvs labelValues) with(more ...string) labelValues {
	if len(more)%2 != 0 {
		more = append(more, "unknown")
	}
	result := make(labelValues, len(lvs), len(lvs)+len(more))
	copy(result, lvs)
	return append(result, more...)
}

func (lvs labelValues) labels() prometheus.Labels {
	labels := prometheus.Labels{}
	for i := 0; i+1 < len(lvs); i += 2 {
		labels[lvs[i]] = lvs[i+1]
	}
	return labels
}

type gauge struct {
	gv  *prometheus.GaugeVec
	lvs labelValues
}

func (g *gauge) With(lvs ...string) Gauge {
	return &gauge{gv: g.gv, lvs: g.lvs.with(lvs...)}
}

func (g *gauge) Set(value float64) {
	g.gv.With(g.lvs.labels()).Set(value)
}

func (g *gauge) Add(delta float64) {
	g.gv.With(g.lvs.labels()).Add(delta)
}

type counter struct {
	cv  *prometheus.CounterVec
	lvs labelValues
}

func (c *counter) With(lvs ...string) Counter {
	return &counter{cv: c.cv, lvs: c.lvs.with(lvs...)}
}

func (c *counter) Add(delta float64) {
	c.cv.With(c.lvs.labels()).Add(delta)
}

type histogram struct {
	hv  *prometheus.HistogramVec
	lvs labelValues
}

func (h *histogram) With(lvs ...string) Histogram {
	return &histogram{hv: h.hv, lvs: h.lvs.with(lvs...)}
}

func (h *histogram) Observe(value float64) {
	h.hv.With(h.lvs.labels()).Observe(value)
}
