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

package telemetry

import (
	"context"

	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/metrics"
	"github.com/sdnroute/sdnroute/private/topology"
)

// StatsSource polls the port counters of a switch.
type StatsSource interface {
	PortStats(ctx context.Context, dpid addr.DPID) ([]PortStats, error)
}

// MonitorMetrics are the metrics of the monitor.
type MonitorMetrics struct {
	// Polls counts switch polls, labeled by result.
	Polls metrics.Counter
	// Utilization is the link utilization in [0,1], labeled by link.
	Utilization metrics.Gauge
}

// Monitor periodically polls all switches of the store and updates the view
// and the available bandwidth of the links.
type Monitor struct {
	Store   *topology.Store
	View    *View
	Source  StatsSource
	Parser  *Parser
	Metrics MonitorMetrics
}

// Name returns the task name.
func (m *Monitor) Name() string {
	return "telemetry_monitor"
}

// Run polls every switch once.
func (m *Monitor) Run(ctx context.Context) {
	logger := log.FromCtx(ctx)
	if m.Parser == nil {
		m.Parser = NewParser()
	}
	snap := m.Store.Snapshot()
	rates := make(map[addr.PortRef]PortRate)
	for _, dpid := range snap.DPIDs() {
		stats, err := m.Source.PortStats(ctx, dpid)
		if err != nil {
			logger.Debug("Polling port stats failed", "dpid", dpid, "err", err)
			metrics.CounterInc(metrics.CounterWith(m.Metrics.Polls, "result", "err"))
			continue
		}
		metrics.CounterInc(metrics.CounterWith(m.Metrics.Polls, "result", "ok"))
		for _, s := range stats {
			if r, ok := m.Parser.Feed(s); ok {
				rates[r.Ref] = r
			}
		}
	}
	for _, key := range snap.Keys() {
		for _, l := range snap.Links[key] {
			if l.Attr != topology.LinkDirect {
				continue
			}
			m.update(l, rates)
		}
	}
}

func (m *Monitor) update(l topology.Link, rates map[addr.PortRef]PortRate) {
	r, ok := rates[l.Src()]
	if !ok {
		if r, ok = rates[l.Dst()]; !ok {
			return
		}
	}
	s := Sample{
		Key:       l.Key,
		Ports:     l.Ports,
		Used:      r.Bits,
		Available: max(l.TotalBandwidth-r.Bits, 0),
		ErrorRate: r.ErrorRate,
		Time:      r.Time,
	}
	m.View.Store(s)
	if l.TotalBandwidth > 0 {
		m.Store.SetAvailable(l.Key, l.Ports, s.Available)
		l.AvailableBandwidth = s.Available
		metrics.GaugeSet(metrics.GaugeWith(m.Metrics.Utilization, "link", l.Key.String()),
			l.Utilization())
	}
}
