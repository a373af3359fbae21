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
	"sync"

	"github.com/sdnroute/sdnroute/pkg/addr"
)

// Buffer is a StatsSource for switches that push their counters instead of
// being polled. Readings are kept until the next poll of the switch.
type Buffer struct {
	mtx     sync.Mutex
	pending map[addr.DPID][]PortStats
	// Limit bounds the readings kept per switch. The oldest readings are
	// dropped first. Zero means 64.
	Limit int
}

var _ StatsSource = (*Buffer)(nil)

// Push adds readings.
func (b *Buffer) Push(stats ...PortStats) {
	limit := b.Limit
	if limit <= 0 {
		limit = 64
	}
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.pending == nil {
		b.pending = make(map[addr.DPID][]PortStats)
	}
	for _, s := range stats {
		q := append(b.pending[s.DPID], s)
		if len(q) > limit {
			q = q[len(q)-limit:]
		}
		b.pending[s.DPID] = q
	}
}

// PortStats returns and removes the readings pushed for the switch since the
// last call.
func (b *Buffer) PortStats(_ context.Context, dpid addr.DPID) ([]PortStats, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	stats := b.pending[dpid]
	delete(b.pending, dpid)
	return stats, nil
}
