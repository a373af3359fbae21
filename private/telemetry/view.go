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

// Package telemetry turns polled switch port counters into per-link bandwidth
// and error samples.
package telemetry

import (
	"cmp"
	"slices"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/private/topology"
)

// Sample is the measured state of one physical link.
type Sample struct {
	Key   topology.LinkKey
	Ports topology.PortPair
	// Used and Available are in bit/s.
	Used      float64
	Available float64
	// ErrorRate is in percent.
	ErrorRate float64
	Time      time.Time
}

type sampleKey struct {
	key   topology.LinkKey
	ports topology.PortPair
}

// View holds the most recent sample of every link. It is safe for concurrent
// use.
type View struct {
	samples *xsync.Map[sampleKey, Sample]
}

// NewView creates an empty view.
func NewView() *View {
	return &View{samples: xsync.NewMap[sampleKey, Sample]()}
}

// Lookup returns the sample of the link with the given key and port pair.
func (v *View) Lookup(key topology.LinkKey, ports topology.PortPair) (Sample, bool) {
	return v.samples.Load(sampleKey{key: key, ports: ports})
}

// Store records the sample, replacing older ones for the same link. Samples
// older than the stored one are ignored.
func (v *View) Store(s Sample) {
	k := sampleKey{key: s.Key, ports: s.Ports}
	if old, ok := v.samples.Load(k); ok && old.Time.After(s.Time) {
		return
	}
	v.samples.Store(k, s)
}

// Delete drops the samples of every link between the switches of the key.
func (v *View) Delete(key topology.LinkKey) {
	v.samples.Range(func(k sampleKey, _ Sample) bool {
		if k.key == key {
			v.samples.Delete(k)
		}
		return true
	})
}

// Snapshot returns all samples ordered by link key and port pair.
func (v *View) Snapshot() []Sample {
	res := make([]Sample, 0, v.samples.Size())
	v.samples.Range(func(_ sampleKey, s Sample) bool {
		res = append(res, s)
		return true
	})
	slices.SortFunc(res, func(a, b Sample) int {
		return cmp.Or(
			cmp.Compare(a.Key.Lo, b.Key.Lo),
			cmp.Compare(a.Key.Hi, b.Key.Hi),
			cmp.Compare(a.Ports.Lo, b.Ports.Lo),
			cmp.Compare(a.Ports.Hi, b.Ports.Hi),
		)
	})
	return res
}

// Len returns the number of links with a sample.
func (v *View) Len() int {
	return v.samples.Size()
}

// PortStats are the raw cumulative counters of one switch port.
type PortStats struct {
	DPID      addr.DPID
	Port      addr.PortNo
	RxBytes   uint64
	TxBytes   uint64
	RxPackets uint64
	TxPackets uint64
	RxErrors  uint64
	TxErrors  uint64
	Time      time.Time
}

// Ref returns the port the counters belong to.
func (s PortStats) Ref() addr.PortRef {
	return addr.PortRef{DPID: s.DPID, Port: s.Port}
}
