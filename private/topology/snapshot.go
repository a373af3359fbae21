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

package topology

import (
	"cmp"
	"maps"
	"slices"

	"github.com/scylladb/go-set/u64set"

	"github.com/sdnroute/sdnroute/pkg/addr"
)

// Snapshot is an immutable copy of the store. Callers must not modify it.
type Snapshot struct {
	// Version increases with every mutation of the store.
	Version  uint64
	Switches map[addr.DPID]Switch
	Links    map[LinkKey][]Link
}

// DPIDs returns all switch DPIDs in ascending order.
func (s *Snapshot) DPIDs() []addr.DPID {
	return slices.Sorted(maps.Keys(s.Switches))
}

// Keys returns all link keys in ascending order.
func (s *Snapshot) Keys() []LinkKey {
	return slices.SortedFunc(maps.Keys(s.Links), compareKeys)
}

// Between returns the links between a and b.
func (s *Snapshot) Between(a, b addr.DPID) []Link {
	return s.Links[NewLinkKey(a, b)]
}

// Edge returns the representative link between a and b: the link with the
// lowest port pair. Route computations treat parallel links as one edge.
func (s *Snapshot) Edge(a, b addr.DPID) (Link, bool) {
	links := s.Links[NewLinkKey(a, b)]
	if len(links) == 0 {
		return Link{}, false
	}
	return slices.MinFunc(links, func(x, y Link) int {
		return cmp.Or(cmp.Compare(x.Ports.Lo, y.Ports.Lo), cmp.Compare(x.Ports.Hi, y.Ports.Hi))
	}), true
}

// PortToward returns the port on from that the representative edge towards
// to uses.
func (s *Snapshot) PortToward(from, to addr.DPID) (addr.PortNo, bool) {
	l, ok := s.Edge(from, to)
	if !ok {
		return 0, false
	}
	return l.PortOn(from)
}

// Role returns the role of the switch.
func (s *Snapshot) Role(dpid addr.DPID) (Role, bool) {
	sw, ok := s.Switches[dpid]
	return sw.Role, ok
}

// NeighborSet returns the DPIDs of the switches adjacent to dpid over any
// link.
func (s *Snapshot) NeighborSet(dpid addr.DPID) *u64set.Set {
	set := u64set.New()
	for key := range s.Links {
		switch dpid {
		case key.Lo:
			set.Add(uint64(key.Hi))
		case key.Hi:
			set.Add(uint64(key.Lo))
		}
	}
	return set
}
