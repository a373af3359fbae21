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

// Package routingtest builds topology snapshots for algorithm tests.
package routingtest

import (
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/private/topology"
)

// Link describes a link between A and B. The port on A is numbered B and the
// port on B is numbered A. Available defaults to Total.
type Link struct {
	A, B      addr.DPID
	Delay     float64
	Loss      float64
	Cost      float64
	Total     float64
	Available float64
}

// Uniform returns links with identical parameters between the given pairs.
func Uniform(base Link, pairs ...[2]addr.DPID) []Link {
	res := make([]Link, 0, len(pairs))
	for _, p := range pairs {
		l := base
		l.A, l.B = p[0], p[1]
		res = append(res, l)
	}
	return res
}

// Store creates a store containing the switches and links. Extra switches
// without links can be passed as isolated.
func Store(links []Link, isolated ...addr.DPID) *topology.Store {
	s := topology.NewStore()
	ports := map[addr.DPID][]topology.Port{}
	for _, l := range links {
		ports[l.A] = append(ports[l.A], topology.Port{No: addr.PortNo(l.B)})
		ports[l.B] = append(ports[l.B], topology.Port{No: addr.PortNo(l.A)})
	}
	for _, dpid := range isolated {
		ports[dpid] = append(ports[dpid], topology.Port{No: 1})
	}
	for dpid, p := range ports {
		s.AddSwitch(dpid, "", p)
	}
	for _, l := range links {
		src := addr.PortRef{DPID: l.A, Port: addr.PortNo(l.B)}
		dst := addr.PortRef{DPID: l.B, Port: addr.PortNo(l.A)}
		link, _ := s.AddLink(src, dst)
		s.SetLinkParams(link.Key, link.Ports, topology.LinkParams{
			Delay:          l.Delay,
			Loss:           l.Loss,
			Cost:           l.Cost,
			TotalBandwidth: l.Total,
		})
		if l.Available != 0 {
			s.SetAvailable(link.Key, link.Ports, l.Available)
		}
	}
	return s
}

// Snapshot is Store(...).Snapshot().
func Snapshot(links []Link, isolated ...addr.DPID) *topology.Snapshot {
	return Store(links, isolated...).Snapshot()
}
