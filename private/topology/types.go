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

// Package topology holds the controller's model of switches, ports and
// links. The Store is mutated by a single Dispatcher goroutine; everybody
// else reads immutable Snapshots.
package topology

import (
	"fmt"
	"net"
	"slices"
	"time"

	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

// Role is the position of a switch in the data center hierarchy.
type Role string

const (
	RoleCore        Role = "core"
	RoleAggregation Role = "aggregation"
	RoleEdge        Role = "edge"
	RoleAccess      Role = "access"
)

// DefaultRole is assigned to a switch on join.
const DefaultRole = RoleEdge

// ParseRole parses a role name.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleCore, RoleAggregation, RoleEdge, RoleAccess:
		return r, nil
	default:
		return "", serrors.New("unknown switch attribute", "value", s)
	}
}

// Backbone reports whether the role is part of the backbone (core and
// aggregation).
func (r Role) Backbone() bool {
	return r == RoleCore || r == RoleAggregation
}

// PortState is the liveness of a port.
type PortState int

const (
	PortStateUp PortState = iota
	PortStateDown
)

func (s PortState) String() string {
	if s == PortStateDown {
		return "down"
	}
	return "up"
}

// Transition is the result of a port modification.
type Transition int

const (
	NoChange Transition = iota
	TransitionUp
	TransitionDown
)

func (t Transition) String() string {
	switch t {
	case TransitionUp:
		return "up"
	case TransitionDown:
		return "down"
	default:
		return "no_change"
	}
}

// Port is a switch port.
type Port struct {
	No     addr.PortNo
	State  PortState
	HWAddr net.HardwareAddr
	Name   string
}

// Switch is a switch as seen by the controller.
type Switch struct {
	DPID addr.DPID
	Name string
	Role Role
	// Ports maps port numbers to ports.
	Ports map[addr.PortNo]Port
	// Neighbors maps neighbor switches to the local ports that connect to
	// them. A port appears at most once per neighbor.
	Neighbors map[addr.DPID][]addr.PortNo
}

// NeighborPort reports whether port connects to any neighbor switch.
func (s *Switch) NeighborPort(port addr.PortNo) bool {
	for _, ports := range s.Neighbors {
		if slices.Contains(ports, port) {
			return true
		}
	}
	return false
}

func (s *Switch) clone() Switch {
	c := *s
	c.Ports = make(map[addr.PortNo]Port, len(s.Ports))
	for no, p := range s.Ports {
		p.HWAddr = slices.Clone(p.HWAddr)
		c.Ports[no] = p
	}
	c.Neighbors = make(map[addr.DPID][]addr.PortNo, len(s.Neighbors))
	for n, ports := range s.Neighbors {
		c.Neighbors[n] = slices.Clone(ports)
	}
	return c
}

// LinkKey is the canonical, direction independent key of the links between
// two switches. Lo is always the smaller DPID.
type LinkKey struct {
	Lo addr.DPID
	Hi addr.DPID
}

// NewLinkKey returns the canonical key for the switch pair.
func NewLinkKey(a, b addr.DPID) LinkKey {
	if a > b {
		a, b = b, a
	}
	return LinkKey{Lo: a, Hi: b}
}

func (k LinkKey) String() string {
	return fmt.Sprintf("%s-%s", k.Lo, k.Hi)
}

// PortPair holds the ports of a link in key order: Lo is the port on
// LinkKey.Lo.
type PortPair struct {
	Lo addr.PortNo
	Hi addr.PortNo
}

// Canonicalize orders the two port references by DPID. It returns the link key
// and the port pair in key order.
func Canonicalize(src, dst addr.PortRef) (LinkKey, PortPair) {
	if src.DPID > dst.DPID {
		src, dst = dst, src
	}
	return LinkKey{Lo: src.DPID, Hi: dst.DPID}, PortPair{Lo: src.Port, Hi: dst.Port}
}

// LinkAttr distinguishes discovered links from administratively created ones.
type LinkAttr string

const (
	LinkDirect  LinkAttr = "direct"
	LinkVirtual LinkAttr = "virtual"
)

// LinkParams are the static link parameters from the attribute file.
type LinkParams struct {
	// Delay in milliseconds.
	Delay float64
	// Loss as fraction in [0,1].
	Loss float64
	Cost float64
	// TotalBandwidth in bit/s.
	TotalBandwidth float64
}

// Link is one undirected link between two switch ports.
type Link struct {
	Key   LinkKey
	Ports PortPair
	Attr  LinkAttr
	LinkParams
	// AvailableBandwidth in bit/s, updated from telemetry.
	AvailableBandwidth float64
	Updated            time.Time
}

// Src returns the port on the lower DPID.
func (l Link) Src() addr.PortRef {
	return addr.PortRef{DPID: l.Key.Lo, Port: l.Ports.Lo}
}

// Dst returns the port on the higher DPID.
func (l Link) Dst() addr.PortRef {
	return addr.PortRef{DPID: l.Key.Hi, Port: l.Ports.Hi}
}

// PortOn returns the port of the link on the given switch.
func (l Link) PortOn(dpid addr.DPID) (addr.PortNo, bool) {
	switch dpid {
	case l.Key.Lo:
		return l.Ports.Lo, true
	case l.Key.Hi:
		return l.Ports.Hi, true
	default:
		return 0, false
	}
}

// Utilization returns 1 - available/total, or 0 if the total bandwidth is
// unknown.
func (l Link) Utilization() float64 {
	if l.TotalBandwidth <= 0 {
		return 0
	}
	u := 1 - l.AvailableBandwidth/l.TotalBandwidth
	return min(max(u, 0), 1)
}
