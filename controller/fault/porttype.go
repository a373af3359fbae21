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

package fault

import (
	"maps"
	"strconv"
	"sync"

	"github.com/scylladb/go-set/u64set"

	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
	"github.com/sdnroute/sdnroute/private/topology"
)

// PortType is the position of a switch port in the data center. The numeric
// values are the ones the admin API accepts.
type PortType int

const (
	PortUnknown PortType = iota
	PortEdgeToServer
	PortEdgeToBackbone
	PortIntraBackbone
	PortAccessToBackbone
	PortAccessToUser
)

var portTypeNames = map[PortType]string{
	PortUnknown:          "unknown",
	PortEdgeToServer:     "edge_to_server",
	PortEdgeToBackbone:   "edge_to_backbone",
	PortIntraBackbone:    "intra_backbone",
	PortAccessToBackbone: "access_to_backbone",
	PortAccessToUser:     "access_to_user",
}

func (t PortType) String() string {
	if n, ok := portTypeNames[t]; ok {
		return n
	}
	return "port_type(" + strconv.Itoa(int(t)) + ")"
}

// ParsePortType parses a port type from its number or name.
func ParsePortType(s string) (PortType, error) {
	if v, err := strconv.Atoi(s); err == nil {
		t := PortType(v)
		if t == PortUnknown || t > PortAccessToUser {
			return PortUnknown, serrors.New("port type out of range", "value", s)
		}
		return t, nil
	}
	for t, n := range portTypeNames {
		if n == s && t != PortUnknown {
			return t, nil
		}
	}
	return PortUnknown, serrors.New("unknown port type", "value", s)
}

// Category is the class of a link fault. It selects the recovery strategy.
type Category int

const (
	CategoryIntraBackbone Category = iota
	CategoryServerEdge
	CategoryUserAccess
	CategoryAccessBackbone
)

func (c Category) String() string {
	switch c {
	case CategoryServerEdge:
		return "server_edge"
	case CategoryUserAccess:
		return "user_access"
	case CategoryAccessBackbone:
		return "access_backbone"
	default:
		return "intra_backbone"
	}
}

// Partitions assigns a type to every known switch port. A port has at most one
// type. Explicitly set types take precedence over resolved ones.
type Partitions struct {
	mtx       sync.RWMutex
	types     map[addr.PortRef]PortType
	overrides map[addr.PortRef]PortType
}

// NewPartitions creates empty partitions. Every port classifies as unknown.
func NewPartitions() *Partitions {
	return &Partitions{
		types:     make(map[addr.PortRef]PortType),
		overrides: make(map[addr.PortRef]PortType),
	}
}

// Resolve replaces the partitions with the ones derived from the switch roles
// of the snapshot:
//
//   - core and aggregation: every port is intra backbone.
//   - edge: ports towards core or aggregation switches are edge to backbone,
//     ports without a neighbor switch are edge to server.
//   - access: ports towards core switches are access to backbone, ports
//     without a neighbor switch are access to user.
//
// Reserved ports are never classified. Types set with Set are kept.
func (p *Partitions) Resolve(snap *topology.Snapshot) {
	backbone, core := u64set.New(), u64set.New()
	for dpid, sw := range snap.Switches {
		if sw.Role.Backbone() {
			backbone.Add(uint64(dpid))
		}
		if sw.Role == topology.RoleCore {
			core.Add(uint64(dpid))
		}
	}
	types := make(map[addr.PortRef]PortType)
	for dpid, sw := range snap.Switches {
		uplinks := backbone
		own, up := PortEdgeToServer, PortEdgeToBackbone
		switch sw.Role {
		case topology.RoleCore, topology.RoleAggregation:
			for no := range sw.Ports {
				if !no.Reserved() {
					types[addr.PortRef{DPID: dpid, Port: no}] = PortIntraBackbone
				}
			}
			continue
		case topology.RoleAccess:
			uplinks = core
			own, up = PortAccessToUser, PortAccessToBackbone
		}
		for n, ports := range sw.Neighbors {
			if !uplinks.Has(uint64(n)) {
				continue
			}
			for _, no := range ports {
				if !no.Reserved() {
					types[addr.PortRef{DPID: dpid, Port: no}] = up
				}
			}
		}
		for no := range sw.Ports {
			if !no.Reserved() && !sw.NeighborPort(no) {
				types[addr.PortRef{DPID: dpid, Port: no}] = own
			}
		}
	}
	p.mtx.Lock()
	defer p.mtx.Unlock()
	maps.Copy(types, p.overrides)
	p.types = types
}

// Set overrides the types of the given ports. The overrides survive later
// calls to Resolve.
func (p *Partitions) Set(types map[addr.PortRef]PortType) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	maps.Copy(p.overrides, types)
	maps.Copy(p.types, types)
}

// Type returns the type of the port.
func (p *Partitions) Type(ref addr.PortRef) PortType {
	p.mtx.RLock()
	defer p.mtx.RUnlock()
	return p.types[ref]
}

// Ports returns all ports of the type.
func (p *Partitions) Ports(t PortType) []addr.PortRef {
	p.mtx.RLock()
	defer p.mtx.RUnlock()
	var res []addr.PortRef
	for ref, pt := range p.types {
		if pt == t {
			res = append(res, ref)
		}
	}
	return res
}

// Classify returns the fault category of a link between the two ports. The
// port types are tested in priority order: server edge, user access, access
// to backbone. Everything else is intra backbone.
func (p *Partitions) Classify(src, dst addr.PortRef) Category {
	p.mtx.RLock()
	a, b := p.types[src], p.types[dst]
	p.mtx.RUnlock()
	either := func(t PortType) bool { return a == t || b == t }
	switch {
	case either(PortEdgeToServer):
		return CategoryServerEdge
	case either(PortAccessToUser):
		return CategoryUserAccess
	case either(PortAccessToBackbone):
		return CategoryAccessBackbone
	default:
		return CategoryIntraBackbone
	}
}

// ParsePortTypes parses the admin representation {"dpid,port": type}. Either
// all entries are valid or an error is returned.
func ParsePortTypes(raw map[string]string) (map[addr.PortRef]PortType, error) {
	res := make(map[addr.PortRef]PortType, len(raw))
	for k, v := range raw {
		ref, err := addr.ParsePortRef(k)
		if err != nil {
			return nil, err
		}
		t, err := ParsePortType(v)
		if err != nil {
			return nil, serrors.Wrap("parsing port type", err, "port", k)
		}
		res[ref] = t
	}
	return res, nil
}
