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
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

// EventKind is the type tag of an Event.
type EventKind int

const (
	SwitchEnter EventKind = iota + 1
	SwitchLeave
	PortAdd
	PortDelete
	// PortModify is submitted by the event source. Subscribers receive
	// PortUp or PortDown instead, and nothing if the state did not change.
	PortModify
	PortUp
	PortDown
	LinkAdd
	LinkDelete
	// TopologyInitialized is emitted once the link adds have settled and the
	// attribute file was applied.
	TopologyInitialized
)

var kindNames = map[EventKind]string{
	SwitchEnter:         "switch_enter",
	SwitchLeave:         "switch_leave",
	PortAdd:             "port_add",
	PortDelete:          "port_delete",
	PortModify:          "port_modify",
	PortUp:              "port_up",
	PortDown:            "port_down",
	LinkAdd:             "link_add",
	LinkDelete:          "link_delete",
	TopologyInitialized: "topology_initialized",
}

func (k EventKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseEventKind parses the name of an event kind that can be submitted.
func ParseEventKind(s string) (EventKind, error) {
	for k, n := range kindNames {
		if n == s && k.Submittable() {
			return k, nil
		}
	}
	return 0, serrors.New("unknown event kind", "kind", s)
}

// Submittable reports whether events of this kind may be submitted by an
// event source.
func (k EventKind) Submittable() bool {
	switch k {
	case SwitchEnter, SwitchLeave, PortAdd, PortDelete, PortModify, LinkAdd, LinkDelete:
		return true
	default:
		return false
	}
}

// Event is a topology event. Which fields are set depends on Kind:
//
//   - SwitchEnter: DPID, Name, Ports.
//   - SwitchLeave: DPID.
//   - PortAdd, PortDelete, PortModify, PortUp, PortDown: DPID, Port.
//   - LinkAdd, LinkDelete: Src, Dst.
//   - TopologyInitialized: none.
//
// Snapshot is set on every event delivered to subscribers and holds the store
// state right after the event was applied.
type Event struct {
	Kind     EventKind
	DPID     addr.DPID
	Name     string
	Ports    []Port
	Port     Port
	Src      addr.PortRef
	Dst      addr.PortRef
	Snapshot *Snapshot
}

// Validate checks that a submitted event carries the fields its kind needs.
func (e Event) Validate() error {
	if !e.Kind.Submittable() {
		return serrors.New("event kind cannot be submitted", "kind", e.Kind)
	}
	switch e.Kind {
	case LinkAdd, LinkDelete:
		if e.Src.DPID == e.Dst.DPID {
			return serrors.New("link endpoints on the same switch", "dpid", e.Src.DPID)
		}
	case PortAdd, PortDelete, PortModify:
		if e.Port.No.Reserved() {
			return serrors.New("reserved port number", "port", e.Port.No)
		}
	}
	return nil
}
