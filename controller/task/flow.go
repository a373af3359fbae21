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

package task

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/sdnroute/sdnroute/pkg/addr"
)

const (
	// RoutePriority is the priority of all route flows.
	RoutePriority = 1000

	UnicastIdleTimeout   = 300 * time.Second
	UnicastHardTimeout   = 1800 * time.Second
	MulticastIdleTimeout = 5 * time.Second
	MulticastHardTimeout = 20 * time.Second

	// ServerTCPPort is the port the servers behind a cluster IP listen on.
	ServerTCPPort = 80

	protoTCP = 6
)

// Match selects the IPv4 packets a flow applies to.
type Match struct {
	InPort addr.PortNo
	// IPProto is the IP protocol number. Zero matches any protocol.
	IPProto uint8
	Src     netip.Addr
	Dst     netip.Addr
}

func (m Match) String() string {
	s := fmt.Sprintf("in_port=%d,ipv4_src=%s,ipv4_dst=%s", m.InPort, m.Src, m.Dst)
	if m.IPProto != 0 {
		s += fmt.Sprintf(",ip_proto=%d", m.IPProto)
	}
	return s
}

// ActionKind is the type tag of an Action.
type ActionKind int

const (
	ActionOutput ActionKind = iota
	ActionSetField
	ActionDecTTL
)

// Field is a header field that can be rewritten.
type Field string

const (
	FieldEthSrc  Field = "eth_src"
	FieldEthDst  Field = "eth_dst"
	FieldIPv4Src Field = "ipv4_src"
	FieldIPv4Dst Field = "ipv4_dst"
	FieldTCPSrc  Field = "tcp_src"
	FieldTCPDst  Field = "tcp_dst"
)

// Action is one flow action. Port is set for outputs, Field and Value for set
// field actions.
type Action struct {
	Kind  ActionKind
	Port  addr.PortNo
	Field Field
	Value string
}

// Output returns an output action.
func Output(p addr.PortNo) Action {
	return Action{Kind: ActionOutput, Port: p}
}

// SetField returns a set field action.
func SetField(f Field, v any) Action {
	return Action{Kind: ActionSetField, Field: f, Value: fmt.Sprint(v)}
}

// DecTTL returns a decrement TTL action.
func DecTTL() Action {
	return Action{Kind: ActionDecTTL}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionOutput:
		return fmt.Sprintf("output:%d", a.Port)
	case ActionSetField:
		return fmt.Sprintf("set_field:%s=%s", a.Field, a.Value)
	default:
		return "dec_ttl"
	}
}

// Flow is a flow table entry for one switch.
type Flow struct {
	DPID        addr.DPID
	Priority    uint16
	IdleTimeout time.Duration
	HardTimeout time.Duration
	Match       Match
	Actions     []Action
}

// Outputs returns the output ports of the flow in action order.
func (f Flow) Outputs() []addr.PortNo {
	var res []addr.PortNo
	for _, a := range f.Actions {
		if a.Kind == ActionOutput {
			res = append(res, a.Port)
		}
	}
	return res
}

func (f Flow) String() string {
	actions := make([]string, 0, len(f.Actions))
	for _, a := range f.Actions {
		actions = append(actions, a.String())
	}
	return fmt.Sprintf("%s priority=%d,%s actions=%s", f.DPID, f.Priority, f.Match,
		strings.Join(actions, ","))
}
