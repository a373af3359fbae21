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
	"cmp"
	"slices"

	"github.com/sdnroute/sdnroute/controller/routeinfo"
	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
	"github.com/sdnroute/sdnroute/private/topology"
)

// hop is a switch of a unicast path with its ports towards both ends.
type hop struct {
	dpid addr.DPID
	// up faces the source, down faces the destination.
	up, down addr.PortNo
}

func resolveHops(snap *topology.Snapshot, path routing.Path,
	srcPort, dstPort addr.PortNo) ([]hop, error) {

	hops := make([]hop, len(path))
	for i, dpid := range path {
		h := hop{dpid: dpid, up: srcPort, down: dstPort}
		if i > 0 {
			p, ok := snap.PortToward(dpid, path[i-1])
			if !ok {
				return nil, serrors.New("no link between path switches",
					"from", dpid, "to", path[i-1])
			}
			h.up = p
		}
		if i < len(path)-1 {
			p, ok := snap.PortToward(dpid, path[i+1])
			if !ok {
				return nil, serrors.New("no link between path switches",
					"from", dpid, "to", path[i+1])
			}
			h.down = p
		}
		hops[i] = h
	}
	return hops, nil
}

// Plan returns the flows of a unicast or NAT entry along path, which starts at
// the source switch. Every switch gets a forward and a reverse flow. The
// forward flows are ordered from the source, the reverse flows from the
// destination. NAT entries rewrite the addresses on the source switch.
func Plan(snap *topology.Snapshot, e Entry, path routing.Path) ([]Flow, error) {
	if len(path) == 0 {
		return nil, serrors.New("empty path", "request", e.Key())
	}
	if e.Kind == routeinfo.KindMulticast {
		return nil, serrors.New("multicast entry needs a tree", "request", e.Key())
	}
	hops, err := resolveHops(snap, path, e.Src.Attachment.Port, e.Dst.Attachment.Port)
	if err != nil {
		return nil, serrors.Wrap("planning flows", err, "request", e.Key())
	}
	nat := e.Kind == routeinfo.KindNAT
	var proto uint8
	if nat {
		proto = protoTCP
	}
	unicast := func(dpid addr.DPID, m Match, actions ...Action) Flow {
		return Flow{
			DPID:        dpid,
			Priority:    RoutePriority,
			IdleTimeout: UnicastIdleTimeout,
			HardTimeout: UnicastHardTimeout,
			Match:       m,
			Actions:     actions,
		}
	}

	flows := make([]Flow, 0, 2*len(hops))
	for i, h := range hops {
		m := Match{InPort: h.up, IPProto: proto, Src: e.Src.IP, Dst: e.Dst.IP}
		if nat && i == 0 {
			m.Dst = e.Virtual
			flows = append(flows, unicast(h.dpid, m,
				DecTTL(),
				SetField(FieldTCPDst, ServerTCPPort),
				SetField(FieldIPv4Dst, e.Dst.IP),
				SetField(FieldEthDst, e.Dst.MAC),
				Output(h.down),
			))
			continue
		}
		flows = append(flows, unicast(h.dpid, m, Output(h.down)))
	}
	for i := len(hops) - 1; i >= 0; i-- {
		h := hops[i]
		m := Match{InPort: h.down, IPProto: proto, Src: e.Dst.IP, Dst: e.Src.IP}
		if nat && i == 0 {
			flows = append(flows, unicast(h.dpid, m,
				DecTTL(),
				SetField(FieldTCPSrc, ServerTCPPort),
				SetField(FieldIPv4Src, e.Virtual),
				SetField(FieldEthSrc, e.Gateway),
				SetField(FieldEthDst, e.Src.MAC),
				Output(h.up),
			))
			continue
		}
		flows = append(flows, unicast(h.dpid, m, Output(h.up)))
	}
	return flows, nil
}

// TreeNode is a switch of a multicast tree.
type TreeNode struct {
	DPID addr.DPID
	// Former is the upstream switch. It is unset for the root.
	Former addr.DPID
	Next   []addr.DPID
	Root   bool
	// End is set if a branch terminates at the switch.
	End bool
	// Shared is set if more than one branch traverses the switch.
	Shared bool
}

// FormatTree merges the branches of a tree into one node per switch. The
// nodes are ordered by depth, and by branch order within the same depth.
func FormatTree(branches []routing.Path) []TreeNode {
	depth := 0
	for _, b := range branches {
		depth = max(depth, len(b))
	}
	var nodes []TreeNode
	index := make(map[addr.DPID]int)
	for d := 0; d < depth; d++ {
		for _, b := range branches {
			if d >= len(b) {
				continue
			}
			dpid := b[d]
			i, ok := index[dpid]
			if !ok {
				i = len(nodes)
				index[dpid] = i
				nodes = append(nodes, TreeNode{DPID: dpid})
			} else {
				nodes[i].Shared = true
			}
			n := &nodes[i]
			if d == 0 {
				n.Root = true
			} else {
				n.Former = b[d-1]
			}
			if d == len(b)-1 {
				n.End = true
			} else if !slices.Contains(n.Next, b[d+1]) {
				n.Next = append(n.Next, b[d+1])
			}
		}
	}
	return nodes
}

// PlanTree returns one flow per tree switch, leaves first so that the
// downstream flows exist before traffic reaches them. End switches output to
// the member ports attached to them.
func PlanTree(snap *topology.Snapshot, e Entry, branches []routing.Path) ([]Flow, error) {
	if len(branches) == 0 {
		return nil, serrors.New("empty tree", "request", e.Key())
	}
	memberPorts := make(map[addr.DPID][]addr.PortNo)
	for _, m := range e.Members {
		ports := memberPorts[m.Attachment.DPID]
		if !slices.Contains(ports, m.Attachment.Port) {
			memberPorts[m.Attachment.DPID] = append(ports, m.Attachment.Port)
		}
	}
	nodes := FormatTree(branches)
	flows := make([]Flow, 0, len(nodes))
	for _, n := range slices.Backward(nodes) {
		in := e.Src.Attachment.Port
		if !n.Root {
			p, ok := snap.PortToward(n.DPID, n.Former)
			if !ok {
				return nil, serrors.New("no link between tree switches",
					"from", n.DPID, "to", n.Former, "request", e.Key())
			}
			in = p
		}
		var actions []Action
		if n.End {
			for _, p := range memberPorts[n.DPID] {
				actions = append(actions, Output(p))
			}
		}
		for _, next := range n.Next {
			p, ok := snap.PortToward(n.DPID, next)
			if !ok {
				return nil, serrors.New("no link between tree switches",
					"from", n.DPID, "to", next, "request", e.Key())
			}
			actions = append(actions, Output(p))
		}
		flows = append(flows, Flow{
			DPID:        n.DPID,
			Priority:    RoutePriority,
			IdleTimeout: MulticastIdleTimeout,
			HardTimeout: MulticastHardTimeout,
			Match:       Match{InPort: in, Src: e.Src.IP, Dst: e.Virtual},
			Actions:     actions,
		})
	}
	return flows, nil
}

// Ports returns every port the flows match on or output to, ordered.
func Ports(flows []Flow) []addr.PortRef {
	var res []addr.PortRef
	for _, f := range flows {
		res = append(res, addr.PortRef{DPID: f.DPID, Port: f.Match.InPort})
		for _, p := range f.Outputs() {
			res = append(res, addr.PortRef{DPID: f.DPID, Port: p})
		}
	}
	slices.SortFunc(res, func(a, b addr.PortRef) int {
		return cmp.Or(cmp.Compare(a.DPID, b.DPID), cmp.Compare(a.Port, b.Port))
	})
	return slices.Compact(res)
}
