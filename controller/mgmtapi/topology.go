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


package mgmtapi

import (
	"cmp"
	"errors"
	"maps"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/private/telemetry"
	"github.com/sdnroute/sdnroute/private/topology"
)

// Port is a switch port.
type Port struct {
	No     addr.PortNo `json:"port_no"`
	State  string      `json:"state"`
	HWAddr string      `json:"hw_addr,omitempty"`
	Name   string      `json:"name,omitempty"`
}

// Switch is a switch with its ports and neighbors.
type Switch struct {
	DPID      addr.DPID                `json:"dpid"`
	Name      string                   `json:"name,omitempty"`
	Role      string                   `json:"attribute"`
	Ports     []Port                   `json:"ports"`
	Neighbors map[string][]addr.PortNo `json:"neighbors"`
}

// Link is a link with its parameters.
type Link struct {
	Src                string  `json:"src"`
	Dst                string  `json:"dst"`
	Attr               string  `json:"attr"`
	Delay              float64 `json:"delay"`
	Loss               float64 `json:"loss"`
	Cost               float64 `json:"cost"`
	TotalBandwidth     float64 `json:"total_bandwidth"`
	AvailableBandwidth float64 `json:"available_bandwidth"`
	Utilization        float64 `json:"utilization"`
}

// VirtualLink is the body of virtual link requests.
type VirtualLink struct {
	SrcPort addr.PortNo `json:"src_port_no"`
	DstPort addr.PortNo `json:"dst_port_no"`
}

// Event is an injected topology event. Ports are "dpid:port" references.
type Event struct {
	Kind  string `json:"kind"`
	DPID  string `json:"dpid,omitempty"`
	Name  string `json:"name,omitempty"`
	Ports []Port `json:"ports,omitempty"`
	Port  *Port  `json:"port,omitempty"`
	Src   string `json:"src,omitempty"`
	Dst   string `json:"dst,omitempty"`
}

func switchInfo(sw topology.Switch) Switch {
	res := Switch{
		DPID:      sw.DPID,
		Name:      sw.Name,
		Role:      string(sw.Role),
		Ports:     make([]Port, 0, len(sw.Ports)),
		Neighbors: make(map[string][]addr.PortNo, len(sw.Neighbors)),
	}
	for _, no := range slices.Sorted(maps.Keys(sw.Ports)) {
		p := sw.Ports[no]
		info := Port{No: no, State: p.State.String(), Name: p.Name}
		if len(p.HWAddr) > 0 {
			info.HWAddr = p.HWAddr.String()
		}
		res.Ports = append(res.Ports, info)
	}
	for n, ports := range sw.Neighbors {
		res.Neighbors[n.String()] = slices.Sorted(slices.Values(ports))
	}
	return res
}

func linkInfo(l topology.Link) Link {
	return Link{
		Src:                l.Src().String(),
		Dst:                l.Dst().String(),
		Attr:               string(l.Attr),
		Delay:              l.Delay,
		Loss:               l.Loss,
		Cost:               l.Cost,
		TotalBandwidth:     l.TotalBandwidth,
		AvailableBandwidth: l.AvailableBandwidth,
		Utilization:        l.Utilization(),
	}
}

// GetSwitches returns all switches ordered by DPID.
func (s *Server) GetSwitches(w http.ResponseWriter, r *http.Request) {
	snap := s.Topology.Snapshot()
	res := make([]Switch, 0, len(snap.Switches))
	for _, dpid := range snap.DPIDs() {
		res = append(res, switchInfo(snap.Switches[dpid]))
	}
	writeJSON(w, http.StatusOK, res)
}

// GetSwitch returns a single switch.
func (s *Server) GetSwitch(w http.ResponseWriter, r *http.Request) {
	dpid, err := addr.ParseDPID(chi.URLParam(r, "dpid"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	sw, ok := s.Topology.Switch(dpid)
	if !ok {
		notFound(w, errNoSwitch.Error())
		return
	}
	writeJSON(w, http.StatusOK, switchInfo(sw))
}

// GetLinks returns all links ordered by switch pair and port pair.
func (s *Server) GetLinks(w http.ResponseWriter, r *http.Request) {
	snap := s.Topology.Snapshot()
	var res []Link
	for _, key := range snap.Keys() {
		for _, l := range sortedLinks(snap.Links[key]) {
			res = append(res, linkInfo(l))
		}
	}
	if res == nil {
		res = []Link{}
	}
	writeJSON(w, http.StatusOK, res)
}

// GetLink returns the links between two switches.
func (s *Server) GetLink(w http.ResponseWriter, r *http.Request) {
	src, dst, ok := s.pair(w, r)
	if !ok {
		return
	}
	links := sortedLinks(s.Topology.Links(src, dst))
	if len(links) == 0 {
		notFound(w, "no link between switches")
		return
	}
	res := make([]Link, 0, len(links))
	for _, l := range links {
		res = append(res, linkInfo(l))
	}
	writeJSON(w, http.StatusOK, res)
}

// AddVirtualLink adds a virtual link between two existing ports.
func (s *Server) AddVirtualLink(w http.ResponseWriter, r *http.Request) {
	src, dst, ok := s.virtualLink(w, r)
	if !ok {
		return
	}
	if err := s.Topology.AddVirtualLink(src, dst); err != nil {
		if errors.Is(err, topology.ErrPortPairInUse) {
			badRequest(w, err.Error())
			return
		}
		internalError(w, r, err)
		return
	}
	s.Topology.SetNeighbor(src.DPID, dst.DPID, src.Port)
	s.Topology.SetNeighbor(dst.DPID, src.DPID, dst.Port)
	log.FromCtx(r.Context()).Info("Added virtual link", "src", src, "dst", dst)
	writeOK(w)
}

// DeleteVirtualLink removes a virtual link. Direct links cannot be removed.
func (s *Server) DeleteVirtualLink(w http.ResponseWriter, r *http.Request) {
	src, dst, ok := s.virtualLink(w, r)
	if !ok {
		return
	}
	if !s.Topology.RemoveVirtualLink(src, dst) {
		notFound(w, "no virtual link between ports")
		return
	}
	s.Topology.ClearNeighbor(src.DPID, dst.DPID, src.Port)
	s.Topology.ClearNeighbor(dst.DPID, src.DPID, dst.Port)
	log.FromCtx(r.Context()).Info("Removed virtual link", "src", src, "dst", dst)
	writeOK(w)
}

// SubmitEvent injects a topology event.
func (s *Server) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	var req Event
	if !decode(w, r, &req) {
		return
	}
	e, err := req.event()
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := e.Validate(); err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.Events.Submit(r.Context(), e); err != nil {
		internalError(w, r, err)
		return
	}
	writeOK(w)
}

func (req Event) event() (topology.Event, error) {
	kind, err := topology.ParseEventKind(req.Kind)
	if err != nil {
		return topology.Event{}, err
	}
	e := topology.Event{Kind: kind, Name: req.Name}
	if req.DPID != "" {
		if e.DPID, err = addr.ParseDPID(req.DPID); err != nil {
			return topology.Event{}, err
		}
	}
	for _, p := range req.Ports {
		port, err := p.port()
		if err != nil {
			return topology.Event{}, err
		}
		e.Ports = append(e.Ports, port)
	}
	if req.Port != nil {
		if e.Port, err = req.Port.port(); err != nil {
			return topology.Event{}, err
		}
	}
	if req.Src != "" || req.Dst != "" {
		if e.Src, err = addr.ParsePortRef(req.Src); err != nil {
			return topology.Event{}, err
		}
		if e.Dst, err = addr.ParsePortRef(req.Dst); err != nil {
			return topology.Event{}, err
		}
	}
	return e, nil
}

func (p Port) port() (topology.Port, error) {
	res := topology.Port{No: p.No, Name: p.Name}
	switch strings.ToLower(p.State) {
	case "", "up":
		res.State = topology.PortStateUp
	case "down":
		res.State = topology.PortStateDown
	default:
		return topology.Port{}, errors.New("invalid port state: " + p.State)
	}
	if p.HWAddr != "" {
		mac, err := net.ParseMAC(p.HWAddr)
		if err != nil {
			return topology.Port{}, err
		}
		res.HWAddr = mac
	}
	return res, nil
}

func (s *Server) pair(w http.ResponseWriter, r *http.Request) (addr.DPID, addr.DPID, bool) {
	src, err := addr.ParseDPID(chi.URLParam(r, "src"))
	if err != nil {
		badRequest(w, err.Error())
		return 0, 0, false
	}
	dst, err := addr.ParseDPID(chi.URLParam(r, "dst"))
	if err != nil {
		badRequest(w, err.Error())
		return 0, 0, false
	}
	return src, dst, true
}

// virtualLink parses a virtual link request and checks that both ports exist.
func (s *Server) virtualLink(w http.ResponseWriter,
	r *http.Request) (addr.PortRef, addr.PortRef, bool) {

	src, dst, ok := s.pair(w, r)
	if !ok {
		return addr.PortRef{}, addr.PortRef{}, false
	}
	var req VirtualLink
	if !decode(w, r, &req) {
		return addr.PortRef{}, addr.PortRef{}, false
	}
	if src == dst {
		badRequest(w, "link endpoints on the same switch")
		return addr.PortRef{}, addr.PortRef{}, false
	}
	refs := [2]addr.PortRef{{DPID: src, Port: req.SrcPort}, {DPID: dst, Port: req.DstPort}}
	for _, ref := range refs {
		sw, ok := s.Topology.Switch(ref.DPID)
		if !ok {
			badRequest(w, "unknown switch: "+ref.DPID.String())
			return addr.PortRef{}, addr.PortRef{}, false
		}
		if _, ok := sw.Ports[ref.Port]; !ok {
			badRequest(w, "unknown port: "+ref.String())
			return addr.PortRef{}, addr.PortRef{}, false
		}
	}
	return refs[0], refs[1], true
}

func sortedLinks(links []topology.Link) []topology.Link {
	return slices.SortedFunc(slices.Values(links), func(a, b topology.Link) int {
		return cmp.Or(cmp.Compare(a.Ports.Lo, b.Ports.Lo), cmp.Compare(a.Ports.Hi, b.Ports.Hi))
	})
}

// PortStats are the cumulative counters of one port.
type PortStats struct {
	DPID      string `json:"dpid"`
	PortNo    uint32 `json:"port_no"`
	RxBytes   uint64 `json:"rx_bytes"`
	TxBytes   uint64 `json:"tx_bytes"`
	RxPackets uint64 `json:"rx_packets"`
	TxPackets uint64 `json:"tx_packets"`
	RxErrors  uint64 `json:"rx_errors"`
	TxErrors  uint64 `json:"tx_errors"`
}

// PushPortStats accepts a list of port counters of known switches. The
// readings are timestamped on arrival.
func (s *Server) PushPortStats(w http.ResponseWriter, r *http.Request) {
	if s.Stats == nil {
		notFound(w, "port statistics are not accepted")
		return
	}
	var req []PortStats
	if !decode(w, r, &req) {
		return
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	at := now()
	stats := make([]telemetry.PortStats, 0, len(req))
	for _, p := range req {
		dpid, err := addr.ParseDPID(p.DPID)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		sw, ok := s.Topology.Switch(dpid)
		if !ok {
			badRequest(w, errNoSwitch.Error()+": "+p.DPID)
			return
		}
		if _, ok := sw.Ports[addr.PortNo(p.PortNo)]; !ok {
			badRequest(w, "unknown port: "+addr.PortRef{DPID: dpid,
				Port: addr.PortNo(p.PortNo)}.String())
			return
		}
		stats = append(stats, telemetry.PortStats{
			DPID:      dpid,
			Port:      addr.PortNo(p.PortNo),
			RxBytes:   p.RxBytes,
			TxBytes:   p.TxBytes,
			RxPackets: p.RxPackets,
			TxPackets: p.TxPackets,
			RxErrors:  p.RxErrors,
			TxErrors:  p.TxErrors,
			Time:      at,
		})
	}
	s.Stats.Push(stats...)
	writeOK(w)
}
