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
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/scylladb/go-set/u64set"

	"github.com/sdnroute/sdnroute/pkg/addr"
)

// ErrPortPairInUse is returned when a virtual link is added over the port pair
// of a direct link.
var ErrPortPairInUse = errors.New("port pair used by a direct link")

// Store is the mutable topology model. All operations are idempotent and
// operations on missing switches or links are no-ops.
type Store struct {
	mtx      sync.RWMutex
	switches map[addr.DPID]*Switch
	links    map[LinkKey][]Link
	version  uint64
	now      func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		switches: make(map[addr.DPID]*Switch),
		links:    make(map[LinkKey][]Link),
		now:      time.Now,
	}
}

// AddSwitch inserts the switch or updates its name and ports. The role and the
// neighbor map of an existing switch are kept.
func (s *Store) AddSwitch(dpid addr.DPID, name string, ports []Port) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	sw, ok := s.switches[dpid]
	if !ok {
		sw = &Switch{
			DPID:      dpid,
			Role:      DefaultRole,
			Neighbors: make(map[addr.DPID][]addr.PortNo),
		}
		s.switches[dpid] = sw
	}
	sw.Name = name
	sw.Ports = make(map[addr.PortNo]Port, len(ports))
	for _, p := range ports {
		sw.Ports[p.No] = p
	}
	s.version++
}

// RemoveSwitch removes the switch, the neighbor references to it and every
// link touching it. It returns the removed link keys.
func (s *Store) RemoveSwitch(dpid addr.DPID) []LinkKey {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	sw, ok := s.switches[dpid]
	if !ok {
		return nil
	}
	peers := u64set.New()
	for n := range sw.Neighbors {
		peers.Add(uint64(n))
	}
	peers.Each(func(n uint64) bool {
		if other, ok := s.switches[addr.DPID(n)]; ok {
			delete(other.Neighbors, dpid)
		}
		return true
	})
	var removed []LinkKey
	for key := range s.links {
		if key.Lo == dpid || key.Hi == dpid {
			removed = append(removed, key)
			delete(s.links, key)
		}
	}
	delete(s.switches, dpid)
	s.version++
	slices.SortFunc(removed, compareKeys)
	return removed
}

// AddPort adds or replaces a port.
func (s *Store) AddPort(dpid addr.DPID, p Port) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	sw, ok := s.switches[dpid]
	if !ok {
		return
	}
	sw.Ports[p.No] = p
	s.version++
}

// ModifyPort sets the port state and reports the transition.
func (s *Store) ModifyPort(dpid addr.DPID, no addr.PortNo, state PortState) Transition {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	sw, ok := s.switches[dpid]
	if !ok {
		return NoChange
	}
	p, ok := sw.Ports[no]
	if !ok || p.State == state {
		return NoChange
	}
	p.State = state
	sw.Ports[no] = p
	s.version++
	if state == PortStateDown {
		return TransitionDown
	}
	return TransitionUp
}

// DeletePort removes a port.
func (s *Store) DeletePort(dpid addr.DPID, no addr.PortNo) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if sw, ok := s.switches[dpid]; ok {
		delete(sw.Ports, no)
		s.version++
	}
}

// AddLink adds a direct link. It returns the stored link and false if the
// port pair is already known under the key.
func (s *Store) AddLink(src, dst addr.PortRef) (Link, bool) {
	key, ports := Canonicalize(src, dst)
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if i := indexOf(s.links[key], ports); i >= 0 {
		return s.links[key][i], false
	}
	l := Link{Key: key, Ports: ports, Attr: LinkDirect, Updated: s.now()}
	s.links[key] = append(s.links[key], l)
	s.setNeighborLocked(key.Lo, key.Hi, ports.Lo)
	s.setNeighborLocked(key.Hi, key.Lo, ports.Hi)
	s.version++
	return l, true
}

// RemoveLink removes the direct link with the given port pair and the
// corresponding neighbor ports.
func (s *Store) RemoveLink(src, dst addr.PortRef) (LinkKey, bool) {
	key, ports := Canonicalize(src, dst)
	s.mtx.Lock()
	defer s.mtx.Unlock()
	i := indexOf(s.links[key], ports)
	if i < 0 || s.links[key][i].Attr != LinkDirect {
		return key, false
	}
	s.deleteLinkLocked(key, i)
	s.clearNeighborLocked(key.Lo, key.Hi, ports.Lo)
	s.clearNeighborLocked(key.Hi, key.Lo, ports.Hi)
	s.version++
	return key, true
}

// AddVirtualLink adds an administratively created link. Adding an existing
// virtual link is a no-op. A port pair taken by a direct link is rejected with
// ErrPortPairInUse.
func (s *Store) AddVirtualLink(src, dst addr.PortRef) error {
	key, ports := Canonicalize(src, dst)
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if i := indexOf(s.links[key], ports); i >= 0 {
		if s.links[key][i].Attr != LinkVirtual {
			return ErrPortPairInUse
		}
		return nil
	}
	s.links[key] = append(s.links[key], Link{
		Key:     key,
		Ports:   ports,
		Attr:    LinkVirtual,
		Updated: s.now(),
	})
	s.version++
	return nil
}

// RemoveVirtualLink removes a virtual link. Direct links are never removed.
func (s *Store) RemoveVirtualLink(src, dst addr.PortRef) bool {
	key, ports := Canonicalize(src, dst)
	s.mtx.Lock()
	defer s.mtx.Unlock()
	i := indexOf(s.links[key], ports)
	if i < 0 || s.links[key][i].Attr != LinkVirtual {
		return false
	}
	s.deleteLinkLocked(key, i)
	s.version++
	return true
}

// SetNeighbor records that port of dpid connects to neighbor.
func (s *Store) SetNeighbor(dpid, neighbor addr.DPID, port addr.PortNo) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.setNeighborLocked(dpid, neighbor, port)
	s.version++
}

// ClearNeighbor removes port from the ports of dpid towards neighbor.
func (s *Store) ClearNeighbor(dpid, neighbor addr.DPID, port addr.PortNo) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.clearNeighborLocked(dpid, neighbor, port)
	s.version++
}

// Attribute returns the role of the switch.
func (s *Store) Attribute(dpid addr.DPID) (Role, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	sw, ok := s.switches[dpid]
	if !ok {
		return "", false
	}
	return sw.Role, true
}

// SetAttribute sets the role of the switch.
func (s *Store) SetAttribute(dpid addr.DPID, role Role) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if sw, ok := s.switches[dpid]; ok {
		sw.Role = role
		s.version++
	}
}

// Switch returns a copy of the switch.
func (s *Store) Switch(dpid addr.DPID) (Switch, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	sw, ok := s.switches[dpid]
	if !ok {
		return Switch{}, false
	}
	return sw.clone(), true
}

// Links returns a copy of the links between a and b in either direction.
func (s *Store) Links(a, b addr.DPID) []Link {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return slices.Clone(s.links[NewLinkKey(a, b)])
}

// SetLinkParams applies static parameters to the link with the given ports.
// The available bandwidth starts at the total bandwidth until telemetry
// reports otherwise.
func (s *Store) SetLinkParams(key LinkKey, ports PortPair, p LinkParams) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	i := indexOf(s.links[key], ports)
	if i < 0 {
		return false
	}
	l := &s.links[key][i]
	l.LinkParams = p
	if l.AvailableBandwidth == 0 || l.AvailableBandwidth > p.TotalBandwidth {
		l.AvailableBandwidth = p.TotalBandwidth
	}
	l.Updated = s.now()
	s.version++
	return true
}

// SetAvailable updates the available bandwidth of a link.
func (s *Store) SetAvailable(key LinkKey, ports PortPair, bw float64) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	i := indexOf(s.links[key], ports)
	if i < 0 {
		return false
	}
	s.links[key][i].AvailableBandwidth = max(bw, 0)
	s.links[key][i].Updated = s.now()
	s.version++
	return true
}

// ApplyAttributes applies the switch roles and the link parameters. Link
// parameters only go to the first link of every key.
func (s *Store) ApplyAttributes(a Attributes) {
	for dpid, role := range a.Roles {
		s.SetAttribute(dpid, role)
	}
	for key, params := range a.Links {
		s.mtx.RLock()
		links := s.links[key]
		var ports PortPair
		ok := len(links) > 0
		if ok {
			ports = links[0].Ports
		}
		s.mtx.RUnlock()
		if ok {
			s.SetLinkParams(key, ports, params)
		}
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *Snapshot {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	snap := &Snapshot{
		Version:  s.version,
		Switches: make(map[addr.DPID]Switch, len(s.switches)),
		Links:    make(map[LinkKey][]Link, len(s.links)),
	}
	for dpid, sw := range s.switches {
		snap.Switches[dpid] = sw.clone()
	}
	for key, links := range s.links {
		snap.Links[key] = slices.Clone(links)
	}
	return snap
}

func (s *Store) setNeighborLocked(dpid, neighbor addr.DPID, port addr.PortNo) {
	sw, ok := s.switches[dpid]
	if !ok {
		return
	}
	if !slices.Contains(sw.Neighbors[neighbor], port) {
		sw.Neighbors[neighbor] = append(sw.Neighbors[neighbor], port)
	}
}

func (s *Store) clearNeighborLocked(dpid, neighbor addr.DPID, port addr.PortNo) {
	sw, ok := s.switches[dpid]
	if !ok {
		return
	}
	ports := slices.DeleteFunc(sw.Neighbors[neighbor], func(p addr.PortNo) bool {
		return p == port
	})
	if len(ports) == 0 {
		delete(sw.Neighbors, neighbor)
		return
	}
	sw.Neighbors[neighbor] = ports
}

func (s *Store) deleteLinkLocked(key LinkKey, i int) {
	links := slices.Delete(s.links[key], i, i+1)
	if len(links) == 0 {
		delete(s.links, key)
		return
	}
	s.links[key] = links
}

func indexOf(links []Link, ports PortPair) int {
	return slices.IndexFunc(links, func(l Link) bool { return l.Ports == ports })
}

func compareKeys(a, b LinkKey) int {
	return cmp.Or(cmp.Compare(a.Lo, b.Lo), cmp.Compare(a.Hi, b.Hi))
}
