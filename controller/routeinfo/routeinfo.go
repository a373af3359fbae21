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


// Package routeinfo records the installed routes and indexes them by the links
// and ports they traverse, so that a failing link or port maps to the routes
// that need recovery.
package routeinfo

import (
	"cmp"
	"fmt"
	"net"
	"net/netip"
	"slices"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/private/topology"
)

// Kind is the kind of route request.
type Kind int

const (
	KindUnicast Kind = iota
	// KindNAT is a load balanced unicast route that rewrites addresses.
	KindNAT
	KindMulticast
)

func (k Kind) String() string {
	switch k {
	case KindUnicast:
		return "unicast"
	case KindNAT:
		return "nat"
	case KindMulticast:
		return "multicast"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// RequestKey identifies a route request by its source and destination IP. For
// multicast requests the destination is the group address.
type RequestKey struct {
	Src netip.Addr
	Dst netip.Addr
}

func (k RequestKey) String() string {
	return k.Src.String() + "->" + k.Dst.String()
}

func compareKeys(a, b RequestKey) int {
	return cmp.Or(a.Src.Compare(b.Src), a.Dst.Compare(b.Dst))
}

// Endpoint is one end of a route.
type Endpoint struct {
	IP         netip.Addr
	MAC        net.HardwareAddr
	Attachment addr.PortRef
}

// Record is an installed route.
type Record struct {
	Key  RequestKey
	Kind Kind
	Src  Endpoint
	// Dst is the destination host. For NAT routes it is the chosen server.
	Dst Endpoint
	// Gateway is the MAC address NAT replies carry as source.
	Gateway net.HardwareAddr
	// Members are the receivers of multicast routes.
	Members []Endpoint
	// Service is the service type the route was computed for.
	Service string
	// Path is the switch path of unicast and NAT routes.
	Path routing.Path
	// Branches holds the per destination paths of multicast routes.
	Branches []routing.Path
	// Ports lists every port the route traverses, including the attachment
	// ports of both endpoints.
	Ports     []addr.PortRef
	Cost      routing.Cost
	Algorithm string
	Installed time.Time
}

// Links returns the canonical keys of all links of the route.
func (r Record) Links() []topology.LinkKey {
	var keys []topology.LinkKey
	add := func(p routing.Path) {
		for i := 0; i+1 < len(p); i++ {
			keys = append(keys, topology.NewLinkKey(p[i], p[i+1]))
		}
	}
	add(r.Path)
	for _, b := range r.Branches {
		add(b)
	}
	slices.SortFunc(keys, func(a, b topology.LinkKey) int {
		return cmp.Or(cmp.Compare(a.Lo, b.Lo), cmp.Compare(a.Hi, b.Hi))
	})
	return slices.Compact(keys)
}

type keySet = *xsync.Map[RequestKey, struct{}]

// Maintainer holds the records and the link and port indices. Reads are lock
// free; writers are serialized so that both indices always agree with the
// record table.
type Maintainer struct {
	mtx     sync.Mutex
	records *xsync.Map[RequestKey, Record]
	byLink  *xsync.Map[topology.LinkKey, keySet]
	byPort  *xsync.Map[addr.PortRef, keySet]
}

// New creates an empty maintainer.
func New() *Maintainer {
	return &Maintainer{
		records: xsync.NewMap[RequestKey, Record](),
		byLink:  xsync.NewMap[topology.LinkKey, keySet](),
		byPort:  xsync.NewMap[addr.PortRef, keySet](),
	}
}

// Add stores the record. An older record with the same key is replaced.
func (m *Maintainer) Add(r Record) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.removeLocked(r.Key)
	m.records.Store(r.Key, r)
	for _, l := range r.Links() {
		insert(m.byLink, l, r.Key)
	}
	for _, p := range r.Ports {
		insert(m.byPort, p, r.Key)
	}
}

// Remove deletes the record. It reports whether a record existed.
func (m *Maintainer) Remove(key RequestKey) bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.removeLocked(key)
}

// Get returns the record of the request.
func (m *Maintainer) Get(key RequestKey) (Record, bool) {
	return m.records.Load(key)
}

// ByLink returns the records that traverse a link between a and b, in either
// direction, ordered by key.
func (m *Maintainer) ByLink(a, b addr.DPID) []Record {
	return collect(m, m.byLink, topology.NewLinkKey(a, b))
}

// ByPort returns the records that traverse the port, ordered by key.
func (m *Maintainer) ByPort(ref addr.PortRef) []Record {
	return collect(m, m.byPort, ref)
}

// Records returns all records ordered by key.
func (m *Maintainer) Records() []Record {
	res := make([]Record, 0, m.records.Size())
	m.records.Range(func(_ RequestKey, r Record) bool {
		res = append(res, r)
		return true
	})
	slices.SortFunc(res, func(a, b Record) int { return compareKeys(a.Key, b.Key) })
	return res
}

// Len returns the number of records.
func (m *Maintainer) Len() int {
	return m.records.Size()
}

func (m *Maintainer) removeLocked(key RequestKey) bool {
	old, ok := m.records.Load(key)
	if !ok {
		return false
	}
	m.records.Delete(key)
	for _, l := range old.Links() {
		remove(m.byLink, l, key)
	}
	for _, p := range old.Ports {
		remove(m.byPort, p, key)
	}
	return true
}

func insert[K comparable](idx *xsync.Map[K, keySet], k K, key RequestKey) {
	set, ok := idx.Load(k)
	if !ok {
		set = xsync.NewMap[RequestKey, struct{}]()
		idx.Store(k, set)
	}
	set.Store(key, struct{}{})
}

func remove[K comparable](idx *xsync.Map[K, keySet], k K, key RequestKey) {
	set, ok := idx.Load(k)
	if !ok {
		return
	}
	set.Delete(key)
	if set.Size() == 0 {
		idx.Delete(k)
	}
}

func collect[K comparable](m *Maintainer, idx *xsync.Map[K, keySet], k K) []Record {
	set, ok := idx.Load(k)
	if !ok {
		return nil
	}
	var res []Record
	set.Range(func(key RequestKey, _ struct{}) bool {
		if r, ok := m.records.Load(key); ok {
			res = append(res, r)
		}
		return true
	})
	slices.SortFunc(res, func(a, b Record) int { return compareKeys(a.Key, b.Key) })
	return res
}
