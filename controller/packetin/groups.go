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


package packetin

import (
	"maps"
	"net/netip"
	"slices"
	"sync"

	"go4.org/netipx"

	"github.com/sdnroute/sdnroute/controller/routeinfo"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

// multicast is 224.0.0.0/4.
var multicast = func() *netipx.IPSet {
	var sb netipx.IPSetBuilder
	sb.AddPrefix(netip.MustParsePrefix("224.0.0.0/4"))
	set, err := sb.IPSet()
	if err != nil {
		panic(err)
	}
	return set
}()

// IsMulticast reports whether ip is an IPv4 multicast address.
func IsMulticast(ip netip.Addr) bool {
	return multicast.Contains(ip)
}

// Groups is the multicast group table. It maps a group address to the
// receivers that joined it.
type Groups struct {
	mtx    sync.RWMutex
	groups map[netip.Addr][]routeinfo.Endpoint
}

// NewGroups creates an empty group table.
func NewGroups() *Groups {
	return &Groups{groups: make(map[netip.Addr][]routeinfo.Endpoint)}
}

// Join adds the member to the group. A member with the same IP is replaced.
func (g *Groups) Join(group netip.Addr, member routeinfo.Endpoint) error {
	if !IsMulticast(group) {
		return serrors.New("not a multicast group", "group", group)
	}
	g.mtx.Lock()
	defer g.mtx.Unlock()
	members := slices.DeleteFunc(g.groups[group], func(m routeinfo.Endpoint) bool {
		return m.IP == member.IP
	})
	member.MAC = slices.Clone(member.MAC)
	g.groups[group] = append(members, member)
	return nil
}

// Leave removes the member from the group. Empty groups are removed.
func (g *Groups) Leave(group, member netip.Addr) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	members := slices.DeleteFunc(g.groups[group], func(m routeinfo.Endpoint) bool {
		return m.IP == member
	})
	if len(members) == 0 {
		delete(g.groups, group)
		return
	}
	g.groups[group] = members
}

// Members returns the members of the group in join order.
func (g *Groups) Members(group netip.Addr) []routeinfo.Endpoint {
	g.mtx.RLock()
	defer g.mtx.RUnlock()
	return slices.Clone(g.groups[group])
}

// Groups returns the group addresses in ascending order.
func (g *Groups) Groups() []netip.Addr {
	g.mtx.RLock()
	defer g.mtx.RUnlock()
	return slices.SortedFunc(maps.Keys(g.groups), netip.Addr.Compare)
}
