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


package hosts

import (
	"maps"
	"net"
	"net/netip"
	"slices"
	"sync"

	"github.com/hashicorp/golang-lru/arc/v2"

	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

// DefaultMACCacheSize is the size of the MAC address cache.
const DefaultMACCacheSize = 1024

// Host is an end host learned from the data plane or the configuration.
type Host struct {
	IP         netip.Addr
	MAC        net.HardwareAddr
	Attachment addr.PortRef
}

// HostTable maps IP addresses to hosts. MAC lookups, the hot path of flow
// construction, go through an adaptive replacement cache.
type HostTable struct {
	mtx   sync.RWMutex
	hosts map[netip.Addr]Host
	macs  *arc.ARCCache[netip.Addr, string]
}

// NewHostTable creates a host table with a MAC cache of the given size.
func NewHostTable(cacheSize int) (*HostTable, error) {
	macs, err := arc.NewARC[netip.Addr, string](cacheSize)
	if err != nil {
		return nil, serrors.Wrap("creating MAC cache", err, "size", cacheSize)
	}
	return &HostTable{
		hosts: make(map[netip.Addr]Host),
		macs:  macs,
	}, nil
}

// Learn inserts or updates the host.
func (t *HostTable) Learn(h Host) {
	h.MAC = slices.Clone(h.MAC)
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.hosts[h.IP] = h
	t.macs.Add(h.IP, h.MAC.String())
}

// Forget removes the host.
func (t *HostTable) Forget(ip netip.Addr) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	delete(t.hosts, ip)
	t.macs.Remove(ip)
}

// Lookup returns the host with the IP.
func (t *HostTable) Lookup(ip netip.Addr) (Host, bool) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	h, ok := t.hosts[ip]
	h.MAC = slices.Clone(h.MAC)
	return h, ok
}

// MAC returns the hardware address of the host.
func (t *HostTable) MAC(ip netip.Addr) (net.HardwareAddr, bool) {
	if s, ok := t.macs.Get(ip); ok {
		mac, err := net.ParseMAC(s)
		return mac, err == nil
	}
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	h, ok := t.hosts[ip]
	if !ok {
		return nil, false
	}
	t.macs.Add(ip, h.MAC.String())
	return slices.Clone(h.MAC), true
}

// Hosts returns all hosts ordered by IP.
func (t *HostTable) Hosts() []Host {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	res := make([]Host, 0, len(t.hosts))
	for _, ip := range slices.SortedFunc(maps.Keys(t.hosts), netip.Addr.Compare) {
		h := t.hosts[ip]
		h.MAC = slices.Clone(h.MAC)
		res = append(res, h)
	}
	return res
}

// Len returns the number of hosts.
func (t *HostTable) Len() int {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return len(t.hosts)
}
