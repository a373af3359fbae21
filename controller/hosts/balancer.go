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
	"net/netip"
	"sync"

	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

// Balancer assigns requests for a cluster IP to the UP member with the fewest
// connections. Ties go to the lowest server IP.
type Balancer struct {
	reg   *Registry
	mtx   sync.Mutex
	conns map[netip.Addr]int
}

// NewBalancer creates a balancer over the registry clusters.
func NewBalancer(reg *Registry) *Balancer {
	return &Balancer{reg: reg, conns: make(map[netip.Addr]int)}
}

// Pick returns the server for a new connection to the cluster and counts the
// connection.
func (b *Balancer) Pick(cluster netip.Addr) (Server, error) {
	if _, ok := b.reg.ClusterType(cluster); !ok {
		return Server{}, serrors.JoinNoStack(ErrNotFound, nil, "cluster", cluster)
	}
	b.mtx.Lock()
	defer b.mtx.Unlock()
	var best Server
	found := false
	for _, s := range b.reg.ClusterMembers(cluster) {
		if s.Status != StatusUp {
			continue
		}
		if !found || b.conns[s.IP] < b.conns[best.IP] {
			best, found = s, true
		}
	}
	if !found {
		return Server{}, serrors.New("no server up in cluster", "cluster", cluster)
	}
	b.conns[best.IP]++
	return best, nil
}

// Release ends a connection to the server.
func (b *Balancer) Release(ip netip.Addr) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.conns[ip] > 0 {
		b.conns[ip]--
	}
}

// Connections returns the number of connections assigned to the server.
func (b *Balancer) Connections(ip netip.Addr) int {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.conns[ip]
}
