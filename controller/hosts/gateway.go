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

	"go4.org/netipx"

	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

// Gateways holds the virtual gateway addresses. Replies from servers to users
// leave the fabric with the gateway IP and MAC as source.
type Gateways struct {
	set  *netipx.IPSet
	macs map[netip.Addr]net.HardwareAddr
}

// NewGateways builds the gateway table from IP to MAC bindings.
func NewGateways(bindings map[netip.Addr]net.HardwareAddr) (*Gateways, error) {
	var sb netipx.IPSetBuilder
	macs := make(map[netip.Addr]net.HardwareAddr, len(bindings))
	for ip, mac := range bindings {
		if !ip.IsValid() {
			return nil, serrors.New("invalid gateway IP")
		}
		if len(mac) == 0 {
			return nil, serrors.New("gateway without MAC", "ip", ip)
		}
		sb.Add(ip)
		macs[ip] = slices.Clone(mac)
	}
	set, err := sb.IPSet()
	if err != nil {
		return nil, serrors.Wrap("building gateway set", err)
	}
	return &Gateways{set: set, macs: macs}, nil
}

// Contains reports whether the IP is a gateway.
func (g *Gateways) Contains(ip netip.Addr) bool {
	return g.set.Contains(ip)
}

// MAC returns the hardware address of the gateway.
func (g *Gateways) MAC(ip netip.Addr) (net.HardwareAddr, bool) {
	mac, ok := g.macs[ip]
	return slices.Clone(mac), ok
}

// IPs returns the gateway addresses in ascending order.
func (g *Gateways) IPs() []netip.Addr {
	return slices.SortedFunc(maps.Keys(g.macs), netip.Addr.Compare)
}
