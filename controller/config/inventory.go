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

package config

import (
	"io"
	"net"
	"net/netip"

	"github.com/sdnroute/sdnroute/controller/hosts"
	"github.com/sdnroute/sdnroute/controller/packetin"
	"github.com/sdnroute/sdnroute/controller/routeinfo"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
	"github.com/sdnroute/sdnroute/private/config"
)

var _ config.Config = (*Inventory)(nil)

// Inventory is the static host inventory: gateways, hosts, servers, clusters
// and multicast groups.
type Inventory struct {
	config.NoDefaulter
	Gateways []Gateway        `toml:"gateways,omitempty"`
	Hosts    []Host           `toml:"hosts,omitempty"`
	Clusters []Cluster        `toml:"clusters,omitempty"`
	Servers  []Server         `toml:"servers,omitempty"`
	Groups   []MulticastGroup `toml:"groups,omitempty"`
}

// Gateway binds a gateway IP to its MAC address.
type Gateway struct {
	IP  netip.Addr `toml:"ip"`
	MAC string     `toml:"mac"`
}

// Host is a user or server host with a known attachment.
type Host struct {
	IP         netip.Addr   `toml:"ip"`
	MAC        string       `toml:"mac"`
	Attachment addr.PortRef `toml:"attachment"`
}

// Cluster is a virtual IP served by a set of servers of one business type.
type Cluster struct {
	IP   netip.Addr `toml:"ip"`
	Type string     `toml:"type"`
}

// Server is a backend server. Cluster is optional, the status defaults to UP.
type Server struct {
	IP         netip.Addr   `toml:"ip"`
	MAC        string       `toml:"mac"`
	Attachment addr.PortRef `toml:"attachment"`
	Type    string     `toml:"type"`
	Cluster netip.Addr `toml:"cluster,omitempty"`
	Status  string     `toml:"status,omitempty"`
}

func (s Server) host() Host {
	return Host{IP: s.IP, MAC: s.MAC, Attachment: s.Attachment}
}

func (s Server) status() (hosts.Status, error) {
	if s.Status == "" {
		return hosts.StatusUp, nil
	}
	var st hosts.Status
	err := st.UnmarshalText([]byte(s.Status))
	return st, err
}

// MulticastGroup lists the member IPs of a group. Members must be hosts of the
// inventory.
type MulticastGroup struct {
	IP      netip.Addr   `toml:"ip"`
	Members []netip.Addr `toml:"members"`
}

func (cfg *Inventory) Validate() error {
	if _, err := cfg.GatewayMACs(); err != nil {
		return err
	}
	known := make(map[netip.Addr]struct{})
	for _, h := range cfg.Hosts {
		if err := h.validate(); err != nil {
			return err
		}
		known[h.IP] = struct{}{}
	}
	clusters := make(map[netip.Addr]struct{})
	for _, c := range cfg.Clusters {
		if !c.IP.IsValid() || c.Type == "" {
			return serrors.New("cluster needs ip and type", "ip", c.IP, "type", c.Type)
		}
		clusters[c.IP] = struct{}{}
	}
	for _, s := range cfg.Servers {
		if err := s.host().validate(); err != nil {
			return err
		}
		if s.Type == "" {
			return serrors.New("server without type", "ip", s.IP)
		}
		if _, err := s.status(); err != nil {
			return err
		}
		if _, ok := clusters[s.Cluster]; s.Cluster.IsValid() && !ok {
			return serrors.New("server of unknown cluster", "ip", s.IP, "cluster", s.Cluster)
		}
		known[s.IP] = struct{}{}
	}
	for _, g := range cfg.Groups {
		if !packetin.IsMulticast(g.IP) {
			return serrors.New("not a multicast group", "group", g.IP)
		}
		for _, m := range g.Members {
			if _, ok := known[m]; !ok {
				return serrors.New("unknown group member", "group", g.IP, "member", m)
			}
		}
	}
	return nil
}

// GatewayMACs returns the gateway bindings.
func (cfg *Inventory) GatewayMACs() (map[netip.Addr]net.HardwareAddr, error) {
	res := make(map[netip.Addr]net.HardwareAddr, len(cfg.Gateways))
	for _, g := range cfg.Gateways {
		mac, err := net.ParseMAC(g.MAC)
		if err != nil {
			return nil, serrors.Wrap("parsing gateway mac", err, "ip", g.IP)
		}
		res[g.IP] = mac
	}
	return res, nil
}

// Apply loads the inventory into the controller state. It expects a
// validated inventory.
func (cfg *Inventory) Apply(reg *hosts.Registry, table *hosts.HostTable,
	groups *packetin.Groups) error {

	endpoints := make(map[netip.Addr]routeinfo.Endpoint)
	for _, h := range cfg.Hosts {
		e := h.endpoint()
		endpoints[h.IP] = e
		table.Learn(hosts.Host{IP: e.IP, MAC: e.MAC, Attachment: e.Attachment})
	}
	for _, c := range cfg.Clusters {
		reg.AddCluster(c.IP, c.Type)
	}
	for _, s := range cfg.Servers {
		status, err := s.status()
		if err != nil {
			return err
		}
		e := s.host().endpoint()
		endpoints[s.IP] = e
		table.Learn(hosts.Host{IP: e.IP, MAC: e.MAC, Attachment: e.Attachment})
		reg.InitServer(hosts.Server{
			IP:         e.IP,
			MAC:        e.MAC,
			Attachment: e.Attachment,
			Cluster:    s.Cluster,
			Type:       s.Type,
			Status:     status,
		})
	}
	for _, g := range cfg.Groups {
		for _, m := range g.Members {
			if err := groups.Join(g.IP, endpoints[m]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (cfg *Inventory) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, inventorySample)
}

func (cfg *Inventory) ConfigName() string {
	return "inventory"
}

func (h Host) validate() error {
	if !h.IP.IsValid() {
		return serrors.New("host without ip")
	}
	if _, err := net.ParseMAC(h.MAC); err != nil {
		return serrors.Wrap("parsing host mac", err, "ip", h.IP)
	}
	if h.Attachment.Port.Reserved() {
		return serrors.New("host attached to reserved port", "ip", h.IP,
			"attachment", h.Attachment)
	}
	return nil
}

func (h Host) endpoint() routeinfo.Endpoint {
	mac, _ := net.ParseMAC(h.MAC)
	return routeinfo.Endpoint{IP: h.IP, MAC: mac, Attachment: h.Attachment}
}
