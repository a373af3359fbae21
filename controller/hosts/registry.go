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


// Package hosts keeps the inventory of servers, clusters and end hosts the
// controller routes to.
//
// The server registry indexes every server by IP address, by service type and
// by attachment port. All three indices are updated under one lock, so a
// reader never sees a server in one index but not in another.
package hosts

import (
	"errors"
	"maps"
	"net"
	"net/netip"
	"slices"
	"strings"
	"sync"

	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

var (
	// ErrNotFound indicates an unknown server or cluster.
	ErrNotFound = errors.New("not found")
	// ErrServerUp is returned when a running server would be reconfigured.
	ErrServerUp = errors.New("server is up")
)

// Status is the health of a server.
type Status bool

const (
	StatusDown Status = false
	StatusUp   Status = true
)

func (s Status) String() string {
	if s {
		return "UP"
	}
	return "DOWN"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "UP":
		*s = StatusUp
	case "DOWN":
		*s = StatusDown
	default:
		return serrors.New("invalid server status", "status", string(text))
	}
	return nil
}

// Server is a backend server of a cluster.
type Server struct {
	IP         netip.Addr
	MAC        net.HardwareAddr
	Attachment addr.PortRef
	// Cluster is the virtual IP of the cluster the server belongs to. It is
	// invalid for servers outside of any cluster.
	Cluster netip.Addr
	Type    string
	Status  Status
}

func (s Server) clone() Server {
	s.MAC = slices.Clone(s.MAC)
	return s
}

// Registry is the server inventory together with the cluster table.
type Registry struct {
	mtx          sync.RWMutex
	byIP         map[netip.Addr]*Server
	byType       map[string][]netip.Addr
	byAttachment map[addr.PortRef]netip.Addr
	clusters     map[netip.Addr]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byIP:         make(map[netip.Addr]*Server),
		byType:       make(map[string][]netip.Addr),
		byAttachment: make(map[addr.PortRef]netip.Addr),
		clusters:     make(map[netip.Addr]string),
	}
}

// InitServer inserts the server or replaces the server with the same IP.
func (r *Registry) InitServer(s Server) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.deleteLocked(s.IP)
	r.insertLocked(s.clone())
}

// DeleteServer removes the server from all indices.
func (r *Registry) DeleteServer(ip netip.Addr) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if !r.deleteLocked(ip) {
		return serrors.JoinNoStack(ErrNotFound, nil, "ip", ip)
	}
	return nil
}

// UpdateStatus sets the status of the server. It reports whether the status
// changed.
func (r *Registry) UpdateStatus(ip netip.Addr, status Status) (bool, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	s, ok := r.byIP[ip]
	if !ok {
		return false, serrors.JoinNoStack(ErrNotFound, nil, "ip", ip)
	}
	if s.Status == status {
		log.Debug("Server status unchanged", "ip", ip, "status", status)
		return false, nil
	}
	s.Status = status
	log.Info("Server status updated", "ip", ip, "status", status)
	return true, nil
}

// UpdatePosition moves the server to a new attachment port.
func (r *Registry) UpdatePosition(ip netip.Addr, ref addr.PortRef) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	s, ok := r.byIP[ip]
	if !ok {
		return serrors.JoinNoStack(ErrNotFound, nil, "ip", ip)
	}
	if s.Attachment == ref {
		return nil
	}
	delete(r.byAttachment, s.Attachment)
	s.Attachment = ref
	r.byAttachment[ref] = ip
	log.Info("Server position updated", "ip", ip, "attachment", ref)
	return nil
}

// SetBusinessType moves the server to another service type.
func (r *Registry) SetBusinessType(ip netip.Addr, typ string) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	s, ok := r.byIP[ip]
	if !ok {
		return serrors.JoinNoStack(ErrNotFound, nil, "ip", ip)
	}
	if s.Type == typ {
		return nil
	}
	r.removeTypeLocked(s.Type, ip)
	s.Type = typ
	r.byType[typ] = append(r.byType[typ], ip)
	return nil
}

// ByIP returns the server with the IP.
func (r *Registry) ByIP(ip netip.Addr) (Server, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	s, ok := r.byIP[ip]
	if !ok {
		return Server{}, false
	}
	return s.clone(), true
}

// ByAttachment returns the server attached to the port.
func (r *Registry) ByAttachment(ref addr.PortRef) (Server, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	ip, ok := r.byAttachment[ref]
	if !ok {
		return Server{}, false
	}
	return r.byIP[ip].clone(), true
}

// ByType returns the servers of the type in registration order.
func (r *Registry) ByType(typ string) []Server {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	res := make([]Server, 0, len(r.byType[typ]))
	for _, ip := range r.byType[typ] {
		res = append(res, r.byIP[ip].clone())
	}
	return res
}

// Types returns the service types with at least one server.
func (r *Registry) Types() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return slices.Sorted(maps.Keys(r.byType))
}

// Servers returns all servers ordered by IP.
func (r *Registry) Servers() []Server {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	res := make([]Server, 0, len(r.byIP))
	for _, ip := range slices.SortedFunc(maps.Keys(r.byIP), netip.Addr.Compare) {
		res = append(res, r.byIP[ip].clone())
	}
	return res
}

// AddCluster registers a cluster. Re-adding a cluster keeps the first type.
func (r *Registry) AddCluster(ip netip.Addr, typ string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if _, ok := r.clusters[ip]; !ok {
		r.clusters[ip] = typ
	}
}

// ClusterType returns the service type of the cluster.
func (r *Registry) ClusterType(ip netip.Addr) (string, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	typ, ok := r.clusters[ip]
	return typ, ok
}

// ClusterMembers returns the servers of the cluster in registration order.
func (r *Registry) ClusterMembers(cluster netip.Addr) []Server {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.membersLocked(cluster)
}

// ClusterStatus returns the number of UP servers in the cluster. Zero means
// the cluster is down.
func (r *Registry) ClusterStatus(cluster netip.Addr) int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	n := 0
	for _, s := range r.membersLocked(cluster) {
		if s.Status == StatusUp {
			n++
		}
	}
	return n
}

// UpdateServerCluster replaces the configuration of a member server. Only DOWN
// servers are updated.
func (r *Registry) UpdateServerCluster(s Server) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if _, ok := r.clusters[s.Cluster]; !ok {
		return serrors.JoinNoStack(ErrNotFound, nil, "cluster", s.Cluster)
	}
	cur, ok := r.byIP[s.IP]
	if !ok || cur.Cluster != s.Cluster {
		return serrors.JoinNoStack(ErrNotFound, nil, "ip", s.IP, "cluster", s.Cluster)
	}
	if cur.Status == StatusUp {
		return serrors.JoinNoStack(ErrServerUp, nil, "ip", s.IP)
	}
	r.deleteLocked(s.IP)
	r.insertLocked(s.clone())
	return nil
}

func (r *Registry) membersLocked(cluster netip.Addr) []Server {
	var res []Server
	for _, ips := range r.byType {
		for _, ip := range ips {
			if s := r.byIP[ip]; s.Cluster == cluster {
				res = append(res, s.clone())
			}
		}
	}
	slices.SortFunc(res, func(a, b Server) int { return a.IP.Compare(b.IP) })
	return res
}

func (r *Registry) insertLocked(s Server) {
	r.byIP[s.IP] = &s
	r.byType[s.Type] = append(r.byType[s.Type], s.IP)
	r.byAttachment[s.Attachment] = s.IP
}

func (r *Registry) deleteLocked(ip netip.Addr) bool {
	s, ok := r.byIP[ip]
	if !ok {
		return false
	}
	delete(r.byIP, ip)
	r.removeTypeLocked(s.Type, ip)
	if r.byAttachment[s.Attachment] == ip {
		delete(r.byAttachment, s.Attachment)
	}
	return true
}

func (r *Registry) removeTypeLocked(typ string, ip netip.Addr) {
	ips := slices.DeleteFunc(r.byType[typ], func(x netip.Addr) bool { return x == ip })
	if len(ips) == 0 {
		delete(r.byType, typ)
		return
	}
	r.byType[typ] = ips
}
