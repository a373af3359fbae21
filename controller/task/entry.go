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

// Package task queues route requests, computes their paths in a periodic
// drain loop and turns the results into flow plans for the installer.
package task

import (
	"fmt"
	"net"
	"net/netip"
	"slices"
	"time"

	"github.com/sdnroute/sdnroute/controller/routeinfo"
	"github.com/sdnroute/sdnroute/pkg/addr"
)

// Entry is a route request. Which fields are set depends on Kind:
//
//   - KindUnicast: Src, Dst, Service.
//   - KindNAT: Src, Dst (the server), Virtual (the cluster IP), Gateway,
//     Service.
//   - KindMulticast: Src, Virtual (the group address), Members.
//
// An entry is consumed exactly once. Retries build a new entry.
type Entry struct {
	Kind routeinfo.Kind
	Src  routeinfo.Endpoint
	Dst  routeinfo.Endpoint
	// Virtual is the address the source sent to when it differs from the
	// destination host.
	Virtual netip.Addr
	// Gateway is the MAC address NAT replies are rewritten to.
	Gateway net.HardwareAddr
	Members []routeinfo.Endpoint
	Service string
	// Time is the submission time. The drain loop only handles entries that
	// are not in the future.
	Time time.Time
}

// Key returns the request key of the entry.
func (e Entry) Key() routeinfo.RequestKey {
	if e.Kind == routeinfo.KindUnicast {
		return routeinfo.RequestKey{Src: e.Src.IP, Dst: e.Dst.IP}
	}
	return routeinfo.RequestKey{Src: e.Src.IP, Dst: e.Virtual}
}

// DstSwitches returns the switches the members attach to, without duplicates,
// in member order.
func (e Entry) DstSwitches() []addr.DPID {
	var res []addr.DPID
	for _, m := range e.Members {
		if !slices.Contains(res, m.Attachment.DPID) {
			res = append(res, m.Attachment.DPID)
		}
	}
	return res
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s", e.Kind, e.Key())
}

// FromRecord rebuilds the entry that produced the record.
func FromRecord(r routeinfo.Record) Entry {
	e := Entry{
		Kind:    r.Kind,
		Src:     r.Src,
		Dst:     r.Dst,
		Gateway: r.Gateway,
		Members: slices.Clone(r.Members),
		Service: r.Service,
		Time:    time.Now(),
	}
	if r.Kind != routeinfo.KindUnicast {
		e.Virtual = r.Key.Dst
	}
	return e
}
