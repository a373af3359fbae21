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


package fault_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdnroute/sdnroute/controller/fault"
	"github.com/sdnroute/sdnroute/controller/routing/routingtest"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/private/topology"
)

func ref(dpid addr.DPID, port addr.PortNo) addr.PortRef {
	return addr.PortRef{DPID: dpid, Port: port}
}

// fabric: access 1 - core 2 - edge 3 and edge 4. Users attach at 1:10, servers
// at 3:10, 3:11 and 4:10. The port on A towards B is numbered B.
func fabric() *topology.Snapshot {
	s := routingtest.Store(routingtest.Uniform(
		routingtest.Link{Delay: 1, Cost: 1, Total: 1e8},
		[2]addr.DPID{1, 2}, [2]addr.DPID{2, 3}, [2]addr.DPID{2, 4}))
	s.AddPort(1, topology.Port{No: 10})
	s.AddPort(3, topology.Port{No: 10})
	s.AddPort(3, topology.Port{No: 11})
	s.AddPort(4, topology.Port{No: 10})
	s.AddPort(2, topology.Port{No: addr.PortLocal})
	s.SetAttribute(1, topology.RoleAccess)
	s.SetAttribute(2, topology.RoleCore)
	s.SetAttribute(3, topology.RoleEdge)
	s.SetAttribute(4, topology.RoleEdge)
	return s.Snapshot()
}

func TestResolve(t *testing.T) {
	p := fault.NewPartitions()
	p.Resolve(fabric())
	want := map[addr.PortRef]fault.PortType{
		ref(1, 2):  fault.PortAccessToBackbone,
		ref(1, 10): fault.PortAccessToUser,
		ref(2, 1):  fault.PortIntraBackbone,
		ref(2, 3):  fault.PortIntraBackbone,
		ref(2, 4):  fault.PortIntraBackbone,
		ref(3, 2):  fault.PortEdgeToBackbone,
		ref(3, 10): fault.PortEdgeToServer,
		ref(3, 11): fault.PortEdgeToServer,
		ref(4, 2):  fault.PortEdgeToBackbone,
		ref(4, 10): fault.PortEdgeToServer,
	}
	for port, typ := range want {
		assert.Equal(t, typ, p.Type(port), "port %s", port)
	}
	assert.Equal(t, fault.PortUnknown, p.Type(ref(2, addr.PortLocal)), "reserved port")

	// Every port has exactly one type.
	total := 0
	for typ := fault.PortEdgeToServer; typ <= fault.PortAccessToUser; typ++ {
		total += len(p.Ports(typ))
	}
	assert.Equal(t, len(want), total)
}

func TestResolveKeepsOverrides(t *testing.T) {
	p := fault.NewPartitions()
	p.Set(map[addr.PortRef]fault.PortType{ref(3, 2): fault.PortEdgeToServer})
	assert.Equal(t, fault.PortEdgeToServer, p.Type(ref(3, 2)))
	p.Resolve(fabric())
	assert.Equal(t, fault.PortEdgeToServer, p.Type(ref(3, 2)))
	assert.Equal(t, fault.PortEdgeToBackbone, p.Type(ref(4, 2)))
}

func TestClassify(t *testing.T) {
	p := fault.NewPartitions()
	p.Resolve(fabric())
	testCases := map[string]struct {
		Src, Dst addr.PortRef
		Want     fault.Category
	}{
		"server edge":                     {ref(3, 10), ref(2, 3), fault.CategoryServerEdge},
		"server edge beats user access":   {ref(1, 10), ref(3, 10), fault.CategoryServerEdge},
		"user access beats access uplink": {ref(1, 2), ref(1, 10), fault.CategoryUserAccess},
		"access uplink":                   {ref(1, 2), ref(2, 1), fault.CategoryAccessBackbone},
		"edge uplink":                     {ref(3, 2), ref(2, 3), fault.CategoryIntraBackbone},
		"unknown ports":                   {ref(9, 1), ref(8, 1), fault.CategoryIntraBackbone},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.Want, p.Classify(tc.Src, tc.Dst))
			assert.Equal(t, tc.Want, p.Classify(tc.Dst, tc.Src), "symmetric")
		})
	}
}

func TestParsePortTypes(t *testing.T) {
	types, err := fault.ParsePortTypes(map[string]string{
		"3,12": "1",
		"1:2":  "access_to_backbone",
	})
	require.NoError(t, err)
	assert.Equal(t, map[addr.PortRef]fault.PortType{
		ref(3, 12): fault.PortEdgeToServer,
		ref(1, 2):  fault.PortAccessToBackbone,
	}, types)

	for name, raw := range map[string]map[string]string{
		"type out of range": {"3,12": "9"},
		"unknown name":      {"3,12": "uplink"},
		"bad port":          {"3": "1"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := fault.ParsePortTypes(raw)
			assert.Error(t, err)
		})
	}
}
