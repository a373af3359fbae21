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


package routing_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/controller/routing/routingtest"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/private/telemetry"
	"github.com/sdnroute/sdnroute/private/topology"
)

type fakeView map[topology.LinkKey]telemetry.Sample

func (v fakeView) Lookup(key topology.LinkKey, _ topology.PortPair) (telemetry.Sample, bool) {
	s, ok := v[key]
	return s, ok
}

var base = routingtest.Link{Delay: 1, Cost: 1, Total: 1e8}

// square: 1-2-3-4-1 with the diagonal 1-3.
func square() *routing.Graph {
	return routing.NewGraph(routingtest.Snapshot(routingtest.Uniform(base,
		[2]addr.DPID{1, 2}, [2]addr.DPID{2, 3}, [2]addr.DPID{3, 4},
		[2]addr.DPID{1, 4}, [2]addr.DPID{1, 3},
	)))
}

func TestNewGraph(t *testing.T) {
	g := square()
	require.Equal(t, 4, g.Len())
	assert.Equal(t, 5, g.NumEdges())
	for i := range g.Len() {
		assert.Equal(t, addr.DPID(i+1), g.Vertex(i))
	}
	assert.Equal(t, []int{1, 2, 3}, g.Neighbors(0))
	assert.Equal(t, []int{0, 2}, g.Neighbors(1))
	assert.True(t, g.Adjacent(2, 0))
	assert.False(t, g.Adjacent(1, 3))
	e, ok := g.Edge(2, 1)
	require.True(t, ok)
	assert.Equal(t, 1, e.A)
	assert.Equal(t, 2, e.B)
	_, ok = g.Index(9)
	assert.False(t, ok)
}

func TestNewGraphParallelLinks(t *testing.T) {
	s := topology.NewStore()
	s.AddSwitch(1, "", []topology.Port{{No: 1}, {No: 2}})
	s.AddSwitch(2, "", []topology.Port{{No: 1}, {No: 2}})
	for _, no := range []addr.PortNo{2, 1} {
		l, ok := s.AddLink(addr.PortRef{DPID: 1, Port: no}, addr.PortRef{DPID: 2, Port: no})
		require.True(t, ok)
		s.SetLinkParams(l.Key, l.Ports, topology.LinkParams{Delay: float64(no)})
	}
	g := routing.NewGraph(s.Snapshot())
	require.Equal(t, 1, g.NumEdges())
	e := g.EdgeAt(0)
	assert.Equal(t, topology.PortPair{Lo: 1, Hi: 1}, e.Ports)
	assert.Equal(t, 1.0, e.Delay)
}

func TestEdgeLoad(t *testing.T) {
	testCases := map[string]struct {
		edge  routing.Edge
		load  float64
		below bool
	}{
		"idle":           {edge: routing.Edge{Total: 10, Available: 10}, load: 0},
		"half":           {edge: routing.Edge{Total: 10, Available: 5}, load: 0.5, below: true},
		"over committed": {edge: routing.Edge{Total: 10, Available: -3}, load: 1, below: true},
		"unknown total":  {edge: routing.Edge{Available: 0}, load: 0},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.load, tc.edge.Load())
			assert.Equal(t, tc.below, tc.edge.Below(6))
			assert.False(t, tc.edge.Below(0))
		})
	}
}

func TestRefresh(t *testing.T) {
	g := square()
	e, _ := g.Edge(0, 1)
	g.Refresh(fakeView{e.Key: {Available: 4e7}})
	assert.Equal(t, 4e7, e.Available)
	other, _ := g.Edge(1, 2)
	assert.Equal(t, 1e8, other.Available)
	g.Refresh(nil)
	assert.Equal(t, 4e7, e.Available)
}

func TestPathConversion(t *testing.T) {
	g := square()
	idx, ok := g.Indices(routing.Path{1, 3, 4})
	require.True(t, ok)
	assert.Equal(t, []int{0, 2, 3}, idx)
	assert.True(t, g.Valid(idx))
	assert.Equal(t, routing.Path{1, 3, 4}, g.Path(idx))
	assert.Nil(t, g.Path(nil))
	assert.False(t, g.Valid([]int{1, 3}))
	_, ok = g.Indices(routing.Path{1, 5})
	assert.False(t, ok)
}

func TestPathCost(t *testing.T) {
	links := []routingtest.Link{
		{A: 1, B: 2, Delay: 2, Loss: 0.1, Total: 1e8, Available: 3e7},
		{A: 2, B: 3, Delay: 3, Loss: 0.2, Total: 1e8},
	}
	g := routing.NewGraph(routingtest.Snapshot(links))
	c := g.PathCost([]int{0, 1, 2})
	assert.Equal(t, 5.0, c.Delay)
	assert.InDelta(t, 1-0.9*0.8, c.Loss, 1e-12)
	assert.Equal(t, 3e7, c.Bandwidth)
	assert.Zero(t, c.Weight)
	assert.Equal(t, routing.Cost{}, g.PathCost([]int{0}))
	assert.False(t, math.IsInf(g.PathCost(nil).Bandwidth, 0))
}

func TestSimplePaths(t *testing.T) {
	g := square()
	testCases := map[string]struct {
		src, dst, maxHop, limit int
		want                    [][]int
	}{
		"same vertex": {src: 1, dst: 1, maxHop: 2, want: [][]int{{1}}},
		"direct only": {src: 0, dst: 2, maxHop: 2, want: [][]int{{0, 2}}},
		"three hops": {src: 0, dst: 2, maxHop: 3, want: [][]int{
			{0, 3, 2}, {0, 2}, {0, 1, 2},
		}},
		"all": {src: 0, dst: 2, maxHop: 4, want: [][]int{
			{0, 3, 2}, {0, 2}, {0, 1, 2},
		}},
		"limited": {src: 1, dst: 3, maxHop: 4, limit: 2, want: [][]int{
			{1, 2, 3}, {1, 2, 0, 3},
		}},
		"no path within hops": {src: 1, dst: 3, maxHop: 2},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got := g.SimplePaths(tc.src, tc.dst, tc.maxHop, tc.limit)
			assert.Empty(t, cmp.Diff(tc.want, got))
		})
	}
}

func TestGroupKey(t *testing.T) {
	dsts := []addr.DPID{0x30, 0x10, 0x20}
	assert.Equal(t, routing.GroupKey(1, dsts), routing.GroupKey(1, []addr.DPID{0x10, 0x20, 0x30}))
	assert.NotEqual(t, routing.GroupKey(1, dsts), routing.GroupKey(2, dsts))
	assert.Equal(t, []addr.DPID{0x30, 0x10, 0x20}, dsts, "input must not be reordered")
}

func TestTreeReachable(t *testing.T) {
	assert.False(t, routing.Tree{}.Reachable())
	assert.True(t, routing.Tree{
		Dsts:     []addr.DPID{2, 3},
		Branches: []routing.Path{{1, 2}, {1, 3}},
	}.Reachable())
	assert.False(t, routing.Tree{
		Dsts:     []addr.DPID{2, 3},
		Branches: []routing.Path{{1, 2}, nil},
	}.Reachable())
}
