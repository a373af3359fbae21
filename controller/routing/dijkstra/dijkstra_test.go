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

package dijkstra_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/controller/routing/dijkstra"
	"github.com/sdnroute/sdnroute/controller/routing/routingtest"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/private/telemetry"
	"github.com/sdnroute/sdnroute/private/topology"
)

var base = routingtest.Link{Delay: 1, Cost: 1, Total: 1e8}

// diamond: 1-2-4 and 1-3-4, the path over 3 is slower.
func diamond() []routingtest.Link {
	links := routingtest.Uniform(base, [2]addr.DPID{1, 2}, [2]addr.DPID{2, 4})
	slow := base
	slow.Delay = 5
	return append(links, routingtest.Uniform(slow, [2]addr.DPID{1, 3}, [2]addr.DPID{3, 4})...)
}

func newAlgorithm(links []routingtest.Link) *dijkstra.Algorithm {
	a := dijkstra.New()
	a.Init(routingtest.Snapshot(links, 9))
	return a
}

func TestComputeSameSwitch(t *testing.T) {
	// No Init: the trivial path must not touch the graph.
	a := dijkstra.New()
	for _, dpid := range []addr.DPID{1, 42} {
		p, c, err := a.Compute(context.Background(), dpid, dpid, routing.QoSClass{})
		require.NoError(t, err)
		assert.Equal(t, routing.Path{dpid}, p)
		assert.Equal(t, routing.Cost{}, c)
	}
}

func TestComputeNotInitialized(t *testing.T) {
	_, _, err := dijkstra.New().Compute(context.Background(), 1, 2, routing.QoSClass{})
	assert.ErrorIs(t, err, routing.ErrNotInitialized)
}

func TestCompute(t *testing.T) {
	a := newAlgorithm(diamond())
	testCases := map[string]struct {
		src, dst addr.DPID
		floor    float64
		want     routing.Path
		weight   float64
	}{
		"direct":      {src: 1, dst: 2, want: routing.Path{1, 2}, weight: 2},
		"shortest":    {src: 1, dst: 4, want: routing.Path{1, 2, 4}, weight: 4},
		"reverse":     {src: 4, dst: 1, want: routing.Path{4, 2, 1}, weight: 4},
		"isolated":    {src: 1, dst: 9},
		"unknown":     {src: 1, dst: 77},
		"floor prune": {src: 1, dst: 4, floor: 2e8},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			p, c, err := a.Compute(context.Background(), tc.src, tc.dst,
				routing.QoSClass{Floor: tc.floor})
			require.NoError(t, err)
			assert.Equal(t, tc.want, p)
			if tc.want == nil {
				return
			}
			assert.Equal(t, tc.weight, c.Weight)
			assert.Equal(t, float64(len(tc.want)-1), c.Delay)
			assert.Equal(t, 1e8, c.Bandwidth)
		})
	}
}

func TestTieBreakLowestIndex(t *testing.T) {
	// 1-2-4 and 1-3-4 have equal weight: the vertex scanned first wins.
	a := newAlgorithm(routingtest.Uniform(base,
		[2]addr.DPID{1, 2}, [2]addr.DPID{2, 4}, [2]addr.DPID{1, 3}, [2]addr.DPID{3, 4}))
	for range 10 {
		p, _, err := a.Compute(context.Background(), 1, 4, routing.QoSClass{})
		require.NoError(t, err)
		assert.Equal(t, routing.Path{1, 2, 4}, p)
	}
}

func TestCostMonotonic(t *testing.T) {
	ctx := context.Background()
	_, before, err := newAlgorithm(diamond()).Compute(ctx, 1, 4, routing.QoSClass{})
	require.NoError(t, err)
	for _, delay := range []float64{1.5, 3, 4, 10, 100} {
		links := diamond()
		links[1].Delay = delay
		_, after, err := newAlgorithm(links).Compute(ctx, 1, 4, routing.QoSClass{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, after.Weight, before.Weight, "delay %v", delay)
		before = after
	}
}

type fakeView map[topology.LinkKey]telemetry.Sample

func (v fakeView) Lookup(key topology.LinkKey, _ topology.PortPair) (telemetry.Sample, bool) {
	s, ok := v[key]
	return s, ok
}

func TestRefreshTelemetry(t *testing.T) {
	a := newAlgorithm(diamond())
	// Congest 2-4 so that the load term exceeds the delay advantage.
	require.NoError(t, a.SetParams(map[string]float64{dijkstra.ParamLoad: 100}))
	a.RefreshTelemetry(fakeView{topology.NewLinkKey(2, 4): {Available: 0}})
	p, _, err := a.Compute(context.Background(), 1, 4, routing.QoSClass{})
	require.NoError(t, err)
	assert.Equal(t, routing.Path{1, 3, 4}, p)
}

func TestParams(t *testing.T) {
	a := dijkstra.New()
	want := map[string]float64{
		dijkstra.ParamDelay: 1, dijkstra.ParamCost: 1, dijkstra.ParamLoad: 1,
	}
	assert.Equal(t, want, a.Params())

	err := a.SetParams(map[string]float64{dijkstra.ParamDelay: 3, "unknown": 1})
	assert.ErrorIs(t, err, routing.ErrInvalidParam)
	assert.Equal(t, want, a.Params(), "rejected update must not apply")

	assert.ErrorIs(t, a.SetParams(map[string]float64{dijkstra.ParamCost: -1}),
		routing.ErrInvalidParam)
	require.NoError(t, a.SetParams(map[string]float64{dijkstra.ParamDelay: 3}))
	assert.Equal(t, 3.0, a.Params()[dijkstra.ParamDelay])
}

func TestMissingEdgePenalty(t *testing.T) {
	a := newAlgorithm(diamond())
	// Vertices are sorted by DPID: 2 and 3 are not adjacent.
	assert.Equal(t, 2*(1+100+1.0), a.Weight(1, 2))
	assert.Equal(t, 2.0, a.Weight(0, 1))
}
