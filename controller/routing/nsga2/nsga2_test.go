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


package nsga2_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/controller/routing/nsga2"
	"github.com/sdnroute/sdnroute/controller/routing/nsga2/mock_nsga2"
	"github.com/sdnroute/sdnroute/controller/routing/routingtest"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/private/storage/routedb"
	"github.com/sdnroute/sdnroute/private/telemetry"
	"github.com/sdnroute/sdnroute/private/topology"
)

var (
	fastPath = routing.Path{1, 2, 3}
	slowPath = routing.Path{1, 4, 3}
)

// square offers the fast lossy branch 1-2-3 and the slow lossless branch
// 1-4-3 towards switch 3. Switch 9 has no links.
func square() []routingtest.Link {
	fast := routingtest.Link{Delay: 1, Loss: 0.1, Total: 1e8}
	slow := routingtest.Link{Delay: 5, Total: 1e8}
	return append(
		routingtest.Uniform(fast, [2]addr.DPID{1, 2}, [2]addr.DPID{2, 3}),
		routingtest.Uniform(slow, [2]addr.DPID{1, 4}, [2]addr.DPID{4, 3})...,
	)
}

func newAlgorithm(t *testing.T, opts ...nsga2.Option) *nsga2.Algorithm {
	t.Helper()
	opts = append([]nsga2.Option{nsga2.WithRand(rand.New(rand.NewPCG(3, 4)))}, opts...)
	a := nsga2.New(opts...)
	a.Init(routingtest.Snapshot(square(), 9))
	return a
}

func TestFront(t *testing.T) {
	a := newAlgorithm(t)
	front, err := a.Front(context.Background(), 1, []addr.DPID{3}, routing.QoSClass{})
	require.NoError(t, err)
	require.Len(t, front, 2)
	assert.Equal(t, []routing.Path{fastPath}, front[0].Branches)
	assert.Equal(t, 2.0, front[0].Cost.Delay)
	assert.InDelta(t, 0.19, front[0].Cost.Loss, 1e-9)
	assert.Equal(t, []routing.Path{slowPath}, front[1].Branches)
	assert.Equal(t, 10.0, front[1].Cost.Delay)
	assert.Equal(t, 0.0, front[1].Cost.Loss)
	for i := 1; i < len(front); i++ {
		assert.LessOrEqual(t, front[i-1].Cost.Delay, front[i].Cost.Delay)
	}
}

func TestComputeTreeAlternates(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mock_nsga2.NewMockParetoSink(ctrl)
	// The front is computed once and served from the cache afterwards.
	sink.EXPECT().InsertFront(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, f routedb.Front) error {
			assert.Equal(t, addr.DPID(1), f.Src)
			assert.Equal(t, []addr.DPID{3}, f.Dsts)
			assert.Len(t, f.Solutions, 2)
			return nil
		},
	)
	a := newAlgorithm(t, nsga2.WithSink(sink))
	ctx := context.Background()
	for _, want := range []routing.Path{fastPath, slowPath, fastPath, slowPath} {
		tree, err := a.ComputeTree(ctx, 1, []addr.DPID{3}, routing.QoSClass{})
		require.NoError(t, err)
		require.True(t, tree.Reachable())
		assert.Equal(t, []routing.Path{want}, tree.Branches)
	}
}

type view map[topology.LinkKey]telemetry.Sample

func (v view) Lookup(key topology.LinkKey, _ topology.PortPair) (telemetry.Sample, bool) {
	s, ok := v[key]
	return s, ok
}

func TestRefreshDropsCachedFronts(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mock_nsga2.NewMockParetoSink(ctrl)
	sink.EXPECT().InsertFront(gomock.Any(), gomock.Any()).Times(2)
	a := newAlgorithm(t, nsga2.WithSink(sink))
	ctx := context.Background()
	video := routing.QoSClass{Type: routing.TypeVideo, Floor: 10e6}

	tree, err := a.ComputeTree(ctx, 1, []addr.DPID{3}, video)
	require.NoError(t, err)
	assert.Equal(t, []routing.Path{fastPath}, tree.Branches)

	// The fast branch falls below the floor.
	a.RefreshTelemetry(view{topology.NewLinkKey(1, 2): {Available: 1e6}})
	for range 2 {
		tree, err = a.ComputeTree(ctx, 1, []addr.DPID{3}, video)
		require.NoError(t, err)
		assert.Equal(t, []routing.Path{slowPath}, tree.Branches)
	}
}

func TestComputeTreeMultipleDestinations(t *testing.T) {
	a := newAlgorithm(t)
	dsts := []addr.DPID{3, 2, 4}
	tree, err := a.ComputeTree(context.Background(), 1, dsts, routing.QoSClass{})
	require.NoError(t, err)
	require.True(t, tree.Reachable())
	assert.Equal(t, dsts, tree.Dsts)
	for i, b := range tree.Branches {
		assert.Equal(t, addr.DPID(1), b[0])
		assert.Equal(t, dsts[i], b[len(b)-1])
	}
}

func TestComputeTreeUnreachable(t *testing.T) {
	ctrl := gomock.NewController(t)
	// Empty fronts are not persisted.
	sink := mock_nsga2.NewMockParetoSink(ctrl)
	a := newAlgorithm(t, nsga2.WithSink(sink))
	testCases := map[string][]addr.DPID{
		"isolated switch": {3, 9},
		"unknown switch":  {3, 77},
	}
	for name, dsts := range testCases {
		t.Run(name, func(t *testing.T) {
			tree, err := a.ComputeTree(context.Background(), 1, dsts, routing.QoSClass{})
			require.NoError(t, err)
			assert.False(t, tree.Reachable())
			assert.Equal(t, dsts, tree.Dsts)
		})
	}
}

func TestComputeTreeErrors(t *testing.T) {
	_, err := nsga2.New().ComputeTree(context.Background(), 1, []addr.DPID{2}, routing.QoSClass{})
	assert.ErrorIs(t, err, routing.ErrNotInitialized)
	_, err = newAlgorithm(t).ComputeTree(context.Background(), 1, nil, routing.QoSClass{})
	assert.Error(t, err)
}

func TestParams(t *testing.T) {
	a := nsga2.New()
	assert.Equal(t, map[string]float64{
		nsga2.ParamPopulation: 30,
		nsga2.ParamGeneration: 80,
		nsga2.ParamCrossover:  0.8,
		nsga2.ParamMutation:   0.08,
	}, a.Params())
	require.NoError(t, a.SetParams(map[string]float64{nsga2.ParamPopulation: 10}))
	assert.Equal(t, 10.0, a.Params()[nsga2.ParamPopulation])
	assert.ErrorIs(t, a.SetParams(map[string]float64{nsga2.ParamPopulation: 1}),
		routing.ErrInvalidParam)
	assert.ErrorIs(t, a.SetParams(map[string]float64{nsga2.ParamCrossover: 2}),
		routing.ErrInvalidParam)
}
