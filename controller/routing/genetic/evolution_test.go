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

package genetic

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/controller/routing/routingtest"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/log"
)

// grid returns a 3x3 grid with switches 1..9:
//
//	1 2 3
//	4 5 6
//	7 8 9
func grid() *routing.Graph {
	pairs := [][2]addr.DPID{
		{1, 2}, {2, 3}, {4, 5}, {5, 6}, {7, 8}, {8, 9},
		{1, 4}, {4, 7}, {2, 5}, {5, 8}, {3, 6}, {6, 9},
	}
	links := routingtest.Uniform(routingtest.Link{Delay: 1, Cost: 1, Total: 1e8}, pairs...)
	return routing.NewGraph(routingtest.Snapshot(links))
}

func newEvolution(g *routing.Graph, seed uint64) *evolution {
	return &evolution{
		g:      g,
		rng:    rand.New(rand.NewPCG(seed, seed)),
		src:    0,
		dst:    g.Len() - 1,
		delayC: 5000,
		costC:  0.02,
		loadC:  50,
		maxGen: 20,
		maxHop: 6,
		pc:     0.7,
		pm:     0.1,
		popCap: DefaultPopulationCap,
		logger: log.Root(),
	}
}

func TestRemoveRedundancyIdentity(t *testing.T) {
	e := newEvolution(grid(), 1)
	for _, p := range [][]int{{0}, {0, 1}, {0, 1, 2, 5, 8}, {0, 3, 6, 7, 8, 5, 4, 1, 2}} {
		got, ok := e.removeRedundancy(p)
		assert.True(t, ok)
		assert.Equal(t, p, got)
	}
}

func TestRemoveRedundancyLoops(t *testing.T) {
	g := grid()
	for seed := range uint64(20) {
		e := newEvolution(g, seed)
		p := []int{0, 1, 4, 3, 0, 1, 2, 5, 8}
		got, ok := e.removeRedundancy(p)
		require.True(t, ok)
		assert.Empty(t, repeatedVertices(got))
		assert.True(t, g.Valid(got), "%v", got)
		assert.Equal(t, 0, got[0])
		assert.Equal(t, 8, got[len(got)-1])
	}
}

func TestDedupFallsBackToSearch(t *testing.T) {
	g := grid()
	e := newEvolution(g, 3)
	e.maxHop = 5
	// Every loop free reduction of this walk has seven vertices.
	p := []int{0, 3, 6, 7, 4, 5, 2, 1, 2, 5, 8}
	require.True(t, g.Valid(p))
	got := e.dedup(p)
	assert.Equal(t, g.SimplePaths(0, 8, 5, 1)[0], got)
}

func TestCrossPair(t *testing.T) {
	e := newEvolution(grid(), 7)
	testCases := map[string]struct {
		p1, p2 []int
		want   crossResult
	}{
		"equal":            {p1: []int{0, 1, 2}, p2: []int{0, 1, 2}, want: crossUnchanged},
		"only endpoints":   {p1: []int{0, 1, 2, 5, 8}, p2: []int{0, 3, 6, 7, 8}, want: crossNonConvergent},
		"same position":    {p1: []int{0, 1, 2, 5, 8}, p2: []int{0, 1, 4, 7, 8}, want: crossNonConvergent},
		"one shared inner": {p1: []int{0, 1, 4, 5, 8}, p2: []int{0, 3, 4, 7, 8}, want: crossDone},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			n1, n2, res := e.crossPair(tc.p1, tc.p2)
			assert.Equal(t, tc.want, res)
			if res != crossDone {
				assert.Equal(t, tc.p1, n1)
				assert.Equal(t, tc.p2, n2)
				return
			}
			assert.True(t, e.g.Valid(n1), "%v", n1)
			assert.True(t, e.g.Valid(n2), "%v", n2)
		})
	}
}

func TestCrossPairSections(t *testing.T) {
	g := grid()
	p1 := []int{0, 1, 4, 5, 8}
	p2 := []int{0, 3, 4, 5, 2, 1, 0, 3, 6, 7, 8}
	for seed := range uint64(30) {
		e := newEvolution(g, seed)
		n1, n2, _ := e.crossPair(p1, slices.Clone(p2))
		for _, n := range [][]int{n1, n2} {
			assert.True(t, g.Valid(n), "seed %d: %v", seed, n)
			assert.Equal(t, 0, n[0])
			assert.Equal(t, 8, n[len(n)-1])
		}
	}
}

func TestCrossPairReversed(t *testing.T) {
	g := grid()
	// Shared 1 and 4 appear in opposite order in p2.
	p1 := []int{0, 1, 4, 5, 8}
	p2 := []int{0, 3, 4, 1, 2, 5, 8}
	require.True(t, g.Valid(p2))
	for seed := range uint64(30) {
		e := newEvolution(g, seed)
		n1, n2, _ := e.crossPair(p1, p2)
		for _, n := range [][]int{n1, n2} {
			assert.True(t, g.Valid(n), "seed %d: %v", seed, n)
			assert.Equal(t, 0, n[0])
			assert.Equal(t, 8, n[len(n)-1])
		}
	}
}

func TestMutatePath(t *testing.T) {
	g := grid()
	for seed := range uint64(30) {
		e := newEvolution(g, seed)
		p := []int{0, 1, 2, 5, 8}
		m, ok := e.mutatePath(p)
		if !ok {
			continue
		}
		assert.True(t, g.Valid(m), "seed %d: %v", seed, m)
		assert.Empty(t, repeatedVertices(m))
		assert.Equal(t, 0, m[0])
		assert.Equal(t, 8, m[len(m)-1])
		assert.Equal(t, []int{0, 1, 2, 5, 8}, p, "input must not change")
	}
}

func TestMutateBoost(t *testing.T) {
	// Line 1-2-3 with a shortcut 1-3: re-pointing 2 to 3 truncates.
	links := routingtest.Uniform(routingtest.Link{Delay: 1, Total: 1e8},
		[2]addr.DPID{1, 2}, [2]addr.DPID{2, 3}, [2]addr.DPID{1, 3})
	g := routing.NewGraph(routingtest.Snapshot(links))
	e := newEvolution(g, 1)
	m, ok := e.mutatePath([]int{0, 1, 2})
	require.True(t, ok)
	assert.Equal(t, []int{0, 2}, m)
}

func TestSelectSmallPopulation(t *testing.T) {
	e := newEvolution(grid(), 1)
	pop := [][]int{{0, 1}, {0, 3}}
	assert.Equal(t, pop, e.selectPaths(pop, []float64{1, 2}))
}

func TestSelectPrefersFeasible(t *testing.T) {
	e := newEvolution(grid(), 1)
	pop := [][]int{{0}, {1}, {2}, {3}, {4}, {5}}
	fit := []float64{Infeasible, 1, Infeasible, Infeasible, Infeasible, Infeasible}
	for _, p := range e.selectPaths(pop, fit) {
		assert.Equal(t, []int{1}, p)
	}
}

func TestFitness(t *testing.T) {
	e := newEvolution(grid(), 1)
	assert.InDelta(t, 10/(5000*2+0.02*2), e.fitness([]int{0, 1, 2}), 1e-12)
	e.floor = 2e8
	assert.Equal(t, Infeasible, e.fitness([]int{0, 1, 2}))
	e.floor, e.delayC, e.costC = 0, 0, 0
	assert.Greater(t, e.fitness([]int{0, 1, 2}), 1e300)
}

func TestRunFindsShortest(t *testing.T) {
	e := newEvolution(grid(), 11)
	best, fit := e.run(context.Background())
	require.NotNil(t, best)
	assert.True(t, e.g.Valid(best))
	assert.Equal(t, 0, best[0])
	assert.Equal(t, 8, best[len(best)-1])
	assert.Equal(t, e.fitness(best), fit)
	assert.Greater(t, fit, 0.0)
}
