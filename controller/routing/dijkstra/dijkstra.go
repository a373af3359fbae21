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

// Package dijkstra implements the weighted shortest path strategy. The weight
// of an edge is
//
//	f(e) = α·delay + β·cost + γ·load
//
// where load is the utilization of the edge.
package dijkstra

import (
	"context"
	"sync"

	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/private/topology"
)

// Type is the name of the strategy.
const Type = "Dij"

// Unreached is the initial distance of every vertex.
const Unreached = 10000.0

// Parameter names.
const (
	ParamDelay = "delay_coefficient"
	ParamCost  = "cost_coefficient"
	ParamLoad  = "bw_load_coefficient"
)

// Algorithm is the weighted Dijkstra strategy. The zero value is not usable,
// use New.
type Algorithm struct {
	mtx   sync.RWMutex
	alpha float64
	beta  float64
	gamma float64
	g     *routing.Graph
}

var _ routing.Unicast = (*Algorithm)(nil)

// New creates the strategy with all coefficients set to 1.
func New() *Algorithm {
	return &Algorithm{alpha: 1, beta: 1, gamma: 1}
}

// NewUnicast is New as a routing.Constructor.
func NewUnicast() routing.Unicast {
	return New()
}

func (a *Algorithm) Name() string {
	return Type
}

func (a *Algorithm) Init(snap *topology.Snapshot) {
	g := routing.NewGraph(snap)
	a.mtx.Lock()
	defer a.mtx.Unlock()
	a.g = g
}

func (a *Algorithm) RefreshTelemetry(view routing.TelemetryView) {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.g != nil {
		a.g.Refresh(view)
	}
}

func (a *Algorithm) params() routing.ParamSet {
	return routing.ParamSet{
		ParamDelay: {Value: &a.alpha, Max: 1e6},
		ParamCost:  {Value: &a.beta, Max: 1e6},
		ParamLoad:  {Value: &a.gamma, Max: 1e6},
	}
}

func (a *Algorithm) Params() map[string]float64 {
	a.mtx.RLock()
	defer a.mtx.RUnlock()
	return a.params().Values()
}

func (a *Algorithm) SetParams(update map[string]float64) error {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	return a.params().Apply(update)
}

// Weight returns the weight of the edge between the vertices i and j. Pairs
// that are not adjacent get the missing edge penalty.
func (a *Algorithm) Weight(i, j int) float64 {
	a.mtx.RLock()
	defer a.mtx.RUnlock()
	return a.weight(i, j)
}

func (a *Algorithm) weight(i, j int) float64 {
	var e *routing.Edge
	ok := a.g != nil
	if ok {
		e, ok = a.g.Edge(i, j)
	}
	if !ok {
		return 2 * (a.alpha + 100*a.beta + a.gamma)
	}
	return a.alpha*e.Delay + a.beta*e.Cost + a.gamma*e.Load()
}

// Compute returns the lightest path. Edges with known capacity whose available
// bandwidth is below the floor of the class are not used.
func (a *Algorithm) Compute(_ context.Context, src, dst addr.DPID,
	class routing.QoSClass) (routing.Path, routing.Cost, error) {

	if src == dst {
		return routing.Path{src}, routing.Cost{}, nil
	}
	a.mtx.RLock()
	defer a.mtx.RUnlock()
	if a.g == nil {
		return nil, routing.Cost{}, routing.ErrNotInitialized
	}
	s, okS := a.g.Index(src)
	d, okD := a.g.Index(dst)
	if !okS || !okD {
		return nil, routing.Cost{}, nil
	}
	dist, prev := a.shortest(s, class.Floor)
	if prev[d] < 0 {
		return nil, routing.Cost{}, nil
	}
	var idx []int
	for v := d; v >= 0; v = prev[v] {
		idx = append([]int{v}, idx...)
	}
	c := a.g.PathCost(idx)
	c.Weight = dist[d]
	return a.g.Path(idx), c, nil
}

// shortest runs the single source search. prev is -1 for the source and for
// unreached vertices.
func (a *Algorithm) shortest(src int, floor float64) ([]float64, []int) {
	n := a.g.Len()
	dist := make([]float64, n)
	prev := make([]int, n)
	tagged := make([]bool, n)
	for i := range dist {
		dist[i] = Unreached
		prev[i] = -1
	}
	dist[src] = 0
	for {
		u := -1
		for i := 0; i < n; i++ {
			if !tagged[i] && (u < 0 || dist[i] < dist[u]) {
				u = i
			}
		}
		if u < 0 || dist[u] >= Unreached {
			break
		}
		tagged[u] = true
		for _, v := range a.g.Neighbors(u) {
			if tagged[v] {
				continue
			}
			e, _ := a.g.Edge(u, v)
			if e.Below(floor) {
				continue
			}
			if alt := dist[u] + a.weight(u, v); alt < dist[v] {
				dist[v] = alt
				prev[v] = u
			}
		}
	}
	return dist, prev
}
