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


package nsga2

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/sdnroute/sdnroute/controller/routing"
)

// individual is an edge selection together with the tree it induces.
type individual struct {
	genes []bool
	// branches[i] leads from the source to the i-th destination.
	branches  [][]int
	delay     float64
	loss      float64
	bandwidth float64
	rank      int
	crowding  float64
}

func (ind *individual) feasible() bool {
	return ind.delay < Sentinel
}

// dominates reports whether ind is at least as good as o in both objectives
// and strictly better in one.
func (ind *individual) dominates(o *individual) bool {
	return (ind.loss <= o.loss && ind.delay < o.delay) ||
		(ind.loss < o.loss && ind.delay <= o.delay)
}

func (ind *individual) clone() *individual {
	c := *ind
	c.genes = slices.Clone(ind.genes)
	c.branches = slices.Clone(ind.branches)
	return &c
}

// problem evaluates chromosomes for one source and destination set.
type problem struct {
	g    *routing.Graph
	rng  *rand.Rand
	src  int
	dsts []int
	// usable marks the edges that satisfy the bandwidth floor.
	usable []bool
}

func newProblem(g *routing.Graph, rng *rand.Rand, src int, dsts []int,
	floor float64) *problem {

	usable := make([]bool, g.NumEdges())
	for k := range usable {
		usable[k] = !g.EdgeAt(k).Below(floor)
	}
	return &problem{g: g, rng: rng, src: src, dsts: dsts, usable: usable}
}

func (p *problem) random() *individual {
	ind := &individual{genes: make([]bool, len(p.usable))}
	for k := range ind.genes {
		ind.genes[k] = p.rng.Float64() < 0.5
	}
	p.evaluate(ind)
	return ind
}

// evaluate computes the objectives of the individual. The selected edges must
// form a single connected subgraph that contains the source and every
// destination, otherwise both objectives are set to Sentinel.
func (p *problem) evaluate(ind *individual) {
	ind.branches = nil
	ind.delay, ind.loss, ind.bandwidth = Sentinel, Sentinel, 0

	n := p.g.Len()
	adj := make([][]int, n)
	present := make([]bool, n)
	for k, on := range ind.genes {
		if !on {
			continue
		}
		if !p.usable[k] {
			ind.genes[k] = false
			continue
		}
		e := p.g.EdgeAt(k)
		adj[e.A] = append(adj[e.A], k)
		adj[e.B] = append(adj[e.B], k)
		present[e.A], present[e.B] = true, true
	}
	if !present[p.src] || slices.ContainsFunc(p.dsts, func(d int) bool { return !present[d] }) {
		return
	}
	if !p.connected(adj, present) {
		return
	}

	var delay, loss float64
	bandwidth := math.Inf(1)
	branches := make([][]int, 0, len(p.dsts))
	for _, dst := range p.dsts {
		weight := edgeDelay
		if p.rng.Float64() >= 0.5 {
			weight = edgeLoss
		}
		b := p.branch(adj, dst, weight)
		keep := 1.0
		for i := 0; i+1 < len(b); i++ {
			e, _ := p.g.Edge(b[i], b[i+1])
			delay += e.Delay
			keep *= 1 - e.Loss
			bandwidth = min(bandwidth, e.Total)
		}
		loss += 1 - keep
		branches = append(branches, b)
	}
	if math.IsInf(bandwidth, 1) {
		bandwidth = 0
	}
	ind.branches = branches
	ind.delay = delay / float64(len(p.dsts))
	ind.loss = loss / float64(len(p.dsts))
	ind.bandwidth = bandwidth
}

func (p *problem) connected(adj [][]int, present []bool) bool {
	seen := make([]bool, len(adj))
	seen[p.src] = true
	queue := []int{p.src}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, k := range adj[v] {
			if u := p.other(k, v); !seen[u] {
				seen[u] = true
				queue = append(queue, u)
			}
		}
	}
	for v, ok := range present {
		if ok && !seen[v] {
			return false
		}
	}
	return true
}

func (p *problem) other(k, v int) int {
	e := p.g.EdgeAt(k)
	if e.A == v {
		return e.B
	}
	return e.A
}

func edgeDelay(e *routing.Edge) float64 { return e.Delay }
func edgeLoss(e *routing.Edge) float64  { return e.Loss }

// branch runs Dijkstra inside the subgraph. The subgraph is connected, so the
// destination is always reached.
func (p *problem) branch(adj [][]int, dst int, weight func(*routing.Edge) float64) []int {
	n := len(adj)
	dist := make([]float64, n)
	prev := make([]int, n)
	done := make([]bool, n)
	for i := range dist {
		dist[i], prev[i] = math.Inf(1), -1
	}
	dist[p.src] = 0
	for {
		u := -1
		for v := range n {
			if !done[v] && !math.IsInf(dist[v], 1) && (u < 0 || dist[v] < dist[u]) {
				u = v
			}
		}
		if u < 0 || u == dst {
			break
		}
		done[u] = true
		for _, k := range adj[u] {
			v := p.other(k, u)
			if d := dist[u] + weight(p.g.EdgeAt(k)); d < dist[v] {
				dist[v], prev[v] = d, u
			}
		}
	}
	path := []int{dst}
	for v := dst; prev[v] >= 0; v = prev[v] {
		path = append(path, prev[v])
	}
	slices.Reverse(path)
	return path
}
