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

package routing

import (
	"math"
	"slices"

	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/private/topology"
)

// Edge is the working copy of the link that represents a switch pair.
type Edge struct {
	Key   topology.LinkKey
	Ports topology.PortPair
	// A and B are the vertex indices of the endpoints, A < B.
	A, B      int
	Delay     float64
	Loss      float64
	Cost      float64
	Total     float64
	Available float64
}

// Load is the utilization of the edge in [0,1]. Edges without known capacity
// have no load.
func (e *Edge) Load() float64 {
	if e.Total <= 0 {
		return 0
	}
	return min(max(1-e.Available/e.Total, 0), 1)
}

// Below reports whether the available bandwidth of an edge with known capacity
// is below the floor.
func (e *Edge) Below(floor float64) bool {
	return floor > 0 && e.Total > 0 && e.Available < floor
}

type vertexPair struct {
	a, b int
}

func newPair(i, j int) vertexPair {
	if i > j {
		i, j = j, i
	}
	return vertexPair{a: i, b: j}
}

// Graph is the working set of an algorithm: vertices sorted by DPID, adjacency
// lists of vertex indices and one edge per adjacent pair. It is rebuilt from
// every new snapshot and must not be shared between algorithms.
type Graph struct {
	Version  uint64
	vertices []addr.DPID
	index    map[addr.DPID]int
	adj      [][]int
	edges    []Edge
	byPair   map[vertexPair]int
}

// NewGraph builds the graph from the snapshot. Parallel links are represented
// by the link with the lowest port pair.
func NewGraph(snap *topology.Snapshot) *Graph {
	g := &Graph{
		Version:  snap.Version,
		vertices: snap.DPIDs(),
		byPair:   make(map[vertexPair]int),
	}
	g.index = make(map[addr.DPID]int, len(g.vertices))
	for i, dpid := range g.vertices {
		g.index[dpid] = i
	}
	g.adj = make([][]int, len(g.vertices))
	for _, key := range snap.Keys() {
		a, okA := g.index[key.Lo]
		b, okB := g.index[key.Hi]
		if !okA || !okB {
			continue
		}
		l, _ := snap.Edge(key.Lo, key.Hi)
		g.byPair[newPair(a, b)] = len(g.edges)
		g.edges = append(g.edges, Edge{
			Key:       key,
			Ports:     l.Ports,
			A:         a,
			B:         b,
			Delay:     l.Delay,
			Loss:      l.Loss,
			Cost:      l.Cost,
			Total:     l.TotalBandwidth,
			Available: l.AvailableBandwidth,
		})
		g.adj[a] = append(g.adj[a], b)
		g.adj[b] = append(g.adj[b], a)
	}
	for _, n := range g.adj {
		slices.Sort(n)
	}
	return g
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	return len(g.vertices)
}

// Vertex returns the DPID of the vertex.
func (g *Graph) Vertex(i int) addr.DPID {
	return g.vertices[i]
}

// Index returns the vertex index of the switch.
func (g *Graph) Index(dpid addr.DPID) (int, bool) {
	i, ok := g.index[dpid]
	return i, ok
}

// Neighbors returns the adjacent vertices in ascending order. The result must
// not be modified.
func (g *Graph) Neighbors(i int) []int {
	return g.adj[i]
}

// Adjacent reports whether i and j share an edge.
func (g *Graph) Adjacent(i, j int) bool {
	_, ok := g.byPair[newPair(i, j)]
	return ok
}

// Edge returns the edge between i and j.
func (g *Graph) Edge(i, j int) (*Edge, bool) {
	k, ok := g.byPair[newPair(i, j)]
	if !ok {
		return nil, false
	}
	return &g.edges[k], true
}

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// EdgeAt returns the k-th edge in the order of the canonical link keys.
func (g *Graph) EdgeAt(k int) *Edge {
	return &g.edges[k]
}

// Refresh copies the available bandwidth of measured links into the edges.
func (g *Graph) Refresh(view TelemetryView) {
	if view == nil {
		return
	}
	for k := range g.edges {
		e := &g.edges[k]
		if s, ok := view.Lookup(e.Key, e.Ports); ok {
			e.Available = s.Available
		}
	}
}

// Path converts vertex indices to switches.
func (g *Graph) Path(idx []int) Path {
	if idx == nil {
		return nil
	}
	p := make(Path, 0, len(idx))
	for _, i := range idx {
		p = append(p, g.vertices[i])
	}
	return p
}

// Indices converts switches to vertex indices.
func (g *Graph) Indices(p Path) ([]int, bool) {
	idx := make([]int, 0, len(p))
	for _, dpid := range p {
		i, ok := g.index[dpid]
		if !ok {
			return nil, false
		}
		idx = append(idx, i)
	}
	return idx, true
}

// Valid reports whether consecutive vertices of the path are adjacent.
func (g *Graph) Valid(idx []int) bool {
	for i := 0; i+1 < len(idx); i++ {
		if !g.Adjacent(idx[i], idx[i+1]) {
			return false
		}
	}
	return true
}

// PathCost sums delay and loss along the path and tracks the bottleneck
// available bandwidth. The weight is left zero.
func (g *Graph) PathCost(idx []int) Cost {
	c := Cost{Bandwidth: math.Inf(1)}
	keep := 1.0
	for i := 0; i+1 < len(idx); i++ {
		e, ok := g.Edge(idx[i], idx[i+1])
		if !ok {
			continue
		}
		c.Delay += e.Delay
		keep *= 1 - e.Loss
		c.Bandwidth = min(c.Bandwidth, e.Available)
	}
	c.Loss = 1 - keep
	if math.IsInf(c.Bandwidth, 1) {
		c.Bandwidth = 0
	}
	return c
}

// SimplePaths returns loop free paths from src to dst with at most maxHop
// vertices, in depth first order. Neighbors are visited from the highest
// index down. At most limit paths are returned if limit is positive.
func (g *Graph) SimplePaths(src, dst, maxHop, limit int) [][]int {
	var res [][]int
	if src == dst {
		return [][]int{{src}}
	}
	onPath := make([]bool, len(g.vertices))
	path := []int{src}
	onPath[src] = true
	var walk func(v int) bool
	walk = func(v int) bool {
		n := g.adj[v]
		for k := len(n) - 1; k >= 0; k-- {
			next := n[k]
			if onPath[next] {
				continue
			}
			if next == dst {
				res = append(res, append(slices.Clone(path), dst))
				if limit > 0 && len(res) >= limit {
					return false
				}
				continue
			}
			if len(path)+1 >= maxHop {
				continue
			}
			onPath[next] = true
			path = append(path, next)
			cont := walk(next)
			path = path[:len(path)-1]
			onPath[next] = false
			if !cont {
				return false
			}
		}
		return true
	}
	walk(src)
	return res
}
