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
	"math"
	"math/rand/v2"
	"slices"

	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/pkg/log"
)

// crossResult is the outcome of a crossover of two paths.
type crossResult int

const (
	// crossUnchanged means both paths are identical or the exchange did not
	// change them.
	crossUnchanged crossResult = iota
	// crossNonConvergent means the paths only share their endpoints or the
	// shared vertex sits at the same relative position.
	crossNonConvergent
	crossDone
)

// evolution is the state of one computation.
type evolution struct {
	g        *routing.Graph
	rng      *rand.Rand
	src, dst int
	floor    float64
	delayC   float64
	costC    float64
	loadC    float64
	maxGen   int
	maxHop   int
	pc, pm   float64
	popCap   int
	logger   log.Logger
}

// run returns the fittest path with positive fitness, or nil.
func (e *evolution) run(ctx context.Context) ([]int, float64) {
	pop := e.g.SimplePaths(e.src, e.dst, e.maxHop, e.popCap)
	if len(pop) == 0 {
		return nil, 0
	}
	var fit []float64
	for age := 0; ; age++ {
		fit = e.evaluate(pop)
		pop = e.selectPaths(pop, fit)
		fit = e.evaluate(pop)
		if converged(pop) {
			e.logger.Debug("Evolution converged", "generation", age)
			break
		}
		if age > e.maxGen || ctx.Err() != nil {
			break
		}
		e.cross(pop)
		e.removeRedundant(pop)
		e.mutate(pop)
		e.removeRedundant(pop)
	}
	best, bestFit := -1, 0.0
	for i, f := range fit {
		if f > bestFit {
			best, bestFit = i, f
		}
	}
	if best < 0 {
		return nil, 0
	}
	return pop[best], bestFit
}

func (e *evolution) evaluate(pop [][]int) []float64 {
	fit := make([]float64, len(pop))
	for i, p := range pop {
		fit[i] = e.fitness(p)
	}
	return fit
}

// fitness is 10 over the weighted sum of delay, cost and load, or Infeasible
// if the path uses an edge below the floor.
func (e *evolution) fitness(p []int) float64 {
	var delay, cost, load float64
	for i := 0; i+1 < len(p); i++ {
		edge, ok := e.g.Edge(p[i], p[i+1])
		if !ok || edge.Below(e.floor) {
			return Infeasible
		}
		delay += edge.Delay
		cost += edge.Cost
		load += edge.Load()
	}
	denom := e.delayC*delay + e.costC*cost + e.loadC*load
	if denom == 0 {
		return math.MaxFloat64
	}
	return 10 / denom
}

// selectPaths runs one tournament over a third of the population per slot.
// A slot whose tournament finds nothing better than Infeasible keeps the
// previous winner, starting with the first feasible path.
func (e *evolution) selectPaths(pop [][]int, fit []float64) [][]int {
	const rounds = 3
	if len(fit) < rounds {
		return pop
	}
	selected := 0
	for i, f := range fit {
		if f > 0 {
			selected = i
			break
		}
	}
	res := make([][]int, len(pop))
	for i := range pop {
		best := Infeasible
		for range len(fit) / rounds {
			j := e.rng.IntN(len(fit))
			if fit[j] > best {
				best, selected = fit[j], j
			}
		}
		res[i] = slices.Clone(pop[selected])
	}
	return res
}

func converged(pop [][]int) bool {
	for _, p := range pop[1:] {
		if !slices.Equal(p, pop[0]) {
			return false
		}
	}
	return true
}

func (e *evolution) cross(pop [][]int) {
	e.rng.Shuffle(len(pop), func(i, j int) { pop[i], pop[j] = pop[j], pop[i] })
	for n := 0; n+1 < len(pop); n += 2 {
		if e.rng.Float64() > e.pc {
			continue
		}
		pop[n], pop[n+1], _ = e.crossPair(pop[n], pop[n+1])
	}
}

// crossPair exchanges a section between two paths. The sections are bounded
// by vertices both paths share.
func (e *evolution) crossPair(p1, p2 []int) ([]int, []int, crossResult) {
	if slices.Equal(p1, p2) {
		return p1, p2, crossUnchanged
	}
	var common []int
	for _, v := range p1 {
		if slices.Contains(p2, v) {
			common = append(common, v)
		}
	}
	switch {
	case len(common) <= 2:
		return p1, p2, crossNonConvergent
	case len(common) == 3:
		m := common[1]
		l1, l2 := slices.Index(p1, m), slices.Index(p2, m)
		if (l1 == 1 && l2 == 1) || (l1 == len(p1)-2 && l2 == len(p2)-2) {
			return p1, p2, crossNonConvergent
		}
		if e.rng.IntN(2) == 0 {
			return concat(p2[:l2], p1[l1:]), concat(p1[:l1], p2[l2:]), crossDone
		}
		return concat(p1[:l1+1], p2[l2+1:]), concat(p2[:l2+1], p1[l1+1:]), crossDone
	}
	h := e.rng.IntN(len(common) - 1)
	head := common[h]
	rest := common[h+1:]
	end := rest[e.rng.IntN(len(rest))]
	h1, e1 := slices.Index(p1, head), slices.Index(p1, end)
	h2, e2 := slices.Index(p2, head), slices.Index(p2, end)

	var n1, n2 []int
	if h2 > e2 {
		// p2 traverses the section in the opposite direction.
		sec2 := slices.Clone(p2[e2+1 : h2])
		slices.Reverse(sec2)
		sec1 := slices.Clone(p1[h1+1 : e1])
		slices.Reverse(sec1)
		n1 = concat(p1[:h1+1], sec2, p1[e1:])
		n2 = concat(p2[:e2+1], sec1, p2[h2:])
	} else {
		n1 = concat(p1[:h1], p2[h2:e2], p1[e1:])
		n2 = concat(p2[:h2], p1[h1:e1], p2[e2:])
	}
	if slices.Equal(n1, p1) && slices.Equal(n2, p2) {
		return p1, p2, crossUnchanged
	}
	return n1, n2, crossDone
}

func (e *evolution) removeRedundant(pop [][]int) {
	for i, p := range pop {
		pop[i] = e.dedup(p)
	}
}

// dedup removes the loops of the path. After RedundancyRetries failed
// attempts the path is replaced by the first search result between its
// endpoints.
func (e *evolution) dedup(p []int) []int {
	for range RedundancyRetries + 1 {
		if res, ok := e.removeRedundancy(p); ok {
			return res
		}
	}
	e.logger.Debug("Loop removal failed, replacing path", "len", len(p))
	if fresh := e.g.SimplePaths(p[0], p[len(p)-1], e.maxHop, 1); len(fresh) > 0 {
		return fresh[0]
	}
	return p
}

// removeRedundancy excises loops a…x…x…b → a…x…b, choosing the repeated
// vertex at random each time. A path without repeated vertices is returned
// unchanged. The attempt fails if the loop free result exceeds the hop limit.
func (e *evolution) removeRedundancy(p []int) ([]int, bool) {
	repeated := repeatedVertices(p)
	if len(repeated) == 0 {
		return p, true
	}
	cur := slices.Clone(p)
	for len(repeated) > 0 {
		x := repeated[e.rng.IntN(len(repeated))]
		first := slices.Index(cur, x)
		last := len(cur) - 1 - slices.Index(reversed(cur), x)
		cur = slices.Delete(cur, first, last)
		repeated = repeatedVertices(cur)
	}
	if e.maxHop > 0 && len(cur) > e.maxHop {
		return cur, false
	}
	return cur, true
}

func (e *evolution) mutate(pop [][]int) {
	for n, p := range pop {
		if e.rng.Float64() > e.pm || len(p) <= 2 {
			continue
		}
		if m, ok := e.mutatePath(p); ok {
			pop[n] = m
		}
	}
}

// mutatePath re-points one interior vertex to another neighbor of its
// predecessor and repairs the remainder of the path.
func (e *evolution) mutatePath(p []int) ([]int, bool) {
	i := 1 + e.rng.IntN(len(p)-2)
	cands := slices.DeleteFunc(slices.Clone(e.g.Neighbors(p[i-1])), func(v int) bool {
		return v == p[i]
	})
	if len(cands) == 0 {
		return nil, false
	}
	nv := cands[e.rng.IntN(len(cands))]
	prefix := p[:i]
	if nv == e.dst {
		return concat(prefix, []int{nv}), true
	}
	patches := e.g.SimplePaths(nv, e.dst, e.maxHop, e.popCap)
	if len(patches) == 0 {
		return nil, false
	}
	similar, bestLen := 0, -1
	for k, patch := range patches {
		n := disjointPrefix(patch, prefix)
		if n == len(patch) {
			return concat(prefix, patch), true
		}
		if n > bestLen {
			similar, bestLen = k, n
		}
	}
	candidate := concat(prefix, patches[similar])
	for range RedundancyRetries + 1 {
		if res, ok := e.removeRedundancy(candidate); ok {
			return res, true
		}
	}
	return nil, false
}

// disjointPrefix counts the leading vertices of patch that are not in prefix.
func disjointPrefix(patch, prefix []int) int {
	for n, v := range patch {
		if slices.Contains(prefix, v) {
			return n
		}
	}
	return len(patch)
}

func repeatedVertices(p []int) []int {
	seen := make(map[int]int, len(p))
	var res []int
	for _, v := range p {
		seen[v]++
		if seen[v] == 2 {
			res = append(res, v)
		}
	}
	return res
}

func reversed(p []int) []int {
	r := slices.Clone(p)
	slices.Reverse(r)
	return r
}

func concat(parts ...[]int) []int {
	return slices.Concat(parts...)
}
