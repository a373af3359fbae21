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
	"context"
	"math/rand/v2"
	"slices"
)

type evolution struct {
	p      *problem
	rng    *rand.Rand
	size   int
	maxGen int
	pc     float64
	pm     float64
}

// run evolves the population and returns the Pareto front of the final
// population. A done context ends the evolution early.
func (e *evolution) run(ctx context.Context) []*individual {
	offspring := make([]*individual, e.size)
	for i := range offspring {
		offspring[i] = e.p.random()
	}
	parents := make([]*individual, e.size)
	for i, ind := range offspring {
		parents[i] = ind.clone()
	}
	for gen := 0; gen < e.maxGen && ctx.Err() == nil; gen++ {
		parents = e.survivors(slices.Concat(offspring, parents))
		offspring = e.offspring(parents)
	}
	return paretoFront(e.survivors(slices.Concat(offspring, parents)))
}

// survivors fills the next population front by front. Within a front larger
// crowding distances are preferred.
func (e *evolution) survivors(union []*individual) []*individual {
	next := make([]*individual, 0, e.size)
	for _, front := range nondominatedSort(union) {
		assignCrowding(front)
		slices.SortStableFunc(front, byCrowding)
		for _, ind := range front {
			if len(next) == e.size {
				break
			}
			next = append(next, ind)
		}
	}
	return next
}

// tournament compares two distinct members on rank and then on crowding
// distance.
func (e *evolution) tournament(pop []*individual) *individual {
	x := e.rng.IntN(len(pop))
	y := e.rng.IntN(len(pop) - 1)
	if y >= x {
		y++
	}
	a, b := pop[x], pop[y]
	if a.rank < b.rank || (a.rank == b.rank && a.crowding > b.crowding) {
		return a
	}
	return b
}

func (e *evolution) offspring(parents []*individual) []*individual {
	n := len(parents)
	kids := make([]*individual, n)
	for i := range kids {
		kids[i] = e.tournament(parents).clone()
	}
	for i := 0; i < n/2; i++ {
		a, b := kids[i].genes, kids[n-1-i].genes
		switch r := e.rng.Float64(); {
		case r < e.pc/2:
			singlePoint(a, b, e.rng.IntN(len(a)+1))
		case r < e.pc:
			e.uniform(a, b)
		}
	}
	for _, k := range kids {
		e.mutate(k.genes)
		e.p.evaluate(k)
	}
	return kids
}

// singlePoint swaps the genes from pos on.
func singlePoint(a, b []bool, pos int) {
	for i := pos; i < len(a); i++ {
		a[i], b[i] = b[i], a[i]
	}
}

func (e *evolution) uniform(a, b []bool) {
	for i := range a {
		if e.rng.Float64() < 0.5 {
			a[i], b[i] = b[i], a[i]
		}
	}
}

func (e *evolution) mutate(genes []bool) {
	for i := range genes {
		if e.rng.Float64() < e.pm {
			genes[i] = !genes[i]
		}
	}
}
