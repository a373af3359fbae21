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
	"cmp"
	"math"
	"slices"
)

// nondominatedSort partitions the population into fronts, best first, and
// sets the rank of every member.
func nondominatedSort(pop []*individual) [][]*individual {
	dominated := make([][]int, len(pop))
	count := make([]int, len(pop))
	var current []int
	for i := range pop {
		for j := range pop {
			switch {
			case i == j:
			case pop[i].dominates(pop[j]):
				dominated[i] = append(dominated[i], j)
			case pop[j].dominates(pop[i]):
				count[i]++
			}
		}
		if count[i] == 0 {
			pop[i].rank = 0
			current = append(current, i)
		}
	}
	var fronts [][]*individual
	for rank := 0; len(current) > 0; rank++ {
		front := make([]*individual, 0, len(current))
		var next []int
		for _, i := range current {
			front = append(front, pop[i])
			for _, j := range dominated[i] {
				count[j]--
				if count[j] == 0 {
					pop[j].rank = rank + 1
					next = append(next, j)
				}
			}
		}
		fronts = append(fronts, front)
		current = next
	}
	return fronts
}

// assignCrowding sets the crowding distance of the front members. Boundary
// members of either objective get Sentinel, as do all members of fronts with
// at most two members.
func assignCrowding(front []*individual) {
	for _, ind := range front {
		ind.crowding = 0
	}
	if len(front) <= 2 {
		for _, ind := range front {
			ind.crowding = Sentinel
		}
		return
	}
	last := len(front) - 1
	for _, obj := range []func(*individual) float64{
		func(ind *individual) float64 { return ind.delay },
		func(ind *individual) float64 { return ind.loss },
	} {
		slices.SortStableFunc(front, func(a, b *individual) int {
			return cmp.Compare(obj(a), obj(b))
		})
		span := obj(front[last]) - obj(front[0])
		if span == 0 {
			span = 1
		}
		front[0].crowding, front[last].crowding = Sentinel, Sentinel
		for i := 1; i < last; i++ {
			d := math.Abs(obj(front[i+1])-obj(front[i-1])) / span
			front[i].crowding = min(front[i].crowding+d, Sentinel)
		}
	}
}

// byCrowding orders by crowding distance, largest first.
func byCrowding(a, b *individual) int {
	return cmp.Compare(b.crowding, a.crowding)
}

// paretoFront returns the distinct feasible rank 0 members ordered by delay.
func paretoFront(pop []*individual) []*individual {
	var front []*individual
	for _, ind := range pop {
		if ind.rank == 0 && ind.feasible() {
			front = append(front, ind)
		}
	}
	slices.SortStableFunc(front, func(a, b *individual) int {
		return cmp.Or(cmp.Compare(a.delay, b.delay), cmp.Compare(a.loss, b.loss))
	})
	return slices.CompactFunc(front, func(a, b *individual) bool {
		return a.delay == b.delay && a.loss == b.loss
	})
}
