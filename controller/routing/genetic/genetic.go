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

// Package genetic implements the genetic unicast strategy for routes with a
// bandwidth floor. The population is the set of loop free paths found by a
// hop bounded depth first search. Paths evolve by tournament selection,
// crossover at shared vertices and point mutation.
package genetic

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/private/topology"
)

// Type is the name of the strategy.
const Type = "GA"

// Parameter names.
const (
	ParamDelay      = "delay_coefficient"
	ParamCost       = "cost_coefficient"
	ParamLoad       = "bw_load_coefficient"
	ParamGeneration = "generation_max"
	ParamMaxHop     = "max_hop"
	ParamCrossover  = "crossover_probability"
	ParamMutation   = "mutation_probability"
)

const (
	// DefaultPopulationCap bounds the number of initial candidates.
	DefaultPopulationCap = 200
	// RedundancyRetries is the number of failed loop removals after which a
	// path is replaced by a fresh search result.
	RedundancyRetries = 8
	// Infeasible is the fitness of paths that use an edge below the floor.
	Infeasible = -1000.0
)

// Algorithm is the genetic strategy. Use New to create one.
type Algorithm struct {
	mtx    sync.Mutex
	delayC float64
	costC  float64
	loadC  float64
	maxGen float64
	maxHop float64
	pc     float64
	pm     float64
	popCap int
	rng    *rand.Rand
	g      *routing.Graph
}

var _ routing.Unicast = (*Algorithm)(nil)

// Option configures the algorithm.
type Option func(*Algorithm)

// WithRand sets the random source. It is used by tests for reproducible runs.
func WithRand(r *rand.Rand) Option {
	return func(a *Algorithm) { a.rng = r }
}

// WithPopulationCap bounds the initial population.
func WithPopulationCap(n int) Option {
	return func(a *Algorithm) { a.popCap = n }
}

// New creates the strategy with the default coefficients.
func New(opts ...Option) *Algorithm {
	a := &Algorithm{
		delayC: 5000,
		costC:  0.02,
		loadC:  50,
		maxGen: 20,
		maxHop: 6,
		pc:     0.7,
		pm:     0.1,
		popCap: DefaultPopulationCap,
	}
	for _, o := range opts {
		o(a)
	}
	if a.rng == nil {
		now := uint64(time.Now().UnixNano())
		a.rng = rand.New(rand.NewPCG(now, now>>1))
	}
	return a
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
		ParamDelay:      {Value: &a.delayC, Max: 1e6},
		ParamCost:       {Value: &a.costC, Max: 1e6},
		ParamLoad:       {Value: &a.loadC, Max: 1e6},
		ParamGeneration: {Value: &a.maxGen, Max: 1000, Integer: true},
		ParamMaxHop:     {Value: &a.maxHop, Min: 2, Max: 64, Integer: true},
		ParamCrossover:  {Value: &a.pc, Max: 1},
		ParamMutation:   {Value: &a.pm, Max: 1},
	}
}

func (a *Algorithm) Params() map[string]float64 {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	return a.params().Values()
}

func (a *Algorithm) SetParams(update map[string]float64) error {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	return a.params().Apply(update)
}

// Compute evolves the population of paths from src to dst and returns the
// fittest one. If no candidate satisfies the floor of the class, the
// destination is unreachable.
func (a *Algorithm) Compute(ctx context.Context, src, dst addr.DPID,
	class routing.QoSClass) (routing.Path, routing.Cost, error) {

	if src == dst {
		return routing.Path{src}, routing.Cost{}, nil
	}
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.g == nil {
		return nil, routing.Cost{}, routing.ErrNotInitialized
	}
	s, okS := a.g.Index(src)
	d, okD := a.g.Index(dst)
	if !okS || !okD {
		return nil, routing.Cost{}, nil
	}
	e := &evolution{
		g:      a.g,
		rng:    a.rng,
		src:    s,
		dst:    d,
		floor:  class.Floor,
		delayC: a.delayC,
		costC:  a.costC,
		loadC:  a.loadC,
		maxGen: int(a.maxGen),
		maxHop: int(a.maxHop),
		pc:     a.pc,
		pm:     a.pm,
		popCap: a.popCap,
		logger: log.FromCtx(ctx),
	}
	best, fitness := e.run(ctx)
	if best == nil {
		return nil, routing.Cost{}, nil
	}
	c := a.g.PathCost(best)
	c.Weight = 10 / fitness
	return a.g.Path(best), c, nil
}

// Fitness returns the fitness of the path for the floor. It is exported for
// diagnostics and tests.
func (a *Algorithm) Fitness(p routing.Path, floor float64) float64 {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.g == nil {
		return Infeasible
	}
	idx, ok := a.g.Indices(p)
	if !ok {
		return Infeasible
	}
	e := &evolution{g: a.g, floor: floor, delayC: a.delayC, costC: a.costC, loadC: a.loadC}
	return e.fitness(idx)
}
