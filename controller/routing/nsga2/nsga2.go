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


// Package nsga2 implements the multicast strategy. A chromosome selects a
// subset of the undirected edges; the tree is the set of shortest branches
// inside that subgraph. The population evolves towards the Pareto front of
// mean delay and mean loss.
//
// Fronts are cached per group and bandwidth floor until the next topology or
// telemetry update. Successive calls for the same group alternate between the
// minimum delay and the minimum loss end of the front.
package nsga2

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
	"github.com/sdnroute/sdnroute/private/storage/routedb"
	"github.com/sdnroute/sdnroute/private/topology"
)

// Type is the name of the strategy.
const Type = "NSGA2"

// Sentinel is the objective value of infeasible individuals and the crowding
// distance of boundary individuals.
const Sentinel = 99999999999.9

// Parameter names.
const (
	ParamPopulation = "population_size"
	ParamGeneration = "generation_max"
	ParamCrossover  = "crossover_probability"
	ParamMutation   = "mutation_probability"
)

// ParetoSink persists computed fronts.
type ParetoSink interface {
	InsertFront(ctx context.Context, f routedb.Front) error
}

// Solution is one member of a Pareto front.
type Solution struct {
	// Branches[i] leads from the source to the i-th destination.
	Branches []routing.Path
	Cost     routing.Cost
}

type frontKey struct {
	group string
	floor float64
}

// Algorithm is the NSGA2 strategy. Use New to create one.
type Algorithm struct {
	mtx    sync.Mutex
	size   float64
	maxGen float64
	pc     float64
	pm     float64
	rng    *rand.Rand
	sink   ParetoSink
	g      *routing.Graph
	fronts map[frontKey][]Solution
	calls  map[string]uint64
}

var _ routing.Multicast = (*Algorithm)(nil)

// Option configures the algorithm.
type Option func(*Algorithm)

// WithRand sets the random source.
func WithRand(r *rand.Rand) Option {
	return func(a *Algorithm) { a.rng = r }
}

// WithSink persists every computed front.
func WithSink(s ParetoSink) Option {
	return func(a *Algorithm) { a.sink = s }
}

// New creates the strategy with population 30, 80 generations, crossover
// probability 0.8 and mutation probability 0.08.
func New(opts ...Option) *Algorithm {
	a := &Algorithm{
		size:   30,
		maxGen: 80,
		pc:     0.8,
		pm:     0.08,
		fronts: make(map[frontKey][]Solution),
		calls:  make(map[string]uint64),
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

func (a *Algorithm) Name() string {
	return Type
}

func (a *Algorithm) Init(snap *topology.Snapshot) {
	g := routing.NewGraph(snap)
	a.mtx.Lock()
	defer a.mtx.Unlock()
	a.g = g
	clear(a.fronts)
}

func (a *Algorithm) RefreshTelemetry(view routing.TelemetryView) {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.g == nil {
		return
	}
	a.g.Refresh(view)
	clear(a.fronts)
}

func (a *Algorithm) params() routing.ParamSet {
	return routing.ParamSet{
		ParamPopulation: {Value: &a.size, Min: 4, Max: 1000, Integer: true},
		ParamGeneration: {Value: &a.maxGen, Max: 1000, Integer: true},
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
	if err := a.params().Apply(update); err != nil {
		return err
	}
	clear(a.fronts)
	return nil
}

// ComputeTree returns a tree from src to every destination. The tree is
// unreachable if no edge selection connects the group under the floor of the
// class.
func (a *Algorithm) ComputeTree(ctx context.Context, src addr.DPID, dsts []addr.DPID,
	class routing.QoSClass) (routing.Tree, error) {

	if len(dsts) == 0 {
		return routing.Tree{}, serrors.New("multicast group without destinations", "src", src)
	}
	tree := routing.Tree{Src: src, Dsts: slices.Clone(dsts)}
	a.mtx.Lock()
	defer a.mtx.Unlock()
	front, err := a.frontLocked(ctx, src, dsts, class)
	if err != nil || len(front) == 0 {
		return tree, err
	}
	group := routing.GroupKey(src, dsts)
	pick := front[0]
	if a.calls[group]%2 == 1 {
		pick = front[len(front)-1]
	}
	a.calls[group]++
	tree.Branches = slices.Clone(pick.Branches)
	tree.Cost = pick.Cost
	return tree, nil
}

// Front returns the Pareto front for the group ordered by delay.
func (a *Algorithm) Front(ctx context.Context, src addr.DPID, dsts []addr.DPID,
	class routing.QoSClass) ([]Solution, error) {

	a.mtx.Lock()
	defer a.mtx.Unlock()
	front, err := a.frontLocked(ctx, src, dsts, class)
	return slices.Clone(front), err
}

func (a *Algorithm) frontLocked(ctx context.Context, src addr.DPID, dsts []addr.DPID,
	class routing.QoSClass) ([]Solution, error) {

	if a.g == nil {
		return nil, routing.ErrNotInitialized
	}
	key := frontKey{group: routing.GroupKey(src, dsts), floor: class.Floor}
	if front, ok := a.fronts[key]; ok {
		return front, nil
	}
	s, ok := a.g.Index(src)
	if !ok {
		return nil, nil
	}
	idx := make([]int, 0, len(dsts))
	for _, dst := range dsts {
		d, ok := a.g.Index(dst)
		if !ok {
			return nil, nil
		}
		idx = append(idx, d)
	}
	e := &evolution{
		p:      newProblem(a.g, a.rng, s, idx, class.Floor),
		rng:    a.rng,
		size:   int(a.size),
		maxGen: int(a.maxGen),
		pc:     a.pc,
		pm:     a.pm,
	}
	var front []Solution
	for _, ind := range e.run(ctx) {
		sol := Solution{
			Branches: make([]routing.Path, 0, len(ind.branches)),
			Cost: routing.Cost{
				Delay:     ind.delay,
				Loss:      ind.loss,
				Bandwidth: ind.bandwidth,
			},
		}
		for _, b := range ind.branches {
			sol.Branches = append(sol.Branches, a.g.Path(b))
		}
		front = append(front, sol)
	}
	a.fronts[key] = front
	logger := log.FromCtx(ctx)
	logger.Debug("Computed Pareto front", "group", key.group, "floor", key.floor,
		"solutions", len(front))
	if a.sink != nil && len(front) > 0 {
		if err := a.sink.InsertFront(ctx, toRecord(src, dsts, front)); err != nil {
			logger.Info("Failed to persist Pareto front", "group", key.group, "err", err)
		}
	}
	return front, nil
}

func toRecord(src addr.DPID, dsts []addr.DPID, front []Solution) routedb.Front {
	f := routedb.Front{
		Src:     src,
		Dsts:    slices.Clone(dsts),
		Created: time.Now(),
	}
	for _, sol := range front {
		rec := routedb.Solution{
			Delay:     sol.Cost.Delay,
			Loss:      sol.Cost.Loss,
			Bandwidth: sol.Cost.Bandwidth,
		}
		for _, b := range sol.Branches {
			rec.Branches = append(rec.Branches, []addr.DPID(b))
		}
		f.Solutions = append(f.Solutions, rec)
	}
	return f
}
