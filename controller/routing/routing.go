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

// Package routing defines the route computation strategies of the controller
// and the state they share: the graph working set, the QoS table and the
// strategy holder. The strategies live in the subpackages dijkstra, genetic
// and nsga2.
package routing

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/private/telemetry"
	"github.com/sdnroute/sdnroute/private/topology"
)

var (
	// ErrNotInitialized is returned by algorithms that did not receive a
	// topology yet.
	ErrNotInitialized = errors.New("algorithm not initialized")
	// ErrInvalidParam indicates an unknown or out of range parameter.
	ErrInvalidParam = errors.New("invalid algorithm parameter")
	// ErrUnknownAlgorithm indicates an unknown algorithm type.
	ErrUnknownAlgorithm = errors.New("unknown algorithm type")
)

// Path is an ordered sequence of switches. A nil path means unreachable.
type Path []addr.DPID

// Cost summarizes the quality of a path or tree.
type Cost struct {
	// Delay in ms.
	Delay float64
	// Loss as fraction, 1 - Π(1 - loss).
	Loss float64
	// Bandwidth is the bottleneck bandwidth in bit/s.
	Bandwidth float64
	// Weight is the algorithm specific objective value.
	Weight float64
}

// Tree is a multicast distribution tree, one branch per destination.
type Tree struct {
	Src  addr.DPID
	Dsts []addr.DPID
	// Branches[i] leads from Src to Dsts[i]. Nil branches mean the tree is
	// unreachable.
	Branches []Path
	Cost     Cost
}

// Reachable reports whether every destination has a branch.
func (t Tree) Reachable() bool {
	if len(t.Branches) == 0 || len(t.Branches) != len(t.Dsts) {
		return false
	}
	return !slices.ContainsFunc(t.Branches, func(p Path) bool { return p == nil })
}

// GroupKey identifies the source and destination set of a tree.
func GroupKey(src addr.DPID, dsts []addr.DPID) string {
	sorted := slices.Clone(dsts)
	slices.Sort(sorted)
	parts := make([]string, 0, len(sorted)+1)
	parts = append(parts, src.String())
	for _, d := range sorted {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, ",")
}

// TelemetryView provides the latest link measurements.
type TelemetryView interface {
	Lookup(key topology.LinkKey, ports topology.PortPair) (telemetry.Sample, bool)
}

// Algorithm is the part common to all strategies.
type Algorithm interface {
	Name() string
	// Init rebuilds the working set from the snapshot. It is called once per
	// topology change.
	Init(snap *topology.Snapshot)
	// RefreshTelemetry updates the mutable edge weights.
	RefreshTelemetry(view TelemetryView)
	// Params returns the coefficients of the algorithm.
	Params() map[string]float64
	// SetParams applies the given coefficients. Unknown keys or invalid
	// values reject the whole update.
	SetParams(map[string]float64) error
}

// Unicast computes single paths.
type Unicast interface {
	Algorithm
	// Compute returns the path from src to dst. An unreachable destination
	// returns a nil path and no error.
	Compute(ctx context.Context, src, dst addr.DPID, class QoSClass) (Path, Cost, error)
}

// Multicast computes distribution trees.
type Multicast interface {
	Algorithm
	ComputeTree(ctx context.Context, src addr.DPID, dsts []addr.DPID,
		class QoSClass) (Tree, error)
}
