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
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
	"github.com/sdnroute/sdnroute/private/topology"
)

// Constructor creates a fresh unicast strategy.
type Constructor func() Unicast

// Holder owns the active unicast strategy and the multicast strategy. The
// unicast strategy can be swapped at runtime; the new one is initialized with
// the last topology and telemetry before it becomes active.
type Holder struct {
	mtx       sync.RWMutex
	registry  map[string]Constructor
	active    string
	unicast   Unicast
	multicast Multicast
	snap      *topology.Snapshot
	view      TelemetryView
}

// NewHolder creates a holder with the registered unicast strategies. active
// selects the initial one.
func NewHolder(registry map[string]Constructor, active string,
	multicast Multicast) (*Holder, error) {

	c, ok := registry[active]
	if !ok {
		return nil, serrors.JoinNoStack(ErrUnknownAlgorithm, nil, "type", active)
	}
	return &Holder{
		registry:  maps.Clone(registry),
		active:    active,
		unicast:   c(),
		multicast: multicast,
	}, nil
}

// Init initializes all strategies with the snapshot.
func (h *Holder) Init(snap *topology.Snapshot) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	h.snap = snap
	h.unicast.Init(snap)
	if h.multicast != nil {
		h.multicast.Init(snap)
	}
	if h.view != nil {
		h.refreshLocked()
	}
}

// RefreshTelemetry updates the edge weights of all strategies.
func (h *Holder) RefreshTelemetry(view TelemetryView) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	h.view = view
	if h.snap != nil {
		h.refreshLocked()
	}
}

func (h *Holder) refreshLocked() {
	h.unicast.RefreshTelemetry(h.view)
	if h.multicast != nil {
		h.multicast.RefreshTelemetry(h.view)
	}
}

// Initialized reports whether a topology was applied.
func (h *Holder) Initialized() bool {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	return h.snap != nil
}

// Snapshot returns the topology of the last Init.
func (h *Holder) Snapshot() *topology.Snapshot {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	return h.snap
}

// Types returns the registered unicast types.
func (h *Holder) Types() []string {
	return slices.Sorted(maps.Keys(h.registry))
}

// UnicastType returns the active unicast type.
func (h *Holder) UnicastType() string {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	return h.active
}

// MulticastType returns the name of the multicast strategy, or the empty
// string if there is none.
func (h *Holder) MulticastType() string {
	if h.multicast == nil {
		return ""
	}
	return h.multicast.Name()
}

// SetUnicastType swaps the active unicast strategy. An unknown type keeps the
// active one.
func (h *Holder) SetUnicastType(typ string) error {
	c, ok := h.registry[typ]
	if !ok {
		return serrors.JoinNoStack(ErrUnknownAlgorithm, nil, "type", typ)
	}
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if typ == h.active {
		return nil
	}
	u := c()
	if h.snap != nil {
		u.Init(h.snap)
		if h.view != nil {
			u.RefreshTelemetry(h.view)
		}
	}
	h.unicast, h.active = u, typ
	return nil
}

// Params returns the parameters of the active unicast strategy.
func (h *Holder) Params() (string, map[string]float64) {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	return h.active, h.unicast.Params()
}

// UpdateParams updates the parameters of the active unicast strategy. typ
// must name the active strategy.
func (h *Holder) UpdateParams(typ string, update map[string]float64) error {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if typ != h.active {
		return serrors.New("algorithm type is not active", "type", typ, "active", h.active)
	}
	return h.unicast.SetParams(update)
}

// Compute runs the active unicast strategy.
func (h *Holder) Compute(ctx context.Context, src, dst addr.DPID,
	class QoSClass) (Path, Cost, error) {

	h.mtx.RLock()
	defer h.mtx.RUnlock()
	return h.unicast.Compute(ctx, src, dst, class)
}

// ComputeTree runs the multicast strategy.
func (h *Holder) ComputeTree(ctx context.Context, src addr.DPID, dsts []addr.DPID,
	class QoSClass) (Tree, error) {

	h.mtx.RLock()
	defer h.mtx.RUnlock()
	if h.multicast == nil {
		return Tree{}, serrors.New("no multicast algorithm")
	}
	return h.multicast.ComputeTree(ctx, src, dsts, class)
}
