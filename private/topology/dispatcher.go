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

package topology

import (
	"context"
	"errors"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/metrics"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

const (
	// DefaultDebounce is the quiet time after the last link add before the
	// topology counts as initialized.
	DefaultDebounce = 8 * time.Second
	// DefaultQueueSize is the default capacity of the submit and subscriber
	// queues.
	DefaultQueueSize = 256
)

// DispatcherMetrics are the metrics of the dispatcher. Nil fields are not
// reported.
type DispatcherMetrics struct {
	// Events counts applied events by kind.
	Events metrics.Counter
	// Initializations counts emitted topology initialized events.
	Initializations metrics.Counter
	// AttributeErrors counts failures to load the attribute file.
	AttributeErrors metrics.Counter
}

// DispatcherCfg is the configuration of a Dispatcher.
type DispatcherCfg struct {
	Store *Store
	// AttributeFile is the switch and link attribute file. If empty, no
	// attributes are applied.
	AttributeFile string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// QueueSize defaults to DefaultQueueSize.
	QueueSize int
	Metrics   DispatcherMetrics
}

// Dispatcher is the single writer of the Store. It applies submitted events in
// order and forwards them to the subscribers with the resulting snapshot.
type Dispatcher struct {
	store     *Store
	attrFile  string
	debounce  time.Duration
	queueSize int
	metrics   DispatcherMetrics
	events    chan Event

	mtx  sync.Mutex
	subs []*Subscription
}

// NewDispatcher creates a dispatcher. Run must be called for events to be
// applied.
func NewDispatcher(cfg DispatcherCfg) *Dispatcher {
	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	return &Dispatcher{
		store:     cfg.Store,
		attrFile:  cfg.AttributeFile,
		debounce:  cfg.Debounce,
		queueSize: cfg.QueueSize,
		metrics:   cfg.Metrics,
		events:    make(chan Event, cfg.QueueSize),
	}
}

// Store returns the store the dispatcher writes to.
func (d *Dispatcher) Store() *Store {
	return d.store
}

// Submit queues an event. It blocks until the event is queued or ctx is done.
func (d *Dispatcher) Submit(ctx context.Context, e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	select {
	case d.events <- e:
		return nil
	case <-ctx.Done():
		return serrors.Wrap("submitting topology event", ctx.Err(), "kind", e.Kind)
	}
}

// Subscription delivers the applied events in order.
type Subscription struct {
	// Events is never closed; use Close to stop the delivery.
	Events <-chan Event

	events chan Event
	closed chan struct{}
	once   sync.Once
	d      *Dispatcher
}

// Close stops the delivery to this subscription.
func (s *Subscription) Close() {
	s.once.Do(func() {
		close(s.closed)
		s.d.mtx.Lock()
		defer s.d.mtx.Unlock()
		s.d.subs = slices.DeleteFunc(s.d.subs, func(o *Subscription) bool { return o == s })
	})
}

// Subscribe registers a new subscription. Delivery blocks the dispatcher
// while the subscription queue is full.
func (d *Dispatcher) Subscribe() *Subscription {
	ch := make(chan Event, d.queueSize)
	s := &Subscription{Events: ch, events: ch, closed: make(chan struct{}), d: d}
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.subs = append(d.subs, s)
	return s
}

// Run applies events until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	timer := time.NewTimer(d.debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-d.events:
			out, ok := d.apply(e)
			if !ok {
				continue
			}
			if out.Kind == LinkAdd {
				timer.Reset(d.debounce)
			}
			d.publish(ctx, out)
		case <-timer.C:
			d.initialize(ctx)
		}
	}
}

// apply mutates the store. It returns false if the event caused no change
// worth reporting.
func (d *Dispatcher) apply(e Event) (Event, bool) {
	switch e.Kind {
	case SwitchEnter:
		d.store.AddSwitch(e.DPID, e.Name, e.Ports)
	case SwitchLeave:
		d.store.RemoveSwitch(e.DPID)
	case PortAdd:
		d.store.AddPort(e.DPID, e.Port)
	case PortDelete:
		d.store.DeletePort(e.DPID, e.Port.No)
	case PortModify:
		switch d.store.ModifyPort(e.DPID, e.Port.No, e.Port.State) {
		case TransitionUp:
			e.Kind = PortUp
		case TransitionDown:
			e.Kind = PortDown
		default:
			return Event{}, false
		}
	case LinkAdd:
		if _, added := d.store.AddLink(e.Src, e.Dst); !added {
			return Event{}, false
		}
	case LinkDelete:
		if _, removed := d.store.RemoveLink(e.Src, e.Dst); !removed {
			return Event{}, false
		}
	default:
		return Event{}, false
	}
	metrics.CounterInc(metrics.CounterWith(d.metrics.Events, "kind", e.Kind.String()))
	e.Snapshot = d.store.Snapshot()
	return e, true
}

func (d *Dispatcher) initialize(ctx context.Context) {
	logger := log.FromCtx(ctx)
	if d.attrFile != "" {
		attrs, err := LoadAttributes(d.attrFile)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Info("No topology attribute file, using defaults", "file", d.attrFile)
		case err != nil:
			logger.Error("Failed to load topology attributes", "err", err)
			metrics.CounterInc(d.metrics.AttributeErrors)
		default:
			d.store.ApplyAttributes(attrs)
		}
	}
	snap := d.store.Snapshot()
	logger.Info("Topology initialized", "switches", len(snap.Switches), "links", len(snap.Links))
	metrics.CounterInc(d.metrics.Initializations)
	d.publish(ctx, Event{Kind: TopologyInitialized, Snapshot: snap})
}

func (d *Dispatcher) publish(ctx context.Context, e Event) {
	d.mtx.Lock()
	subs := slices.Clone(d.subs)
	d.mtx.Unlock()
	for _, s := range subs {
		select {
		case s.events <- e:
		case <-s.closed:
		case <-ctx.Done():
			return
		}
	}
}
