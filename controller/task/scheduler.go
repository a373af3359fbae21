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

package task

import (
	"context"
	"errors"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"

	"github.com/sdnroute/sdnroute/controller/routeinfo"
	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/metrics"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
	"github.com/sdnroute/sdnroute/private/topology"
)

// ErrUnreachable is returned for requests without a path or tree.
var ErrUnreachable = errors.New("destination unreachable")

// Router computes paths and trees. It is implemented by routing.Holder.
type Router interface {
	Snapshot() *topology.Snapshot
	UnicastType() string
	MulticastType() string
	Compute(ctx context.Context, src, dst addr.DPID,
		class routing.QoSClass) (routing.Path, routing.Cost, error)
	ComputeTree(ctx context.Context, src addr.DPID, dsts []addr.DPID,
		class routing.QoSClass) (routing.Tree, error)
}

// Metrics are the scheduler metrics. Nil fields are not reported.
type Metrics struct {
	// Requests counts submitted requests by result: enqueued, coalesced or
	// dropped.
	Requests metrics.Counter
	// Computed counts handled entries by kind and result: ok, unreachable or
	// error.
	Computed metrics.Counter
	// ComputeDuration observes the handling time of an entry in seconds.
	ComputeDuration metrics.Histogram
	QueueLength     metrics.Gauge
}

// Config configures a Scheduler.
type Config struct {
	Router    Router
	QoS       *routing.QoSTable
	Routes    *routeinfo.Maintainer
	Installer Installer
	// QueueSize defaults to DefaultQueueSize.
	QueueSize int
	// Window defaults to DefaultWindow.
	Window  time.Duration
	Metrics Metrics
	// Now defaults to time.Now.
	Now func() time.Time
}

// Scheduler queues route requests and handles them in the drain loop. It
// implements periodic.Task.
type Scheduler struct {
	router    Router
	qos       *routing.QoSTable
	routes    *routeinfo.Maintainer
	installer Installer
	queue     *Queue
	cache     *RequestCache
	metrics   Metrics
	now       func() time.Time
}

// New creates a scheduler.
func New(cfg Config) *Scheduler {
	if cfg.QoS == nil {
		cfg.QoS = routing.DefaultQoSTable()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Scheduler{
		router:    cfg.Router,
		qos:       cfg.QoS,
		routes:    cfg.Routes,
		installer: cfg.Installer,
		queue:     NewQueue(cfg.QueueSize),
		cache:     NewRequestCache(cfg.Window),
		metrics:   cfg.Metrics,
		now:       cfg.Now,
	}
}

// Submit queues the entry without blocking. It reports false if the request
// was coalesced with a recent one or the queue was full.
func (s *Scheduler) Submit(ctx context.Context, e Entry) bool {
	if e.Time.IsZero() {
		e.Time = s.now()
	}
	key := e.Key()
	if !s.cache.Admit(key) {
		s.countRequest("coalesced")
		log.FromCtx(ctx).Debug("Coalesced route request", "request", key)
		return false
	}
	if !s.queue.Push(e) {
		s.cache.Forget(key)
		s.countRequest("dropped")
		log.FromCtx(ctx).Debug("Task queue full, dropped route request", "request", key)
		return false
	}
	s.countRequest("enqueued")
	metrics.GaugeSet(s.metrics.QueueLength, float64(s.queue.Len()))
	return true
}

func (s *Scheduler) countRequest(result string) {
	metrics.CounterInc(metrics.CounterWith(s.metrics.Requests, "result", result))
}

// Len returns the number of queued entries.
func (s *Scheduler) Len() int {
	return s.queue.Len()
}

// Name returns the task name.
func (s *Scheduler) Name() string {
	return "route_task_scheduler"
}

// Run drains the entries that are due. A failing entry is logged and dropped;
// it never stops the drain.
func (s *Scheduler) Run(ctx context.Context) {
	logger := log.FromCtx(ctx)
	for _, e := range s.queue.PopReady(s.now()) {
		_, err := s.Handle(ctx, e)
		switch {
		case errors.Is(err, ErrUnreachable):
			logger.Info("No route for request, dropped", "request", e.Key())
		case err != nil:
			logger.Error("Handling route request failed", "request", e.Key(), "err", err)
		}
	}
	metrics.GaugeSet(s.metrics.QueueLength, float64(s.queue.Len()))
}

// Handle computes and deploys a single entry. A failed request is removed
// from the request cache so that the next request for it is not coalesced.
func (s *Scheduler) Handle(ctx context.Context, e Entry) (routeinfo.Record, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "task.handle")
	defer span.Finish()
	span.SetTag("request", e.Key().String())
	span.SetTag("kind", e.Kind.String())

	start := time.Now()
	rec, err := s.handle(ctx, e)
	metrics.HistogramObserve(s.metrics.ComputeDuration, time.Since(start).Seconds())
	result := "ok"
	switch {
	case errors.Is(err, ErrUnreachable):
		result = "unreachable"
	case err != nil:
		result = "error"
		ext.Error.Set(span, true)
	}
	if err != nil {
		s.cache.Forget(e.Key())
	}
	metrics.CounterInc(metrics.CounterWith(s.metrics.Computed,
		"kind", e.Kind.String(), "result", result))
	return rec, err
}

func (s *Scheduler) handle(ctx context.Context, e Entry) (routeinfo.Record, error) {
	if e.Kind == routeinfo.KindMulticast {
		class := s.qos.Class(routing.TypeVideo)
		tree, err := s.router.ComputeTree(ctx, e.Src.Attachment.DPID, e.DstSwitches(), class)
		if err != nil {
			return routeinfo.Record{}, serrors.Wrap("computing tree", err, "request", e.Key())
		}
		if !tree.Reachable() {
			return routeinfo.Record{}, serrors.JoinNoStack(ErrUnreachable, nil,
				"request", e.Key())
		}
		return s.DeployTree(ctx, e, tree)
	}
	class := s.qos.Class(e.Service)
	path, cost, err := s.router.Compute(ctx, e.Src.Attachment.DPID, e.Dst.Attachment.DPID, class)
	if err != nil {
		return routeinfo.Record{}, serrors.Wrap("computing path", err, "request", e.Key())
	}
	if path == nil {
		return routeinfo.Record{}, serrors.JoinNoStack(ErrUnreachable, nil, "request", e.Key())
	}
	return s.Deploy(ctx, e, path, cost, s.router.UnicastType())
}

// Deploy installs the flows of a unicast or NAT entry along path and
// registers the route. It replaces an installed route with the same key.
func (s *Scheduler) Deploy(ctx context.Context, e Entry, path routing.Path,
	cost routing.Cost, algorithm string) (routeinfo.Record, error) {

	snap := s.router.Snapshot()
	if snap == nil {
		return routeinfo.Record{}, routing.ErrNotInitialized
	}
	flows, err := Plan(snap, e, path)
	if err != nil {
		return routeinfo.Record{}, err
	}
	rec := s.record(e, flows, cost, algorithm)
	rec.Path = path
	if err := s.install(ctx, rec, flows); err != nil {
		return routeinfo.Record{}, err
	}
	log.FromCtx(ctx).Info("Installed route", "request", rec.Key, "path", path,
		"algorithm", algorithm, "delay", cost.Delay)
	return rec, nil
}

// DeployTree installs the flows of a multicast entry and registers the route.
func (s *Scheduler) DeployTree(ctx context.Context, e Entry,
	tree routing.Tree) (routeinfo.Record, error) {

	snap := s.router.Snapshot()
	if snap == nil {
		return routeinfo.Record{}, routing.ErrNotInitialized
	}
	flows, err := PlanTree(snap, e, tree.Branches)
	if err != nil {
		return routeinfo.Record{}, err
	}
	rec := s.record(e, flows, tree.Cost, s.router.MulticastType())
	rec.Service = routing.TypeVideo
	rec.Branches = tree.Branches
	if err := s.install(ctx, rec, flows); err != nil {
		return routeinfo.Record{}, err
	}
	log.FromCtx(ctx).Info("Installed multicast tree", "request", rec.Key,
		"branches", len(tree.Branches), "algorithm", rec.Algorithm)
	return rec, nil
}

func (s *Scheduler) record(e Entry, flows []Flow, cost routing.Cost,
	algorithm string) routeinfo.Record {

	return routeinfo.Record{
		Key:       e.Key(),
		Kind:      e.Kind,
		Src:       e.Src,
		Dst:       e.Dst,
		Gateway:   e.Gateway,
		Members:   e.Members,
		Service:   e.Service,
		Ports:     Ports(flows),
		Cost:      cost,
		Algorithm: algorithm,
		Installed: s.now(),
	}
}

func (s *Scheduler) install(ctx context.Context, rec routeinfo.Record, flows []Flow) error {
	if err := s.installer.Install(ctx, flows); err != nil {
		return serrors.Wrap("installing flows", err, "request", rec.Key, "flows", len(flows))
	}
	s.routes.Add(rec)
	return nil
}
