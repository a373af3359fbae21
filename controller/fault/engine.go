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

// Package fault classifies topology faults and recovers the routes they
// affect.
//
// Link faults are classified by the types of the two link ports. Routes of a
// failed server are moved to another server of the same business type, routes
// through the backbone are recomputed. Faults at the access layer are logged
// but not recovered.
package fault

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"

	"github.com/sdnroute/sdnroute/controller/hosts"
	"github.com/sdnroute/sdnroute/controller/routeinfo"
	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/metrics"
	"github.com/sdnroute/sdnroute/private/storage/routedb"
	"github.com/sdnroute/sdnroute/private/topology"
)

// Algorithms are the route algorithms the engine re-initializes after a
// fault.
type Algorithms interface {
	Router
	Init(snap *topology.Snapshot)
}

// RecoveryLog persists recovery records.
type RecoveryLog interface {
	InsertRecovery(ctx context.Context, r routedb.Recovery) error
}

// Metrics are the engine metrics.
type Metrics struct {
	// Recoveries counts recovered routes, labeled by category and outcome.
	Recoveries metrics.Counter
}

// Config configures the engine.
type Config struct {
	Algorithms Algorithms
	Deployer   Deployer
	Servers    *hosts.Registry
	Routes     *routeinfo.Maintainer
	QoS        *routing.QoSTable
	// Log is optional.
	Log              RecoveryLog
	PreferSameSwitch bool
	Metrics          Metrics
	// Intn overrides the random candidate choice.
	Intn func(n int) int
}

// Engine handles topology faults.
type Engine struct {
	algorithms Algorithms
	servers    *hosts.Registry
	routes     *routeinfo.Maintainer
	partitions *Partitions
	strategies map[Category]Strategy
	recoveries RecoveryLog
	metrics    Metrics
}

// NewEngine creates an engine.
func NewEngine(cfg Config) *Engine {
	qos := cfg.QoS
	if qos == nil {
		qos = routing.DefaultQoSTable()
	}
	reroute := Rerouter{Router: cfg.Algorithms, Deployer: cfg.Deployer, QoS: qos}
	return &Engine{
		algorithms: cfg.Algorithms,
		servers:    cfg.Servers,
		routes:     cfg.Routes,
		partitions: NewPartitions(),
		strategies: map[Category]Strategy{
			CategoryIntraBackbone: reroute,
			CategoryServerEdge: ServerFailover{
				Router:           cfg.Algorithms,
				Deployer:         cfg.Deployer,
				Servers:          cfg.Servers,
				QoS:              qos,
				PreferSameSwitch: cfg.PreferSameSwitch,
				Intn:             cfg.Intn,
			},
			CategoryUserAccess:     Unhandled{Category: CategoryUserAccess},
			CategoryAccessBackbone: Unhandled{Category: CategoryAccessBackbone},
		},
		recoveries: cfg.Log,
		metrics:    cfg.Metrics,
	}
}

// Partitions returns the port type partitions.
func (e *Engine) Partitions() *Partitions {
	return e.partitions
}

// InitPortTypes overrides port types from the admin representation
// {"dpid,port": type}. Nothing is applied if any entry is invalid.
func (e *Engine) InitPortTypes(raw map[string]string) error {
	types, err := ParsePortTypes(raw)
	if err != nil {
		return err
	}
	e.partitions.Set(types)
	return nil
}

// Run handles the events until ctx is done.
func (e *Engine) Run(ctx context.Context, events <-chan topology.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			e.Handle(ctx, ev)
		}
	}
}

// Handle handles a single topology event. Events that are not faults are
// ignored.
func (e *Engine) Handle(ctx context.Context, ev topology.Event) {
	switch ev.Kind {
	case topology.TopologyInitialized:
		if ev.Snapshot == nil {
			return
		}
		e.algorithms.Init(ev.Snapshot)
		e.partitions.Resolve(ev.Snapshot)
		log.FromCtx(ctx).Info("Resolved port types",
			"edge_to_server", len(e.partitions.Ports(PortEdgeToServer)),
			"intra_backbone", len(e.partitions.Ports(PortIntraBackbone)))
	case topology.LinkDelete:
		e.HandleLinkDelete(ctx, ev.Src, ev.Dst, ev.Snapshot)
	case topology.PortDown:
		e.HandlePortDown(ctx, addr.PortRef{DPID: ev.DPID, Port: ev.Port.No})
	case topology.PortUp:
		e.HandlePortUp(ctx, addr.PortRef{DPID: ev.DPID, Port: ev.Port.No})
	}
}

// HandleLinkDelete recovers the routes over the deleted link. snap is the
// topology after the deletion; the algorithms are re-initialized with it
// before any route is recomputed.
func (e *Engine) HandleLinkDelete(ctx context.Context, src, dst addr.PortRef,
	snap *topology.Snapshot) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "fault.link_delete")
	defer span.Finish()
	ctx, logger := log.WithLabels(ctx, "src", src, "dst", dst)

	if snap != nil {
		e.algorithms.Init(snap)
	}
	category := e.partitions.Classify(src, dst)
	span.SetTag("category", category.String())

	failed := src
	if e.partitions.Type(dst) == PortEdgeToServer {
		failed = dst
	}
	affected := e.routes.ByLink(src.DPID, dst.DPID)
	if category == CategoryServerEdge {
		affected = appendUnique(affected, e.routes.ByPort(failed))
	}
	logger.Info("Link deleted", "category", category, "affected", len(affected))
	for _, rec := range affected {
		if e.recover(ctx, category, Request{Record: rec, Failed: failed}) == OutcomeFailed {
			ext.Error.Set(span, true)
		}
	}
}

// HandlePortDown marks the server attached to an edge-to-server port DOWN and
// moves its routes. Other ports are ignored.
func (e *Engine) HandlePortDown(ctx context.Context, port addr.PortRef) {
	if e.partitions.Type(port) != PortEdgeToServer {
		return
	}
	s, ok := e.servers.ByAttachment(port)
	if !ok || s.Status == hosts.StatusDown {
		return
	}
	span, ctx := opentracing.StartSpanFromContext(ctx, "fault.port_down")
	defer span.Finish()
	ctx, logger := log.WithLabels(ctx, "port", port, "server", s.IP)

	if _, err := e.servers.UpdateStatus(s.IP, hosts.StatusDown); err != nil {
		logger.Error("Marking server down failed", "err", err)
		return
	}
	affected := e.routes.ByPort(port)
	logger.Info("Server port down", "affected", len(affected))
	for _, rec := range affected {
		if e.recover(ctx, CategoryServerEdge, Request{Record: rec, Failed: port}) ==
			OutcomeFailed {

			ext.Error.Set(span, true)
		}
	}
}

// HandlePortUp marks the server attached to the port UP again.
func (e *Engine) HandlePortUp(ctx context.Context, port addr.PortRef) {
	s, ok := e.servers.ByAttachment(port)
	if !ok || s.Status != hosts.StatusDown {
		return
	}
	if _, err := e.servers.UpdateStatus(s.IP, hosts.StatusUp); err != nil {
		log.FromCtx(ctx).Error("Marking server up failed", "server", s.IP, "err", err)
		return
	}
	log.FromCtx(ctx).Info("Server back up", "server", s.IP, "port", port)
}

// recover runs the strategy of the category for one route. The stale record
// is removed unless the strategy left the route alone.
func (e *Engine) recover(ctx context.Context, category Category, req Request) Outcome {
	logger := log.FromCtx(ctx)
	start := time.Now()
	e.routes.Remove(req.Record.Key)
	outcome, err := e.strategies[category].Recover(ctx, req)
	if err != nil && outcome != OutcomeNoRedundancy {
		outcome = OutcomeFailed
	}
	if outcome == OutcomeSkipped {
		e.routes.Add(req.Record)
	}
	elapsed := time.Since(start)
	switch {
	case outcome == OutcomeFailed:
		logger.Error("Route recovery failed", "request", req.Record.Key, "err", err)
	default:
		logger.Info("Route recovery done", "request", req.Record.Key,
			"outcome", outcome, "elapsed", elapsed)
	}
	metrics.CounterInc(metrics.CounterWith(e.metrics.Recoveries,
		"category", category.String(), "outcome", string(outcome)))
	if e.recoveries != nil {
		r := routedb.Recovery{
			Category: category.String(),
			Request:  req.Record.Key.String(),
			Outcome:  string(outcome),
			Elapsed:  elapsed,
			Created:  start,
		}
		if err := e.recoveries.InsertRecovery(ctx, r); err != nil {
			logger.Error("Persisting recovery failed", "err", err)
		}
	}
	return outcome
}

func appendUnique(records []routeinfo.Record, more []routeinfo.Record) []routeinfo.Record {
	seen := make(map[routeinfo.RequestKey]struct{}, len(records))
	for _, r := range records {
		seen[r.Key] = struct{}{}
	}
	for _, r := range more {
		if _, ok := seen[r.Key]; !ok {
			seen[r.Key] = struct{}{}
			records = append(records, r)
		}
	}
	return records
}
