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

package fault

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/sdnroute/sdnroute/controller/hosts"
	"github.com/sdnroute/sdnroute/controller/routeinfo"
	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/controller/task"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

// ErrNoRedundancy is returned when no alternate server of the same business
// type is available.
var ErrNoRedundancy = errors.New("no redundant server")

// Outcome is the result of recovering one route.
type Outcome string

const (
	OutcomeRecovered    Outcome = "recovered"
	OutcomeUnreachable  Outcome = "unreachable"
	OutcomeNoRedundancy Outcome = "no_redundancy"
	OutcomeSkipped      Outcome = "skipped"
	OutcomeFailed       Outcome = "failed"
)

// Request is a route affected by a fault.
type Request struct {
	Record routeinfo.Record
	// Failed is the port the fault was observed on. For server-edge faults it
	// is the port of the failed server.
	Failed addr.PortRef
}

// Strategy recovers a single route.
type Strategy interface {
	Recover(ctx context.Context, req Request) (Outcome, error)
}

// Router computes paths on the current topology.
type Router interface {
	Compute(ctx context.Context, src, dst addr.DPID, class routing.QoSClass) (routing.Path,
		routing.Cost, error)
	ComputeTree(ctx context.Context, src addr.DPID, dsts []addr.DPID,
		class routing.QoSClass) (routing.Tree, error)
	UnicastType() string
}

// Deployer installs recovered routes.
type Deployer interface {
	Deploy(ctx context.Context, e task.Entry, path routing.Path, cost routing.Cost,
		algorithm string) (routeinfo.Record, error)
	DeployTree(ctx context.Context, e task.Entry, tree routing.Tree) (routeinfo.Record, error)
}

// Rerouter recomputes the route between the original endpoints with the active
// unicast algorithm. Multicast routes get a new tree.
type Rerouter struct {
	Router   Router
	Deployer Deployer
	QoS      *routing.QoSTable
}

func (s Rerouter) Recover(ctx context.Context, req Request) (Outcome, error) {
	rec := req.Record
	e := task.FromRecord(rec)
	qos := s.QoS
	if qos == nil {
		qos = routing.DefaultQoSTable()
	}
	if rec.Kind == routeinfo.KindMulticast {
		tree, err := s.Router.ComputeTree(ctx, rec.Src.Attachment.DPID, e.DstSwitches(),
			qos.Class(routing.TypeVideo))
		if err != nil {
			return OutcomeFailed, err
		}
		if !tree.Reachable() {
			log.FromCtx(ctx).Info("No alternate tree", "request", rec.Key)
			return OutcomeUnreachable, nil
		}
		if _, err := s.Deployer.DeployTree(ctx, e, tree); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeRecovered, nil
	}
	path, cost, err := s.Router.Compute(ctx, rec.Src.Attachment.DPID,
		rec.Dst.Attachment.DPID, qos.Class(rec.Service))
	if err != nil {
		return OutcomeFailed, err
	}
	if path == nil {
		log.FromCtx(ctx).Info("No alternate path", "request", rec.Key)
		return OutcomeUnreachable, nil
	}
	if _, err := s.Deployer.Deploy(ctx, e, path, cost, s.Router.UnicastType()); err != nil {
		return OutcomeFailed, err
	}
	return OutcomeRecovered, nil
}

// ServerFailover moves routes of a failed server to another server of the same
// business type.
type ServerFailover struct {
	Router   Router
	Deployer Deployer
	Servers  *hosts.Registry
	QoS      *routing.QoSTable
	// PreferSameSwitch chooses candidates on the switch of the failed server
	// first. The installed path is reused for them.
	PreferSameSwitch bool
	// Intn returns a random number in [0, n). Defaults to math/rand/v2.
	Intn func(n int) int
}

func (s ServerFailover) Recover(ctx context.Context, req Request) (Outcome, error) {
	logger := log.FromCtx(ctx)
	rec := req.Record
	at := req.Failed
	if at == (addr.PortRef{}) {
		at = rec.Dst.Attachment
	}
	failed, ok := s.Servers.ByAttachment(at)
	if !ok {
		logger.Info("No server at failed port, ignoring", "port", at, "request", rec.Key)
		return OutcomeSkipped, nil
	}
	if _, err := s.Servers.UpdateStatus(failed.IP, hosts.StatusDown); err != nil {
		return OutcomeFailed, err
	}

	var all, local []hosts.Server
	for _, c := range s.Servers.ByType(failed.Type) {
		if c.IP == failed.IP || c.Status == hosts.StatusDown {
			continue
		}
		all = append(all, c)
		if c.Attachment.DPID == failed.Attachment.DPID {
			local = append(local, c)
		}
	}
	candidates := all
	if s.PreferSameSwitch && len(local) > 0 {
		candidates = local
	}
	if len(candidates) == 0 {
		err := serrors.JoinNoStack(ErrNoRedundancy, nil, "type", failed.Type,
			"server", failed.IP)
		logger.Error("Server failover impossible", "request", rec.Key, "err", err)
		return OutcomeNoRedundancy, err
	}
	next := candidates[s.intn(len(candidates))]
	logger.Info("Failing over server", "request", rec.Key, "failed", failed.IP,
		"next", next.IP)

	e := task.FromRecord(rec)
	e.Dst = routeinfo.Endpoint{IP: next.IP, MAC: next.MAC, Attachment: next.Attachment}
	if next.Attachment.DPID == failed.Attachment.DPID && len(rec.Path) > 0 {
		if _, err := s.Deployer.Deploy(ctx, e, rec.Path, rec.Cost, rec.Algorithm); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeRecovered, nil
	}
	qos := s.QoS
	if qos == nil {
		qos = routing.DefaultQoSTable()
	}
	path, cost, err := s.Router.Compute(ctx, rec.Src.Attachment.DPID, next.Attachment.DPID,
		qos.Class(next.Type))
	if err != nil {
		return OutcomeFailed, err
	}
	if path == nil {
		logger.Info("Alternate server unreachable", "request", rec.Key, "server", next.IP)
		return OutcomeUnreachable, nil
	}
	if _, err := s.Deployer.Deploy(ctx, e, path, cost, s.Router.UnicastType()); err != nil {
		return OutcomeFailed, err
	}
	return OutcomeRecovered, nil
}

func (s ServerFailover) intn(n int) int {
	if s.Intn != nil {
		return s.Intn(n)
	}
	return rand.IntN(n)
}

// Unhandled logs the fault and leaves the route alone.
type Unhandled struct {
	Category Category
}

func (s Unhandled) Recover(ctx context.Context, req Request) (Outcome, error) {
	log.FromCtx(ctx).Info("No recovery for fault category", "category", s.Category,
		"request", req.Record.Key)
	return OutcomeSkipped, nil
}
