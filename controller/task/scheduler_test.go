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

package task_test

import (
	"context"
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdnroute/sdnroute/controller/routeinfo"
	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/controller/routing/dijkstra"
	"github.com/sdnroute/sdnroute/controller/task"
	"github.com/sdnroute/sdnroute/controller/task/mock_task"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/metrics"
)

type schedulerMetrics struct {
	requests *metrics.TestCounter
	computed *metrics.TestCounter
	duration *metrics.TestHistogram
}

func newSchedulerMetrics() schedulerMetrics {
	return schedulerMetrics{
		requests: metrics.NewTestCounter(),
		computed: metrics.NewTestCounter(),
		duration: metrics.NewTestHistogram(),
	}
}

func (m schedulerMetrics) metrics() task.Metrics {
	return task.Metrics{
		Requests:        m.requests,
		Computed:        m.computed,
		ComputeDuration: m.duration,
		QueueLength:     metrics.NewTestGauge(),
	}
}

func (m schedulerMetrics) computedValue(kind, result string) float64 {
	return metrics.CounterValue(m.computed.With("kind", kind, "result", result))
}

func (m schedulerMetrics) requestValue(result string) float64 {
	return metrics.CounterValue(m.requests.With("result", result))
}

// TestSchedulerTwoSwitchVideo routes a VIDEO request over two switches with
// the Dijkstra strategy and checks the installed flows and the route record.
func TestSchedulerTwoSwitchVideo(t *testing.T) {
	ctrl := gomock.NewController(t)
	snap := line()
	holder, err := routing.NewHolder(map[string]routing.Constructor{
		dijkstra.Type: dijkstra.NewUnicast,
	}, dijkstra.Type, nil)
	require.NoError(t, err)
	holder.Init(snap)

	installer := mock_task.NewMockInstaller(ctrl)
	installer.EXPECT().Install(gomock.Any(), gomock.Len(4)).Return(nil)
	routes := routeinfo.New()
	m := newSchedulerMetrics()
	s := task.New(task.Config{
		Router:    holder,
		Routes:    routes,
		Installer: installer,
		Metrics:   m.metrics(),
	})

	require.True(t, s.Submit(context.Background(), unicastEntry(2, 10)))
	assert.Equal(t, 1, s.Len())
	s.Run(context.Background())
	assert.Zero(t, s.Len())

	rec, ok := routes.Get(routeinfo.RequestKey{Src: userIP, Dst: serverIP})
	require.True(t, ok)
	assert.Equal(t, routing.Path{1, 2}, rec.Path)
	assert.Equal(t, dijkstra.Type, rec.Algorithm)
	assert.Equal(t, routing.TypeVideo, rec.Service)
	assert.Len(t, routes.ByLink(2, 1), 1)
	assert.Len(t, routes.ByPort(addr.PortRef{DPID: 2, Port: 10}), 1)
	assert.Equal(t, float64(1), m.computedValue("unicast", "ok"))
	assert.Len(t, m.duration.Observations(), 1)
}

// TestSchedulerCoalescesDuplicate submits the same request twice within the
// window. Only the first one is computed.
func TestSchedulerCoalescesDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := mock_task.NewMockRouter(ctrl)
	router.EXPECT().Snapshot().Return(line()).AnyTimes()
	router.EXPECT().UnicastType().Return("Dij").AnyTimes()
	router.EXPECT().Compute(gomock.Any(), addr.DPID(1), addr.DPID(2),
		routing.QoSClass{Type: routing.TypeVideo, Floor: 10e6}).
		Return(routing.Path{1, 2}, routing.Cost{Delay: 1}, nil).Times(1)
	installer := mock_task.NewMockInstaller(ctrl)
	installer.EXPECT().Install(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	m := newSchedulerMetrics()
	s := task.New(task.Config{
		Router:    router,
		Routes:    routeinfo.New(),
		Installer: installer,
		Metrics:   m.metrics(),
	})
	ctx := context.Background()
	assert.True(t, s.Submit(ctx, unicastEntry(2, 10)))
	assert.False(t, s.Submit(ctx, unicastEntry(2, 10)))
	s.Run(ctx)
	// Still within the window after the route was installed.
	assert.False(t, s.Submit(ctx, unicastEntry(2, 10)))
	s.Run(ctx)

	assert.Equal(t, float64(1), m.requestValue("enqueued"))
	assert.Equal(t, float64(2), m.requestValue("coalesced"))
}

func TestSchedulerDrainContinuesAfterFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := mock_task.NewMockRouter(ctrl)
	router.EXPECT().Snapshot().Return(line()).AnyTimes()
	router.EXPECT().UnicastType().Return("Dij").AnyTimes()
	gomock.InOrder(
		router.EXPECT().Compute(gomock.Any(), addr.DPID(1), addr.DPID(3), gomock.Any()).
			Return(nil, routing.Cost{}, errors.New("boom")),
		router.EXPECT().Compute(gomock.Any(), addr.DPID(1), addr.DPID(3), gomock.Any()).
			Return(nil, routing.Cost{}, nil),
		router.EXPECT().Compute(gomock.Any(), addr.DPID(1), addr.DPID(3), gomock.Any()).
			Return(routing.Path{1, 2, 3}, routing.Cost{}, nil),
	)
	installer := mock_task.NewMockInstaller(ctrl)
	installer.EXPECT().Install(gomock.Any(), gomock.Len(6)).Return(nil)

	m := newSchedulerMetrics()
	routes := routeinfo.New()
	s := task.New(task.Config{
		Router:    router,
		Routes:    routes,
		Installer: installer,
		Metrics:   m.metrics(),
	})
	ctx := context.Background()
	for _, src := range []string{"10.0.0.100", "10.0.0.101", "10.0.0.102"} {
		e := unicastEntry(3, 10)
		e.Src.IP = netip.MustParseAddr(src)
		require.True(t, s.Submit(ctx, e))
	}
	s.Run(ctx)

	assert.Equal(t, 1, routes.Len())
	assert.Equal(t, float64(1), m.computedValue("unicast", "error"))
	assert.Equal(t, float64(1), m.computedValue("unicast", "unreachable"))
	assert.Equal(t, float64(1), m.computedValue("unicast", "ok"))

	// Failed requests are not coalesced with their retry.
	e := unicastEntry(3, 10)
	assert.True(t, s.Submit(ctx, e))
}

func TestSchedulerSkipsFutureEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := mock_task.NewMockRouter(ctrl)
	installer := mock_task.NewMockInstaller(ctrl)
	now := time.Now()
	s := task.New(task.Config{
		Router:    router,
		Routes:    routeinfo.New(),
		Installer: installer,
		Now:       func() time.Time { return now },
	})
	e := unicastEntry(2, 10)
	e.Time = now.Add(time.Second)
	require.True(t, s.Submit(context.Background(), e))
	s.Run(context.Background())
	assert.Equal(t, 1, s.Len())
}

func TestSchedulerInstallFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := mock_task.NewMockRouter(ctrl)
	router.EXPECT().Snapshot().Return(line()).AnyTimes()
	router.EXPECT().UnicastType().Return("Dij").AnyTimes()
	router.EXPECT().Compute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(routing.Path{1, 2}, routing.Cost{}, nil)
	installer := mock_task.NewMockInstaller(ctrl)
	installer.EXPECT().Install(gomock.Any(), gomock.Any()).Return(task.ErrPermanent)

	routes := routeinfo.New()
	s := task.New(task.Config{Router: router, Routes: routes, Installer: installer})
	_, err := s.Handle(context.Background(), unicastEntry(2, 10))
	assert.ErrorIs(t, err, task.ErrPermanent)
	assert.Zero(t, routes.Len(), "failed installs are not registered")
}

func TestSchedulerMulticast(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := mock_task.NewMockRouter(ctrl)
	router.EXPECT().Snapshot().Return(line()).AnyTimes()
	router.EXPECT().MulticastType().Return("NSGA2").AnyTimes()

	e := task.Entry{
		Kind:    routeinfo.KindMulticast,
		Src:     endpoint(userIP, userMAC, 1, 10),
		Virtual: groupIP,
		Members: []routeinfo.Endpoint{
			endpoint(netip.MustParseAddr("10.0.0.2"), nil, 2, 10),
			endpoint(netip.MustParseAddr("10.0.0.3"), nil, 3, 10),
		},
	}
	video := routing.QoSClass{Type: routing.TypeVideo, Floor: 10e6}
	tree := routing.Tree{
		Src:      1,
		Dsts:     []addr.DPID{2, 3},
		Branches: []routing.Path{{1, 2}, {1, 2, 3}},
		Cost:     routing.Cost{Delay: 1.5},
	}
	router.EXPECT().ComputeTree(gomock.Any(), addr.DPID(1), []addr.DPID{2, 3}, video).
		Return(tree, nil)
	installer := mock_task.NewMockInstaller(ctrl)
	installer.EXPECT().Install(gomock.Any(), gomock.Len(3)).Return(nil)

	routes := routeinfo.New()
	s := task.New(task.Config{Router: router, Routes: routes, Installer: installer})
	rec, err := s.Handle(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, routeinfo.RequestKey{Src: userIP, Dst: groupIP}, rec.Key)
	assert.Equal(t, tree.Branches, rec.Branches)
	assert.Equal(t, "NSGA2", rec.Algorithm)
	assert.Len(t, routes.ByLink(2, 3), 1)
	assert.Len(t, rec.Members, 2)

	router.EXPECT().ComputeTree(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(routing.Tree{Src: 1, Dsts: []addr.DPID{2, 3}}, nil)
	_, err = s.Handle(context.Background(), e)
	assert.ErrorIs(t, err, task.ErrUnreachable)
}

func TestSchedulerNotInitialized(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := mock_task.NewMockRouter(ctrl)
	router.EXPECT().Snapshot().Return(nil)
	s := task.New(task.Config{Router: router, Routes: routeinfo.New(),
		Installer: mock_task.NewMockInstaller(ctrl)})
	_, err := s.Deploy(context.Background(), unicastEntry(2, 10), routing.Path{1, 2},
		routing.Cost{}, "Dij")
	assert.ErrorIs(t, err, routing.ErrNotInitialized)
}
