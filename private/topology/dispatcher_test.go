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

package topology_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/metrics"
	"github.com/sdnroute/sdnroute/pkg/private/xtest"
	"github.com/sdnroute/sdnroute/private/topology"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const debounce = 30 * time.Millisecond

func startDispatcher(t *testing.T, cfg topology.DispatcherCfg) (*topology.Dispatcher,
	*topology.Subscription) {

	t.Helper()
	if cfg.Store == nil {
		cfg.Store = topology.NewStore()
	}
	cfg.Debounce = debounce
	d := topology.NewDispatcher(cfg)
	sub := d.Subscribe()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, d.Run(ctx))
	}()
	t.Cleanup(func() {
		sub.Close()
		cancel()
		<-done
	})
	return d, sub
}

func next(t *testing.T, sub *topology.Subscription) topology.Event {
	t.Helper()
	select {
	case e := <-sub.Events:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for topology event")
		return topology.Event{}
	}
}

func submit(t *testing.T, d *topology.Dispatcher, events ...topology.Event) {
	t.Helper()
	for _, e := range events {
		require.NoError(t, d.Submit(context.Background(), e))
	}
}

func switchEnter(dpid addr.DPID) topology.Event {
	return topology.Event{Kind: topology.SwitchEnter, DPID: dpid, Ports: ports(1, 2)}
}

func linkAdd(a, b addr.DPID) topology.Event {
	return topology.Event{Kind: topology.LinkAdd, Src: ref(a, 2), Dst: ref(b, 1)}
}

func TestDispatcherInitialization(t *testing.T) {
	file := xtest.MustWriteFile(t, "topology.yml", []byte(`
links:
  - {src: "1", dst: "2", delay: 4, loss: 2, bandwidth: 10}
switches:
  - {dpid: "2", attribute: core}
`))
	inits := metrics.NewTestCounter()
	d, sub := startDispatcher(t, topology.DispatcherCfg{
		AttributeFile: file,
		Metrics:       topology.DispatcherMetrics{Initializations: inits},
	})
	submit(t, d, switchEnter(1), switchEnter(2), linkAdd(1, 2))

	assert.Equal(t, topology.SwitchEnter, next(t, sub).Kind)
	assert.Equal(t, topology.SwitchEnter, next(t, sub).Kind)
	e := next(t, sub)
	assert.Equal(t, topology.LinkAdd, e.Kind)
	require.NotNil(t, e.Snapshot)
	assert.Len(t, e.Snapshot.Links, 1)

	e = next(t, sub)
	assert.Equal(t, topology.TopologyInitialized, e.Kind)
	role, _ := e.Snapshot.Role(2)
	assert.Equal(t, topology.RoleCore, role)
	l, ok := e.Snapshot.Edge(1, 2)
	require.True(t, ok)
	assert.Equal(t, 4.0, l.Delay)
	assert.InDelta(t, 0.02, l.Loss, 1e-12)
	assert.Equal(t, 1e7, l.TotalBandwidth)
	assert.Equal(t, 1.0, metrics.CounterValue(inits))
}

func TestDispatcherMissingAttributeFile(t *testing.T) {
	errs := metrics.NewTestCounter()
	d, sub := startDispatcher(t, topology.DispatcherCfg{
		AttributeFile: "testdata/missing.yml",
		Metrics:       topology.DispatcherMetrics{AttributeErrors: errs},
	})
	submit(t, d, switchEnter(1), switchEnter(2), linkAdd(1, 2))
	for range 3 {
		next(t, sub)
	}
	e := next(t, sub)
	assert.Equal(t, topology.TopologyInitialized, e.Kind)
	role, _ := e.Snapshot.Role(1)
	assert.Equal(t, topology.DefaultRole, role)
	assert.Zero(t, metrics.CounterValue(errs))
}

func TestDispatcherSuppressesNoops(t *testing.T) {
	d, sub := startDispatcher(t, topology.DispatcherCfg{})
	submit(t, d,
		switchEnter(1), switchEnter(2),
		linkAdd(1, 2),
		// Reverse direction of the same link.
		topology.Event{Kind: topology.LinkAdd, Src: ref(2, 1), Dst: ref(1, 2)},
		// Already up.
		topology.Event{Kind: topology.PortModify, DPID: 1,
			Port: topology.Port{No: 1, State: topology.PortStateUp}},
		topology.Event{Kind: topology.PortModify, DPID: 1,
			Port: topology.Port{No: 1, State: topology.PortStateDown}},
		topology.Event{Kind: topology.PortModify, DPID: 1,
			Port: topology.Port{No: 1, State: topology.PortStateUp}},
	)
	var kinds []topology.EventKind
	for range 6 {
		kinds = append(kinds, next(t, sub).Kind)
	}
	assert.Equal(t, []topology.EventKind{
		topology.SwitchEnter, topology.SwitchEnter, topology.LinkAdd,
		topology.PortDown, topology.PortUp, topology.TopologyInitialized,
	}, kinds)
}

func TestDispatcherDebounce(t *testing.T) {
	d, sub := startDispatcher(t, topology.DispatcherCfg{})
	submit(t, d, switchEnter(1), switchEnter(2), switchEnter(3))
	for range 3 {
		next(t, sub)
	}
	// Without link adds there is no initialization.
	select {
	case e := <-sub.Events:
		t.Fatalf("unexpected event %v", e.Kind)
	case <-time.After(3 * debounce):
	}
	submit(t, d, linkAdd(1, 2), linkAdd(2, 3))
	assert.Equal(t, topology.LinkAdd, next(t, sub).Kind)
	assert.Equal(t, topology.LinkAdd, next(t, sub).Kind)
	e := next(t, sub)
	assert.Equal(t, topology.TopologyInitialized, e.Kind)
	assert.Len(t, e.Snapshot.Links, 2)
}

func TestSubmitRejectsInvalid(t *testing.T) {
	d := topology.NewDispatcher(topology.DispatcherCfg{Store: topology.NewStore()})
	ctx := context.Background()
	testCases := map[string]topology.Event{
		"output only kind": {Kind: topology.PortUp},
		"self loop":        {Kind: topology.LinkAdd, Src: ref(1, 1), Dst: ref(1, 2)},
		"reserved port": {Kind: topology.PortAdd, DPID: 1,
			Port: topology.Port{No: addr.PortLocal}},
	}
	for name, e := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, d.Submit(ctx, e))
		})
	}
}

func TestSubmitHonorsContext(t *testing.T) {
	d := topology.NewDispatcher(topology.DispatcherCfg{Store: topology.NewStore(), QueueSize: 1})
	submit(t, d, switchEnter(1))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Submit(ctx, switchEnter(2)), context.DeadlineExceeded)
}
