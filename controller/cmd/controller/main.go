// Copyright 2020 Anapaya Systems
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

// The controller binary runs the SDN route controller.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sdnroute/sdnroute/controller"
	"github.com/sdnroute/sdnroute/controller/config"
	"github.com/sdnroute/sdnroute/controller/fault"
	"github.com/sdnroute/sdnroute/controller/hosts"
	"github.com/sdnroute/sdnroute/controller/mgmtapi"
	"github.com/sdnroute/sdnroute/controller/packetin"
	"github.com/sdnroute/sdnroute/controller/routeinfo"
	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/controller/routing/dijkstra"
	"github.com/sdnroute/sdnroute/controller/routing/genetic"
	"github.com/sdnroute/sdnroute/controller/routing/nsga2"
	"github.com/sdnroute/sdnroute/controller/task"
	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/metrics"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
	"github.com/sdnroute/sdnroute/private/app/launcher"
	"github.com/sdnroute/sdnroute/private/storage"
	"github.com/sdnroute/sdnroute/private/telemetry"
	"github.com/sdnroute/sdnroute/private/topology"
)

var globalCfg config.Config

func main() {
	application := launcher.Application{
		TOMLConfig: &globalCfg,
		ShortName:  "sdnroute Controller",
		Main:       realMain,
	}
	application.Run()
}

func realMain(ctx context.Context) error {
	m := controller.NewMetrics(metrics.NewFactory())

	closer, err := controller.InitTracer(globalCfg.Tracing, globalCfg.General.ID)
	if err != nil {
		return serrors.Wrap("initializing tracer", err)
	}
	defer closer.Close()

	qos, err := globalCfg.Routing.QoSTable()
	if err != nil {
		return serrors.Wrap("creating QoS table", err)
	}
	gatewayMACs, err := globalCfg.Inventory.GatewayMACs()
	if err != nil {
		return serrors.Wrap("parsing gateways", err)
	}
	gateways, err := hosts.NewGateways(gatewayMACs)
	if err != nil {
		return serrors.Wrap("creating gateways", err)
	}
	servers := hosts.NewRegistry()
	hostTable, err := hosts.NewHostTable(globalCfg.PacketIn.HostCacheSize)
	if err != nil {
		return serrors.Wrap("creating host table", err)
	}
	groups := packetin.NewGroups()
	if err := globalCfg.Inventory.Apply(servers, hostTable, groups); err != nil {
		return serrors.Wrap("applying inventory", err)
	}

	routeDB, err := storage.NewRouteStorage(globalCfg.RouteDB, m.Cleaner)
	if err != nil {
		return serrors.Wrap("initializing route storage", err)
	}
	defer routeDB.Close()

	holder, err := routing.NewHolder(map[string]routing.Constructor{
		dijkstra.Type: dijkstra.NewUnicast,
		genetic.Type:  genetic.NewUnicast,
	}, globalCfg.Routing.Unicast, nsga2.New(nsga2.WithSink(routeDB)))
	if err != nil {
		return serrors.Wrap("creating route algorithms", err)
	}

	store := topology.NewStore()
	dispatcher := topology.NewDispatcher(topology.DispatcherCfg{
		Store:         store,
		AttributeFile: globalCfg.General.LinkAttributes(),
		Debounce:      globalCfg.Topology.Debounce.Duration,
		QueueSize:     globalCfg.Topology.QueueSize,
		Metrics:       m.Dispatcher,
	})

	routes := routeinfo.New()
	scheduler := task.New(task.Config{
		Router: holder,
		QoS:    qos,
		Routes: routes,
		Installer: task.RetryInstaller{
			Installer: task.LogInstaller{},
			MaxTries:  globalCfg.Scheduler.InstallTries,
			Retries:   m.InstallRetries,
		},
		QueueSize: globalCfg.Scheduler.QueueSize,
		Window:    globalCfg.Scheduler.Window.Duration,
		Metrics:   m.Scheduler,
	})

	engine := fault.NewEngine(fault.Config{
		Algorithms:       holder,
		Deployer:         scheduler,
		Servers:          servers,
		Routes:           routes,
		QoS:              qos,
		Log:              routeDB,
		PreferSameSwitch: globalCfg.Fault.PreferSameSwitch,
		Metrics:          m.Fault,
	})
	if err := engine.InitPortTypes(globalCfg.Fault.PortTypes); err != nil {
		return serrors.Wrap("applying port types", err)
	}

	g, errCtx := errgroup.WithContext(ctx)
	// Subscribe before the dispatcher runs so the initial topology is not
	// missed.
	sub := dispatcher.Subscribe()
	defer sub.Close()
	g.Go(func() error {
		defer log.HandlePanic()
		return dispatcher.Run(errCtx)
	})
	g.Go(func() error {
		defer log.HandlePanic()
		return engine.Run(errCtx, sub.Events)
	})

	stats := &telemetry.Buffer{}
	view := telemetry.NewView()
	tasks := controller.StartTasks(controller.TasksConfig{
		Scheduler:     scheduler,
		DrainInterval: globalCfg.Scheduler.Interval.Duration,
		Monitor: &telemetry.Monitor{
			Store:   store,
			View:    view,
			Source:  stats,
			Parser:  telemetry.NewParser(),
			Metrics: m.Monitor,
		},
		Refresher: func(v *telemetry.View) {
			holder.RefreshTelemetry(v)
		},
		PollInterval:  globalCfg.Routing.PollInterval.Duration,
		Printer:       &telemetry.Printer{Store: store, View: view},
		PrintInterval: globalCfg.Routing.PrintInterval.Duration,
		Metrics:       m,
	})
	defer tasks.Kill()
	log.Info("Started periodic tasks")

	handler := packetin.New(packetin.Config{
		Router:    holder,
		Scheduler: scheduler,
		Hosts:     hostTable,
		Servers:   servers,
		Balancer:  hosts.NewBalancer(servers),
		Gateways:  gateways,
		Groups:    groups,
		QoS:       qos,
		Rate:      rate.Limit(globalCfg.PacketIn.Rate),
		Burst:     globalCfg.PacketIn.Burst,
		Metrics:   m.PacketIn,
	})
	if globalCfg.PacketIn.Listen != "" {
		conn, err := net.ListenPacket("udp", globalCfg.PacketIn.Listen)
		if err != nil {
			return serrors.Wrap("listening for packet-in records", err,
				"addr", globalCfg.PacketIn.Listen)
		}
		log.Info("Receiving packet-in records", "addr", conn.LocalAddr())
		listener := packetin.Listener{Conn: conn, Handler: handler}
		g.Go(func() error {
			defer log.HandlePanic()
			return listener.Run(errCtx)
		})
	}

	if globalCfg.API.Enabled() {
		r := chi.NewRouter()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
		}))
		r.Mount("/api/v1", mgmtapi.Handler(&mgmtapi.Server{
			Servers:    servers,
			QoS:        qos,
			Algorithms: holder,
			PortTypes:  engine,
			Topology:   store,
			Events:     dispatcher,
			Stats:      stats,
		}))
		log.Info("Exposing API", "addr", globalCfg.API.Addr)
		s := http.Server{
			Addr:              globalCfg.API.Addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			defer log.HandlePanic()
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return serrors.Wrap("serving management API", err)
			}
			return nil
		})
		g.Go(func() error {
			defer log.HandlePanic()
			<-errCtx.Done()
			return s.Close()
		})
	}

	g.Go(func() error {
		defer log.HandlePanic()
		return globalCfg.Metrics.ServePrometheus(errCtx)
	})
	return g.Wait()
}
