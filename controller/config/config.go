// Copyright 2019 Anapaya Systems
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

// Package config describes the configuration of the controller.
package config

import (
	"io"
	"time"

	"github.com/sdnroute/sdnroute/controller/fault"
	"github.com/sdnroute/sdnroute/controller/packetin"
	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/controller/routing/dijkstra"
	"github.com/sdnroute/sdnroute/controller/routing/genetic"
	"github.com/sdnroute/sdnroute/controller/task"
	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
	"github.com/sdnroute/sdnroute/pkg/private/util"
	"github.com/sdnroute/sdnroute/private/config"
	"github.com/sdnroute/sdnroute/private/env"
	"github.com/sdnroute/sdnroute/private/storage"
	"github.com/sdnroute/sdnroute/private/topology"
)

const (
	// DefaultAPIAddr is the default address of the admin API.
	DefaultAPIAddr = "127.0.0.1:8080"
	// DefaultDrainInterval is the default period of the scheduler drain loop.
	DefaultDrainInterval = time.Second
	// DefaultPollInterval is the default period of the port stats poll.
	DefaultPollInterval = 5 * time.Second
	// DefaultPrintInterval is the default period of the link table print.
	DefaultPrintInterval = 10 * time.Second
	// DefaultHostCacheSize is the default size of the host MAC cache.
	DefaultHostCacheSize = 1024
)

var _ config.Config = (*Config)(nil)

// Config is the controller configuration.
type Config struct {
	General   env.General      `toml:"general,omitempty"`
	Logging   log.Config       `toml:"log,omitempty"`
	Metrics   env.Metrics      `toml:"metrics,omitempty"`
	API       APIConfig        `toml:"api,omitempty"`
	Tracing   env.Tracing      `toml:"tracing,omitempty"`
	RouteDB   storage.DBConfig `toml:"route_db,omitempty"`
	Topology  TopologyConfig   `toml:"topology,omitempty"`
	Routing   RoutingConfig    `toml:"routing,omitempty"`
	Scheduler SchedulerConfig  `toml:"scheduler,omitempty"`
	Fault     FaultConfig      `toml:"fault,omitempty"`
	PacketIn  PacketInConfig   `toml:"packet_in,omitempty"`
	Inventory Inventory        `toml:"inventory,omitempty"`
}

// InitDefaults initializes the default values for all parts of the config.
func (cfg *Config) InitDefaults() {
	config.InitAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.API,
		&cfg.Tracing,
		&cfg.RouteDB,
		&cfg.Topology,
		&cfg.Routing,
		&cfg.Scheduler,
		&cfg.Fault,
		&cfg.PacketIn,
		&cfg.Inventory,
	)
}

// Validate validates all parts of the config.
func (cfg *Config) Validate() error {
	return config.ValidateAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.API,
		&cfg.RouteDB,
		&cfg.Topology,
		&cfg.Routing,
		&cfg.Scheduler,
		&cfg.Fault,
		&cfg.PacketIn,
		&cfg.Inventory,
	)
}

// Sample generates a sample config file for the controller.
func (cfg *Config) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteSample(dst, path, config.CtxMap{config.ID: idSample},
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.API,
		&cfg.Tracing,
		config.OverrideName(&cfg.RouteDB, "route_db"),
		&cfg.Topology,
		&cfg.Routing,
		&cfg.Scheduler,
		&cfg.Fault,
		&cfg.PacketIn,
		&cfg.Inventory,
	)
}

var _ config.Config = (*APIConfig)(nil)

// APIConfig is the admin API configuration.
type APIConfig struct {
	config.NoValidator
	// Addr is the listen address of the admin API. "off" disables it.
	Addr string `toml:"addr,omitempty"`
}

func (cfg *APIConfig) InitDefaults() {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAPIAddr
	}
}

// Enabled reports whether the API is served.
func (cfg *APIConfig) Enabled() bool {
	return cfg.Addr != "off"
}

func (cfg *APIConfig) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, apiSample)
}

func (cfg *APIConfig) ConfigName() string {
	return "api"
}

var _ config.Config = (*TopologyConfig)(nil)

// TopologyConfig configures the topology dispatcher.
type TopologyConfig struct {
	// Debounce is the quiet time after the last topology change before the
	// topology is considered initialized.
	Debounce util.DurWrap `toml:"debounce,omitempty"`
	// QueueSize is the capacity of the event queue.
	QueueSize int `toml:"queue_size,omitempty"`
}

func (cfg *TopologyConfig) InitDefaults() {
	cfg.Debounce.SetDefault(topology.DefaultDebounce)
	if cfg.QueueSize == 0 {
		cfg.QueueSize = topology.DefaultQueueSize
	}
}

func (cfg *TopologyConfig) Validate() error {
	if cfg.Debounce.Duration <= 0 {
		return serrors.New("debounce must be positive", "debounce", cfg.Debounce)
	}
	if cfg.QueueSize <= 0 {
		return serrors.New("queue_size must be positive", "queue_size", cfg.QueueSize)
	}
	return nil
}

func (cfg *TopologyConfig) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, topologySample)
}

func (cfg *TopologyConfig) ConfigName() string {
	return "topology"
}

var _ config.Config = (*RoutingConfig)(nil)

// RoutingConfig configures the route algorithms and the QoS table.
type RoutingConfig struct {
	// Unicast is the initially active unicast algorithm.
	Unicast string `toml:"unicast,omitempty"`
	// DefaultType is the service type of flows without a known type.
	DefaultType string `toml:"default_type,omitempty"`
	// Floors are the bandwidth floors in Mbit/s per service type.
	Floors map[string]float64 `toml:"floors,omitempty"`
	// PollInterval is the period of the port statistics poll.
	PollInterval util.DurWrap `toml:"poll_interval,omitempty"`
	// PrintInterval is the period of the link table debug print.
	PrintInterval util.DurWrap `toml:"print_interval,omitempty"`
}

func (cfg *RoutingConfig) InitDefaults() {
	if cfg.Unicast == "" {
		cfg.Unicast = dijkstra.Type
	}
	if cfg.DefaultType == "" {
		cfg.DefaultType = routing.TypeHTML
	}
	if len(cfg.Floors) == 0 {
		cfg.Floors = map[string]float64{
			routing.TypeVideo: 10,
			routing.TypeFTP:   5,
			routing.TypeHTML:  1,
		}
	}
	cfg.PollInterval.SetDefault(DefaultPollInterval)
	cfg.PrintInterval.SetDefault(DefaultPrintInterval)
}

func (cfg *RoutingConfig) Validate() error {
	if cfg.Unicast != dijkstra.Type && cfg.Unicast != genetic.Type {
		return serrors.New("unknown unicast algorithm", "unicast", cfg.Unicast)
	}
	if _, err := cfg.QoSTable(); err != nil {
		return err
	}
	if cfg.PollInterval.Duration <= 0 || cfg.PrintInterval.Duration <= 0 {
		return serrors.New("intervals must be positive",
			"poll_interval", cfg.PollInterval, "print_interval", cfg.PrintInterval)
	}
	return nil
}

// QoSTable returns the QoS table with the floors converted to bit/s.
func (cfg *RoutingConfig) QoSTable() (*routing.QoSTable, error) {
	floors := make(map[string]float64, len(cfg.Floors))
	for typ, mbps := range cfg.Floors {
		floors[typ] = mbps * 1e6
	}
	return routing.NewQoSTable(floors, cfg.DefaultType)
}

func (cfg *RoutingConfig) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, routingSample)
}

func (cfg *RoutingConfig) ConfigName() string {
	return "routing"
}

var _ config.Config = (*SchedulerConfig)(nil)

// SchedulerConfig configures the route task scheduler and the flow installer.
type SchedulerConfig struct {
	// Interval is the period of the drain loop.
	Interval util.DurWrap `toml:"interval,omitempty"`
	// Window is the time an admitted request suppresses duplicates.
	Window util.DurWrap `toml:"window,omitempty"`
	// QueueSize is the capacity of the request queue.
	QueueSize int `toml:"queue_size,omitempty"`
	// InstallTries is the number of flow installation attempts.
	InstallTries uint `toml:"install_tries,omitempty"`
}

func (cfg *SchedulerConfig) InitDefaults() {
	cfg.Interval.SetDefault(DefaultDrainInterval)
	cfg.Window.SetDefault(task.DefaultWindow)
	if cfg.QueueSize == 0 {
		cfg.QueueSize = task.DefaultQueueSize
	}
	if cfg.InstallTries == 0 {
		cfg.InstallTries = task.DefaultMaxTries
	}
}

func (cfg *SchedulerConfig) Validate() error {
	if cfg.Interval.Duration <= 0 {
		return serrors.New("interval must be positive", "interval", cfg.Interval)
	}
	if cfg.Window.Duration < 0 {
		return serrors.New("window must not be negative", "window", cfg.Window)
	}
	if cfg.QueueSize <= 0 {
		return serrors.New("queue_size must be positive", "queue_size", cfg.QueueSize)
	}
	return nil
}

func (cfg *SchedulerConfig) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, schedulerSample)
}

func (cfg *SchedulerConfig) ConfigName() string {
	return "scheduler"
}

var _ config.Config = (*FaultConfig)(nil)

// FaultConfig configures the fault recovery engine.
type FaultConfig struct {
	config.NoDefaulter
	// PreferSameSwitch selects replacement servers on the switch of the failed
	// server first.
	PreferSameSwitch bool `toml:"prefer_same_switch,omitempty"`
	// PortTypes overrides resolved port types, {"dpid,port" = "type"}.
	PortTypes map[string]string `toml:"port_types,omitempty"`
}

func (cfg *FaultConfig) Validate() error {
	_, err := fault.ParsePortTypes(cfg.PortTypes)
	return err
}

func (cfg *FaultConfig) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, faultSample)
}

func (cfg *FaultConfig) ConfigName() string {
	return "fault"
}

var _ config.Config = (*PacketInConfig)(nil)

// PacketInConfig configures the packet-in front-end.
type PacketInConfig struct {
	// Listen is the UDP address packet-in records are received on. If empty,
	// no listener is started.
	Listen string `toml:"listen,omitempty"`
	// Rate is the number of requests per second admitted per switch.
	Rate float64 `toml:"rate,omitempty"`
	// Burst is the token bucket size per switch.
	Burst int `toml:"burst,omitempty"`
	// HostCacheSize is the size of the host MAC cache.
	HostCacheSize int `toml:"host_cache_size,omitempty"`
}

func (cfg *PacketInConfig) InitDefaults() {
	if cfg.Rate == 0 {
		cfg.Rate = float64(packetin.DefaultRate)
	}
	if cfg.Burst == 0 {
		cfg.Burst = packetin.DefaultBurst
	}
	if cfg.HostCacheSize == 0 {
		cfg.HostCacheSize = DefaultHostCacheSize
	}
}

func (cfg *PacketInConfig) Validate() error {
	if cfg.Rate < 0 || cfg.Burst < 0 {
		return serrors.New("rate and burst must not be negative",
			"rate", cfg.Rate, "burst", cfg.Burst)
	}
	if cfg.HostCacheSize <= 0 {
		return serrors.New("host_cache_size must be positive",
			"host_cache_size", cfg.HostCacheSize)
	}
	return nil
}

func (cfg *PacketInConfig) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, packetInSample)
}

func (cfg *PacketInConfig) ConfigName() string {
	return "packet_in"
}
