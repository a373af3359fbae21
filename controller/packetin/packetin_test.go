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


package packetin_test

import (
	"context"
	"net"
	"net/netip"
	"testing"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdnroute/sdnroute/controller/hosts"
	"github.com/sdnroute/sdnroute/controller/packetin"
	"github.com/sdnroute/sdnroute/controller/routeinfo"
	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/controller/task"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/log/testlog"
	"github.com/sdnroute/sdnroute/pkg/metrics"
)

var (
	userIP    = netip.MustParseAddr("10.0.0.100")
	serverIP  = netip.MustParseAddr("10.0.0.1")
	clusterIP = netip.MustParseAddr("10.0.0.201")
	groupIP   = netip.MustParseAddr("224.1.1.1")

	userMAC    = net.HardwareAddr{0, 0, 0, 0, 1, 0}
	serverMAC  = net.HardwareAddr{0, 0, 0, 0, 0, 1}
	gatewayMAC = net.HardwareAddr{0, 0, 0, 0, 2, 1}
)

type initialized bool

func (i initialized) Initialized() bool { return bool(i) }

// recorder accepts the first submission of every key.
type recorder struct {
	entries []task.Entry
	seen    map[routeinfo.RequestKey]bool
}

func (r *recorder) Submit(_ context.Context, e task.Entry) bool {
	if r.seen == nil {
		r.seen = make(map[routeinfo.RequestKey]bool)
	}
	if r.seen[e.Key()] {
		return false
	}
	r.seen[e.Key()] = true
	r.entries = append(r.entries, e)
	return true
}

type env struct {
	handler   *packetin.Handler
	scheduler *recorder
	servers   *hosts.Registry
	groups    *packetin.Groups
	balancer  *hosts.Balancer
	packets   *metrics.TestCounter
}

func newEnv(t *testing.T, ready bool, mods ...func(*packetin.Config)) env {
	table, err := hosts.NewHostTable(16)
	require.NoError(t, err)
	table.Learn(hosts.Host{IP: userIP, MAC: userMAC, Attachment: addr.PortRef{DPID: 1, Port: 10}})
	table.Learn(hosts.Host{IP: serverIP, MAC: serverMAC,
		Attachment: addr.PortRef{DPID: 3, Port: 10}})
	servers := hosts.NewRegistry()
	gateways, err := hosts.NewGateways(map[netip.Addr]net.HardwareAddr{clusterIP: gatewayMAC})
	require.NoError(t, err)

	e := env{
		scheduler: &recorder{},
		servers:   servers,
		groups:    packetin.NewGroups(),
		balancer:  hosts.NewBalancer(servers),
		packets:   metrics.NewTestCounter(),
	}
	cfg := packetin.Config{
		Router:    initialized(ready),
		Scheduler: e.scheduler,
		Hosts:     table,
		Servers:   servers,
		Balancer:  e.balancer,
		Gateways:  gateways,
		Groups:    e.groups,
		Metrics:   packetin.Metrics{Packets: e.packets},
	}
	for _, mod := range mods {
		mod(&cfg)
	}
	e.handler = packetin.New(cfg)
	return e
}

func tcpFrame(t *testing.T, srcMAC, dstMAC net.HardwareAddr, src, dst netip.Addr) []byte {
	eth := &layers.Ethernet{SrcMAC: srcMAC, DstMAC: dstMAC, EthernetType: layers.EthernetTypeIPv4}
	ip := &layers.IPv4{Version: 4, IHL: 5, TTL: 64, Protocol: layers.IPProtocolTCP,
		SrcIP: src.AsSlice(), DstIP: dst.AsSlice()}
	tcp := &layers.TCP{SrcPort: 40000, DstPort: 80, SYN: true}
	require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, eth, ip, tcp))
	return buf.Bytes()
}

func in(data []byte) packetin.PacketIn {
	return packetin.PacketIn{DPID: 1, InPort: 10, Data: data}
}

func TestHandleUnicast(t *testing.T) {
	ctx := testlog.Context(t)
	e := newEnv(t, true)
	e.servers.InitServer(hosts.Server{IP: serverIP, MAC: serverMAC,
		Attachment: addr.PortRef{DPID: 3, Port: 10}, Type: routing.TypeFTP,
		Status: hosts.StatusUp})

	frame := tcpFrame(t, userMAC, serverMAC, userIP, serverIP)
	assert.Equal(t, packetin.ResultSubmitted, e.handler.Handle(ctx, in(frame)))
	assert.Equal(t, packetin.ResultCoalesced, e.handler.Handle(ctx, in(frame)))

	require.Len(t, e.scheduler.entries, 1)
	got := e.scheduler.entries[0]
	assert.Equal(t, routeinfo.KindUnicast, got.Kind)
	assert.Equal(t, routing.TypeFTP, got.Service)
	assert.Equal(t, addr.PortRef{DPID: 1, Port: 10}, got.Src.Attachment)
	assert.Equal(t, addr.PortRef{DPID: 3, Port: 10}, got.Dst.Attachment)
	assert.Equal(t, serverMAC, got.Dst.MAC)
	assert.Equal(t, float64(1),
		metrics.CounterValue(e.packets.With("result", string(packetin.ResultSubmitted))))
}

func TestHandleUnicastDefaultType(t *testing.T) {
	ctx := testlog.Context(t)
	e := newEnv(t, true)
	frame := tcpFrame(t, userMAC, serverMAC, userIP, serverIP)
	require.Equal(t, packetin.ResultSubmitted, e.handler.Handle(ctx, in(frame)))
	assert.Equal(t, routing.TypeHTML, e.scheduler.entries[0].Service)
}

func TestHandleDropped(t *testing.T) {
	ctx := testlog.Context(t)
	unknown := netip.MustParseAddr("10.0.0.99")
	arp := func() []byte {
		eth := &layers.Ethernet{SrcMAC: userMAC, DstMAC: layers.EthernetBroadcast,
			EthernetType: layers.EthernetTypeARP}
		a := &layers.ARP{AddrType: layers.LinkTypeEthernet, Protocol: layers.EthernetTypeIPv4,
			HwAddressSize: 6, ProtAddressSize: 4, Operation: layers.ARPRequest,
			SourceHwAddress: userMAC, SourceProtAddress: userIP.AsSlice(),
			DstHwAddress: make([]byte, 6), DstProtAddress: serverIP.AsSlice()}
		buf := gopacket.NewSerializeBuffer()
		require.NoError(t, gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, eth, a))
		return buf.Bytes()
	}
	testCases := map[string]struct {
		Data []byte
		Want packetin.Result
	}{
		"malformed": {[]byte{1, 2, 3}, packetin.ResultMalformed},
		"arp":       {arp(), packetin.ResultNotIPv4},
		"broadcast mac": {tcpFrame(t, userMAC, layers.EthernetBroadcast, userIP, serverIP),
			packetin.ResultBroadcast},
		"broadcast ip": {tcpFrame(t, userMAC, serverMAC, userIP,
			netip.MustParseAddr("255.255.255.255")), packetin.ResultBroadcast},
		"unknown source": {tcpFrame(t, userMAC, serverMAC, unknown, serverIP),
			packetin.ResultHostMissing},
		"unknown destination": {tcpFrame(t, userMAC, serverMAC, userIP, unknown),
			packetin.ResultHostMissing},
		"unknown group": {tcpFrame(t, userMAC, serverMAC, userIP, groupIP),
			packetin.ResultUnknownGroup},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			e := newEnv(t, true)
			assert.Equal(t, tc.Want, e.handler.Handle(ctx, in(tc.Data)))
			assert.Empty(t, e.scheduler.entries)
		})
	}
}

func TestHandleNotInitialized(t *testing.T) {
	ctx := testlog.Context(t)
	e := newEnv(t, false)
	frame := tcpFrame(t, userMAC, serverMAC, userIP, serverIP)
	assert.Equal(t, packetin.ResultNotInitialized, e.handler.Handle(ctx, in(frame)))
	assert.Empty(t, e.scheduler.entries)
}

func TestHandleMulticast(t *testing.T) {
	ctx := testlog.Context(t)
	e := newEnv(t, true)
	member := routeinfo.Endpoint{IP: netip.MustParseAddr("10.0.0.2"),
		Attachment: addr.PortRef{DPID: 2, Port: 10}}
	require.NoError(t, e.groups.Join(groupIP, member))

	frame := tcpFrame(t, userMAC, net.HardwareAddr{1, 0, 0x5e, 1, 1, 1}, userIP, groupIP)
	require.Equal(t, packetin.ResultSubmitted, e.handler.Handle(ctx, in(frame)))
	got := e.scheduler.entries[0]
	assert.Equal(t, routeinfo.KindMulticast, got.Kind)
	assert.Equal(t, groupIP, got.Virtual)
	assert.Equal(t, []routeinfo.Endpoint{member}, got.Members)
	assert.Equal(t, routeinfo.RequestKey{Src: userIP, Dst: groupIP}, got.Key())
}

func TestHandleCluster(t *testing.T) {
	ctx := testlog.Context(t)
	e := newEnv(t, true)
	e.servers.AddCluster(clusterIP, routing.TypeVideo)
	e.servers.InitServer(hosts.Server{IP: serverIP, MAC: serverMAC,
		Attachment: addr.PortRef{DPID: 3, Port: 10}, Cluster: clusterIP,
		Type: routing.TypeVideo, Status: hosts.StatusUp})

	frame := tcpFrame(t, userMAC, net.HardwareAddr{0, 0, 0, 0, 9, 9}, userIP, clusterIP)
	require.Equal(t, packetin.ResultSubmitted, e.handler.Handle(ctx, in(frame)))
	got := e.scheduler.entries[0]
	assert.Equal(t, routeinfo.KindNAT, got.Kind)
	assert.Equal(t, clusterIP, got.Virtual)
	assert.Equal(t, serverIP, got.Dst.IP)
	assert.Equal(t, gatewayMAC, got.Gateway)
	assert.Equal(t, routing.TypeVideo, got.Service)
	assert.Equal(t, 1, e.balancer.Connections(serverIP))

	// A coalesced request releases its connection.
	assert.Equal(t, packetin.ResultCoalesced, e.handler.Handle(ctx, in(frame)))
	assert.Equal(t, 1, e.balancer.Connections(serverIP))

	_, err := e.servers.UpdateStatus(serverIP, hosts.StatusDown)
	require.NoError(t, err)
	assert.Equal(t, packetin.ResultNoServer, e.handler.Handle(ctx, in(frame)))
}

func TestHandleRateLimited(t *testing.T) {
	ctx := testlog.Context(t)
	e := newEnv(t, true, func(cfg *packetin.Config) {
		cfg.Rate = 1e-6
		cfg.Burst = 1
	})
	frame := tcpFrame(t, userMAC, serverMAC, userIP, serverIP)
	assert.Equal(t, packetin.ResultSubmitted, e.handler.Handle(ctx, in(frame)))
	assert.Equal(t, packetin.ResultRateLimited, e.handler.Handle(ctx, in(frame)))

	// Switches are limited independently.
	other := in(frame)
	other.DPID = 2
	assert.Equal(t, packetin.ResultCoalesced, e.handler.Handle(ctx, other))
}

func TestGroups(t *testing.T) {
	g := packetin.NewGroups()
	a := routeinfo.Endpoint{IP: netip.MustParseAddr("10.0.0.2")}
	b := routeinfo.Endpoint{IP: netip.MustParseAddr("10.0.0.3")}
	assert.Error(t, g.Join(serverIP, a), "unicast group address")
	require.NoError(t, g.Join(groupIP, a))
	require.NoError(t, g.Join(groupIP, b))
	require.NoError(t, g.Join(groupIP, a))
	assert.Equal(t, []routeinfo.Endpoint{b, a}, g.Members(groupIP))
	assert.Equal(t, []netip.Addr{groupIP}, g.Groups())
	g.Leave(groupIP, a.IP)
	g.Leave(groupIP, b.IP)
	assert.Empty(t, g.Groups())
	assert.True(t, packetin.IsMulticast(netip.MustParseAddr("239.255.255.250")))
	assert.False(t, packetin.IsMulticast(netip.MustParseAddr("240.0.0.1")))
}
