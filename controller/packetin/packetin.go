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


// Package packetin turns table-miss packets into route requests.
//
// Frames are decoded down to the transport layer. Broadcasts, non-IPv4
// traffic and frames between unknown hosts are dropped. Packets towards a
// multicast group become multicast requests, packets towards a cluster address
// become NAT requests to the server picked by the load balancer, all other
// packets become unicast requests.
package packetin

import (
	"bytes"
	"context"
	"net"
	"net/netip"
	"sync"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/time/rate"

	"github.com/sdnroute/sdnroute/controller/hosts"
	"github.com/sdnroute/sdnroute/controller/routeinfo"
	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/controller/task"
	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/metrics"
)

// Defaults of the per switch request limiter.
const (
	DefaultRate  rate.Limit = 100
	DefaultBurst            = 200
)

var broadcastIP = netip.AddrFrom4([4]byte{255, 255, 255, 255})

// PacketIn is a packet the switch sent to the controller.
type PacketIn struct {
	DPID   addr.DPID
	InPort addr.PortNo
	Data   []byte
}

// Result is what happened to a packet.
type Result string

const (
	ResultSubmitted      Result = "submitted"
	ResultCoalesced      Result = "coalesced"
	ResultMalformed      Result = "malformed"
	ResultBroadcast      Result = "broadcast"
	ResultNotIPv4        Result = "not_ipv4"
	ResultIGMP           Result = "igmp"
	ResultHostMissing    Result = "host_missing"
	ResultUnknownGroup   Result = "unknown_group"
	ResultNoServer       Result = "no_server"
	ResultNotInitialized Result = "not_initialized"
	ResultRateLimited    Result = "rate_limited"
)

// Router reports whether the route algorithms received a topology.
type Router interface {
	Initialized() bool
}

// Scheduler accepts route requests.
type Scheduler interface {
	Submit(ctx context.Context, e task.Entry) bool
}

// Metrics are the packet-in metrics.
type Metrics struct {
	// Packets counts packets, labeled by result.
	Packets metrics.Counter
}

// Config configures the handler.
type Config struct {
	Router    Router
	Scheduler Scheduler
	Hosts     *hosts.HostTable
	Servers   *hosts.Registry
	Balancer  *hosts.Balancer
	Gateways  *hosts.Gateways
	Groups    *Groups
	QoS       *routing.QoSTable
	// Rate and Burst bound the requests per source switch. Zero values use
	// the defaults.
	Rate    rate.Limit
	Burst   int
	Metrics Metrics
}

// Handler handles packet-in messages. It is safe for concurrent use.
type Handler struct {
	cfg      Config
	limiters *xsync.Map[addr.DPID, *rate.Limiter]
	decoders sync.Pool
}

// New creates a handler.
func New(cfg Config) *Handler {
	if cfg.QoS == nil {
		cfg.QoS = routing.DefaultQoSTable()
	}
	if cfg.Groups == nil {
		cfg.Groups = NewGroups()
	}
	if cfg.Rate == 0 {
		cfg.Rate = DefaultRate
	}
	if cfg.Burst == 0 {
		cfg.Burst = DefaultBurst
	}
	h := &Handler{
		cfg:      cfg,
		limiters: xsync.NewMap[addr.DPID, *rate.Limiter](),
	}
	h.decoders.New = func() any { return newDecoder() }
	return h
}

type decoder struct {
	eth     layers.Ethernet
	ip4     layers.IPv4
	tcp     layers.TCP
	udp     layers.UDP
	payload gopacket.Payload
	parser  *gopacket.DecodingLayerParser
	decoded []gopacket.LayerType
}

func newDecoder() *decoder {
	d := &decoder{}
	d.parser = gopacket.NewDecodingLayerParser(layers.LayerTypeEthernet,
		&d.eth, &d.ip4, &d.tcp, &d.udp, &d.payload,
	)
	d.parser.IgnoreUnsupported = true
	return d
}

// frame is the part of a decoded frame the handler needs.
type frame struct {
	srcMAC, dstMAC net.HardwareAddr
	src, dst       netip.Addr
	proto          layers.IPProtocol
	ipv4           bool
}

func (h *Handler) decode(data []byte) (frame, error) {
	d := h.decoders.Get().(*decoder)
	defer h.decoders.Put(d)
	d.decoded = d.decoded[:0]
	if err := d.parser.DecodeLayers(data, &d.decoded); err != nil {
		return frame{}, err
	}
	var f frame
	for _, t := range d.decoded {
		switch t {
		case layers.LayerTypeEthernet:
			f.srcMAC = append(net.HardwareAddr(nil), d.eth.SrcMAC...)
			f.dstMAC = append(net.HardwareAddr(nil), d.eth.DstMAC...)
		case layers.LayerTypeIPv4:
			f.ipv4 = true
			f.proto = d.ip4.Protocol
			f.src, _ = netip.AddrFromSlice(d.ip4.SrcIP.To4())
			f.dst, _ = netip.AddrFromSlice(d.ip4.DstIP.To4())
		}
	}
	return f, nil
}

// Handle turns the packet into a route request and submits it.
func (h *Handler) Handle(ctx context.Context, in PacketIn) Result {
	res := h.handle(ctx, in)
	metrics.CounterInc(metrics.CounterWith(h.cfg.Metrics.Packets, "result", string(res)))
	return res
}

func (h *Handler) handle(ctx context.Context, in PacketIn) Result {
	logger := log.FromCtx(ctx)
	f, err := h.decode(in.Data)
	if err != nil {
		logger.Debug("Dropping malformed packet", "dpid", in.DPID, "err", err)
		return ResultMalformed
	}
	if !f.ipv4 {
		return ResultNotIPv4
	}
	if f.proto == layers.IPProtocolIGMP {
		return ResultIGMP
	}
	if bytes.Equal(f.dstMAC, layers.EthernetBroadcast) || f.dst == broadcastIP {
		return ResultBroadcast
	}

	src, ok := h.cfg.Hosts.Lookup(f.src)
	if !ok {
		logger.Debug("Host missing", "side", "src", "ip", f.src, "mac", f.srcMAC)
		return ResultHostMissing
	}
	srcEP := routeinfo.Endpoint{IP: src.IP, MAC: src.MAC, Attachment: src.Attachment}

	if IsMulticast(f.dst) {
		members := h.cfg.Groups.Members(f.dst)
		if len(members) == 0 {
			logger.Info("No member in group", "group", f.dst)
			return ResultUnknownGroup
		}
		if !h.cfg.Router.Initialized() {
			return ResultNotInitialized
		}
		return h.submit(ctx, in, task.Entry{
			Kind:    routeinfo.KindMulticast,
			Src:     srcEP,
			Virtual: f.dst,
			Members: members,
			Service: routing.TypeVideo,
		})
	}

	if typ, ok := h.cfg.Servers.ClusterType(f.dst); ok {
		return h.handleCluster(ctx, in, f, srcEP, typ)
	}

	dst, ok := h.cfg.Hosts.Lookup(f.dst)
	if !ok {
		logger.Debug("Host missing", "side", "dst", "ip", f.dst, "mac", f.dstMAC)
		return ResultHostMissing
	}
	service := h.cfg.QoS.Default().Type
	if s, ok := h.cfg.Servers.ByIP(f.dst); ok && h.cfg.QoS.Known(s.Type) {
		service = s.Type
	} else if !h.isGateway(f.dst) {
		logger.Error("Server type unset, using default", "server", f.dst, "type", service)
	}
	if !h.cfg.Router.Initialized() {
		return ResultNotInitialized
	}
	return h.submit(ctx, in, task.Entry{
		Kind:    routeinfo.KindUnicast,
		Src:     srcEP,
		Dst:     routeinfo.Endpoint{IP: dst.IP, MAC: dst.MAC, Attachment: dst.Attachment},
		Service: service,
	})
}

func (h *Handler) handleCluster(ctx context.Context, in PacketIn, f frame,
	src routeinfo.Endpoint, typ string) Result {

	if !h.cfg.Router.Initialized() {
		return ResultNotInitialized
	}
	if !h.limiter(in.DPID).Allow() {
		return ResultRateLimited
	}
	server, err := h.cfg.Balancer.Pick(f.dst)
	if err != nil {
		log.FromCtx(ctx).Info("No server for cluster", "cluster", f.dst, "err", err)
		return ResultNoServer
	}
	gateway := f.dstMAC
	if mac, ok := h.gatewayMAC(f.dst); ok {
		gateway = mac
	}
	e := task.Entry{
		Kind:    routeinfo.KindNAT,
		Src:     src,
		Dst:     routeinfo.Endpoint{IP: server.IP, MAC: server.MAC, Attachment: server.Attachment},
		Virtual: f.dst,
		Gateway: gateway,
		Service: typ,
	}
	if !h.cfg.Scheduler.Submit(ctx, e) {
		h.cfg.Balancer.Release(server.IP)
		return ResultCoalesced
	}
	return ResultSubmitted
}

func (h *Handler) submit(ctx context.Context, in PacketIn, e task.Entry) Result {
	if !h.limiter(in.DPID).Allow() {
		return ResultRateLimited
	}
	if !h.cfg.Scheduler.Submit(ctx, e) {
		return ResultCoalesced
	}
	return ResultSubmitted
}

func (h *Handler) limiter(dpid addr.DPID) *rate.Limiter {
	if l, ok := h.limiters.Load(dpid); ok {
		return l
	}
	l, _ := h.limiters.LoadOrStore(dpid, rate.NewLimiter(h.cfg.Rate, h.cfg.Burst))
	return l
}

func (h *Handler) isGateway(ip netip.Addr) bool {
	return h.cfg.Gateways != nil && h.cfg.Gateways.Contains(ip)
}

func (h *Handler) gatewayMAC(ip netip.Addr) (net.HardwareAddr, bool) {
	if h.cfg.Gateways == nil {
		return nil, false
	}
	return h.cfg.Gateways.MAC(ip)
}
