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


// Package mgmtapi implements the admin HTTP API of the controller.
package mgmtapi

import (
	"context"
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"net/netip"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sdnroute/sdnroute/controller/hosts"
	"github.com/sdnroute/sdnroute/controller/routing"
	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
	"github.com/sdnroute/sdnroute/private/telemetry"
	"github.com/sdnroute/sdnroute/private/topology"
)

// maxBody bounds request bodies.
const maxBody = 1 << 20

// Algorithms is the route algorithm holder.
type Algorithms interface {
	Types() []string
	Params() (string, map[string]float64)
	UpdateParams(typ string, update map[string]float64) error
	SetUnicastType(typ string) error
}

// PortTypes accepts admin port type overrides.
type PortTypes interface {
	InitPortTypes(raw map[string]string) error
}

// EventSink accepts topology events.
type EventSink interface {
	Submit(ctx context.Context, e topology.Event) error
}

// StatsSink accepts pushed port counters.
type StatsSink interface {
	Push(stats ...telemetry.PortStats)
}

// Server implements the admin API.
type Server struct {
	Servers    *hosts.Registry
	QoS        *routing.QoSTable
	Algorithms Algorithms
	PortTypes  PortTypes
	Topology   *topology.Store
	Events     EventSink
	// Stats is optional. Without it port counters are rejected.
	Stats StatsSink
	// Now defaults to time.Now.
	Now func() time.Time
}

// Handler returns the routes of the API. The caller mounts them under the
// API prefix.
func Handler(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Route("/routemanage", func(r chi.Router) {
		r.Get("/server", s.GetServers)
		r.Post("/server", s.SetServerTypes)
		r.Get("/algorithm", s.GetAlgorithm)
		r.Post("/algorithm", s.SetAlgorithmParams)
		r.Post("/algorithm/type", s.SetAlgorithmType)
	})
	r.Post("/faultrecovery/porttype", s.SetPortTypes)
	r.Route("/topologymanage", func(r chi.Router) {
		r.Get("/switch", s.GetSwitches)
		r.Get("/switch/{dpid}", s.GetSwitch)
		r.Get("/link", s.GetLinks)
		r.Get("/link/src/{src}/dst/{dst}", s.GetLink)
		r.Post("/link/src/{src}/dst/{dst}", s.AddVirtualLink)
		r.Delete("/link/src/{src}/dst/{dst}", s.DeleteVirtualLink)
		r.Post("/events", s.SubmitEvent)
		r.Post("/portstats", s.PushPortStats)
	})
	return r
}

// Message is the body of status and error responses.
type Message struct {
	Msg string `json:"msg"`
}

// Algorithm is the active unicast algorithm with its parameters.
type Algorithm struct {
	AlgorithmType string             `json:"algorithm_type"`
	Params        map[string]float64 `json:"params,omitempty"`
	Available     []string           `json:"available,omitempty"`
}

// GetServers returns the business type of every server.
func (s *Server) GetServers(w http.ResponseWriter, r *http.Request) {
	res := make(map[string]string)
	for _, srv := range s.Servers.Servers() {
		res[srv.IP.String()] = srv.Type
	}
	writeJSON(w, http.StatusOK, res)
}

// SetServerTypes binds servers to business types. The body maps server IPs to
// types. Either every binding is applied or none.
func (s *Server) SetServerTypes(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if !decode(w, r, &req) {
		return
	}
	bindings := make(map[netip.Addr]string, len(req))
	for ip, typ := range req {
		addr, err := netip.ParseAddr(ip)
		if err != nil {
			badRequest(w, "invalid server IP: "+ip)
			return
		}
		if !s.QoS.Known(typ) {
			badRequest(w, "unknown business type: "+typ)
			return
		}
		if _, ok := s.Servers.ByIP(addr); !ok {
			badRequest(w, "unknown server: "+ip)
			return
		}
		bindings[addr] = typ
	}
	for _, ip := range slices.SortedFunc(maps.Keys(bindings), netip.Addr.Compare) {
		if err := s.Servers.SetBusinessType(ip, bindings[ip]); err != nil {
			internalError(w, r, err)
			return
		}
	}
	log.FromCtx(r.Context()).Info("Updated business types", "servers", len(bindings))
	writeOK(w)
}

// GetAlgorithm returns the active unicast algorithm.
func (s *Server) GetAlgorithm(w http.ResponseWriter, r *http.Request) {
	typ, params := s.Algorithms.Params()
	writeJSON(w, http.StatusOK, Algorithm{
		AlgorithmType: typ,
		Params:        params,
		Available:     s.Algorithms.Types(),
	})
}

// SetAlgorithmParams updates parameters of the active algorithm. Unknown or
// out of range parameters reject the whole update.
func (s *Server) SetAlgorithmParams(w http.ResponseWriter, r *http.Request) {
	var req Algorithm
	if !decode(w, r, &req) {
		return
	}
	if len(req.Params) == 0 {
		badRequest(w, "no parameters")
		return
	}
	if req.AlgorithmType == "" {
		req.AlgorithmType, _ = s.Algorithms.Params()
	}
	if err := s.Algorithms.UpdateParams(req.AlgorithmType, req.Params); err != nil {
		badRequest(w, err.Error())
		return
	}
	writeOK(w)
}

// SetAlgorithmType swaps the active unicast algorithm.
func (s *Server) SetAlgorithmType(w http.ResponseWriter, r *http.Request) {
	var req Algorithm
	if !decode(w, r, &req) {
		return
	}
	if err := s.Algorithms.SetUnicastType(req.AlgorithmType); err != nil {
		badRequest(w, err.Error())
		return
	}
	log.FromCtx(r.Context()).Info("Switched unicast algorithm", "type", req.AlgorithmType)
	writeOK(w)
}

// SetPortTypes overrides port types. The body maps "dpid,port" to a port type
// number or name.
func (s *Server) SetPortTypes(w http.ResponseWriter, r *http.Request) {
	var req map[string]json.RawMessage
	if !decode(w, r, &req) {
		return
	}
	raw := make(map[string]string, len(req))
	for k, v := range req {
		var str string
		if err := json.Unmarshal(v, &str); err == nil {
			raw[k] = str
			continue
		}
		var n json.Number
		if err := json.Unmarshal(v, &n); err != nil {
			badRequest(w, "invalid port type for "+k)
			return
		}
		raw[k] = n.String()
	}
	if err := s.PortTypes.InitPortTypes(raw); err != nil {
		badRequest(w, err.Error())
		return
	}
	writeOK(w)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		badRequest(w, "reading body: "+err.Error())
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		badRequest(w, "malformed payload: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	// no point in catching error here, there is nothing we can do about it anymore.
	_ = enc.Encode(v)
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, Message{Msg: "ok"})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, Message{Msg: msg})
}

func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, Message{Msg: msg})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	log.FromCtx(r.Context()).Error("Admin request failed", "path", r.URL.Path, "err", err)
	writeJSON(w, http.StatusInternalServerError, Message{Msg: err.Error()})
}

var errNoSwitch = serrors.New("unknown switch")
