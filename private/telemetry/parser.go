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

package telemetry

import (
	"sync"
	"time"

	"github.com/sdnroute/sdnroute/pkg/addr"
)

// PortRate is the rate between two successive counter readings of one port.
type PortRate struct {
	Ref addr.PortRef
	// Bits is the transmitted and received rate in bit/s.
	Bits float64
	// ErrorRate is the share of erroneous packets in percent.
	ErrorRate float64
	Time      time.Time
}

// Parser computes port rates from successive cumulative counters. The first
// reading of a port only primes the parser.
type Parser struct {
	mtx  sync.Mutex
	last map[addr.PortRef]PortStats
}

// NewParser creates a parser without history.
func NewParser() *Parser {
	return &Parser{last: make(map[addr.PortRef]PortStats)}
}

// Feed records the reading and returns the rate since the previous one. ok is
// false for the first reading of a port, when time did not advance, or when
// the counters were reset.
func (p *Parser) Feed(s PortStats) (PortRate, bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	prev, ok := p.last[s.Ref()]
	p.last[s.Ref()] = s
	if !ok {
		return PortRate{}, false
	}
	dt := s.Time.Sub(prev.Time).Seconds()
	if dt <= 0 {
		return PortRate{}, false
	}
	bytes, ok1 := delta(prev.RxBytes+prev.TxBytes, s.RxBytes+s.TxBytes)
	packets, ok2 := delta(prev.RxPackets+prev.TxPackets, s.RxPackets+s.TxPackets)
	errs, ok3 := delta(prev.RxErrors+prev.TxErrors, s.RxErrors+s.TxErrors)
	if !ok1 || !ok2 || !ok3 {
		return PortRate{}, false
	}
	r := PortRate{Ref: s.Ref(), Bits: float64(bytes) / dt * 8, Time: s.Time}
	if packets > 0 {
		r.ErrorRate = float64(errs) / float64(packets) * 100
	}
	return r, true
}

// Forget drops the history of the port.
func (p *Parser) Forget(ref addr.PortRef) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	delete(p.last, ref)
}

func delta(prev, cur uint64) (uint64, bool) {
	if cur < prev {
		return 0, false
	}
	return cur - prev, true
}
