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

// Package addr contains the identifiers of switches and switch ports.
package addr

import (
	"encoding"
	"fmt"
	"strconv"
	"strings"

	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

var (
	_ encoding.TextMarshaler   = DPID(0)
	_ encoding.TextUnmarshaler = (*DPID)(nil)
)

// DPID is the datapath identifier of a switch.
type DPID uint64

// ParseDPID parses a DPID. Both the 16 digit hex form (optionally with a 0x
// prefix or colon separators) and decimal numbers prefixed with "d:" are
// accepted.
func ParseDPID(s string) (DPID, error) {
	if dec, ok := strings.CutPrefix(s, "d:"); ok {
		v, err := strconv.ParseUint(dec, 10, 64)
		if err != nil {
			return 0, serrors.Wrap("parsing decimal DPID", err, "value", s)
		}
		return DPID(v), nil
	}
	h := strings.TrimPrefix(strings.ReplaceAll(s, ":", ""), "0x")
	if len(h) == 0 || len(h) > 16 {
		return 0, serrors.New("invalid DPID length", "value", s)
	}
	v, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return 0, serrors.Wrap("parsing DPID", err, "value", s)
	}
	return DPID(v), nil
}

// String returns the 16 digit hex representation.
func (d DPID) String() string {
	return fmt.Sprintf("%016x", uint64(d))
}

func (d DPID) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DPID) UnmarshalText(text []byte) error {
	v, err := ParseDPID(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// PortNo is a switch port number.
type PortNo uint32

const (
	// PortMax is the highest physical port number. Higher numbers are
	// reserved (in_port, flood, controller, local...).
	PortMax PortNo = 0xffffff00
	// PortLocal is the switch local port.
	PortLocal PortNo = 0xfffffffe
)

// Reserved reports whether p is a reserved port number.
func (p PortNo) Reserved() bool {
	return p > PortMax
}

// PortRef identifies a port on a switch.
type PortRef struct {
	DPID DPID
	Port PortNo
}

func (r PortRef) String() string {
	return fmt.Sprintf("%s:%d", r.DPID, r.Port)
}

// ParsePortRef parses "<dpid>,<port>" or "<dpid>:<port>".
func ParsePortRef(s string) (PortRef, error) {
	sep := strings.LastIndex(s, ",")
	if sep < 0 {
		sep = strings.LastIndex(s, ":")
	}
	if sep <= 0 {
		return PortRef{}, serrors.New("invalid port reference", "value", s)
	}
	d, err := ParseDPID(strings.TrimSpace(s[:sep]))
	if err != nil {
		return PortRef{}, err
	}
	p, err := strconv.ParseUint(strings.TrimSpace(s[sep+1:]), 10, 32)
	if err != nil {
		return PortRef{}, serrors.Wrap("parsing port number", err, "value", s)
	}
	return PortRef{DPID: d, Port: PortNo(p)}, nil
}

func (r PortRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *PortRef) UnmarshalText(text []byte) error {
	v, err := ParsePortRef(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
