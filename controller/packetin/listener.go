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


package packetin

import (
	"context"
	"encoding/binary"
	"errors"
	"net"

	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

// recordHeaderLen is the length of the packet-in record header: the datapath
// ID (8 bytes) and the ingress port (4 bytes), both big endian.
const recordHeaderLen = 12

// maxRecordLen bounds a record: the header plus a jumbo frame.
const maxRecordLen = recordHeaderLen + 9216

// EncodeRecord encodes a packet-in as a datagram record.
func EncodeRecord(in PacketIn) []byte {
	b := make([]byte, recordHeaderLen+len(in.Data))
	binary.BigEndian.PutUint64(b, uint64(in.DPID))
	binary.BigEndian.PutUint32(b[8:], uint32(in.InPort))
	copy(b[recordHeaderLen:], in.Data)
	return b
}

// DecodeRecord decodes a datagram record. The frame aliases b.
func DecodeRecord(b []byte) (PacketIn, error) {
	if len(b) < recordHeaderLen {
		return PacketIn{}, serrors.New("record too short", "len", len(b))
	}
	return PacketIn{
		DPID:   addr.DPID(binary.BigEndian.Uint64(b)),
		InPort: addr.PortNo(binary.BigEndian.Uint32(b[8:])),
		Data:   b[recordHeaderLen:],
	}, nil
}

// PacketHandler handles decoded packet-ins.
type PacketHandler interface {
	Handle(ctx context.Context, in PacketIn) Result
}

// Listener reads packet-in records from a datagram socket. The switch agent
// forwards one record per packet-in message.
type Listener struct {
	Conn    net.PacketConn
	Handler PacketHandler
}

// Run reads records until ctx is done or the connection fails. It closes the
// connection on return.
func (l *Listener) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		defer log.HandlePanic()
		<-ctx.Done()
		l.Conn.Close()
	}()
	logger := log.FromCtx(ctx)
	buf := make([]byte, maxRecordLen)
	for {
		n, from, err := l.Conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return serrors.Wrap("reading packet-in record", err)
		}
		in, err := DecodeRecord(buf[:n])
		if err != nil {
			logger.Debug("Dropping malformed record", "from", from, "err", err)
			continue
		}
		// The handler does not retain the frame.
		l.Handler.Handle(ctx, in)
	}
}
