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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdnroute/sdnroute/controller/packetin"
)

type handlerFunc func(context.Context, packetin.PacketIn) packetin.Result

func (f handlerFunc) Handle(ctx context.Context, in packetin.PacketIn) packetin.Result {
	return f(ctx, in)
}

func TestRecord(t *testing.T) {
	in := packetin.PacketIn{DPID: 0x0102030405060708, InPort: 10, Data: []byte{1, 2, 3}}
	raw := packetin.EncodeRecord(in)
	assert.Len(t, raw, 15)
	back, err := packetin.DecodeRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, in, back)

	_, err = packetin.DecodeRecord(raw[:11])
	assert.Error(t, err)
}

func TestListener(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	got := make(chan packetin.PacketIn, 1)
	l := &packetin.Listener{
		Conn: conn,
		Handler: handlerFunc(func(_ context.Context, in packetin.PacketIn) packetin.Result {
			in.Data = append([]byte(nil), in.Data...)
			got <- in
			return packetin.ResultSubmitted
		}),
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	client, err := net.Dial("udp", conn.LocalAddr().String())
	require.NoError(t, err)
	defer client.Close()
	// A short datagram is dropped, the listener keeps going.
	_, err = client.Write([]byte{1})
	require.NoError(t, err)
	want := packetin.PacketIn{DPID: 3, InPort: 7, Data: []byte("frame")}
	_, err = client.Write(packetin.EncodeRecord(want))
	require.NoError(t, err)

	select {
	case in := <-got:
		assert.Equal(t, want, in)
	case <-time.After(time.Second):
		t.Fatal("no packet-in handled")
	}
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}
}
