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

package addr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdnroute/sdnroute/pkg/addr"
)

func TestParseDPID(t *testing.T) {
	testCases := map[string]struct {
		in      string
		want    addr.DPID
		wantErr bool
	}{
		"hex":         {in: "0000000000000001", want: 1},
		"short hex":   {in: "1a", want: 0x1a},
		"0x prefix":   {in: "0x10", want: 16},
		"colons":      {in: "00:00:00:00:00:00:00:ff", want: 255},
		"decimal":     {in: "d:42", want: 42},
		"empty":       {in: "", wantErr: true},
		"too long":    {in: "00000000000000001", wantErr: true},
		"not hex":     {in: "zz", wantErr: true},
		"bad decimal": {in: "d:x", wantErr: true},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got, err := addr.ParseDPID(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDPIDText(t *testing.T) {
	d := addr.DPID(0xabc)
	assert.Equal(t, "0000000000000abc", d.String())
	var back addr.DPID
	raw, err := d.MarshalText()
	require.NoError(t, err)
	require.NoError(t, back.UnmarshalText(raw))
	assert.Equal(t, d, back)
}

func TestParsePortRef(t *testing.T) {
	r, err := addr.ParsePortRef("0000000000000002,3")
	require.NoError(t, err)
	assert.Equal(t, addr.PortRef{DPID: 2, Port: 3}, r)
	r, err = addr.ParsePortRef("5:1")
	require.NoError(t, err)
	assert.Equal(t, addr.PortRef{DPID: 5, Port: 1}, r)
	_, err = addr.ParsePortRef("nope")
	assert.Error(t, err)
	assert.True(t, addr.PortLocal.Reserved())
	assert.False(t, addr.PortNo(4).Reserved())
}

func TestPortRefText(t *testing.T) {
	var r addr.PortRef
	require.NoError(t, r.UnmarshalText([]byte("3,10")))
	assert.Equal(t, addr.PortRef{DPID: 3, Port: 10}, r)
	raw, err := r.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "0000000000000003:10", string(raw))
	assert.Error(t, r.UnmarshalText([]byte("3")))
}
