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

package util_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdnroute/sdnroute/pkg/private/util"
)

func TestParseDuration(t *testing.T) {
	testCases := map[string]struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		"seconds":      {in: "50s", want: 50 * time.Second},
		"milliseconds": {in: "500ms", want: 500 * time.Millisecond},
		"days":         {in: "1d", want: 24 * time.Hour},
		"composite":    {in: "1m30s", want: 90 * time.Second},
		"empty":        {in: "", wantErr: true},
		"no number":    {in: "s", wantErr: true},
		"bad unit":     {in: "3x", wantErr: true},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			d, err := util.ParseDuration(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, d)
		})
	}
}

func TestFmtDurationRoundTrip(t *testing.T) {
	for _, d := range []time.Duration{0, time.Second, 300 * time.Second, 1800 * time.Second,
		5 * time.Millisecond, 36 * time.Hour} {
		parsed, err := util.ParseDuration(util.FmtDuration(d))
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
}
