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


package env_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdnroute/sdnroute/private/env"
)

func TestGeneralValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	testCases := map[string]struct {
		cfg       env.General
		assertErr assert.ErrorAssertionFunc
	}{
		"valid":            {cfg: env.General{ID: "ctrl-1", ConfigDir: dir}, assertErr: assert.NoError},
		"no config dir":    {cfg: env.General{ID: "ctrl-1"}, assertErr: assert.NoError},
		"missing id":       {cfg: env.General{ConfigDir: dir}, assertErr: assert.Error},
		"missing dir":      {cfg: env.General{ID: "x", ConfigDir: filepath.Join(dir, "nope")}, assertErr: assert.Error},
		"dir is not a dir": {cfg: env.General{ID: "x", ConfigDir: file}, assertErr: assert.Error},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			tc.assertErr(t, tc.cfg.Validate())
		})
	}
}

func TestLinkAttributes(t *testing.T) {
	cfg := env.General{ConfigDir: "/etc/sdnroute"}
	assert.Equal(t, "/etc/sdnroute/topology.yml", cfg.LinkAttributes())
}

func TestTracingDefaults(t *testing.T) {
	var cfg env.Tracing
	cfg.InitDefaults()
	assert.Equal(t, "localhost:6831", cfg.Agent)

	tracer, closer, err := cfg.NewTracer("ctrl-1")
	require.NoError(t, err)
	assert.NotNil(t, tracer)
	assert.NoError(t, closer.Close())
}

func TestServePrometheusDisabled(t *testing.T) {
	var cfg env.Metrics
	assert.NoError(t, cfg.ServePrometheus(context.Background()))
}
