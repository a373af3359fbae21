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

package launcher

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/private/xtest"
	"github.com/sdnroute/sdnroute/private/config"
	"github.com/sdnroute/sdnroute/private/env"
)

type testConfig struct {
	General env.General `toml:"general,omitempty"`
	Logging log.Config  `toml:"log,omitempty"`
}

func (cfg *testConfig) InitDefaults() {
	config.InitAll(&cfg.General, &cfg.Logging)
}

func (cfg *testConfig) Validate() error {
	return config.ValidateAll(&cfg.General, &cfg.Logging)
}

func (cfg *testConfig) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteSample(dst, path, ctx, &cfg.General, &cfg.Logging)
}

func (cfg *testConfig) ConfigName() string {
	return "test"
}

func TestSampleCommand(t *testing.T) {
	var cfg testConfig
	a := &Application{TOMLConfig: &cfg, ShortName: "Test Controller"}
	cmd := a.newCommand("controller", "Test Controller")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"sample"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "[general]")
	assert.Contains(t, out.String(), `id = "controller"`)
	assert.Contains(t, out.String(), "[log.console]")
}

func TestExecuteRunsMain(t *testing.T) {
	file := xtest.MustWriteFile(t, "controller.toml", []byte(`
[general]
id = "ctrl-1"

[log.console]
level = "debug"
`))
	var cfg testConfig
	var called bool
	a := &Application{
		TOMLConfig: &cfg,
		Main: func(ctx context.Context) error {
			called = true
			return nil
		},
	}
	cmd := a.newCommand("controller", "controller")
	cmd.SetArgs([]string{"--config", file})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.True(t, called)
	assert.Equal(t, "ctrl-1", cfg.General.ID)
	assert.Equal(t, "debug", cfg.Logging.Console.Level)
}

func TestLogLevelFlag(t *testing.T) {
	file := xtest.MustWriteFile(t, "controller.toml", []byte(`
[general]
id = "ctrl-1"

[log.console]
level = "info"
`))
	a := &Application{TOMLConfig: &testConfig{}}
	cmd := a.newCommand("controller", "controller")
	cmd.SetArgs([]string{"--config", file, "--log.level", "error"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "error", a.getLogging().Console.Level)
}

func TestExecuteRejectsInvalidConfig(t *testing.T) {
	file := xtest.MustWriteFile(t, "controller.toml", []byte(`
[general]
id = ""
`))
	var cfg testConfig
	a := &Application{
		TOMLConfig: &cfg,
		Main: func(ctx context.Context) error {
			t.Fatal("main must not run")
			return nil
		},
	}
	cmd := a.newCommand("controller", "controller")
	cmd.SetArgs([]string{"--config", file})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
