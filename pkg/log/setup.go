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

package log

import (
	"io"
	"os"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sdnroute/sdnroute/pkg/private/serrors"
	"github.com/sdnroute/sdnroute/private/config"
)

const (
	// DefaultConsoleLevel is the default log level for the console.
	DefaultConsoleLevel = "info"
	// DefaultStacktraceLevel is the default log level for which stack traces
	// are included.
	DefaultStacktraceLevel = "none"
)

// Config is the configuration for the logger.
type Config struct {
	// Console is the configuration for the console logging.
	Console ConsoleConfig `toml:"console,omitempty"`
}

// ConsoleConfig is the config for the console logger.
type ConsoleConfig struct {
	// Level of console logging (defaults to DefaultConsoleLevel).
	Level string `toml:"level,omitempty"`
	// Format of the console logging. (human|json)
	Format string `toml:"format,omitempty"`
	// StacktraceLevel sets from which level stacktraces are included.
	StacktraceLevel string `toml:"stacktrace_level,omitempty"`
	// DisableCaller stops annotating logs with the calling function's file
	// name and line number.
	DisableCaller bool `toml:"disable_caller,omitempty"`
}

// InitDefaults populates unset fields in cfg to their default values (if they
// have one).
func (c *ConsoleConfig) InitDefaults() {
	if c.Level == "" {
		c.Level = DefaultConsoleLevel
	}
	if c.StacktraceLevel == "" {
		c.StacktraceLevel = DefaultStacktraceLevel
	}
	if c.Format == "" {
		c.Format = "human"
	}
}

// InitDefaults populates unset fields to their default values.
func (c *Config) InitDefaults() {
	c.Console.InitDefaults()
}

// Validate checks that the level and format values are known.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Console.Level); err != nil {
		return err
	}
	if c.Console.StacktraceLevel != "none" {
		if _, err := parseLevel(c.Console.StacktraceLevel); err != nil {
			return err
		}
	}
	switch c.Console.Format {
	case "", "human", "json":
		return nil
	default:
		return serrors.New("unknown log format", "format", c.Console.Format)
	}
}

// Sample writes the sample configuration to dst.
func (c *Config) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, loggingSample)
}

// ConfigName returns the name of the log config block.
func (c *Config) ConfigName() string {
	return "log"
}

// Setup configures the logging library with the given config.
func Setup(cfg Config) error {
	cfg.InitDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	lvl, err := parseLevel(cfg.Console.Level)
	if err != nil {
		return err
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.TimeKey = "ts"
	var enc zapcore.Encoder
	if cfg.Console.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(lvl))
	opts := []zap.Option{zap.AddCallerSkip(1)}
	if !cfg.Console.DisableCaller {
		opts = append(opts, zap.AddCaller())
	}
	if cfg.Console.StacktraceLevel != "none" {
		st, err := parseLevel(cfg.Console.StacktraceLevel)
		if err != nil {
			return err
		}
		opts = append(opts, zap.AddStacktrace(st))
	}
	zap.ReplaceGlobals(zap.New(core, opts...))
	return nil
}

// HandlePanic catches panics and logs them. The panic is re-raised after
// logging.
func HandlePanic() {
	if msg := recover(); msg != nil {
		zap.L().Error("Panic", zap.Any("msg", msg), zap.String("stack", string(debug.Stack())))
		Flush()
		panic(msg)
	}
}

// Flush writes the logs to the underlying buffer.
func Flush() {
	_ = zap.L().Sync()
}

func parseLevel(s string) (zapcore.Level, error) {
	var l zapcore.Level
	switch strings.ToLower(s) {
	case "debug", "dbug":
		l = zapcore.DebugLevel
	case "info":
		l = zapcore.InfoLevel
	case "error", "eror", "crit":
		l = zapcore.ErrorLevel
	default:
		return l, serrors.New("unknown log level", "level", s)
	}
	return l, nil
}

const loggingSample = `
[log.console]
# Console logging level (debug|info|error) (default info)
level = "info"

# Console logging format (human|json) (default human)
format = "human"

# Level from which stack traces are added to the entries (none|debug|info|error)
# (default none)
stacktrace_level = "none"

# Disable annotating log entries with caller information (default false)
disable_caller = false
`

func (l Level) String() string {
	return zapcore.Level(l).String()
}
