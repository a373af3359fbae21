// Copyright 2020 Anapaya Systems
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

// Package launcher includes the shared application execution boilerplate of
// all controller binaries: flag parsing, configuration loading, logging setup
// and signal handling.
package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
	libconfig "github.com/sdnroute/sdnroute/private/config"
	"github.com/sdnroute/sdnroute/private/env"
)

// Configuration keys used by the launcher
const (
	cfgLogConsoleLevel           = "log.console.level"
	cfgLogConsoleFormat          = "log.console.format"
	cfgLogConsoleStacktraceLevel = "log.console.stacktrace_level"
	cfgGeneralID                 = "general.id"
	cfgConfigFile                = "config"

	flagLogLevel = "log.level"
)

// Application models a controller application.
type Application struct {
	// TOMLConfig holds the Go data structure for the application-specific
	// TOML configuration.
	TOMLConfig libconfig.Config

	// ShortName is the short name of the application. If empty, the
	// executable name is used.
	ShortName string

	// Main is the custom logic of the application. If nil, no custom logic
	// is executed (and only the setup/teardown harness runs). If Main returns
	// an error, the Run method will return a non-zero exit code.
	Main func(ctx context.Context) error

	// ErrorWriter specifies where error output should be printed. If nil,
	// os.Stderr is used.
	ErrorWriter io.Writer

	config *viper.Viper
}

// Run sets up the common server harness, and then passes control to the Main
// function (if one exists).
//
// Run uses the following globals:
//
//	os.Args
//
// Run will exit the application if it encounters a fatal error.
func (a *Application) Run() {
	if err := a.run(os.Args[1:]); err != nil {
		fmt.Fprintf(a.getErrorWriter(), "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func (a *Application) run(args []string) error {
	executable := filepath.Base(os.Args[0])
	shortName := a.getShortName(executable)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := a.newCommand(executable, shortName)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func (a *Application) newCommand(executable, shortName string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           executable,
		Short:         shortName,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.executeCommand(cmd.Context(), shortName)
		},
	}
	cmd.Flags().String(cfgConfigFile, "", "Configuration file (required)")
	cmd.MarkFlagRequired(cfgConfigFile)
	cmd.Flags().AddFlagSet(loggingFlags())
	cmd.AddCommand(
		a.newSampleCommand(executable),
		newVersionCommand(),
	)

	a.config = viper.New()
	a.config.SetDefault(cfgLogConsoleLevel, log.DefaultConsoleLevel)
	a.config.SetDefault(cfgLogConsoleFormat, "human")
	a.config.SetDefault(cfgLogConsoleStacktraceLevel, log.DefaultStacktraceLevel)
	a.config.SetDefault(cfgGeneralID, executable)
	// The location of the config file is only known once the flags are parsed.
	if err := a.config.BindPFlag(cfgConfigFile, cmd.Flags().Lookup(cfgConfigFile)); err != nil {
		panic(err)
	}
	if err := a.config.BindPFlag(cfgLogConsoleLevel, cmd.Flags().Lookup(flagLogLevel)); err != nil {
		panic(err)
	}
	return cmd
}

// loggingFlags are the command line overrides of the console logging
// configuration.
func loggingFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("logging", pflag.ContinueOnError)
	fs.String(flagLogLevel, "", "Console log level, overrides the configuration file")
	return fs
}

func (a *Application) newSampleCommand(executable string) *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Display a sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.TOMLConfig == nil {
				return serrors.New("application has no configuration")
			}
			ctx := libconfig.CtxMap{libconfig.ID: executable}
			a.TOMLConfig.Sample(cmd.OutOrStdout(), nil, ctx)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the controller version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, ok := debug.ReadBuildInfo()
			if !ok {
				return serrors.New("no build information available")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n",
				info.Main.Path, info.Main.Version, info.GoVersion)
			return nil
		},
	}
}

func (a *Application) getShortName(executable string) string {
	if a.ShortName != "" {
		return a.ShortName
	}
	return executable
}

func (a *Application) executeCommand(ctx context.Context, shortName string) error {
	os.Setenv("TZ", "UTC")

	file := a.config.GetString(cfgConfigFile)
	// Load launcher configurations from the same config file as the custom
	// application configuration.
	a.config.SetConfigType("toml")
	a.config.SetConfigFile(file)
	if err := a.config.ReadInConfig(); err != nil {
		return serrors.Wrap("loading generic server config from file", err, "file", file)
	}
	if a.TOMLConfig != nil {
		if err := libconfig.LoadFile(file, a.TOMLConfig); err != nil {
			return serrors.Wrap("loading config from file", err, "file", file)
		}
		a.TOMLConfig.InitDefaults()
	}

	if err := log.Setup(a.getLogging()); err != nil {
		return serrors.Wrap("initialize logging", err)
	}
	defer log.Flush()
	id := a.config.GetString(cfgGeneralID)
	if err := env.LogAppStarted(shortName, id); err != nil {
		return err
	}
	defer env.LogAppStopped(shortName, id)
	defer log.HandlePanic()

	if a.TOMLConfig != nil {
		if err := a.TOMLConfig.Validate(); err != nil {
			return serrors.Wrap("validate config", err)
		}
	}
	if a.Main == nil {
		return nil
	}

	// Force a shutdown if Main does not return within the grace interval
	// after the shutdown signal.
	go func() {
		defer log.HandlePanic()
		<-ctx.Done()
		time.AfterFunc(env.ShutdownGraceInterval, func() {
			log.Error("Main did not shut down in time, forcing exit",
				"grace", env.ShutdownGraceInterval)
			log.Flush()
			os.Exit(1)
		})
	}()
	return a.Main(ctx)
}

func (a *Application) getLogging() log.Config {
	return log.Config{
		Console: log.ConsoleConfig{
			Level:           a.config.GetString(cfgLogConsoleLevel),
			Format:          a.config.GetString(cfgLogConsoleFormat),
			StacktraceLevel: a.config.GetString(cfgLogConsoleStacktraceLevel),
		},
	}
}

func (a *Application) getErrorWriter() io.Writer {
	if a.ErrorWriter != nil {
		return a.ErrorWriter
	}
	return os.Stderr
}
