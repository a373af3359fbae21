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

package task

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/pkg/metrics"
)

// ErrPermanent marks installer failures that retrying cannot fix, such as an
// unknown switch.
var ErrPermanent = errors.New("permanent installer failure")

// Installer writes flows to the switches.
type Installer interface {
	Install(ctx context.Context, flows []Flow) error
}

// InstallerFunc adapts a function to the Installer interface.
type InstallerFunc func(ctx context.Context, flows []Flow) error

// Install calls f.
func (f InstallerFunc) Install(ctx context.Context, flows []Flow) error {
	return f(ctx, flows)
}

// LogInstaller logs the flows instead of installing them. It is used when no
// switch connection is configured.
type LogInstaller struct{}

// Install logs every flow at debug level.
func (LogInstaller) Install(ctx context.Context, flows []Flow) error {
	logger := log.FromCtx(ctx)
	for _, f := range flows {
		logger.Debug("Flow", "flow", f.String())
	}
	return nil
}

// Default retry settings of the RetryInstaller.
const (
	DefaultMaxTries        = 4
	DefaultInitialInterval = 50 * time.Millisecond
	DefaultMaxInterval     = time.Second
)

// RetryInstaller retries failed installations with exponential backoff.
// Errors wrapping ErrPermanent are not retried.
type RetryInstaller struct {
	Installer Installer
	// MaxTries defaults to DefaultMaxTries.
	MaxTries uint
	// InitialInterval defaults to DefaultInitialInterval.
	InitialInterval time.Duration
	// MaxInterval defaults to DefaultMaxInterval.
	MaxInterval time.Duration
	// Retries counts the retried attempts. Optional.
	Retries metrics.Counter
}

// Install installs the flows.
func (r RetryInstaller) Install(ctx context.Context, flows []Flow) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = durOr(r.InitialInterval, DefaultInitialInterval)
	b.MaxInterval = durOr(r.MaxInterval, DefaultMaxInterval)
	tries := r.MaxTries
	if tries == 0 {
		tries = DefaultMaxTries
	}
	op := func() (struct{}, error) {
		err := r.Installer.Install(ctx, flows)
		if errors.Is(err, ErrPermanent) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}
	notify := func(err error, next time.Duration) {
		metrics.CounterInc(r.Retries)
		log.FromCtx(ctx).Debug("Retrying flow installation", "err", err, "after", next)
	}
	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(notify),
	)
	return err
}

func durOr(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}
