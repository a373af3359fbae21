// Copyright 2018 ETH Zurich
// Copyright 2019 ETH Zurich, Anapaya Systems
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
	"context"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

type ctxKey struct{}

// optioner is implemented by loggers that wrap a zap logger.
type optioner interface {
	WithOptions(opts ...zap.Option) Logger
}

// CtxWith returns a copy of ctx that carries logger. A logger already in ctx
// is replaced.
func CtxWith(ctx context.Context, logger Logger) context.Context {
	if ctx == nil {
		panic("nil context")
	}
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromCtx returns the logger of ctx, or the root logger if ctx carries none.
// Spans in ctx are attached to the returned logger. FromCtx never returns nil.
func FromCtx(ctx context.Context) Logger {
	if ctx == nil {
		return Root()
	}
	l, ok := ctx.Value(ctxKey{}).(Logger)
	if !ok {
		if l = Root(); l == nil {
			panic("no root logger")
		}
	}
	if _, isSpan := l.(Span); isSpan {
		return l
	}
	return withSpan(ctx, l)
}

// WithLabels adds labels to the logger of ctx. It returns the new context and
// the labeled logger.
func WithLabels(ctx context.Context, labels ...any) (context.Context, Logger) {
	l := FromCtx(ctx).New(labels...)
	return CtxWith(ctx, l), l
}

func withSpan(ctx context.Context, l Logger) Logger {
	span := opentracing.SpanFromContext(ctx)
	if span == nil {
		return l
	}
	// Skip the Span frame so the caller of the span logger is reported.
	if o, ok := l.(optioner); ok {
		l = o.WithOptions(zap.AddCallerSkip(1))
	}
	return Span{Logger: l, Span: span}
}
