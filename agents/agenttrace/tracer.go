/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"github.com/chainguard-dev/clog"
)

// Tracer receives completed traces.
type Tracer interface {
	RecordTrace(*Trace)
}

// ByCode adapts callbacks into a Tracer. Each callback sees every trace.
type ByCode []func(*Trace)

// RecordTrace implements Tracer.
func (b ByCode) RecordTrace(t *Trace) {
	for _, cb := range b {
		cb(t)
	}
}

type tracerKey struct{}

// WithTracer attaches a tracer to ctx.
func WithTracer(ctx context.Context, tracer Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, tracer)
}

// TracerFromContext returns the tracer attached to ctx, falling back to one
// that logs each trace through the context's logger.
func TracerFromContext(ctx context.Context) Tracer {
	if tr, ok := ctx.Value(tracerKey{}).(Tracer); ok && tr != nil {
		return tr
	}
	return logTracer(ctx)
}

// StartTrace starts a trace for one instruction.
func StartTrace(ctx context.Context, instruction string) *Trace {
	return newTrace(ctx, TracerFromContext(ctx), instruction)
}

func logTracer(ctx context.Context) Tracer {
	log := clog.FromContext(ctx)
	return ByCode{func(t *Trace) {
		log.With(
			"trace_id", t.ID,
			"duration_ms", t.Duration().Milliseconds(),
			"tool_calls", len(t.ToolCalls),
		).Info("Agent trace completed", "trace", t.String())
	}}
}
