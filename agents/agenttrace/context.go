/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// ExecutionContext identifies the event an agent run belongs to.
type ExecutionContext struct {
	RepoID     string `json:"repo_id,omitempty"`
	Discussion int    `json:"discussion,omitempty"`
	Tag        string `json:"tag,omitempty"`
}

// EnrichAttributes appends bounded attributes for metrics. Discussion numbers
// and tags are left to traces since they are unbounded.
func (e ExecutionContext) EnrichAttributes(base []attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(base), len(base)+1)
	copy(attrs, base)
	if e.RepoID != "" {
		attrs = append(attrs, attribute.String("repository", e.RepoID))
	}
	return attrs
}

func (e ExecutionContext) spanAttributes() []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if e.RepoID != "" {
		attrs = append(attrs, attribute.String("repo_id", e.RepoID))
	}
	if e.Discussion != 0 {
		attrs = append(attrs, attribute.Int("discussion", e.Discussion))
	}
	if e.Tag != "" {
		attrs = append(attrs, attribute.String("tag", e.Tag))
	}
	return attrs
}

type executionContextKey struct{}

// WithExecutionContext attaches execution context to ctx.
func WithExecutionContext(ctx context.Context, execCtx ExecutionContext) context.Context {
	return context.WithValue(ctx, executionContextKey{}, execCtx)
}

// GetExecutionContext returns the execution context attached to ctx, if any.
func GetExecutionContext(ctx context.Context) ExecutionContext {
	execCtx, _ := ctx.Value(executionContextKey{}).(ExecutionContext)
	return execCtx
}
