/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/bixoryai/mcp-course/agents/agenttrace"
)

func TestGenAIRecordsWithoutProvider(t *testing.T) {
	m := NewGenAI(MeterName)
	ctx := agenttrace.WithExecutionContext(context.Background(), agenttrace.ExecutionContext{RepoID: "org/model"})

	// The global meter provider is a no-op in tests; recording must be safe.
	m.RecordTokens(ctx, "model", 10, 5)
	m.RecordToolCall(ctx, "model", "add_new_tag")
	m.RecordLatency(ctx, "model", time.Second)
}
