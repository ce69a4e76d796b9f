/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/bixoryai/mcp-course/agents/agenttrace"

// ToolCall is one tool invocation within a trace.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Params    map[string]any `json:"params"`
	Result    any            `json:"result"`
	Error     error          `json:"error,omitempty"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`

	trace *Trace
	span  oteltrace.Span
}

// Trace is one agent run from instruction to final answer.
type Trace struct {
	ID          string           `json:"id"`
	Instruction string           `json:"instruction"`
	ExecContext ExecutionContext `json:"exec_context,omitempty"`
	ToolCalls   []*ToolCall      `json:"tool_calls"`
	Result      string           `json:"result"`
	Error       error            `json:"error,omitempty"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     time.Time        `json:"end_time"`

	tracer Tracer
	mu     sync.Mutex
	ctx    context.Context
	span   oteltrace.Span
}

func newTrace(ctx context.Context, tracer Tracer, instruction string) *Trace {
	execCtx := GetExecutionContext(ctx)
	attrs := append(execCtx.spanAttributes(), attribute.String("agent.instruction", instruction))
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "agent.execution", oteltrace.WithAttributes(attrs...))

	return &Trace{
		ID:          newTraceID(),
		Instruction: instruction,
		ExecContext: execCtx,
		ToolCalls:   []*ToolCall{},
		StartTime:   time.Now(),
		tracer:      tracer,
		ctx:         ctx,
		span:        span,
	}
}

// StartToolCall opens a tool call span. Complete adds it to the trace.
func (t *Trace) StartToolCall(id, name string, params map[string]any) *ToolCall {
	_, span := otel.Tracer(instrumentationName).Start(t.ctx, "agent.tool_call", oteltrace.WithAttributes(
		attribute.String("tool.name", name),
		attribute.String("tool.id", id),
	))
	return &ToolCall{
		ID:        id,
		Name:      name,
		Params:    params,
		StartTime: time.Now(),
		trace:     t,
		span:      span,
	}
}

// BadToolCall records a call the agent could not dispatch: an unknown tool or
// unparseable arguments.
func (t *Trace) BadToolCall(id, name string, params map[string]any, err error) {
	tc := t.StartToolCall(id, name, params)
	tc.Complete(nil, err)
}

// RecordTokenUsage annotates the trace span with model token counts.
func (t *Trace) RecordTokenUsage(model string, inputTokens, outputTokens int64) {
	t.span.SetAttributes(
		attribute.String("model", model),
		attribute.Int64("tokens.input", inputTokens),
		attribute.Int64("tokens.output", outputTokens),
	)
}

// Complete finishes the tool call and appends it to its trace.
func (tc *ToolCall) Complete(result any, err error) {
	tc.Result = result
	tc.Error = err
	tc.EndTime = time.Now()
	endSpan(tc.span, err)

	tc.trace.mu.Lock()
	defer tc.trace.mu.Unlock()
	tc.trace.ToolCalls = append(tc.trace.ToolCalls, tc)
}

// Complete finishes the trace and hands it to the tracer.
func (t *Trace) Complete(result string, err error) {
	t.mu.Lock()
	t.Result = result
	t.Error = err
	t.EndTime = time.Now()
	t.mu.Unlock()

	endSpan(t.span, err)
	t.tracer.RecordTrace(t)
}

// Duration returns the elapsed time of the trace, so far if still open.
func (t *Trace) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.EndTime.IsZero() {
		return time.Since(t.StartTime)
	}
	return t.EndTime.Sub(t.StartTime)
}

// String renders the trace for logs.
func (t *Trace) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Trace %s ===\n", t.ID)
	fmt.Fprintf(&sb, "Instruction: %q\n", t.Instruction)
	if len(t.ToolCalls) == 0 {
		sb.WriteString("No tool calls\n")
	}
	for i, tc := range t.ToolCalls {
		fmt.Fprintf(&sb, "[%d] %s (ID: %s) %v\n", i+1, tc.Name, tc.ID, tc.EndTime.Sub(tc.StartTime))
		if tc.Error != nil {
			fmt.Fprintf(&sb, "    Error: %v\n", tc.Error)
		} else if tc.Result != nil {
			fmt.Fprintf(&sb, "    Result: %s\n", truncate(fmt.Sprint(tc.Result), 200))
		}
	}
	if t.Error != nil {
		fmt.Fprintf(&sb, "Error: %v\n", t.Error)
	} else {
		fmt.Fprintf(&sb, "Result: %s\n", truncate(t.Result, 500))
	}
	return sb.String()
}

func endSpan(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func newTraceID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102-150405.000000")
	}
	return fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405"), hex.EncodeToString(b))
}
