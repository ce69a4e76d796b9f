/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics records OpenTelemetry metrics for model calls made by the
// agent executors.
package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/bixoryai/mcp-course/agents/agenttrace"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is shared by every executor; the model is a metric dimension.
const MeterName = "github.com/bixoryai/mcp-course/agents"

// GenAI holds the counters for token usage, tool calls and model latency.
// Instruments that fail to register degrade to no-ops.
type GenAI struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	toolCalls        metric.Int64Counter
	latency          metric.Float64Histogram
}

// NewGenAI registers the GenAI instruments on the named meter.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))
	m := &GenAI{}

	var err error
	if m.promptTokens, err = meter.Int64Counter("genai.token.prompt",
		metric.WithDescription("The number of prompt tokens used"),
		metric.WithUnit("{tokens}")); err != nil {
		slog.Warn("Failed to create prompt tokens counter", "error", err, "meter", meterName)
		m.promptTokens = noop.Int64Counter{}
	}
	if m.completionTokens, err = meter.Int64Counter("genai.token.completion",
		metric.WithDescription("The number of completion tokens used"),
		metric.WithUnit("{tokens}")); err != nil {
		slog.Warn("Failed to create completion tokens counter", "error", err, "meter", meterName)
		m.completionTokens = noop.Int64Counter{}
	}
	if m.toolCalls, err = meter.Int64Counter("genai.tool.calls",
		metric.WithDescription("The number of tool calls made during execution"),
		metric.WithUnit("{calls}")); err != nil {
		slog.Warn("Failed to create tool call counter", "error", err, "meter", meterName)
		m.toolCalls = noop.Int64Counter{}
	}
	if m.latency, err = meter.Float64Histogram("genai.request.duration",
		metric.WithDescription("Latency of a single model request"),
		metric.WithUnit("s")); err != nil {
		slog.Warn("Failed to create latency histogram", "error", err, "meter", meterName)
		m.latency = noop.Float64Histogram{}
	}
	return m
}

func attributes(ctx context.Context, base ...attribute.KeyValue) metric.MeasurementOption {
	return metric.WithAttributes(agenttrace.GetExecutionContext(ctx).EnrichAttributes(base)...)
}

// RecordTokens records prompt and completion token usage for model.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64) {
	opt := attributes(ctx, attribute.String("model", model))
	m.promptTokens.Add(ctx, promptTokens, opt)
	m.completionTokens.Add(ctx, completionTokens, opt)
}

// RecordToolCall records one tool invocation requested by model.
func (m *GenAI) RecordToolCall(ctx context.Context, model, tool string) {
	m.toolCalls.Add(ctx, 1, attributes(ctx, attribute.String("model", model), attribute.String("tool", tool)))
}

// RecordLatency records how long a model request took.
func (m *GenAI) RecordLatency(ctx context.Context, model string, d time.Duration) {
	m.latency.Record(ctx, d.Seconds(), attributes(ctx, attribute.String("model", model)))
}
