/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/bixoryai/mcp-course/agents/agenttrace"
	"github.com/bixoryai/mcp-course/agents/executor"
	"github.com/bixoryai/mcp-course/agents/executor/retry"
	"github.com/bixoryai/mcp-course/agents/metrics"
	"github.com/bixoryai/mcp-course/agents/toolcall"
	"github.com/bixoryai/mcp-course/agents/toolcall/claudetool"
	"github.com/chainguard-dev/clog"
)

// DefaultModel is used when no model option is given.
const DefaultModel = "claude-sonnet-4-5"

type claudeExecutor struct {
	client  anthropic.Client
	cfg     executor.Config
	metrics *metrics.GenAI
}

var _ executor.Interface = (*claudeExecutor)(nil)

// New creates a Claude executor.
func New(client anthropic.Client, opts ...executor.Option) (executor.Interface, error) {
	cfg, err := executor.Apply(executor.Config{
		Model:       DefaultModel,
		MaxTokens:   8192,
		Temperature: 0.1,
		MaxTurns:    20,
		Retry:       retry.Default(),
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(cfg.Model, "claude-") {
		return nil, fmt.Errorf("model %q does not appear to be a Claude model (expected claude-* format)", cfg.Model)
	}
	if cfg.Temperature > 1.0 {
		return nil, fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", cfg.Temperature)
	}
	return &claudeExecutor{
		client:  client,
		cfg:     cfg,
		metrics: metrics.NewGenAI(metrics.MeterName),
	}, nil
}

// Execute implements executor.Interface.
func (e *claudeExecutor) Execute(ctx context.Context, prompt string, tools map[string]toolcall.Tool) (answer string, err error) {
	log := clog.FromContext(ctx).With("model", e.cfg.Model)

	trace := agenttrace.StartTrace(ctx, prompt)
	defer func() {
		trace.Complete(answer, err)
	}()

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(e.cfg.Model),
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: anthropic.Float(e.cfg.Temperature),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Tools:       claudetool.Tools(tools),
	}
	if e.cfg.SystemInstructions != "" {
		params.System = []anthropic.TextBlockParam{{Text: e.cfg.SystemInstructions}}
	}

	log.With("prompt_length", len(prompt)).Info("Starting Claude agent execution")

	for turn := 0; turn < e.cfg.MaxTurns; turn++ {
		start := time.Now()
		message, err := retry.Do(ctx, e.cfg.Retry, "stream_message", isRetryableClaudeError, func() (anthropic.Message, error) {
			stream := e.client.Messages.NewStreaming(ctx, params)
			var msg anthropic.Message
			for stream.Next() {
				if err := msg.Accumulate(stream.Current()); err != nil {
					return msg, fmt.Errorf("failed to accumulate event: %w", err)
				}
			}
			return msg, stream.Err()
		})
		e.metrics.RecordLatency(ctx, e.cfg.Model, time.Since(start))
		if err != nil {
			return "", fmt.Errorf("failed to stream Claude response: %w", err)
		}

		if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
			e.metrics.RecordTokens(ctx, e.cfg.Model, message.Usage.InputTokens, message.Usage.OutputTokens)
			trace.RecordTokenUsage(e.cfg.Model, message.Usage.InputTokens, message.Usage.OutputTokens)
		}

		var (
			uses []anthropic.ToolUseBlock
			text strings.Builder
		)
		for _, content := range message.Content {
			switch content.Type {
			case "text":
				text.WriteString(content.Text)
			case "tool_use":
				uses = append(uses, anthropic.ToolUseBlock{
					ID:    content.ID,
					Name:  content.Name,
					Input: content.Input,
				})
			}
		}

		if len(uses) == 0 {
			if text.Len() == 0 {
				return "", errors.New("no content in Claude's response")
			}
			log.With("turns", turn+1).Info("Completed Claude agent execution")
			return text.String(), nil
		}

		params.Messages = append(params.Messages, message.ToParam())
		results := make([]anthropic.ContentBlockParamUnion, 0, len(uses))
		for _, use := range uses {
			e.metrics.RecordToolCall(ctx, e.cfg.Model, use.Name)

			var out map[string]any
			call, err := claudetool.Call(use)
			if err != nil {
				trace.BadToolCall(use.ID, use.Name, map[string]any{"input": string(use.Input)}, err)
				out = toolcall.Error("%v", err)
			} else {
				out = toolcall.Dispatch(ctx, tools, call, trace)
			}

			block, err := claudetool.Result(use.ID, out)
			if err != nil {
				return "", err
			}
			results = append(results, block)
		}
		params.Messages = append(params.Messages, anthropic.NewUserMessage(results...))
	}
	return "", fmt.Errorf("%w (%d)", executor.ErrMaxTurns, e.cfg.MaxTurns)
}

// isRetryableClaudeError reports rate limit, overloaded and transient server errors.
func isRetryableClaudeError(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return retry.RetryableStatus(apiErr.StatusCode)
	}
	return false
}
