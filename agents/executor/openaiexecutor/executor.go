/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bixoryai/mcp-course/agents/agenttrace"
	"github.com/bixoryai/mcp-course/agents/executor"
	"github.com/bixoryai/mcp-course/agents/executor/retry"
	"github.com/bixoryai/mcp-course/agents/metrics"
	"github.com/bixoryai/mcp-course/agents/toolcall"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
)

const (
	// HuggingFaceRouterURL is the OpenAI-compatible endpoint of the Hugging Face inference router.
	HuggingFaceRouterURL = "https://router.huggingface.co/v1"

	// DefaultModel is used when no model option is given.
	DefaultModel = "Qwen/Qwen2.5-72B-Instruct"
)

// RouterModel qualifies a model with the router's inference provider.
func RouterModel(model, provider string) string {
	if provider == "" {
		return model
	}
	return model + ":" + provider
}

type chatExecutor struct {
	client  openai.Client
	cfg     executor.Config
	metrics *metrics.GenAI
}

var _ executor.Interface = (*chatExecutor)(nil)

// New creates an executor over the chat completions API.
func New(client openai.Client, opts ...executor.Option) (executor.Interface, error) {
	cfg, err := executor.Apply(executor.Config{
		Model:       DefaultModel,
		MaxTokens:   4096,
		Temperature: 0.1,
		MaxTurns:    20,
		Retry:       retry.Default(),
	}, opts...)
	if err != nil {
		return nil, err
	}
	if cfg.Temperature > 2.0 {
		return nil, fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", cfg.Temperature)
	}
	return &chatExecutor{
		client:  client,
		cfg:     cfg,
		metrics: metrics.NewGenAI(metrics.MeterName),
	}, nil
}

// Execute implements executor.Interface.
func (e *chatExecutor) Execute(ctx context.Context, prompt string, tools map[string]toolcall.Tool) (answer string, err error) {
	log := clog.FromContext(ctx).With("model", e.cfg.Model)

	trace := agenttrace.StartTrace(ctx, prompt)
	defer func() {
		trace.Complete(answer, err)
	}()

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(e.cfg.Model),
		MaxCompletionTokens: openai.Int(e.cfg.MaxTokens),
		Temperature:         openai.Float(e.cfg.Temperature),
		Tools:               toolParams(tools),
	}
	if e.cfg.SystemInstructions != "" {
		params.Messages = append(params.Messages, openai.SystemMessage(e.cfg.SystemInstructions))
	}
	params.Messages = append(params.Messages, openai.UserMessage(prompt))

	for turn := 0; turn < e.cfg.MaxTurns; turn++ {
		start := time.Now()
		completion, err := retry.Do(ctx, e.cfg.Retry, "chat_completion", isRetryableError, func() (*openai.ChatCompletion, error) {
			return e.client.Chat.Completions.New(ctx, params)
		})
		e.metrics.RecordLatency(ctx, e.cfg.Model, time.Since(start))
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if completion.Usage.TotalTokens > 0 {
			e.metrics.RecordTokens(ctx, e.cfg.Model, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
			trace.RecordTokenUsage(e.cfg.Model, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
		}
		if len(completion.Choices) == 0 {
			return "", errors.New("no choices in chat completion")
		}
		msg := completion.Choices[0].Message

		if len(msg.ToolCalls) == 0 {
			if msg.Content == "" {
				return "", errors.New("no content in chat completion")
			}
			log.With("turns", turn+1).Info("Completed chat agent execution")
			return msg.Content, nil
		}

		params.Messages = append(params.Messages, msg.ToParam())
		for _, tc := range msg.ToolCalls {
			e.metrics.RecordToolCall(ctx, e.cfg.Model, tc.Function.Name)

			var out map[string]any
			call, parseErr := decodeCall(tc)
			if parseErr != nil {
				trace.BadToolCall(tc.ID, tc.Function.Name, map[string]any{"arguments": tc.Function.Arguments}, parseErr)
				out = toolcall.Error("%v", parseErr)
			} else {
				out = toolcall.Dispatch(ctx, tools, call, trace)
			}

			b, err := json.Marshal(out)
			if err != nil {
				return "", fmt.Errorf("failed to marshal tool result: %w", err)
			}
			params.Messages = append(params.Messages, openai.ToolMessage(string(b), tc.ID))
		}
	}
	return "", fmt.Errorf("%w (%d)", executor.ErrMaxTurns, e.cfg.MaxTurns)
}

func decodeCall(tc openai.ChatCompletionMessageToolCall) (toolcall.ToolCall, error) {
	call := toolcall.ToolCall{ID: tc.ID, Name: tc.Function.Name, Args: map[string]any{}}
	if tc.Function.Arguments == "" {
		return call, nil
	}
	if err := json.Unmarshal([]byte(tc.Function.Arguments), &call.Args); err != nil {
		return call, fmt.Errorf("failed to parse tool arguments: %w", err)
	}
	return call, nil
}

func toolParams(tools map[string]toolcall.Tool) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Def.Name,
				Description: openai.String(t.Def.Description),
				Parameters:  openai.FunctionParameters(t.Def.Schema()),
			},
		})
	}
	return out
}

// isRetryableError reports rate limit and transient server errors.
func isRetryableError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return retry.RetryableStatus(apiErr.StatusCode)
	}
	return false
}
