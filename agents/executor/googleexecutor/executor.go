/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bixoryai/mcp-course/agents/agenttrace"
	"github.com/bixoryai/mcp-course/agents/executor"
	"github.com/bixoryai/mcp-course/agents/executor/retry"
	"github.com/bixoryai/mcp-course/agents/metrics"
	"github.com/bixoryai/mcp-course/agents/toolcall"
	"github.com/bixoryai/mcp-course/agents/toolcall/googletool"
	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

// DefaultModel is used when no model option is given.
const DefaultModel = "gemini-2.5-flash"

type geminiExecutor struct {
	client  *genai.Client
	cfg     executor.Config
	metrics *metrics.GenAI
}

var _ executor.Interface = (*geminiExecutor)(nil)

// New creates a Gemini executor.
func New(client *genai.Client, opts ...executor.Option) (executor.Interface, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}
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
	if !strings.HasPrefix(cfg.Model, "gemini-") {
		return nil, fmt.Errorf("model %q does not appear to be a Gemini model (expected gemini-* format)", cfg.Model)
	}
	if cfg.Temperature > 2.0 {
		return nil, fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", cfg.Temperature)
	}
	return &geminiExecutor{
		client:  client,
		cfg:     cfg,
		metrics: metrics.NewGenAI(metrics.MeterName),
	}, nil
}

// Execute implements executor.Interface.
func (e *geminiExecutor) Execute(ctx context.Context, prompt string, tools map[string]toolcall.Tool) (answer string, err error) {
	log := clog.FromContext(ctx).With("model", e.cfg.Model)

	trace := agenttrace.StartTrace(ctx, prompt)
	defer func() {
		trace.Complete(answer, err)
	}()

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(e.cfg.Temperature)),
		MaxOutputTokens: int32(e.cfg.MaxTokens),
		Tools:           googletool.Tools(tools),
	}
	if e.cfg.SystemInstructions != "" {
		config.SystemInstruction = genai.NewContentFromText(e.cfg.SystemInstructions, genai.RoleUser)
	}

	chat, err := e.client.Chats.Create(ctx, e.cfg.Model, config, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create chat with model %q: %w", e.cfg.Model, err)
	}

	next := []*genai.Part{genai.NewPartFromText(prompt)}
	for turn := 0; turn < e.cfg.MaxTurns; turn++ {
		start := time.Now()
		resp, err := retry.Do(ctx, e.cfg.Retry, "send_message", isRetryableGeminiError, func() (*genai.GenerateContentResponse, error) {
			return chat.Send(ctx, next...)
		})
		e.metrics.RecordLatency(ctx, e.cfg.Model, time.Since(start))
		if err != nil {
			return "", fmt.Errorf("failed to send message: %w", err)
		}
		if resp.UsageMetadata != nil {
			in, out := int64(resp.UsageMetadata.PromptTokenCount), int64(resp.UsageMetadata.CandidatesTokenCount)
			e.metrics.RecordTokens(ctx, e.cfg.Model, in, out)
			trace.RecordTokenUsage(e.cfg.Model, in, out)
		}

		if len(resp.Candidates) == 0 {
			return "", errors.New("no content generated - no candidates")
		}
		candidate := resp.Candidates[0]

		if candidate.FinishReason == genai.FinishReasonMalformedFunctionCall {
			log.With("finish_message", candidate.FinishMessage).
				Warn("Model attempted a malformed function call, asking it to retry")
			names := make([]string, 0, len(tools))
			for name := range tools {
				names = append(names, name)
			}
			slices.Sort(names)
			next = []*genai.Part{genai.NewPartFromText(fmt.Sprintf(
				"The function call was malformed. Please try again using the available functions: %v", names))}
			continue
		}
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			return "", errors.New("no content generated - candidate has no parts")
		}

		var (
			calls []*genai.FunctionCall
			text  strings.Builder
		)
		for _, part := range candidate.Content.Parts {
			switch {
			case part.Thought:
			case part.FunctionCall != nil:
				calls = append(calls, part.FunctionCall)
			case part.Text != "":
				text.WriteString(part.Text)
			}
		}

		if len(calls) == 0 {
			if text.Len() == 0 {
				return "", errors.New("unexpected response format from model")
			}
			log.With("turns", turn+1).Info("Completed Gemini agent execution")
			return text.String(), nil
		}

		next = make([]*genai.Part, 0, len(calls))
		for _, fc := range calls {
			e.metrics.RecordToolCall(ctx, e.cfg.Model, fc.Name)
			call := googletool.Call(fc)
			next = append(next, googletool.Response(call, toolcall.Dispatch(ctx, tools, call, trace)))
		}
	}
	return "", fmt.Errorf("%w (%d)", executor.ErrMaxTurns, e.cfg.MaxTurns)
}

// isRetryableGeminiError reports rate limit, quota and transient server errors.
func isRetryableGeminiError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retry.RetryableStatus(apiErr.Code) || apiErr.Code == 500
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return retry.RetryableStatus(apiErrPtr.Code) || apiErrPtr.Code == 500
	}
	return false
}
