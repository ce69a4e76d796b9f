/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agentsession

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/bixoryai/mcp-course/agents/executor"
	"github.com/bixoryai/mcp-course/agents/executor/claudeexecutor"
	"github.com/bixoryai/mcp-course/agents/executor/googleexecutor"
	"github.com/bixoryai/mcp-course/agents/executor/openaiexecutor"
	"github.com/bixoryai/mcp-course/mcpbridge"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

// Provider names with a dedicated executor. Any other provider is routed
// through the Hugging Face inference router.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderGoogle    = "google"
)

// Config selects the tool server and model for the session.
type Config struct {
	// Credential is the Hugging Face token. It enables the agent, is passed to
	// the tool server, and authenticates router requests.
	Credential string
	// Provider selects the inference provider, e.g. "nebius", "anthropic" or "gemini".
	Provider string
	// Model is the model id; empty selects the provider's default.
	Model string

	AnthropicAPIKey string
	GeminiAPIKey    string
	// RouterURL overrides the Hugging Face router endpoint.
	RouterURL string

	ToolServer         mcpbridge.ConnSpec
	SystemInstructions string
}

// NewManagerFromConfig returns a Manager that builds sessions from cfg.
func NewManagerFromConfig(cfg Config) *Manager {
	return NewManager(cfg.Credential != "", NewBuilder(cfg))
}

// NewBuilder returns a Builder that launches the tool server, discovers its
// tools and binds them to the configured executor.
func NewBuilder(cfg Config) Builder {
	return func(ctx context.Context) (*Session, error) {
		spec := cfg.ToolServer
		env := map[string]string{"HF_TOKEN": cfg.Credential}
		for k, v := range spec.Env {
			env[k] = v
		}
		spec.Env = env

		client, err := mcpbridge.Connect(ctx, spec)
		if err != nil {
			return nil, err
		}
		tools, err := client.Tools(ctx)
		if err != nil {
			return nil, errors.Join(err, client.Close())
		}
		if len(tools) == 0 {
			return nil, errors.Join(errors.New("tool server offers no tools"), client.Close())
		}
		exec, err := newExecutor(ctx, cfg)
		if err != nil {
			return nil, errors.Join(err, client.Close())
		}
		return NewSession(exec, tools, client), nil
	}
}

func newExecutor(ctx context.Context, cfg Config) (executor.Interface, error) {
	var opts []executor.Option
	if cfg.SystemInstructions != "" {
		opts = append(opts, executor.WithSystemInstructions(cfg.SystemInstructions))
	}

	provider := strings.ToLower(cfg.Provider)
	clog.FromContext(ctx).With("provider", provider, "model", cfg.Model).Info("Selecting model executor")

	switch provider {
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, errors.New("anthropic provider requires an API key")
		}
		if cfg.Model != "" {
			opts = append(opts, executor.WithModel(cfg.Model))
		}
		return claudeexecutor.New(anthropic.NewClient(anthropicoption.WithAPIKey(cfg.AnthropicAPIKey)), opts...)

	case ProviderGemini, ProviderGoogle:
		if cfg.GeminiAPIKey == "" {
			return nil, errors.New("gemini provider requires an API key")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("creating genai client: %w", err)
		}
		if cfg.Model != "" {
			opts = append(opts, executor.WithModel(cfg.Model))
		}
		return googleexecutor.New(client, opts...)

	default:
		routerURL := cfg.RouterURL
		if routerURL == "" {
			routerURL = openaiexecutor.HuggingFaceRouterURL
		}
		model := cfg.Model
		if model == "" {
			model = openaiexecutor.DefaultModel
		}
		client := openai.NewClient(
			openaioption.WithAPIKey(cfg.Credential),
			openaioption.WithBaseURL(routerURL),
		)
		opts = append(opts, executor.WithModel(openaiexecutor.RouterModel(model, provider)))
		return openaiexecutor.New(client, opts...)
	}
}
