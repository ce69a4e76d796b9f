/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agentsession

import (
	"context"
	"errors"
	"testing"

	"github.com/bixoryai/mcp-course/mcpbridge"
)

func TestNewExecutor(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{{
		name: "router provider",
		cfg:  Config{Credential: "hf_x", Provider: "nebius"},
	}, {
		name: "router with explicit model",
		cfg:  Config{Credential: "hf_x", Provider: "together", Model: "meta-llama/Llama-3.3-70B-Instruct"},
	}, {
		name: "anthropic",
		cfg:  Config{Credential: "hf_x", Provider: "Anthropic", AnthropicAPIKey: "sk"},
	}, {
		name:    "anthropic without key",
		cfg:     Config{Credential: "hf_x", Provider: "anthropic"},
		wantErr: true,
	}, {
		name:    "anthropic with non-claude model",
		cfg:     Config{Credential: "hf_x", Provider: "anthropic", AnthropicAPIKey: "sk", Model: "gpt-4o"},
		wantErr: true,
	}, {
		name: "gemini",
		cfg:  Config{Credential: "hf_x", Provider: "gemini", GeminiAPIKey: "key"},
	}, {
		name:    "google without key",
		cfg:     Config{Credential: "hf_x", Provider: "google"},
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newExecutor(context.Background(), tt.cfg); (err != nil) != tt.wantErr {
				t.Errorf("newExecutor() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewManagerFromConfig(t *testing.T) {
	if NewManagerFromConfig(Config{}).Configured() {
		t.Error("Configured() without credential: got = true, wanted = false")
	}

	// A tool server that cannot be launched surfaces as an unavailable session.
	m := NewManagerFromConfig(Config{
		Credential: "hf_x",
		ToolServer: mcpbridge.ConnSpec{Command: "/nonexistent/tagserver"},
	})
	if _, err := m.Acquire(context.Background()); !errors.Is(err, ErrSessionUnavailable) {
		t.Errorf("Acquire(): got = %v, wanted = %v", err, ErrSessionUnavailable)
	}
}
