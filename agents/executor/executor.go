/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package executor defines the contract shared by the model-specific agent
// executors: carry out one natural-language instruction, calling tools as the
// model requests, and return the model's final text answer.
package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/bixoryai/mcp-course/agents/executor/retry"
	"github.com/bixoryai/mcp-course/agents/toolcall"
)

// ErrMaxTurns is returned when the model keeps requesting tools past the turn limit.
var ErrMaxTurns = errors.New("agent exceeded maximum turns")

// Interface runs an agent conversation.
type Interface interface {
	// Execute sends prompt to the model, dispatches any tool calls it makes and
	// returns its final text answer.
	Execute(ctx context.Context, prompt string, tools map[string]toolcall.Tool) (string, error)
}

// Config holds the settings common to every executor.
type Config struct {
	Model              string
	SystemInstructions string
	MaxTokens          int64
	Temperature        float64
	// MaxTurns bounds the number of model requests per Execute.
	MaxTurns int
	Retry    retry.Config
}

// Option is a functional option for configuring an executor.
type Option func(*Config) error

// Apply applies opts over defaults.
func Apply(defaults Config, opts ...Option) (Config, error) {
	cfg := defaults
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return cfg, nil
}

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(c *Config) error {
		if model == "" {
			return errors.New("model cannot be empty")
		}
		c.Model = model
		return nil
	}
}

// WithSystemInstructions sets the system prompt.
func WithSystemInstructions(instructions string) Option {
	return func(c *Config) error {
		c.SystemInstructions = instructions
		return nil
	}
}

// WithMaxTokens sets the maximum tokens for each response.
func WithMaxTokens(tokens int64) Option {
	return func(c *Config) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		c.MaxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature. Executors enforce their
// model's range.
func WithTemperature(temp float64) Option {
	return func(c *Config) error {
		if temp < 0 {
			return fmt.Errorf("temperature cannot be negative, got %f", temp)
		}
		c.Temperature = temp
		return nil
	}
}

// WithMaxTurns bounds the number of model requests per Execute.
func WithMaxTurns(turns int) Option {
	return func(c *Config) error {
		if turns <= 0 {
			return fmt.Errorf("max turns must be positive, got %d", turns)
		}
		c.MaxTurns = turns
		return nil
	}
}

// WithRetryConfig sets the retry policy for transient API errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Config) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.Retry = cfg
		return nil
	}
}
