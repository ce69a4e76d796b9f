/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs the tag tool server over stdio. Stdout carries the
// protocol, so logs go to stderr.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bixoryai/mcp-course/tagserver"
	"github.com/bixoryai/mcp-course/tagserver/githubhub"
	"github.com/bixoryai/mcp-course/tagserver/huggingface"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
)

var version = "dev"

type config struct {
	Backend string `env:"TAGSERVER_BACKEND,default=huggingface"`

	HFToken    string `env:"HF_TOKEN"`
	HFEndpoint string `env:"HF_ENDPOINT,default=https://huggingface.co"`

	GitHubToken  string `env:"GITHUB_TOKEN"`
	BranchPrefix string `env:"BRANCH_PREFIX,default=tagbot"`

	LogLevel slog.Level `env:"LOG_LEVEL,default=info"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "processing config: %v\n", err)
		os.Exit(1)
	}

	logger := clog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	ctx = clog.WithLogger(ctx, logger)

	hub, err := newHub(ctx, cfg)
	if err != nil {
		clog.FatalContextf(ctx, "configuring backend: %v", err)
	}

	clog.InfoContextf(ctx, "Serving tag tools from the %s backend", cfg.Backend)
	if err := tagserver.NewServer(hub, version).Run(ctx); err != nil && ctx.Err() == nil {
		clog.FatalContextf(ctx, "tool server failed: %v", err)
	}
}

func newHub(ctx context.Context, cfg config) (tagserver.Hub, error) {
	switch cfg.Backend {
	case "huggingface":
		if cfg.HFToken == "" {
			return nil, fmt.Errorf("HF_TOKEN is required for the huggingface backend")
		}
		return huggingface.New(cfg.HFToken, huggingface.WithEndpoint(cfg.HFEndpoint)), nil
	case "github":
		if cfg.GitHubToken == "" {
			return nil, fmt.Errorf("GITHUB_TOKEN is required for the github backend")
		}
		return githubhub.New(githubhub.NewClient(ctx, cfg.GitHubToken), githubhub.WithBranchPrefix(cfg.BranchPrefix)), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
