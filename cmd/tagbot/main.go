/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs the tag bot webhook server. Discussion comment events are
// acknowledged immediately and reconciled in the background by an agent that
// talks to the tag tool server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bixoryai/mcp-course/agentsession"
	"github.com/bixoryai/mcp-course/mcpbridge"
	"github.com/bixoryai/mcp-course/tagging"
	"github.com/bixoryai/mcp-course/tagreconciler"
	"github.com/bixoryai/mcp-course/workqueue"
	"github.com/chainguard-dev/clog"
	_ "github.com/chainguard-dev/clog/gcp/init"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sethvargo/go-envconfig"
)

type config struct {
	Port        int    `env:"PORT,default=8080"`
	MetricsPort int    `env:"METRICS_PORT,default=2112"`
	Secret      string `env:"WEBHOOK_SECRET"`

	// HFToken enables the agent. Without it every event reports that the
	// agent is not configured.
	HFToken         string `env:"HF_TOKEN"`
	Model           string `env:"HF_MODEL"`
	Provider        string `env:"DEFAULT_PROVIDER,default=nebius"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`

	ToolServerCommand string   `env:"TAGSERVER_COMMAND,default=tagserver"`
	ToolServerArgs    []string `env:"TAGSERVER_ARGS"`

	Workers        int      `env:"WORKERS,default=2"`
	QueueSize      int      `env:"QUEUE_SIZE,default=64"`
	VocabularyFile string   `env:"VOCABULARY_FILE"`
	AllowedRepos   []string `env:"ALLOWED_REPOS"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	vocab := tagging.DefaultVocabulary()
	if cfg.VocabularyFile != "" {
		v, err := tagging.LoadVocabulary(cfg.VocabularyFile)
		if err != nil {
			clog.FatalContextf(ctx, "loading vocabulary: %v", err)
		}
		vocab = v
	}
	clog.InfoContextf(ctx, "Loaded vocabulary of %d tags", vocab.Len())

	manager := agentsession.NewManagerFromConfig(agentsession.Config{
		Credential:      cfg.HFToken,
		Provider:        cfg.Provider,
		Model:           cfg.Model,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		ToolServer: mcpbridge.ConnSpec{
			Command: cfg.ToolServerCommand,
			Args:    cfg.ToolServerArgs,
		},
		SystemInstructions: tagreconciler.SystemInstructions,
	})
	defer manager.Close()
	if !manager.Configured() {
		clog.WarnContextf(ctx, "HF_TOKEN is not set; tag reconciliation is disabled")
	}

	dispatcher := newDispatcher(ctx, cfg)

	h := &handler{
		secret:     cfg.Secret,
		configured: manager.Configured(),
		processor: tagreconciler.NewProcessor(manager,
			tagreconciler.WithExtractor(tagging.NewExtractor(vocab)),
			tagreconciler.WithClassifier(tagreconciler.StatusClassifier),
		),
		filter:     tagreconciler.NewFilter(cfg.AllowedRepos...),
		dispatcher: dispatcher,
	}

	go serveMetrics(ctx, cfg.MetricsPort)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			clog.ErrorContextf(ctx, "shutting down server: %v", err)
		}
	}()

	clog.InfoContextf(ctx, "Starting tag bot on port %d", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		clog.FatalContextf(ctx, "server failed: %v", err)
	}

	drainCtx, drainCancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
	defer drainCancel()
	if err := dispatcher.Shutdown(drainCtx); err != nil {
		clog.WarnContextf(ctx, "draining work: %v", err)
	}
}

// newDispatcher detaches the work context from the shutdown signal so queued
// batches still reach the agent while the drain runs. Shutdown's deadline
// bounds that work.
func newDispatcher(ctx context.Context, cfg config) *workqueue.Dispatcher {
	return workqueue.NewDispatcher(context.WithoutCancel(ctx),
		workqueue.WithWorkers(cfg.Workers),
		workqueue.WithQueueSize(cfg.QueueSize),
	)
}

func serveMetrics(ctx context.Context, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		clog.ErrorContextf(ctx, "metrics server failed: %v", err)
	}
}
