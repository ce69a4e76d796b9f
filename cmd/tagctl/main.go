/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main is tagctl, an operator CLI for the tag bot: it shows what the
// extractor finds in a piece of text, replays an event through the agent and
// prints the webhook payload schema.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		clog.FatalContextf(ctx, "%v", err)
	}
}
