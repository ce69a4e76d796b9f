/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package workqueue runs named units of work on a bounded pool of workers
// in the background.
//
// Submit acknowledges immediately: the work is queued and its outcome only
// reaches logs and metrics. A full queue is reported to the caller instead of
// blocking.
//
//	d := workqueue.NewDispatcher(ctx, workqueue.WithWorkers(4), workqueue.WithQueueSize(64))
//	defer d.Shutdown(context.Background())
//
//	if err := d.Submit("repo/discussion-12", func(ctx context.Context) error {
//		return process(ctx)
//	}); err != nil {
//		// queue full or shutting down
//	}
//
// Failed work is retried up to the configured limit unless it returns an
// error wrapped with NonRetriableError. Work that exhausts its attempts is
// dropped and counted as dead-lettered.
package workqueue
