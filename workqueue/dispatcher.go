/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workqueue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Func is a unit of work.
type Func func(ctx context.Context) error

type item struct {
	name string
	fn   Func
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithWorkers sets the number of concurrent workers. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithQueueSize sets how much work may wait for a worker. Values below 0 are ignored.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n >= 0 {
			d.queueSize = n
		}
	}
}

// WithMaxRetry sets how many times failed work is retried.
func WithMaxRetry(n int) Option {
	return func(d *Dispatcher) {
		if n >= 0 {
			d.maxRetry = n
		}
	}
}

// WithBackoff sets the delay before the first retry; it doubles on each attempt.
func WithBackoff(d time.Duration) Option {
	return func(disp *Dispatcher) {
		disp.backoff = d
	}
}

// Dispatcher runs submitted work on a fixed pool of workers.
type Dispatcher struct {
	workers   int
	queueSize int
	maxRetry  int
	backoff   time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	queue  chan item
	group *errgroup.Group

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts the workers. Work runs under ctx; cancelling it stops
// retries but lets the current attempt observe the cancellation itself.
// Callers that want queued work to survive a shutdown signal pass a context
// detached from that signal and bound the drain with Shutdown's context.
func NewDispatcher(ctx context.Context, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		workers:   1,
		queueSize: 16,
		backoff:   time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.queue = make(chan item, d.queueSize)
	d.group = &errgroup.Group{}
	for i := range d.workers {
		d.group.Go(func() error {
			d.work(i)
			return nil
		})
	}
	clog.FromContext(ctx).With("workers", d.workers, "queue_size", d.queueSize).Info("Started work dispatcher")
	return d
}

// Submit queues fn without waiting for it to run.
func (d *Dispatcher) Submit(name string, fn Func) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		mSubmitted.WithLabelValues("shutdown").Inc()
		return ErrShutdown
	}
	select {
	case d.queue <- item{name: name, fn: fn}:
		mSubmitted.WithLabelValues("accepted").Inc()
		return nil
	default:
		mSubmitted.WithLabelValues("full").Inc()
		return fmt.Errorf("%w: %s", ErrQueueFull, name)
	}
}

// Shutdown stops accepting work and waits for queued work to drain or for
// ctx to end, whichever comes first. When ctx ends first the work context is
// cancelled so in-flight work can stop.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = d.group.Wait()
		close(done)
	}()
	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		return fmt.Errorf("waiting for work to drain: %w", ctx.Err())
	}
}

func (d *Dispatcher) work(id int) {
	for it := range d.queue {
		d.run(id, it)
	}
}

func (d *Dispatcher) run(id int, it item) {
	log := clog.FromContext(d.ctx).With("worker", id, "work", it.name)
	ctx := clog.WithLogger(d.ctx, log)

	mInFlight.Inc()
	defer mInFlight.Dec()
	start := time.Now()
	defer func() { mDuration.Observe(time.Since(start).Seconds()) }()

	delay := d.backoff
	for attempt := 0; ; attempt++ {
		err := d.call(ctx, it.fn)
		switch {
		case err == nil:
			mCompleted.WithLabelValues("success").Inc()
			log.With("attempts", attempt+1).Debug("Work completed")
			return
		case IsNonRetriable(err):
			mCompleted.WithLabelValues("failed").Inc()
			log.With("error", err).Warn("Work failed without retry")
			return
		case attempt >= d.maxRetry:
			mCompleted.WithLabelValues("deadletter").Inc()
			log.With("error", err, "attempts", attempt+1).Error("Work exhausted retries")
			return
		}

		log.With("error", err, "attempt", attempt+1).Warn("Work failed, retrying")
		mRetries.Inc()
		select {
		case <-d.ctx.Done():
			mCompleted.WithLabelValues("failed").Inc()
			log.With("error", d.ctx.Err()).Warn("Dropping work after cancellation")
			return
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// call runs fn and turns a panic into an error so one bad unit of work
// cannot take down the worker.
func (d *Dispatcher) call(ctx context.Context, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NonRetriableError(fmt.Errorf("panic: %v", r), "work panicked")
		}
	}()
	return fn(ctx)
}
