/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry retries model API calls that fail with rate limit or
// transient server errors.
package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config configures exponential backoff.
type Config struct {
	// MaxRetries is the number of retries after the first attempt. 0 disables retries.
	MaxRetries int
	// BaseBackoff is the delay before the first retry; it doubles on each retry.
	BaseBackoff time.Duration
	// MaxBackoff caps the delay before jitter.
	MaxBackoff time.Duration
	// MaxJitter is the upper bound of the random delay added to each backoff.
	MaxJitter time.Duration
}

// Validate reports negative settings.
func (c Config) Validate() error {
	switch {
	case c.MaxRetries < 0:
		return errors.New("max retries cannot be negative")
	case c.BaseBackoff < 0:
		return errors.New("base backoff cannot be negative")
	case c.MaxBackoff < 0:
		return errors.New("max backoff cannot be negative")
	case c.MaxJitter < 0:
		return errors.New("max jitter cannot be negative")
	}
	return nil
}

// Default returns a configuration suited to quota based rate limits, which
// take longer to recover than ordinary transient failures.
func Default() Config {
	return Config{
		MaxRetries:  5,
		BaseBackoff: time.Second,
		MaxBackoff:  60 * time.Second,
		MaxJitter:   500 * time.Millisecond,
	}
}

// RetryableStatus reports whether an HTTP status from a model API is worth retrying.
func RetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout, 529:
		return true
	}
	return false
}

// Do calls fn until it succeeds, returns an error isRetryable rejects, the
// retries run out, or ctx is done.
func Do[T any](ctx context.Context, cfg Config, operation string, isRetryable func(error) bool, fn func() (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	for attempt := 0; ; attempt++ {
		result, err = fn()
		if err == nil || !isRetryable(err) {
			return result, err
		}
		if attempt >= cfg.MaxRetries {
			return result, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxRetries, err)
		}

		wait := min(cfg.BaseBackoff<<attempt, cfg.MaxBackoff) + jitter(cfg.MaxJitter)
		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("max_retries", cfg.MaxRetries).
			With("backoff", wait).
			With("error", err.Error()).
			Warn("Retryable model API error, backing off")

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func jitter(maxJitter time.Duration) time.Duration {
	if maxJitter <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(maxJitter)))
	if err != nil {
		return 0
	}
	return time.Duration(n.Int64())
}
