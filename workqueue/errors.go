/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workqueue

import (
	"errors"
	"fmt"
)

var (
	// ErrQueueFull is returned by Submit when no queue slot is free.
	ErrQueueFull = errors.New("work queue is full")

	// ErrShutdown is returned by Submit after Shutdown has begun.
	ErrShutdown = errors.New("work queue is shutting down")
)

type nonRetriableError struct {
	err    error
	reason string
}

func (e *nonRetriableError) Error() string {
	return fmt.Sprintf("non-retriable: %s: %v", e.reason, e.err)
}

func (e *nonRetriableError) Unwrap() error { return e.err }

// NonRetriableError marks err so the dispatcher does not retry the work.
func NonRetriableError(err error, reason string) error {
	if err == nil {
		return nil
	}
	return &nonRetriableError{err: err, reason: reason}
}

// IsNonRetriable reports whether err was marked with NonRetriableError.
func IsNonRetriable(err error) bool {
	var nr *nonRetriableError
	return errors.As(err, &nr)
}
