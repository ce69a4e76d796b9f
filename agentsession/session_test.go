/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agentsession

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bixoryai/mcp-course/agents/toolcall"
)

// fakeExecutor answers every instruction with its text and tracks concurrency.
type fakeExecutor struct {
	active  atomic.Int32
	maxSeen atomic.Int32
	calls   atomic.Int32
}

func (f *fakeExecutor) Execute(_ context.Context, prompt string, _ map[string]toolcall.Tool) (string, error) {
	f.calls.Add(1)
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		m := f.maxSeen.Load()
		if n <= m || f.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	return "ok: " + prompt, nil
}

type fakeCloser struct{ closed atomic.Bool }

func (c *fakeCloser) Close() error {
	c.closed.Store(true)
	return nil
}

func TestAcquireWithoutCredential(t *testing.T) {
	var builds atomic.Int32
	m := NewManager(false, func(context.Context) (*Session, error) {
		builds.Add(1)
		return NewSession(&fakeExecutor{}, nil, nil), nil
	})

	if _, err := m.Acquire(context.Background()); !errors.Is(err, ErrConfigurationUnavailable) {
		t.Errorf("Acquire(): got = %v, wanted = %v", err, ErrConfigurationUnavailable)
	}
	if n := builds.Load(); n != 0 {
		t.Errorf("builds: got = %d, wanted = 0", n)
	}
	if m.Configured() {
		t.Error("Configured(): got = true, wanted = false")
	}
}

func TestAcquireConcurrentBuildsOnce(t *testing.T) {
	var builds atomic.Int32
	release := make(chan struct{})
	m := NewManager(true, func(context.Context) (*Session, error) {
		builds.Add(1)
		<-release
		return NewSession(&fakeExecutor{}, nil, nil), nil
	})

	const callers = 16
	agents := make([]Agent, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := m.Acquire(context.Background())
			if err != nil {
				t.Errorf("Acquire() = %v", err)
			}
			agents[i] = a
		}()
	}
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := builds.Load(); n != 1 {
		t.Errorf("builds: got = %d, wanted = 1", n)
	}
	for i, a := range agents {
		if a != agents[0] {
			t.Errorf("agents[%d]: got a different session", i)
		}
	}

	// A ready slot is reused without rebuilding.
	if a, err := m.Acquire(context.Background()); err != nil || a != agents[0] {
		t.Errorf("Acquire() after ready: got = %v, %v", a, err)
	}
	if n := builds.Load(); n != 1 {
		t.Errorf("builds after reuse: got = %d, wanted = 1", n)
	}
}

func TestAcquireFailureLeavesSlotEmpty(t *testing.T) {
	var builds atomic.Int32
	boom := errors.New("tool server exited")
	m := NewManager(true, func(context.Context) (*Session, error) {
		if builds.Add(1) == 1 {
			return nil, boom
		}
		return NewSession(&fakeExecutor{}, nil, nil), nil
	})

	_, err := m.Acquire(context.Background())
	if !errors.Is(err, ErrSessionUnavailable) || !errors.Is(err, boom) {
		t.Errorf("Acquire(): got = %v, wanted %v wrapping %v", err, ErrSessionUnavailable, boom)
	}

	if _, err := m.Acquire(context.Background()); err != nil {
		t.Errorf("Acquire() retry = %v", err)
	}
	if n := builds.Load(); n != 2 {
		t.Errorf("builds: got = %d, wanted = 2", n)
	}
}

func TestAcquireHonorsCallerDeadline(t *testing.T) {
	release := make(chan struct{})
	var builds atomic.Int32
	m := NewManager(true, func(context.Context) (*Session, error) {
		builds.Add(1)
		<-release
		return NewSession(&fakeExecutor{}, nil, nil), nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := m.Acquire(ctx)
	if !errors.Is(err, ErrSessionUnavailable) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire(): got = %v, wanted %v wrapping %v", err, ErrSessionUnavailable, context.DeadlineExceeded)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Acquire() returned after %v, wanted the caller's deadline", elapsed)
	}

	// The build keeps going for later callers.
	close(release)
	if _, err := m.Acquire(context.Background()); err != nil {
		t.Errorf("Acquire() after build = %v", err)
	}
	if n := builds.Load(); n != 1 {
		t.Errorf("builds: got = %d, wanted = 1", n)
	}
}

func TestAcquireBuildTimeout(t *testing.T) {
	var builds atomic.Int32
	m := NewManager(true, func(ctx context.Context) (*Session, error) {
		if builds.Add(1) == 1 {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return NewSession(&fakeExecutor{}, nil, nil), nil
	}, WithBuildTimeout(20*time.Millisecond))

	_, err := m.Acquire(context.Background())
	if !errors.Is(err, ErrSessionUnavailable) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire(): got = %v, wanted %v wrapping %v", err, ErrSessionUnavailable, context.DeadlineExceeded)
	}
	if _, err := m.Acquire(context.Background()); err != nil {
		t.Errorf("Acquire() retry = %v", err)
	}
}

func TestAcquireNilSession(t *testing.T) {
	m := NewManager(true, func(context.Context) (*Session, error) { return nil, nil })
	if _, err := m.Acquire(context.Background()); !errors.Is(err, ErrSessionUnavailable) {
		t.Errorf("Acquire(): got = %v, wanted = %v", err, ErrSessionUnavailable)
	}
}

func TestSessionRunSerialized(t *testing.T) {
	exec := &fakeExecutor{}
	s := NewSession(exec, map[string]toolcall.Tool{"get_current_tags": {}}, nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Run(context.Background(), "x"); err != nil {
				t.Errorf("Run() = %v", err)
			}
		}()
	}
	wg.Wait()

	if n := exec.calls.Load(); n != 8 {
		t.Errorf("calls: got = %d, wanted = 8", n)
	}
	if n := exec.maxSeen.Load(); n != 1 {
		t.Errorf("max concurrent calls: got = %d, wanted = 1", n)
	}
	if got := s.ToolNames(); len(got) != 1 || got[0] != "get_current_tags" {
		t.Errorf("ToolNames(): got = %v", got)
	}
}

func TestManagerClose(t *testing.T) {
	closer := &fakeCloser{}
	m := NewManager(true, func(context.Context) (*Session, error) {
		return NewSession(&fakeExecutor{}, nil, closer), nil
	})
	if err := m.Close(); err != nil {
		t.Errorf("Close() on empty slot = %v", err)
	}
	if _, err := m.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() = %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if !closer.closed.Load() {
		t.Error("session closer was not called")
	}
}
