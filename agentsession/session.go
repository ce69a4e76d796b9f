/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agentsession

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/bixoryai/mcp-course/agents/executor"
	"github.com/bixoryai/mcp-course/agents/toolcall"
	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrConfigurationUnavailable means no credential is configured, so the agent is disabled.
	ErrConfigurationUnavailable = errors.New("agent is not configured: missing credential")

	// ErrSessionUnavailable means building the session failed. It wraps the cause.
	ErrSessionUnavailable = errors.New("agent session unavailable")
)

// Agent carries out one natural-language instruction and returns the model's answer.
type Agent interface {
	Run(ctx context.Context, instruction string) (string, error)
}

// Session is a built agent: an executor bound to a discovered tool set.
// Calls to Run are serialized because the tool connection is not reentrant.
type Session struct {
	exec   executor.Interface
	tools  map[string]toolcall.Tool
	closer io.Closer

	mu sync.Mutex
}

var _ Agent = (*Session)(nil)

// NewSession binds an executor to tools. closer, if non-nil, is closed by Close.
func NewSession(exec executor.Interface, tools map[string]toolcall.Tool, closer io.Closer) *Session {
	return &Session{exec: exec, tools: tools, closer: closer}
}

// Run implements Agent.
func (s *Session) Run(ctx context.Context, instruction string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec.Execute(ctx, instruction, s.tools)
}

// ToolNames returns the sorted names of the bound tools.
func (s *Session) ToolNames() []string {
	names := make([]string, 0, len(s.tools))
	for n := range s.tools {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Close releases the tool connection.
func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Builder constructs a session. It must not return a partially built session.
type Builder func(ctx context.Context) (*Session, error)

// DefaultBuildTimeout bounds one attempt to build a session.
const DefaultBuildTimeout = 2 * time.Minute

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithBuildTimeout bounds each build attempt. Values of zero or less are ignored.
func WithBuildTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.buildTimeout = d
		}
	}
}

// Manager holds at most one Session and builds it on demand.
type Manager struct {
	configured   bool
	build        Builder
	buildTimeout time.Duration

	mu      sync.Mutex
	session *Session
	group   singleflight.Group
}

// NewManager returns a Manager. configured reports whether a credential is
// present; when false Acquire always fails with ErrConfigurationUnavailable.
func NewManager(configured bool, build Builder, opts ...ManagerOption) *Manager {
	m := &Manager{configured: configured, build: build, buildTimeout: DefaultBuildTimeout}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Configured reports whether the agent has a credential.
func (m *Manager) Configured() bool {
	return m.configured
}

// Acquire returns the shared session, building it if needed.
func (m *Manager) Acquire(ctx context.Context) (Agent, error) {
	if !m.configured {
		return nil, ErrConfigurationUnavailable
	}

	m.mu.Lock()
	s := m.session
	m.mu.Unlock()
	if s != nil {
		return s, nil
	}

	// The build outlives any single caller's cancellation since other callers
	// may be waiting on it. Its own timeout keeps a hung tool server from
	// holding the slot forever.
	ch := m.group.DoChan("session", func() (any, error) {
		m.mu.Lock()
		if m.session != nil {
			s := m.session
			m.mu.Unlock()
			return s, nil
		}
		m.mu.Unlock()

		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.buildTimeout)
		defer cancel()
		s, err := m.build(buildCtx)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, errors.New("builder returned no session")
		}

		m.mu.Lock()
		m.session = s
		m.mu.Unlock()
		clog.FromContext(buildCtx).With("tools", s.ToolNames()).Info("Agent session ready")
		return s, nil
	})

	select {
	case <-ctx.Done():
		clog.FromContext(ctx).With("error", ctx.Err()).Warn("Gave up waiting for agent session")
		return nil, fmt.Errorf("%w: %w", ErrSessionUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			clog.FromContext(ctx).With("error", res.Err, "shared", res.Shared).Error("Failed to build agent session")
			return nil, fmt.Errorf("%w: %w", ErrSessionUnavailable, res.Err)
		}
		return res.Val.(*Session), nil
	}
}

// Close closes the held session, if any, and empties the slot.
func (m *Manager) Close() error {
	m.mu.Lock()
	s := m.session
	m.session = nil
	m.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Close()
}
