/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bixoryai/mcp-course/agentsession"
	"github.com/bixoryai/mcp-course/tagreconciler"
	"github.com/bixoryai/mcp-course/workqueue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validEvent = `{
	"event": {"action": "create", "scope": "discussion.comment"},
	"comment": {"content": "Please add tags: pytorch, nlp"},
	"discussion": {"title": "Tags", "num": 3},
	"repo": {"name": "org/model"}
}`

type echoAgent struct {
	mu    sync.Mutex
	calls int
}

func (a *echoAgent) Run(context.Context, string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return "success", nil
}

type staticSource struct {
	agent agentsession.Agent
	err   error
}

func (s staticSource) Acquire(context.Context) (agentsession.Agent, error) {
	return s.agent, s.err
}

type syncSubmitter struct {
	names []string
	err   error
}

func (s *syncSubmitter) Submit(name string, fn workqueue.Func) error {
	if s.err != nil {
		return s.err
	}
	s.names = append(s.names, name)
	return fn(context.Background())
}

func newTestHandler(agent *echoAgent, sub submitter, allowed ...string) *handler {
	return &handler{
		secret:     "s3cret",
		configured: true,
		processor:  tagreconciler.NewProcessor(staticSource{agent: agent}),
		filter:     tagreconciler.NewFilter(allowed...),
		dispatcher: sub,
	}
}

func do(t *testing.T, h http.Handler, method, path, secret, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if secret != "" {
		req.Header.Set(secretHeader, secret)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return rec, out
}

func TestWebhook(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		body       string
		allowed    []string
		submitErr  error
		wantStatus int
		wantCalls  int
		wantField  string
		wantValue  string
	}{{
		name:       "accepted",
		secret:     "s3cret",
		body:       validEvent,
		wantStatus: http.StatusAccepted,
		wantCalls:  2,
		wantField:  "status",
		wantValue:  "accepted",
	}, {
		name:       "wrong secret",
		secret:     "nope",
		body:       validEvent,
		wantStatus: http.StatusUnauthorized,
	}, {
		name:       "missing secret",
		body:       validEvent,
		wantStatus: http.StatusUnauthorized,
	}, {
		name:       "malformed",
		secret:     "s3cret",
		body:       `{"comment":{"content":"x"}}`,
		wantStatus: http.StatusBadRequest,
	}, {
		name:       "not a new comment",
		secret:     "s3cret",
		body:       strings.Replace(validEvent, `"create"`, `"update"`, 1),
		wantStatus: http.StatusOK,
		wantField:  "status",
		wantValue:  "ignored",
	}, {
		name:       "repo not allowed",
		secret:     "s3cret",
		body:       validEvent,
		allowed:    []string{"org/other"},
		wantStatus: http.StatusOK,
		wantField:  "reason",
		wantValue:  "repository not allowed",
	}, {
		name:       "queue full",
		secret:     "s3cret",
		body:       validEvent,
		submitErr:  workqueue.ErrQueueFull,
		wantStatus: http.StatusServiceUnavailable,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &echoAgent{}
			sub := &syncSubmitter{err: tt.submitErr}
			h := newTestHandler(agent, sub, tt.allowed...)

			rec, out := do(t, h.routes(), http.MethodPost, "/webhook", tt.secret, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantCalls, agent.calls)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantValue, out[tt.wantField])
			}
		})
	}
}

func TestWebhookNamesWork(t *testing.T) {
	sub := &syncSubmitter{}
	h := newTestHandler(&echoAgent{}, sub)
	rec, _ := do(t, h.routes(), http.MethodPost, "/webhook", "s3cret", validEvent)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"org/model#3"}, sub.names)
}

func TestWebhookWithDispatcher(t *testing.T) {
	agent := &echoAgent{}
	d := workqueue.NewDispatcher(context.Background())
	h := newTestHandler(agent, d)

	rec, _ := do(t, h.routes(), http.MethodPost, "/webhook", "s3cret", validEvent)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.NoError(t, d.Shutdown(context.Background()))

	agent.mu.Lock()
	defer agent.mu.Unlock()
	assert.Equal(t, 2, agent.calls)
}

type ctxAgent struct {
	mu   sync.Mutex
	errs []error
}

func (a *ctxAgent) Run(ctx context.Context, _ string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errs = append(a.errs, ctx.Err())
	return "success", ctx.Err()
}

func TestQueuedWorkSurvivesShutdownSignal(t *testing.T) {
	signalCtx, cancel := context.WithCancel(context.Background())
	d := newDispatcher(signalCtx, config{Workers: 1, QueueSize: 4})
	agent := &ctxAgent{}
	h := &handler{
		secret:     "s3cret",
		processor:  tagreconciler.NewProcessor(staticSource{agent: agent}),
		filter:     tagreconciler.NewFilter(),
		dispatcher: d,
	}

	rec, _ := do(t, h.routes(), http.MethodPost, "/webhook", "s3cret", validEvent)
	require.Equal(t, http.StatusAccepted, rec.Code)
	cancel()
	require.NoError(t, d.Shutdown(context.Background()))

	agent.mu.Lock()
	defer agent.mu.Unlock()
	assert.Equal(t, []error{nil, nil}, agent.errs)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestDecodeReadErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       io.Reader
		wantStatus int
	}{{
		name:       "too large",
		body:       strings.NewReader(strings.Repeat("x", maxBodyBytes+1)),
		wantStatus: http.StatusRequestEntityTooLarge,
	}, {
		name:       "read failure",
		body:       failingReader{},
		wantStatus: http.StatusBadRequest,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&echoAgent{}, &syncSubmitter{})
			req := httptest.NewRequest(http.MethodPost, "/webhook", tt.body)
			req.Header.Set(secretHeader, "s3cret")
			rec := httptest.NewRecorder()
			h.routes().ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestSimulate(t *testing.T) {
	agent := &echoAgent{}
	h := newTestHandler(agent, &syncSubmitter{})

	// The envelope filter does not apply to simulations.
	body := strings.Replace(validEvent, `"create"`, `"update"`, 1)
	rec, out := do(t, h.routes(), http.MethodPost, "/simulate", "s3cret", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Tag 'nlp': added (success)", "Tag 'pytorch': added (success)"}, out["results"])
	assert.Equal(t, 2, agent.calls)
}

func TestSimulateUnavailable(t *testing.T) {
	h := &handler{
		processor:  tagreconciler.NewProcessor(staticSource{err: agentsession.ErrConfigurationUnavailable}),
		filter:     tagreconciler.NewFilter(),
		dispatcher: &syncSubmitter{},
	}
	rec, out := do(t, h.routes(), http.MethodPost, "/simulate", "", validEvent)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{tagreconciler.NoticeNotConfigured}, out["results"])
}

func TestHealth(t *testing.T) {
	h := &handler{configured: false}
	rec, out := do(t, h.routes(), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, false, out["agent_configured"])
}
