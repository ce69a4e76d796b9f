/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bixoryai/mcp-course/tagreconciler"
	"github.com/bixoryai/mcp-course/workqueue"
	"github.com/chainguard-dev/clog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	secretHeader = "X-Webhook-Secret"
	maxBodyBytes = 1 << 20
)

var mRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tagbot_webhook_requests_total",
		Help: "Webhook requests by endpoint and result.",
	},
	[]string{"endpoint", "result"},
)

type processor interface {
	Process(ctx context.Context, ev tagreconciler.Event) []string
}

type submitter interface {
	Submit(name string, fn workqueue.Func) error
}

type handler struct {
	secret     string
	configured bool
	processor  processor
	filter     *tagreconciler.Filter
	dispatcher submitter
}

func (h *handler) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)
		r.Post("/webhook", h.webhook)
		r.Post("/simulate", h.simulate)
	})
	return r
}

// authenticate rejects requests without the shared secret. An empty secret
// disables the check.
func (h *handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.secret != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get(secretHeader)), []byte(h.secret)) != 1 {
			mRequests.WithLabelValues(r.URL.Path, "unauthorized").Inc()
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid webhook secret"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"agent_configured": h.configured,
	})
}

func (h *handler) webhook(w http.ResponseWriter, r *http.Request) {
	log := clog.FromContext(r.Context())

	ev, ok := h.decode(w, r)
	if !ok {
		return
	}
	if accept, reason := h.filter.Accept(ev); !accept {
		mRequests.WithLabelValues("/webhook", "ignored").Inc()
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored", "reason": reason})
		return
	}

	name := ev.RepoID()
	if ev.Discussion != nil && ev.Discussion.Num != 0 {
		name = fmt.Sprintf("%s#%d", name, ev.Discussion.Num)
	}
	err := h.dispatcher.Submit(name, func(ctx context.Context) error {
		for _, line := range h.processor.Process(ctx, ev) {
			clog.FromContext(ctx).With("repo", ev.RepoID()).Info(line)
		}
		return nil
	})
	if err != nil {
		mRequests.WithLabelValues("/webhook", "rejected").Inc()
		log.With("error", err).Warn("Could not queue event")
		status := http.StatusServiceUnavailable
		if errors.Is(err, workqueue.ErrQueueFull) {
			w.Header().Set("Retry-After", "30")
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	mRequests.WithLabelValues("/webhook", "accepted").Inc()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// simulate runs the processor synchronously and returns its results. It
// skips the envelope filter so operators can replay any payload.
func (h *handler) simulate(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.decode(w, r)
	if !ok {
		return
	}
	results := h.processor.Process(r.Context(), ev)
	mRequests.WithLabelValues("/simulate", "processed").Inc()
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request) (tagreconciler.Event, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		if mbe := (*http.MaxBytesError)(nil); errors.As(err, &mbe) {
			status = http.StatusRequestEntityTooLarge
		}
		mRequests.WithLabelValues(r.URL.Path, "bad_request").Inc()
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return tagreconciler.Event{}, false
	}
	ev, err := tagreconciler.ParseEvent(body)
	if err != nil {
		mRequests.WithLabelValues(r.URL.Path, "malformed").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return tagreconciler.Event{}, false
	}
	return ev, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
