/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package huggingface implements tagserver.Hub against the Hugging Face Hub
// HTTP API.
package huggingface

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bixoryai/mcp-course/tagserver"
	"github.com/chainguard-dev/clog"
)

// DefaultEndpoint is the public Hub.
const DefaultEndpoint = "https://huggingface.co"

const readmePath = "README.md"

// Option configures a Hub.
type Option func(*Hub)

// WithEndpoint points the client at another Hub deployment.
func WithEndpoint(endpoint string) Option {
	return func(h *Hub) {
		h.endpoint = strings.TrimRight(endpoint, "/")
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *Hub) {
		h.client = c
	}
}

// Hub talks to the Hugging Face Hub with a user access token.
type Hub struct {
	endpoint string
	token    string
	client   *http.Client
}

var _ tagserver.Hub = (*Hub)(nil)

// New returns a Hub authenticated with token.
func New(token string, opts ...Option) *Hub {
	h := &Hub{
		endpoint: DefaultEndpoint,
		token:    token,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type modelInfo struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags"`
}

// Tags implements tagserver.Hub.
func (h *Hub) Tags(ctx context.Context, repoID string) ([]string, error) {
	resp, err := h.do(ctx, http.MethodGet, "/api/models/"+escapeRepo(repoID), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var info modelInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding model info: %w", err)
	}
	return info.Tags, nil
}

// ReadModelCard implements tagserver.Hub.
func (h *Hub) ReadModelCard(ctx context.Context, repoID string) (string, error) {
	resp, err := h.do(ctx, http.MethodGet, "/"+escapeRepo(repoID)+"/raw/main/"+readmePath, nil, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading model card: %w", err)
	}
	return string(b), nil
}

type commitLine struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type commitHeader struct {
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
}

type commitFile struct {
	Content  string `json:"content"`
	Path     string `json:"path"`
	Encoding string `json:"encoding"`
}

type commitResponse struct {
	CommitURL      string `json:"commitUrl"`
	PullRequestURL string `json:"pullRequestUrl"`
}

// ProposeModelCard implements tagserver.Hub. The commit API opens a pull
// request instead of writing to main when create_pr is set.
func (h *Hub) ProposeModelCard(ctx context.Context, repoID string, p tagserver.Proposal) (string, error) {
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, line := range []commitLine{
		{Key: "header", Value: commitHeader{Summary: p.Title, Description: p.Description}},
		{Key: "file", Value: commitFile{
			Content:  base64.StdEncoding.EncodeToString([]byte(p.Content)),
			Path:     readmePath,
			Encoding: "base64",
		}},
	} {
		if err := enc.Encode(line); err != nil {
			return "", fmt.Errorf("encoding commit: %w", err)
		}
	}

	path := "/api/models/" + escapeRepo(repoID) + "/commit/main?create_pr=1"
	resp, err := h.do(ctx, http.MethodPost, path, &body, "application/x-ndjson")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	var out commitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding commit response: %w", err)
	}
	if out.PullRequestURL == "" {
		return "", fmt.Errorf("commit %s did not open a pull request", out.CommitURL)
	}
	clog.FromContext(ctx).With("repo", repoID, "pr_url", out.PullRequestURL).Info("Opened Hub pull request")
	return out.PullRequestURL, nil
}

func (h *Hub) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, h.endpoint+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

type apiError struct {
	Error string `json:"error"`
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusNotFound {
		return tagserver.ErrNotFound
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e apiError
	if json.Unmarshal(b, &e) == nil && e.Error != "" {
		return fmt.Errorf("hub returned %d: %s", resp.StatusCode, e.Error)
	}
	return fmt.Errorf("hub returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
}

// escapeRepo escapes each path segment of an "org/name" id.
func escapeRepo(repoID string) string {
	parts := strings.Split(repoID, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
