/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package huggingface

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bixoryai/mcp-course/tagserver"
	"github.com/google/go-cmp/cmp"
)

func newTestHub(t *testing.T, handler http.HandlerFunc) *Hub {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("hf_test", WithEndpoint(srv.URL+"/"), WithHTTPClient(srv.Client()))
}

func TestTags(t *testing.T) {
	h := newTestHub(t, func(w http.ResponseWriter, r *http.Request) {
		if got, want := r.Header.Get("Authorization"), "Bearer hf_test"; got != want {
			t.Errorf("Authorization: got = %q, wanted = %q", got, want)
		}
		switch r.URL.Path {
		case "/api/models/org/model":
			_, _ = w.Write([]byte(`{"id":"org/model","tags":["pytorch","region:us"]}`))
		case "/api/models/org/private":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	got, err := h.Tags(ctx, "org/model")
	if err != nil {
		t.Fatalf("Tags() = %v", err)
	}
	if diff := cmp.Diff([]string{"pytorch", "region:us"}, got); diff != "" {
		t.Errorf("Tags() (-want +got):\n%s", diff)
	}

	if _, err := h.Tags(ctx, "org/missing"); !errors.Is(err, tagserver.ErrNotFound) {
		t.Errorf("Tags(missing): got = %v, wanted = %v", err, tagserver.ErrNotFound)
	}
	if _, err := h.Tags(ctx, "org/private"); err == nil || err.Error() != "hub returned 401: Invalid credentials" {
		t.Errorf("Tags(private): got = %v", err)
	}
}

func TestReadModelCard(t *testing.T) {
	h := newTestHub(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/org/model/raw/main/README.md":
			_, _ = w.Write([]byte("---\ntags: [nlp]\n---\n"))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	got, err := h.ReadModelCard(ctx, "org/model")
	if err != nil {
		t.Fatalf("ReadModelCard() = %v", err)
	}
	if want := "---\ntags: [nlp]\n---\n"; got != want {
		t.Errorf("ReadModelCard(): got = %q, wanted = %q", got, want)
	}

	got, err = h.ReadModelCard(ctx, "org/no-readme")
	if err != nil || got != "" {
		t.Errorf("ReadModelCard(no readme): got = %q, %v, wanted empty card", got, err)
	}
}

func TestProposeModelCard(t *testing.T) {
	var lines []map[string]json.RawMessage
	h := newTestHub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/models/org/model/commit/main" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("create_pr"); got != "1" {
			t.Errorf("create_pr: got = %q, wanted = 1", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-ndjson" {
			t.Errorf("Content-Type: got = %q", got)
		}
		sc := bufio.NewScanner(r.Body)
		for sc.Scan() {
			var line map[string]json.RawMessage
			if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
				t.Errorf("bad ndjson line %q: %v", sc.Text(), err)
			}
			lines = append(lines, line)
		}
		_, _ = w.Write([]byte(`{"commitUrl":"https://hf.co/org/model/commit/abc","pullRequestUrl":"https://hf.co/org/model/discussions/5"}`))
	})

	url, err := h.ProposeModelCard(context.Background(), "org/model", tagserver.Proposal{
		Tag:         "nlp",
		Content:     "---\ntags:\n- nlp\n---\n",
		Title:       `Add "nlp" tag`,
		Description: "adds nlp",
	})
	if err != nil {
		t.Fatalf("ProposeModelCard() = %v", err)
	}
	if want := "https://hf.co/org/model/discussions/5"; url != want {
		t.Errorf("url: got = %q, wanted = %q", url, want)
	}

	if len(lines) != 2 {
		t.Fatalf("ndjson lines: got = %d, wanted = 2", len(lines))
	}
	var header commitHeader
	if err := json.Unmarshal(lines[0]["value"], &header); err != nil {
		t.Fatalf("header: %v", err)
	}
	if diff := cmp.Diff(commitHeader{Summary: `Add "nlp" tag`, Description: "adds nlp"}, header); diff != "" {
		t.Errorf("header (-want +got):\n%s", diff)
	}
	var file commitFile
	if err := json.Unmarshal(lines[1]["value"], &file); err != nil {
		t.Fatalf("file: %v", err)
	}
	content, err := base64.StdEncoding.DecodeString(file.Content)
	if err != nil {
		t.Fatalf("decoding content: %v", err)
	}
	if file.Path != "README.md" || string(content) != "---\ntags:\n- nlp\n---\n" {
		t.Errorf("file: got = %+v (%q)", file, content)
	}
}

func TestProposeModelCardWithoutPullRequest(t *testing.T) {
	h := newTestHub(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"commitUrl":"https://hf.co/org/model/commit/abc"}`))
	})
	if _, err := h.ProposeModelCard(context.Background(), "org/model", tagserver.Proposal{Content: "x"}); err == nil {
		t.Error("ProposeModelCard(): got = nil, wanted error when no pull request is opened")
	}
}
