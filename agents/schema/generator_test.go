/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/bixoryai/mcp-course/agents/schema"
	"github.com/google/go-cmp/cmp"
)

type comment struct {
	Content string `json:"content" jsonschema:"required,description=Comment body"`
}

type payload struct {
	Comment *comment `json:"comment" jsonschema:"required"`
	Note    string   `json:"note,omitempty"`
}

func TestReflect(t *testing.T) {
	s := schema.Reflect(&payload{})
	if diff := cmp.Diff([]string{"comment"}, s.Required); diff != "" {
		t.Errorf("required (-want +got):\n%s", diff)
	}

	c, ok := s.Properties.Get("comment")
	if !ok {
		t.Fatal("missing comment property")
	}
	if c.Ref != "" {
		t.Errorf("comment ref: got = %q, wanted inline schema", c.Ref)
	}
	content, ok := c.Properties.Get("content")
	if !ok {
		t.Fatal("missing comment.content property")
	}
	if got, want := content.Description, "Comment body"; got != want {
		t.Errorf("description: got = %q, wanted = %q", got, want)
	}
	if diff := cmp.Diff([]string{"content"}, c.Required); diff != "" {
		t.Errorf("nested required (-want +got):\n%s", diff)
	}
}

func TestDocument(t *testing.T) {
	b, err := schema.Document[payload]("Payload")
	if err != nil {
		t.Fatalf("Document() = %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("Unmarshal() = %v", err)
	}
	if got, want := doc["title"], "Payload"; got != want {
		t.Errorf("title: got = %v, wanted = %v", got, want)
	}
	if got, want := doc["type"], "object"; got != want {
		t.Errorf("type: got = %v, wanted = %v", got, want)
	}
}
