/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package modelcard

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTags(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{{
		name:    "no front matter",
		content: "# Model\n\ntags: not front matter\n",
	}, {
		name:    "list",
		content: "---\nlicense: mit\ntags:\n- pytorch\n- nlp\n---\n# Model\n",
		want:    []string{"pytorch", "nlp"},
	}, {
		name:    "flow list",
		content: "---\ntags: [jax, cv]\n---\n",
		want:    []string{"jax", "cv"},
	}, {
		name:    "scalar",
		content: "---\ntags: onnx\n---\nbody",
		want:    []string{"onnx"},
	}, {
		name:    "no tags key",
		content: "---\nlicense: apache-2.0\n---\n",
	}, {
		name:    "empty front matter",
		content: "---\n---\nbody",
	}, {
		name:    "unterminated front matter",
		content: "---\ntags: [a]\n",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(tt.content)
			if err != nil {
				t.Fatalf("Parse() = %v", err)
			}
			if diff := cmp.Diff(tt.want, c.Tags()); diff != "" {
				t.Errorf("Tags() (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddTag(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		tag       string
		wantAdded bool
		wantTags  []string
		wantBody  string
	}{{
		name:      "append to list",
		content:   "---\nlicense: mit\ntags:\n- pytorch\n---\n# Model\n\nSome text.\n",
		tag:       "nlp",
		wantAdded: true,
		wantTags:  []string{"pytorch", "nlp"},
		wantBody:  "# Model\n\nSome text.\n",
	}, {
		name:      "already listed, case-insensitive",
		content:   "---\ntags:\n- PyTorch\n---\n",
		tag:       "pytorch",
		wantAdded: false,
		wantTags:  []string{"PyTorch"},
	}, {
		name:      "no front matter",
		content:   "# Model\n",
		tag:       "cv",
		wantAdded: true,
		wantTags:  []string{"cv"},
		wantBody:  "# Model\n",
	}, {
		name:      "no tags key",
		content:   "---\nlicense: mit\n---\nbody\n",
		tag:       "jax",
		wantAdded: true,
		wantTags:  []string{"jax"},
		wantBody:  "body\n",
	}, {
		name:      "scalar becomes list",
		content:   "---\ntags: onnx\n---\n",
		tag:       "cv",
		wantAdded: true,
		wantTags:  []string{"onnx", "cv"},
	}, {
		name:      "null tags",
		content:   "---\ntags:\n---\n",
		tag:       "cv",
		wantAdded: true,
		wantTags:  []string{"cv"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(tt.content)
			if err != nil {
				t.Fatalf("Parse() = %v", err)
			}
			if got := c.AddTag(tt.tag); got != tt.wantAdded {
				t.Errorf("AddTag(): got = %v, wanted = %v", got, tt.wantAdded)
			}

			// Re-parse the rendered card to check it round-trips.
			rendered := c.String()
			again, err := Parse(rendered)
			if err != nil {
				t.Fatalf("Parse(rendered) = %v\n%s", err, rendered)
			}
			if diff := cmp.Diff(tt.wantTags, again.Tags()); diff != "" {
				t.Errorf("Tags() after AddTag (-want +got):\n%s", diff)
			}
			if tt.wantBody != "" && !strings.HasSuffix(rendered, "---\n"+tt.wantBody) {
				t.Errorf("body not preserved:\n%s", rendered)
			}
		})
	}
}

func TestAddTagKeepsOtherMetadata(t *testing.T) {
	c, err := Parse("---\nlicense: mit\ndatasets:\n- squad\ntags:\n- nlp\n---\n")
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	c.AddTag("question-answering")
	got := c.String()
	for _, want := range []string{"license: mit", "- squad", "- nlp", "- question-answering"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() missing %q:\n%s", want, got)
		}
	}
}

func TestParseRejectsNonMapping(t *testing.T) {
	if _, err := Parse("---\n- a\n- b\n---\n"); err == nil {
		t.Error("Parse(): got = nil, wanted error for list front matter")
	}
}
