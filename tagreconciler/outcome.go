/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tagreconciler

import (
	"fmt"
	"strings"

	"github.com/bixoryai/mcp-course/agents/result"
)

// Kind classifies how reconciling one tag ended.
type Kind string

const (
	Added          Kind = "added"
	AlreadyPresent Kind = "already_present"
	Unclear        Kind = "unclear"
	Error          Kind = "error"
)

// Outcome is the result of reconciling one tag.
type Outcome struct {
	Tag    string `json:"tag"`
	Kind   Kind   `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

func (o Outcome) String() string {
	switch o.Kind {
	case Added:
		return fmt.Sprintf("Tag '%s': added (%s)", o.Tag, o.Detail)
	case AlreadyPresent:
		return fmt.Sprintf("Tag '%s': already present", o.Tag)
	case Error:
		return fmt.Sprintf("Tag '%s': error: %s", o.Tag, o.Detail)
	default:
		return fmt.Sprintf("Tag '%s': unclear response: %s", o.Tag, o.Detail)
	}
}

// Classifier maps the agent's answer for one tag to a Kind.
type Classifier func(response string) Kind

// LexicalClassifier looks for success and already-exists wording in the
// agent's answer. Success wins, since an answer reporting a new pull request
// often lists the tags the repository already has. Anything else is Unclear.
func LexicalClassifier(response string) Kind {
	lower := strings.ToLower(response)
	switch {
	case strings.Contains(lower, "success") &&
		!strings.Contains(lower, "unsuccessful") &&
		!strings.Contains(lower, "not success"):
		return Added
	case strings.Contains(lower, "already_exists"),
		strings.Contains(lower, "already exists"),
		strings.Contains(lower, "already present"),
		strings.Contains(lower, "already has"):
		return AlreadyPresent
	default:
		return Unclear
	}
}

// StatusClassifier reads the add_new_tag status object when the agent echoes
// it back, and falls back to LexicalClassifier otherwise.
func StatusClassifier(response string) Kind {
	type status struct {
		Status string `json:"status"`
	}
	s, err := result.Extract[status](response)
	if err != nil {
		return LexicalClassifier(response)
	}
	switch s.Status {
	case "success":
		return Added
	case "already_exists":
		return AlreadyPresent
	case "error":
		return Error
	default:
		return LexicalClassifier(response)
	}
}

// Report is everything Process has to say about one event.
type Report struct {
	// Notice is set when the batch ended before any per-tag work.
	Notice   string    `json:"notice,omitempty"`
	Outcomes []Outcome `json:"outcomes,omitempty"`
}

// Lines renders the report as human-readable result strings.
func (r Report) Lines() []string {
	lines := make([]string, 0, len(r.Outcomes)+1)
	if r.Notice != "" {
		lines = append(lines, r.Notice)
	}
	for _, o := range r.Outcomes {
		lines = append(lines, o.String())
	}
	return lines
}
