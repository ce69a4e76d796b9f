/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tagreconciler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bixoryai/mcp-course/agents/schema"
)

// ErrMalformedEvent is returned when an event lacks a required field.
var ErrMalformedEvent = errors.New("malformed event")

// Webhook envelope values that trigger reconciliation.
const (
	ActionCreate           = "create"
	ScopeDiscussionComment = "discussion.comment"
)

// Event is a discussion comment notification.
type Event struct {
	Event      Envelope    `json:"event" jsonschema:"description=Webhook envelope"`
	Comment    *Comment    `json:"comment" jsonschema:"required"`
	Discussion *Discussion `json:"discussion" jsonschema:"required"`
	Repo       *Repo       `json:"repo" jsonschema:"required"`
}

// Envelope says what happened and to which kind of object.
type Envelope struct {
	Action string `json:"action,omitempty" jsonschema:"example=create"`
	Scope  string `json:"scope,omitempty" jsonschema:"example=discussion.comment"`
}

// Comment is the comment that triggered the event.
type Comment struct {
	Content string `json:"content" jsonschema:"required,description=Comment body"`
}

// Discussion is the discussion the comment belongs to.
type Discussion struct {
	Title string `json:"title" jsonschema:"required"`
	Num   int    `json:"num,omitempty"`
}

// Repo identifies the repository the discussion belongs to.
type Repo struct {
	Name string `json:"name" jsonschema:"required,description=Repository id such as org/model"`
}

// ParseEvent decodes and validates a JSON event.
func ParseEvent(b []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(b, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Validate checks that the fields reconciliation depends on are present.
// An empty comment or title is allowed; a missing one is not.
func (e Event) Validate() error {
	var missing []string
	if e.Comment == nil {
		missing = append(missing, "comment.content")
	}
	if e.Discussion == nil {
		missing = append(missing, "discussion.title")
	}
	if e.Repo == nil || strings.TrimSpace(e.Repo.Name) == "" {
		missing = append(missing, "repo.name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMalformedEvent, strings.Join(missing, ", "))
	}
	return nil
}

// RepoID returns the repository id.
func (e Event) RepoID() string {
	if e.Repo == nil {
		return ""
	}
	return e.Repo.Name
}

// IsNewComment reports whether the envelope announces a newly created
// discussion comment.
func (e Event) IsNewComment() bool {
	return e.Event.Action == ActionCreate && e.Event.Scope == ScopeDiscussionComment
}

// EventSchema returns the JSON schema of the event payload.
func EventSchema() ([]byte, error) {
	return schema.Document[Event]("Discussion comment event")
}
