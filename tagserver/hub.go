/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tagserver

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Hub when the repository does not exist.
var ErrNotFound = errors.New("repository not found")

// Proposal is a model card change to open as a pull request.
type Proposal struct {
	Tag         string
	Content     string
	Title       string
	Description string
}

// Hub stores model repositories.
type Hub interface {
	// Tags returns the repository's current tags.
	Tags(ctx context.Context, repoID string) ([]string, error)

	// ReadModelCard returns the README model card. A repository without one
	// yields an empty string.
	ReadModelCard(ctx context.Context, repoID string) (string, error)

	// ProposeModelCard opens a pull request replacing the model card and
	// returns its URL.
	ProposeModelCard(ctx context.Context, repoID string, p Proposal) (string, error)
}
