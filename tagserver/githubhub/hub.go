/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package githubhub implements tagserver.Hub for model cards kept in GitHub
// repositories. Tags live in the README front matter and new tags are
// proposed as pull requests from a dedicated branch.
package githubhub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bixoryai/mcp-course/tagserver"
	"github.com/bixoryai/mcp-course/tagserver/modelcard"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
)

// DefaultBranchPrefix prefixes the branches pull requests are opened from.
const DefaultBranchPrefix = "tagbot"

const readmePath = "README.md"

// NewClient returns a GitHub client authenticated with a static token.
func NewClient(ctx context.Context, token string) *github.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(ctx, ts))
}

// Option configures a Hub.
type Option func(*Hub)

// WithBranchPrefix sets the prefix of pull request branches.
func WithBranchPrefix(prefix string) Option {
	return func(h *Hub) {
		if prefix != "" {
			h.branchPrefix = strings.Trim(prefix, "/")
		}
	}
}

// Hub reads and proposes model cards through the GitHub API.
type Hub struct {
	client       *github.Client
	branchPrefix string
}

var _ tagserver.Hub = (*Hub)(nil)

// New returns a Hub using client.
func New(client *github.Client, opts ...Option) *Hub {
	h := &Hub{client: client, branchPrefix: DefaultBranchPrefix}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Tags implements tagserver.Hub by reading the model card front matter.
func (h *Hub) Tags(ctx context.Context, repoID string) ([]string, error) {
	owner, repo, err := splitRepo(repoID)
	if err != nil {
		return nil, err
	}
	if _, _, err := h.client.Repositories.Get(ctx, owner, repo); err != nil {
		return nil, wrap(err, "getting repository")
	}
	content, _, err := h.readme(ctx, owner, repo, "")
	if err != nil {
		return nil, err
	}
	card, err := modelcard.Parse(content)
	if err != nil {
		return nil, err
	}
	return card.Tags(), nil
}

// ReadModelCard implements tagserver.Hub.
func (h *Hub) ReadModelCard(ctx context.Context, repoID string) (string, error) {
	owner, repo, err := splitRepo(repoID)
	if err != nil {
		return "", err
	}
	content, _, err := h.readme(ctx, owner, repo, "")
	return content, err
}

// readme returns the README content and blob SHA at ref, or empty strings
// when there is none.
func (h *Hub) readme(ctx context.Context, owner, repo, ref string) (string, string, error) {
	file, _, _, err := h.client.Repositories.GetContents(ctx, owner, repo, readmePath, &github.RepositoryContentGetOptions{Ref: ref})
	if isNotFound(err) {
		return "", "", nil
	}
	if err != nil {
		return "", "", wrap(err, "reading "+readmePath)
	}
	if file == nil {
		return "", "", fmt.Errorf("%s is not a file", readmePath)
	}
	content, err := file.GetContent()
	if err != nil {
		return "", "", fmt.Errorf("decoding %s: %w", readmePath, err)
	}
	return content, file.GetSHA(), nil
}

// ProposeModelCard implements tagserver.Hub. It reuses an open pull request
// from the tag's branch when one exists.
func (h *Hub) ProposeModelCard(ctx context.Context, repoID string, p tagserver.Proposal) (string, error) {
	owner, repo, err := splitRepo(repoID)
	if err != nil {
		return "", err
	}
	branch := h.branchName(p.Tag)
	log := clog.FromContext(ctx).With("repo", repoID, "branch", branch)

	open, _, err := h.client.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
		Head:  owner + ":" + branch,
		State: "open",
	})
	if err != nil {
		return "", wrap(err, "listing pull requests")
	}
	if len(open) > 0 {
		log.With("pr", open[0].GetNumber()).Info("Pull request already open")
		return open[0].GetHTMLURL(), nil
	}

	r, _, err := h.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", wrap(err, "getting repository")
	}
	base := r.GetDefaultBranch()

	ref, _, err := h.client.Git.GetRef(ctx, owner, repo, "heads/"+base)
	if err != nil {
		return "", wrap(err, "resolving "+base)
	}
	if err := h.createBranch(ctx, owner, repo, branch, ref.GetObject().GetSHA()); err != nil {
		return "", err
	}

	_, sha, err := h.readme(ctx, owner, repo, branch)
	if err != nil {
		return "", err
	}
	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(p.Title),
		Content: []byte(p.Content),
		Branch:  github.Ptr(branch),
	}
	if sha == "" {
		_, _, err = h.client.Repositories.CreateFile(ctx, owner, repo, readmePath, opts)
	} else {
		opts.SHA = github.Ptr(sha)
		_, _, err = h.client.Repositories.UpdateFile(ctx, owner, repo, readmePath, opts)
	}
	if err != nil {
		return "", wrap(err, "committing "+readmePath)
	}

	pr, _, err := h.client.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.Ptr(p.Title),
		Body:  github.Ptr(p.Description),
		Head:  github.Ptr(branch),
		Base:  github.Ptr(base),
	})
	if err != nil {
		return "", wrap(err, "creating pull request")
	}
	log.With("pr", pr.GetNumber()).Info("Opened pull request")
	return pr.GetHTMLURL(), nil
}

type createRef struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// createBranch creates refs/heads/branch at sha. An existing branch is
// reused since its pull request may have been closed.
func (h *Hub) createBranch(ctx context.Context, owner, repo, branch, sha string) error {
	req, err := h.client.NewRequest(http.MethodPost, fmt.Sprintf("repos/%s/%s/git/refs", owner, repo), createRef{
		Ref: "refs/heads/" + branch,
		SHA: sha,
	})
	if err != nil {
		return fmt.Errorf("creating branch request: %w", err)
	}
	resp, err := h.client.Do(ctx, req, nil)
	if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
		clog.FromContext(ctx).With("branch", branch).Info("Branch already exists")
		return nil
	}
	if err != nil {
		return wrap(err, "creating branch "+branch)
	}
	return nil
}

func (h *Hub) branchName(tag string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(tag) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	return h.branchPrefix + "/add-" + sb.String()
}

func splitRepo(repoID string) (string, string, error) {
	owner, repo, ok := strings.Cut(repoID, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("repository id %q is not of the form owner/name", repoID)
	}
	return owner, repo, nil
}

func isNotFound(err error) bool {
	var gerr *github.ErrorResponse
	return errors.As(err, &gerr) && gerr.Response != nil && gerr.Response.StatusCode == http.StatusNotFound
}

func wrap(err error, what string) error {
	if isNotFound(err) {
		return fmt.Errorf("%s: %w", what, tagserver.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}
