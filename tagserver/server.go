/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tagserver

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/bixoryai/mcp-course/tagserver/modelcard"
	"github.com/chainguard-dev/clog"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	ToolGetCurrentTags = "get_current_tags"
	ToolAddNewTag      = "add_new_tag"
)

// Status values reported by add_new_tag.
const (
	StatusSuccess       = "success"
	StatusAlreadyExists = "already_exists"
	StatusError         = "error"
)

const maxTagLength = 64

// Server exposes a Hub as MCP tools.
type Server struct {
	server *gomcp.Server
	hub    Hub
}

// NewServer registers the tag tools for hub.
func NewServer(hub Hub, version string) *Server {
	if version == "" {
		version = "dev"
	}
	s := &Server{
		hub:    hub,
		server: gomcp.NewServer(&gomcp.Implementation{Name: "tagserver", Version: version}, nil),
	}

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        ToolGetCurrentTags,
		Description: "Get the current tags of a model repository.",
	}, s.handleGetCurrentTags)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name: ToolAddNewTag,
		Description: "Add a tag to a model repository by opening a pull request that edits the README model card. " +
			"Returns status already_exists when the repository already has the tag.",
	}, s.handleAddNewTag)

	return s
}

// Run serves over stdio until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

type getCurrentTagsInput struct {
	RepoID string `json:"repo_id" jsonschema:"the repository id, e.g. org/model"`
}

type getCurrentTagsOutput struct {
	RepoID string   `json:"repo_id"`
	Tags   []string `json:"tags"`
}

type addNewTagInput struct {
	RepoID string `json:"repo_id" jsonschema:"the repository id, e.g. org/model"`
	NewTag string `json:"new_tag" jsonschema:"the tag to add"`
}

type addNewTagOutput struct {
	Status  string `json:"status"`
	Tag     string `json:"tag,omitempty"`
	PRURL   string `json:"pr_url,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleGetCurrentTags(ctx context.Context, _ *gomcp.CallToolRequest, in getCurrentTagsInput) (*gomcp.CallToolResult, getCurrentTagsOutput, error) {
	repo := strings.TrimSpace(in.RepoID)
	if repo == "" {
		return errorResult("repo_id is required"), getCurrentTagsOutput{}, nil
	}
	tags, err := s.hub.Tags(ctx, repo)
	if err != nil {
		clog.FromContext(ctx).With("repo", repo, "error", err).Warn("Failed to read tags")
		return errorResult(fmt.Sprintf("reading tags of %s: %s", repo, err)), getCurrentTagsOutput{}, nil
	}
	if tags == nil {
		tags = []string{}
	}
	return nil, getCurrentTagsOutput{RepoID: repo, Tags: tags}, nil
}

func (s *Server) handleAddNewTag(ctx context.Context, _ *gomcp.CallToolRequest, in addNewTagInput) (*gomcp.CallToolResult, addNewTagOutput, error) {
	repo := strings.TrimSpace(in.RepoID)
	tag := strings.ToLower(strings.TrimSpace(in.NewTag))
	log := clog.FromContext(ctx).With("repo", repo, "tag", tag)

	if repo == "" {
		return nil, failed("repo_id is required"), nil
	}
	if err := validateTag(tag); err != nil {
		return nil, failed(err.Error()), nil
	}

	current, err := s.hub.Tags(ctx, repo)
	if err != nil {
		log.With("error", err).Warn("Failed to read tags")
		return nil, failed(fmt.Sprintf("reading tags of %s: %s", repo, err)), nil
	}
	if slices.ContainsFunc(current, func(t string) bool { return strings.EqualFold(t, tag) }) {
		log.Info("Tag already present")
		return nil, addNewTagOutput{Status: StatusAlreadyExists, Tag: tag}, nil
	}

	content, err := s.hub.ReadModelCard(ctx, repo)
	if err != nil {
		return nil, failed(fmt.Sprintf("reading model card of %s: %s", repo, err)), nil
	}
	card, err := modelcard.Parse(content)
	if err != nil {
		return nil, failed(fmt.Sprintf("model card of %s: %s", repo, err)), nil
	}
	// The hub's tag list can differ from the card, e.g. tags derived from the
	// library; a card that already lists the tag needs no change.
	if !card.AddTag(tag) {
		log.Info("Tag already in model card")
		return nil, addNewTagOutput{Status: StatusAlreadyExists, Tag: tag}, nil
	}

	url, err := s.hub.ProposeModelCard(ctx, repo, Proposal{
		Tag:         tag,
		Content:     card.String(),
		Title:       fmt.Sprintf("Add %q tag", tag),
		Description: fmt.Sprintf("This pull request adds the `%s` tag to the model card metadata.", tag),
	})
	if err != nil {
		log.With("error", err).Warn("Failed to open pull request")
		return nil, failed(fmt.Sprintf("opening pull request on %s: %s", repo, err)), nil
	}
	log.With("pr_url", url).Info("Opened tag pull request")
	return nil, addNewTagOutput{Status: StatusSuccess, Tag: tag, PRURL: url}, nil
}

// validateTag accepts letters, digits and the separators - _ . :.
func validateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("new_tag is required")
	}
	if len(tag) > maxTagLength {
		return fmt.Errorf("tag %q is longer than %d characters", tag, maxTagLength)
	}
	for _, r := range tag {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_.:", r) {
			continue
		}
		return fmt.Errorf("tag %q contains invalid character %q", tag, r)
	}
	return nil
}

func failed(msg string) addNewTagOutput {
	return addNewTagOutput{Status: StatusError, Message: msg}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
