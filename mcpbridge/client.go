/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package mcpbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bixoryai/mcp-course/agents/agenttrace"
	"github.com/bixoryai/mcp-course/agents/toolcall"
	"github.com/chainguard-dev/clog"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ConnSpec describes how to launch a tool server over stdio.
type ConnSpec struct {
	Command string
	Args    []string
	// Env is added to the current process environment.
	Env map[string]string
	// Version is reported to the server as the client version.
	Version string
}

// Client is a connected tool server session.
type Client struct {
	session *gomcp.ClientSession
}

var _ toolcall.ToolProvider = (*Client)(nil)

// Connect launches the tool server process and completes the protocol handshake.
func Connect(ctx context.Context, spec ConnSpec) (*Client, error) {
	if spec.Command == "" {
		return nil, errors.New("tool server command is required")
	}
	cmd := exec.Command(spec.Command, spec.Args...)
	cmd.Env = os.Environ()
	for k, v := range spec.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stderr = os.Stderr

	clog.FromContext(ctx).With("command", spec.Command).Info("Launching tool server")
	return ConnectTransport(ctx, &gomcp.CommandTransport{Command: cmd}, spec.Version)
}

// ConnectTransport completes the handshake over an existing transport.
func ConnectTransport(ctx context.Context, transport gomcp.Transport, version string) (*Client, error) {
	if version == "" {
		version = "dev"
	}
	client := gomcp.NewClient(&gomcp.Implementation{Name: "tagbot", Version: version}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to tool server: %w", err)
	}
	return &Client{session: session}, nil
}

// Close ends the session and, for command transports, stops the server process.
func (c *Client) Close() error {
	return c.session.Close()
}

// Tools lists every tool the server offers, following pagination.
func (c *Client) Tools(ctx context.Context) (map[string]toolcall.Tool, error) {
	tools := map[string]toolcall.Tool{}
	params := &gomcp.ListToolsParams{}
	for {
		res, err := c.session.ListTools(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("listing tools: %w", err)
		}
		for _, t := range res.Tools {
			def, err := definition(t)
			if err != nil {
				return nil, err
			}
			tools[def.Name] = toolcall.Tool{Def: def, Handler: c.handler(def)}
		}
		if res.NextCursor == "" {
			break
		}
		params = &gomcp.ListToolsParams{Cursor: res.NextCursor}
	}
	clog.FromContext(ctx).With("tools", len(tools)).Info("Discovered tools")
	return tools, nil
}

func definition(t *gomcp.Tool) (toolcall.Definition, error) {
	def := toolcall.Definition{Name: t.Name, Description: t.Description}
	if t.InputSchema == nil {
		return def, nil
	}
	b, err := json.Marshal(t.InputSchema)
	if err != nil {
		return def, fmt.Errorf("encoding schema of tool %q: %w", t.Name, err)
	}
	if err := json.Unmarshal(b, &def.InputSchema); err != nil {
		return def, fmt.Errorf("decoding schema of tool %q: %w", t.Name, err)
	}
	return def, nil
}

// handler forwards calls to the server. Missing required arguments are
// reported to the model without a round trip.
func (c *Client) handler(def toolcall.Definition) toolcall.Handler {
	name := def.Name
	required := requiredArgs(def)
	return func(ctx context.Context, call toolcall.ToolCall, _ *agenttrace.Trace) map[string]any {
		for _, arg := range required {
			if _, errResp := toolcall.Param[any](call, arg); errResp != nil {
				return errResp
			}
		}
		res, err := c.session.CallTool(ctx, &gomcp.CallToolParams{Name: name, Arguments: call.Args})
		if err != nil {
			return toolcall.Error("calling %s: %v", name, err)
		}
		return resultMap(res)
	}
}

func requiredArgs(def toolcall.Definition) []string {
	raw, _ := def.InputSchema["required"].([]any)
	names := make([]string, 0, len(raw))
	for _, r := range raw {
		if n, ok := r.(string); ok {
			names = append(names, n)
		}
	}
	return names
}

// resultMap flattens a tool result into the map handed back to the model.
// Structured content wins; otherwise text is decoded when it is a JSON object.
func resultMap(res *gomcp.CallToolResult) map[string]any {
	text := textOf(res)
	if res.IsError {
		return map[string]any{"error": text}
	}
	if res.StructuredContent != nil {
		if m, err := toMap(res.StructuredContent); err == nil {
			return m
		}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(text), &m); err == nil && m != nil {
		return m
	}
	return map[string]any{"result": text}
}

func textOf(res *gomcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if tc, ok := c.(*gomcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func toMap(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
