/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"
	"fmt"
	"maps"

	"github.com/bixoryai/mcp-course/agents/agenttrace"
	"github.com/chainguard-dev/clog"
)

// ToolCall is a provider-independent representation of a tool call.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// Definition describes a tool's name, purpose and input schema.
type Definition struct {
	Name        string
	Description string
	// InputSchema is a JSON Schema object describing the call arguments.
	InputSchema map[string]any
}

// Parameter describes a single top-level tool parameter.
type Parameter struct {
	Name        string
	Type        string // "string", "integer", "boolean", "number"
	Description string
	Required    bool
}

// NewDefinition builds a Definition whose input schema is an object with the
// given parameters.
func NewDefinition(name, description string, params ...Parameter) Definition {
	props := make(map[string]any, len(params))
	required := []string{}
	for _, p := range params {
		prop := map[string]any{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return Definition{
		Name:        name,
		Description: description,
		InputSchema: map[string]any{
			"type":       "object",
			"properties": props,
			"required":   required,
		},
	}
}

// Properties returns the "properties" member of the input schema, or an empty map.
func (d Definition) Properties() map[string]any {
	if p, ok := d.InputSchema["properties"].(map[string]any); ok {
		return p
	}
	return map[string]any{}
}

// Required returns the "required" member of the input schema.
func (d Definition) Required() []string {
	switch r := d.InputSchema["required"].(type) {
	case []string:
		return r
	case []any:
		out := make([]string, 0, len(r))
		for _, v := range r {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Schema returns the input schema with "type" defaulted to "object".
func (d Definition) Schema() map[string]any {
	s := maps.Clone(d.InputSchema)
	if s == nil {
		s = map[string]any{}
	}
	if _, ok := s["type"]; !ok {
		s["type"] = "object"
	}
	return s
}

// Handler carries out a tool call and returns its JSON-serializable result.
type Handler func(ctx context.Context, call ToolCall, trace *agenttrace.Trace) map[string]any

// Tool defines a tool once with a single handler that works with any provider.
type Tool struct {
	Def     Definition
	Handler Handler
}

// Dispatch runs the tool the call names and records it on the trace. An unknown
// tool is reported back to the model as an error response.
func Dispatch(ctx context.Context, tools map[string]Tool, call ToolCall, trace *agenttrace.Trace) map[string]any {
	log := clog.FromContext(ctx).With("tool", call.Name, "id", call.ID)

	tool, ok := tools[call.Name]
	if !ok {
		log.Error("Unknown tool requested")
		err := fmt.Errorf("unknown tool: %q", call.Name)
		trace.BadToolCall(call.ID, call.Name, call.Args, err)
		return Error("%v", err)
	}

	log.Info("Executing tool call")
	tc := trace.StartToolCall(call.ID, call.Name, call.Args)
	result := tool.Handler(ctx, call, trace)
	if msg, failed := result["error"]; failed {
		tc.Complete(result, fmt.Errorf("%v", msg))
	} else {
		tc.Complete(result, nil)
	}
	return result
}
