/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googletool converts toolcall definitions, calls and results to and
// from the Google GenAI SDK types.
package googletool

import (
	"github.com/bixoryai/mcp-course/agents/toolcall"
	"google.golang.org/genai"
)

// Declaration converts a tool definition to a function declaration. The input
// schema is passed through as JSON Schema.
func Declaration(def toolcall.Definition) *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:                 def.Name,
		Description:          def.Description,
		ParametersJsonSchema: def.Schema(),
	}
}

// Tools converts a tool set to the GenAI tool list, or nil when empty.
func Tools(tools map[string]toolcall.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, Declaration(t.Def))
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// Call converts a model function call into a provider-independent call.
func Call(fc *genai.FunctionCall) toolcall.ToolCall {
	args := fc.Args
	if args == nil {
		args = map[string]any{}
	}
	return toolcall.ToolCall{ID: fc.ID, Name: fc.Name, Args: args}
}

// Response wraps a handler result as a function response part.
func Response(call toolcall.ToolCall, result map[string]any) *genai.Part {
	return &genai.Part{
		FunctionResponse: &genai.FunctionResponse{
			ID:       call.ID,
			Name:     call.Name,
			Response: result,
		},
	}
}
