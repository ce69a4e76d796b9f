/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudetool converts toolcall definitions, calls and results to and
// from the Anthropic SDK types.
package claudetool

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/bixoryai/mcp-course/agents/toolcall"
)

// Definition converts a tool definition to an Anthropic tool parameter.
func Definition(def toolcall.Definition) anthropic.ToolParam {
	schema := anthropic.ToolInputSchemaParam{
		Properties: def.Properties(),
		Required:   def.Required(),
	}
	return anthropic.ToolParam{
		Name:        def.Name,
		Description: anthropic.String(def.Description),
		InputSchema: schema,
	}
}

// Tools converts a tool set to the union parameters a message request takes.
func Tools(tools map[string]toolcall.Tool) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		p := Definition(t.Def)
		out = append(out, anthropic.ToolUnionParam{OfTool: &p})
	}
	return out
}

// Call decodes a tool use block into a provider-independent call.
func Call(block anthropic.ToolUseBlock) (toolcall.ToolCall, error) {
	call := toolcall.ToolCall{ID: block.ID, Name: block.Name, Args: map[string]any{}}
	if len(block.Input) == 0 {
		return call, nil
	}
	if err := json.Unmarshal(block.Input, &call.Args); err != nil {
		return call, fmt.Errorf("failed to parse tool input: %w", err)
	}
	return call, nil
}

// Result encodes a handler result as a tool result block.
func Result(toolUseID string, result map[string]any) (anthropic.ContentBlockParamUnion, error) {
	b, err := json.Marshal(result)
	if err != nil {
		return anthropic.ContentBlockParamUnion{}, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	_, isErr := result["error"]
	return anthropic.ContentBlockParamUnion{
		OfToolResult: &anthropic.ToolResultBlockParam{
			ToolUseID: toolUseID,
			IsError:   anthropic.Bool(isErr),
			Content: []anthropic.ToolResultBlockParamContentUnion{{
				OfText: &anthropic.TextBlockParam{Text: string(b)},
			}},
		},
	}, nil
}
