/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"
	"maps"
)

// ToolProvider supplies the tools an agent may call.
type ToolProvider interface {
	Tools(ctx context.Context) (map[string]Tool, error)
}

// Static is a ToolProvider over a fixed set of tools.
type Static map[string]Tool

// Tools implements ToolProvider.
func (s Static) Tools(context.Context) (map[string]Tool, error) {
	return maps.Clone(map[string]Tool(s)), nil
}

// NewStatic indexes tools by definition name.
func NewStatic(tools ...Tool) Static {
	s := make(Static, len(tools))
	for _, t := range tools {
		s[t.Def.Name] = t
	}
	return s
}
