/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googletool

import (
	"testing"

	"github.com/bixoryai/mcp-course/agents/toolcall"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"
)

func TestDeclaration(t *testing.T) {
	def := toolcall.NewDefinition("add_new_tag", "Add a tag.",
		toolcall.Parameter{Name: "repo_id", Type: "string", Required: true},
		toolcall.Parameter{Name: "new_tag", Type: "string", Required: true})

	got := Declaration(def)
	if got.Name != "add_new_tag" || got.Description != "Add a tag." {
		t.Errorf("Declaration(): got = %+v", got)
	}
	schema, ok := got.ParametersJsonSchema.(map[string]any)
	if !ok {
		t.Fatalf("ParametersJsonSchema: got = %T, wanted map", got.ParametersJsonSchema)
	}
	if schema["type"] != "object" {
		t.Errorf("schema type: got = %v, wanted = object", schema["type"])
	}

	if Tools(nil) != nil {
		t.Error("Tools(nil): got = non-nil, wanted = nil")
	}
	if got := Tools(map[string]toolcall.Tool{def.Name: {Def: def}}); len(got) != 1 || len(got[0].FunctionDeclarations) != 1 {
		t.Errorf("Tools(): got = %v", got)
	}
}

func TestCallAndResponse(t *testing.T) {
	call := Call(&genai.FunctionCall{ID: "c1", Name: "get_current_tags"})
	if call.Args == nil {
		t.Error("Call(): Args = nil, wanted empty map")
	}

	part := Response(call, map[string]any{"tags": []string{"nlp"}})
	fr := part.FunctionResponse
	if fr == nil || fr.ID != "c1" || fr.Name != "get_current_tags" {
		t.Fatalf("Response(): got = %+v", part)
	}
	if diff := cmp.Diff(map[string]any{"tags": []string{"nlp"}}, fr.Response); diff != "" {
		t.Errorf("Response mismatch (-want +got):\n%s", diff)
	}
}
