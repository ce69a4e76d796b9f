/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package toolcall defines provider-independent agent tools.
//
// A Tool pairs a Definition (name, description and JSON Schema for its input)
// with a Handler. Executors convert definitions to their SDK's types through
// the claudetool and googletool subpackages, decode the model's calls into a
// ToolCall and hand them to Dispatch.
//
// Handlers return a JSON-serializable map. Dispatch records every call on the
// agent trace. Failures are reported to the model
// as a map with an "error" key rather than as a Go error, so the model can
// correct itself:
//
//	tool := toolcall.Tool{
//		Def: toolcall.NewDefinition("get_current_tags", "List a repository's tags.",
//			toolcall.Parameter{Name: "repo_id", Type: "string", Required: true}),
//		Handler: func(ctx context.Context, call toolcall.ToolCall, trace *agenttrace.Trace) map[string]any {
//			repo, errResp := toolcall.Param[string](call, "repo_id")
//			if errResp != nil {
//				return errResp
//			}
//			...
//		},
//	}
package toolcall
