/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package mcpbridge connects to a Model Context Protocol tool server and
// exposes its tools as toolcall.Tools that any agent executor can call.
//
//	client, err := mcpbridge.Connect(ctx, mcpbridge.ConnSpec{
//		Command: "tagserver",
//		Env:     map[string]string{"HF_TOKEN": token},
//	})
//	defer client.Close()
//	tools, err := client.Tools(ctx)
//
// Each discovered tool forwards calls over the session. A tool result marked
// as an error is returned to the model as {"error": text}.
package mcpbridge
