/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package agenttrace records what an agent did while carrying out one instruction.

A Trace covers a single agent run from instruction to final answer and holds
the tool calls made along the way. Each trace and tool call is also an
OpenTelemetry span. When a trace completes it is handed to the Tracer found in
the context (a clog-backed tracer by default).

	ctx = agenttrace.WithExecutionContext(ctx, agenttrace.ExecutionContext{
		RepoID:     "org/model",
		Discussion: 12,
	})
	trace := agenttrace.StartTrace(ctx, instruction)
	tc := trace.StartToolCall("call_1", "add_new_tag", args)
	tc.Complete(result, nil)
	trace.Complete(answer, nil)
*/
package agenttrace
