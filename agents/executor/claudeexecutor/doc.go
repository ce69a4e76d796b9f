/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package claudeexecutor runs agent conversations against Anthropic's Claude
models.

	client := anthropic.NewClient(option.WithAPIKey(key))
	exec, err := claudeexecutor.New(client,
		executor.WithModel("claude-sonnet-4-5"),
		executor.WithSystemInstructions(instructions),
	)
	answer, err := exec.Execute(ctx, "Add the tag \"nlp\" to \"org/model\".", tools)

Responses are streamed and accumulated. Rate limit and overload errors are
retried with backoff. Token usage and tool calls are recorded as OpenTelemetry
metrics and on the agent trace.
*/
package claudeexecutor
