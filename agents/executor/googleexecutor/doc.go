/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package googleexecutor runs agent conversations against Google's Gemini models
through the GenAI SDK.

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	exec, err := googleexecutor.New(client, executor.WithModel("gemini-2.5-flash"))
	answer, err := exec.Execute(ctx, instruction, tools)

Tool input schemas are passed to the model as JSON Schema. A malformed
function call is answered with a request to try again using the declared
functions.
*/
package googleexecutor
