/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package openaiexecutor runs agent conversations against any OpenAI-compatible
chat completions endpoint, including the Hugging Face inference router.

	client := openai.NewClient(
		option.WithAPIKey(hfToken),
		option.WithBaseURL(openaiexecutor.HuggingFaceRouterURL),
	)
	exec, err := openaiexecutor.New(client,
		executor.WithModel(openaiexecutor.RouterModel("Qwen/Qwen2.5-72B-Instruct", "nebius")))

The router selects the inference provider from the "model:provider" suffix.
*/
package openaiexecutor
