/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package result pulls JSON out of free-text model answers.

Models asked to report a tool result often wrap it in prose or a markdown
code block:

	The tag was proposed.

	```json
	{"status": "success", "pr_url": "https://huggingface.co/org/model/discussions/4"}
	```

ExtractJSON returns the JSON text and Extract decodes it:

	type status struct {
		Status string `json:"status"`
	}
	s, err := result.Extract[status](answer)

A fenced ```json block wins. Otherwise the first balanced JSON object in the
text is used, and if there is none the trimmed text is returned unchanged so
the decode error names the real input.
*/
package result
