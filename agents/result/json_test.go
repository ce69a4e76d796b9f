/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{{
		name: "plain json",
		text: `  {"status":"success"}  `,
		want: `{"status":"success"}`,
	}, {
		name: "fenced block",
		text: "Done.\n\n```json\n{\"status\": \"already_exists\"}\n```\nAnything else?",
		want: `{"status": "already_exists"}`,
	}, {
		name: "indented fence",
		text: "  ```json\n  {\"a\": 1}\n  ```",
		want: `{"a": 1}`,
	}, {
		name: "unterminated fence",
		text: "```json\n{\"a\": 1}",
		want: `{"a": 1}`,
	}, {
		name: "empty fence",
		text: "```json\n```",
		want: "",
	}, {
		name: "object in prose",
		text: `The tool answered {"status":"success","pr_url":"https://x/1"} so we are done.`,
		want: `{"status":"success","pr_url":"https://x/1"}`,
	}, {
		name: "braces inside strings",
		text: `Result: {"message":"use {curly} braces","status":"error"}`,
		want: `{"message":"use {curly} braces","status":"error"}`,
	}, {
		name: "skips invalid object",
		text: `I tried {not json} and got {"status":"success"}`,
		want: `{"status":"success"}`,
	}, {
		name: "bare fence",
		text: "```\n[1,2]\n```",
		want: "[1,2]",
	}, {
		name: "no json",
		text: " The tag was added successfully. ",
		want: "The tag was added successfully.",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.text); got != tt.want {
				t.Errorf("ExtractJSON(): got = %q, wanted = %q", got, tt.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	type status struct {
		Status string `json:"status"`
		PRURL  string `json:"pr_url,omitempty"`
	}

	got, err := Extract[status]("Opened it:\n```json\n{\"status\":\"success\",\"pr_url\":\"https://x/2\"}\n```")
	if err != nil {
		t.Fatalf("Extract() = %v", err)
	}
	if diff := cmp.Diff(status{Status: "success", PRURL: "https://x/2"}, got); diff != "" {
		t.Errorf("Extract() (-want +got):\n%s", diff)
	}

	if _, err := Extract[status]("no structured answer"); err == nil {
		t.Error("Extract(): got = nil, wanted decode error")
	}
}
