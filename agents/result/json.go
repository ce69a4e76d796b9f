/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"encoding/json"
	"strings"
)

// ExtractJSON returns the JSON content of a model answer.
func ExtractJSON(text string) string {
	if block, ok := fenced(text); ok {
		return block
	}
	trimmed := strings.TrimSpace(text)
	if obj, ok := firstObject(trimmed); ok {
		return obj
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

// fenced returns the body of the first ```json block. An empty block yields
// an empty string.
func fenced(text string) (string, bool) {
	var body []string
	in := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case !in && trimmed == "```json":
			in = true
		case in && trimmed == "```":
			return strings.TrimSpace(strings.Join(body, "\n")), true
		case in:
			body = append(body, line)
		}
	}
	if in {
		return strings.TrimSpace(strings.Join(body, "\n")), true
	}
	return "", false
}

// firstObject finds the first balanced {...} that is valid JSON.
func firstObject(text string) (string, bool) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end, ok := matchBrace(text[start:]); ok {
			candidate := text[start : start+end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, true
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// matchBrace returns the index of the brace closing s[0], skipping string
// literals.
func matchBrace(s string) (int, bool) {
	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// Extract decodes the JSON content of text into T.
func Extract[T any](text string) (T, error) {
	var out T
	err := json.Unmarshal([]byte(ExtractJSON(text)), &out)
	return out, err
}
