/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// segment is either literal text or a placeholder reference.
type segment struct {
	text        string
	placeholder bool
}

// parseTemplate splits a template into literal and placeholder segments.
func parseTemplate(tmpl string) ([]segment, error) {
	var out []segment
	for tmpl != "" {
		start := strings.Index(tmpl, openDelim)
		if start < 0 {
			out = append(out, segment{text: tmpl})
			break
		}
		if start > 0 {
			out = append(out, segment{text: tmpl[:start]})
		}
		rest := tmpl[start+len(openDelim):]
		end := strings.Index(rest, closeDelim)
		if end < 0 {
			return nil, errors.New("unclosed placeholder: missing '}}'")
		}
		name := strings.TrimSpace(rest[:end])
		if !isIdentifier(name) {
			return nil, fmt.Errorf("invalid placeholder name %q", name)
		}
		out = append(out, segment{text: name, placeholder: true})
		tmpl = rest[end+len(closeDelim):]
	}
	return out, nil
}

// isIdentifier reports whether s starts with a letter and continues with
// letters, digits or underscores.
func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_'):
		default:
			return false
		}
	}
	return s != ""
}
