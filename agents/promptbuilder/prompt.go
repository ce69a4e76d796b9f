/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// literal restricts BindLiteral and NewPrompt to untyped string constants, so
// callers cannot pass runtime data by accident.
type literal string

// Prompt is an immutable template with zero or more bound placeholders.
type Prompt struct {
	segments []segment
	values   map[string]string
}

// NewPrompt parses a template. Every placeholder must be bound before Build.
func NewPrompt(template literal) (*Prompt, error) {
	segs, err := parseTemplate(string(template))
	if err != nil {
		return nil, err
	}
	return &Prompt{segments: segs, values: map[string]string{}}, nil
}

// MustNewPrompt is NewPrompt that panics on error, for package-level templates.
func MustNewPrompt(template literal) *Prompt {
	p, err := NewPrompt(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Placeholders returns the placeholder names that appear in the template.
func (p *Prompt) Placeholders() []string {
	var names []string
	seen := map[string]bool{}
	for _, s := range p.segments {
		if s.placeholder && !seen[s.text] {
			seen[s.text] = true
			names = append(names, s.text)
		}
	}
	return names
}

// BindLiteral binds a developer-controlled constant.
func (p *Prompt) BindLiteral(name string, value literal) (*Prompt, error) {
	return p.bind(name, string(value))
}

// BindJSON binds data encoded as JSON. Strings become quoted JSON strings.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding %q as JSON: %w", name, err)
	}
	return p.bind(name, string(b))
}

// MustBindJSON is BindJSON that panics on error.
func (p *Prompt) MustBindJSON(name string, data any) *Prompt {
	np, err := p.BindJSON(name, data)
	if err != nil {
		panic(err)
	}
	return np
}

func (p *Prompt) bind(name, value string) (*Prompt, error) {
	found := false
	for _, s := range p.segments {
		if s.placeholder && s.text == name {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("placeholder %q not found in template", name)
	}
	if _, ok := p.values[name]; ok {
		return nil, fmt.Errorf("placeholder %q already bound", name)
	}
	values := maps.Clone(p.values)
	values[name] = value
	return &Prompt{segments: p.segments, values: values}, nil
}

// Build renders the prompt. It fails if any placeholder is unbound.
func (p *Prompt) Build() (string, error) {
	var sb strings.Builder
	for _, s := range p.segments {
		if !s.placeholder {
			sb.WriteString(s.text)
			continue
		}
		v, ok := p.values[s.text]
		if !ok {
			return "", fmt.Errorf("unbound placeholder: %s", s.text)
		}
		sb.WriteString(v)
	}
	return sb.String(), nil
}
