/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package modelcard reads and edits the YAML front matter of a model card
// README while leaving the rest of the document untouched.
package modelcard

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Card is a parsed model card.
type Card struct {
	// meta is the front matter mapping; nil when the card has none.
	meta *yaml.Node
	body string
}

// Parse splits content into front matter and body. Content without a
// front matter block is all body.
func Parse(content string) (*Card, error) {
	front, body, ok := split(content)
	if !ok {
		return &Card{body: content}, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(front), &doc); err != nil {
		return nil, fmt.Errorf("parsing front matter: %w", err)
	}
	c := &Card{body: body}
	switch {
	case doc.Kind == 0:
		// Empty front matter block.
		c.meta = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	case len(doc.Content) == 1 && doc.Content[0].Kind == yaml.MappingNode:
		c.meta = doc.Content[0]
	default:
		return nil, fmt.Errorf("front matter is not a mapping")
	}
	return c, nil
}

// split returns the text between the opening and closing delimiter lines and
// everything after the closing line.
func split(content string) (front, body string, ok bool) {
	first, rest, found := strings.Cut(content, "\n")
	if !found || strings.TrimRight(first, "\r") != delimiter {
		return "", "", false
	}
	var fm strings.Builder
	for rest != "" {
		line, after, _ := strings.Cut(rest, "\n")
		if strings.TrimRight(line, "\r") == delimiter {
			return fm.String(), after, true
		}
		fm.WriteString(line)
		fm.WriteByte('\n')
		rest = after
	}
	return "", "", false
}

// Tags returns the tags listed in the front matter.
func (c *Card) Tags() []string {
	n := c.tagsNode()
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "" {
			return nil
		}
		return []string{n.Value}
	case yaml.SequenceNode:
		tags := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind == yaml.ScalarNode && item.Value != "" {
				tags = append(tags, item.Value)
			}
		}
		return tags
	}
	return nil
}

// HasTag reports whether tag is listed, ignoring case.
func (c *Card) HasTag(tag string) bool {
	for _, t := range c.Tags() {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// AddTag appends tag to the front matter tag list, creating the front matter
// or the list if needed. It reports false when the tag is already listed.
func (c *Card) AddTag(tag string) bool {
	if c.HasTag(tag) {
		return false
	}
	if c.meta == nil {
		c.meta = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	item := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: tag}

	n := c.tagsNode()
	switch {
	case n == nil:
		c.meta.Content = append(c.meta.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "tags"},
			&yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: []*yaml.Node{item}},
		)
	case n.Kind == yaml.SequenceNode:
		n.Content = append(n.Content, item)
	default:
		// A scalar or null value becomes a list.
		var content []*yaml.Node
		if n.Kind == yaml.ScalarNode && n.Value != "" && n.Tag != "!!null" {
			content = append(content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Value})
		}
		*n = yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: append(content, item)}
	}
	return true
}

func (c *Card) tagsNode() *yaml.Node {
	if c.meta == nil {
		return nil
	}
	for i := 0; i+1 < len(c.meta.Content); i += 2 {
		if c.meta.Content[i].Value == "tags" {
			return c.meta.Content[i+1]
		}
	}
	return nil
}

// String renders the card.
func (c *Card) String() string {
	if c.meta == nil {
		return c.body
	}
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	if len(c.meta.Content) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		// Encoding a node built by Parse or AddTag cannot fail.
		_ = enc.Encode(c.meta)
		_ = enc.Close()
	}
	buf.WriteString(delimiter + "\n")
	buf.WriteString(c.body)
	return buf.String()
}
