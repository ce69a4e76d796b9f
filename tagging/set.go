/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tagging

import (
	"slices"
	"strings"
)

// Set is a set of normalized tags.
type Set map[string]struct{}

// NewSet returns a Set holding the normalized form of each non-empty tag.
func NewSet(tags ...string) Set {
	s := make(Set, len(tags))
	s.Add(tags...)
	return s
}

// Add inserts the normalized form of each tag, skipping empty ones.
func (s Set) Add(tags ...string) {
	for _, t := range tags {
		if t = Normalize(t); t != "" {
			s[t] = struct{}{}
		}
	}
}

// Has reports whether the normalized tag is in the set.
func (s Set) Has(tag string) bool {
	_, ok := s[Normalize(tag)]
	return ok
}

// Union returns a new set holding the members of s and other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for t := range s {
		out[t] = struct{}{}
	}
	for t := range other {
		out[t] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Normalize lowercases and trims a tag.
func Normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
