/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tagging

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// explicitListRegex matches "tag: a" or "tags: a, b, c" up to the end of the
	// line. The list may start on the line after the colon.
	explicitListRegex = regexp.MustCompile(`(?i)\btags?:\s*([\p{L}\p{N}_,\- \t]+)`)

	// hashtagRegex matches "#name" where name is letters, digits, '-' or '_'.
	hashtagRegex = regexp.MustCompile(`#([\p{L}\p{N}_-]+)`)
)

// Source identifies the strategy that produced a candidate.
type Source string

const (
	SourceExplicit   Source = "explicit"
	SourceHashtag    Source = "hashtag"
	SourceVocabulary Source = "vocabulary"
)

// Candidate is a tag together with the strategy that found it.
type Candidate struct {
	Tag    string
	Source Source
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSubstringMatching makes vocabulary mentions match anywhere in the text
// instead of on whole tokens.
func WithSubstringMatching() Option {
	return func(e *Extractor) {
		e.substring = true
	}
}

// Extractor extracts candidate tags from text against a vocabulary.
type Extractor struct {
	vocab     *Vocabulary
	substring bool
}

// NewExtractor returns an Extractor for the given vocabulary. A nil vocabulary
// means DefaultVocabulary.
func NewExtractor(vocab *Vocabulary, opts ...Option) *Extractor {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	e := &Extractor{vocab: vocab}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultExtractor = NewExtractor(nil)

// Extract runs the default extractor over text.
func Extract(text string) Set {
	return defaultExtractor.Extract(text)
}

// Vocabulary returns the vocabulary the extractor filters mentions against.
func (e *Extractor) Vocabulary() *Vocabulary {
	return e.vocab
}

// Extract returns the set of candidate tags found in text.
func (e *Extractor) Extract(text string) Set {
	out := make(Set)
	for _, c := range e.Candidates(text) {
		out[c.Tag] = struct{}{}
	}
	return out
}

// Candidates returns every candidate found in text with its source. A tag found by
// several strategies appears once per strategy, explicit first.
func (e *Extractor) Candidates(text string) []Candidate {
	var out []Candidate
	seen := make(map[Candidate]struct{})
	add := func(tag string, src Source) {
		tag = Normalize(tag)
		if tag == "" {
			return
		}
		// Explicit and hashtag tags bypass the vocabulary; mentions must be recognized.
		if src == SourceVocabulary && !e.vocab.Contains(tag) {
			return
		}
		c := Candidate{Tag: tag, Source: src}
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	for _, m := range explicitListRegex.FindAllStringSubmatch(text, -1) {
		for _, t := range strings.Split(m[1], ",") {
			add(t, SourceExplicit)
		}
	}
	for _, m := range hashtagRegex.FindAllStringSubmatch(text, -1) {
		add(m[1], SourceHashtag)
	}

	lower := strings.ToLower(text)
	for _, tag := range e.vocab.Tags() {
		if e.mentions(lower, tag) {
			add(tag, SourceVocabulary)
		}
	}
	return out
}

func (e *Extractor) mentions(lower, tag string) bool {
	if e.substring {
		return strings.Contains(lower, tag)
	}
	for offset := 0; offset < len(lower); {
		i := strings.Index(lower[offset:], tag)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(tag)
		if boundaryBefore(lower, start) && boundaryAfter(lower, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isTagRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isTagRune(r)
}
