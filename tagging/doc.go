/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package tagging turns free text into candidate classification tags.
//
// Three strategies run over the same text and their results are unioned:
//
//   - Explicit lists such as "tags: pytorch, nlp" (case-insensitive).
//   - Hashtags such as "#transformers".
//   - Mentions of entries from a recognized Vocabulary, e.g. "text-generation".
//
// Explicit and hashtag tags are kept as written (normalized to lowercase); they are
// never filtered against the vocabulary. Vocabulary mentions are matched on whole
// tokens: an entry only matches when the characters around it are not letters,
// digits, '-' or '_', so "cv" does not match inside "cvs".
//
// Extraction is pure and deterministic:
//
//	tags := tagging.Extract("This transformers model does text-generation")
//	tags.Sorted() // ["text-generation", "transformers"]
package tagging
