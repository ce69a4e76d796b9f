/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tagging

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

func TestExtractDeterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.String().Draw(rt, "text")

		first := Extract(text).Sorted()
		second := Extract(text).Sorted()
		if diff := cmp.Diff(first, second); diff != "" {
			rt.Fatalf("Extract not deterministic (-first +second):\n%s", diff)
		}
	})
}

func TestExtractNormalized(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[A-Za-z #,:\-_\n]{0,80}`).Draw(rt, "text")

		for tag := range Extract(text) {
			if tag != strings.ToLower(strings.TrimSpace(tag)) || tag == "" {
				rt.Fatalf("tag %q is not normalized", tag)
			}
		}
	})
}

func TestExtractFindsHashtaggedTokens(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tag := rapid.StringMatching(`[a-z][a-z0-9_-]{0,20}`).Draw(rt, "tag")
		prefix := rapid.StringMatching(`[A-Za-z ]{0,20}`).Draw(rt, "prefix")

		if got := Extract(prefix + " #" + tag + " end"); !got.Has(tag) {
			rt.Fatalf("Extract() = %v, wanted it to contain %q", got.Sorted(), tag)
		}
	})
}

func TestExtractVocabularyMentions(t *testing.T) {
	vocab := DefaultVocabulary()
	rapid.Check(t, func(rt *rapid.T) {
		tag := rapid.SampledFrom(vocab.Tags()).Draw(rt, "tag")

		if got := Extract("we use " + tag + " here"); !got.Has(tag) {
			rt.Fatalf("Extract() = %v, wanted it to contain %q", got.Sorted(), tag)
		}
	})
}
