/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package tagreconciler turns a discussion comment event into per-tag
// reconciliation requests against a tool-using agent.
//
// A Processor extracts candidate tags from the comment body and the
// discussion title, acquires the shared agent session, and asks the agent to
// reconcile each tag on its own: read the repository's current tags and
// propose the tag only when it is missing. The agent's free-text answer is
// mapped to an Outcome by a Classifier.
//
//	p := tagreconciler.NewProcessor(manager,
//		tagreconciler.WithExtractor(tagging.NewExtractor(vocab)),
//	)
//	for _, line := range p.Process(ctx, ev) {
//		fmt.Println(line)
//	}
//
// Failures never escape Process. A missing credential or an unavailable
// session produces a single notice, and a failure on one tag becomes that
// tag's error outcome while the remaining tags continue.
package tagreconciler
