/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tagreconciler

import (
	"context"
	"errors"
	"fmt"

	"github.com/bixoryai/mcp-course/agents/agenttrace"
	"github.com/bixoryai/mcp-course/agentsession"
	"github.com/bixoryai/mcp-course/tagging"
	"github.com/chainguard-dev/clog"
)

// Notices returned instead of per-tag outcomes.
const (
	NoticeNoTags        = "No tags found in the comment or discussion title"
	NoticeNotConfigured = "Agent not configured: set HF_TOKEN to enable tag reconciliation"
	NoticeUnavailable   = "Agent unavailable: could not start the tag tool session"
)

// SessionSource hands out the shared agent.
type SessionSource interface {
	Acquire(ctx context.Context) (agentsession.Agent, error)
}

// Option configures a Processor.
type Option func(*Processor)

// WithExtractor sets the tag extractor. The default uses the built-in vocabulary.
func WithExtractor(e *tagging.Extractor) Option {
	return func(p *Processor) {
		p.extractor = e
	}
}

// WithClassifier replaces LexicalClassifier.
func WithClassifier(c Classifier) Option {
	return func(p *Processor) {
		p.classify = c
	}
}

// Processor reconciles the tags mentioned in an event.
type Processor struct {
	sessions  SessionSource
	extractor *tagging.Extractor
	classify  Classifier
}

// NewProcessor returns a Processor that acquires its agent from sessions.
func NewProcessor(sessions SessionSource, opts ...Option) *Processor {
	p := &Processor{
		sessions:  sessions,
		extractor: tagging.NewExtractor(tagging.DefaultVocabulary()),
		classify:  LexicalClassifier,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tags returns the sorted candidate tags of ev, taken from the comment body
// and the discussion title.
func (p *Processor) Tags(ev Event) []string {
	var content, title string
	if ev.Comment != nil {
		content = ev.Comment.Content
	}
	if ev.Discussion != nil {
		title = ev.Discussion.Title
	}
	return p.extractor.Extract(content).Union(p.extractor.Extract(title)).Sorted()
}

// Process reconciles ev and returns one line per tag, or a single notice.
func (p *Processor) Process(ctx context.Context, ev Event) []string {
	return p.Reconcile(ctx, ev).Lines()
}

// Reconcile is Process with structured results.
func (p *Processor) Reconcile(ctx context.Context, ev Event) Report {
	log := clog.FromContext(ctx).With("repo", ev.RepoID())

	if err := ev.Validate(); err != nil {
		mEvents.WithLabelValues("malformed").Inc()
		return Report{Notice: err.Error()}
	}

	tags := p.Tags(ev)
	mCandidates.Observe(float64(len(tags)))
	if len(tags) == 0 {
		mEvents.WithLabelValues("no_tags").Inc()
		log.Info("No candidate tags found")
		return Report{Notice: NoticeNoTags}
	}
	log = log.With("tags", tags)

	agent, err := p.sessions.Acquire(ctx)
	if err != nil {
		mEvents.WithLabelValues("unavailable").Inc()
		if errors.Is(err, agentsession.ErrConfigurationUnavailable) {
			log.Warn("Agent not configured, skipping reconciliation")
			return Report{Notice: NoticeNotConfigured}
		}
		log.With("error", err).Error("Agent session unavailable")
		return Report{Notice: NoticeUnavailable}
	}

	var discussion int
	if ev.Discussion != nil {
		discussion = ev.Discussion.Num
	}
	outcomes := make([]Outcome, 0, len(tags))
	for _, tag := range tags {
		tctx := agenttrace.WithExecutionContext(ctx, agenttrace.ExecutionContext{
			RepoID:     ev.RepoID(),
			Discussion: discussion,
			Tag:        tag,
		})
		o := p.reconcileTag(clog.WithLogger(tctx, log.With("tag", tag)), agent, ev.RepoID(), tag)
		mOutcomes.WithLabelValues(string(o.Kind)).Inc()
		outcomes = append(outcomes, o)
	}
	mEvents.WithLabelValues("reconciled").Inc()
	return Report{Outcomes: outcomes}
}

// reconcileTag asks the agent about one tag. Every failure, including a
// panic in the agent, becomes an Error outcome.
func (p *Processor) reconcileTag(ctx context.Context, agent agentsession.Agent, repo, tag string) (o Outcome) {
	log := clog.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			log.With("panic", r).Error("Agent panicked while reconciling tag")
			o = Outcome{Tag: tag, Kind: Error, Detail: fmt.Sprintf("panic: %v", r)}
		}
	}()

	prompt, err := instruction(repo, tag)
	if err != nil {
		return Outcome{Tag: tag, Kind: Error, Detail: err.Error()}
	}
	response, err := agent.Run(ctx, prompt)
	if err != nil {
		log.With("error", err).Warn("Tag reconciliation failed")
		return Outcome{Tag: tag, Kind: Error, Detail: err.Error()}
	}

	kind := p.classify(response)
	log.With("kind", kind).Info("Tag reconciled")
	return Outcome{Tag: tag, Kind: kind, Detail: response}
}
