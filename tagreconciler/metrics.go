/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tagreconciler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagbot_events_total",
			Help: "Processed events by result (no_tags, unavailable, reconciled).",
		},
		[]string{"result"},
	)
	mOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagbot_tag_outcomes_total",
			Help: "Per-tag reconciliation outcomes by kind.",
		},
		[]string{"kind"},
	)
	mCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tagbot_candidate_tags",
			Help:    "Number of candidate tags extracted per event.",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)
)
