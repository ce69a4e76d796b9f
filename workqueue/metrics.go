/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workqueue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workqueue_submitted_total",
			Help: "Work submissions by result (accepted, full, shutdown).",
		},
		[]string{"result"},
	)
	mCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workqueue_completed_total",
			Help: "Finished work by outcome (success, failed, deadletter).",
		},
		[]string{"outcome"},
	)
	mRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "workqueue_retries_total",
			Help: "Number of work retries after a failed attempt.",
		},
	)
	mInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "workqueue_in_flight",
			Help: "Work currently executing.",
		},
	)
	mDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "workqueue_work_duration_seconds",
			Help:    "Wall time of a unit of work including retries.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)
)
