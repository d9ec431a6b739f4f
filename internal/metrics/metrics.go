// Package metrics exposes Prometheus instrumentation for the notes pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineRequests counts process-video requests by final outcome
	// (completed, cached, or the error kind).
	PipelineRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "video_notes_pipeline_requests_total",
		Help: "Process-video pipeline requests by outcome.",
	}, []string{"outcome"})

	// CacheHits counts idempotency short-circuits that skipped generation.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "video_notes_cache_hits_total",
		Help: "Requests answered from an existing user record without re-generation.",
	})

	// GenerationDuration observes the latency of AI completion calls.
	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "video_notes_generation_duration_seconds",
		Help:    "Latency of generative AI completion calls.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// TranscriptFallbacks counts requests that used metadata-derived content
	// because no usable transcript existed.
	TranscriptFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "video_notes_transcript_fallbacks_total",
		Help: "Requests where content was synthesized from metadata instead of a transcript.",
	})
)
