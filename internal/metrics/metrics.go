package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_events_dispatched_total",
			Help: "Decoded events handed to the dispatcher, by source and event name",
		},
		[]string{"source", "event"},
	)

	PollErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_poll_errors_total",
			Help: "Failed poll ticks, by source",
		},
		[]string{"source"},
	)

	HandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_handler_errors_total",
			Help: "Event handler failures, by handler",
		},
		[]string{"handler"},
	)

	DisputesAnalyzed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_disputes_analyzed_total",
			Help: "Completed dispute analyses, by verdict",
		},
		[]string{"verdict"},
	)

	SourceCursor = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "oracle_source_cursor",
			Help: "Last fully processed block, by source",
		},
		[]string{"source"},
	)

	SourcesStopped = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "oracle_sources_stopped",
			Help: "Sources permanently stopped after exceeding the error threshold",
		},
	)
)
