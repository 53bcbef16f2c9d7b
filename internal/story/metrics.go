package story

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	stageClassify = "classify"
	stageGenerate = "generate"

	statusSuccess    = "success"
	statusEmptyInput = "empty_input"
	statusError      = "error"
)

var (
	routerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodtales_router_requests_total",
			Help: "Total number of router stage invocations.",
		},
		[]string{"stage", "status"},
	)
	routerStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodtales_router_stage_duration_seconds",
			Help:    "Histogram of classification and generation durations.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"stage"},
	)
	routerFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodtales_router_fallback_total",
			Help: "Total number of detections that used the fallback instruction.",
		},
	)
)
