package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crew_scheduler_http_requests_total",
		Help: "HTTP requests handled, by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crew_scheduler_http_request_duration_seconds",
		Help:    "HTTP request latency, by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	feedOnline = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "crew_scheduler_feed_online",
		Help: "1 when the last flight feed fetch succeeded, 0 when serving the cached snapshot.",
	})

	unassignedLegs = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "crew_scheduler_unassigned_legs",
		Help: "Legs left without a crew after the last auto-assign run, by date.",
	}, []string{"date"})
)
