package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Game Metrics
var (
	GamesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGamesCreated,
			Help: HelpTextGamesCreated,
		},
	)

	GamesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameGamesActive,
			Help: HelpTextGamesActive,
		},
	)

	Spins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSpins,
			Help: HelpTextSpins,
		},
	)

	SegmentsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSegmentsSkipped,
			Help: HelpTextSegmentsSkipped,
		},
	)

	Landings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLandings,
			Help: HelpTextLandings,
		},
		[]string{LabelKind},
	)

	EffectsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEffectsResolved,
			Help: HelpTextEffectsResolved,
		},
		[]string{LabelCode},
	)

	ActionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameActionsRejected,
			Help: HelpTextActionsRejected,
		},
		[]string{LabelReason},
	)

	StreamSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameStreamSubscribers,
			Help: HelpTextStreamSubscribers,
		},
	)
)
