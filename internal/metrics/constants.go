package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Game metric names
const (
	MetricNameGamesCreated      = "wheel_games_created_total"
	MetricNameGamesActive       = "wheel_games_active"
	MetricNameSpins             = "wheel_spins_total"
	MetricNameSegmentsSkipped   = "wheel_segments_skipped_total"
	MetricNameLandings          = "wheel_landings_total"
	MetricNameEffectsResolved   = "wheel_effects_resolved_total"
	MetricNameActionsRejected   = "wheel_actions_rejected_total"
	MetricNameStreamSubscribers = "wheel_stream_subscribers"
)

// Help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
	HelpTextGamesCreated         = "Total number of games created"
	HelpTextGamesActive          = "Number of games currently held in memory"
	HelpTextSpins                = "Total number of spins started"
	HelpTextSegmentsSkipped      = "Total number of burned segments stepped over while spinning"
	HelpTextLandings             = "Total number of landings by segment kind"
	HelpTextEffectsResolved      = "Total number of pending effects resolved by effect code"
	HelpTextActionsRejected      = "Total number of player actions rejected by reason"
	HelpTextStreamSubscribers    = "Current number of open SSE streams"
)

// Label names
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelKind   = "kind"
	LabelCode   = "code"
	LabelReason = "reason"
)

// HTTPLatencyBuckets ranges from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
