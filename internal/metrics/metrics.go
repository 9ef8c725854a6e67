package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label names
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelOutcome = "outcome"
	LabelKind    = "kind"
)

// Outcome label values.
const (
	OutcomeSuccess       = "success"
	OutcomeUserNotFound  = "user_not_found"
	OutcomeWrongPassword = "wrong_password"
	OutcomeVerifyError   = "verify_error"
	OutcomeInvalidToken  = "invalid_token"
	OutcomeTokenReused   = "token_reused"
	OutcomeBadRequest    = "bad_request"
	OutcomeConflict      = "conflict"
	OutcomeFailure       = "failure"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidtube_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vidtube_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Auth Metrics
var (
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{LabelOutcome},
	)

	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_token_refreshes_total",
			Help: "Refresh token exchanges by outcome",
		},
		[]string{LabelOutcome},
	)

	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_registrations_total",
			Help: "Registration attempts by outcome",
		},
		[]string{LabelOutcome},
	)

	MediaUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_media_uploads_total",
			Help: "Media uploads by kind and outcome",
		},
		[]string{LabelKind, LabelOutcome},
	)
)
