package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metric collectors for the Lenga gateway.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Backend (translation platform) call metrics.
	BackendCallsTotal     *prometheus.CounterVec
	BackendCallDuration   *prometheus.HistogramVec
	BackendErrorsTotal    *prometheus.CounterVec
	SlowTranslationsTotal prometheus.Counter

	// Translator and recorder metrics.
	TranslationsTotal   *prometheus.CounterVec
	TranscriptionsTotal *prometheus.CounterVec

	// Auth and rate limiting metrics.
	AuthFailuresTotal        *prometheus.CounterVec
	AuthSuccessesTotal       *prometheus.CounterVec
	RateLimitRejectionsTotal *prometheus.CounterVec

	// Workspace lifecycle.
	ActiveWorkspaces prometheus.Gauge
	WorkspacesSwept  prometheus.Counter

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lenga_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lenga_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		HTTPResponseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lenga_http_response_size_bytes",
			Help:    "HTTP response size in bytes.",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		}, []string{"method", "path_pattern"}),

		BackendCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lenga_backend_calls_total",
			Help: "Total number of translation platform API calls.",
		}, []string{"op", "status_code"}),

		BackendCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lenga_backend_call_duration_seconds",
			Help:    "Translation platform API call duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),

		BackendErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lenga_backend_errors_total",
			Help: "Total number of transport-level backend call errors by error type.",
		}, []string{"op", "error_type"}),

		SlowTranslationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lenga_slow_translations_total",
			Help: "Total number of translations that outlived the slow-call threshold.",
		}),

		TranslationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lenga_translations_total",
			Help: "Total number of completed translations.",
		}, []string{"src_lang", "dst_lang"}),

		TranscriptionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lenga_transcriptions_total",
			Help: "Total number of speech transcriptions.",
		}, []string{"status"}),

		AuthFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lenga_auth_failures_total",
			Help: "Total number of authentication failures.",
		}, []string{"auth_type"}),

		AuthSuccessesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lenga_auth_successes_total",
			Help: "Total number of successful authentications.",
		}, []string{"auth_type"}),

		RateLimitRejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lenga_ratelimit_rejections_total",
			Help: "Total number of rate limit rejections.",
		}, []string{"scope"}),

		ActiveWorkspaces: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lenga_active_workspaces",
			Help: "Number of live browser workspaces.",
		}),

		WorkspacesSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lenga_workspaces_swept_total",
			Help: "Total number of idle workspaces removed by the sweeper.",
		}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lenga_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	// Register all metrics.
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.BackendCallsTotal,
		m.BackendCallDuration,
		m.BackendErrorsTotal,
		m.SlowTranslationsTotal,
		m.TranslationsTotal,
		m.TranscriptionsTotal,
		m.AuthFailuresTotal,
		m.AuthSuccessesTotal,
		m.RateLimitRejectionsTotal,
		m.ActiveWorkspaces,
		m.WorkspacesSwept,
		m.ServerStartTime,
	)

	// Set server start time.
	m.ServerStartTime.Set(float64(time.Now().Unix()))

	// Register Go runtime and process collectors.
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveBackendCall records one completed backend API call.
func (m *Metrics) ObserveBackendCall(op string, status int, seconds float64) {
	m.BackendCallsTotal.WithLabelValues(op, strconv.Itoa(status)).Inc()
	m.BackendCallDuration.WithLabelValues(op).Observe(seconds)
}

// IncBackendError records a transport-level backend call failure.
func (m *Metrics) IncBackendError(op, kind string) {
	m.BackendErrorsTotal.WithLabelValues(op, kind).Inc()
}

// IncTranslation increments the completed-translations counter.
func (m *Metrics) IncTranslation(srcLang, dstLang string) {
	m.TranslationsTotal.WithLabelValues(srcLang, dstLang).Inc()
}

// IncSlowTranslation increments the slow-translation counter.
func (m *Metrics) IncSlowTranslation() {
	m.SlowTranslationsTotal.Inc()
}

// IncTranscription increments the transcription counter.
func (m *Metrics) IncTranscription(status string) {
	m.TranscriptionsTotal.WithLabelValues(status).Inc()
}

// IncAuthFailure increments the auth failure counter for the given auth type.
func (m *Metrics) IncAuthFailure(authType string) {
	m.AuthFailuresTotal.WithLabelValues(authType).Inc()
}

// IncAuthSuccess increments the auth success counter for the given auth type.
func (m *Metrics) IncAuthSuccess(authType string) {
	m.AuthSuccessesTotal.WithLabelValues(authType).Inc()
}

// IncRateLimitRejection increments the rate limit rejection counter.
func (m *Metrics) IncRateLimitRejection(scope string) {
	m.RateLimitRejectionsTotal.WithLabelValues(scope).Inc()
}

// RegisterWorkspaceCollector registers a workspace registry stats collector.
func (m *Metrics) RegisterWorkspaceCollector(statFunc WorkspaceStatFunc) {
	m.registry.MustRegister(NewWorkspaceCollector(statFunc))
}
