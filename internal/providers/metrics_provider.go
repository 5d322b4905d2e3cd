package providers

import (
	"clanwatch/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncUpstreamRequests(endpoint string, outcome string)
	AddRemindersSent(count int)
	ObserveReminderTick(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	upstreamRequests *prometheus.CounterVec
	remindersSent    prometheus.Counter
	reminderTick     prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncUpstreamRequests(endpoint string, outcome string) {
	m.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
}

func (m *MetricsProvider) AddRemindersSent(count int) {
	m.remindersSent.Add(float64(count))
}

func (m *MetricsProvider) ObserveReminderTick(duration time.Duration) {
	m.reminderTick.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clanwatch_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clanwatch_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clanwatch_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clanwatch_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		upstreamRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clanwatch_upstream_requests_total",
			Help: "Upstream API calls by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),

		remindersSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clanwatch_reminders_sent_total",
			Help: "Total number of users reminded about missing war attacks",
		}),

		reminderTick: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clanwatch_reminder_tick_duration_seconds",
			Help:    "Duration of reminder ticks in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncUpstreamRequests(_ string, _ string)           {}
func (n *noopMetrics) AddRemindersSent(_ int)                           {}
func (n *noopMetrics) ObserveReminderTick(_ time.Duration)              {}
