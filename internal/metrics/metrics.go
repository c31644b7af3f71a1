package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides application metrics collection. All Record methods are
// safe to call on a nil *Collector.
type Collector struct {
	// API Metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	// Weather Metrics
	WeatherFetchTotal    *prometheus.CounterVec
	WeatherFetchDuration prometheus.Histogram
	SnapshotLookupsTotal *prometheus.CounterVec
	ResponseCacheLookups *prometheus.CounterVec
	ResponseCachePurged  prometheus.Counter

	// Insight Metrics
	InsightGenerationsTotal   *prometheus.CounterVec
	InsightGenerationDuration prometheus.Histogram
}

// NewCollector creates a new metrics collector registered on reg.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests by route, method, and status",
			},
			[]string{"route", "method", "status"},
		),

		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"route"},
		),

		WeatherFetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weather_fetch_total",
				Help:      "Total number of upstream weather fetches by result",
			},
			[]string{"result"},
		),

		WeatherFetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "weather_fetch_duration_seconds",
				Help:      "Upstream weather fetch duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		),

		SnapshotLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weather_snapshot_lookups_total",
				Help:      "Snapshot store lookups by result",
			},
			[]string{"result"}, // "hit", "miss"
		),

		ResponseCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_response_cache_lookups_total",
				Help:      "Upstream response cache lookups by result",
			},
			[]string{"result"},
		),

		ResponseCachePurged: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_response_cache_purged_total",
				Help:      "Expired upstream responses removed by the purge job",
			},
		),

		InsightGenerationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "insight_generations_total",
				Help:      "Total number of insight generations by result",
			},
			[]string{"result"},
		),

		InsightGenerationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "insight_generation_duration_seconds",
				Help:      "Generative model call duration in seconds",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
			},
		),
	}
}

// RecordAPIRequest increments the API request counter and observes duration.
func (c *Collector) RecordAPIRequest(route, method, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.APIRequestsTotal.WithLabelValues(route, method, status).Inc()
	c.APIRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// RecordWeatherFetch records an upstream fetch outcome.
func (c *Collector) RecordWeatherFetch(err error, d time.Duration) {
	if c == nil {
		return
	}
	c.WeatherFetchTotal.WithLabelValues(result(err)).Inc()
	c.WeatherFetchDuration.Observe(d.Seconds())
}

// RecordSnapshotLookup records a snapshot store hit or miss.
func (c *Collector) RecordSnapshotLookup(hit bool) {
	if c == nil {
		return
	}
	c.SnapshotLookupsTotal.WithLabelValues(hitLabel(hit)).Inc()
}

// RecordResponseCacheLookup records an upstream response cache hit or miss.
func (c *Collector) RecordResponseCacheLookup(hit bool) {
	if c == nil {
		return
	}
	c.ResponseCacheLookups.WithLabelValues(hitLabel(hit)).Inc()
}

// RecordResponseCachePurge adds n purged entries.
func (c *Collector) RecordResponseCachePurge(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.ResponseCachePurged.Add(float64(n))
}

// RecordInsightGeneration records a model call outcome.
func (c *Collector) RecordInsightGeneration(err error, d time.Duration) {
	if c == nil {
		return
	}
	c.InsightGenerationsTotal.WithLabelValues(result(err)).Inc()
	c.InsightGenerationDuration.Observe(d.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func hitLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
