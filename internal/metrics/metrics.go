// Package metrics exposes Prometheus instrumentation for the extraction engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Articles processed, by scenario and final state
	ArticlesTotal *prometheus.CounterVec
	// Records emitted, by winning source
	RecordsTotal *prometheus.CounterVec

	// LLM traffic
	LLMRequestsTotal *prometheus.CounterVec
	LLMCacheTotal    *prometheus.CounterVec
	LLMDuration      prometheus.Histogram

	ArticleDuration prometheus.Histogram
}

// New creates the collectors and registers them with reg. A nil reg uses a
// fresh private registry, which keeps tests independent.
//
// Metrics:
//   - shoespec_articles_total{scenario,state}
//   - shoespec_records_total{source}
//   - shoespec_llm_requests_total{outcome} - "ok", "rate_limited", "error"
//   - shoespec_llm_cache_total{result} - "hit" or "miss"
//   - shoespec_llm_request_duration_seconds
//   - shoespec_article_duration_seconds
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		ArticlesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shoespec_articles_total",
				Help: "Total number of articles processed",
			},
			[]string{"scenario", "state"},
		),
		RecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shoespec_records_total",
				Help: "Total number of spec records emitted",
			},
			[]string{"source"},
		),
		LLMRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shoespec_llm_requests_total",
				Help: "Total number of LLM provider calls",
			},
			[]string{"outcome"},
		),
		LLMCacheTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shoespec_llm_cache_total",
				Help: "LLM response cache lookups",
			},
			[]string{"result"},
		),
		LLMDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "shoespec_llm_request_duration_seconds",
				Help:    "Duration of LLM provider calls in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
			},
		),
		ArticleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "shoespec_article_duration_seconds",
				Help:    "Duration of article processing in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
		),
	}
}

// RecordArticle counts a processed article.
func (m *Metrics) RecordArticle(scenario, state string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ArticlesTotal.WithLabelValues(scenario, state).Inc()
	m.ArticleDuration.Observe(elapsed.Seconds())
}

// RecordRecords counts emitted records for a source.
func (m *Metrics) RecordRecords(source string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.RecordsTotal.WithLabelValues(source).Add(float64(n))
}

// RecordLLMRequest counts one provider call.
func (m *Metrics) RecordLLMRequest(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.LLMRequestsTotal.WithLabelValues(outcome).Inc()
	m.LLMDuration.Observe(elapsed.Seconds())
}

// RecordCache counts a cache lookup.
func (m *Metrics) RecordCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.LLMCacheTotal.WithLabelValues(result).Inc()
}

// Handler serves the metrics of gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
