// Package metrics exposes Prometheus metrics for the match subsystem. The
// fallback share of match_scores_total is the health signal for the
// model-backed path.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Recorder struct {
	registry *prometheus.Registry

	scoresTotal         *prometheus.CounterVec
	scoreLatency        *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	invalidationDeletes *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		scoresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resmatch",
			Name:      "match_scores_total",
			Help:      "Produced match scores by source (model or fallback).",
		}, []string{"source"}),
		scoreLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "resmatch",
			Name:      "score_latency_seconds",
			Help:      "Pair score computation latency by source.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resmatch",
			Name:      "cache_hits_total",
			Help:      "Result cache hits by namespace.",
		}, []string{"namespace"}),
		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resmatch",
			Name:      "cache_misses_total",
			Help:      "Result cache misses by namespace (cache failures count as misses).",
		}, []string{"namespace"}),
		invalidationDeletes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resmatch",
			Name:      "invalidation_deletes_total",
			Help:      "Cache entries removed by invalidation events, by mutated axis.",
		}, []string{"axis"}),
	}
}

func (r *Recorder) ScoreProduced(source string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.scoresTotal.WithLabelValues(source).Inc()
	r.scoreLatency.WithLabelValues(source).Observe(elapsed.Seconds())
}

func (r *Recorder) CacheHit(namespace string) {
	if r == nil {
		return
	}
	r.cacheHits.WithLabelValues(namespace).Inc()
}

func (r *Recorder) CacheMiss(namespace string) {
	if r == nil {
		return
	}
	r.cacheMisses.WithLabelValues(namespace).Inc()
}

func (r *Recorder) InvalidationDeletes(axis string, count int64) {
	if r == nil || count <= 0 {
		return
	}
	r.invalidationDeletes.WithLabelValues(axis).Add(float64(count))
}

// Handler serves the custom registry; default Go collectors stay out of it.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
