// Package metrics centralizes the prometheus collectors the pipeline and
// caches publish, grounded in the teacher's use of
// prometheus/client_golang for connection/query counters in its server
// package, generalized to the cache hit/miss and per-stage duration
// metrics SPEC_FULL §4.11 describes.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles every collector a StatementPipeline and its caches
// report to. A nil *Registry is valid and every method becomes a no-op,
// so tests and callers that don't care about metrics can omit it
// entirely (mirrors the teacher's optional-metrics-provider pattern).
type Registry struct {
	LogicalCacheHits   prometheus.Counter
	LogicalCacheMisses prometheus.Counter
	PhysicalCacheHits  prometheus.Counter
	PhysicalCacheMisses prometheus.Counter
	StageDuration      *prometheus.HistogramVec
}

// NewRegistry constructs a Registry and registers its collectors against
// reg. Passing prometheus.NewRegistry() (rather than the global default
// registry) keeps tests hermetic.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		LogicalCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plan_cache_hit_total",
			Help: "Logical plan cache hits.",
			ConstLabels: prometheus.Labels{"cache": "logical"},
		}),
		LogicalCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plan_cache_miss_total",
			Help: "Logical plan cache misses.",
			ConstLabels: prometheus.Labels{"cache": "logical"},
		}),
		PhysicalCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plan_cache_hit_total",
			Help: "Physical plan cache hits.",
			ConstLabels: prometheus.Labels{"cache": "physical"},
		}),
		PhysicalCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plan_cache_miss_total",
			Help: "Physical plan cache misses.",
			ConstLabels: prometheus.Labels{"cache": "physical"},
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Duration of each StatementPipeline stage.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
	}
	reg.MustRegister(r.LogicalCacheHits, r.LogicalCacheMisses, r.PhysicalCacheHits, r.PhysicalCacheMisses, r.StageDuration)
	return r
}

func (r *Registry) ObserveStage(stage string, seconds float64) {
	if r == nil {
		return
	}
	r.StageDuration.WithLabelValues(stage).Observe(seconds)
}

func (r *Registry) IncLogicalHit() {
	if r == nil {
		return
	}
	r.LogicalCacheHits.Inc()
}

func (r *Registry) IncLogicalMiss() {
	if r == nil {
		return
	}
	r.LogicalCacheMisses.Inc()
}

func (r *Registry) IncPhysicalHit() {
	if r == nil {
		return
	}
	r.PhysicalCacheHits.Inc()
}

func (r *Registry) IncPhysicalMiss() {
	if r == nil {
		return
	}
	r.PhysicalCacheMisses.Inc()
}
