package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once              sync.Once
	buildDuration     prom.Histogram
	buildOutcome      *prom.CounterVec
	pipelineDuration  *prom.HistogramVec
	contentsConverted prom.Counter
	pagesRendered     *prom.CounterVec
	cacheHits         prom.Counter
	cacheMisses       prom.Counter
	outputsSkipped    *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "sitegen",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.pipelineDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "sitegen",
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of individual pipeline runs",
			Buckets:   prom.DefBuckets,
		}, []string{"pipeline"})
		pr.contentsConverted = prom.NewCounter(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "contents_converted_total",
			Help:      "Raw content records converted to typed content",
		})
		pr.pagesRendered = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "pages_rendered_total",
			Help:      "Output pages rendered per pipeline",
		}, []string{"pipeline"})
		pr.cacheHits = prom.NewCounter(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "context_cache_hits_total",
			Help:      "Render context cache hits",
		})
		pr.cacheMisses = prom.NewCounter(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "context_cache_misses_total",
			Help:      "Render context cache misses",
		})
		pr.outputsSkipped = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "outputs_skipped_total",
			Help:      "Output writes skipped because the page was unchanged",
		}, []string{"pipeline"})
		reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.pipelineDuration,
			pr.contentsConverted, pr.pagesRendered, pr.cacheHits, pr.cacheMisses, pr.outputsSkipped)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) ObservePipelineDuration(pipeline string, d time.Duration) {
	if p == nil || p.pipelineDuration == nil {
		return
	}
	p.pipelineDuration.WithLabelValues(pipeline).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddContentsConverted(n int) {
	if p == nil || p.contentsConverted == nil {
		return
	}
	p.contentsConverted.Add(float64(n))
}

func (p *PrometheusRecorder) AddPagesRendered(pipeline string, n int) {
	if p == nil || p.pagesRendered == nil {
		return
	}
	p.pagesRendered.WithLabelValues(pipeline).Add(float64(n))
}

func (p *PrometheusRecorder) AddContextCacheHits(n int) {
	if p == nil || p.cacheHits == nil {
		return
	}
	p.cacheHits.Add(float64(n))
}

func (p *PrometheusRecorder) AddContextCacheMisses(n int) {
	if p == nil || p.cacheMisses == nil {
		return
	}
	p.cacheMisses.Add(float64(n))
}

func (p *PrometheusRecorder) AddOutputsSkipped(pipeline string, n int) {
	if p == nil || p.outputsSkipped == nil {
		return
	}
	p.outputsSkipped.WithLabelValues(pipeline).Add(float64(n))
}
