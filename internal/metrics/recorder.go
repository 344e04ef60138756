// Package metrics provides the observability hooks for site builds. The
// default NoopRecorder costs nothing; the Prometheus implementation is
// injected when the preview server exposes /metrics.
package metrics

import "time"

// Recorder defines observability hooks for build metrics. All methods must be
// safe on the NoopRecorder so injection stays optional.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|failed
	ObservePipelineDuration(pipeline string, d time.Duration)
	AddContentsConverted(n int)
	AddPagesRendered(pipeline string, n int)
	AddContextCacheHits(n int)
	AddContextCacheMisses(n int)
	AddOutputsSkipped(pipeline string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration)            {}
func (NoopRecorder) IncBuildOutcome(string)                        {}
func (NoopRecorder) ObservePipelineDuration(string, time.Duration) {}
func (NoopRecorder) AddContentsConverted(int)                      {}
func (NoopRecorder) AddPagesRendered(string, int)                  {}
func (NoopRecorder) AddContextCacheHits(int)                       {}
func (NoopRecorder) AddContextCacheMisses(int)                     {}
func (NoopRecorder) AddOutputsSkipped(string, int)                 {}
