// Package pipeline orchestrates a full site build: source discovery, content
// conversion, per-pipeline query/iterator/context resolution, and output
// writing.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegen/internal/buildstate"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/events"
	"git.home.luguber.info/inful/sitegen/internal/gitsource"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/source"
)

// TemplateRenderer renders one page through an external template engine.
// Injected by the embedding application for mustache pipelines; JSON
// pipelines never need it.
type TemplateRenderer interface {
	Render(templateName string, context map[string]any) (string, error)
}

// BuildResult summarizes one generator run.
type BuildResult struct {
	RunID    string
	Contents int
	Pages    int
	Skipped  int
	Duration time.Duration
}

// Generator runs the full build.
type Generator struct {
	cfg       *config.Config
	md        *markdown.Renderer
	recorder  metrics.Recorder
	state     *buildstate.Store
	publisher *events.Publisher
	templates TemplateRenderer
}

// Option configures a Generator.
type Option func(*Generator)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

// WithState injects the build-state store enabling skip-unchanged writes.
func WithState(s *buildstate.Store) Option {
	return func(g *Generator) { g.state = s }
}

// WithPublisher injects the build-event publisher.
func WithPublisher(p *events.Publisher) Option {
	return func(g *Generator) { g.publisher = p }
}

// WithTemplateRenderer injects the template engine used by mustache pipelines.
func WithTemplateRenderer(t TemplateRenderer) Option {
	return func(g *Generator) { g.templates = t }
}

// NewGenerator creates a generator for the given configuration.
func NewGenerator(cfg *config.Config, options ...Option) *Generator {
	g := &Generator{
		cfg:      cfg,
		md:       markdown.NewRenderer(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Run executes one full build. The evaluation timestamp is fixed at start so
// every query in the run sees the same now.
func (g *Generator) Run(ctx context.Context) (*BuildResult, error) {
	start := time.Now()
	runID := uuid.NewString()

	g.publish(events.BuildEvent{Type: "build.started", RunID: runID, Timestamp: start})

	result, err := g.run(ctx, runID, start)

	duration := time.Since(start)
	g.recorder.ObserveBuildDuration(duration)
	if err != nil {
		g.recorder.IncBuildOutcome("failed")
		g.publish(events.BuildEvent{
			Type: "build.failed", RunID: runID, Timestamp: time.Now(),
			Duration: duration.String(), Error: err.Error(),
		})
		g.recordRun(ctx, runID, start, duration, 0, "failed")
		return nil, err
	}

	result.RunID = runID
	result.Duration = duration
	g.recorder.IncBuildOutcome("success")
	g.publish(events.BuildEvent{
		Type: "build.completed", RunID: runID, Timestamp: time.Now(),
		Pages: result.Pages, Duration: duration.String(),
	})
	g.recordRun(ctx, runID, start, duration, result.Pages, "success")

	slog.Info("Build completed",
		logfields.RunID(runID),
		logfields.Count(result.Pages),
		logfields.DurationMS(float64(duration.Milliseconds())))
	return result, nil
}

func (g *Generator) run(ctx context.Context, runID string, now time.Time) (*BuildResult, error) {
	srcDir := g.cfg.Source.Dir
	if g.cfg.Source.Git != nil {
		dir, err := gitsource.Sync(ctx, g.cfg.Source.Git)
		if err != nil {
			return nil, err
		}
		srcDir = dir
	}

	raws, err := source.Walk(srcDir)
	if err != nil {
		return nil, err
	}

	converter := content.NewConverter(g.cfg.Types, g.cfg.DateFormats)
	contents, err := converter.ConvertAll(raws)
	if err != nil {
		return nil, err
	}
	g.recorder.AddContentsConverted(len(contents))

	result := &BuildResult{Contents: len(contents)}
	for _, p := range g.cfg.Pipelines {
		pStart := time.Now()
		written, skipped, err := g.runPipeline(ctx, p, contents, now)
		if err != nil {
			return nil, err
		}
		result.Pages += written + skipped
		result.Skipped += skipped
		g.recorder.ObservePipelineDuration(p.ID, time.Since(pStart))
		g.recorder.AddPagesRendered(p.ID, written)
		g.recorder.AddOutputsSkipped(p.ID, skipped)

		slog.Info("Pipeline completed",
			logfields.Pipeline(p.ID),
			logfields.Count(written),
			slog.Int("skipped", skipped))
	}
	return result, nil
}

// runPipeline resolves one pipeline's pages: content-type selection,
// iterator expansion, context bundles, output writes. Each pipeline gets a
// fresh context cache; caches are never shared across pipelines.
func (g *Generator) runPipeline(ctx context.Context, p *config.Pipeline,
	contents []*content.Content, now time.Time) (written, skipped int, err error) {

	pages := make([]*content.Content, 0, len(contents))
	for _, c := range contents {
		if p.ContentTypes.Allows(c.Definition.ID) {
			pages = append(pages, c)
		}
	}

	pages = render.ExpandIterators(pages, contents, p.Iterators, g.cfg.Site.BaseURL, now)

	cache := render.NewCache()
	builder := render.NewBuilder(g.cfg.Site, p, contents, g.md, cache,
		now, g.cfg.DateFormats.Output)
	bundles, err := builder.Bundles(pages)
	if err != nil {
		return 0, 0, err
	}

	hits, misses := cache.Stats()
	g.recorder.AddContextCacheHits(hits)
	g.recorder.AddContextCacheMisses(misses)

	return g.writeBundles(ctx, p, bundles)
}

func (g *Generator) publish(event events.BuildEvent) {
	if g.publisher != nil {
		g.publisher.Publish(event)
	}
}

func (g *Generator) recordRun(ctx context.Context, runID string, start time.Time,
	duration time.Duration, pages int, outcome string) {

	if g.state == nil {
		return
	}
	if err := g.state.RecordRun(ctx, runID, start, duration, pages, outcome); err != nil {
		slog.Warn("Failed to record run", logfields.RunID(runID), logfields.Error(err))
	}
}
