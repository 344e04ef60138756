package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/pipeline"
	"git.home.luguber.info/inful/sitegen/internal/server"
	"git.home.luguber.info/inful/sitegen/internal/templates"
	"git.home.luguber.info/inful/sitegen/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"sitegen.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Generate struct{} `cmd:"" help:"Generate the site once"`

	Watch struct{} `cmd:"" help:"Generate, then rebuild on content changes"`

	Serve struct {
		Addr string `short:"a" help:"Preview listen address" default:":8080"`
	} `cmd:"" help:"Generate, watch for changes, and serve the site locally"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "generate":
		runGenerate()
	case "watch":
		runWatch()
	case "serve":
		runServe(CLI.Serve.Addr)
	case "init":
		runInit(CLI.Init.Force)
	default:
		_ = ctx.PrintUsage(false)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", logfields.Error(err))
		os.Exit(1)
	}
	return cfg
}

func runGenerate() {
	cfg := loadConfig()
	gen, cleanup := newGenerator(cfg, nil)
	defer cleanup()

	if _, err := gen.Run(context.Background()); err != nil {
		slog.Error("Build failed", logfields.Error(err))
		os.Exit(1)
	}
}

func runWatch() {
	cfg := loadConfig()
	gen, cleanup := newGenerator(cfg, nil)
	defer cleanup()

	ctx, stop := signalContext()
	defer stop()

	rebuild := func(ctx context.Context) {
		if _, err := gen.Run(ctx); err != nil {
			slog.Error("Rebuild failed", logfields.Error(err))
		}
	}
	rebuild(ctx)

	w, err := watch.New(cfg.Source.Dir, cfg.Watch, rebuild)
	if err != nil {
		slog.Error("Failed to start watcher", logfields.Error(err))
		os.Exit(1)
	}
	if err := w.Run(ctx); err != nil {
		slog.Error("Watcher stopped", logfields.Error(err))
		os.Exit(1)
	}
}

func runServe(addr string) {
	cfg := loadConfig()
	registry := prom.NewRegistry()
	gen, cleanup := newGenerator(cfg, registry)
	defer cleanup()

	ctx, stop := signalContext()
	defer stop()

	rebuild := func(ctx context.Context) {
		if _, err := gen.Run(ctx); err != nil {
			slog.Error("Rebuild failed", logfields.Error(err))
		}
	}
	rebuild(ctx)

	w, err := watch.New(cfg.Source.Dir, cfg.Watch, rebuild)
	if err != nil {
		slog.Error("Failed to start watcher", logfields.Error(err))
		os.Exit(1)
	}
	go func() {
		if err := w.Run(ctx); err != nil {
			slog.Error("Watcher stopped", logfields.Error(err))
		}
	}()

	srv := server.New(server.Options{
		Addr:     addr,
		SiteDir:  cfg.Output.Dir,
		Registry: registry,
	})
	if err := srv.Run(ctx); err != nil {
		slog.Error("Preview server failed", logfields.Error(err))
		os.Exit(1)
	}
}

// newGenerator wires the optional collaborators (build state, events,
// metrics) declared in the config. cleanup closes them.
func newGenerator(cfg *config.Config, registry *prom.Registry) (*pipeline.Generator, func()) {
	options := make([]pipeline.Option, 0, 3)
	cleanups := make([]func(), 0, 2)

	if registry != nil {
		options = append(options, pipeline.WithRecorder(metrics.NewPrometheusRecorder(registry)))
	}

	if cfg.State != nil {
		store, err := openState(cfg)
		if err != nil {
			slog.Error("Failed to open build state", logfields.Error(err))
			os.Exit(1)
		}
		options = append(options, pipeline.WithState(store))
		cleanups = append(cleanups, func() { _ = store.Close() })
	}

	if dir := templateDir(cfg); dir != "" {
		engine, err := templates.Load(dir)
		if err != nil {
			slog.Error("Failed to load templates", logfields.Error(err))
			os.Exit(1)
		}
		options = append(options, pipeline.WithTemplateRenderer(engine))
	}

	if cfg.Events != nil {
		pub, err := newPublisher(cfg)
		if err != nil {
			slog.Warn("Build events disabled", logfields.Error(err))
		} else {
			options = append(options, pipeline.WithPublisher(pub))
			cleanups = append(cleanups, pub.Close)
		}
	}

	gen := pipeline.NewGenerator(cfg, options...)
	return gen, func() {
		for _, c := range cleanups {
			c()
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
