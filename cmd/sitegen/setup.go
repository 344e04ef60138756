package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/buildstate"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/events"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

func openState(cfg *config.Config) (*buildstate.Store, error) {
	path := cfg.State.Path
	if dir := filepath.Dir(path); dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return buildstate.Open(path)
}

func newPublisher(cfg *config.Config) (*events.Publisher, error) {
	return events.NewPublisher(cfg.Events)
}

// templateDir returns the first template directory declared by a
// template-rendering pipeline, or empty when no pipeline needs one.
func templateDir(cfg *config.Config) string {
	for _, p := range cfg.Pipelines {
		if p.Engine.ID != config.EngineMustache {
			continue
		}
		if dir, ok := p.Engine.Options["templatesDir"].(string); ok && dir != "" {
			return dir
		}
	}
	return ""
}

const starterConfig = `site:
  base_url: https://example.com
  name: My Site

source:
  dir: contents

output:
  dir: dist

types:
  - id: page
    default: true
    properties:
      title:
        type: string
        required: true
      description:
        type: string
  - id: post
    paths: [blog/posts]
    properties:
      title:
        type: string
        required: true
      publication:
        type: date
      featured:
        type: bool
        default: false

pipelines:
  - id: site
    contentTypes:
      include: [page, post]
    engine:
      id: json
    output:
      path: "{{slug}}"
      file: index
      ext: json
`

func runInit(force bool) {
	path := CLI.Config
	if _, err := os.Stat(path); err == nil && !force {
		slog.Error("Configuration file already exists, use --force to overwrite",
			logfields.Path(path))
		os.Exit(1)
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		slog.Error("Failed to write configuration file", logfields.Error(err))
		os.Exit(1)
	}
	slog.Info("Configuration file created", logfields.Path(path))
}
