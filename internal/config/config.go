// Package config defines the YAML-typed declarations driving a site build:
// site settings, content definitions (schemas), pipelines, and infrastructure
// options. Loaders expand environment variables before decoding so secrets
// can stay out of config files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// Site holds global site settings merged into every page context.
type Site struct {
	BaseURL     string `yaml:"base_url"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Language    string `yaml:"language,omitempty"`
	// Settings is pass-through user-defined site data exposed to templates.
	Settings map[string]any `yaml:"settings,omitempty"`
}

// GitSource configures fetching the content tree from a git repository
// before discovery instead of reading a local directory.
type GitSource struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch,omitempty"`
	// Dir is the local checkout path; defaults to .sitegen/source.
	Dir string `yaml:"dir,omitempty"`
}

// SourceConfig locates the raw content tree.
type SourceConfig struct {
	Dir string     `yaml:"dir,omitempty"`
	Git *GitSource `yaml:"git,omitempty"`
}

// OutputConfig locates the generated site.
type OutputConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// DateFormats configures date parsing and the named output formats added to
// every expanded date context. Layouts are Go reference time layouts.
type DateFormats struct {
	// Input is the layout front-matter date strings parse with, unless a
	// property schema overrides it. Defaults to RFC 3339.
	Input  string            `yaml:"input,omitempty"`
	Output map[string]string `yaml:"output,omitempty"`
}

// StateConfig enables the SQLite build-state store used to skip rewriting
// unchanged output files across runs.
type StateConfig struct {
	Path string `yaml:"path,omitempty"`
}

// EventsConfig enables publishing build lifecycle events to NATS.
type EventsConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject,omitempty"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	// Debounce is how long to coalesce bursts of file events before a
	// rebuild. Defaults to 2s.
	Debounce time.Duration `yaml:"debounce,omitempty"`
	// RebuildEvery schedules periodic full rebuilds independent of file
	// events (e.g. so {{date.now}} filters stay fresh). Zero disables it.
	RebuildEvery time.Duration `yaml:"rebuild_every,omitempty"`
}

// Config is the root configuration document.
type Config struct {
	Site        Site                 `yaml:"site"`
	Source      SourceConfig         `yaml:"source,omitempty"`
	Output      OutputConfig         `yaml:"output,omitempty"`
	DateFormats DateFormats          `yaml:"date_formats,omitempty"`
	Types       []*ContentDefinition `yaml:"types"`
	Pipelines   []*Pipeline          `yaml:"pipelines"`
	State       *StateConfig         `yaml:"state,omitempty"`
	Events      *EventsConfig        `yaml:"events,omitempty"`
	Watch       WatchConfig          `yaml:"watch,omitempty"`
}

// Load reads, env-expands, decodes, normalizes, and validates a config file.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, sgerrors.ConfigNotFound(configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a config document from bytes. Exposed for tests.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, sgerrors.ConfigInvalid("yaml decode failed", err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Definition returns the content definition with the given id.
func (c *Config) Definition(id string) (*ContentDefinition, bool) {
	for _, d := range c.Types {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}
