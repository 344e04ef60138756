package config

import (
	"git.home.luguber.info/inful/sitegen/internal/query"
)

// EngineID selects how a pipeline's context bundles are rendered.
type EngineID string

const (
	// EngineJSON serializes each bundle's context tree to JSON.
	EngineJSON EngineID = "json"
	// EngineMustache hands each bundle to the configured template renderer.
	EngineMustache EngineID = "mustache"
)

// Engine configures a pipeline's rendering backend.
type Engine struct {
	ID      EngineID       `yaml:"id"`
	Options map[string]any `yaml:"options,omitempty"`
}

// ContentTypeRules restricts which content types a pipeline processes.
// Empty include means all types; exclude wins over include.
type ContentTypeRules struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// Allows reports whether the rules admit the given content type id.
func (r ContentTypeRules) Allows(id string) bool {
	for _, e := range r.Exclude {
		if e == id {
			return false
		}
	}
	if len(r.Include) == 0 {
		return true
	}
	for _, i := range r.Include {
		if i == id {
			return true
		}
	}
	return false
}

// OutputTemplate is the destination triple for a pipeline's pages. Each part
// may contain {{id}} and {{slug}} tokens substituted per page.
type OutputTemplate struct {
	Path string `yaml:"path,omitempty"`
	File string `yaml:"file,omitempty"`
	Ext  string `yaml:"ext,omitempty"`
}

// Pipeline declares one output pass over the resolved content collection.
type Pipeline struct {
	ID           string           `yaml:"id"`
	ContentTypes ContentTypeRules `yaml:"contentTypes,omitempty"`
	// Scope is the scope key pages render their top-level context at.
	// Defaults to detail.
	Scope string `yaml:"scope,omitempty"`
	// Iterators bind slug placeholder tokens to backing queries whose limit
	// acts as page size.
	Iterators map[string]query.Query `yaml:"iterators,omitempty"`
	// Queries are pipeline-level named queries resolved once per run and
	// merged into every page's top-level context.
	Queries map[string]query.Query `yaml:"queries,omitempty"`
	Engine  Engine                 `yaml:"engine,omitempty"`
	Output  OutputTemplate         `yaml:"output,omitempty"`
	// DateFormats adds pipeline-specific named output formats (Go reference
	// layouts) to every expanded date context.
	DateFormats map[string]string `yaml:"dateFormats,omitempty"`
}
