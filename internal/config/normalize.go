package config

import (
	"time"

	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// Defaults applied by Normalize. All zero values trigger sensible defaults.
const (
	DefaultSourceDir     = "contents"
	DefaultOutputDir     = "dist"
	DefaultGitSourceDir  = ".sitegen/source"
	DefaultInputLayout   = time.RFC3339
	DefaultWatchDebounce = 2 * time.Second
	DefaultEventsSubject = "sitegen.builds"
)

// Normalize fills defaults in place. It is idempotent and always runs before
// Validate so validation can assume defaulted fields.
func (c *Config) Normalize() {
	if c.Source.Dir == "" {
		c.Source.Dir = DefaultSourceDir
	}
	if c.Source.Git != nil && c.Source.Git.Dir == "" {
		c.Source.Git.Dir = DefaultGitSourceDir
	}
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if c.DateFormats.Input == "" {
		c.DateFormats.Input = DefaultInputLayout
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = DefaultWatchDebounce
	}
	if c.Events != nil && c.Events.Subject == "" {
		c.Events.Subject = DefaultEventsSubject
	}

	for _, d := range c.Types {
		if len(d.Scopes) == 0 {
			d.Scopes = defaultScopes()
		}
	}

	for _, p := range c.Pipelines {
		if p.Scope == "" {
			p.Scope = ScopeDetail
		}
		if p.Engine.ID == "" {
			p.Engine.ID = EngineJSON
		}
		if p.Output.Path == "" {
			p.Output.Path = "{{slug}}"
		}
		if p.Output.File == "" {
			p.Output.File = "index"
		}
		if p.Output.Ext == "" {
			switch p.Engine.ID {
			case EngineJSON:
				p.Output.Ext = "json"
			default:
				p.Output.Ext = "html"
			}
		}
	}
}

// Validate checks cross-references the loaders cannot express in types.
func (c *Config) Validate() error {
	if len(c.Types) == 0 {
		return sgerrors.ConfigInvalid("no content types declared", nil)
	}

	defaults := 0
	ids := make(map[string]struct{}, len(c.Types))
	for _, d := range c.Types {
		if d.ID == "" {
			return sgerrors.ConfigInvalid("content type with empty id", nil)
		}
		if _, dup := ids[d.ID]; dup {
			return sgerrors.ConfigInvalid("duplicate content type id: "+d.ID, nil)
		}
		ids[d.ID] = struct{}{}
		if d.Default {
			defaults++
		}
		for key, rel := range d.Relations {
			if rel.References == "" {
				return sgerrors.ConfigInvalid("relation "+d.ID+"."+key+" missing references", nil)
			}
		}
	}
	if defaults > 1 {
		return sgerrors.ConfigInvalid("more than one default content type", nil)
	}

	pipelineIDs := make(map[string]struct{}, len(c.Pipelines))
	for _, p := range c.Pipelines {
		if p.ID == "" {
			return sgerrors.ConfigInvalid("pipeline with empty id", nil)
		}
		if _, dup := pipelineIDs[p.ID]; dup {
			return sgerrors.ConfigInvalid("duplicate pipeline id: "+p.ID, nil)
		}
		pipelineIDs[p.ID] = struct{}{}
		for name, q := range p.Iterators {
			if _, ok := ids[q.ContentType]; !ok {
				return sgerrors.UnknownContentType(q.ContentType).
					WithContext("pipeline", p.ID).
					WithContext("iterator", name)
			}
		}
		for name, q := range p.Queries {
			if _, ok := ids[q.ContentType]; !ok {
				return sgerrors.UnknownContentType(q.ContentType).
					WithContext("pipeline", p.ID).
					WithContext("query", name)
			}
		}
	}
	return nil
}
