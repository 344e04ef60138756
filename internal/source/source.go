// Package source discovers raw content bundles on disk: Markdown files with
// YAML front matter, plus the asset files that travel with them.
package source

import (
	"time"

	"git.home.luguber.info/inful/sitegen/internal/value"
)

// Origin is the discovered filesystem location and derived slug for a raw
// content bundle.
type Origin struct {
	// Path is the bundle path relative to the content root, without the
	// markdown file extension (e.g. "posts/first-post").
	Path string
	// Slug is the URL-path-like identifier derived from Path. It may contain
	// an iterator placeholder token until pagination expansion.
	Slug string
}

// RawContent is one discovered content bundle, immutable once produced.
type RawContent struct {
	Origin       Origin
	FrontMatter  map[string]value.Value
	Markdown     string
	LastModified time.Time
	// Assets lists non-markdown files discovered alongside an index bundle,
	// relative to the bundle directory.
	Assets []string
}
