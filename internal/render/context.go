// Package render computes scoped rendering contexts for resolved content:
// section assembly per scope, recursive relation and sub-query expansion with
// memoization, pagination expansion, and output destination templating.
package render

import (
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/query"
	"git.home.luguber.info/inful/sitegen/internal/value"
)

// Builder computes rendering contexts for one pipeline run. It owns the run's
// context cache and evaluation timestamp; pipelines running concurrently each
// get their own Builder.
type Builder struct {
	site     config.Site
	pipeline *config.Pipeline
	contents []*content.Content
	md       *markdown.Renderer
	cache    *Cache
	now      time.Time
	formats  map[string]string

	topQueries map[string]value.Value
}

// NewBuilder creates a context builder over the full resolved content
// collection. globalFormats are merged with the pipeline's own date formats,
// the pipeline winning on collision.
func NewBuilder(site config.Site, pipeline *config.Pipeline, contents []*content.Content,
	md *markdown.Renderer, cache *Cache, now time.Time, globalFormats map[string]string) *Builder {

	formats := make(map[string]string, len(globalFormats)+len(pipeline.DateFormats))
	for k, v := range globalFormats {
		formats[k] = v
	}
	for k, v := range pipeline.DateFormats {
		formats[k] = v
	}

	return &Builder{
		site:     site,
		pipeline: pipeline,
		contents: contents,
		md:       md,
		cache:    cache,
		now:      now,
		formats:  formats,
	}
}

// Context computes the scoped, field-filtered context for a content item.
// Results are memoized per (pipeline, slug, scope, mode).
func (b *Builder) Context(c *content.Content, scopeKey string, mode ExpansionMode) (map[string]value.Value, error) {
	key := cacheKey{pipeline: b.pipeline.ID, slug: c.Slug, scope: scopeKey, mode: mode}
	if cached, ok := b.cache.get(key); ok {
		return cached, nil
	}

	scope := c.Definition.ScopeFor(scopeKey)
	ctx := make(map[string]value.Value)

	if scope.Includes(config.SectionUserDefined) {
		for k, v := range c.UserDefined {
			ctx[k] = v
		}
	}

	if scope.Includes(config.SectionProperties) {
		b.addProperties(ctx, c)
	}

	if scope.Includes(config.SectionContents) {
		if err := b.addContents(ctx, c); err != nil {
			return nil, err
		}
	}

	if scope.Includes(config.SectionRelations) {
		if err := b.addRelations(ctx, c); err != nil {
			return nil, err
		}
	}

	if scope.Includes(config.SectionQueries) && mode == ExpandFull {
		if err := b.addSubQueries(ctx, c); err != nil {
			return nil, err
		}
	}

	if len(scope.Fields) > 0 {
		ctx = project(ctx, scope.Fields)
	}

	b.cache.set(key, ctx)
	return ctx, nil
}

// addProperties merges typed properties (date-typed ones expanded into the
// multi-format date object) plus the computed fields id, slug, permalink,
// and lastUpdate.
func (b *Builder) addProperties(ctx map[string]value.Value, c *content.Content) {
	for name, v := range c.Properties {
		schema := c.Definition.Properties[name]
		switch {
		case schema.Type == config.PropertyDate:
			if epoch, ok := v.AsDouble(); ok {
				ctx[name] = DateContext(epoch, b.formats)
				continue
			}
		case schema.Type == config.PropertyArray && schema.Of == config.PropertyDate:
			if arr, ok := v.AsArray(); ok {
				out := make([]value.Value, len(arr))
				for i, e := range arr {
					if epoch, ok := e.AsDouble(); ok {
						out[i] = DateContext(epoch, b.formats)
					} else {
						out[i] = e
					}
				}
				ctx[name] = value.Array(out...)
				continue
			}
		}
		ctx[name] = v
	}

	ctx["id"] = value.String(c.ID)
	ctx["slug"] = value.String(c.Slug)
	ctx["permalink"] = value.String(Permalink(b.site.BaseURL, c.Slug))
	ctx["lastUpdate"] = DateContext(float64(c.Raw.LastModified.Unix()), b.formats)
}

func (b *Builder) addContents(ctx map[string]value.Value, c *content.Content) error {
	res, err := b.md.Render(c.Raw.Markdown)
	if err != nil {
		return sgerrors.RenderFailed(c.Slug, err)
	}
	ctx["contents"] = value.Map(map[string]value.Value{
		"html":        value.String(res.HTML),
		"readingTime": value.Int(int64(res.ReadingTime)),
		"outline":     outlineValue(res.Outline),
	})
	return nil
}

// addRelations expands each relation into the referenced items' contexts at
// reference scope. Referenced items render reference-only, which is what
// keeps cyclic relation graphs finite. Identifiers with no matching content
// expand to nothing.
func (b *Builder) addRelations(ctx map[string]value.Value, c *content.Content) error {
	for name, rel := range c.Relations {
		schema := c.Definition.Relations[name]

		q := query.Query{
			ContentType: schema.References,
			Filter: &query.Condition{
				Key:   "id",
				Op:    query.OpIn,
				Value: value.Strings(rel.Identifiers...),
			},
		}
		if schema.Order != nil {
			q.OrderBy = []query.Order{*schema.Order}
		}

		refs := query.Run(q, b.now, b.contents)
		contexts := make([]value.Value, 0, len(refs))
		for _, ref := range refs {
			refCtx, err := b.Context(ref, config.ScopeReference, ExpandReferenceOnly)
			if err != nil {
				return err
			}
			contexts = append(contexts, value.Map(refCtx))
		}

		if rel.Cardinality == config.CardinalityOne {
			if len(contexts) > 0 {
				ctx[name] = contexts[0]
			}
			continue
		}
		ctx[name] = value.Array(contexts...)
	}
	return nil
}

// addSubQueries resolves each named sub-query on the content's definition
// against the item's own query fields and expands the results at the query's
// declared scope (default list), reference-only.
func (b *Builder) addSubQueries(ctx map[string]value.Value, c *content.Content) error {
	for name, q := range c.Definition.Queries {
		resolved := q.ResolveParams(c.QueryFields())
		scopeKey := resolved.Scope
		if scopeKey == "" {
			scopeKey = config.ScopeList
		}

		results := query.Run(resolved, b.now, b.contents)
		contexts := make([]value.Value, 0, len(results))
		for _, r := range results {
			rCtx, err := b.Context(r, scopeKey, ExpandReferenceOnly)
			if err != nil {
				return err
			}
			contexts = append(contexts, value.Map(rCtx))
		}
		ctx[name] = value.Array(contexts...)
	}
	return nil
}

// PageContext assembles the top-level context for one output page: the site
// block, the pipeline's named top-level queries, the page's own scoped
// context, and the iterator block for synthesized pagination pages.
func (b *Builder) PageContext(c *content.Content) (map[string]value.Value, error) {
	pageCtx, err := b.Context(c, b.pipeline.Scope, ExpandFull)
	if err != nil {
		return nil, err
	}

	top, err := b.pipelineQueries()
	if err != nil {
		return nil, err
	}

	ctx := make(map[string]value.Value, len(top)+3)
	for name, v := range top {
		ctx[name] = v
	}
	ctx["site"] = b.siteContext()
	ctx["page"] = value.Map(pageCtx)

	if c.Iterator != nil {
		iterCtx, err := b.iteratorContext(c.Iterator)
		if err != nil {
			return nil, err
		}
		ctx["iterator"] = iterCtx
	}

	return ctx, nil
}

// pipelineQueries evaluates the pipeline's named top-level queries once per
// run and reuses the result for every page.
func (b *Builder) pipelineQueries() (map[string]value.Value, error) {
	if b.topQueries != nil {
		return b.topQueries, nil
	}

	out := make(map[string]value.Value, len(b.pipeline.Queries))
	for name, q := range b.pipeline.Queries {
		scopeKey := q.Scope
		if scopeKey == "" {
			scopeKey = config.ScopeList
		}
		results := query.Run(q, b.now, b.contents)
		contexts := make([]value.Value, 0, len(results))
		for _, r := range results {
			rCtx, err := b.Context(r, scopeKey, ExpandReferenceOnly)
			if err != nil {
				return nil, err
			}
			contexts = append(contexts, value.Map(rCtx))
		}
		out[name] = value.Array(contexts...)
	}
	b.topQueries = out
	return out, nil
}

func (b *Builder) siteContext() value.Value {
	site := map[string]value.Value{
		"name":        value.String(b.site.Name),
		"baseUrl":     value.String(b.site.BaseURL),
		"description": value.String(b.site.Description),
		"language":    value.String(b.site.Language),
		"generation":  DateContext(float64(b.now.Unix()), b.formats),
	}
	for k, v := range b.site.Settings {
		if _, taken := site[k]; taken {
			continue
		}
		site[k] = value.FromAny(v)
	}
	return value.Map(site)
}

func (b *Builder) iteratorContext(info *content.IteratorInfo) (value.Value, error) {
	scopeKey := info.Scope
	if scopeKey == "" {
		scopeKey = config.ScopeList
	}

	items := make([]value.Value, 0, len(info.Items))
	for _, item := range info.Items {
		itemCtx, err := b.Context(item, scopeKey, ExpandReferenceOnly)
		if err != nil {
			return value.Null(), err
		}
		items = append(items, value.Map(itemCtx))
	}

	links := make([]value.Value, 0, len(info.Links))
	for _, l := range info.Links {
		links = append(links, value.Map(map[string]value.Value{
			"number":    value.Int(int64(l.Number)),
			"permalink": value.String(l.Permalink),
			"isCurrent": value.Bool(l.IsCurrent),
		}))
	}

	return value.Map(map[string]value.Value{
		"current": value.Int(int64(info.Current)),
		"total":   value.Int(int64(info.Total)),
		"limit":   value.Int(int64(info.Limit)),
		"items":   value.Array(items...),
		"links":   value.Array(links...),
	}), nil
}

func outlineValue(headings []markdown.Heading) value.Value {
	out := make([]value.Value, len(headings))
	for i, h := range headings {
		out[i] = value.Map(map[string]value.Value{
			"level":    value.Int(int64(h.Level)),
			"text":     value.String(h.Text),
			"fragment": value.String(h.Fragment),
			"children": outlineValue(h.Children),
		})
	}
	return value.Array(out...)
}

func project(ctx map[string]value.Value, fields []string) map[string]value.Value {
	keep := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		keep[f] = struct{}{}
	}
	out := make(map[string]value.Value, len(fields))
	for k, v := range ctx {
		if _, ok := keep[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Permalink resolves a slug against the site base URL.
func Permalink(baseURL, slug string) string {
	base := strings.TrimRight(baseURL, "/")
	if slug == "" {
		return base + "/"
	}
	return base + "/" + slug + "/"
}
