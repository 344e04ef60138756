package render

import (
	"log/slog"
	"strconv"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/query"
	"git.home.luguber.info/inful/sitegen/internal/tokens"
	"git.home.luguber.info/inful/sitegen/internal/value"
)

// DefaultPageSize applies when an iterator's backing query declares no limit.
const DefaultPageSize = 10

// Reserved tokens substituted into synthesized pages alongside the iterator
// token itself.
const (
	tokenNumber = "number"
	tokenTotal  = "total"
)

// ExpandIterators expands templated content items (slug containing an
// iterator placeholder) into one concrete page per window of the backing
// query. Items without an iterator token, or referencing an iterator unknown
// to the pipeline, pass through unmodified. An iterator with zero matching
// items yields zero pages: the template disappears from the output.
//
// pages is the pipeline's page selection; all is the full collection backing
// the iterator queries.
func ExpandIterators(pages []*content.Content, all []*content.Content,
	iterators map[string]query.Query, baseURL string, now time.Time) []*content.Content {

	out := make([]*content.Content, 0, len(pages))
	for _, c := range pages {
		iterID, ok := findIterator(c.Slug, iterators)
		if !ok {
			out = append(out, c)
			continue
		}
		out = append(out, expandOne(c, iterID, iterators[iterID], all, baseURL, now)...)
	}
	return out
}

func findIterator(slug string, iterators map[string]query.Query) (string, bool) {
	for id := range iterators {
		if tokens.Has(slug, id) {
			return id, true
		}
	}
	return "", false
}

func expandOne(template *content.Content, iterID string, q query.Query,
	all []*content.Content, baseURL string, now time.Time) []*content.Content {

	pageSize := DefaultPageSize
	if q.Limit != nil && *q.Limit > 0 {
		pageSize = *q.Limit
	}
	if pageSize < 1 {
		pageSize = 1
	}

	total := query.Count(q.WithoutWindow(), now, all)
	numberOfPages := (total + pageSize - 1) / pageSize

	slog.Debug("Expanding iterator",
		logfields.Iterator(iterID),
		logfields.Slug(template.Slug),
		slog.Int("total", total),
		slog.Int("pages", numberOfPages))

	scopeKey := q.Scope
	pages := make([]*content.Content, 0, numberOfPages)
	for page := 1; page <= numberOfPages; page++ {
		items := query.Run(q.WithWindow((page-1)*pageSize, pageSize), now, all)

		clone := template.Clone()
		rewrite := func(s string) string {
			s = tokens.Replace(s, iterID, strconv.Itoa(page))
			s = tokens.Replace(s, tokenNumber, strconv.Itoa(page))
			return tokens.Replace(s, tokenTotal, strconv.Itoa(numberOfPages))
		}

		clone.ID = rewrite(clone.ID)
		clone.Slug = rewrite(clone.Slug)
		rewriteStrings(clone.Properties, rewrite)
		rewriteStrings(clone.UserDefined, rewrite)

		clone.Iterator = &content.IteratorInfo{
			Current: page,
			Total:   numberOfPages,
			Limit:   pageSize,
			Scope:   scopeKey,
			Items:   items,
			Links:   pageLinks(template.Slug, iterID, page, numberOfPages, baseURL),
		}
		pages = append(pages, clone)
	}
	return pages
}

// rewriteStrings applies the token rewrite to every string-valued entry,
// including strings nested in arrays.
func rewriteStrings(m map[string]value.Value, rewrite func(string) string) {
	for k, v := range m {
		m[k] = rewriteValue(v, rewrite)
	}
}

func rewriteValue(v value.Value, rewrite func(string) string) value.Value {
	if s, ok := v.AsString(); ok {
		return value.String(rewrite(s))
	}
	if arr, ok := v.AsArray(); ok {
		out := make([]value.Value, len(arr))
		for i, e := range arr {
			out[i] = rewriteValue(e, rewrite)
		}
		return value.Array(out...)
	}
	return v
}

// pageLinks builds one link per page, each permalink derived by substituting
// the page number into the template slug before resolving against the base
// URL.
func pageLinks(templateSlug, iterID string, current, total int, baseURL string) []content.PageLink {
	links := make([]content.PageLink, 0, total)
	for page := 1; page <= total; page++ {
		slug := tokens.Replace(templateSlug, iterID, strconv.Itoa(page))
		links = append(links, content.PageLink{
			Number:    page,
			Permalink: Permalink(baseURL, slug),
			IsCurrent: page == current,
		})
	}
	return links
}
