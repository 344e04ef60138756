package render

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/query"
	"git.home.luguber.info/inful/sitegen/internal/source"
	"git.home.luguber.info/inful/sitegen/internal/value"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func sortedKeys(m map[string]value.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func authorDef() *config.ContentDefinition {
	return &config.ContentDefinition{
		ID: "author",
		Properties: map[string]config.PropertySchema{
			"name": {Type: config.PropertyString},
		},
		Relations: map[string]config.RelationSchema{
			"posts": {References: "post", Type: config.CardinalityMany},
		},
	}
}

func postDef() *config.ContentDefinition {
	return &config.ContentDefinition{
		ID: "post",
		Properties: map[string]config.PropertySchema{
			"title":       {Type: config.PropertyString},
			"publication": {Type: config.PropertyDate},
		},
		Relations: map[string]config.RelationSchema{
			"authors": {References: "author", Type: config.CardinalityMany},
		},
		Queries: map[string]query.Query{
			"recentPosts": {
				ContentType: "post",
				Filter: &query.Condition{
					Key:   "id",
					Op:    query.OpNotEquals,
					Value: value.String("{{id}}"),
				},
			},
		},
	}
}

func makeAuthor(def *config.ContentDefinition, id, name string, postIDs ...string) *content.Content {
	return &content.Content{
		ID:         id,
		Slug:       "authors/" + id,
		Definition: def,
		Properties: map[string]value.Value{"name": value.String(name)},
		Relations: map[string]content.Relation{
			"posts": {Identifiers: postIDs, Cardinality: config.CardinalityMany},
		},
		UserDefined: map[string]value.Value{},
		Raw: source.RawContent{
			Markdown:     "Bio of " + name + "\n",
			LastModified: testNow.Add(-time.Hour),
		},
	}
}

func makePost(def *config.ContentDefinition, id, title string, authorIDs ...string) *content.Content {
	return &content.Content{
		ID:         id,
		Slug:       "blog/posts/" + id,
		Definition: def,
		Properties: map[string]value.Value{
			"title":       value.String(title),
			"publication": value.Double(float64(testNow.Add(-48 * time.Hour).Unix())),
		},
		Relations: map[string]content.Relation{
			"authors": {Identifiers: authorIDs, Cardinality: config.CardinalityMany},
		},
		UserDefined: map[string]value.Value{
			"custom": value.String("extra"),
		},
		Raw: source.RawContent{
			Markdown:     "# " + title + "\n\nBody text.\n",
			LastModified: testNow.Add(-time.Hour),
		},
	}
}

func testBuilder(t *testing.T, contents []*content.Content) *Builder {
	t.Helper()
	site := config.Site{
		BaseURL:  "https://example.com",
		Name:     "Example",
		Language: "en-US",
		Settings: map[string]any{"theme": "light"},
	}
	p := &config.Pipeline{
		ID:    "site",
		Scope: config.ScopeDetail,
		Queries: map[string]query.Query{
			"allPosts": {ContentType: "post", OrderBy: []query.Order{{Key: "title"}}},
		},
	}
	return NewBuilder(site, p, contents, markdown.NewRenderer(), NewCache(), testNow, nil)
}

func TestContext_DetailScope_AssemblesAllSections(t *testing.T) {
	author := authorDef()
	postD := postDef()
	alice := makeAuthor(author, "alice", "Alice", "hello")
	hello := makePost(postD, "hello", "Hello", "alice")
	b := testBuilder(t, []*content.Content{alice, hello})

	ctx, err := b.Context(hello, config.ScopeDetail, ExpandFull)
	require.NoError(t, err)

	// Properties plus computed fields.
	require.True(t, ctx["title"].Equal(value.String("Hello")))
	require.True(t, ctx["id"].Equal(value.String("hello")))
	require.True(t, ctx["slug"].Equal(value.String("blog/posts/hello")))
	require.True(t, ctx["permalink"].Equal(value.String("https://example.com/blog/posts/hello/")))

	// Date property expanded into the multi-format object.
	pub, ok := ctx["publication"].AsMap()
	require.True(t, ok)
	require.Contains(t, pub, "iso8601")
	require.Contains(t, pub, "timestamp")

	// User-defined passthrough.
	require.True(t, ctx["custom"].Equal(value.String("extra")))

	// Markdown block.
	contents, ok := ctx["contents"].AsMap()
	require.True(t, ok)
	html, _ := contents["html"].AsString()
	require.Contains(t, html, "<h1")
	rt, _ := contents["readingTime"].AsInt()
	require.Equal(t, int64(1), rt)

	// Relation expanded at reference scope: properties only, no contents.
	authors, ok := ctx["authors"].AsArray()
	require.True(t, ok)
	require.Len(t, authors, 1)
	aliceCtx, _ := authors[0].AsMap()
	require.True(t, aliceCtx["name"].Equal(value.String("Alice")))
	require.NotContains(t, aliceCtx, "contents")
}

func TestContext_ReferenceScope_PropertiesOnly(t *testing.T) {
	postD := postDef()
	hello := makePost(postD, "hello", "Hello")
	b := testBuilder(t, []*content.Content{hello})

	ctx, err := b.Context(hello, config.ScopeReference, ExpandReferenceOnly)
	require.NoError(t, err)
	require.Contains(t, ctx, "title")
	require.NotContains(t, ctx, "contents")
	require.NotContains(t, ctx, "custom")
	require.NotContains(t, ctx, "recentPosts")
}

func TestContext_CyclicRelations_Terminate(t *testing.T) {
	author := authorDef()
	postD := postDef()
	alice := makeAuthor(author, "alice", "Alice", "hello")
	hello := makePost(postD, "hello", "Hello", "alice")
	b := testBuilder(t, []*content.Content{alice, hello})

	// author -> post -> author is a cycle; reference-only expansion at depth
	// one keeps it finite.
	ctx, err := b.Context(alice, config.ScopeDetail, ExpandFull)
	require.NoError(t, err)

	posts, ok := ctx["posts"].AsArray()
	require.True(t, ok)
	require.Len(t, posts, 1)
}

func TestContext_SubQueries_OnlyInFullMode(t *testing.T) {
	postD := postDef()
	a := makePost(postD, "a", "A")
	bPost := makePost(postD, "b", "B")
	b := testBuilder(t, []*content.Content{a, bPost})

	full, err := b.Context(a, config.ScopeDetail, ExpandFull)
	require.NoError(t, err)
	recent, ok := full["recentPosts"].AsArray()
	require.True(t, ok)
	// {{id}} resolved against the item's own fields, so the item excludes
	// itself.
	require.Len(t, recent, 1)

	refOnly, err := b.Context(bPost, config.ScopeDetail, ExpandReferenceOnly)
	require.NoError(t, err)
	require.NotContains(t, refOnly, "recentPosts")
}

func TestContext_FieldProjection_Applied(t *testing.T) {
	postD := postDef()
	postD.Scopes = map[string]config.Scope{
		"card": {
			Context: []config.ContextSection{config.SectionProperties},
			Fields:  []string{"title", "permalink"},
		},
	}
	hello := makePost(postD, "hello", "Hello")
	b := testBuilder(t, []*content.Content{hello})

	ctx, err := b.Context(hello, "card", ExpandReferenceOnly)
	require.NoError(t, err)
	require.Equal(t, []string{"permalink", "title"}, sortedKeys(ctx))
}

func TestContext_Memoized_PerScopeAndMode(t *testing.T) {
	postD := postDef()
	hello := makePost(postD, "hello", "Hello")
	b := testBuilder(t, []*content.Content{hello})

	first, err := b.Context(hello, config.ScopeReference, ExpandReferenceOnly)
	require.NoError(t, err)
	second, err := b.Context(hello, config.ScopeReference, ExpandReferenceOnly)
	require.NoError(t, err)
	require.Equal(t, 1, b.cache.Len())
	require.Equal(t, len(first), len(second))

	// Different scope key misses the cache.
	_, err = b.Context(hello, config.ScopeDetail, ExpandReferenceOnly)
	require.NoError(t, err)
	require.Equal(t, 2, b.cache.Len())

	// Same scope, different mode is its own entry too.
	_, err = b.Context(hello, config.ScopeDetail, ExpandFull)
	require.NoError(t, err)
	require.Equal(t, 3, b.cache.Len())
}

func TestPageContext_MergesSiteQueriesAndPage(t *testing.T) {
	postD := postDef()
	a := makePost(postD, "a", "A")
	bPost := makePost(postD, "b", "B")
	b := testBuilder(t, []*content.Content{a, bPost})

	ctx, err := b.PageContext(a)
	require.NoError(t, err)

	site, ok := ctx["site"].AsMap()
	require.True(t, ok)
	require.True(t, site["name"].Equal(value.String("Example")))
	require.True(t, site["baseUrl"].Equal(value.String("https://example.com")))
	require.True(t, site["theme"].Equal(value.String("light")))
	require.Contains(t, site, "generation")

	allPosts, ok := ctx["allPosts"].AsArray()
	require.True(t, ok)
	require.Len(t, allPosts, 2)

	page, ok := ctx["page"].AsMap()
	require.True(t, ok)
	require.True(t, page["id"].Equal(value.String("a")))

	require.NotContains(t, ctx, "iterator")
}

func TestPageContext_SiteSettings_NeverOverrideReservedKeys(t *testing.T) {
	postD := postDef()
	hello := makePost(postD, "hello", "Hello")
	b := testBuilder(t, []*content.Content{hello})
	b.site.Settings = map[string]any{"name": "malicious", "motto": "hi"}

	ctx, err := b.PageContext(hello)
	require.NoError(t, err)
	site, _ := ctx["site"].AsMap()
	require.True(t, site["name"].Equal(value.String("Example")))
	require.True(t, site["motto"].Equal(value.String("hi")))
}

func TestDestinationFor_SubstitutesTokens(t *testing.T) {
	postD := postDef()
	hello := makePost(postD, "hello", "Hello")

	dest := DestinationFor(config.OutputTemplate{
		Path: "{{slug}}",
		File: "index",
		Ext:  "json",
	}, hello)
	require.Equal(t, "blog/posts/hello", dest.Path)
	require.Equal(t, "index", dest.File)
	require.Equal(t, "json", dest.Ext)
}
