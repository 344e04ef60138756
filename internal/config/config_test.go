package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

const minimalDoc = `
site:
  base_url: https://example.com
  name: Example
types:
  - id: page
    default: true
pipelines:
  - id: site
`

func TestParse_MinimalDocument_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalDoc))
	require.NoError(t, err)

	require.Equal(t, DefaultSourceDir, cfg.Source.Dir)
	require.Equal(t, DefaultOutputDir, cfg.Output.Dir)
	require.Equal(t, time.RFC3339, cfg.DateFormats.Input)
	require.Equal(t, DefaultWatchDebounce, cfg.Watch.Debounce)

	p := cfg.Pipelines[0]
	require.Equal(t, ScopeDetail, p.Scope)
	require.Equal(t, EngineJSON, p.Engine.ID)
	require.Equal(t, "{{slug}}", p.Output.Path)
	require.Equal(t, "index", p.Output.File)
	require.Equal(t, "json", p.Output.Ext)
}

func TestParse_TypeWithoutScopes_GetsDefaultScopeSet(t *testing.T) {
	cfg, err := Parse([]byte(minimalDoc))
	require.NoError(t, err)

	d := cfg.Types[0]
	require.True(t, d.ScopeFor(ScopeReference).Includes(SectionProperties))
	require.False(t, d.ScopeFor(ScopeReference).Includes(SectionContents))
	require.True(t, d.ScopeFor(ScopeDetail).Includes(SectionQueries))
}

func TestScopeFor_UnknownKey_FallsBackToDetail(t *testing.T) {
	cfg, err := Parse([]byte(minimalDoc))
	require.NoError(t, err)

	scope := cfg.Types[0].ScopeFor("nonexistent")
	require.True(t, scope.Includes(SectionContents))
	require.True(t, scope.Includes(SectionQueries))
}

func TestParse_FullDocument_DecodesSchemas(t *testing.T) {
	doc := `
site:
  base_url: https://example.com
  name: Example
types:
  - id: author
  - id: post
    paths: [blog/posts]
    properties:
      title:
        type: string
        required: true
      publication:
        type: date
        dateFormat: "2006-01-02"
      rating:
        type: double
      tags:
        type: array
        of: string
    relations:
      authors:
        references: author
        type: many
    queries:
      related:
        contentType: post
        limit: 3
        filter:
          key: tags
          operator: matching
          value: "{{tags}}"
pipelines:
  - id: site
    contentTypes:
      include: [post]
    engine:
      id: mustache
      options:
        template: post-default
`
	cfg, err := Parse([]byte(doc))
	require.NoError(t, err)

	post, ok := cfg.Definition("post")
	require.True(t, ok)
	require.Equal(t, []string{"blog/posts"}, post.Paths)
	require.True(t, post.Properties["title"].Required)
	require.Equal(t, PropertyDate, post.Properties["publication"].Type)
	require.Equal(t, "2006-01-02", post.Properties["publication"].DateFormat)
	require.Equal(t, PropertyString, post.Properties["tags"].Of)
	require.Equal(t, "author", post.Relations["authors"].References)
	require.Equal(t, CardinalityMany, post.Relations["authors"].Type)
	require.NotNil(t, post.Queries["related"].Filter)

	p := cfg.Pipelines[0]
	require.True(t, p.ContentTypes.Allows("post"))
	require.False(t, p.ContentTypes.Allows("author"))
	require.Equal(t, EngineMustache, p.Engine.ID)
	require.Equal(t, "html", p.Output.Ext)
}

func TestValidate_DuplicateTypeID_Fails(t *testing.T) {
	doc := `
site: {base_url: "https://x", name: x}
types:
  - id: page
  - id: page
pipelines:
  - id: site
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	require.True(t, sgerrors.IsCategory(err, sgerrors.CategoryConfig))
}

func TestValidate_MultipleDefaults_Fails(t *testing.T) {
	doc := `
site: {base_url: "https://x", name: x}
types:
  - id: a
    default: true
  - id: b
    default: true
pipelines:
  - id: site
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
}

func TestValidate_IteratorReferencingUnknownType_Fails(t *testing.T) {
	doc := `
site: {base_url: "https://x", name: x}
types:
  - id: page
pipelines:
  - id: site
    iterators:
      posts:
        contentType: missing
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
}

func TestLoad_MissingFile_ReturnsConfigNotFound(t *testing.T) {
	_, err := Load("does/not/exist.yaml")
	require.Error(t, err)
	require.True(t, sgerrors.IsCategory(err, sgerrors.CategoryConfig))
}

func TestParse_EnvExpansion_SubstitutesVariables(t *testing.T) {
	t.Setenv("SITEGEN_TEST_URL", "https://env.example.com")
	doc := `
site:
  base_url: ${SITEGEN_TEST_URL}
  name: Example
types:
  - id: page
pipelines:
  - id: site
`
	cfg, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, "https://env.example.com", cfg.Site.BaseURL)
}

func TestContentTypeRules_ExcludeWinsOverInclude(t *testing.T) {
	rules := ContentTypeRules{Include: []string{"post"}, Exclude: []string{"post"}}
	require.False(t, rules.Allows("post"))

	empty := ContentTypeRules{}
	require.True(t, empty.Allows("anything"))
}
