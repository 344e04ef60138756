package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_BasicMarkdown_ProducesHTML(t *testing.T) {
	r := NewRenderer()

	res, err := r.Render("# Title\n\nSome **bold** text.\n")
	require.NoError(t, err)
	require.Contains(t, res.HTML, "<h1")
	require.Contains(t, res.HTML, "<strong>bold</strong>")
}

func TestRender_GFMTable_Rendered(t *testing.T) {
	r := NewRenderer()

	res, err := r.Render("| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	require.Contains(t, res.HTML, "<table>")
}

func TestRender_RawHTML_PassedThrough(t *testing.T) {
	r := NewRenderer()

	res, err := r.Render("<div class=\"note\">raw</div>\n")
	require.NoError(t, err)
	require.Contains(t, res.HTML, "<div class=\"note\">raw</div>")
}

func TestRender_Headings_GetAutoIDs(t *testing.T) {
	r := NewRenderer()

	res, err := r.Render("## Getting Started\n")
	require.NoError(t, err)
	require.Contains(t, res.HTML, `id="getting-started"`)
}

func TestRender_Outline_NestsByLevel(t *testing.T) {
	r := NewRenderer()

	res, err := r.Render("# Top\n\n## First\n\n### Deep\n\n## Second\n")
	require.NoError(t, err)
	require.Len(t, res.Outline, 1)

	top := res.Outline[0]
	require.Equal(t, 1, top.Level)
	require.Equal(t, "Top", top.Text)
	require.Len(t, top.Children, 2)
	require.Equal(t, "First", top.Children[0].Text)
	require.Len(t, top.Children[0].Children, 1)
	require.Equal(t, "Deep", top.Children[0].Children[0].Text)
	require.Equal(t, "second", top.Children[1].Fragment)
}

func TestRender_EmptyBody_ZeroReadingTime(t *testing.T) {
	r := NewRenderer()

	res, err := r.Render("")
	require.NoError(t, err)
	require.Equal(t, 0, res.ReadingTime)
	require.Empty(t, res.Outline)
}

func TestRender_ShortBody_ReadingTimeAtLeastOneMinute(t *testing.T) {
	r := NewRenderer()

	res, err := r.Render("just a few words here")
	require.NoError(t, err)
	require.Equal(t, 1, res.ReadingTime)
}

func TestRender_LongBody_ReadingTimeScales(t *testing.T) {
	r := NewRenderer()

	body := strings.Repeat("word ", wordsPerMinute*3)
	res, err := r.Render(body)
	require.NoError(t, err)
	require.Equal(t, 3, res.ReadingTime)
}
