// Package markdown renders Markdown bodies to HTML and derives the reading
// time and heading outline merged into page contexts.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Heading is one node of a document outline.
type Heading struct {
	Level    int
	Text     string
	Fragment string
	Children []Heading
}

// Result is the rendered form of one Markdown body.
type Result struct {
	HTML        string
	ReadingTime int // minutes, at least 1 for non-empty bodies
	Outline     []Heading
}

// Renderer converts Markdown to HTML with GitHub-flavored extensions and
// auto-generated heading anchors.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render converts body to HTML and computes reading time and outline.
func (r *Renderer) Render(body string) (Result, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return Result{}, err
	}

	rendered := buf.String()
	outline, err := ExtractOutline(rendered)
	if err != nil {
		return Result{}, err
	}

	return Result{
		HTML:        rendered,
		ReadingTime: readingTime(body),
		Outline:     outline,
	}, nil
}

// Average adult reading speed used for the reading-time estimate.
const wordsPerMinute = 238

func readingTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 0
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
