package render

import (
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/tokens"
	"git.home.luguber.info/inful/sitegen/internal/value"
)

// Destination is the resolved output location triple for one page.
type Destination struct {
	Path string
	File string
	Ext  string
}

// ContextBundle pairs a content item with its computed render context and
// output destination: the unit handed to the template or JSON renderer.
type ContextBundle struct {
	Content     *content.Content
	Context     map[string]value.Value
	Destination Destination
}

// DestinationFor substitutes {{id}} and {{slug}} into the pipeline's output
// destination template.
func DestinationFor(tmpl config.OutputTemplate, c *content.Content) Destination {
	fields := map[string]string{
		"id":   c.ID,
		"slug": c.Slug,
	}
	return Destination{
		Path: tokens.ReplaceAll(tmpl.Path, fields),
		File: tokens.ReplaceAll(tmpl.File, fields),
		Ext:  tokens.ReplaceAll(tmpl.Ext, fields),
	}
}

// Bundles computes one context bundle per page.
func (b *Builder) Bundles(pages []*content.Content) ([]ContextBundle, error) {
	bundles := make([]ContextBundle, 0, len(pages))
	for _, c := range pages {
		ctx, err := b.PageContext(c)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, ContextBundle{
			Content:     c,
			Context:     ctx,
			Destination: DestinationFor(b.pipeline.Output, c),
		})
	}
	return bundles, nil
}
