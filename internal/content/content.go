// Package content converts raw front-matter records into strongly-typed
// Content entities according to their content definition, and exposes the
// flattened field view the query engine filters on.
package content

import (
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/source"
	"git.home.luguber.info/inful/sitegen/internal/value"
)

// Relation holds the referenced identifiers for one declared relation key.
type Relation struct {
	Identifiers []string
	Cardinality config.Cardinality
}

// PageLink is one entry of a pagination link list.
type PageLink struct {
	Number    int
	Permalink string
	IsCurrent bool
}

// IteratorInfo is attached to synthesized pagination pages only. Total is
// the number of pages, Limit the page size, Items the page's content slice.
type IteratorInfo struct {
	Current int
	Total   int
	Limit   int
	// Scope is the backing query's declared scope, used when rendering Items
	// into the page context.
	Scope string
	Items []*Content
	Links []PageLink
}

// Content is a resolved content entity. Created once per RawContent by the
// converter; pagination variants are derived copies with rewritten id, slug,
// and property placeholders.
type Content struct {
	ID         string
	Slug       string
	Definition *config.ContentDefinition
	Properties map[string]value.Value
	Relations  map[string]Relation
	// UserDefined preserves front-matter keys not claimed by the schema.
	UserDefined map[string]value.Value
	Raw         source.RawContent
	// Iterator is non-nil only on pages synthesized by pagination expansion.
	Iterator *IteratorInfo
}

// TypeID implements query.Record.
func (c *Content) TypeID() string {
	return c.Definition.ID
}

// QueryFields implements query.Record: the merged view of identity fields,
// typed properties, and flattened relation identifiers (one relations appear
// as a scalar, many as an array), so filter placeholders like {{authors}}
// reference relation fields uniformly with scalar properties.
func (c *Content) QueryFields() map[string]value.Value {
	fields := make(map[string]value.Value, len(c.Properties)+len(c.Relations)+3)
	for k, v := range c.Properties {
		fields[k] = v
	}
	for k, rel := range c.Relations {
		switch rel.Cardinality {
		case config.CardinalityOne:
			if len(rel.Identifiers) > 0 {
				fields[k] = value.String(rel.Identifiers[0])
			} else {
				fields[k] = value.Null()
			}
		default:
			fields[k] = value.Strings(rel.Identifiers...)
		}
	}
	fields["id"] = value.String(c.ID)
	fields["slug"] = value.String(c.Slug)
	fields["lastUpdate"] = value.Double(float64(c.Raw.LastModified.Unix()))
	return fields
}

// Clone returns a copy safe to mutate during pagination expansion. Property
// and user-defined maps are copied; the definition and raw record are shared.
func (c *Content) Clone() *Content {
	props := make(map[string]value.Value, len(c.Properties))
	for k, v := range c.Properties {
		props[k] = v
	}
	userDefined := make(map[string]value.Value, len(c.UserDefined))
	for k, v := range c.UserDefined {
		userDefined[k] = v
	}
	relations := make(map[string]Relation, len(c.Relations))
	for k, v := range c.Relations {
		relations[k] = v
	}
	clone := *c
	clone.Properties = props
	clone.UserDefined = userDefined
	clone.Relations = relations
	return &clone
}
