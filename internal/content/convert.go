package content

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/source"
	"git.home.luguber.info/inful/sitegen/internal/value"
)

// Front-matter keys claimed by the converter itself rather than the schema.
const (
	keyType = "type"
	keyID   = "id"
)

// Converter builds Content entities from raw content records.
type Converter struct {
	defs    []*config.ContentDefinition
	coercer Coercer
}

// NewConverter creates a converter over the loaded content definitions.
func NewConverter(defs []*config.ContentDefinition, formats config.DateFormats) *Converter {
	return &Converter{defs: defs, coercer: NewCoercer(formats)}
}

// ConvertAll converts raw contents in order, one Content per RawContent.
// A per-item coercion or type-resolution failure fails the whole batch: a
// page that cannot be typed cannot be rendered.
func (cv *Converter) ConvertAll(raws []source.RawContent) ([]*Content, error) {
	contents := make([]*Content, 0, len(raws))
	for _, raw := range raws {
		c, err := cv.Convert(raw)
		if err != nil {
			return nil, fmt.Errorf("converting %s: %w", raw.Origin.Slug, err)
		}
		contents = append(contents, c)
	}
	return contents, nil
}

// Convert resolves the raw record's content definition, coerces its schema
// properties, copies relation identifier lists, and preserves unclaimed
// front-matter keys verbatim.
func (cv *Converter) Convert(raw source.RawContent) (*Content, error) {
	explicitType := ""
	if tv, ok := raw.FrontMatter[keyType]; ok {
		explicitType, _ = tv.AsString()
	}

	def, err := Detect(explicitType, raw.Origin.Path, cv.defs)
	if err != nil {
		return nil, err
	}

	properties := make(map[string]value.Value, len(def.Properties))
	for name, schema := range def.Properties {
		coerced, present, err := cv.coercer.Coerce(raw.FrontMatter[name], schema, name, raw.Origin.Slug)
		if err != nil {
			return nil, err
		}
		if !present {
			if schema.Required {
				slog.Warn("Required property missing",
					logfields.Slug(raw.Origin.Slug),
					logfields.Field(name),
					logfields.ContentType(def.ID))
			}
			continue
		}
		properties[name] = coerced
	}

	relations := make(map[string]Relation, len(def.Relations))
	for name, schema := range def.Relations {
		rv, ok := raw.FrontMatter[name]
		if !ok {
			continue
		}
		relations[name] = Relation{
			Identifiers: identifierList(rv),
			Cardinality: schema.Type,
		}
	}

	userDefined := make(map[string]value.Value)
	for key, v := range raw.FrontMatter {
		if key == keyType || key == keyID {
			continue
		}
		if _, claimed := def.Properties[key]; claimed {
			continue
		}
		if _, claimed := def.Relations[key]; claimed {
			continue
		}
		userDefined[key] = v
	}

	id := raw.Origin.Slug
	if iv, ok := raw.FrontMatter[keyID]; ok {
		if s, ok := iv.AsString(); ok && s != "" {
			id = s
		}
	}

	return &Content{
		ID:          id,
		Slug:        raw.Origin.Slug,
		Definition:  def,
		Properties:  properties,
		Relations:   relations,
		UserDefined: userDefined,
		Raw:         raw,
	}, nil
}

// identifierList copies a string-or-array-of-strings front-matter value into
// a flat identifier list. Unmatched identifiers stay as-is: resolution
// against actual content ids happens lazily at query time, and misses simply
// expand to nothing.
func identifierList(v value.Value) []string {
	if s, ok := v.AsString(); ok {
		return []string{s}
	}
	if arr, ok := v.AsArray(); ok {
		ids := make([]string, 0, len(arr))
		for _, e := range arr {
			if s, ok := e.AsString(); ok {
				ids = append(ids, s)
			}
		}
		return ids
	}
	return nil
}
