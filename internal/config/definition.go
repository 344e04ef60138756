package config

import (
	"git.home.luguber.info/inful/sitegen/internal/query"
)

// PropertyType enumerates the coercible property types a content definition
// can declare (stringly for YAML compatibility).
type PropertyType string

const (
	PropertyString PropertyType = "string"
	PropertyBool   PropertyType = "bool"
	PropertyInt    PropertyType = "int"
	PropertyDouble PropertyType = "double"
	PropertyDate   PropertyType = "date"
	PropertyArray  PropertyType = "array"
	PropertyAsset  PropertyType = "asset"
)

// PropertySchema declares one typed property of a content definition.
type PropertySchema struct {
	Type     PropertyType `yaml:"type"`
	Required bool         `yaml:"required,omitempty"`
	// Default is re-coerced through the same rules as front-matter input.
	Default any `yaml:"default,omitempty"`
	// Of is the element type for array properties. Heterogeneous arrays are
	// not supported.
	Of PropertyType `yaml:"of,omitempty"`
	// DateFormat overrides the global input date layout (Go reference time
	// layout) for date properties.
	DateFormat string `yaml:"dateFormat,omitempty"`
}

// Cardinality enumerates relation arity.
type Cardinality string

const (
	CardinalityOne  Cardinality = "one"
	CardinalityMany Cardinality = "many"
)

// RelationSchema declares a typed reference from one content type to another.
type RelationSchema struct {
	References string       `yaml:"references"`
	Type       Cardinality  `yaml:"type"`
	Order      *query.Order `yaml:"order,omitempty"`
}

// ContextSection names one block of a rendering context a scope can include.
type ContextSection string

const (
	SectionUserDefined ContextSection = "userDefined"
	SectionProperties  ContextSection = "properties"
	SectionContents    ContextSection = "contents"
	SectionRelations   ContextSection = "relations"
	SectionQueries     ContextSection = "queries"
)

// Well-known scope keys. "reference" is the scope relation expansion renders
// referenced items at; "list" is the default scope for sub-query results.
const (
	ScopeReference = "reference"
	ScopeList      = "list"
	ScopeDetail    = "detail"
)

// Scope selects which context sections to assemble when rendering a content
// item at a given usage site, plus an optional field allow-list applied as a
// final projection.
type Scope struct {
	Context []ContextSection `yaml:"context,omitempty"`
	Fields  []string         `yaml:"fields,omitempty"`
}

// Includes reports whether the scope selects the given section.
func (s Scope) Includes(section ContextSection) bool {
	for _, sec := range s.Context {
		if sec == section {
			return true
		}
	}
	return false
}

// ContentDefinition is the schema for one content type: which raw content it
// claims, its typed properties and relations, named sub-queries, and scopes.
type ContentDefinition struct {
	ID      string `yaml:"id"`
	Default bool   `yaml:"default,omitempty"`
	// Paths lists origin path prefixes implying this type. When several
	// definitions' prefixes match the same origin, the last-declared
	// definition wins.
	Paths      []string                  `yaml:"paths,omitempty"`
	Properties map[string]PropertySchema `yaml:"properties,omitempty"`
	Relations  map[string]RelationSchema `yaml:"relations,omitempty"`
	Queries    map[string]query.Query    `yaml:"queries,omitempty"`
	Scopes     map[string]Scope          `yaml:"scopes,omitempty"`
}

// ScopeFor returns the named scope, falling back to the detail scope when the
// key is unknown.
func (d *ContentDefinition) ScopeFor(key string) Scope {
	if s, ok := d.Scopes[key]; ok {
		return s
	}
	if s, ok := d.Scopes[ScopeDetail]; ok {
		return s
	}
	return defaultScopes()[ScopeDetail]
}

// defaultScopes returns the scope set attached to definitions that declare
// none: reference exposes bare properties, list adds user-defined fields and
// relations, detail includes every section.
func defaultScopes() map[string]Scope {
	return map[string]Scope{
		ScopeReference: {
			Context: []ContextSection{SectionProperties},
		},
		ScopeList: {
			Context: []ContextSection{SectionUserDefined, SectionProperties, SectionRelations},
		},
		ScopeDetail: {
			Context: []ContextSection{
				SectionUserDefined, SectionProperties, SectionContents,
				SectionRelations, SectionQueries,
			},
		},
	}
}
