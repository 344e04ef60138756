// Package query implements the filter/query DSL evaluated over resolved
// content collections: boolean condition trees with typed comparisons,
// placeholder parameterization, stable multi-key ordering, and offset/limit
// windowing.
package query

import (
	"time"

	"git.home.luguber.info/inful/sitegen/internal/value"
)

// Direction selects sort order for an ordering key.
type Direction string

const (
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// Order is one key of a multi-key sort.
type Order struct {
	Key       string    `yaml:"key"`
	Direction Direction `yaml:"direction,omitempty"` // defaults to asc
}

// Query describes a selection over a content collection.
//
// Limit and Offset are pointers so "absent" is distinguishable from zero:
// an iterator interprets its Limit as page size, where absent means the
// default page size rather than no limit.
type Query struct {
	ContentType string     `yaml:"contentType"`
	Scope       string     `yaml:"scope,omitempty"`
	Limit       *int       `yaml:"limit,omitempty"`
	Offset      *int       `yaml:"offset,omitempty"`
	Filter      *Condition `yaml:"filter,omitempty"`
	OrderBy     []Order    `yaml:"orderBy,omitempty"`
}

// WithWindow returns a copy of q using the given offset and limit.
func (q Query) WithWindow(offset, limit int) Query {
	q.Offset = &offset
	q.Limit = &limit
	return q
}

// WithoutWindow returns a copy of q with offset and limit cleared, used for
// count-only evaluation so pagination math sees the full result set.
func (q Query) WithoutWindow() Query {
	q.Offset = nil
	q.Limit = nil
	return q
}

// ResolveParams returns a copy of q whose filter placeholders are substituted
// from the given field map. Tokens without a matching field are left in place
// so {{date.now}} can still be resolved at evaluation time.
func (q Query) ResolveParams(fields map[string]value.Value) Query {
	if q.Filter == nil {
		return q
	}
	f := q.Filter.resolve(fields, nil)
	q.Filter = &f
	return q
}

// nowField is the reserved placeholder resolved against the evaluation
// timestamp instead of a content field.
const nowField = "date.now"

func nowValue(now time.Time) value.Value {
	return value.Double(float64(now.Unix()))
}
