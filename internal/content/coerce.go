package content

import (
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/value"
)

// Coercer applies property schemas to untyped front-matter values.
type Coercer struct {
	formats config.DateFormats
}

// NewCoercer creates a coercer with the given date-format configuration.
func NewCoercer(formats config.DateFormats) Coercer {
	return Coercer{formats: formats}
}

// Coerce converts a raw front-matter value to the schema's declared type.
//
// An absent value falls back to the schema default (itself re-coerced through
// the same rules); with no default the property is omitted (present=false)
// and the caller decides what a missing required property means. A present
// value that cannot be converted is an InvalidProperty error carrying the
// offending field name, value, and slug.
func (c Coercer) Coerce(raw value.Value, schema config.PropertySchema, name, slug string) (coerced value.Value, present bool, err error) {
	if raw.IsNull() {
		if schema.Default == nil {
			return value.Null(), false, nil
		}
		raw = value.FromAny(schema.Default)
	}

	out, ok := c.convert(raw, schema)
	if !ok {
		return value.Null(), false, sgerrors.InvalidProperty(name, raw.String(), slug)
	}
	return out, true, nil
}

func (c Coercer) convert(raw value.Value, schema config.PropertySchema) (value.Value, bool) {
	switch schema.Type {
	case config.PropertyString, config.PropertyAsset:
		if _, ok := raw.AsString(); ok {
			return raw, true
		}
		// Scalars stringify; containers do not.
		if raw.Kind() != value.KindArray && raw.Kind() != value.KindMap {
			return value.String(raw.StringValue()), true
		}
		return value.Null(), false

	case config.PropertyBool:
		if _, ok := raw.AsBool(); ok {
			return raw, true
		}
		// Numeric bool literals coerce truthy: zero is false, anything
		// else true.
		if f, ok := raw.AsDouble(); ok {
			return value.Bool(f != 0), true
		}
		if s, ok := raw.AsString(); ok {
			switch s {
			case "true":
				return value.Bool(true), true
			case "false":
				return value.Bool(false), true
			}
		}
		return value.Null(), false

	case config.PropertyInt:
		if i, ok := raw.AsInt(); ok {
			return value.Int(i), true
		}
		return value.Null(), false

	case config.PropertyDouble:
		if f, ok := raw.AsDouble(); ok {
			return value.Double(f), true
		}
		return value.Null(), false

	case config.PropertyDate:
		return c.convertDate(raw, schema)

	case config.PropertyArray:
		arr, ok := raw.AsArray()
		if !ok {
			// A lone scalar wraps into a one-element array.
			arr = []value.Value{raw}
		}
		elemSchema := config.PropertySchema{Type: schema.Of, DateFormat: schema.DateFormat}
		out := make([]value.Value, len(arr))
		for i, e := range arr {
			conv, ok := c.convert(e, elemSchema)
			if !ok {
				return value.Null(), false
			}
			out[i] = conv
		}
		return value.Array(out...), true

	default:
		return value.Null(), false
	}
}

// convertDate parses a date string with the property's layout (or the global
// input layout) into epoch seconds. Dates are stored internally as doubles;
// display formatting happens only at context-resolution time.
func (c Coercer) convertDate(raw value.Value, schema config.PropertySchema) (value.Value, bool) {
	if f, ok := raw.AsDouble(); ok {
		// Already numeric: treated as epoch seconds.
		return value.Double(f), true
	}
	s, ok := raw.AsString()
	if !ok {
		return value.Null(), false
	}

	layout := schema.DateFormat
	if layout == "" {
		layout = c.formats.Input
	}
	if layout == "" {
		layout = time.RFC3339
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return value.Null(), false
	}
	return value.Double(float64(t.Unix())), true
}
