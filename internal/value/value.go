// Package value provides the closed, typed representation of front-matter and
// context data used throughout the generator.
//
// Every scalar or container decoded from YAML front matter, every coerced
// property, and every rendering-context entry is a Value. Keeping the set of
// kinds closed (instead of passing `any` around) makes conversion rules total
// and keeps type switches local to this package.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind enumerates the possible shapes of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindDouble
	KindBool
	KindArray
	KindMap
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is an immutable tagged union over the supported data kinds.
// The zero Value is Null.
type Value struct {
	kind Kind
	str  string
	i    int64
	f    float64
	b    bool
	arr  []Value
	m    map[string]Value
}

// Null returns the null Value.
func Null() Value { return Value{} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Double wraps a float.
func Double(f float64) Value { return Value{kind: KindDouble, f: f} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Array wraps a slice of Values.
func Array(vs ...Value) Value { return Value{kind: KindArray, arr: vs} }

// Strings wraps a slice of strings as an array Value.
func Strings(ss ...string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return Value{kind: KindArray, arr: vs}
}

// Map wraps a string-keyed map of Values.
func Map(m map[string]Value) Value { return Value{kind: KindMap, m: m} }

// Kind reports the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string payload. ok is false for non-strings.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsInt returns the value as int64. Doubles with an integral payload convert;
// anything else does not.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindDouble:
		if v.f == float64(int64(v.f)) {
			return int64(v.f), true
		}
	}
	return 0, false
}

// AsDouble returns the value as float64, widening ints.
func (v Value) AsDouble() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindDouble:
		return v.f, true
	}
	return 0, false
}

// AsBool returns the boolean payload. ok is false for non-bools.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsArray returns the array payload. ok is false for non-arrays.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// AsMap returns the map payload. ok is false for non-maps.
func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// StringValue renders any scalar as its textual form; containers and null
// render empty. Used for token substitution into slugs and output paths.
func (v Value) StringValue() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDouble:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Equal performs deep structural equality with numeric widening, so
// Int(2) equals Double(2.0).
func (v Value) Equal(o Value) bool {
	if va, ok := v.AsDouble(); ok {
		if vb, ok := o.AsDouble(); ok {
			return va == vb
		}
		return false
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, vv := range v.m {
			ov, ok := o.m[k]
			if !ok || !vv.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// String implements fmt.Stringer for debugging output.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return strconv.Quote(v.str)
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.m[k].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return v.StringValue()
	}
}
