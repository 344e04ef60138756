package value

import "fmt"

// FromAny converts a value produced by the yaml.v3 or encoding/json decoders
// into a Value. Unrecognized Go types stringify via fmt, so the conversion is
// total.
func FromAny(in any) Value {
	switch v := in.(type) {
	case nil:
		return Null()
	case string:
		return String(v)
	case bool:
		return Bool(v)
	case int:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case uint:
		return Int(int64(v))
	case uint64:
		return Int(int64(v))
	case float32:
		return Double(float64(v))
	case float64:
		return Double(v)
	case []any:
		arr := make([]Value, len(v))
		for i, e := range v {
			arr[i] = FromAny(e)
		}
		return Array(arr...)
	case []string:
		return Strings(v...)
	case map[string]any:
		m := make(map[string]Value, len(v))
		for k, e := range v {
			m[k] = FromAny(e)
		}
		return Map(m)
	case map[any]any:
		// Older yaml decoders produce interface-keyed maps.
		m := make(map[string]Value, len(v))
		for k, e := range v {
			m[fmt.Sprintf("%v", k)] = FromAny(e)
		}
		return Map(m)
	case Value:
		return v
	default:
		return String(fmt.Sprintf("%v", v))
	}
}

// FromAnyMap converts a decoded YAML mapping into a Value map.
func FromAnyMap(in map[string]any) map[string]Value {
	out := make(map[string]Value, len(in))
	for k, v := range in {
		out[k] = FromAny(v)
	}
	return out
}

// ToAny converts a Value back into plain Go types suitable for
// encoding/json or template data.
func (v Value) ToAny() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindString:
		return v.str
	case KindInt:
		return v.i
	case KindDouble:
		return v.f
	case KindBool:
		return v.b
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.ToAny()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, e := range v.m {
			out[k] = e.ToAny()
		}
		return out
	}
	return nil
}

// ToAnyMap converts a Value map into a plain map for JSON encoding.
func ToAnyMap(m map[string]Value) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v.ToAny()
	}
	return out
}
