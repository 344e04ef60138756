package query

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitegen/internal/tokens"
	"git.home.luguber.info/inful/sitegen/internal/value"
)

// Operator enumerates the comparison operators supported by filter leaves.
type Operator string

const (
	OpEquals              Operator = "equals"
	OpNotEquals           Operator = "notEquals"
	OpLessThan            Operator = "lessThan"
	OpLessThanOrEquals    Operator = "lessThanOrEquals"
	OpGreaterThan         Operator = "greaterThan"
	OpGreaterThanOrEquals Operator = "greaterThanOrEquals"
	OpLike                Operator = "like"
	OpCaseInsensitiveLike Operator = "caseInsensitiveLike"
	OpIn                  Operator = "in"
	OpContains            Operator = "contains"
	OpMatching            Operator = "matching"
)

// Condition is a node in a boolean filter tree: either a field leaf
// (Key/Op/Value set) or a conjunction/disjunction of children.
type Condition struct {
	Key   string
	Op    Operator
	Value value.Value

	And []Condition
	Or  []Condition
}

// Field builds a leaf condition.
func Field(key string, op Operator, val value.Value) Condition {
	return Condition{Key: key, Op: op, Value: val}
}

// And builds a conjunction.
func And(children ...Condition) Condition {
	return Condition{And: children}
}

// Or builds a disjunction.
func Or(children ...Condition) Condition {
	return Condition{Or: children}
}

// UnmarshalYAML decodes the declarative filter syntax:
//
//	and:
//	  - key: publication
//	    operator: lessThan
//	    value: "{{date.now}}"
//	  - or:
//	      - key: featured
//	        operator: equals
//	        value: true
func (c *Condition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("filter condition must be a mapping, got %v", node.Kind)
	}

	var probe struct {
		And []Condition `yaml:"and"`
		Or  []Condition `yaml:"or"`
	}
	if err := node.Decode(&probe); err == nil && (len(probe.And) > 0 || len(probe.Or) > 0) {
		c.And = probe.And
		c.Or = probe.Or
		return nil
	}

	var leaf struct {
		Key      string   `yaml:"key"`
		Operator Operator `yaml:"operator"`
		Value    any      `yaml:"value"`
	}
	if err := node.Decode(&leaf); err != nil {
		return fmt.Errorf("decoding filter condition: %w", err)
	}
	if leaf.Key == "" {
		return fmt.Errorf("filter condition missing key")
	}
	c.Key = leaf.Key
	c.Op = leaf.Operator
	c.Value = value.FromAny(leaf.Value)
	return nil
}

// resolve substitutes placeholders in leaf values. fields resolves
// {{name}} tokens; when now is non-nil, {{date.now}} resolves as well.
// Unresolvable tokens stay untouched.
func (c Condition) resolve(fields map[string]value.Value, now *time.Time) Condition {
	switch {
	case len(c.And) > 0:
		children := make([]Condition, len(c.And))
		for i, ch := range c.And {
			children[i] = ch.resolve(fields, now)
		}
		c.And = children
	case len(c.Or) > 0:
		children := make([]Condition, len(c.Or))
		for i, ch := range c.Or {
			children[i] = ch.resolve(fields, now)
		}
		c.Or = children
	default:
		c.Value = resolveValue(c.Value, fields, now)
	}
	return c
}

func resolveValue(v value.Value, fields map[string]value.Value, now *time.Time) value.Value {
	if arr, ok := v.AsArray(); ok {
		out := make([]value.Value, len(arr))
		for i, e := range arr {
			out[i] = resolveValue(e, fields, now)
		}
		return value.Array(out...)
	}

	s, ok := v.AsString()
	if !ok {
		return v
	}

	// A value that is exactly one token is replaced with the typed field
	// value, so `value: "{{authors}}"` can carry an array through.
	if name, exact := tokens.Exact(s); exact {
		if name == nowField {
			if now != nil {
				return nowValue(*now)
			}
			return v
		}
		if fv, ok := fields[name]; ok {
			return fv
		}
		return v
	}

	// Otherwise tokens embedded in a longer string substitute textually.
	strFields := make(map[string]string, len(fields)+1)
	for name, fv := range fields {
		strFields[name] = fv.StringValue()
	}
	if now != nil {
		strFields[nowField] = nowValue(*now).StringValue()
	}
	return value.String(tokens.ReplaceAll(s, strFields))
}
