package query

import (
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/value"
)

// Record is the view of a content item the evaluator needs: its resolved
// content-type id and the flattened property/relation field map.
type Record interface {
	TypeID() string
	QueryFields() map[string]value.Value
}

// Run evaluates q over items in strict order: type filter, {{date.now}}
// resolution, filter evaluation, stable multi-key ordering, offset/limit.
//
// Run is pure: identical (q, now, items) always yields the identical ordered
// slice. Counting and windowed invocations over the same query therefore
// agree, which the pagination math depends on.
func Run[T Record](q Query, now time.Time, items []T) []T {
	matched := filterItems(q, now, items)
	orderItems(q.OrderBy, matched)
	return window(q, matched)
}

// Count evaluates q's type and filter rules only, ignoring any offset/limit,
// and returns the number of matching items.
func Count[T Record](q Query, now time.Time, items []T) int {
	return len(filterItems(q, now, items))
}

func filterItems[T Record](q Query, now time.Time, items []T) []T {
	var cond *Condition
	if q.Filter != nil {
		resolved := q.Filter.resolve(nil, &now)
		cond = &resolved
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		if item.TypeID() != q.ContentType {
			continue
		}
		if cond != nil && !evalCondition(*cond, item.QueryFields()) {
			continue
		}
		matched = append(matched, item)
	}
	return matched
}

func evalCondition(c Condition, fields map[string]value.Value) bool {
	switch {
	case len(c.And) > 0:
		for _, ch := range c.And {
			if !evalCondition(ch, fields) {
				return false
			}
		}
		return true
	case len(c.Or) > 0:
		for _, ch := range c.Or {
			if evalCondition(ch, fields) {
				return true
			}
		}
		return false
	default:
		return evalLeaf(c, fields)
	}
}

// evalLeaf evaluates one field predicate. Missing fields and type mismatches
// evaluate to non-match rather than erroring: a query author's mistake yields
// empty results, never a failed build.
func evalLeaf(c Condition, fields map[string]value.Value) bool {
	fv, ok := fields[c.Key]
	if !ok || fv.IsNull() {
		return false
	}

	switch c.Op {
	case OpEquals:
		return fv.Equal(c.Value)
	case OpNotEquals:
		return !fv.Equal(c.Value)
	case OpLessThan:
		cmp, ok := compareScalars(fv, c.Value)
		return ok && cmp < 0
	case OpLessThanOrEquals:
		cmp, ok := compareScalars(fv, c.Value)
		return ok && cmp <= 0
	case OpGreaterThan:
		cmp, ok := compareScalars(fv, c.Value)
		return ok && cmp > 0
	case OpGreaterThanOrEquals:
		cmp, ok := compareScalars(fv, c.Value)
		return ok && cmp >= 0
	case OpLike:
		a, aok := fv.AsString()
		b, bok := c.Value.AsString()
		return aok && bok && strings.Contains(a, b)
	case OpCaseInsensitiveLike:
		a, aok := fv.AsString()
		b, bok := c.Value.AsString()
		return aok && bok && strings.Contains(strings.ToLower(a), strings.ToLower(b))
	case OpIn:
		// The filter value is the set; the field scalar must be a member.
		set, ok := c.Value.AsArray()
		if !ok {
			return false
		}
		return containsValue(set, fv)
	case OpContains:
		// The field is the set; the filter scalar must be a member.
		set, ok := fv.AsArray()
		if !ok {
			return false
		}
		return containsValue(set, c.Value)
	case OpMatching:
		// Both sides are sets; any intersection matches.
		a, aok := fv.AsArray()
		b, bok := c.Value.AsArray()
		if !aok || !bok {
			return false
		}
		for _, e := range b {
			if containsValue(a, e) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func containsValue(set []value.Value, v value.Value) bool {
	for _, e := range set {
		if e.Equal(v) {
			return true
		}
	}
	return false
}

// compareScalars orders two values when a total order exists between them:
// numerics (with int/double widening) or two strings. ok is false otherwise.
func compareScalars(a, b value.Value) (int, bool) {
	if af, ok := a.AsDouble(); ok {
		if bf, ok := b.AsDouble(); ok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	if as, ok := a.AsString(); ok {
		if bs, ok := b.AsString(); ok {
			return strings.Compare(as, bs), true
		}
	}
	return 0, false
}

// orderItems applies a stable multi-key sort in place. Missing sort keys
// order before present values ascending.
func orderItems[T Record](orderBy []Order, items []T) {
	if len(orderBy) == 0 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		fi := items[i].QueryFields()
		fj := items[j].QueryFields()
		for _, o := range orderBy {
			cmp := compareForSort(fi[o.Key], fj[o.Key])
			if cmp == 0 {
				continue
			}
			if o.Direction == DirectionDesc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

// compareForSort is a total order for sorting: null < bool < number < string,
// false < true, non-comparable kinds tie.
func compareForSort(a, b value.Value) int {
	ra, rb := sortRank(a), sortRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case 1: // bool
		ab, _ := a.AsBool()
		bb, _ := b.AsBool()
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	case 2, 3:
		cmp, ok := compareScalars(a, b)
		if !ok {
			return 0
		}
		return cmp
	default:
		return 0
	}
}

func sortRank(v value.Value) int {
	switch v.Kind() {
	case value.KindNull:
		return 0
	case value.KindBool:
		return 1
	case value.KindInt, value.KindDouble:
		return 2
	case value.KindString:
		return 3
	default:
		return 4
	}
}

func window[T Record](q Query, items []T) []T {
	offset := 0
	if q.Offset != nil && *q.Offset > 0 {
		offset = *q.Offset
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if q.Limit != nil && *q.Limit >= 0 && *q.Limit < len(items) {
		items = items[:*q.Limit]
	}
	return items
}
