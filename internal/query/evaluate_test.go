package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/value"
)

type testRecord struct {
	typeID string
	fields map[string]value.Value
}

func (r testRecord) TypeID() string                      { return r.typeID }
func (r testRecord) QueryFields() map[string]value.Value { return r.fields }

func post(id string, fields map[string]value.Value) testRecord {
	if fields == nil {
		fields = map[string]value.Value{}
	}
	fields["id"] = value.String(id)
	return testRecord{typeID: "post", fields: fields}
}

func ids(items []testRecord) []string {
	out := make([]string, len(items))
	for i, it := range items {
		s, _ := it.fields["id"].AsString()
		out[i] = s
	}
	return out
}

var noon = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestRun_TypeMismatch_Excluded(t *testing.T) {
	items := []testRecord{
		post("a", nil),
		{typeID: "author", fields: map[string]value.Value{"id": value.String("b")}},
	}
	got := Run(Query{ContentType: "post"}, noon, items)
	require.Equal(t, []string{"a"}, ids(got))
}

func TestRun_EqualsOperator_NumericWidening(t *testing.T) {
	items := []testRecord{
		post("a", map[string]value.Value{"rating": value.Int(2)}),
		post("b", map[string]value.Value{"rating": value.Double(2.5)}),
	}
	f := Field("rating", OpEquals, value.Double(2.0))
	got := Run(Query{ContentType: "post", Filter: &f}, noon, items)
	require.Equal(t, []string{"a"}, ids(got))
}

func TestRun_BoundaryOperators_Distinguished(t *testing.T) {
	items := []testRecord{
		post("a", map[string]value.Value{"rating": value.Int(2)}),
		post("b", map[string]value.Value{"rating": value.Int(3)}),
	}

	gte := Field("rating", OpGreaterThanOrEquals, value.Int(2))
	got := Run(Query{ContentType: "post", Filter: &gte}, noon, items)
	require.Equal(t, []string{"a", "b"}, ids(got))

	gt := Field("rating", OpGreaterThan, value.Int(2))
	got = Run(Query{ContentType: "post", Filter: &gt}, noon, items)
	require.Equal(t, []string{"b"}, ids(got))
}

func TestRun_MissingField_NeverMatches(t *testing.T) {
	items := []testRecord{post("a", nil)}

	for _, op := range []Operator{
		OpEquals, OpNotEquals, OpLessThan, OpGreaterThan, OpLike, OpIn, OpContains, OpMatching,
	} {
		f := Field("absent", op, value.String("x"))
		got := Run(Query{ContentType: "post", Filter: &f}, noon, items)
		require.Empty(t, got, "operator %s must not match a missing field", op)
	}
}

func TestRun_LikeOperators_Substrings(t *testing.T) {
	items := []testRecord{
		post("a", map[string]value.Value{"title": value.String("Getting Started")}),
		post("b", map[string]value.Value{"title": value.String("advanced topics")}),
	}

	like := Field("title", OpLike, value.String("Started"))
	got := Run(Query{ContentType: "post", Filter: &like}, noon, items)
	require.Equal(t, []string{"a"}, ids(got))

	ilike := Field("title", OpCaseInsensitiveLike, value.String("ADVANCED"))
	got = Run(Query{ContentType: "post", Filter: &ilike}, noon, items)
	require.Equal(t, []string{"b"}, ids(got))
}

func TestRun_SetOperators_DirectionsDiffer(t *testing.T) {
	items := []testRecord{
		post("a", map[string]value.Value{
			"category": value.String("go"),
			"tags":     value.Strings("web", "backend"),
		}),
		post("b", map[string]value.Value{
			"category": value.String("rust"),
			"tags":     value.Strings("systems"),
		}),
	}

	// in: field scalar must be a member of the filter set.
	in := Field("category", OpIn, value.Strings("go", "python"))
	got := Run(Query{ContentType: "post", Filter: &in}, noon, items)
	require.Equal(t, []string{"a"}, ids(got))

	// contains: filter scalar must be a member of the field set.
	contains := Field("tags", OpContains, value.String("systems"))
	got = Run(Query{ContentType: "post", Filter: &contains}, noon, items)
	require.Equal(t, []string{"b"}, ids(got))

	// matching: any intersection between the two sets.
	matching := Field("tags", OpMatching, value.Strings("backend", "frontend"))
	got = Run(Query{ContentType: "post", Filter: &matching}, noon, items)
	require.Equal(t, []string{"a"}, ids(got))
}

func TestRun_AndOrTree_Combined(t *testing.T) {
	items := []testRecord{
		post("a", map[string]value.Value{"featured": value.Bool(true), "rating": value.Int(1)}),
		post("b", map[string]value.Value{"featured": value.Bool(false), "rating": value.Int(5)}),
		post("c", map[string]value.Value{"featured": value.Bool(false), "rating": value.Int(1)}),
	}
	f := Or(
		Field("featured", OpEquals, value.Bool(true)),
		Field("rating", OpGreaterThanOrEquals, value.Int(4)),
	)
	got := Run(Query{ContentType: "post", Filter: &f}, noon, items)
	require.Equal(t, []string{"a", "b"}, ids(got))
}

func TestRun_DateNowPlaceholder_FiltersByEvaluationTime(t *testing.T) {
	past := float64(noon.Add(-24 * time.Hour).Unix())
	future := float64(noon.Add(24 * time.Hour).Unix())
	items := []testRecord{
		post("published", map[string]value.Value{"publication": value.Double(past)}),
		post("scheduled", map[string]value.Value{"publication": value.Double(future)}),
	}
	f := Field("publication", OpLessThan, value.String("{{date.now}}"))
	q := Query{ContentType: "post", Filter: &f}

	got := Run(q, noon, items)
	require.Equal(t, []string{"published"}, ids(got))

	// Two days later the scheduled post has crossed the threshold.
	got = Run(q, noon.Add(48*time.Hour), items)
	require.Equal(t, []string{"published", "scheduled"}, ids(got))
}

func TestRun_DateWindow_SelectsItemCoveringNow(t *testing.T) {
	day := 24 * time.Hour
	current := post("current", map[string]value.Value{
		"publication": value.Double(float64(noon.Add(-2 * day).Unix())),
		"expiration":  value.Double(float64(noon.Add(2 * day).Unix())),
	})
	expired := post("expired", map[string]value.Value{
		"publication": value.Double(float64(noon.Add(-9 * day).Unix())),
		"expiration":  value.Double(float64(noon.Add(-5 * day).Unix())),
	})
	f := And(
		Field("publication", OpLessThan, value.String("{{date.now}}")),
		Field("expiration", OpGreaterThan, value.String("{{date.now}}")),
	)
	got := Run(Query{ContentType: "post", Filter: &f}, noon, []testRecord{current, expired})
	require.Equal(t, []string{"current"}, ids(got))
}

func TestRun_SameInputs_SameOutput(t *testing.T) {
	items := []testRecord{
		post("b", map[string]value.Value{"rating": value.Int(1)}),
		post("a", map[string]value.Value{"rating": value.Int(1)}),
	}
	q := Query{ContentType: "post", OrderBy: []Order{{Key: "rating"}}}

	first := ids(Run(q, noon, items))
	second := ids(Run(q, noon, items))
	require.Equal(t, first, second)
	// Stable sort preserves input order between equal keys.
	require.Equal(t, []string{"b", "a"}, first)
}

func TestRun_MultiKeyOrdering_SecondKeyBreaksTies(t *testing.T) {
	items := []testRecord{
		post("a", map[string]value.Value{"group": value.Int(1), "title": value.String("zebra")}),
		post("b", map[string]value.Value{"group": value.Int(1), "title": value.String("apple")}),
		post("c", map[string]value.Value{"group": value.Int(0), "title": value.String("middle")}),
	}
	q := Query{ContentType: "post", OrderBy: []Order{
		{Key: "group", Direction: DirectionDesc},
		{Key: "title", Direction: DirectionAsc},
	}}
	require.Equal(t, []string{"b", "a", "c"}, ids(Run(q, noon, items)))
}

func TestRun_MissingSortKey_OrdersFirstAscending(t *testing.T) {
	items := []testRecord{
		post("a", map[string]value.Value{"weight": value.Int(5)}),
		post("b", nil),
	}
	q := Query{ContentType: "post", OrderBy: []Order{{Key: "weight"}}}
	require.Equal(t, []string{"b", "a"}, ids(Run(q, noon, items)))
}

func TestRun_Window_ClampsToResultSet(t *testing.T) {
	items := []testRecord{post("a", nil), post("b", nil), post("c", nil)}

	offset, limit := 1, 5
	q := Query{ContentType: "post", Offset: &offset, Limit: &limit}
	require.Equal(t, []string{"b", "c"}, ids(Run(q, noon, items)))

	offset = 10
	require.Empty(t, Run(q, noon, items))

	offset, limit = 0, 2
	require.Equal(t, []string{"a", "b"}, ids(Run(q, noon, items)))
}

func TestCount_IgnoresWindow(t *testing.T) {
	items := []testRecord{post("a", nil), post("b", nil), post("c", nil)}
	limit := 1
	q := Query{ContentType: "post", Limit: &limit}
	require.Equal(t, 3, Count(q.WithoutWindow(), noon, items))
	require.Len(t, Run(q, noon, items), 1)
}

func TestResolveParams_ExactToken_CarriesTypedValue(t *testing.T) {
	f := Field("tags", OpMatching, value.String("{{tags}}"))
	q := Query{ContentType: "post", Filter: &f}

	resolved := q.ResolveParams(map[string]value.Value{
		"tags": value.Strings("go", "web"),
	})
	require.True(t, resolved.Filter.Value.Equal(value.Strings("go", "web")))
	// The original query is untouched.
	require.True(t, q.Filter.Value.Equal(value.String("{{tags}}")))
}

func TestResolveParams_EmbeddedToken_SubstitutesTextually(t *testing.T) {
	f := Field("slug", OpLike, value.String("series/{{series}}/"))
	q := Query{ContentType: "post", Filter: &f}

	resolved := q.ResolveParams(map[string]value.Value{
		"series": value.String("intro"),
	})
	require.True(t, resolved.Filter.Value.Equal(value.String("series/intro/")))
}

func TestResolveParams_UnknownToken_LeftForEvaluationTime(t *testing.T) {
	f := Field("publication", OpLessThan, value.String("{{date.now}}"))
	q := Query{ContentType: "post", Filter: &f}

	resolved := q.ResolveParams(map[string]value.Value{"other": value.Int(1)})
	require.True(t, resolved.Filter.Value.Equal(value.String("{{date.now}}")))
}
