package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZeroValue_IsNull(t *testing.T) {
	var v Value
	require.True(t, v.IsNull())
	require.Equal(t, KindNull, v.Kind())
}

func TestAsInt_IntegralDouble_Converts(t *testing.T) {
	i, ok := Double(42.0).AsInt()
	require.True(t, ok)
	require.Equal(t, int64(42), i)
}

func TestAsInt_FractionalDouble_Fails(t *testing.T) {
	_, ok := Double(42.5).AsInt()
	require.False(t, ok)
}

func TestAsDouble_Int_Widens(t *testing.T) {
	f, ok := Int(7).AsDouble()
	require.True(t, ok)
	require.Equal(t, 7.0, f)
}

func TestEqual_IntAndDouble_WidenBeforeComparing(t *testing.T) {
	require.True(t, Int(2).Equal(Double(2.0)))
	require.True(t, Double(2.0).Equal(Int(2)))
	require.False(t, Int(2).Equal(Double(2.5)))
}

func TestEqual_DifferentKinds_NotEqual(t *testing.T) {
	require.False(t, String("2").Equal(Int(2)))
	require.False(t, Bool(true).Equal(Int(1)))
	require.False(t, Null().Equal(String("")))
}

func TestEqual_NestedContainers_DeepCompares(t *testing.T) {
	a := Map(map[string]Value{
		"tags": Strings("go", "web"),
		"n":    Int(3),
	})
	b := Map(map[string]Value{
		"tags": Strings("go", "web"),
		"n":    Double(3.0),
	})
	require.True(t, a.Equal(b))

	c := Map(map[string]Value{
		"tags": Strings("go"),
		"n":    Int(3),
	})
	require.False(t, a.Equal(c))
}

func TestStringValue_Scalars_Render(t *testing.T) {
	require.Equal(t, "hello", String("hello").StringValue())
	require.Equal(t, "42", Int(42).StringValue())
	require.Equal(t, "2.5", Double(2.5).StringValue())
	require.Equal(t, "true", Bool(true).StringValue())
}

func TestStringValue_Containers_RenderEmpty(t *testing.T) {
	require.Equal(t, "", Array(Int(1)).StringValue())
	require.Equal(t, "", Map(map[string]Value{"a": Int(1)}).StringValue())
	require.Equal(t, "", Null().StringValue())
}

func TestFromAny_YAMLShapes_ConvertTotally(t *testing.T) {
	v := FromAny(map[string]any{
		"title":    "Hello",
		"count":    3,
		"ratio":    0.5,
		"draft":    false,
		"tags":     []any{"a", "b"},
		"nothing":  nil,
		"interior": map[any]any{"k": 1},
	})
	m, ok := v.AsMap()
	require.True(t, ok)
	require.True(t, m["title"].Equal(String("Hello")))
	require.True(t, m["count"].Equal(Int(3)))
	require.True(t, m["ratio"].Equal(Double(0.5)))
	require.True(t, m["draft"].Equal(Bool(false)))
	require.True(t, m["tags"].Equal(Strings("a", "b")))
	require.True(t, m["nothing"].IsNull())

	interior, ok := m["interior"].AsMap()
	require.True(t, ok)
	require.True(t, interior["k"].Equal(Int(1)))
}

func TestToAny_RoundTripsThroughFromAny(t *testing.T) {
	orig := Map(map[string]Value{
		"s":   String("x"),
		"i":   Int(1),
		"arr": Array(Bool(true), Null()),
	})
	back := FromAny(orig.ToAny())
	require.True(t, orig.Equal(back))
}
