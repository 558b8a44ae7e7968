package jsonmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsforge/fabric/xmlmodel"
)

func TestParseScalarsAndContainers(t *testing.T) {
	v, err := Parse([]byte(`{"a":1,"b":[true,false,null],"c":"hi","d":1.5}`))
	require.NoError(t, err)
	assert.Equal(t, KindObject, v.Kind)

	a, ok := v.Get("a")
	require.True(t, ok)
	assert.Equal(t, KindInt32, a.Kind)
	assert.EqualValues(t, 1, a.Int32)

	d, ok := v.Get("d")
	require.True(t, ok)
	assert.Equal(t, KindDecimal, d.Kind)
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"a":}`))
	assert.Error(t, err)
}

func TestPrintRoundTrip(t *testing.T) {
	v, err := Parse([]byte(`{"x":[1,2,3],"y":"hi"}`))
	require.NoError(t, err)
	out := Print(v)
	v2, err := Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, v, v2)
}

func TestJSONToXMLArrayBridge(t *testing.T) {
	// {"op":{"A":[1,2,3]}}
	v := Object([]Pair{
		{Name: "op", Value: Object([]Pair{
			{Name: "A", Value: Array([]Value{Int32(1), Int32(2), Int32(3)})},
		})},
	})
	op, ok := v.Get("op")
	require.True(t, ok)
	el := ToElement("op", op)
	assert.Equal(t, "op", el.Name)
	children := el.FindAll("A")
	require.Len(t, children, 3)
	assert.Equal(t, "1", children[0].Value)
	assert.Equal(t, "2", children[1].Value)
	assert.Equal(t, "3", children[2].Value)
}

func TestXMLToJSONArrayBridge(t *testing.T) {
	op := xmlmodel.NewElement("op")
	op.AddElement("A", "1")
	op.AddElement("A", "2")
	op.AddElement("A", "3")

	v := FromElement(op)
	assert.Equal(t, KindArray, v.Kind)
	require.Len(t, v.Array, 3)
	assert.EqualValues(t, 1, v.Array[0].Int32)
}

func TestXMLToJSONObjectBridge(t *testing.T) {
	root := xmlmodel.NewElement("op")
	root.AddElement("name", "alice")
	root.AddElement("age", "30")

	v := FromElement(root)
	assert.Equal(t, KindObject, v.Kind)
	name, ok := v.Get("name")
	require.True(t, ok)
	assert.Equal(t, "alice", name.Str)
}

func TestFullRoundTripJSONtoXMLtoJSON(t *testing.T) {
	v, err := Parse([]byte(`{"op":{"A":[1,2,3]}}`))
	require.NoError(t, err)
	op, _ := v.Get("op")
	el := ToElement("op", op)

	back := FromElement(el)
	require.Equal(t, KindObject, back.Kind)
	a, ok := back.Get("A")
	require.True(t, ok)
	require.Equal(t, KindArray, a.Kind)
	assert.EqualValues(t, 1, a.Array[0].Int32)
	assert.EqualValues(t, 2, a.Array[1].Int32)
	assert.EqualValues(t, 3, a.Array[2].Int32)
}
