// Package jsonmodel is the fabric's JSON value model, recursive-descent
// parser, and the bridge rules that translate between a JSON document
// and an xmlmodel.Element tree (the SOAP parameter object shape).
package jsonmodel

import "github.com/shopspring/decimal"

// Kind tags a Value's active variant.
type Kind int

const (
	KindNone Kind = iota
	KindNull
	KindFalse
	KindTrue
	KindString
	KindInt32
	KindDecimal
	KindArray
	KindObject
)

// Pair is one (name, Value) entry of an object.
type Pair struct {
	Name  string
	Value Value
}

// Value is a tagged variant over JSON's value space, with a dedicated
// arbitrary-precision Decimal branch for numbers that don't fit a
// signed 32-bit int (the "bookkeeping BCD" numeric type the SOAP layer
// also formats numbers with).
type Value struct {
	Kind    Kind
	Str     string
	Int32   int32
	Decimal decimal.Decimal
	Array   []Value
	Object  []Pair
}

func Null() Value  { return Value{Kind: KindNull} }
func False() Value { return Value{Kind: KindFalse} }
func True() Value  { return Value{Kind: KindTrue} }

func Bool(b bool) Value {
	if b {
		return True()
	}
	return False()
}

func String(s string) Value { return Value{Kind: KindString, Str: s} }
func Int32(i int32) Value   { return Value{Kind: KindInt32, Int32: i} }
func Dec(d decimal.Decimal) Value { return Value{Kind: KindDecimal, Decimal: d} }
func Array(items []Value) Value   { return Value{Kind: KindArray, Array: items} }
func Object(pairs []Pair) Value   { return Value{Kind: KindObject, Object: pairs} }

// Get returns the first pair's value with the given name in an object
// (first-wins lookup, the parser does not require unique pair names).
func (v Value) Get(name string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	for _, p := range v.Object {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Value{}, false
}

// IsNumeric reports whether v holds Int32 or Decimal.
func (v Value) IsNumeric() bool {
	return v.Kind == KindInt32 || v.Kind == KindDecimal
}

// Message wraps a root Value with the same HTTP envelope fields the
// original JSONMessage carries (URL/cookies/headers live in httpmsg;
// this only keeps what's specific to the JSON body).
type Message struct {
	Root        Value
	SendBOM     bool
	SendUnicode bool
	Incoming    bool
	LastError   string
}
