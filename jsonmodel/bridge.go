package jsonmodel

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/wsforge/fabric/xmlmodel"
)

// FromElement walks an XML element tree and produces its JSON
// equivalent: an element with two or more children that all share one
// name becomes an array; otherwise (including an element with a single
// child) it becomes an object; a childless element becomes a
// scalar — numeric text round-trips as Int32/Decimal the same way the
// JSON parser would have produced it, so a value that started life as
// a JSON number comes back as a JSON number rather than a string.
func FromElement(e *xmlmodel.Element) Value {
	if len(e.Children) == 0 {
		return leafValue(e.Value)
	}
	if len(e.Children) > 1 && e.AllSameName() {
		items := make([]Value, 0, len(e.Children))
		for _, c := range e.Children {
			items = append(items, FromElement(c))
		}
		return Array(items)
	}
	pairs := make([]Pair, 0, len(e.Children))
	for _, c := range e.Children {
		pairs = append(pairs, Pair{Name: c.Name, Value: FromElement(c)})
	}
	return Object(pairs)
}

func leafValue(s string) Value {
	if s == "" {
		return Null()
	}
	if s == "true" {
		return True()
	}
	if s == "false" {
		return False()
	}
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return Int32(int32(n))
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return Dec(d)
	}
	return String(s)
}

// ToElement builds a single XML element named name from a JSON value.
// Scalars become the element's text content (null -> empty string,
// booleans -> "true"/"false", decimals in bookkeeping form with no
// exponent); an object's pairs become child elements, with any
// array-valued pair expanding into repeated siblings (see ToElements);
// a top-level array also expands, but since this function must return
// one element, the array's items are nested as same-named children —
// callers that need the flattened sibling form for an array-valued
// object pair should use ToElements instead.
func ToElement(name string, v Value) *xmlmodel.Element {
	el := xmlmodel.NewElement(name)
	switch v.Kind {
	case KindNull, KindNone:
		// value stays empty
	case KindFalse:
		el.Value = "false"
	case KindTrue:
		el.Value = "true"
	case KindString:
		el.Value = v.Str
	case KindInt32:
		el.Value = strconv.FormatInt(int64(v.Int32), 10)
	case KindDecimal:
		el.Value = v.Decimal.String()
	case KindArray:
		for _, item := range v.Array {
			el.AddChild(ToElement(name, item))
		}
	case KindObject:
		for _, p := range v.Object {
			for _, child := range ToElements(p.Name, p.Value) {
				el.AddChild(child)
			}
		}
	}
	return el
}

// ToElements builds the sibling sequence a (name, value) pair
// contributes to its parent: one element for a scalar or object, or
// one element per item (all named name) for an array — the "repeated
// siblings with the array's owning name" rule.
func ToElements(name string, v Value) []*xmlmodel.Element {
	if v.Kind == KindArray {
		out := make([]*xmlmodel.Element, 0, len(v.Array))
		for _, item := range v.Array {
			out = append(out, ToElement(name, item))
		}
		return out
	}
	return []*xmlmodel.Element{ToElement(name, v)}
}
