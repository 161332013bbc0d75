package fieldmap

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

// The closed set of Value variants.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindDouble
	KindString
	KindTime
	KindArray
	KindMap
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a self-describing dynamic value.
//
// Only the payload matching Kind is meaningful. The zero Value is Null.
// Composite payloads are shared, not copied, so a Value must be treated as
// an immutable snapshot once built.
type Value struct {
	kind Kind

	b   bool
	i   int64
	f   float64
	s   string
	t   Time
	arr []Value
	m   map[string]Value
}

// NullValue returns the Null variant.
func NullValue() Value {
	return Value{}
}

// BoolValue returns a Boolean variant.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// IntValue returns an Integer variant.
func IntValue(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// DoubleValue returns a Double variant.
func DoubleValue(f float64) Value {
	return Value{kind: KindDouble, f: f}
}

// StringValue returns a String variant.
func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

// TimeValue returns a Time variant.
func TimeValue(t Time) Value {
	return Value{kind: KindTime, t: t}
}

// ArrayValue returns an Array variant holding vs in order.
func ArrayValue(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{kind: KindArray, arr: vs}
}

// MapValue returns a Map variant. A nil map is treated as empty.
func MapValue(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindMap, m: m}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is the Null variant.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the Boolean payload.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsInt returns the Integer payload.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

// AsDouble returns the Double payload.
func (v Value) AsDouble() (float64, bool) {
	return v.f, v.kind == KindDouble
}

// AsString returns the String payload.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsTime returns the Time payload.
func (v Value) AsTime() (Time, bool) {
	return v.t, v.kind == KindTime
}

// AsArray returns the Array payload. The slice must not be modified.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// AsMap returns the Map payload. The map must not be modified.
func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// Len returns the number of elements of an Array or entries of a Map, and 0
// for every other variant.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindMap:
		return len(v.m)
	default:
		return 0
	}
}

// Equal reports whether a and b are structurally equal.
// NaN doubles compare equal to each other; map order is not significant.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindDouble:
		if math.IsNaN(a.f) && math.IsNaN(b.f) {
			return true
		}
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindTime:
		return a.t == b.t
	case KindArray:
		return slices.EqualFunc(a.arr, b.arr, Equal)
	case KindMap:
		if len(a.m) != len(b.m) {
			return false
		}
		for k, av := range a.m {
			bv, ok := b.m[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// Equal reports whether v and other are structurally equal.
func (v Value) Equal(other Value) bool {
	return Equal(v, other)
}

// String renders v in a deterministic debug form with sorted map keys.
func (v Value) String() string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

// GoString implements fmt.GoStringer so %#v prints the same debug form.
func (v Value) GoString() string {
	return "fieldmap.Value(" + v.String() + ")"
}

func writeValue(b *strings.Builder, v Value) {
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KindDouble:
		b.WriteString(FormatDouble(v.f))
	case KindString:
		b.WriteString(strconv.Quote(v.s))
	case KindTime:
		b.WriteString(v.t.String())
	case KindArray:
		b.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, e)
		}
		b.WriteByte(']')
	case KindMap:
		keys := sortedKeys(v.m)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			writeValue(b, v.m[k])
		}
		b.WriteByte('}')
	default:
		b.WriteString("<invalid>")
	}
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
