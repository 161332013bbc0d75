package fieldmap

import "reflect"

// Converter maps a single Go type to and from a Value.
//
// Encode is total and must be the exact inverse of Decode for every value T
// can hold. Decode fails with a *TypeMismatchError when the variant is wrong
// and a *RangeError when a numeric payload does not fit T.
type Converter[T any] interface {
	Encode(v T) Value
	Decode(v Value) (T, error)
}

// Encode converts v with c.
func Encode[T any](c Converter[T], v T) Value {
	return c.Encode(v)
}

// Decode converts v into a T with c.
func Decode[T any](c Converter[T], v Value) (T, error) {
	return c.Decode(v)
}

// funcConverter adapts a pair of functions to Converter.
type funcConverter[T any] struct {
	enc func(T) Value
	dec func(Value) (T, error)
}

// Func returns a Converter backed by enc and dec.
func Func[T any](enc func(T) Value, dec func(Value) (T, error)) Converter[T] {
	return &funcConverter[T]{enc: enc, dec: dec}
}

func (c *funcConverter[T]) Encode(v T) Value {
	return c.enc(v)
}

func (c *funcConverter[T]) Decode(v Value) (T, error) {
	return c.dec(v)
}

// typeName returns the Go type name used in error messages.
func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
