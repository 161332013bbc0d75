package fieldmap

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

// Integer is the set of Go integer types carried by the Integer variant.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type boolConverter struct{}

// Bool converts bool through the Boolean variant.
func Bool() Converter[bool] {
	return boolConverter{}
}

func (boolConverter) Encode(v bool) Value {
	return BoolValue(v)
}

func (boolConverter) Decode(v Value) (bool, error) {
	b, ok := v.AsBool()
	if !ok {
		return false, newTypeMismatch("bool", KindBool, v)
	}
	return b, nil
}

type integerConverter[T Integer] struct {
	name string
}

// IntegerOf converts any integer type through the Integer variant.
//
// Encode widens to int64. Decode narrows with a range and sign check.
// Unsigned 64-bit values above math.MaxInt64 have no Integer representation;
// they encode by two's-complement reinterpretation and fail to decode with a
// *RangeError.
func IntegerOf[T Integer]() Converter[T] {
	return integerConverter[T]{name: typeName[T]()}
}

func (c integerConverter[T]) Encode(v T) Value {
	return IntValue(int64(v))
}

func (c integerConverter[T]) Decode(v Value) (T, error) {
	i, ok := v.AsInt()
	if !ok {
		return 0, newTypeMismatch(c.name, KindInt, v)
	}
	n := T(i)
	if int64(n) != i || (n < 0) != (i < 0) {
		return 0, newRangeError(c.name, i)
	}
	return n, nil
}

// Int converts int.
func Int() Converter[int] { return IntegerOf[int]() }

// Int8 converts int8.
func Int8() Converter[int8] { return IntegerOf[int8]() }

// Int16 converts int16.
func Int16() Converter[int16] { return IntegerOf[int16]() }

// Int32 converts int32.
func Int32() Converter[int32] { return IntegerOf[int32]() }

// Int64 converts int64.
func Int64() Converter[int64] { return IntegerOf[int64]() }

// Uint converts uint.
func Uint() Converter[uint] { return IntegerOf[uint]() }

// Uint8 converts uint8.
func Uint8() Converter[uint8] { return IntegerOf[uint8]() }

// Uint16 converts uint16.
func Uint16() Converter[uint16] { return IntegerOf[uint16]() }

// Uint32 converts uint32.
func Uint32() Converter[uint32] { return IntegerOf[uint32]() }

// Uint64 converts uint64.
func Uint64() Converter[uint64] { return IntegerOf[uint64]() }

type float32Converter struct{}

// Float32 converts float32 through the Double variant.
// Decode rejects finite magnitudes beyond math.MaxFloat32; precision loss
// inside the range is accepted.
func Float32() Converter[float32] {
	return float32Converter{}
}

func (float32Converter) Encode(v float32) Value {
	return DoubleValue(float64(v))
}

func (float32Converter) Decode(v Value) (float32, error) {
	f, ok := v.AsDouble()
	if !ok {
		return 0, newTypeMismatch("float32", KindDouble, v)
	}
	if fitsFloat32(f) {
		return float32(f), nil
	}
	return 0, newRangeError("float32", f)
}

// fitsFloat32 reports whether f can be narrowed without overflowing.
// Infinities and NaN are carried over unchanged.
func fitsFloat32(f float64) bool {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return true
	}
	return math.Abs(f) <= math.MaxFloat32
}

type float64Converter struct{}

// Float64 converts float64 through the Double variant.
func Float64() Converter[float64] {
	return float64Converter{}
}

func (float64Converter) Encode(v float64) Value {
	return DoubleValue(v)
}

func (float64Converter) Decode(v Value) (float64, error) {
	f, ok := v.AsDouble()
	if !ok {
		return 0, newTypeMismatch("float64", KindDouble, v)
	}
	return f, nil
}

type textConverter[T ~string] struct {
	name string
}

// TextOf converts any string type through the String variant.
func TextOf[T ~string]() Converter[T] {
	return textConverter[T]{name: typeName[T]()}
}

// String converts string.
func String() Converter[string] {
	return TextOf[string]()
}

func (c textConverter[T]) Encode(v T) Value {
	return StringValue(string(v))
}

func (c textConverter[T]) Decode(v Value) (T, error) {
	s, ok := v.AsString()
	if !ok {
		return "", newTypeMismatch(c.name, KindString, v)
	}
	return T(s), nil
}

type runeConverter struct{}

// Rune converts a single character through a one-character String.
// Round-trips hold only for Unicode scalar values. Surrogates, negative
// values and values above U+10FFFF encode as U+FFFD and decode as
// utf8.RuneError without an error.
func Rune() Converter[rune] {
	return runeConverter{}
}

func (runeConverter) Encode(v rune) Value {
	return StringValue(string(v))
}

func (runeConverter) Decode(v Value) (rune, error) {
	s, ok := v.AsString()
	if !ok {
		return 0, newTypeMismatch("rune", KindString, v)
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || (r == utf8.RuneError && size == 1) {
		return 0, &TypeMismatchError{
			Target: "rune",
			Want:   KindString,
			Got:    KindString,
			Detail: fmt.Sprintf("expected exactly one character, got %d", utf8.RuneCountInString(s)),
		}
	}
	return r, nil
}

type timeConverter struct{}

// TimeComposite converts Time through the Time variant.
func TimeComposite() Converter[Time] {
	return timeConverter{}
}

func (timeConverter) Encode(v Time) Value {
	return TimeValue(v)
}

func (timeConverter) Decode(v Value) (Time, error) {
	t, ok := v.AsTime()
	if !ok {
		return Time{}, newTypeMismatch("fieldmap.Time", KindTime, v)
	}
	return t, nil
}

type stdTimeConverter struct{}

// StdTime converts time.Time through the Time variant.
// Decoded times are in UTC; the instant is preserved.
func StdTime() Converter[time.Time] {
	return stdTimeConverter{}
}

func (stdTimeConverter) Encode(v time.Time) Value {
	return TimeValue(TimeFrom(v))
}

func (stdTimeConverter) Decode(v Value) (time.Time, error) {
	t, ok := v.AsTime()
	if !ok {
		return time.Time{}, newTypeMismatch("time.Time", KindTime, v)
	}
	return t.Std(), nil
}

type identityConverter struct{}

// Identity passes Values through unchanged.
func Identity() Converter[Value] {
	return identityConverter{}
}

func (identityConverter) Encode(v Value) Value {
	return v
}

func (identityConverter) Decode(v Value) (Value, error) {
	return v, nil
}
