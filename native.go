package fieldmap

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Marker objects carry what a format cannot express natively: the Time
// variant, e.g. {"$fieldmap": "time", "seconds": 1700000000, "nanos": 5}, and
// non-finite doubles, e.g. {"$fieldmap": "double", "value": "NaN"}.
// Maps with a "$fieldmap" key are reserved.
const (
	markerKey     = "$fieldmap"
	markerTime    = "time"
	markerSeconds = "seconds"
	markerNanos   = "nanos"
	markerDouble  = "double"
	markerValue   = "value"
)

// FormatDouble renders f so that it always reads back as a floating-point
// number: integral values keep a ".0" suffix (2 becomes "2.0") and other
// values use the shortest exact form. NaN and infinities render as "NaN",
// "+Inf" and "-Inf".
func FormatDouble(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// DoubleMarker returns the marker object for f, for formats such as JSON that
// have no literal for NaN or the infinities. FromNative decodes it back into
// a Double.
func DoubleMarker(f float64) map[string]any {
	return map[string]any{
		markerKey:   markerDouble,
		markerValue: FormatDouble(f),
	}
}

// ToNative converts v into the plain Go tree every codec library handles:
// nil, bool, int64, float64, string, []any and map[string]any.
func ToNative(v Value) any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindDouble:
		return v.f
	case KindString:
		return v.s
	case KindTime:
		return map[string]any{
			markerKey:     markerTime,
			markerSeconds: v.t.Seconds,
			markerNanos:   int64(v.t.Nanos),
		}
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = ToNative(e)
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, e := range v.m {
			out[k] = ToNative(e)
		}
		return out
	default:
		return nil
	}
}

// FromNative converts a decoded Go tree back into a Value.
//
// Besides the shapes ToNative produces it accepts every integer and float
// width, json.Number (Integer when it parses as int64, Double otherwise),
// time.Time, map[any]any with string keys and any slice, array or
// string-keyed map reachable by reflection. Unsigned values above
// math.MaxInt64 fail with a *RangeError; other types with ErrUnsupportedType.
func FromNative(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return t, nil
	case bool:
		return BoolValue(t), nil
	case int:
		return IntValue(int64(t)), nil
	case int8:
		return IntValue(int64(t)), nil
	case int16:
		return IntValue(int64(t)), nil
	case int32:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	case uint:
		return fromUnsigned(uint64(t))
	case uint8:
		return IntValue(int64(t)), nil
	case uint16:
		return IntValue(int64(t)), nil
	case uint32:
		return IntValue(int64(t)), nil
	case uint64:
		return fromUnsigned(t)
	case float32:
		return DoubleValue(float64(t)), nil
	case float64:
		return DoubleValue(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return IntValue(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: number %q", ErrUnsupportedType, t)
		}
		return DoubleValue(f), nil
	case string:
		return StringValue(t), nil
	case time.Time:
		return TimeValue(TimeFrom(t)), nil
	case []any:
		out := make([]Value, len(t))
		for i, e := range t {
			v, err := FromNative(e)
			if err != nil {
				return Value{}, &ElementError{Index: i, Err: err}
			}
			out[i] = v
		}
		return ArrayValue(out...), nil
	case map[string]any:
		if _, ok := t[markerKey]; ok {
			return fromMarker(t)
		}
		out := make(map[string]Value, len(t))
		for k, e := range t {
			v, err := FromNative(e)
			if err != nil {
				return Value{}, &EntryError{Key: k, Err: err}
			}
			out[k] = v
		}
		return MapValue(out), nil
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			s, ok := k.(string)
			if !ok {
				return Value{}, fmt.Errorf("%w: map key %T", ErrUnsupportedType, k)
			}
			m[s] = e
		}
		return FromNative(m)
	}
	return fromReflect(reflect.ValueOf(x))
}

func fromUnsigned(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, newRangeError("int64", u)
	}
	return IntValue(int64(u)), nil
}

// fromReflect handles named and typed containers such as []string or
// map[string]int32 that codecs may produce.
func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return NullValue(), nil
		}
		out := make([]Value, rv.Len())
		for i := range out {
			v, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return Value{}, &ElementError{Index: i, Err: err}
			}
			out[i] = v
		}
		return ArrayValue(out...), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("%w: map key %s", ErrUnsupportedType, rv.Type().Key())
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return FromNative(m)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NullValue(), nil
		}
		return FromNative(rv.Elem().Interface())
	case reflect.Bool:
		return BoolValue(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntValue(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fromUnsigned(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return DoubleValue(rv.Float()), nil
	case reflect.String:
		return StringValue(rv.String()), nil
	}
	if !rv.IsValid() {
		return NullValue(), nil
	}
	return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
}

func fromMarker(m map[string]any) (Value, error) {
	kind, _ := m[markerKey].(string)
	switch {
	case kind == markerTime && len(m) == 3:
		return fromTimeMarker(m)
	case kind == markerDouble && len(m) == 2:
		return fromDoubleMarker(m)
	}
	return Value{}, fmt.Errorf("%w: malformed %s marker", ErrUnsupportedType, markerKey)
}

func fromDoubleMarker(m map[string]any) (Value, error) {
	s, ok := m[markerValue].(string)
	if !ok {
		v, err := FromNative(m[markerValue])
		if err != nil {
			return Value{}, &EntryError{Key: markerValue, Err: err}
		}
		return Value{}, &EntryError{Key: markerValue, Err: newTypeMismatch("float64", KindString, v)}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, &EntryError{Key: markerValue, Err: &TypeMismatchError{
			Target: "float64",
			Want:   KindString,
			Got:    KindString,
			Detail: fmt.Sprintf("%q is not a number", s),
		}}
	}
	return DoubleValue(f), nil
}

func fromTimeMarker(m map[string]any) (Value, error) {
	secs, err := markerInt(m, markerSeconds)
	if err != nil {
		return Value{}, err
	}
	nanos, err := markerInt(m, markerNanos)
	if err != nil {
		return Value{}, err
	}
	if nanos < math.MinInt32 || nanos > math.MaxInt32 {
		return Value{}, newRangeError("nanos", nanos)
	}
	return TimeValue(Time{Seconds: secs, Nanos: int32(nanos)}), nil
}

func markerInt(m map[string]any, key string) (int64, error) {
	v, err := FromNative(m[key])
	if err != nil {
		return 0, &EntryError{Key: key, Err: err}
	}
	i, ok := v.AsInt()
	if !ok {
		return 0, &EntryError{Key: key, Err: newTypeMismatch("int64", KindInt, v)}
	}
	return i, nil
}
