package fieldmap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrTypeMismatch indicates a Value's variant does not match the target type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrRange indicates the variant matched but the magnitude does not fit the target type.
	ErrRange = errors.New("value out of range")

	// ErrMissingField indicates a declared record field had no entry in the input map.
	ErrMissingField = errors.New("missing field")

	// ErrKeyConversion indicates a map key string could not be parsed into the key type.
	ErrKeyConversion = errors.New("key conversion failed")

	// ErrDuplicateField indicates two field bindings share a name.
	ErrDuplicateField = errors.New("duplicate field")

	// ErrInvalidBinding indicates a field binding is malformed (empty name, nil accessor or converter).
	ErrInvalidBinding = errors.New("invalid binding")

	// ErrUnsupportedType indicates a Go type has no converter.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")

	// ErrUnknownHashAlgo indicates Fingerprint was asked for an algorithm it does not know.
	ErrUnknownHashAlgo = errors.New("unknown hash algorithm")
)

// TypeMismatchError reports a Value whose variant cannot be decoded into Target.
type TypeMismatchError struct {
	Target string // Go type being decoded (e.g. "bool", "[]int64")
	Want   Kind   // Variant Target expects
	Got    Kind   // Variant that was supplied
	Detail string // Optional explanation when Want == Got
}

func (e *TypeMismatchError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s decoding %s: %s", ErrTypeMismatch, e.Target, e.Detail)
	}
	return fmt.Sprintf("%s decoding %s: expected %s, got %s", ErrTypeMismatch, e.Target, e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// RangeError reports a numeric Value that cannot be represented by Target.
type RangeError struct {
	Target string // Go type being decoded
	Value  any    // Offending int64 or float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %v does not fit %s", ErrRange, e.Value, e.Target)
}

func (e *RangeError) Unwrap() error {
	return ErrRange
}

// MissingFieldError reports a declared field absent from the input map.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s %q", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// KeyConversionError reports a map key string the key type cannot parse.
// It matches both ErrKeyConversion and ErrTypeMismatch.
type KeyConversionError struct {
	Key    string
	Target string
	Cause  error
}

func (e *KeyConversionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: key %q to %s: %v", ErrKeyConversion, e.Key, e.Target, e.Cause)
	}
	return fmt.Sprintf("%s: key %q to %s", ErrKeyConversion, e.Key, e.Target)
}

func (e *KeyConversionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrKeyConversion, e.Cause}
	}
	return []error{ErrKeyConversion}
}

// Is reports a key conversion failure as a type mismatch as well.
func (e *KeyConversionError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// FieldError attributes a decode failure to a record field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ElementError attributes a decode failure to an array element.
type ElementError struct {
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

// EntryError attributes a decode failure to a map entry.
type EntryError struct {
	Key string
	Err error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %q: %v", e.Key, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec or the native bridge
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// Path renders where in a nested value a decode error occurred,
// e.g. `items[1].name` or `labels["env"]`. It returns "" when err carries no
// attribution.
func Path(err error) string {
	var b strings.Builder
	for err != nil {
		switch e := err.(type) {
		case *FieldError:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(e.Field)
		case *MissingFieldError:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(e.Field)
		case *ElementError:
			b.WriteString("[" + strconv.Itoa(e.Index) + "]")
		case *EntryError:
			b.WriteString("[" + strconv.Quote(e.Key) + "]")
		}
		err = errors.Unwrap(err)
	}
	return b.String()
}

func newTypeMismatch(target string, want Kind, got Value) error {
	return &TypeMismatchError{Target: target, Want: want, Got: got.Kind()}
}

func newRangeError(target string, v any) error {
	return &RangeError{Target: target, Value: v}
}

func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
