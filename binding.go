package fieldmap

import (
	"fmt"
	"slices"
)

// FieldBinding attaches one named field of R to a Converter.
// Build them with Field; Derive produces them by reflection.
type FieldBinding[R any] interface {
	// Name is the map key the field is stored under.
	Name() string

	encode(r *R) Value
	decode(r *R, v Value) error
	check() error
}

type field[R, T any] struct {
	name string
	ref  func(*R) *T
	conv Converter[T]
}

// Field binds the field reached through ref to name, converted with c.
//
//	fieldmap.Field("age", func(p *Person) *uint8 { return &p.Age }, fieldmap.Uint8())
func Field[R, T any](name string, ref func(*R) *T, c Converter[T]) FieldBinding[R] {
	return &field[R, T]{name: name, ref: ref, conv: c}
}

func (f *field[R, T]) Name() string {
	return f.name
}

func (f *field[R, T]) encode(r *R) Value {
	return f.conv.Encode(*f.ref(r))
}

func (f *field[R, T]) decode(r *R, v Value) error {
	t, err := f.conv.Decode(v)
	if err != nil {
		return err
	}
	*f.ref(r) = t
	return nil
}

func (f *field[R, T]) check() error {
	switch {
	case f.name == "":
		return fmt.Errorf("%w: empty field name", ErrInvalidBinding)
	case f.ref == nil:
		return fmt.Errorf("%w: field %q has no accessor", ErrInvalidBinding, f.name)
	case f.conv == nil:
		return fmt.Errorf("%w: field %q has no converter", ErrInvalidBinding, f.name)
	}
	return nil
}

// Binding is the Mapper for a record type R, built from an ordered list of
// field bindings. It is also a Converter[R] through the Map variant.
//
// A Binding is immutable and safe for concurrent use.
type Binding[R any] struct {
	typeName string
	fields   []FieldBinding[R]
	names    []string

	// masking rules gathered from struct tags by Derive
	plan *maskPlan
}

// Bind builds a Binding from fields in declaration order.
// Field names must be non-empty and unique.
func Bind[R any](fields ...FieldBinding[R]) (*Binding[R], error) {
	b := &Binding[R]{
		typeName: typeName[R](),
		fields:   make([]FieldBinding[R], 0, len(fields)),
		names:    make([]string, 0, len(fields)),
	}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f == nil {
			return nil, fmt.Errorf("%w: nil field binding for %s", ErrInvalidBinding, b.typeName)
		}
		if err := f.check(); err != nil {
			return nil, err
		}
		name := f.Name()
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q declared twice on %s", ErrDuplicateField, name, b.typeName)
		}
		seen[name] = struct{}{}
		b.fields = append(b.fields, f)
		b.names = append(b.names, name)
	}
	return b, nil
}

// MustBind is like Bind but panics on error.
// Intended for package-level binding declarations.
func MustBind[R any](fields ...FieldBinding[R]) *Binding[R] {
	b, err := Bind(fields...)
	if err != nil {
		panic(err)
	}
	return b
}

// TypeName returns the Go type name of R.
func (b *Binding[R]) TypeName() string {
	return b.typeName
}

// Fields returns the field names in declaration order.
func (b *Binding[R]) Fields() []string {
	return slices.Clone(b.names)
}

// EncodeFields implements Mapper.
func (b *Binding[R]) EncodeFields(r R) map[string]Value {
	out := make(map[string]Value, len(b.fields))
	for _, f := range b.fields {
		out[f.Name()] = f.encode(&r)
	}
	return out
}

// DecodeFields implements Mapper. Entries for declared fields are deleted from
// fields as they are consumed.
func (b *Binding[R]) DecodeFields(fields map[string]Value) (R, error) {
	var r R
	for _, f := range b.fields {
		name := f.Name()
		v, ok := fields[name]
		if !ok {
			var zero R
			return zero, &MissingFieldError{Field: name}
		}
		delete(fields, name)
		if err := f.decode(&r, v); err != nil {
			var zero R
			return zero, &FieldError{Field: name, Err: err}
		}
	}
	return r, nil
}

// Encode implements Converter.
func (b *Binding[R]) Encode(r R) Value {
	return MapValue(b.EncodeFields(r))
}

// Decode implements Converter.
func (b *Binding[R]) Decode(v Value) (R, error) {
	return decodeRecord[R](b, b.typeName, v)
}
