// Package fieldmap converts Go values to and from a self-describing dynamic
// Value and back, without loss.
//
// # Values
//
// A Value is one of Null, Boolean, Integer (int64), Double (float64),
// String, Time, Array or Map (string keys). Build them with NullValue,
// BoolValue, IntValue, DoubleValue, StringValue, TimeValue, ArrayValue and
// MapValue; inspect them with Kind and the AsX accessors.
//
// # Converters
//
// A Converter[T] encodes a T into a Value (always succeeds) and decodes a
// Value back into a T (may fail). Decoding is strict: a wrong variant is a
// *TypeMismatchError, a number that does not fit is a *RangeError.
//
//	c := fieldmap.Slice(fieldmap.Int())
//	v := c.Encode([]int{1, 2, 3})
//	xs, err := c.Decode(v)
//
// Built-in converters cover bool, every integer width, float32, float64,
// strings, single characters, Time and time.Time. Optional, Slice, Map and
// Record compose them.
//
// # Records
//
// A record type is described by a Binding, which maps it to a Map with one
// entry per declared field. Bindings are declared explicitly:
//
//	var personBinding = fieldmap.MustBind(
//	    fieldmap.Field("name", func(p *Person) *string { return &p.Name }, fieldmap.String()),
//	    fieldmap.Field("age", func(p *Person) *uint8 { return &p.Age }, fieldmap.Uint8()),
//	)
//
// or derived from the struct definition:
//
//	type Person struct {
//	    Name  string `fieldmap:"name"`
//	    Age   uint8  `fieldmap:"age"`
//	    Email string `fieldmap:"email" mask:"email"`
//	}
//
//	b, err := fieldmap.Use[Person]()
//
// Decoding a record fails on the first missing field (*MissingFieldError) or
// the first field that does not decode (*FieldError). Extra keys are ignored.
// Path renders where a nested failure happened.
//
// # Interchange
//
// A Transcoder pairs a Converter with a Codec from the json, yaml, msgpack
// or bson submodules to move values through bytes. Fingerprint hashes a
// Value canonically and Snapshot produces a masked copy for logs.
//
// # Observability
//
// Derivation, transcoding and snapshots emit capitan signals (see
// signals.go). Converters and Mappers themselves have no side effects.
package fieldmap
