package fieldmap

import "maps"

// Mapper converts a record type to and from the field map of a Map variant.
//
// EncodeFields writes exactly one entry per declared field. DecodeFields
// consumes the entry for each declared field it reads, in declaration order;
// entries it does not declare are left in place and ignored. The first
// failing field aborts decoding: an absent entry is a *MissingFieldError and a
// rejected entry is wrapped in a *FieldError.
type Mapper[R any] interface {
	EncodeFields(r R) map[string]Value
	DecodeFields(fields map[string]Value) (R, error)
}

type recordConverter[R any] struct {
	m    Mapper[R]
	name string
}

// Record turns a Mapper into a Converter so records can nest inside other
// records, slices, maps and optionals. Decode hands the Mapper a shallow copy
// of the entries, leaving the caller's Value untouched.
func Record[R any](m Mapper[R]) Converter[R] {
	return recordConverter[R]{m: m, name: typeName[R]()}
}

func (c recordConverter[R]) Encode(r R) Value {
	return MapValue(c.m.EncodeFields(r))
}

func (c recordConverter[R]) Decode(v Value) (R, error) {
	return decodeRecord(c.m, c.name, v)
}

func decodeRecord[R any](m Mapper[R], name string, v Value) (R, error) {
	fields, ok := v.AsMap()
	if !ok {
		var zero R
		return zero, newTypeMismatch(name, KindMap, v)
	}
	return m.DecodeFields(maps.Clone(fields))
}
