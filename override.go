package fieldmap

// Override interfaces let a type describe its own Value form instead of
// going through reflection. Derive and Use honour them for every field type
// whose pointer implements both; Self turns such a type into a Converter.
//
// Code generators can emit these methods from a struct definition.

// ValueEncoder produces the Value form of the receiver. It must be total.
type ValueEncoder interface {
	EncodeValue() Value
}

// ValueDecoder replaces the receiver with the type decoded from v.
// It must reject any Value EncodeValue could not have produced.
type ValueDecoder interface {
	DecodeValue(v Value) error
}

type selfConverter[T ValueEncoder, PT interface {
	*T
	ValueDecoder
}] struct{}

// Self returns the Converter for a type implementing ValueEncoder on its
// value and ValueDecoder on its pointer.
func Self[T ValueEncoder, PT interface {
	*T
	ValueDecoder
}]() Converter[T] {
	return selfConverter[T, PT]{}
}

func (selfConverter[T, PT]) Encode(v T) Value {
	return v.EncodeValue()
}

func (selfConverter[T, PT]) Decode(v Value) (T, error) {
	var t T
	if err := PT(&t).DecodeValue(v); err != nil {
		var zero T
		return zero, err
	}
	return t, nil
}
