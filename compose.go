package fieldmap

type optionalConverter[T any] struct {
	elem Converter[T]
}

// Optional converts *T, mapping nil to Null and everything else through c.
func Optional[T any](c Converter[T]) Converter[*T] {
	return optionalConverter[T]{elem: c}
}

func (c optionalConverter[T]) Encode(p *T) Value {
	if p == nil {
		return NullValue()
	}
	return c.elem.Encode(*p)
}

func (c optionalConverter[T]) Decode(v Value) (*T, error) {
	if v.IsNull() {
		return nil, nil
	}
	t, err := c.elem.Decode(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type sliceConverter[T any] struct {
	elem Converter[T]
	name string
}

// Slice converts []T through the Array variant, preserving order.
// Decode stops at the first failing element and reports it as an
// *ElementError; no partial slice is returned.
func Slice[T any](c Converter[T]) Converter[[]T] {
	return sliceConverter[T]{elem: c, name: typeName[[]T]()}
}

func (c sliceConverter[T]) Encode(s []T) Value {
	out := make([]Value, len(s))
	for i, e := range s {
		out[i] = c.elem.Encode(e)
	}
	return ArrayValue(out...)
}

func (c sliceConverter[T]) Decode(v Value) ([]T, error) {
	arr, ok := v.AsArray()
	if !ok {
		return nil, newTypeMismatch(c.name, KindArray, v)
	}
	out := make([]T, len(arr))
	for i, e := range arr {
		t, err := c.elem.Decode(e)
		if err != nil {
			return nil, &ElementError{Index: i, Err: err}
		}
		out[i] = t
	}
	return out, nil
}

type mapConverter[K comparable, V any] struct {
	keys    KeyConverter[K]
	elem    Converter[V]
	name    string
	keyName string
}

// Map converts map[K]V through the Map variant.
// Entries are decoded in sorted key order so the reported failure is
// deterministic: *KeyConversionError for a bad key, *EntryError for a bad value.
func Map[K comparable, V any](keys KeyConverter[K], c Converter[V]) Converter[map[K]V] {
	return mapConverter[K, V]{
		keys:    keys,
		elem:    c,
		name:    typeName[map[K]V](),
		keyName: typeName[K](),
	}
}

// StringMap converts map[string]V.
func StringMap[V any](c Converter[V]) Converter[map[string]V] {
	return Map(StringKeys[string](), c)
}

func (c mapConverter[K, V]) Encode(m map[K]V) Value {
	out := make(map[string]Value, len(m))
	for k, v := range m {
		out[c.keys.FormatKey(k)] = c.elem.Encode(v)
	}
	return MapValue(out)
}

func (c mapConverter[K, V]) Decode(v Value) (map[K]V, error) {
	entries, ok := v.AsMap()
	if !ok {
		return nil, newTypeMismatch(c.name, KindMap, v)
	}
	out := make(map[K]V, len(entries))
	for _, s := range sortedKeys(entries) {
		k, err := c.keys.ParseKey(s)
		if err != nil {
			return nil, &KeyConversionError{Key: s, Target: c.keyName, Cause: err}
		}
		e, err := c.elem.Decode(entries[s])
		if err != nil {
			return nil, &EntryError{Key: s, Err: err}
		}
		out[k] = e
	}
	return out, nil
}
