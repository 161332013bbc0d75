package fieldmap

import (
	"encoding"
	"fmt"
	"strconv"
)

// KeyConverter maps a Go map key type to and from the string keys of the Map
// variant. FormatKey is total; ParseKey reports why a string is not a valid key.
type KeyConverter[K comparable] interface {
	FormatKey(k K) string
	ParseKey(s string) (K, error)
}

type stringKeys[K ~string] struct{}

// StringKeys uses string keys verbatim.
func StringKeys[K ~string]() KeyConverter[K] {
	return stringKeys[K]{}
}

func (stringKeys[K]) FormatKey(k K) string {
	return string(k)
}

func (stringKeys[K]) ParseKey(s string) (K, error) {
	return K(s), nil
}

type intKeys[K Integer] struct{}

// IntKeys formats integer keys in base 10 and parses them back with a range check.
func IntKeys[K Integer]() KeyConverter[K] {
	return intKeys[K]{}
}

func (intKeys[K]) signed() bool {
	var zero K
	return ^zero < 0
}

func (c intKeys[K]) FormatKey(k K) string {
	if c.signed() {
		return strconv.FormatInt(int64(k), 10)
	}
	return strconv.FormatUint(uint64(k), 10)
}

func (c intKeys[K]) ParseKey(s string) (K, error) {
	if c.signed() {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, err
		}
		k := K(i)
		if int64(k) != i {
			return 0, newRangeError(typeName[K](), i)
		}
		return k, nil
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	k := K(u)
	if uint64(k) != u {
		return 0, newRangeError(typeName[K](), u)
	}
	return k, nil
}

// textKeys is parameterized on the pointer type so UnmarshalText can be
// called on a fresh K.
type textKeys[K interface {
	comparable
	encoding.TextMarshaler
}, PK interface {
	*K
	encoding.TextUnmarshaler
}] struct{}

// TextKeys uses encoding.TextMarshaler and encoding.TextUnmarshaler for keys
// such as netip.Addr. A key whose MarshalText fails is formatted with fmt.
func TextKeys[K interface {
	comparable
	encoding.TextMarshaler
}, PK interface {
	*K
	encoding.TextUnmarshaler
}]() KeyConverter[K] {
	return textKeys[K, PK]{}
}

func (textKeys[K, PK]) FormatKey(k K) string {
	b, err := k.MarshalText()
	if err != nil {
		return fmt.Sprint(k)
	}
	return string(b)
}

func (textKeys[K, PK]) ParseKey(s string) (K, error) {
	var k K
	if err := PK(&k).UnmarshalText([]byte(s)); err != nil {
		var zero K
		return zero, err
	}
	return k, nil
}
