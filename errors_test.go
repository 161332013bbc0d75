package fieldmap

import (
	"errors"
	"strconv"
	"testing"
)

func TestTypeMismatchError_Is(t *testing.T) {
	err := newTypeMismatch("bool", KindBool, StringValue("true"))

	if !errors.Is(err, ErrTypeMismatch) {
		t.Error("TypeMismatchError should unwrap to ErrTypeMismatch")
	}
	if errors.Is(err, ErrRange) {
		t.Error("TypeMismatchError should not match ErrRange")
	}
}

func TestRangeError_Is(t *testing.T) {
	err := newRangeError("uint8", int64(300))

	if !errors.Is(err, ErrRange) {
		t.Error("RangeError should unwrap to ErrRange")
	}
	if errors.Is(err, ErrTypeMismatch) {
		t.Error("RangeError should not match ErrTypeMismatch")
	}
}

func TestKeyConversionError_Is(t *testing.T) {
	_, cause := strconv.ParseInt("x", 10, 64)
	err := &KeyConversionError{Key: "x", Target: "int", Cause: cause}

	if !errors.Is(err, ErrKeyConversion) {
		t.Error("KeyConversionError should match ErrKeyConversion")
	}
	if !errors.Is(err, ErrTypeMismatch) {
		t.Error("KeyConversionError should match ErrTypeMismatch")
	}
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Error("KeyConversionError should unwrap to its cause")
	}
}

func TestCodecError_Is(t *testing.T) {
	cause := errors.New("bad input")
	err := newCodecError(ErrUnmarshal, cause)

	if !errors.Is(err, ErrUnmarshal) {
		t.Error("CodecError should unwrap to ErrUnmarshal")
	}
	if !errors.Is(err, cause) {
		t.Error("CodecError should unwrap to its cause")
	}
	if errors.Is(err, ErrMarshal) {
		t.Error("CodecError should not match ErrMarshal")
	}
}

func TestError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "type mismatch",
			err:  newTypeMismatch("bool", KindBool, StringValue("true")),
			want: "type mismatch decoding bool: expected bool, got string",
		},
		{
			name: "type mismatch with detail",
			err:  &TypeMismatchError{Target: "rune", Want: KindString, Got: KindString, Detail: "expected exactly one character, got 2"},
			want: "type mismatch decoding rune: expected exactly one character, got 2",
		},
		{
			name: "range",
			err:  newRangeError("uint8", int64(300)),
			want: "value out of range: 300 does not fit uint8",
		},
		{
			name: "missing field",
			err:  &MissingFieldError{Field: "name"},
			want: `missing field "name"`,
		},
		{
			name: "field",
			err:  &FieldError{Field: "age", Err: newRangeError("uint8", int64(-1))},
			want: `field "age": value out of range: -1 does not fit uint8`,
		},
		{
			name: "element",
			err:  &ElementError{Index: 1, Err: &MissingFieldError{Field: "id"}},
			want: `element 1: missing field "id"`,
		},
		{
			name: "entry",
			err:  &EntryError{Key: "k", Err: &MissingFieldError{Field: "id"}},
			want: `entry "k": missing field "id"`,
		},
		{
			name: "codec without cause",
			err:  &CodecError{Err: ErrMarshal},
			want: "marshal failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("x"), ""},
		{"missing", &MissingFieldError{Field: "name"}, "name"},
		{
			name: "nested",
			err: &FieldError{Field: "items", Err: &ElementError{Index: 1, Err: &FieldError{
				Field: "labels", Err: &EntryError{Key: "env", Err: newTypeMismatch("string", KindString, IntValue(1))},
			}}},
			want: `items[1].labels["env"]`,
		},
		{
			name: "missing nested",
			err:  &FieldError{Field: "owner", Err: &MissingFieldError{Field: "name"}},
			want: "owner.name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Path(tt.err); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}
