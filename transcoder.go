package fieldmap

import (
	"context"
	"fmt"
	"time"
)

// TranscoderOption configures a Transcoder.
type TranscoderOption func(*transcoderConfig)

type transcoderConfig struct {
	typeName string
}

// WithTypeName overrides the type name reported in signals.
func WithTypeName(name string) TranscoderOption {
	return func(c *transcoderConfig) {
		c.typeName = name
	}
}

// Transcoder moves a T between bytes and memory through its Value form:
// T -> Converter -> Value -> native tree -> Codec -> bytes, and back.
//
// A Transcoder is immutable and safe for concurrent use.
type Transcoder[T any] struct {
	codec    Codec
	conv     Converter[T]
	typeName string
}

// NewTranscoder pairs a Converter with a Codec.
func NewTranscoder[T any](codec Codec, conv Converter[T], opts ...TranscoderOption) *Transcoder[T] {
	cfg := transcoderConfig{typeName: typeName[T]()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Transcoder[T]{
		codec:    codec,
		conv:     conv,
		typeName: cfg.typeName,
	}
}

// ContentType returns the codec's MIME type.
func (t *Transcoder[T]) ContentType() string {
	return t.codec.ContentType()
}

// Marshal encodes v and serializes it with the codec.
func (t *Transcoder[T]) Marshal(ctx context.Context, v T) ([]byte, error) {
	start := time.Now()
	emitMarshalStart(ctx, t.codec.ContentType(), t.typeName)

	var retErr error
	var retData []byte
	defer func() {
		emitMarshalComplete(ctx, t.codec.ContentType(), t.typeName,
			len(retData), time.Since(start), retErr)
	}()

	retData, retErr = t.MarshalValue(t.conv.Encode(v))
	return retData, retErr
}

// Unmarshal parses data with the codec and decodes the result into a T.
func (t *Transcoder[T]) Unmarshal(ctx context.Context, data []byte) (T, error) {
	start := time.Now()
	emitUnmarshalStart(ctx, t.codec.ContentType(), t.typeName, len(data))

	var retErr error
	defer func() {
		emitUnmarshalComplete(ctx, t.codec.ContentType(), t.typeName,
			time.Since(start), retErr)
	}()

	var zero T
	v, err := t.UnmarshalValue(data)
	if err != nil {
		retErr = err
		return zero, retErr
	}

	out, err := t.conv.Decode(v)
	if err != nil {
		retErr = fmt.Errorf("decode %s: %w", t.typeName, err)
		return zero, retErr
	}
	return out, nil
}

// MarshalValue serializes v without a Converter step.
func (t *Transcoder[T]) MarshalValue(v Value) ([]byte, error) {
	data, err := t.codec.Marshal(ToNative(v))
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return data, nil
}

// UnmarshalValue parses data into a Value without a Converter step.
func (t *Transcoder[T]) UnmarshalValue(data []byte) (Value, error) {
	var native any
	if err := t.codec.Unmarshal(data, &native); err != nil {
		return Value{}, newCodecError(ErrUnmarshal, err)
	}
	v, err := FromNative(native)
	if err != nil {
		return Value{}, newCodecError(ErrUnmarshal, err)
	}
	return v, nil
}
