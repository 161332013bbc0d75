// Package json provides a JSON codec implementation.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"

	"github.com/zoobzio/fieldmap"
)

var errTrailingData = errors.New("trailing data after JSON document")

// jsonCodec implements fieldmap.Codec for JSON.
type jsonCodec struct{}

// New returns a JSON codec.
//
// Numbers are decoded as json.Number so integers keep full int64 precision.
// Doubles are always written with a fraction or exponent (2.0, not 2) so they
// read back as doubles; NaN and infinities travel as fieldmap double markers.
func New() fieldmap.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(prepare(v))
}

// Unmarshal decodes a single JSON document into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errTrailingData
	}
	return nil
}

// prepare rewrites the doubles of a native tree into forms JSON keeps apart
// from integers. Other nodes are shared, not copied.
func prepare(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fieldmap.DoubleMarker(t)
		}
		return json.Number(fieldmap.FormatDouble(t))
	case float32:
		return prepare(float64(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = prepare(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = prepare(e)
		}
		return out
	}
	return v
}
