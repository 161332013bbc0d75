// Package bson provides a BSON codec implementation.
package bson

import (
	"time"

	"github.com/zoobzio/fieldmap"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bsonCodec implements fieldmap.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
//
// BSON documents are maps, so only Map values can be marshaled at the top
// level. Unmarshaling into *any yields plain map[string]any and []any trees
// instead of the driver's ordered document types.
func New() fieldmap.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	p, ok := v.(*any)
	if !ok {
		return bson.Unmarshal(data, v)
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	*p = normalize(doc)
	return nil
}

// normalize rewrites driver document types into plain Go trees.
func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0).UTC()
	case primitive.Null, primitive.Undefined:
		return nil
	default:
		return v
	}
}
