// Package yaml provides a YAML codec implementation.
package yaml

import (
	"math"

	"github.com/zoobzio/fieldmap"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements fieldmap.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
//
// Doubles are written as explicit !!float scalars (2.0, .nan, .inf) so they
// never read back as integers.
func New() fieldmap.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(prepare(v))
}

// Unmarshal decodes YAML data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// prepare replaces the doubles of a native tree with float scalar nodes.
func prepare(v any) any {
	switch t := v.(type) {
	case float64:
		return floatNode(t)
	case float32:
		return floatNode(float64(t))
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

func floatNode(f float64) *yaml.Node {
	var value string
	switch {
	case math.IsNaN(f):
		value = ".nan"
	case math.IsInf(f, 1):
		value = ".inf"
	case math.IsInf(f, -1):
		value = "-.inf"
	default:
		value = fieldmap.FormatDouble(f)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: value}
}
