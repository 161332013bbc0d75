package fieldmap

// Codec is a content-type aware byte format. Implementations live in the
// json, yaml, msgpack and bson submodules.
//
// A Transcoder only ever hands Marshal the plain trees produced by ToNative,
// and Unmarshal a pointer to an empty interface.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
