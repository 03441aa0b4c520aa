package mirror

import "encoding/json"

// Codec translates a slot value to and from its durable byte form. The
// stored representation is whatever Encode produces; the mirror never
// inspects it.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// JSONCodec stores values as JSON. The zero value is ready to use.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Encode(v T) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec[T]) Decode(data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

// StringCodec stores strings as their raw bytes, keeping the durable form
// human-readable. An empty string is indistinguishable from an absent key
// on hydrate; use JSONCodec[string] when that distinction matters.
type StringCodec struct{}

func (StringCodec) Encode(v string) ([]byte, error) {
	return []byte(v), nil
}

func (StringCodec) Decode(data []byte) (string, error) {
	return string(data), nil
}
