package server

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// JSONCodec marshals padelv1 messages, which are plain structs rather than
// protobuf messages. It replaces Connect's built-in "json" codec.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// charsetJSONCodec serves "application/json; charset=utf-8", which Connect
// resolves to its own codec name.
type charsetJSONCodec struct{ JSONCodec }

func (charsetJSONCodec) Name() string { return "json; charset=utf-8" }

// WithJSON is the option handlers and clients need to speak padelv1.
// Handlers accept both names; clients send with the last one, plain "json".
func WithJSON() connect.Option {
	return connect.WithOptions(
		connect.WithCodec(charsetJSONCodec{}),
		connect.WithCodec(JSONCodec{}),
	)
}
