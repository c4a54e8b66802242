// Package apiconnect wires the tripledger services to Connect handlers and
// clients. Messages are plain Go structs encoded as JSON.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec replaces Connect's default protobuf JSON codec, which only
// accepts generated proto messages.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// WithJSON selects the JSON codec for a handler or client.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
