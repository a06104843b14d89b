// Package api holds the request and response messages of the tabout RPC services.
//
// Messages are plain Go structs encoded as JSON on the wire. Register the codec
// on both handlers and clients with WithJSON.
package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// CodecName is the connect codec name, sent as "application/json".
const CodecName = "json"

// JSONCodec marshals messages with encoding/json.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return CodecName }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return data, nil
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}

// WithJSON installs JSONCodec. The returned option is valid for handlers and clients.
func WithJSON() connect.Option {
	return connect.WithCodec(JSONCodec{})
}
