// Package utils holds small helpers shared by the client, config and CLI.
package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeJSONBody encodes body as a request payload. HTML characters are
// left unescaped; the encoder's trailing newline is dropped.
func EncodeJSONBody(body any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// MarshalRawBody encodes body with json.Marshal, unchanged.
func MarshalRawBody(body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}
	return b, nil
}
