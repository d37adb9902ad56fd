package serializer

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// jsonAPI is the sonic configuration used by the JSON serializer.
// ConfigStd matches encoding/json semantics.
var jsonAPI = sonic.ConfigStd

// jsonSerializer implements Serializer for JSON.
type jsonSerializer struct{}

var _ Serializer = (*jsonSerializer)(nil)

// NewJSON creates the JSON serializer. It is always registered as the
// default format.
func NewJSON() Serializer {
	return &jsonSerializer{}
}

// Format returns the format identifier.
func (s *jsonSerializer) Format() string { return FormatJSON }

// ContentType returns the JSON content type.
func (s *jsonSerializer) ContentType() string { return ContentTypeJSON }

// Encode encodes the value as JSON.
func (s *jsonSerializer) Encode(v interface{}) ([]byte, error) {
	data, err := jsonAPI.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	return data, nil
}

// Decode decodes JSON data into the value.
func (s *jsonSerializer) Decode(data []byte, v interface{}) error {
	if err := jsonAPI.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	return nil
}
