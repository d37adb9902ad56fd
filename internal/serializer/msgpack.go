package serializer

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// msgpackSerializer implements Serializer for MessagePack.
type msgpackSerializer struct{}

var _ Serializer = (*msgpackSerializer)(nil)

// NewMessagePack creates the MessagePack serializer.
func NewMessagePack() Serializer {
	return &msgpackSerializer{}
}

// Format returns the format identifier.
func (s *msgpackSerializer) Format() string { return FormatMessagePack }

// ContentType returns the MessagePack content type.
func (s *msgpackSerializer) ContentType() string { return ContentTypeMessagePack }

// Encode encodes the value as MessagePack.
func (s *msgpackSerializer) Encode(v interface{}) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	return data, nil
}

// Decode decodes MessagePack data into the value.
func (s *msgpackSerializer) Decode(data []byte, v interface{}) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	return nil
}
