package serializer

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// protobufSerializer implements Serializer for JSON-like values carried
// as a google.protobuf.Value wire envelope. It gives hosts a protobuf
// wire format without requiring generated message types for every
// payload.
type protobufSerializer struct{}

var _ Serializer = (*protobufSerializer)(nil)

// NewProtobuf creates the protobuf Value serializer.
func NewProtobuf() Serializer {
	return &protobufSerializer{}
}

// Format returns the format identifier.
func (s *protobufSerializer) Format() string { return FormatProtobuf }

// ContentType returns the protobuf content type.
func (s *protobufSerializer) ContentType() string { return ContentTypeProtobuf }

// Encode encodes the value as a marshaled google.protobuf.Value.
func (s *protobufSerializer) Encode(v interface{}) ([]byte, error) {
	val, err := structpb.NewValue(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}

	data, err := proto.Marshal(val)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	return data, nil
}

// Decode decodes a marshaled google.protobuf.Value into the value.
// Targets other than *interface{} are filled through a JSON bridge.
func (s *protobufSerializer) Decode(data []byte, v interface{}) error {
	var val structpb.Value
	if err := proto.Unmarshal(data, &val); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}

	decoded := val.AsInterface()

	if target, ok := v.(*interface{}); ok {
		*target = decoded
		return nil
	}

	bridge, err := jsonAPI.Marshal(decoded)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	if err := jsonAPI.Unmarshal(bridge, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	return nil
}
