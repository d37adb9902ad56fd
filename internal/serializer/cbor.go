package serializer

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// CBOR modes are built once. Decoding targets map[string]interface{}
// for maps so decoded payloads keep the JSON-like shape the rest of the
// core works with.
var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	var err error

	cborEncMode, err = cbor.EncOptions{}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor encoder options: %v", err))
	}

	cborDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("cbor decoder options: %v", err))
	}
}

// cborSerializer implements Serializer for CBOR.
type cborSerializer struct{}

var _ Serializer = (*cborSerializer)(nil)

// NewCBOR creates the CBOR serializer.
func NewCBOR() Serializer {
	return &cborSerializer{}
}

// Format returns the format identifier.
func (s *cborSerializer) Format() string { return FormatCBOR }

// ContentType returns the CBOR content type.
func (s *cborSerializer) ContentType() string { return ContentTypeCBOR }

// Encode encodes the value as CBOR.
func (s *cborSerializer) Encode(v interface{}) ([]byte, error) {
	data, err := cborEncMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	return data, nil
}

// Decode decodes CBOR data into the value.
func (s *cborSerializer) Decode(data []byte, v interface{}) error {
	if err := cborDecMode.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	return nil
}
