package serializer

import (
	"errors"

	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// Format identifiers for the built-in serializers.
const (
	FormatJSON        = "json"
	FormatMessagePack = "msgpack"
	FormatCBOR        = "cbor"
	FormatYAML        = "yaml"
	FormatProtobuf    = "protobuf"

	// DefaultFormat is used when an operation does not name a format.
	DefaultFormat = FormatJSON
)

// Content types for the built-in serializers.
const (
	ContentTypeJSON        = "application/json"
	ContentTypeMessagePack = "application/msgpack"
	ContentTypeCBOR        = "application/cbor"
	ContentTypeYAML        = "application/yaml"
	ContentTypeProtobuf    = "application/x-protobuf"
)

// Common serialization errors.
var (
	// ErrEncodingFailed indicates that encoding failed.
	ErrEncodingFailed = errors.New("encoding failed")

	// ErrDecodingFailed indicates that decoding failed.
	ErrDecodingFailed = errors.New("decoding failed")
)

// Serializer encodes and decodes payload values for one format.
type Serializer interface {
	// Format returns the format identifier this serializer is built for.
	Format() string

	// ContentType returns the content type written by this serializer.
	ContentType() string

	// Encode encodes the value to bytes.
	Encode(v interface{}) ([]byte, error)

	// Decode decodes the data into the value.
	Decode(data []byte, v interface{}) error
}

// NormalizeContentType normalizes a content type by stripping
// parameters such as "; charset=utf-8".
func NormalizeContentType(contentType string) string {
	for i, c := range contentType {
		if c == ';' {
			return trimSpaceRight(contentType[:i])
		}
	}
	return contentType
}

func trimSpaceRight(s string) string {
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		s = s[:len(s)-1]
	}
	return s
}

// unavailableSerializer stands in for a format whose codec library is
// not installed. The content type stays introspectable; encode and
// decode fail distinctly from an unregistered format.
type unavailableSerializer struct {
	format      string
	contentType string
	codec       string
}

var _ Serializer = (*unavailableSerializer)(nil)

// NewUnavailable creates a placeholder serializer for a format whose
// codec library is absent. codec names the missing library in failure
// messages.
func NewUnavailable(format, contentType, codec string) Serializer {
	return &unavailableSerializer{format: format, contentType: contentType, codec: codec}
}

func (s *unavailableSerializer) Format() string { return s.format }

func (s *unavailableSerializer) ContentType() string { return s.contentType }

func (s *unavailableSerializer) Encode(interface{}) ([]byte, error) {
	return nil, util.NewCodecNotInstalledError(s.format, s.codec)
}

func (s *unavailableSerializer) Decode([]byte, interface{}) error {
	return util.NewCodecNotInstalledError(s.format, s.codec)
}
