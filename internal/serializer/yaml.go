package serializer

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlSerializer implements Serializer for YAML. Schema documents
// travel as YAML, so the registry can carry it alongside the binary
// formats.
type yamlSerializer struct{}

var _ Serializer = (*yamlSerializer)(nil)

// NewYAML creates the YAML serializer.
func NewYAML() Serializer {
	return &yamlSerializer{}
}

// Format returns the format identifier.
func (s *yamlSerializer) Format() string { return FormatYAML }

// ContentType returns the YAML content type.
func (s *yamlSerializer) ContentType() string { return ContentTypeYAML }

// Encode encodes the value as YAML.
func (s *yamlSerializer) Encode(v interface{}) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	return data, nil
}

// Decode decodes YAML data into the value.
func (s *yamlSerializer) Decode(data []byte, v interface{}) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	return nil
}
