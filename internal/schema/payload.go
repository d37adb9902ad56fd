package schema

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// PayloadValidator checks concrete message payloads against a JSON
// schema extracted from a schema document. The schema is compiled
// once; Validate is safe for concurrent use.
type PayloadValidator struct {
	schema *gojsonschema.Schema
}

// NewPayloadValidator compiles a payload schema.
func NewPayloadValidator(payloadSchema map[string]interface{}) (*PayloadValidator, error) {
	if payloadSchema == nil {
		return nil, util.NewValidationError("payload", "schema is required")
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(payloadSchema))
	if err != nil {
		return nil, &util.ValidationError{
			Section: "payload",
			Message: "invalid schema: " + err.Error(),
			Cause:   err,
		}
	}

	return &PayloadValidator{schema: compiled}, nil
}

// Validate checks a payload value against the schema. All violations
// surface in one error message.
func (p *PayloadValidator) Validate(payload interface{}) error {
	return p.validate(gojsonschema.NewGoLoader(payload))
}

// ValidateBytes checks a raw JSON payload against the schema.
func (p *PayloadValidator) ValidateBytes(payload []byte) error {
	return p.validate(gojsonschema.NewBytesLoader(payload))
}

func (p *PayloadValidator) validate(loader gojsonschema.JSONLoader) error {
	result, err := p.schema.Validate(loader)
	if err != nil {
		return &util.ValidationError{
			Section: "payload",
			Message: err.Error(),
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	descriptions := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		descriptions = append(descriptions, desc.Field()+": "+desc.Description())
	}

	return util.NewValidationError("payload", strings.Join(descriptions, "; "))
}

// ExtractPayloadSchema walks a schema document to a message payload.
// For 2.x channels, operation names the publish or subscribe block;
// for 3.x channels, operation names an entry in the channel's message
// map.
func ExtractPayloadSchema(doc Document, channel, operation string) (map[string]interface{}, bool) {
	channels, ok := getMap(doc, "channels")
	if !ok {
		return nil, false
	}
	ch, ok := getMap(channels, channel)
	if !ok {
		return nil, false
	}

	if block, ok := getMap(ch, operation); ok {
		if msg, ok := getMap(block, "message"); ok {
			return getMap(msg, "payload")
		}
	}

	if messages, ok := getMap(ch, "messages"); ok {
		if msg, ok := getMap(messages, operation); ok {
			return getMap(msg, "payload")
		}
	}

	return nil, false
}
