package message

import "github.com/google/uuid"

// Message type discriminators used during protocol adaptation.
const (
	TypeRequest  = "request"
	TypeResponse = "response"
	TypeError    = "error"
)

// Message is the envelope used as the intermediate shape between HTTP
// and WebSocket wire formats. The payload is an arbitrary JSON-like
// object.
type Message struct {
	Type          string                 `json:"type" yaml:"type" msgpack:"type" cbor:"type"`
	CorrelationID string                 `json:"correlation_id,omitempty" yaml:"correlation_id,omitempty" msgpack:"correlation_id,omitempty" cbor:"correlation_id,omitempty"`
	Payload       map[string]interface{} `json:"payload,omitempty" yaml:"payload,omitempty" msgpack:"payload,omitempty" cbor:"payload,omitempty"`
}

// NewMessage creates a message with a generated correlation ID.
func NewMessage(msgType string, payload map[string]interface{}) *Message {
	if payload == nil {
		payload = make(map[string]interface{})
	}
	return &Message{
		Type:          msgType,
		CorrelationID: uuid.NewString(),
		Payload:       payload,
	}
}

// Field returns a payload field and whether it is present.
func (m *Message) Field(key string) (interface{}, bool) {
	if m == nil || m.Payload == nil {
		return nil, false
	}
	v, ok := m.Payload[key]
	return v, ok
}

// StringField returns a payload field as a string, or the fallback when
// the field is absent or not a string.
func (m *Message) StringField(key, fallback string) string {
	v, ok := m.Field(key)
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	return s
}

// MapField returns a payload field as a JSON-like object, or an empty
// map when the field is absent or not an object.
func (m *Message) MapField(key string) map[string]interface{} {
	v, ok := m.Field(key)
	if !ok {
		return map[string]interface{}{}
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return obj
}
