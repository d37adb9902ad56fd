package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// normalizeNumbers maps every integer width onto float64 so decoded
// values can be compared across codecs that pick different Go number
// types for the same wire value.
func normalizeNumbers(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, vv := range t {
			m[k] = normalizeNumbers(vv)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, vv := range t {
			s[i] = normalizeNumbers(vv)
		}
		return s
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

func roundTripDocument() map[string]interface{} {
	return map[string]interface{}{
		"name":   "ada",
		"count":  float64(3),
		"score":  1.5,
		"active": true,
		"tags":   []interface{}{"alpha", "beta"},
		"nested": map[string]interface{}{"level": float64(2)},
		"empty":  nil,
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		serializer Serializer
	}{
		{name: "json", serializer: NewJSON()},
		{name: "msgpack", serializer: NewMessagePack()},
		{name: "cbor", serializer: NewCBOR()},
		{name: "yaml", serializer: NewYAML()},
		{name: "protobuf", serializer: NewProtobuf()},
	}

	doc := roundTripDocument()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.serializer.Encode(doc)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			var decoded interface{}
			require.NoError(t, tt.serializer.Decode(data, &decoded))

			assert.Equal(t, normalizeNumbers(doc), normalizeNumbers(decoded))
		})
	}
}

func TestRoundTripScalars(t *testing.T) {
	serializers := []Serializer{NewJSON(), NewMessagePack(), NewCBOR(), NewYAML(), NewProtobuf()}
	values := []interface{}{"text", float64(42), 1.25, true, false, nil, []interface{}{"a", float64(1)}}

	for _, s := range serializers {
		for _, v := range values {
			data, err := s.Encode(v)
			require.NoError(t, err, "%s encode %v", s.Format(), v)

			var decoded interface{}
			require.NoError(t, s.Decode(data, &decoded), "%s decode %v", s.Format(), v)
			assert.Equal(t, normalizeNumbers(v), normalizeNumbers(decoded), "%s round trip %v", s.Format(), v)
		}
	}
}

func TestJSONRoundTripExact(t *testing.T) {
	s := NewJSON()
	doc := roundTripDocument()

	data, err := s.Encode(doc)
	require.NoError(t, err)

	var decoded interface{}
	require.NoError(t, s.Decode(data, &decoded))

	// JSON decodes numbers as float64, so the document round-trips to
	// deep equality without normalization.
	assert.Equal(t, doc, decoded)
}

func TestJSONDecodeInvalid(t *testing.T) {
	s := NewJSON()

	var v interface{}
	err := s.Decode([]byte(`{"broken"`), &v)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecodingFailed)
}

func TestContentTypesAndFormats(t *testing.T) {
	tests := []struct {
		serializer      Serializer
		wantFormat      string
		wantContentType string
	}{
		{NewJSON(), FormatJSON, ContentTypeJSON},
		{NewMessagePack(), FormatMessagePack, ContentTypeMessagePack},
		{NewCBOR(), FormatCBOR, ContentTypeCBOR},
		{NewYAML(), FormatYAML, ContentTypeYAML},
		{NewProtobuf(), FormatProtobuf, ContentTypeProtobuf},
	}

	for _, tt := range tests {
		t.Run(tt.wantFormat, func(t *testing.T) {
			assert.Equal(t, tt.wantFormat, tt.serializer.Format())
			assert.Equal(t, tt.wantContentType, tt.serializer.ContentType())
		})
	}
}

func TestNormalizeContentType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "application/json", want: "application/json"},
		{name: "charset suffix", input: "application/json; charset=utf-8", want: "application/json"},
		{name: "space before semicolon", input: "application/json ; charset=utf-8", want: "application/json"},
		{name: "multiple parameters", input: "application/cbor; charset=binary; q=1", want: "application/cbor"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeContentType(tt.input))
		})
	}
}

func TestProtobufDecodeIntoStruct(t *testing.T) {
	s := NewProtobuf()

	data, err := s.Encode(map[string]interface{}{"name": "ada", "count": float64(2)})
	require.NoError(t, err)

	var target struct {
		Name  string  `json:"name"`
		Count float64 `json:"count"`
	}
	require.NoError(t, s.Decode(data, &target))
	assert.Equal(t, "ada", target.Name)
	assert.Equal(t, float64(2), target.Count)
}
