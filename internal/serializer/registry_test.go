package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avapibridge/internal/util"
)

func TestNewRegistryDefaults(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, []string{FormatCBOR, FormatJSON, FormatMessagePack}, r.Formats())

	for _, format := range []string{FormatJSON, FormatMessagePack, FormatCBOR} {
		s, err := r.Get(format)
		require.NoError(t, err)
		assert.Equal(t, format, s.Format())
	}
}

func TestGetUnknownFormat(t *testing.T) {
	r := NewRegistry()

	s, err := r.Get("avro")
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Equal(t, `No serializer registered for format "avro"`, err.Error())
	assert.ErrorIs(t, err, util.ErrFormatNotRegistered)
	assert.True(t, util.IsUnsupportedFormat(err))
}

func TestGetEmptyFormatUsesDefault(t *testing.T) {
	r := NewRegistry()

	s, err := r.Get("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, s.Format())
}

func TestGetByContentType(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name        string
		contentType string
		wantFormat  string
	}{
		{name: "json", contentType: "application/json", wantFormat: FormatJSON},
		{name: "json with charset", contentType: "application/json; charset=utf-8", wantFormat: FormatJSON},
		{name: "msgpack", contentType: "application/msgpack", wantFormat: FormatMessagePack},
		{name: "cbor with charset", contentType: "application/cbor; charset=binary", wantFormat: FormatCBOR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := r.GetByContentType(tt.contentType)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, s.Format())
		})
	}
}

func TestGetByContentTypeNormalizationIsStable(t *testing.T) {
	r := NewRegistry()

	plain, err := r.GetByContentType("application/json")
	require.NoError(t, err)

	suffixed, err := r.GetByContentType("application/json; charset=utf-8")
	require.NoError(t, err)

	assert.Same(t, plain, suffixed)
}

func TestGetByContentTypeUnknown(t *testing.T) {
	r := NewRegistry()

	s, err := r.GetByContentType("application/xml")
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), `No serializer registered for content type "application/xml"`)
	assert.ErrorIs(t, err, util.ErrFormatNotRegistered)
}

func TestRegisterOverwrites(t *testing.T) {
	r := NewRegistry()

	replacement := NewUnavailable(FormatMessagePack, "application/x-msgpack", "msgpack")
	r.Register(FormatMessagePack, replacement)

	s, err := r.Get(FormatMessagePack)
	require.NoError(t, err)
	assert.Same(t, replacement, s)

	// The old content type binding is gone, the new one resolves.
	_, err = r.GetByContentType("application/msgpack")
	require.Error(t, err)

	s, err = r.GetByContentType("application/x-msgpack")
	require.NoError(t, err)
	assert.Same(t, replacement, s)
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Unregister(FormatCBOR))

	_, err := r.Get(FormatCBOR)
	require.Error(t, err)
	_, err = r.GetByContentType(ContentTypeCBOR)
	require.Error(t, err)
}

func TestUnregisterJSONRefused(t *testing.T) {
	r := NewRegistry()

	err := r.Unregister(FormatJSON)
	require.Error(t, err)
	assert.True(t, util.IsValidation(err))

	// JSON keeps working.
	s, getErr := r.Get(FormatJSON)
	require.NoError(t, getErr)
	assert.Equal(t, FormatJSON, s.Format())
}

func TestUnregisterUnknown(t *testing.T) {
	r := NewRegistry()

	err := r.Unregister("avro")
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrFormatNotRegistered)
}

func TestSoftRegisteredFormat(t *testing.T) {
	r := NewRegistry()
	r.Register("avro", NewUnavailable("avro", "application/avro", "goavro"))

	// The content type stays introspectable.
	s, err := r.Get("avro")
	require.NoError(t, err)
	assert.Equal(t, "application/avro", s.ContentType())

	s, err = r.GetByContentType("application/avro")
	require.NoError(t, err)
	assert.Equal(t, "avro", s.Format())

	// Encoding and decoding report the missing codec, not an
	// unregistered format.
	_, err = r.Serialize(map[string]interface{}{"a": 1}, "avro")
	require.Error(t, err)
	assert.Equal(t, "goavro not installed", err.Error())
	assert.ErrorIs(t, err, util.ErrCodecNotInstalled)
	assert.NotErrorIs(t, err, util.ErrFormatNotRegistered)

	_, err = r.Deserialize([]byte{0x01}, "avro")
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrCodecNotInstalled)
}

func TestSerializeDefaultFormat(t *testing.T) {
	r := NewRegistry()

	data, err := r.Serialize(map[string]interface{}{"ok": true}, "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}

func TestSerializeUnknownFormat(t *testing.T) {
	r := NewRegistry()

	data, err := r.Serialize("value", "avro")
	require.Error(t, err)
	assert.Nil(t, data)
	assert.ErrorIs(t, err, util.ErrFormatNotRegistered)
}

func TestDeserializeInto(t *testing.T) {
	r := NewRegistry()

	type payload struct {
		Name string `json:"name"`
	}

	var p payload
	err := r.DeserializeInto([]byte(`{"name":"ada"}`), &p, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "ada", p.Name)
}

func TestContentTypes(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t,
		[]string{ContentTypeCBOR, ContentTypeJSON, ContentTypeMessagePack},
		r.ContentTypes(),
	)
}
