package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avapibridge/internal/util"
)

func TestHeadersCaseInsensitive(t *testing.T) {
	h := NewHeaders()
	h.Set("content-type", "application/json")

	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.Equal(t, "application/json", h.Get("CONTENT-TYPE"))

	v, ok := h.Lookup("cOnTeNt-TyPe")
	assert.True(t, ok)
	assert.Equal(t, "application/json", v)
}

func TestHeadersLastWriteWins(t *testing.T) {
	h := NewHeaders()
	h.Set("X-Api-Key", "first")
	h.Set("x-api-key", "second")

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, "second", h.Get("X-Api-Key"))
}

func TestHeadersCloneIsIndependent(t *testing.T) {
	h := HeadersFromMap(map[string]string{"Accept": "application/json"})

	c := h.Clone()
	c.Set("Accept", "application/cbor")

	assert.Equal(t, "application/json", h.Get("Accept"))
	assert.Equal(t, "application/cbor", c.Get("Accept"))
}

func TestHeadersDel(t *testing.T) {
	h := HeadersFromMap(map[string]string{"Authorization": "Bearer abc"})
	h.Del("authorization")

	_, ok := h.Lookup("Authorization")
	assert.False(t, ok)
	assert.Equal(t, 0, h.Len())
}

func TestNewRequest(t *testing.T) {
	req := NewRequest("post", "/api/users",
		WithHeader("Content-Type", "application/json"),
		WithBody([]byte(`{"name":"ada"}`), "application/json"),
	)

	assert.Equal(t, "POST", req.Method())
	assert.Equal(t, "/api/users", req.URL())
	assert.Equal(t, "application/json", req.Header("content-type"))
	assert.Equal(t, []byte(`{"name":"ada"}`), req.Body())
	assert.Equal(t, "application/json", req.ContentType())
}

func TestRequestDerivationDoesNotMutateOriginal(t *testing.T) {
	req := NewRequest("GET", "/v1/users", WithHeader("Accept", "application/json"))

	derived := req.WithHeader("Authorization", "Bearer abc").WithURL("/v2/users")

	assert.Equal(t, "/v1/users", req.URL())
	assert.Equal(t, "", req.Header("Authorization"))
	assert.Equal(t, "/v2/users", derived.URL())
	assert.Equal(t, "Bearer abc", derived.Header("Authorization"))
	assert.Equal(t, "application/json", derived.Header("Accept"))
}

func TestRequestExtensionBagSharedAcrossCopies(t *testing.T) {
	req := NewRequest("GET", "/users")
	derived := req.WithHeader("X-Trace", "1")

	derived.SetExtension("start_time", int64(42))

	v, ok := req.Extension("start_time")
	require.True(t, ok)
	assert.Equal(t, int64(42), v)
}

func TestRequestHeadersReturnsCopy(t *testing.T) {
	req := NewRequest("GET", "/users", WithHeader("Accept", "application/json"))

	req.Headers().Set("Accept", "text/html")

	assert.Equal(t, "application/json", req.Header("Accept"))
}

func TestNewResponse(t *testing.T) {
	req := NewRequest("GET", "/users")

	resp, err := NewResponse(200,
		WithResponseHeader("Content-Type", "application/json"),
		WithResponseBody([]byte(`[]`), "application/json"),
		WithRequest(req),
	)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode())
	assert.Equal(t, "application/json", resp.Header("content-type"))
	assert.Equal(t, []byte(`[]`), resp.Body())
	assert.Equal(t, req, resp.Request())
}

func TestNewResponseStatusValidation(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "lower bound", status: 100, wantErr: false},
		{name: "upper bound", status: 599, wantErr: false},
		{name: "below range", status: 99, wantErr: true},
		{name: "above range", status: 600, wantErr: true},
		{name: "zero", status: 0, wantErr: true},
		{name: "negative", status: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := NewResponse(tt.status)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, resp)
				assert.True(t, util.IsValidation(err))
				assert.ErrorIs(t, err, util.ErrInvalidStatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode())
		})
	}
}

func TestResponseDerivation(t *testing.T) {
	resp, err := NewResponse(200, WithResponseHeader("X-Cache", "MISS"))
	require.NoError(t, err)

	derived := resp.WithHeader("X-Cache", "HIT").WithBody([]byte("ok"), "text/plain")

	assert.Equal(t, "MISS", resp.Header("X-Cache"))
	assert.Equal(t, "HIT", derived.Header("X-Cache"))
	assert.Equal(t, []byte("ok"), derived.Body())
	assert.Nil(t, resp.Body())
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage(TypeRequest, map[string]interface{}{"method": "GET"})

	assert.Equal(t, TypeRequest, msg.Type)
	assert.NotEmpty(t, msg.CorrelationID)
	assert.Equal(t, "GET", msg.StringField("method", ""))
}

func TestNewMessageNilPayload(t *testing.T) {
	msg := NewMessage(TypeResponse, nil)

	require.NotNil(t, msg.Payload)
	assert.Empty(t, msg.Payload)
}

func TestMessageCorrelationIDsAreUnique(t *testing.T) {
	a := NewMessage(TypeRequest, nil)
	b := NewMessage(TypeRequest, nil)

	assert.NotEqual(t, a.CorrelationID, b.CorrelationID)
}

func TestMessageFieldHelpers(t *testing.T) {
	msg := &Message{
		Type: TypeResponse,
		Payload: map[string]interface{}{
			"status":  float64(404),
			"headers": map[string]interface{}{"X-Reason": "missing"},
			"body":    map[string]interface{}{"error": "not found"},
		},
	}

	status, ok := msg.Field("status")
	require.True(t, ok)
	assert.Equal(t, float64(404), status)

	assert.Equal(t, map[string]interface{}{"X-Reason": "missing"}, msg.MapField("headers"))
	assert.Equal(t, map[string]interface{}{"error": "not found"}, msg.MapField("body"))

	// Absent and mistyped fields fall back predictably.
	assert.Equal(t, "GET", msg.StringField("method", "GET"))
	assert.Empty(t, msg.MapField("missing"))
	assert.Equal(t, "", msg.StringField("status", ""))
}
