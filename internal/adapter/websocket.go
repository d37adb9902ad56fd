package adapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/vyrodovalexey/avapibridge/internal/config"
	"github.com/vyrodovalexey/avapibridge/internal/message"
	"github.com/vyrodovalexey/avapibridge/internal/observability"
	"github.com/vyrodovalexey/avapibridge/internal/serializer"
	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// Envelope payload keys used by the WebSocket adapter.
const (
	payloadKeyMethod  = "method"
	payloadKeyURL     = "url"
	payloadKeyHeaders = "headers"
	payloadKeyBody    = "body"
	payloadKeyStatus  = "status"
	payloadKeyMessage = "message"
)

// WebSocketAdapter converts between HTTP request/response objects and
// Message envelopes carried over WebSocket frames. Bodies are decoded
// and encoded through the serializer registry by declared content type;
// a missing content type falls back to the default JSON serializer.
type WebSocketAdapter struct {
	registry *serializer.Registry
	logger   observability.Logger
}

// WebSocketAdapterOption is a functional option for the adapter.
type WebSocketAdapterOption func(*WebSocketAdapter)

// WithWebSocketLogger sets the logger for the adapter.
func WithWebSocketLogger(logger observability.Logger) WebSocketAdapterOption {
	return func(a *WebSocketAdapter) {
		a.logger = logger
	}
}

// NewWebSocketAdapter creates a WebSocket adapter backed by the given
// serializer registry.
func NewWebSocketAdapter(registry *serializer.Registry, opts ...WebSocketAdapterOption) (*WebSocketAdapter, error) {
	if registry == nil {
		return nil, util.NewAdaptationError(adapterWebSocket, "serializer registry is required")
	}

	a := &WebSocketAdapter{
		registry: registry,
		logger:   observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// AdaptRequest converts an HTTP request into a request envelope. The
// body is decoded into a JSON-like value; an empty body becomes an
// empty object.
func (a *WebSocketAdapter) AdaptRequest(ctx context.Context, req *message.Request) (*message.Message, error) {
	_, span := startSpan(ctx, adapterWebSocket, "adapt_request")
	defer span.End()

	if req == nil {
		err := util.NewAdaptationError(adapterWebSocket, "request is nil")
		span.RecordError(err)
		return nil, err
	}

	body, err := a.decodeBody(req.Body(), req.ContentType())
	if err != nil {
		span.RecordError(err)
		return nil, util.NewAdaptationErrorWithCause(adapterWebSocket, err)
	}

	msg := message.NewMessage(message.TypeRequest, map[string]interface{}{
		payloadKeyMethod:  req.Method(),
		payloadKeyURL:     req.URL(),
		payloadKeyHeaders: headerValues(req.Headers().Map()),
		payloadKeyBody:    body,
	})
	return msg, nil
}

// AdaptResponse converts a response envelope back into an HTTP
// response. Missing fields default predictably: status 200, empty
// header map, empty object body. An error envelope fails with its
// carried message.
func (a *WebSocketAdapter) AdaptResponse(ctx context.Context, msg *message.Message) (*message.Response, error) {
	_, span := startSpan(ctx, adapterWebSocket, "adapt_response")
	defer span.End()

	if msg == nil {
		err := util.NewAdaptationError(adapterWebSocket, "message is nil")
		span.RecordError(err)
		return nil, err
	}
	if msg.Type == message.TypeError {
		err := util.NewAdaptationError(adapterWebSocket,
			msg.StringField(payloadKeyMessage, "remote error"))
		span.RecordError(err)
		return nil, err
	}

	status := http.StatusOK
	if v, ok := msg.Field(payloadKeyStatus); ok {
		if n, ok := intFrom(v); ok {
			status = n
		}
	}

	hdrs := message.HeadersFromMap(stringValues(msg.MapField(payloadKeyHeaders)))

	s, err := a.serializerFor(hdrs.Get(HeaderContentType))
	if err != nil {
		span.RecordError(err)
		return nil, util.NewAdaptationErrorWithCause(adapterWebSocket, err)
	}

	bodyVal, ok := msg.Field(payloadKeyBody)
	if !ok || bodyVal == nil {
		bodyVal = map[string]interface{}{}
	}
	body, err := s.Encode(bodyVal)
	if err != nil {
		span.RecordError(err)
		return nil, util.NewAdaptationErrorWithCause(adapterWebSocket, err)
	}

	hdrs.Set(HeaderContentType, s.ContentType())
	opts := []message.ResponseOption{
		message.WithResponseHeaders(hdrs.Map()),
		message.WithResponseBody(body, s.ContentType()),
	}

	// Envelopes may echo the originating method and URL; reconstruct
	// them as the response's origin request.
	if method, url := msg.StringField(payloadKeyMethod, ""), msg.StringField(payloadKeyURL, ""); method != "" || url != "" {
		if method == "" {
			method = http.MethodGet
		}
		if url == "" {
			url = "/"
		}
		opts = append(opts, message.WithRequest(message.NewRequest(method, url)))
	}

	resp, err := message.NewResponse(status, opts...)
	if err != nil {
		span.RecordError(err)
		return nil, util.NewAdaptationErrorWithCause(adapterWebSocket, err)
	}
	return resp, nil
}

// RequestFromMessage converts a request envelope into an HTTP request.
// This is the server-side inverse of AdaptRequest, used by the bridge
// to hand inbound frames to a pipeline. Method defaults to GET and URL
// to "/"; an empty object body with no declared content type becomes a
// bodiless request.
func (a *WebSocketAdapter) RequestFromMessage(ctx context.Context, msg *message.Message) (*message.Request, error) {
	_, span := startSpan(ctx, adapterWebSocket, "request_from_message")
	defer span.End()

	if msg == nil {
		err := util.NewAdaptationError(adapterWebSocket, "message is nil")
		span.RecordError(err)
		return nil, err
	}
	if msg.Type != message.TypeRequest {
		err := util.NewAdaptationError(adapterWebSocket,
			fmt.Sprintf("unexpected message type %q", msg.Type))
		span.RecordError(err)
		return nil, err
	}

	hdrs := message.HeadersFromMap(stringValues(msg.MapField(payloadKeyHeaders)))
	opts := []message.RequestOption{message.WithHeaders(hdrs.Map())}

	contentType := hdrs.Get(HeaderContentType)
	if bodyVal, ok := msg.Field(payloadKeyBody); ok && !emptyEnvelopeBody(bodyVal, contentType) {
		s, err := a.serializerFor(contentType)
		if err != nil {
			span.RecordError(err)
			return nil, util.NewAdaptationErrorWithCause(adapterWebSocket, err)
		}
		body, err := s.Encode(bodyVal)
		if err != nil {
			span.RecordError(err)
			return nil, util.NewAdaptationErrorWithCause(adapterWebSocket, err)
		}
		opts = append(opts, message.WithBody(body, s.ContentType()))
	}

	req := message.NewRequest(
		msg.StringField(payloadKeyMethod, http.MethodGet),
		msg.StringField(payloadKeyURL, "/"),
		opts...,
	)
	return req, nil
}

// ResponseToMessage converts an HTTP response into a response envelope.
// This is the server-side inverse of AdaptResponse, used by the bridge
// to write pipeline output back onto the connection.
func (a *WebSocketAdapter) ResponseToMessage(ctx context.Context, resp *message.Response) (*message.Message, error) {
	_, span := startSpan(ctx, adapterWebSocket, "response_to_message")
	defer span.End()

	if resp == nil {
		err := util.NewAdaptationError(adapterWebSocket, "response is nil")
		span.RecordError(err)
		return nil, err
	}

	body, err := a.decodeBody(resp.Body(), resp.ContentType())
	if err != nil {
		span.RecordError(err)
		return nil, util.NewAdaptationErrorWithCause(adapterWebSocket, err)
	}

	payload := map[string]interface{}{
		payloadKeyStatus:  resp.StatusCode(),
		payloadKeyHeaders: headerValues(resp.Headers().Map()),
		payloadKeyBody:    body,
	}
	if req := resp.Request(); req != nil {
		payload[payloadKeyMethod] = req.Method()
		payload[payloadKeyURL] = req.URL()
	}

	return message.NewMessage(message.TypeResponse, payload), nil
}

// decodeBody decodes body bytes into a JSON-like value using the
// serializer matching the content type. Empty bodies decode to an
// empty object.
func (a *WebSocketAdapter) decodeBody(body []byte, contentType string) (interface{}, error) {
	if len(body) == 0 {
		return map[string]interface{}{}, nil
	}
	s, err := a.serializerFor(contentType)
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := s.Decode(body, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// serializerFor resolves the serializer for a content type, falling
// back to the default format when none is declared.
func (a *WebSocketAdapter) serializerFor(contentType string) (serializer.Serializer, error) {
	if contentType == "" {
		return a.registry.Get(serializer.DefaultFormat)
	}
	return a.registry.GetByContentType(contentType)
}

// headerValues widens a header map into the JSON-like object shape the
// envelope payload carries, so the payload looks the same before and
// after a wire round trip.
func headerValues(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// stringValues keeps the string-valued entries of a decoded header
// object. Envelope headers are written as strings; anything else was
// not produced by this adapter and is dropped.
func stringValues(obj map[string]interface{}) map[string]string {
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// intFrom converts the numeric types the serializers produce into an
// int. JSON decodes numbers as float64, MessagePack and CBOR as signed
// or unsigned integers.
func intFrom(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// emptyEnvelopeBody reports whether a body field holds the empty-object
// default with no declared content type, which maps back to a bodiless
// request.
func emptyEnvelopeBody(v interface{}, contentType string) bool {
	if contentType != "" {
		return false
	}
	if v == nil {
		return true
	}
	obj, ok := v.(map[string]interface{})
	return ok && len(obj) == 0
}

// NewUpgrader builds a websocket.Upgrader from configuration. A nil
// checkOrigin accepts every origin; origin policy then belongs to the
// host's own middleware.
func NewUpgrader(cfg *config.WebSocketConfig, checkOrigin func(*http.Request) bool) websocket.Upgrader {
	if cfg == nil {
		def := config.DefaultWebSocketConfig()
		cfg = &def
	}
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     checkOrigin,
	}
}
