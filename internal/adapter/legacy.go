package adapter

import (
	"context"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/vyrodovalexey/avapibridge/internal/config"
	"github.com/vyrodovalexey/avapibridge/internal/message"
	"github.com/vyrodovalexey/avapibridge/internal/observability"
	"github.com/vyrodovalexey/avapibridge/internal/serializer"
	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// legacyStatusTable maps legacy result codes to HTTP status codes.
// Codes outside the table pass through unchanged.
var legacyStatusTable = map[int]int{
	1: 200,
	2: 400,
	3: 401,
	4: 404,
	5: 500,
}

// LegacyStatusCode translates a legacy result code into an HTTP status
// code. Unmapped codes come back unchanged.
func LegacyStatusCode(code int) int {
	if status, ok := legacyStatusTable[code]; ok {
		return status
	}
	return code
}

// LegacyAdapter converts between the modern request/response shapes
// and a legacy convention: the credential travels as X-API-Key instead
// of Authorization, body keys are snake_case instead of camelCase, and
// statuses use the legacy result-code table.
//
// Key remapping touches only the top level of JSON object bodies.
// Nested objects keep their original keys; non-object and non-JSON
// bodies pass through untouched.
type LegacyAdapter struct {
	baseURL string
	logger  observability.Logger
}

// LegacyAdapterOption is a functional option for the adapter.
type LegacyAdapterOption func(*LegacyAdapter)

// WithLegacyLogger sets the logger for the adapter.
func WithLegacyLogger(logger observability.Logger) LegacyAdapterOption {
	return func(a *LegacyAdapter) {
		a.logger = logger
	}
}

// NewLegacyAdapter creates a legacy adapter. The configured base URL,
// when present, is prefixed onto every outbound request path.
func NewLegacyAdapter(cfg *config.LegacyConfig, opts ...LegacyAdapterOption) *LegacyAdapter {
	a := &LegacyAdapter{
		logger: observability.NopLogger(),
	}
	if cfg != nil {
		a.baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// AdaptRequest builds the outbound legacy request: Authorization moves
// to X-API-Key, top-level body keys become snake_case, and the base
// URL is prefixed onto the path.
func (a *LegacyAdapter) AdaptRequest(ctx context.Context, req *message.Request) (*message.Request, error) {
	_, span := startSpan(ctx, adapterLegacy, "adapt_request")
	defer span.End()

	if req == nil {
		err := util.NewAdaptationError(adapterLegacy, "request is nil")
		span.RecordError(err)
		return nil, err
	}

	hdrs := req.Headers()
	if v, ok := hdrs.Lookup(HeaderAuthorization); ok {
		hdrs.Del(HeaderAuthorization)
		hdrs.Set(HeaderAPIKey, v)
	}

	url := req.URL()
	if a.baseURL != "" {
		if !strings.HasPrefix(url, "/") {
			url = "/" + url
		}
		url = a.baseURL + url
	}

	opts := []message.RequestOption{message.WithHeaders(hdrs.Map())}
	if len(req.Body()) > 0 {
		body, _ := remapBodyKeys(req.Body(), util.CamelToSnake)
		opts = append(opts, message.WithBody(body, req.ContentType()))
	}

	return message.NewRequest(req.Method(), url, opts...), nil
}

// AdaptResponse builds the inbound response from raw legacy response
// parts: the legacy result code is translated through the status
// table, X-API-Key moves back to Authorization, and top-level body
// keys become camelCase. The raw parts are taken apart here because a
// legacy result code is not a valid HTTP status until translated.
func (a *LegacyAdapter) AdaptResponse(ctx context.Context, status int, headers map[string]string, body []byte) (*message.Response, error) {
	_, span := startSpan(ctx, adapterLegacy, "adapt_response")
	defer span.End()

	hdrs := message.HeadersFromMap(headers)
	if v, ok := hdrs.Lookup(HeaderAPIKey); ok {
		hdrs.Del(HeaderAPIKey)
		hdrs.Set(HeaderAuthorization, v)
	}

	opts := []message.ResponseOption{message.WithResponseHeaders(hdrs.Map())}
	if len(body) > 0 {
		remapped, _ := remapBodyKeys(body, util.SnakeToCamel)
		contentType := hdrs.Get(HeaderContentType)
		if contentType == "" {
			contentType = serializer.ContentTypeJSON
		}
		opts = append(opts, message.WithResponseBody(remapped, contentType))
	}

	resp, err := message.NewResponse(LegacyStatusCode(status), opts...)
	if err != nil {
		span.RecordError(err)
		return nil, util.NewAdaptationErrorWithCause(adapterLegacy, err)
	}
	return resp, nil
}

// remapBodyKeys rewrites the top-level keys of a JSON object body.
// Anything that is not a JSON object comes back unchanged, reported by
// the second return value.
func remapBodyKeys(body []byte, mapKey func(string) string) ([]byte, bool) {
	var obj map[string]interface{}
	if err := sonic.ConfigStd.Unmarshal(body, &obj); err != nil {
		return body, false
	}

	out := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		out[mapKey(k)] = v
	}

	data, err := sonic.ConfigStd.Marshal(out)
	if err != nil {
		return body, false
	}
	return data, true
}
