package middleware

// Extension bag keys used by the built-in middlewares.
const (
	// ExtKeyRequestID carries the generated request id.
	ExtKeyRequestID = "request_id"

	// ExtKeyStartTime carries the logging start timestamp.
	ExtKeyStartTime = "start_time"

	// ExtKeyMetricsStart carries the metrics start timestamp.
	ExtKeyMetricsStart = "metrics_start"

	// extKeyCacheHit marks a request answered from cache so the
	// response stage does not store it again.
	extKeyCacheHit = "cache_hit"
)

// Header names used by the built-in middlewares.
const (
	// HeaderAuthorization is the standard authorization header.
	HeaderAuthorization = "Authorization"

	// HeaderAPIKey is the API key header used by the apikey scheme.
	HeaderAPIKey = "X-API-Key"

	// HeaderRequestID carries the request id on responses.
	HeaderRequestID = "X-Request-Id"
)

// redactedValue replaces sensitive header values in log output.
const redactedValue = "[REDACTED]"
