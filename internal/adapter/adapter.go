// Package adapter translates requests and responses between protocol
// wire shapes: plain HTTP, WebSocket envelope frames, GraphQL
// operations, and a legacy convention with its own header, key, and
// status-code rules.
//
// Adapters are synchronous, stateless-per-call transformers. Payload
// bodies move through a serializer.Registry keyed by declared content
// type, so every adapter speaks whatever formats the registry carries.
// The only component here that performs I/O is the RemoteExecutor,
// which runs each remote call as one fallible unit of work behind a
// circuit breaker.
package adapter

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// adapterTracer is the OTEL tracer used for adapter operations.
var adapterTracer = otel.Tracer("avapibridge/adapter")

// Adapter names recorded in errors and span attributes.
const (
	adapterWebSocket = "websocket"
	adapterGraphQL   = "graphql"
	adapterLegacy    = "legacy"
)

// Header names used by the adapters.
const (
	// HeaderContentType identifies the body serialization format.
	HeaderContentType = "Content-Type"

	// HeaderAccept declares the accepted response format.
	HeaderAccept = "Accept"

	// HeaderAuthorization is the standard authorization header.
	HeaderAuthorization = "Authorization"

	// HeaderAPIKey is the credential header understood by legacy
	// systems.
	HeaderAPIKey = "X-API-Key"
)

// startSpan opens an internal span for one adapter operation.
func startSpan(ctx context.Context, adapter, operation string) (context.Context, trace.Span) {
	return adapterTracer.Start(ctx, "adapter."+adapter+"."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("adapter.name", adapter),
			attribute.String("adapter.operation", operation),
		),
	)
}
