// Package avapibridge is the protocol and format translation core of an
// API gateway: protocol adapters between HTTP, WebSocket and GraphQL
// wire shapes, a serializer registry covering JSON, MessagePack, CBOR,
// YAML and Protobuf, schema validation and conversion for AsyncAPI and
// OpenAPI documents, and an ordered middleware pipeline that every
// request and response passes through.
//
// The host application owns routing, listeners, identity and
// persistence. This module owns the translation boundary between them:
//
//	registry := avapibridge.NewRegistry()
//	ws, err := avapibridge.NewWebSocketAdapter(registry)
//	if err != nil {
//		return err
//	}
//
//	p := avapibridge.NewPipeline()
//	p.Use(avapibridge.NewLoggingMiddleware(logger))
//
//	msg, err := ws.AdaptRequest(ctx, req)   // Request -> Message envelope
//	resp, err := ws.AdaptResponse(ctx, msg) // Message envelope -> Response
//
// Everything lives in internal packages; this package re-exports the
// public surface as type aliases and constructor bindings. Field is an
// alias of zap.Field, so zap's field constructors (zap.String,
// zap.Duration, ...) apply directly wherever a Logger is involved.
package avapibridge
