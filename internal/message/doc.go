// Package message defines the request, response, and envelope types that
// flow through the translation core.
//
// Request and Response are immutable once built; derived copies are
// created with the With* methods. The one mutable region is the request
// extension bag, a per-call scratch space shared by all derived copies
// so middleware can attach metadata (request ID, start time) on the way
// in and read it back on the way out.
//
// Message is the wire envelope used while adapting between HTTP and
// WebSocket shapes: a type discriminator, a correlation ID, and an
// arbitrary JSON-like payload. It carries struct tags for every codec
// the serializer registry ships.
package message
