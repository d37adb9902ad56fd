// Package schema validates and converts API schema documents.
//
// # Validation
//
// The AsyncAPI validator runs a single pass over a parsed document and
// returns the first rule violation it finds. Strict mode additionally
// enforces the protocol and component allow-lists and, for AsyncAPI
// 3.x, per-channel addresses:
//
//	doc, err := schema.Load(data)
//	if err != nil { ... }
//	result, err := schema.NewValidator(nil, logger).ValidateAsyncAPI(doc)
//
// # Conversion
//
// OpenAPI documents convert into an AsyncAPI-shaped document
// (ConvertOpenAPIToAsyncAPI) or into GraphQL SDL
// (ConvertOpenAPIToGraphQL). Generated SDL can be verified with
// VerifySDL before it is served.
//
// # Payload Contracts
//
// PayloadValidator checks concrete message payloads against an
// extracted JSON schema. It reports every violation in one failure.
//
// # Hot Reload
//
// Watcher re-validates a schema document whenever the file changes on
// disk, debouncing rapid write bursts.
package schema
