// Package serializer provides format-agnostic payload encoding with
// content-type based lookup.
//
// A Registry maps format identifiers (json, msgpack, cbor, ...) to
// Serializer implementations. Registration always succeeds; registering
// a format twice overwrites the previous binding and logs the
// replacement. A JSON serializer is always present and cannot be
// unregistered, so the registry is never left without a usable format.
//
// Formats whose codec library is not shipped can be soft-registered
// with NewUnavailable: their content type stays introspectable while
// Encode and Decode report that the codec is not installed, which is a
// different failure than an unregistered format.
//
//	registry := serializer.NewRegistry()
//	data, err := registry.Serialize(value, serializer.FormatCBOR)
//	s, err := registry.GetByContentType("application/json; charset=utf-8")
package serializer
