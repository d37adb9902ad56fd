// Package util provides shared utilities and error types for the
// translation core.
//
// This package contains the error taxonomy used across all bridge
// packages, identifier case conversion helpers, and status code
// classification functions.
//
// # Error Types
//
// Structured error types for consistent error handling:
//
//   - ValidationError: schema or document structural failures
//   - AdaptationError: protocol/format adaptation failures
//   - FormatError: unsupported serialization formats
//   - PipelineError: middleware chain failures
//   - Common sentinel errors: ErrFormatNotRegistered, ErrShortCircuit, etc.
//
// # Case Conversion
//
// Identifier conversion between naming conventions:
//
//	util.CamelToSnake("userId")  // "user_id"
//	util.SnakeToCamel("user_id") // "userId"
package util
