// # Error Conventions
//
// This project follows a standardized error pattern across all packages:
//
//   - Sentinel errors (errors.New) for well-known, stable conditions
//     that callers check with errors.Is(). Example: ErrShortCircuit.
//   - Structured error types for context-rich errors that carry
//     additional fields (e.g., ValidationError, AdaptationError). Each
//     type implements Error(), Unwrap() (if wrapping), and Is().
//   - fmt.Errorf with %w for ad-hoc wrapping that adds context to an
//     existing error without introducing a new type.
//
// All failures cross the core's boundary as returned errors; nothing in
// this module panics on malformed input.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors.
var (
	ErrFormatNotRegistered = errors.New("format not registered")
	ErrCodecNotInstalled   = errors.New("codec not installed")
	ErrShortCircuit        = errors.New("pipeline short circuit")
	ErrMiddlewareNotFound  = errors.New("middleware not found")
	ErrRateLimited         = errors.New("rate limit exceeded")
	ErrInvalidStatusCode   = errors.New("status code out of range")
	ErrNilValue            = errors.New("nil value")
)

// Pipeline stages recorded in PipelineError.
const (
	StageRequest  = "request"
	StageResponse = "response"
	StageError    = "error"
)

// ValidationError represents a schema or document validation failure.
// It always names the failing section or field.
type ValidationError struct {
	Section string
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.Section != "" && e.Field != "":
		return fmt.Sprintf("validation error in %s.%s: %s", e.Section, e.Field, e.Message)
	case e.Section != "":
		return fmt.Sprintf("validation error in %s: %s", e.Section, e.Message)
	case e.Field != "":
		return fmt.Sprintf("validation error at %s: %s", e.Field, e.Message)
	default:
		return fmt.Sprintf("validation error: %s", e.Message)
	}
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok || errors.Is(e.Cause, target)
}

// NewValidationError creates a new ValidationError for a section.
func NewValidationError(section, message string) *ValidationError {
	return &ValidationError{Section: section, Message: message}
}

// NewFieldValidationError creates a new ValidationError for a field
// within a section.
func NewFieldValidationError(section, field, message string) *ValidationError {
	return &ValidationError{Section: section, Field: field, Message: message}
}

// AdaptationError represents a protocol or format adaptation failure.
// Messages carries the upstream error messages that caused it.
type AdaptationError struct {
	Adapter  string
	Messages []string
	Cause    error
}

// Error implements the error interface.
func (e *AdaptationError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("adaptation error in %s adapter", e.Adapter)
	}
	return fmt.Sprintf("adaptation error in %s adapter: %s", e.Adapter, strings.Join(e.Messages, ", "))
}

// Unwrap returns the underlying error.
func (e *AdaptationError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *AdaptationError) Is(target error) bool {
	_, ok := target.(*AdaptationError)
	return ok || errors.Is(e.Cause, target)
}

// NewAdaptationError creates a new AdaptationError from upstream messages.
func NewAdaptationError(adapter string, messages ...string) *AdaptationError {
	return &AdaptationError{Adapter: adapter, Messages: messages}
}

// NewAdaptationErrorWithCause creates a new AdaptationError wrapping a cause.
func NewAdaptationErrorWithCause(adapter string, cause error) *AdaptationError {
	msgs := []string{}
	if cause != nil {
		msgs = append(msgs, cause.Error())
	}
	return &AdaptationError{Adapter: adapter, Messages: msgs, Cause: cause}
}

// FormatError represents an unsupported serialization format. The Reason
// sentinel distinguishes a format nobody registered from a registered
// format whose codec library is not installed.
type FormatError struct {
	Format      string
	ContentType string
	Codec       string
	Reason      error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if errors.Is(e.Reason, ErrCodecNotInstalled) {
		codec := e.Codec
		if codec == "" {
			codec = e.Format
		}
		return fmt.Sprintf("%s not installed", codec)
	}
	if e.ContentType != "" {
		return fmt.Sprintf("No serializer registered for content type %q", e.ContentType)
	}
	return fmt.Sprintf("No serializer registered for format %q", e.Format)
}

// Unwrap returns the reason sentinel.
func (e *FormatError) Unwrap() error {
	return e.Reason
}

// Is checks if the error matches the target.
func (e *FormatError) Is(target error) bool {
	_, ok := target.(*FormatError)
	return ok || errors.Is(e.Reason, target)
}

// NewFormatNotRegisteredError creates a FormatError for an unknown format id.
func NewFormatNotRegisteredError(format string) *FormatError {
	return &FormatError{Format: format, Reason: ErrFormatNotRegistered}
}

// NewContentTypeNotRegisteredError creates a FormatError for an unknown
// content type.
func NewContentTypeNotRegisteredError(contentType string) *FormatError {
	return &FormatError{ContentType: contentType, Reason: ErrFormatNotRegistered}
}

// NewCodecNotInstalledError creates a FormatError for a format whose codec
// library is unavailable.
func NewCodecNotInstalledError(format, codec string) *FormatError {
	return &FormatError{Format: format, Codec: codec, Reason: ErrCodecNotInstalled}
}

// PipelineError represents a middleware hook failure. Stage records which
// traversal failed; the wrapped error is preserved verbatim.
type PipelineError struct {
	Middleware string
	Stage      string
	Err        error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	return fmt.Sprintf("middleware %q failed during %s: %v", e.Middleware, e.Stage, e.Err)
}

// Unwrap returns the wrapped middleware error.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target. A request-stage failure
// matches ErrShortCircuit.
func (e *PipelineError) Is(target error) bool {
	if _, ok := target.(*PipelineError); ok {
		return true
	}
	if errors.Is(target, ErrShortCircuit) {
		return e.Stage == StageRequest
	}
	return errors.Is(e.Err, target)
}

// NewPipelineError creates a new PipelineError.
func NewPipelineError(middleware, stage string, err error) *PipelineError {
	return &PipelineError{Middleware: middleware, Stage: stage, Err: err}
}

// NewMiddlewareNotFoundError reports a removal naming an unknown middleware.
func NewMiddlewareNotFoundError(name string) error {
	return fmt.Errorf("%w: %q", ErrMiddlewareNotFound, name)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsAdaptation reports whether err is an AdaptationError.
func IsAdaptation(err error) bool {
	var ae *AdaptationError
	return errors.As(err, &ae)
}

// IsUnsupportedFormat reports whether err is a FormatError.
func IsUnsupportedFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsShortCircuit reports whether err is a request-stage pipeline failure.
func IsShortCircuit(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Stage == StageRequest
	}
	return errors.Is(err, ErrShortCircuit)
}

// IsClientError reports whether the status code is in the 4xx range.
func IsClientError(statusCode int) bool {
	return statusCode >= 400 && statusCode < 500
}

// IsServerError reports whether the status code is in the 5xx range.
func IsServerError(statusCode int) bool {
	return statusCode >= 500 && statusCode < 600
}

// IsErrorStatus reports whether the status code is in an error range.
func IsErrorStatus(statusCode int) bool {
	return statusCode >= 400 && statusCode < 600
}

// ValidStatusCode reports whether the status code is inside the valid
// HTTP range accepted by responses.
func ValidStatusCode(statusCode int) bool {
	return statusCode >= 100 && statusCode <= 599
}
