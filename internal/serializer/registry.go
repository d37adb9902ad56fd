package serializer

import (
	"sort"
	"sync"

	"github.com/vyrodovalexey/avapibridge/internal/observability"
	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// Registry maps format identifiers to serializers and content types to
// formats. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	logger   observability.Logger
	byFormat map[string]Serializer
	byType   map[string]string
}

// RegistryOption is a functional option for configuring the registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger for the registry.
func WithLogger(logger observability.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a registry with the JSON, MessagePack, and CBOR
// serializers pre-registered. JSON is the default format and can only
// be overwritten, never removed.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		logger:   observability.NopLogger(),
		byFormat: make(map[string]Serializer),
		byType:   make(map[string]string),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.Register(FormatJSON, NewJSON())
	r.Register(FormatMessagePack, NewMessagePack())
	r.Register(FormatCBOR, NewCBOR())

	return r
}

// Register stores or overwrites the serializer bound to a format.
// Overwriting is an intentional capability, logged rather than
// rejected.
func (r *Registry) Register(format string, s Serializer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if previous, exists := r.byFormat[format]; exists {
		r.logger.Info("serializer overwritten",
			observability.String("format", format),
			observability.String("previous_content_type", previous.ContentType()),
			observability.String("content_type", s.ContentType()),
		)
		for ct, f := range r.byType {
			if f == format {
				delete(r.byType, ct)
			}
		}
	} else {
		r.logger.Debug("serializer registered",
			observability.String("format", format),
			observability.String("content_type", s.ContentType()),
		)
	}

	r.byFormat[format] = s
	if ct := NormalizeContentType(s.ContentType()); ct != "" {
		r.byType[ct] = format
	}
}

// Unregister removes a format binding. The default JSON serializer can
// be overwritten but never removed, so the registry always has a usable
// format.
func (r *Registry) Unregister(format string) error {
	if format == FormatJSON {
		return util.NewFieldValidationError("registry", "format",
			"the default json serializer cannot be removed, only overwritten")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byFormat[format]; !exists {
		return util.NewFormatNotRegisteredError(format)
	}

	delete(r.byFormat, format)
	for ct, f := range r.byType {
		if f == format {
			delete(r.byType, ct)
		}
	}
	return nil
}

// Get returns the serializer bound to a format.
func (r *Registry) Get(format string) (Serializer, error) {
	if format == "" {
		format = DefaultFormat
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.byFormat[format]
	if !exists {
		return nil, util.NewFormatNotRegisteredError(format)
	}
	return s, nil
}

// GetByContentType returns the serializer whose content type matches.
// A "; charset=..." suffix is tolerated and stripped before lookup.
func (r *Registry) GetByContentType(contentType string) (Serializer, error) {
	ct := NormalizeContentType(contentType)

	r.mu.RLock()
	defer r.mu.RUnlock()

	format, exists := r.byType[ct]
	if !exists {
		return nil, util.NewContentTypeNotRegisteredError(contentType)
	}
	return r.byFormat[format], nil
}

// Serialize encodes a value with the serializer bound to the format.
// An empty format selects the default JSON serializer.
func (r *Registry) Serialize(v interface{}, format string) ([]byte, error) {
	s, err := r.Get(format)
	if err != nil {
		return nil, err
	}
	return s.Encode(v)
}

// Deserialize decodes bytes with the serializer bound to the format and
// returns the resulting JSON-like value.
func (r *Registry) Deserialize(data []byte, format string) (interface{}, error) {
	s, err := r.Get(format)
	if err != nil {
		return nil, err
	}

	var v interface{}
	if err := s.Decode(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// DeserializeInto decodes bytes into a caller-supplied value.
func (r *Registry) DeserializeInto(data []byte, v interface{}, format string) error {
	s, err := r.Get(format)
	if err != nil {
		return err
	}
	return s.Decode(data, v)
}

// Formats returns the sorted list of registered format identifiers.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.byFormat))
	for f := range r.byFormat {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// ContentTypes returns the sorted list of registered content types.
func (r *Registry) ContentTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.byType))
	for ct := range r.byType {
		types = append(types, ct)
	}
	sort.Strings(types)
	return types
}
