package config

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// Source renders a configuration value as a plain map. Every
// config-bearing type implements it explicitly at construction time;
// nothing in the core inspects value shapes at use time.
type Source interface {
	ToMapping() (map[string]interface{}, error)
}

// MapSource adapts a plain map to the Source capability.
type MapSource map[string]interface{}

var _ Source = (MapSource)(nil)

// ToMapping returns a shallow copy of the map.
func (s MapSource) ToMapping() (map[string]interface{}, error) {
	m := make(map[string]interface{}, len(s))
	for k, v := range s {
		m[k] = v
	}
	return m, nil
}

// StructSource adapts a tagged struct to the Source capability through
// a JSON round trip, so json tags decide the mapping keys.
type StructSource struct {
	v interface{}
}

var _ Source = StructSource{}

// NewStructSource creates a Source from any json-tagged value.
func NewStructSource(v interface{}) StructSource {
	return StructSource{v: v}
}

// ToMapping renders the struct as a map.
func (s StructSource) ToMapping() (map[string]interface{}, error) {
	if s.v == nil {
		return nil, &util.ValidationError{Section: "config", Message: "nil config value", Cause: util.ErrNilValue}
	}

	data, err := sonic.ConfigStd.Marshal(s.v)
	if err != nil {
		return nil, &util.ValidationError{Section: "config", Message: fmt.Sprintf("marshal config: %v", err), Cause: err}
	}

	var m map[string]interface{}
	if err := sonic.ConfigStd.Unmarshal(data, &m); err != nil {
		return nil, &util.ValidationError{Section: "config", Message: fmt.Sprintf("config is not an object: %v", err), Cause: err}
	}
	return m, nil
}

// FileSource adapts a YAML or JSON file to the Source capability. YAML
// parsing accepts JSON documents, so one loader serves both.
type FileSource struct {
	path string
}

var _ Source = FileSource{}

// NewFileSource creates a Source reading the given file on each call.
func NewFileSource(path string) FileSource {
	return FileSource{path: path}
}

// Path returns the file path backing this source.
func (s FileSource) Path() string { return s.path }

// ToMapping reads and parses the file.
func (s FileSource) ToMapping() (map[string]interface{}, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &util.ValidationError{Section: "config", Message: fmt.Sprintf("read %s: %v", s.path, err), Cause: err}
	}

	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &util.ValidationError{Section: "config", Message: fmt.Sprintf("parse %s: %v", s.path, err), Cause: err}
	}
	return m, nil
}
