package schema

import (
	"bytes"
	"os"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// Document is a parsed schema document. Both JSON and YAML sources
// decode into the same shape: nested string-keyed maps.
type Document map[string]interface{}

// Load parses a document, sniffing the format: input starting with
// "{" or "[" is JSON, everything else YAML.
func Load(data []byte) (Document, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return LoadJSON(data)
	}
	return LoadYAML(data)
}

// LoadJSON parses a JSON document.
func LoadJSON(data []byte) (Document, error) {
	var doc Document
	if err := sonic.ConfigStd.Unmarshal(data, &doc); err != nil {
		return nil, &util.ValidationError{
			Section: "document",
			Message: "malformed JSON: " + err.Error(),
			Cause:   err,
		}
	}
	return doc, nil
}

// LoadYAML parses a YAML document.
func LoadYAML(data []byte) (Document, error) {
	// Decode into an unnamed map: yaml.v3 reuses the target map type for
	// nested mappings, and a named target would make nested values
	// schema.Document instead of the plain string-keyed maps the
	// Document contract promises.
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &util.ValidationError{
			Section: "document",
			Message: "malformed YAML: " + err.Error(),
			Cause:   err,
		}
	}
	return Document(doc), nil
}

// LoadFile reads and parses a document from disk.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// getMap returns the map value under key.
func getMap(m map[string]interface{}, key string) (map[string]interface{}, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	mv, ok := v.(map[string]interface{})
	return mv, ok
}

// getString returns the string value under key.
func getString(m map[string]interface{}, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
