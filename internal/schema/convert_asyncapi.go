package schema

import (
	"strings"

	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// convertedAsyncAPIVersion is the version stamped on converted
// documents. The conversion emits the 3.x channel shape: address plus
// a named message map.
const convertedAsyncAPIVersion = "3.0.0"

// openAPIMethods are the OpenAPI operations considered by the
// converters, in emission order.
var openAPIMethods = []string{"get", "post", "put", "delete"}

// ConvertOpenAPIToAsyncAPI maps an OpenAPI document to an
// AsyncAPI-shaped one. Each path becomes a channel keyed by the path
// with slashes turned into underscores; each operation becomes a
// message named {method}_{channel} whose payload is the operation's
// application/json request body schema when present.
func ConvertOpenAPIToAsyncAPI(doc Document) (Document, error) {
	rawPaths, ok := doc["paths"]
	if !ok {
		return nil, util.NewValidationError("document", "missing required field 'paths'")
	}

	paths, ok := rawPaths.(map[string]interface{})
	if !ok {
		return nil, util.NewValidationError("paths", "must be an object")
	}

	channels := make(map[string]interface{}, len(paths))

	for path, rawItem := range paths {
		item, ok := rawItem.(map[string]interface{})
		if !ok {
			return nil, util.NewFieldValidationError("paths", path, "must be an object")
		}

		channelKey := ChannelKey(path)
		messages := make(map[string]interface{})

		for _, method := range openAPIMethods {
			op, ok := getMap(item, method)
			if !ok {
				continue
			}

			msg := map[string]interface{}{
				"name": method + "_" + channelKey,
			}
			if payload, ok := requestBodySchema(op); ok {
				msg["payload"] = payload
			}

			messages[method+"_"+channelKey] = msg
		}

		channels[channelKey] = map[string]interface{}{
			"address":  path,
			"messages": messages,
		}
	}

	return Document{
		"asyncapi": convertedAsyncAPIVersion,
		"info":     convertedInfo(doc),
		"channels": channels,
	}, nil
}

// ChannelKey derives the channel name for an HTTP path: slashes become
// underscores and leading/trailing underscores are stripped.
func ChannelKey(path string) string {
	return strings.Trim(strings.ReplaceAll(path, "/", "_"), "_")
}

// requestBodySchema extracts the application/json request body schema
// from an operation.
func requestBodySchema(op map[string]interface{}) (map[string]interface{}, bool) {
	body, ok := getMap(op, "requestBody")
	if !ok {
		return nil, false
	}
	content, ok := getMap(body, "content")
	if !ok {
		return nil, false
	}
	media, ok := getMap(content, "application/json")
	if !ok {
		return nil, false
	}
	return getMap(media, "schema")
}

// convertedInfo carries the source title and version over, with
// defaults when the source omits them.
func convertedInfo(doc Document) map[string]interface{} {
	title := "Converted API"
	version := "1.0.0"

	if info, ok := getMap(doc, "info"); ok {
		if t, ok := getString(info, "title"); ok && t != "" {
			title = t
		}
		if v, ok := getString(info, "version"); ok && v != "" {
			version = v
		}
	}

	return map[string]interface{}{
		"title":   title,
		"version": version,
	}
}
