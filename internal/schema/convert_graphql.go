package schema

import (
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// graphQLTypes is the fixed OpenAPI-to-GraphQL property type table.
// Unknown and missing types fall back to String.
var graphQLTypes = map[string]string{
	"string":  "String",
	"integer": "Int",
	"number":  "Float",
	"boolean": "Boolean",
	"array":   "[String]",
	"object":  "JSON",
}

// ConvertOpenAPIToGraphQL renders an OpenAPI document as GraphQL SDL.
// Object schemas under components.schemas become type blocks; GET
// operations become Query fields, POST/PUT/DELETE become Mutation
// fields named by operationId or by the path with slashes turned into
// underscores.
func ConvertOpenAPIToGraphQL(doc Document) (string, error) {
	var b strings.Builder

	// The object property mapping targets a JSON scalar, so it is
	// always declared.
	b.WriteString("scalar JSON\n")

	if err := writeTypeBlocks(&b, doc); err != nil {
		return "", err
	}

	queries, mutations, err := operationFields(doc)
	if err != nil {
		return "", err
	}

	writeOperationBlock(&b, "Query", queries)
	writeOperationBlock(&b, "Mutation", mutations)

	return b.String(), nil
}

// VerifySDL parses and validates generated SDL.
func VerifySDL(sdl string) error {
	_, err := gqlparser.LoadSchema(&ast.Source{
		Name:  "generated.graphql",
		Input: sdl,
	})
	if err != nil {
		return &util.ValidationError{
			Section: "sdl",
			Message: err.Error(),
			Cause:   err,
		}
	}
	return nil
}

// writeTypeBlocks renders components.schemas object types. Schemas
// without properties produce no block, since an empty type is not
// valid SDL.
func writeTypeBlocks(b *strings.Builder, doc Document) error {
	components, ok := getMap(doc, "components")
	if !ok {
		return nil
	}
	schemas, ok := getMap(components, "schemas")
	if !ok {
		return nil
	}

	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def, ok := schemas[name].(map[string]interface{})
		if !ok {
			return util.NewFieldValidationError("components.schemas", name, "must be an object")
		}

		properties, ok := getMap(def, "properties")
		if !ok || len(properties) == 0 {
			continue
		}
		if t, ok := getString(def, "type"); ok && t != "object" {
			continue
		}

		propNames := make([]string, 0, len(properties))
		for prop := range properties {
			propNames = append(propNames, prop)
		}
		sort.Strings(propNames)

		b.WriteString("\ntype " + name + " {\n")
		for _, prop := range propNames {
			b.WriteString("  " + prop + ": " + propertyType(properties[prop]) + "\n")
		}
		b.WriteString("}\n")
	}

	return nil
}

// propertyType maps an OpenAPI property definition to a GraphQL type.
func propertyType(raw interface{}) string {
	def, ok := raw.(map[string]interface{})
	if !ok {
		return "String"
	}
	t, ok := getString(def, "type")
	if !ok {
		return "String"
	}
	if gqlType, ok := graphQLTypes[t]; ok {
		return gqlType
	}
	return "String"
}

// operationFields collects Query and Mutation field names from the
// paths section.
func operationFields(doc Document) (queries, mutations []string, err error) {
	rawPaths, ok := doc["paths"]
	if !ok {
		return nil, nil, nil
	}

	paths, ok := rawPaths.(map[string]interface{})
	if !ok {
		return nil, nil, util.NewValidationError("paths", "must be an object")
	}

	pathKeys := make([]string, 0, len(paths))
	for path := range paths {
		pathKeys = append(pathKeys, path)
	}
	sort.Strings(pathKeys)

	for _, path := range pathKeys {
		item, ok := paths[path].(map[string]interface{})
		if !ok {
			return nil, nil, util.NewFieldValidationError("paths", path, "must be an object")
		}

		for _, method := range openAPIMethods {
			op, ok := getMap(item, method)
			if !ok {
				continue
			}

			field := fieldName(op, path)
			if method == "get" {
				queries = append(queries, field)
			} else {
				mutations = append(mutations, field)
			}
		}
	}

	return queries, mutations, nil
}

// fieldName prefers the operationId and falls back to the path with
// slashes turned into underscores.
func fieldName(op map[string]interface{}, path string) string {
	if id, ok := getString(op, "operationId"); ok && id != "" {
		return id
	}
	return strings.ReplaceAll(path, "/", "_")
}

// writeOperationBlock renders a root type block; empty blocks are
// skipped.
func writeOperationBlock(b *strings.Builder, typeName string, fields []string) {
	if len(fields) == 0 {
		return
	}

	b.WriteString("\ntype " + typeName + " {\n")
	for _, f := range fields {
		b.WriteString("  " + f + ": String\n")
	}
	b.WriteString("}\n")
}
