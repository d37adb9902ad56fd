package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avapibridge/internal/util"
)

func TestConvertOpenAPIToGraphQL(t *testing.T) {
	t.Parallel()

	doc := Document{
		"paths": map[string]interface{}{
			"/orders": map[string]interface{}{
				"get":  map[string]interface{}{"operationId": "listOrders"},
				"post": map[string]interface{}{"operationId": "createOrder"},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{},
			},
		},
		"components": map[string]interface{}{
			"schemas": map[string]interface{}{
				"Order": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"id":       map[string]interface{}{"type": "integer"},
						"item":     map[string]interface{}{"type": "string"},
						"price":    map[string]interface{}{"type": "number"},
						"paid":     map[string]interface{}{"type": "boolean"},
						"tags":     map[string]interface{}{"type": "array"},
						"metadata": map[string]interface{}{"type": "object"},
						"custom":   map[string]interface{}{"type": "uuid"},
					},
				},
			},
		},
	}

	sdl, err := ConvertOpenAPIToGraphQL(doc)
	require.NoError(t, err)

	assert.Contains(t, sdl, "scalar JSON")

	assert.Contains(t, sdl, "type Order {")
	assert.Contains(t, sdl, "id: Int")
	assert.Contains(t, sdl, "item: String")
	assert.Contains(t, sdl, "price: Float")
	assert.Contains(t, sdl, "paid: Boolean")
	assert.Contains(t, sdl, "tags: [String]")
	assert.Contains(t, sdl, "metadata: JSON")
	assert.Contains(t, sdl, "custom: String", "unknown types fall back to String")

	assert.Contains(t, sdl, "type Query {")
	assert.Contains(t, sdl, "listOrders: String")
	assert.Contains(t, sdl, "_health: String", "path fallback replaces slashes")

	assert.Contains(t, sdl, "type Mutation {")
	assert.Contains(t, sdl, "createOrder: String")

	assert.NoError(t, VerifySDL(sdl), "generated SDL parses")
}

func TestConvertOpenAPIToGraphQLMethodSplit(t *testing.T) {
	t.Parallel()

	doc := Document{
		"paths": map[string]interface{}{
			"/things": map[string]interface{}{
				"put":    map[string]interface{}{"operationId": "replaceThing"},
				"delete": map[string]interface{}{"operationId": "deleteThing"},
			},
		},
	}

	sdl, err := ConvertOpenAPIToGraphQL(doc)
	require.NoError(t, err)

	assert.NotContains(t, sdl, "type Query {", "no GET operations means no Query block")
	assert.Contains(t, sdl, "type Mutation {")
	assert.Contains(t, sdl, "replaceThing: String")
	assert.Contains(t, sdl, "deleteThing: String")

	assert.NoError(t, VerifySDL(sdl))
}

func TestConvertOpenAPIToGraphQLSkipsNonObjectSchemas(t *testing.T) {
	t.Parallel()

	doc := Document{
		"components": map[string]interface{}{
			"schemas": map[string]interface{}{
				"Status": map[string]interface{}{
					"type": "string",
					"properties": map[string]interface{}{
						"ignored": map[string]interface{}{"type": "string"},
					},
				},
				"Empty": map[string]interface{}{
					"type": "object",
				},
			},
		},
	}

	sdl, err := ConvertOpenAPIToGraphQL(doc)
	require.NoError(t, err)

	assert.NotContains(t, sdl, "type Status")
	assert.NotContains(t, sdl, "type Empty", "object without properties has no block")
	assert.NoError(t, VerifySDL(sdl))
}

func TestConvertOpenAPIToGraphQLWithoutPaths(t *testing.T) {
	t.Parallel()

	sdl, err := ConvertOpenAPIToGraphQL(Document{})
	require.NoError(t, err)

	assert.Contains(t, sdl, "scalar JSON")
	assert.NoError(t, VerifySDL(sdl))
}

func TestVerifySDL(t *testing.T) {
	t.Parallel()

	assert.NoError(t, VerifySDL("type Query {\n  ping: String\n}\n"))

	err := VerifySDL("type Query {\n  broken: Undeclared\n}\n")
	require.Error(t, err)
	assert.True(t, util.IsValidation(err))

	err = VerifySDL("type Query {")
	assert.Error(t, err)
}
