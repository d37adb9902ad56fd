package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// orderPayloadSchema requires an item string and a positive quantity.
func orderPayloadSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"item", "quantity"},
		"properties": map[string]interface{}{
			"item":     map[string]interface{}{"type": "string"},
			"quantity": map[string]interface{}{"type": "integer", "minimum": 1},
		},
	}
}

func TestPayloadValidatorValid(t *testing.T) {
	t.Parallel()

	v, err := NewPayloadValidator(orderPayloadSchema())
	require.NoError(t, err)

	err = v.Validate(map[string]interface{}{
		"item":     "widget",
		"quantity": 3,
	})
	assert.NoError(t, err)

	assert.NoError(t, v.ValidateBytes([]byte(`{"item":"widget","quantity":3}`)))
}

func TestPayloadValidatorViolations(t *testing.T) {
	t.Parallel()

	v, err := NewPayloadValidator(orderPayloadSchema())
	require.NoError(t, err)

	err = v.Validate(map[string]interface{}{
		"quantity": 0,
	})
	require.Error(t, err)
	assert.True(t, util.IsValidation(err))

	// Both the missing item and the non-positive quantity surface in
	// one message.
	assert.Contains(t, err.Error(), "item")
	assert.Contains(t, err.Error(), "quantity")
}

func TestPayloadValidatorWrongType(t *testing.T) {
	t.Parallel()

	v, err := NewPayloadValidator(orderPayloadSchema())
	require.NoError(t, err)

	err = v.ValidateBytes([]byte(`{"item": 42, "quantity": "three"}`))
	require.Error(t, err)
	assert.True(t, util.IsValidation(err))
}

func TestNewPayloadValidatorErrors(t *testing.T) {
	t.Parallel()

	v, err := NewPayloadValidator(nil)
	assert.Error(t, err)
	assert.Nil(t, v)
}

func TestExtractPayloadSchema(t *testing.T) {
	t.Parallel()

	doc2 := Document{
		"channels": map[string]interface{}{
			"orders": map[string]interface{}{
				"publish": map[string]interface{}{
					"message": map[string]interface{}{
						"payload": map[string]interface{}{"type": "object"},
					},
				},
			},
		},
	}

	payload, ok := ExtractPayloadSchema(doc2, "orders", "publish")
	require.True(t, ok)
	assert.Equal(t, "object", payload["type"])

	doc3 := Document{
		"channels": map[string]interface{}{
			"orders": map[string]interface{}{
				"address": "/orders",
				"messages": map[string]interface{}{
					"post_orders": map[string]interface{}{
						"payload": map[string]interface{}{"type": "object"},
					},
				},
			},
		},
	}

	payload, ok = ExtractPayloadSchema(doc3, "orders", "post_orders")
	require.True(t, ok)
	assert.Equal(t, "object", payload["type"])

	_, ok = ExtractPayloadSchema(doc2, "missing", "publish")
	assert.False(t, ok)

	_, ok = ExtractPayloadSchema(doc2, "orders", "subscribe")
	assert.False(t, ok)
}

func TestExtractedSchemaValidatesPayloads(t *testing.T) {
	t.Parallel()

	doc := Document{
		"channels": map[string]interface{}{
			"orders": map[string]interface{}{
				"publish": map[string]interface{}{
					"message": map[string]interface{}{
						"payload": orderPayloadSchema(),
					},
				},
			},
		},
	}

	payloadSchema, ok := ExtractPayloadSchema(doc, "orders", "publish")
	require.True(t, ok)

	v, err := NewPayloadValidator(payloadSchema)
	require.NoError(t, err)

	assert.NoError(t, v.ValidateBytes([]byte(`{"item":"widget","quantity":1}`)))
	assert.Error(t, v.ValidateBytes([]byte(`{"item":"widget"}`)))
}
