package api_test

import (
	"encoding/json"
	"testing"

	"crmsync/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestLoad_DocumentIsValid(t *testing.T) {
	doc, err := api.Load(t.Context())
	require.NoError(t, err)

	assert.NotNil(t, doc.Paths.Find("/sync-orders"))
	assert.NotNil(t, doc.Paths.Find("/sync-orders/{id}"))
	assert.NotNil(t, doc.Paths.Find("/statuses"))
	assert.Equal(t, "SyncUpdateOrderStatus", doc.Paths.Find("/sync-orders/{id}").Post.OperationID)
}

func TestRegisterSwagger(t *testing.T) {
	require.NoError(t, api.RegisterSwagger(t.Context()))

	body, err := swag.ReadDoc()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Equal(t, "3.0.3", decoded["openapi"])
}

func TestRegisterSwagger_Twice(t *testing.T) {
	require.NoError(t, api.RegisterSwagger(t.Context()))
	require.NoError(t, api.RegisterSwagger(t.Context()))
}
