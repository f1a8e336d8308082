package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/prompter/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")

	assert.Equal(t, "3.1.0", spec.OpenAPI)
	assert.Equal(t, "Test API", spec.Info.Title)
	assert.Equal(t, "1.0.0", spec.Info.Version)
	require.NotNil(t, spec.Components)
	assert.Contains(t, spec.Components.Schemas, "Error")
	assert.Contains(t, spec.Components.Responses, "NotFound")
	assert.NotNil(t, spec.Paths)
}

func TestAddOperation(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")

	get := &openapi.Operation{Summary: "get"}
	del := &openapi.Operation{Summary: "delete"}
	spec.AddOperation("/prompts/{id}", "GET", get)
	spec.AddOperation("/prompts/{id}", "delete", del)
	spec.AddOperation("/prompts/{id}", "PATCH", &openapi.Operation{})
	spec.AddOperation("", "GET", get)

	item := spec.Paths["/prompts/{id}"]
	require.NotNil(t, item)
	assert.Same(t, get, item.Get)
	assert.Same(t, del, item.Delete)
	assert.Nil(t, item.Post)
	assert.Contains(t, spec.Paths, "/")
}

func TestAddTag(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	spec.AddTag("Prompts", "first")
	spec.AddTag("Prompts", "second")

	require.Len(t, spec.Tags, 1)
	assert.Equal(t, "first", spec.Tags[0].Description)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "#/components/schemas/Prompt", openapi.SchemaRef("Prompt").Ref)
	assert.Equal(t, "#/components/responses/NotFound", openapi.ResponseRef("NotFound").Ref)

	rb := openapi.RequestBodyJSON("CreatePrompt", true)
	assert.True(t, rb.Required)
	assert.Equal(t, "#/components/schemas/CreatePrompt", rb.Content["application/json"].Schema.Ref)

	p := openapi.PathParam("id", "Prompt id")
	assert.Equal(t, "path", p.In)
	assert.True(t, p.Required)
	assert.Empty(t, p.Schema.Format)

	q := openapi.QueryParam("search", "string", "Search query", false)
	assert.Equal(t, "query", q.In)
	assert.False(t, q.Required)

	assert.Nil(t, openapi.NoContent("Deleted").Content)
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	spec.AddServer("/api")
	data, err := openapi.MarshalJSON(spec)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	assert.Equal(t, "3.1.0", parsed["openapi"])
}

func TestConfig(t *testing.T) {
	cfg := openapi.Config{}
	require.NoError(t, cfg.Finalize(nil))
	assert.Equal(t, "Prompter API", cfg.Title)
	assert.NotEmpty(t, cfg.Description)

	t.Setenv("TEST_OPENAPI_TITLE", "Env Title")
	cfg = openapi.Config{}
	require.NoError(t, cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE"}))
	assert.Equal(t, "Env Title", cfg.Title)

	t.Setenv("TEST_OPENAPI_TITLE", "  ")
	cfg = openapi.Config{}
	assert.Error(t, cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE"}))

	base := openapi.Config{Title: "Base", Description: "kept"}
	base.Merge(&openapi.Config{Title: "Overlay"})
	assert.Equal(t, "Overlay", base.Title)
	assert.Equal(t, "kept", base.Description)
}
