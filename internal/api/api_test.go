package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/prompter/internal/adapters/memory"
	"github.com/JaimeStill/prompter/internal/api"
	"github.com/JaimeStill/prompter/internal/config"
	"github.com/JaimeStill/prompter/internal/infrastructure"
	"github.com/JaimeStill/prompter/internal/prompts"
)

func newModule(t *testing.T, onChange ...func(context.Context)) http.Handler {
	t.Helper()

	cfg := &config.Config{Adapter: config.AdapterConfig{Kind: config.AdapterMemory}}
	cfg.API.MaxBodySize = "64B"
	require.NoError(t, cfg.Finalize())

	infra, err := infrastructure.NewWithOutput(cfg, io.Discard)
	require.NoError(t, err)

	manager := prompts.NewManager(memory.New(prompts.Record{ID: "hello", Text: "Hello, [NAME]!"}), infra.Logger)
	m := api.NewModule(cfg, infra, manager, onChange...)
	assert.Equal(t, "/api", m.Prefix())

	return http.HandlerFunc(m.Serve)
}

func TestModuleServesPrompts(t *testing.T) {
	h := newModule(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/prompts/hello", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"keywords":["[NAME]"]`)
}

func TestModuleRunsChangeHooks(t *testing.T) {
	var calls int
	h := newModule(t, func(context.Context) { calls++ })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/prompts/hello", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestModuleCapsBodySize(t *testing.T) {
	h := newModule(t)

	body := `{"text":"` + strings.Repeat("x", 100) + `"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/prompts", strings.NewReader(body)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestModuleServesOpenAPI(t *testing.T) {
	h := newModule(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
		Paths      map[string]map[string]any `json:"paths"`
		Components struct {
			Schemas map[string]any `json:"schemas"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))

	assert.Equal(t, "Prompter API", doc.Info.Title)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "/api", doc.Servers[0].URL)

	assert.Contains(t, doc.Paths["/prompts"], "get")
	assert.Contains(t, doc.Paths["/prompts"], "post")
	assert.Contains(t, doc.Paths["/prompts/{id}"], "delete")
	assert.Contains(t, doc.Paths["/prompts/{id}/render"], "post")
	assert.Contains(t, doc.Components.Schemas, "Prompt")
	assert.Contains(t, doc.Components.Schemas, "Error")
}
