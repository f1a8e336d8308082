package prompts_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/prompter/internal/adapters/memory"
	"github.com/JaimeStill/prompter/internal/prompts"
	"github.com/JaimeStill/prompter/pkg/middleware"
	"github.com/JaimeStill/prompter/pkg/pagination"
	"github.com/JaimeStill/prompter/pkg/routes"
)

type api struct {
	handler http.Handler
	store   *memory.Adapter
	changes int
}

func newAPI(t *testing.T, seed ...prompts.Record) *api {
	t.Helper()

	store := memory.New(seed...)
	logger := slog.New(slog.DiscardHandler)
	h := prompts.NewHandler(
		prompts.NewManager(store, logger),
		logger,
		pagination.Config{DefaultPageSize: 2, MaxPageSize: 10},
	)

	a := &api{store: store}
	h.OnChange(func(context.Context) { a.changes++ })

	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	a.handler = middleware.MaxBodySize(256)(mux)
	return a
}

func (a *api) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

var seeded = []prompts.Record{
	{ID: "a", Text: "Hello, [NAME]!", Parameters: prompts.Parameters{"[NAME]": "World"}},
	{ID: "b", Text: "hello [PLACE]"},
	{ID: "c", Text: "Hello again"},
}

func TestHandlerFind(t *testing.T) {
	a := newAPI(t, seeded...)

	rec := a.do(t, http.MethodGet, "/prompts/b", "")
	require.Equal(t, http.StatusOK, rec.Code)

	view := decode[prompts.View](t, rec)
	assert.Equal(t, "b", view.ID)
	assert.Equal(t, []string{"[PLACE]"}, view.Keywords)
	assert.Equal(t, []string{"[PLACE]"}, view.Missing)
	assert.Empty(t, view.Parameters)
}

func TestHandlerFindMissing(t *testing.T) {
	a := newAPI(t)
	rec := a.do(t, http.MethodGet, "/prompts/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerListPages(t *testing.T) {
	a := newAPI(t, seeded...)

	rec := a.do(t, http.MethodGet, "/prompts?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[pagination.PageResult[prompts.Record]](t, rec)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "c", page.Data[0].ID)
}

func TestHandlerListSearch(t *testing.T) {
	a := newAPI(t, seeded...)

	rec := a.do(t, http.MethodGet, "/prompts?search=Hello&page_size=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[pagination.PageResult[prompts.Record]](t, rec)
	ids := make([]string, 0, len(page.Data))
	for _, r := range page.Data {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "c"}, ids)
}

func TestHandlerSearchBody(t *testing.T) {
	a := newAPI(t, seeded...)

	rec := a.do(t, http.MethodPost, "/prompts/search", `{"query":"[PLACE]","page":1,"page_size":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[pagination.PageResult[prompts.Record]](t, rec)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "b", page.Data[0].ID)
	assert.Equal(t, 5, page.PageSize)
}

func TestHandlerSearchNoMatch(t *testing.T) {
	a := newAPI(t, seeded...)

	rec := a.do(t, http.MethodPost, "/prompts/search", `{"query":"absent"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[pagination.PageResult[prompts.Record]](t, rec)
	assert.Empty(t, page.Data)
	assert.NotNil(t, page.Data)
}

func TestHandlerCreate(t *testing.T) {
	a := newAPI(t)

	rec := a.do(t, http.MethodPost, "/prompts", `{"id":"new_prompt","text":"Hello, name!","parameters":{"name":"Rubyist"}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, a.changes)

	rec = a.do(t, http.MethodGet, "/prompts/new_prompt/render", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello, Rubyist!", decode[prompts.Rendered](t, rec).Text)
}

func TestHandlerCreateGeneratesID(t *testing.T) {
	a := newAPI(t)

	rec := a.do(t, http.MethodPost, "/prompts", `{"text":"anonymous"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	view := decode[prompts.View](t, rec)
	_, err := uuid.Parse(view.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, a.store.Len())
}

func TestHandlerCreateConflict(t *testing.T) {
	a := newAPI(t, seeded...)

	rec := a.do(t, http.MethodPost, "/prompts", `{"id":"a","text":"replacement"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Zero(t, a.changes)
}

func TestHandlerCreateBadBodies(t *testing.T) {
	a := newAPI(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{"text":`, http.StatusBadRequest},
		{"unknown field", `{"txt":"x"}`, http.StatusBadRequest},
		{"blank id", `{"id":"   ","text":"x"}`, http.StatusBadRequest},
		{"too large", `{"text":"` + strings.Repeat("x", 512) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, "/prompts", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestHandlerUpdate(t *testing.T) {
	a := newAPI(t, seeded...)

	rec := a.do(t, http.MethodPut, "/prompts/a", `{"parameters":{"[NAME]":"Gopher"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := a.store.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Hello, [NAME]!", stored.Text)
	assert.Equal(t, "Gopher", stored.Parameters["[NAME]"])

	rec = a.do(t, http.MethodPut, "/prompts/a", `{"text":"Bye, [NAME]."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bye, [NAME].", decode[prompts.View](t, rec).Text)
	assert.Equal(t, 2, a.changes)
}

func TestHandlerUpdateMissing(t *testing.T) {
	a := newAPI(t)
	rec := a.do(t, http.MethodPut, "/prompts/ghost", `{"text":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerDelete(t *testing.T) {
	a := newAPI(t, seeded...)

	rec := a.do(t, http.MethodDelete, "/prompts/a", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, a.changes)

	rec = a.do(t, http.MethodGet, "/prompts/a", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodDelete, "/prompts/a", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerRenderWithOverlay(t *testing.T) {
	a := newAPI(t, seeded...)

	rec := a.do(t, http.MethodPost, "/prompts/b/render", `{"parameters":{"[PLACE]":"Lisbon"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode[prompts.Rendered](t, rec)
	assert.Equal(t, "hello Lisbon", out.Text)
	assert.Empty(t, out.Missing)

	stored, err := a.store.Get(context.Background(), "b")
	require.NoError(t, err)
	assert.Empty(t, stored.Parameters, "render overlay must not be saved")
}

func TestRoutesAreDocumented(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	h := prompts.NewHandler(prompts.NewManager(memory.New(), logger), logger, pagination.Config{})

	g := h.Routes()
	for _, r := range g.Routes {
		assert.NotNil(t, r.OpenAPI, "%s %s has no OpenAPI operation", r.Method, r.Pattern)
	}
	assert.Contains(t, g.Schemas, "Prompt")
}

func TestHandlerListHugePage(t *testing.T) {
	a := newAPI(t, seeded...)

	rec := a.do(t, http.MethodGet, "/prompts?page=9223372036854775807", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[pagination.PageResult[prompts.Record]](t, rec).Data)

	rec = a.do(t, http.MethodPost, "/prompts/search", `{"query":"Hello","page":9223372036854775807}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[pagination.PageResult[prompts.Record]](t, rec).Data)
}
