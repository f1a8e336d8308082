package prompts

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/prompter/pkg/handlers"
	"github.com/JaimeStill/prompter/pkg/pagination"
	"github.com/JaimeStill/prompter/pkg/routes"
)

// View is the JSON representation of a prompt returned by the API.
type View struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Parameters Parameters `json:"parameters"`
	Keywords   []string   `json:"keywords"`
	Missing    []string   `json:"missing"`
}

// NewView builds the API representation of p.
func NewView(p *Prompt) View {
	return View{
		ID:         p.ID(),
		Text:       p.Text(),
		Parameters: p.Parameters(),
		Keywords:   p.Keywords(),
		Missing:    p.Missing(),
	}
}

// Rendered is the response body of the render endpoints.
type Rendered struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Missing []string `json:"missing"`
}

// CreateCommand is the request body for creating a prompt.
// A blank ID is replaced with a generated UUID.
type CreateCommand struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Parameters Parameters `json:"parameters"`
}

// UpdateCommand is the request body for updating a prompt.
// Nil fields keep their stored values.
type UpdateCommand struct {
	Text       *string    `json:"text"`
	Parameters Parameters `json:"parameters"`
}

// RenderCommand overlays parameters onto the stored ones for a single render.
type RenderCommand struct {
	Parameters Parameters `json:"parameters"`
}

// SearchRequest combines pagination with the literal search query.
type SearchRequest struct {
	pagination.PageRequest
	Query string `json:"query"`
}

// Handler provides HTTP endpoints for prompt operations.
type Handler struct {
	manager    *Manager
	logger     *slog.Logger
	pagination pagination.Config
	changed    []func(context.Context)
}

// NewHandler creates a Handler over manager.
func NewHandler(
	manager *Manager,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		manager:    manager,
		logger:     logger.With("handler", "prompts"),
		pagination: pagination,
	}
}

// OnChange registers fn to run after a prompt is created, updated, or deleted.
func (h *Handler) OnChange(fn func(context.Context)) {
	h.changed = append(h.changed, fn)
}

// Routes returns the route group definition for prompt endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/prompts",
		Tag:     spec.Tag,
		Schemas: spec.Schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: spec.List},
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: spec.Create},
			{Method: "POST", Pattern: "/search", Handler: h.Search, OpenAPI: spec.Search},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: spec.Find},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update, OpenAPI: spec.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: spec.Delete},
			{Method: "GET", Pattern: "/{id}/render", Handler: h.Render, OpenAPI: spec.Render},
			{Method: "POST", Pattern: "/{id}/render", Handler: h.RenderWith, OpenAPI: spec.RenderWith},
		},
	}
}

// List returns a page of prompts ordered by id. A search query parameter
// restricts the result to texts containing it.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	h.respondPage(w, r, page, page.SearchTerm())
}

// Search accepts a JSON body with pagination and a query and returns matching prompts.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req, status, err := handlers.DecodeJSON[SearchRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, status, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)
	h.respondPage(w, r, req.PageRequest, req.Query)
}

// Find returns a single prompt with its keywords and missing parameters.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	p, err := h.manager.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, NewView(p))
}

// Create stores a new prompt. An id that is already stored is a conflict.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cmd, status, err := handlers.DecodeJSON[CreateCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, status, err)
		return
	}

	if cmd.ID == "" {
		cmd.ID = uuid.NewString()
	} else if err := h.ensureAbsent(r.Context(), cmd.ID); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	p, err := h.manager.Create(r.Context(), cmd.ID, cmd.Text, cmd.Parameters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.notify(r.Context())
	handlers.RespondJSON(w, http.StatusCreated, NewView(p))
}

// Update replaces the text and/or parameters of a stored prompt.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	cmd, status, err := handlers.DecodeJSON[UpdateCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, status, err)
		return
	}

	p, err := h.manager.Open(r.Context(), r.PathValue("id"))
	if err == nil && cmd.Text != nil {
		p, err = p.WithText(*cmd.Text)
	}
	if err == nil && cmd.Parameters != nil {
		p, err = p.WithParameters(cmd.Parameters)
	}
	if err == nil {
		err = p.Save(r.Context())
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.notify(r.Context())
	handlers.RespondJSON(w, http.StatusOK, NewView(p))
}

// Delete removes a stored prompt.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := h.manager.Open(r.Context(), r.PathValue("id"))
	if err == nil {
		err = p.Delete(r.Context())
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.notify(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Render returns the prompt text interpolated with its stored parameters.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	p, err := h.manager.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rendered(p))
}

// RenderWith renders the prompt with request parameters overlaid on the
// stored ones. Nothing is saved.
func (h *Handler) RenderWith(w http.ResponseWriter, r *http.Request) {
	cmd, status, err := handlers.DecodeJSON[RenderCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, status, err)
		return
	}

	p, err := h.manager.Get(r.Context(), r.PathValue("id"))
	if err == nil {
		params := p.Parameters()
		maps.Copy(params, cmd.Parameters)
		p, err = p.WithParameters(params)
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rendered(p))
}

func (h *Handler) respondPage(w http.ResponseWriter, r *http.Request, page pagination.PageRequest, query string) {
	found, err := h.manager.Search(r.Context(), query)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	records := slices.SortedFunc(maps.Values(found), func(a, b Record) int {
		return strings.Compare(a.ID, b.ID)
	})

	handlers.RespondJSON(w, http.StatusOK, pagination.Paginate(records, page))
}

func (h *Handler) ensureAbsent(ctx context.Context, id string) error {
	exists, err := h.manager.Exists(ctx, id)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, id)
	}
	return nil
}

func (h *Handler) notify(ctx context.Context) {
	for _, fn := range h.changed {
		fn(ctx)
	}
}

func rendered(p *Prompt) Rendered {
	return Rendered{ID: p.ID(), Text: p.Render(), Missing: p.Missing()}
}
