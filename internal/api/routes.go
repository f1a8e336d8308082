package api

import (
	"net/http"

	"github.com/JaimeStill/prompter/internal/config"
	"github.com/JaimeStill/prompter/pkg/openapi"
	"github.com/JaimeStill/prompter/pkg/routes"
)

const specPath = "/openapi.json"

func registerRoutes(mux *http.ServeMux, spec *openapi.Spec, domain *Domain) {
	groups := []routes.Group{
		domain.Prompts.Routes(),
	}

	routes.Register(mux, groups...)
	for _, g := range groups {
		g.Document(spec)
	}
}

func newSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	return spec
}
