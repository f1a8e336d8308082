// Package api assembles the API module with the prompt handlers and route registration.
package api

import (
	"context"
	"net/http"

	"github.com/JaimeStill/prompter/internal/config"
	"github.com/JaimeStill/prompter/internal/infrastructure"
	"github.com/JaimeStill/prompter/internal/prompts"
	"github.com/JaimeStill/prompter/pkg/middleware"
	"github.com/JaimeStill/prompter/pkg/module"
	"github.com/JaimeStill/prompter/pkg/openapi"
)

// NewModule creates the API module over manager. Each onChange hook runs
// after a request modifies stored prompts. The generated OpenAPI document is
// served at /openapi.json under the base path.
func NewModule(
	cfg *config.Config,
	infra *infrastructure.Infrastructure,
	manager *prompts.Manager,
	onChange ...func(context.Context),
) *module.Module {
	runtime := NewRuntime(cfg, infra, manager)
	domain := NewDomain(runtime)

	for _, fn := range onChange {
		domain.Prompts.OnChange(fn)
	}

	mux := http.NewServeMux()
	spec := newSpec(cfg)
	registerRoutes(mux, spec, domain)

	if data, err := openapi.MarshalJSON(spec); err != nil {
		runtime.Logger.Error("openapi spec generation failed", "error", err)
	} else {
		mux.HandleFunc("GET "+specPath, openapi.ServeSpec(data))
	}

	return module.New(
		cfg.API.BasePath,
		mux,
		middleware.CORS(&cfg.API.CORS),
		middleware.Logger(runtime.Logger),
		middleware.MaxBodySize(cfg.API.MaxBodySizeBytes()),
	)
}
