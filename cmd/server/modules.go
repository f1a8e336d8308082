package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/prompter/internal/api"
	"github.com/JaimeStill/prompter/internal/config"
	"github.com/JaimeStill/prompter/internal/infrastructure"
	"github.com/JaimeStill/prompter/internal/mcp"
	"github.com/JaimeStill/prompter/internal/prompts"
	"github.com/JaimeStill/prompter/pkg/middleware"
	"github.com/JaimeStill/prompter/pkg/module"
)

const mcpPrefix = "/mcp"

type Modules struct {
	API *module.Module
	MCP *module.Module
}

func NewModules(
	cfg *config.Config,
	infra *infrastructure.Infrastructure,
	manager *prompts.Manager,
	mcpServer *mcp.Server,
) *Modules {
	resync := func(ctx context.Context) {
		if err := mcpServer.Sync(context.WithoutCancel(ctx)); err != nil {
			infra.Logger.Error("mcp resync failed", "error", err)
		}
	}

	return &Modules{
		API: api.NewModule(cfg, infra, manager, resync),
		MCP: module.New(
			mcpPrefix,
			mcpServer.Handler(),
			middleware.Logger(infra.Logger.With("module", "mcp")),
		),
	}
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.MCP)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
