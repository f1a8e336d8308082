package main

import (
	"time"

	"github.com/JaimeStill/prompter/internal/adapters"
	"github.com/JaimeStill/prompter/internal/config"
	"github.com/JaimeStill/prompter/internal/infrastructure"
	"github.com/JaimeStill/prompter/internal/mcp"
	"github.com/JaimeStill/prompter/internal/prompts"
)

type Server struct {
	cfg     *config.Config
	infra   *infrastructure.Infrastructure
	manager *prompts.Manager
	mcp     *mcp.Server
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	// The adapter is bound in Start once the database and storage are up.
	manager := prompts.NewManager(nil, infra.Logger)
	mcpServer := mcp.New(manager, cfg.Version, infra.Logger)

	modules := NewModules(cfg, infra, manager, mcpServer)
	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"adapter", cfg.Adapter.Kind,
		"modules", router.Prefixes(),
		"env", cfg.Env(),
	)

	return &Server{
		cfg:     cfg,
		infra:   infra,
		manager: manager,
		mcp:     mcpServer,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
		return err
	}

	adapter, err := adapters.New(s.infra.Lifecycle.Context(), s.cfg, s.infra)
	if err != nil {
		return err
	}
	s.manager.SetAdapter(adapter)

	if err := s.mcp.Sync(s.infra.Lifecycle.Context()); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	s.infra.Logger.Info("all subsystems ready")
	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
