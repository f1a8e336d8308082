// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies (logging, database, storage) that the selected
// prompt adapter requires.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/prompter/internal/config"
	"github.com/JaimeStill/prompter/pkg/database"
	"github.com/JaimeStill/prompter/pkg/lifecycle"
	"github.com/JaimeStill/prompter/pkg/storage"
)

// Infrastructure holds the core systems shared by the server and CLI.
// Database is nil unless the adapter kind is sqlite or postgres; Storage is
// nil unless the adapter kind is blob.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
}

// New creates an Infrastructure from the application configuration, logging
// to stderr. It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput is New with log output written to w.
func NewWithOutput(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    slog.New(slog.NewTextHandler(w, nil)),
	}

	if cfg.Adapter.UsesDatabase() {
		db, err := database.New(&cfg.Database, infra.Logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
	}

	if cfg.Adapter.UsesStorage() {
		store, err := storage.New(&cfg.Storage, infra.Logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
		infra.Storage = store
	}

	return infra, nil
}

// Start registers the configured systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	return nil
}
