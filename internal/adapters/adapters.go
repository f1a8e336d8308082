// Package adapters builds the prompt storage adapter selected by configuration.
package adapters

import (
	"context"
	"fmt"

	"github.com/JaimeStill/prompter/internal/adapters/blob"
	"github.com/JaimeStill/prompter/internal/adapters/file"
	"github.com/JaimeStill/prompter/internal/adapters/memory"
	"github.com/JaimeStill/prompter/internal/adapters/postgres"
	"github.com/JaimeStill/prompter/internal/adapters/sqlite"
	"github.com/JaimeStill/prompter/internal/config"
	"github.com/JaimeStill/prompter/internal/infrastructure"
	"github.com/JaimeStill/prompter/internal/prompts"
)

// New returns the adapter named by cfg.Adapter.Kind, wired to the systems in infra.
func New(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) (prompts.Adapter, error) {
	logger := infra.Logger

	switch cfg.Adapter.Kind {
	case config.AdapterMemory:
		return memory.New(), nil
	case config.AdapterFile:
		return file.New(cfg.Adapter.File.Dir, logger)
	case config.AdapterSQLite:
		if infra.Database == nil {
			return nil, fmt.Errorf("%s adapter: database not initialized", cfg.Adapter.Kind)
		}
		return sqlite.New(ctx, infra.Database.Connection(), logger)
	case config.AdapterPostgres:
		if infra.Database == nil {
			return nil, fmt.Errorf("%s adapter: database not initialized", cfg.Adapter.Kind)
		}
		return postgres.New(infra.Database.Connection(), logger), nil
	case config.AdapterBlob:
		if infra.Storage == nil {
			return nil, fmt.Errorf("%s adapter: storage not initialized", cfg.Adapter.Kind)
		}
		return blob.New(infra.Storage, cfg.Storage.Prefix, cfg.Storage.Concurrency, logger), nil
	default:
		return nil, fmt.Errorf("unsupported adapter kind %q", cfg.Adapter.Kind)
	}
}
