package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/prompter/internal/config"
	"github.com/JaimeStill/prompter/pkg/database"
)

const baseConfig = `
shutdown_timeout = "20s"
version = "1.2.3"

[server]
port = 9090

[api]
base_path = "/api"
max_body_size = "256KiB"

[api.pagination]
default_page_size = 10
max_page_size = 50

[adapter]
kind = "sqlite"

[database]
path = "data/prompts.db"
`

func chdir(t *testing.T, files map[string]string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	t.Chdir(dir)
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, nil)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeoutDuration())
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "/api", cfg.API.BasePath)
	assert.EqualValues(t, 1000*1000, cfg.API.MaxBodySizeBytes())
	assert.Equal(t, config.AdapterFile, cfg.Adapter.Kind)
	assert.Equal(t, "prompts", cfg.Adapter.File.Dir)
	assert.Empty(t, cfg.Database.Driver, "database is not finalized for the file adapter")
	assert.Equal(t, "local", cfg.Env())
}

func TestLoadBaseFile(t *testing.T) {
	chdir(t, map[string]string{config.BaseConfigFile: baseConfig})

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 20*time.Second, cfg.ShutdownTimeoutDuration())
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.EqualValues(t, 256*1024, cfg.API.MaxBodySizeBytes())
	assert.Equal(t, 10, cfg.API.Pagination.DefaultPageSize)
	assert.Equal(t, config.AdapterSQLite, cfg.Adapter.Kind)
	assert.Equal(t, database.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/prompts.db", cfg.Database.Path)
}

func TestLoadOverlay(t *testing.T) {
	chdir(t, map[string]string{
		config.BaseConfigFile: baseConfig,
		"config.test.toml": `
[adapter]
kind = "memory"

[server]
port = 7070
`,
	})
	t.Setenv(config.EnvPrompterEnv, "test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env())
	assert.Equal(t, config.AdapterMemory, cfg.Adapter.Kind)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "1.2.3", cfg.Version)
}

func TestLoadDotEnv(t *testing.T) {
	chdir(t, map[string]string{
		config.DotEnvFile: "PROMPTER_ADAPTER_KIND=memory\nPROMPTER_SERVER_PORT=6060\n",
	})
	t.Setenv("PROMPTER_SERVER_PORT", "5050")
	t.Cleanup(func() { os.Unsetenv(config.EnvAdapterKind) })

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.AdapterMemory, cfg.Adapter.Kind)
	assert.Equal(t, 5050, cfg.Server.Port, "process environment wins over .env")
}

func TestEnvOverrides(t *testing.T) {
	chdir(t, map[string]string{config.BaseConfigFile: baseConfig})
	t.Setenv(config.EnvAdapterKind, "postgres")
	t.Setenv("PROMPTER_DB_NAME", "prompts")
	t.Setenv("PROMPTER_DB_USER", "prompter")
	t.Setenv(config.EnvAPIMaxBodySize, "2MB")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.AdapterPostgres, cfg.Adapter.Kind)
	assert.Equal(t, database.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "prompts", cfg.Database.Name)
	assert.EqualValues(t, 2*1000*1000, cfg.API.MaxBodySizeBytes())
}

func TestFinalizeErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		msg  string
	}{
		{
			name: "bad shutdown timeout",
			cfg:  config.Config{ShutdownTimeout: "soon"},
			msg:  "invalid shutdown_timeout",
		},
		{
			name: "unknown adapter",
			cfg:  config.Config{Adapter: config.AdapterConfig{Kind: "redis"}},
			msg:  "unsupported kind",
		},
		{
			name: "bad body size",
			cfg:  config.Config{API: config.APIConfig{MaxBodySize: "lots"}},
			msg:  "invalid max_body_size",
		},
		{
			name: "driver mismatch",
			cfg: config.Config{
				Adapter:  config.AdapterConfig{Kind: config.AdapterSQLite},
				Database: database.Config{Driver: database.DriverPostgres, Name: "n", User: "u"},
			},
			msg: "requires database driver sqlite",
		},
		{
			name: "blob without credentials",
			cfg:  config.Config{Adapter: config.AdapterConfig{Kind: config.AdapterBlob}},
			msg:  "connection_string or service_url required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestFinalizeBadPortEnv(t *testing.T) {
	t.Setenv(config.EnvServerPort, "http")

	cfg := config.Config{}
	err := cfg.Finalize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server: "+config.EnvServerPort)
}

func TestParseInvalid(t *testing.T) {
	_, err := config.Parse([]byte("[server\nport = 1"))
	assert.ErrorContains(t, err, "parse config")
}

func TestRepositoryConfigFinalizes(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", config.BaseConfigFile))
	require.NoError(t, err)

	cfg, err := config.Parse(data)
	require.NoError(t, err)
	require.NoError(t, cfg.Finalize())

	assert.Equal(t, config.AdapterFile, cfg.Adapter.Kind)
	assert.Equal(t, "prompts", cfg.Adapter.File.Dir)
	assert.Equal(t, "Prompter API", cfg.API.OpenAPI.Title)
	assert.Equal(t, int64(1_000_000), cfg.API.MaxBodySizeBytes())

	cfg.Adapter.Kind = config.AdapterSQLite
	require.NoError(t, cfg.Finalize())
	assert.Equal(t, database.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "prompter.db", cfg.Database.Path)
}
