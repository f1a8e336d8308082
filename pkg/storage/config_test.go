package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/prompter/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "test-connection"}
	require.NoError(t, cfg.Finalize(nil))

	assert.Equal(t, "prompts", cfg.ContainerName)
	assert.EqualValues(t, 500, cfg.MaxListSize)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Empty(t, cfg.Prefix)
}

func TestFinalizeCapsListSize(t *testing.T) {
	cfg := storage.Config{ConnectionString: "c", MaxListSize: 10000}
	require.NoError(t, cfg.Finalize(nil))
	assert.Equal(t, storage.MaxListCap, cfg.MaxListSize)
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CONTAINER", "templates")
	t.Setenv("TEST_SERVICE_URL", "https://acct.blob.core.windows.net/")
	t.Setenv("TEST_PREFIX", "team-a/")
	t.Setenv("TEST_MAX_LIST", "9999")
	t.Setenv("TEST_CONCURRENCY", "3")

	env := &storage.Env{
		ContainerName: "TEST_CONTAINER",
		ServiceURL:    "TEST_SERVICE_URL",
		Prefix:        "TEST_PREFIX",
		MaxListSize:   "TEST_MAX_LIST",
		Concurrency:   "TEST_CONCURRENCY",
	}

	cfg := storage.Config{}
	require.NoError(t, cfg.Finalize(env))

	assert.Equal(t, "templates", cfg.ContainerName)
	assert.Equal(t, "https://acct.blob.core.windows.net/", cfg.ServiceURL)
	assert.Equal(t, "team-a/", cfg.Prefix)
	assert.Equal(t, storage.MaxListCap, cfg.MaxListSize)
	assert.Equal(t, 3, cfg.Concurrency)
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{
			name:    "missing credentials",
			cfg:     storage.Config{},
			wantErr: "connection_string or service_url required",
		},
		{
			name:    "negative concurrency",
			cfg:     storage.Config{ConnectionString: "c", Concurrency: -1},
			wantErr: "concurrency must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{ContainerName: "base", ConnectionString: "base-conn", Concurrency: 2}
	base.Merge(&storage.Config{ContainerName: "overlay", Prefix: "p/"})

	assert.Equal(t, "overlay", base.ContainerName)
	assert.Equal(t, "base-conn", base.ConnectionString)
	assert.Equal(t, "p/", base.Prefix)
	assert.Equal(t, 2, base.Concurrency)
}
