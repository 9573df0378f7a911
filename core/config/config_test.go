package config_test

import (
	"testing"

	"armory/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// No .env in a fresh directory; everything comes from struct tags.
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "", cfg.Server.ApiKey)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "https://reforger.armaplatform.com", cfg.Workshop.BaseURL)
	assert.Equal(t, 5, cfg.Workshop.MaxDepth)
	assert.Equal(t, 8, cfg.Workshop.FetchConcurrency)
	assert.Equal(t, "./data", cfg.Store.DataDir)
	assert.Equal(t, 5, cfg.Runner.StartGraceSeconds)
	assert.Equal(t, 10, cfg.Runner.StopTimeoutSeconds)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("WORKSHOP_MAX_DEPTH", "3")
	t.Setenv("RUNNER_SERVER_EXE", "/opt/reforger/ArmaReforgerServer")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Workshop.MaxDepth)
	assert.Equal(t, "/opt/reforger/ArmaReforgerServer", cfg.Runner.ServerExe)
}
