package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: http://backend:3001
  api_key: secret
  cache_ttl_seconds: 60
grid:
  day_start_hour: 9
  day_end_hour: 17
timezone:
  backend: Europe/Paris
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://backend:3001", cfg.Backend.BaseURL)
	assert.Equal(t, "secret", cfg.Backend.APIKey)
	assert.Equal(t, 9, cfg.Grid.DayStartHour)
	assert.Equal(t, 17, cfg.Grid.DayEndHour)
	// defaults fill the gaps
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, []int{15, 30, 45, 60, 75, 90, 105, 120}, cfg.Grid.Durations)
	assert.Equal(t, 5, cfg.Grid.DefaultCapacity)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3001", cfg.Backend.BaseURL)
	assert.Equal(t, 8, cfg.Grid.DayStartHour)
	assert.Equal(t, 18, cfg.Grid.DayEndHour)
	assert.Equal(t, "Europe/Paris", cfg.Timezone.Backend)
	assert.Equal(t, []int{5, 10, 15, 20, 25}, cfg.Grid.CapacityOptions)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("ROOMGRID_API_KEY", "from-env")
	cfg, err := Load(writeConfig(t, `
backend:
  api_key: ${ROOMGRID_API_KEY}
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Backend.APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
