package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0, cfg.Audit.MinAge)
	assert.Equal(t, 120, cfg.Audit.MaxAge)
	assert.Equal(t, 10, cfg.Audit.MaxRelationships)
	assert.False(t, cfg.Neo4j.Enabled)
	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.InDelta(t, 0.6, cfg.CircuitBreaker.ReadyToTripRatio, 1e-9)
}

func TestLoadFromConfigFile(t *testing.T) {
	resetViper(t)

	fileContent := map[string]any{
		"log":    map[string]any{"level": "debug"},
		"server": map[string]any{"port": 9090, "mode": "release"},
		"audit":  map[string]any{"max_age": 110, "max_relationships": 5},
	}
	data, err := yaml.Marshal(fileContent)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), ".relgraph.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 110, cfg.Audit.MaxAge)
	assert.Equal(t, 5, cfg.Audit.MaxRelationships)
	// Unset values keep their defaults.
	assert.Equal(t, 0, cfg.Audit.MinAge)
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestEnvOverrides(t *testing.T) {
	resetViper(t)

	t.Setenv("NEO4J_URI", "bolt://graph:7687")
	t.Setenv("NEO4J_USER", "auditor")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("RELGRAPH_STORE_PATH", "/var/lib/relgraph")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bolt://graph:7687", cfg.Neo4j.URI)
	assert.Equal(t, "auditor", cfg.Neo4j.Username)
	assert.Equal(t, "secret", cfg.Neo4j.Password)
	assert.Equal(t, "/var/lib/relgraph", cfg.Store.Path)
}
