// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-dev/graphcheck/internal/config"
	"github.com/sigil-dev/graphcheck/internal/store"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graphcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Graph.MaxDepth)
	assert.Equal(t, 3, cfg.Graph.MaxFanout)
	assert.Equal(t, 3, cfg.Graph.MaxLevel)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "127.0.0.1:18790", cfg.Server.Listen)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.Targets)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
graph:
  max_depth: 2
catalog:
  path: /etc/graphcheck/catalog.yaml
targets:
  lab:
    backend: remote
    endpoint: http://lab:18790
    timeout: 10s
    unsupported: [linking_path]
  cache:
    backend: redis
    addr: cache:6379
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Graph.MaxDepth)
	assert.Equal(t, 3, cfg.Graph.MaxFanout, "unset keys keep defaults")
	assert.Equal(t, "/etc/graphcheck/catalog.yaml", cfg.Catalog.Path)

	require.Contains(t, cfg.Targets, "lab")
	lab := cfg.Targets["lab"]
	assert.Equal(t, "remote", lab.Backend)
	assert.Equal(t, 10*time.Second, lab.Timeout)
	assert.Equal(t, []string{"linking_path"}, lab.Unsupported)
	assert.Equal(t, "cache:6379", cfg.Targets["cache"].Addr)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("GRAPHCHECK_GRAPH_MAX_FANOUT", "5")
	t.Setenv("GRAPHCHECK_STORAGE_BACKEND", "memory")
	t.Setenv("GRAPHCHECK_CATALOG_PATH", "/tmp/catalog.yaml")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Graph.MaxFanout)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/catalog.yaml", cfg.Catalog.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, gcerr.HasCode(err, gcerr.CodeConfigLoadReadFailure))
}

func TestLoad_ValidationCalledAtLoadTime(t *testing.T) {
	path := writeConfig(t, `
graph:
  max_depth: 0
logging:
  level: loud
`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, gcerr.IsInvalidInput(err))
	assert.Contains(t, err.Error(), "graph.max_depth")
	assert.Contains(t, err.Error(), "logging.level")
}

// validConfig returns a minimal config that passes all validation.
func validConfig() *config.Config {
	return &config.Config{
		Graph:   config.GraphConfig{MaxDepth: 3, MaxFanout: 3, MaxLevel: 3},
		Storage: config.StorageConfig{Backend: "sqlite"},
		Server:  config.ServerConfig{Listen: "127.0.0.1:18790"},
		Logging: config.LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.Empty(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantKey string
	}{
		{"zero fanout", func(c *config.Config) { c.Graph.MaxFanout = 0 }, "graph.max_fanout"},
		{"negative level", func(c *config.Config) { c.Graph.MaxLevel = -1 }, "graph.max_level"},
		{"unknown backend", func(c *config.Config) { c.Storage.Backend = "neo4j" }, "storage.backend"},
		{"remote without endpoint", func(c *config.Config) { c.Storage.Backend = "remote" }, "storage.endpoint"},
		{"negative timeout", func(c *config.Config) { c.Storage.Timeout = -time.Second }, "storage.timeout"},
		{"unknown function", func(c *config.Config) { c.Storage.Unsupported = []string{"create_node"} }, "storage.unsupported[0]"},
		{"target backend", func(c *config.Config) {
			c.Targets = map[string]config.StorageConfig{"lab": {Backend: "mongo"}}
		}, "targets.lab.backend"},
		{"empty listen", func(c *config.Config) { c.Server.Listen = "" }, "server.listen"},
		{"listen without port", func(c *config.Config) { c.Server.Listen = "localhost" }, "server.listen"},
		{"listen port range", func(c *config.Config) { c.Server.Listen = ":70000" }, "server.listen port"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			errs := cfg.Validate()
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0].Error(), tt.wantKey)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Graph.MaxDepth = 0
	cfg.Storage.Backend = "nope"
	cfg.Logging.Level = "nope"
	assert.Len(t, cfg.Validate(), 3)
}

func TestStoreConfig(t *testing.T) {
	sc := config.StorageConfig{
		Backend:     "redis",
		Addr:        "cache:6379",
		Prefix:      "gc",
		Timeout:     time.Second,
		Unsupported: []string{"linking_path", "delete_node"},
	}.StoreConfig()

	assert.Equal(t, "redis", sc.Backend)
	assert.Equal(t, "cache:6379", sc.Addr)
	assert.Equal(t, "gc", sc.Prefix)
	assert.Equal(t, time.Second, sc.Timeout)
	assert.Equal(t, []store.Function{store.FuncLinkingPath, store.FuncDeleteNode}, sc.Unsupported)
}

func TestResolveTargets(t *testing.T) {
	cfg := validConfig()

	got, err := cfg.ResolveTargets()
	require.NoError(t, err)
	assert.Equal(t, map[string]config.StorageConfig{config.DefaultTarget: cfg.Storage}, got)

	cfg.Targets = map[string]config.StorageConfig{
		"a": {Backend: "memory"},
		"b": {Backend: "sqlite"},
	}

	got, err = cfg.ResolveTargets()
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = cfg.ResolveTargets("b", config.DefaultTarget)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", got["b"].Backend)
	assert.Equal(t, cfg.Storage, got[config.DefaultTarget])

	_, err = cfg.ResolveTargets("c")
	require.Error(t, err)
	assert.True(t, gcerr.IsInvalidInput(err))
	assert.Contains(t, err.Error(), "[a, b]")
}

func TestDefaultConfigYAML_LoadsCleanly(t *testing.T) {
	path := writeConfig(t, string(config.DefaultConfigYAML))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
}

func TestDefaultConfigYAML_KeysMatchStruct(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(string(config.DefaultConfigYAML))))

	for _, key := range []string{"graph.max_depth", "graph.max_fanout", "graph.max_level", "storage.backend", "server.listen", "logging.level", "logging.format"} {
		assert.True(t, v.IsSet(key), "default config should set %s", key)
	}
}

func TestBootstrapConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "graphcheck.yaml")

	assert.Equal(t, path, config.BootstrapConfig(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfigYAML, data)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	assert.Empty(t, config.BootstrapConfig(path), "existing file is left alone")
}
