// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package config

import (
	"errors"
	"net"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sigil-dev/graphcheck/internal/store"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

// DefaultTarget names the target built from the top-level storage section.
const DefaultTarget = "default"

// Config is the top-level graphcheck configuration.
type Config struct {
	Graph   GraphConfig              `mapstructure:"graph"`
	Catalog CatalogConfig            `mapstructure:"catalog"`
	Storage StorageConfig            `mapstructure:"storage"`
	Targets map[string]StorageConfig `mapstructure:"targets"`
	Server  ServerConfig             `mapstructure:"server"`
	Logging LoggingConfig            `mapstructure:"logging"`
	Metrics MetricsConfig            `mapstructure:"metrics"`
}

// GraphConfig shapes the reference graph and the deepest neighborhood query.
type GraphConfig struct {
	MaxDepth  int `mapstructure:"max_depth"`
	MaxFanout int `mapstructure:"max_fanout"`
	MaxLevel  int `mapstructure:"max_level"`
}

// CatalogConfig points at the type catalog file.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// StorageConfig selects and configures one store under test. An empty
// backend means sqlite.
type StorageConfig struct {
	Backend     string        `mapstructure:"backend"`
	Path        string        `mapstructure:"path"`
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	Prefix      string        `mapstructure:"prefix"`
	Endpoint    string        `mapstructure:"endpoint"`
	Token       string        `mapstructure:"token"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Unsupported []string      `mapstructure:"unsupported"`
}

// ServerConfig controls "graphcheck serve".
type ServerConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	Token       string   `mapstructure:"token"`
}

// LoggingConfig controls the slog handler installed by the CLI.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig controls the Prometheus textfile written after a run.
type MetricsConfig struct {
	File string `mapstructure:"file"`
}

var validBackends = []string{"memory", "redis", "remote", "sqlite"}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides (prefix GRAPHCHECK_).
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("graph.max_depth", 3)
	v.SetDefault("graph.max_fanout", 3)
	v.SetDefault("graph.max_level", 3)
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("server.listen", "127.0.0.1:18790")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Environment
	v.SetEnvPrefix("GRAPHCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about.
	for _, key := range []string{
		"catalog.path", "metrics.file", "server.token",
		"storage.path", "storage.addr", "storage.password", "storage.prefix",
		"storage.endpoint", "storage.token", "storage.timeout",
	} {
		_ = v.BindEnv(key)
	}

	// File
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, gcerr.Errorf(gcerr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, gcerr.Errorf(gcerr.CodeConfigParseInvalidFormat, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, gcerr.Errorf(gcerr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors.
// It returns a slice of all validation errors found, collecting all issues
// rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateGraph()...)
	errs = append(errs, validateStorage("storage", c.Storage)...)
	for _, name := range sortedTargetNames(c.Targets) {
		if name == "" {
			errs = append(errs, gcerr.Errorf(gcerr.CodeConfigValidateInvalidValue, "config: target names must not be empty"))
			continue
		}
		errs = append(errs, validateStorage("targets."+name, c.Targets[name])...)
	}
	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

func (c *Config) validateGraph() []error {
	var errs []error

	if c.Graph.MaxDepth < 1 {
		errs = append(errs, gcerr.Errorf(gcerr.CodeConfigValidateInvalidValue,
			"config: graph.max_depth must be at least 1, got %d", c.Graph.MaxDepth))
	}
	if c.Graph.MaxFanout < 1 {
		errs = append(errs, gcerr.Errorf(gcerr.CodeConfigValidateInvalidValue,
			"config: graph.max_fanout must be at least 1, got %d", c.Graph.MaxFanout))
	}
	if c.Graph.MaxLevel < 0 {
		errs = append(errs, gcerr.Errorf(gcerr.CodeConfigValidateInvalidValue,
			"config: graph.max_level must not be negative, got %d", c.Graph.MaxLevel))
	}

	return errs
}

func validateStorage(key string, s StorageConfig) []error {
	var errs []error

	if s.Backend != "" && !slices.Contains(validBackends, s.Backend) {
		errs = append(errs, gcerr.Errorf(gcerr.CodeConfigValidateInvalidValue,
			"config: %s.backend must be one of [%s], got %q",
			key, strings.Join(validBackends, ", "), s.Backend,
		))
	}
	if s.Backend == "remote" && s.Endpoint == "" {
		errs = append(errs, gcerr.Errorf(gcerr.CodeConfigValidateInvalidValue,
			"config: %s.endpoint is required for the remote backend", key))
	}
	if s.Timeout < 0 {
		errs = append(errs, gcerr.Errorf(gcerr.CodeConfigValidateInvalidValue,
			"config: %s.timeout must not be negative, got %s", key, s.Timeout))
	}
	for i, fn := range s.Unsupported {
		if !store.Function(fn).Valid() {
			errs = append(errs, gcerr.Errorf(gcerr.CodeConfigValidateInvalidValue,
				"config: %s.unsupported[%d] %q is not an optional function", key, i, fn))
		}
	}

	return errs
}

func (c *Config) validateServer() []error {
	var errs []error

	if c.Server.Listen == "" {
		errs = append(errs, gcerr.Errorf(gcerr.CodeConfigValidateInvalidValue, "config: server.listen must not be empty"))
		return errs
	}

	_, portStr, err := net.SplitHostPort(c.Server.Listen)
	if err != nil {
		errs = append(errs, gcerr.Errorf(gcerr.CodeConfigValidateInvalidValue,
			"config: server.listen must be a valid host:port address, got %q: %w",
			c.Server.Listen, err,
		))
		return errs
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		errs = append(errs, gcerr.Errorf(gcerr.CodeConfigValidateInvalidValue,
			"config: server.listen port must be a number, got %q", portStr))
	} else if port < 0 || port > 65535 {
		errs = append(errs, gcerr.Errorf(gcerr.CodeConfigValidateInvalidValue,
			"config: server.listen port must be between 0 and 65535, got %d", port))
	}

	return errs
}

func (c *Config) validateLogging() []error {
	var errs []error

	levels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(levels, c.Logging.Level) {
		errs = append(errs, gcerr.Errorf(gcerr.CodeConfigValidateInvalidValue,
			"config: logging.level must be one of [%s], got %q", strings.Join(levels, ", "), c.Logging.Level))
	}
	formats := []string{"text", "json"}
	if !slices.Contains(formats, c.Logging.Format) {
		errs = append(errs, gcerr.Errorf(gcerr.CodeConfigValidateInvalidValue,
			"config: logging.format must be one of [%s], got %q", strings.Join(formats, ", "), c.Logging.Format))
	}

	return errs
}

// StoreConfig converts a storage section into the store factory's config.
func (s StorageConfig) StoreConfig() *store.StorageConfig {
	out := &store.StorageConfig{
		Backend:  s.Backend,
		Path:     s.Path,
		Addr:     s.Addr,
		Password: s.Password,
		DB:       s.DB,
		Prefix:   s.Prefix,
		Endpoint: s.Endpoint,
		Token:    s.Token,
		Timeout:  s.Timeout,
	}
	for _, fn := range s.Unsupported {
		out.Unsupported = append(out.Unsupported, store.Function(fn))
	}
	return out
}

// ResolveTargets returns the storage sections to check, keyed by target
// name. With no names it returns every configured target, or the top-level
// storage section as DefaultTarget when none are configured.
func (c *Config) ResolveTargets(names ...string) (map[string]StorageConfig, error) {
	if len(names) == 0 {
		if len(c.Targets) == 0 {
			return map[string]StorageConfig{DefaultTarget: c.Storage}, nil
		}
		out := make(map[string]StorageConfig, len(c.Targets))
		for name, t := range c.Targets {
			out[name] = t
		}
		return out, nil
	}

	out := make(map[string]StorageConfig, len(names))
	for _, name := range names {
		if name == DefaultTarget {
			if t, ok := c.Targets[name]; ok {
				out[name] = t
			} else {
				out[name] = c.Storage
			}
			continue
		}
		t, ok := c.Targets[name]
		if !ok {
			return nil, gcerr.New(gcerr.CodeCLIInputInvalid,
				"unknown target "+strconv.Quote(name)+", configured: ["+strings.Join(sortedTargetNames(c.Targets), ", ")+"]")
		}
		out[name] = t
	}
	return out, nil
}

func sortedTargetNames(m map[string]StorageConfig) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
