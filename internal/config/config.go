package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/dyluth/roulette/internal/grouping"
	"github.com/dyluth/roulette/internal/store"
	"github.com/dyluth/roulette/pkg/roster"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is where the CLI looks for configuration
	DefaultPath = "roulette.yml"

	// DefaultGroupSize is the target group size when none is configured
	DefaultGroupSize = 3

	// DefaultCredentialEnv names the environment variable holding the shared credential
	DefaultCredentialEnv = "ROULETTE_PASSWORD"

	// DefaultAddr is the web UI listen address
	DefaultAddr = ":8080"

	// BackendMemory keeps rosters in process memory
	BackendMemory = "memory"

	// BackendRedis keeps rosters in Redis
	BackendRedis = "redis"
)

// RouletteConfig represents the top-level roulette.yml configuration
type RouletteConfig struct {
	Version  string          `yaml:"version"`
	Grouping *GroupingConfig `yaml:"grouping,omitempty"`
	Auth     *AuthConfig     `yaml:"auth,omitempty"`
	Store    *StoreConfig    `yaml:"store,omitempty"`
	Server   *ServerConfig   `yaml:"server,omitempty"`
	Log      *LogConfig      `yaml:"log,omitempty"`
}

// GroupingConfig controls how rounds are drawn
type GroupingConfig struct {
	Size     *int   `yaml:"size,omitempty"`     // Target group size (default 3, must be >= 1)
	Prefix   string `yaml:"prefix,omitempty"`   // Round column prefix (default "Group_")
	Strategy string `yaml:"strategy,omitempty"` // greedy or uniform
}

// AuthConfig names where the shared web credential comes from.
// The credential itself never lives in the file.
type AuthConfig struct {
	CredentialEnv string `yaml:"credential_env,omitempty"`
}

// StoreConfig selects the roster store
type StoreConfig struct {
	Backend   string `yaml:"backend,omitempty"`   // memory or redis
	RedisURL  string `yaml:"redis_url,omitempty"` // Required when backend=redis
	Namespace string `yaml:"namespace,omitempty"` // Key namespace (default "default")
}

// ServerConfig configures the web UI
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text or json
}

// Default returns a validated configuration with every default applied.
// Used when no roulette.yml exists.
func Default() *RouletteConfig {
	cfg := &RouletteConfig{Version: "1.0"}
	// Defaults alone always validate
	_ = cfg.Validate()
	return cfg
}

// Validate performs strict validation on the configuration and fills in
// defaults for omitted sections.
func (c *RouletteConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Grouping == nil {
		c.Grouping = &GroupingConfig{}
	}
	if c.Grouping.Size == nil {
		size := DefaultGroupSize
		c.Grouping.Size = &size
	}
	if *c.Grouping.Size < 1 {
		return fmt.Errorf("grouping.size must be >= 1, got %d", *c.Grouping.Size)
	}
	if c.Grouping.Prefix == "" {
		c.Grouping.Prefix = roster.DefaultRoundPrefix
	}
	if c.Grouping.Prefix == roster.NameColumn || c.Grouping.Prefix == roster.TagColumn {
		return fmt.Errorf("grouping.prefix must not be a mandatory column name: %s", c.Grouping.Prefix)
	}
	if c.Grouping.Strategy == "" {
		c.Grouping.Strategy = grouping.StrategyGreedy
	}
	if _, err := grouping.Lookup(c.Grouping.Strategy, nil); err != nil {
		return fmt.Errorf("grouping.strategy: %w", err)
	}

	if c.Auth == nil {
		c.Auth = &AuthConfig{}
	}
	if c.Auth.CredentialEnv == "" {
		c.Auth.CredentialEnv = DefaultCredentialEnv
	}

	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	if c.Store.Backend == "" {
		c.Store.Backend = BackendMemory
	}
	if c.Store.Namespace == "" {
		c.Store.Namespace = store.DefaultNamespace
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("store.redis_url is required when store.backend is '%s'", BackendRedis)
		}
	default:
		return fmt.Errorf("invalid store.backend: %s (must be '%s' or '%s')", c.Store.Backend, BackendMemory, BackendRedis)
	}
	if err := store.ValidateNamespace(c.Store.Namespace); err != nil {
		return fmt.Errorf("store.namespace: %w", err)
	}

	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}

	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level: %s (must be 'debug', 'info', 'warn', or 'error')", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format: %s (must be 'text' or 'json')", c.Log.Format)
	}

	return nil
}

// GroupSize returns the configured target group size.
func (c *RouletteConfig) GroupSize() int {
	if c.Grouping == nil || c.Grouping.Size == nil {
		return DefaultGroupSize
	}
	return *c.Grouping.Size
}

// Credential reads the shared web credential from the configured
// environment variable. Returns an error if it is unset or empty.
func (c *RouletteConfig) Credential() (string, error) {
	env := DefaultCredentialEnv
	if c.Auth != nil && c.Auth.CredentialEnv != "" {
		env = c.Auth.CredentialEnv
	}

	credential := os.Getenv(env)
	if credential == "" {
		return "", fmt.Errorf("%s environment variable is required", env)
	}
	return credential, nil
}

// Load reads and validates roulette.yml from the specified path
func Load(path string) (*RouletteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config RouletteConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads path if it exists and falls back to Default otherwise.
// Any other read, parse or validation failure is returned.
func LoadOrDefault(path string) (*RouletteConfig, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}
