package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidConfig(t *testing.T) {
	// Create temporary directory
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "roulette.yml")

	// Write valid config
	validConfig := `version: "1.0"
grouping:
  size: 4
  prefix: "Round_"
  strategy: uniform
auth:
  credential_env: COFFEE_SECRET
store:
  backend: redis
  redis_url: "redis://localhost:6379/2"
  namespace: office-london
server:
  addr: ":9090"
log:
  level: debug
  format: json
`
	err := os.WriteFile(configPath, []byte(validConfig), 0644)
	require.NoError(t, err)

	// Load and validate
	config, err := Load(configPath)
	require.NoError(t, err)
	assert.NotNil(t, config)
	assert.Equal(t, "1.0", config.Version)
	assert.Equal(t, 4, config.GroupSize())
	assert.Equal(t, "Round_", config.Grouping.Prefix)
	assert.Equal(t, "uniform", config.Grouping.Strategy)
	assert.Equal(t, "COFFEE_SECRET", config.Auth.CredentialEnv)
	assert.Equal(t, BackendRedis, config.Store.Backend)
	assert.Equal(t, "office-london", config.Store.Namespace)
	assert.Equal(t, ":9090", config.Server.Addr)
	assert.Equal(t, "json", config.Log.Format)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "roulette.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(`version: "1.0"`+"\n"), 0644))

	config, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultGroupSize, config.GroupSize())
	assert.Equal(t, "Group_", config.Grouping.Prefix)
	assert.Equal(t, "greedy", config.Grouping.Strategy)
	assert.Equal(t, DefaultCredentialEnv, config.Auth.CredentialEnv)
	assert.Equal(t, BackendMemory, config.Store.Backend)
	assert.Equal(t, "default", config.Store.Namespace)
	assert.Equal(t, DefaultAddr, config.Server.Addr)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
}

func TestLoad_FileNotFound(t *testing.T) {
	config, err := Load("/nonexistent/roulette.yml")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "roulette.yml")

	// Write invalid YAML
	invalidYAML := `version: "1.0"
grouping:
  - this is invalid
    yaml syntax
`
	err := os.WriteFile(configPath, []byte(invalidYAML), 0644)
	require.NoError(t, err)

	config, err := Load(configPath)
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		config, err := LoadOrDefault(filepath.Join(t.TempDir(), "roulette.yml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultGroupSize, config.GroupSize())
	})

	t.Run("invalid file is still an error", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "roulette.yml")
		require.NoError(t, os.WriteFile(configPath, []byte(`version: "9"`), 0644))

		_, err := LoadOrDefault(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestValidate(t *testing.T) {
	size := func(n int) *int { return &n }

	tests := []struct {
		name    string
		config  *RouletteConfig
		wantErr string
	}{
		{
			name:    "unsupported version",
			config:  &RouletteConfig{Version: "2.0"},
			wantErr: "unsupported version: 2.0",
		},
		{
			name:    "zero group size",
			config:  &RouletteConfig{Version: "1.0", Grouping: &GroupingConfig{Size: size(0)}},
			wantErr: "grouping.size must be >= 1",
		},
		{
			name:    "negative group size",
			config:  &RouletteConfig{Version: "1.0", Grouping: &GroupingConfig{Size: size(-3)}},
			wantErr: "grouping.size must be >= 1",
		},
		{
			name:    "prefix collides with Name",
			config:  &RouletteConfig{Version: "1.0", Grouping: &GroupingConfig{Prefix: "Name"}},
			wantErr: "grouping.prefix",
		},
		{
			name:    "unknown strategy",
			config:  &RouletteConfig{Version: "1.0", Grouping: &GroupingConfig{Strategy: "blossom"}},
			wantErr: "unknown grouping strategy",
		},
		{
			name:    "redis backend without url",
			config:  &RouletteConfig{Version: "1.0", Store: &StoreConfig{Backend: "redis"}},
			wantErr: "store.redis_url is required",
		},
		{
			name:    "unknown backend",
			config:  &RouletteConfig{Version: "1.0", Store: &StoreConfig{Backend: "postgres"}},
			wantErr: "invalid store.backend",
		},
		{
			name:    "invalid namespace",
			config:  &RouletteConfig{Version: "1.0", Store: &StoreConfig{Namespace: "Not_Valid"}},
			wantErr: "store.namespace",
		},
		{
			name:    "invalid log level",
			config:  &RouletteConfig{Version: "1.0", Log: &LogConfig{Level: "trace"}},
			wantErr: "invalid log.level",
		},
		{
			name:    "invalid log format",
			config:  &RouletteConfig{Version: "1.0", Log: &LogConfig{Format: "xml"}},
			wantErr: "invalid log.format",
		},
		{
			name:   "group size one is allowed",
			config: &RouletteConfig{Version: "1.0", Grouping: &GroupingConfig{Size: size(1)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCredential(t *testing.T) {
	config := Default()

	t.Run("reads the configured variable", func(t *testing.T) {
		t.Setenv(DefaultCredentialEnv, "s3cret")
		credential, err := config.Credential()
		require.NoError(t, err)
		assert.Equal(t, "s3cret", credential)
	})

	t.Run("fails when unset", func(t *testing.T) {
		t.Setenv(DefaultCredentialEnv, "")
		_, err := config.Credential()
		require.Error(t, err)
		assert.Equal(t, "ROULETTE_PASSWORD environment variable is required", err.Error())
	})

	t.Run("honours a custom variable name", func(t *testing.T) {
		custom := &RouletteConfig{Version: "1.0", Auth: &AuthConfig{CredentialEnv: "COFFEE_SECRET"}}
		require.NoError(t, custom.Validate())
		t.Setenv("COFFEE_SECRET", "beans")

		credential, err := custom.Credential()
		require.NoError(t, err)
		assert.Equal(t, "beans", credential)
	})
}
