package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tserrors "github.com/input-output-hk/catalyst-forge-libs/tagsweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

// clearEnv blanks every variable Load reads so the host environment does not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"TAGSWEEP_BACKEND", "TAGSWEEP_REGION", "TAGSWEEP_ENDPOINT",
		"TAGSWEEP_ACCESS_KEY_ID", "TAGSWEEP_SECRET_ACCESS_KEY", "TAGSWEEP_SESSION_TOKEN",
		"TAGSWEEP_USE_SSL", "TAGSWEEP_FORCE_PATH_STYLE", "TAGSWEEP_MAX_RETRIES",
		"TAGSWEEP_PAGE_SIZE", "TAGSWEEP_CONTINUE_ON_DELETE_ERROR",
		"TAGSWEEP_LOG_LEVEL", "TAGSWEEP_LOG_FORMAT",
		"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_SESSION_TOKEN",
	} {
		t.Setenv(name, "")
	}
}

// TestLoad_Defaults tests the values used when nothing is configured.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, sweeptypes.BackendS3, cfg.Backend)
	assert.Equal(t, "ap-south-1", cfg.Region)
	assert.Empty(t, cfg.Endpoint)
	assert.True(t, cfg.UseSSL)
	assert.False(t, cfg.ForcePathStyle)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Zero(t, cfg.PageSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
}

// TestLoad_Environment tests prefixed variables and AWS fallbacks.
func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TAGSWEEP_BACKEND", "MINIO")
	t.Setenv("TAGSWEEP_ENDPOINT", "localhost:9000")
	t.Setenv("TAGSWEEP_USE_SSL", "false")
	t.Setenv("TAGSWEEP_PAGE_SIZE", "50")
	t.Setenv("TAGSWEEP_LOG_LEVEL", "DEBUG")
	t.Setenv("AWS_REGION", "eu-central-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "minioadmin")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "minioadmin")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, sweeptypes.BackendMinio, cfg.Backend)
	assert.Equal(t, "localhost:9000", cfg.Endpoint)
	assert.False(t, cfg.UseSSL)
	assert.Equal(t, int32(50), cfg.PageSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.Equal(t, "minioadmin", cfg.AccessKeyID)

	t.Setenv("TAGSWEEP_REGION", "us-east-1")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", cfg.Region, "prefixed variable wins over the AWS fallback")
}

// TestLoad_EnvFile tests loading values from a .env file.
func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("TAGSWEEP_FORCE_PATH_STYLE")
	os.Unsetenv("TAGSWEEP_MAX_RETRIES")
	t.Cleanup(func() {
		os.Unsetenv("TAGSWEEP_FORCE_PATH_STYLE")
		os.Unsetenv("TAGSWEEP_MAX_RETRIES")
	})

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TAGSWEEP_FORCE_PATH_STYLE=true\nTAGSWEEP_MAX_RETRIES=5\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.ForcePathStyle)
	assert.Equal(t, 5, cfg.MaxRetries)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

// TestValidate tests rejection of unusable configurations.
func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Backend:   sweeptypes.BackendS3,
			Region:    "ap-south-1",
			LogLevel:  "info",
			LogFormat: LogFormatText,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Backend = "gcs" }},
		{"minio without endpoint", func(c *Config) { c.Backend = sweeptypes.BackendMinio }},
		{"empty region", func(c *Config) { c.Region = "" }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"page size too large", func(c *Config) { c.PageSize = 5000 }},
		{"half credentials", func(c *Config) { c.AccessKeyID = "id" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
	}

	require.NoError(t, valid().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tserrors.ErrInvalidConfig)
		})
	}
}

// TestNewLogger tests handler selection and level filtering.
func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn", LogFormat: LogFormatJSON}

	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "bucket", "books")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "books", entry["bucket"])
}

// TestClientOptions tests the conversion into client options.
func TestClientOptions(t *testing.T) {
	cfg := &Config{
		Backend:         sweeptypes.BackendMinio,
		Region:          "eu-west-1",
		Endpoint:        "localhost:9000",
		AccessKeyID:     "id",
		SecretAccessKey: "secret",
		MaxRetries:      2,
		PageSize:        10,
	}

	var cc sweeptypes.ClientConfig
	for _, opt := range cfg.ClientOptions() {
		opt(&cc)
	}

	assert.Equal(t, sweeptypes.BackendMinio, cc.Backend)
	assert.Equal(t, "eu-west-1", cc.Region)
	assert.Equal(t, "localhost:9000", cc.Endpoint)
	assert.Equal(t, "id", cc.AccessKeyID)
	assert.Equal(t, "secret", cc.SecretAccessKey)
	assert.Equal(t, 2, cc.MaxRetries)
	assert.Equal(t, int32(10), cc.PageSize)
	assert.False(t, cc.UseSSL)
}
