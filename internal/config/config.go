// Package config loads tagsweep settings from .env files and the environment.
//
// Every setting is read from a TAGSWEEP_ prefixed variable. Credentials and
// the region also fall back to the standard AWS variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/input-output-hk/catalyst-forge-libs/tagsweep"
	tserrors "github.com/input-output-hk/catalyst-forge-libs/tagsweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "TAGSWEEP"

// Log formats understood by NewLogger.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config is the resolved runtime configuration.
type Config struct {
	Backend         sweeptypes.Backend
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	UseSSL          bool
	ForcePathStyle  bool
	MaxRetries      int
	PageSize        int32

	ContinueOnDeleteError bool

	LogLevel  string
	LogFormat string
}

// Load reads the given .env files (or ./.env when none are given, if it
// exists) and then the environment. Variables already set in the environment
// win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, tserrors.NewError("loadConfig", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, tserrors.NewError("loadConfig", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("backend", string(sweeptypes.BackendS3))
	v.SetDefault("region", sweeptypes.DefaultRegion)
	v.SetDefault("endpoint", "")
	v.SetDefault("access_key_id", "")
	v.SetDefault("secret_access_key", "")
	v.SetDefault("session_token", "")
	v.SetDefault("use_ssl", true)
	v.SetDefault("force_path_style", false)
	v.SetDefault("max_retries", sweeptypes.DefaultMaxRetries)
	v.SetDefault("page_size", 0)
	v.SetDefault("continue_on_delete_error", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", LogFormatText)

	fallbacks := map[string]string{
		"region":            "AWS_REGION",
		"access_key_id":     "AWS_ACCESS_KEY_ID",
		"secret_access_key": "AWS_SECRET_ACCESS_KEY",
		"session_token":     "AWS_SESSION_TOKEN",
	}
	for key, awsVar := range fallbacks {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key), awsVar); err != nil {
			return nil, tserrors.NewError("loadConfig", err)
		}
	}

	cfg := &Config{
		Backend:               sweeptypes.Backend(strings.ToLower(v.GetString("backend"))),
		Region:                v.GetString("region"),
		Endpoint:              v.GetString("endpoint"),
		AccessKeyID:           v.GetString("access_key_id"),
		SecretAccessKey:       v.GetString("secret_access_key"),
		SessionToken:          v.GetString("session_token"),
		UseSSL:                v.GetBool("use_ssl"),
		ForcePathStyle:        v.GetBool("force_path_style"),
		MaxRetries:            v.GetInt("max_retries"),
		PageSize:              v.GetInt32("page_size"),
		ContinueOnDeleteError: v.GetBool("continue_on_delete_error"),
		LogLevel:              strings.ToLower(v.GetString("log_level")),
		LogFormat:             strings.ToLower(v.GetString("log_format")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	fail := func(format string, args ...any) error {
		return tserrors.NewError("validateConfig", tserrors.ErrInvalidConfig).
			WithMessage(fmt.Sprintf(format, args...))
	}

	if !c.Backend.Valid() {
		return fail("unsupported backend %q", c.Backend)
	}
	if c.Backend == sweeptypes.BackendMinio && c.Endpoint == "" {
		return fail("the minio backend requires an endpoint")
	}
	if c.Region == "" {
		return fail("region cannot be empty")
	}
	if c.MaxRetries < 0 {
		return fail("max retries cannot be negative: %d", c.MaxRetries)
	}
	if c.PageSize < 0 || c.PageSize > 1000 {
		return fail("page size must be between 0 and 1000: %d", c.PageSize)
	}
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return fail("access key id and secret access key must be set together")
	}
	if _, err := c.SlogLevel(); err != nil {
		return fail("%v", err)
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return fail("unsupported log format %q", c.LogFormat)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// NewLogger builds a text or JSON logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if c.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ClientOptions converts the configuration into client options.
func (c *Config) ClientOptions() []sweeptypes.Option {
	opts := []sweeptypes.Option{
		tagsweep.WithBackend(c.Backend),
		tagsweep.WithRegion(c.Region),
		tagsweep.WithUseSSL(c.UseSSL),
		tagsweep.WithForcePathStyle(c.ForcePathStyle),
		tagsweep.WithMaxRetries(c.MaxRetries),
		tagsweep.WithPageSize(c.PageSize),
		tagsweep.WithContinueOnDeleteError(c.ContinueOnDeleteError),
	}
	if c.Endpoint != "" {
		opts = append(opts, tagsweep.WithEndpoint(c.Endpoint))
	}
	if c.AccessKeyID != "" {
		opts = append(opts, tagsweep.WithCredentials(c.AccessKeyID, c.SecretAccessKey, c.SessionToken))
	}
	return opts
}
