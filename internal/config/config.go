// Package config loads deckhand settings from defaults, an optional deckhand.yaml,
// a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/aretw0/deckhand/pkg/actions"
	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/persistence/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. DECKHAND_ACTIONS_COLLISION.
const EnvPrefix = "DECKHAND"

// Journal drivers.
const (
	JournalNone  = "none"
	JournalFile  = "file"
	JournalRedis = "redis"
)

// Config is the top-level application configuration.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	Actions  ActionsConfig  `mapstructure:"actions"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// ProviderConfig describes the chat-completion endpoint.
type ProviderConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Referer string        `mapstructure:"referer"`
	Title   string        `mapstructure:"title"`
	Timeout time.Duration `mapstructure:"timeout"` // zero disables the client timeout
}

// ActionsConfig tunes the local actions.
type ActionsConfig struct {
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	Collision      string        `mapstructure:"collision"` // overwrite, fail or rename
	Shell          string        `mapstructure:"shell"`     // e.g. "bash -c"; empty uses the host default
}

// JournalConfig selects where executed actions are recorded.
type JournalConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	RedisURL string `mapstructure:"redis_url"`
	Prefix   string `mapstructure:"prefix"`
	Limit    int64  `mapstructure:"limit"`

	// Redact lists regular expressions; matching argument keys are masked before storage.
	Redact []string `mapstructure:"redact"`
	// EncryptionKey is a base64 AES-256 key. When set, arguments and errors are sealed.
	EncryptionKey string `mapstructure:"encryption_key"`
	// FallbackKeys are previous keys still accepted for reading.
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

// ServerConfig configures `deckhand serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// Token is the bearer credential for action and history routes. Empty means
	// `deckhand serve` generates one per run.
	Token          string   `mapstructure:"token"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from path, or from ./deckhand.yaml when path is empty and
// such a file exists. A .env file in the working directory is loaded first; variables
// already present in the environment win over it.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unprefixed names are accepted as fallbacks.
	_ = v.BindEnv("provider.api_key", EnvPrefix+"_PROVIDER_API_KEY", "OPENROUTER_API_KEY")
	_ = v.BindEnv("provider.model", EnvPrefix+"_PROVIDER_MODEL", "GEMINI_MODEL")

	if path == "" {
		v.SetConfigName("deckhand")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.model", "google/gemini-pro-1.5")
	v.SetDefault("provider.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("provider.referer", "https://github.com/aretw0/deckhand")
	v.SetDefault("provider.title", "Deckhand")
	v.SetDefault("provider.timeout", 0)

	v.SetDefault("actions.command_timeout", actions.DefaultCommandTimeout)
	v.SetDefault("actions.collision", string(actions.CollisionOverwrite))
	v.SetDefault("actions.shell", "")

	v.SetDefault("journal.driver", JournalNone)
	v.SetDefault("journal.path", ".deckhand/journal.jsonl")
	v.SetDefault("journal.redis_url", "redis://localhost:6379/0")
	v.SetDefault("journal.prefix", "deckhand:")
	v.SetDefault("journal.limit", 1000)
	v.SetDefault("journal.redact", middleware.DefaultRedactPatterns)
	v.SetDefault("journal.encryption_key", "")

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.token", "")
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("log.level", "warn")
}

// Validate performs sanity checks that do not depend on the command being run.
func (c *Config) Validate() error {
	if _, err := actions.ParseCollisionPolicy(c.Actions.Collision); err != nil {
		return fmt.Errorf("actions.collision: %w", err)
	}
	if c.Actions.CommandTimeout <= 0 {
		return fmt.Errorf("actions.command_timeout must be positive, got %s", c.Actions.CommandTimeout)
	}
	if c.Provider.Timeout < 0 {
		return fmt.Errorf("provider.timeout must not be negative, got %s", c.Provider.Timeout)
	}
	switch c.Journal.Driver {
	case JournalNone, JournalFile, JournalRedis:
	default:
		return fmt.Errorf("journal.driver: unknown driver %q (want none, file or redis)", c.Journal.Driver)
	}
	if c.Journal.Driver == JournalFile && c.Journal.Path == "" {
		return errors.New("journal.path is required for the file journal")
	}
	if err := middleware.CompilePatterns(c.Journal.Redact); err != nil {
		return fmt.Errorf("journal.redact: %w", err)
	}
	if c.Journal.EncryptionKey != "" {
		if _, err := c.JournalEncryption(); err != nil {
			return err
		}
	}
	return nil
}

// RequireCredential fails with domain.ErrMissingCredential when no API key is set.
// Only commands that talk to the provider call it.
func (c *Config) RequireCredential() error {
	if strings.TrimSpace(c.Provider.APIKey) == "" {
		return fmt.Errorf("%w: set OPENROUTER_API_KEY (or provider.api_key in deckhand.yaml)", domain.ErrMissingCredential)
	}
	return nil
}

// JournalEncryption decodes the journal keys. It returns nil when encryption is off.
func (c *Config) JournalEncryption() (*middleware.EncryptionConfig, error) {
	if c.Journal.EncryptionKey == "" {
		return nil, nil
	}
	active, err := middleware.ParseKey(c.Journal.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("journal.encryption_key: %w", err)
	}
	enc := &middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range c.Journal.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return nil, fmt.Errorf("journal.fallback_keys[%d]: %w", i, err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	return enc, nil
}

// CollisionPolicy returns the validated transfer collision policy.
func (c *Config) CollisionPolicy() actions.CollisionPolicy {
	p, _ := actions.ParseCollisionPolicy(c.Actions.Collision)
	return p
}
