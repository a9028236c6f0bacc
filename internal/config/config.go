package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	API   APIConfig   `mapstructure:"api" yaml:"api"`
	Auth  AuthConfig  `mapstructure:"auth" yaml:"auth"`
	Poll  PollConfig  `mapstructure:"poll" yaml:"poll"`
	Queue QueueConfig `mapstructure:"queue" yaml:"queue"`
	AI    AIConfig    `mapstructure:"ai" yaml:"ai"`
}

type APIConfig struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	UserID         string `mapstructure:"user_id" yaml:"user_id"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

type AuthConfig struct {
	Email string `mapstructure:"email" yaml:"email"`

	// TokenSource records where the session token came from (env, keyring,
	// offline); it is resolved at load time and never persisted.
	TokenSource string `mapstructure:"-" yaml:"-"`
}

type PollConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds" yaml:"interval_seconds"`
	FetchLimit      int `mapstructure:"fetch_limit" yaml:"fetch_limit"`
}

type QueueConfig struct {
	// UndoSeconds is the countdown before a queued action commits.
	UndoSeconds int `mapstructure:"undo_seconds" yaml:"undo_seconds"`
	// LingerSeconds is how long a completed item stays visible before it is
	// reaped from the queue.
	LingerSeconds int `mapstructure:"linger_seconds" yaml:"linger_seconds"`
}

type AIConfig struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	APIKey   string `mapstructure:"api_key" yaml:"api_key"`
}

func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "http://localhost:3001",
			TimeoutSeconds: 30,
		},
		Poll: PollConfig{
			IntervalSeconds: 60,
			FetchLimit:      50,
		},
		Queue: QueueConfig{
			UndoSeconds:   5,
			LingerSeconds: 3,
		},
	}
}

func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.yaml"), nil
}

func Load() (Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("IAMMAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func Save(cfg Config) (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}

	return path, nil
}

func Redact(cfg Config) Config {
	masked := cfg
	if masked.AI.APIKey != "" {
		masked.AI.APIKey = "****"
	}
	return masked
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout_seconds", cfg.API.TimeoutSeconds)

	v.SetDefault("poll.interval_seconds", cfg.Poll.IntervalSeconds)
	v.SetDefault("poll.fetch_limit", cfg.Poll.FetchLimit)

	v.SetDefault("queue.undo_seconds", cfg.Queue.UndoSeconds)
	v.SetDefault("queue.linger_seconds", cfg.Queue.LingerSeconds)
}

func Validate(cfg Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if cfg.Poll.IntervalSeconds <= 0 {
		return fmt.Errorf("poll.interval_seconds must be positive")
	}
	if cfg.Queue.UndoSeconds < 0 {
		return fmt.Errorf("queue.undo_seconds must not be negative")
	}
	return nil
}

func ValidateAuth(cfg Config) error {
	if cfg.Auth.Email == "" {
		return fmt.Errorf("auth.email is required; run 'iammail auth login' first")
	}
	return nil
}

func ValidateAI(cfg Config) error {
	if cfg.AI.Endpoint == "" {
		return fmt.Errorf("ai.endpoint is required")
	}
	if cfg.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required")
	}
	return nil
}
