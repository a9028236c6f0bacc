package cli

import (
	"errors"
	"log/slog"
	"os"

	"iammail/internal/api"
	"iammail/internal/config"
	"iammail/internal/mailbox"
	"iammail/internal/secrets"
	"iammail/internal/store"
)

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}

	if _, ok := os.LookupEnv("IAMMAIL_AUTH_TOKEN"); ok {
		cfg.Auth.TokenSource = "env"
		return cfg, nil
	}

	if cfg.Auth.Email == "" {
		return cfg, nil
	}

	if _, err := secrets.GetToken(cfg.Auth.Email); err != nil {
		if errors.Is(err, secrets.ErrSecretNotFound) {
			return cfg, nil
		}
		return cfg, err
	}

	cfg.Auth.TokenSource = "keyring"
	return cfg, nil
}

// newLogger builds the logger for one-shot commands: warnings only, on
// stderr, so fail-soft paths stay visible without polluting table output.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func openMailbox(logger *slog.Logger) (*mailbox.Mailbox, error) {
	dir, err := config.EnsureStateDir()
	if err != nil {
		return nil, err
	}
	return mailbox.Open(store.New(dir), logger)
}

func openStore() (*store.Store, error) {
	dir, err := config.EnsureStateDir()
	if err != nil {
		return nil, err
	}
	return store.New(dir), nil
}

// newClient wires the API client with a lazy token lookup: the keyring is
// only opened when a request actually needs the token.
func newClient(cfg config.Config, logger *slog.Logger) *api.Client {
	client := api.New(cfg, logger)
	client.Token = func() string {
		token, err := secrets.GetToken(cfg.Auth.Email)
		if err != nil {
			return ""
		}
		return token
	}
	return client
}
