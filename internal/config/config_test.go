package config

import (
	"testing"
)

func TestLoadConfigWithEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://mail.example.com"
	cfg.Auth.Email = "user@example.com"

	if _, err := Save(cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	t.Setenv("IAMMAIL_API_BASE_URL", "https://env.mail.local")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if loaded.API.BaseURL != "https://env.mail.local" {
		t.Fatalf("expected env override, got %q", loaded.API.BaseURL)
	}
	if loaded.Auth.Email != "user@example.com" {
		t.Fatalf("expected email from file, got %q", loaded.Auth.Email)
	}
	if loaded.Poll.IntervalSeconds != 60 {
		t.Fatalf("expected default poll interval, got %d", loaded.Poll.IntervalSeconds)
	}
}

func TestRedactMasksAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AI.APIKey = "secret"

	masked := Redact(cfg)
	if masked.AI.APIKey != "****" {
		t.Fatalf("expected masked key, got %q", masked.AI.APIKey)
	}
	if cfg.AI.APIKey != "secret" {
		t.Fatalf("redact must not mutate the original")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	cfg.API.BaseURL = ""
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for missing base URL")
	}
}
