package config

import (
	"testing"
	"time"
)

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("GOOGLE_CLIENT_ID", "client")
	t.Setenv("AI_MAX_RETRIES", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port 9090 got %s", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.JWT.Expiry != 2*time.Hour {
		t.Fatalf("expected 2h expiry got %s", cfg.JWT.Expiry)
	}
	if cfg.OAuth.Google.ClientID != "client" {
		t.Fatalf("expected google client id to be read, got %q", cfg.OAuth.Google.ClientID)
	}
	if cfg.OAuth.Google.Enabled() {
		t.Fatalf("google login must stay disabled without a client secret")
	}
	if cfg.AI.MaxRetries != 4 {
		t.Fatalf("expected 4 retries got %d", cfg.AI.MaxRetries)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.JWT.Expiry != time.Hour {
		t.Fatalf("expected default 1h token expiry got %s", cfg.JWT.Expiry)
	}
	if cfg.Mail.Service != "Gmail" {
		t.Fatalf("expected Gmail mail service got %s", cfg.Mail.Service)
	}
	if cfg.Mongo.Database != "audio_text" {
		t.Fatalf("unexpected mongo database %s", cfg.Mongo.Database)
	}
}

func TestValidate_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	if _, err := Load(); err == nil {
		t.Fatalf("expected production config without secrets to fail")
	}

	t.Setenv("JWT_SECRET", "prod-jwt")
	t.Setenv("SESSION_SECRET", "prod-session")
	if _, err := Load(); err != nil {
		t.Fatalf("expected production config with secrets to load: %v", err)
	}
}
