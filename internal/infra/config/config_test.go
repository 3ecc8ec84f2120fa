package config

import (
	"testing"
	"time"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT secret is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DASH_JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Port != 8080 {
		t.Errorf("app.port = %d, want 8080", cfg.App.Port)
	}
	if cfg.JWT.TokenTTL != 24*time.Hour {
		t.Errorf("jwt.token_ttl = %v, want 24h", cfg.JWT.TokenTTL)
	}
	if cfg.JWT.Issuer != "dashboard-iam" {
		t.Errorf("jwt.issuer = %q, want dashboard-iam", cfg.JWT.Issuer)
	}
	if cfg.App.IsProduction() {
		t.Error("default env must not be production")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DASH_JWT_SECRET", "test-secret")
	t.Setenv("DASH_JWT_TOKEN_TTL", "1h")
	t.Setenv("DASH_APP_ENV", "production")
	t.Setenv("DASH_APP_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.JWT.TokenTTL != time.Hour {
		t.Errorf("jwt.token_ttl = %v, want 1h", cfg.JWT.TokenTTL)
	}
	if !cfg.App.IsProduction() {
		t.Error("env override not applied")
	}
	if cfg.App.Port != 9090 {
		t.Errorf("app.port = %d, want 9090", cfg.App.Port)
	}
}

func TestValidateRejectsNonPositiveTTL(t *testing.T) {
	cfg := &AppConfig{JWT: JWTSettings{Secret: "s", TokenTTL: 0}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero token TTL")
	}
}
