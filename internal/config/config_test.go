package config

import (
	"testing"
	"time"
)

func TestFirstNonEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"all empty", []string{"", "   "}, ""},
		{"first non empty", []string{"foo", "bar"}, "foo"},
		{"skips whitespace", []string{"   ", "bar"}, "bar"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := firstNonEmpty(tt.values...); got != tt.want {
				t.Fatalf("firstNonEmpty(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestParseHelpersFallBackOnBadInput(t *testing.T) {
	t.Parallel()

	if got := parseIntWithDefault("", 7); got != 7 {
		t.Fatalf("parseIntWithDefault blank = %d, want 7", got)
	}
	if got := parseIntWithDefault("abc", 3); got != 3 {
		t.Fatalf("parseIntWithDefault invalid = %d, want 3", got)
	}
	if got := parseIntWithDefault("42", 0); got != 42 {
		t.Fatalf("parseIntWithDefault valid = %d, want 42", got)
	}

	def := 5 * time.Second
	if got := parseDurationWithDefault("nonsense", def); got != def {
		t.Fatalf("parseDurationWithDefault invalid = %s, want %s", got, def)
	}
	if got := parseDurationWithDefault("2m", def); got != 2*time.Minute {
		t.Fatalf("parseDurationWithDefault valid = %s", got)
	}

	if got := parseBoolWithDefault("nope", true); got != true {
		t.Fatalf("parseBoolWithDefault invalid = %t, want true", got)
	}
	if got := parseBoolWithDefault("true", false); got != true {
		t.Fatalf("parseBoolWithDefault valid = %t, want true", got)
	}
}

func TestLoadUsesEnvironmentDefaults(t *testing.T) {
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("ADDR", "")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("DATABASE_MAX_IDLE_CONNS", "10")
	t.Setenv("DATABASE_CONN_MAX_LIFETIME", "1h")
	t.Setenv("DATABASE_USE_MOCK", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SESSION_LIFETIME", "45m")
	t.Setenv("SESSION_COOKIE_NAME", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AI_MODEL", "")
	t.Setenv("CATALOG_BASE_URL", "http://gateway.local:9999")
	t.Setenv("CATALOG_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Database.URL != "postgres://example" {
		t.Fatalf("Database.URL = %q", cfg.Database.URL)
	}
	if cfg.Database.MaxIdleConns != 10 {
		t.Fatalf("Database.MaxIdleConns = %d", cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnMaxLifetime != time.Hour {
		t.Fatalf("Database.ConnMaxLifetime = %s", cfg.Database.ConnMaxLifetime)
	}
	if !cfg.Database.UseMock {
		t.Fatalf("Database.UseMock = %t, want true", cfg.Database.UseMock)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Auth.Session.Lifetime != 45*time.Minute {
		t.Fatalf("Auth.Session.Lifetime = %s", cfg.Auth.Session.Lifetime)
	}
	if cfg.Auth.Session.CookieName != "larder_session" {
		t.Fatalf("Auth.Session.CookieName = %q", cfg.Auth.Session.CookieName)
	}
	if cfg.AI.APIKey != "sk-test" {
		t.Fatalf("AI.APIKey = %q", cfg.AI.APIKey)
	}
	if cfg.AI.Timeout != 60*time.Second {
		t.Fatalf("AI.Timeout = %s", cfg.AI.Timeout)
	}
	if cfg.Catalog.BaseURL != "http://gateway.local:9999" {
		t.Fatalf("Catalog.BaseURL = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.Timeout != 3*time.Second {
		t.Fatalf("Catalog.Timeout = %s", cfg.Catalog.Timeout)
	}
}

func TestLoadPrefersServerAddr(t *testing.T) {
	t.Setenv("SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("DATABASE_URL", "postgres://example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("Server.Addr = %q, want %q", cfg.Server.Addr, "127.0.0.1:9000")
	}
}

func TestLoadCatalogDefaults(t *testing.T) {
	t.Setenv("CATALOG_BASE_URL", "")
	t.Setenv("WOOLWORTHS_MCP_URL", "")
	t.Setenv("CATALOG_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Catalog.BaseURL != "http://localhost:8081" {
		t.Fatalf("Catalog.BaseURL = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.Timeout != 10*time.Second {
		t.Fatalf("Catalog.Timeout = %s", cfg.Catalog.Timeout)
	}
}
