package config

import "testing"

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LOW_STOCK_THRESHOLD", "")
	t.Setenv("ANALYTICS_CACHE_TTL_SECONDS", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.LowStockThreshold != 5 {
		t.Fatalf("expected default low stock threshold 5, got %d", cfg.LowStockThreshold)
	}
	if cfg.AnalyticsCacheTTLSeconds != 60 {
		t.Fatalf("expected default cache TTL 60, got %d", cfg.AnalyticsCacheTTLSeconds)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("expected address :8080, got %q", cfg.Address())
	}
}

func TestLoadRejectsInvalidNumericOverrides(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "not-a-number")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "-3")

	cfg := Load()
	if cfg.LowStockThreshold != 5 {
		t.Fatalf("expected fallback threshold 5, got %d", cfg.LowStockThreshold)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("expected fallback token TTL 480, got %d", cfg.AccessTokenTTLMinutes)
	}
}
