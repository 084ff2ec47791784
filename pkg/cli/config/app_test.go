package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/secmon-lab/gitpoke/pkg/cli/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gitpoke.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestAppConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := config.AppConfig{
			RateLimit: config.RateLimitConfig{Limit: 5, WindowSeconds: 30},
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if got := len(cfg.RateLimitOptions()); got != 2 {
			t.Errorf("expected 2 limiter options, got %d", got)
		}
	})

	t.Run("zero values keep defaults", func(t *testing.T) {
		var cfg config.AppConfig
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if got := len(cfg.RateLimitOptions()); got != 0 {
			t.Errorf("expected no limiter options, got %d", got)
		}
	})

	t.Run("negative limit is rejected", func(t *testing.T) {
		cfg := config.AppConfig{
			RateLimit: config.RateLimitConfig{Limit: -1},
		}
		if err := cfg.Validate(); err == nil {
			t.Error("expected validation error")
		}
	})
}

func TestAppConfigure(t *testing.T) {
	t.Run("loads a TOML file", func(t *testing.T) {
		path := writeConfig(t, "[rate_limit]\nlimit = 20\nwindow_seconds = 120\n")

		cfg, err := config.NewAppWithPath(path).Configure()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.RateLimit.Limit != 20 {
			t.Errorf("expected limit 20, got %d", cfg.RateLimit.Limit)
		}
		if cfg.RateLimit.WindowSeconds != 120 {
			t.Errorf("expected window 120, got %d", cfg.RateLimit.WindowSeconds)
		}
	})

	t.Run("missing path yields an empty config", func(t *testing.T) {
		cfg, err := config.NewAppWithPath("").Configure()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.RateLimitOptions()) != 0 {
			t.Error("expected empty config")
		}
	})

	t.Run("broken TOML is rejected", func(t *testing.T) {
		path := writeConfig(t, "[rate_limit\nlimit = ")

		if _, err := config.NewAppWithPath(path).Configure(); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("negative values fail validation", func(t *testing.T) {
		path := writeConfig(t, "[rate_limit]\nlimit = -3\n")

		if _, err := config.NewAppWithPath(path).Configure(); err == nil {
			t.Error("expected validation error")
		}
	})
}
