package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/gitpoke/pkg/service/ratelimit"
	"github.com/urfave/cli/v3"
)

// AppConfig is the optional TOML tuning file. Absent values keep the
// built-in defaults.
type AppConfig struct {
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// RateLimitConfig tunes the per-IP poke rate limit
type RateLimitConfig struct {
	Limit         int64 `toml:"limit"`
	WindowSeconds int64 `toml:"window_seconds"`
}

// Validate checks if the RateLimitConfig is valid
func (r *RateLimitConfig) Validate() error {
	if r.Limit < 0 {
		return goerr.New("rate limit must not be negative", goerr.V("limit", r.Limit))
	}
	if r.WindowSeconds < 0 {
		return goerr.New("rate limit window must not be negative", goerr.V("window_seconds", r.WindowSeconds))
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if err := a.RateLimit.Validate(); err != nil {
		return goerr.Wrap(err, "invalid rate limit config")
	}
	return nil
}

// RateLimitOptions converts the config into limiter options
func (a *AppConfig) RateLimitOptions() []ratelimit.Option {
	var opts []ratelimit.Option
	if a.RateLimit.Limit > 0 {
		opts = append(opts, ratelimit.WithLimit(a.RateLimit.Limit))
	}
	if a.RateLimit.WindowSeconds > 0 {
		opts = append(opts, ratelimit.WithWindow(time.Duration(a.RateLimit.WindowSeconds)*time.Second))
	}
	return opts
}

// App holds the CLI flag pointing at the TOML tuning file
type App struct {
	path string
}

// Flags returns CLI flags for app configuration
func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML tuning file",
			Sources:     cli.EnvVars("GITPOKE_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads and validates the TOML file. Returns an empty config
// when no path is given.
func (a *App) Configure() (*AppConfig, error) {
	var config AppConfig
	if a.path == "" {
		return &config, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", a.path))
	}

	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", a.path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V("path", a.path))
	}

	return &config, nil
}
