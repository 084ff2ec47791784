package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
	"github.com/secmon-lab/gitpoke/pkg/service/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds CLI flags for the origin GitHub API client. Either a
// GitHub App credential set or a plain access token can be used; the
// App is preferred for its higher rate limits.
type GitHub struct {
	appID          int64
	installationID int64
	privateKey     string
	token          string
}

// Flags returns CLI flags for GitHub client configuration
func (g *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Sources:     cli.EnvVars("GITPOKE_GITHUB_APP_ID"),
			Destination: &g.appID,
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App Installation ID",
			Sources:     cli.EnvVars("GITPOKE_GITHUB_APP_INSTALLATION_ID"),
			Destination: &g.installationID,
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App Private Key (PEM string or file path)",
			Sources:     cli.EnvVars("GITPOKE_GITHUB_APP_PRIVATE_KEY"),
			Destination: &g.privateKey,
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub access token (fallback when no App is configured)",
			Sources:     cli.EnvVars("GITPOKE_GITHUB_TOKEN"),
			Destination: &g.token,
		},
	}
}

// LogAttrs returns log attributes for the GitHub configuration (secrets hidden)
func (g *GitHub) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Int64("app_id", g.appID),
		slog.Int64("installation_id", g.installationID),
		slog.Bool("token_configured", g.token != ""),
	}
}

func (g *GitHub) isAppConfigured() bool {
	return g.appID != 0 && g.installationID != 0 && g.privateKey != ""
}

// Configure creates the origin GitHub client from the configured flags
func (g *GitHub) Configure() (interfaces.GitHubClient, error) {
	if g.isAppConfigured() {
		client, err := github.New(g.appID, g.installationID, g.privateKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GitHub App client")
		}
		return client, nil
	}

	if g.token != "" {
		return github.NewWithToken(g.token), nil
	}

	return nil, goerr.New("GitHub credentials are required (App or token)")
}
