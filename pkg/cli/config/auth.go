package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
	"github.com/secmon-lab/gitpoke/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Auth holds CLI flags for the GitHub OAuth flow
type Auth struct {
	clientID     string
	clientSecret string
	callbackURL  string
	noAuthnUser  string
}

// Flags returns CLI flags for OAuth configuration
func (a *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-client-id",
			Usage:       "GitHub OAuth App client ID",
			Sources:     cli.EnvVars("GITPOKE_GITHUB_CLIENT_ID"),
			Destination: &a.clientID,
		},
		&cli.StringFlag{
			Name:        "github-client-secret",
			Usage:       "GitHub OAuth App client secret",
			Sources:     cli.EnvVars("GITPOKE_GITHUB_CLIENT_SECRET"),
			Destination: &a.clientSecret,
		},
		&cli.StringFlag{
			Name:        "oauth-callback-url",
			Usage:       "OAuth callback URL (e.g. https://gitpoke.dev/api/auth/callback)",
			Sources:     cli.EnvVars("GITPOKE_OAUTH_CALLBACK_URL"),
			Destination: &a.callbackURL,
		},
		&cli.StringFlag{
			Name:        "no-authn",
			Usage:       "Skip GitHub OAuth and act as the given username (development only). Example: --no-authn=octocat",
			Category:    "Authentication",
			Sources:     cli.EnvVars("GITPOKE_NO_AUTHN"),
			Destination: &a.noAuthnUser,
		},
	}
}

// LogAttrs returns log attributes for the auth configuration (secrets hidden)
func (a *Auth) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("client_id", a.clientID),
		slog.String("callback_url", a.callbackURL),
		slog.Bool("no_authn", a.noAuthnUser != ""),
	}
}

// IsNoAuthnMode reports whether authentication is bypassed
func (a *Auth) IsNoAuthnMode() bool {
	return a.noAuthnUser != ""
}

// Configure builds the authentication use case from the flags
func (a *Auth) Configure(repo interfaces.Repository, github interfaces.GitHubClient) (usecase.AuthUseCaseInterface, error) {
	if a.noAuthnUser != "" {
		username, err := types.ParseUsername(a.noAuthnUser)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid no-authn username", goerr.V("username", a.noAuthnUser))
		}
		return usecase.NewNoAuthnUseCase(1, username), nil
	}

	if a.clientID == "" || a.clientSecret == "" {
		return nil, goerr.New("github-client-id and github-client-secret are required")
	}
	if a.callbackURL == "" {
		return nil, goerr.New("oauth-callback-url is required")
	}

	return usecase.NewAuthUseCase(repo, github, a.clientID, a.clientSecret, a.callbackURL), nil
}
