package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
	"github.com/secmon-lab/gitpoke/pkg/domain/model/auth"
	"golang.org/x/oauth2"
	oauth2github "golang.org/x/oauth2/github"
)

// AuthUseCaseInterface abstracts authentication so the HTTP layer can
// run with real GitHub OAuth or the no-authn development variant.
type AuthUseCaseInterface interface {
	GetAuthURL(state string) string
	HandleCallback(ctx context.Context, code string) (*auth.Token, error)
	ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error)
	Logout(ctx context.Context, tokenID auth.TokenID) error
	IsNoAuthn() bool
}

type AuthUseCase struct {
	repo   interfaces.Repository
	github interfaces.GitHubClient
	config *oauth2.Config
	cache  *authCache
}

var _ AuthUseCaseInterface = &AuthUseCase{}

func NewAuthUseCase(repo interfaces.Repository, github interfaces.GitHubClient, clientID, clientSecret, callbackURL string) *AuthUseCase {
	return &AuthUseCase{
		repo:   repo,
		github: github,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     oauth2github.Endpoint,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:follow"},
		},
		cache: newAuthCache(),
	}
}

// GetAuthURL returns the URL for GitHub OAuth
func (uc *AuthUseCase) GetAuthURL(state string) string {
	return uc.config.AuthCodeURL(state)
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// HandleCallback exchanges the authorization code, resolves the GitHub
// identity behind it, and issues a session token.
func (uc *AuthUseCase) HandleCallback(ctx context.Context, code string) (*auth.Token, error) {
	oauthToken, err := uc.config.Exchange(ctx, code)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to exchange code for token")
	}

	githubID, username, err := uc.github.FetchAuthenticatedUser(ctx, oauthToken.AccessToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve authenticated user")
	}

	token := auth.NewToken(githubID, username, oauthToken.AccessToken)
	if err := uc.repo.PutToken(ctx, token); err != nil {
		return nil, goerr.Wrap(err, "failed to store token", goerr.V("token_id", token.ID))
	}

	return token, nil
}

// ValidateToken validates the token and returns the session
func (uc *AuthUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	return uc.validateTokenWithCache(ctx, tokenID, tokenSecret)
}

// Logout deletes the token
func (uc *AuthUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	// Remove from cache first
	uc.cache.remove(tokenID)

	// Then remove from repository
	return uc.repo.DeleteToken(ctx, tokenID)
}
