package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/model/auth"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
)

// NoAuthnUseCase skips the GitHub OAuth flow and hands out a fixed
// identity. Local development only.
type NoAuthnUseCase struct {
	token *auth.Token
}

var _ AuthUseCaseInterface = &NoAuthnUseCase{}

func NewNoAuthnUseCase(githubID types.GitHubUserID, username types.Username) *NoAuthnUseCase {
	token := auth.NewToken(githubID, username, "")
	// Keep the anonymous session alive for the lifetime of the process
	token.ExpiresAt = time.Now().Add(24 * 365 * time.Hour)

	return &NoAuthnUseCase{token: token}
}

func (uc *NoAuthnUseCase) GetAuthURL(state string) string {
	return "/api/auth/callback?code=no-authn&state=" + state
}

func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}

func (uc *NoAuthnUseCase) HandleCallback(ctx context.Context, code string) (*auth.Token, error) {
	return uc.token, nil
}

func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	if tokenID != uc.token.ID || tokenSecret != uc.token.Secret {
		return nil, goerr.New("invalid token", goerr.V("token_id", tokenID))
	}
	return uc.token, nil
}

func (uc *NoAuthnUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	return nil
}
