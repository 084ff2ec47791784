package interfaces

import (
	"context"

	"github.com/secmon-lab/gitpoke/pkg/domain/model/auth"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	User() UserRepository
	PokeEvent() PokeEventRepository

	// Auth methods
	PutToken(ctx context.Context, token *auth.Token) error
	GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error)
	DeleteToken(ctx context.Context, tokenID auth.TokenID) error
	DeleteTokensByGitHubID(ctx context.Context, githubID types.GitHubUserID) error

	Close() error
}
