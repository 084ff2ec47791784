package interfaces

import (
	"context"

	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
)

// UserRepository defines the interface for registered user data access
type UserRepository interface {
	// Put creates or replaces a user keyed by GitHub user ID
	Put(ctx context.Context, user *model.User) error

	// Get retrieves a user by GitHub user ID
	Get(ctx context.Context, githubID types.GitHubUserID) (*model.User, error)

	// GetByUsername retrieves a user by their current username.
	// Returns ErrNotFound when the username is not registered.
	GetByUsername(ctx context.Context, username types.Username) (*model.User, error)

	// Update replaces an existing user and bumps UpdatedAt.
	// Returns ErrNotFound when the user does not exist.
	Update(ctx context.Context, user *model.User) error

	// Delete removes a user by GitHub user ID
	Delete(ctx context.Context, githubID types.GitHubUserID) error
}
