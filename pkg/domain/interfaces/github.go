package interfaces

import (
	"context"

	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
)

// GitHubClient defines the interface for the origin activity source
type GitHubClient interface {
	// FetchActivity retrieves the contribution activity of a user.
	// Returns ErrUserNotFound when the login does not exist.
	FetchActivity(ctx context.Context, username types.Username) (*model.Activity, error)

	// FetchFollowRelation resolves the follow relation between the
	// owner of the access token (the sender) and a recipient login.
	FetchFollowRelation(ctx context.Context, accessToken string, recipient types.Username) (types.FollowRelation, error)

	// FetchAuthenticatedUser retrieves the identity behind an OAuth
	// access token.
	FetchAuthenticatedUser(ctx context.Context, accessToken string) (types.GitHubUserID, types.Username, error)
}

// Notifier delivers best-effort poke notifications. Failures are logged
// and never propagate to the poke operation.
type Notifier interface {
	NotifyPoke(ctx context.Context, event *model.PokeEvent) error
}
