package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
	"github.com/secmon-lab/gitpoke/pkg/service/github"
)

// Badge is a rendered badge plus whether it was served from cache
type Badge struct {
	Artifact *model.BadgeArtifact
	CacheHit bool
}

// GetBadge returns the activity badge of a GitHub user. Cached artifacts
// are served as-is; on a miss the badge is rendered from fresh activity
// data and written back to both cache tiers. An unknown login yields the
// "User not found" badge rather than an error.
func (uc *UseCases) GetBadge(ctx context.Context, username types.Username, interactive bool) (*Badge, error) {
	if artifact, err := uc.cache.GetBadge(ctx, username); err == nil && artifact != nil {
		// Artifacts are cached per user, not per variant. A cached
		// static badge might be static because the user is active or
		// ineligible, which an interactive request cannot tell from
		// the artifact alone, so only serve an exact variant match.
		if artifact.Interactive == interactive {
			return &Badge{Artifact: artifact, CacheHit: true}, nil
		}
	}

	state, err := uc.badgeState(ctx, username, interactive)
	if err != nil {
		return nil, err
	}

	artifact := model.RenderBadge(state)
	uc.cache.PutBadge(ctx, username, artifact)

	return &Badge{Artifact: artifact}, nil
}

func (uc *UseCases) badgeState(ctx context.Context, username types.Username, interactive bool) (model.BadgeState, error) {
	activity, err := uc.cache.GetActivity(ctx, username)
	if err != nil {
		if errors.Is(err, github.ErrUserNotFound) {
			return model.NotFoundBadgeState(username), nil
		}
		return model.BadgeState{}, err
	}

	state := model.ClassifyActivity(activity, time.Now().UTC())

	eligible := false
	if user, err := uc.repo.User().GetByUsername(ctx, username); err == nil {
		eligible = user.AcceptsPoke()
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return model.BadgeState{}, err
	}

	return model.NewBadgeState(username, state, eligible, interactive), nil
}
