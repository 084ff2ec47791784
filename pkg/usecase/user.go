package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
	"github.com/secmon-lab/gitpoke/pkg/utils/logging"
)

// RegisterOrUpdateUser registers a GitHub user on first login and keeps
// the stored username in sync on later logins. GitHub logins can be
// renamed, so the GitHub user ID is the stable key and a drifted
// username invalidates the cache entries of both names.
func (uc *UseCases) RegisterOrUpdateUser(ctx context.Context, githubID types.GitHubUserID, username types.Username) (*model.User, error) {
	existing, err := uc.repo.User().Get(ctx, githubID)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(err, "failed to look up user", goerr.V("github_id", githubID))
		}

		user := model.NewUser(githubID, username)
		if err := uc.repo.User().Put(ctx, user); err != nil {
			return nil, goerr.Wrap(err, "failed to register user", goerr.V("github_id", githubID))
		}
		logging.From(ctx).Info("registered new user", "github_id", githubID, "username", username)
		return user, nil
	}

	if existing.Username == username {
		return existing, nil
	}

	// Username rename: stale cache under the old name must go before
	// the mutation is considered complete
	oldName := existing.Username
	if err := uc.cache.Invalidate(ctx, oldName); err != nil {
		return nil, goerr.Wrap(err, "failed to invalidate cache for renamed user", goerr.V("username", oldName))
	}

	existing.Username = username
	if err := uc.repo.User().Update(ctx, existing); err != nil {
		return nil, goerr.Wrap(err, "failed to update username", goerr.V("github_id", githubID))
	}
	if err := uc.cache.Invalidate(ctx, username); err != nil {
		return nil, goerr.Wrap(err, "failed to invalidate cache", goerr.V("username", username))
	}

	logging.From(ctx).Info("username updated",
		"github_id", githubID, "old", oldName, "new", username)

	return existing, nil
}

// GetUser retrieves a registered user by GitHub user ID
func (uc *UseCases) GetUser(ctx context.Context, githubID types.GitHubUserID) (*model.User, error) {
	user, err := uc.repo.User().Get(ctx, githubID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("github_id", githubID))
	}

	return user, nil
}

// UpdatePokeSetting changes who may poke the user. The cache is
// invalidated first so no badge or authorization decision is served
// from pre-mutation state.
func (uc *UseCases) UpdatePokeSetting(ctx context.Context, githubID types.GitHubUserID, setting types.PokeSetting) (*model.User, error) {
	if !setting.IsValid() {
		return nil, goerr.New("invalid poke setting", goerr.V("setting", setting))
	}

	user, err := uc.repo.User().Get(ctx, githubID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("github_id", githubID))
	}

	if err := uc.cache.Invalidate(ctx, user.Username); err != nil {
		return nil, goerr.Wrap(err, "failed to invalidate cache", goerr.V("username", user.Username))
	}

	user.PokeSetting = setting
	if err := uc.repo.User().Update(ctx, user); err != nil {
		return nil, goerr.Wrap(err, "failed to update poke setting", goerr.V("github_id", githubID))
	}

	return user, nil
}

// DeleteAccount removes the user, their session tokens, their poke
// events, and their cached state. Cache invalidation happens before
// the deletes so stale authorization state cannot outlive the account.
func (uc *UseCases) DeleteAccount(ctx context.Context, githubID types.GitHubUserID) error {
	user, err := uc.repo.User().Get(ctx, githubID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrNotRegistered
		}
		return goerr.Wrap(err, "failed to get user", goerr.V("github_id", githubID))
	}

	if err := uc.cache.Invalidate(ctx, user.Username); err != nil {
		return goerr.Wrap(err, "failed to invalidate cache", goerr.V("username", user.Username))
	}

	if err := uc.repo.DeleteTokensByGitHubID(ctx, githubID); err != nil {
		return goerr.Wrap(err, "failed to delete session tokens", goerr.V("github_id", githubID))
	}

	if err := uc.repo.PokeEvent().DeleteByUser(ctx, user.Username); err != nil {
		return goerr.Wrap(err, "failed to delete poke events", goerr.V("username", user.Username))
	}

	if err := uc.repo.User().Delete(ctx, githubID); err != nil {
		return goerr.Wrap(err, "failed to delete user", goerr.V("github_id", githubID))
	}

	logging.From(ctx).Info("account deleted", "github_id", githubID, "username", user.Username)

	return nil
}
