package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/gitpoke/pkg/domain/model/auth"
	"github.com/secmon-lab/gitpoke/pkg/repository/memory"
	"github.com/secmon-lab/gitpoke/pkg/usecase"
)

func TestAuthUseCase_ValidateToken(t *testing.T) {
	ctx := context.Background()

	newAuth := func(repo *memory.Memory) *usecase.AuthUseCase {
		return usecase.NewAuthUseCase(repo, newMockGitHub(), "client-id", "client-secret", "http://localhost:8080/api/auth/callback")
	}

	t.Run("accepts a stored token", func(t *testing.T) {
		repo := memory.New()
		authUC := newAuth(repo)

		token := auth.NewToken(100, "alice", "gho_test")
		gt.NoError(t, repo.PutToken(ctx, token)).Required()

		got, err := authUC.ValidateToken(ctx, token.ID, token.Secret)
		gt.NoError(t, err).Required()
		gt.V(t, got.Username).Equal(token.Username)
		gt.V(t, got.GitHubID).Equal(token.GitHubID)
	})

	t.Run("rejects a wrong secret", func(t *testing.T) {
		repo := memory.New()
		authUC := newAuth(repo)

		token := auth.NewToken(100, "alice", "gho_test")
		gt.NoError(t, repo.PutToken(ctx, token)).Required()

		_, err := authUC.ValidateToken(ctx, token.ID, auth.NewTokenSecret())
		gt.Error(t, err)
	})

	t.Run("rejects an unknown token", func(t *testing.T) {
		repo := memory.New()
		authUC := newAuth(repo)

		_, err := authUC.ValidateToken(ctx, auth.NewTokenID(), auth.NewTokenSecret())
		gt.Error(t, err)
	})

	t.Run("rejects and deletes an expired token", func(t *testing.T) {
		repo := memory.New()
		authUC := newAuth(repo)

		token := auth.NewToken(100, "alice", "gho_test")
		token.ExpiresAt = time.Now().Add(-time.Hour)
		gt.NoError(t, repo.PutToken(ctx, token)).Required()

		_, err := authUC.ValidateToken(ctx, token.ID, token.Secret)
		gt.Error(t, err)

		_, err = repo.GetToken(ctx, token.ID)
		gt.Error(t, err)
	})

	t.Run("second validation hits the cache", func(t *testing.T) {
		repo := memory.New()
		authUC := newAuth(repo)

		token := auth.NewToken(100, "alice", "gho_test")
		gt.NoError(t, repo.PutToken(ctx, token)).Required()

		_, err := authUC.ValidateToken(ctx, token.ID, token.Secret)
		gt.NoError(t, err).Required()

		// Repository deletion is not visible until the cache entry ages out
		gt.NoError(t, repo.DeleteToken(ctx, token.ID))
		got, err := authUC.ValidateToken(ctx, token.ID, token.Secret)
		gt.NoError(t, err).Required()
		gt.V(t, got.ID).Equal(token.ID)
	})

	t.Run("logout drops the token and its cache entry", func(t *testing.T) {
		repo := memory.New()
		authUC := newAuth(repo)

		token := auth.NewToken(100, "alice", "gho_test")
		gt.NoError(t, repo.PutToken(ctx, token)).Required()

		_, err := authUC.ValidateToken(ctx, token.ID, token.Secret)
		gt.NoError(t, err).Required()

		gt.NoError(t, authUC.Logout(ctx, token.ID))

		_, err = authUC.ValidateToken(ctx, token.ID, token.Secret)
		gt.Error(t, err)
	})
}

func TestNoAuthnUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a fixed identity", func(t *testing.T) {
		authUC := usecase.NewNoAuthnUseCase(1, "anonymous")
		gt.True(t, authUC.IsNoAuthn())

		token, err := authUC.HandleCallback(ctx, "no-authn")
		gt.NoError(t, err).Required()

		got, err := authUC.ValidateToken(ctx, token.ID, token.Secret)
		gt.NoError(t, err).Required()
		gt.V(t, got.Username).Equal(token.Username)
	})

	t.Run("rejects foreign tokens", func(t *testing.T) {
		authUC := usecase.NewNoAuthnUseCase(1, "anonymous")

		_, err := authUC.ValidateToken(ctx, auth.NewTokenID(), auth.NewTokenSecret())
		gt.Error(t, err)
	})
}
