package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
	"github.com/secmon-lab/gitpoke/pkg/repository/firestore"
	"github.com/secmon-lab/gitpoke/pkg/repository/memory"
)

func isNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)
}

func runUserRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Run("Put and Get", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user := model.NewUser(types.GitHubUserID(12345), types.Username("octocat"))

		if err := repo.User().Put(ctx, user); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		retrieved, err := repo.User().Get(ctx, user.GitHubID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}

		if retrieved.GitHubID != user.GitHubID {
			t.Errorf("GitHubID mismatch: got %v, want %v", retrieved.GitHubID, user.GitHubID)
		}
		if retrieved.Username != user.Username {
			t.Errorf("Username mismatch: got %v, want %v", retrieved.Username, user.Username)
		}
		if retrieved.PokeSetting != types.DefaultPokeSetting {
			t.Errorf("PokeSetting mismatch: got %v, want %v", retrieved.PokeSetting, types.DefaultPokeSetting)
		}
	})

	t.Run("Get not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.User().Get(ctx, types.GitHubUserID(99999))
		if err == nil {
			t.Fatal("Expected error for non-existent user, got nil")
		}
		if !isNotFound(err) {
			t.Errorf("Expected NotFound error, got: %v", err)
		}
	})

	t.Run("GetByUsername", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user := model.NewUser(types.GitHubUserID(23456), types.Username("hubber"))
		if err := repo.User().Put(ctx, user); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		retrieved, err := repo.User().GetByUsername(ctx, user.Username)
		if err != nil {
			t.Fatalf("GetByUsername failed: %v", err)
		}
		if retrieved.GitHubID != user.GitHubID {
			t.Errorf("GitHubID mismatch: got %v, want %v", retrieved.GitHubID, user.GitHubID)
		}

		_, err = repo.User().GetByUsername(ctx, types.Username("nobody"))
		if err == nil {
			t.Fatal("Expected error for unknown username, got nil")
		}
		if !isNotFound(err) {
			t.Errorf("Expected NotFound error, got: %v", err)
		}
	})

	t.Run("Update changes setting and bumps UpdatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user := model.NewUser(types.GitHubUserID(34567), types.Username("sleeper"))
		if err := repo.User().Put(ctx, user); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		user.PokeSetting = types.PokeSettingMutualOnly
		if err := repo.User().Update(ctx, user); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		retrieved, err := repo.User().Get(ctx, user.GitHubID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if retrieved.PokeSetting != types.PokeSettingMutualOnly {
			t.Errorf("PokeSetting mismatch: got %v, want %v", retrieved.PokeSetting, types.PokeSettingMutualOnly)
		}
		if retrieved.UpdatedAt.Before(retrieved.CreatedAt) {
			t.Errorf("UpdatedAt %v is before CreatedAt %v", retrieved.UpdatedAt, retrieved.CreatedAt)
		}
	})

	t.Run("Update not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		ghost := model.NewUser(types.GitHubUserID(45678), types.Username("ghost"))
		err := repo.User().Update(ctx, ghost)
		if err == nil {
			t.Fatal("Expected error for updating non-existent user, got nil")
		}
		if !isNotFound(err) {
			t.Errorf("Expected NotFound error, got: %v", err)
		}
	})

	t.Run("Username rename is visible through GetByUsername", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user := model.NewUser(types.GitHubUserID(56789), types.Username("oldname"))
		if err := repo.User().Put(ctx, user); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		user.Username = types.Username("newname")
		if err := repo.User().Update(ctx, user); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		if _, err := repo.User().GetByUsername(ctx, types.Username("oldname")); !isNotFound(err) {
			t.Errorf("Expected NotFound for old username, got: %v", err)
		}
		retrieved, err := repo.User().GetByUsername(ctx, types.Username("newname"))
		if err != nil {
			t.Fatalf("GetByUsername failed after rename: %v", err)
		}
		if retrieved.GitHubID != user.GitHubID {
			t.Errorf("GitHubID mismatch after rename: got %v, want %v", retrieved.GitHubID, user.GitHubID)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user := model.NewUser(types.GitHubUserID(67890), types.Username("leaver"))
		if err := repo.User().Put(ctx, user); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		if err := repo.User().Delete(ctx, user.GitHubID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		if _, err := repo.User().Get(ctx, user.GitHubID); !isNotFound(err) {
			t.Errorf("Expected NotFound after deletion, got: %v", err)
		}

		if err := repo.User().Delete(ctx, user.GitHubID); !isNotFound(err) {
			t.Errorf("Expected NotFound for double deletion, got: %v", err)
		}
	})
}

func TestUserRepositoryMemory(t *testing.T) {
	runUserRepositoryTest(t, newMemoryRepo)
}

func TestUserRepositoryFirestore(t *testing.T) {
	runUserRepositoryTest(t, newFirestoreRepo)
}
