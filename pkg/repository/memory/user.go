package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[types.GitHubUserID]*model.User
}

func newUserRepository() *userRepository {
	return &userRepository{
		users: make(map[types.GitHubUserID]*model.User),
	}
}

// copyUser creates a deep copy of a user
func copyUser(user *model.User) *model.User {
	copied := *user
	return &copied
}

func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.GitHubID] = copyUser(user)
	return nil
}

func (r *userRepository) Get(ctx context.Context, githubID types.GitHubUserID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[githubID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("github_id", githubID))
	}

	return copyUser(user), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username types.Username) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("username", username))
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.users[user.GitHubID]
	if !exists {
		return goerr.Wrap(ErrNotFound, "user not found", goerr.V("github_id", user.GitHubID))
	}

	updated := copyUser(user)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.users[updated.GitHubID] = updated
	return nil
}

func (r *userRepository) Delete(ctx context.Context, githubID types.GitHubUserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[githubID]; !exists {
		return goerr.Wrap(ErrNotFound, "user not found", goerr.V("github_id", githubID))
	}

	delete(r.users, githubID)
	return nil
}
