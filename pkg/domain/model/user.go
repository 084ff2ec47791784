package model

import (
	"time"

	"github.com/secmon-lab/gitpoke/pkg/domain/types"
)

// User is a registered account. Only registered users can receive pokes;
// badges work for any GitHub user.
type User struct {
	GitHubID    types.GitHubUserID `json:"github_id"`
	Username    types.Username     `json:"username"`
	PokeSetting types.PokeSetting  `json:"poke_setting"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// NewUser creates a registered user with the default poke setting
func NewUser(githubID types.GitHubUserID, username types.Username) *User {
	now := time.Now().UTC()
	return &User{
		GitHubID:    githubID,
		Username:    username,
		PokeSetting: types.DefaultPokeSetting,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AcceptsPoke reports whether the user can receive pokes at all
func (u *User) AcceptsPoke() bool {
	return u.PokeSetting.IsEnabled()
}

// CacheInvalidationPatterns returns the hot cache key patterns that go
// stale when the named user's account changes. Renames invalidate the
// old username, so this is keyed by name rather than by account.
func CacheInvalidationPatterns(username types.Username) []string {
	name := username.String()
	return []string{
		"user:" + name,
		"badge:" + name + ":*",
		"activity:" + name + ":*",
		"activity:" + name,
	}
}
