package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
)

type TokenID string

func NewTokenID() TokenID {
	return TokenID(uuid.New().String())
}

func (x TokenID) String() string {
	return string(x)
}

func (x TokenID) Validate() error {
	if x == "" {
		return goerr.New("token ID is empty")
	}
	return nil
}

type TokenSecret string

func NewTokenSecret() TokenSecret {
	return TokenSecret(uuid.New().String())
}

func (x TokenSecret) String() string {
	return string(x)
}

const tokenLifetime = 7 * 24 * time.Hour

// Token is a server-side session issued after GitHub OAuth. The GitHub
// access token stays inside it and is redacted from logs.
type Token struct {
	ID          TokenID            `json:"id" firestore:"id"`
	Secret      TokenSecret        `json:"secret" masq:"secret" firestore:"secret"`
	GitHubID    types.GitHubUserID `json:"github_id" firestore:"github_id"`
	Username    types.Username     `json:"username" firestore:"username"`
	AccessToken string             `json:"access_token" masq:"secret" firestore:"access_token"`
	ExpiresAt   time.Time          `json:"expires_at" firestore:"expires_at"`
	CreatedAt   time.Time          `json:"created_at" firestore:"created_at"`
}

// NewToken issues a fresh session token for a GitHub user
func NewToken(githubID types.GitHubUserID, username types.Username, accessToken string) *Token {
	now := time.Now().UTC()
	return &Token{
		ID:          NewTokenID(),
		Secret:      NewTokenSecret(),
		GitHubID:    githubID,
		Username:    username,
		AccessToken: accessToken,
		ExpiresAt:   now.Add(tokenLifetime),
		CreatedAt:   now,
	}
}

func (x *Token) Validate() error {
	if err := x.ID.Validate(); err != nil {
		return err
	}
	if x.Secret == "" {
		return goerr.New("token secret is empty", goerr.V("token_id", x.ID))
	}
	if !x.GitHubID.IsValid() {
		return goerr.New("token has no github ID", goerr.V("token_id", x.ID))
	}
	if !x.Username.IsValid() {
		return goerr.New("token has no username", goerr.V("token_id", x.ID))
	}
	return nil
}

func (x *Token) IsExpired(now time.Time) bool {
	return now.After(x.ExpiresAt)
}
