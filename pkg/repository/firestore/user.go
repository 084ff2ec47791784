package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type userDocument struct {
	GitHubID    int64     `firestore:"github_id"`
	Username    string    `firestore:"username"`
	PokeSetting string    `firestore:"poke_setting"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{
		client: client,
	}
}

func (r *userRepository) usersCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_users"
	}
	return "users"
}

func userToDocument(user *model.User) *userDocument {
	return &userDocument{
		GitHubID:    int64(user.GitHubID),
		Username:    string(user.Username),
		PokeSetting: string(user.PokeSetting),
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func userToModel(doc *userDocument) *model.User {
	return &model.User{
		GitHubID:    types.GitHubUserID(doc.GitHubID),
		Username:    types.Username(doc.Username),
		PokeSetting: types.PokeSetting(doc.PokeSetting),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	doc := userToDocument(user)

	docRef := r.client.Collection(r.usersCollection()).Doc(user.GitHubID.String())
	if _, err := docRef.Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put user", goerr.V("github_id", user.GitHubID))
	}

	return nil
}

func (r *userRepository) Get(ctx context.Context, githubID types.GitHubUserID) (*model.User, error) {
	docRef := r.client.Collection(r.usersCollection()).Doc(githubID.String())
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("github_id", githubID))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("github_id", githubID))
	}

	var userDoc userDocument
	if err := doc.DataTo(&userDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("github_id", githubID))
	}

	return userToModel(&userDoc), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username types.Username) (*model.User, error) {
	iter := r.client.Collection(r.usersCollection()).
		Where("username", "==", string(username)).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("username", username))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user by username", goerr.V("username", username))
	}

	var userDoc userDocument
	if err := doc.DataTo(&userDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("username", username))
	}

	return userToModel(&userDoc), nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	docRef := r.client.Collection(r.usersCollection()).Doc(user.GitHubID.String())

	existing, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "user not found", goerr.V("github_id", user.GitHubID))
		}
		return goerr.Wrap(err, "failed to get user", goerr.V("github_id", user.GitHubID))
	}

	var prev userDocument
	if err := existing.DataTo(&prev); err != nil {
		return goerr.Wrap(err, "failed to unmarshal user", goerr.V("github_id", user.GitHubID))
	}

	doc := userToDocument(user)
	doc.CreatedAt = prev.CreatedAt
	doc.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to update user", goerr.V("github_id", user.GitHubID))
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, githubID types.GitHubUserID) error {
	docRef := r.client.Collection(r.usersCollection()).Doc(githubID.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "user not found", goerr.V("github_id", githubID))
		}
		return goerr.Wrap(err, "failed to get user", goerr.V("github_id", githubID))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete user", goerr.V("github_id", githubID))
	}

	return nil
}
