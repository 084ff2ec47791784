package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
	kvmemory "github.com/secmon-lab/gitpoke/pkg/repository/kv/memory"
	"github.com/secmon-lab/gitpoke/pkg/repository/memory"
	objmemory "github.com/secmon-lab/gitpoke/pkg/repository/objstore/memory"
	"github.com/secmon-lab/gitpoke/pkg/service/github"
	"github.com/secmon-lab/gitpoke/pkg/service/ratelimit"
	"github.com/secmon-lab/gitpoke/pkg/service/tiercache"
	"github.com/secmon-lab/gitpoke/pkg/usecase"
)

// mockGitHub serves canned activity and follow relations
type mockGitHub struct {
	mu         sync.Mutex
	activity   map[types.Username]*model.Activity
	relation   types.FollowRelation
	fetchCalls int
	identityID types.GitHubUserID
	identity   types.Username
}

var _ interfaces.GitHubClient = &mockGitHub{}

func newMockGitHub() *mockGitHub {
	return &mockGitHub{
		activity: make(map[types.Username]*model.Activity),
		relation: types.FollowRelationNone,
	}
}

func (m *mockGitHub) setActivity(username types.Username, lastActivity time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activity[username] = &model.Activity{
		Username:       username,
		LastActivityAt: &lastActivity,
		FetchedAt:      time.Now().UTC(),
	}
}

func (m *mockGitHub) FetchActivity(ctx context.Context, username types.Username) (*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls++
	activity, ok := m.activity[username]
	if !ok {
		return nil, github.ErrUserNotFound
	}
	return activity, nil
}

func (m *mockGitHub) FetchFollowRelation(ctx context.Context, accessToken string, recipient types.Username) (types.FollowRelation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.relation, nil
}

func (m *mockGitHub) FetchAuthenticatedUser(ctx context.Context, accessToken string) (types.GitHubUserID, types.Username, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identityID, m.identity, nil
}

// recordingNotifier captures poke notifications for inspection
type recordingNotifier struct {
	mu     sync.Mutex
	events []*model.PokeEvent
}

var _ interfaces.Notifier = &recordingNotifier{}

func (n *recordingNotifier) NotifyPoke(ctx context.Context, event *model.PokeEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

type testEnv struct {
	uc       *usecase.UseCases
	repo     *memory.Memory
	kv       *kvmemory.Store
	github   *mockGitHub
	notifier *recordingNotifier
}

func newTestEnv(opts ...usecase.Option) *testEnv {
	repo := memory.New()
	kv := kvmemory.New()
	gh := newMockGitHub()
	notifier := &recordingNotifier{}

	cache := tiercache.New(kv, objmemory.New(), gh)

	baseOpts := []usecase.Option{
		usecase.WithNotifier(notifier),
		usecase.WithRateLimiter(ratelimit.New(kv, ratelimit.WithLimit(1000))),
	}
	uc := usecase.New(repo, cache, gh, kv, append(baseOpts, opts...)...)

	return &testEnv{
		uc:       uc,
		repo:     repo,
		kv:       kv,
		github:   gh,
		notifier: notifier,
	}
}
