package usecase

import (
	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
	"github.com/secmon-lab/gitpoke/pkg/service/notify"
	"github.com/secmon-lab/gitpoke/pkg/service/ratelimit"
	"github.com/secmon-lab/gitpoke/pkg/service/tiercache"
)

type UseCases struct {
	repo     interfaces.Repository
	cache    *tiercache.Coordinator
	github   interfaces.GitHubClient
	notifier interfaces.Notifier
	limiter  *ratelimit.Limiter
	Auth     AuthUseCaseInterface
}

type Option func(*UseCases)

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

func WithNotifier(notifier interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(uc *UseCases) {
		uc.limiter = limiter
	}
}

func New(repo interfaces.Repository, cache *tiercache.Coordinator, github interfaces.GitHubClient, kv interfaces.KVStore, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		cache:    cache,
		github:   github,
		notifier: notify.NewDiscard(),
		limiter:  ratelimit.New(kv),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
