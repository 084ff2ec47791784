package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
)

const (
	// DefaultLimit is the number of pokes allowed per window per IP
	DefaultLimit = 10
	// DefaultWindow is the fixed rate limit window
	DefaultWindow = 60 * time.Second
)

// Limiter enforces a fixed-window per-IP limit on top of the hot cache's
// atomic counter. The counter expires with the window, so a new window
// starts clean.
type Limiter struct {
	kv     interfaces.KVStore
	limit  int64
	window time.Duration
}

type Option func(*Limiter)

func WithLimit(limit int64) Option {
	return func(l *Limiter) {
		l.limit = limit
	}
}

func WithWindow(window time.Duration) Option {
	return func(l *Limiter) {
		l.window = window
	}
}

func New(kv interfaces.KVStore, opts ...Option) *Limiter {
	l := &Limiter{
		kv:     kv,
		limit:  DefaultLimit,
		window: DefaultWindow,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow increments the counter for the client IP and reports whether the
// request fits the current window. The increment happens even for denied
// requests; hammering a limited IP keeps it limited.
func (l *Limiter) Allow(ctx context.Context, clientIP string) (bool, error) {
	key := fmt.Sprintf("rate_limit:poke:ip:%s", clientIP)

	count, err := l.kv.Increment(ctx, key, l.window)
	if err != nil {
		return false, goerr.Wrap(err, "failed to increment rate limit counter", goerr.V("key", key))
	}

	return count <= l.limit, nil
}
