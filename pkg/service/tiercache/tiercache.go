package tiercache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
	"github.com/secmon-lab/gitpoke/pkg/service/github"
	"github.com/secmon-lab/gitpoke/pkg/utils/async"
	"github.com/secmon-lab/gitpoke/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// Dependency timeouts. A slow tier fails alone; the next tier still runs
// inside the request's remaining budget.
const (
	hotCacheTimeout = 1 * time.Second
	coldTierTimeout = 2 * time.Second
	originTimeout   = 3 * time.Second
)

// Activity cache TTLs keyed by recency
const (
	activityTTLRecent = 300 * time.Second
	activityTTLStale  = 3600 * time.Second
)

// Coordinator orchestrates the hot cache, the cold object store, and the
// origin GitHub API. Reads fall through the tiers; hits in a lower tier
// are promoted upward.
type Coordinator struct {
	kv     interfaces.KVStore
	cold   interfaces.ObjectStore
	origin interfaces.GitHubClient
}

func New(kv interfaces.KVStore, cold interfaces.ObjectStore, origin interfaces.GitHubClient) *Coordinator {
	return &Coordinator{
		kv:     kv,
		cold:   cold,
		origin: origin,
	}
}

func activityKey(username types.Username) string {
	return "activity:" + username.String()
}

// BadgeKey is the hot cache and cold store key of a rendered badge
func BadgeKey(username types.Username) string {
	return "badge:" + username.String() + ":v1"
}

// GetActivity returns the activity of a user, from the hot cache when
// possible and from the origin otherwise. An origin fetch populates the
// hot cache with a TTL chosen by recency; a failed cache write never
// fails the read.
func (c *Coordinator) GetActivity(ctx context.Context, username types.Username) (*model.Activity, error) {
	logger := logging.From(ctx)
	key := activityKey(username)

	hotCtx, cancel := context.WithTimeout(ctx, hotCacheTimeout)
	data, err := c.kv.Get(hotCtx, key)
	cancel()
	switch {
	case err == nil:
		var activity model.Activity
		if err := json.Unmarshal(data, &activity); err == nil {
			return &activity, nil
		}
		logger.Warn("broken activity cache entry, refetching", "key", key)

	case !errors.Is(err, interfaces.ErrCacheMiss):
		logger.Warn("hot cache read failed, falling through to origin", "key", key, "error", err)
	}

	activity, err := c.fetchOrigin(ctx, username)
	if err != nil {
		return nil, err
	}

	ttl := activityTTLStale
	if state := model.ClassifyActivity(activity, time.Now().UTC()); state.IsActive() {
		ttl = activityTTLRecent
	}

	if encoded, err := json.Marshal(activity); err == nil {
		setCtx, cancel := context.WithTimeout(ctx, hotCacheTimeout)
		if err := c.kv.Set(setCtx, key, encoded, ttl); err != nil {
			logger.Warn("failed to populate activity cache", "key", key, "error", err)
		}
		cancel()
	}

	return activity, nil
}

// fetchOrigin calls the origin with one retry on transient failure
func (c *Coordinator) fetchOrigin(ctx context.Context, username types.Username) (*model.Activity, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		originCtx, cancel := context.WithTimeout(ctx, originTimeout)
		activity, err := c.origin.FetchActivity(originCtx, username)
		cancel()

		if err == nil {
			return activity, nil
		}
		if errors.Is(err, github.ErrUserNotFound) {
			return nil, err
		}
		lastErr = err
	}

	return nil, goerr.Wrap(lastErr, "origin fetch failed", goerr.V("username", username))
}

// GetBadge looks up a rendered badge in the hot cache, then the cold
// store. A cold hit is promoted into the hot cache before returning.
// Returns nil when neither tier has the artifact.
func (c *Coordinator) GetBadge(ctx context.Context, username types.Username) (*model.BadgeArtifact, error) {
	logger := logging.From(ctx)
	key := BadgeKey(username)

	hotCtx, cancel := context.WithTimeout(ctx, hotCacheTimeout)
	data, err := c.kv.Get(hotCtx, key)
	cancel()
	switch {
	case err == nil:
		artifact, err := decodeArtifact(data)
		if err == nil {
			return artifact, nil
		}
		logger.Warn("broken badge cache entry", "key", key, "error", err)

	case !errors.Is(err, interfaces.ErrCacheMiss):
		logger.Warn("hot cache read failed, trying cold store", "key", key, "error", err)
	}

	coldCtx, cancel := context.WithTimeout(ctx, coldTierTimeout)
	data, err = c.cold.Get(coldCtx, key)
	cancel()
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			logger.Warn("cold store read failed", "key", key, "error", err)
		}
		return nil, nil
	}

	artifact, err := decodeArtifact(data)
	if err != nil {
		logger.Warn("broken badge object, regenerating", "key", key, "error", err)
		return nil, nil
	}

	// Read-through promotion
	setCtx, cancel := context.WithTimeout(ctx, hotCacheTimeout)
	if err := c.kv.Set(setCtx, key, data, time.Duration(artifact.TTL)*time.Second); err != nil {
		logger.Warn("failed to promote badge to hot cache", "key", key, "error", err)
	}
	cancel()

	return artifact, nil
}

// PutBadge stores a freshly rendered badge in both tiers. The hot cache
// write is synchronous; the cold store write runs in the background and
// its failure is only logged.
func (c *Coordinator) PutBadge(ctx context.Context, username types.Username, artifact *model.BadgeArtifact) {
	logger := logging.From(ctx)
	key := BadgeKey(username)

	data, err := json.Marshal(artifact)
	if err != nil {
		logger.Error("failed to encode badge artifact", "key", key, "error", err)
		return
	}

	setCtx, cancel := context.WithTimeout(ctx, hotCacheTimeout)
	if err := c.kv.Set(setCtx, key, data, time.Duration(artifact.TTL)*time.Second); err != nil {
		logger.Warn("failed to write badge to hot cache", "key", key, "error", err)
	}
	cancel()

	async.Dispatch(ctx, func(ctx context.Context) error {
		coldCtx, cancel := context.WithTimeout(ctx, coldTierTimeout)
		defer cancel()
		if err := c.cold.Put(coldCtx, key, data); err != nil {
			return goerr.Wrap(err, "failed to write badge to cold store", goerr.V("key", key))
		}
		return nil
	})
}

// Invalidate removes all cached state of a user from the hot cache. It
// runs before the owning mutation completes, so it propagates failure
// instead of logging it away.
func (c *Coordinator) Invalidate(ctx context.Context, username types.Username) error {
	eg, egCtx := errgroup.WithContext(ctx)
	for _, pattern := range model.CacheInvalidationPatterns(username) {
		eg.Go(func() error {
			delCtx, cancel := context.WithTimeout(egCtx, hotCacheTimeout)
			defer cancel()
			if err := c.kv.DeleteByPattern(delCtx, pattern); err != nil {
				return goerr.Wrap(err, "failed to invalidate cache", goerr.V("pattern", pattern))
			}
			return nil
		})
	}

	return eg.Wait()
}

func decodeArtifact(data []byte) (*model.BadgeArtifact, error) {
	var artifact model.BadgeArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, goerr.Wrap(err, "failed to decode badge artifact")
	}
	return &artifact, nil
}
