package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/model/auth"
	"github.com/secmon-lab/gitpoke/pkg/utils/logging"
)

const authCacheTTL = 5 * time.Minute

type cachedToken struct {
	token    *auth.Token
	cachedAt time.Time
}

// authCache keeps recently validated tokens in memory to avoid a
// repository round-trip on every authenticated request.
type authCache struct {
	mu    sync.Mutex
	items map[auth.TokenID]*cachedToken
}

func newAuthCache() *authCache {
	return &authCache{
		items: make(map[auth.TokenID]*cachedToken),
	}
}

func (c *authCache) get(tokenID auth.TokenID) (*auth.Token, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[tokenID]
	if !ok {
		return nil, false
	}
	if time.Since(item.cachedAt) > authCacheTTL {
		delete(c.items, tokenID)
		return nil, false
	}
	return item.token, true
}

func (c *authCache) put(token *auth.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[token.ID] = &cachedToken{
		token:    token,
		cachedAt: time.Now(),
	}
}

func (c *authCache) remove(tokenID auth.TokenID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, tokenID)
}

func (uc *AuthUseCase) validateTokenWithCache(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	if token, ok := uc.cache.get(tokenID); ok {
		if token.Secret != tokenSecret {
			return nil, goerr.New("invalid token secret", goerr.V("token_id", tokenID))
		}
		if token.IsExpired(time.Now()) {
			uc.cache.remove(tokenID)
			return nil, goerr.New("token expired", goerr.V("token_id", tokenID))
		}
		return token, nil
	}

	token, err := uc.repo.GetToken(ctx, tokenID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get token", goerr.V("token_id", tokenID))
	}

	if token.Secret != tokenSecret {
		return nil, goerr.New("invalid token secret", goerr.V("token_id", tokenID))
	}

	if token.IsExpired(time.Now()) {
		if err := uc.repo.DeleteToken(ctx, tokenID); err != nil {
			logging.From(ctx).Warn("failed to delete expired token", "error", err, "token_id", tokenID)
		}
		return nil, goerr.New("token expired", goerr.V("token_id", tokenID))
	}

	uc.cache.put(token)

	return token, nil
}
