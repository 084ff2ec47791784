package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	controller "github.com/secmon-lab/gitpoke/pkg/controller/http"
	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/model/auth"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
	kvmemory "github.com/secmon-lab/gitpoke/pkg/repository/kv/memory"
	"github.com/secmon-lab/gitpoke/pkg/repository/memory"
	objmemory "github.com/secmon-lab/gitpoke/pkg/repository/objstore/memory"
	"github.com/secmon-lab/gitpoke/pkg/service/github"
	"github.com/secmon-lab/gitpoke/pkg/service/ratelimit"
	"github.com/secmon-lab/gitpoke/pkg/service/tiercache"
	"github.com/secmon-lab/gitpoke/pkg/usecase"
)

type stubGitHub struct {
	mu       sync.Mutex
	activity map[types.Username]*model.Activity
	relation types.FollowRelation
}

func (m *stubGitHub) FetchActivity(ctx context.Context, username types.Username) (*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	activity, ok := m.activity[username]
	if !ok {
		return nil, github.ErrUserNotFound
	}
	return activity, nil
}

func (m *stubGitHub) FetchFollowRelation(ctx context.Context, accessToken string, recipient types.Username) (types.FollowRelation, error) {
	return m.relation, nil
}

func (m *stubGitHub) FetchAuthenticatedUser(ctx context.Context, accessToken string) (types.GitHubUserID, types.Username, error) {
	return 100, "alice", nil
}

type serverEnv struct {
	server *controller.Server
	repo   *memory.Memory
	uc     *usecase.UseCases
	github *stubGitHub
}

func newServerEnv(t *testing.T) *serverEnv {
	t.Helper()

	repo := memory.New()
	kv := kvmemory.New()
	gh := &stubGitHub{
		activity: make(map[types.Username]*model.Activity),
		relation: types.FollowRelationNone,
	}
	cache := tiercache.New(kv, objmemory.New(), gh)

	authUC := usecase.NewAuthUseCase(repo, gh, "client-id", "client-secret", "http://localhost/api/auth/callback")
	uc := usecase.New(repo, cache, gh, kv,
		usecase.WithAuth(authUC),
		usecase.WithRateLimiter(ratelimit.New(kv, ratelimit.WithLimit(1000))),
	)

	return &serverEnv{
		server: controller.New(uc),
		repo:   repo,
		uc:     uc,
		github: gh,
	}
}

func (env *serverEnv) setActivity(username types.Username, lastActivity time.Time) {
	env.github.mu.Lock()
	defer env.github.mu.Unlock()
	env.github.activity[username] = &model.Activity{
		Username:       username,
		LastActivityAt: &lastActivity,
		FetchedAt:      time.Now().UTC(),
	}
}

// login registers the user and returns session cookies
func (env *serverEnv) login(t *testing.T, githubID types.GitHubUserID, username types.Username) []*http.Cookie {
	t.Helper()
	ctx := context.Background()

	_, err := env.uc.RegisterOrUpdateUser(ctx, githubID, username)
	gt.NoError(t, err).Required()

	token := auth.NewToken(githubID, username, "gho_test")
	gt.NoError(t, env.repo.PutToken(ctx, token)).Required()

	return []*http.Cookie{
		{Name: "token_id", Value: token.ID.String()},
		{Name: "token_secret", Value: token.Secret.String()},
	}
}

func doRequest(env *serverEnv, method, path string, body []byte, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	env := newServerEnv(t)

	rec := doRequest(env, http.MethodGet, "/health", nil, nil)
	gt.V(t, rec.Code).Equal(http.StatusOK)
	gt.S(t, rec.Body.String()).Contains(`"status":"ok"`)
}

func TestBadgeEndpoint(t *testing.T) {
	t.Run("serves an SVG with cache headers", func(t *testing.T) {
		env := newServerEnv(t)
		env.setActivity("octocat", time.Now().UTC())

		rec := doRequest(env, http.MethodGet, "/badge/octocat.svg", nil, nil)
		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.V(t, rec.Header().Get("Content-Type")).Equal("image/svg+xml")
		gt.V(t, rec.Header().Get("Cache-Control")).Equal("public, max-age=300, stale-while-revalidate=86400")
		gt.V(t, rec.Header().Get("X-Cache")).Equal("MISS")
		gt.S(t, rec.Body.String()).Contains("Active today")

		rec = doRequest(env, http.MethodGet, "/badge/octocat.svg", nil, nil)
		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.V(t, rec.Header().Get("X-Cache")).Equal("HIT")
	})

	t.Run("unknown login gets the not found badge", func(t *testing.T) {
		env := newServerEnv(t)

		rec := doRequest(env, http.MethodGet, "/badge/ghost.svg", nil, nil)
		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.V(t, rec.Header().Get("Cache-Control")).Equal("public, max-age=86400, stale-while-revalidate=86400")
		gt.S(t, rec.Body.String()).Contains("User not found")
	})

	t.Run("rejects a malformed username", func(t *testing.T) {
		env := newServerEnv(t)

		rec := doRequest(env, http.MethodGet, "/badge/-bad-.svg", nil, nil)
		gt.V(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("interactive variant embeds the poke action", func(t *testing.T) {
		env := newServerEnv(t)
		env.login(t, 200, "octocat")
		env.setActivity("octocat", time.Now().UTC().AddDate(0, 0, -40))

		rec := doRequest(env, http.MethodGet, "/badge/octocat.svg?interactive=true", nil, nil)
		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.V(t, rec.Header().Get("Access-Control-Allow-Credentials")).Equal("true")
		gt.S(t, rec.Body.String()).Contains("/api/poke")
	})
}

func TestPokeEndpoint(t *testing.T) {
	pokeBody := func(username string) []byte {
		body, _ := json.Marshal(map[string]string{"username": username})
		return body
	}

	t.Run("requires a session", func(t *testing.T) {
		env := newServerEnv(t)

		rec := doRequest(env, http.MethodPost, "/api/poke", pokeBody("octocat"), nil)
		gt.V(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("delivers a poke", func(t *testing.T) {
		env := newServerEnv(t)
		cookies := env.login(t, 100, "alice")
		env.login(t, 200, "octocat")

		rec := doRequest(env, http.MethodPost, "/api/poke", pokeBody("octocat"), cookies)
		gt.V(t, rec.Code).Equal(http.StatusOK)

		var resp struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
			EventID string `json:"event_id"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
		gt.True(t, resp.Success)
		gt.V(t, resp.Message).Equal("Poke delivered")
		gt.V(t, resp.EventID).NotEqual("")
	})

	t.Run("duplicate poke conflicts", func(t *testing.T) {
		env := newServerEnv(t)
		cookies := env.login(t, 100, "alice")
		env.login(t, 200, "octocat")

		rec := doRequest(env, http.MethodPost, "/api/poke", pokeBody("octocat"), cookies)
		gt.V(t, rec.Code).Equal(http.StatusOK)

		rec = doRequest(env, http.MethodPost, "/api/poke", pokeBody("octocat"), cookies)
		gt.V(t, rec.Code).Equal(http.StatusConflict)
		gt.S(t, rec.Body.String()).Contains("already poked")
	})

	t.Run("self poke is a bad request", func(t *testing.T) {
		env := newServerEnv(t)
		cookies := env.login(t, 100, "alice")

		rec := doRequest(env, http.MethodPost, "/api/poke", pokeBody("alice"), cookies)
		gt.V(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("disabled recipient is forbidden", func(t *testing.T) {
		env := newServerEnv(t)
		cookies := env.login(t, 100, "alice")
		env.login(t, 200, "octocat")
		_, err := env.uc.UpdatePokeSetting(context.Background(), 200, types.PokeSettingDisabled)
		gt.NoError(t, err).Required()

		rec := doRequest(env, http.MethodPost, "/api/poke", pokeBody("octocat"), cookies)
		gt.V(t, rec.Code).Equal(http.StatusForbidden)
	})

	t.Run("unknown recipient is not found", func(t *testing.T) {
		env := newServerEnv(t)
		cookies := env.login(t, 100, "alice")

		rec := doRequest(env, http.MethodPost, "/api/poke", pokeBody("ghost"), cookies)
		gt.V(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("preflight is answered without auth", func(t *testing.T) {
		env := newServerEnv(t)

		rec := doRequest(env, http.MethodOptions, "/api/poke", nil, nil)
		gt.V(t, rec.Code).Equal(http.StatusNoContent)
		gt.V(t, rec.Header().Get("Access-Control-Allow-Origin")).Equal("https://github.com")
		gt.V(t, rec.Header().Get("Access-Control-Allow-Methods")).Equal("POST, OPTIONS")
	})
}

func TestUserEndpoints(t *testing.T) {
	t.Run("me returns the account", func(t *testing.T) {
		env := newServerEnv(t)
		cookies := env.login(t, 100, "alice")

		rec := doRequest(env, http.MethodGet, "/api/user/me", nil, cookies)
		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.S(t, rec.Body.String()).Contains(`"username":"alice"`)
		gt.S(t, rec.Body.String()).Contains(`"poke_setting":"anyone"`)
	})

	t.Run("settings update round-trips", func(t *testing.T) {
		env := newServerEnv(t)
		cookies := env.login(t, 100, "alice")

		body, _ := json.Marshal(map[string]string{"poke_setting": "mutual_only"})
		rec := doRequest(env, http.MethodPut, "/api/user/settings", body, cookies)
		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.S(t, rec.Body.String()).Contains(`"poke_setting":"mutual_only"`)

		rec = doRequest(env, http.MethodGet, "/api/user/me", nil, cookies)
		gt.S(t, rec.Body.String()).Contains(`"poke_setting":"mutual_only"`)
	})

	t.Run("rejects an unknown setting", func(t *testing.T) {
		env := newServerEnv(t)
		cookies := env.login(t, 100, "alice")

		body, _ := json.Marshal(map[string]string{"poke_setting": "sometimes"})
		rec := doRequest(env, http.MethodPut, "/api/user/settings", body, cookies)
		gt.V(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("delete removes the account and the session", func(t *testing.T) {
		env := newServerEnv(t)
		cookies := env.login(t, 100, "alice")

		rec := doRequest(env, http.MethodDelete, "/api/user/me", nil, cookies)
		gt.V(t, rec.Code).Equal(http.StatusOK)

		_, err := env.repo.User().Get(context.Background(), 100)
		gt.True(t, errors.Is(err, interfaces.ErrNotFound))
	})

	t.Run("pokes lists received events", func(t *testing.T) {
		env := newServerEnv(t)
		aliceCookies := env.login(t, 100, "alice")
		octoCookies := env.login(t, 200, "octocat")

		body, _ := json.Marshal(map[string]string{"username": "octocat"})
		rec := doRequest(env, http.MethodPost, "/api/poke", body, aliceCookies)
		gt.V(t, rec.Code).Equal(http.StatusOK)

		rec = doRequest(env, http.MethodGet, "/api/user/pokes", nil, octoCookies)
		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.S(t, rec.Body.String()).Contains(`"from":"alice"`)
	})
}

func TestAuthEndpoints(t *testing.T) {
	t.Run("login redirects to GitHub with a state cookie", func(t *testing.T) {
		env := newServerEnv(t)

		rec := doRequest(env, http.MethodGet, "/api/auth/login", nil, nil)
		gt.V(t, rec.Code).Equal(http.StatusTemporaryRedirect)
		gt.S(t, rec.Header().Get("Location")).Contains("github.com/login/oauth/authorize")

		found := false
		for _, c := range rec.Result().Cookies() {
			if c.Name == "oauth_state" && c.Value != "" {
				found = true
			}
		}
		gt.True(t, found)
	})

	t.Run("callback rejects a state mismatch", func(t *testing.T) {
		env := newServerEnv(t)

		cookies := []*http.Cookie{{Name: "oauth_state", Value: "expected"}}
		rec := doRequest(env, http.MethodGet, "/api/auth/callback?code=abc&state=forged", nil, cookies)
		gt.V(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("logout clears the session cookies", func(t *testing.T) {
		env := newServerEnv(t)
		cookies := env.login(t, 100, "alice")

		rec := doRequest(env, http.MethodPost, "/api/auth/logout", nil, cookies)
		gt.V(t, rec.Code).Equal(http.StatusOK)

		cleared := 0
		for _, c := range rec.Result().Cookies() {
			if (c.Name == "token_id" || c.Name == "token_secret") && c.MaxAge < 0 {
				cleared++
			}
		}
		gt.V(t, cleared).Equal(2)

		// The session is gone
		rec = doRequest(env, http.MethodGet, "/api/user/me", nil, cookies)
		gt.V(t, rec.Code).Equal(http.StatusUnauthorized)
	})
}
