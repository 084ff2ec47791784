package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/secmon-lab/gitpoke/pkg/domain/model/auth"
	"github.com/secmon-lab/gitpoke/pkg/usecase"
	"github.com/secmon-lab/gitpoke/pkg/utils/errutil"

	"github.com/secmon-lab/gitpoke/pkg/domain/types"
)

type userResponse struct {
	GitHubID    int64  `json:"github_id"`
	Username    string `json:"username"`
	PokeSetting string `json:"poke_setting"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type pokeEventResponse struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	To      string `json:"to"`
	PokedAt string `json:"poked_at"`
}

// userMeHandler returns the authenticated user's account.
//
// GET /api/user/me
func userMeHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromContext(r.Context())

		user, err := uc.GetUser(r.Context(), token.GitHubID)
		if err != nil {
			if errors.Is(err, usecase.ErrNotRegistered) {
				writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "user not registered"})
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, userResponse{
			GitHubID:    int64(user.GitHubID),
			Username:    user.Username.String(),
			PokeSetting: user.PokeSetting.String(),
			CreatedAt:   user.CreatedAt.Format(time.RFC3339),
			UpdatedAt:   user.UpdatedAt.Format(time.RFC3339),
		})
	}
}

// userSettingsHandler updates the poke setting.
//
// PUT /api/user/settings
func userSettingsHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		PokeSetting string `json:"poke_setting"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromContext(r.Context())

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		setting, err := types.ParsePokeSetting(req.PokeSetting)
		if err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid poke setting"})
			return
		}

		user, err := uc.UpdatePokeSetting(r.Context(), token.GitHubID, setting)
		if err != nil {
			if errors.Is(err, usecase.ErrNotRegistered) {
				writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "user not registered"})
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, userResponse{
			GitHubID:    int64(user.GitHubID),
			Username:    user.Username.String(),
			PokeSetting: user.PokeSetting.String(),
			CreatedAt:   user.CreatedAt.Format(time.RFC3339),
			UpdatedAt:   user.UpdatedAt.Format(time.RFC3339),
		})
	}
}

// userDeleteHandler removes the account and ends the session.
//
// DELETE /api/user/me
func userDeleteHandler(authUC AuthUseCase, uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromContext(r.Context())

		if err := uc.DeleteAccount(r.Context(), token.GitHubID); err != nil {
			if errors.Is(err, usecase.ErrNotRegistered) {
				writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "user not registered"})
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		if err := authUC.Logout(r.Context(), token.ID); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		clearSessionCookies(w, r)

		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

// userPokesHandler lists pokes the authenticated user received.
//
// GET /api/user/pokes?limit=20
func userPokesHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromContext(r.Context())

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		events, err := uc.PokeHistory(r.Context(), token.Username, limit)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		resp := make([]pokeEventResponse, len(events))
		for i, event := range events {
			resp[i] = pokeEventResponse{
				ID:      event.ID.String(),
				From:    event.From.String(),
				To:      event.To.String(),
				PokedAt: event.PokedAt.Format(time.RFC3339),
			}
		}

		writeJSON(r.Context(), w, http.StatusOK, map[string]any{"pokes": resp})
	}
}
