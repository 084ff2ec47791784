package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/model/auth"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
	"github.com/secmon-lab/gitpoke/pkg/usecase"
	"github.com/secmon-lab/gitpoke/pkg/utils/errutil"
)

type pokeRequest struct {
	Username string `json:"username"`

	// Repository is the "owner/repo" the interactive badge lives in,
	// when known
	Repository string `json:"repository,omitempty"`
}

type pokeDetails struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Timestamp string `json:"timestamp"`
}

type pokeResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	EventID string       `json:"event_id,omitempty"`
	Details *pokeDetails `json:"details,omitempty"`
}

// denyStatus maps a policy denial to its HTTP status
func denyStatus(reason model.DenyReason) int {
	switch reason {
	case model.DenySelfPoke:
		return http.StatusBadRequest
	case model.DenyRateLimitExceeded:
		return http.StatusTooManyRequests
	case model.DenyRecipientNotFound:
		return http.StatusNotFound
	case model.DenyAlreadyPokedToday:
		return http.StatusConflict
	default:
		return http.StatusForbidden
	}
}

// pokeHandler delivers a poke from the authenticated user.
//
// POST /api/poke
func pokeHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromContext(r.Context())

		var req pokeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, pokeResponse{Message: "Invalid request body"})
			return
		}

		recipient, err := types.ParseUsername(req.Username)
		if err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, pokeResponse{Message: "Invalid recipient username"})
			return
		}

		result, err := uc.Poke(r.Context(), token, recipient, clientIP(r),
			usecase.WithRepoContext(req.Repository))
		if err != nil {
			if errors.Is(err, usecase.ErrLoginRequired) {
				writeJSON(r.Context(), w, http.StatusUnauthorized, pokeResponse{Message: "Login required"})
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		if !result.Delivered {
			writeJSON(r.Context(), w, denyStatus(result.Reason), pokeResponse{
				Message: result.Message(),
			})
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, pokeResponse{
			Success: true,
			Message: result.Message(),
			EventID: result.EventID.String(),
			Details: &pokeDetails{
				From:      token.Username.String(),
				To:        recipient.String(),
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			},
		})
	}
}
