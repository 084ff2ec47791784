package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
	"github.com/secmon-lab/gitpoke/pkg/usecase"
	"github.com/secmon-lab/gitpoke/pkg/utils/errutil"
)

// badgeHandler serves the activity badge SVG.
//
// GET /badge/{username}.svg?interactive=true
func badgeHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, err := types.ParseUsername(chi.URLParam(r, "username"))
		if err != nil {
			http.Error(w, "Invalid username format", http.StatusBadRequest)
			return
		}

		interactive, _ := strconv.ParseBool(r.URL.Query().Get("interactive"))

		badge, err := uc.GetBadge(r.Context(), username, interactive)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		artifact := badge.Artifact
		w.Header().Set("Content-Type", artifact.ContentType)
		w.Header().Set("Cache-Control", artifact.CacheControl)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Access-Control-Allow-Origin", "https://github.com")
		w.Header().Set("Access-Control-Allow-Methods", "GET")
		if artifact.Interactive {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		if badge.CacheHit {
			w.Header().Set("X-Cache", "HIT")
		} else {
			w.Header().Set("X-Cache", "MISS")
		}

		w.Write(artifact.Content) //nolint:errcheck // header already committed
	}
}
