package http

import "net/http"

type healthResponse struct {
	Status string `json:"status"`
}

// healthHandler answers liveness probes.
//
// GET /health
func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
