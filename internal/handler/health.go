package handler

import (
	"context"
	"net/http"
	"time"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "ok", nil)
}

// Ready reports whether the database is reachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		respond(w, http.StatusServiceUnavailable, "database unreachable", nil)
		return
	}
	respond(w, http.StatusOK, "ready", nil)
}
