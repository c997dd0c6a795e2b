package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"askstream/internal/dashboard"
)

type HomeHandler struct {
	store *dashboard.Store
}

func NewHomeHandler(store *dashboard.Store) *HomeHandler {
	return &HomeHandler{store: store}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/healthz", h.health)
	r.NotFound(h.notFound)
}

func (h *HomeHandler) home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, dashboard.StreamsPath, http.StatusSeeOther)
}

func (h *HomeHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":   "ok",
		"sessions": h.store.Len(),
	})
}

func (h *HomeHandler) notFound(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusNotFound)
}
