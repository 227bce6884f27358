package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"videotheque/internal/render"
	"videotheque/internal/session"
	"videotheque/internal/store"
)

// Admin groups the handlers behind the authenticated admin interface.
type Admin struct {
	renderer   *render.Renderer
	sessions   *session.Store
	formations *store.FormationStore
	playlists  *store.PlaylistStore
	categories *store.CategoryStore
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, formations *store.FormationStore, playlists *store.PlaylistStore, categories *store.CategoryStore) *Admin {
	return &Admin{
		renderer:   renderer,
		sessions:   sessions,
		formations: formations,
		playlists:  playlists,
		categories: categories,
	}
}

// flashAndRedirect queues a one-shot flash and redirects with 303 so the
// browser re-fetches the target with GET.
func (a *Admin) flashAndRedirect(w http.ResponseWriter, r *http.Request, level, message, target string) {
	if err := a.sessions.AddFlash(r.Context(), r, level, message); err != nil {
		slog.Error("add flash failed", "error", err)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// parseID extracts the {id} route parameter. A malformed id is treated
// the same as an unknown one: 404.
func parseID(w http.ResponseWriter, r *http.Request, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		http.NotFound(w, r)
		return uuid.Nil, false
	}
	return id, true
}
