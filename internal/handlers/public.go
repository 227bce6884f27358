// Package handlers contains the HTTP handler groups for the public site,
// authentication, and the admin interface.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"videotheque/internal/models"
	"videotheque/internal/render"
	"videotheque/internal/session"
	"videotheque/internal/store"
)

// homeLatestCount is how many recent formations the homepage shows.
const homeLatestCount = 2

// Public groups the handlers for the public-facing catalog.
type Public struct {
	renderer   *render.Renderer
	sessions   *session.Store
	formations *store.FormationStore
	playlists  *store.PlaylistStore
	categories *store.CategoryStore
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, sessions *session.Store, formations *store.FormationStore, playlists *store.PlaylistStore, categories *store.CategoryStore) *Public {
	return &Public{
		renderer:   renderer,
		sessions:   sessions,
		formations: formations,
		playlists:  playlists,
		categories: categories,
	}
}

// page renders a template after draining the session's flash queue.
func page(rn *render.Renderer, sessions *session.Store, w http.ResponseWriter, r *http.Request, status int, name string, data *render.PageData) {
	if data == nil {
		data = &render.PageData{}
	}
	flashes, err := sessions.PopFlashes(r.Context(), r)
	if err != nil {
		slog.Error("pop flashes failed", "error", err)
	}
	data.Flashes = flashes
	rn.Page(w, r, status, name, data)
}

// queryError maps a store error to the right HTTP response: unknown
// sort/search keys and directions are client errors, everything else is
// a server error.
func queryError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrUnknownSortKey) ||
		errors.Is(err, store.ErrUnknownSearchKey) ||
		errors.Is(err, store.ErrInvalidDirection) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	slog.Error("catalog query failed", "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// Home renders the homepage with the most recent formations.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	latest, err := p.formations.Latest(homeLatestCount)
	if err != nil {
		slog.Error("latest formations failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	page(p.renderer, p.sessions, w, r, http.StatusOK, "home", &render.PageData{
		Title: "Accueil",
		Data:  map[string]any{"Latest": latest},
	})
}

// CGU renders the terms-of-use page.
func (p *Public) CGU(w http.ResponseWriter, r *http.Request) {
	page(p.renderer, p.sessions, w, r, http.StatusOK, "cgu", &render.PageData{
		Title:   "Conditions générales d'utilisation",
		Section: "cgu",
	})
}

// FormationsIndex lists all formations, newest first.
func (p *Public) FormationsIndex(w http.ResponseWriter, r *http.Request) {
	items, err := p.formations.ListContaining("title", "", "")
	if err != nil {
		queryError(w, err)
		return
	}
	p.renderFormations(w, r, items, "")
}

// FormationsSort lists formations ordered by the requested field. The
// optional {table} segment targets a related entity's field (for example
// the playlist name).
func (p *Public) FormationsSort(w http.ResponseWriter, r *http.Request) {
	dir, err := store.ParseDirection(chi.URLParam(r, "ordre"))
	if err != nil {
		queryError(w, err)
		return
	}

	items, err := p.formations.ListOrderedBy(chi.URLParam(r, "champ"), dir, chi.URLParam(r, "table"))
	if err != nil {
		queryError(w, err)
		return
	}
	p.renderFormations(w, r, items, "")
}

// FormationsSearch lists formations whose field contains the submitted
// value. An empty value returns the whole catalog.
func (p *Public) FormationsSearch(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("recherche")

	items, err := p.formations.ListContaining(chi.URLParam(r, "champ"), value, chi.URLParam(r, "table"))
	if err != nil {
		queryError(w, err)
		return
	}
	p.renderFormations(w, r, items, value)
}

func (p *Public) renderFormations(w http.ResponseWriter, r *http.Request, items []models.Formation, search string) {
	page(p.renderer, p.sessions, w, r, http.StatusOK, "formations", &render.PageData{
		Title:   "Formations",
		Section: "formations",
		Data:    map[string]any{"Formations": items, "Search": search},
	})
}

func (p *Public) renderPlaylists(w http.ResponseWriter, r *http.Request, items []models.Playlist, search string) {
	page(p.renderer, p.sessions, w, r, http.StatusOK, "playlists", &render.PageData{
		Title:   "Playlists",
		Section: "playlists",
		Data:    map[string]any{"Playlists": items, "Search": search},
	})
}

// FormationShow renders a single formation with its embedded video.
func (p *Public) FormationShow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	formation, err := p.formations.FindByID(id)
	if err != nil {
		slog.Error("find formation failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if formation == nil {
		http.NotFound(w, r)
		return
	}

	page(p.renderer, p.sessions, w, r, http.StatusOK, "formation", &render.PageData{
		Title:   formation.Title,
		Section: "formations",
		Data:    map[string]any{"Formation": formation},
	})
}

// PlaylistsIndex lists all playlists, name ascending.
func (p *Public) PlaylistsIndex(w http.ResponseWriter, r *http.Request) {
	items, err := p.playlists.ListOrderedByName(store.Asc)
	if err != nil {
		queryError(w, err)
		return
	}
	p.renderPlaylists(w, r, items, "")
}

// PlaylistsSort lists playlists ordered by name or by formation count.
func (p *Public) PlaylistsSort(w http.ResponseWriter, r *http.Request) {
	dir, err := store.ParseDirection(chi.URLParam(r, "ordre"))
	if err != nil {
		queryError(w, err)
		return
	}

	switch chi.URLParam(r, "champ") {
	case "name":
		list, err := p.playlists.ListOrderedByName(dir)
		if err != nil {
			queryError(w, err)
			return
		}
		p.renderPlaylists(w, r, list, "")
	case "nbformations":
		list, err := p.playlists.ListOrderedByFormationCount(dir)
		if err != nil {
			queryError(w, err)
			return
		}
		p.renderPlaylists(w, r, list, "")
	default:
		http.Error(w, "Bad Request", http.StatusBadRequest)
	}
}

// PlaylistsSearch lists playlists whose field contains the submitted
// value, optionally matching through the categories of their formations.
func (p *Public) PlaylistsSearch(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("recherche")

	items, err := p.playlists.ListContaining(chi.URLParam(r, "champ"), value, chi.URLParam(r, "table"))
	if err != nil {
		queryError(w, err)
		return
	}
	p.renderPlaylists(w, r, items, value)
}

// PlaylistShow renders a playlist with its formations (oldest first) and
// the categories they cover.
func (p *Public) PlaylistShow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	playlist, err := p.playlists.FindByID(id)
	if err != nil {
		slog.Error("find playlist failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if playlist == nil {
		http.NotFound(w, r)
		return
	}

	formations, err := p.formations.ListForPlaylist(id)
	if err != nil {
		slog.Error("playlist formations failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	categories, err := p.categories.ListForPlaylist(id)
	if err != nil {
		slog.Error("playlist categories failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	page(p.renderer, p.sessions, w, r, http.StatusOK, "playlist", &render.PageData{
		Title:   playlist.Name,
		Section: "playlists",
		Data: map[string]any{
			"Playlist":   playlist,
			"Formations": formations,
			"Categories": categories,
		},
	})
}
