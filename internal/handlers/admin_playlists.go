package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"videotheque/internal/models"
	"videotheque/internal/render"
	"videotheque/internal/store"
)

// PlaylistsIndex lists all playlists for the admin table, name ascending.
func (a *Admin) PlaylistsIndex(w http.ResponseWriter, r *http.Request) {
	items, err := a.playlists.ListOrderedByName(store.Asc)
	if err != nil {
		queryError(w, err)
		return
	}
	a.renderPlaylistsTable(w, r, items, "")
}

// PlaylistsSort lists playlists ordered by name or by formation count.
func (a *Admin) PlaylistsSort(w http.ResponseWriter, r *http.Request) {
	dir, err := store.ParseDirection(chi.URLParam(r, "ordre"))
	if err != nil {
		queryError(w, err)
		return
	}

	switch chi.URLParam(r, "champ") {
	case "name":
		items, err := a.playlists.ListOrderedByName(dir)
		if err != nil {
			queryError(w, err)
			return
		}
		a.renderPlaylistsTable(w, r, items, "")
	case "nbformations":
		items, err := a.playlists.ListOrderedByFormationCount(dir)
		if err != nil {
			queryError(w, err)
			return
		}
		a.renderPlaylistsTable(w, r, items, "")
	default:
		http.Error(w, "Bad Request", http.StatusBadRequest)
	}
}

// PlaylistsSearch filters the admin table by a substring match.
func (a *Admin) PlaylistsSearch(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("recherche")

	items, err := a.playlists.ListContaining(chi.URLParam(r, "champ"), value, chi.URLParam(r, "table"))
	if err != nil {
		queryError(w, err)
		return
	}
	a.renderPlaylistsTable(w, r, items, value)
}

func (a *Admin) renderPlaylistsTable(w http.ResponseWriter, r *http.Request, items []models.Playlist, search string) {
	page(a.renderer, a.sessions, w, r, http.StatusOK, "admin_playlists", &render.PageData{
		Title:   "Playlists",
		Section: "admin",
		Data:    map[string]any{"Playlists": items, "Search": search},
	})
}

// PlaylistAddPage renders the empty creation form.
func (a *Admin) PlaylistAddPage(w http.ResponseWriter, r *http.Request) {
	a.renderPlaylistForm(w, r, http.StatusOK, "Ajouter une playlist", "/admin/playlists/ajout", &PlaylistForm{}, FormErrors{})
}

// PlaylistAddSubmit validates and creates a playlist.
func (a *Admin) PlaylistAddSubmit(w http.ResponseWriter, r *http.Request) {
	form := BindPlaylistForm(r)
	errs := form.Validate()
	if !errs.Valid() {
		a.renderPlaylistForm(w, r, http.StatusOK, "Ajouter une playlist", "/admin/playlists/ajout", form, errs)
		return
	}

	var playlist models.Playlist
	form.Apply(&playlist)

	if _, err := a.playlists.Create(&playlist); err != nil {
		slog.Error("create playlist failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.flashAndRedirect(w, r, "success", "La playlist a bien été ajoutée.", "/admin/playlists")
}

// PlaylistEditPage renders the edit form prefilled with the current values.
func (a *Admin) PlaylistEditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	playlist, err := a.playlists.FindByID(id)
	if err != nil {
		slog.Error("find playlist failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if playlist == nil {
		http.NotFound(w, r)
		return
	}

	a.renderPlaylistForm(w, r, http.StatusOK, "Modifier la playlist",
		"/admin/playlists/edit/"+id.String(), PlaylistFormFromModel(playlist), FormErrors{})
}

// PlaylistEditSubmit validates and updates a playlist.
func (a *Admin) PlaylistEditSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	playlist, err := a.playlists.FindByID(id)
	if err != nil {
		slog.Error("find playlist failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if playlist == nil {
		http.NotFound(w, r)
		return
	}

	form := BindPlaylistForm(r)
	errs := form.Validate()
	if !errs.Valid() {
		a.renderPlaylistForm(w, r, http.StatusOK, "Modifier la playlist",
			"/admin/playlists/edit/"+id.String(), form, errs)
		return
	}

	form.Apply(playlist)
	if err := a.playlists.Update(playlist); err != nil {
		slog.Error("update playlist failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.flashAndRedirect(w, r, "success", "La playlist a bien été modifiée.", "/admin/playlists")
}

// PlaylistDelete removes a playlist unless formations are still attached
// to it — in that case nothing is deleted and an error flash explains why.
func (a *Admin) PlaylistDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	playlist, err := a.playlists.FindByID(id)
	if err != nil {
		slog.Error("find playlist failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if playlist == nil {
		http.NotFound(w, r)
		return
	}

	count, err := a.playlists.FormationCount(id)
	if err != nil {
		slog.Error("playlist formation count failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		a.flashAndRedirect(w, r, "error",
			"Impossible de supprimer la playlist : des formations y sont rattachées.", "/admin/playlists")
		return
	}

	if err := a.playlists.Delete(id); err != nil {
		slog.Error("delete playlist failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.flashAndRedirect(w, r, "success", "La playlist a bien été supprimée.", "/admin/playlists")
}

func (a *Admin) renderPlaylistForm(w http.ResponseWriter, r *http.Request, status int, heading, action string, form *PlaylistForm, errs FormErrors) {
	page(a.renderer, a.sessions, w, r, status, "admin_playlist_form", &render.PageData{
		Title:   heading,
		Section: "admin",
		Data: map[string]any{
			"Heading": heading,
			"Action":  action,
			"Form":    form,
			"Errors":  errs,
		},
	})
}
