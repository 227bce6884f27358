package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"videotheque/internal/models"
	"videotheque/internal/render"
	"videotheque/internal/store"
)

// FormationsIndex lists all formations for the admin table.
func (a *Admin) FormationsIndex(w http.ResponseWriter, r *http.Request) {
	items, err := a.formations.ListContaining("title", "", "")
	if err != nil {
		queryError(w, err)
		return
	}
	a.renderFormationsTable(w, r, items, "")
}

// FormationsSort lists formations ordered by the requested field.
func (a *Admin) FormationsSort(w http.ResponseWriter, r *http.Request) {
	dir, err := store.ParseDirection(chi.URLParam(r, "ordre"))
	if err != nil {
		queryError(w, err)
		return
	}

	items, err := a.formations.ListOrderedBy(chi.URLParam(r, "champ"), dir, chi.URLParam(r, "table"))
	if err != nil {
		queryError(w, err)
		return
	}
	a.renderFormationsTable(w, r, items, "")
}

// FormationsSearch filters the admin table by a substring match.
func (a *Admin) FormationsSearch(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("recherche")

	items, err := a.formations.ListContaining(chi.URLParam(r, "champ"), value, chi.URLParam(r, "table"))
	if err != nil {
		queryError(w, err)
		return
	}
	a.renderFormationsTable(w, r, items, value)
}

func (a *Admin) renderFormationsTable(w http.ResponseWriter, r *http.Request, items []models.Formation, search string) {
	page(a.renderer, a.sessions, w, r, http.StatusOK, "admin_formations", &render.PageData{
		Title:   "Formations",
		Section: "admin",
		Data:    map[string]any{"Formations": items, "Search": search},
	})
}

// FormationAddPage renders the empty creation form, publication date
// defaulted to today.
func (a *Admin) FormationAddPage(w http.ResponseWriter, r *http.Request) {
	a.renderFormationForm(w, r, http.StatusOK, "Ajouter une formation", "/admin/formations/ajout", NewFormationForm(), FormErrors{})
}

// FormationAddSubmit validates and creates a formation.
func (a *Admin) FormationAddSubmit(w http.ResponseWriter, r *http.Request) {
	form := BindFormationForm(r)
	errs := a.validateFormation(form)
	if !errs.Valid() {
		a.renderFormationForm(w, r, http.StatusOK, "Ajouter une formation", "/admin/formations/ajout", form, errs)
		return
	}

	var formation models.Formation
	form.Apply(&formation)

	if _, err := a.formations.Create(&formation, form.CategoryUUIDs()); err != nil {
		slog.Error("create formation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.flashAndRedirect(w, r, "success", "La formation a bien été ajoutée.", "/admin/formations")
}

// FormationEditPage renders the edit form prefilled with the current values.
func (a *Admin) FormationEditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	formation, err := a.formations.FindByID(id)
	if err != nil {
		slog.Error("find formation failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if formation == nil {
		http.NotFound(w, r)
		return
	}

	a.renderFormationForm(w, r, http.StatusOK, "Modifier la formation",
		"/admin/formations/edit/"+id.String(), FormationFormFromModel(formation), FormErrors{})
}

// FormationEditSubmit validates and updates a formation.
func (a *Admin) FormationEditSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	formation, err := a.formations.FindByID(id)
	if err != nil {
		slog.Error("find formation failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if formation == nil {
		http.NotFound(w, r)
		return
	}

	form := BindFormationForm(r)
	errs := a.validateFormation(form)
	if !errs.Valid() {
		a.renderFormationForm(w, r, http.StatusOK, "Modifier la formation",
			"/admin/formations/edit/"+id.String(), form, errs)
		return
	}

	form.Apply(formation)
	if err := a.formations.Update(formation, form.CategoryUUIDs()); err != nil {
		slog.Error("update formation failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.flashAndRedirect(w, r, "success", "La formation a bien été modifiée.", "/admin/formations")
}

// FormationDelete removes a formation. Category and playlist rows are
// never touched, only the links to them.
func (a *Admin) FormationDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	formation, err := a.formations.FindByID(id)
	if err != nil {
		slog.Error("find formation failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if formation == nil {
		http.NotFound(w, r)
		return
	}

	if err := a.formations.Delete(id); err != nil {
		slog.Error("delete formation failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.flashAndRedirect(w, r, "success", "La formation a bien été supprimée.", "/admin/formations")
}

// validateFormation runs the form's own checks plus the referential one:
// the selected playlist must exist.
func (a *Admin) validateFormation(form *FormationForm) FormErrors {
	errs := form.Validate()
	if _, ok := errs["playlist"]; ok {
		return errs
	}

	pid, err := uuid.Parse(form.PlaylistID)
	if err != nil {
		errs["playlist"] = "La playlist sélectionnée est invalide."
		return errs
	}
	playlist, err := a.playlists.FindByID(pid)
	if err != nil {
		slog.Error("playlist existence check failed", "error", err)
		errs["playlist"] = "La playlist n'a pas pu être vérifiée."
		return errs
	}
	if playlist == nil {
		errs["playlist"] = "La playlist sélectionnée n'existe pas."
	}
	return errs
}

// renderFormationForm renders the create/edit form with the playlist and
// category choices.
func (a *Admin) renderFormationForm(w http.ResponseWriter, r *http.Request, status int, heading, action string, form *FormationForm, errs FormErrors) {
	playlists, err := a.playlists.ListOrderedByName(store.Asc)
	if err != nil {
		slog.Error("list playlists failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	categories, err := a.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	page(a.renderer, a.sessions, w, r, status, "admin_formation_form", &render.PageData{
		Title:   heading,
		Section: "admin",
		Data: map[string]any{
			"Heading":    heading,
			"Action":     action,
			"Form":       form,
			"Errors":     errs,
			"Playlists":  playlists,
			"Categories": categories,
		},
	})
}
