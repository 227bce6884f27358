package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"videotheque/internal/render"
)

// CategoriesIndex lists all categories with their usage counts. The add
// form lives on the same page — categories have no edit screen.
func (a *Admin) CategoriesIndex(w http.ResponseWriter, r *http.Request) {
	a.renderCategories(w, r, http.StatusOK, &CategoryForm{}, FormErrors{})
}

// CategoryAddSubmit validates and creates a category. Names are unique:
// a duplicate re-renders the index with an inline error.
func (a *Admin) CategoryAddSubmit(w http.ResponseWriter, r *http.Request) {
	form := BindCategoryForm(r)
	errs := form.Validate()

	if errs.Valid() {
		existing, err := a.categories.FindByName(form.Name)
		if err != nil {
			slog.Error("category uniqueness check failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if existing != nil {
			errs["name"] = "Cette catégorie existe déjà."
		}
	}

	if !errs.Valid() {
		a.renderCategories(w, r, http.StatusOK, form, errs)
		return
	}

	if _, err := a.categories.Create(form.Name); err != nil {
		slog.Error("create category failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.flashAndRedirect(w, r, "success", "La catégorie a bien été ajoutée.", "/admin/categories")
}

// CategoryDelete removes a category unless formations still carry it —
// in that case nothing is deleted and an error flash explains why.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	category, err := a.categories.FindByID(id)
	if err != nil {
		slog.Error("find category failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if category == nil {
		http.NotFound(w, r)
		return
	}

	count, err := a.categories.FormationCount(id)
	if err != nil {
		slog.Error("category formation count failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		a.flashAndRedirect(w, r, "error",
			"Impossible de supprimer la catégorie : des formations y sont rattachées.", "/admin/categories")
		return
	}

	if err := a.categories.Delete(id); err != nil {
		slog.Error("delete category failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.flashAndRedirect(w, r, "success", "La catégorie a bien été supprimée.", "/admin/categories")
}

func (a *Admin) renderCategories(w http.ResponseWriter, r *http.Request, status int, form *CategoryForm, errs FormErrors) {
	items, err := a.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	page(a.renderer, a.sessions, w, r, status, "admin_categories", &render.PageData{
		Title:   "Catégories",
		Section: "admin",
		Data: map[string]any{
			"Categories": items,
			"Form":       form,
			"Errors":     errs,
		},
	})
}
