// Package router sets up all HTTP routes and middleware chains for the
// vidéothèque server. It organizes routes into public, auth and admin
// groups with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"videotheque/internal/handlers"
	"videotheque/internal/middleware"
	"videotheque/internal/session"
	"videotheque/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. loginLimiter throttles credential guessing
// on the login endpoint.
func New(sessionStore *session.Store, loginLimiter *middleware.RateLimiter, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Embedded static assets. Request paths mirror the embed layout, so
	// /static/style.css resolves without stripping a prefix.
	r.Handle("/static/*", http.FileServer(http.FS(web.StaticFS)))

	// Auth pages. Only credential submissions are rate-limited; viewing
	// the form stays free so a throttled user can still load the page.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Get("/login", auth.LoginPage)
		r.With(loginLimiter.Middleware).Post("/login", auth.LoginSubmit)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Get("/logout", auth.Logout)
		r.Post("/logout", auth.Logout)
	})

	// Public catalog.
	r.Get("/", public.Home)
	r.Get("/cgu", public.CGU)

	r.Route("/formations", func(r chi.Router) {
		r.Get("/", public.FormationsIndex)
		r.Get("/tri/{champ}/{ordre}", public.FormationsSort)
		r.Get("/tri/{champ}/{ordre}/{table}", public.FormationsSort)
		r.Get("/recherche/{champ}", public.FormationsSearch)
		r.Get("/recherche/{champ}/{table}", public.FormationsSearch)
	})
	r.Get("/formation/{id}", public.FormationShow)

	r.Route("/playlists", func(r chi.Router) {
		r.Get("/", public.PlaylistsIndex)
		r.Get("/tri/{champ}/{ordre}", public.PlaylistsSort)
		r.Get("/tri/{champ}/{ordre}/{table}", public.PlaylistsSort)
		r.Get("/recherche/{champ}", public.PlaylistsSearch)
		r.Get("/recherche/{champ}/{table}", public.PlaylistsSearch)
	})
	r.Get("/playlist/{id}", public.PlaylistShow)

	// Admin area — authenticated admins only, CSRF on every write.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireAdmin)

		r.Get("/", redirectTo("/admin/formations"))

		r.Route("/formations", func(r chi.Router) {
			r.Get("/", admin.FormationsIndex)
			r.Get("/tri/{champ}/{ordre}", admin.FormationsSort)
			r.Get("/tri/{champ}/{ordre}/{table}", admin.FormationsSort)
			r.Get("/recherche/{champ}", admin.FormationsSearch)
			r.Get("/recherche/{champ}/{table}", admin.FormationsSearch)
			r.Get("/ajout", admin.FormationAddPage)
			r.Post("/ajout", admin.FormationAddSubmit)
			r.Get("/edit/{id}", admin.FormationEditPage)
			r.Post("/edit/{id}", admin.FormationEditSubmit)
			r.Get("/suppr/{id}", admin.FormationDelete)
			r.Post("/suppr/{id}", admin.FormationDelete)
		})

		r.Route("/playlists", func(r chi.Router) {
			r.Get("/", admin.PlaylistsIndex)
			r.Get("/tri/{champ}/{ordre}", admin.PlaylistsSort)
			r.Get("/tri/{champ}/{ordre}/{table}", admin.PlaylistsSort)
			r.Get("/recherche/{champ}", admin.PlaylistsSearch)
			r.Get("/recherche/{champ}/{table}", admin.PlaylistsSearch)
			r.Get("/ajout", admin.PlaylistAddPage)
			r.Post("/ajout", admin.PlaylistAddSubmit)
			r.Get("/edit/{id}", admin.PlaylistEditPage)
			r.Post("/edit/{id}", admin.PlaylistEditSubmit)
			r.Get("/suppr/{id}", admin.PlaylistDelete)
			r.Post("/suppr/{id}", admin.PlaylistDelete)
		})

		// Categories have no edit screen; the add form lives on the index.
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", admin.CategoriesIndex)
			r.Post("/ajout", admin.CategoryAddSubmit)
			r.Get("/suppr/{id}", admin.CategoryDelete)
			r.Post("/suppr/{id}", admin.CategoryDelete)
		})
	})

	return r
}

// redirectTo returns a handler that sends a 303 to the given target.
func redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
