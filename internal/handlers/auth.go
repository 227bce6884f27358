package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"videotheque/internal/middleware"
	"videotheque/internal/render"
	"videotheque/internal/session"
	"videotheque/internal/store"
)

// loginFailureMessage is deliberately generic: it never reveals whether
// the email exists or the password was wrong.
const loginFailureMessage = "Identifiants invalides."

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Store
	users    *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, users *store.UserStore) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		users:    users,
	}
}

// LoginPage renders the login form. Authenticated users are sent straight
// to the admin index.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/admin/formations", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, http.StatusOK, "login", &render.PageData{
		Title: "Connexion",
		Data:  map[string]any{"Email": "", "Error": ""},
	})
}

// LoginSubmit processes the login form. On failure the form is re-rendered
// with the attempted email prefilled (never the password). On success the
// user is sent back to the admin URL they originally requested, if any.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	user, err := a.users.FindByEmail(email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		a.renderer.Page(w, r, http.StatusOK, "login", &render.PageData{
			Title: "Connexion",
			Data:  map[string]any{"Email": email, "Error": "Une erreur est survenue."},
		})
		return
	}

	if user == nil || !a.users.CheckPassword(user, password) {
		a.renderer.Page(w, r, http.StatusOK, "login", &render.PageData{
			Title: "Connexion",
			Data:  map[string]any{"Email": email, "Error": loginFailureMessage},
		})
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	}); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, a.popReturnTarget(w, r), http.StatusSeeOther)
}

// Logout destroys the session and sends the visitor back to the homepage.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// popReturnTarget reads and clears the return-to cookie set by the auth
// middleware. Only local admin paths are honored; everything else falls
// back to the admin index.
func (a *Auth) popReturnTarget(w http.ResponseWriter, r *http.Request) string {
	target := "/admin/formations"

	cookie, err := r.Cookie(middleware.ReturnToCookie)
	if err != nil {
		return target
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.ReturnToCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	if strings.HasPrefix(cookie.Value, "/admin") && !strings.HasPrefix(cookie.Value, "//") {
		target = cookie.Value
	}
	return target
}
