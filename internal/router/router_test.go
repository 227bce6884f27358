// Package router tests verify the route table, the health endpoint and
// the admin redirect without needing live services.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"videotheque/internal/handlers"
	"videotheque/internal/middleware"
	"videotheque/internal/render"
	"videotheque/internal/session"
	"videotheque/internal/store"
)

// testRouter builds the full route table. Handlers are method values on
// nil receivers — never invoked, routing only.
func testRouter() chi.Router {
	var (
		store   *session.Store
		admin   *handlers.Admin
		auth    *handlers.Auth
		public  *handlers.Public
		limiter = middleware.NewRateLimiter(5, time.Minute)
	)
	defer limiter.Stop()
	return New(store, limiter, admin, auth, public)
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestRedirectToAdminFormations(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/admin", nil)

	redirectTo("/admin/formations")(w, r)

	if w.Code != http.StatusSeeOther {
		t.Errorf("status: got %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin/formations" {
		t.Errorf("Location = %q, want /admin/formations", loc)
	}
}

// TestLoginThrottleScope verifies the login rate limit only counts
// credential submissions: the form itself must stay reachable even
// after the throttle trips.
func TestLoginThrottleScope(t *testing.T) {
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	sessions := session.NewStore(nil, false)
	auth := handlers.NewAuth(renderer, sessions, store.NewUserStore(nil))
	limiter := middleware.NewRateLimiter(1, time.Minute)
	defer limiter.Stop()
	r := New(sessions, limiter, nil, auth, nil)

	// The form page never consumes the budget, even well past the limit.
	var csrf *http.Cookie
	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/login", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET /login #%d: got %d, want 200", i+1, rec.Code)
		}
		for _, c := range rec.Result().Cookies() {
			if c.Name == middleware.CSRFCookieName {
				csrf = c
			}
		}
	}
	if csrf == nil {
		t.Fatal("no CSRF cookie issued on GET /login")
	}

	submit := func() int {
		body := url.Values{
			middleware.CSRFFormField: {csrf.Value},
			"email":                  {"admin@example.com"},
			"password":               {"wrong"},
		}
		req := httptest.NewRequest("POST", "/login", strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(csrf)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := submit(); code == http.StatusTooManyRequests {
		t.Fatalf("first submission throttled: got %d", code)
	}
	if code := submit(); code != http.StatusTooManyRequests {
		t.Errorf("second submission: got %d, want 429", code)
	}
}

func TestRouteTable(t *testing.T) {
	r := testRouter()

	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{"GET", "/", true},
		{"GET", "/cgu", true},
		{"GET", "/health", true},
		{"GET", "/login", true},
		{"POST", "/login", true},
		{"GET", "/logout", true},
		{"POST", "/logout", true},

		{"GET", "/formations", true},
		{"GET", "/formations/tri/title/ASC", true},
		{"GET", "/formations/tri/name/ASC/playlist", true},
		{"GET", "/formations/recherche/title", true},
		{"GET", "/formations/recherche/name/playlist", true},
		{"GET", "/formation/some-id", true},

		{"GET", "/playlists", true},
		{"GET", "/playlists/tri/nbformations/DESC", true},
		{"GET", "/playlists/recherche/name/categories", true},
		{"GET", "/playlist/some-id", true},

		{"GET", "/admin", true},
		{"GET", "/admin/formations", true},
		{"GET", "/admin/formations/ajout", true},
		{"POST", "/admin/formations/ajout", true},
		{"GET", "/admin/formations/edit/some-id", true},
		{"POST", "/admin/formations/edit/some-id", true},
		{"POST", "/admin/formations/suppr/some-id", true},
		{"GET", "/admin/playlists", true},
		{"POST", "/admin/playlists/ajout", true},
		{"GET", "/admin/categories", true},
		{"POST", "/admin/categories/ajout", true},
		{"POST", "/admin/categories/suppr/some-id", true},

		// Categories have no edit route.
		{"GET", "/admin/categories/edit/some-id", false},
		// Formation pages are read-only on the public side.
		{"POST", "/formation/some-id", false},
	}

	for _, tt := range tests {
		rctx := chi.NewRouteContext()
		got := r.Match(rctx, tt.method, tt.path)
		if got != tt.want {
			t.Errorf("%s %s: matched = %v, want %v", tt.method, tt.path, got, tt.want)
		}
	}
}
