// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"videotheque/internal/database"
	"videotheque/internal/middleware"
	"videotheque/internal/models"
	"videotheque/internal/render"
	"videotheque/internal/session"
	"videotheque/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "videotheque")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "videotheque")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "flash:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB         *sql.DB
	Valkey     *redis.Client
	Renderer   *render.Renderer
	Sessions   *session.Store
	Formations *store.FormationStore
	Playlists  *store.PlaylistStore
	Categories *store.CategoryStore
	Users      *store.UserStore
	Admin      *Admin
	Auth       *Auth
	Public     *Public
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore(vk, false)
	formations := store.NewFormationStore(db)
	playlists := store.NewPlaylistStore(db)
	categories := store.NewCategoryStore(db)
	users := store.NewUserStore(db)

	return &testEnv{
		DB:         db,
		Valkey:     vk,
		Renderer:   renderer,
		Sessions:   sessions,
		Formations: formations,
		Playlists:  playlists,
		Categories: categories,
		Users:      users,
		Admin:      NewAdmin(renderer, sessions, formations, playlists, categories),
		Auth:       NewAuth(renderer, sessions, users),
		Public:     NewPublic(renderer, sessions, formations, playlists, categories),
	}
}

// catalog holds the seeded reference entities keyed by name/title.
type catalog struct {
	Categories map[string]*models.Category
	Playlists  map[string]*models.Playlist
	Formations map[string]*models.Formation
}

// seedTestCatalog clears the catalog tables and inserts a small known
// dataset through the stores.
func seedTestCatalog(t *testing.T, env *testEnv) *catalog {
	t.Helper()

	if _, err := env.DB.Exec(`TRUNCATE formation_categories, formations, playlists, categories`); err != nil {
		t.Fatalf("truncate catalog tables: %v", err)
	}

	c := &catalog{
		Categories: make(map[string]*models.Category),
		Playlists:  make(map[string]*models.Playlist),
		Formations: make(map[string]*models.Formation),
	}

	for _, name := range []string{"PHP", "Symfony", "Test"} {
		cat, err := env.Categories.Create(name)
		if err != nil {
			t.Fatalf("seed category %q: %v", name, err)
		}
		c.Categories[name] = cat
	}

	for _, name := range []string{"Développement Web", "Bonnes Pratiques"} {
		p, err := env.Playlists.Create(&models.Playlist{Name: name})
		if err != nil {
			t.Fatalf("seed playlist %q: %v", name, err)
		}
		c.Playlists[name] = p
	}

	for _, f := range []struct {
		title     string
		videoID   string
		published string
		playlist  string
		category  string
	}{
		{"Introduction à Symfony 6", "abc111", "2024-04-10", "Développement Web", "Symfony"},
		{"Les fondamentaux de PHP 8", "def222", "2024-01-15", "Développement Web", "PHP"},
		{"Tests Unitaires en PHP avec PHPUnit", "ghi333", "2024-03-01", "Bonnes Pratiques", "Test"},
	} {
		published, err := time.Parse("2006-01-02", f.published)
		if err != nil {
			t.Fatalf("parse date %q: %v", f.published, err)
		}
		pid := c.Playlists[f.playlist].ID
		created, err := env.Formations.Create(&models.Formation{
			Title:       f.title,
			VideoID:     f.videoID,
			PublishedAt: &published,
			PlaylistID:  &pid,
		}, []uuid.UUID{c.Categories[f.category].ID})
		if err != nil {
			t.Fatalf("seed formation %q: %v", f.title, err)
		}
		c.Formations[f.title] = created
	}

	return c
}

// testAdmin inserts a unique admin user and cleans it up afterwards.
func testAdmin(t *testing.T, env *testEnv, password string) *models.User {
	t.Helper()

	email := "admin-" + uuid.NewString() + "@test.com"
	user, err := env.Users.Create(email, password, models.RoleAdmin)
	if err != nil {
		t.Fatalf("create admin user: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec(`DELETE FROM users WHERE id = $1`, user.ID) })
	return user
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email, role string) *session.Data {
	return &session.Data{UserID: userID, Email: email, Role: role}
}

// withChiURLParams adds chi URL parameters to a request.
func withChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// liveSession creates a real session in Valkey and returns a request
// carrying its cookie and context, so handlers can queue flashes on it.
func liveSession(t *testing.T, env *testEnv, method, target string, data *session.Data) *http.Request {
	t.Helper()

	w := httptest.NewRecorder()
	if _, err := env.Sessions.Create(context.Background(), w, data); err != nil {
		t.Fatalf("session create: %v", err)
	}

	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(w.Result().Cookies()[0])
	return req.WithContext(ctxWithSession(req.Context(), data))
}
