package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// seedFormation describes one formation row inserted by Seed.
type seedFormation struct {
	title       string
	description string
	videoID     string
	publishedAt string // YYYY-MM-DD
	playlist    string
	categories  []string
}

var seedFormations = []seedFormation{
	{
		title:       "Introduction à Symfony 6",
		description: "Découvrez les bases du framework Symfony.",
		videoID:     "abc111",
		publishedAt: "2024-04-10",
		playlist:    "Développement Web",
		categories:  []string{"Symfony", "PHP"},
	},
	{
		title:       "Les fondamentaux de PHP 8",
		description: "Maîtriser les bases du langage PHP.",
		videoID:     "def222",
		publishedAt: "2024-01-15",
		playlist:    "Développement Web",
		categories:  []string{"PHP"},
	},
	{
		title:       "Tests Unitaires en PHP avec PHPUnit",
		description: "Apprenez à écrire des tests unitaires efficaces.",
		videoID:     "ghi333",
		publishedAt: "2024-03-01",
		playlist:    "Bonnes Pratiques",
		categories:  []string{"PHP", "Test"},
	},
	{
		title:       "Symfony Avancé : Services et Injection",
		description: "Approfondir Symfony avec les services.",
		videoID:     "jkl444",
		publishedAt: "2024-04-11",
		playlist:    "Bonnes Pratiques",
		categories:  []string{"Symfony", "PHP"},
	},
	{
		title:       "Bases HTML5 et CSS3",
		description: "Créer la structure et le style des pages web.",
		videoID:     "mno555",
		publishedAt: "2024-03-05",
		playlist:    "Développement Web",
	},
}

var seedPlaylists = map[string]string{
	"Développement Web": "Les bases et frameworks du développement web.",
	"Bonnes Pratiques":  "Qualité, tests et bonnes habitudes.",
}

var seedCategories = []string{"PHP", "Symfony", "Test"}

// Seed populates the database with the initial catalog and the admin
// account. It is a no-op when users already exist, so it is safe to run
// on every startup.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO users (email, password_hash, role) VALUES ($1, $2, $3)
	`, "admin@test.com", string(hash), "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	categoryIDs := make(map[string]string)
	for _, name := range seedCategories {
		var id string
		err := tx.QueryRow(`
			INSERT INTO categories (name) VALUES ($1) RETURNING id
		`, name).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert category %q: %w", name, err)
		}
		categoryIDs[name] = id
	}

	playlistIDs := make(map[string]string)
	for name, description := range seedPlaylists {
		var id string
		err := tx.QueryRow(`
			INSERT INTO playlists (name, description) VALUES ($1, $2) RETURNING id
		`, name, description).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert playlist %q: %w", name, err)
		}
		playlistIDs[name] = id
	}

	for _, f := range seedFormations {
		publishedAt, err := time.Parse("2006-01-02", f.publishedAt)
		if err != nil {
			return fmt.Errorf("seed parse date %q: %w", f.publishedAt, err)
		}

		var id string
		err = tx.QueryRow(`
			INSERT INTO formations (title, description, video_id, published_at, playlist_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, f.title, f.description, f.videoID, publishedAt, playlistIDs[f.playlist]).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert formation %q: %w", f.title, err)
		}

		for _, cat := range f.categories {
			_, err := tx.Exec(`
				INSERT INTO formation_categories (formation_id, category_id) VALUES ($1, $2)
			`, id, categoryIDs[cat])
			if err != nil {
				return fmt.Errorf("seed link formation %q to %q: %w", f.title, cat, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with catalog data and admin user",
		"email", "admin@test.com",
		"formations", len(seedFormations),
	)
	return nil
}
