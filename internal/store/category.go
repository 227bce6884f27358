package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"videotheque/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// List returns all categories ordered by name, with usage counts.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.created_at, COUNT(fc.formation_id) AS formation_count
		FROM categories c
		LEFT JOIN formation_categories fc ON fc.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.FormationCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// ListForPlaylist returns the distinct categories attached to any
// formation of the given playlist, ordered by name.
func (s *CategoryStore) ListForPlaylist(playlistID uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT c.id, c.name, c.created_at
		FROM categories c
		JOIN formation_categories fc ON fc.category_id = c.id
		JOIN formations f ON f.id = fc.formation_id
		WHERE f.playlist_id = $1
		ORDER BY c.name ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list categories for playlist: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRow(`
		SELECT id, name, created_at FROM categories WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return &c, nil
}

// FindByName retrieves a category by exact name. Returns nil if not
// found. Used for the uniqueness check before insert.
func (s *CategoryStore) FindByName(name string) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRow(`
		SELECT id, name, created_at FROM categories WHERE name = $1
	`, name).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return &c, nil
}

// FormationCount returns the number of formations tagged with the
// category. A non-zero count blocks deletion.
func (s *CategoryStore) FormationCount(id uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM formation_categories WHERE category_id = $1
	`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count category formations: %w", err)
	}
	return n, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(name string) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRow(`
		INSERT INTO categories (name) VALUES ($1) RETURNING id, name, created_at
	`, name).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &c, nil
}

// Delete removes a category by ID. Callers must check FormationCount
// first; the foreign key restriction is only a backstop.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
