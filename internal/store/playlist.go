package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"videotheque/internal/models"
)

// PlaylistStore manages playlists in the database.
type PlaylistStore struct {
	db *sql.DB
}

// NewPlaylistStore returns a new PlaylistStore.
func NewPlaylistStore(db *sql.DB) *PlaylistStore {
	return &PlaylistStore{db: db}
}

// playlistSelect is the base projection for playlist queries. The
// formation count is always computed live with a subselect so filtered
// queries never report a partial count.
const playlistSelect = `
	SELECT p.id, p.name, p.description, p.created_at, p.updated_at,
	       (SELECT COUNT(*) FROM formations f WHERE f.playlist_id = p.id) AS formation_count
	FROM playlists p`

// playlistSearchKeys enumerates the (field, related) pairs a caller may
// substring-search playlists on. The categories variant matches playlists
// containing at least one formation tagged with a matching category.
var playlistSearchKeys = map[queryKey]string{
	{Field: "name"}: `p.name LIKE $1`,
	{Field: "name", Related: "categories"}: `EXISTS (
		SELECT 1 FROM formations f
		JOIN formation_categories fc ON fc.formation_id = f.id
		JOIN categories c ON c.id = fc.category_id
		WHERE f.playlist_id = p.id AND c.name LIKE $1
	)`,
}

func scanPlaylist(scanner interface{ Scan(...any) error }) (*models.Playlist, error) {
	var p models.Playlist
	err := scanner.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt, &p.FormationCount)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// list runs a playlist query and attaches category names to the result.
func (s *PlaylistStore) list(query string, args ...any) ([]models.Playlist, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var items []models.Playlist
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachCategoryNames(items); err != nil {
		return nil, err
	}
	return items, nil
}

// attachCategoryNames fills CategoryNames for each playlist: the
// deduplicated names of categories attached to any of its formations, in
// order of first encounter (formations oldest-insert first, links by
// category id).
func (s *PlaylistStore) attachCategoryNames(items []models.Playlist) error {
	if len(items) == 0 {
		return nil
	}

	rows, err := s.db.Query(`
		SELECT f.playlist_id, c.name
		FROM formations f
		JOIN formation_categories fc ON fc.formation_id = f.id
		JOIN categories c ON c.id = fc.category_id
		WHERE f.playlist_id IS NOT NULL
		ORDER BY f.id, fc.category_id
	`)
	if err != nil {
		return fmt.Errorf("load playlist categories: %w", err)
	}
	defer rows.Close()

	names := make(map[uuid.UUID][]string)
	seen := make(map[uuid.UUID]map[string]bool)
	for rows.Next() {
		var pid uuid.UUID
		var name string
		if err := rows.Scan(&pid, &name); err != nil {
			return fmt.Errorf("scan playlist category: %w", err)
		}
		if seen[pid] == nil {
			seen[pid] = make(map[string]bool)
		}
		if seen[pid][name] {
			continue
		}
		seen[pid][name] = true
		names[pid] = append(names[pid], name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range items {
		items[i].CategoryNames = names[items[i].ID]
	}
	return nil
}

// ListOrderedByName returns all playlists ordered by name.
func (s *PlaylistStore) ListOrderedByName(dir Direction) ([]models.Playlist, error) {
	return s.list(playlistSelect + fmt.Sprintf(` ORDER BY p.name %s, p.id`, dir))
}

// ListOrderedByFormationCount returns all playlists ordered by their live
// formation count, with name ascending as tie-break.
func (s *PlaylistStore) ListOrderedByFormationCount(dir Direction) ([]models.Playlist, error) {
	return s.list(playlistSelect + fmt.Sprintf(` ORDER BY formation_count %s, p.name ASC, p.id`, dir))
}

// ListContaining returns playlists whose named field contains the given
// substring, ordered by name ascending. An empty value matches
// everything. Unknown combinations return ErrUnknownSearchKey.
func (s *PlaylistStore) ListContaining(field, value, related string) ([]models.Playlist, error) {
	predicate, ok := playlistSearchKeys[queryKey{Field: field, Related: related}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownSearchKey, related, field)
	}

	if value == "" {
		return s.ListOrderedByName(Asc)
	}

	query := playlistSelect + ` WHERE ` + predicate + ` ORDER BY p.name ASC, p.id`
	return s.list(query, "%"+value+"%")
}

// FindByID retrieves a playlist with its derived fields. Returns nil if
// not found.
func (s *PlaylistStore) FindByID(id uuid.UUID) (*models.Playlist, error) {
	p, err := scanPlaylist(s.db.QueryRow(playlistSelect+` WHERE p.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find playlist by id: %w", err)
	}

	items := []models.Playlist{*p}
	if err := s.attachCategoryNames(items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// FormationCount returns the live number of formations in a playlist.
// Used by the delete guard.
func (s *PlaylistStore) FormationCount(id uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM formations WHERE playlist_id = $1`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count playlist formations: %w", err)
	}
	return n, nil
}

// Create inserts a new playlist and returns it.
func (s *PlaylistStore) Create(p *models.Playlist) (*models.Playlist, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO playlists (name, description) VALUES ($1, $2) RETURNING id
	`, p.Name, p.Description).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}
	return s.FindByID(id)
}

// Update modifies an existing playlist.
func (s *PlaylistStore) Update(p *models.Playlist) error {
	_, err := s.db.Exec(`
		UPDATE playlists SET name = $1, description = $2, updated_at = NOW() WHERE id = $3
	`, p.Name, p.Description, p.ID)
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	return nil
}

// Delete removes a playlist by ID. Callers must check FormationCount
// first; the foreign key restriction is only a backstop.
func (s *PlaylistStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return nil
}
