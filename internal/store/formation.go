package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"videotheque/internal/models"
)

// FormationStore manages formations in the database.
type FormationStore struct {
	db *sql.DB
}

// NewFormationStore returns a new FormationStore.
func NewFormationStore(db *sql.DB) *FormationStore {
	return &FormationStore{db: db}
}

// formationSelect is the base projection shared by all formation queries.
// The playlist is always left-joined so list views can show its name.
const formationSelect = `
	SELECT f.id, f.title, f.description, f.video_id, f.published_at,
	       f.playlist_id, pl.name, f.created_at, f.updated_at
	FROM formations f
	LEFT JOIN playlists pl ON pl.id = f.playlist_id`

// categoriesJoin links formations to their categories for sorts and
// searches on category names. Rows duplicated by the join are collapsed
// by id when scanning.
const categoriesJoin = `
	JOIN formation_categories fc ON fc.formation_id = f.id
	JOIN categories c ON c.id = fc.category_id`

// formationSortKeys enumerates the (field, related) pairs a caller may
// sort formations by. Anything else is ErrUnknownSortKey.
var formationSortKeys = map[queryKey]queryTarget{
	{Field: "title"}:                       {Column: "f.title"},
	{Field: "publishedAt"}:                 {Column: "f.published_at"},
	{Field: "name", Related: "playlist"}:   {Column: "pl.name"},
	{Field: "name", Related: "categories"}: {Join: categoriesJoin, Column: "c.name"},
}

// formationSearchKeys enumerates the (field, related) pairs a caller may
// substring-search formations on.
var formationSearchKeys = map[queryKey]queryTarget{
	{Field: "title"}:                       {Column: "f.title"},
	{Field: "name", Related: "playlist"}:   {Column: "pl.name"},
	{Field: "name", Related: "categories"}: {Join: categoriesJoin, Column: "c.name"},
}

// scanFormations reads formation rows, collapsing duplicates produced by
// category joins (first occurrence wins, preserving query order).
func scanFormations(rows *sql.Rows) ([]models.Formation, error) {
	var items []models.Formation
	seen := make(map[uuid.UUID]bool)
	for rows.Next() {
		var f models.Formation
		err := rows.Scan(
			&f.ID, &f.Title, &f.Description, &f.VideoID, &f.PublishedAt,
			&f.PlaylistID, &f.PlaylistName, &f.CreatedAt, &f.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan formation: %w", err)
		}
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		items = append(items, f)
	}
	return items, rows.Err()
}

// list runs a formation query and attaches categories to the result.
func (s *FormationStore) list(query string, args ...any) ([]models.Formation, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list formations: %w", err)
	}
	defer rows.Close()

	items, err := scanFormations(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachCategories(items); err != nil {
		return nil, err
	}
	return items, nil
}

// attachCategories populates the Categories field of each formation from
// a single aggregate query over the join table.
func (s *FormationStore) attachCategories(items []models.Formation) error {
	if len(items) == 0 {
		return nil
	}

	rows, err := s.db.Query(`
		SELECT fc.formation_id, c.id, c.name, c.created_at
		FROM formation_categories fc
		JOIN categories c ON c.id = fc.category_id
		ORDER BY fc.formation_id, c.id
	`)
	if err != nil {
		return fmt.Errorf("load formation categories: %w", err)
	}
	defer rows.Close()

	byFormation := make(map[uuid.UUID][]models.Category)
	for rows.Next() {
		var fid uuid.UUID
		var c models.Category
		if err := rows.Scan(&fid, &c.ID, &c.Name, &c.CreatedAt); err != nil {
			return fmt.Errorf("scan formation category: %w", err)
		}
		byFormation[fid] = append(byFormation[fid], c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range items {
		items[i].Categories = byFormation[items[i].ID]
	}
	return nil
}

// List returns all formations in a deterministic storage order (id asc).
func (s *FormationStore) List() ([]models.Formation, error) {
	return s.list(formationSelect + ` ORDER BY f.id`)
}

// Latest returns the n most recently published formations, most recent
// first. Equal dates are broken by id ascending.
func (s *FormationStore) Latest(n int) ([]models.Formation, error) {
	return s.list(formationSelect+`
		ORDER BY f.published_at DESC NULLS LAST, f.id
		LIMIT $1`, n)
}

// ListOrderedBy returns all formations ordered by the named field. When
// related is non-empty the field belongs to the named related entity
// ("playlist" or "categories") and the sort goes through a join. Unknown
// combinations return ErrUnknownSortKey.
func (s *FormationStore) ListOrderedBy(field string, dir Direction, related string) ([]models.Formation, error) {
	target, ok := formationSortKeys[queryKey{Field: field, Related: related}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownSortKey, related, field)
	}

	query := formationSelect + target.Join +
		fmt.Sprintf(` ORDER BY %s %s, f.id`, target.Column, dir)
	return s.list(query)
}

// ListContaining returns formations whose named field contains the given
// substring, ordered by publication date descending. An empty value
// matches everything. Unknown combinations return ErrUnknownSearchKey.
func (s *FormationStore) ListContaining(field, value, related string) ([]models.Formation, error) {
	target, ok := formationSearchKeys[queryKey{Field: field, Related: related}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownSearchKey, related, field)
	}

	if value == "" {
		return s.list(formationSelect + ` ORDER BY f.published_at DESC NULLS LAST, f.id`)
	}

	query := formationSelect + target.Join +
		fmt.Sprintf(` WHERE %s LIKE $1 ORDER BY f.published_at DESC NULLS LAST, f.id`, target.Column)
	return s.list(query, "%"+value+"%")
}

// ListForPlaylist returns the formations of one playlist, oldest first.
func (s *FormationStore) ListForPlaylist(playlistID uuid.UUID) ([]models.Formation, error) {
	return s.list(formationSelect+`
		WHERE f.playlist_id = $1
		ORDER BY f.published_at ASC NULLS FIRST, f.id`, playlistID)
}

// FindByID retrieves a formation with its categories. Returns nil if not found.
func (s *FormationStore) FindByID(id uuid.UUID) (*models.Formation, error) {
	var f models.Formation
	err := s.db.QueryRow(formationSelect+` WHERE f.id = $1`, id).Scan(
		&f.ID, &f.Title, &f.Description, &f.VideoID, &f.PublishedAt,
		&f.PlaylistID, &f.PlaylistName, &f.CreatedAt, &f.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find formation by id: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.created_at
		FROM formation_categories fc
		JOIN categories c ON c.id = fc.category_id
		WHERE fc.formation_id = $1
		ORDER BY c.id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("load categories for formation: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		f.Categories = append(f.Categories, c)
	}
	return &f, rows.Err()
}

// Create inserts a new formation and its category links in a single
// transaction, then returns it with all relations loaded.
func (s *FormationStore) Create(f *models.Formation, categoryIDs []uuid.UUID) (*models.Formation, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create formation begin: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRow(`
		INSERT INTO formations (title, description, video_id, published_at, playlist_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, f.Title, f.Description, f.VideoID, f.PublishedAt, f.PlaylistID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create formation: %w", err)
	}

	if err := replaceCategories(tx, id, categoryIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create formation commit: %w", err)
	}
	return s.FindByID(id)
}

// Update modifies a formation and replaces its category links in a
// single transaction.
func (s *FormationStore) Update(f *models.Formation, categoryIDs []uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("update formation begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE formations SET
			title = $1, description = $2, video_id = $3, published_at = $4,
			playlist_id = $5, updated_at = NOW()
		WHERE id = $6
	`, f.Title, f.Description, f.VideoID, f.PublishedAt, f.PlaylistID, f.ID)
	if err != nil {
		return fmt.Errorf("update formation: %w", err)
	}

	if err := replaceCategories(tx, f.ID, categoryIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update formation commit: %w", err)
	}
	return nil
}

// replaceCategories rewrites the category links of one formation. Both
// sides of the many-to-many relation live in this one table, so updating
// it inside the caller's transaction keeps the association consistent.
func replaceCategories(tx *sql.Tx, formationID uuid.UUID, categoryIDs []uuid.UUID) error {
	if _, err := tx.Exec(`DELETE FROM formation_categories WHERE formation_id = $1`, formationID); err != nil {
		return fmt.Errorf("clear formation categories: %w", err)
	}
	for _, cid := range categoryIDs {
		_, err := tx.Exec(`
			INSERT INTO formation_categories (formation_id, category_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, formationID, cid)
		if err != nil {
			return fmt.Errorf("link category %s: %w", cid, err)
		}
	}
	return nil
}

// Delete removes a formation. Its category links go with it; the playlist
// and categories themselves are untouched.
func (s *FormationStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM formations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete formation: %w", err)
	}
	return nil
}
