package models

import (
	"time"

	"github.com/google/uuid"
)

// Playlist is a named grouping of formations. A formation belongs to at
// most one playlist.
type Playlist struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual fields populated by store methods. FormationCount is always
	// computed by aggregation, never stored.
	FormationCount int      `json:"formation_count"`
	CategoryNames  []string `json:"category_names,omitempty"`
}
