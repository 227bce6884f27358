package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a tag applicable to many formations (many-to-many).
// Names are unique; uniqueness is checked at the application layer
// before insert in addition to the database constraint.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	// FormationCount is the number of formations tagged with this
	// category, populated by store list methods. A category with a
	// non-zero count cannot be deleted.
	FormationCount int `json:"formation_count"`
}
