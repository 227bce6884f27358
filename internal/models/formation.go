// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// thumbnailBase is the URL prefix for YouTube thumbnail images.
const thumbnailBase = "https://i.ytimg.com/vi/"

// Formation represents a single training video: a YouTube video reference
// with a title, an optional playlist and any number of categories.
type Formation struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	VideoID     string     `json:"video_id"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	PlaylistID  *uuid.UUID `json:"playlist_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Virtual fields populated by store methods.
	PlaylistName *string    `json:"playlist_name,omitempty"`
	Categories   []Category `json:"categories,omitempty"`
}

// ThumbnailURL returns the URL of the video's small default thumbnail.
func (f *Formation) ThumbnailURL() string {
	return thumbnailBase + f.VideoID + "/default.jpg"
}

// PictureURL returns the URL of the video's high-quality still image.
func (f *Formation) PictureURL() string {
	return thumbnailBase + f.VideoID + "/hqdefault.jpg"
}

// PublishedAtString returns the publication date formatted as DD/MM/YYYY,
// or the empty string when no date is set.
func (f *Formation) PublishedAtString() string {
	if f.PublishedAt == nil {
		return ""
	}
	return f.PublishedAt.Format("02/01/2006")
}

// HasCategory reports whether the formation is tagged with the given category.
func (f *Formation) HasCategory(id uuid.UUID) bool {
	for _, c := range f.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
