package handlers

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"videotheque/internal/models"
)

// Validation limits for form fields.
const (
	maxTitleLen       = 255
	maxNameLen        = 255
	maxVideoIDLen     = 64
	maxDescriptionLen = 5_000
)

// dateLayout is the HTML date input format.
const dateLayout = "2006-01-02"

// FormErrors maps a form field name to its error message. An empty map
// means the form is valid.
type FormErrors map[string]string

// Valid reports whether the form passed validation.
func (e FormErrors) Valid() bool { return len(e) == 0 }

// CategoryForm binds the category creation form.
type CategoryForm struct {
	Name string
}

// BindCategoryForm parses the category form from the request body.
func BindCategoryForm(r *http.Request) *CategoryForm {
	return &CategoryForm{
		Name: strings.TrimSpace(r.FormValue("name")),
	}
}

// Validate checks the category form and returns field errors.
func (f *CategoryForm) Validate() FormErrors {
	errs := FormErrors{}
	if f.Name == "" {
		errs["name"] = "Le nom est obligatoire."
	} else if utf8.RuneCountInString(f.Name) > maxNameLen {
		errs["name"] = "Le nom est trop long (255 caractères maximum)."
	}
	return errs
}

// PlaylistForm binds the playlist create/edit form.
type PlaylistForm struct {
	Name        string
	Description string
}

// BindPlaylistForm parses the playlist form from the request body.
func BindPlaylistForm(r *http.Request) *PlaylistForm {
	return &PlaylistForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
}

// Validate checks the playlist form and returns field errors.
func (f *PlaylistForm) Validate() FormErrors {
	errs := FormErrors{}
	if f.Name == "" {
		errs["name"] = "Le nom est obligatoire."
	} else if utf8.RuneCountInString(f.Name) > maxNameLen {
		errs["name"] = "Le nom est trop long (255 caractères maximum)."
	}
	if utf8.RuneCountInString(f.Description) > maxDescriptionLen {
		errs["description"] = "La description est trop longue (5000 caractères maximum)."
	}
	return errs
}

// Apply copies the form values onto a playlist model.
func (f *PlaylistForm) Apply(p *models.Playlist) {
	p.Name = f.Name
	if f.Description == "" {
		p.Description = nil
	} else {
		desc := f.Description
		p.Description = &desc
	}
}

// PlaylistFormFromModel prefills the form for the edit page.
func PlaylistFormFromModel(p *models.Playlist) *PlaylistForm {
	f := &PlaylistForm{Name: p.Name}
	if p.Description != nil {
		f.Description = *p.Description
	}
	return f
}

// FormationForm binds the formation create/edit form. All fields are kept
// as strings so an invalid submission re-renders exactly what was typed.
type FormationForm struct {
	Title       string
	Description string
	VideoID     string
	PublishedAt string
	PlaylistID  string
	CategoryIDs []string
}

// BindFormationForm parses the formation form from the request body.
// A malformed body yields an empty form, which Validate then rejects
// field by field.
func BindFormationForm(r *http.Request) *FormationForm {
	if err := r.ParseForm(); err != nil {
		return &FormationForm{}
	}
	return &FormationForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		VideoID:     strings.TrimSpace(r.FormValue("videoId")),
		PublishedAt: strings.TrimSpace(r.FormValue("publishedAt")),
		PlaylistID:  strings.TrimSpace(r.FormValue("playlist")),
		CategoryIDs: r.Form["categories"],
	}
}

// NewFormationForm returns an empty form with the publication date
// defaulted to today, matching the behavior of the add page.
func NewFormationForm() *FormationForm {
	return &FormationForm{
		PublishedAt: time.Now().Format(dateLayout),
	}
}

// FormationFormFromModel prefills the form for the edit page.
func FormationFormFromModel(f *models.Formation) *FormationForm {
	form := &FormationForm{
		Title:   f.Title,
		VideoID: f.VideoID,
	}
	if f.Description != nil {
		form.Description = *f.Description
	}
	if f.PublishedAt != nil {
		form.PublishedAt = f.PublishedAt.Format(dateLayout)
	}
	if f.PlaylistID != nil {
		form.PlaylistID = f.PlaylistID.String()
	}
	for _, c := range f.Categories {
		form.CategoryIDs = append(form.CategoryIDs, c.ID.String())
	}
	return form
}

// HasCategory reports whether the given category id was checked. Used by
// the form template to restore checkbox state.
func (f *FormationForm) HasCategory(id string) bool {
	for _, c := range f.CategoryIDs {
		if c == id {
			return true
		}
	}
	return false
}

// Validate checks the formation form and returns field errors.
func (f *FormationForm) Validate() FormErrors {
	errs := FormErrors{}

	if f.Title == "" {
		errs["title"] = "Le titre est obligatoire."
	} else if utf8.RuneCountInString(f.Title) > maxTitleLen {
		errs["title"] = "Le titre est trop long (255 caractères maximum)."
	}

	if utf8.RuneCountInString(f.Description) > maxDescriptionLen {
		errs["description"] = "La description est trop longue (5000 caractères maximum)."
	}

	if f.VideoID == "" {
		errs["videoId"] = "L'identifiant de la vidéo est obligatoire."
	} else if utf8.RuneCountInString(f.VideoID) > maxVideoIDLen {
		errs["videoId"] = "L'identifiant de la vidéo est trop long."
	}

	if f.PublishedAt == "" {
		errs["publishedAt"] = "La date de publication est obligatoire."
	} else if published, err := time.Parse(dateLayout, f.PublishedAt); err != nil {
		errs["publishedAt"] = "La date de publication est invalide."
	} else if published.After(today()) {
		errs["publishedAt"] = "La date de publication ne peut pas être dans le futur."
	}

	if f.PlaylistID == "" {
		errs["playlist"] = "La playlist est obligatoire."
	} else if _, err := uuid.Parse(f.PlaylistID); err != nil {
		errs["playlist"] = "La playlist sélectionnée est invalide."
	}

	for _, c := range f.CategoryIDs {
		if _, err := uuid.Parse(c); err != nil {
			errs["categories"] = "Une catégorie sélectionnée est invalide."
			break
		}
	}

	return errs
}

// Apply copies the validated form values onto a formation model.
// Call only after Validate returned no errors.
func (f *FormationForm) Apply(m *models.Formation) {
	m.Title = f.Title
	m.VideoID = f.VideoID

	if f.Description == "" {
		m.Description = nil
	} else {
		desc := f.Description
		m.Description = &desc
	}

	published, _ := time.Parse(dateLayout, f.PublishedAt)
	m.PublishedAt = &published

	pid, _ := uuid.Parse(f.PlaylistID)
	m.PlaylistID = &pid
}

// CategoryUUIDs returns the checked category ids as UUIDs.
// Call only after Validate returned no errors.
func (f *FormationForm) CategoryUUIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(f.CategoryIDs))
	for _, c := range f.CategoryIDs {
		id, err := uuid.Parse(c)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// today returns the current calendar date at UTC midnight. Form dates
// parse to UTC midnight too, so the future check compares whole days
// instead of instants in different zones.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
