package handlers

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"videotheque/internal/models"
)

func TestCategoryFormValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Go", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("x", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/admin/categories/ajout",
				strings.NewReader(url.Values{"name": {tt.input}}.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			form := BindCategoryForm(req)
			errs := form.Validate()
			if errs.Valid() == tt.wantErr {
				t.Errorf("Validate() errors = %v, wantErr %v", errs, tt.wantErr)
			}
		})
	}
}

func TestPlaylistFormValidateAndApply(t *testing.T) {
	req := httptest.NewRequest("POST", "/admin/playlists/ajout",
		strings.NewReader(url.Values{
			"name":        {"  Développement Web  "},
			"description": {"Les bases."},
		}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	form := BindPlaylistForm(req)
	if form.Name != "Développement Web" {
		t.Errorf("Name = %q, want trimmed", form.Name)
	}
	if errs := form.Validate(); !errs.Valid() {
		t.Errorf("Validate() = %v, want valid", errs)
	}

	var p models.Playlist
	form.Apply(&p)
	if p.Name != "Développement Web" || p.Description == nil || *p.Description != "Les bases." {
		t.Errorf("Apply result = %+v", p)
	}

	// Empty description maps to nil.
	form.Description = ""
	form.Apply(&p)
	if p.Description != nil {
		t.Error("empty description should clear the field")
	}
}

func TestFormationFormValidate(t *testing.T) {
	playlistID := uuid.NewString()
	valid := func() *FormationForm {
		return &FormationForm{
			Title:       "Introduction à Symfony 6",
			VideoID:     "abc111",
			PublishedAt: "2024-04-10",
			PlaylistID:  playlistID,
		}
	}

	t.Run("valid form passes", func(t *testing.T) {
		if errs := valid().Validate(); !errs.Valid() {
			t.Errorf("Validate() = %v, want valid", errs)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		f := valid()
		f.Title = ""
		errs := f.Validate()
		if _, ok := errs["title"]; !ok {
			t.Errorf("expected title error, got %v", errs)
		}
	})

	t.Run("missing video id", func(t *testing.T) {
		f := valid()
		f.VideoID = ""
		if _, ok := f.Validate()["videoId"]; !ok {
			t.Error("expected videoId error")
		}
	})

	t.Run("missing publication date", func(t *testing.T) {
		f := valid()
		f.PublishedAt = ""
		if _, ok := f.Validate()["publishedAt"]; !ok {
			t.Error("expected publishedAt error")
		}
	})

	t.Run("malformed publication date", func(t *testing.T) {
		f := valid()
		f.PublishedAt = "10/04/2024"
		if _, ok := f.Validate()["publishedAt"]; !ok {
			t.Error("expected publishedAt error for wrong format")
		}
	})

	t.Run("future publication date rejected", func(t *testing.T) {
		f := valid()
		f.PublishedAt = time.Now().AddDate(0, 0, 7).Format(dateLayout)
		if _, ok := f.Validate()["publishedAt"]; !ok {
			t.Error("expected publishedAt error for future date")
		}
	})

	t.Run("tomorrow rejected west of UTC", func(t *testing.T) {
		// In a zone behind UTC, the local day ends after tomorrow's UTC
		// midnight. Tomorrow must still count as a future date.
		restore := time.Local
		time.Local = time.FixedZone("UTC-8", -8*60*60)
		t.Cleanup(func() { time.Local = restore })

		f := valid()
		f.PublishedAt = time.Now().AddDate(0, 0, 1).Format(dateLayout)
		if _, ok := f.Validate()["publishedAt"]; !ok {
			t.Error("expected publishedAt error for tomorrow")
		}

		f.PublishedAt = time.Now().Format(dateLayout)
		if errs := f.Validate(); !errs.Valid() {
			t.Errorf("today should stay valid, got %v", errs)
		}
	})

	t.Run("today is accepted", func(t *testing.T) {
		f := valid()
		f.PublishedAt = time.Now().Format(dateLayout)
		if errs := f.Validate(); !errs.Valid() {
			t.Errorf("today should be valid, got %v", errs)
		}
	})

	t.Run("missing playlist", func(t *testing.T) {
		f := valid()
		f.PlaylistID = ""
		if _, ok := f.Validate()["playlist"]; !ok {
			t.Error("expected playlist error")
		}
	})

	t.Run("bad category id", func(t *testing.T) {
		f := valid()
		f.CategoryIDs = []string{"not-a-uuid"}
		if _, ok := f.Validate()["categories"]; !ok {
			t.Error("expected categories error")
		}
	})
}

func TestBindFormationForm(t *testing.T) {
	t.Run("binds fields and repeated categories", func(t *testing.T) {
		catA, catB := uuid.NewString(), uuid.NewString()
		req := httptest.NewRequest("POST", "/admin/formations/ajout",
			strings.NewReader(url.Values{
				"title":       {"  Apprendre Docker  "},
				"videoId":     {"jkl444"},
				"publishedAt": {"2024-02-20"},
				"playlist":    {uuid.NewString()},
				"categories":  {catA, catB},
			}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		form := BindFormationForm(req)
		if form.Title != "Apprendre Docker" {
			t.Errorf("Title = %q, want trimmed", form.Title)
		}
		if len(form.CategoryIDs) != 2 || form.CategoryIDs[0] != catA || form.CategoryIDs[1] != catB {
			t.Errorf("CategoryIDs = %v", form.CategoryIDs)
		}
	})

	t.Run("malformed body yields empty form", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/admin/formations/ajout",
			strings.NewReader("title=%zz"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		form := BindFormationForm(req)
		if form.Title != "" {
			t.Errorf("Title = %q, want empty", form.Title)
		}
		if form.Validate().Valid() {
			t.Error("empty form should fail validation")
		}
	})
}

func TestNewFormationFormDefaultsToToday(t *testing.T) {
	f := NewFormationForm()
	if f.PublishedAt != time.Now().Format(dateLayout) {
		t.Errorf("PublishedAt = %q, want today", f.PublishedAt)
	}
}

func TestFormationFormApply(t *testing.T) {
	pid := uuid.New()
	catID := uuid.New()
	form := &FormationForm{
		Title:       "Les fondamentaux de PHP 8",
		Description: "Tout sur PHP.",
		VideoID:     "def222",
		PublishedAt: "2024-01-15",
		PlaylistID:  pid.String(),
		CategoryIDs: []string{catID.String()},
	}
	if errs := form.Validate(); !errs.Valid() {
		t.Fatalf("Validate() = %v", errs)
	}

	var m models.Formation
	form.Apply(&m)

	if m.Title != "Les fondamentaux de PHP 8" || m.VideoID != "def222" {
		t.Errorf("Apply result = %+v", m)
	}
	if m.Description == nil || *m.Description != "Tout sur PHP." {
		t.Errorf("Description = %v", m.Description)
	}
	if m.PublishedAt == nil || m.PublishedAt.Format(dateLayout) != "2024-01-15" {
		t.Errorf("PublishedAt = %v", m.PublishedAt)
	}
	if m.PlaylistID == nil || *m.PlaylistID != pid {
		t.Errorf("PlaylistID = %v", m.PlaylistID)
	}
	if ids := form.CategoryUUIDs(); len(ids) != 1 || ids[0] != catID {
		t.Errorf("CategoryUUIDs = %v", ids)
	}
}

func TestFormationFormFromModel(t *testing.T) {
	pid := uuid.New()
	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	desc := "PHPUnit de A à Z."
	m := &models.Formation{
		Title:       "Tests Unitaires en PHP avec PHPUnit",
		Description: &desc,
		VideoID:     "ghi333",
		PublishedAt: &published,
		PlaylistID:  &pid,
		Categories:  []models.Category{{ID: uuid.New(), Name: "Test"}},
	}

	form := FormationFormFromModel(m)
	if form.Title != m.Title || form.VideoID != "ghi333" {
		t.Errorf("form = %+v", form)
	}
	if form.PublishedAt != "2024-03-01" {
		t.Errorf("PublishedAt = %q", form.PublishedAt)
	}
	if form.PlaylistID != pid.String() {
		t.Errorf("PlaylistID = %q", form.PlaylistID)
	}
	if !form.HasCategory(m.Categories[0].ID.String()) {
		t.Error("HasCategory should report the prefilled category")
	}
	if form.HasCategory(uuid.NewString()) {
		t.Error("HasCategory should reject an unknown id")
	}
}
