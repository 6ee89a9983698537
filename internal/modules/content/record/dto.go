package record

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/campusgrid/cms-core/internal/models"
	"github.com/google/uuid"
)

// Hard ceilings. The editor advises 60/160 for the meta fields.
const (
	MaxTitleLen           = 255
	MaxMetaTitleLen       = 200
	MaxMetaDescriptionLen = 300
	MaxBanners            = 3
)

var ErrValidation = errors.New("validation failed")

// SaveDTO is the full form state sent on save. Status defaults to draft.
type SaveDTO struct {
	Title           string               `json:"title"`
	Content         string               `json:"content"`
	AuthorID        *string              `json:"author_id"`
	MetaTitle       string               `json:"meta_title"`
	MetaDescription string               `json:"meta_description"`
	Banners         []models.BannerItem  `json:"banners"`
	Status          models.ContentStatus `json:"status"`
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// normalize trims fields, fills defaults and enforces limits.
func (d *SaveDTO) normalize() error {
	d.Title = strings.TrimSpace(d.Title)
	d.MetaTitle = strings.TrimSpace(d.MetaTitle)
	d.MetaDescription = strings.TrimSpace(d.MetaDescription)
	if d.AuthorID != nil && strings.TrimSpace(*d.AuthorID) == "" {
		d.AuthorID = nil
	}
	if d.Status == "" {
		d.Status = models.ContentDraft
	}
	if !d.Status.Valid() {
		return invalid("status must be draft or published")
	}
	if utf8.RuneCountInString(d.Title) > MaxTitleLen {
		return invalid("title exceeds %d characters", MaxTitleLen)
	}
	if utf8.RuneCountInString(d.MetaTitle) > MaxMetaTitleLen {
		return invalid("meta_title exceeds %d characters", MaxMetaTitleLen)
	}
	if utf8.RuneCountInString(d.MetaDescription) > MaxMetaDescriptionLen {
		return invalid("meta_description exceeds %d characters", MaxMetaDescriptionLen)
	}
	if len(d.Banners) > MaxBanners {
		return invalid("at most %d banners are allowed", MaxBanners)
	}
	if d.Banners == nil {
		d.Banners = []models.BannerItem{}
	}
	for i := range d.Banners {
		b := &d.Banners[i]
		b.Image = strings.TrimSpace(b.Image)
		b.Href = strings.TrimSpace(b.Href)
		if b.Image == "" {
			return invalid("banner %d has no image", i+1)
		}
		if _, err := url.Parse(b.Image); err != nil {
			return invalid("banner %d image is not a URL", i+1)
		}
		if b.Href != "" {
			if _, err := url.Parse(b.Href); err != nil {
				return invalid("banner %d link is not a URL", i+1)
			}
		}
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
	}
	return nil
}

type recordResponse struct {
	ID              string               `json:"id"`
	ScopeKey        string               `json:"scope_key"`
	SectionKey      string               `json:"section_key"`
	Title           string               `json:"title"`
	Content         string               `json:"content"`
	AuthorID        *string              `json:"author_id"`
	AuthorName      string               `json:"author_name"`
	MetaTitle       string               `json:"meta_title"`
	MetaDescription string               `json:"meta_description"`
	Banners         []models.BannerItem  `json:"banners"`
	Status          models.ContentStatus `json:"status"`
	Version         int                  `json:"version"`
	PublishedAt     *time.Time           `json:"published_at"`
	UpdatedBy       string               `json:"updated_by"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func toResponse(r *models.ContentRecordModel) recordResponse {
	banners := r.Banners
	if banners == nil {
		banners = []models.BannerItem{}
	}
	out := recordResponse{
		ID: r.ID, ScopeKey: r.ScopeKey, SectionKey: r.SectionKey,
		Title: r.Title, Content: r.Body, AuthorID: r.AuthorID,
		MetaTitle: r.MetaTitle, MetaDescription: r.MetaDescription,
		Banners: banners, Status: r.Status, Version: r.Version,
		PublishedAt: r.PublishedAt, UpdatedBy: r.UpdatedBy,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
	if r.Author != nil {
		out.AuthorName = r.Author.Name
	}
	return out
}

type revisionResponse struct {
	ID      string               `json:"id"`
	Version int                  `json:"version"`
	Title   string               `json:"title"`
	Content string               `json:"content"`
	Status  models.ContentStatus `json:"status"`
	SavedAt time.Time            `json:"saved_at"`
	SavedBy string               `json:"saved_by"`
}

func toRevisionResponse(r *models.ContentRevisionModel) revisionResponse {
	return revisionResponse{
		ID: r.ID, Version: r.Version, Title: r.Title, Content: r.Body,
		Status: r.Status, SavedAt: r.SavedAt, SavedBy: r.SavedBy,
	}
}
