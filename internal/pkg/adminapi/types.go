package adminapi

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

type Banner struct {
	ID    string `json:"id"`
	Image string `json:"image"`
	Alt   string `json:"alt"`
	Href  string `json:"href"`
}

// Record is a content record as the API returns it.
type Record struct {
	ID              string     `json:"id"`
	ScopeKey        string     `json:"scope_key"`
	SectionKey      string     `json:"section_key"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	AuthorID        *string    `json:"author_id"`
	AuthorName      string     `json:"author_name"`
	MetaTitle       string     `json:"meta_title"`
	MetaDescription string     `json:"meta_description"`
	Banners         []Banner   `json:"banners"`
	Status          Status     `json:"status"`
	Version         int        `json:"version"`
	PublishedAt     *time.Time `json:"published_at"`
	UpdatedBy       string     `json:"updated_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SaveRequest is the full form state sent on save.
type SaveRequest struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	AuthorID        *string  `json:"author_id"`
	MetaTitle       string   `json:"meta_title"`
	MetaDescription string   `json:"meta_description"`
	Banners         []Banner `json:"banners"`
	Status          Status   `json:"status"`
}

type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CourseType struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Status   string `json:"status"`
	Order    int    `json:"order"`
}

type LocationSummary struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	StateSlug    string `json:"state_slug"`
	CollegeCount int64  `json:"college_count"`
	HasContent   bool   `json:"has_content"`
}

type Locations struct {
	Cities []LocationSummary `json:"cities"`
	States []LocationSummary `json:"states"`
}

type College struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CitySlug  string `json:"city_slug"`
	StateSlug string `json:"state_slug"`
}

// List is the one list shape callers see, whatever the endpoint returned.
type List[T any] struct {
	Items []T
	Total int64
}
