package models

import "time"

// ContentStatus governs public visibility of a content record.
type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentPublished ContentStatus = "published"
)

// Valid reports whether s is one of the known statuses.
func (s ContentStatus) Valid() bool {
	return s == ContentDraft || s == ContentPublished
}

// BannerItem is one image slot of a content record. Order is meaningful.
type BannerItem struct {
	ID    string `json:"id"`
	Image string `json:"image"`
	Alt   string `json:"alt"`
	Href  string `json:"href"`
}

// ContentRecordModel is free-form page content addressed by (scope_key, section_key).
// The decomposed key columns exist so directory queries can filter by course type
// and location without parsing scope_key.
type ContentRecordModel struct {
	Base
	ScopeKey        string        `json:"scope_key"        gorm:"size:191;not null;uniqueIndex:idx_content_key,priority:1"`
	SectionKey      string        `json:"section_key"      gorm:"size:64;not null;uniqueIndex:idx_content_key,priority:2"`
	ScopeKind       string        `json:"scope_kind"       gorm:"size:16;index"`
	CollegeID       *string       `json:"college_id"       gorm:"size:64;index"`
	CourseType      string        `json:"course_type"      gorm:"size:64;index:idx_content_location,priority:1"`
	LocationType    string        `json:"location_type"    gorm:"size:16;index:idx_content_location,priority:2"`
	LocationSlug    string        `json:"location_slug"    gorm:"size:128;index:idx_content_location,priority:3"`
	Title           string        `json:"title"`
	Body            string        `json:"content"          gorm:"type:longtext"`
	AuthorID        *string       `json:"author_id"        gorm:"size:36;index"`
	Author          *AuthorModel  `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	MetaTitle       string        `json:"meta_title"       gorm:"size:200"`
	MetaDescription string        `json:"meta_description" gorm:"size:300"`
	Banners         []BannerItem  `json:"banners"          gorm:"type:text;serializer:json"`
	Status          ContentStatus `json:"status"           gorm:"size:16;not null;default:draft;index"`
	Version         int           `json:"version"          gorm:"default:1"`
	PublishedAt     *time.Time    `json:"published_at"`
	UpdatedBy       string        `json:"updated_by"       gorm:"size:64"`
}

func (ContentRecordModel) TableName() string { return "content_records" }

// ContentRevisionModel is the snapshot of a record taken right before it is overwritten.
type ContentRevisionModel struct {
	Base
	RecordID string        `json:"record_id" gorm:"size:36;index;not null"`
	Version  int           `json:"version"`
	Title    string        `json:"title"`
	Body     string        `json:"content"   gorm:"type:longtext"`
	Status   ContentStatus `json:"status"    gorm:"size:16"`
	SavedAt  time.Time     `json:"saved_at"`
	SavedBy  string        `json:"saved_by"  gorm:"size:64"`
}

func (ContentRevisionModel) TableName() string { return "content_revisions" }
