package models

// AuthorModel is a byline that content records may reference.
type AuthorModel struct {
	Base
	Name string `json:"name" gorm:"not null"`
	Slug string `json:"slug" gorm:"size:128;uniqueIndex"`
	Bio  string `json:"bio"  gorm:"type:text"`
}

func (AuthorModel) TableName() string { return "authors" }

type CourseTypeStatus string

const (
	CourseTypeActive   CourseTypeStatus = "active"
	CourseTypeInactive CourseTypeStatus = "inactive"
)

// CourseTypeModel is a degree/course taxonomy entry such as "btech" or "mba".
type CourseTypeModel struct {
	Base
	Slug     string           `json:"slug"      gorm:"size:64;uniqueIndex"`
	Name     string           `json:"name"      gorm:"not null"`
	FullName string           `json:"full_name"`
	Status   CourseTypeStatus `json:"status"    gorm:"size:16;default:active;index"`
	Order    int              `json:"order"     gorm:"column:order_num;default:0"`
}

func (CourseTypeModel) TableName() string { return "course_types" }

type LocationType string

const (
	LocationCity  LocationType = "city"
	LocationState LocationType = "state"
)

// LocationModel is a city or a state. Cities carry the slug of their state.
type LocationModel struct {
	Base
	Type      LocationType `json:"type"       gorm:"size:16;not null;uniqueIndex:idx_location_slug,priority:1"`
	Slug      string       `json:"slug"       gorm:"size:128;not null;uniqueIndex:idx_location_slug,priority:2"`
	Name      string       `json:"name"       gorm:"not null"`
	StateSlug string       `json:"state_slug" gorm:"size:128"`
}

func (LocationModel) TableName() string { return "locations" }
