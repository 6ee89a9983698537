package models

// CollegeModel is the minimal college projection the content core needs:
// a display name for default titles and a location for directory counts.
type CollegeModel struct {
	Base
	Name        string                   `json:"name"        gorm:"not null"`
	Slug        string                   `json:"slug"        gorm:"size:191;uniqueIndex"`
	CitySlug    string                   `json:"city_slug"   gorm:"size:128;index"`
	StateSlug   string                   `json:"state_slug"  gorm:"size:128;index"`
	CourseTypes []CollegeCourseTypeModel `json:"course_types,omitempty" gorm:"foreignKey:CollegeID"`
}

func (CollegeModel) TableName() string { return "colleges" }

// CollegeCourseTypeModel records that a college offers a course type.
type CollegeCourseTypeModel struct {
	CollegeID      string `json:"college_id"       gorm:"size:36;primaryKey"`
	CourseTypeSlug string `json:"course_type_slug" gorm:"size:64;primaryKey;index"`
}

func (CollegeCourseTypeModel) TableName() string { return "college_course_types" }
