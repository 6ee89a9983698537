package resolver

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/campusgrid/cms-core/internal/pkg/adminapi"
	"github.com/campusgrid/cms-core/internal/pkg/contentkey"
)

const (
	MaxTitleLen = 255

	// Advisory SEO lengths shown next to the fields.
	MetaTitleAdvice       = 60
	MetaDescriptionAdvice = 160
)

// Variant supplies the scope specific defaults and checks of a form.
type Variant interface {
	DefaultTitle() string
	Validate(f Form) error
}

func requireTitle(f Form) error {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return fmt.Errorf("%w: title exceeds %d characters", ErrValidation, MaxTitleLen)
	}
	return nil
}

// SectionVariant edits one section of a college page.
type SectionVariant struct {
	CollegeName string
	Section     string
}

func (v SectionVariant) DefaultTitle() string {
	label := contentkey.SectionLabel(v.Section)
	if v.CollegeName == "" {
		return label
	}
	return v.CollegeName + " " + label
}

func (SectionVariant) Validate(f Form) error { return requireTitle(f) }

// CourseVariant edits the landing page of a course type.
type CourseVariant struct {
	CourseType adminapi.CourseType
}

func (v CourseVariant) DefaultTitle() string {
	name := v.CourseType.FullName
	if name == "" {
		name = v.CourseType.Name
	}
	return name + " Colleges in India"
}

func (CourseVariant) Validate(f Form) error { return requireTitle(f) }

// LocationVariant edits a course type page narrowed to a city or state.
type LocationVariant struct {
	CourseType adminapi.CourseType
	Location   adminapi.LocationSummary
}

func (v LocationVariant) DefaultTitle() string {
	return v.CourseType.Name + " Colleges in " + v.Location.Name
}

func (LocationVariant) Validate(f Form) error { return requireTitle(f) }

// MetaAdvice reports fields running over the advisory SEO lengths.
func MetaAdvice(f Form) []string {
	var out []string
	if n := utf8.RuneCountInString(f.MetaTitle); n > MetaTitleAdvice {
		out = append(out, fmt.Sprintf("meta title is %d characters, aim for %d", n, MetaTitleAdvice))
	}
	if n := utf8.RuneCountInString(f.MetaDescription); n > MetaDescriptionAdvice {
		out = append(out, fmt.Sprintf("meta description is %d characters, aim for %d", n, MetaDescriptionAdvice))
	}
	return out
}
