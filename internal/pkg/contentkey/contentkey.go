// Package contentkey defines the composite address of a content record and
// the slug rules used to build it. Client and server share it so both sides
// agree on the stored (scope_key, section_key) pair.
package contentkey

import (
	"errors"
	"fmt"
	"strings"
)

type Scope string

const (
	ScopeCollege  Scope = "college"
	ScopeCourse   Scope = "course"
	ScopeLocation Scope = "location"
)

const (
	LocationCity  = "city"
	LocationState = "state"

	// LocationSuffix is appended to a city or state slug to form its content slug.
	LocationSuffix = "-colleges"
	// PageSection is the section key of course and location scoped records.
	PageSection = "page"
)

var (
	ErrKeyIncomplete = errors.New("content key is incomplete")
	ErrInvalidKey    = errors.New("invalid content key")
)

// Key addresses exactly one content record.
type Key struct {
	Scope        Scope
	CollegeID    string
	CourseType   string
	LocationType string
	// LocationSlug is the derived content slug, e.g. "mumbai-colleges".
	LocationSlug string
	Section      string
}

// College builds the key of a college section.
func College(collegeID, section string) Key {
	return Key{Scope: ScopeCollege, CollegeID: strings.TrimSpace(collegeID), Section: strings.TrimSpace(section)}
}

// Course builds the key of a course-type page.
func Course(courseType string) Key {
	return Key{Scope: ScopeCourse, CourseType: strings.TrimSpace(courseType), Section: PageSection}
}

// Location builds the key of a course-type × location page from the raw
// location slug; the "-colleges" suffix is appended here.
func Location(courseType, locationType, locationSlug string) Key {
	return Key{
		Scope:        ScopeLocation,
		CourseType:   strings.TrimSpace(courseType),
		LocationType: strings.TrimSpace(locationType),
		LocationSlug: LocationContentSlug(strings.TrimSpace(locationSlug)),
		Section:      PageSection,
	}
}

// LocationContentSlug returns slug + "-colleges".
func LocationContentSlug(slug string) string {
	return slug + LocationSuffix
}

// CourseTypeSlug returns slug verbatim when present, else the display name
// lowercased with every character outside [a-z0-9] removed.
func CourseTypeSlug(slug, name string) string {
	if slug != "" {
		return slug
	}
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate reports whether every segment the scope needs is present.
func (k Key) Validate() error {
	switch k.Scope {
	case ScopeCollege:
		if k.CollegeID == "" || k.Section == "" {
			return ErrKeyIncomplete
		}
		if !IsCollegeSection(k.Section) {
			return fmt.Errorf("%w: unknown section %q", ErrInvalidKey, k.Section)
		}
	case ScopeCourse:
		if k.CourseType == "" {
			return ErrKeyIncomplete
		}
	case ScopeLocation:
		if k.CourseType == "" || k.LocationType == "" || k.LocationSlug == "" {
			return ErrKeyIncomplete
		}
		if k.LocationType != LocationCity && k.LocationType != LocationState {
			return fmt.Errorf("%w: location type %q", ErrInvalidKey, k.LocationType)
		}
		if !strings.HasSuffix(k.LocationSlug, LocationSuffix) || k.LocationSlug == LocationSuffix {
			return fmt.Errorf("%w: location slug %q", ErrInvalidKey, k.LocationSlug)
		}
	case "":
		return ErrKeyIncomplete
	default:
		return fmt.Errorf("%w: scope %q", ErrInvalidKey, k.Scope)
	}
	if strings.ContainsRune(k.CourseType, ':') || strings.ContainsRune(k.LocationSlug, ':') || strings.ContainsRune(k.CollegeID, ':') {
		return fmt.Errorf("%w: segment contains ':'", ErrInvalidKey)
	}
	return nil
}

// Complete is Validate() == nil.
func (k Key) Complete() bool { return k.Validate() == nil }

// ScopeKey is the stored encoding of the owning entity.
func (k Key) ScopeKey() string {
	switch k.Scope {
	case ScopeCollege:
		return "college:" + k.CollegeID
	case ScopeCourse:
		return "course:" + k.CourseType
	case ScopeLocation:
		return "location:" + k.CourseType + ":" + k.LocationType + ":" + k.LocationSlug
	}
	return ""
}

// SectionKey is the stored section slot.
func (k Key) SectionKey() string {
	if k.Scope == ScopeCollege {
		return k.Section
	}
	return PageSection
}

func (k Key) String() string {
	return k.ScopeKey() + "/" + k.SectionKey()
}

// BaseSlug strips the "-colleges" suffix from LocationSlug.
func (k Key) BaseSlug() string {
	return strings.TrimSuffix(k.LocationSlug, LocationSuffix)
}

// Parse decodes a stored (scope_key, section_key) pair.
func Parse(scopeKey, sectionKey string) (Key, error) {
	parts := strings.Split(scopeKey, ":")
	var k Key
	switch Scope(parts[0]) {
	case ScopeCollege:
		if len(parts) != 2 {
			return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, scopeKey)
		}
		k = College(parts[1], sectionKey)
	case ScopeCourse:
		if len(parts) != 2 {
			return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, scopeKey)
		}
		k = Course(parts[1])
	case ScopeLocation:
		if len(parts) != 4 {
			return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, scopeKey)
		}
		k = Key{Scope: ScopeLocation, CourseType: parts[1], LocationType: parts[2], LocationSlug: parts[3], Section: PageSection}
	default:
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, scopeKey)
	}
	if k.Scope != ScopeCollege && sectionKey != PageSection {
		return Key{}, fmt.Errorf("%w: section %q", ErrInvalidKey, sectionKey)
	}
	if err := k.Validate(); err != nil {
		return Key{}, err
	}
	return k, nil
}
