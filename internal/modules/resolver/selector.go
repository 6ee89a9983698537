package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/campusgrid/cms-core/internal/pkg/adminapi"
	"github.com/campusgrid/cms-core/internal/pkg/contentkey"
	"go.uber.org/zap"
)

var ErrUnknownSelection = errors.New("selection is not in the loaded list")

// Directory is the listing part of the REST collaborator.
type Directory interface {
	Authors(ctx context.Context) ([]adminapi.Author, error)
	CourseTypes(ctx context.Context, status string) ([]adminapi.CourseType, error)
	AvailableLocations(ctx context.Context, courseType string) (*adminapi.Locations, error)
}

// Selector builds a course or location key one choice at a time.
// Directory failures leave the lists empty and are only logged.
type Selector struct {
	dir     Directory
	log     *zap.Logger
	onReset func()

	mu           sync.Mutex
	courseTypes  []adminapi.CourseType
	courseType   *adminapi.CourseType
	locations    adminapi.Locations
	locationType string
	location     *adminapi.LocationSummary
}

// NewSelector calls onReset whenever a new course type is picked, so the
// owning panel can clear its form.
func NewSelector(dir Directory, log *zap.Logger, onReset func()) *Selector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Selector{dir: dir, log: log, onReset: onReset, locations: emptyLocations()}
}

func emptyLocations() adminapi.Locations {
	return adminapi.Locations{Cities: []adminapi.LocationSummary{}, States: []adminapi.LocationSummary{}}
}

// LoadCourseTypes fetches the active course types.
func (s *Selector) LoadCourseTypes(ctx context.Context) []adminapi.CourseType {
	items, err := s.dir.CourseTypes(ctx, "active")
	if err != nil {
		s.log.Warn("course types unavailable", zap.Error(err))
		items = nil
	}
	s.SetCourseTypes(items)
	return s.CourseTypes()
}

// SetCourseTypes seeds the list, e.g. from a Workspace.
func (s *Selector) SetCourseTypes(items []adminapi.CourseType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courseTypes = append([]adminapi.CourseType{}, items...)
}

func (s *Selector) CourseTypes() []adminapi.CourseType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]adminapi.CourseType{}, s.courseTypes...)
}

// SelectCourseType picks a course type by its key slug and drops any
// location chosen so far.
func (s *Selector) SelectCourseType(slug string) error {
	s.mu.Lock()
	var picked *adminapi.CourseType
	for i := range s.courseTypes {
		ct := s.courseTypes[i]
		if contentkey.CourseTypeSlug(ct.Slug, ct.Name) == slug {
			picked = &ct
			break
		}
	}
	if picked == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: course type %q", ErrUnknownSelection, slug)
	}
	s.courseType = picked
	s.locations = emptyLocations()
	s.locationType = ""
	s.location = nil
	s.mu.Unlock()

	if s.onReset != nil {
		s.onReset()
	}
	return nil
}

// LoadLocations fetches the cities and states for the chosen course type.
func (s *Selector) LoadLocations(ctx context.Context) adminapi.Locations {
	s.mu.Lock()
	ct := s.courseType
	s.mu.Unlock()
	if ct == nil {
		return emptyLocations()
	}

	slug := contentkey.CourseTypeSlug(ct.Slug, ct.Name)
	locs, err := s.dir.AvailableLocations(ctx, slug)
	out := emptyLocations()
	if err != nil {
		s.log.Warn("available locations unavailable", zap.String("course_type", slug), zap.Error(err))
	} else if locs != nil {
		out.Cities = append(out.Cities, locs.Cities...)
		out.States = append(out.States, locs.States...)
	}

	s.mu.Lock()
	// a newer course type choice wins over this late answer
	if s.courseType == ct {
		s.locations = out
	}
	s.mu.Unlock()
	return out
}

// SelectLocation picks a city or state from the loaded directory.
func (s *Selector) SelectLocation(locationType, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []adminapi.LocationSummary
	switch locationType {
	case contentkey.LocationCity:
		list = s.locations.Cities
	case contentkey.LocationState:
		list = s.locations.States
	default:
		return fmt.Errorf("%w: location type %q", ErrUnknownSelection, locationType)
	}
	for i := range list {
		if list[i].Slug == slug {
			loc := list[i]
			s.location = &loc
			s.locationType = locationType
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q", ErrUnknownSelection, locationType, slug)
}

// CourseKey is ready once a course type is chosen.
func (s *Selector) CourseKey() (contentkey.Key, CourseVariant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.courseType == nil {
		return contentkey.Key{}, CourseVariant{}, contentkey.ErrKeyIncomplete
	}
	ct := *s.courseType
	return contentkey.Course(contentkey.CourseTypeSlug(ct.Slug, ct.Name)), CourseVariant{CourseType: ct}, nil
}

// LocationKey is ready once both a course type and a location are chosen.
func (s *Selector) LocationKey() (contentkey.Key, LocationVariant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.courseType == nil || s.location == nil {
		return contentkey.Key{}, LocationVariant{}, contentkey.ErrKeyIncomplete
	}
	ct := *s.courseType
	key := contentkey.Location(contentkey.CourseTypeSlug(ct.Slug, ct.Name), s.locationType, s.location.Slug)
	return key, LocationVariant{CourseType: ct, Location: *s.location}, nil
}
