package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/campusgrid/cms-core/internal/pkg/adminapi"
	"github.com/campusgrid/cms-core/internal/pkg/contentkey"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	authors    []adminapi.Author
	types      []adminapi.CourseType
	locations  map[string]*adminapi.Locations
	authorsErr error
	typesErr   error
	locErr     error
	statuses   []string
}

func (d *fakeDirectory) Authors(context.Context) ([]adminapi.Author, error) {
	return d.authors, d.authorsErr
}

func (d *fakeDirectory) CourseTypes(_ context.Context, status string) ([]adminapi.CourseType, error) {
	d.statuses = append(d.statuses, status)
	return d.types, d.typesErr
}

func (d *fakeDirectory) AvailableLocations(_ context.Context, courseType string) (*adminapi.Locations, error) {
	if d.locErr != nil {
		return nil, d.locErr
	}
	return d.locations[courseType], nil
}

func directory() *fakeDirectory {
	return &fakeDirectory{
		authors: []adminapi.Author{{ID: "a-1", Name: "Asha Rao"}},
		types: []adminapi.CourseType{
			{ID: "1", Slug: "btech", Name: "B.Tech"},
			{ID: "2", Name: "M.B.A"},
		},
		locations: map[string]*adminapi.Locations{
			"btech": {
				Cities: []adminapi.LocationSummary{{Slug: "mumbai", Name: "Mumbai", CollegeCount: 2}},
				States: []adminapi.LocationSummary{{Slug: "maharashtra", Name: "Maharashtra", CollegeCount: 3}},
			},
		},
	}
}

func TestLocationKeyNeedsEverySelection(t *testing.T) {
	assert := require.New(t)
	ctx := context.Background()
	resets := 0
	s := NewSelector(directory(), nil, func() { resets++ })

	_, _, err := s.LocationKey()
	assert.ErrorIs(err, contentkey.ErrKeyIncomplete)
	_, _, err = s.CourseKey()
	assert.ErrorIs(err, contentkey.ErrKeyIncomplete)

	assert.Len(s.LoadCourseTypes(ctx), 2)
	assert.NoError(s.SelectCourseType("btech"))
	assert.Equal(1, resets)

	key, cv, err := s.CourseKey()
	assert.NoError(err)
	assert.Equal("course:btech", key.ScopeKey())
	assert.Equal("B.Tech Colleges in India", cv.DefaultTitle())

	_, _, err = s.LocationKey()
	assert.ErrorIs(err, contentkey.ErrKeyIncomplete)

	locs := s.LoadLocations(ctx)
	assert.Len(locs.Cities, 1)
	assert.NoError(s.SelectLocation(contentkey.LocationCity, "mumbai"))

	key, lv, err := s.LocationKey()
	assert.NoError(err)
	assert.Equal("mumbai-colleges", key.LocationSlug)
	assert.Equal(contentkey.LocationCity, key.LocationType)
	assert.Equal("B.Tech Colleges in Mumbai", lv.DefaultTitle())
}

func TestSelectCourseTypeDropsLocation(t *testing.T) {
	assert := require.New(t)
	ctx := context.Background()
	resets := 0
	s := NewSelector(directory(), nil, func() { resets++ })
	s.LoadCourseTypes(ctx)

	assert.NoError(s.SelectCourseType("btech"))
	s.LoadLocations(ctx)
	assert.NoError(s.SelectLocation(contentkey.LocationState, "maharashtra"))

	// slugless course type is addressed by its derived slug
	assert.NoError(s.SelectCourseType("mba"))
	assert.Equal(2, resets)
	_, _, err := s.LocationKey()
	assert.ErrorIs(err, contentkey.ErrKeyIncomplete)
	assert.ErrorIs(s.SelectLocation(contentkey.LocationState, "maharashtra"), ErrUnknownSelection)

	key, _, err := s.CourseKey()
	assert.NoError(err)
	assert.Equal("mba", key.CourseType)

	assert.ErrorIs(s.SelectCourseType("phd"), ErrUnknownSelection)
	assert.ErrorIs(s.SelectLocation("district", "x"), ErrUnknownSelection)
}

func TestDirectoryFailuresDegradeToEmpty(t *testing.T) {
	assert := require.New(t)
	ctx := context.Background()
	dir := directory()
	s := NewSelector(dir, nil, nil)
	s.LoadCourseTypes(ctx)
	assert.Equal([]string{"active"}, dir.statuses)
	assert.NoError(s.SelectCourseType("btech"))

	dir.locErr = errors.New("timeout")
	locs := s.LoadLocations(ctx)
	assert.NotNil(locs.Cities)
	assert.Empty(locs.Cities)
	assert.Empty(locs.States)

	dir.typesErr = errors.New("timeout")
	types := s.LoadCourseTypes(ctx)
	assert.NotNil(types)
	assert.Empty(types)
}

func TestOpenWorkspaceDegradesPerList(t *testing.T) {
	assert := require.New(t)
	ctx := context.Background()
	dir := directory()
	dir.authorsErr = errors.New("forbidden")

	ws := OpenWorkspace(ctx, dir, nil)
	assert.NotNil(ws.Authors)
	assert.Empty(ws.Authors)
	assert.Len(ws.CourseTypes, 2)

	dir.authorsErr = nil
	ws = OpenWorkspace(ctx, dir, nil)
	assert.Equal("Asha Rao", ws.AuthorName("a-1"))
	assert.Equal("", ws.AuthorName("a-2"))
}
