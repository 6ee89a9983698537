package location

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/campusgrid/cms-core/internal/models"
	"github.com/campusgrid/cms-core/internal/modules/content/record"
	"github.com/campusgrid/cms-core/internal/pkg/contentkey"
	"github.com/campusgrid/cms-core/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string]string
	gets int
}

func (m *mapCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	return m.data[key], nil
}

func (m *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	return nil
}

func (m *mapCache) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func seedDirectory(t *testing.T, db *gorm.DB) {
	testutil.SeedCourseType(t, db, "btech", "B.Tech", "Bachelor of Technology", 1)
	testutil.SeedCourseType(t, db, "mba", "MBA", "Master of Business Administration", 2)
	testutil.SeedLocation(t, db, models.LocationState, "maharashtra", "Maharashtra", "")
	testutil.SeedLocation(t, db, models.LocationState, "karnataka", "Karnataka", "")
	testutil.SeedLocation(t, db, models.LocationCity, "mumbai", "Mumbai", "maharashtra")
	testutil.SeedLocation(t, db, models.LocationCity, "pune", "Pune", "maharashtra")
	testutil.SeedLocation(t, db, models.LocationCity, "bengaluru", "Bengaluru", "karnataka")

	testutil.SeedCollege(t, db, "IIT Bombay", "mumbai", "maharashtra", "btech", "mba")
	testutil.SeedCollege(t, db, "VJTI", "mumbai", "maharashtra", "btech")
	testutil.SeedCollege(t, db, "COEP", "pune", "maharashtra", "btech")
	testutil.SeedCollege(t, db, "IIM Bangalore", "bengaluru", "karnataka", "mba")
}

func bySlug(items []Summary) map[string]Summary {
	out := make(map[string]Summary, len(items))
	for _, it := range items {
		out[it.Slug] = it
	}
	return out
}

func TestAvailableCountsOnlyCollegesOfferingCourseType(t *testing.T) {
	assert := require.New(t)
	db := testutil.DB(t)
	seedDirectory(t, db)
	svc := NewService(db, record.NewService(db))

	dir, err := svc.Available(context.Background(), "btech")
	assert.NoError(err)

	assert.Len(dir.Cities, 2)
	assert.Equal("mumbai", dir.Cities[0].Slug)
	assert.EqualValues(2, dir.Cities[0].CollegeCount)
	assert.Equal("mumbai-colleges", dir.Cities[0].ContentSlug)
	assert.EqualValues(1, bySlug(dir.Cities)["pune"].CollegeCount)
	_, hasBengaluru := bySlug(dir.Cities)["bengaluru"]
	assert.False(hasBengaluru)

	assert.Len(dir.States, 1)
	assert.EqualValues(3, dir.States[0].CollegeCount)

	dir, err = svc.Available(context.Background(), "mba")
	assert.NoError(err)
	assert.Len(dir.Cities, 2)
	assert.EqualValues(1, bySlug(dir.Cities)["mumbai"].CollegeCount)
	assert.Len(dir.States, 2)
}

func TestAvailableUnknownCourseType(t *testing.T) {
	db := testutil.DB(t)
	_, err := NewService(db, record.NewService(db)).Available(context.Background(), "phd")
	require.ErrorIs(t, err, ErrUnknownCourseType)
}

func TestSaveInvalidatesCachedDirectory(t *testing.T) {
	assert := require.New(t)
	ctx := context.Background()
	db := testutil.DB(t)
	seedDirectory(t, db)

	cache := &mapCache{data: map[string]string{}}
	var svc *Service
	records := record.NewService(db, record.WithSaveHook(func(ctx context.Context, k contentkey.Key) {
		svc.Invalidate(ctx, k)
	}))
	svc = NewService(db, records, WithCache(cache, time.Minute))

	dir, err := svc.Available(ctx, "btech")
	assert.NoError(err)
	assert.False(bySlug(dir.Cities)["mumbai"].HasContent)
	assert.Contains(cache.data, cachePrefix+"btech")

	_, _, err = records.Upsert(ctx, contentkey.Location("btech", contentkey.LocationCity, "mumbai"),
		&record.SaveDTO{Title: "B.Tech Colleges in Mumbai"}, "u")
	assert.NoError(err)
	assert.NotContains(cache.data, cachePrefix+"btech")

	dir, err = svc.Available(ctx, "btech")
	assert.NoError(err)
	assert.True(bySlug(dir.Cities)["mumbai"].HasContent)
	assert.False(bySlug(dir.Cities)["pune"].HasContent)

	// served from cache now
	again, err := svc.Available(ctx, "btech")
	assert.NoError(err)
	assert.Equal(dir, again)
}

func TestCourseScopeSaveKeepsCache(t *testing.T) {
	cache := &mapCache{data: map[string]string{cachePrefix + "btech": "{}"}}
	svc := NewService(nil, nil, WithCache(cache, time.Minute))
	svc.Invalidate(context.Background(), contentkey.Course("btech"))
	require.Contains(t, cache.data, cachePrefix+"btech")
}
