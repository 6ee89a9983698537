// Package testutil opens throwaway sqlite databases and seeds fixtures for
// package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/campusgrid/cms-core/internal/database"
	"github.com/campusgrid/cms-core/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// DB returns a migrated in-memory database private to tb.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("resolve sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}

func SeedAuthor(tb testing.TB, db *gorm.DB, name string) *models.AuthorModel {
	tb.Helper()
	a := &models.AuthorModel{Name: name, Slug: strings.ToLower(strings.ReplaceAll(name, " ", "-"))}
	if err := db.WithContext(context.Background()).Create(a).Error; err != nil {
		tb.Fatalf("seed author: %v", err)
	}
	return a
}

func SeedCourseType(tb testing.TB, db *gorm.DB, slug, name, fullName string, order int) *models.CourseTypeModel {
	tb.Helper()
	ct := &models.CourseTypeModel{Slug: slug, Name: name, FullName: fullName, Status: models.CourseTypeActive, Order: order}
	if err := db.Create(ct).Error; err != nil {
		tb.Fatalf("seed course type: %v", err)
	}
	return ct
}

func SeedLocation(tb testing.TB, db *gorm.DB, typ models.LocationType, slug, name, stateSlug string) *models.LocationModel {
	tb.Helper()
	loc := &models.LocationModel{Type: typ, Slug: slug, Name: name, StateSlug: stateSlug}
	if err := db.Create(loc).Error; err != nil {
		tb.Fatalf("seed location: %v", err)
	}
	return loc
}

// SeedCollege creates a college offering the given course types.
func SeedCollege(tb testing.TB, db *gorm.DB, name, citySlug, stateSlug string, courseTypes ...string) *models.CollegeModel {
	tb.Helper()
	c := &models.CollegeModel{
		Name:      name,
		Slug:      strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		CitySlug:  citySlug,
		StateSlug: stateSlug,
	}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed college: %v", err)
	}
	for _, ct := range courseTypes {
		row := models.CollegeCourseTypeModel{CollegeID: c.ID, CourseTypeSlug: ct}
		if err := db.Create(&row).Error; err != nil {
			tb.Fatalf("seed college course type: %v", err)
		}
	}
	return c
}
