package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/campusgrid/cms-core/internal/config"
	"github.com/campusgrid/cms-core/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQuery = 300 * time.Millisecond

// Connect opens the configured database, logging SQL through log, and
// migrates the schema.
func Connect(cfg *config.AppConfig, log *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsDev() {
		level = gormlogger.Info
	}
	db, err := gorm.Open(dialector(cfg.Database.Driver, cfg.DSN), &gorm.Config{
		Logger: gormlogger.New(sqlWriter{log.Named("sql").Sugar()}, gormlogger.Config{
			SlowThreshold:             slowQuery,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Database.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Database.Driver == config.DriverSQLite {
		// one writer at a time, or saves fail with "database is locked"
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func dialector(driver, dsn string) gorm.Dialector {
	if driver != config.DriverSQLite {
		// 191 keeps utf8mb4 varchar indexes under the InnoDB key limit
		return mysql.New(mysql.Config{DSN: dsn, DefaultStringSize: 191})
	}
	if dsn != ":memory:" && filepath.Ext(dsn) != "" {
		_ = os.MkdirAll(filepath.Dir(dsn), 0o755)
	}
	return sqlite.Open(dsn)
}

type sqlWriter struct{ log *zap.SugaredLogger }

func (w sqlWriter) Printf(format string, args ...interface{}) { w.log.Infof(format, args...) }

// Migrate creates or updates every table the content core uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.AuthorModel{},
		&models.CourseTypeModel{},
		&models.LocationModel{},
		&models.CollegeModel{},
		&models.CollegeCourseTypeModel{},
		&models.ContentRecordModel{},
		&models.ContentRevisionModel{},
	)
}
