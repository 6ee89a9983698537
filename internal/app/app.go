package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/campusgrid/cms-core/internal/config"
	"github.com/campusgrid/cms-core/internal/database"
	"github.com/campusgrid/cms-core/internal/modules/storage/upload"
	jwtpkg "github.com/campusgrid/cms-core/internal/pkg/jwt"
	pkgredis "github.com/campusgrid/cms-core/internal/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	rc     *pkgredis.Client
	logger *zap.Logger
}

// New initializes the application: settings, DB, Redis, storage, routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg, logger); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	var rc *pkgredis.Client
	if cfg.Redis.Enable {
		if rc, err = pkgredis.Connect(cfg.RedisURL); err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
	} else {
		logger.Warn("redis disabled, available-locations cache and save guards are off")
	}

	store, err := upload.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := NewRouter(Deps{Config: cfg, DB: db, Redis: rc, Store: store, Logger: logger})
	return &App{cfg: cfg, router: router, db: db, rc: rc, logger: logger}, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown releases the database and redis pools.
func (a *App) Shutdown() {
	if a.rc != nil {
		_ = a.rc.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func applyRuntimeSettings(cfg *config.AppConfig, logger *zap.Logger) error {
	if secret := strings.TrimSpace(cfg.JWTSecret); secret != "" {
		jwtpkg.SetSecret(secret)
	} else if !cfg.IsDev() {
		return errors.New("jwt_secret is required outside development")
	} else {
		logger.Warn("jwt_secret is empty, using built-in development secret")
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	if loc != nil {
		time.Local = loc
	}
	return nil
}
