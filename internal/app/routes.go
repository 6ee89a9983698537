package app

import (
	"context"
	"net/http"
	"time"

	"github.com/campusgrid/cms-core/internal/config"
	"github.com/campusgrid/cms-core/internal/middleware"
	"github.com/campusgrid/cms-core/internal/modules/college"
	"github.com/campusgrid/cms-core/internal/modules/content/author"
	"github.com/campusgrid/cms-core/internal/modules/content/record"
	"github.com/campusgrid/cms-core/internal/modules/markdown"
	"github.com/campusgrid/cms-core/internal/modules/storage/upload"
	"github.com/campusgrid/cms-core/internal/modules/taxonomy/coursetype"
	"github.com/campusgrid/cms-core/internal/modules/taxonomy/location"
	"github.com/campusgrid/cms-core/internal/pkg/contentkey"
	pkgredis "github.com/campusgrid/cms-core/internal/pkg/redis"
	"github.com/campusgrid/cms-core/internal/pkg/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	APIPrefix = "/api/v1"
	Version   = "1.0.0"

	uploadLimit  = 30
	uploadWindow = time.Minute
)

// Deps is everything the router needs. Redis is optional.
type Deps struct {
	Config *config.AppConfig
	DB     *gorm.DB
	Redis  *pkgredis.Client
	Store  upload.Store
	Logger *zap.Logger
}

// NewRouter wires every module under /api/v1.
func NewRouter(d Deps) *gin.Engine {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))
	r.Use(cors.New(corsConfig(d.Config)))

	r.NoRoute(func(c *gin.Context) { response.NotFound(c) })
	r.NoMethod(func(c *gin.Context) { response.MethodNotAllowed(c) })

	if d.Config.Storage.Driver != config.StorageS3 {
		r.Static("/static", d.Config.StaticDir())
	}

	api := r.Group(APIPrefix)
	api.GET("", func(c *gin.Context) {
		c.PureJSON(http.StatusOK, gin.H{"name": "cms-core", "version": Version})
	})
	authMW := middleware.Auth()

	var (
		writeGuards  []gin.HandlerFunc
		uploadGuards []gin.HandlerFunc
		locationOpts = []location.Option{location.WithLogger(log.Named("location"))}
	)
	if d.Redis != nil {
		writeGuards = append(writeGuards, middleware.Idempotence(d.Redis))
		uploadGuards = append(uploadGuards, middleware.RateLimit(d.Redis, "upload", uploadLimit, uploadWindow))
		locationOpts = append(locationOpts, location.WithCache(d.Redis, location.DefaultTTL))
	}

	// The directory is built after the record service it reads from, so the
	// save hook resolves it lazily.
	var locSvc *location.Service
	recordSvc := record.NewService(d.DB,
		record.WithLogger(log.Named("content")),
		record.WithSaveHook(func(ctx context.Context, key contentkey.Key) {
			locSvc.Invalidate(ctx, key)
		}),
	)
	locSvc = location.NewService(d.DB, recordSvc, locationOpts...)

	record.NewHandler(recordSvc, writeGuards...).RegisterRoutes(api, authMW)
	author.NewHandler(author.NewService(d.DB)).RegisterRoutes(api, authMW)
	coursetype.NewHandler(coursetype.NewService(d.DB)).RegisterRoutes(api, authMW)
	location.NewHandler(locSvc).RegisterRoutes(api, authMW)
	college.NewHandler(college.NewService(d.DB)).RegisterRoutes(api, authMW)
	markdown.NewHandler().RegisterRoutes(api, authMW)
	upload.NewHandler(d.Store, d.Config.Storage.MaxSizeMB, log.Named("upload"), uploadGuards...).RegisterRoutes(api, authMW)

	return r
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	cc := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.IdempotenceHeader},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || cfg.IsDev() {
		cc.AllowOriginFunc = func(string) bool { return true }
		return cc
	}
	patterns := cfg.AllowedOrigins
	cc.AllowOriginFunc = func(origin string) bool {
		host := originHost(origin)
		for _, p := range patterns {
			if matchOrigin(p, host) {
				return true
			}
		}
		return false
	}
	return cc
}
