// Package location serves the available-locations directory: the cities and
// states that have colleges offering a course type, with a college count and
// whether location content already exists for each.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/campusgrid/cms-core/internal/models"
	"github.com/campusgrid/cms-core/internal/pkg/contentkey"
	"github.com/campusgrid/cms-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	cachePrefix = "cms:available-locations:"
	DefaultTTL  = 5 * time.Minute
)

var ErrUnknownCourseType = errors.New("unknown course type")

// Cache is the part of the redis client the directory uses.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// ContentIndex answers which location content slugs already have a record.
type ContentIndex interface {
	HasContent(ctx context.Context, courseType, locationType string, slugs []string) (map[string]bool, error)
}

type Summary struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	StateSlug    string `json:"state_slug,omitempty"`
	ContentSlug  string `json:"content_slug"`
	CollegeCount int64  `json:"college_count"`
	HasContent   bool   `json:"has_content"`
}

type Directory struct {
	Cities []Summary `json:"cities"`
	States []Summary `json:"states"`
}

type Service struct {
	db    *gorm.DB
	index ContentIndex
	cache Cache
	ttl   time.Duration
	log   *zap.Logger
}

type Option func(*Service)

// WithCache puts a read-through cache in front of the directory query.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.ttl = ttl
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(db *gorm.DB, index ContentIndex, opts ...Option) *Service {
	s := &Service{db: db, index: index, ttl: DefaultTTL, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available builds the directory for courseType.
func (s *Service) Available(ctx context.Context, courseType string) (*Directory, error) {
	if dir := s.cached(ctx, courseType); dir != nil {
		return dir, nil
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.CourseTypeModel{}).Where("slug = ?", courseType).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrUnknownCourseType
	}

	cities, err := s.summaries(ctx, courseType, models.LocationCity)
	if err != nil {
		return nil, err
	}
	states, err := s.summaries(ctx, courseType, models.LocationState)
	if err != nil {
		return nil, err
	}
	dir := &Directory{Cities: cities, States: states}
	s.store(ctx, courseType, dir)
	return dir, nil
}

// Invalidate drops the cached directory of the course type a location
// record belongs to. It is registered as a content save hook.
func (s *Service) Invalidate(ctx context.Context, key contentkey.Key) {
	if s.cache == nil || key.Scope != contentkey.ScopeLocation {
		return
	}
	if err := s.cache.Del(ctx, cachePrefix+key.CourseType); err != nil {
		s.log.Warn("failed to invalidate available locations", zap.String("course_type", key.CourseType), zap.Error(err))
	}
}

type countRow struct {
	Slug string
	N    int64
}

func (s *Service) summaries(ctx context.Context, courseType string, typ models.LocationType) ([]Summary, error) {
	col := "colleges.city_slug"
	if typ == models.LocationState {
		col = "colleges.state_slug"
	}

	var rows []countRow
	err := s.db.WithContext(ctx).Table("colleges").
		Select(col+" AS slug, COUNT(DISTINCT colleges.id) AS n").
		Joins("JOIN college_course_types ON college_course_types.college_id = colleges.id").
		Where("college_course_types.course_type_slug = ? AND colleges.deleted_at IS NULL AND "+col+" <> ''", courseType).
		Group(col).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := []Summary{}
	if len(rows) == 0 {
		return out, nil
	}

	counts := make(map[string]int64, len(rows))
	slugs := make([]string, 0, len(rows))
	for _, r := range rows {
		counts[r.Slug] = r.N
		slugs = append(slugs, r.Slug)
	}

	var locs []models.LocationModel
	if err := s.db.WithContext(ctx).Where("type = ? AND slug IN ?", typ, slugs).Find(&locs).Error; err != nil {
		return nil, err
	}

	contentSlugs := make([]string, len(locs))
	for i, l := range locs {
		contentSlugs[i] = contentkey.LocationContentSlug(l.Slug)
	}
	has, err := s.index.HasContent(ctx, courseType, string(typ), contentSlugs)
	if err != nil {
		return nil, err
	}

	for i, l := range locs {
		out = append(out, Summary{
			ID:           l.ID,
			Slug:         l.Slug,
			Name:         l.Name,
			StateSlug:    l.StateSlug,
			ContentSlug:  contentSlugs[i],
			CollegeCount: counts[l.Slug],
			HasContent:   has[contentSlugs[i]],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CollegeCount != out[j].CollegeCount {
			return out[i].CollegeCount > out[j].CollegeCount
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Service) cached(ctx context.Context, courseType string) *Directory {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cachePrefix+courseType)
	if err != nil {
		s.log.Warn("available locations cache read failed", zap.Error(err))
		return nil
	}
	if raw == "" {
		return nil
	}
	var dir Directory
	if err := json.Unmarshal([]byte(raw), &dir); err != nil {
		return nil
	}
	return &dir
}

func (s *Service) store(ctx context.Context, courseType string, dir *Directory) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(dir)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cachePrefix+courseType, string(b), s.ttl); err != nil {
		s.log.Warn("available locations cache write failed", zap.Error(err))
	}
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/course-types/:slug/available-locations", authMW, h.available)
}

func (h *Handler) available(c *gin.Context) {
	dir, err := h.svc.Available(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrUnknownCourseType) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, dir)
}
