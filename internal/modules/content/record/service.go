package record

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusgrid/cms-core/internal/models"
	"github.com/campusgrid/cms-core/internal/pkg/contentkey"
	"github.com/campusgrid/cms-core/internal/pkg/sanitize"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxWriteRetries = 3

var (
	ErrNotFound = errors.New("content not found")
	ErrExists   = errors.New("content already exists for this key")
)

// SaveHook runs after a record under key has been written.
type SaveHook func(ctx context.Context, key contentkey.Key)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	hooks []SaveHook
	now   func() time.Time
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithSaveHook registers fn to run after every successful write.
func WithSaveHook(fn SaveHook) Option {
	return func(s *Service) { s.hooks = append(s.hooks, fn) }
}

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func byKey(tx *gorm.DB, key contentkey.Key) *gorm.DB {
	return tx.Where("scope_key = ? AND section_key = ?", key.ScopeKey(), key.SectionKey())
}

// Get returns the record stored under key, or nil when there is none.
func (s *Service) Get(ctx context.Context, key contentkey.Key) (*models.ContentRecordModel, error) {
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	var rec models.ContentRecordModel
	if err := byKey(s.db.WithContext(ctx), key).Preload("Author").First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Create stores a new record and fails with ErrExists when key is taken.
func (s *Service) Create(ctx context.Context, key contentkey.Key, dto *SaveDTO, userID string) (*models.ContentRecordModel, error) {
	if err := s.prepare(ctx, key, dto); err != nil {
		return nil, err
	}
	rec := s.newRecord(key, dto, userID)
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrExists
		}
		return nil, err
	}
	s.afterSave(ctx, key)
	return s.reload(ctx, key)
}

// Upsert updates the record under key, creating it when absent. A racing
// create from another session is retried as an update.
func (s *Service) Upsert(ctx context.Context, key contentkey.Key, dto *SaveDTO, userID string) (*models.ContentRecordModel, bool, error) {
	if err := s.prepare(ctx, key, dto); err != nil {
		return nil, false, err
	}
	for i := 0; i < maxWriteRetries; i++ {
		created, err := s.upsertOnce(ctx, key, dto, userID)
		if err != nil {
			if isDuplicateKeyError(err) && i < maxWriteRetries-1 {
				s.log.Debug("content key taken concurrently, retrying as update", zap.String("key", key.String()))
				continue
			}
			return nil, false, err
		}
		s.afterSave(ctx, key)
		rec, err := s.reload(ctx, key)
		return rec, created, err
	}
	return nil, false, fmt.Errorf("failed to save %s after retries", key)
}

func (s *Service) upsertOnce(ctx context.Context, key contentkey.Key, dto *SaveDTO, userID string) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ContentRecordModel
		err := byKey(tx, key).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			return tx.Create(s.newRecord(key, dto, userID)).Error
		}
		if err != nil {
			return err
		}

		rev := models.ContentRevisionModel{
			RecordID: existing.ID,
			Version:  existing.Version,
			Title:    existing.Title,
			Body:     existing.Body,
			Status:   existing.Status,
			SavedAt:  s.now(),
			SavedBy:  userID,
		}
		if err := tx.Create(&rev).Error; err != nil {
			return err
		}
		s.apply(&existing, dto, userID)
		existing.Version++
		return tx.Omit("Author").Save(&existing).Error
	})
	return created, err
}

// Revisions lists the snapshots of the record under key, newest first.
func (s *Service) Revisions(ctx context.Context, key contentkey.Key) ([]models.ContentRevisionModel, error) {
	rec, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	var revs []models.ContentRevisionModel
	err = s.db.WithContext(ctx).Where("record_id = ?", rec.ID).Order("version DESC").Find(&revs).Error
	return revs, err
}

// Restore copies the title and body of an earlier version back into the
// record as a new version. Status and SEO fields are left alone.
func (s *Service) Restore(ctx context.Context, key contentkey.Key, version int, userID string) (*models.ContentRecordModel, error) {
	rec, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	var snap models.ContentRevisionModel
	if err := s.db.WithContext(ctx).Where("record_id = ? AND version = ?", rec.ID, version).First(&snap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: version %d", ErrNotFound, version)
		}
		return nil, err
	}
	dto := &SaveDTO{
		Title:           snap.Title,
		Content:         snap.Body,
		AuthorID:        rec.AuthorID,
		MetaTitle:       rec.MetaTitle,
		MetaDescription: rec.MetaDescription,
		Banners:         rec.Banners,
		Status:          rec.Status,
	}
	out, _, err := s.Upsert(ctx, key, dto, userID)
	return out, err
}

// HasContent reports which of the given location content slugs already
// have a record for courseType.
func (s *Service) HasContent(ctx context.Context, courseType, locationType string, slugs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(slugs))
	if len(slugs) == 0 {
		return out, nil
	}
	var found []string
	err := s.db.WithContext(ctx).Model(&models.ContentRecordModel{}).
		Where("scope_kind = ? AND course_type = ? AND location_type = ? AND location_slug IN ?",
			string(contentkey.ScopeLocation), courseType, locationType, slugs).
		Pluck("location_slug", &found).Error
	if err != nil {
		return nil, err
	}
	for _, slug := range found {
		out[slug] = true
	}
	return out, nil
}

func (s *Service) prepare(ctx context.Context, key contentkey.Key, dto *SaveDTO) error {
	if err := key.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := dto.normalize(); err != nil {
		return err
	}
	dto.Content = sanitize.HTML(dto.Content)
	if dto.AuthorID != nil {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.AuthorModel{}).Where("id = ?", *dto.AuthorID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return invalid("unknown author %q", *dto.AuthorID)
		}
	}
	return nil
}

func (s *Service) newRecord(key contentkey.Key, dto *SaveDTO, userID string) *models.ContentRecordModel {
	rec := &models.ContentRecordModel{
		ScopeKey:     key.ScopeKey(),
		SectionKey:   key.SectionKey(),
		ScopeKind:    string(key.Scope),
		CourseType:   key.CourseType,
		LocationType: key.LocationType,
		LocationSlug: key.LocationSlug,
		Version:      1,
	}
	if key.Scope == contentkey.ScopeCollege {
		id := key.CollegeID
		rec.CollegeID = &id
	}
	s.apply(rec, dto, userID)
	return rec
}

func (s *Service) apply(rec *models.ContentRecordModel, dto *SaveDTO, userID string) {
	rec.Title = dto.Title
	rec.Body = dto.Content
	rec.AuthorID = dto.AuthorID
	rec.MetaTitle = dto.MetaTitle
	rec.MetaDescription = dto.MetaDescription
	rec.Banners = dto.Banners
	rec.Status = dto.Status
	rec.UpdatedBy = userID
	if dto.Status == models.ContentPublished && rec.PublishedAt == nil {
		now := s.now()
		rec.PublishedAt = &now
	}
}

func (s *Service) reload(ctx context.Context, key contentkey.Key) (*models.ContentRecordModel, error) {
	rec, err := s.Get(ctx, key)
	if err == nil && rec == nil {
		err = ErrNotFound
	}
	return rec, err
}

func (s *Service) afterSave(ctx context.Context, key contentkey.Key) {
	for _, fn := range s.hooks {
		fn(ctx, key)
	}
}

func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint failed")
}
