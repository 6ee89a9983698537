package college

import (
	"context"
	"errors"
	"strings"

	"github.com/campusgrid/cms-core/internal/models"
	"github.com/campusgrid/cms-core/internal/pkg/pagination"
	"github.com/campusgrid/cms-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List pages through colleges by name, optionally filtered by a name fragment.
func (s *Service) List(ctx context.Context, keyword string, q pagination.Query) ([]models.CollegeModel, int64, error) {
	tx := s.db.WithContext(ctx).Model(&models.CollegeModel{})
	if kw := strings.TrimSpace(keyword); kw != "" {
		tx = tx.Where("name LIKE ?", "%"+kw+"%")
	}
	var items []models.CollegeModel
	total, err := pagination.Paginate(tx.Order("name ASC"), q, &items)
	return items, total, err
}

// Get finds a college by id or slug.
func (s *Service) Get(ctx context.Context, idOrSlug string) (*models.CollegeModel, error) {
	var c models.CollegeModel
	err := s.db.WithContext(ctx).Preload("CourseTypes").
		Where("id = ? OR slug = ?", idOrSlug, idOrSlug).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/colleges", authMW)
	g.GET("", h.list)
	g.GET("/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	items, total, err := h.svc.List(c.Request.Context(), c.Query("q"), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, total)
}

func (h *Handler) get(c *gin.Context) {
	col, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if col == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, col)
}
