package coursetype

import (
	"context"
	"errors"

	"github.com/campusgrid/cms-core/internal/models"
	"github.com/campusgrid/cms-core/internal/pkg/pagination"
	"github.com/campusgrid/cms-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ListQuery struct {
	Status models.CourseTypeStatus
	pagination.Query
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns course types by display order. An empty status lists all.
func (s *Service) List(ctx context.Context, q ListQuery) ([]models.CourseTypeModel, int64, error) {
	tx := s.db.WithContext(ctx).Model(&models.CourseTypeModel{})
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	var items []models.CourseTypeModel
	total, err := pagination.Paginate(tx.Order("order_num ASC").Order("name ASC"), q.Query, &items)
	return items, total, err
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.CourseTypeModel, error) {
	var ct models.CourseTypeModel
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&ct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ct, nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/course-types", authMW)
	g.GET("", h.list)
	g.GET("/:slug", h.get)
}

func (h *Handler) list(c *gin.Context) {
	status := models.CourseTypeStatus(c.Query("status"))
	if status != "" && status != models.CourseTypeActive && status != models.CourseTypeInactive {
		response.BadRequest(c, "status must be active or inactive")
		return
	}
	items, total, err := h.svc.List(c.Request.Context(), ListQuery{Status: status, Query: pagination.FromContext(c)})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, total)
}

func (h *Handler) get(c *gin.Context) {
	ct, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if ct == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, ct)
}
