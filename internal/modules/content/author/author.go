package author

import (
	"context"

	"github.com/campusgrid/cms-core/internal/models"
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

func (s *Service) List(ctx context.Context) ([]models.AuthorModel, error) {
	authors := []models.AuthorModel{}
	return authors, s.db.WithContext(ctx).Order("name ASC").Find(&authors).Error
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/authors", authMW, h.list)
}

// list answers with a bare array, not the {items,total} page shape.
func (h *Handler) list(c *gin.Context) {
	authors, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, authors)
}
