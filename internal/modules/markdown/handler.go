package markdown

import (
	"github.com/campusgrid/cms-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Handler previews a markdown import before it is loaded into a form.
type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/markdown/render", authMW, h.render)
}

type renderDTO struct {
	Markdown string `json:"markdown"`
}

// POST /markdown/render
func (h *Handler) render(c *gin.Context) {
	var dto renderDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	html, err := ToHTML(dto.Markdown)
	if err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	response.OK(c, gin.H{
		"html":     html,
		"headings": Headings(dto.Markdown),
	})
}
