package record

import (
	"errors"
	"strconv"

	"github.com/campusgrid/cms-core/internal/middleware"
	"github.com/campusgrid/cms-core/internal/pkg/contentkey"
	"github.com/campusgrid/cms-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type keyFunc func(c *gin.Context) contentkey.Key

func collegeKey(c *gin.Context) contentkey.Key {
	return contentkey.College(c.Param("id"), c.Param("section"))
}

func courseKey(c *gin.Context) contentkey.Key {
	return contentkey.Course(c.Param("slug"))
}

// locationKey reads the already derived "<slug>-colleges" segment.
func locationKey(c *gin.Context) contentkey.Key {
	return contentkey.Key{
		Scope:        contentkey.ScopeLocation,
		CourseType:   c.Param("slug"),
		LocationType: c.Param("type"),
		LocationSlug: c.Param("location"),
		Section:      contentkey.PageSection,
	}
}

type Handler struct {
	svc         *Service
	writeGuards []gin.HandlerFunc
}

// NewHandler builds the content handler. writeGuards run in front of
// every POST and PUT.
func NewHandler(svc *Service, writeGuards ...gin.HandlerFunc) *Handler {
	return &Handler{svc: svc, writeGuards: writeGuards}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	a := rg.Group("", authMW)

	h.mount(a.Group("/colleges/:id/content/:section"), collegeKey)
	h.mount(a.Group("/course-types/:slug/content"), courseKey)
	h.mount(a.Group("/course-types/:slug/locations/:type/:location/content"), locationKey)
}

func (h *Handler) mount(g *gin.RouterGroup, kf keyFunc) {
	g.GET("", h.get(kf))
	g.POST("", h.guarded(h.create(kf))...)
	g.PUT("", h.guarded(h.upsert(kf))...)
	g.GET("/revisions", h.revisions(kf))
	g.POST("/revisions/:version/restore", h.guarded(h.restore(kf))...)
}

func (h *Handler) guarded(fn gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(h.writeGuards)+1)
	out = append(out, h.writeGuards...)
	return append(out, fn)
}

func (h *Handler) get(kf keyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := h.svc.Get(c.Request.Context(), kf(c))
		if err != nil {
			h.fail(c, err)
			return
		}
		if rec == nil {
			response.OK(c, gin.H{"content": nil})
			return
		}
		response.OK(c, gin.H{"content": toResponse(rec)})
	}
}

func (h *Handler) create(kf keyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dto SaveDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		rec, err := h.svc.Create(c.Request.Context(), kf(c), &dto, middleware.CurrentUserID(c))
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Created(c, gin.H{"content": toResponse(rec)})
	}
}

func (h *Handler) upsert(kf keyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dto SaveDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		rec, created, err := h.svc.Upsert(c.Request.Context(), kf(c), &dto, middleware.CurrentUserID(c))
		if err != nil {
			h.fail(c, err)
			return
		}
		if created {
			response.Created(c, gin.H{"content": toResponse(rec)})
			return
		}
		response.OK(c, gin.H{"content": toResponse(rec)})
	}
}

func (h *Handler) revisions(kf keyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		revs, err := h.svc.Revisions(c.Request.Context(), kf(c))
		if err != nil {
			h.fail(c, err)
			return
		}
		items := make([]revisionResponse, len(revs))
		for i := range revs {
			items[i] = toRevisionResponse(&revs[i])
		}
		response.Paged(c, items, int64(len(items)))
	}
}

func (h *Handler) restore(kf keyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		version, err := strconv.Atoi(c.Param("version"))
		if err != nil || version < 1 {
			response.BadRequest(c, "version must be a positive integer")
			return
		}
		rec, err := h.svc.Restore(c.Request.Context(), kf(c), version, middleware.CurrentUserID(c))
		if err != nil {
			h.fail(c, err)
			return
		}
		response.OK(c, gin.H{"content": toResponse(rec)})
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, ErrExists):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
