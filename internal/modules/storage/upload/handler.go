package upload

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/campusgrid/cms-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".avif": true,
}

type Handler struct {
	store    Store
	maxBytes int64
	guards   []gin.HandlerFunc
	log      *zap.Logger
	now      func() time.Time
}

// NewHandler serves banner uploads. guards run before the upload handler.
func NewHandler(store Store, maxSizeMB int, log *zap.Logger, guards ...gin.HandlerFunc) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		store:    store,
		maxBytes: int64(maxSizeMB) * 1024 * 1024,
		guards:   guards,
		log:      log,
		now:      time.Now,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	chain := append([]gin.HandlerFunc{authMW}, h.guards...)
	rg.POST("/upload/banner", append(chain, h.banner)...)
}

func (h *Handler) banner(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fh.Size > h.maxBytes {
		response.RequestEntityTooLarge(c, fmt.Sprintf("image exceeds %dMB", h.maxBytes>>20))
		return
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		response.BadRequest(c, fmt.Sprintf("image format %q is not allowed", ext))
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()
	payload, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if int64(len(payload)) > h.maxBytes {
		response.RequestEntityTooLarge(c, fmt.Sprintf("image exceeds %dMB", h.maxBytes>>20))
		return
	}
	contentType := detectContentType(ext, payload)
	if !strings.HasPrefix(contentType, "image/") {
		response.BadRequest(c, "file is not an image")
		return
	}

	key := objectKey(h.now(), ext)
	url, err := h.store.Put(c.Request.Context(), key, payload, contentType)
	if err != nil {
		h.log.Error("banner upload failed", zap.String("key", key), zap.Error(err))
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"url": url})
}

func objectKey(now time.Time, ext string) string {
	return fmt.Sprintf("banners/%s/%s%s", now.Format("2006/01"), strings.ReplaceAll(uuid.NewString(), "-", ""), ext)
}

// detectContentType sniffs the payload, falling back to the extension for
// formats the sniffer does not know.
func detectContentType(ext string, payload []byte) string {
	if sniffed := http.DetectContentType(payload); strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	if ext == ".avif" {
		return mime.TypeByExtension(ext)
	}
	return "application/octet-stream"
}
