package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/campusgrid/cms-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Counter is a windowed counter, typically backed by redis INCR.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit allows max requests per window for each authenticated user
// (falling back to client IP). Counter errors let the request through.
func RateLimit(counter Counter, scope string, max int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		who := CurrentUserID(c)
		if who == "" {
			who = c.ClientIP()
		}
		if who == "" {
			c.Next()
			return
		}

		bucket := time.Now().UnixNano() / int64(window)
		key := fmt.Sprintf("cms:rate_limit:%s:%s:%d", scope, who, bucket)
		count, err := counter.Incr(c.Request.Context(), key, window+time.Second)
		if err != nil {
			c.Next()
			return
		}
		if count > max {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.Fail(c, http.StatusTooManyRequests, "Too many requests, slow down")
			return
		}
		c.Next()
	}
}
