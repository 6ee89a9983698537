package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/campusgrid/cms-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	IdempotenceHeader = "X-Idempotence-Key"
	idempotenceTTL    = 10 * time.Second
	idempotencePrefix = "cms:idempotence:"

	stateInFlight = "0"
	stateDone     = "1"
)

// KV is the slice of the redis client the save guard needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// Idempotence rejects with 409 a content write that repeats one still in
// flight, which is what a double clicked Save or Publish produces.
//
// With an X-Idempotence-Key header a repeat of a write that just succeeded
// is rejected too. Without one the key is a hash of method, path, body and
// token, and it is released as soon as the request ends. Store errors let
// the request through.
func Idempotence(kv KV) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}
		key, explicit, err := idempotenceKey(c)
		if err != nil || key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		storeKey := idempotencePrefix + key
		claimed, err := kv.SetNX(ctx, storeKey, stateInFlight, idempotenceTTL)
		if err != nil {
			c.Next()
			return
		}
		if !claimed {
			if state, _ := kv.Get(ctx, storeKey); state == stateDone {
				response.Conflict(c, "An identical request was just completed")
				return
			}
			response.Conflict(c, "An identical request is still being processed")
			return
		}

		c.Next()

		// the request context may already be cancelled
		bg := context.WithoutCancel(ctx)
		if status := c.Writer.Status(); explicit && status >= 200 && status < 300 {
			_ = kv.Set(bg, storeKey, stateDone, idempotenceTTL)
			return
		}
		_ = kv.Del(bg, storeKey)
	}
}

func idempotenceKey(c *gin.Context) (key string, explicit bool, err error) {
	if hdr := c.GetHeader(IdempotenceHeader); hdr != "" {
		return hdr, true, nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", false, err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	h := sha256.New()
	for _, part := range [][]byte{[]byte(c.Request.Method), []byte(c.Request.URL.Path), body, []byte(requestToken(c))} {
		h.Write(part)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), false, nil
}
