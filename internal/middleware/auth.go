package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/campusgrid/cms-core/internal/pkg/jwt"
	"github.com/campusgrid/cms-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const principalKey = "cms.principal"

// Principal is the operator a verified token speaks for.
type Principal struct {
	UserID string
	// AuthorID is the author record the operator writes as, empty when the
	// token is not bound to one.
	AuthorID string
	Expires  time.Time
}

// Auth admits requests carrying a valid bearer token, in the Authorization
// header or the token query parameter, and records their Principal.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := requestToken(c)
		if raw == "" {
			response.Fail(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := jwt.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		p := Principal{UserID: claims.UserID, AuthorID: claims.AuthorID}
		if claims.ExpiresAt != nil {
			p.Expires = claims.ExpiresAt.Time
		}
		SetPrincipal(c, p)
		c.Next()
	}
}

// SetPrincipal attaches p to the request. Tests use it to skip token checks.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

// PrincipalOf returns the caller, and false on routes without Auth.
func PrincipalOf(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

func CurrentUserID(c *gin.Context) string {
	p, _ := PrincipalOf(c)
	return p.UserID
}

func CurrentAuthorID(c *gin.Context) string {
	p, _ := PrincipalOf(c)
	return p.AuthorID
}

func requestToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return NormalizeToken(h)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken strips surrounding space and an optional "Bearer " prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}
