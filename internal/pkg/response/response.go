// Package response writes the JSON envelopes the admin frontend and
// adminapi.Client expect: {"success":true,"data":...} on success and
// {"success":false,"code":N,"message":"..."} on failure.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Page is the list shape: {items, total}.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

type failure struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func OK(c *gin.Context, data interface{}) { write(c, http.StatusOK, data) }

func Created(c *gin.Context, data interface{}) { write(c, http.StatusCreated, data) }

// Paged never encodes items as null.
func Paged[T any](c *gin.Context, items []T, total int64) {
	if items == nil {
		items = []T{}
	}
	OK(c, Page[T]{Items: items, Total: total})
}

func write(c *gin.Context, status int, data interface{}) {
	// data is written even when null
	c.JSON(status, struct {
		Success bool        `json:"success"`
		Data    interface{} `json:"data"`
	}{true, data})
}

// Fail aborts the chain and writes the failure envelope.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, failure{Code: status, Message: message})
}

func BadRequest(c *gin.Context, message string) { Fail(c, http.StatusBadRequest, message) }
func NotFound(c *gin.Context) { Fail(c, http.StatusNotFound, "Not Found") }
func NotFoundMsg(c *gin.Context, message string) { Fail(c, http.StatusNotFound, message) }
func Conflict(c *gin.Context, message string) { Fail(c, http.StatusConflict, message) }

func MethodNotAllowed(c *gin.Context) {
	Fail(c, http.StatusMethodNotAllowed, "Method Not Allowed")
}

func UnprocessableEntity(c *gin.Context, message string) {
	Fail(c, http.StatusUnprocessableEntity, message)
}

func RequestEntityTooLarge(c *gin.Context, message string) {
	Fail(c, http.StatusRequestEntityTooLarge, message)
}

// InternalError records err on the context for the request logger and
// answers 500 with its message.
func InternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	Fail(c, http.StatusInternalServerError, err.Error())
}
