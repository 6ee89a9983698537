package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPage = 1
	DefaultSize = 20
	// MaxSize is large enough for the editor pickers to fetch every course
	// type in one call.
	MaxSize = 200
)

type Query struct {
	Page int
	Size int
}

func (q Query) Offset() int { return (q.Page - 1) * q.Size }

// FromContext reads page and size. Older admin builds send limit or
// per_page instead of size. Bad values fall back to the defaults.
func FromContext(c *gin.Context) Query {
	q := Query{Page: DefaultPage, Size: DefaultSize}
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		q.Page = n
	}
	for _, name := range []string{"size", "limit", "per_page"} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			q.Size = min(n, MaxSize)
		}
		break
	}
	return q
}

// Paginate counts the rows matched by db and loads one page into dest.
// dest is an empty, non-nil slice when the page is past the end.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T) (int64, error) {
	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}
	if int64(q.Offset()) >= total {
		*dest = []T{}
		return total, nil
	}
	if err := db.Session(&gorm.Session{}).Offset(q.Offset()).Limit(q.Size).Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}
