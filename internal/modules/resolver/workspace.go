package resolver

import (
	"context"

	"github.com/campusgrid/cms-core/internal/pkg/adminapi"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Workspace holds the picker lists an editor panel shows next to the form.
type Workspace struct {
	Authors     []adminapi.Author
	CourseTypes []adminapi.CourseType
}

// OpenWorkspace fetches authors and active course types concurrently. Each
// list falls back to empty on its own; the panel never waits on an error.
func OpenWorkspace(ctx context.Context, dir Directory, log *zap.Logger) *Workspace {
	if log == nil {
		log = zap.NewNop()
	}
	ws := &Workspace{Authors: []adminapi.Author{}, CourseTypes: []adminapi.CourseType{}}

	// plain Group: one failing fetch must not cancel the other
	var g errgroup.Group
	g.Go(func() error {
		authors, err := dir.Authors(ctx)
		if err != nil {
			log.Warn("authors unavailable", zap.Error(err))
			return nil
		}
		if authors != nil {
			ws.Authors = authors
		}
		return nil
	})
	g.Go(func() error {
		types, err := dir.CourseTypes(ctx, "active")
		if err != nil {
			log.Warn("course types unavailable", zap.Error(err))
			return nil
		}
		if types != nil {
			ws.CourseTypes = types
		}
		return nil
	})
	_ = g.Wait()
	return ws
}

// AuthorName resolves an author id against the loaded list.
func (w *Workspace) AuthorName(id string) string {
	for _, a := range w.Authors {
		if a.ID == id {
			return a.Name
		}
	}
	return ""
}
