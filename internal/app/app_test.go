package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/campusgrid/cms-core/internal/config"
	"github.com/campusgrid/cms-core/internal/models"
	"github.com/campusgrid/cms-core/internal/modules/resolver"
	"github.com/campusgrid/cms-core/internal/modules/storage/upload"
	"github.com/campusgrid/cms-core/internal/pkg/adminapi"
	"github.com/campusgrid/cms-core/internal/pkg/contentkey"
	"github.com/campusgrid/cms-core/internal/pkg/jwt"
	"github.com/campusgrid/cms-core/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func newTestServer(t *testing.T) (*httptest.Server, *gorm.DB, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt.SetSecret("app-test-secret")

	cfg := config.Default()
	cfg.Env = "production"
	cfg.Storage.StaticDir = t.TempDir()
	db := testutil.DB(t)

	srv := httptest.NewServer(NewRouter(Deps{
		Config: &cfg,
		DB:     db,
		Store:  upload.NewLocalStore(cfg.Storage.StaticDir, ""),
	}))
	t.Cleanup(srv.Close)

	token, err := jwt.Sign("u-1", "", time.Hour)
	require.NoError(t, err)
	return srv, db, token
}

func TestRouterBasics(t *testing.T) {
	assert := require.New(t)
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + APIPrefix)
	assert.NoError(err)
	resp.Body.Close()
	assert.Equal(http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + APIPrefix + "/authors")
	assert.NoError(err)
	resp.Body.Close()
	assert.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/nowhere")
	assert.NoError(err)
	resp.Body.Close()
	assert.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestLocationPageLifecycle(t *testing.T) {
	assert := require.New(t)
	ctx := context.Background()
	srv, db, token := newTestServer(t)

	author := testutil.SeedAuthor(t, db, "Asha Rao")
	testutil.SeedCourseType(t, db, "btech", "B.Tech", "Bachelor of Technology", 1)
	testutil.SeedLocation(t, db, models.LocationState, "maharashtra", "Maharashtra", "")
	testutil.SeedLocation(t, db, models.LocationCity, "mumbai", "Mumbai", "maharashtra")
	testutil.SeedCollege(t, db, "IIT Bombay", "mumbai", "maharashtra", "btech")

	client := adminapi.New(srv.URL+APIPrefix, token)
	ws := resolver.OpenWorkspace(ctx, client, nil)
	assert.Len(ws.Authors, 1)
	assert.Len(ws.CourseTypes, 1)

	sel := resolver.NewSelector(client, nil, nil)
	sel.SetCourseTypes(ws.CourseTypes)
	assert.NoError(sel.SelectCourseType("btech"))
	locs := sel.LoadLocations(ctx)
	assert.Len(locs.Cities, 1)
	assert.False(locs.Cities[0].HasContent)
	assert.NoError(sel.SelectLocation(contentkey.LocationCity, "mumbai"))

	key, variant, err := sel.LocationKey()
	assert.NoError(err)
	assert.Equal("location:btech:city:mumbai-colleges", key.ScopeKey())

	r := resolver.New(client, client, variant, resolver.WithSession(resolver.Session{UserID: "u-1", AuthorID: author.ID}))
	assert.IsType(resolver.NotFound{}, r.Load(ctx, key))
	assert.Equal("B.Tech Colleges in Mumbai", r.Form().Title)

	banner, err := r.Banners().Add(ctx, "campus.png", bytes.NewReader(pngHeader))
	assert.NoError(err)
	assert.True(strings.HasPrefix(banner.Image, "/static/banners/"), banner.Image)
	assert.NoError(r.Banners().Update(banner.ID, "alt", "Campus"))

	r.BodyOnChange()(`<p>Top engineering colleges<script>x()</script></p>`)
	assert.NoError(r.Save(ctx, adminapi.StatusPublished))
	assert.IsType(resolver.Found{}, r.Result())

	// the directory reflects the new page
	locs = sel.LoadLocations(ctx)
	assert.True(locs.Cities[0].HasContent)

	again := resolver.New(client, client, variant)
	res := again.Load(ctx, key)
	found, ok := res.(resolver.Found)
	assert.True(ok)
	assert.Equal("Published", again.StatusBadge())
	assert.Equal("<p>Top engineering colleges</p>", again.Form().Body)
	assert.Equal(author.ID, again.Form().AuthorID)
	assert.Equal("Asha Rao", found.Record.AuthorName)
	assert.Len(again.Form().Banners, 1)
	assert.Equal("Campus", again.Form().Banners[0].Alt)

	// the uploaded image is served from /static
	resp, err := http.Get(srv.URL + banner.Image)
	assert.NoError(err)
	resp.Body.Close()
	assert.Equal(http.StatusOK, resp.StatusCode)

	assert.NoError(again.Save(ctx, adminapi.StatusDraft))
	rec, err := client.GetContent(ctx, key)
	assert.NoError(err)
	assert.Equal(adminapi.StatusDraft, rec.Status)
	assert.Equal(2, rec.Version)
}

func TestCorsOriginMatching(t *testing.T) {
	assert := require.New(t)
	assert.True(matchOrigin("admin.example.edu", originHost("https://admin.example.edu")))
	assert.True(matchOrigin("https://admin.example.edu", "admin.example.edu"))
	assert.True(matchOrigin("*.example.edu", "cms.example.edu"))
	assert.False(matchOrigin("*.example.edu", "example.edu"))
	assert.True(matchOrigin("localhost:*", "localhost:5173"))
	assert.False(matchOrigin("localhost:*", "evil.com"))
}
