package record

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/campusgrid/cms-core/internal/middleware"
	"github.com/campusgrid/cms-core/internal/models"
	"github.com/campusgrid/cms-core/internal/pkg/contentkey"
	"github.com/campusgrid/cms-core/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestUpsertCreatesThenUpdatesWithRevision(t *testing.T) {
	assert := require.New(t)
	ctx := context.Background()
	db := testutil.DB(t)
	svc := NewService(db)
	key := contentkey.College("c-1", "placement")

	rec, created, err := svc.Upsert(ctx, key, &SaveDTO{Title: "IIT Bombay Placements", Content: "<p>v1</p>"}, "u-1")
	assert.NoError(err)
	assert.True(created)
	assert.Equal(1, rec.Version)
	assert.Equal(models.ContentDraft, rec.Status)
	assert.Equal("college:c-1", rec.ScopeKey)
	assert.Equal("placement", rec.SectionKey)
	assert.NotNil(rec.CollegeID)
	assert.Empty(rec.Banners)

	rec, created, err = svc.Upsert(ctx, key, &SaveDTO{Title: "IIT Bombay Placements", Content: "<p>v2</p>", Status: models.ContentPublished}, "u-2")
	assert.NoError(err)
	assert.False(created)
	assert.Equal(2, rec.Version)
	assert.Equal("<p>v2</p>", rec.Body)
	assert.Equal(models.ContentPublished, rec.Status)
	assert.NotNil(rec.PublishedAt)

	revs, err := svc.Revisions(ctx, key)
	assert.NoError(err)
	assert.Len(revs, 1)
	assert.Equal(1, revs[0].Version)
	assert.Equal("<p>v1</p>", revs[0].Body)
	assert.Equal("u-2", revs[0].SavedBy)

	var count int64
	db.Model(&models.ContentRecordModel{}).Count(&count)
	assert.EqualValues(1, count)
}

func TestDraftIsReachableAfterPublish(t *testing.T) {
	assert := require.New(t)
	ctx := context.Background()
	svc := NewService(testutil.DB(t))
	key := contentkey.Course("btech")

	_, _, err := svc.Upsert(ctx, key, &SaveDTO{Title: "B.Tech", Status: models.ContentPublished}, "u")
	assert.NoError(err)
	rec, _, err := svc.Upsert(ctx, key, &SaveDTO{Title: "B.Tech", Status: models.ContentDraft}, "u")
	assert.NoError(err)
	assert.Equal(models.ContentDraft, rec.Status)
	assert.NotNil(rec.PublishedAt)
}

func TestCreateRejectsExistingKey(t *testing.T) {
	assert := require.New(t)
	ctx := context.Background()
	svc := NewService(testutil.DB(t))
	key := contentkey.Location("mba", contentkey.LocationCity, "pune")

	_, err := svc.Create(ctx, key, &SaveDTO{Title: "MBA Colleges in Pune"}, "u")
	assert.NoError(err)
	_, err = svc.Create(ctx, key, &SaveDTO{Title: "again"}, "u")
	assert.ErrorIs(err, ErrExists)
}

func TestGetMissingReturnsNil(t *testing.T) {
	assert := require.New(t)
	svc := NewService(testutil.DB(t))
	rec, err := svc.Get(context.Background(), contentkey.College("nope", "overview"))
	assert.NoError(err)
	assert.Nil(rec)

	_, err = svc.Get(context.Background(), contentkey.College("x", "gossip"))
	assert.ErrorIs(err, ErrValidation)
}

func TestSaveValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testutil.DB(t))
	key := contentkey.College("c", "overview")
	unknown := "missing-author"
	banner := models.BannerItem{Image: "/static/a.png"}

	cases := map[string]*SaveDTO{
		"long title":     {Title: strings.Repeat("a", MaxTitleLen+1)},
		"long meta":      {MetaTitle: strings.Repeat("m", MaxMetaTitleLen+1)},
		"long meta desc": {MetaDescription: strings.Repeat("d", MaxMetaDescriptionLen+1)},
		"bad status":     {Status: "archived"},
		"four banners":   {Banners: []models.BannerItem{banner, banner, banner, banner}},
		"banner no img":  {Banners: []models.BannerItem{{Alt: "x"}}},
		"unknown author": {AuthorID: &unknown},
	}
	for name, dto := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.Upsert(ctx, key, dto, "u")
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestBodyIsSanitisedAndAuthorJoined(t *testing.T) {
	assert := require.New(t)
	ctx := context.Background()
	db := testutil.DB(t)
	author := testutil.SeedAuthor(t, db, "Asha Rao")
	svc := NewService(db)

	rec, _, err := svc.Upsert(ctx, contentkey.College("c", "faq"), &SaveDTO{
		Title:    "FAQ",
		Content:  `<p onclick="x()">Hi<script>alert(1)</script></p>`,
		AuthorID: &author.ID,
		Banners: []models.BannerItem{
			{ID: "1700000000000", Image: "/static/b1.png", Alt: "gate"},
			{Image: "/static/b2.png"},
		},
	}, "u")
	assert.NoError(err)
	assert.Equal("<p>Hi</p>", rec.Body)
	assert.NotNil(rec.Author)
	assert.Equal("Asha Rao", toResponse(rec).AuthorName)
	assert.Len(rec.Banners, 2)
	assert.Equal("1700000000000", rec.Banners[0].ID)
	assert.NotEmpty(rec.Banners[1].ID)
}

func TestRestoreWritesNewVersion(t *testing.T) {
	assert := require.New(t)
	ctx := context.Background()
	svc := NewService(testutil.DB(t))
	key := contentkey.College("c", "ranking")

	_, _, _ = svc.Upsert(ctx, key, &SaveDTO{Title: "first", Content: "<p>one</p>"}, "u")
	_, _, _ = svc.Upsert(ctx, key, &SaveDTO{Title: "second", Content: "<p>two</p>"}, "u")

	rec, err := svc.Restore(ctx, key, 1, "u")
	assert.NoError(err)
	assert.Equal(3, rec.Version)
	assert.Equal("first", rec.Title)
	assert.Equal("<p>one</p>", rec.Body)

	_, err = svc.Restore(ctx, key, 9, "u")
	assert.ErrorIs(err, ErrNotFound)
}

func TestSaveHookAndHasContent(t *testing.T) {
	assert := require.New(t)
	ctx := context.Background()
	var seen []string
	svc := NewService(testutil.DB(t), WithSaveHook(func(_ context.Context, k contentkey.Key) {
		seen = append(seen, k.String())
	}))
	key := contentkey.Location("btech", contentkey.LocationCity, "mumbai")

	_, _, err := svc.Upsert(ctx, key, &SaveDTO{Title: "B.Tech Colleges in Mumbai"}, "u")
	assert.NoError(err)
	assert.Equal([]string{"location:btech:city:mumbai-colleges/page"}, seen)

	has, err := svc.HasContent(ctx, "btech", contentkey.LocationCity, []string{"mumbai-colleges", "pune-colleges"})
	assert.NoError(err)
	assert.True(has["mumbai-colleges"])
	assert.False(has["pune-colleges"])
}

func setupRouter(t *testing.T) (*gin.Engine, *Service) {
	gin.SetMode(gin.TestMode)
	svc := NewService(testutil.DB(t))
	r := gin.New()
	fakeAuth := func(c *gin.Context) {
		middleware.SetPrincipal(c, middleware.Principal{UserID: "tester"})
		c.Next()
	}
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), fakeAuth)
	return r, svc
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestHandlerGetAbsentReturnsNullContent(t *testing.T) {
	assert := require.New(t)
	r, _ := setupRouter(t)
	w, env := do(t, r, http.MethodGet, "/api/v1/colleges/c-9/content/overview", nil)
	assert.Equal(http.StatusOK, w.Code)
	assert.True(env.Success)
	assert.JSONEq(`{"content":null}`, string(env.Data))
}

func TestHandlerLocationRoundTrip(t *testing.T) {
	assert := require.New(t)
	r, _ := setupRouter(t)
	path := "/api/v1/course-types/btech/locations/city/mumbai-colleges/content"

	w, env := do(t, r, http.MethodPut, path, map[string]interface{}{
		"title":   "B.Tech Colleges in Mumbai",
		"content": "<p>Top picks</p>",
		"status":  "published",
	})
	assert.Equal(http.StatusCreated, w.Code)
	assert.True(env.Success)

	w, env = do(t, r, http.MethodGet, path, nil)
	assert.Equal(http.StatusOK, w.Code)
	var got struct {
		Content recordResponse `json:"content"`
	}
	assert.NoError(json.Unmarshal(env.Data, &got))
	assert.Equal("<p>Top picks</p>", got.Content.Content)
	assert.Equal(models.ContentPublished, got.Content.Status)
	assert.Equal("location:btech:city:mumbai-colleges", got.Content.ScopeKey)
	assert.Equal("tester", got.Content.UpdatedBy)
	assert.NotNil(got.Content.Banners)

	w, env = do(t, r, http.MethodPost, path, map[string]interface{}{"title": "dup"})
	assert.Equal(http.StatusConflict, w.Code)
	assert.False(env.Success)
	assert.Equal(http.StatusConflict, env.Code)
}

func TestHandlerRejectsBadKeysAndBodies(t *testing.T) {
	assert := require.New(t)
	r, _ := setupRouter(t)

	w, env := do(t, r, http.MethodPut, "/api/v1/colleges/c/content/gossip", map[string]interface{}{"title": "x"})
	assert.Equal(http.StatusUnprocessableEntity, w.Code)
	assert.NotEmpty(env.Message)

	w, _ = do(t, r, http.MethodPut, "/api/v1/course-types/btech/locations/city/mumbai/content", map[string]interface{}{"title": "x"})
	assert.Equal(http.StatusUnprocessableEntity, w.Code)

	w, _ = do(t, r, http.MethodPut, "/api/v1/course-types/btech/content", map[string]interface{}{
		"title": strings.Repeat("t", MaxTitleLen+1),
	})
	assert.Equal(http.StatusUnprocessableEntity, w.Code)
}

func TestHandlerRevisionsList(t *testing.T) {
	assert := require.New(t)
	r, _ := setupRouter(t)
	path := "/api/v1/colleges/c-1/content/admission"

	do(t, r, http.MethodPut, path, map[string]interface{}{"title": "a", "content": "<p>1</p>"})
	do(t, r, http.MethodPut, path, map[string]interface{}{"title": "b", "content": "<p>2</p>"})
	do(t, r, http.MethodPut, path, map[string]interface{}{"title": "c", "content": "<p>3</p>"})

	w, env := do(t, r, http.MethodGet, path+"/revisions", nil)
	assert.Equal(http.StatusOK, w.Code)
	var page struct {
		Items []revisionResponse `json:"items"`
		Total int64              `json:"total"`
	}
	assert.NoError(json.Unmarshal(env.Data, &page))
	assert.EqualValues(2, page.Total)
	assert.Equal(2, page.Items[0].Version)
	assert.Equal(1, page.Items[1].Version)

	w, _ = do(t, r, http.MethodGet, "/api/v1/colleges/none/content/admission/revisions", nil)
	assert.Equal(http.StatusNotFound, w.Code)
}

func TestHandlerRestoreOnEveryScope(t *testing.T) {
	paths := []string{
		"/api/v1/colleges/c-1/content/placement",
		"/api/v1/course-types/btech/content",
		"/api/v1/course-types/btech/locations/state/maharashtra-colleges/content",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			assert := require.New(t)
			r, _ := setupRouter(t)
			do(t, r, http.MethodPut, path, map[string]interface{}{"title": "first", "content": "<p>one</p>"})
			do(t, r, http.MethodPut, path, map[string]interface{}{"title": "second", "content": "<p>two</p>"})

			w, env := do(t, r, http.MethodPost, path+"/revisions/1/restore", nil)
			assert.Equal(http.StatusOK, w.Code, env.Message)
			var got struct {
				Content recordResponse `json:"content"`
			}
			assert.NoError(json.Unmarshal(env.Data, &got))
			assert.Equal("first", got.Content.Title)
			assert.Equal("<p>one</p>", got.Content.Content)
			assert.Equal(3, got.Content.Version)

			w, _ = do(t, r, http.MethodPost, path+"/revisions/0/restore", nil)
			assert.Equal(http.StatusBadRequest, w.Code)
		})
	}
}
