package college

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusgrid/cms-core/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type page struct {
	Data struct {
		Items []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"items"`
		Total int64 `json:"total"`
	} `json:"data"`
}

func TestCollegeRoutes(t *testing.T) {
	assert := require.New(t)
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	coep := testutil.SeedCollege(t, db, "COEP Pune", "pune", "maharashtra", "btech")
	testutil.SeedCollege(t, db, "IIT Bombay", "mumbai", "maharashtra", "btech", "mtech")
	testutil.SeedCollege(t, db, "VJTI Mumbai", "mumbai", "maharashtra", "btech")

	r := gin.New()
	NewHandler(NewService(db)).RegisterRoutes(r.Group(""), func(c *gin.Context) { c.Next() })
	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/colleges?page=2&size=2")
	assert.Equal(http.StatusOK, w.Code)
	var p page
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &p))
	assert.EqualValues(3, p.Data.Total)
	assert.Len(p.Data.Items, 1)
	assert.Equal("VJTI Mumbai", p.Data.Items[0].Name)

	w = get("/colleges?q=Mumbai")
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &p))
	assert.EqualValues(1, p.Data.Total)

	w = get("/colleges/" + coep.ID)
	assert.Equal(http.StatusOK, w.Code)
	assert.Contains(w.Body.String(), `"COEP Pune"`)
	assert.Equal(http.StatusOK, get("/colleges/iit-bombay").Code)
	assert.Equal(http.StatusNotFound, get("/colleges/nowhere").Code)
}
