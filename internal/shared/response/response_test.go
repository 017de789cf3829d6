package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hris-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query string
		want  response.Page
	}{
		{"", response.Page{Number: 1, Size: 10}},
		{"?page=3&page_size=5", response.Page{Number: 3, Size: 5}},
		{"?page=-1&page_size=abc", response.Page{Number: 1, Size: 10}},
		{"?page_size=1000", response.Page{Number: 1, Size: 100}},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
		assert.Equal(t, tc.want, response.PageParams(c), tc.query)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	got, meta := response.Paginate(items, response.Page{Number: 2, Size: 2})
	assert.Equal(t, []int{3, 4}, got)
	assert.Equal(t, int64(5), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	got, _ = response.Paginate(items, response.Page{Number: 9, Size: 2})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestError_Envelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	response.Error(c, http.StatusConflict, "CONFLICT", "taken", nil)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
	assert.NotContains(t, body, "data")
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "CONFLICT", errBody["code"])
	assert.Equal(t, "taken", errBody["message"])
}
