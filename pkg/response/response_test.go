package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perform(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)
	return w
}

func TestSuccess(t *testing.T) {
	w := perform(func(c *gin.Context) { Success(c, gin.H{"ok": true}) })
	assert.Equal(t, http.StatusOK, w.Code)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, map[string]interface{}{"ok": true}, body.Data)
}

func TestErrors(t *testing.T) {
	cases := []struct {
		name string
		fn   gin.HandlerFunc
		code int
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "nope") }, http.StatusBadRequest},
		{"forbidden", func(c *gin.Context) { Forbidden(c, "nope") }, http.StatusForbidden},
		{"not found", func(c *gin.Context) { NotFound(c, "nope") }, http.StatusNotFound},
		{"conflict", func(c *gin.Context) { Conflict(c, "nope") }, http.StatusConflict},
		{"internal", func(c *gin.Context) { InternalError(c, errors.New("boom")) }, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := perform(tc.fn)
			assert.Equal(t, tc.code, w.Code)
			var body Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
			assert.NotContains(t, body.Message, "boom")
		})
	}
}
