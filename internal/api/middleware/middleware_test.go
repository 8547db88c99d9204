package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/who", func(c *gin.Context) {
		sub, _ := Subject(c)
		c.String(http.StatusOK, sub)
	})
	return r
}

func get(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	v := NewTokenVerifier("0123456789abcdef", "hourglass")
	r := engine(Auth(v))

	tok, err := v.Issue("alice", time.Minute)
	require.NoError(t, err)
	w := get(r, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, tok).Code)

	expired, err := v.Issue("alice", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+expired).Code)

	other, err := NewTokenVerifier("another-secret-value", "hourglass").Issue("alice", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+other).Code)

	wrongIssuer, err := NewTokenVerifier("0123456789abcdef", "elsewhere").Issue("alice", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+wrongIssuer).Code)
}

func TestAuthDisabled(t *testing.T) {
	w := get(engine(Auth(nil)), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	r := engine(NewRateLimiter(0.001, 2).Middleware(), AccessLog())

	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "").Code)
}
