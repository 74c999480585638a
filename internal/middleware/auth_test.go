package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens map[string]int64

func (s staticTokens) Parse(token string) (int64, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, errors.New("bad token")
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := staticTokens{"good": 5}
	r := gin.New()
	r.Use(RequestID())
	echo := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c), "request_id": c.GetString(RequestIDKey)})
	}
	r.GET("/private", RequireAuth(tokens), echo)
	r.GET("/public", OptionalAuth(tokens), echo)
	return r
}

func TestRequireAuth(t *testing.T) {
	router := setupRouter()

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"code":"AUTH_REQUIRED"`)
				assert.Contains(t, rec.Body.String(), "AUTH_REQUIRED: ")
			}
		})
	}
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	router := setupRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":0`)

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `"user_id":5`)
}

func TestRequestIDPropagates(t *testing.T) {
	router := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
	assert.Contains(t, rec.Body.String(), `"request_id":"abc"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
