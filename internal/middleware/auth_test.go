package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/snotevid/video-notes-go/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("error", "")
}

func setupRouter(auth *Auth) *gin.Engine {
	router := gin.New()
	router.Use(auth.Middleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(ContextUserID)})
	})
	return router
}

func TestAuth_RequiresUserID(t *testing.T) {
	router := setupRouter(NewAuth(nil))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_PassesUserIDThrough(t *testing.T) {
	router := setupRouter(NewAuth(nil))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuth_APIKeyValidation(t *testing.T) {
	tests := []struct {
		name       string
		apiKeys    []string
		header     string
		value      string
		wantStatus int
	}{
		{
			name:       "valid X-API-Key",
			apiKeys:    []string{"secret-key"},
			header:     "X-API-Key",
			value:      "secret-key",
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid bearer token",
			apiKeys:    []string{"secret-key"},
			header:     "Authorization",
			value:      "Bearer secret-key",
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid key",
			apiKeys:    []string{"secret-key"},
			header:     "X-API-Key",
			value:      "wrong-key",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing key",
			apiKeys:    []string{"secret-key"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no keys configured disables check",
			apiKeys:    nil,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(NewAuth(tt.apiKeys))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("X-User-ID", "user-1")
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
