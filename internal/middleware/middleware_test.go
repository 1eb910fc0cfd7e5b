package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"so101builder/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestRequestLogger_GeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(logger.Nop()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": RequestID(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("expected a uuid request id, got %q", w.Header().Get(RequestIDHeader))
	}
}

func TestRequestLogger_KeepsCallerRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(logger.Nop()))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, RequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Body.String(); got != "abc-123" {
		t.Errorf("expected request id abc-123, got %q", got)
	}
}

func TestValidSetupID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/wizard/:setup_id", ValidSetupID("setup_id"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := map[string]int{
		"/wizard/" + uuid.NewString(): http.StatusOK,
		"/wizard/not-a-uuid":          http.StatusBadRequest,
	}
	for path, want := range cases {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != want {
			t.Errorf("%s: expected status %d, got %d", path, want, w.Code)
		}
	}
}
