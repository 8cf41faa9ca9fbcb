package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString(ctxRequestID)})
	})
	return r
}

func TestRequestID_Generated(t *testing.T) {
	r := setupRouter(RequestID(), Logging())

	req, _ := http.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(headerRequestID))
}

func TestRequestID_Propagated(t *testing.T) {
	r := setupRouter(RequestID())

	req, _ := http.NewRequest("GET", "/ping", nil)
	req.Header.Set(headerRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(headerRequestID))
	assert.JSONEq(t, `{"request_id":"abc-123"}`, w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 0.001 rps keeps the bucket from refilling during the test.
	r := setupRouter(RateLimiter(ctx, 0.001, 2))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// another client has its own bucket
	req, _ := http.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
