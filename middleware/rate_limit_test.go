package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsWithinWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	ok, _ := rl.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = rl.Allow("10.0.0.1")
	assert.True(t, ok)

	ok, retry := rl.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))

	// Other callers are tracked independently.
	ok, _ = rl.Allow("10.0.0.2")
	assert.True(t, ok)
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	ok, _ := rl.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = rl.Allow("10.0.0.1")
	assert.False(t, ok)

	time.Sleep(15 * time.Millisecond)
	ok, _ = rl.Allow("10.0.0.1")
	assert.True(t, ok)
}

func TestScanRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/scan", ScanRateLimitMiddleware(1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/scan/summary", ScanRateLimitMiddleware(1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	post := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/scan", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	// GET requests bypass the limiter.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/scan/summary", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
