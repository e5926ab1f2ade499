package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The entrypoint registers the health probes before the API routes are
// mounted, so SetupRoutes must not claim any of those paths itself.
func TestSetupRoutesComposesWithHealthEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	require.NotPanics(t, func() {
		SetupRoutes(router, nil, nil)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetupRoutesRegistersAPIRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, nil, nil)

	registered := make(map[string]bool)
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /api/v1/stocks",
		"GET /api/v1/stocks/search",
		"GET /api/v1/stocks/:symbol",
		"GET /api/v1/stocks/:symbol/prices",
		"POST /api/v1/stocks/:symbol/prices",
		"GET /api/v1/screener",
		"GET /api/v1/screener/:symbol",
		"GET /api/v1/rs-rating",
		"GET /api/v1/rs-rating/:symbol",
		"POST /api/v1/scan",
		"GET /api/v1/scan/summary",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
	assert.False(t, registered["GET /health"], "health probes belong to the entrypoint")
}
