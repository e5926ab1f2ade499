package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"screener_backend/controllers"
	"screener_backend/middleware"
	"screener_backend/services/scan"
)

// SetupRoutes sets up all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, scanner *scan.Service) {
	stockController := controllers.NewStockController(db)
	screenerController := controllers.NewScreenerController(db, scanner)

	// API v1 group
	api := router.Group("/api/v1")
	{
		// Stock universe routes
		stocks := api.Group("/stocks")
		{
			stocks.GET("", stockController.GetStocks)
			stocks.GET("/search", stockController.SearchStocks)
			stocks.GET("/:symbol", stockController.GetStock)
			stocks.GET("/:symbol/prices", stockController.GetStockPrices)
			stocks.POST("/:symbol/prices", stockController.ImportStockPrices)
		}

		// Screener snapshot routes
		screener := api.Group("/screener")
		{
			screener.GET("", screenerController.ListSnapshots)
			screener.GET("/:symbol", screenerController.GetSnapshot)
		}

		// RS rating routes
		rs := api.Group("/rs-rating")
		{
			rs.GET("", screenerController.ListRatings)
			rs.GET("/:symbol", screenerController.GetRating)
		}

		// Scan control routes
		scanGroup := api.Group("/scan")
		scanGroup.Use(middleware.ScanRateLimitMiddleware(2, 10*time.Minute))
		{
			scanGroup.POST("", screenerController.RunScan)
			scanGroup.GET("/summary", screenerController.GetScanSummary)
		}
	}
}
