package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"

	"screener_backend/config"
	"screener_backend/models"
	"screener_backend/routes"
	"screener_backend/scheduler"
	"screener_backend/services/cache"
	"screener_backend/services/pricestore"
	"screener_backend/services/scan"
)

// dbInitialized tracks whether database has been successfully initialized.
// The /ready health endpoint checks it to report readiness dynamically.
var dbInitialized bool
var dbInitMutex sync.RWMutex

// Assigned by the background init goroutine; read at shutdown.
var jobScheduler *scheduler.Scheduler
var scanCache *cache.MongoCache

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Warn().Err(err).Msg("Config load issue")
	}
	config.SetupLogger(cfg)

	log.Info().Str("env", cfg.Environment).Msg("Screener Backend API starting")

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestLogger())

	// Health endpoints come up first so the platform can detect the
	// service while the database initializes in the background.
	setupHealthEndpoints(router)

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Initialize database, cache, and routes in background
	go func() {
		db, err := config.InitDB()
		if err != nil {
			log.Error().Err(err).Msg("Database connection failed, health check only mode")
			return
		}

		if err := runMigrations(); err != nil {
			log.Error().Err(err).Msg("Migration failed")
		} else {
			log.Info().Msg("Database migrations completed")
		}

		if cfg.MongoURI != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			scanCache, err = cache.NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDBName)
			cancel()
			if err != nil {
				log.Warn().Err(err).Msg("MongoDB cache unavailable, summaries will not be cached")
				scanCache = nil
			}
		}

		store := pricestore.NewStore(db)
		var scanCacheIface scan.Cache
		if scanCache != nil {
			scanCacheIface = scanCache
		}
		scanner := scan.NewService(store, store, scanCacheIface,
			scan.WithWorkers(cfg.ScanWorkers),
		)

		dbInitMutex.Lock()
		dbInitialized = true
		dbInitMutex.Unlock()

		routes.SetupRoutes(router, db, scanner)

		jobScheduler = scheduler.NewScheduler(db, scanner)
		go jobScheduler.Start()

		log.Info().Msg("Application fully initialized with database")
	}()

	gracefulShutdown(server)
}

// runMigrations runs all database migrations
func runMigrations() error {
	db := config.DB

	if err := models.MigrateStockModels(db); err != nil {
		return err
	}
	if err := models.MigrateScreenerModels(db); err != nil {
		return err
	}
	return nil
}

// setupHealthEndpoints sets up liveness and readiness probes
func setupHealthEndpoints(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Screener Backend API",
			"version": "1.0.0",
		})
	})

	// Liveness probe
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness probe
	router.GET("/ready", func(c *gin.Context) {
		dbInitMutex.RLock()
		isDBReady := dbInitialized
		dbInitMutex.RUnlock()

		if !isDBReady {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not_ready",
				"message": "Database not connected",
			})
			return
		}

		sqlDB, err := config.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not_ready",
				"message": "Database ping failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	router.GET("/startup", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "started"})
	})
}

// corsMiddleware returns a CORS middleware handler
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestLogger returns a request logging middleware
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip health checks to reduce noise
		path := c.Request.URL.Path
		if path == "/health" || path == "/ready" || path == "/startup" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		if c.Writer.Status() >= 400 || duration > 1*time.Second {
			log.Warn().
				Str("method", c.Request.Method).
				Str("path", path).
				Int("status", c.Writer.Status()).
				Dur("duration", duration).
				Msg("Request")
		}
	}
}

// gracefulShutdown handles graceful shutdown of the server
func gracefulShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	if jobScheduler != nil {
		jobScheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if scanCache != nil {
		if err := scanCache.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("Cache close failed")
		}
	}

	if config.DB != nil {
		sqlDB, err := config.DB.DB()
		if err == nil {
			sqlDB.Close()
			log.Info().Msg("Database connection closed")
		}
	}

	log.Info().Msg("Server shutdown completed")
}
