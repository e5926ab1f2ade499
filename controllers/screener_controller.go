package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"screener_backend/models"
	"screener_backend/services/pricestore"
	"screener_backend/services/scan"
)

// ScreenerController serves persisted indicator snapshots, RS ratings,
// and batch scan operations.
type ScreenerController struct {
	db      *gorm.DB
	store   *pricestore.Store
	scanner *scan.Service
}

// NewScreenerController creates a new screener controller.
func NewScreenerController(db *gorm.DB, scanner *scan.Service) *ScreenerController {
	return &ScreenerController{
		db:      db,
		store:   pricestore.NewStore(db),
		scanner: scanner,
	}
}

// GetSnapshot returns the latest indicator snapshot for a symbol
// GET /api/v1/screener/:symbol
func (sc *ScreenerController) GetSnapshot(c *gin.Context) {
	symbol := c.Param("symbol")

	row, err := sc.store.LatestSnapshot(c.Request.Context(), symbol)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot for symbol"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": row})
}

// ListSnapshots returns snapshots for a date, filtered and paginated
// GET /api/v1/screener?date=2026-08-28&min_score=12&final_signal=true
func (sc *ScreenerController) ListSnapshots(c *gin.Context) {
	query := sc.db.WithContext(c.Request.Context()).Model(&models.IndicatorSnapshot{})

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		query = query.Where("date = ?", date)
	}
	if minScore := c.Query("min_score"); minScore != "" {
		n, err := strconv.Atoi(minScore)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_score"})
			return
		}
		query = query.Where("score >= ?", n)
	}
	if c.Query("final_signal") == "true" {
		query = query.Where("final_signal = ?", true)
	}
	if c.Query("trend_final_signal") == "true" {
		query = query.Where("trend_final_signal = ?", true)
	}

	page, limit := pagination(c)
	var total int64
	query.Count(&total)

	var rows []models.IndicatorSnapshot
	err := query.
		Order("score DESC, symbol ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  rows,
		"total": total,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
		},
	})
}

// GetRating returns the latest RS rating for a symbol
// GET /api/v1/rs-rating/:symbol
func (sc *ScreenerController) GetRating(c *gin.Context) {
	symbol := c.Param("symbol")

	row, err := sc.store.LatestRating(c.Request.Context(), symbol)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no rs rating for symbol"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": row})
}

// ListRatings returns RS ratings for a date ordered by rating
// GET /api/v1/rs-rating?date=2026-08-28&min_rating=80
func (sc *ScreenerController) ListRatings(c *gin.Context) {
	query := sc.db.WithContext(c.Request.Context()).Model(&models.RSRating{})

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		query = query.Where("date = ?", date)
	}
	if minRating := c.Query("min_rating"); minRating != "" {
		n, err := strconv.Atoi(minRating)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_rating"})
			return
		}
		query = query.Where("rs_rating >= ?", n)
	}

	page, limit := pagination(c)
	var total int64
	query.Count(&total)

	var rows []models.RSRating
	err := query.
		Order("rs_rating DESC, symbol ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  rows,
		"total": total,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
		},
	})
}

// RunScan triggers a batch scan followed by a cross sectional RS rating pass
// POST /api/v1/scan
func (sc *ScreenerController) RunScan(c *gin.Context) {
	// A client disconnect must not cancel a half-written batch, so the
	// scan runs on its own deadline rather than the request context.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 30*time.Minute)
	defer cancel()

	summary, err := sc.scanner.RunBatch(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ranked, err := sc.scanner.RunRSRatings(ctx, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   summary,
		"ranked": ranked,
	})
}

// GetScanSummary returns the cached summary of the most recent batch run
// GET /api/v1/scan/summary
func (sc *ScreenerController) GetScanSummary(c *gin.Context) {
	summary, found, err := sc.scanner.LatestSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no recent scan summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func pagination(c *gin.Context) (page, limit int) {
	page, limit = 1, 50
	if p := c.Query("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	return page, limit
}
