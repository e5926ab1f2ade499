package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"screener_backend/models"
	"screener_backend/services/pricestore"
)

// StockController handles stock universe and price history requests
type StockController struct {
	db    *gorm.DB
	store *pricestore.Store
}

// NewStockController creates a new stock controller
func NewStockController(db *gorm.DB) *StockController {
	return &StockController{db: db, store: pricestore.NewStore(db)}
}

// GetStocks returns the listed universe
// GET /api/v1/stocks
func (sc *StockController) GetStocks(c *gin.Context) {
	query := sc.db.WithContext(c.Request.Context()).Model(&models.Stock{})

	if exchange := c.Query("exchange"); exchange != "" {
		query = query.Where("exchange = ?", exchange)
	}
	if industry := c.Query("industry"); industry != "" {
		query = query.Where("industry = ?", industry)
	}

	page, limit := pagination(c)
	var total int64
	query.Count(&total)

	var stocks []models.Stock
	if err := query.Order("symbol ASC").Limit(limit).Offset((page - 1) * limit).Find(&stocks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stocks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  stocks,
		"total": total,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
		},
	})
}

// GetStock returns a single stock by symbol
// GET /api/v1/stocks/:symbol
func (sc *StockController) GetStock(c *gin.Context) {
	symbol := c.Param("symbol")

	var stock models.Stock
	err := sc.db.WithContext(c.Request.Context()).Where("symbol = ?", symbol).First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "stock not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stock})
}

// GetStockPrices returns daily bars for a symbol within a date range
// GET /api/v1/stocks/:symbol/prices?start_date=2026-01-01&end_date=2026-08-31
func (sc *StockController) GetStockPrices(c *gin.Context) {
	symbol := c.Param("symbol")

	startDate := c.DefaultQuery("start_date", time.Now().AddDate(0, -3, 0).Format("2006-01-02"))
	endDate := c.DefaultQuery("end_date", time.Now().Format("2006-01-02"))

	var prices []models.StockPrice
	err := sc.db.WithContext(c.Request.Context()).
		Where("symbol = ? AND date BETWEEN ? AND ?", symbol, startDate, endDate).
		Order("date ASC").
		Find(&prices).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch prices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   prices,
		"symbol": symbol,
	})
}

// ImportStockPrices ingests daily bars for a symbol. Duplicate
// (symbol, date) bars are silently skipped; recorded bars are immutable.
// POST /api/v1/stocks/:symbol/prices
func (sc *StockController) ImportStockPrices(c *gin.Context) {
	symbol := c.Param("symbol")

	var request []struct {
		Date   string          `json:"date" binding:"required"`
		Open   decimal.Decimal `json:"open"`
		High   decimal.Decimal `json:"high"`
		Low    decimal.Decimal `json:"low"`
		Close  decimal.Decimal `json:"close"`
		Volume int64           `json:"volume"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	bars := make([]models.StockPrice, 0, len(request))
	for _, r := range request {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date " + r.Date + ", expected YYYY-MM-DD"})
			return
		}
		bars = append(bars, models.StockPrice{
			Symbol: symbol,
			Date:   date,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}

	if err := sc.store.SaveBars(c.Request.Context(), bars); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": len(bars), "symbol": symbol})
}

// SearchStocks searches the universe by symbol or name
// GET /api/v1/stocks/search?q=VN
func (sc *StockController) SearchStocks(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search query required"})
		return
	}

	var stocks []models.Stock
	err := sc.db.WithContext(c.Request.Context()).
		Where("symbol ILIKE ? OR name ILIKE ?", "%"+q+"%", "%"+q+"%").
		Limit(20).
		Find(&stocks).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stocks})
}
