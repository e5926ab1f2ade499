package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock represents an exchange-listed equity in the screener universe.
type Stock struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Symbol      string          `gorm:"uniqueIndex;not null" json:"symbol"`
	Name        string          `json:"name"`
	Exchange    string          `json:"exchange"`
	Industry    string          `json:"industry"`
	Sector      string          `json:"sector"`
	MarketCap   decimal.Decimal `gorm:"type:decimal(20,2)" json:"market_cap"`
	ListingDate *time.Time      `json:"listing_date"`
	Status      string          `json:"status"` // active, delisted, suspended
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StockPrice represents one daily OHLCV bar. Bars are immutable once
// recorded and uniquely keyed by (symbol, date).
type StockPrice struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Symbol    string          `gorm:"uniqueIndex:idx_price_symbol_date;not null" json:"symbol"`
	Date      time.Time       `gorm:"uniqueIndex:idx_price_symbol_date;not null" json:"date"`
	Open      decimal.Decimal `gorm:"type:decimal(15,2)" json:"open"`
	High      decimal.Decimal `gorm:"type:decimal(15,2)" json:"high"`
	Low       decimal.Decimal `gorm:"type:decimal(15,2)" json:"low"`
	Close     decimal.Decimal `gorm:"type:decimal(15,2)" json:"close"`
	Volume    int64           `json:"volume"`
	CreatedAt time.Time       `json:"created_at"`
}

// MigrateStockModels runs database migrations for stock-related models.
func MigrateStockModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&Stock{},
		&StockPrice{},
	)
}
