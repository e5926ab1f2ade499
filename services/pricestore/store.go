package pricestore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"screener_backend/models"
	"screener_backend/services/indicators"
)

// upsertBatchSize keeps multi-row inserts under postgres parameter limits
// for the wide snapshot table.
const upsertBatchSize = 100

// Store is the gorm-backed price-history reader and screener result
// writer. All screener persistence goes through the (symbol, date) natural
// key, so repeated batch runs are idempotent last-writer-wins.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store on an initialized database connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// PriceHistory returns up to maxBars daily bars for symbol, ordered
// ascending by date. Unknown symbols return an empty slice, not an error.
func (s *Store) PriceHistory(ctx context.Context, symbol string, maxBars int) ([]indicators.PriceBar, error) {
	var prices []models.StockPrice
	err := s.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("date DESC").
		Limit(maxBars).
		Find(&prices).Error
	if err != nil {
		return nil, fmt.Errorf("load prices for %s: %w", symbol, err)
	}

	// Query is newest-first for the LIMIT; reverse into chronological order.
	bars := make([]indicators.PriceBar, len(prices))
	for i, p := range prices {
		bars[len(prices)-1-i] = indicators.PriceBar{
			Date:   p.Date,
			Open:   p.Open.InexactFloat64(),
			High:   p.High.InexactFloat64(),
			Low:    p.Low.InexactFloat64(),
			Close:  p.Close.InexactFloat64(),
			Volume: float64(p.Volume),
		}
	}
	return bars, nil
}

// ActiveSymbols returns the symbols that traded on the most recent date
// present in the price table.
func (s *Store) ActiveSymbols(ctx context.Context) ([]string, error) {
	var latest time.Time
	err := s.db.WithContext(ctx).
		Model(&models.StockPrice{}).
		Select("MAX(date)").
		Row().Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("find latest price date: %w", err)
	}

	var symbols []string
	err = s.db.WithContext(ctx).
		Model(&models.StockPrice{}).
		Where("date = ?", latest).
		Distinct().
		Pluck("symbol", &symbols).Error
	if err != nil {
		return nil, fmt.Errorf("load active symbols: %w", err)
	}
	return symbols, nil
}

// UpsertSnapshots inserts or updates snapshot rows on (symbol, date).
func (s *Store) UpsertSnapshots(ctx context.Context, rows []models.IndicatorSnapshot) error {
	if len(rows) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}, {Name: "date"}},
			UpdateAll: true,
		}).
		CreateInBatches(rows, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("upsert %d snapshots: %w", len(rows), err)
	}
	return nil
}

// UpsertRatings inserts or updates RS rating rows on (symbol, date).
func (s *Store) UpsertRatings(ctx context.Context, rows []models.RSRating) error {
	if len(rows) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}, {Name: "date"}},
			UpdateAll: true,
		}).
		CreateInBatches(rows, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("upsert %d rs ratings: %w", len(rows), err)
	}
	return nil
}

// SaveBars bulk-inserts daily bars, ignoring duplicates on (symbol, date);
// recorded bars are immutable.
func (s *Store) SaveBars(ctx context.Context, bars []models.StockPrice) error {
	if len(bars) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}, {Name: "date"}},
			DoNothing: true,
		}).
		CreateInBatches(bars, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("save %d bars: %w", len(bars), err)
	}
	return nil
}

// LatestSnapshot returns the most recent snapshot row for a symbol, or
// gorm.ErrRecordNotFound.
func (s *Store) LatestSnapshot(ctx context.Context, symbol string) (*models.IndicatorSnapshot, error) {
	var row models.IndicatorSnapshot
	err := s.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("date DESC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// LatestRating returns the most recent RS rating row for a symbol, or
// gorm.ErrRecordNotFound.
func (s *Store) LatestRating(ctx context.Context, symbol string) (*models.RSRating, error) {
	var row models.RSRating
	err := s.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("date DESC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
