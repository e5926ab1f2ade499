package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/phuslu/log"

	"screener_backend/models"
	"screener_backend/services/indicators"
	"screener_backend/services/rsrating"
	"screener_backend/services/screener"
)

// Fetch windows. Screeners need the 65-bar band plus smoothing warmup;
// the RS engine needs up to 12 months plus the tolerance window.
const (
	DefaultMaxBars  = 400
	DefaultRSBars   = 290
	DefaultWorkers  = 10
	DefaultCacheTTL = 15 * time.Minute
	ScanSummaryKey  = "scan:latest_summary"
)

// PriceReader provides ordered price history. Implementations return bars
// ascending by date, at most maxBars of them, and an empty slice for
// unknown symbols.
type PriceReader interface {
	PriceHistory(ctx context.Context, symbol string, maxBars int) ([]indicators.PriceBar, error)
	ActiveSymbols(ctx context.Context) ([]string, error)
}

// ResultWriter persists screener output, upserting on the (symbol, date)
// natural key so concurrent batch runs stay idempotent last-writer-wins.
type ResultWriter interface {
	UpsertSnapshots(ctx context.Context, rows []models.IndicatorSnapshot) error
	UpsertRatings(ctx context.Context, rows []models.RSRating) error
}

// Cache is a plain TTL'd key/value store for current-day batch summaries.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, out interface{}) (bool, error)
}

// Service orchestrates the per-symbol indicator pipeline and the
// cross-sectional RS rating pass across the universe.
type Service struct {
	reader   PriceReader
	writer   ResultWriter
	cache    Cache
	logger   log.Logger
	trend    *screener.TrendScreener
	rsi      *screener.RSIScreener
	rating   *rsrating.Engine
	maxBars  int
	rsBars   int
	workers  int
	cacheTTL time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithWorkers bounds the batch worker pool.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithMaxBars bounds the per-symbol price window for the screeners.
func WithMaxBars(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBars = n
		}
	}
}

// WithWeeklyPolicy overrides the weekly-absent policy on both screeners.
func WithWeeklyPolicy(p screener.WeeklyPolicy) Option {
	return func(s *Service) {
		s.trend = screener.NewTrendScreener(p)
		s.rsi = screener.NewRSIScreener(p)
	}
}

// WithLogger sets the service logger.
func WithLogger(l log.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a scan service. The cache may be nil; batch summaries
// are then simply not cached.
func NewService(reader PriceReader, writer ResultWriter, cache Cache, opts ...Option) *Service {
	policy := screener.DefaultWeeklyPolicy()
	s := &Service{
		reader:   reader,
		writer:   writer,
		cache:    cache,
		logger:   log.DefaultLogger,
		trend:    screener.NewTrendScreener(policy),
		rsi:      screener.NewRSIScreener(policy),
		rating:   rsrating.NewEngine(),
		maxBars:  DefaultMaxBars,
		rsBars:   DefaultRSBars,
		workers:  DefaultWorkers,
		cacheTTL: DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanSymbol runs the per-symbol pipeline: fetch the bounded price window,
// resample weekly once, feed both screeners, and merge their outputs into
// one snapshot row. Returns (nil, nil) when the symbol has insufficient
// history; that is "no result", not an error.
func (s *Service) ScanSymbol(ctx context.Context, symbol string) (*models.IndicatorSnapshot, error) {
	bars, err := s.reader.PriceHistory(ctx, symbol, s.maxBars)
	if err != nil {
		return nil, fmt.Errorf("fetch price history for %s: %w", symbol, err)
	}
	if len(bars) < screener.MinDailyBars {
		return nil, nil
	}

	daily := indicators.NewPriceSeries(symbol, bars)
	if err := daily.Validate(); err != nil {
		return nil, fmt.Errorf("invalid price series for %s: %w", symbol, err)
	}
	weekly := daily.ResampleWeekly()

	snap := s.rsi.Evaluate(daily, weekly)
	trend := s.trend.Evaluate(daily, weekly)
	if snap == nil || trend == nil {
		return nil, nil
	}

	row := snapshotRow(snap, trend)
	return &row, nil
}

// snapshotRow merges both screener outputs into the persisted row shape.
func snapshotRow(snap *screener.Snapshot, trend *screener.TrendResult) models.IndicatorSnapshot {
	return models.IndicatorSnapshot{
		Symbol: snap.Symbol,
		Date:   snap.Date,

		RSI:         snap.RSI,
		RSI3:        snap.RSI3,
		SMA3RSI3:    snap.SMA3RSI3,
		SMA9RSI:     snap.SMA9RSI,
		WMA45RSI:    snap.WMA45RSI,
		EMA45RSI:    snap.EMA45RSI,
		RSI14Minus9: snap.RSI14Minus9,
		CFG:         snap.CFG,
		CFGSMA9:     snap.CFGSMA9,
		CFGSMA20:    snap.CFGSMA20,
		CFGEMA20:    snap.CFGEMA20,
		CFGEMA45:    snap.CFGEMA45,
		E45CFG:      snap.E45CFG,
		E20SMA3RSI3: snap.E20SMA3RSI3,
		TheNumber:   snap.TheNumber,
		TheNumberHL: snap.TheNumberHL,
		TheNumberLL: snap.TheNumberLL,
		SMA9Close:   snap.SMA9Close,

		RSIW:         snap.RSIW,
		RSI3W:        snap.RSI3W,
		SMA3RSI3W:    snap.SMA3RSI3W,
		SMA9RSIW:     snap.SMA9RSIW,
		WMA45RSIW:    snap.WMA45RSIW,
		EMA45RSIW:    snap.EMA45RSIW,
		RSI14Minus9W: snap.RSI14Minus9W,
		CFGW:         snap.CFGW,
		CFGSMA9W:     snap.CFGSMA9W,
		CFGSMA20W:    snap.CFGSMA20W,
		CFGEMA20W:    snap.CFGEMA20W,
		CFGEMA45W:    snap.CFGEMA45W,
		E45CFGW:      snap.E45CFGW,
		E20SMA3RSI3W: snap.E20SMA3RSI3W,
		TheNumberW:   snap.TheNumberW,
		TheNumberHLW: snap.TheNumberHLW,
		TheNumberLLW: snap.TheNumberLLW,
		SMA9CloseW:   snap.SMA9CloseW,

		CFGGt50:       snap.CFGGt50,
		CFGEMA45Gt50:  snap.CFGEMA45Gt50,
		CFGEMA20Gt50:  snap.CFGEMA20Gt50,
		CFGGt50W:      snap.CFGGt50W,
		CFGEMA45Gt50W: snap.CFGEMA45Gt50W,
		CFGEMA20Gt50W: snap.CFGEMA20Gt50W,

		SMA9GtTNDaily:      snap.SMA9GtTNDaily,
		SMA9GtTNWeekly:     snap.SMA9GtTNWeekly,
		RSILt80D:           snap.RSILt80D,
		RSILt80W:           snap.RSILt80W,
		SMA9RSILte75D:      snap.SMA9RSILte75D,
		SMA9RSILte75W:      snap.SMA9RSILte75W,
		EMA45RSILte70D:     snap.EMA45RSILte70D,
		EMA45RSILte70W:     snap.EMA45RSILte70W,
		RSI5570:            snap.RSI5570,
		RSIGtWMA45D:        snap.RSIGtWMA45D,
		RSIGtWMA45W:        snap.RSIGtWMA45W,
		SMA9RSIGtWMA45RSID: snap.SMA9RSIGtWMA45RSID,
		SMA9RSIGtWMA45RSIW: snap.SMA9RSIGtWMA45RSIW,
		StampDaily:         snap.StampDaily,
		StampWeekly:        snap.StampWeekly,

		Stamp:               snap.Stamp,
		Score:               snap.Score,
		FinalSignal:         snap.FinalSignal,
		TotalConditionCount: snap.TotalConditionCount,
		WeeklyDataAvailable: snap.WeeklyDataAvailable,

		TrendCloseGtSMA18D:  trend.CloseGtSMA18D,
		TrendCloseGtSMA9W:   trend.CloseGtSMA9W,
		TrendSMAAlignedD:    trend.SMAAlignedD,
		TrendSMAAlignedW:    trend.SMAAlignedW,
		TrendCCIGt100D:      trend.CCIGt100D,
		TrendEMA20CCIPosD:   trend.EMA20CCIPosD,
		TrendEMA20CCIPosW:   trend.EMA20CCIPosW,
		TrendAroonUpGt70D:   trend.AroonUpGt70D,
		TrendAroonDownLt30D: trend.AroonDownLt30D,
		TrendFinalSignal:    trend.FinalSignal,
	}
}
