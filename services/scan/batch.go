package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"screener_backend/models"
	"screener_backend/services/indicators"
	"screener_backend/services/screener"
)

// BatchSummary describes one completed batch run; it is the document
// cached under ScanSummaryKey for the current trading day.
type BatchSummary struct {
	Date        time.Time     `json:"date" bson:"date"`
	Scanned     int           `json:"scanned" bson:"scanned"`
	Snapshots   int           `json:"snapshots" bson:"snapshots"`
	Skipped     int           `json:"skipped" bson:"skipped"`
	Failed      int           `json:"failed" bson:"failed"`
	PassedFinal int           `json:"passed_final" bson:"passed_final"`
	Duration    time.Duration `json:"duration" bson:"duration"`
	GeneratedAt time.Time     `json:"generated_at" bson:"generated_at"`
}

// RunBatch runs the per-symbol pipeline across the whole universe with a
// bounded worker pool, upserts the resulting snapshot rows, and caches a
// run summary. A failure on one symbol is logged and skipped; it never
// aborts sibling symbols or the batch.
func (s *Service) RunBatch(ctx context.Context) (*BatchSummary, error) {
	start := time.Now()

	symbols, err := s.reader.ActiveSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch active symbols: %w", err)
	}
	s.logger.Info().Int("symbols", len(symbols)).Msg("Starting screener batch")

	var (
		mu        sync.Mutex
		rows      []models.IndicatorSnapshot
		skipped   int
		failed    int
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, s.workers)
	)

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			row, err := s.ScanSymbol(ctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				failed++
				s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Symbol scan failed, skipping")
			case row == nil:
				skipped++
			default:
				rows = append(rows, *row)
			}
		}(symbol)
	}
	wg.Wait()

	if len(rows) > 0 {
		if err := s.writer.UpsertSnapshots(ctx, rows); err != nil {
			return nil, fmt.Errorf("persist snapshots: %w", err)
		}
	}

	passed := 0
	for _, r := range rows {
		if r.FinalSignal {
			passed++
		}
	}

	summary := &BatchSummary{
		Scanned:     len(symbols),
		Snapshots:   len(rows),
		Skipped:     skipped,
		Failed:      failed,
		PassedFinal: passed,
		Duration:    time.Since(start),
		GeneratedAt: time.Now(),
	}
	// Stale symbols carry older as-of dates, so the summary is stamped
	// with the latest trading date seen across the batch.
	for _, r := range rows {
		if r.Date.After(summary.Date) {
			summary.Date = r.Date
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, ScanSummaryKey, summary, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache batch summary")
		}
	}

	s.logger.Info().
		Int("snapshots", len(rows)).
		Int("skipped", skipped).
		Int("failed", failed).
		Dur("duration", summary.Duration).
		Msg("Screener batch completed")

	return summary, nil
}

// RunRSRatings computes the cross-sectional RS ratings for date and
// upserts one RSRating row per rankable symbol. Fetching the universe
// history happens concurrently, but the percentile pass itself is a single
// in-memory barrier once every symbol's returns are materialized.
func (s *Service) RunRSRatings(ctx context.Context, date time.Time) (int, error) {
	symbols, err := s.reader.ActiveSymbols(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch active symbols: %w", err)
	}
	s.logger.Info().Int("symbols", len(symbols)).Str("date", date.Format("2006-01-02")).Msg("Starting RS rating pass")

	var (
		mu        sync.Mutex
		universe  = make(map[string]*indicators.PriceSeries, len(symbols))
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, s.workers)
	)

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			bars, err := s.reader.PriceHistory(ctx, symbol, s.rsBars)
			if err != nil {
				s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Price fetch failed, excluding from RS pass")
				return
			}
			if len(bars) == 0 {
				return
			}
			series := indicators.NewPriceSeries(symbol, bars)
			if err := series.Validate(); err != nil {
				s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Invalid series, excluding from RS pass")
				return
			}
			mu.Lock()
			universe[symbol] = series
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	records := s.rating.Compute(date, universe)

	rows := make([]models.RSRating, 0, len(records))
	for _, rec := range records {
		if rec.RSRaw == nil {
			// No return window at all: excluded from ranking, nothing to persist.
			continue
		}
		rows = append(rows, models.RSRating{
			Symbol:    rec.Symbol,
			Date:      rec.Date,
			Return3M:  rec.Return3M,
			Return6M:  rec.Return6M,
			Return9M:  rec.Return9M,
			Return12M: rec.Return12M,
			Rank3M:    rec.Rank3M,
			Rank6M:    rec.Rank6M,
			Rank9M:    rec.Rank9M,
			Rank12M:   rec.Rank12M,
			RSRaw:     rec.RSRaw,
			RSRating:  rec.RSRating,
		})
	}
	if len(rows) > 0 {
		if err := s.writer.UpsertRatings(ctx, rows); err != nil {
			return 0, fmt.Errorf("persist rs ratings: %w", err)
		}
	}

	s.logger.Info().Int("records", len(rows)).Msg("RS rating pass completed")
	return len(rows), nil
}

// LatestSummary returns the most recent cached batch summary, if any.
func (s *Service) LatestSummary(ctx context.Context) (*BatchSummary, bool, error) {
	if s.cache == nil {
		return nil, false, nil
	}
	var summary BatchSummary
	found, err := s.cache.Get(ctx, ScanSummaryKey, &summary)
	if err != nil || !found {
		return nil, false, err
	}
	return &summary, true, nil
}

// MinBarsForSnapshot is re-exported for callers that validate inputs
// before invoking the pipeline.
const MinBarsForSnapshot = screener.MinDailyBars
