package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/phuslu/log"
	"gorm.io/gorm"

	"screener_backend/models"
	"screener_backend/services/scan"
)

// Scheduler manages scheduled jobs
type Scheduler struct {
	cron    *gocron.Scheduler
	db      *gorm.DB
	scanner *scan.Service
	logger  log.Logger
}

// NewScheduler creates a new scheduler instance
func NewScheduler(db *gorm.DB, scanner *scan.Service) *Scheduler {
	return &Scheduler{
		cron:    gocron.NewScheduler(time.UTC),
		db:      db,
		scanner: scanner,
		logger:  log.DefaultLogger,
	}
}

// Start starts all scheduled jobs
func (s *Scheduler) Start() {
	s.logger.Info().Msg("Starting scheduler")

	// Run the screener batch daily at 16:00 (after market close)
	s.cron.Every(1).Day().At("16:00").Do(func() {
		if isTradingDay() {
			s.runDailyScan()
		}
	})

	// Run the RS rating pass daily at 16:30, once snapshots are in
	s.cron.Every(1).Day().At("16:30").Do(func() {
		if isTradingDay() {
			s.runRSRatings()
		}
	})

	// Cleanup old data weekly on Sunday at 01:00
	s.cron.Every(1).Week().Sunday().At("01:00").Do(func() {
		s.cleanupOldData()
	})

	s.cron.StartAsync()
	s.logger.Info().Msg("Scheduler started successfully")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Scheduler stopped")
}

// runDailyScan evaluates every active symbol and persists fresh snapshots
func (s *Scheduler) runDailyScan() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	summary, err := s.scanner.RunBatch(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Daily screener batch failed")
		return
	}
	s.logger.Info().
		Int("snapshots", summary.Snapshots).
		Int("passed_final", summary.PassedFinal).
		Msg("Daily screener batch finished")
}

// runRSRatings recomputes cross-sectional RS ratings for today
func (s *Scheduler) runRSRatings() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	ranked, err := s.scanner.RunRSRatings(ctx, time.Now())
	if err != nil {
		s.logger.Error().Err(err).Msg("Daily RS rating pass failed")
		return
	}
	s.logger.Info().Int("ranked", ranked).Msg("Daily RS rating pass finished")
}

// cleanupOldData removes old data to save storage
func (s *Scheduler) cleanupOldData() {
	s.logger.Info().Msg("Cleaning up old data")

	// Delete price bars older than 5 years
	fiveYearsAgo := time.Now().AddDate(-5, 0, 0)
	if err := s.db.Where("date < ?", fiveYearsAgo).Delete(&models.StockPrice{}).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to clean up old prices")
	}

	// Keep the last 6 months of snapshots and ratings
	sixMonthsAgo := time.Now().AddDate(0, -6, 0)
	if err := s.db.Where("date < ?", sixMonthsAgo).Delete(&models.IndicatorSnapshot{}).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to clean up old snapshots")
	}
	if err := s.db.Where("date < ?", sixMonthsAgo).Delete(&models.RSRating{}).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to clean up old rs ratings")
	}

	s.logger.Info().Msg("Cleanup completed")
}

// isTradingDay reports whether today is a regular weekday session
func isTradingDay() bool {
	wd := time.Now().Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
