package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screener_backend/models"
	"screener_backend/services/indicators"
	"screener_backend/services/scan"
)

// ctxAwarePriceSource fails every read when its context is already
// canceled, the way a real database driver would.
type ctxAwarePriceSource struct {
	bars []indicators.PriceBar
}

func (s *ctxAwarePriceSource) PriceHistory(ctx context.Context, _ string, maxBars int) ([]indicators.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bars := s.bars
	if len(bars) > maxBars {
		bars = bars[len(bars)-maxBars:]
	}
	return bars, nil
}

func (s *ctxAwarePriceSource) ActiveSymbols(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []string{"AAA"}, nil
}

type recordingWriter struct {
	mu        sync.Mutex
	snapshots int
}

func (w *recordingWriter) UpsertSnapshots(_ context.Context, rows []models.IndicatorSnapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.snapshots += len(rows)
	return nil
}

func (w *recordingWriter) UpsertRatings(context.Context, []models.RSRating) error {
	return nil
}

func steadyWeekdayBars(n int) []indicators.PriceBar {
	bars := make([]indicators.PriceBar, 0, n)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	px := 100.0
	for len(bars) < n {
		if date.Weekday() != time.Saturday && date.Weekday() != time.Sunday {
			px *= 1.002
			bars = append(bars, indicators.PriceBar{
				Date: date, Open: px, High: px * 1.01, Low: px * 0.99, Close: px, Volume: 1000,
			})
		}
		date = date.AddDate(0, 0, 1)
	}
	return bars
}

// A client that disconnects right after triggering a scan must not
// cancel the batch mid-write.
func TestRunScanSurvivesClientDisconnect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	writer := &recordingWriter{}
	svc := scan.NewService(&ctxAwarePriceSource{bars: steadyWeekdayBars(280)}, writer, nil)
	sc := &ScreenerController{scanner: svc}

	router := gin.New()
	router.POST("/scan", sc.RunScan)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/scan", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, writer.snapshots)
}
