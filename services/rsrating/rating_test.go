package rsrating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screener_backend/services/indicators"
)

var asOf = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

// dailySeries builds one bar per calendar day for the given number of days
// ending at asOf, with close = start * growth^i.
func dailySeries(symbol string, days int, start, growth float64) *indicators.PriceSeries {
	bars := make([]indicators.PriceBar, days)
	first := asOf.AddDate(0, 0, -(days - 1))
	px := start
	for i := 0; i < days; i++ {
		bars[i] = indicators.PriceBar{
			Date: first.AddDate(0, 0, i),
			Open: px, High: px, Low: px, Close: px, Volume: 100,
		}
		px *= growth
	}
	return indicators.NewPriceSeries(symbol, bars)
}

func recordFor(t *testing.T, records []*Record, symbol string) *Record {
	t.Helper()
	for _, r := range records {
		if r.Symbol == symbol {
			return r
		}
	}
	t.Fatalf("no record for %s", symbol)
	return nil
}

func TestComputeOrdersRatingsByStrength(t *testing.T) {
	universe := map[string]*indicators.PriceSeries{
		"FAST": dailySeries("FAST", 400, 100, 1.003),
		"SLOW": dailySeries("SLOW", 400, 100, 1.001),
		"FLAT": dailySeries("FLAT", 400, 100, 1.0),
		"DOWN": dailySeries("DOWN", 400, 100, 0.999),
	}

	records := NewEngine().Compute(asOf, universe)
	require.Len(t, records, 4)

	fast := recordFor(t, records, "FAST")
	slow := recordFor(t, records, "SLOW")
	flat := recordFor(t, records, "FLAT")
	down := recordFor(t, records, "DOWN")

	for _, r := range records {
		require.NotNil(t, r.RSRaw)
		require.NotNil(t, r.RSRating)
		assert.GreaterOrEqual(t, *r.RSRating, 1)
		assert.LessOrEqual(t, *r.RSRating, 99)
	}

	assert.Greater(t, *fast.RSRating, *slow.RSRating)
	assert.Greater(t, *slow.RSRating, *flat.RSRating)
	assert.Greater(t, *flat.RSRating, *down.RSRating)

	assert.InDelta(t, 0.0, *flat.Return3M, 1e-9)
	assert.Greater(t, *fast.Return12M, *fast.Return3M)
}

func TestComputeCompositeWeights(t *testing.T) {
	universe := map[string]*indicators.PriceSeries{
		"AAA": dailySeries("AAA", 400, 100, 1.002),
	}

	rec := NewEngine().Compute(asOf, universe)[0]
	require.NotNil(t, rec.Return3M)
	require.NotNil(t, rec.Return12M)
	require.NotNil(t, rec.RSRaw)

	exp := 0.4**rec.Return3M + 0.2**rec.Return6M + 0.2**rec.Return9M + 0.2**rec.Return12M
	assert.InDelta(t, exp, *rec.RSRaw, 1e-12)
}

func TestComputeRenormalizesMissingWindows(t *testing.T) {
	// 200 days of history: 3M and 6M windows resolve, 9M and 12M do not.
	universe := map[string]*indicators.PriceSeries{
		"NEW": dailySeries("NEW", 200, 100, 1.002),
	}

	rec := NewEngine().Compute(asOf, universe)[0]
	require.NotNil(t, rec.Return3M)
	require.NotNil(t, rec.Return6M)
	assert.Nil(t, rec.Return9M)
	assert.Nil(t, rec.Return12M)
	assert.Nil(t, rec.Rank9M)

	require.NotNil(t, rec.RSRaw)
	exp := (0.4**rec.Return3M + 0.2**rec.Return6M) / 0.6
	assert.InDelta(t, exp, *rec.RSRaw, 1e-12)
}

func TestComputeExcludesUnrankableSymbols(t *testing.T) {
	universe := map[string]*indicators.PriceSeries{
		"GOOD": dailySeries("GOOD", 400, 100, 1.002),
		"BARE": dailySeries("BARE", 3, 100, 1.0),
	}

	records := NewEngine().Compute(asOf, universe)
	require.Len(t, records, 2)

	bare := recordFor(t, records, "BARE")
	assert.Nil(t, bare.RSRaw)
	assert.Nil(t, bare.RSRating)

	good := recordFor(t, records, "GOOD")
	require.NotNil(t, good.RSRating)
}

func TestComputeTiesShareRank(t *testing.T) {
	universe := map[string]*indicators.PriceSeries{
		"TWIN1": dailySeries("TWIN1", 400, 100, 1.002),
		"TWIN2": dailySeries("TWIN2", 400, 100, 1.002),
		"OTHER": dailySeries("OTHER", 400, 100, 1.004),
	}

	records := NewEngine().Compute(asOf, universe)
	t1 := recordFor(t, records, "TWIN1")
	t2 := recordFor(t, records, "TWIN2")

	require.NotNil(t, t1.RSRating)
	require.NotNil(t, t2.RSRating)
	assert.Equal(t, *t1.RSRating, *t2.RSRating)
	assert.Equal(t, *t1.Rank3M, *t2.Rank3M)
}

func TestNearestPriorBarTolerance(t *testing.T) {
	s := dailySeries("AAA", 400, 100, 1.001)

	idx, ok := nearestPriorBar(s, asOf)
	require.True(t, ok)
	assert.Equal(t, s.Len()-1, idx)

	// Within tolerance of the last bar.
	_, ok = nearestPriorBar(s, asOf.AddDate(0, 0, ToleranceDays))
	assert.True(t, ok)

	// Beyond it.
	_, ok = nearestPriorBar(s, asOf.AddDate(0, 0, ToleranceDays+1))
	assert.False(t, ok)

	// Before the first bar.
	_, ok = nearestPriorBar(s, asOf.AddDate(-2, 0, 0))
	assert.False(t, ok)
}

func TestTrailingReturnStaleSeriesDropsWindow(t *testing.T) {
	// Last bar 30 days before asOf: the end anchor misses tolerance, so
	// every window is unavailable.
	stale := dailySeries("OLD", 400, 100, 1.001)
	cut := stale.Len() - 30
	stale.Dates = stale.Dates[:cut]
	stale.Open = stale.Open[:cut]
	stale.High = stale.High[:cut]
	stale.Low = stale.Low[:cut]
	stale.Close = stale.Close[:cut]
	stale.Volume = stale.Volume[:cut]

	_, ok := trailingReturn(stale, asOf, 3)
	assert.False(t, ok)

	rec := NewEngine().Compute(asOf, map[string]*indicators.PriceSeries{"OLD": stale})[0]
	assert.Nil(t, rec.RSRaw)
}
