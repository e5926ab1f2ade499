package rsrating

import (
	"math"
	"sort"
	"time"

	"screener_backend/services/indicators"
)

// ToleranceDays is how far back from an exact calendar offset the engine
// will accept the nearest prior bar, so month-boundary holidays and
// weekends do not drop a return window.
const ToleranceDays = 5

// Lookback windows in months and their composite weights. When a symbol
// lacks history for some windows the remaining weights are renormalized to
// sum to 1 before the weighted sum.
var (
	periodsMonths = []int{3, 6, 9, 12}
	baseWeights   = map[int]float64{3: 0.4, 6: 0.2, 9: 0.2, 12: 0.2}
)

// Record is the per-symbol, per-date RS rating output. Nil fields mean the
// underlying window was unavailable. RSRating is nil only when every
// return window is missing, in which case the symbol is excluded from the
// cross-sectional ranking for that date.
type Record struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`

	Return3M  *float64 `json:"return_3m"`
	Return6M  *float64 `json:"return_6m"`
	Return9M  *float64 `json:"return_9m"`
	Return12M *float64 `json:"return_12m"`

	Rank3M  *int `json:"rank_3m"`
	Rank6M  *int `json:"rank_6m"`
	Rank9M  *int `json:"rank_9m"`
	Rank12M *int `json:"rank_12m"`

	RSRaw    *float64 `json:"rs_raw"`
	RSRating *int     `json:"rs_rating"`
}

// Engine computes cross-sectional RS ratings. Ranking is a barrier
// operation: every symbol's returns for the date must be materialized
// before the percentile pass runs, so Compute takes the whole universe.
type Engine struct{}

// NewEngine creates an RS rating engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compute calculates trailing returns, the weighted composite, and the
// cross-sectional percentile ranks for every symbol in the universe as of
// date. Symbols with no available return window get a Record with nil
// RSRaw and are excluded from ranking. A universe with zero rankable
// symbols yields records without ratings.
func (e *Engine) Compute(date time.Time, universe map[string]*indicators.PriceSeries) []*Record {
	records := make([]*Record, 0, len(universe))

	for symbol, series := range universe {
		rec := &Record{Symbol: symbol, Date: date}

		returns := make(map[int]float64)
		for _, months := range periodsMonths {
			r, ok := trailingReturn(series, date, months)
			if !ok {
				continue
			}
			returns[months] = r
		}
		rec.Return3M = refOrNil(returns, 3)
		rec.Return6M = refOrNil(returns, 6)
		rec.Return9M = refOrNil(returns, 9)
		rec.Return12M = refOrNil(returns, 12)

		if len(returns) > 0 {
			weightSum := 0.0
			for months := range returns {
				weightSum += baseWeights[months]
			}
			composite := 0.0
			for months, r := range returns {
				composite += r * baseWeights[months] / weightSum
			}
			rec.RSRaw = &composite
		}

		records = append(records, rec)
	}

	// Per-period ranks for display, then the final composite rating.
	assignRanks(records,
		func(r *Record) *float64 { return r.Return3M },
		func(r *Record, rank int) { r.Rank3M = &rank })
	assignRanks(records,
		func(r *Record) *float64 { return r.Return6M },
		func(r *Record, rank int) { r.Rank6M = &rank })
	assignRanks(records,
		func(r *Record) *float64 { return r.Return9M },
		func(r *Record, rank int) { r.Rank9M = &rank })
	assignRanks(records,
		func(r *Record) *float64 { return r.Return12M },
		func(r *Record, rank int) { r.Rank12M = &rank })
	assignRanks(records,
		func(r *Record) *float64 { return r.RSRaw },
		func(r *Record, rank int) { r.RSRating = &rank })

	return records
}

// trailingReturn computes close(date)/close(date - months) - 1 using the
// nearest prior bar within ToleranceDays at each endpoint.
func trailingReturn(s *indicators.PriceSeries, date time.Time, months int) (float64, bool) {
	endIdx, ok := nearestPriorBar(s, date)
	if !ok {
		return 0, false
	}
	target := date.AddDate(0, -months, 0)
	startIdx, ok := nearestPriorBar(s, target)
	if !ok {
		return 0, false
	}

	start := s.Close[startIdx]
	end := s.Close[endIdx]
	if start == 0 || !indicators.IsDefined(start) || !indicators.IsDefined(end) {
		return 0, false
	}
	return end/start - 1.0, true
}

// nearestPriorBar finds the latest bar dated on or before target and within
// ToleranceDays of it. The date index is ascending, so binary search.
func nearestPriorBar(s *indicators.PriceSeries, target time.Time) (int, bool) {
	n := s.Len()
	if n == 0 {
		return 0, false
	}
	idx := sort.Search(n, func(i int) bool {
		return s.Dates[i].After(target)
	}) - 1
	if idx < 0 {
		return 0, false
	}
	if target.Sub(s.Dates[idx]) > ToleranceDays*24*time.Hour {
		return 0, false
	}
	return idx, true
}

// assignRanks percentile-ranks one field across all records holding a
// value for it. Ties share the mean of their ordinal positions, so equal
// inputs always produce equal ranks. The 1-99 clip keeps the published
// rating inside the conventional RS scale.
func assignRanks(records []*Record, value func(*Record) *float64, set func(*Record, int)) {
	type entry struct {
		rec *Record
		val float64
	}
	entries := make([]entry, 0, len(records))
	for _, r := range records {
		if v := value(r); v != nil {
			entries = append(entries, entry{rec: r, val: *v})
		}
	}
	if len(entries) == 0 {
		return
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].val < entries[j].val
	})

	n := float64(len(entries))
	i := 0
	for i < len(entries) {
		j := i
		for j+1 < len(entries) && entries[j+1].val == entries[i].val {
			j++
		}
		// Average ordinal position of the tie group, 1-based.
		avgRank := float64(i+j+2) / 2.0
		rank := int(math.Round(avgRank / n * 100))
		if rank > 99 {
			rank = 99
		}
		if rank < 1 {
			rank = 1
		}
		for k := i; k <= j; k++ {
			set(entries[k].rec, rank)
		}
		i = j + 1
	}
}

func refOrNil(returns map[int]float64, months int) *float64 {
	if v, ok := returns[months]; ok {
		return &v
	}
	return nil
}
