package indicators

import (
	"fmt"
	"time"
)

// PriceBar is one daily (or weekly, after resampling) OHLCV bar.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds one symbol's ordered bars as parallel arrays sharing a
// single date index, so elementwise series math stays explicitly aligned.
type PriceSeries struct {
	Symbol string
	Dates  []time.Time
	Open   []float64
	High   []float64
	Low    []float64
	Close  []float64
	Volume []float64
}

// NewPriceSeries builds a PriceSeries from bars ordered ascending by date.
func NewPriceSeries(symbol string, bars []PriceBar) *PriceSeries {
	s := &PriceSeries{
		Symbol: symbol,
		Dates:  make([]time.Time, len(bars)),
		Open:   make([]float64, len(bars)),
		High:   make([]float64, len(bars)),
		Low:    make([]float64, len(bars)),
		Close:  make([]float64, len(bars)),
		Volume: make([]float64, len(bars)),
	}
	for i, b := range bars {
		s.Dates[i] = b.Date
		s.Open[i] = b.Open
		s.High[i] = b.High
		s.Low[i] = b.Low
		s.Close[i] = b.Close
		s.Volume[i] = b.Volume
	}
	return s
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	return len(s.Dates)
}

// Validate checks the parallel arrays are equal length and dates ascend.
func (s *PriceSeries) Validate() error {
	n := len(s.Dates)
	if len(s.Open) != n || len(s.High) != n || len(s.Low) != n ||
		len(s.Close) != n || len(s.Volume) != n {
		return fmt.Errorf("misaligned series for %s: dates=%d open=%d high=%d low=%d close=%d volume=%d",
			s.Symbol, n, len(s.Open), len(s.High), len(s.Low), len(s.Close), len(s.Volume))
	}
	for i := 1; i < n; i++ {
		if !s.Dates[i].After(s.Dates[i-1]) {
			return fmt.Errorf("series for %s not ascending at index %d (%s -> %s)",
				s.Symbol, i, s.Dates[i-1].Format("2006-01-02"), s.Dates[i].Format("2006-01-02"))
		}
	}
	return nil
}

// ResampleWeekly aggregates the daily series into weekly OHLCV bars grouped
// by ISO calendar week: open = first daily open, high = max, low = min,
// close = last daily close, volume = sum. Each weekly bar is dated at the
// last contributing daily bar; empty weeks are dropped, not zero-filled.
func (s *PriceSeries) ResampleWeekly() *PriceSeries {
	w := &PriceSeries{Symbol: s.Symbol}
	if s.Len() == 0 {
		return w
	}

	curYear, curWeek := s.Dates[0].ISOWeek()
	open, high, low := s.Open[0], s.High[0], s.Low[0]
	closePx, volume := s.Close[0], s.Volume[0]
	lastDate := s.Dates[0]

	flush := func() {
		w.Dates = append(w.Dates, lastDate)
		w.Open = append(w.Open, open)
		w.High = append(w.High, high)
		w.Low = append(w.Low, low)
		w.Close = append(w.Close, closePx)
		w.Volume = append(w.Volume, volume)
	}

	for i := 1; i < s.Len(); i++ {
		year, week := s.Dates[i].ISOWeek()
		if year != curYear || week != curWeek {
			flush()
			curYear, curWeek = year, week
			open, high, low = s.Open[i], s.High[i], s.Low[i]
			closePx, volume = s.Close[i], s.Volume[i]
			lastDate = s.Dates[i]
			continue
		}
		if s.High[i] > high {
			high = s.High[i]
		}
		if s.Low[i] < low {
			low = s.Low[i]
		}
		closePx = s.Close[i]
		volume += s.Volume[i]
		lastDate = s.Dates[i]
	}
	flush()
	return w
}
