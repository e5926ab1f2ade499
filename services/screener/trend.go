package screener

import (
	"time"

	"screener_backend/services/indicators"
)

// Trend screener thresholds.
const (
	trendCCIPeriod   = 14
	trendAroonPeriod = 25
	aroonUpFloor     = 70.0
	aroonDownCeil    = 30.0
	cciFloor         = 100.0
)

// TrendResult is the trend screener's boolean rule set for one symbol at
// one date. Like Snapshot, the field names are a fixed contract.
type TrendResult struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`

	CloseGtSMA18D  bool `json:"close_gt_sma18_d"`
	CloseGtSMA9W   bool `json:"close_gt_sma9_w"`
	SMAAlignedD    bool `json:"sma_aligned_d"`
	SMAAlignedW    bool `json:"sma_aligned_w"`
	CCIGt100D      bool `json:"cci_gt_100_d"`
	EMA20CCIPosD   bool `json:"ema20_cci_pos_d"`
	EMA20CCIPosW   bool `json:"ema20_cci_pos_w"`
	AroonUpGt70D   bool `json:"aroon_up_gt_70_d"`
	AroonDownLt30D bool `json:"aroon_down_lt_30_d"`

	FinalSignal         bool `json:"final_signal"`
	WeeklyDataAvailable bool `json:"weekly_data_available"`
}

// TrendScreener evaluates the trend-following rule set over SMA, CCI and
// Aroon on the daily and weekly horizons. A single stateless evaluation
// per snapshot; there is no internal state machine.
type TrendScreener struct {
	Weekly WeeklyPolicy
}

// NewTrendScreener creates a screener with the given weekly-absent policy.
func NewTrendScreener(policy WeeklyPolicy) *TrendScreener {
	return &TrendScreener{Weekly: policy}
}

// Evaluate runs the trend screener. Returns nil when the daily series is
// shorter than MinDailyBars.
func (ts *TrendScreener) Evaluate(daily, weekly *indicators.PriceSeries) *TrendResult {
	if daily.Len() < MinDailyBars {
		return nil
	}

	last := daily.Len() - 1
	closeD := daily.Close[last]
	sma4 := indicators.Latest(indicators.SMA(daily.Close, 4))
	sma9 := indicators.Latest(indicators.SMA(daily.Close, 9))
	sma18 := indicators.Latest(indicators.SMA(daily.Close, 18))

	cci := indicators.CCI(daily.High, daily.Low, daily.Close, trendCCIPeriod)
	ema20CCI := indicators.Latest(indicators.EMA(cci, 20))
	aroonUp, aroonDown := indicators.Aroon(daily.High, daily.Low, trendAroonPeriod)

	res := &TrendResult{
		Symbol: daily.Symbol,
		Date:   daily.Dates[last],

		CloseGtSMA18D:  gt(closeD, sma18),
		SMAAlignedD:    gt(sma4, sma9) && gt(sma9, sma18),
		CCIGt100D:      gt(indicators.Latest(cci), cciFloor),
		EMA20CCIPosD:   gt(ema20CCI, 0),
		AroonUpGt70D:   gt(indicators.Latest(aroonUp), aroonUpFloor),
		AroonDownLt30D: lt(indicators.Latest(aroonDown), aroonDownCeil),
	}

	weeklyOK := weekly != nil && weekly.Len() >= ts.Weekly.MinBars
	res.WeeklyDataAvailable = weeklyOK
	if weeklyOK {
		lastW := weekly.Len() - 1
		closeW := weekly.Close[lastW]
		sma4w := indicators.Latest(indicators.SMA(weekly.Close, 4))
		sma9w := indicators.Latest(indicators.SMA(weekly.Close, 9))
		sma18w := indicators.Latest(indicators.SMA(weekly.Close, 18))

		cciW := indicators.CCI(weekly.High, weekly.Low, weekly.Close, trendCCIPeriod)
		ema20CCIW := indicators.Latest(indicators.EMA(cciW, 20))

		res.CloseGtSMA9W = gt(closeW, sma9w)
		res.SMAAlignedW = gt(sma4w, sma9w) && gt(sma9w, sma18w)
		res.EMA20CCIPosW = gt(ema20CCIW, 0)
	} else if ts.Weekly.AssumeTrueWhenMissing {
		res.CloseGtSMA9W = true
		res.SMAAlignedW = true
		res.EMA20CCIPosW = true
	}

	res.FinalSignal = res.CloseGtSMA18D &&
		res.CloseGtSMA9W &&
		res.SMAAlignedD &&
		res.SMAAlignedW &&
		res.CCIGt100D &&
		res.EMA20CCIPosD &&
		res.EMA20CCIPosW &&
		res.AroonUpGt70D &&
		res.AroonDownLt30D

	return res
}
