package screener

import (
	"time"

	"screener_backend/services/indicators"
)

// Screener data requirements.
const (
	// MinDailyBars is the minimum daily history before either screener
	// produces a snapshot; shorter series yield no result, not an error.
	MinDailyBars = 50

	// TotalConditions is the size of the fixed RSI-screener condition set.
	TotalConditions = 15
)

// WeeklyPolicy names the behavior for weekly conditions when the weekly
// series is too short. The reference behavior treats absent weekly data as
// vacuously passing; keeping it a policy makes that choice visible instead
// of a silent default buried in the rule code.
type WeeklyPolicy struct {
	MinBars               int
	AssumeTrueWhenMissing bool
}

// DefaultWeeklyPolicy matches the reference behavior.
func DefaultWeeklyPolicy() WeeklyPolicy {
	return WeeklyPolicy{MinBars: 10, AssumeTrueWhenMissing: true}
}

// Snapshot is the per-symbol, per-date output of the RSI screener plus the
// composite indicator scalars at the latest bar. Field names are consumed
// by downstream formatting and filter code and must not change. Scalars
// are nil when the underlying value is undefined for the input window.
type Snapshot struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`

	// Daily composite scalars.
	RSI         *float64 `json:"rsi"`
	RSI3        *float64 `json:"rsi_3"`
	SMA3RSI3    *float64 `json:"sma3_rsi3"`
	SMA9RSI     *float64 `json:"sma9_rsi"`
	WMA45RSI    *float64 `json:"wma45_rsi"`
	EMA45RSI    *float64 `json:"ema45_rsi"`
	RSI14Minus9 *float64 `json:"rsi_14_minus_9"`
	CFG         *float64 `json:"cfg"`
	CFGSMA9     *float64 `json:"cfg_sma9"`
	CFGSMA20    *float64 `json:"cfg_sma20"`
	CFGEMA20    *float64 `json:"cfg_ema20"`
	CFGEMA45    *float64 `json:"cfg_ema45"`
	E45CFG      *float64 `json:"e45_cfg"`
	E20SMA3RSI3 *float64 `json:"e20_sma3_rsi3"`
	TheNumber   *float64 `json:"the_number"`
	TheNumberHL *float64 `json:"the_number_hl"`
	TheNumberLL *float64 `json:"the_number_ll"`
	SMA9Close   *float64 `json:"sma9_close"`

	// Weekly composite scalars.
	RSIW         *float64 `json:"rsi_w"`
	RSI3W        *float64 `json:"rsi_3_w"`
	SMA3RSI3W    *float64 `json:"sma3_rsi3_w"`
	SMA9RSIW     *float64 `json:"sma9_rsi_w"`
	WMA45RSIW    *float64 `json:"wma45_rsi_w"`
	EMA45RSIW    *float64 `json:"ema45_rsi_w"`
	RSI14Minus9W *float64 `json:"rsi_14_minus_9_w"`
	CFGW         *float64 `json:"cfg_w"`
	CFGSMA9W     *float64 `json:"cfg_sma9_w"`
	CFGSMA20W    *float64 `json:"cfg_sma20_w"`
	CFGEMA20W    *float64 `json:"cfg_ema20_w"`
	CFGEMA45W    *float64 `json:"cfg_ema45_w"`
	E45CFGW      *float64 `json:"e45_cfg_w"`
	E20SMA3RSI3W *float64 `json:"e20_sma3_rsi3_w"`
	TheNumberW   *float64 `json:"the_number_w"`
	TheNumberHLW *float64 `json:"the_number_hl_w"`
	TheNumberLLW *float64 `json:"the_number_ll_w"`
	SMA9CloseW   *float64 `json:"sma9_close_w"`

	// CFG booleans.
	CFGGt50       bool `json:"cfg_gt_50"`
	CFGEMA45Gt50  bool `json:"cfg_ema45_gt_50"`
	CFGEMA20Gt50  bool `json:"cfg_ema20_gt_50"`
	CFGGt50W      bool `json:"cfg_gt_50_w"`
	CFGEMA45Gt50W bool `json:"cfg_ema45_gt_50_w"`
	CFGEMA20Gt50W bool `json:"cfg_ema20_gt_50_w"`

	// The fixed 15-condition set.
	SMA9GtTNDaily      bool `json:"sma9_gt_tn_daily"`
	SMA9GtTNWeekly     bool `json:"sma9_gt_tn_weekly"`
	RSILt80D           bool `json:"rsi_lt_80_d"`
	RSILt80W           bool `json:"rsi_lt_80_w"`
	SMA9RSILte75D      bool `json:"sma9_rsi_lte_75_d"`
	SMA9RSILte75W      bool `json:"sma9_rsi_lte_75_w"`
	EMA45RSILte70D     bool `json:"ema45_rsi_lte_70_d"`
	EMA45RSILte70W     bool `json:"ema45_rsi_lte_70_w"`
	RSI5570            bool `json:"rsi_55_70"`
	RSIGtWMA45D        bool `json:"rsi_gt_wma45_d"`
	RSIGtWMA45W        bool `json:"rsi_gt_wma45_w"`
	SMA9RSIGtWMA45RSID bool `json:"sma9rsi_gt_wma45rsi_d"`
	SMA9RSIGtWMA45RSIW bool `json:"sma9rsi_gt_wma45rsi_w"`
	StampDaily         bool `json:"stamp_daily"`
	StampWeekly        bool `json:"stamp_weekly"`

	Stamp               bool `json:"stamp"`
	Score               int  `json:"score"`
	FinalSignal         bool `json:"final_signal"`
	TotalConditionCount int  `json:"total_conditions"`
	WeeklyDataAvailable bool `json:"weekly_data_available"`
}

// scalar converts a series value into a rounded nullable snapshot field.
func scalar(v float64) *float64 {
	if !indicators.IsDefined(v) {
		return nil
	}
	r := indicators.Round2(v)
	return &r
}

// gt is a fail-closed comparison: unknown operands never pass.
func gt(a, b float64) bool {
	return indicators.IsDefined(a) && indicators.IsDefined(b) && a > b
}

func lt(a, b float64) bool {
	return indicators.IsDefined(a) && indicators.IsDefined(b) && a < b
}

func lte(a, b float64) bool {
	return indicators.IsDefined(a) && indicators.IsDefined(b) && a <= b
}

func between(v, lo, hi float64) bool {
	return indicators.IsDefined(v) && v >= lo && v <= hi
}
