package models

import (
	"time"

	"gorm.io/gorm"
)

// IndicatorSnapshot is one persisted screener row per (symbol, date).
// Column names mirror the snapshot JSON contract exactly: downstream
// formatting and filter code selects on these literal names. Nullable
// scalar columns mean the value was undefined for the input window.
type IndicatorSnapshot struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	Symbol string    `gorm:"column:symbol;uniqueIndex:idx_snapshot_symbol_date;not null" json:"symbol"`
	Date   time.Time `gorm:"column:date;uniqueIndex:idx_snapshot_symbol_date;not null" json:"date"`

	// Daily composite scalars.
	RSI         *float64 `gorm:"column:rsi" json:"rsi"`
	RSI3        *float64 `gorm:"column:rsi_3" json:"rsi_3"`
	SMA3RSI3    *float64 `gorm:"column:sma3_rsi3" json:"sma3_rsi3"`
	SMA9RSI     *float64 `gorm:"column:sma9_rsi" json:"sma9_rsi"`
	WMA45RSI    *float64 `gorm:"column:wma45_rsi" json:"wma45_rsi"`
	EMA45RSI    *float64 `gorm:"column:ema45_rsi" json:"ema45_rsi"`
	RSI14Minus9 *float64 `gorm:"column:rsi_14_minus_9" json:"rsi_14_minus_9"`
	CFG         *float64 `gorm:"column:cfg" json:"cfg"`
	CFGSMA9     *float64 `gorm:"column:cfg_sma9" json:"cfg_sma9"`
	CFGSMA20    *float64 `gorm:"column:cfg_sma20" json:"cfg_sma20"`
	CFGEMA20    *float64 `gorm:"column:cfg_ema20" json:"cfg_ema20"`
	CFGEMA45    *float64 `gorm:"column:cfg_ema45" json:"cfg_ema45"`
	E45CFG      *float64 `gorm:"column:e45_cfg" json:"e45_cfg"`
	E20SMA3RSI3 *float64 `gorm:"column:e20_sma3_rsi3" json:"e20_sma3_rsi3"`
	TheNumber   *float64 `gorm:"column:the_number" json:"the_number"`
	TheNumberHL *float64 `gorm:"column:the_number_hl" json:"the_number_hl"`
	TheNumberLL *float64 `gorm:"column:the_number_ll" json:"the_number_ll"`
	SMA9Close   *float64 `gorm:"column:sma9_close" json:"sma9_close"`

	// Weekly composite scalars.
	RSIW         *float64 `gorm:"column:rsi_w" json:"rsi_w"`
	RSI3W        *float64 `gorm:"column:rsi_3_w" json:"rsi_3_w"`
	SMA3RSI3W    *float64 `gorm:"column:sma3_rsi3_w" json:"sma3_rsi3_w"`
	SMA9RSIW     *float64 `gorm:"column:sma9_rsi_w" json:"sma9_rsi_w"`
	WMA45RSIW    *float64 `gorm:"column:wma45_rsi_w" json:"wma45_rsi_w"`
	EMA45RSIW    *float64 `gorm:"column:ema45_rsi_w" json:"ema45_rsi_w"`
	RSI14Minus9W *float64 `gorm:"column:rsi_14_minus_9_w" json:"rsi_14_minus_9_w"`
	CFGW         *float64 `gorm:"column:cfg_w" json:"cfg_w"`
	CFGSMA9W     *float64 `gorm:"column:cfg_sma9_w" json:"cfg_sma9_w"`
	CFGSMA20W    *float64 `gorm:"column:cfg_sma20_w" json:"cfg_sma20_w"`
	CFGEMA20W    *float64 `gorm:"column:cfg_ema20_w" json:"cfg_ema20_w"`
	CFGEMA45W    *float64 `gorm:"column:cfg_ema45_w" json:"cfg_ema45_w"`
	E45CFGW      *float64 `gorm:"column:e45_cfg_w" json:"e45_cfg_w"`
	E20SMA3RSI3W *float64 `gorm:"column:e20_sma3_rsi3_w" json:"e20_sma3_rsi3_w"`
	TheNumberW   *float64 `gorm:"column:the_number_w" json:"the_number_w"`
	TheNumberHLW *float64 `gorm:"column:the_number_hl_w" json:"the_number_hl_w"`
	TheNumberLLW *float64 `gorm:"column:the_number_ll_w" json:"the_number_ll_w"`
	SMA9CloseW   *float64 `gorm:"column:sma9_close_w" json:"sma9_close_w"`

	// CFG booleans.
	CFGGt50       bool `gorm:"column:cfg_gt_50" json:"cfg_gt_50"`
	CFGEMA45Gt50  bool `gorm:"column:cfg_ema45_gt_50" json:"cfg_ema45_gt_50"`
	CFGEMA20Gt50  bool `gorm:"column:cfg_ema20_gt_50" json:"cfg_ema20_gt_50"`
	CFGGt50W      bool `gorm:"column:cfg_gt_50_w" json:"cfg_gt_50_w"`
	CFGEMA45Gt50W bool `gorm:"column:cfg_ema45_gt_50_w" json:"cfg_ema45_gt_50_w"`
	CFGEMA20Gt50W bool `gorm:"column:cfg_ema20_gt_50_w" json:"cfg_ema20_gt_50_w"`

	// The fixed 15-condition RSI screener set.
	SMA9GtTNDaily      bool `gorm:"column:sma9_gt_tn_daily" json:"sma9_gt_tn_daily"`
	SMA9GtTNWeekly     bool `gorm:"column:sma9_gt_tn_weekly" json:"sma9_gt_tn_weekly"`
	RSILt80D           bool `gorm:"column:rsi_lt_80_d" json:"rsi_lt_80_d"`
	RSILt80W           bool `gorm:"column:rsi_lt_80_w" json:"rsi_lt_80_w"`
	SMA9RSILte75D      bool `gorm:"column:sma9_rsi_lte_75_d" json:"sma9_rsi_lte_75_d"`
	SMA9RSILte75W      bool `gorm:"column:sma9_rsi_lte_75_w" json:"sma9_rsi_lte_75_w"`
	EMA45RSILte70D     bool `gorm:"column:ema45_rsi_lte_70_d" json:"ema45_rsi_lte_70_d"`
	EMA45RSILte70W     bool `gorm:"column:ema45_rsi_lte_70_w" json:"ema45_rsi_lte_70_w"`
	RSI5570            bool `gorm:"column:rsi_55_70" json:"rsi_55_70"`
	RSIGtWMA45D        bool `gorm:"column:rsi_gt_wma45_d" json:"rsi_gt_wma45_d"`
	RSIGtWMA45W        bool `gorm:"column:rsi_gt_wma45_w" json:"rsi_gt_wma45_w"`
	SMA9RSIGtWMA45RSID bool `gorm:"column:sma9rsi_gt_wma45rsi_d" json:"sma9rsi_gt_wma45rsi_d"`
	SMA9RSIGtWMA45RSIW bool `gorm:"column:sma9rsi_gt_wma45rsi_w" json:"sma9rsi_gt_wma45rsi_w"`
	StampDaily         bool `gorm:"column:stamp_daily" json:"stamp_daily"`
	StampWeekly        bool `gorm:"column:stamp_weekly" json:"stamp_weekly"`

	Stamp               bool `gorm:"column:stamp" json:"stamp"`
	Score               int  `gorm:"column:score;index" json:"score"`
	FinalSignal         bool `gorm:"column:final_signal;index" json:"final_signal"`
	TotalConditionCount int  `gorm:"column:total_conditions" json:"total_conditions"`
	WeeklyDataAvailable bool `gorm:"column:weekly_data_available" json:"weekly_data_available"`

	// Trend screener rule set.
	TrendCloseGtSMA18D  bool `gorm:"column:close_gt_sma18_d" json:"close_gt_sma18_d"`
	TrendCloseGtSMA9W   bool `gorm:"column:close_gt_sma9_w" json:"close_gt_sma9_w"`
	TrendSMAAlignedD    bool `gorm:"column:sma_aligned_d" json:"sma_aligned_d"`
	TrendSMAAlignedW    bool `gorm:"column:sma_aligned_w" json:"sma_aligned_w"`
	TrendCCIGt100D      bool `gorm:"column:cci_gt_100_d" json:"cci_gt_100_d"`
	TrendEMA20CCIPosD   bool `gorm:"column:ema20_cci_pos_d" json:"ema20_cci_pos_d"`
	TrendEMA20CCIPosW   bool `gorm:"column:ema20_cci_pos_w" json:"ema20_cci_pos_w"`
	TrendAroonUpGt70D   bool `gorm:"column:aroon_up_gt_70_d" json:"aroon_up_gt_70_d"`
	TrendAroonDownLt30D bool `gorm:"column:aroon_down_lt_30_d" json:"aroon_down_lt_30_d"`
	TrendFinalSignal    bool `gorm:"column:trend_final_signal;index" json:"trend_final_signal"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RSRating is one persisted cross-sectional RS record per (symbol, date).
type RSRating struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	Symbol string    `gorm:"column:symbol;uniqueIndex:idx_rsrating_symbol_date;not null" json:"symbol"`
	Date   time.Time `gorm:"column:date;uniqueIndex:idx_rsrating_symbol_date;not null" json:"date"`

	Return3M  *float64 `gorm:"column:return_3m" json:"return_3m"`
	Return6M  *float64 `gorm:"column:return_6m" json:"return_6m"`
	Return9M  *float64 `gorm:"column:return_9m" json:"return_9m"`
	Return12M *float64 `gorm:"column:return_12m" json:"return_12m"`

	Rank3M  *int `gorm:"column:rank_3m" json:"rank_3m"`
	Rank6M  *int `gorm:"column:rank_6m" json:"rank_6m"`
	Rank9M  *int `gorm:"column:rank_9m" json:"rank_9m"`
	Rank12M *int `gorm:"column:rank_12m" json:"rank_12m"`

	RSRaw    *float64 `gorm:"column:rs_raw" json:"rs_raw"`
	RSRating *int     `gorm:"column:rs_rating;index" json:"rs_rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MigrateScreenerModels runs database migrations for screener output models.
func MigrateScreenerModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&IndicatorSnapshot{},
		&RSRating{},
	)
}
