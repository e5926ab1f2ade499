package screener

import (
	"screener_backend/services/indicators"
)

// RSIScreener evaluates the fixed 15-condition RSI/STAMP/CFG rule set over
// a daily series and its weekly resample.
type RSIScreener struct {
	Weekly WeeklyPolicy
}

// NewRSIScreener creates a screener with the given weekly-absent policy.
func NewRSIScreener(policy WeeklyPolicy) *RSIScreener {
	return &RSIScreener{Weekly: policy}
}

// horizon is one fully computed indicator horizon (daily or weekly).
type horizon struct {
	momentum *indicators.Momentum
	band     *indicators.TheNumber
	last     int
}

func computeHorizon(s *indicators.PriceSeries) *horizon {
	return &horizon{
		momentum: indicators.ComputeMomentum(s.Close),
		band:     indicators.ComputeTheNumber(s),
		last:     s.Len() - 1,
	}
}

// latest values at the horizon's most recent bar.
func (h *horizon) rsi() float64       { return h.momentum.RSI14[h.last] }
func (h *horizon) rsi3() float64      { return h.momentum.RSI3[h.last] }
func (h *horizon) sma3RSI3() float64  { return h.momentum.SMA3RSI3[h.last] }
func (h *horizon) sma9RSI() float64   { return h.momentum.SMA9RSI[h.last] }
func (h *horizon) wma45RSI() float64  { return h.momentum.WMA45RSI[h.last] }
func (h *horizon) ema45RSI() float64  { return h.momentum.EMA45RSI[h.last] }
func (h *horizon) cfg() float64       { return h.momentum.CFG[h.last] }
func (h *horizon) cfgSMA9() float64   { return h.momentum.SMA9CFG[h.last] }
func (h *horizon) cfgSMA20() float64  { return h.momentum.SMA20CFG[h.last] }
func (h *horizon) cfgEMA20() float64  { return h.momentum.EMA20CFG[h.last] }
func (h *horizon) cfgEMA45() float64  { return h.momentum.EMA45CFG[h.last] }
func (h *horizon) e20SMA3() float64   { return h.momentum.EMA20SMA3[h.last] }
func (h *horizon) rsiShift9() float64 { return h.momentum.RSIShift9[h.last] }
func (h *horizon) theNumber() float64 { return h.band.TN[h.last] }
func (h *horizon) bandHL() float64    { return h.band.HL[h.last] }
func (h *horizon) bandLL() float64    { return h.band.LL[h.last] }
func (h *horizon) sma9Close() float64 { return h.band.SMA9Close[h.last] }

// stampBundle is the five-condition STAMP signature for one horizon: the
// divergence series and its long smoothing both above 50, RSI above both
// its SMA9 and EMA45, and the fast-RSI smoothing above its EMA20.
func (h *horizon) stampBundle() bool {
	return gt(h.cfg(), 50) &&
		gt(h.cfgEMA45(), 50) &&
		gt(h.rsi(), h.sma9RSI()) &&
		gt(h.rsi(), h.ema45RSI()) &&
		gt(h.sma3RSI3(), h.e20SMA3())
}

// Evaluate runs the RSI screener for one symbol. It returns nil when the
// daily series is shorter than MinDailyBars; the caller treats that as
// "no result", not an error. The weekly series must be the resample of
// the daily series (the orchestrator resamples once and shares it).
func (rs *RSIScreener) Evaluate(daily, weekly *indicators.PriceSeries) *Snapshot {
	if daily.Len() < MinDailyBars {
		return nil
	}

	d := computeHorizon(daily)
	weeklyOK := weekly != nil && weekly.Len() >= rs.Weekly.MinBars

	snap := &Snapshot{
		Symbol:              daily.Symbol,
		Date:                daily.Dates[daily.Len()-1],
		TotalConditionCount: TotalConditions,
		WeeklyDataAvailable: weeklyOK,
	}

	snap.RSI = scalar(d.rsi())
	snap.RSI3 = scalar(d.rsi3())
	snap.SMA3RSI3 = scalar(d.sma3RSI3())
	snap.SMA9RSI = scalar(d.sma9RSI())
	snap.WMA45RSI = scalar(d.wma45RSI())
	snap.EMA45RSI = scalar(d.ema45RSI())
	snap.RSI14Minus9 = scalar(d.rsi() - d.rsiShift9())
	snap.CFG = scalar(d.cfg())
	snap.CFGSMA9 = scalar(d.cfgSMA9())
	snap.CFGSMA20 = scalar(d.cfgSMA20())
	snap.CFGEMA20 = scalar(d.cfgEMA20())
	snap.CFGEMA45 = scalar(d.cfgEMA45())
	snap.E45CFG = scalar(d.cfgEMA45())
	snap.E20SMA3RSI3 = scalar(d.e20SMA3())
	snap.TheNumber = scalar(d.theNumber())
	snap.TheNumberHL = scalar(d.bandHL())
	snap.TheNumberLL = scalar(d.bandLL())
	snap.SMA9Close = scalar(d.sma9Close())

	snap.CFGGt50 = gt(d.cfg(), 50)
	snap.CFGEMA45Gt50 = gt(d.cfgEMA45(), 50)
	snap.CFGEMA20Gt50 = gt(d.cfgEMA20(), 50)

	snap.SMA9GtTNDaily = gt(d.sma9Close(), d.theNumber())
	snap.RSILt80D = lt(d.rsi(), 80)
	snap.SMA9RSILte75D = lte(d.sma9RSI(), 75)
	snap.EMA45RSILte70D = lte(d.ema45RSI(), 70)
	snap.RSI5570 = between(d.rsi(), 55, 70)
	snap.RSIGtWMA45D = gt(d.rsi(), d.wma45RSI())
	snap.SMA9RSIGtWMA45RSID = gt(d.sma9RSI(), d.wma45RSI())
	snap.StampDaily = d.stampBundle()

	if weeklyOK {
		w := computeHorizon(weekly)

		snap.RSIW = scalar(w.rsi())
		snap.RSI3W = scalar(w.rsi3())
		snap.SMA3RSI3W = scalar(w.sma3RSI3())
		snap.SMA9RSIW = scalar(w.sma9RSI())
		snap.WMA45RSIW = scalar(w.wma45RSI())
		snap.EMA45RSIW = scalar(w.ema45RSI())
		snap.RSI14Minus9W = scalar(w.rsi() - w.rsiShift9())
		snap.CFGW = scalar(w.cfg())
		snap.CFGSMA9W = scalar(w.cfgSMA9())
		snap.CFGSMA20W = scalar(w.cfgSMA20())
		snap.CFGEMA20W = scalar(w.cfgEMA20())
		snap.CFGEMA45W = scalar(w.cfgEMA45())
		snap.E45CFGW = scalar(w.cfgEMA45())
		snap.E20SMA3RSI3W = scalar(w.e20SMA3())
		snap.TheNumberW = scalar(w.theNumber())
		snap.TheNumberHLW = scalar(w.bandHL())
		snap.TheNumberLLW = scalar(w.bandLL())
		snap.SMA9CloseW = scalar(w.sma9Close())

		snap.CFGGt50W = gt(w.cfg(), 50)
		snap.CFGEMA45Gt50W = gt(w.cfgEMA45(), 50)
		snap.CFGEMA20Gt50W = gt(w.cfgEMA20(), 50)

		snap.SMA9GtTNWeekly = gt(w.sma9Close(), w.theNumber())
		snap.RSILt80W = lt(w.rsi(), 80)
		snap.SMA9RSILte75W = lte(w.sma9RSI(), 75)
		snap.EMA45RSILte70W = lte(w.ema45RSI(), 70)
		snap.RSIGtWMA45W = gt(w.rsi(), w.wma45RSI())
		snap.SMA9RSIGtWMA45RSIW = gt(w.sma9RSI(), w.wma45RSI())
		snap.StampWeekly = w.stampBundle()
	} else if rs.Weekly.AssumeTrueWhenMissing {
		snap.SMA9GtTNWeekly = true
		snap.RSILt80W = true
		snap.SMA9RSILte75W = true
		snap.EMA45RSILte70W = true
		snap.RSIGtWMA45W = true
		snap.SMA9RSIGtWMA45RSIW = true
		snap.StampWeekly = true
	}

	snap.Stamp = snap.StampDaily && snap.StampWeekly

	conditions := []bool{
		snap.SMA9GtTNDaily,
		snap.SMA9GtTNWeekly,
		snap.RSILt80D,
		snap.RSILt80W,
		snap.SMA9RSILte75D,
		snap.SMA9RSILte75W,
		snap.EMA45RSILte70D,
		snap.EMA45RSILte70W,
		snap.RSI5570,
		snap.RSIGtWMA45D,
		snap.RSIGtWMA45W,
		snap.SMA9RSIGtWMA45RSID,
		snap.SMA9RSIGtWMA45RSIW,
		snap.StampDaily,
		snap.StampWeekly,
	}
	snap.Score = 0
	snap.FinalSignal = true
	for _, c := range conditions {
		if c {
			snap.Score++
		} else {
			snap.FinalSignal = false
		}
	}

	return snap
}
