package indicators

import (
	"math"
)

// Series values are ordered ascending by date (oldest first). Undefined
// points are NaN; every function here preserves input length so callers can
// keep parallel series index-aligned.

// IsDefined reports whether v is a usable indicator value.
func IsDefined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Round2 rounds to 2 decimal places for stored/display values.
func Round2(v float64) float64 {
	if !IsDefined(v) {
		return v
	}
	return math.Round(v*100) / 100
}

// Latest returns the last value of a series, or NaN for an empty series.
func Latest(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

// SMA calculates the Simple Moving Average series. The first period-1
// points average as many values as are available, so there are no leading
// NaNs beyond those inherited from the input.
func SMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		start := i - period + 1
		if start < 0 {
			start = 0
		}
		sum, count := 0.0, 0
		for j := start; j <= i; j++ {
			if !IsDefined(values[j]) {
				continue
			}
			sum += values[j]
			count++
		}
		if count == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(count)
	}
	return out
}

// WMA calculates the linearly weighted moving average series with weights
// 1..period, newest-heaviest, using the same partial-window policy as SMA.
func WMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		start := i - period + 1
		if start < 0 {
			start = 0
		}
		sum, weightSum := 0.0, 0.0
		for j := start; j <= i; j++ {
			if !IsDefined(values[j]) {
				continue
			}
			w := float64(j - start + 1)
			sum += values[j] * w
			weightSum += w
		}
		if weightSum == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / weightSum
	}
	return out
}

// EMA calculates the exponential moving average series with smoothing
// factor 2/(period+1). The first defined input seeds the average; NaN
// inputs after the seed carry the previous smoothed value forward.
func EMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	multiplier := 2.0 / float64(period+1)

	ema := math.NaN()
	for i, v := range values {
		if !IsDefined(ema) {
			if IsDefined(v) {
				ema = v
			}
			out[i] = ema
			continue
		}
		if IsDefined(v) {
			ema = (v-ema)*multiplier + ema
		}
		out[i] = ema
	}
	return out
}

// RMA calculates Wilder's smoothed average: seeded with the simple mean of
// the first period values, then prev*(period-1)/period + current/period.
// Points before the seed is complete are NaN.
func RMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(values) < period {
		return out
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	avg := sum / float64(period)
	out[period-1] = avg

	for i := period; i < len(values); i++ {
		avg = (avg*float64(period-1) + values[i]) / float64(period)
		out[i] = avg
	}
	return out
}

// RSI calculates the Wilder-smoothed Relative Strength Index series.
// Values before period deltas have accumulated are NaN. A zero average
// loss is a defined case and yields 100, not a division error.
func RSI(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(values) < period+1 {
		return out
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	// Seed with the simple mean of the first period deltas.
	avgGain, avgLoss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiFromAverages(avgGain, avgLoss)

	for i := period + 1; i < len(values); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}
	return out
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// RSIShifted calculates RSI recomputed over the series delayed by lag bars:
// the full Wilder recursion is replayed on the delayed series rather than
// the RSI output being shifted, so the smoothing state matches what the
// delayed series would have produced on its own.
func RSIShifted(values []float64, period, lag int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if lag <= 0 || len(values) <= lag {
		return out
	}

	delayed := values[:len(values)-lag]
	shifted := RSI(delayed, period)
	for i := lag; i < len(values); i++ {
		out[i] = shifted[i-lag]
	}
	return out
}

// CCI calculates the Commodity Channel Index over typical price
// (high+low+close)/3. A zero mean absolute deviation leaves the point
// undefined.
func CCI(high, low, close []float64, period int) []float64 {
	n := len(close)
	out := make([]float64, n)
	tp := make([]float64, n)
	for i := 0; i < n; i++ {
		tp[i] = (high[i] + low[i] + close[i]) / 3.0
	}

	for i := 0; i < n; i++ {
		start := i - period + 1
		if start < 0 {
			start = 0
		}
		count := i - start + 1

		mean := 0.0
		for j := start; j <= i; j++ {
			mean += tp[j]
		}
		mean /= float64(count)

		mad := 0.0
		for j := start; j <= i; j++ {
			mad += math.Abs(tp[j] - mean)
		}
		mad /= float64(count)

		if mad == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (tp[i] - mean) / (0.015 * mad)
	}
	return out
}

// Aroon calculates Aroon Up and Aroon Down over a trailing window of
// period+1 bars. When bars tie for the extreme, the most recent occurrence
// wins. Points with fewer than period+1 bars are NaN.
func Aroon(high, low []float64, period int) (up, down []float64) {
	n := len(high)
	up = make([]float64, n)
	down = make([]float64, n)
	for i := 0; i < n; i++ {
		if i < period {
			up[i] = math.NaN()
			down[i] = math.NaN()
			continue
		}

		hiIdx, loIdx := i-period, i-period
		for j := i - period; j <= i; j++ {
			if high[j] >= high[hiIdx] {
				hiIdx = j
			}
			if low[j] <= low[loIdx] {
				loIdx = j
			}
		}

		up[i] = 100.0 * float64(period-(i-hiIdx)) / float64(period)
		down[i] = 100.0 * float64(period-(i-loIdx)) / float64(period)
	}
	return up, down
}
