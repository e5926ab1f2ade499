package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wilder's worked RSI example, 15 closes giving one seeded RSI value.
var wilderCloses = []float64{
	44.3389, 44.0902, 44.1497, 43.6124, 44.3278,
	44.8264, 45.0955, 45.4245, 45.8433, 46.0826,
	45.8931, 46.0328, 45.6140, 46.2820, 46.2820,
}

func TestSMAPartialWindows(t *testing.T) {
	out := SMA([]float64{1, 2, 3, 4, 5}, 3)

	assert.InDelta(t, 1.0, out[0], 1e-9)
	assert.InDelta(t, 1.5, out[1], 1e-9)
	assert.InDelta(t, 2.0, out[2], 1e-9)
	assert.InDelta(t, 3.0, out[3], 1e-9)
	assert.InDelta(t, 4.0, out[4], 1e-9)
}

func TestSMASkipsUndefinedPoints(t *testing.T) {
	out := SMA([]float64{math.NaN(), 2, 4, math.NaN()}, 2)

	assert.True(t, math.IsNaN(out[0]))
	assert.InDelta(t, 2.0, out[1], 1e-9)
	assert.InDelta(t, 3.0, out[2], 1e-9)
	// Window holds {4, NaN}: only the defined value contributes.
	assert.InDelta(t, 4.0, out[3], 1e-9)
}

func TestWMANewestHeaviest(t *testing.T) {
	out := WMA([]float64{1, 2, 3}, 3)

	// (1*1 + 2*2 + 3*3) / (1+2+3)
	assert.InDelta(t, 14.0/6.0, out[2], 1e-9)
	// Partial windows renormalize the weights over available bars.
	assert.InDelta(t, 1.0, out[0], 1e-9)
	assert.InDelta(t, (1*1+2*2)/3.0, out[1], 1e-9)
}

func TestEMASeedsAtFirstDefinedValue(t *testing.T) {
	values := []float64{math.NaN(), math.NaN(), 10, 20, math.NaN(), 20}
	out := EMA(values, 3)

	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 10.0, out[2], 1e-9)

	exp := (20.0-10.0)*0.5 + 10.0
	assert.InDelta(t, exp, out[3], 1e-9)
	// NaN input carries the previous smoothed value forward.
	assert.InDelta(t, exp, out[4], 1e-9)
	assert.InDelta(t, (20.0-exp)*0.5+exp, out[5], 1e-9)
}

func TestEMAConstantSeries(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 42.0
	}
	for _, v := range EMA(values, 20) {
		assert.InDelta(t, 42.0, v, 1e-9)
	}
}

func TestSMAConstantSeries(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 42.0
	}
	for _, v := range SMA(values, 13) {
		assert.InDelta(t, 42.0, v, 1e-9)
	}
}

func TestWMAConstantSeries(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 42.0
	}
	for _, v := range WMA(values, 45) {
		assert.InDelta(t, 42.0, v, 1e-9)
	}
}

func TestRMAWilderSeed(t *testing.T) {
	out := RMA([]float64{2, 4, 6, 8}, 3)

	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 4.0, out[2], 1e-9)
	assert.InDelta(t, (4.0*2+8)/3.0, out[3], 1e-9)
}

func TestRSIWilderExample(t *testing.T) {
	out := RSI(wilderCloses, 14)

	for i := 0; i < 14; i++ {
		assert.True(t, math.IsNaN(out[i]), "index %d should be undefined", i)
	}
	assert.InDelta(t, 70.53, out[14], 0.05)
}

func TestRSIStaysBounded(t *testing.T) {
	// Deterministic jagged walk over 250 bars.
	values := make([]float64, 250)
	px := 100.0
	for i := range values {
		if i%7 < 4 {
			px *= 1.013
		} else {
			px *= 0.991
		}
		values[i] = px
	}

	defined := 0
	for _, v := range RSI(values, 14) {
		if !IsDefined(v) {
			continue
		}
		defined++
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
	assert.Equal(t, 250-14, defined)
}

func TestRSIZeroAverageLoss(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 100.0 + float64(i)
	}
	out := RSI(values, 14)
	assert.InDelta(t, 100.0, out[14], 1e-9)
	assert.InDelta(t, 100.0, out[19], 1e-9)
}

func TestRSIShortSeriesUndefined(t *testing.T) {
	out := RSI([]float64{1, 2, 3}, 14)
	for _, v := range out {
		assert.True(t, math.IsNaN(v))
	}
}

func TestRSIShiftedReplaysRecursion(t *testing.T) {
	values := make([]float64, 120)
	px := 50.0
	for i := range values {
		if i%5 < 3 {
			px *= 1.02
		} else {
			px *= 0.985
		}
		values[i] = px
	}

	const lag = 9
	shifted := RSIShifted(values, 14, lag)
	oracle := RSI(values[:len(values)-lag], 14)

	for i := 0; i < lag; i++ {
		assert.True(t, math.IsNaN(shifted[i]))
	}
	for i := lag; i < len(values); i++ {
		if math.IsNaN(oracle[i-lag]) {
			assert.True(t, math.IsNaN(shifted[i]), "index %d", i)
			continue
		}
		assert.InDelta(t, oracle[i-lag], shifted[i], 1e-9, "index %d", i)
	}
}

func TestRSIShiftedDegenerateLag(t *testing.T) {
	values := []float64{1, 2, 3}
	for _, v := range RSIShifted(values, 14, 0) {
		assert.True(t, math.IsNaN(v))
	}
	for _, v := range RSIShifted(values, 14, 5) {
		assert.True(t, math.IsNaN(v))
	}
}

func TestCCILinearUptrend(t *testing.T) {
	n := 40
	high := make([]float64, n)
	low := make([]float64, n)
	closePx := make([]float64, n)
	for i := 0; i < n; i++ {
		base := 100.0 + float64(i)
		high[i] = base + 1
		low[i] = base - 1
		closePx[i] = base
	}

	out := CCI(high, low, closePx, 14)
	// Linear typical price: deviation 6.5 steps, MAD 3.5 steps.
	assert.InDelta(t, 6.5/(0.015*3.5), out[n-1], 1e-6)
}

func TestCCIZeroDeviationUndefined(t *testing.T) {
	n := 20
	flat := make([]float64, n)
	for i := range flat {
		flat[i] = 100.0
	}
	out := CCI(flat, flat, flat, 14)
	for _, v := range out {
		assert.True(t, math.IsNaN(v))
	}
}

func TestAroonWarmupAndExtremes(t *testing.T) {
	n := 40
	high := make([]float64, n)
	low := make([]float64, n)
	for i := 0; i < n; i++ {
		high[i] = 100.0 + float64(i)
		low[i] = 90.0 + float64(i)
	}

	up, down := Aroon(high, low, 25)
	for i := 0; i < 25; i++ {
		assert.True(t, math.IsNaN(up[i]))
		assert.True(t, math.IsNaN(down[i]))
	}
	// Rising series: newest bar is the high, oldest bar in window the low.
	assert.InDelta(t, 100.0, up[n-1], 1e-9)
	assert.InDelta(t, 0.0, down[n-1], 1e-9)
}

func TestAroonTieTakesLastOccurrence(t *testing.T) {
	period := 4
	high := []float64{10, 12, 11, 12, 11, 10}
	low := []float64{5, 5, 6, 5, 6, 6}

	up, down := Aroon(high, low, period)
	require.True(t, IsDefined(up[4]))

	// Window [0..4]: highs tie at indexes 1 and 3, the later one wins.
	assert.InDelta(t, 100.0*float64(period-1)/float64(period), up[4], 1e-9)
	// Lows tie at indexes 0 and 3.
	assert.InDelta(t, 100.0*float64(period-1)/float64(period), down[4], 1e-9)
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 12.35, Round2(12.345), 1e-9)
	assert.InDelta(t, -7.13, Round2(-7.126), 1e-9)
	assert.True(t, math.IsNaN(Round2(math.NaN())))
}

func TestLatest(t *testing.T) {
	assert.True(t, math.IsNaN(Latest(nil)))
	assert.InDelta(t, 3.0, Latest([]float64{1, 2, 3}), 1e-9)
}
