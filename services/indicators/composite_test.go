package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// walkSeries builds a deterministic jagged price series long enough for
// the 65-bar band and the 45-bar smoothings to warm up.
func walkSeries(n int) *PriceSeries {
	bars := make([]PriceBar, n)
	px := 100.0
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		if i%9 < 5 {
			px *= 1.011
		} else {
			px *= 0.992
		}
		bars[i] = PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   px * 0.995,
			High:   px * 1.01,
			Low:    px * 0.99,
			Close:  px,
			Volume: 10000,
		}
	}
	return NewPriceSeries("TEST", bars)
}

func TestComputeTheNumberMatchesComponentAverages(t *testing.T) {
	s := walkSeries(200)
	tn := ComputeTheNumber(s)

	smaHigh13 := SMA(s.High, BandShortSpan)
	smaLow13 := SMA(s.Low, BandShortSpan)
	smaHigh65 := SMA(s.High, BandLongSpan)
	smaLow65 := SMA(s.Low, BandLongSpan)

	for _, i := range []int{0, 12, 64, 120, 199} {
		exp := (smaHigh13[i] + smaLow13[i] + smaHigh65[i] + smaLow65[i]) / 4.0
		assert.InDelta(t, exp, tn.TN[i], 1e-9, "index %d", i)
		assert.InDelta(t, (smaHigh13[i]+smaHigh65[i])/2.0, tn.HL[i], 1e-9)
		assert.InDelta(t, (smaLow13[i]+smaLow65[i])/2.0, tn.LL[i], 1e-9)
	}

	// The band straddles price: HL at or above LL wherever both defined.
	for i := 0; i < s.Len(); i++ {
		if IsDefined(tn.HL[i]) && IsDefined(tn.LL[i]) {
			assert.GreaterOrEqual(t, tn.HL[i], tn.LL[i])
		}
	}
}

func TestComputeMomentumCoreSeries(t *testing.T) {
	s := walkSeries(200)
	m := ComputeMomentum(s.Close)

	rsi14 := RSI(s.Close, RSIPeriod)
	rsi3 := RSI(s.Close, FastRSIPeriod)
	sma3 := SMA(rsi3, FastRSIPeriod)
	shift9 := RSIShifted(s.Close, RSIPeriod, DivergenceLag)

	definedPoints := 0
	for i := 0; i < s.Len(); i++ {
		exp := rsi14[i] - shift9[i] + sma3[i]
		if math.IsNaN(exp) {
			assert.True(t, math.IsNaN(m.CFG[i]), "index %d", i)
			continue
		}
		definedPoints++
		assert.InDelta(t, exp, m.CFG[i], 1e-9, "index %d", i)
	}
	// Defined once all three components have warmed up.
	require.Greater(t, definedPoints, 150)
}

func TestComputeMomentumSmoothingsDeriveFromCore(t *testing.T) {
	s := walkSeries(200)
	m := ComputeMomentum(s.Close)
	last := s.Len() - 1

	assert.InDelta(t, Latest(SMA(m.RSI14, 9)), m.SMA9RSI[last], 1e-9)
	assert.InDelta(t, Latest(WMA(m.RSI14, 45)), m.WMA45RSI[last], 1e-9)
	assert.InDelta(t, Latest(EMA(m.RSI14, 45)), m.EMA45RSI[last], 1e-9)
	assert.InDelta(t, Latest(SMA(m.CFG, 20)), m.SMA20CFG[last], 1e-9)
	assert.InDelta(t, Latest(EMA(m.CFG, 45)), m.EMA45CFG[last], 1e-9)
	assert.InDelta(t, Latest(EMA(m.SMA3RSI3, 20)), m.EMA20SMA3[last], 1e-9)
}

func TestMomentumSteadyUptrend(t *testing.T) {
	bars := make([]PriceBar, 120)
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		px := 100.0 * math.Pow(1.01, float64(i))
		bars[i] = PriceBar{Date: start.AddDate(0, 0, i), Open: px, High: px, Low: px, Close: px, Volume: 1}
	}
	m := ComputeMomentum(NewPriceSeries("UP", bars).Close)
	last := len(bars) - 1

	// Monotonic gains pin every RSI at 100, so the divergence term cancels
	// and CFG settles at 100.
	assert.InDelta(t, 100.0, m.RSI14[last], 1e-9)
	assert.InDelta(t, 100.0, m.RSIShift9[last], 1e-9)
	assert.InDelta(t, 100.0, m.CFG[last], 1e-9)
}
