package indicators

// Composite formula periods. Consumers filter on outputs computed with
// exactly these windows, so they are fixed rather than configurable.
const (
	RSIPeriod     = 14
	FastRSIPeriod = 3
	DivergenceLag = 9
	BandShortSpan = 13
	BandLongSpan  = 65
	TrendRefSpan  = 9
)

// TheNumber is the support/resistance band derived from multi-period
// high/low SMAs, with its upper (HL) and lower (LL) bands and the SMA9
// close trend reference.
type TheNumber struct {
	TN        []float64
	HL        []float64
	LL        []float64
	SMA9Close []float64
}

// ComputeTheNumber calculates The Number band series for one horizon.
func ComputeTheNumber(s *PriceSeries) *TheNumber {
	smaHigh13 := SMA(s.High, BandShortSpan)
	smaLow13 := SMA(s.Low, BandShortSpan)
	smaHigh65 := SMA(s.High, BandLongSpan)
	smaLow65 := SMA(s.Low, BandLongSpan)

	n := s.Len()
	tn := make([]float64, n)
	hl := make([]float64, n)
	ll := make([]float64, n)
	for i := 0; i < n; i++ {
		tn[i] = (smaHigh13[i] + smaLow13[i] + smaHigh65[i] + smaLow65[i]) / 4.0
		hl[i] = (smaHigh13[i] + smaHigh65[i]) / 2.0
		ll[i] = (smaLow13[i] + smaLow65[i]) / 2.0
	}

	return &TheNumber{
		TN:        tn,
		HL:        hl,
		LL:        ll,
		SMA9Close: SMA(s.Close, TrendRefSpan),
	}
}

// Momentum holds the RSI-divergence complex shared by the STAMP signature
// and the CFG formula. CFG is the core series
//
//	A = RSI14 - RSI14(close delayed 9 bars) + SMA3(RSI3)
//
// where the delayed term replays the full Wilder recursion on the delayed
// close series (see RSIShifted). Every derived smoothing the screeners
// consume is computed here once per horizon.
type Momentum struct {
	RSI14     []float64
	RSI3      []float64
	SMA3RSI3  []float64
	RSIShift9 []float64
	CFG       []float64 // the A series

	// Smoothings of RSI14.
	SMA9RSI  []float64
	WMA45RSI []float64
	EMA45RSI []float64

	// Smoothings of CFG.
	SMA9CFG  []float64
	SMA20CFG []float64
	EMA20CFG []float64
	EMA45CFG []float64

	// Smoothing of SMA3(RSI3).
	EMA20SMA3 []float64
}

// ComputeMomentum calculates the full STAMP/CFG complex over close prices.
func ComputeMomentum(close []float64) *Momentum {
	m := &Momentum{
		RSI14:     RSI(close, RSIPeriod),
		RSI3:      RSI(close, FastRSIPeriod),
		RSIShift9: RSIShifted(close, RSIPeriod, DivergenceLag),
	}
	m.SMA3RSI3 = SMA(m.RSI3, FastRSIPeriod)

	m.CFG = make([]float64, len(close))
	for i := range close {
		m.CFG[i] = m.RSI14[i] - m.RSIShift9[i] + m.SMA3RSI3[i]
	}

	m.SMA9RSI = SMA(m.RSI14, 9)
	m.WMA45RSI = WMA(m.RSI14, 45)
	m.EMA45RSI = EMA(m.RSI14, 45)

	m.SMA9CFG = SMA(m.CFG, 9)
	m.SMA20CFG = SMA(m.CFG, 20)
	m.EMA20CFG = EMA(m.CFG, 20)
	m.EMA45CFG = EMA(m.CFG, 45)

	m.EMA20SMA3 = EMA(m.SMA3RSI3, 20)
	return m
}
