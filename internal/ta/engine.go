package ta

import (
	"errors"
	"math"
	"time"
)

// ErrUnsortedInput marks a caller contract violation: bars must be strictly
// ascending by trade date. Misordered input would silently corrupt every
// recursive (EMA-based) series, so it is rejected instead of reordered.
var ErrUnsortedInput = errors.New("bar series not strictly ascending by date")

// Bar is the engine's input row: one day's prices and volume.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Frame holds every indicator family as equal-length series aligned with the
// input bars.
type Frame struct {
	Dates []time.Time

	MA5, MA10, MA20, MA30, MA60 []float64
	Diff, Dea, Macd             []float64
	K, D, J                     []float64
	RSI6, RSI12, RSI24          []float64
	BollUp, BollMid, BollDown   []float64
	VMA5, VMA10, VMA20          []float64
	PDI, MDI, ADX, ADXR         []float64
	Trix, Matrix                []float64
	CCI, ATR                    []float64
	CR, CRMA1, CRMA2, CRMA3     []float64
	ROC, ROCMA                  []float64
	PSY, PSYMA                  []float64
	DMA, AMA                    []float64
}

// Len returns the number of rows in the frame.
func (f *Frame) Len() int {
	return len(f.Dates)
}

// Compute derives every indicator family from an ordered bar series.
// Bars must be strictly ascending by date; an empty input yields an empty
// frame. Insufficient history produces NaN positions, never zeros.
func Compute(bars []Bar) (*Frame, error) {
	n := len(bars)
	for i := 1; i < n; i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return nil, ErrUnsortedInput
		}
	}

	dates := make([]time.Time, n)
	high := make([]float64, n)
	low := make([]float64, n)
	cls := make([]float64, n)
	vol := make([]float64, n)
	for i, b := range bars {
		dates[i] = b.Date
		high[i] = b.High
		low[i] = b.Low
		cls[i] = b.Close
		vol[i] = b.Volume
	}

	f := &Frame{Dates: dates}

	f.MA5 = MA(cls, 5)
	f.MA10 = MA(cls, 10)
	f.MA20 = MA(cls, 20)
	f.MA30 = MA(cls, 30)
	f.MA60 = MA(cls, 60)

	f.Diff, f.Dea, f.Macd = MACD(cls, 12, 26, 9)
	f.K, f.D, f.J = KDJ(high, low, cls, 9)
	f.RSI6 = RSI(cls, 6)
	f.RSI12 = RSI(cls, 12)
	f.RSI24 = RSI(cls, 24)
	f.BollUp, f.BollMid, f.BollDown = Boll(cls, 20, 2)

	f.VMA5 = MA(vol, 5)
	f.VMA10 = MA(vol, 10)
	f.VMA20 = MA(vol, 20)

	f.PDI, f.MDI, f.ADX, f.ADXR = DMI(high, low, cls, 14)
	f.Trix, f.Matrix = TRIX(cls, 12, 9)
	f.CCI = CCI(high, low, cls, 14)
	f.ATR = ATR(high, low, cls, 14)
	f.CR, f.CRMA1, f.CRMA2, f.CRMA3 = CR(high, low, 26)
	f.ROC, f.ROCMA = ROC(cls, 12, 6)
	f.PSY, f.PSYMA = PSY(cls, 12, 6)
	f.DMA, f.AMA = DMA(cls, 10, 50, 10)

	return f, nil
}

// MACD computes diff = EMA(fast) - EMA(slow), dea = EMA(diff, signal) and
// the histogram 2*(diff-dea). EMAs are recursive, seeded from the first
// value with no warm-up bias correction.
func MACD(close []float64, fast, slow, signal int) (diff, dea, macd []float64) {
	emaFast := EMASpan(close, fast)
	emaSlow := EMASpan(close, slow)
	diff = make([]float64, len(close))
	for i := range close {
		diff[i] = emaFast[i] - emaSlow[i]
	}
	dea = EMASpan(diff, signal)
	macd = make([]float64, len(close))
	for i := range close {
		macd[i] = 2 * (diff[i] - dea[i])
	}
	return diff, dea, macd
}

// KDJ computes the stochastic K/D/J series over an n-day rolling range.
// A flat range (high == low over the window) yields NaN for that position.
func KDJ(high, low, close []float64, n int) (k, d, j []float64) {
	lowN := RollMin(low, n)
	highN := RollMax(high, n)
	rsv := make([]float64, len(close))
	for i := range close {
		rng := highN[i] - lowN[i]
		if math.IsNaN(rng) || rng == 0 {
			rsv[i] = math.NaN()
			continue
		}
		rsv[i] = (close[i] - lowN[i]) / rng * 100
	}
	k = EMACom(rsv, 2)
	d = EMACom(k, 2)
	j = make([]float64, len(close))
	for i := range close {
		j[i] = 3*k[i] - 2*d[i]
	}
	return k, d, j
}

// RSI computes the relative strength index with Wilder smoothing
// (exponential decay (n-1)/n). A zero gain+loss denominator yields NaN.
func RSI(close []float64, n int) []float64 {
	delta := Delta(close)
	up := make([]float64, len(close))
	down := make([]float64, len(close))
	for i, d := range delta {
		if math.IsNaN(d) {
			up[i] = math.NaN()
			down[i] = math.NaN()
			continue
		}
		if d > 0 {
			up[i] = d
		} else {
			down[i] = -d
		}
	}
	maUp := EMACom(up, float64(n-1))
	maDown := EMACom(down, float64(n-1))
	out := nans(len(close))
	for i := range close {
		denom := maUp[i] + maDown[i]
		if math.IsNaN(denom) || denom == 0 {
			continue
		}
		out[i] = maUp[i] / denom * 100
	}
	return out
}

// Boll computes Bollinger bands: mid = MA(n), up/down = mid +/- k*stddev(n).
func Boll(close []float64, n int, k float64) (up, mid, down []float64) {
	mid = MA(close, n)
	sd := Stddev(close, n)
	up = make([]float64, len(close))
	down = make([]float64, len(close))
	for i := range close {
		up[i] = mid[i] + k*sd[i]
		down[i] = mid[i] - k*sd[i]
	}
	return up, mid, down
}

// trueRange computes the true range series. The first position falls back to
// high-low because there is no prior close.
func trueRange(high, low, close []float64) []float64 {
	tr := make([]float64, len(close))
	for i := range close {
		hl := high[i] - low[i]
		if i == 0 {
			tr[i] = hl
			continue
		}
		hc := math.Abs(high[i] - close[i-1])
		lc := math.Abs(low[i] - close[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return tr
}

// DMI computes the directional movement index family over n days:
// PDI/MDI from summed directional movement over true range, ADX as the
// n-day mean of the DX oscillator and ADXR as its n-day midpoint.
func DMI(high, low, close []float64, n int) (pdi, mdi, adx, adxr []float64) {
	length := len(close)
	tr := trueRange(high, low, close)

	pdm := make([]float64, length)
	mdm := make([]float64, length)
	for i := 1; i < length; i++ {
		hd := high[i] - high[i-1]
		ld := low[i-1] - low[i]
		if hd > ld {
			pdm[i] = hd
		}
		if ld > hd {
			mdm[i] = ld
		}
	}

	trN := RollSum(tr, n)
	pdi = nans(length)
	mdi = nans(length)
	pdmN := RollSum(pdm, n)
	mdmN := RollSum(mdm, n)
	for i := range pdi {
		if math.IsNaN(trN[i]) || trN[i] == 0 {
			continue
		}
		pdi[i] = pdmN[i] / trN[i] * 100
		mdi[i] = mdmN[i] / trN[i] * 100
	}

	dx := nans(length)
	for i := range dx {
		sum := pdi[i] + mdi[i]
		if math.IsNaN(sum) || sum == 0 {
			continue
		}
		dx[i] = math.Abs(pdi[i]-mdi[i]) / sum * 100
	}
	adx = MA(dx, n)

	adxShift := Shift(adx, n)
	adxr = make([]float64, length)
	for i := range adxr {
		adxr[i] = (adx[i] + adxShift[i]) / 2
	}
	return pdi, mdi, adx, adxr
}

// TRIX computes the triple-smoothed EMA rate of change and its m-day mean.
func TRIX(close []float64, n, m int) (trix, matrix []float64) {
	t := EMASpan(EMASpan(EMASpan(close, n), n), n)
	trix = nans(len(close))
	for i := 1; i < len(close); i++ {
		if t[i-1] == 0 || math.IsNaN(t[i-1]) {
			continue
		}
		trix[i] = (t[i] - t[i-1]) / t[i-1] * 100
	}
	matrix = MA(trix, m)
	return trix, matrix
}

// CCI computes the commodity channel index over n days.
func CCI(high, low, close []float64, n int) []float64 {
	tp := make([]float64, len(close))
	for i := range close {
		tp[i] = (high[i] + low[i] + close[i]) / 3
	}
	ma := MA(tp, n)
	dev := make([]float64, len(close))
	for i := range close {
		dev[i] = math.Abs(tp[i] - ma[i])
	}
	md := MA(dev, n)
	out := nans(len(close))
	for i := range close {
		if math.IsNaN(md[i]) || md[i] == 0 {
			continue
		}
		out[i] = (tp[i] - ma[i]) / (md[i] * 0.015)
	}
	return out
}

// ATR computes the n-day mean of the true range.
func ATR(high, low, close []float64, n int) []float64 {
	return MA(trueRange(high, low, close), n)
}

// CR computes the mid-price strength indicator over n days plus its
// 5/10/20-day means. Days before the first mid-price count as zero
// pressure, matching the rolling-sum warm-up.
func CR(high, low []float64, n int) (cr, ma1, ma2, ma3 []float64) {
	length := len(high)
	mid := make([]float64, length)
	for i := range mid {
		mid[i] = (high[i] + low[i]) / 2
	}

	p1 := make([]float64, length)
	p2 := make([]float64, length)
	for i := 1; i < length; i++ {
		if high[i] > mid[i-1] {
			p1[i] = high[i] - mid[i-1]
		}
		if low[i] < mid[i-1] {
			p2[i] = mid[i-1] - low[i]
		}
	}

	cr = nans(length)
	p1N := RollSum(p1, n)
	p2N := RollSum(p2, n)
	for i := range cr {
		if math.IsNaN(p2N[i]) || p2N[i] == 0 {
			continue
		}
		cr[i] = p1N[i] / p2N[i] * 100
	}
	ma1 = MA(cr, 5)
	ma2 = MA(cr, 10)
	ma3 = MA(cr, 20)
	return cr, ma1, ma2, ma3
}

// ROC computes the n-day rate of change and its m-day mean.
func ROC(close []float64, n, m int) (roc, rocma []float64) {
	roc = nans(len(close))
	for i := n; i < len(close); i++ {
		if close[i-n] == 0 {
			continue
		}
		roc[i] = (close[i] - close[i-n]) / close[i-n] * 100
	}
	rocma = MA(roc, m)
	return roc, rocma
}

// PSY computes the psychological line: the share of up days in the trailing
// n days, and its m-day mean.
func PSY(close []float64, n, m int) (psy, psyma []float64) {
	psy = nans(len(close))
	for i := n; i < len(close); i++ {
		up := 0
		for j := i - n + 1; j <= i; j++ {
			if close[j] > close[j-1] {
				up++
			}
		}
		psy[i] = float64(up) / float64(n) * 100
	}
	psyma = MA(psy, m)
	return psy, psyma
}

// DMA computes the moving-average spread MA(short)-MA(long) and its m-day mean.
func DMA(close []float64, short, long, m int) (dma, ama []float64) {
	maShort := MA(close, short)
	maLong := MA(close, long)
	dma = make([]float64, len(close))
	for i := range close {
		dma[i] = maShort[i] - maLong[i]
	}
	ama = MA(dma, m)
	return dma, ama
}
