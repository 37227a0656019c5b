// Package signal detects technical signals from adjacent indicator snapshots
// and materializes them day by day.
package signal

import (
	"math"

	"github.com/homeant/todify/internal/domain/indicator"
	"github.com/homeant/todify/internal/domain/market"
	"github.com/homeant/todify/internal/domain/signal"
	"github.com/homeant/todify/internal/pkg/dates"
)

// reboundRatio is the recovery threshold over the recent low.
const reboundRatio = 1.05

// Input is one detection unit: the adjacent snapshot pair plus the bars and
// the recent low backing the rebound composite. PrevBar may be nil and
// RecentLow may be NaN; the affected predicates then simply do not fire.
type Input struct {
	Prev      *indicator.Snapshot
	Curr      *indicator.Snapshot
	Bar       *market.Bar
	PrevBar   *market.Bar
	RecentLow float64
}

// Detect evaluates every predicate over the input and returns a Signal with
// all firing flags set, or nil when none fire. Predicates are independent
// and all evaluated on every call. NaN comparisons are false, so un-warmed
// indicator fields never fire a predicate.
func Detect(in Input) *signal.Signal {
	prev, curr := in.Prev, in.Curr
	close := in.Bar.Close.InexactFloat64()

	prevClose := math.NaN()
	if in.PrevBar != nil {
		prevClose = in.PrevBar.Close.InexactFloat64()
	}

	sig := &signal.Signal{
		Code:      curr.Code,
		Name:      curr.Name,
		TradeDate: dates.Day(curr.TradeDate),

		MacdGoldenCross: prev.Diff < prev.Dea && curr.Diff > curr.Dea,
		MacdDeadCross:   prev.Diff > prev.Dea && curr.Diff < curr.Dea,

		KdjGoldenCross: prev.K < prev.D && curr.K > curr.D,
		KdjDeadCross:   prev.K > prev.D && curr.K < curr.D,
		KdjOversold:    curr.K < 20,
		KdjOverbought:  curr.K > 80,

		RsiOversold:   curr.RSI6 < 20,
		RsiOverbought: curr.RSI6 > 80,

		BollBreakUp:   close > curr.BollUp,
		BollBreakDown: close < curr.BollDown,

		MaGoldenCross: prev.MA5 < prev.MA20 && curr.MA5 > curr.MA20,
		MaDeadCross:   prev.MA5 > prev.MA20 && curr.MA5 < curr.MA20,

		PriceRebound: priceRebound(prev, curr, close, prevClose, in.RecentLow),
	}

	if !sig.Any() {
		return nil
	}
	return sig
}

// priceRebound is the composite recovery predicate: any sub-condition makes
// the flag fire.
func priceRebound(prev, curr *indicator.Snapshot, close, prevClose, recentLow float64) bool {
	// Yesterday below the lower band, today back above it.
	if prevClose < prev.BollDown && close > curr.BollDown {
		return true
	}
	// Reclaimed the short moving average.
	if prevClose < prev.MA5 && close > curr.MA5 {
		return true
	}
	// RSI recovered out of oversold.
	if prev.RSI6 < 30 && curr.RSI6 > 30 {
		return true
	}
	// Holding above the short moving average.
	if close > curr.MA5 {
		return true
	}
	// Bounced off the recent low.
	if close >= reboundRatio*recentLow {
		return true
	}
	return false
}
