// Package indicator materializes technical indicator snapshots from stored
// daily bars.
package indicator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	domain "github.com/homeant/todify/internal/domain/indicator"
	"github.com/homeant/todify/internal/domain/market"
	"github.com/homeant/todify/internal/pkg/dates"
	"github.com/homeant/todify/internal/ta"
)

// Service computes and persists indicator snapshots per stock.
type Service struct {
	markets      market.Repository
	indicators   domain.Repository
	lookbackDays int
}

// NewService creates the service. lookbackDays is the calendar-day history
// window loaded before the start date; it must cover the slowest indicator's
// warm-up (MA60 needs 60 trading days).
func NewService(markets market.Repository, indicators domain.Repository, lookbackDays int) *Service {
	return &Service{
		markets:      markets,
		indicators:   indicators,
		lookbackDays: lookbackDays,
	}
}

// ComputeIndicators computes snapshots for one stock for every trade date
// from startDate onward that has a bar, skipping dates that already have a
// snapshot and dates where the warm-up window is not yet filled. The run is
// idempotent: replays insert nothing.
func (s *Service) ComputeIndicators(ctx context.Context, code string, startDate time.Time) (int, error) {
	startDate = dates.Day(startDate)
	lookback := startDate.AddDate(0, 0, -s.lookbackDays)

	bars, err := s.markets.GetBarHistory(ctx, code, lookback)
	if err != nil {
		return 0, fmt.Errorf("load bar history for %s: %w", code, err)
	}
	if len(bars) == 0 {
		log.Debug().Str("code", code).Msg("No bars in lookback window")
		return 0, nil
	}

	frame, err := ta.Compute(toEngineBars(bars))
	if err != nil {
		return 0, fmt.Errorf("compute indicators for %s: %w", code, err)
	}

	existing, err := s.indicators.ExistingDates(ctx, code, startDate)
	if err != nil {
		return 0, fmt.Errorf("load existing snapshot dates for %s: %w", code, err)
	}

	var snapshots []*domain.Snapshot
	for i := range bars {
		date := dates.Day(bars[i].TradeDate)
		if date.Before(startDate) {
			continue
		}
		if existing[date] {
			continue
		}
		snap := snapshotAt(frame, i, bars[i])
		if !snap.Warmed() {
			continue
		}
		snapshots = append(snapshots, snap)
	}

	saved, err := s.indicators.SaveBatch(ctx, snapshots)
	if err != nil {
		return saved, fmt.Errorf("save snapshots for %s: %w", code, err)
	}

	log.Info().
		Str("code", code).
		Str("start", dates.Format(startDate)).
		Int("computed", len(snapshots)).
		Int("saved", saved).
		Msg("Indicator snapshots materialized")

	return saved, nil
}

// toEngineBars converts stored bars to the engine's float representation.
func toEngineBars(bars []*market.Bar) []ta.Bar {
	out := make([]ta.Bar, len(bars))
	for i, b := range bars {
		out[i] = ta.Bar{
			Date:   dates.Day(b.TradeDate),
			Open:   b.Open.InexactFloat64(),
			High:   b.High.InexactFloat64(),
			Low:    b.Low.InexactFloat64(),
			Close:  b.Close.InexactFloat64(),
			Volume: float64(b.Volume),
		}
	}
	return out
}

// snapshotAt copies row i of the frame into a snapshot.
func snapshotAt(f *ta.Frame, i int, bar *market.Bar) *domain.Snapshot {
	return &domain.Snapshot{
		Code:      bar.Code,
		Name:      bar.Name,
		TradeDate: dates.Day(bar.TradeDate),

		MA5:  f.MA5[i],
		MA10: f.MA10[i],
		MA20: f.MA20[i],
		MA30: f.MA30[i],
		MA60: f.MA60[i],

		Diff: f.Diff[i],
		Dea:  f.Dea[i],
		Macd: f.Macd[i],

		K: f.K[i],
		D: f.D[i],
		J: f.J[i],

		RSI6:  f.RSI6[i],
		RSI12: f.RSI12[i],
		RSI24: f.RSI24[i],

		BollUp:   f.BollUp[i],
		BollMid:  f.BollMid[i],
		BollDown: f.BollDown[i],

		VMA5:  f.VMA5[i],
		VMA10: f.VMA10[i],
		VMA20: f.VMA20[i],

		PDI:  f.PDI[i],
		MDI:  f.MDI[i],
		ADX:  f.ADX[i],
		ADXR: f.ADXR[i],

		Trix:   f.Trix[i],
		Matrix: f.Matrix[i],

		CCI: f.CCI[i],
		ATR: f.ATR[i],

		CR:    f.CR[i],
		CRMA1: f.CRMA1[i],
		CRMA2: f.CRMA2[i],
		CRMA3: f.CRMA3[i],

		ROC:   f.ROC[i],
		ROCMA: f.ROCMA[i],

		PSY:   f.PSY[i],
		PSYMA: f.PSYMA[i],

		DMA: f.DMA[i],
		AMA: f.AMA[i],
	}
}
