package signal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	domainind "github.com/homeant/todify/internal/domain/indicator"
	"github.com/homeant/todify/internal/domain/market"
	"github.com/homeant/todify/internal/domain/signal"
	"github.com/homeant/todify/internal/pkg/dates"
)

// recentLowWindow is the trailing bar count backing the rebound predicate.
const recentLowWindow = 20

// Service materializes detected signals per stock.
type Service struct {
	markets    market.Repository
	indicators domainind.Repository
	signals    signal.Repository
	replay     signal.ReplayPolicy
	now        func() time.Time
}

// NewService creates the service. replay decides what a re-run does with an
// existing signal row.
func NewService(markets market.Repository, indicators domainind.Repository, signals signal.Repository, replay signal.ReplayPolicy) (*Service, error) {
	if !replay.IsValid() {
		return nil, fmt.Errorf("%w: %q", signal.ErrInvalidPolicy, replay)
	}
	return &Service{
		markets:    markets,
		indicators: indicators,
		signals:    signals,
		replay:     replay,
		now:        time.Now,
	}, nil
}

// ComputeSignals walks every calendar day from startDate through today.
// Days without an indicator snapshot, bar or previous-day snapshot are
// skipped silently; not every calendar day is a trading day. The previous
// snapshot is looked up at calendar date-1, so a Monday has no predecessor
// and detects nothing. Returns the number of signal rows written.
func (s *Service) ComputeSignals(ctx context.Context, code string, startDate time.Time) (int, error) {
	startDate = dates.Day(startDate)
	today := dates.Day(s.now().UTC())

	written := 0
	for date := startDate; !date.After(today); date = date.AddDate(0, 0, 1) {
		wrote, err := s.computeDay(ctx, code, date)
		if err != nil {
			return written, fmt.Errorf("compute signal for %s at %s: %w", code, dates.Format(date), err)
		}
		if wrote {
			written++
		}
	}

	log.Info().
		Str("code", code).
		Str("start", dates.Format(startDate)).
		Int("written", written).
		Msg("Signals materialized")

	return written, nil
}

func (s *Service) computeDay(ctx context.Context, code string, date time.Time) (bool, error) {
	curr, err := s.indicators.Get(ctx, code, date)
	if err != nil {
		if errors.Is(err, domainind.ErrSnapshotNotFound) {
			return false, nil
		}
		return false, err
	}

	bar, err := s.markets.GetBar(ctx, code, date)
	if err != nil {
		if errors.Is(err, market.ErrBarNotFound) {
			return false, nil
		}
		return false, err
	}

	prevDate := date.AddDate(0, 0, -1)
	prev, err := s.indicators.Get(ctx, code, prevDate)
	if err != nil {
		if errors.Is(err, domainind.ErrSnapshotNotFound) {
			return false, nil
		}
		return false, err
	}

	prevBar, err := s.markets.GetBar(ctx, code, prevDate)
	if err != nil {
		if errors.Is(err, market.ErrBarNotFound) {
			prevBar = nil
		} else {
			return false, err
		}
	}

	recentLow, err := s.markets.GetLowestLow(ctx, code, date, recentLowWindow)
	if err != nil {
		if errors.Is(err, market.ErrBarNotFound) {
			recentLow = math.NaN()
		} else {
			return false, err
		}
	}

	sig := Detect(Input{
		Prev:      prev,
		Curr:      curr,
		Bar:       bar,
		PrevBar:   prevBar,
		RecentLow: recentLow,
	})
	if sig == nil {
		return false, nil
	}

	_, err = s.signals.Get(ctx, code, date)
	switch {
	case err == nil:
		if s.replay == signal.ReplaySkip {
			return false, nil
		}
		if err := s.signals.Upsert(ctx, sig); err != nil {
			return false, err
		}
		return true, nil
	case errors.Is(err, signal.ErrSignalNotFound):
		if err := s.signals.Save(ctx, sig); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}
