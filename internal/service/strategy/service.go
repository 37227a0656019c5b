// Package strategy materializes strategy events over merged bar and
// indicator history.
package strategy

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	domainind "github.com/homeant/todify/internal/domain/indicator"
	"github.com/homeant/todify/internal/domain/market"
	"github.com/homeant/todify/internal/domain/signal"
	"github.com/homeant/todify/internal/pkg/dates"
	"github.com/homeant/todify/internal/strategy"
)

// warmupDays is the calendar-day slack loaded before the start date so the
// first in-range day has an adjacent predecessor pair.
const warmupDays = 10

// Notifier pushes the post-run digest. The telegram notifier satisfies this.
type Notifier interface {
	SendMessage(ctx context.Context, text string) error
}

// Service runs the strategy set over one stock and persists the events.
type Service struct {
	markets    market.Repository
	indicators domainind.Repository
	signals    signal.Repository
	notifier   Notifier
}

// NewService creates the service. notifier may be nil.
func NewService(markets market.Repository, indicators domainind.Repository, signals signal.Repository, notifier Notifier) *Service {
	return &Service{
		markets:    markets,
		indicators: indicators,
		signals:    signals,
		notifier:   notifier,
	}
}

// RunStrategies runs every registered strategy for one stock from startDate
// onward and saves the emitted events. Events in the warm-up slack before
// startDate are dropped. Returns the number of rows saved.
func (s *Service) RunStrategies(ctx context.Context, code string, startDate time.Time) (int, error) {
	startDate = dates.Day(startDate)

	history, err := s.loadHistory(ctx, code, startDate)
	if err != nil {
		return 0, err
	}
	if len(history) < 2 {
		log.Debug().Str("code", code).Msg("Not enough history for strategies")
		return 0, nil
	}

	var events []*signal.StrategySignal
	for _, strat := range strategy.All() {
		for _, e := range strat.GenerateSignals(history) {
			if e.TradeDate.Before(startDate) {
				continue
			}
			events = append(events, e)
		}
	}

	saved, err := s.signals.SaveStrategySignals(ctx, events)
	if err != nil {
		return saved, fmt.Errorf("save strategy signals for %s: %w", code, err)
	}

	log.Info().
		Str("code", code).
		Str("start", dates.Format(startDate)).
		Int("events", len(events)).
		Int("saved", saved).
		Msg("Strategies materialized")

	return saved, nil
}

// RunStrategy runs a single named strategy over the given history without
// persisting anything.
func (s *Service) RunStrategy(name string, history []strategy.Row) ([]*signal.StrategySignal, error) {
	strat, err := strategy.Get(name)
	if err != nil {
		return nil, err
	}
	return strat.GenerateSignals(history), nil
}

// loadHistory merges bars and snapshots on trade date, ascending. Days
// missing either side are dropped.
func (s *Service) loadHistory(ctx context.Context, code string, startDate time.Time) ([]strategy.Row, error) {
	from := startDate.AddDate(0, 0, -warmupDays)

	snaps, err := s.indicators.GetHistory(ctx, code, from)
	if err != nil {
		return nil, fmt.Errorf("load indicator history for %s: %w", code, err)
	}
	bars, err := s.markets.GetBarHistory(ctx, code, from)
	if err != nil {
		return nil, fmt.Errorf("load bar history for %s: %w", code, err)
	}

	barsByDate := make(map[time.Time]*market.Bar, len(bars))
	for _, b := range bars {
		barsByDate[dates.Day(b.TradeDate)] = b
	}

	var history []strategy.Row
	for _, snap := range snaps {
		if bar, ok := barsByDate[dates.Day(snap.TradeDate)]; ok {
			history = append(history, strategy.Row{Bar: bar, Snap: snap})
		}
	}
	return history, nil
}

// NotifyDigest sends a per-strategy buy/sell summary for one day.
func (s *Service) NotifyDigest(ctx context.Context, date time.Time) error {
	if s.notifier == nil {
		return nil
	}
	date = dates.Day(date)

	events, err := s.signals.GetStrategySignalsByDate(ctx, date)
	if err != nil {
		return fmt.Errorf("load strategy signals for digest: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	if err := s.notifier.SendMessage(ctx, buildDigest(date, events)); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

// buildDigest renders the digest grouped by strategy, buys before sells.
func buildDigest(date time.Time, events []*signal.StrategySignal) string {
	type bucket struct {
		buys, sells []string
	}
	buckets := make(map[string]*bucket)
	var order []string
	for _, e := range events {
		b, ok := buckets[e.Strategy]
		if !ok {
			b = &bucket{}
			buckets[e.Strategy] = b
			order = append(order, e.Strategy)
		}
		entry := fmt.Sprintf("%s %s", e.Code, e.Name)
		if e.SignalType == signal.SignalBuy {
			b.buys = append(b.buys, entry)
		} else {
			b.sells = append(b.sells, entry)
		}
	}
	sort.Strings(order)

	var sb strings.Builder
	fmt.Fprintf(&sb, "*Strategy signals for %s*\n", dates.Format(date))
	for _, name := range order {
		b := buckets[name]
		fmt.Fprintf(&sb, "\n*%s*\n", name)
		if len(b.buys) > 0 {
			fmt.Fprintf(&sb, "buy: %s\n", strings.Join(b.buys, ", "))
		}
		if len(b.sells) > 0 {
			fmt.Fprintf(&sb, "sell: %s\n", strings.Join(b.sells, ", "))
		}
	}
	return sb.String()
}
