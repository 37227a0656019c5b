// Package strategy holds the trading strategies that scan merged bar and
// indicator history for buy/sell events.
package strategy

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/homeant/todify/internal/domain/indicator"
	"github.com/homeant/todify/internal/domain/market"
	"github.com/homeant/todify/internal/domain/signal"
	"github.com/homeant/todify/internal/pkg/dates"
)

// Row is one trading day of merged bar and indicator data. Strategies only
// ever see days where both sides exist.
type Row struct {
	Bar  *market.Bar
	Snap *indicator.Snapshot
}

// Close returns the day's closing price.
func (r Row) Close() float64 {
	return r.Bar.Close.InexactFloat64()
}

// Volume returns the day's traded volume.
func (r Row) Volume() float64 {
	return float64(r.Bar.Volume)
}

// Strategy scans an ascending-date history and emits buy/sell events.
// Fewer than two rows yields no events; detection always needs an adjacent
// pair.
type Strategy interface {
	Name() string
	GenerateSignals(history []Row) []*signal.StrategySignal
}

var registry = func() map[string]Strategy {
	all := []Strategy{
		MacdCross{},
		KdjCross{},
		RsiThreshold{},
		BollBreak{},
		DmiCross{},
		CciReversal{},
		VolumeUp{},
		Combo{},
	}
	m := make(map[string]Strategy, len(all))
	for _, s := range all {
		m[s.Name()] = s
	}
	return m
}()

// All returns every registered strategy.
func All() []Strategy {
	out := make([]Strategy, 0, len(registry))
	for _, s := range []string{"macd_cross", "kdj", "rsi", "boll", "dmi", "cci", "volume_up", "combo"} {
		out = append(out, registry[s])
	}
	return out
}

// Get returns a strategy by name.
func Get(name string) (Strategy, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", signal.ErrUnknownStrategy, name)
	}
	return s, nil
}

// event builds one strategy event for the given row.
func event(r Row, strategyName string, typ signal.SignalType, desc string) *signal.StrategySignal {
	return &signal.StrategySignal{
		ID:         uuid.New(),
		Code:       r.Bar.Code,
		Name:       r.Bar.Name,
		TradeDate:  dates.Day(r.Bar.TradeDate),
		Strategy:   strategyName,
		SignalType: typ,
		SignalDesc: desc,
	}
}
