package strategy

import (
	"fmt"

	"github.com/homeant/todify/internal/domain/signal"
)

// KdjCross trades the K/D crossover.
type KdjCross struct{}

func (KdjCross) Name() string { return "kdj" }

func (s KdjCross) GenerateSignals(history []Row) []*signal.StrategySignal {
	var events []*signal.StrategySignal
	for i := 1; i < len(history); i++ {
		prev, curr := history[i-1].Snap, history[i].Snap

		if prev.K <= prev.D && curr.K > curr.D {
			events = append(events, event(history[i], s.Name(), signal.SignalBuy,
				fmt.Sprintf("KDJ golden cross: K %.2f above D %.2f", curr.K, curr.D)))
		}
		if prev.K >= prev.D && curr.K < curr.D {
			events = append(events, event(history[i], s.Name(), signal.SignalSell,
				fmt.Sprintf("KDJ dead cross: K %.2f below D %.2f", curr.K, curr.D)))
		}
	}
	return events
}
