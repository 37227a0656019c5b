package strategy

import (
	"fmt"

	"github.com/homeant/todify/internal/domain/signal"
)

// MacdCross trades the DIFF/DEA crossover: buy when DIFF crosses above DEA,
// sell when it crosses below.
type MacdCross struct{}

func (MacdCross) Name() string { return "macd_cross" }

func (s MacdCross) GenerateSignals(history []Row) []*signal.StrategySignal {
	var events []*signal.StrategySignal
	for i := 1; i < len(history); i++ {
		prev, curr := history[i-1].Snap, history[i].Snap

		if prev.Diff <= prev.Dea && curr.Diff > curr.Dea {
			events = append(events, event(history[i], s.Name(), signal.SignalBuy,
				fmt.Sprintf("MACD golden cross: DIFF %.3f above DEA %.3f", curr.Diff, curr.Dea)))
		}
		if prev.Diff >= prev.Dea && curr.Diff < curr.Dea {
			events = append(events, event(history[i], s.Name(), signal.SignalSell,
				fmt.Sprintf("MACD dead cross: DIFF %.3f below DEA %.3f", curr.Diff, curr.Dea)))
		}
	}
	return events
}
