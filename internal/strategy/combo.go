package strategy

import (
	"fmt"

	"github.com/homeant/todify/internal/domain/signal"
)

// Combo is a buy-only confluence strategy: MACD golden cross while KDJ sits
// in oversold and volume runs above its 5-day average.
type Combo struct{}

func (Combo) Name() string { return "combo" }

func (s Combo) GenerateSignals(history []Row) []*signal.StrategySignal {
	var events []*signal.StrategySignal
	for i := 1; i < len(history); i++ {
		prev, curr := history[i-1], history[i]

		macdCross := prev.Snap.Diff <= prev.Snap.Dea && curr.Snap.Diff > curr.Snap.Dea
		oversold := curr.Snap.K < 20
		volumeUp := curr.Volume() > curr.Snap.VMA5

		if macdCross && oversold && volumeUp {
			events = append(events, event(curr, s.Name(), signal.SignalBuy,
				fmt.Sprintf("MACD golden cross with K %.2f oversold and rising volume", curr.Snap.K)))
		}
	}
	return events
}
