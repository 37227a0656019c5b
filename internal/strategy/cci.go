package strategy

import (
	"fmt"

	"github.com/homeant/todify/internal/domain/signal"
)

// CciReversal trades CCI band exits: buy when CCI recovers above -100, sell
// when it falls back below +100.
type CciReversal struct{}

func (CciReversal) Name() string { return "cci" }

func (s CciReversal) GenerateSignals(history []Row) []*signal.StrategySignal {
	var events []*signal.StrategySignal
	for i := 1; i < len(history); i++ {
		prev, curr := history[i-1].Snap, history[i].Snap

		if prev.CCI < -100 && curr.CCI >= -100 {
			events = append(events, event(history[i], s.Name(), signal.SignalBuy,
				fmt.Sprintf("CCI %.2f recovered above -100", curr.CCI)))
		}
		if prev.CCI > 100 && curr.CCI <= 100 {
			events = append(events, event(history[i], s.Name(), signal.SignalSell,
				fmt.Sprintf("CCI %.2f fell back below +100", curr.CCI)))
		}
	}
	return events
}
