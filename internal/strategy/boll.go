package strategy

import (
	"fmt"

	"github.com/homeant/todify/internal/domain/signal"
)

// BollBreak is a mean-reversion play on the Bollinger bands: a close below
// the lower band is a buy, a close above the upper band is a sell. Events
// fire on the break day only.
type BollBreak struct{}

func (BollBreak) Name() string { return "boll" }

func (s BollBreak) GenerateSignals(history []Row) []*signal.StrategySignal {
	var events []*signal.StrategySignal
	for i := 1; i < len(history); i++ {
		prev, curr := history[i-1], history[i]

		if prev.Close() >= prev.Snap.BollDown && curr.Close() < curr.Snap.BollDown {
			events = append(events, event(curr, s.Name(), signal.SignalBuy,
				fmt.Sprintf("Close %.2f broke below lower band %.2f", curr.Close(), curr.Snap.BollDown)))
		}
		if prev.Close() <= prev.Snap.BollUp && curr.Close() > curr.Snap.BollUp {
			events = append(events, event(curr, s.Name(), signal.SignalSell,
				fmt.Sprintf("Close %.2f broke above upper band %.2f", curr.Close(), curr.Snap.BollUp)))
		}
	}
	return events
}
