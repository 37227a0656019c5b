package strategy

import (
	"fmt"

	"github.com/homeant/todify/internal/domain/signal"
)

// RsiThreshold trades RSI6 band entries: buy when it drops into oversold
// (below 30), sell when it rises into overbought (above 70). Events fire on
// the entry day only, not on every day spent inside the band.
type RsiThreshold struct{}

func (RsiThreshold) Name() string { return "rsi" }

func (s RsiThreshold) GenerateSignals(history []Row) []*signal.StrategySignal {
	var events []*signal.StrategySignal
	for i := 1; i < len(history); i++ {
		prev, curr := history[i-1].Snap, history[i].Snap

		if prev.RSI6 >= 30 && curr.RSI6 < 30 {
			events = append(events, event(history[i], s.Name(), signal.SignalBuy,
				fmt.Sprintf("RSI6 %.2f entered oversold", curr.RSI6)))
		}
		if prev.RSI6 <= 70 && curr.RSI6 > 70 {
			events = append(events, event(history[i], s.Name(), signal.SignalSell,
				fmt.Sprintf("RSI6 %.2f entered overbought", curr.RSI6)))
		}
	}
	return events
}
