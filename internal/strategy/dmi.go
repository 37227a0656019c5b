package strategy

import (
	"fmt"

	"github.com/homeant/todify/internal/domain/signal"
)

// adxTrendFloor filters DMI crosses in weak trends.
const adxTrendFloor = 25

// DmiCross trades the PDI/MDI crossover, confirmed by ADX above the trend
// floor.
type DmiCross struct{}

func (DmiCross) Name() string { return "dmi" }

func (s DmiCross) GenerateSignals(history []Row) []*signal.StrategySignal {
	var events []*signal.StrategySignal
	for i := 1; i < len(history); i++ {
		prev, curr := history[i-1].Snap, history[i].Snap

		if curr.ADX <= adxTrendFloor {
			continue
		}
		if prev.PDI <= prev.MDI && curr.PDI > curr.MDI {
			events = append(events, event(history[i], s.Name(), signal.SignalBuy,
				fmt.Sprintf("PDI %.2f crossed above MDI %.2f with ADX %.2f", curr.PDI, curr.MDI, curr.ADX)))
		}
		if prev.PDI >= prev.MDI && curr.PDI < curr.MDI {
			events = append(events, event(history[i], s.Name(), signal.SignalSell,
				fmt.Sprintf("PDI %.2f crossed below MDI %.2f with ADX %.2f", curr.PDI, curr.MDI, curr.ADX)))
		}
	}
	return events
}
