package strategy

import (
	"fmt"

	"github.com/homeant/todify/internal/domain/signal"
)

// volumeSurgeRatio is the multiple of the 5-day volume average that counts
// as a surge.
const volumeSurgeRatio = 2.0

// VolumeUp is a buy-only strategy: volume at least twice the 5-day average
// on an up day.
type VolumeUp struct{}

func (VolumeUp) Name() string { return "volume_up" }

func (s VolumeUp) GenerateSignals(history []Row) []*signal.StrategySignal {
	var events []*signal.StrategySignal
	for i := 1; i < len(history); i++ {
		prev, curr := history[i-1], history[i]

		if curr.Volume() >= volumeSurgeRatio*curr.Snap.VMA5 && curr.Close() > prev.Close() {
			events = append(events, event(curr, s.Name(), signal.SignalBuy,
				fmt.Sprintf("Volume %.0f at %.1fx the 5-day average on an up day",
					curr.Volume(), curr.Volume()/curr.Snap.VMA5)))
		}
	}
	return events
}
