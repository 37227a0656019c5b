package signal

import (
	"context"
	"time"
)

// Repository defines storage for detected signals and strategy events.
type Repository interface {
	// Get returns the signal at (code, date), ErrSignalNotFound when absent.
	Get(ctx context.Context, code string, date time.Time) (*Signal, error)

	// Save inserts a new signal row.
	Save(ctx context.Context, sig *Signal) error

	// Upsert inserts or replaces the flag columns at (code, trade_date).
	// AI columns are preserved on conflict.
	Upsert(ctx context.Context, sig *Signal) error

	// SetAnalysis attaches the AI analysis text and score to an existing row.
	SetAnalysis(ctx context.Context, code string, date time.Time, analysis string, score float64) error

	// SaveStrategySignals inserts strategy events in one batch.
	SaveStrategySignals(ctx context.Context, events []*StrategySignal) (int, error)

	// GetStrategySignalsByDate returns all strategy events for one day.
	GetStrategySignalsByDate(ctx context.Context, date time.Time) ([]*StrategySignal, error)
}
