package indicator

import (
	"context"
	"time"
)

// Repository defines storage for indicator snapshots.
type Repository interface {
	// Get returns the snapshot at (code, date), ErrSnapshotNotFound when absent.
	Get(ctx context.Context, code string, date time.Time) (*Snapshot, error)

	// GetHistory returns snapshots for a stock from `from` onward, ascending.
	GetHistory(ctx context.Context, code string, from time.Time) ([]*Snapshot, error)

	// ExistingDates returns the set of trade dates (normalized to midnight UTC)
	// that already have a snapshot for the stock from `from` onward.
	ExistingDates(ctx context.Context, code string, from time.Time) (map[time.Time]bool, error)

	// SaveBatch inserts snapshots. Callers must have filtered out existing
	// (code, trade_date) keys; rows are never overwritten.
	SaveBatch(ctx context.Context, snapshots []*Snapshot) (int, error)
}
