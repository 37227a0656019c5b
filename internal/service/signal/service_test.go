package signal

import (
	"context"
	"math"
	"testing"
	"time"

	domainind "github.com/homeant/todify/internal/domain/indicator"
	"github.com/homeant/todify/internal/domain/market"
	"github.com/homeant/todify/internal/domain/signal"
	"github.com/homeant/todify/internal/pkg/dates"
)

type fakeMarketRepo struct {
	bars map[time.Time]*market.Bar
	low  float64
}

func (f *fakeMarketRepo) GetBar(ctx context.Context, code string, date time.Time) (*market.Bar, error) {
	if b, ok := f.bars[dates.Day(date)]; ok {
		return b, nil
	}
	return nil, market.ErrBarNotFound
}

func (f *fakeMarketRepo) GetBarHistory(ctx context.Context, code string, from time.Time) ([]*market.Bar, error) {
	return nil, nil
}

func (f *fakeMarketRepo) GetLowestLow(ctx context.Context, code string, date time.Time, n int) (float64, error) {
	if math.IsNaN(f.low) {
		return 0, market.ErrBarNotFound
	}
	return f.low, nil
}

func (f *fakeMarketRepo) SaveBars(ctx context.Context, bars []*market.Bar) (int, error) {
	return 0, nil
}

func (f *fakeMarketRepo) SaveLhbEntries(ctx context.Context, entries []*market.LhbEntry) (int, error) {
	return 0, nil
}

func (f *fakeMarketRepo) SaveBlockTrades(ctx context.Context, trades []*market.BlockTrade) (int, error) {
	return 0, nil
}

func (f *fakeMarketRepo) ListCodes(ctx context.Context) ([]string, error) {
	return nil, nil
}

type fakeIndicatorRepo struct {
	snaps map[time.Time]*domainind.Snapshot
}

func (f *fakeIndicatorRepo) Get(ctx context.Context, code string, date time.Time) (*domainind.Snapshot, error) {
	if s, ok := f.snaps[dates.Day(date)]; ok {
		return s, nil
	}
	return nil, domainind.ErrSnapshotNotFound
}

func (f *fakeIndicatorRepo) GetHistory(ctx context.Context, code string, from time.Time) ([]*domainind.Snapshot, error) {
	return nil, nil
}

func (f *fakeIndicatorRepo) ExistingDates(ctx context.Context, code string, from time.Time) (map[time.Time]bool, error) {
	return nil, nil
}

func (f *fakeIndicatorRepo) SaveBatch(ctx context.Context, snapshots []*domainind.Snapshot) (int, error) {
	return 0, nil
}

type fakeSignalRepo struct {
	rows    map[time.Time]*signal.Signal
	saves   int
	upserts int
}

func newFakeSignalRepo() *fakeSignalRepo {
	return &fakeSignalRepo{rows: make(map[time.Time]*signal.Signal)}
}

func (f *fakeSignalRepo) Get(ctx context.Context, code string, date time.Time) (*signal.Signal, error) {
	if s, ok := f.rows[dates.Day(date)]; ok {
		return s, nil
	}
	return nil, signal.ErrSignalNotFound
}

func (f *fakeSignalRepo) Save(ctx context.Context, sig *signal.Signal) error {
	f.rows[dates.Day(sig.TradeDate)] = sig
	f.saves++
	return nil
}

func (f *fakeSignalRepo) Upsert(ctx context.Context, sig *signal.Signal) error {
	f.rows[dates.Day(sig.TradeDate)] = sig
	f.upserts++
	return nil
}

func (f *fakeSignalRepo) SetAnalysis(ctx context.Context, code string, date time.Time, analysis string, score float64) error {
	return nil
}

func (f *fakeSignalRepo) SaveStrategySignals(ctx context.Context, events []*signal.StrategySignal) (int, error) {
	return 0, nil
}

func (f *fakeSignalRepo) GetStrategySignalsByDate(ctx context.Context, date time.Time) ([]*signal.StrategySignal, error) {
	return nil, nil
}

// crossFixture builds two adjacent days where day two is a MACD golden cross.
func crossFixture() (*fakeMarketRepo, *fakeIndicatorRepo) {
	prev := nanSnapshot("600000", d1)
	prev.Diff, prev.Dea = -1, -0.3
	curr := nanSnapshot("600000", d2)
	curr.Diff, curr.Dea = -0.5, -0.4

	markets := &fakeMarketRepo{
		bars: map[time.Time]*market.Bar{
			d1: testBar("600000", d1, 10),
			d2: testBar("600000", d2, 10),
		},
		low: math.NaN(),
	}
	indicators := &fakeIndicatorRepo{
		snaps: map[time.Time]*domainind.Snapshot{d1: prev, d2: curr},
	}
	return markets, indicators
}

func newTestService(t *testing.T, markets *fakeMarketRepo, indicators *fakeIndicatorRepo, signals *fakeSignalRepo, replay signal.ReplayPolicy, today time.Time) *Service {
	t.Helper()
	svc, err := NewService(markets, indicators, signals, replay)
	if err != nil {
		t.Fatal(err)
	}
	svc.now = func() time.Time { return today }
	return svc
}

func TestComputeSignals(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the cross day only", func(t *testing.T) {
		markets, indicators := crossFixture()
		signals := newFakeSignalRepo()
		svc := newTestService(t, markets, indicators, signals, signal.ReplaySkip, d2)

		written, err := svc.ComputeSignals(ctx, "600000", d1)
		if err != nil {
			t.Fatal(err)
		}
		if written != 1 {
			t.Fatalf("written = %d, want 1", written)
		}
		row := signals.rows[d2]
		if row == nil || !row.MacdGoldenCross {
			t.Fatalf("expected golden cross row at %s", dates.Format(d2))
		}
		if _, ok := signals.rows[d1]; ok {
			t.Fatal("day without a predecessor must not produce a row")
		}
	})

	t.Run("replay with skip writes nothing", func(t *testing.T) {
		markets, indicators := crossFixture()
		signals := newFakeSignalRepo()
		svc := newTestService(t, markets, indicators, signals, signal.ReplaySkip, d2)

		if _, err := svc.ComputeSignals(ctx, "600000", d1); err != nil {
			t.Fatal(err)
		}
		written, err := svc.ComputeSignals(ctx, "600000", d1)
		if err != nil {
			t.Fatal(err)
		}
		if written != 0 {
			t.Fatalf("replay wrote %d rows, want 0", written)
		}
		if signals.saves != 1 || signals.upserts != 0 {
			t.Fatalf("saves=%d upserts=%d", signals.saves, signals.upserts)
		}
	})

	t.Run("replay with recompute upserts", func(t *testing.T) {
		markets, indicators := crossFixture()
		signals := newFakeSignalRepo()
		svc := newTestService(t, markets, indicators, signals, signal.ReplayRecompute, d2)

		if _, err := svc.ComputeSignals(ctx, "600000", d1); err != nil {
			t.Fatal(err)
		}
		written, err := svc.ComputeSignals(ctx, "600000", d1)
		if err != nil {
			t.Fatal(err)
		}
		if written != 1 {
			t.Fatalf("recompute wrote %d rows, want 1", written)
		}
		if signals.upserts != 1 {
			t.Fatalf("upserts = %d, want 1", signals.upserts)
		}
	})

	t.Run("monday has no calendar predecessor", func(t *testing.T) {
		fri := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		mon := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)

		prev := nanSnapshot("600000", fri)
		prev.Diff, prev.Dea = -1, -0.3
		curr := nanSnapshot("600000", mon)
		curr.Diff, curr.Dea = -0.5, -0.4

		markets := &fakeMarketRepo{
			bars: map[time.Time]*market.Bar{
				fri: testBar("600000", fri, 10),
				mon: testBar("600000", mon, 10),
			},
			low: math.NaN(),
		}
		indicators := &fakeIndicatorRepo{
			snaps: map[time.Time]*domainind.Snapshot{fri: prev, mon: curr},
		}
		signals := newFakeSignalRepo()
		svc := newTestService(t, markets, indicators, signals, signal.ReplaySkip, mon)

		written, err := svc.ComputeSignals(ctx, "600000", fri)
		if err != nil {
			t.Fatal(err)
		}
		// Sunday carries no snapshot, so the Monday cross is not detected.
		if written != 0 {
			t.Fatalf("written = %d, want 0", written)
		}
	})

	t.Run("rejects unknown replay policy", func(t *testing.T) {
		if _, err := NewService(&fakeMarketRepo{}, &fakeIndicatorRepo{}, newFakeSignalRepo(), signal.ReplayPolicy("always")); err == nil {
			t.Fatal("expected error for unknown policy")
		}
	})
}
