package strategy

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainind "github.com/homeant/todify/internal/domain/indicator"
	"github.com/homeant/todify/internal/domain/market"
	"github.com/homeant/todify/internal/domain/signal"
	"github.com/homeant/todify/internal/pkg/dates"
)

type fakeMarketRepo struct {
	bars []*market.Bar
}

func (f *fakeMarketRepo) GetBar(ctx context.Context, code string, date time.Time) (*market.Bar, error) {
	return nil, market.ErrBarNotFound
}

func (f *fakeMarketRepo) GetBarHistory(ctx context.Context, code string, from time.Time) ([]*market.Bar, error) {
	var out []*market.Bar
	for _, b := range f.bars {
		if !b.TradeDate.Before(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeMarketRepo) GetLowestLow(ctx context.Context, code string, date time.Time, n int) (float64, error) {
	return 0, market.ErrBarNotFound
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

func (f *fakeMarketRepo) ListCodes(ctx context.Context) ([]string, error) { return nil, nil }

type fakeIndicatorRepo struct {
	snaps []*domainind.Snapshot
}

func (f *fakeIndicatorRepo) Get(ctx context.Context, code string, date time.Time) (*domainind.Snapshot, error) {
	return nil, domainind.ErrSnapshotNotFound
}

func (f *fakeIndicatorRepo) GetHistory(ctx context.Context, code string, from time.Time) ([]*domainind.Snapshot, error) {
	var out []*domainind.Snapshot
	for _, s := range f.snaps {
		if !s.TradeDate.Before(from) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeIndicatorRepo) ExistingDates(ctx context.Context, code string, from time.Time) (map[time.Time]bool, error) {
	return nil, nil
}

func (f *fakeIndicatorRepo) SaveBatch(ctx context.Context, snapshots []*domainind.Snapshot) (int, error) {
	return 0, nil
}

type fakeSignalRepo struct {
	events []*signal.StrategySignal
	byDate []*signal.StrategySignal
}

func (f *fakeSignalRepo) Get(ctx context.Context, code string, date time.Time) (*signal.Signal, error) {
	return nil, signal.ErrSignalNotFound
}

func (f *fakeSignalRepo) Save(ctx context.Context, sig *signal.Signal) error   { return nil }
func (f *fakeSignalRepo) Upsert(ctx context.Context, sig *signal.Signal) error { return nil }

func (f *fakeSignalRepo) SetAnalysis(ctx context.Context, code string, date time.Time, analysis string, score float64) error {
	return nil
}

func (f *fakeSignalRepo) SaveStrategySignals(ctx context.Context, events []*signal.StrategySignal) (int, error) {
	f.events = append(f.events, events...)
	return len(events), nil
}

func (f *fakeSignalRepo) GetStrategySignalsByDate(ctx context.Context, date time.Time) ([]*signal.StrategySignal, error) {
	return f.byDate, nil
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) SendMessage(ctx context.Context, text string) error {
	f.messages = append(f.messages, text)
	return nil
}

func day(i int) time.Time {
	return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func nanSnap(date time.Time) *domainind.Snapshot {
	nan := math.NaN()
	return &domainind.Snapshot{
		Code: "600000", Name: "Test", TradeDate: date,
		MA5: nan, MA10: nan, MA20: nan, MA30: nan, MA60: nan,
		Diff: nan, Dea: nan, Macd: nan,
		K: nan, D: nan, J: nan,
		RSI6: nan, RSI12: nan, RSI24: nan,
		BollUp: nan, BollMid: nan, BollDown: nan,
		VMA5: nan, VMA10: nan, VMA20: nan,
		PDI: nan, MDI: nan, ADX: nan, ADXR: nan,
		Trix: nan, Matrix: nan,
		CCI: nan, ATR: nan,
		CR: nan, CRMA1: nan, CRMA2: nan, CRMA3: nan,
		ROC: nan, ROCMA: nan,
		PSY: nan, PSYMA: nan,
		DMA: nan, AMA: nan,
	}
}

func nanBar(date time.Time, close float64) *market.Bar {
	return &market.Bar{
		Code: "600000", Name: "Test", TradeDate: date,
		Close: decimal.NewFromFloat(close), Volume: 1000,
	}
}

// macdFixture puts a MACD golden cross inside the warm-up slack (day 1) and
// another in range (day 11).
func macdFixture() (*fakeMarketRepo, *fakeIndicatorRepo) {
	diffs := map[int][2]float64{
		0:  {-1, -0.3},
		1:  {-0.5, -0.4}, // cross, before start
		10: {-1, -0.3},
		11: {-0.5, -0.4}, // cross, in range
	}

	var snaps []*domainind.Snapshot
	var bars []*market.Bar
	for i := 0; i <= 12; i++ {
		snap := nanSnap(day(i))
		if dd, ok := diffs[i]; ok {
			snap.Diff, snap.Dea = dd[0], dd[1]
		} else {
			snap.Diff, snap.Dea = -1, -0.3
		}
		snaps = append(snaps, snap)
		bars = append(bars, nanBar(day(i), 10))
	}
	return &fakeMarketRepo{bars: bars}, &fakeIndicatorRepo{snaps: snaps}
}

func TestRunStrategies(t *testing.T) {
	ctx := context.Background()

	t.Run("filters events before the start date", func(t *testing.T) {
		markets, indicators := macdFixture()
		signals := &fakeSignalRepo{}
		svc := NewService(markets, indicators, signals, nil)

		saved, err := svc.RunStrategies(ctx, "600000", day(10))
		if err != nil {
			t.Fatal(err)
		}
		if saved != 1 {
			t.Fatalf("saved = %d, want 1", saved)
		}
		e := signals.events[0]
		if e.Strategy != "macd_cross" || !e.TradeDate.Equal(day(11)) {
			t.Fatalf("event: %+v", e)
		}
	})

	t.Run("short history yields nothing", func(t *testing.T) {
		markets := &fakeMarketRepo{bars: []*market.Bar{nanBar(day(0), 10)}}
		indicators := &fakeIndicatorRepo{snaps: []*domainind.Snapshot{nanSnap(day(0))}}
		signals := &fakeSignalRepo{}
		svc := NewService(markets, indicators, signals, nil)

		saved, err := svc.RunStrategies(ctx, "600000", day(0))
		if err != nil {
			t.Fatal(err)
		}
		if saved != 0 {
			t.Fatalf("saved = %d, want 0", saved)
		}
	})

	t.Run("days missing a bar are dropped from history", func(t *testing.T) {
		markets, indicators := macdFixture()
		markets.bars = markets.bars[:11] // no bar on the cross day
		signals := &fakeSignalRepo{}
		svc := NewService(markets, indicators, signals, nil)

		saved, err := svc.RunStrategies(ctx, "600000", day(10))
		if err != nil {
			t.Fatal(err)
		}
		if saved != 0 {
			t.Fatalf("saved = %d, want 0", saved)
		}
	})
}

func TestRunStrategyByName(t *testing.T) {
	svc := NewService(&fakeMarketRepo{}, &fakeIndicatorRepo{}, &fakeSignalRepo{}, nil)

	if _, err := svc.RunStrategy("nope", nil); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	events, err := svc.RunStrategy("macd_cross", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("empty history must yield no events, got %d", len(events))
	}
}

func TestNotifyDigest(t *testing.T) {
	ctx := context.Background()
	date := day(11)

	events := []*signal.StrategySignal{
		{ID: uuid.New(), Code: "600000", Name: "Alpha", TradeDate: date, Strategy: "macd_cross", SignalType: signal.SignalBuy},
		{ID: uuid.New(), Code: "000001", Name: "Beta", TradeDate: date, Strategy: "macd_cross", SignalType: signal.SignalSell},
		{ID: uuid.New(), Code: "300750", Name: "Gamma", TradeDate: date, Strategy: "kdj", SignalType: signal.SignalBuy},
	}
	signals := &fakeSignalRepo{byDate: events}
	notifier := &fakeNotifier{}
	svc := NewService(&fakeMarketRepo{}, &fakeIndicatorRepo{}, signals, notifier)

	if err := svc.NotifyDigest(ctx, date); err != nil {
		t.Fatal(err)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(notifier.messages))
	}
	msg := notifier.messages[0]
	for _, want := range []string{dates.Format(date), "macd_cross", "kdj", "600000 Alpha", "sell: 000001 Beta"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("digest missing %q:\n%s", want, msg)
		}
	}
}
