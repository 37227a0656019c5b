package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/homeant/todify/internal/domain/signal"
)

type fakeSignalRepo struct {
	sig      *signal.Signal
	analysis string
	score    float64
	set      bool
}

func (f *fakeSignalRepo) Get(ctx context.Context, code string, date time.Time) (*signal.Signal, error) {
	if f.sig == nil {
		return nil, signal.ErrSignalNotFound
	}
	return f.sig, nil
}

func (f *fakeSignalRepo) Save(ctx context.Context, sig *signal.Signal) error   { return nil }
func (f *fakeSignalRepo) Upsert(ctx context.Context, sig *signal.Signal) error { return nil }

func (f *fakeSignalRepo) SetAnalysis(ctx context.Context, code string, date time.Time, analysis string, score float64) error {
	f.analysis = analysis
	f.score = score
	f.set = true
	return nil
}

func (f *fakeSignalRepo) SaveStrategySignals(ctx context.Context, events []*signal.StrategySignal) (int, error) {
	return 0, nil
}

func (f *fakeSignalRepo) GetStrategySignalsByDate(ctx context.Context, date time.Time) ([]*signal.StrategySignal, error) {
	return nil, nil
}

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	return f.reply, f.err
}

func testSignal() *signal.Signal {
	return &signal.Signal{
		Code:            "600000",
		Name:            "PuFa Bank",
		TradeDate:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		MacdGoldenCross: true,
		KdjOversold:     true,
	}
}

func TestExtractScore(t *testing.T) {
	cases := []struct {
		reply string
		want  float64
	}{
		{"Looks bullish.\nScore: 72", 72},
		{"score=85.5", 85.5},
		{"The SCORE is 33 out of 100", 33},
		{"no number here", 50},
		{"", 50},
		{"Score: 250", 100},
	}
	for _, c := range cases {
		if got := extractScore(c.reply); got != c.want {
			t.Errorf("extractScore(%q) = %v, want %v", c.reply, got, c.want)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(testSignal())
	if !strings.Contains(prompt, "600000") || !strings.Contains(prompt, "2024-03-15") {
		t.Fatalf("prompt missing identity: %q", prompt)
	}
	if !strings.Contains(prompt, "MACD golden cross") || !strings.Contains(prompt, "KDJ oversold") {
		t.Fatalf("prompt missing firing flags: %q", prompt)
	}
	if strings.Contains(prompt, "dead cross") {
		t.Fatalf("prompt lists flags that did not fire: %q", prompt)
	}
}

func TestAnalyzeSignal(t *testing.T) {
	ctx := context.Background()

	t.Run("attaches reply and score", func(t *testing.T) {
		repo := &fakeSignalRepo{sig: testSignal()}
		svc := NewService(repo, &fakeCompleter{reply: "Bullish setup.\nScore: 78"})

		if err := svc.AnalyzeSignal(ctx, "600000", testSignal().TradeDate); err != nil {
			t.Fatal(err)
		}
		if !repo.set || repo.score != 78 {
			t.Fatalf("set=%v score=%v", repo.set, repo.score)
		}
		if !strings.Contains(repo.analysis, "Bullish") {
			t.Fatalf("analysis = %q", repo.analysis)
		}
	})

	t.Run("missing signal propagates", func(t *testing.T) {
		svc := NewService(&fakeSignalRepo{}, &fakeCompleter{reply: "x"})
		err := svc.AnalyzeSignal(ctx, "600000", testSignal().TradeDate)
		if !errors.Is(err, signal.ErrSignalNotFound) {
			t.Fatalf("expected ErrSignalNotFound, got %v", err)
		}
	})

	t.Run("completion failure leaves the row untouched", func(t *testing.T) {
		repo := &fakeSignalRepo{sig: testSignal()}
		svc := NewService(repo, &fakeCompleter{err: errors.New("rate limited")})

		if err := svc.AnalyzeSignal(ctx, "600000", testSignal().TradeDate); err == nil {
			t.Fatal("expected error")
		}
		if repo.set {
			t.Fatal("analysis must not be attached on failure")
		}
	})
}
