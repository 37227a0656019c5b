package signal

import (
	"time"

	"github.com/google/uuid"
)

// Signal is one stock's detected technical signals for one trading day.
// Maps to cn_stock_signal. A row exists only when at least one flag is true;
// days without a firing predicate leave no row. Flags and trade_date are
// immutable once written; only AIAnalysis/AIScore may be attached later.
type Signal struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	TradeDate time.Time `json:"trade_date"`

	MacdGoldenCross bool `json:"macd_golden_cross"`
	MacdDeadCross   bool `json:"macd_dead_cross"`
	KdjGoldenCross  bool `json:"kdj_golden_cross"`
	KdjDeadCross    bool `json:"kdj_dead_cross"`
	KdjOversold     bool `json:"kdj_oversold"`
	KdjOverbought   bool `json:"kdj_overbought"`
	RsiOversold     bool `json:"rsi_oversold"`
	RsiOverbought   bool `json:"rsi_overbought"`
	BollBreakUp     bool `json:"boll_break_up"`
	BollBreakDown   bool `json:"boll_break_down"`
	MaGoldenCross   bool `json:"ma_golden_cross"`
	MaDeadCross     bool `json:"ma_dead_cross"`
	PriceRebound    bool `json:"price_rebound"`

	AIAnalysis *string  `json:"ai_analysis,omitempty"`
	AIScore    *float64 `json:"ai_score,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Any reports whether at least one flag fired.
func (s *Signal) Any() bool {
	return s.MacdGoldenCross || s.MacdDeadCross ||
		s.KdjGoldenCross || s.KdjDeadCross || s.KdjOversold || s.KdjOverbought ||
		s.RsiOversold || s.RsiOverbought ||
		s.BollBreakUp || s.BollBreakDown ||
		s.MaGoldenCross || s.MaDeadCross ||
		s.PriceRebound
}

// SignalType classifies a strategy event.
type SignalType string

const (
	SignalBuy  SignalType = "buy"
	SignalSell SignalType = "sell"
)

// StrategySignal is one buy/sell event emitted by a named strategy.
// Maps to cn_stock_strategy_signal; multiple strategies may emit independent
// events for the same (code, trade_date).
type StrategySignal struct {
	ID         uuid.UUID  `json:"id"`
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	TradeDate  time.Time  `json:"trade_date"`
	Strategy   string     `json:"strategy"`
	SignalType SignalType `json:"signal_type"`
	SignalDesc string     `json:"signal_desc"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ReplayPolicy decides what a signal re-run does with an existing row.
type ReplayPolicy string

const (
	// ReplaySkip leaves existing rows untouched (idempotent replay).
	ReplaySkip ReplayPolicy = "skip"
	// ReplayRecompute upserts flags so downstream AI analysis can refresh.
	ReplayRecompute ReplayPolicy = "recompute"
)

// IsValid reports whether the policy is a known value.
func (p ReplayPolicy) IsValid() bool {
	return p == ReplaySkip || p == ReplayRecompute
}
