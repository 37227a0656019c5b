package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/homeant/todify/internal/domain/signal"
)

// SignalRepository is the PostgreSQL store for detected signals and strategy
// events (cn_stock_signal, cn_stock_strategy_signal).
type SignalRepository struct {
	pool *Pool
}

// NewSignalRepository creates the repository.
func NewSignalRepository(pool *Pool) *SignalRepository {
	return &SignalRepository{pool: pool}
}

var _ signal.Repository = (*SignalRepository)(nil)

const signalColumns = `
	id, code, name, trade_date,
	macd_golden_cross, macd_dead_cross,
	kdj_golden_cross, kdj_dead_cross, kdj_oversold, kdj_overbought,
	rsi_oversold, rsi_overbought,
	boll_break_up, boll_break_down,
	ma_golden_cross, ma_dead_cross,
	price_rebound,
	ai_analysis, ai_score,
	created_at`

func scanSignal(row pgx.Row) (*signal.Signal, error) {
	var s signal.Signal
	err := row.Scan(
		&s.ID, &s.Code, &s.Name, &s.TradeDate,
		&s.MacdGoldenCross, &s.MacdDeadCross,
		&s.KdjGoldenCross, &s.KdjDeadCross, &s.KdjOversold, &s.KdjOverbought,
		&s.RsiOversold, &s.RsiOverbought,
		&s.BollBreakUp, &s.BollBreakDown,
		&s.MaGoldenCross, &s.MaDeadCross,
		&s.PriceRebound,
		&s.AIAnalysis, &s.AIScore,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get returns the signal at (code, date).
func (r *SignalRepository) Get(ctx context.Context, code string, date time.Time) (*signal.Signal, error) {
	query := `
		SELECT ` + signalColumns + `
		FROM cn_stock_signal
		WHERE code = $1 AND trade_date = $2
	`

	sig, err := scanSignal(r.pool.QueryRow(ctx, query, code, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, signal.ErrSignalNotFound
		}
		return nil, fmt.Errorf("get signal: %w", err)
	}
	return sig, nil
}

const signalInsertColumns = `
	code, name, trade_date,
	macd_golden_cross, macd_dead_cross,
	kdj_golden_cross, kdj_dead_cross, kdj_oversold, kdj_overbought,
	rsi_oversold, rsi_overbought,
	boll_break_up, boll_break_down,
	ma_golden_cross, ma_dead_cross,
	price_rebound`

func signalArgs(s *signal.Signal) []any {
	return []any{
		s.Code, s.Name, s.TradeDate,
		s.MacdGoldenCross, s.MacdDeadCross,
		s.KdjGoldenCross, s.KdjDeadCross, s.KdjOversold, s.KdjOverbought,
		s.RsiOversold, s.RsiOverbought,
		s.BollBreakUp, s.BollBreakDown,
		s.MaGoldenCross, s.MaDeadCross,
		s.PriceRebound,
	}
}

// Save inserts a new signal row.
func (r *SignalRepository) Save(ctx context.Context, sig *signal.Signal) error {
	query := `
		INSERT INTO cn_stock_signal (` + signalInsertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	if _, err := r.pool.Exec(ctx, query, signalArgs(sig)...); err != nil {
		return fmt.Errorf("save signal: %w", err)
	}
	return nil
}

// Upsert inserts or replaces the flag columns at (code, trade_date). The
// ai_analysis/ai_score columns are deliberately left out of the update so a
// recompute never clobbers an attached analysis.
func (r *SignalRepository) Upsert(ctx context.Context, sig *signal.Signal) error {
	query := `
		INSERT INTO cn_stock_signal (` + signalInsertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (code, trade_date) DO UPDATE SET
			name = EXCLUDED.name,
			macd_golden_cross = EXCLUDED.macd_golden_cross,
			macd_dead_cross = EXCLUDED.macd_dead_cross,
			kdj_golden_cross = EXCLUDED.kdj_golden_cross,
			kdj_dead_cross = EXCLUDED.kdj_dead_cross,
			kdj_oversold = EXCLUDED.kdj_oversold,
			kdj_overbought = EXCLUDED.kdj_overbought,
			rsi_oversold = EXCLUDED.rsi_oversold,
			rsi_overbought = EXCLUDED.rsi_overbought,
			boll_break_up = EXCLUDED.boll_break_up,
			boll_break_down = EXCLUDED.boll_break_down,
			ma_golden_cross = EXCLUDED.ma_golden_cross,
			ma_dead_cross = EXCLUDED.ma_dead_cross,
			price_rebound = EXCLUDED.price_rebound
	`

	if _, err := r.pool.Exec(ctx, query, signalArgs(sig)...); err != nil {
		return fmt.Errorf("upsert signal: %w", err)
	}
	return nil
}

// SetAnalysis attaches the AI analysis text and score to an existing row.
func (r *SignalRepository) SetAnalysis(ctx context.Context, code string, date time.Time, analysis string, score float64) error {
	query := `
		UPDATE cn_stock_signal
		SET ai_analysis = $3, ai_score = $4
		WHERE code = $1 AND trade_date = $2
	`

	tag, err := r.pool.Exec(ctx, query, code, date, analysis, score)
	if err != nil {
		return fmt.Errorf("set analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return signal.ErrSignalNotFound
	}
	return nil
}

// SaveStrategySignals inserts strategy events in one batch, skipping
// duplicates of (code, trade_date, strategy, signal_type).
func (r *SignalRepository) SaveStrategySignals(ctx context.Context, events []*signal.StrategySignal) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO cn_stock_strategy_signal
			(id, code, name, trade_date, strategy, signal_type, signal_desc)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code, trade_date, strategy, signal_type) DO NOTHING
	`

	for _, e := range events {
		batch.Queue(query,
			e.ID, e.Code, e.Name, e.TradeDate,
			e.Strategy, string(e.SignalType), e.SignalDesc,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	count := 0
	for range events {
		tag, err := br.Exec()
		if err != nil {
			return count, fmt.Errorf("batch insert strategy signal: %w", err)
		}
		count += int(tag.RowsAffected())
	}

	return count, nil
}

// GetStrategySignalsByDate returns all strategy events for one day.
func (r *SignalRepository) GetStrategySignalsByDate(ctx context.Context, date time.Time) ([]*signal.StrategySignal, error) {
	query := `
		SELECT id, code, name, trade_date, strategy, signal_type, signal_desc, created_at
		FROM cn_stock_strategy_signal
		WHERE trade_date = $1
		ORDER BY strategy, code
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("get strategy signals: %w", err)
	}
	defer rows.Close()

	var events []*signal.StrategySignal
	for rows.Next() {
		var e signal.StrategySignal
		var sigType string
		err := rows.Scan(&e.ID, &e.Code, &e.Name, &e.TradeDate, &e.Strategy, &sigType, &e.SignalDesc, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan strategy signal: %w", err)
		}
		e.SignalType = signal.SignalType(sigType)
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get strategy signals: %w", err)
	}

	return events, nil
}
