package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/homeant/todify/internal/domain/market"
)

// MarketRepository is the PostgreSQL store for bars, top-seat list rows and
// block trades (cn_stock_daily, cn_stock_lhb, cn_stock_block_trade).
type MarketRepository struct {
	pool *Pool
}

// NewMarketRepository creates the repository.
func NewMarketRepository(pool *Pool) *MarketRepository {
	return &MarketRepository{pool: pool}
}

var _ market.Repository = (*MarketRepository)(nil)

const barColumns = `id, code, name, trade_date, open, high, low, close, volume, amount, turnover, created_at`

func scanBar(row pgx.Row) (*market.Bar, error) {
	var b market.Bar
	err := row.Scan(
		&b.ID, &b.Code, &b.Name, &b.TradeDate,
		&b.Open, &b.High, &b.Low, &b.Close,
		&b.Volume, &b.Amount, &b.Turnover, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBar returns the bar at (code, date).
func (r *MarketRepository) GetBar(ctx context.Context, code string, date time.Time) (*market.Bar, error) {
	query := `
		SELECT ` + barColumns + `
		FROM cn_stock_daily
		WHERE code = $1 AND trade_date = $2
	`

	bar, err := scanBar(r.pool.QueryRow(ctx, query, code, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, market.ErrBarNotFound
		}
		return nil, fmt.Errorf("get bar: %w", err)
	}
	return bar, nil
}

// GetBarHistory returns bars from `from` onward, ascending by trade date.
func (r *MarketRepository) GetBarHistory(ctx context.Context, code string, from time.Time) ([]*market.Bar, error) {
	query := `
		SELECT ` + barColumns + `
		FROM cn_stock_daily
		WHERE code = $1 AND trade_date >= $2
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, code, from)
	if err != nil {
		return nil, fmt.Errorf("get bar history: %w", err)
	}
	defer rows.Close()

	var bars []*market.Bar
	for rows.Next() {
		bar, err := scanBar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		bars = append(bars, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get bar history: %w", err)
	}

	return bars, nil
}

// GetLowestLow returns the minimum low over the n most recent bars at or
// before date.
func (r *MarketRepository) GetLowestLow(ctx context.Context, code string, date time.Time, n int) (float64, error) {
	query := `
		SELECT MIN(low) FROM (
			SELECT low
			FROM cn_stock_daily
			WHERE code = $1 AND trade_date <= $2 AND low IS NOT NULL
			ORDER BY trade_date DESC
			LIMIT $3
		) window_lows
	`

	var lowest *float64
	if err := r.pool.QueryRow(ctx, query, code, date, n).Scan(&lowest); err != nil {
		return 0, fmt.Errorf("get lowest low: %w", err)
	}
	if lowest == nil {
		return 0, market.ErrBarNotFound
	}
	return *lowest, nil
}

// SaveBars inserts bars that are not yet present. Existing (code, trade_date)
// rows are left untouched. Returns the number of rows inserted.
func (r *MarketRepository) SaveBars(ctx context.Context, bars []*market.Bar) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO cn_stock_daily
			(code, name, trade_date, open, high, low, close, volume, amount, turnover)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (code, trade_date) DO NOTHING
	`

	for _, bar := range bars {
		batch.Queue(query,
			bar.Code, bar.Name, bar.TradeDate,
			bar.Open, bar.High, bar.Low, bar.Close,
			bar.Volume, bar.Amount, bar.Turnover,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	count := 0
	for range bars {
		tag, err := br.Exec()
		if err != nil {
			return count, fmt.Errorf("batch insert bar: %w", err)
		}
		count += int(tag.RowsAffected())
	}

	return count, nil
}

// SaveLhbEntries inserts top-seat list rows, skipping existing keys.
func (r *MarketRepository) SaveLhbEntries(ctx context.Context, entries []*market.LhbEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO cn_stock_lhb
			(code, name, trade_date, reason, net_buy, buy_amount, sell_amount, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code, trade_date, reason) DO NOTHING
	`

	for _, e := range entries {
		batch.Queue(query,
			e.Code, e.Name, e.TradeDate, e.Reason,
			e.NetBuy, e.BuyAmount, e.SellAmount, e.TotalAmount,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	count := 0
	for range entries {
		tag, err := br.Exec()
		if err != nil {
			return count, fmt.Errorf("batch insert lhb entry: %w", err)
		}
		count += int(tag.RowsAffected())
	}

	return count, nil
}

// SaveBlockTrades inserts block trade rows, skipping existing keys.
func (r *MarketRepository) SaveBlockTrades(ctx context.Context, trades []*market.BlockTrade) (int, error) {
	if len(trades) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO cn_stock_block_trade
			(code, name, trade_date, price, volume, amount, buyer, seller, premium)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (code, trade_date, buyer, seller, price, volume) DO NOTHING
	`

	for _, t := range trades {
		batch.Queue(query,
			t.Code, t.Name, t.TradeDate,
			t.Price, t.Volume, t.Amount,
			t.Buyer, t.Seller, t.Premium,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	count := 0
	for range trades {
		tag, err := br.Exec()
		if err != nil {
			return count, fmt.Errorf("batch insert block trade: %w", err)
		}
		count += int(tag.RowsAffected())
	}

	return count, nil
}

// ListCodes returns the distinct stock codes present in the bar table.
func (r *MarketRepository) ListCodes(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT code FROM cn_stock_daily ORDER BY code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list codes: %w", err)
	}

	return codes, nil
}
