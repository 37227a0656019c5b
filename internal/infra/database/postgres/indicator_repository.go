package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/homeant/todify/internal/domain/indicator"
)

// IndicatorRepository is the PostgreSQL store for indicator snapshots
// (cn_stock_indicator). NaN crosses the boundary as SQL NULL in both
// directions.
type IndicatorRepository struct {
	pool *Pool
}

// NewIndicatorRepository creates the repository.
func NewIndicatorRepository(pool *Pool) *IndicatorRepository {
	return &IndicatorRepository{pool: pool}
}

var _ indicator.Repository = (*IndicatorRepository)(nil)

// nullable maps NaN to SQL NULL on the way in.
func nullable(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

// floatOrNaN maps SQL NULL back to NaN on the way out.
func floatOrNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

const indicatorColumns = `
	id, code, name, trade_date,
	ma5, ma10, ma20, ma30, ma60,
	diff, dea, macd,
	k, d, j,
	rsi6, rsi12, rsi24,
	boll_up, boll_mid, boll_down,
	vma5, vma10, vma20,
	pdi, mdi, adx, adxr,
	trix, matrix,
	cci, atr,
	cr, cr_ma1, cr_ma2, cr_ma3,
	roc, rocma,
	psy, psyma,
	dma, ama,
	created_at`

func scanSnapshot(row pgx.Row) (*indicator.Snapshot, error) {
	var s indicator.Snapshot
	fields := make([]*float64, 38)
	dest := []any{&s.ID, &s.Code, &s.Name, &s.TradeDate}
	for i := range fields {
		dest = append(dest, &fields[i])
	}
	dest = append(dest, &s.CreatedAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	targets := snapshotFields(&s)
	for i, p := range fields {
		*targets[i] = floatOrNaN(p)
	}
	return &s, nil
}

// snapshotFields lists the numeric fields in column order. Keep in sync with
// indicatorColumns.
func snapshotFields(s *indicator.Snapshot) []*float64 {
	return []*float64{
		&s.MA5, &s.MA10, &s.MA20, &s.MA30, &s.MA60,
		&s.Diff, &s.Dea, &s.Macd,
		&s.K, &s.D, &s.J,
		&s.RSI6, &s.RSI12, &s.RSI24,
		&s.BollUp, &s.BollMid, &s.BollDown,
		&s.VMA5, &s.VMA10, &s.VMA20,
		&s.PDI, &s.MDI, &s.ADX, &s.ADXR,
		&s.Trix, &s.Matrix,
		&s.CCI, &s.ATR,
		&s.CR, &s.CRMA1, &s.CRMA2, &s.CRMA3,
		&s.ROC, &s.ROCMA,
		&s.PSY, &s.PSYMA,
		&s.DMA, &s.AMA,
	}
}

// Get returns the snapshot at (code, date).
func (r *IndicatorRepository) Get(ctx context.Context, code string, date time.Time) (*indicator.Snapshot, error) {
	query := `
		SELECT ` + indicatorColumns + `
		FROM cn_stock_indicator
		WHERE code = $1 AND trade_date = $2
	`

	snap, err := scanSnapshot(r.pool.QueryRow(ctx, query, code, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, indicator.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

// GetHistory returns snapshots from `from` onward, ascending by trade date.
func (r *IndicatorRepository) GetHistory(ctx context.Context, code string, from time.Time) ([]*indicator.Snapshot, error) {
	query := `
		SELECT ` + indicatorColumns + `
		FROM cn_stock_indicator
		WHERE code = $1 AND trade_date >= $2
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, code, from)
	if err != nil {
		return nil, fmt.Errorf("get snapshot history: %w", err)
	}
	defer rows.Close()

	var snaps []*indicator.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get snapshot history: %w", err)
	}

	return snaps, nil
}

// ExistingDates returns the set of trade dates that already have a snapshot,
// normalized to midnight UTC.
func (r *IndicatorRepository) ExistingDates(ctx context.Context, code string, from time.Time) (map[time.Time]bool, error) {
	query := `
		SELECT trade_date
		FROM cn_stock_indicator
		WHERE code = $1 AND trade_date >= $2
	`

	rows, err := r.pool.Query(ctx, query, code, from)
	if err != nil {
		return nil, fmt.Errorf("existing snapshot dates: %w", err)
	}
	defer rows.Close()

	existing := make(map[time.Time]bool)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan trade date: %w", err)
		}
		existing[time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("existing snapshot dates: %w", err)
	}

	return existing, nil
}

// SaveBatch inserts snapshots in one batch. DO NOTHING on conflict keeps the
// insert-once contract even under a concurrent run.
func (r *IndicatorRepository) SaveBatch(ctx context.Context, snapshots []*indicator.Snapshot) (int, error) {
	if len(snapshots) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO cn_stock_indicator (
			code, name, trade_date,
			ma5, ma10, ma20, ma30, ma60,
			diff, dea, macd,
			k, d, j,
			rsi6, rsi12, rsi24,
			boll_up, boll_mid, boll_down,
			vma5, vma10, vma20,
			pdi, mdi, adx, adxr,
			trix, matrix,
			cci, atr,
			cr, cr_ma1, cr_ma2, cr_ma3,
			roc, rocma,
			psy, psyma,
			dma, ama
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7, $8,
			$9, $10, $11,
			$12, $13, $14,
			$15, $16, $17,
			$18, $19, $20,
			$21, $22, $23,
			$24, $25, $26, $27,
			$28, $29,
			$30, $31,
			$32, $33, $34, $35,
			$36, $37,
			$38, $39,
			$40, $41
		)
		ON CONFLICT (code, trade_date) DO NOTHING
	`

	for _, s := range snapshots {
		args := []any{s.Code, s.Name, s.TradeDate}
		for _, p := range snapshotFields(s) {
			args = append(args, nullable(*p))
		}
		batch.Queue(query, args...)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	count := 0
	for range snapshots {
		tag, err := br.Exec()
		if err != nil {
			return count, fmt.Errorf("batch insert snapshot: %w", err)
		}
		count += int(tag.RowsAffected())
	}

	return count, nil
}
