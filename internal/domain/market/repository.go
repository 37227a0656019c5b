package market

import (
	"context"
	"time"
)

// Repository defines storage for bars, dragon-tiger rows and block trades.
type Repository interface {
	// GetBar returns the bar at (code, date), ErrBarNotFound when absent.
	GetBar(ctx context.Context, code string, date time.Time) (*Bar, error)

	// GetBarHistory returns bars for a stock from `from` onward, ascending by date.
	GetBarHistory(ctx context.Context, code string, from time.Time) ([]*Bar, error)

	// GetLowestLow returns the minimum low over the n most recent bars at or
	// before date. ErrBarNotFound when the stock has no bars in that window.
	GetLowestLow(ctx context.Context, code string, date time.Time, n int) (float64, error)

	// SaveBars inserts bars that are not yet present; existing (code, date)
	// rows are left untouched. Returns the number of rows inserted.
	SaveBars(ctx context.Context, bars []*Bar) (int, error)

	// SaveLhbEntries inserts dragon-tiger rows, skipping existing keys.
	SaveLhbEntries(ctx context.Context, entries []*LhbEntry) (int, error)

	// SaveBlockTrades inserts block trade rows, skipping existing keys.
	SaveBlockTrades(ctx context.Context, trades []*BlockTrade) (int, error)

	// ListCodes returns the distinct stock codes present in the bar table.
	ListCodes(ctx context.Context) ([]string, error)
}

// Client fetches raw market data from the upstream quote provider.
type Client interface {
	// FetchStockList returns all listed A-share stocks.
	FetchStockList(ctx context.Context) ([]*StockInfo, error)

	// FetchDailyBars returns daily bars for one stock in [from, to].
	FetchDailyBars(ctx context.Context, code string, from, to time.Time) ([]*Bar, error)

	// FetchTopList returns the dragon-tiger ranking for one day.
	FetchTopList(ctx context.Context, date time.Time) ([]*LhbEntry, error)

	// FetchBlockTrades returns block trades for one day.
	FetchBlockTrades(ctx context.Context, date time.Time) ([]*BlockTrade, error)
}
