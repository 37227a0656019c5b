// Package collect ingests daily market data from the upstream quote provider.
package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/homeant/todify/internal/domain/market"
	"github.com/homeant/todify/internal/pkg/dates"
)

// IndicatorComputer triggers indicator materialization after a stock's bars
// have landed.
type IndicatorComputer interface {
	ComputeIndicators(ctx context.Context, code string, startDate time.Time) (int, error)
}

// Service pulls bars, top-seat list rows and block trades into the store.
type Service struct {
	client     market.Client
	markets    market.Repository
	indicators IndicatorComputer
}

// NewService creates the service.
func NewService(client market.Client, markets market.Repository, indicators IndicatorComputer) *Service {
	return &Service{
		client:     client,
		markets:    markets,
		indicators: indicators,
	}
}

// CollectBars fetches and stores one day's bar for every listed stock, then
// triggers that stock's indicator computation. A failing stock is logged and
// skipped; the batch continues. Returns the number of stocks that failed.
func (s *Service) CollectBars(ctx context.Context, date time.Time) (int, error) {
	date = dates.Day(date)

	stocks, err := s.client.FetchStockList(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch stock list: %w", err)
	}

	log.Info().
		Str("date", dates.Format(date)).
		Int("stocks", len(stocks)).
		Msg("Collecting daily bars")

	failed := 0
	for _, stock := range stocks {
		if err := s.collectStock(ctx, stock, date); err != nil {
			log.Warn().
				Str("code", stock.Code).
				Err(err).
				Msg("Stock collection failed, continuing")
			failed++
		}
	}

	log.Info().
		Str("date", dates.Format(date)).
		Int("failed", failed).
		Msg("Daily bar collection finished")

	return failed, nil
}

func (s *Service) collectStock(ctx context.Context, stock *market.StockInfo, date time.Time) error {
	bars, err := s.client.FetchDailyBars(ctx, stock.Code, date, date)
	if err != nil {
		return fmt.Errorf("fetch bars: %w", err)
	}
	if len(bars) == 0 {
		return nil
	}

	if _, err := s.markets.SaveBars(ctx, bars); err != nil {
		return fmt.Errorf("save bars: %w", err)
	}

	if _, err := s.indicators.ComputeIndicators(ctx, stock.Code, date); err != nil {
		return fmt.Errorf("compute indicators: %w", err)
	}

	return nil
}

// CollectTopList fetches and stores the day's top-seat list.
func (s *Service) CollectTopList(ctx context.Context, date time.Time) (int, error) {
	date = dates.Day(date)

	entries, err := s.client.FetchTopList(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("fetch top list: %w", err)
	}

	saved, err := s.markets.SaveLhbEntries(ctx, entries)
	if err != nil {
		return 0, fmt.Errorf("save top list: %w", err)
	}

	log.Info().
		Str("date", dates.Format(date)).
		Int("fetched", len(entries)).
		Int("saved", saved).
		Msg("Top-seat list collected")

	return saved, nil
}

// CollectBlockTrades fetches and stores the day's block trades.
func (s *Service) CollectBlockTrades(ctx context.Context, date time.Time) (int, error) {
	date = dates.Day(date)

	trades, err := s.client.FetchBlockTrades(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("fetch block trades: %w", err)
	}

	saved, err := s.markets.SaveBlockTrades(ctx, trades)
	if err != nil {
		return 0, fmt.Errorf("save block trades: %w", err)
	}

	log.Info().
		Str("date", dates.Format(date)).
		Int("fetched", len(trades)).
		Int("saved", saved).
		Msg("Block trades collected")

	return saved, nil
}
