// Package jobs runs the daily end-to-end pipeline and its cron schedule.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/homeant/todify/internal/domain/market"
	"github.com/homeant/todify/internal/pkg/dates"
)

// Collector ingests the day's raw market data.
type Collector interface {
	CollectBars(ctx context.Context, date time.Time) (int, error)
	CollectTopList(ctx context.Context, date time.Time) (int, error)
	CollectBlockTrades(ctx context.Context, date time.Time) (int, error)
}

// SignalComputer materializes signals for one stock.
type SignalComputer interface {
	ComputeSignals(ctx context.Context, code string, startDate time.Time) (int, error)
}

// StrategyRunner materializes strategy events and pushes the digest.
type StrategyRunner interface {
	RunStrategies(ctx context.Context, code string, startDate time.Time) (int, error)
	NotifyDigest(ctx context.Context, date time.Time) error
}

// Pipeline is the daily run: collect, then per stock signals and strategies,
// then the digest. Indicator materialization happens inside the collector as
// each stock's bars land.
type Pipeline struct {
	collector     Collector
	signals       SignalComputer
	strategies    StrategyRunner
	markets       market.Repository
	maxConcurrent int
}

// NewPipeline creates the pipeline. maxConcurrent bounds the per-stock
// worker pool; values below 1 are treated as 1.
func NewPipeline(collector Collector, signals SignalComputer, strategies StrategyRunner, markets market.Repository, maxConcurrent int) *Pipeline {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Pipeline{
		collector:     collector,
		signals:       signals,
		strategies:    strategies,
		markets:       markets,
		maxConcurrent: maxConcurrent,
	}
}

// Run executes the pipeline for one date. Weekends are skipped. Per-stock
// failures are logged and counted, never fatal; only infrastructure errors
// (stock list, code listing) abort the run.
func (p *Pipeline) Run(ctx context.Context, date time.Time) error {
	date = dates.Day(date)
	if dates.IsWeekend(date) {
		log.Info().Str("date", dates.Format(date)).Msg("Weekend, skipping pipeline run")
		return nil
	}

	started := time.Now()
	log.Info().Str("date", dates.Format(date)).Msg("Pipeline run started")

	if _, err := p.collector.CollectBars(ctx, date); err != nil {
		return fmt.Errorf("collect bars: %w", err)
	}
	if _, err := p.collector.CollectTopList(ctx, date); err != nil {
		log.Warn().Err(err).Msg("Top-seat list collection failed, continuing")
	}
	if _, err := p.collector.CollectBlockTrades(ctx, date); err != nil {
		log.Warn().Err(err).Msg("Block trade collection failed, continuing")
	}

	codes, err := p.markets.ListCodes(ctx)
	if err != nil {
		return fmt.Errorf("list codes: %w", err)
	}

	failed := p.fanOut(ctx, codes, date)

	if err := p.strategies.NotifyDigest(ctx, date); err != nil {
		log.Warn().Err(err).Msg("Digest notification failed")
	}

	log.Info().
		Str("date", dates.Format(date)).
		Int("stocks", len(codes)).
		Int("failed", failed).
		Dur("elapsed", time.Since(started)).
		Msg("Pipeline run finished")

	return nil
}

// fanOut runs signals and strategies per stock through a bounded worker
// pool. Stocks are independent; a failure affects only its own stock.
func (p *Pipeline) fanOut(ctx context.Context, codes []string, date time.Time) int {
	sem := make(chan struct{}, p.maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0

	for _, code := range codes {
		wg.Add(1)
		sem <- struct{}{}
		go func(code string) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := p.runStock(ctx, code, date); err != nil {
				log.Warn().Str("code", code).Err(err).Msg("Stock pipeline failed")
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(code)
	}
	wg.Wait()

	return failed
}

func (p *Pipeline) runStock(ctx context.Context, code string, date time.Time) error {
	if _, err := p.signals.ComputeSignals(ctx, code, date); err != nil {
		return fmt.Errorf("signals: %w", err)
	}
	if _, err := p.strategies.RunStrategies(ctx, code, date); err != nil {
		return fmt.Errorf("strategies: %w", err)
	}
	return nil
}
