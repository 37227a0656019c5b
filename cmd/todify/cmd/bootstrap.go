package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/homeant/todify/internal/domain/signal"
	"github.com/homeant/todify/internal/infra/database/postgres"
	"github.com/homeant/todify/internal/infra/eastmoney"
	"github.com/homeant/todify/internal/infra/llm"
	"github.com/homeant/todify/internal/infra/telegram"
	"github.com/homeant/todify/internal/jobs"
	"github.com/homeant/todify/internal/pkg/dates"
	"github.com/homeant/todify/internal/service/analysis"
	"github.com/homeant/todify/internal/service/collect"
	indsvc "github.com/homeant/todify/internal/service/indicator"
	sigsvc "github.com/homeant/todify/internal/service/signal"
	stratsvc "github.com/homeant/todify/internal/service/strategy"
)

// app wires the pool, repositories and services for one command run.
type app struct {
	pool *postgres.Pool

	markets    *postgres.MarketRepository
	indicators *postgres.IndicatorRepository
	signals    *postgres.SignalRepository

	collectSvc   *collect.Service
	indicatorSvc *indsvc.Service
	signalSvc    *sigsvc.Service
	strategySvc  *stratsvc.Service
	analysisSvc  *analysis.Service
	pipeline     *jobs.Pipeline
}

// bootstrap connects, migrates the schema and builds the service graph.
func bootstrap(ctx context.Context) (*app, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	health := pool.Health(ctx)
	log.Debug().
		Str("status", health.Status).
		Int32("total_conns", health.TotalConns).
		Int32("max_conns", health.MaxConns).
		Msg("Database pool health")

	markets := postgres.NewMarketRepository(pool)
	indicators := postgres.NewIndicatorRepository(pool)
	signals := postgres.NewSignalRepository(pool)

	indicatorSvc := indsvc.NewService(markets, indicators, cfg.Pipeline.LookbackDays)

	signalSvc, err := sigsvc.NewService(markets, indicators, signals, signal.ReplayPolicy(cfg.Pipeline.SignalReplay))
	if err != nil {
		pool.Close()
		return nil, err
	}

	notifier := telegram.NewNotifier(cfg.Telegram)
	strategySvc := stratsvc.NewService(markets, indicators, signals, notifier)

	client := eastmoney.NewClient(cfg.Eastmoney)
	collectSvc := collect.NewService(client, markets, indicatorSvc)

	analysisSvc := analysis.NewService(signals, llm.NewClient(cfg.LLM))

	pipeline := jobs.NewPipeline(collectSvc, signalSvc, strategySvc, markets, cfg.Pipeline.MaxConcurrent)

	return &app{
		pool:         pool,
		markets:      markets,
		indicators:   indicators,
		signals:      signals,
		collectSvc:   collectSvc,
		indicatorSvc: indicatorSvc,
		signalSvc:    signalSvc,
		strategySvc:  strategySvc,
		analysisSvc:  analysisSvc,
		pipeline:     pipeline,
	}, nil
}

func (a *app) close() {
	a.pool.Close()
}

// parseDateFlag parses a --date/--start value, defaulting to today.
func parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return dates.Today(), nil
	}
	d, err := dates.Parse(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", value, err)
	}
	return d, nil
}

// resolveCodes returns the single requested code, or every stored code.
func (a *app) resolveCodes(ctx context.Context, code string) ([]string, error) {
	if code != "" {
		return []string{code}, nil
	}
	return a.markets.ListCodes(ctx)
}
