package postgres_test

import (
	"context"
	"testing"

	"github.com/homeant/todify/internal/infra/database/postgres"
	"github.com/homeant/todify/internal/pkg/config"
)

func TestNewPool(t *testing.T) {
	t.Skip("Integration test - requires PostgreSQL")

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestPoolHealth(t *testing.T) {
	t.Skip("Integration test - requires PostgreSQL")

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	health := pool.Health(ctx)
	if health.Status != "healthy" {
		t.Fatalf("status = %s (%s)", health.Status, health.Error)
	}
	if health.MaxConns <= 0 {
		t.Fatalf("max conns = %d", health.MaxConns)
	}
}
