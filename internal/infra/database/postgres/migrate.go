package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/rs/zerolog/log"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies the embedded schema. Every statement is CREATE ... IF NOT
// EXISTS, so running it against an existing database is a no-op.
func Migrate(ctx context.Context, pool *Pool) error {
	log.Info().Msg("Applying database schema...")

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	log.Info().Msg("✅ Database schema up to date")
	return nil
}
