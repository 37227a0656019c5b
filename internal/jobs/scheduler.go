package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/homeant/todify/internal/pkg/dates"
)

// Scheduler runs the pipeline on a cron spec (six fields, with seconds).
type Scheduler struct {
	cron     *cron.Cron
	pipeline *Pipeline
}

// NewScheduler creates the scheduler and registers the pipeline job.
func NewScheduler(spec string, pipeline *Pipeline) (*Scheduler, error) {
	c := cron.New(cron.WithSeconds())

	s := &Scheduler{cron: c, pipeline: pipeline}
	_, err := c.AddFunc(spec, func() {
		ctx := context.Background()
		if err := pipeline.Run(ctx, dates.Today()); err != nil {
			log.Error().Err(err).Msg("Scheduled pipeline run failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	return s, nil
}

// Start begins the schedule in the background.
func (s *Scheduler) Start() {
	log.Info().Msg("Scheduler started")
	s.cron.Start()
}

// Stop halts the schedule, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Scheduler stopped")
}
