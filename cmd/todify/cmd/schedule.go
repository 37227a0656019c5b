package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/homeant/todify/internal/jobs"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the daily pipeline on a cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		scheduler, err := jobs.NewScheduler(cfg.Pipeline.CronSpec, a.pipeline)
		if err != nil {
			return err
		}

		scheduler.Start()
		log.Info().Str("spec", cfg.Pipeline.CronSpec).Msg("Waiting for scheduled runs, Ctrl+C to stop")

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		scheduler.Stop()
		return nil
	},
}
