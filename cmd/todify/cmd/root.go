// Package cmd - todify CLI commands
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homeant/todify/internal/pkg/config"
	"github.com/homeant/todify/internal/pkg/logger"
)

var (
	cfg     *config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "todify",
	Short: "todify - A-share technical signal pipeline",
	Long: `todify - A-share technical signal pipeline

Commands:
    fetch        collect daily bars, top-seat list and block trades
    indicators   materialize indicator snapshots
    signals      materialize detected signals
    strategies   run the strategy set and save events
    analyze      attach an LLM assessment to a signal
    schedule     run the daily pipeline on a cron schedule
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(indicatorsCmd)
	rootCmd.AddCommand(signalsCmd)
	rootCmd.AddCommand(strategiesCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(scheduleCmd)
}

// initConfig loads .env configuration and initializes the logger.
func initConfig() error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}

	return logger.Init(logger.Config{
		Level:          level,
		Format:         cfg.Logging.Format,
		FileEnabled:    cfg.Logging.FileEnabled,
		FilePath:       cfg.Logging.FilePath,
		RotationSize:   cfg.Logging.RotationSize,
		RetentionDays:  cfg.Logging.RetentionDays,
		ServiceName:    "todify",
		ServiceVersion: "1.0.0",
	})
}
