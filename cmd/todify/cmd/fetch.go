package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var fetchDate string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Collect daily bars, top-seat list and block trades",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		date, err := parseDateFlag(fetchDate)
		if err != nil {
			return err
		}

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		failed, err := a.collectSvc.CollectBars(ctx, date)
		if err != nil {
			return err
		}
		if failed > 0 {
			log.Warn().Int("failed", failed).Msg("Some stocks failed to collect")
		}

		if _, err := a.collectSvc.CollectTopList(ctx, date); err != nil {
			log.Warn().Err(err).Msg("Top-seat list collection failed")
		}
		if _, err := a.collectSvc.CollectBlockTrades(ctx, date); err != nil {
			log.Warn().Err(err).Msg("Block trade collection failed")
		}

		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDate, "date", "", "trade date YYYY-MM-DD (default today)")
}
