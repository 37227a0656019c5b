package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	indicatorsCode  string
	indicatorsStart string
)

var indicatorsCmd = &cobra.Command{
	Use:   "indicators",
	Short: "Materialize indicator snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		start, err := parseDateFlag(indicatorsStart)
		if err != nil {
			return err
		}

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		codes, err := a.resolveCodes(ctx, indicatorsCode)
		if err != nil {
			return err
		}

		for _, code := range codes {
			if _, err := a.indicatorSvc.ComputeIndicators(ctx, code, start); err != nil {
				log.Warn().Str("code", code).Err(err).Msg("Indicator run failed, continuing")
			}
		}

		return nil
	},
}

func init() {
	indicatorsCmd.Flags().StringVar(&indicatorsCode, "code", "", "stock code (default all stored codes)")
	indicatorsCmd.Flags().StringVar(&indicatorsStart, "start", "", "start date YYYY-MM-DD (default today)")
}
