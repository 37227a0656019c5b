package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	strategiesCode  string
	strategiesStart string
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "Run the strategy set and save events",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		start, err := parseDateFlag(strategiesStart)
		if err != nil {
			return err
		}

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		codes, err := a.resolveCodes(ctx, strategiesCode)
		if err != nil {
			return err
		}

		for _, code := range codes {
			if _, err := a.strategySvc.RunStrategies(ctx, code, start); err != nil {
				log.Warn().Str("code", code).Err(err).Msg("Strategy run failed, continuing")
			}
		}

		if err := a.strategySvc.NotifyDigest(ctx, start); err != nil {
			log.Warn().Err(err).Msg("Digest notification failed")
		}

		return nil
	},
}

func init() {
	strategiesCmd.Flags().StringVar(&strategiesCode, "code", "", "stock code (default all stored codes)")
	strategiesCmd.Flags().StringVar(&strategiesStart, "start", "", "start date YYYY-MM-DD (default today)")
}
