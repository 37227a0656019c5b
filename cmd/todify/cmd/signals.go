package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	signalsCode  string
	signalsStart string
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Materialize detected signals",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		start, err := parseDateFlag(signalsStart)
		if err != nil {
			return err
		}

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		codes, err := a.resolveCodes(ctx, signalsCode)
		if err != nil {
			return err
		}

		for _, code := range codes {
			if _, err := a.signalSvc.ComputeSignals(ctx, code, start); err != nil {
				log.Warn().Str("code", code).Err(err).Msg("Signal run failed, continuing")
			}
		}

		return nil
	},
}

func init() {
	signalsCmd.Flags().StringVar(&signalsCode, "code", "", "stock code (default all stored codes)")
	signalsCmd.Flags().StringVar(&signalsStart, "start", "", "start date YYYY-MM-DD (default today)")
}
