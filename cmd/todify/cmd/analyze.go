package cmd

import (
	"github.com/spf13/cobra"
)

var (
	analyzeCode string
	analyzeDate string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Attach an LLM assessment to a detected signal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		date, err := parseDateFlag(analyzeDate)
		if err != nil {
			return err
		}

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		return a.analysisSvc.AnalyzeSignal(ctx, analyzeCode, date)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCode, "code", "", "stock code")
	analyzeCmd.Flags().StringVar(&analyzeDate, "date", "", "trade date YYYY-MM-DD (default today)")
	analyzeCmd.MarkFlagRequired("code")
}
