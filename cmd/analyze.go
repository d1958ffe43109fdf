package main

import (
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute growth rates and cohort comparisons, write charts and tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()
		return a.runAnalyze(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
