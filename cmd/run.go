package main

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: fetch, process, analyze",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()

		_, err = a.driver.Run(cmd.Context(), a.buildSteps())
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
