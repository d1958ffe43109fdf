package main

import (
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download PUMS microdata and BLS CE flat files",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()
		return a.runFetch(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
