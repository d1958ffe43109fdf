package main

import (
	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Compute noncitizen shares and resolve BLS series per industry",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()
		return a.runProcess(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}
