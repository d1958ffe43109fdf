package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/econlink/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "econlink",
	Short: "Links Census PUMS noncitizen shares to BLS employment and earnings trends",
	Long: "Fetches ACS PUMS microdata and BLS CE time series, joins them by NAICS code, " +
		"and compares growth in high noncitizen-share industries against the rest.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
