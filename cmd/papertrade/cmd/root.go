package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "papertrade",
	Short: "A demo paper-trading backend with simulated market data",
	Long: `Papertrade is a demo trading backend written in Go.

It provides:
  - A simulated price feed for XAUUSD and EURUSD with session-aware activity
  - A position ledger with margin checks and P&L accounting
  - An HTTP API with cookie sessions for a browser frontend
  - Pluggable account stores (SQLite, remote JSON bin, in-memory)
  - An optional trade journal for closed positions`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
