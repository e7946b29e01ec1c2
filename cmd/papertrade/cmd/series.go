package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/sim"
)

var seriesCmd = &cobra.Command{
	Use:   "series <symbol>",
	Short: "Print a simulated candle series",
	Long: `Generate and print a simulated OHLCV series for one symbol.

Useful for eyeballing the price process without running the server.

Example:
  papertrade series XAUUSD --period 1d --interval 1h`,
	Args: cobra.ExactArgs(1),
	RunE: runSeries,
}

var (
	seriesPeriod   string
	seriesInterval string
)

func init() {
	rootCmd.AddCommand(seriesCmd)

	seriesCmd.Flags().StringVarP(&seriesPeriod, "period", "p", "5d", "series length (1d, 5d, 1mo, 3mo)")
	seriesCmd.Flags().StringVarP(&seriesInterval, "interval", "i", "1h", "candle interval (1h, 1d)")
}

func runSeries(cmd *cobra.Command, args []string) error {
	symbol := args[0]
	if !market.Valid(symbol) {
		return fmt.Errorf("unknown symbol: %s", symbol)
	}

	interval := market.Interval(seriesInterval)
	points := market.Points(market.Period(seriesPeriod), interval)

	candles := sim.New().GenerateSeries(symbol, points, interval)

	fmt.Printf("%-25s %12s %12s %12s %12s %10s\n", "TIME", "OPEN", "HIGH", "LOW", "CLOSE", "VOLUME")
	for _, c := range candles {
		fmt.Printf("%-25s %12.4f %12.4f %12.4f %12.4f %10d\n",
			c.Time.Format("2006-01-02T15:04:05Z07:00"), c.Open, c.High, c.Low, c.Close, c.Volume)
	}
	fmt.Printf("\n%d candles, final close %.4f\n", len(candles), candles[len(candles)-1].Close)

	return nil
}
