package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the trade journal",
	Long: `Query closed-trade records from a SQLite trade journal.

Subcommands:
  user   - List a user's closed trades
  day    - List trades closed on a specific day

Examples:
  papertrade journal --db ./journal.db user alice
  papertrade journal --db ./journal.db day 2026-08-31`,
}

var journalUserCmd = &cobra.Command{
	Use:   "user <username>",
	Short: "List a user's closed trades",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalUser,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalUserCmd)
	journalCmd.AddCommand(journalDayCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./journal.db", "path to SQLite journal DB")
}

func runJournalUser(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.ListTradesByUser(args[0])
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	printTrades(recs)
	return nil
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	start, end, err := dayBounds(time.Local, args[0])
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := j.ListTradesClosedBetween(start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	printTrades(recs)
	return nil
}

func printTrades(recs []journal.TradeRecord) {
	if len(recs) == 0 {
		fmt.Println("no trades")
		return
	}

	var total float64
	fmt.Printf("%-28s %-10s %-8s %-5s %8s %12s %12s %12s\n",
		"ORDER", "USER", "SYMBOL", "SIDE", "LOTS", "OPEN", "CLOSE", "PNL")
	for _, r := range recs {
		fmt.Printf("%-28s %-10s %-8s %-5s %8.2f %12.4f %12.4f %12.2f\n",
			r.OrderID, r.Username, r.Symbol, r.Side, r.LotSize, r.OpenPrice, r.ClosePrice, r.PnL)
		total += r.PnL
	}
	fmt.Printf("\n%d trades, net P&L %.2f\n", len(recs), total)
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)
	return start, end, nil
}
