package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/auth"
	"github.com/rustyeddy/papertrade/config"
	"github.com/rustyeddy/papertrade/engine"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/sim"
	"github.com/rustyeddy/papertrade/store"
	"github.com/rustyeddy/papertrade/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the paper-trading API server",
	Long: `Run the HTTP API server backing the trading frontend.

Without --config the built-in defaults apply: SQLite store at
./papertrade.db, listener on :5000, no trade journal. Store credentials
for the remote bin store come from BIN_ID / BIN_API_KEY (a .env file is
honored).

Example:
  papertrade serve --config config.yaml`,
	RunE: runServe,
}

var serveConfigPath string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
}

func runServe(cmd *cobra.Command, args []string) error {
	var (
		cfg *config.Config
		err error
	)
	if serveConfigPath != "" {
		cfg, err = config.LoadFromFile(serveConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = config.Default()
		if err := cfg.ApplyEnv(); err != nil {
			return err
		}
	}

	logger := logrus.New()

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	simulator := sim.New()
	eng := engine.New(cfg.Trading.ContractSize)
	authSvc := auth.NewService(st, cfg.Trading.StartingBalance)

	timeout, err := cfg.Session.ParseTimeout()
	if err != nil {
		return fmt.Errorf("session timeout: %w", err)
	}

	// Let instrument trends drift over time so a long-running server
	// doesn't grind in one direction forever.
	go evolveTrends(simulator)

	srv := web.NewServer(simulator, eng, st, authSvc, logger, web.Options{
		Addr:           cfg.Server.Addr,
		AllowOrigin:    cfg.Server.AllowOrigin,
		SessionTimeout: timeout,
		Journal:        j,
	})

	logger.Infof("store: %s, journal: %s", cfg.Store.Type, journalLabel(cfg))
	return srv.Start()
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Type {
	case "bin":
		return store.NewBin(cfg.Store.BinURL, cfg.Store.BinID, cfg.Store.BinKey), nil
	case "memory":
		return store.NewMemory(), nil
	default:
		return store.NewSQLite(cfg.Store.Path)
	}
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile)
	default:
		return journal.Nop{}, nil
	}
}

func journalLabel(cfg *config.Config) string {
	if cfg.Journal.Type == "" {
		return "none"
	}
	return cfg.Journal.Type
}

func evolveTrends(s *sim.Simulator) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		for symbol := range market.Instruments {
			s.EvolveTrend(symbol)
		}
	}
}
