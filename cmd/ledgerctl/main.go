// Command ledgerctl inspects and repairs trip ledgers directly against the
// database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mmynk/tripledger/internal/cli"
	"github.com/mmynk/tripledger/internal/config"
	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/reconcile"
	"github.com/mmynk/tripledger/internal/storage/sqlite"
	"github.com/mmynk/tripledger/pkg/logging"
)

var (
	flagConfig  string
	flagDB      string
	flagNoColor bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "ledgerctl",
	Short:         "Trip ledger maintenance CLI",
	Long:          "Inspect balances and settlement transfers of a trip, and rebuild them when needed.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.Path(), "Config file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (overrides config and DB_PATH)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app is what every command needs: settings, storage and a reconciler.
type app struct {
	cfg        config.FileConfig
	store      *sqlite.SQLiteStore
	reconciler *reconcile.Reconciler
}

// setup loads the config file, applies flag and env overrides and opens
// the database. Callers must Close the returned app.
func setup() (*app, error) {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(logging.New(os.Stderr, "text", level))

	cfg, err := config.LoadFile(flagConfig)
	if err != nil {
		return nil, err
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		cfg.Database.Path = path
	}
	if flagDB != "" {
		cfg.Database.Path = flagDB
	}
	cli.SetColor(cfg.Output.Color && !flagNoColor)

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.Database.Path, err)
	}
	slog.Debug("Storage initialized", "database", cfg.Database.Path)

	return &app{
		cfg:        cfg,
		store:      store,
		reconciler: reconcile.New(store, ledger.NewCalculator(cfg.LedgerConfig())),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// trip loads a trip by ID for display.
func (a *app) trip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip, err := a.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("loading trip: %w", err)
	}
	return trip, nil
}

// actor resolves who a write is attributed to: the flag, then the config.
func (a *app) actor(flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.Output.Actor
}
