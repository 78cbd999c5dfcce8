package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"listingsheet/internal/config"
	"listingsheet/internal/storage"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "listingsheet",
	Short: "Turn pasted restaurant directory listings into spreadsheets",
	Long:  "Normalizes raw directory-listing text into a Name/Address/Description/Phone table with WhatsApp links and exports it as Data.xlsx.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(processCmd, serveCmd, watchCmd, runsCmd)
}

func openDB() (*storage.DB, error) {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, eris.Wrap(err, "open run history")
	}
	return db, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
