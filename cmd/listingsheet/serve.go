package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"listingsheet/internal/metrics"
	"listingsheet/internal/pipeline"
	"listingsheet/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the paste-and-download web page",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		metrics.MustRegister(prometheus.DefaultRegisterer)
		throttle := server.NewThrottle(cfg.Server.RatePerSec, 2*time.Second)
		srv := server.NewServer(pipeline.NewProcessingService(db, cfg), prometheus.DefaultGatherer, throttle)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start(addr)
		}()

		var serveErr error
		select {
		case <-cmd.Context().Done():
			zap.L().Info("signal received, shutting down")
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				zap.L().Error("http server exited", zap.Error(err))
				serveErr = eris.Wrap(err, "serve")
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)

		return serveErr
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
}
