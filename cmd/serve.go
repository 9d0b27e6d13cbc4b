package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"resmatch/internal/bootstrap"
	"resmatch/internal/bootstrap/logging"
	"resmatch/internal/errs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the match HTTP API and the invalidation event subscriber",
	RunE: withApp(func(cmd *cobra.Command, components bootstrap.Components) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := components.Subscriber.Start(ctx); err != nil {
			return errs.Wrap(err, "start event subscriber")
		}
		if err := components.Server.Start(ctx); err != nil {
			return errs.Wrap(err, "start http server")
		}

		logging.Info(ctx, "serving",
			slog.String("http_addr", components.App.Config.HTTP.Addr),
			slog.String("nats_url", components.App.Config.Events.NATSURL),
		)

		<-ctx.Done()
		logging.Info(ctx, "shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := components.Server.Stop(shutdownCtx); err != nil {
			logging.Error(shutdownCtx, "http server shutdown failed", slog.Any("err", errs.Loggable(err)))
		}
		if err := components.Subscriber.Stop(shutdownCtx); err != nil {
			logging.Error(shutdownCtx, "event subscriber shutdown failed", slog.Any("err", errs.Loggable(err)))
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
