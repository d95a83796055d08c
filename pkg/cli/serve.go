package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/ledgerkit/txcleanup/pkg/cli/config"
	controller "github.com/ledgerkit/txcleanup/pkg/controller/http"
	"github.com/ledgerkit/txcleanup/pkg/usecase"
	"github.com/ledgerkit/txcleanup/pkg/utils/async"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		rulesCfg   config.Rules
		cleanerCfg config.Cleaner
		usageCfg   config.Usage
		slackCfg   config.Slack
	)

	var flags []cli.Flag
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, rulesCfg.Flags()...)
	flags = append(flags, cleanerCfg.Flags()...)
	flags = append(flags, usageCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			extractors, err := rulesCfg.Load()
			if err != nil {
				return err
			}

			store, closeStore, err := usageCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			logger.Info("Starting txcleanup server",
				slog.Any("server", serverCfg),
				slog.Any("slack", slackCfg),
				slog.String("rules", rulesCfg.Path),
				slog.Int("extractors", len(extractors)),
			)

			var background async.Group
			cleanOpts := []usecase.CleanOption{usecase.WithCleanerOptions(cleanerCfg.Options()...)}
			if store != nil {
				cleanOpts = append(cleanOpts,
					usecase.WithUsageStore(store),
					usecase.WithBackgroundSave(&background),
				)
			}
			cleanUC := usecase.NewClean(extractors, cleanOpts...)
			reportUC := usecase.NewReport(extractors, store, slackCfg.Configure())

			server, err := controller.NewServer(
				ctx,
				cleanUC,
				reportUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithJWTSecret(serverCfg.JWTSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			serveErr := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					serveErr <- goerr.Wrap(err, "HTTP server failed", goerr.V("addr", serverCfg.Addr))
				}
				close(serveErr)
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err, ok := <-serveErr:
				if ok {
					return err
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}
			// usage of the last requests is saved after their response was sent
			if err := background.Wait(shutdownCtx); err != nil {
				logger.Warn("Pending usage saves abandoned", "error", err)
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
