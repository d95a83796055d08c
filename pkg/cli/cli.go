package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/ledgerkit/txcleanup/pkg/cli/config"
	"github.com/ledgerkit/txcleanup/pkg/domain/types"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	return newApp().Run(ctx, args)
}

func newApp() *app {
	a := &app{}
	a.cmd = &cli.Command{
		Name:    "txcleanup",
		Usage:   "Clean payees of beancount transactions with regex extractors",
		Version: types.Version,
		Flags:   append(a.loggerCfg.Flags(), a.sentryCfg.Flags()...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.ErrWriter != nil {
				a.loggerCfg.Output = c.ErrWriter
			}
			logger, err := a.loggerCfg.Configure()
			if err != nil {
				return nil, err
			}
			a.logger = logger

			if err := a.sentryCfg.Configure(); err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			return ctxlog.With(ctx, logger), nil
		},
		Commands: []*cli.Command{
			cmdClean(),
			cmdCheck(),
			cmdUsage(),
			cmdServe(),
		},
	}
	return a
}

type app struct {
	cmd       *cli.Command
	loggerCfg config.Logger
	sentryCfg config.Sentry
	logger    *slog.Logger
}

func (a *app) Run(ctx context.Context, args []string) error {
	if err := a.cmd.Run(ctx, args); err != nil {
		logger := a.logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		a.sentryCfg.Report(err)
		return err
	}

	return nil
}
